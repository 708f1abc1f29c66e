package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}
	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordDebt(r DebtRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO debt_results
		(run_id, as_of, debt_id, currency, net_disbursed, total_to_repay,
		 accrued_interest, total_interest, ted, cft, rate_source, cft_ref)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.AsOf, r.DebtID, r.Currency, r.NetDisbursed, r.TotalToRepay,
		r.AccruedInterest, r.TotalInterest, r.TED, r.CFT, r.RateSource, r.CFTRef,
	)
	return err
}

func (j *SQLiteJournal) RecordHolding(r HoldingRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO holding_results
		(run_id, as_of, instrument_id, quantity, cost_basis, market_value,
		 realized_pl, unrealized_pl, tea, active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.AsOf, r.InstrumentID, r.Quantity, r.CostBasis, r.MarketValue,
		r.RealizedPL, r.UnrealizedPL, r.TEA, r.Active,
	)
	return err
}

func (j *SQLiteJournal) RecordArbitrage(r ArbitrageRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO arbitrage_results
		(run_id, as_of, op_id, settled, closing_rate, real_pl, internal_pl, spread_pl)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.AsOf, r.OpID, r.Settled, r.ClosingRate, r.RealPL, r.InternalPL, r.SpreadPL,
	)
	return err
}

// DebtHistory returns the recorded debt rows for a run, oldest first.
func (j *SQLiteJournal) DebtHistory(runID string) ([]DebtRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, as_of, debt_id, currency, net_disbursed, total_to_repay,
		       accrued_interest, total_interest, ted, cft, rate_source, cft_ref
		FROM debt_results WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DebtRecord
	for rows.Next() {
		var r DebtRecord
		if err := rows.Scan(&r.RunID, &r.AsOf, &r.DebtID, &r.Currency,
			&r.NetDisbursed, &r.TotalToRepay, &r.AccruedInterest, &r.TotalInterest,
			&r.TED, &r.CFT, &r.RateSource, &r.CFTRef); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
