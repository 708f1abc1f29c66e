package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

// CSVJournal writes debt and holding rows to two CSV files. Arbitrage rows
// go into the debts file alongside the debts they hedge.
type CSVJournal struct {
	debts    *csv.Writer
	holdings *csv.Writer
	df, hf   *os.File
}

func NewCSV(debtsPath, holdingsPath string) (*CSVJournal, error) {
	df, err := os.Create(debtsPath)
	if err != nil {
		return nil, err
	}
	hf, err := os.Create(holdingsPath)
	if err != nil {
		df.Close()
		return nil, err
	}

	dw := csv.NewWriter(df)
	hw := csv.NewWriter(hf)

	if err := dw.Write([]string{"run_id", "as_of", "record", "id", "currency",
		"net_disbursed", "total_to_repay", "accrued_interest", "total_interest",
		"ted", "cft", "rate_source", "cft_ref"}); err != nil {
		return nil, err
	}
	if err := hw.Write([]string{"run_id", "as_of", "instrument_id", "quantity",
		"cost_basis", "market_value", "realized_pl", "unrealized_pl", "tea", "active"}); err != nil {
		return nil, err
	}

	dw.Flush()
	if err := dw.Error(); err != nil {
		return nil, err
	}
	hw.Flush()
	if err := hw.Error(); err != nil {
		return nil, err
	}

	return &CSVJournal{debts: dw, holdings: hw, df: df, hf: hf}, nil
}

func (j *CSVJournal) RecordDebt(r DebtRecord) error {
	err := j.debts.Write([]string{
		r.RunID,
		r.AsOf.Format(time.RFC3339),
		"debt",
		r.DebtID,
		r.Currency,
		f(r.NetDisbursed),
		f(r.TotalToRepay),
		f(r.AccruedInterest),
		f(r.TotalInterest),
		f(r.TED),
		f(r.CFT),
		r.RateSource,
		f(r.CFTRef),
	})
	if err != nil {
		return err
	}
	j.debts.Flush()
	return j.debts.Error()
}

func (j *CSVJournal) RecordHolding(r HoldingRecord) error {
	err := j.holdings.Write([]string{
		r.RunID,
		r.AsOf.Format(time.RFC3339),
		r.InstrumentID,
		f(r.Quantity),
		f(r.CostBasis),
		f(r.MarketValue),
		f(r.RealizedPL),
		f(r.UnrealizedPL),
		f(r.TEA),
		strconv.FormatBool(r.Active),
	})
	if err != nil {
		return err
	}
	j.holdings.Flush()
	return j.holdings.Error()
}

func (j *CSVJournal) RecordArbitrage(r ArbitrageRecord) error {
	err := j.debts.Write([]string{
		r.RunID,
		r.AsOf.Format(time.RFC3339),
		"arbitrage",
		r.OpID,
		"",
		f(r.RealPL),
		f(r.InternalPL),
		f(r.SpreadPL),
		f(r.ClosingRate),
		"",
		"",
		strconv.FormatBool(r.Settled),
		"",
	})
	if err != nil {
		return err
	}
	j.debts.Flush()
	return j.debts.Error()
}

func (j *CSVJournal) Close() error {
	j.debts.Flush()
	if err := j.debts.Error(); err != nil {
		return err
	}
	j.holdings.Flush()
	if err := j.holdings.Error(); err != nil {
		return err
	}
	if err := j.df.Close(); err != nil {
		return err
	}
	return j.hf.Close()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
