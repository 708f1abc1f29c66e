// Package engine runs the full calculation set over an entity snapshot: debt
// financials with cross-currency projection, portfolio holdings, and hedge
// P&L attribution. One instrument failing to resolve never blocks the rest
// of the report.
package engine

import (
	"fmt"
	"time"

	"github.com/rustyeddy/treasury/arbitrage"
	"github.com/rustyeddy/treasury/config"
	"github.com/rustyeddy/treasury/dates"
	"github.com/rustyeddy/treasury/debt"
	"github.com/rustyeddy/treasury/fx"
	"github.com/rustyeddy/treasury/internal/diag"
	"github.com/rustyeddy/treasury/portfolio"
	"github.com/rustyeddy/treasury/rates"
)

// Snapshot is the immutable input state: every entity plus the market data
// observed as of the report date. The engine never mutates a snapshot, so
// replaying the same snapshot with the same as-of date and settings is
// guaranteed to reproduce the same report.
type Snapshot struct {
	// HomeCurrency is the currency whose debts get cross-currency
	// projection into the reference currency.
	HomeCurrency string

	Debts       []debt.Instrument
	Investments []portfolio.Instrument
	Hedges      []arbitrage.Operation

	// Spots is the home/reference daily spot series.
	Spots rates.Series
	// Forward is the forward-rate curve observed at its anchor date.
	Forward rates.Snapshot
	// Prices maps investment IDs to their market price series.
	Prices map[string]rates.Series
}

// DebtReport is one debt's financials plus, for home-currency debts, the
// reference-currency projection (nil when no rate resolved).
type DebtReport struct {
	ID         string
	Currency   string
	Financials debt.Financials
	FX         *fx.Analysis
}

// HoldingReport is one holding plus the attributed P&L of hedge operations
// linked to its transactions, giving the strategy-inclusive return picture.
type HoldingReport struct {
	portfolio.Holding

	// HedgePL sums the real P&L of resolved operations linked to this
	// instrument's transactions.
	HedgePL float64
	// TotalWithHedges is the holding's total P&L plus HedgePL.
	TotalWithHedges float64
}

// Report is the complete output of one engine run.
type Report struct {
	AsOf     time.Time
	Settings config.Settings

	Debts     []DebtReport
	Holdings  []HoldingReport
	Arbitrage arbitrage.Result

	// Skipped lists instruments dropped for invariant violations.
	Skipped []string
}

// Run computes the full report. It returns an error only for broken caller
// contracts (zero as-of date, invalid settings); data-quality problems
// degrade to warnings and affect only the record that carried them.
func Run(snap Snapshot, asOf time.Time, s config.Settings) (Report, error) {
	if asOf.IsZero() {
		return Report{}, fmt.Errorf("engine: as-of date is required")
	}
	if err := s.Validate(); err != nil {
		return Report{}, fmt.Errorf("engine: %w", err)
	}

	r := Report{AsOf: asOf, Settings: s}

	for _, inst := range snap.Debts {
		if err := inst.Validate(); err != nil {
			diag.Warnf("skipping debt: %v", err)
			r.Skipped = append(r.Skipped, inst.ID)
			continue
		}
		// A cancellation dated after the report date has not happened yet as
		// of this run: the debt is still active here.
		if inst.CancelledOn != nil && dates.Normalize(*inst.CancelledOn).After(dates.Normalize(asOf)) {
			diag.Warnf("debt %s: cancellation date %s is after the report date, treating as active",
				inst.ID, inst.CancelledOn.Format("2006-01-02"))
			inst.CancelledOn = nil
			inst.Status = debt.Active
		}
		dr := DebtReport{
			ID:         inst.ID,
			Currency:   inst.Currency,
			Financials: debt.Compute(inst, asOf, s),
		}
		if snap.HomeCurrency != "" && inst.Currency == snap.HomeCurrency {
			if a, ok := fx.Analyze(inst, dr.Financials, snap.Forward, s, snap.Spots, snap.Hedges); ok {
				dr.FX = a
			}
		}
		r.Debts = append(r.Debts, dr)
	}

	r.Arbitrage = arbitrage.Attribute(snap.Hedges, asOf, snap.Spots, snap.Forward)
	opPL := make(map[string]float64, len(r.Arbitrage.Ops))
	for _, op := range r.Arbitrage.Ops {
		opPL[op.ID] = op.RealPL
	}

	for _, inst := range snap.Investments {
		hr := HoldingReport{
			Holding: portfolio.Valuation(inst, asOf, snap.Prices[inst.ID], s),
		}
		hr.HedgePL = hedgePL(snap.Hedges, inst, opPL)
		hr.TotalWithHedges = hr.TotalPL + hr.HedgePL
		r.Holdings = append(r.Holdings, hr)
	}

	return r, nil
}

// hedgePL sums the resolved P&L of operations linked to any of the
// instrument's transactions.
func hedgePL(hedges []arbitrage.Operation, inst portfolio.Instrument, opPL map[string]float64) float64 {
	txIDs := make(map[string]struct{}, len(inst.Transactions))
	for _, tx := range inst.Transactions {
		if tx.ID != "" {
			txIDs[tx.ID] = struct{}{}
		}
	}
	if len(txIDs) == 0 {
		return 0
	}
	var total float64
	for _, op := range hedges {
		if _, linked := txIDs[op.TransactionID]; linked && op.TransactionID != "" {
			total += opPL[op.ID]
		}
	}
	return total
}
