// Package arbitrage attributes the P&L of currency hedge operations linked
// to debts or investment transactions: realized legs once settled, latent
// mark-to-market legs against the forward curve, and the internal-vs-real
// spread when an operation carries an internal bookkeeping rate.
package arbitrage

import (
	"time"

	"github.com/rustyeddy/treasury/dates"
	"github.com/rustyeddy/treasury/rates"
)

// Position direction of a hedge operation.
type Position string

const (
	Long  Position = "long"
	Short Position = "short"
)

// Operation is one hedge/arbitrage contract.
type Operation struct {
	ID       string   `json:"id" yaml:"id"`
	Position Position `json:"position" yaml:"position"`
	Notional float64  `json:"notional" yaml:"notional"`

	// ContractRate is the rate actually dealt in the market ("real" leg).
	ContractRate float64 `json:"contract_rate" yaml:"contract_rate"`
	// InternalRate, when set, is the rate used for internal-margin
	// bookkeeping; it drives a parallel P&L leg.
	InternalRate *float64 `json:"internal_rate,omitempty" yaml:"internal_rate,omitempty"`

	Start    time.Time `json:"start" yaml:"start"`
	Maturity time.Time `json:"maturity" yaml:"maturity"`

	CancelledOn *time.Time `json:"cancelled_on,omitempty" yaml:"cancelled_on,omitempty"`
	CancelRate  *float64   `json:"cancel_rate,omitempty" yaml:"cancel_rate,omitempty"`

	// Links to the entity the hedge covers, at most one of the two.
	DebtID        string `json:"debt_id,omitempty" yaml:"debt_id,omitempty"`
	TransactionID string `json:"transaction_id,omitempty" yaml:"transaction_id,omitempty"`
}

// SettlementDate is the actual cancellation date when cancelled early, the
// contractual maturity otherwise.
func (op Operation) SettlementDate() time.Time {
	if op.CancelledOn != nil {
		return *op.CancelledOn
	}
	return op.Maturity
}

// SettledBy reports whether the operation is closed as of the given date.
func (op Operation) SettledBy(asOf time.Time) bool {
	return !dates.Normalize(op.SettlementDate()).After(dates.Normalize(asOf))
}

// OpResult is the attribution of a single operation in reference currency.
type OpResult struct {
	ID          string
	Settled     bool
	ClosingRate float64
	RealPL      float64
	InternalPL  float64
	HasInternal bool
	SpreadPL    float64
}

// Result aggregates attribution across operations. Operations whose closing
// rate could not be resolved are listed in Unresolved and excluded from the
// totals rather than silently counted as zero.
type Result struct {
	RealPL     float64
	InternalPL float64
	SpreadPL   float64
	Ops        []OpResult
	Unresolved []string
}

func sign(p Position) float64 {
	if p == Short {
		return -1
	}
	return 1
}

// Attribute computes realized and latent hedge P&L as of a snapshot date.
//
// Settled operations close at their recorded cancellation rate, or at the
// spot rate on the settlement date. Open-but-started operations mark to
// market against the forward snapshot at their maturity. Operations that
// have not started yet are skipped.
func Attribute(ops []Operation, asOf time.Time, spots rates.Series, fwd rates.Snapshot) Result {
	var res Result
	for _, op := range ops {
		if dates.Normalize(op.Start).After(dates.Normalize(asOf)) {
			continue
		}

		var closing, convSpot float64
		var ok bool
		settled := op.SettledBy(asOf)
		if settled {
			if op.CancelRate != nil {
				closing, ok = *op.CancelRate, true
			} else {
				closing, ok = spots.RateOn(op.SettlementDate())
			}
			convSpot, _ = spots.RateOn(op.SettlementDate())
			if op.CancelRate != nil && convSpot == 0 {
				// A recorded cancellation rate can stand in for a missing
				// spot when converting.
				convSpot = closing
			}
		} else {
			cur, curOK := spots.RateOn(asOf)
			if curOK {
				closing, ok = fwd.Interpolate(op.Maturity, cur)
			}
			convSpot = cur
		}
		if !ok || convSpot <= 0 {
			res.Unresolved = append(res.Unresolved, op.ID)
			continue
		}

		or := OpResult{ID: op.ID, Settled: settled, ClosingRate: closing}
		or.RealPL = sign(op.Position) * (op.ContractRate - closing) * op.Notional / convSpot
		if op.InternalRate != nil {
			or.HasInternal = true
			or.InternalPL = sign(op.Position) * (*op.InternalRate - closing) * op.Notional / convSpot
			or.SpreadPL = or.InternalPL + or.RealPL
			res.InternalPL += or.InternalPL
			res.SpreadPL += or.SpreadPL
		}
		res.RealPL += or.RealPL
		res.Ops = append(res.Ops, or)
	}
	return res
}

// ForDebt returns the operations linked to a debt instrument.
func ForDebt(ops []Operation, debtID string) []Operation {
	if debtID == "" {
		return nil
	}
	var out []Operation
	for _, op := range ops {
		if op.DebtID == debtID {
			out = append(out, op)
		}
	}
	return out
}
