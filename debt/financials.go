package debt

import (
	"time"

	"github.com/rustyeddy/treasury/config"
	"github.com/rustyeddy/treasury/dates"
	"github.com/rustyeddy/treasury/internal/diag"
)

// Financials is the computed cost/cashflow picture of one instrument.
type Financials struct {
	NetDisbursed  float64
	UpfrontCosts  float64
	MaturityCosts float64

	OrdinaryInterest float64
	PunitiveInterest float64
	// TotalInterest is ordinary + punitive, or the user-confirmed override.
	TotalInterest float64
	// AccruedInterest is the interest earned by the as-of date, prorated
	// linearly over the elapsed term.
	AccruedInterest float64

	TotalToRepay float64

	// TermDays runs from origination to cancellation if cancelled, due
	// otherwise.
	TermDays int
	// TED is the total effective cost over the full term, pre-annualization.
	TED float64
	// CFT is the annualized total financing cost in percent.
	CFT float64
}

// Compute derives the full financials of an instrument as of a date.
//
// It never fails: malformed data degrades to zero-valued sub-terms with a
// diagnostic warning, because the engine replays years of historical records
// and one bad instrument must not abort a portfolio-wide report.
func Compute(inst Instrument, asOf time.Time, s config.Settings) Financials {
	basis := float64(s.AnnualBasis)
	if basis == 0 {
		basis = config.Basis365
	}

	var f Financials
	for _, c := range []Cost{inst.Commission, inst.Stamps, inst.MarketFees} {
		amt := c.Resolve(inst.Face)
		if c.Timing == PreTiming {
			f.UpfrontCosts += amt
		} else {
			f.MaturityCosts += amt
		}
	}

	switch inst.Mode {
	case FutureValue:
		f.NetDisbursed = inst.GrossProceeds - f.UpfrontCosts
	default:
		f.NetDisbursed = inst.Face - f.UpfrontCosts
	}

	end := inst.EffectiveEnd()
	f.TermDays = dates.DayCount(inst.Origination, end)

	// Ordinary interest over the effective term.
	switch inst.Mode {
	case FutureValue:
		// The face/proceeds spread is the interest; no separate rate formula.
		f.OrdinaryInterest = inst.Face - inst.GrossProceeds
		if f.OrdinaryInterest < 0 {
			diag.Warnf("debt %s: gross proceeds %.2f exceed face %.2f, treating discount as zero",
				inst.ID, inst.GrossProceeds, inst.Face)
			f.OrdinaryInterest = 0
		}
	default:
		f.OrdinaryInterest = inst.Face * (inst.NominalRate / 100 / basis) * float64(f.TermDays)
	}

	// Punitive interest accrues only on days strictly past due.
	overdueDays := dates.DayCount(inst.Due, end)
	f.PunitiveInterest = inst.Face * (inst.PunitiveRate / 100 / basis) * float64(overdueDays)

	f.TotalInterest = f.OrdinaryInterest + f.PunitiveInterest

	switch inst.Mode {
	case FutureValue:
		// Ordinary interest is already embedded in the face-vs-proceeds
		// spread; only punitive interest and maturity costs add on top.
		f.TotalToRepay = inst.Face + f.PunitiveInterest + f.MaturityCosts
	default:
		f.TotalToRepay = inst.Face + f.OrdinaryInterest + f.PunitiveInterest + f.MaturityCosts
	}

	// A user-confirmed paid-interest figure replaces the computed interest;
	// the delta folds into the repayment total.
	if inst.PaidInterestOverride != nil {
		delta := *inst.PaidInterestOverride - f.TotalInterest
		f.TotalInterest = *inst.PaidInterestOverride
		f.TotalToRepay += delta
	}
	if inst.CancelPenalty != 0 {
		f.TotalToRepay += inst.CancelPenalty
	}

	f.AccruedInterest = accruedAsOf(inst, f, asOf, basis)

	// Cost-of-funds ratios, guarded against degenerate terms.
	if f.NetDisbursed > 0 && f.TermDays > 0 {
		f.TED = f.TotalToRepay/f.NetDisbursed - 1
		f.CFT = f.TED / float64(f.TermDays) * basis * 100
	}

	return f
}

// accruedAsOf prorates interest over the elapsed term for stock reporting
// prior to maturity. Once the as-of date reaches the cancellation date the
// accrual equals the final (possibly overridden) total interest.
func accruedAsOf(inst Instrument, f Financials, asOf time.Time, basis float64) float64 {
	if asOf.IsZero() {
		return 0
	}
	if inst.IsCancelled() && !dates.Normalize(asOf).Before(dates.Normalize(*inst.CancelledOn)) {
		return f.TotalInterest
	}

	capped := asOf
	if dates.Normalize(asOf).After(dates.Normalize(inst.Due)) {
		capped = inst.Due
	}

	var accrued float64
	switch inst.Mode {
	case FutureValue:
		// Apportion the total discount linearly by elapsed days.
		total := dates.DayCount(inst.Origination, inst.Due)
		if total > 0 {
			elapsed := dates.DayCount(inst.Origination, capped)
			accrued = f.OrdinaryInterest * float64(elapsed) / float64(total)
		}
	default:
		elapsed := dates.DayCount(inst.Origination, capped)
		accrued = inst.Face * (inst.NominalRate / 100 / basis) * float64(elapsed)
	}

	// Punitive accrual for days already elapsed past due. DayCount is 0
	// while the as-of date has not reached the due date.
	overdue := dates.DayCount(inst.Due, asOf)
	accrued += inst.Face * (inst.PunitiveRate / 100 / basis) * float64(overdue)

	return accrued
}
