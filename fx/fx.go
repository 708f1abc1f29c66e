// Package fx projects home-currency debt into the reference currency using a
// three-tier rate priority: the contracted rate of a linked hedge
// ("synthetic"), the historical spot at actual cancellation ("real"), or an
// interpolated forward-curve rate at maturity ("implicit").
package fx

import (
	"github.com/rustyeddy/treasury/arbitrage"
	"github.com/rustyeddy/treasury/config"
	"github.com/rustyeddy/treasury/debt"
	"github.com/rustyeddy/treasury/rates"
)

// RateSource names which tier of the priority chain resolved the projection
// rate.
type RateSource string

const (
	SourceSynthetic RateSource = "synthetic"
	SourceReal      RateSource = "real"
	SourceImplicit  RateSource = "implicit"
)

// Analysis is the reference-currency cost picture of one debt.
type Analysis struct {
	ReceivedRef  float64
	RepaidRef    float64
	InterestRef  float64
	CFTRef       float64
	TEDRef       float64
	SelectedRate float64
	Source       RateSource
}

// Analyze projects a home-currency debt into the reference currency.
//
// The repayment rate is chosen by priority: a hedge linked to this debt
// (synthetic), the spot on or before the actual cancellation date for
// cancelled debts (real), then the forward curve interpolated at the due
// date (implicit). It returns (nil, false) when no rate resolves or the
// received reference amount is non-positive.
func Analyze(inst debt.Instrument, fin debt.Financials, fwd rates.Snapshot,
	s config.Settings, spots rates.Series, hedges []arbitrage.Operation) (*Analysis, bool) {

	rate, source, ok := selectRate(inst, fwd, spots, hedges)
	if !ok || rate <= 0 {
		return nil, false
	}

	// The spot at origination converts the disbursement. A series with no
	// usable point falls back to 1.0 here so the ratio stays meaningful
	// instead of propagating a missing value; the debt is then effectively
	// reported in home units.
	origSpot, okSpot := spots.RateOn(inst.Origination)
	if !okSpot || origSpot <= 0 {
		origSpot = 1.0
	}

	a := &Analysis{
		SelectedRate: rate,
		Source:       source,
		ReceivedRef:  fin.NetDisbursed / origSpot,
		RepaidRef:    fin.TotalToRepay / rate,
	}
	if a.ReceivedRef <= 0 {
		return nil, false
	}
	a.InterestRef = a.RepaidRef - a.ReceivedRef

	basis := float64(s.AnnualBasis)
	if basis == 0 {
		basis = config.Basis365
	}
	if fin.TermDays > 0 {
		a.TEDRef = a.RepaidRef/a.ReceivedRef - 1
		a.CFTRef = a.TEDRef / float64(fin.TermDays) * basis * 100
	}
	return a, true
}

func selectRate(inst debt.Instrument, fwd rates.Snapshot, spots rates.Series,
	hedges []arbitrage.Operation) (float64, RateSource, bool) {

	// Synthetic: a hedge covering this debt fixes the repayment rate.
	for _, op := range arbitrage.ForDebt(hedges, inst.ID) {
		if op.ContractRate > 0 {
			return op.ContractRate, SourceSynthetic, true
		}
	}

	// Real: the debt already settled at a historical spot.
	if inst.IsCancelled() {
		if r, ok := spots.RateOn(*inst.CancelledOn); ok {
			return r, SourceReal, true
		}
	}

	// Implicit: project the due date along the forward curve anchored at
	// the origination spot (1.0 fallback mirrors the disbursement leg).
	origSpot, ok := spots.RateOn(inst.Origination)
	if !ok || origSpot <= 0 {
		origSpot = 1.0
	}
	if r, ok := fwd.Interpolate(inst.Due, origSpot); ok {
		return r, SourceImplicit, true
	}
	return 0, "", false
}
