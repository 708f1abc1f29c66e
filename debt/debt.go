// Package debt models treasury debt instruments (loans and discount paper)
// and computes their effective cost: simple-interest accrual, punitive
// interest past due, front/back-loaded fees, and the CFT/TED cost-of-funds
// ratios.
package debt

import (
	"fmt"
	"math"
	"time"

	"github.com/rustyeddy/treasury/internal/diag"
)

// Mode selects how the disbursed amount relates to the face value.
type Mode string

const (
	// PresentValue is a plain loan: the face amount is disbursed and
	// interest accrues on top of it.
	PresentValue Mode = "present_value"
	// FutureValue is a discount instrument: the face is the maturity value
	// and the disbursed proceeds are informed separately; the face/proceeds
	// spread is the interest.
	FutureValue Mode = "future_value"
)

// Status of an instrument.
type Status string

const (
	Active    Status = "active"
	Cancelled Status = "cancelled"
)

// CostKind distinguishes fixed-amount costs from percentage-of-face costs.
type CostKind string

const (
	FixedCost   CostKind = "fixed"
	PercentCost CostKind = "percent"
)

// CostTiming tags when a cost hits the cashflow.
type CostTiming string

const (
	// PreTiming costs are deducted at disbursement.
	PreTiming CostTiming = "pre"
	// PostTiming costs are added at repayment.
	PostTiming CostTiming = "post"
)

// Cost is one of the instrument's three cost items (commission, stamps,
// market fees) resolved to a tagged variant at the ingestion boundary.
type Cost struct {
	Kind   CostKind   `json:"kind" yaml:"kind"`
	Timing CostTiming `json:"timing" yaml:"timing"`
	Value  float64    `json:"value" yaml:"value"` // amount or percent of face
}

// legacyPercentMax bounds what a bare legacy numeric cost can plausibly be.
// Historical records encoded costs as raw percentages; anything larger is a
// record of the wrong shape that leaked into the field.
const legacyPercentMax = 100.0

// NormalizeLegacyCost converts a bare legacy numeric cost into the tagged
// form: percentage-of-face, repayment-timed. Implausible magnitudes are
// coerced to a zero cost with a warning instead of poisoning the totals.
func NormalizeLegacyCost(raw float64) Cost {
	if math.Abs(raw) > legacyPercentMax || math.IsNaN(raw) || math.IsInf(raw, 0) {
		diag.Warnf("legacy cost %v out of range, coercing to zero", raw)
		return Cost{Kind: PercentCost, Timing: PostTiming, Value: 0}
	}
	return Cost{Kind: PercentCost, Timing: PostTiming, Value: raw}
}

// Resolve returns the cost as an absolute amount against the given face.
func (c Cost) Resolve(face float64) float64 {
	switch c.Kind {
	case FixedCost:
		return c.Value
	case PercentCost:
		return face * c.Value / 100
	default:
		// Unset cost item.
		return 0
	}
}

// Instrument is an immutable debt record. The engine never mutates one; every
// computation is a pure function of the instrument, an as-of date and the
// settings.
type Instrument struct {
	ID       string `json:"id" yaml:"id"`
	Currency string `json:"currency" yaml:"currency"`

	Face        float64   `json:"face" yaml:"face"`
	Origination time.Time `json:"origination" yaml:"origination"`
	Due         time.Time `json:"due" yaml:"due"`

	// NominalRate is the simple ("TNA"-style) annual rate in percent.
	NominalRate float64 `json:"nominal_rate" yaml:"nominal_rate"`
	// PunitiveRate accrues in percent per year on days past due only.
	PunitiveRate float64 `json:"punitive_rate" yaml:"punitive_rate"`

	Commission Cost `json:"commission" yaml:"commission"`
	Stamps     Cost `json:"stamps" yaml:"stamps"`
	MarketFees Cost `json:"market_fees" yaml:"market_fees"`

	Mode Mode `json:"mode" yaml:"mode"`
	// GrossProceeds is the informed disbursed amount in future-value mode.
	GrossProceeds float64 `json:"gross_proceeds" yaml:"gross_proceeds"`

	Status      Status     `json:"status" yaml:"status"`
	CancelledOn *time.Time `json:"cancelled_on,omitempty" yaml:"cancelled_on,omitempty"`

	// PaidInterestOverride, when set, is the user-confirmed interest actually
	// paid at cancellation; it replaces the computed interest.
	PaidInterestOverride *float64 `json:"paid_interest_override,omitempty" yaml:"paid_interest_override,omitempty"`
	// CancelPenalty is an extra charge applied at cancellation.
	CancelPenalty float64 `json:"cancel_penalty" yaml:"cancel_penalty"`

	// HedgeIDs link arbitrage operations covering this debt.
	HedgeIDs []string `json:"hedge_ids,omitempty" yaml:"hedge_ids,omitempty"`
}

// Validate checks the caller-contract invariants. Data-quality problems are
// not validation errors; those are coerced with warnings during computation.
func (inst Instrument) Validate() error {
	if inst.Origination.IsZero() {
		return fmt.Errorf("debt %s: origination date is required", inst.ID)
	}
	if inst.Due.IsZero() {
		return fmt.Errorf("debt %s: due date is required", inst.ID)
	}
	if inst.Due.Before(inst.Origination) {
		return fmt.Errorf("debt %s: due %s before origination %s",
			inst.ID, inst.Due.Format("2006-01-02"), inst.Origination.Format("2006-01-02"))
	}
	return nil
}

// IsCancelled reports whether the instrument was cancelled with a known date.
func (inst Instrument) IsCancelled() bool {
	return inst.Status == Cancelled && inst.CancelledOn != nil
}

// EffectiveEnd is the date interest stops accruing: the actual cancellation
// date if cancelled, the contractual due date otherwise.
func (inst Instrument) EffectiveEnd() time.Time {
	if inst.IsCancelled() {
		return *inst.CancelledOn
	}
	return inst.Due
}
