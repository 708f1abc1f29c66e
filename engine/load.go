package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/treasury/arbitrage"
	"github.com/rustyeddy/treasury/debt"
	"github.com/rustyeddy/treasury/internal/diag"
	"github.com/rustyeddy/treasury/portfolio"
	"github.com/rustyeddy/treasury/rates"
)

// Date is a calendar date in snapshot files, encoded "2006-01-02".
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

func (d *Date) parse(s string) error {
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	return d.parse(value.Value)
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	return d.parse(s)
}

// rawCost absorbs the historical cost encodings: a bare number (legacy
// percentage-of-face), a tagged object, or — in corrupt records — something
// of a different shape entirely. Normalization happens here, once, at the
// data boundary; the calculation code only ever sees tagged costs.
type rawCost struct {
	cost debt.Cost
}

type costObject struct {
	Kind   string  `json:"kind" yaml:"kind"`
	Timing string  `json:"timing" yaml:"timing"`
	Value  float64 `json:"value" yaml:"value"`
}

func (rc *rawCost) fromObject(o costObject) {
	kind := debt.CostKind(o.Kind)
	timing := debt.CostTiming(o.Timing)
	if kind != debt.FixedCost && kind != debt.PercentCost {
		diag.Warnf("cost record with unknown kind %q, coercing to zero", o.Kind)
		rc.cost = debt.Cost{Kind: debt.PercentCost, Timing: debt.PostTiming}
		return
	}
	if timing != debt.PreTiming && timing != debt.PostTiming {
		timing = debt.PostTiming
	}
	rc.cost = debt.Cost{Kind: kind, Timing: timing, Value: o.Value}
}

func (rc *rawCost) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Value == "" || value.Tag == "!!null" {
			rc.cost = debt.Cost{}
			return nil
		}
		var n float64
		if err := value.Decode(&n); err != nil {
			diag.Warnf("cost field holds non-numeric scalar %q, coercing to zero", value.Value)
			rc.cost = debt.Cost{}
			return nil
		}
		rc.cost = debt.NormalizeLegacyCost(n)
		return nil
	case yaml.MappingNode:
		var o costObject
		if err := value.Decode(&o); err != nil {
			diag.Warnf("cost field holds a record of the wrong shape, coercing to zero")
			rc.cost = debt.Cost{}
			return nil
		}
		rc.fromObject(o)
		return nil
	default:
		diag.Warnf("cost field holds a record of the wrong shape, coercing to zero")
		rc.cost = debt.Cost{}
		return nil
	}
}

func (rc *rawCost) UnmarshalJSON(b []byte) error {
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		rc.cost = debt.NormalizeLegacyCost(n)
		return nil
	}
	var o costObject
	if err := json.Unmarshal(b, &o); err == nil && o.Kind != "" {
		rc.fromObject(o)
		return nil
	}
	diag.Warnf("cost field holds a record of the wrong shape, coercing to zero")
	rc.cost = debt.Cost{}
	return nil
}

type debtFile struct {
	ID           string   `json:"id" yaml:"id"`
	Currency     string   `json:"currency" yaml:"currency"`
	Face         float64  `json:"face" yaml:"face"`
	Origination  Date     `json:"origination" yaml:"origination"`
	Due          Date     `json:"due" yaml:"due"`
	NominalRate  float64  `json:"nominal_rate" yaml:"nominal_rate"`
	PunitiveRate float64  `json:"punitive_rate" yaml:"punitive_rate"`
	Commission   rawCost  `json:"commission" yaml:"commission"`
	Stamps       rawCost  `json:"stamps" yaml:"stamps"`
	MarketFees   rawCost  `json:"market_fees" yaml:"market_fees"`
	Mode         string   `json:"mode" yaml:"mode"`
	Proceeds     float64  `json:"gross_proceeds" yaml:"gross_proceeds"`
	Status       string   `json:"status" yaml:"status"`
	CancelledOn  *Date    `json:"cancelled_on,omitempty" yaml:"cancelled_on,omitempty"`
	PaidInterest *float64 `json:"paid_interest_override,omitempty" yaml:"paid_interest_override,omitempty"`
	Penalty      float64  `json:"cancel_penalty" yaml:"cancel_penalty"`
	HedgeIDs     []string `json:"hedge_ids,omitempty" yaml:"hedge_ids,omitempty"`
}

type transactionFile struct {
	ID         string  `json:"id,omitempty" yaml:"id,omitempty"`
	Date       Date    `json:"date" yaml:"date"`
	Side       string  `json:"side" yaml:"side"`
	Quantity   float64 `json:"quantity" yaml:"quantity"`
	UnitPrice  float64 `json:"unit_price" yaml:"unit_price"`
	FxRate     float64 `json:"fx_rate" yaml:"fx_rate"`
	FixedRate  bool    `json:"fixed_rate" yaml:"fixed_rate"`
	CouponRate float64 `json:"coupon_rate" yaml:"coupon_rate"`
	Maturity   *Date   `json:"maturity,omitempty" yaml:"maturity,omitempty"`
}

type investmentFile struct {
	ID           string            `json:"id" yaml:"id"`
	Currency     string            `json:"currency" yaml:"currency"`
	Transactions []transactionFile `json:"transactions" yaml:"transactions"`
}

type hedgeFile struct {
	ID            string   `json:"id" yaml:"id"`
	Position      string   `json:"position" yaml:"position"`
	Notional      float64  `json:"notional" yaml:"notional"`
	ContractRate  float64  `json:"contract_rate" yaml:"contract_rate"`
	InternalRate  *float64 `json:"internal_rate,omitempty" yaml:"internal_rate,omitempty"`
	Start         Date     `json:"start" yaml:"start"`
	Maturity      Date     `json:"maturity" yaml:"maturity"`
	CancelledOn   *Date    `json:"cancelled_on,omitempty" yaml:"cancelled_on,omitempty"`
	CancelRate    *float64 `json:"cancel_rate,omitempty" yaml:"cancel_rate,omitempty"`
	DebtID        string   `json:"debt_id,omitempty" yaml:"debt_id,omitempty"`
	TransactionID string   `json:"transaction_id,omitempty" yaml:"transaction_id,omitempty"`
}

type pointFile struct {
	Date Date    `json:"date" yaml:"date"`
	Rate float64 `json:"rate" yaml:"rate"`
}

type forwardFile struct {
	Anchor Date        `json:"anchor" yaml:"anchor"`
	Points []pointFile `json:"points" yaml:"points"`
}

type snapshotFile struct {
	HomeCurrency string                 `json:"home_currency" yaml:"home_currency"`
	Debts        []debtFile             `json:"debts" yaml:"debts"`
	Investments  []investmentFile       `json:"investments" yaml:"investments"`
	Hedges       []hedgeFile            `json:"hedges" yaml:"hedges"`
	Spots        []pointFile            `json:"spots" yaml:"spots"`
	Forward      forwardFile            `json:"forward" yaml:"forward"`
	Prices       map[string][]pointFile `json:"prices" yaml:"prices"`
}

// LoadSnapshot reads an entity snapshot from a YAML or JSON file and
// normalizes it into engine input, converting legacy cost encodings to
// tagged costs at this boundary.
func LoadSnapshot(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read snapshot file: %w", err)
	}
	return ParseSnapshot(data)
}

// ParseSnapshot decodes snapshot bytes, trying YAML first and JSON second.
func ParseSnapshot(data []byte) (Snapshot, error) {
	var sf snapshotFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		if jerr := json.Unmarshal(data, &sf); jerr != nil {
			return Snapshot{}, fmt.Errorf("parse snapshot (tried YAML and JSON): %w", err)
		}
	}
	return sf.build(), nil
}

func points(pfs []pointFile) []rates.Point {
	out := make([]rates.Point, 0, len(pfs))
	for _, p := range pfs {
		out = append(out, rates.Point{Date: p.Date.Time, Rate: p.Rate})
	}
	return out
}

func optTime(d *Date) *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}

func (sf snapshotFile) build() Snapshot {
	snap := Snapshot{
		HomeCurrency: sf.HomeCurrency,
		Spots:        rates.NewSeries(points(sf.Spots)...),
		Forward:      rates.NewSnapshot(sf.Forward.Anchor.Time, points(sf.Forward.Points)...),
	}

	for _, df := range sf.Debts {
		mode := debt.Mode(df.Mode)
		if mode != debt.FutureValue {
			mode = debt.PresentValue
		}
		status := debt.Status(df.Status)
		if status != debt.Cancelled {
			status = debt.Active
		}
		snap.Debts = append(snap.Debts, debt.Instrument{
			ID:                   df.ID,
			Currency:             df.Currency,
			Face:                 df.Face,
			Origination:          df.Origination.Time,
			Due:                  df.Due.Time,
			NominalRate:          df.NominalRate,
			PunitiveRate:         df.PunitiveRate,
			Commission:           df.Commission.cost,
			Stamps:               df.Stamps.cost,
			MarketFees:           df.MarketFees.cost,
			Mode:                 mode,
			GrossProceeds:        df.Proceeds,
			Status:               status,
			CancelledOn:          optTime(df.CancelledOn),
			PaidInterestOverride: df.PaidInterest,
			CancelPenalty:        df.Penalty,
			HedgeIDs:             df.HedgeIDs,
		})
	}

	for _, inf := range sf.Investments {
		inst := portfolio.Instrument{ID: inf.ID, Currency: inf.Currency}
		for _, tf := range inf.Transactions {
			// Unknown sides pass through; the replay warns and skips them.
			inst.Transactions = append(inst.Transactions, portfolio.Transaction{
				ID:         tf.ID,
				Date:       tf.Date.Time,
				Side:       portfolio.Side(tf.Side),
				Quantity:   tf.Quantity,
				UnitPrice:  tf.UnitPrice,
				FxRate:     tf.FxRate,
				FixedRate:  tf.FixedRate,
				CouponRate: tf.CouponRate,
				Maturity:   optTime(tf.Maturity),
			})
		}
		snap.Investments = append(snap.Investments, inst)
	}

	for _, hf := range sf.Hedges {
		pos := arbitrage.Position(hf.Position)
		if pos != arbitrage.Short {
			pos = arbitrage.Long
		}
		snap.Hedges = append(snap.Hedges, arbitrage.Operation{
			ID:            hf.ID,
			Position:      pos,
			Notional:      hf.Notional,
			ContractRate:  hf.ContractRate,
			InternalRate:  hf.InternalRate,
			Start:         hf.Start.Time,
			Maturity:      hf.Maturity.Time,
			CancelledOn:   optTime(hf.CancelledOn),
			CancelRate:    hf.CancelRate,
			DebtID:        hf.DebtID,
			TransactionID: hf.TransactionID,
		})
	}

	if len(sf.Prices) > 0 {
		snap.Prices = make(map[string]rates.Series, len(sf.Prices))
		for id, pfs := range sf.Prices {
			snap.Prices[id] = rates.NewSeries(points(pfs)...)
		}
	}

	return snap
}
