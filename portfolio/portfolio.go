// Package portfolio values investment holdings with FIFO lot-based cost
// accounting: transaction replay into purchase lots, oldest-first consumption
// on sales, mark-to-market or amortized fixed-income valuation, and the
// time-weighted annualized return (TEA) over average invested capital.
package portfolio

import (
	"math"
	"sort"
	"time"

	"github.com/rustyeddy/treasury/config"
	"github.com/rustyeddy/treasury/dates"
	"github.com/rustyeddy/treasury/internal/diag"
	"github.com/rustyeddy/treasury/rates"
)

// Epsilon below which a quantity or capital level counts as zero. Float
// replay of partial-lot consumption leaves crumbs of this order.
const Epsilon = 1e-9

// Side of a transaction.
type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// Transaction is one trade in an instrument's history. FxRate is the
// home-currency units per reference unit at trade time; non-positive values
// fall back to 1.0 (trade already in reference terms).
type Transaction struct {
	ID        string    `json:"id,omitempty" yaml:"id,omitempty"`
	Date      time.Time `json:"date" yaml:"date"`
	Side      Side      `json:"side" yaml:"side"`
	Quantity  float64   `json:"quantity" yaml:"quantity"`
	UnitPrice float64   `json:"unit_price" yaml:"unit_price"`
	FxRate    float64   `json:"fx_rate" yaml:"fx_rate"`

	// Fixed-income purchases carry their coupon terms.
	FixedRate  bool       `json:"fixed_rate" yaml:"fixed_rate"`
	CouponRate float64    `json:"coupon_rate" yaml:"coupon_rate"` // annual percent
	Maturity   *time.Time `json:"maturity,omitempty" yaml:"maturity,omitempty"`
}

// Instrument is an investment with its full transaction history.
type Instrument struct {
	ID           string        `json:"id" yaml:"id"`
	Currency     string        `json:"currency" yaml:"currency"`
	Transactions []Transaction `json:"transactions" yaml:"transactions"`
}

// Lot is one purchase tranche. Lots live in an arena slice; the open set is
// a queue of arena indices, so partial consumption never reallocates.
type Lot struct {
	Qty      float64
	Cost     float64 // remaining cost in reference currency
	OrigQty  float64
	OrigCost float64
	Date     time.Time

	Coupon   float64
	Fixed    bool
	Maturity *time.Time
}

// Holding is the valuation of one instrument as of a snapshot date.
type Holding struct {
	ID        string
	Quantity  float64
	CostBasis float64

	MarketValue  float64
	RealizedPL   float64
	UnrealizedPL float64
	TotalPL      float64

	AvgCapital float64
	TEA        float64

	Active         bool
	FirstTradeDate time.Time
}

func refAmount(qty, price, fx float64) float64 {
	if fx <= 0 {
		fx = 1.0
	}
	return qty * price / fx
}

// Valuation replays the instrument's transactions up to asOf and values the
// resulting position. Prices is the instrument's market price series in
// reference currency; a missing price values the position at 0 rather than
// failing.
func Valuation(inst Instrument, asOf time.Time, prices rates.Series, s config.Settings) Holding {
	basis := float64(s.AnnualBasis)
	if basis == 0 {
		basis = config.Basis365
	}

	txs := make([]Transaction, len(inst.Transactions))
	copy(txs, inst.Transactions)
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].Date.Before(txs[j].Date) })

	h := Holding{ID: inst.ID}

	var (
		lots []Lot // arena
		open []int // FIFO queue of arena indices

		capital   float64 // running net invested capital
		integral  float64 // sum of capital level x days held at that level
		lastEvent time.Time
	)

	step := func(to time.Time) {
		if !lastEvent.IsZero() {
			integral += capital * float64(dates.DayCount(lastEvent, to))
		}
		lastEvent = to
	}

	for _, tx := range txs {
		if dates.Normalize(tx.Date).After(dates.Normalize(asOf)) {
			break
		}
		if tx.Quantity <= Epsilon {
			diag.Warnf("investment %s: %s of non-positive quantity %v on %s skipped",
				inst.ID, tx.Side, tx.Quantity, tx.Date.Format("2006-01-02"))
			continue
		}
		if h.FirstTradeDate.IsZero() {
			h.FirstTradeDate = dates.Normalize(tx.Date)
		}
		step(tx.Date)

		switch tx.Side {
		case Buy:
			cost := refAmount(tx.Quantity, tx.UnitPrice, tx.FxRate)
			lots = append(lots, Lot{
				Qty:      tx.Quantity,
				Cost:     cost,
				OrigQty:  tx.Quantity,
				OrigCost: cost,
				Date:     dates.Normalize(tx.Date),
				Coupon:   tx.CouponRate,
				Fixed:    tx.FixedRate,
				Maturity: tx.Maturity,
			})
			open = append(open, len(lots)-1)
			capital += cost

		case Sell:
			remaining := tx.Quantity
			var cogs, sold float64
			for len(open) > 0 && remaining > Epsilon {
				lot := &lots[open[0]]
				take := math.Min(lot.Qty, remaining)
				share := lot.Cost * take / lot.Qty
				lot.Qty -= take
				lot.Cost -= share
				cogs += share
				sold += take
				remaining -= take
				if lot.Qty <= Epsilon {
					lot.Qty = 0
					lot.Cost = 0
					open = open[1:]
				}
			}
			if remaining > Epsilon {
				diag.Warnf("investment %s: sell of %v on %s exceeds held quantity by %v, clamping",
					inst.ID, tx.Quantity, tx.Date.Format("2006-01-02"), remaining)
			}
			// Proceeds only for the quantity actually matched against lots.
			proceeds := refAmount(sold, tx.UnitPrice, tx.FxRate)
			h.RealizedPL += proceeds - cogs
			capital -= cogs

		default:
			diag.Warnf("investment %s: unknown transaction side %q skipped", inst.ID, tx.Side)
		}
	}
	step(asOf)

	var maturity *time.Time
	for _, idx := range open {
		lot := lots[idx]
		h.Quantity += lot.Qty
		h.CostBasis += lot.Cost
		if lot.Fixed && lot.Maturity != nil {
			maturity = lot.Maturity
		}
	}

	h.MarketValue = marketValue(lots, open, asOf, prices, basis, h.CostBasis, h.Quantity)
	h.UnrealizedPL = h.MarketValue - h.CostBasis
	h.TotalPL = h.RealizedPL + h.UnrealizedPL

	if totalDays := dates.DayCount(h.FirstTradeDate, asOf); totalDays > 0 {
		h.AvgCapital = integral / float64(totalDays)
		if h.AvgCapital > Epsilon {
			h.TEA = h.TotalPL / h.AvgCapital / float64(totalDays) * 365 * 100
		}
	}

	h.Active = h.Quantity > Epsilon &&
		(maturity == nil || !dates.Normalize(*maturity).Before(dates.Normalize(asOf)))

	return h
}

// marketValue prices the open position: amortized cost plus accrued coupon
// for fixed-income lots with a maturity, quantity times latest market price
// otherwise (0 when no price snapshot exists).
func marketValue(lots []Lot, open []int, asOf time.Time, prices rates.Series,
	basis, costBasis, quantity float64) float64 {

	fixedIncome := false
	for _, idx := range open {
		if lots[idx].Fixed && lots[idx].Maturity != nil {
			fixedIncome = true
			break
		}
	}

	if fixedIncome {
		mv := costBasis
		for _, idx := range open {
			lot := lots[idx]
			if !lot.Fixed || lot.OrigQty <= Epsilon {
				continue
			}
			end := asOf
			if lot.Maturity != nil && dates.Normalize(*lot.Maturity).Before(dates.Normalize(asOf)) {
				end = *lot.Maturity
			}
			elapsed := dates.DayCount(lot.Date, end)
			accrued := lot.OrigCost * (lot.Coupon / 100 / basis) * float64(elapsed)
			mv += accrued * (lot.Qty / lot.OrigQty)
		}
		return mv
	}

	price, ok := prices.RateOn(asOf)
	if !ok {
		return 0
	}
	return quantity * price
}
