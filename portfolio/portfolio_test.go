package portfolio

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rustyeddy/treasury/config"
	"github.com/rustyeddy/treasury/rates"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func settings365() config.Settings { return config.Settings{AnnualBasis: config.Basis365} }

func TestFIFOConsumption(t *testing.T) {
	inst := Instrument{
		ID: "INV-1",
		Transactions: []Transaction{
			{Date: d(2024, 1, 1), Side: Buy, Quantity: 100, UnitPrice: 10, FxRate: 1},
			{Date: d(2024, 2, 1), Side: Buy, Quantity: 50, UnitPrice: 12, FxRate: 1},
			{Date: d(2024, 3, 1), Side: Sell, Quantity: 120, UnitPrice: 15, FxRate: 1},
		},
	}
	prices := rates.NewSeries(rates.Point{Date: d(2024, 4, 1), Rate: 16})

	h := Valuation(inst, d(2024, 4, 15), prices, settings365())

	// Oldest lot fully consumed, 20 units off the second.
	assert.InDelta(t, 30, h.Quantity, Epsilon)
	assert.InDelta(t, 30*12, h.CostBasis, 1e-9)
	// 1800 proceeds minus 1000+240 COGS.
	assert.InDelta(t, 560, h.RealizedPL, 1e-9)
	assert.InDelta(t, 30*16, h.MarketValue, 1e-9)
	assert.InDelta(t, 30*16-360, h.UnrealizedPL, 1e-9)
	assert.InDelta(t, h.RealizedPL+h.UnrealizedPL, h.TotalPL, 1e-9)
	assert.True(t, h.Active)
}

func TestPLConservation(t *testing.T) {
	inst := Instrument{
		ID: "INV-2",
		Transactions: []Transaction{
			{Date: d(2024, 1, 1), Side: Buy, Quantity: 100, UnitPrice: 10, FxRate: 1},
			{Date: d(2024, 2, 1), Side: Buy, Quantity: 60, UnitPrice: 12, FxRate: 1},
			{Date: d(2024, 3, 1), Side: Sell, Quantity: 80, UnitPrice: 14, FxRate: 1},
			{Date: d(2024, 4, 1), Side: Sell, Quantity: 30, UnitPrice: 11, FxRate: 1},
		},
	}
	prices := rates.NewSeries(rates.Point{Date: d(2024, 5, 1), Rate: 13})

	h := Valuation(inst, d(2024, 5, 15), prices, settings365())

	// Quantity conservation: buys minus sells.
	assert.InDelta(t, 100+60-80-30, h.Quantity, Epsilon)

	// Total P&L equals market value minus net cash invested.
	netCash := 100*10.0 + 60*12 - 80*14 - 30*11
	assert.InDelta(t, h.MarketValue-netCash, h.TotalPL, 1e-9)
}

func TestFxConversionAtTrade(t *testing.T) {
	inst := Instrument{
		ID: "INV-3",
		Transactions: []Transaction{
			// 1000 home units per reference unit at trade time.
			{Date: d(2024, 1, 1), Side: Buy, Quantity: 10, UnitPrice: 5000, FxRate: 1000},
		},
	}
	h := Valuation(inst, d(2024, 2, 1), nil, settings365())
	assert.InDelta(t, 10*5000/1000.0, h.CostBasis, 1e-9)
}

func TestMissingPriceValuesAtZero(t *testing.T) {
	inst := Instrument{
		ID: "INV-4",
		Transactions: []Transaction{
			{Date: d(2024, 1, 1), Side: Buy, Quantity: 10, UnitPrice: 10, FxRate: 1},
		},
	}
	h := Valuation(inst, d(2024, 2, 1), nil, settings365())
	assert.Equal(t, 0.0, h.MarketValue)
	assert.InDelta(t, -100, h.UnrealizedPL, 1e-9)
}

func TestOversellClampsInsteadOfGoingNegative(t *testing.T) {
	inst := Instrument{
		ID: "INV-5",
		Transactions: []Transaction{
			{Date: d(2024, 1, 1), Side: Buy, Quantity: 10, UnitPrice: 10, FxRate: 1},
			{Date: d(2024, 2, 1), Side: Sell, Quantity: 25, UnitPrice: 12, FxRate: 1},
		},
	}
	h := Valuation(inst, d(2024, 3, 1), nil, settings365())
	assert.InDelta(t, 0, h.Quantity, Epsilon)
	// Only the 10 held units realize P&L.
	assert.InDelta(t, 10*12-100, h.RealizedPL, 1e-9)
}

func TestZeroQuantityBuySkipped(t *testing.T) {
	inst := Instrument{
		ID: "INV-13",
		Transactions: []Transaction{
			{Date: d(2024, 1, 1), Side: Buy, Quantity: 0, UnitPrice: 10, FxRate: 1},
			{Date: d(2024, 1, 2), Side: Buy, Quantity: 10, UnitPrice: 10, FxRate: 1},
			{Date: d(2024, 2, 1), Side: Sell, Quantity: 5, UnitPrice: 12, FxRate: 1},
		},
	}
	h := Valuation(inst, d(2024, 3, 1), nil, settings365())

	// The empty lot must never enter FIFO matching: a 0/0 cost share would
	// put NaN into every aggregate.
	assert.False(t, math.IsNaN(h.RealizedPL))
	assert.False(t, math.IsNaN(h.TotalPL))
	assert.InDelta(t, 5*12-5*10, h.RealizedPL, 1e-9)
	assert.InDelta(t, 50, h.CostBasis, 1e-9)
	assert.InDelta(t, 5, h.Quantity, Epsilon)
}

func TestNegativeQuantityBuySkipped(t *testing.T) {
	inst := Instrument{
		ID: "INV-14",
		Transactions: []Transaction{
			{Date: d(2024, 1, 1), Side: Buy, Quantity: -5, UnitPrice: 10, FxRate: 1},
		},
	}
	h := Valuation(inst, d(2024, 2, 1), nil, settings365())
	assert.InDelta(t, 0, h.Quantity, Epsilon)
	assert.Equal(t, 0.0, h.CostBasis)
	assert.False(t, h.Active)
}

func TestFixedIncomeAccrual(t *testing.T) {
	maturity := d(2025, 1, 1)
	inst := Instrument{
		ID: "INV-6",
		Transactions: []Transaction{
			{
				Date: d(2024, 1, 1), Side: Buy, Quantity: 1000, UnitPrice: 10, FxRate: 1,
				FixedRate: true, CouponRate: 12, Maturity: &maturity,
			},
		},
	}

	// 91 days of coupon on the full 10,000 invested.
	h := Valuation(inst, d(2024, 4, 1), nil, settings365())
	accrued := 10000 * 0.12 / 365 * 91
	assert.InDelta(t, 10000+accrued, h.MarketValue, 1e-6)
	assert.True(t, h.Active)
}

func TestFixedIncomeAccrualProratedAfterPartialSale(t *testing.T) {
	maturity := d(2025, 1, 1)
	inst := Instrument{
		ID: "INV-7",
		Transactions: []Transaction{
			{
				Date: d(2024, 1, 1), Side: Buy, Quantity: 1000, UnitPrice: 10, FxRate: 1,
				FixedRate: true, CouponRate: 12, Maturity: &maturity,
			},
			{Date: d(2024, 2, 1), Side: Sell, Quantity: 500, UnitPrice: 10, FxRate: 1},
		},
	}

	h := Valuation(inst, d(2024, 4, 1), nil, settings365())
	accrued := 10000 * 0.12 / 365 * 91
	// Half the original quantity remains, so half the lot's accrual counts.
	assert.InDelta(t, 5000+accrued/2, h.MarketValue, 1e-6)
}

func TestMaturedFixedIncomeInactive(t *testing.T) {
	maturity := d(2024, 3, 1)
	inst := Instrument{
		ID: "INV-8",
		Transactions: []Transaction{
			{
				Date: d(2024, 1, 1), Side: Buy, Quantity: 100, UnitPrice: 10, FxRate: 1,
				FixedRate: true, CouponRate: 10, Maturity: &maturity,
			},
		},
	}

	h := Valuation(inst, d(2024, 6, 1), nil, settings365())
	assert.False(t, h.Active)
	// Coupon accrual stops at maturity.
	accrued := 1000 * 0.10 / 365 * 60
	assert.InDelta(t, 1000+accrued, h.MarketValue, 1e-6)
}

func TestTEAZeroWhenNoCapital(t *testing.T) {
	inst := Instrument{
		ID: "INV-9",
		Transactions: []Transaction{
			{Date: d(2024, 1, 1), Side: Buy, Quantity: 10, UnitPrice: 10, FxRate: 1},
			{Date: d(2024, 1, 1), Side: Sell, Quantity: 10, UnitPrice: 10, FxRate: 1},
		},
	}
	h := Valuation(inst, d(2024, 6, 1), nil, settings365())
	assert.Equal(t, 0.0, h.TEA)
	assert.False(t, h.Active)
}

func TestTEAOnSteadyPosition(t *testing.T) {
	inst := Instrument{
		ID: "INV-10",
		Transactions: []Transaction{
			{Date: d(2024, 1, 1), Side: Buy, Quantity: 100, UnitPrice: 10, FxRate: 1},
		},
	}
	// One year later the position is worth 10% more.
	prices := rates.NewSeries(rates.Point{Date: d(2024, 12, 31), Rate: 11})
	h := Valuation(inst, d(2024, 12, 31), prices, settings365())

	// Capital held flat at 1000 for the whole window, so TEA is the simple
	// annualized return on that capital.
	days := float64(365) // 2024-01-01 to 2024-12-31 in a leap year
	want := (100.0 / 1000.0) / days * 365 * 100
	assert.InDelta(t, want, h.TEA, 1e-9)
}

func TestTEACapitalStepFunction(t *testing.T) {
	inst := Instrument{
		ID: "INV-11",
		Transactions: []Transaction{
			{Date: d(2024, 1, 1), Side: Buy, Quantity: 100, UnitPrice: 10, FxRate: 1},
			{Date: d(2024, 7, 1), Side: Buy, Quantity: 100, UnitPrice: 10, FxRate: 1},
		},
	}
	prices := rates.NewSeries(rates.Point{Date: d(2024, 12, 31), Rate: 10})
	h := Valuation(inst, d(2024, 12, 31), prices, settings365())

	// 182 days at 1000 then 183 days at 2000, over 365 total days.
	want := (1000*182 + 2000*183) / 365.0
	assert.InDelta(t, want, h.AvgCapital, 1e-9)
	// Flat price: zero P&L, zero TEA.
	assert.InDelta(t, 0, h.TEA, 1e-9)
}

func TestTransactionsAfterAsOfIgnored(t *testing.T) {
	inst := Instrument{
		ID: "INV-12",
		Transactions: []Transaction{
			{Date: d(2024, 1, 1), Side: Buy, Quantity: 100, UnitPrice: 10, FxRate: 1},
			{Date: d(2024, 6, 1), Side: Sell, Quantity: 100, UnitPrice: 20, FxRate: 1},
		},
	}
	h := Valuation(inst, d(2024, 3, 1), nil, settings365())
	assert.InDelta(t, 100, h.Quantity, Epsilon)
	assert.Equal(t, 0.0, h.RealizedPL)
}
