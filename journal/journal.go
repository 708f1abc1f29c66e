// Package journal persists computed result records. The engine itself owns
// no state; a journal is how the hosting layer keeps a history of runs for
// later comparison without re-deriving them.
package journal

import "time"

// DebtRecord is one debt's financials as computed in a run.
type DebtRecord struct {
	RunID    string
	AsOf     time.Time
	DebtID   string
	Currency string

	NetDisbursed    float64
	TotalToRepay    float64
	AccruedInterest float64
	TotalInterest   float64
	TED             float64
	CFT             float64

	// Reference-currency projection, when one resolved.
	RateSource string
	CFTRef     float64
}

// HoldingRecord is one investment holding as valued in a run.
type HoldingRecord struct {
	RunID        string
	AsOf         time.Time
	InstrumentID string

	Quantity     float64
	CostBasis    float64
	MarketValue  float64
	RealizedPL   float64
	UnrealizedPL float64
	TEA          float64
	Active       bool
}

// ArbitrageRecord is one hedge operation's attribution in a run.
type ArbitrageRecord struct {
	RunID string
	AsOf  time.Time
	OpID  string

	Settled     bool
	ClosingRate float64
	RealPL      float64
	InternalPL  float64
	SpreadPL    float64
}

// Journal records result rows. Implementations must tolerate being handed
// records in any order within a run.
type Journal interface {
	RecordDebt(DebtRecord) error
	RecordHolding(HoldingRecord) error
	RecordArbitrage(ArbitrageRecord) error
	Close() error
}
