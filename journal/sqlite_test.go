package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSQLiteJournalRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")

	j, err := NewSQLite(path)
	assert.NoError(t, err)
	defer j.Close()

	asOf := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	rec := DebtRecord{
		RunID: "01RUN", AsOf: asOf, DebtID: "D-1", Currency: "ARS",
		NetDisbursed: 98000, TotalToRepay: 117950.68, TED: 0.2036, CFT: 40.83,
		RateSource: "implicit", CFTRef: 12.5,
	}
	assert.NoError(t, j.RecordDebt(rec))
	assert.NoError(t, j.RecordHolding(HoldingRecord{
		RunID: "01RUN", AsOf: asOf, InstrumentID: "INV-1", Quantity: 30, Active: true,
	}))
	assert.NoError(t, j.RecordArbitrage(ArbitrageRecord{
		RunID: "01RUN", AsOf: asOf, OpID: "H-1", RealPL: 500,
	}))

	got, err := j.DebtHistory("01RUN")
	assert.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, rec.DebtID, got[0].DebtID)
	assert.InDelta(t, rec.CFT, got[0].CFT, 1e-9)
	assert.Equal(t, rec.RateSource, got[0].RateSource)

	got, err = j.DebtHistory("missing")
	assert.NoError(t, err)
	assert.Empty(t, got)
}
