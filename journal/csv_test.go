package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCSVJournalWritesRows(t *testing.T) {
	dir := t.TempDir()
	debts := filepath.Join(dir, "debts.csv")
	holdings := filepath.Join(dir, "holdings.csv")

	j, err := NewCSV(debts, holdings)
	assert.NoError(t, err)

	asOf := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	assert.NoError(t, j.RecordDebt(DebtRecord{
		RunID: "01RUN", AsOf: asOf, DebtID: "D-1", Currency: "ARS",
		NetDisbursed: 98000, TotalToRepay: 117950.68, CFT: 40.83,
	}))
	assert.NoError(t, j.RecordHolding(HoldingRecord{
		RunID: "01RUN", AsOf: asOf, InstrumentID: "INV-1",
		Quantity: 30, MarketValue: 480, Active: true,
	}))
	assert.NoError(t, j.RecordArbitrage(ArbitrageRecord{
		RunID: "01RUN", AsOf: asOf, OpID: "H-1", Settled: true, RealPL: 500,
	}))
	assert.NoError(t, j.Close())

	df, err := os.Open(debts)
	assert.NoError(t, err)
	defer df.Close()
	rows, err := csv.NewReader(df).ReadAll()
	assert.NoError(t, err)
	// Header plus the debt row and the arbitrage row.
	assert.Len(t, rows, 3)
	assert.Equal(t, "debt", rows[1][2])
	assert.Equal(t, "D-1", rows[1][3])
	assert.Equal(t, "arbitrage", rows[2][2])

	hf, err := os.Open(holdings)
	assert.NoError(t, err)
	defer hf.Close()
	hrows, err := csv.NewReader(hf).ReadAll()
	assert.NoError(t, err)
	assert.Len(t, hrows, 2)
	assert.Equal(t, "INV-1", hrows[1][2])
	assert.Equal(t, "true", hrows[1][9])
}
