package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/treasury/config"
	"github.com/rustyeddy/treasury/engine"
	"github.com/rustyeddy/treasury/internal/diag"
	"github.com/rustyeddy/treasury/journal"
	"github.com/rustyeddy/treasury/pkg/id"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Compute a full report from an entity snapshot",
	Long: `Load an entity snapshot (debts, investments, hedges, rate curves) and
compute debt financials, cross-currency projections, portfolio holdings and
hedge P&L as of a date.

Example:
  treasury report --snapshot entities.yaml --as-of 2024-03-15`,
	RunE: runReport,
}

var (
	reportSnapshotPath string
	reportConfigPath   string
	reportAsOf         string
)

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVarP(&reportSnapshotPath, "snapshot", "s", "", "path to snapshot file (YAML or JSON) (required)")
	reportCmd.Flags().StringVarP(&reportConfigPath, "config", "f", "", "path to config file (optional)")
	reportCmd.Flags().StringVar(&reportAsOf, "as-of", "", "report date YYYY-MM-DD (default today)")
	reportCmd.MarkFlagRequired("snapshot")
}

func runReport(cmd *cobra.Command, args []string) error {
	defer diag.Sync()

	cfg, err := config.LoadFromFile(reportConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	asOf := time.Now().UTC()
	if reportAsOf != "" {
		asOf, err = time.Parse("2006-01-02", reportAsOf)
		if err != nil {
			return fmt.Errorf("invalid --as-of date: %w", err)
		}
	}

	snap, err := engine.LoadSnapshot(reportSnapshotPath)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	report, err := engine.Run(snap, asOf, cfg.Settings)
	if err != nil {
		return err
	}

	engine.PrintReport(os.Stdout, report)

	if cfg.Journal.Type == "" || cfg.Journal.Type == "none" {
		return nil
	}
	return journalReport(cfg.Journal, report)
}

func journalReport(jc config.JournalConfig, r engine.Report) error {
	var (
		j   journal.Journal
		err error
	)
	if jc.Type == "csv" {
		j, err = journal.NewCSV(jc.DebtsFile, jc.HoldingsFile)
	} else {
		j, err = journal.NewSQLite(jc.DBPath)
	}
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	defer j.Close()

	runID := id.New()
	for _, d := range r.Debts {
		rec := journal.DebtRecord{
			RunID:           runID,
			AsOf:            r.AsOf,
			DebtID:          d.ID,
			Currency:        d.Currency,
			NetDisbursed:    d.Financials.NetDisbursed,
			TotalToRepay:    d.Financials.TotalToRepay,
			AccruedInterest: d.Financials.AccruedInterest,
			TotalInterest:   d.Financials.TotalInterest,
			TED:             d.Financials.TED,
			CFT:             d.Financials.CFT,
		}
		if d.FX != nil {
			rec.RateSource = string(d.FX.Source)
			rec.CFTRef = d.FX.CFTRef
		}
		if err := j.RecordDebt(rec); err != nil {
			return fmt.Errorf("record debt %s: %w", d.ID, err)
		}
	}
	for _, h := range r.Holdings {
		rec := journal.HoldingRecord{
			RunID:        runID,
			AsOf:         r.AsOf,
			InstrumentID: h.ID,
			Quantity:     h.Quantity,
			CostBasis:    h.CostBasis,
			MarketValue:  h.MarketValue,
			RealizedPL:   h.RealizedPL,
			UnrealizedPL: h.UnrealizedPL,
			TEA:          h.TEA,
			Active:       h.Active,
		}
		if err := j.RecordHolding(rec); err != nil {
			return fmt.Errorf("record holding %s: %w", h.ID, err)
		}
	}
	for _, op := range r.Arbitrage.Ops {
		rec := journal.ArbitrageRecord{
			RunID:       runID,
			AsOf:        r.AsOf,
			OpID:        op.ID,
			Settled:     op.Settled,
			ClosingRate: op.ClosingRate,
			RealPL:      op.RealPL,
			InternalPL:  op.InternalPL,
			SpreadPL:    op.SpreadPL,
		}
		if err := j.RecordArbitrage(rec); err != nil {
			return fmt.Errorf("record arbitrage %s: %w", op.ID, err)
		}
	}

	fmt.Printf("Journaled run %s (%d debts, %d holdings, %d operations)\n",
		runID, len(r.Debts), len(r.Holdings), len(r.Arbitrage.Ops))
	return nil
}
