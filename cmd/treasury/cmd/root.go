package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rustyeddy/treasury/internal/diag"
)

var rootCmd = &cobra.Command{
	Use:   "treasury",
	Short: "Deterministic treasury debt, FX and portfolio calculations",
	Long: `Treasury computes the effective cost of debt instruments, projects
home-currency debt through forward-rate curves, values investment portfolios
with FIFO lot accounting, and attributes hedge P&L.

Every computation is a pure function of (entities, as-of date, settings):
re-running a historical snapshot always reproduces the same report.`,
}

var verbose bool

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log data-quality warnings")
	cobra.OnInitialize(func() {
		if verbose {
			diag.Init("development")
		}
	})
}
