package engine

import (
	"fmt"
	"io"
	"time"
)

// PrintReport writes a human-readable summary of a report.
func PrintReport(w io.Writer, r Report) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Treasury Report")
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintf(w, "As of:         %s\n", r.AsOf.Format(time.DateOnly))
	fmt.Fprintf(w, "Annual basis:  %d\n", r.Settings.AnnualBasis)
	fmt.Fprintln(w)

	if len(r.Debts) > 0 {
		fmt.Fprintln(w, "Debts")
		fmt.Fprintln(w, "--------------------------------------------------")
		for _, d := range r.Debts {
			fmt.Fprintf(w, "%-12s %-4s net %14.2f  repay %14.2f  accrued %12.2f  CFT %7.2f%%\n",
				d.ID, d.Currency, d.Financials.NetDisbursed, d.Financials.TotalToRepay,
				d.Financials.AccruedInterest, d.Financials.CFT)
			if d.FX != nil {
				fmt.Fprintf(w, "%-12s   ref received %12.2f  repaid %12.2f  CFT %7.2f%%  (%s rate %.2f)\n",
					"", d.FX.ReceivedRef, d.FX.RepaidRef, d.FX.CFTRef, d.FX.Source, d.FX.SelectedRate)
			}
		}
		fmt.Fprintln(w)
	}

	if len(r.Holdings) > 0 {
		fmt.Fprintln(w, "Holdings")
		fmt.Fprintln(w, "--------------------------------------------------")
		for _, h := range r.Holdings {
			status := "active"
			if !h.Active {
				status = "closed"
			}
			fmt.Fprintf(w, "%-12s qty %12.4f  mv %14.2f  realized %12.2f  unrealized %12.2f  TEA %7.2f%%  [%s]\n",
				h.ID, h.Quantity, h.MarketValue, h.RealizedPL, h.UnrealizedPL, h.TEA, status)
			if h.HedgePL != 0 {
				fmt.Fprintf(w, "%-12s   hedge P&L %12.2f  total incl. hedges %12.2f\n",
					"", h.HedgePL, h.TotalWithHedges)
			}
		}
		fmt.Fprintln(w)
	}

	if len(r.Arbitrage.Ops) > 0 || len(r.Arbitrage.Unresolved) > 0 {
		fmt.Fprintln(w, "Arbitrage")
		fmt.Fprintln(w, "--------------------------------------------------")
		for _, op := range r.Arbitrage.Ops {
			state := "latent"
			if op.Settled {
				state = "realized"
			}
			fmt.Fprintf(w, "%-12s %-8s close %10.2f  real %12.2f", op.ID, state, op.ClosingRate, op.RealPL)
			if op.HasInternal {
				fmt.Fprintf(w, "  internal %12.2f  spread %12.2f", op.InternalPL, op.SpreadPL)
			}
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "Total real P&L:   %14.2f\n", r.Arbitrage.RealPL)
		if r.Arbitrage.SpreadPL != 0 {
			fmt.Fprintf(w, "Total spread P&L: %14.2f\n", r.Arbitrage.SpreadPL)
		}
		for _, id := range r.Arbitrage.Unresolved {
			fmt.Fprintf(w, "Unresolved:       %s (no closing rate)\n", id)
		}
		fmt.Fprintln(w)
	}

	if len(r.Skipped) > 0 {
		fmt.Fprintf(w, "Skipped instruments: %v\n", r.Skipped)
	}
}
