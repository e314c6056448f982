package report

import (
	"fmt"
	"io"

	"github.com/mayurbaviskarpune/stock/types"
	"github.com/shopspring/decimal"
)

// PrintSummary writes the cross-symbol report to w: a per-ticker table,
// best/worst performer lines and the combined totals across all symbols.
func PrintSummary(w io.Writer, summaries []types.SymbolSummary, initialCapital decimal.Decimal) error {
	if len(summaries) == 0 {
		return ErrNoSummaries
	}

	fmt.Fprintln(w, "===== Summary Report =====")
	fmt.Fprintf(w, "%-12s %12s %12s %16s %16s\n", "Ticker", "Trades", "Win Rate %", "Final Capital", "Profit")

	totalProfit := decimal.Zero
	for _, s := range summaries {
		fmt.Fprintf(w, "%-12s %12d %12s %16s %16s\n",
			s.Ticker, s.TotalTrades, s.WinRate, s.FinalCapital.Round(2), s.Profit.Round(2))
		totalProfit = totalProfit.Add(s.Profit)
	}

	best, worst := BestWorst(summaries)
	fmt.Fprintln(w, "--------------------------")
	fmt.Fprintf(w, "Best Performer:  %s | Capital: %s | Profit: %s | Win Rate: %s%%\n",
		best.Ticker, best.FinalCapital.Round(2), best.Profit.Round(2), best.WinRate)
	fmt.Fprintf(w, "Worst Performer: %s | Capital: %s | Profit: %s | Win Rate: %s%%\n",
		worst.Ticker, worst.FinalCapital.Round(2), worst.Profit.Round(2), worst.WinRate)

	fmt.Fprintln(w, "--------------------------")
	fmt.Fprintf(w, "Initial Capital:      %s\n", initialCapital)
	fmt.Fprintf(w, "Total Profit:         %s\n", totalProfit.Round(2))
	fmt.Fprintf(w, "Year-End Capital:     %s\n", initialCapital.Add(totalProfit).Round(2))
	fmt.Fprintln(w, "==========================")

	return nil
}
