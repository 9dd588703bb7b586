package backtester

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// ConsolePrinter renders run results as a console comparison table.
type ConsolePrinter struct{}

func NewConsolePrinter() *ConsolePrinter {
	return &ConsolePrinter{}
}

// PrintComparison prints the strategies ranked by total return.
func (p *ConsolePrinter) PrintComparison(results []RunResult) {
	sort.Slice(results, func(i, j int) bool {
		return results[i].Stats.TotalReturn > results[j].Stats.TotalReturn
	})

	fmt.Println("\n" + strings.Repeat("=", 100))
	fmt.Println("📊 STRATEGY COMPARISON")
	fmt.Println(strings.Repeat("=", 100))
	fmt.Printf("%-16s %10s %10s %10s %8s %8s %10s %8s\n",
		"Strategy", "Return", "Annual", "MaxDD", "Trades", "WinRate", "Time", "Rank")
	fmt.Println(strings.Repeat("-", 100))

	for i, r := range results {
		rankStr := fmt.Sprintf("%d", i+1)
		switch i {
		case 0:
			rankStr = "🥇 " + rankStr
		case 1:
			rankStr = "🥈 " + rankStr
		case 2:
			rankStr = "🥉 " + rankStr
		default:
			rankStr = "  " + rankStr
		}

		fmt.Printf("%-16s %+9.2f%% %+9.2f%% %9.2f%% %8d %7.2f%% %10s %8s\n",
			r.Name,
			r.Stats.TotalReturn,
			r.Stats.AnnualReturn,
			r.Stats.MaxDrawdown,
			r.Stats.TradeCount,
			r.Stats.WinRate,
			p.formatDuration(r.ExecutionTime),
			rankStr)
	}
}

func (p *ConsolePrinter) formatDuration(d time.Duration) string {
	if d > time.Second {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%.0fms", float64(d.Nanoseconds())/1e6)
}
