// main.go
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"rsibt/internal"
	"rsibt/internal/app/backtester"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("⚠️  .env not loaded: %v", err)
	}

	pricesFile := flag.String("file", "prices.json", "Path to the JSON price series")
	dividendsFile := flag.String("dividends", "", "Path to the JSON dividend schedule (empty = none)")
	outputFile := flag.String("output", "optimization_results.json", "Output report file")
	mode := flag.String("mode", "wilder", "RSI smoothing: wilder or ema")
	shareMode := flag.String("shares", "lot", "Share accounting: lot or fractional")
	capital := flag.Float64("capital", 100000, "Initial capital")
	lotSize := flag.Float64("lot", 100, "Lot size (lot mode)")

	periodFrom := flag.Int("period_from", 3, "Smallest RSI period")
	periodTo := flag.Int("period_to", 20, "Largest RSI period (inclusive)")
	periodStep := flag.Int("period_step", 1, "RSI period step")
	buyFrom := flag.Float64("buy_from", 20, "Smallest buy threshold")
	buyTo := flag.Float64("buy_to", 50, "Largest buy threshold (inclusive)")
	buyStep := flag.Float64("buy_step", 2, "Buy threshold step")
	sellFrom := flag.Float64("sell_from", 60, "Smallest sell threshold")
	sellTo := flag.Float64("sell_to", 90, "Largest sell threshold (inclusive)")
	sellStep := flag.Float64("sell_step", 2, "Sell threshold step")
	minGap := flag.Float64("min_gap", 0, "Minimum gap between sell and buy thresholds")
	topN := flag.Int("top", 20, "How many ranked combinations to print and save")
	flag.Parse()

	points, err := backtester.LoadPriceSeries(*pricesFile)
	if err != nil {
		log.Fatalf("❌ loading price series: %v", err)
	}
	dividends, err := backtester.LoadDividends(*dividendsFile)
	if err != nil {
		log.Fatalf("❌ loading dividends: %v", err)
	}

	var calc internal.RSICalculator
	switch *mode {
	case "wilder":
		calc = internal.WilderRSI{}
	case "ema":
		calc = internal.PureEMARSI{}
	default:
		log.Fatalf("❌ unknown RSI mode %q (wilder or ema)", *mode)
	}

	base := internal.StrategyConfig{
		LotSize:        *lotSize,
		Mode:           internal.ShareMode(*shareMode),
		Dividends:      internal.DividendReinvestImmediate,
		InitialCapital: *capital,
	}

	grid := internal.GridSpec{
		PeriodFrom: *periodFrom, PeriodTo: *periodTo, PeriodStep: *periodStep,
		BuyFrom: *buyFrom, BuyTo: *buyTo, BuyStep: *buyStep,
		SellFrom: *sellFrom, SellTo: *sellTo, SellStep: *sellStep,
		MinGap: *minGap,
	}

	fmt.Println(strings.Repeat("═", 70))
	fmt.Println("🔍 RSI PARAMETER SWEEP")
	fmt.Println(strings.Repeat("═", 70))
	fmt.Printf("📊 %d trading days, %s smoothing, %s shares\n", len(points), calc.Name(), base.Mode)
	fmt.Printf("🎯 Grid: period %d-%d, buy %.0f-%.0f, sell %.0f-%.0f, min gap %.0f\n",
		grid.PeriodFrom, grid.PeriodTo, grid.BuyFrom, grid.BuyTo, grid.SellFrom, grid.SellTo, grid.MinGap)

	report, err := internal.Optimize(points, dividends, base, grid, calc)
	if err != nil {
		log.Fatalf("❌ sweep failed: %v", err)
	}

	printReport(report, *topN)

	saver := backtester.NewFileSaver()
	if err := saver.SaveOptimizationReport(report, *topN, *outputFile); err != nil {
		log.Fatalf("❌ saving report: %v", err)
	}
}

func printReport(report internal.OptimizationReport, topN int) {
	fmt.Println(strings.Repeat("─", 70))
	fmt.Printf("✅ Evaluated %d of %d combinations (%d skipped)\n",
		report.Evaluated, report.TotalCombinations, report.Skipped)
	fmt.Printf("📈 Buy & hold baseline: %+.2f%%\n", report.BaselineReturn)
	fmt.Printf("🏆 Beating baseline: %d (%.1f%%)\n", report.BeatingBaseline, report.BeatingFraction)

	fmt.Println(strings.Repeat("─", 70))
	fmt.Printf("TOP %d by total return\n", topN)
	fmt.Printf("%-4s %-7s %-6s %-6s %10s %10s %7s %8s\n",
		"Rank", "Period", "Buy", "Sell", "Return", "MaxDD", "Trades", "WinRate")
	for i, r := range report.Results {
		if i >= topN {
			break
		}
		fmt.Printf("%-4d %-7d %-6.0f %-6.0f %+9.2f%% %9.2f%% %7d %7.2f%%\n",
			i+1, r.Period, r.BuyThreshold, r.SellThreshold, r.TotalReturn, r.MaxDrawdown, r.TradeCount, r.WinRate)
	}

	fmt.Println(strings.Repeat("─", 70))
	fmt.Println("Best per period")
	for _, r := range report.TopByPeriod {
		fmt.Printf("  period %2d: buy %.0f sell %.0f → %+.2f%%\n",
			r.Period, r.BuyThreshold, r.SellThreshold, r.TotalReturn)
	}

	fmt.Println(strings.Repeat("─", 70))
	fmt.Println("TOP 10 risk-adjusted (return / drawdown)")
	for i, r := range report.TopRiskAdjusted {
		fmt.Printf("%-4d period %2d buy %.0f sell %.0f → %+.2f%% / %.2f%% = %.2f\n",
			i+1, r.Period, r.BuyThreshold, r.SellThreshold, r.TotalReturn, r.MaxDrawdown, r.RiskRatio)
	}

	if best, ok := report.Best(); ok {
		fmt.Println(strings.Repeat("═", 70))
		fmt.Printf("🥇 Best: RSI(%d) buy < %.0f, sell > %.0f → %+.2f%% (max drawdown %.2f%%)\n",
			best.Period, best.BuyThreshold, best.SellThreshold, best.TotalReturn, best.MaxDrawdown)
	}
}
