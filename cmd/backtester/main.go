// main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/joho/godotenv"

	"rsibt/internal"
	"rsibt/internal/app/backtester"

	_ "rsibt/strategies/oscillators"
	_ "rsibt/strategies/simple"
)

func main() {
	// .env is optional; environment overrides the YAML config.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("⚠️  .env not loaded: %v", err)
	}

	config := parseFlags()

	if config.ProfPort > 0 {
		go func() {
			addr := fmt.Sprintf(":%d", config.ProfPort)
			log.Printf("🚀 pprof available at http://localhost%s/debug/pprof/", addr)
			if err := http.ListenAndServe(addr, nil); err != nil {
				log.Printf("❌ pprof server failed: %v", err)
			}
		}()
	}

	if config.CpuProfile != "" {
		f, err := os.Create(config.CpuProfile)
		if err != nil {
			log.Fatal("❌ creating CPU profile file:", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("❌ starting CPU profile:", err)
		}
		defer pprof.StopCPUProfile()
	}

	appCfg, err := backtester.LoadAppConfig(config.ConfigFile)
	if err != nil {
		log.Fatalf("❌ loading config: %v", err)
	}

	if config.ShowHistory {
		showHistory(appCfg)
		return
	}

	points, err := backtester.LoadPriceSeries(appCfg.Data.PricesFile)
	if err != nil {
		log.Fatalf("❌ loading price series: %v", err)
	}
	fmt.Printf("✅ Loaded %d trading days from %s\n", len(points), appCfg.Data.PricesFile)

	dividends, err := backtester.LoadDividends(appCfg.Data.DividendsFile)
	if err != nil {
		log.Fatalf("❌ loading dividends: %v", err)
	}
	if len(dividends) > 0 {
		fmt.Printf("✅ Loaded %d dividend events from %s\n", len(dividends), appCfg.Data.DividendsFile)
	}

	strategyConfigs, err := backtester.LoadStrategyConfigs(appCfg.Strategies.ConfigFile)
	if err != nil {
		log.Fatalf("❌ loading strategy configs: %v", err)
	}

	printer := backtester.NewConsolePrinter()
	results, primary, err := runStrategies(config, appCfg, printer, strategyConfigs, points, dividends)
	if err != nil {
		log.Fatalf("❌ running strategies: %v", err)
	}
	if len(results) == 0 {
		log.Fatal("❌ no strategy produced a result")
	}

	benchmarks := alignBenchmarks(appCfg, results, primary)

	saveResults(appCfg, results, primary, benchmarks)

	if config.MemProfile != "" {
		f, err := os.Create(config.MemProfile)
		if err != nil {
			log.Fatal("❌ creating memory profile file:", err)
		}
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatal("❌ writing memory profile:", err)
		}
		f.Close()
	}
}

// parseFlags parses the command line.
func parseFlags() backtester.Config {
	configFile := flag.String("config", "backtest.yaml", "Path to the YAML application config")
	strategyName := flag.String("strategy", "all", "Strategy: all, or one of "+strings.Join(internal.StrategyNames(), ", "))
	debug := flag.Bool("debug", false, "Verbose logging")
	history := flag.Bool("history", false, "List recorded runs and exit")
	cpuProfile := flag.String("cpu_profile", "", "CPU profile output file (empty = disabled)")
	memProfile := flag.String("mem_profile", "", "Memory profile output file (empty = disabled)")
	profPort := flag.Int("prof_port", 0, "Port for live pprof (0 = disabled)")
	flag.Parse()

	return backtester.Config{
		ConfigFile:  *configFile,
		Strategy:    *strategyName,
		Debug:       *debug,
		ShowHistory: *history,
		CpuProfile:  *cpuProfile,
		MemProfile:  *memProfile,
		ProfPort:    *profPort,
	}
}

// runStrategies dispatches to the parallel or single runner and returns the
// results plus the name of the primary strategy for the export.
func runStrategies(config backtester.Config, appCfg *backtester.AppConfig, printer backtester.ResultPrinter,
	strategyConfigs map[string]json.RawMessage, points []internal.PricePoint, dividends []internal.DividendEvent) ([]backtester.RunResult, string, error) {

	if config.Strategy == "all" {
		runner := backtester.NewParallelStrategyRunner(config.Debug, printer, appCfg.Strategies.Run, strategyConfigs, appCfg.Meta.InitialCapital)
		results, err := runner.RunAllStrategies(points, dividends)
		if err != nil {
			return nil, "", err
		}
		primary := "rsi_threshold"
		if len(appCfg.Strategies.Run) > 0 {
			primary = appCfg.Strategies.Run[0]
		}
		return results, primary, nil
	}

	runner := backtester.NewSingleStrategyRunner(config.Debug, printer, strategyConfigs, appCfg.Meta.InitialCapital)
	results, err := runner.RunWithBaseline(config.Strategy, points, dividends)
	if err != nil {
		return nil, "", err
	}
	return results, config.Strategy, nil
}

// alignBenchmarks maps each configured benchmark series onto the primary
// strategy's trading calendar.
func alignBenchmarks(appCfg *backtester.AppConfig, results []backtester.RunResult, primary string) map[string][]internal.BenchmarkValue {
	var refDates []string
	for _, r := range results {
		if r.Name == primary {
			for _, v := range r.Result.DailyValues {
				refDates = append(refDates, v.Date)
			}
			break
		}
	}
	if len(refDates) == 0 {
		return nil
	}

	benchmarks := make(map[string][]internal.BenchmarkValue)
	for _, b := range appCfg.Data.Benchmarks {
		series, err := backtester.LoadPriceSeries(b.File)
		if err != nil {
			log.Printf("⚠️  benchmark %s: %v", b.Name, err)
			continue
		}
		aligned, err := internal.AlignBenchmark(series, refDates, appCfg.Meta.InitialCapital)
		if err != nil {
			log.Printf("⚠️  benchmark %s: %v", b.Name, err)
			continue
		}
		benchmarks[b.Name] = aligned
		fmt.Printf("✅ Benchmark %s aligned: %d of %d dates\n", b.Name, len(aligned), len(refDates))
	}
	return benchmarks
}

// saveResults writes the JSON document, the Parquet export, and the run
// history, each only when configured.
func saveResults(appCfg *backtester.AppConfig, results []backtester.RunResult, primary string, benchmarks map[string][]internal.BenchmarkValue) {
	saver := backtester.NewFileSaver()

	if appCfg.Output.ResultFile != "" {
		doc, err := backtester.BuildResultDocument(appCfg.Meta, primary, results, benchmarks)
		if err != nil {
			log.Printf("❌ building result document: %v", err)
		} else if err := saver.SaveResultDocument(doc, appCfg.Output.ResultFile); err != nil {
			log.Printf("❌ saving result document: %v", err)
		}
	}

	if appCfg.Output.ParquetDir != "" {
		for _, r := range results {
			if err := saver.ExportDailyValuesParquet(appCfg.Output.ParquetDir, r.Name, r.Result.DailyValues); err != nil {
				log.Printf("❌ parquet export for %s: %v", r.Name, err)
			}
		}
	}

	if appCfg.Output.SQLitePath != "" {
		history, err := backtester.OpenRunHistory(appCfg.Output.SQLitePath)
		if err != nil {
			log.Printf("❌ opening run history: %v", err)
			return
		}
		defer history.Close()
		if err := history.AppendAll(context.Background(), results); err != nil {
			log.Printf("❌ appending run history: %v", err)
		} else {
			fmt.Printf("💾 %d runs recorded in %s\n", len(results), appCfg.Output.SQLitePath)
		}
	}
}

// showHistory prints the recorded runs.
func showHistory(appCfg *backtester.AppConfig) {
	if appCfg.Output.SQLitePath == "" {
		log.Fatal("❌ output.sqlite_path is not configured")
	}
	history, err := backtester.OpenRunHistory(appCfg.Output.SQLitePath)
	if err != nil {
		log.Fatalf("❌ opening run history: %v", err)
	}
	defer history.Close()

	records, err := history.List(context.Background(), 50)
	if err != nil {
		log.Fatalf("❌ listing run history: %v", err)
	}
	backtester.PrintHistory(records)
}
