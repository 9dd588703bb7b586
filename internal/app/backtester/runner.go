package backtester

import (
	"encoding/json"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"rsibt/internal"
)

// BaseStrategyRunner holds the logic shared by the parallel and single
// runners: config resolution and running one strategy.
type BaseStrategyRunner struct {
	debug          bool
	configs        map[string]json.RawMessage
	initialCapital float64
}

// resolveConfig picks the loaded override for the strategy when one exists,
// otherwise the strategy's default, and stamps the app-level initial capital
// on top.
func (r *BaseStrategyRunner) resolveConfig(strategy internal.TradingStrategy) (internal.StrategyConfig, error) {
	cfg := strategy.DefaultConfig()
	if raw, ok := r.configs[strategy.Name()]; ok {
		loaded, err := strategy.LoadConfig(raw)
		if err != nil {
			return internal.StrategyConfig{}, fmt.Errorf("config for %s: %w", strategy.Name(), err)
		}
		cfg = loaded
		if r.debug {
			fmt.Printf("🐛 DEBUG: using loaded config for %s: %s\n", strategy.Name(), cfg.String())
		}
	}
	if r.initialCapital > 0 {
		cfg.InitialCapital = r.initialCapital
	}
	return cfg, nil
}

// runSingleStrategy runs one registered strategy and derives its statistics.
func (r *BaseStrategyRunner) runSingleStrategy(strategyName string, points []internal.PricePoint, dividends []internal.DividendEvent) (*RunResult, error) {
	strategy, ok := internal.GetStrategy(strategyName)
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q (registered: %s)", strategyName, strings.Join(internal.StrategyNames(), ", "))
	}

	cfg, err := r.resolveConfig(strategy)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	sim, err := strategy.Run(points, dividends, cfg)
	if err != nil {
		return nil, fmt.Errorf("running %s: %w", strategyName, err)
	}

	return &RunResult{
		Name:          strategy.Name(),
		Config:        cfg,
		Result:        sim,
		Stats:         internal.ComputeStatistics(sim.DailyValues, sim.Trades),
		ExecutionTime: time.Since(start),
	}, nil
}

// ParallelStrategyRunner runs a set of registered strategies concurrently.
type ParallelStrategyRunner struct {
	BaseStrategyRunner
	printer ResultPrinter
	names   []string
}

// NewParallelStrategyRunner builds a runner over the given strategy names
// (nil means every registered strategy) with per-strategy config overrides.
func NewParallelStrategyRunner(debug bool, printer ResultPrinter, names []string, configs map[string]json.RawMessage, initialCapital float64) *ParallelStrategyRunner {
	if len(names) == 0 {
		names = internal.StrategyNames()
	}
	return &ParallelStrategyRunner{
		BaseStrategyRunner: BaseStrategyRunner{debug: debug, configs: configs, initialCapital: initialCapital},
		printer:            printer,
		names:              names,
	}
}

func (r *ParallelStrategyRunner) RunStrategy(strategyName string, points []internal.PricePoint, dividends []internal.DividendEvent) (*RunResult, error) {
	return r.runSingleStrategy(strategyName, points, dividends)
}

// RunAllStrategies runs the configured strategies in parallel and prints a
// comparison. Each run is an independent pure computation over the shared
// read-only series, so goroutine-per-strategy is safe.
func (r *ParallelStrategyRunner) RunAllStrategies(points []internal.PricePoint, dividends []internal.DividendEvent) ([]RunResult, error) {
	fmt.Println("\n" + strings.Repeat("═", 80))
	fmt.Println("🚀 RUNNING STRATEGY COMPARISON")
	fmt.Println(strings.Repeat("═", 80))
	fmt.Printf("🔥 Parallel execution on %d cores\n", runtime.NumCPU())
	fmt.Printf("📊 Series length: %d trading days\n", len(points))
	fmt.Printf("🎯 Strategies to run: %d (%s)\n", len(r.names), strings.Join(r.names, ", "))
	fmt.Println(strings.Repeat("─", 80))

	startTime := time.Now()

	resultsChan := make(chan RunResult, len(r.names))
	var wg sync.WaitGroup

	for _, name := range r.names {
		wg.Add(1)
		go func(strategyName string) {
			defer wg.Done()

			result, err := r.runSingleStrategy(strategyName, points, dividends)
			if err != nil {
				fmt.Printf("❌ %s failed: %v\n", strategyName, err)
				return
			}
			resultsChan <- *result
			fmt.Printf("✅ %-16s │ Return: %+8.2f%% │ Trades: %3d │ Time: %8v\n",
				result.Name, result.Stats.TotalReturn, result.Stats.TradeCount, result.ExecutionTime)
		}(name)
	}

	wg.Wait()
	close(resultsChan)

	var results []RunResult
	for result := range resultsChan {
		results = append(results, result)
	}

	elapsed := time.Since(startTime)
	fmt.Println(strings.Repeat("─", 80))
	fmt.Printf("⚡ All %d strategies finished in %v\n", len(r.names), elapsed)

	if r.printer != nil {
		r.printer.PrintComparison(results)
	}
	return results, nil
}

// SingleStrategyRunner runs one strategy next to the buy-and-hold baseline.
type SingleStrategyRunner struct {
	BaseStrategyRunner
	printer ResultPrinter
}

func NewSingleStrategyRunner(debug bool, printer ResultPrinter, configs map[string]json.RawMessage, initialCapital float64) *SingleStrategyRunner {
	return &SingleStrategyRunner{
		BaseStrategyRunner: BaseStrategyRunner{debug: debug, configs: configs, initialCapital: initialCapital},
		printer:            printer,
	}
}

func (r *SingleStrategyRunner) RunStrategy(strategyName string, points []internal.PricePoint, dividends []internal.DividendEvent) (*RunResult, error) {
	fmt.Println("\n" + strings.Repeat("═", 80))
	fmt.Println("🎯 RUNNING SINGLE STRATEGY")
	fmt.Println(strings.Repeat("═", 80))
	fmt.Printf("📈 Strategy: %s\n", strategyName)
	fmt.Printf("📊 Series length: %d trading days\n", len(points))
	fmt.Println(strings.Repeat("─", 80))

	result, err := r.runSingleStrategy(strategyName, points, dividends)
	if err != nil {
		return nil, err
	}
	fmt.Printf("⚡ Finished in %v\n", result.ExecutionTime)
	return result, nil
}

// RunAllStrategies runs the requested strategy and the buy_and_hold
// baseline over the same series and prints both.
func (r *SingleStrategyRunner) RunAllStrategies(points []internal.PricePoint, dividends []internal.DividendEvent) ([]RunResult, error) {
	return nil, fmt.Errorf("SingleStrategyRunner runs one strategy at a time")
}

// RunWithBaseline runs the strategy plus the buy_and_hold benchmark and
// prints the comparison.
func (r *SingleStrategyRunner) RunWithBaseline(strategyName string, points []internal.PricePoint, dividends []internal.DividendEvent) ([]RunResult, error) {
	main, err := r.RunStrategy(strategyName, points, dividends)
	if err != nil {
		return nil, err
	}

	results := []RunResult{*main}
	if strategyName != "buy_and_hold" {
		baseline, err := r.runSingleStrategy("buy_and_hold", points, dividends)
		if err != nil {
			fmt.Printf("⚠️  buy_and_hold baseline failed: %v\n", err)
		} else {
			results = append(results, *baseline)
		}
	}

	if r.printer != nil {
		r.printer.PrintComparison(results)
	}
	return results, nil
}
