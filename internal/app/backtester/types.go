package backtester

import (
	"time"

	"rsibt/internal"
)

// RunResult is the outcome of one strategy run: the simulation outputs plus
// the derived statistics and wall time.
type RunResult struct {
	Name          string
	Config        internal.StrategyConfig
	Result        internal.SimulationResult
	Stats         internal.Statistics
	ExecutionTime time.Duration
}

// StrategyRunner runs registered strategies over a loaded series.
type StrategyRunner interface {
	RunStrategy(strategyName string, points []internal.PricePoint, dividends []internal.DividendEvent) (*RunResult, error)
	RunAllStrategies(points []internal.PricePoint, dividends []internal.DividendEvent) ([]RunResult, error)
}

// ResultPrinter renders run results for the console.
type ResultPrinter interface {
	PrintComparison(results []RunResult)
}

// ResultSaver persists run results.
type ResultSaver interface {
	SaveResultDocument(doc *ResultDocument, path string) error
}

// Config carries the command-line options of the backtester binary.
type Config struct {
	ConfigFile  string
	Strategy    string
	Debug       bool
	ShowHistory bool
	CpuProfile  string
	MemProfile  string
	ProfPort    int
}
