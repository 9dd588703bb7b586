// optimizer.go
package internal

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
	lop "github.com/samber/lo/parallel"
)

// GridSpec describes the Cartesian parameter grid of a sweep. All bounds are
// inclusive. A fixed period (PeriodFrom == PeriodTo) gives a threshold-only
// sweep; MinGap drops combinations whose sell threshold is not at least that
// far above the buy threshold.
type GridSpec struct {
	PeriodFrom int `json:"period_from"`
	PeriodTo   int `json:"period_to"`
	PeriodStep int `json:"period_step"`

	BuyFrom float64 `json:"buy_from"`
	BuyTo   float64 `json:"buy_to"`
	BuyStep float64 `json:"buy_step"`

	SellFrom float64 `json:"sell_from"`
	SellTo   float64 `json:"sell_to"`
	SellStep float64 `json:"sell_step"`

	MinGap float64 `json:"min_gap"`
}

func (g GridSpec) validate() error {
	if g.PeriodFrom <= 0 || g.PeriodTo < g.PeriodFrom || g.PeriodStep <= 0 {
		return fmt.Errorf("%w: bad period range [%d, %d] step %d", ErrInvalidConfig, g.PeriodFrom, g.PeriodTo, g.PeriodStep)
	}
	if g.BuyTo < g.BuyFrom || g.BuyStep <= 0 {
		return fmt.Errorf("%w: bad buy threshold range [%.1f, %.1f] step %.1f", ErrInvalidConfig, g.BuyFrom, g.BuyTo, g.BuyStep)
	}
	if g.SellTo < g.SellFrom || g.SellStep <= 0 {
		return fmt.Errorf("%w: bad sell threshold range [%.1f, %.1f] step %.1f", ErrInvalidConfig, g.SellFrom, g.SellTo, g.SellStep)
	}
	return nil
}

// ParamResult is one evaluated grid combination.
type ParamResult struct {
	Period        int     `json:"period"`
	BuyThreshold  float64 `json:"buy_threshold"`
	SellThreshold float64 `json:"sell_threshold"`
	TotalReturn   float64 `json:"total_return"`
	MaxDrawdown   float64 `json:"max_drawdown"`
	TradeCount    int     `json:"trade_count"`
	WinRate       float64 `json:"win_rate"`
	RiskRatio     float64 `json:"return_drawdown_ratio"`
	EndsLong      bool    `json:"ends_long"`
}

// OptimizationReport is the ranked outcome of a parameter sweep.
type OptimizationReport struct {
	Grid              GridSpec      `json:"grid"`
	StartDate         string        `json:"start_date"`
	EndDate           string        `json:"end_date"`
	TradingDays       int           `json:"trading_days"`
	CalendarDays      int           `json:"calendar_days"`
	TotalCombinations int           `json:"total_combinations"`
	Evaluated         int           `json:"evaluated"`
	Skipped           int           `json:"skipped"`
	BaselineReturn    float64       `json:"buyhold_return"`
	BeatingBaseline   int           `json:"beating_buyhold_count"`
	BeatingFraction   float64       `json:"beating_buyhold_pct"`
	Results           []ParamResult `json:"results"`
	TopByPeriod       []ParamResult `json:"top_by_period"`
	TopRiskAdjusted   []ParamResult `json:"top_risk_adjusted"`
}

// Best returns the top-ranked combination.
func (r OptimizationReport) Best() (ParamResult, bool) {
	if len(r.Results) == 0 {
		return ParamResult{}, false
	}
	return r.Results[0], true
}

// inclusiveRange is lo.RangeWithSteps with a closed upper bound.
func inclusiveRange[T int | float64](from, to, step T) []T {
	return lo.RangeWithSteps(from, to+step, step)
}

// Optimize evaluates the simulator over every valid (period, buy, sell)
// combination of the grid and ranks the outcomes by total return. The base
// config supplies everything the grid does not vary: share mode, lot size,
// dividend policy, and initial capital.
//
// Combinations are independent pure runs over the shared read-only series,
// so they are evaluated in parallel. A combination that fails validation is
// skipped; a combination whose simulation fails is dropped without aborting
// the sweep. Ties on total return break deterministically by ascending
// period, then buy threshold, then sell threshold.
func Optimize(points []PricePoint, dividends []DividendEvent, base StrategyConfig, grid GridSpec, calc RSICalculator) (OptimizationReport, error) {
	if err := grid.validate(); err != nil {
		return OptimizationReport{}, err
	}
	if len(points) == 0 {
		return OptimizationReport{}, fmt.Errorf("empty price series")
	}

	periods := inclusiveRange(grid.PeriodFrom, grid.PeriodTo, grid.PeriodStep)

	// One indicator series per period, shared read-only by all workers.
	rsiByPeriod := make(map[int][]IndicatorValue, len(periods))
	closes := Closes(points)
	for _, p := range periods {
		rsiByPeriod[p] = calc.Compute(closes, p)
	}

	combos := lo.CrossJoinBy3(
		periods,
		inclusiveRange(grid.BuyFrom, grid.BuyTo, grid.BuyStep),
		inclusiveRange(grid.SellFrom, grid.SellTo, grid.SellStep),
		func(period int, buy, sell float64) StrategyConfig {
			cfg := base
			cfg.Period = period
			cfg.BuyThreshold = buy
			cfg.SellThreshold = sell
			return cfg
		})

	minGap := grid.MinGap
	valid := lo.Filter(combos, func(cfg StrategyConfig, _ int) bool {
		if cfg.Validate() != nil {
			return false
		}
		return cfg.SellThreshold-cfg.BuyThreshold >= minGap
	})

	evaluated := lop.Map(valid, func(cfg StrategyConfig, _ int) *ParamResult {
		sim, err := Simulate(points, rsiByPeriod[cfg.Period], dividends, cfg)
		if err != nil {
			return nil
		}
		stats := ComputeStatistics(sim.DailyValues, sim.Trades)
		riskRatio := 0.0
		if stats.MaxDrawdown > 0 {
			riskRatio = stats.TotalReturn / stats.MaxDrawdown
		}
		return &ParamResult{
			Period:        cfg.Period,
			BuyThreshold:  cfg.BuyThreshold,
			SellThreshold: cfg.SellThreshold,
			TotalReturn:   stats.TotalReturn,
			MaxDrawdown:   stats.MaxDrawdown,
			TradeCount:    stats.TradeCount,
			WinRate:       stats.WinRate,
			RiskRatio:     riskRatio,
			EndsLong:      sim.EndsLong,
		}
	})

	results := make([]ParamResult, 0, len(evaluated))
	for _, r := range evaluated {
		if r != nil {
			results = append(results, *r)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.TotalReturn != b.TotalReturn {
			return a.TotalReturn > b.TotalReturn
		}
		if a.Period != b.Period {
			return a.Period < b.Period
		}
		if a.BuyThreshold != b.BuyThreshold {
			return a.BuyThreshold < b.BuyThreshold
		}
		return a.SellThreshold < b.SellThreshold
	})

	// Buy-and-hold baseline over the same series: pure close ratio.
	first := points[0].Close.ToFloat64()
	last := points[len(points)-1].Close.ToFloat64()
	baseline := (last/first - 1) * 100

	beating := 0
	for _, r := range results {
		if r.TotalReturn > baseline {
			beating++
		}
	}
	beatingPct := 0.0
	if len(results) > 0 {
		beatingPct = float64(beating) / float64(len(results)) * 100
	}

	topByPeriod := make([]ParamResult, 0, len(periods))
	seen := make(map[int]bool, len(periods))
	for _, r := range results {
		if !seen[r.Period] {
			seen[r.Period] = true
			topByPeriod = append(topByPeriod, r)
		}
	}
	sort.Slice(topByPeriod, func(i, j int) bool { return topByPeriod[i].Period < topByPeriod[j].Period })

	byRatio := make([]ParamResult, len(results))
	copy(byRatio, results)
	sort.Slice(byRatio, func(i, j int) bool {
		a, b := byRatio[i], byRatio[j]
		if a.RiskRatio != b.RiskRatio {
			return a.RiskRatio > b.RiskRatio
		}
		if a.Period != b.Period {
			return a.Period < b.Period
		}
		if a.BuyThreshold != b.BuyThreshold {
			return a.BuyThreshold < b.BuyThreshold
		}
		return a.SellThreshold < b.SellThreshold
	})
	if len(byRatio) > 10 {
		byRatio = byRatio[:10]
	}

	startDate := points[0].DateKey()
	endDate := points[len(points)-1].DateKey()

	return OptimizationReport{
		Grid:              grid,
		StartDate:         startDate,
		EndDate:           endDate,
		TradingDays:       len(points),
		CalendarDays:      calendarDaysBetween(startDate, endDate),
		TotalCombinations: len(combos),
		Evaluated:         len(results),
		Skipped:           len(combos) - len(results),
		BaselineReturn:    baseline,
		BeatingBaseline:   beating,
		BeatingFraction:   beatingPct,
		Results:           results,
		TopByPeriod:       topByPeriod,
		TopRiskAdjusted:   byRatio,
	}, nil
}
