// Weekly RSI Strategy
//
// How it works:
// The RSI is computed on weekly bars (last close of each ISO week) and then
// projected back onto the daily axis, carried forward from each week-end
// date. Trades still execute on daily closes, so a weekly crossing fires on
// the first daily bar that observes it and the position state keeps it from
// firing again within the same week. Weekly smoothing filters out most
// intraweek noise at the cost of slower exits.
//
// Parameters:
// - Period: RSI lookback in weeks, Wilder smoothing (default 14)
// - BuyThreshold / SellThreshold: same levels as the daily variant

package oscillators

import (
	"rsibt/internal"
)

type RSIWeeklyStrategy struct {
	internal.StrategyBase
	calc internal.RSICalculator
}

func NewRSIWeeklyStrategy() *RSIWeeklyStrategy {
	return &RSIWeeklyStrategy{
		StrategyBase: internal.NewStrategyBase("rsi_weekly", internal.StrategyConfig{
			Period:         14,
			BuyThreshold:   40,
			SellThreshold:  70,
			LotSize:        100,
			Mode:           internal.ShareModeLot,
			Dividends:      internal.DividendReinvestImmediate,
			InitialCapital: 100000,
		}),
		calc: internal.WilderRSI{},
	}
}

func (s *RSIWeeklyStrategy) Run(points []internal.PricePoint, dividends []internal.DividendEvent, cfg internal.StrategyConfig) (internal.SimulationResult, error) {
	rsi := internal.ProjectWeekly(points, s.calc, cfg.Period)
	return internal.Simulate(points, rsi, dividends, cfg)
}

func init() {
	internal.RegisterStrategy(NewRSIWeeklyStrategy())
}
