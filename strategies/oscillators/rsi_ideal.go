// Ideal RSI Strategy
//
// How it works:
// Same threshold state machine as rsi_threshold, but with two changes that
// model a vehicle without lot restrictions:
// - the RSI is smoothed with a pure EMA (alpha = 1/period, no simple-mean
//   seed window), which reacts faster than Wilder smoothing;
// - shares are fractional, so a buy deploys all cash and a sell liquidates
//   everything with no dust handling.
//
// Parameters:
// - Period: RSI lookback, EMA smoothing (default 15)
// - BuyThreshold: oversold entry level (default 32)
// - SellThreshold: overbought exit level (default 77)

package oscillators

import (
	"rsibt/internal"
)

type RSIIdealStrategy struct {
	internal.StrategyBase
}

func NewRSIIdealStrategy() *RSIIdealStrategy {
	return &RSIIdealStrategy{
		StrategyBase: internal.NewStrategyBase("rsi_ideal", internal.StrategyConfig{
			Period:         15,
			BuyThreshold:   32,
			SellThreshold:  77,
			Mode:           internal.ShareModeFractional,
			Dividends:      internal.DividendReinvestImmediate,
			InitialCapital: 100000,
		}),
	}
}

func (s *RSIIdealStrategy) Run(points []internal.PricePoint, dividends []internal.DividendEvent, cfg internal.StrategyConfig) (internal.SimulationResult, error) {
	rsi := internal.CalculateRSIEMA(points, cfg.Period)
	return internal.Simulate(points, rsi, dividends, cfg)
}

func init() {
	internal.RegisterStrategy(NewRSIIdealStrategy())
}
