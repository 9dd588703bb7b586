// RSI Threshold Strategy
//
// How it works:
// RSI measures the ratio of average recent gains to average recent losses,
// bounded to [0, 100]. The strategy buys the full position when RSI drops
// below the buy threshold (oversold) and liquidates when RSI rises above the
// sell threshold (overbought). Orders are quantized to whole lots; dust left
// after a partial sell is liquidated at the same close.
//
// Parameters:
// - Period: RSI lookback, Wilder smoothing (classic default 14)
// - BuyThreshold: oversold entry level (default 40)
// - SellThreshold: overbought exit level (default 70)

package oscillators

import (
	"rsibt/internal"
)

type RSIThresholdStrategy struct {
	internal.StrategyBase
}

func NewRSIThresholdStrategy() *RSIThresholdStrategy {
	return &RSIThresholdStrategy{
		StrategyBase: internal.NewStrategyBase("rsi_threshold", internal.StrategyConfig{
			Period:         14,
			BuyThreshold:   40,
			SellThreshold:  70,
			LotSize:        100,
			Mode:           internal.ShareModeLot,
			Dividends:      internal.DividendReinvestImmediate,
			InitialCapital: 100000,
		}),
	}
}

func (s *RSIThresholdStrategy) Run(points []internal.PricePoint, dividends []internal.DividendEvent, cfg internal.StrategyConfig) (internal.SimulationResult, error) {
	rsi := internal.CalculateRSIWilder(points, cfg.Period)
	return internal.Simulate(points, rsi, dividends, cfg)
}

func init() {
	internal.RegisterStrategy(NewRSIThresholdStrategy())
}
