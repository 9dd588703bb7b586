// Buy & Hold Strategy
//
// The baseline every threshold variant is measured against: buy on the
// first bar under the configured share mode and hold to the end. With the
// lot mode the unspent remainder stays as cash; dividends follow the same
// three policies as the active strategies.

package simple

import (
	"rsibt/internal"
)

type BuyAndHoldStrategy struct {
	internal.StrategyBase
}

func NewBuyAndHoldStrategy() *BuyAndHoldStrategy {
	return &BuyAndHoldStrategy{
		StrategyBase: internal.NewStrategyBase("buy_and_hold", internal.StrategyConfig{
			// Thresholds are unused but must satisfy buy < sell.
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

func (s *BuyAndHoldStrategy) Run(points []internal.PricePoint, dividends []internal.DividendEvent, cfg internal.StrategyConfig) (internal.SimulationResult, error) {
	return internal.SimulateBuyAndHold(points, dividends, cfg)
}

// BuyAndHoldNoDivStrategy is the same baseline with the dividend schedule
// dropped, showing how much of the hold return the distributions contribute.
type BuyAndHoldNoDivStrategy struct {
	internal.StrategyBase
}

func NewBuyAndHoldNoDivStrategy() *BuyAndHoldNoDivStrategy {
	base := NewBuyAndHoldStrategy()
	return &BuyAndHoldNoDivStrategy{
		StrategyBase: internal.NewStrategyBase("buy_and_hold_no_div", base.DefaultConfig()),
	}
}

func (s *BuyAndHoldNoDivStrategy) Run(points []internal.PricePoint, _ []internal.DividendEvent, cfg internal.StrategyConfig) (internal.SimulationResult, error) {
	return internal.SimulateBuyAndHold(points, nil, cfg)
}

func init() {
	internal.RegisterStrategy(NewBuyAndHoldStrategy())
	internal.RegisterStrategy(NewBuyAndHoldNoDivStrategy())
}
