package simple

import (
	"testing"

	"rsibt/internal"
)

func holdSeries() []internal.PricePoint {
	return []internal.PricePoint{
		internal.NewPricePoint("2024-01-01", 10),
		internal.NewPricePoint("2024-01-02", 10),
		internal.NewPricePoint("2024-01-03", 12),
	}
}

func TestBuyAndHoldVariantsRegistered(t *testing.T) {
	for _, name := range []string{"buy_and_hold", "buy_and_hold_no_div"} {
		if _, ok := internal.GetStrategy(name); !ok {
			t.Errorf("expected %s registered", name)
		}
	}
}

func TestBuyAndHoldNoDivIgnoresSchedule(t *testing.T) {
	dividends := []internal.DividendEvent{{Date: "2024-01-02", Amount: 0.5}}
	cfg := NewBuyAndHoldStrategy().DefaultConfig()
	cfg.InitialCapital = 1000

	withDiv, err := NewBuyAndHoldStrategy().Run(holdSeries(), dividends, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	without, err := NewBuyAndHoldNoDivStrategy().Run(holdSeries(), dividends, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 100 shares bought at 10; the 0.5/share distribution reinvests into 5
	// extra shares only in the dividend-aware variant.
	if withDiv.FinalValue <= without.FinalValue {
		t.Errorf("expected the dividend variant ahead, got %.2f vs %.2f", withDiv.FinalValue, without.FinalValue)
	}
	if len(without.Trades) != 1 {
		t.Errorf("expected only the initial buy without dividends, got %d trades", len(without.Trades))
	}
}
