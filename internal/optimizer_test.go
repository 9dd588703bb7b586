package internal

import (
	"sort"
	"testing"
)

func optimizerBase() StrategyConfig {
	return StrategyConfig{
		Mode:           ShareModeFractional,
		Dividends:      DividendReinvestImmediate,
		InitialCapital: 10000,
	}
}

func zigzagSeries(t *testing.T) []PricePoint {
	t.Helper()
	return makeSeries(t, "2024-01-01",
		10, 9, 8, 7, 8, 10, 12, 13, 11, 9,
		8, 7, 9, 11, 13, 14, 12, 10, 9, 8,
		9, 11, 13, 15, 14, 12, 11, 10, 11, 13)
}

func TestOptimize_CoversInclusiveGrid(t *testing.T) {
	grid := GridSpec{
		PeriodFrom: 3, PeriodTo: 5, PeriodStep: 1,
		BuyFrom: 20, BuyTo: 30, BuyStep: 5,
		SellFrom: 60, SellTo: 70, SellStep: 5,
	}

	report, err := Optimize(zigzagSeries(t), nil, optimizerBase(), grid, WilderRSI{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 3 periods x 3 buys x 3 sells, bounds included.
	if report.TotalCombinations != 27 {
		t.Errorf("expected 27 combinations, got %d", report.TotalCombinations)
	}
	if report.Evaluated != 27 || report.Skipped != 0 {
		t.Errorf("expected all combinations evaluated, got %d evaluated, %d skipped", report.Evaluated, report.Skipped)
	}
	if len(report.Results) != 27 {
		t.Errorf("expected 27 ranked results, got %d", len(report.Results))
	}
}

func TestOptimize_ResultsRankedByReturn(t *testing.T) {
	grid := GridSpec{
		PeriodFrom: 3, PeriodTo: 6, PeriodStep: 1,
		BuyFrom: 25, BuyTo: 45, BuyStep: 10,
		SellFrom: 55, SellTo: 75, SellStep: 10,
	}

	report, err := Optimize(zigzagSeries(t), nil, optimizerBase(), grid, WilderRSI{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !sort.SliceIsSorted(report.Results, func(i, j int) bool {
		return report.Results[i].TotalReturn > report.Results[j].TotalReturn
	}) {
		t.Error("expected results sorted by total return, best first")
	}

	best, ok := report.Best()
	if !ok {
		t.Fatal("expected a best combination")
	}
	if best != report.Results[0] {
		t.Errorf("expected Best to match the first ranked result, got %+v", best)
	}
}

func TestOptimize_TieBreakIsDeterministic(t *testing.T) {
	// A monotonically rising series never goes oversold, so every
	// combination stays flat at 0% and the tie-break ordering is exposed.
	points := makeSeries(t, "2024-01-01", 10, 11, 12, 13, 14, 15, 16, 17, 18, 19)
	grid := GridSpec{
		PeriodFrom: 3, PeriodTo: 4, PeriodStep: 1,
		BuyFrom: 20, BuyTo: 30, BuyStep: 10,
		SellFrom: 70, SellTo: 80, SellStep: 10,
	}

	report, err := Optimize(points, nil, optimizerBase(), grid, WilderRSI{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 1; i < len(report.Results); i++ {
		a, b := report.Results[i-1], report.Results[i]
		if a.TotalReturn != b.TotalReturn {
			t.Fatalf("expected an all-tied sweep, got returns %.4f and %.4f", a.TotalReturn, b.TotalReturn)
		}
		ordered := a.Period < b.Period ||
			(a.Period == b.Period && a.BuyThreshold < b.BuyThreshold) ||
			(a.Period == b.Period && a.BuyThreshold == b.BuyThreshold && a.SellThreshold < b.SellThreshold)
		if !ordered {
			t.Errorf("tie-break violated between %+v and %+v", a, b)
		}
	}
}

func TestOptimize_MinGapAndInvalidCombosSkipped(t *testing.T) {
	grid := GridSpec{
		PeriodFrom: 5, PeriodTo: 5, PeriodStep: 1,
		BuyFrom: 20, BuyTo: 40, BuyStep: 10,
		SellFrom: 40, SellTo: 60, SellStep: 10,
		MinGap: 25,
	}

	report, err := Optimize(zigzagSeries(t), nil, optimizerBase(), grid, WilderRSI{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Of the 9 threshold pairs only (20,50), (20,60) and (30,60) clear the
	// 25-point gap; (40,40) is invalid outright.
	if report.TotalCombinations != 9 {
		t.Errorf("expected 9 raw combinations, got %d", report.TotalCombinations)
	}
	if report.Evaluated != 3 || report.Skipped != 6 {
		t.Errorf("expected 3 evaluated and 6 skipped, got %d / %d", report.Evaluated, report.Skipped)
	}
	for _, r := range report.Results {
		if r.SellThreshold-r.BuyThreshold < grid.MinGap {
			t.Errorf("combination %+v violates the minimum gap", r)
		}
	}
}

func TestOptimize_FixedPeriodSweep(t *testing.T) {
	grid := GridSpec{
		PeriodFrom: 4, PeriodTo: 4, PeriodStep: 1,
		BuyFrom: 25, BuyTo: 35, BuyStep: 5,
		SellFrom: 65, SellTo: 75, SellStep: 5,
	}

	report, err := Optimize(zigzagSeries(t), nil, optimizerBase(), grid, PureEMARSI{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, r := range report.Results {
		if r.Period != 4 {
			t.Errorf("expected every result at the fixed period, got %+v", r)
		}
	}
	if len(report.TopByPeriod) != 1 {
		t.Errorf("expected one per-period leader, got %d", len(report.TopByPeriod))
	}
}

func TestOptimize_BaselineComparison(t *testing.T) {
	points := zigzagSeries(t)
	grid := GridSpec{
		PeriodFrom: 3, PeriodTo: 5, PeriodStep: 1,
		BuyFrom: 25, BuyTo: 40, BuyStep: 5,
		SellFrom: 60, SellTo: 75, SellStep: 5,
	}

	report, err := Optimize(points, nil, optimizerBase(), grid, WilderRSI{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first := points[0].Close.ToFloat64()
	last := points[len(points)-1].Close.ToFloat64()
	wantBaseline := (last/first - 1) * 100
	if !almostEqual(report.BaselineReturn, wantBaseline, 1e-9) {
		t.Errorf("expected baseline %.4f, got %.4f", wantBaseline, report.BaselineReturn)
	}

	beating := 0
	for _, r := range report.Results {
		if r.TotalReturn > report.BaselineReturn {
			beating++
		}
	}
	if report.BeatingBaseline != beating {
		t.Errorf("expected %d combinations beating the baseline, got %d", beating, report.BeatingBaseline)
	}
}

func TestOptimize_TopRiskAdjustedCapped(t *testing.T) {
	grid := GridSpec{
		PeriodFrom: 3, PeriodTo: 6, PeriodStep: 1,
		BuyFrom: 20, BuyTo: 45, BuyStep: 5,
		SellFrom: 55, SellTo: 80, SellStep: 5,
	}

	report, err := Optimize(zigzagSeries(t), nil, optimizerBase(), grid, WilderRSI{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.TopRiskAdjusted) != 10 {
		t.Errorf("expected the risk-adjusted board capped at 10, got %d", len(report.TopRiskAdjusted))
	}
	if !sort.SliceIsSorted(report.TopRiskAdjusted, func(i, j int) bool {
		return report.TopRiskAdjusted[i].RiskRatio > report.TopRiskAdjusted[j].RiskRatio
	}) {
		t.Error("expected the risk-adjusted board sorted by ratio, best first")
	}
}

func TestOptimize_RejectsBadGrid(t *testing.T) {
	cases := []GridSpec{
		{PeriodFrom: 0, PeriodTo: 5, PeriodStep: 1, BuyFrom: 20, BuyTo: 30, BuyStep: 5, SellFrom: 60, SellTo: 70, SellStep: 5},
		{PeriodFrom: 5, PeriodTo: 3, PeriodStep: 1, BuyFrom: 20, BuyTo: 30, BuyStep: 5, SellFrom: 60, SellTo: 70, SellStep: 5},
		{PeriodFrom: 3, PeriodTo: 5, PeriodStep: 1, BuyFrom: 30, BuyTo: 20, BuyStep: 5, SellFrom: 60, SellTo: 70, SellStep: 5},
		{PeriodFrom: 3, PeriodTo: 5, PeriodStep: 1, BuyFrom: 20, BuyTo: 30, BuyStep: 0, SellFrom: 60, SellTo: 70, SellStep: 5},
	}
	for i, grid := range cases {
		if _, err := Optimize(zigzagSeries(t), nil, optimizerBase(), grid, WilderRSI{}); err == nil {
			t.Errorf("case %d: expected an error for a malformed grid", i)
		}
	}
}

func TestOptimize_EmptySeries(t *testing.T) {
	grid := GridSpec{
		PeriodFrom: 3, PeriodTo: 5, PeriodStep: 1,
		BuyFrom: 20, BuyTo: 30, BuyStep: 5,
		SellFrom: 60, SellTo: 70, SellStep: 5,
	}
	if _, err := Optimize(nil, nil, optimizerBase(), grid, WilderRSI{}); err == nil {
		t.Error("expected an error for an empty series")
	}
}
