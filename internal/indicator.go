// indicator.go
package internal

import (
	"encoding/json"
)

// IndicatorValue is one point of an indicator series. Valid is false while
// the indicator has not accumulated enough history.
type IndicatorValue struct {
	Value float64
	Valid bool
}

// MarshalJSON emits the value, or null while the indicator is undefined.
func (v IndicatorValue) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.Value)
}

func (v *IndicatorValue) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = IndicatorValue{}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = IndicatorValue{Value: f, Valid: true}
	return nil
}

// RSICalculator computes an RSI series from a close series. The two smoothing
// schemes are distinct calculators and are never substituted for one another:
// a Wilder RSI and a pure-EMA RSI of the same period differ numerically.
type RSICalculator interface {
	Name() string
	Compute(closes []float64, period int) []IndicatorValue
}

// WilderRSI is the classic formulation: average gain/loss seeded by a simple
// mean over the first period deltas, then smoothed recursively with weight
// 1/period.
type WilderRSI struct{}

// PureEMARSI smooths gains and losses exponentially with alpha = 1/period
// from the very first bar, with no simple-mean seed window. More reactive
// than Wilder for the same period.
type PureEMARSI struct{}

var _ RSICalculator = WilderRSI{}
var _ RSICalculator = PureEMARSI{}

func (WilderRSI) Name() string  { return "wilder" }
func (PureEMARSI) Name() string { return "ema" }

// gainsLosses splits day-over-day changes into gain and loss components.
// The first bar has no prior close; its change is taken as zero, which puts
// the first defined RSI at index period-1.
func gainsLosses(closes []float64) ([]float64, []float64) {
	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}
	return gains, losses
}

// rsiFrom converts smoothed averages into the bounded oscillator value.
// A zero average loss saturates to 100 instead of dividing by zero.
func rsiFrom(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}

func (WilderRSI) Compute(closes []float64, period int) []IndicatorValue {
	rsi := make([]IndicatorValue, len(closes))
	if period <= 0 || len(closes) < period {
		return rsi
	}

	gains, losses := gainsLosses(closes)

	var avgGain, avgLoss float64
	for i := 0; i < period; i++ {
		avgGain += gains[i]
		avgLoss += losses[i]
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	rsi[period-1] = IndicatorValue{Value: rsiFrom(avgGain, avgLoss), Valid: true}

	for i := period; i < len(closes); i++ {
		avgGain = (avgGain*float64(period-1) + gains[i]) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + losses[i]) / float64(period)
		rsi[i] = IndicatorValue{Value: rsiFrom(avgGain, avgLoss), Valid: true}
	}

	return rsi
}

func (PureEMARSI) Compute(closes []float64, period int) []IndicatorValue {
	rsi := make([]IndicatorValue, len(closes))
	if period <= 0 || len(closes) < period {
		return rsi
	}

	gains, losses := gainsLosses(closes)
	alpha := 1.0 / float64(period)

	avgGain := gains[0]
	avgLoss := losses[0]
	if period == 1 {
		rsi[0] = IndicatorValue{Value: rsiFrom(avgGain, avgLoss), Valid: true}
	}
	for i := 1; i < len(closes); i++ {
		avgGain = (1-alpha)*avgGain + alpha*gains[i]
		avgLoss = (1-alpha)*avgLoss + alpha*losses[i]
		if i >= period-1 {
			rsi[i] = IndicatorValue{Value: rsiFrom(avgGain, avgLoss), Valid: true}
		}
	}

	return rsi
}

// CalculateRSIWilder computes the Wilder RSI for a price series.
func CalculateRSIWilder(points []PricePoint, period int) []IndicatorValue {
	return WilderRSI{}.Compute(Closes(points), period)
}

// CalculateRSIEMA computes the pure-EMA RSI for a price series.
func CalculateRSIEMA(points []PricePoint, period int) []IndicatorValue {
	return PureEMARSI{}.Compute(Closes(points), period)
}
