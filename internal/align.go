// align.go
package internal

import "errors"

var ErrNoOverlap = errors.New("benchmark series has no dates in common with the reference axis")

// BenchmarkValue is one aligned point of a benchmark series, normalized so
// that the first matched date maps to the initial capital.
type BenchmarkValue struct {
	Date       string  `json:"date"`
	TotalValue float64 `json:"total_value"`
	ReturnPct  float64 `json:"return_pct"`
}

// AlignBenchmark maps an independently dated benchmark series onto a
// reference date axis, typically a strategy run's trading calendar.
//
// An exact date match uses the benchmark price directly; the first match
// becomes the basis, so its return is 0. A reference date missing from the
// benchmark carries the previous aligned value forward. Reference dates
// before the benchmark begins are skipped. Returns ErrNoOverlap when no
// reference date matches at all.
func AlignBenchmark(benchmark []PricePoint, refDates []string, initialCapital float64) ([]BenchmarkValue, error) {
	closes := make(map[string]float64, len(benchmark))
	for _, p := range benchmark {
		closes[p.DateKey()] = p.Close.ToFloat64()
	}

	var values []BenchmarkValue
	basis := 0.0
	var last *BenchmarkValue

	for _, date := range refDates {
		if price, ok := closes[date]; ok {
			if basis == 0 {
				basis = price
			}
			v := BenchmarkValue{
				Date:       date,
				TotalValue: initialCapital * (price / basis),
				ReturnPct:  (price/basis - 1) * 100,
			}
			values = append(values, v)
			last = &values[len(values)-1]
			continue
		}
		// Holiday mismatch or suspension: carry the prior aligned value
		// forward rather than interpolating.
		if last != nil {
			values = append(values, BenchmarkValue{
				Date:       date,
				TotalValue: last.TotalValue,
				ReturnPct:  last.ReturnPct,
			})
			last = &values[len(values)-1]
		}
		// No prior value yet: the benchmark starts later than this
		// reference date, skip it.
	}

	if len(values) == 0 {
		return nil, ErrNoOverlap
	}
	return values, nil
}
