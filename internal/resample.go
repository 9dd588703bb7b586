// resample.go
package internal

// ResampleWeekly collapses a daily series to weekly bars. Each bar carries
// the last close of its ISO week and is dated at that week's last trading
// day, so the bar becomes observable exactly when the week ends.
func ResampleWeekly(points []PricePoint) []PricePoint {
	var weekly []PricePoint
	for _, p := range points {
		year, week := p.ParsedDate.ISOWeek()
		if len(weekly) > 0 {
			ly, lw := weekly[len(weekly)-1].ParsedDate.ISOWeek()
			if ly == year && lw == week {
				weekly[len(weekly)-1] = p
				continue
			}
		}
		weekly = append(weekly, p)
	}
	return weekly
}

// ProjectWeekly computes the indicator on weekly bars and projects the
// values back onto the daily axis. Each daily bar sees the most recent
// completed weekly value, carried forward from the week-end date it was
// produced on; days before the first defined weekly value stay undefined.
//
// Running the daily simulator over the projected series reproduces
// weekly-signal trading: the value persists through the following week, but
// the position state check lets each crossing fire at most once.
func ProjectWeekly(daily []PricePoint, calc RSICalculator, period int) []IndicatorValue {
	weekly := ResampleWeekly(daily)
	weeklyRSI := calc.Compute(Closes(weekly), period)

	byDate := make(map[string]IndicatorValue, len(weekly))
	for i, w := range weekly {
		if weeklyRSI[i].Valid {
			byDate[w.DateKey()] = weeklyRSI[i]
		}
	}

	projected := make([]IndicatorValue, len(daily))
	var current IndicatorValue
	for i, p := range daily {
		if v, ok := byDate[p.DateKey()]; ok {
			current = v
		}
		projected[i] = current
	}
	return projected
}
