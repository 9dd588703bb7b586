// stats.go
package internal

import (
	"math"
	"time"
)

// Statistics is the derived performance record of one simulation. It is
// recomputed from the DailyValue and Trade sequences and never mutated in
// place.
type Statistics struct {
	TotalReturn  float64 `json:"total_return"`
	AnnualReturn float64 `json:"annual_return"`
	MaxDrawdown  float64 `json:"max_drawdown"`
	TradeCount   int     `json:"trade_count"`
	WinRate      float64 `json:"win_rate"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	TradingDays  int     `json:"days"`
	CalendarDays int     `json:"calendar_days"`
}

// ComputeStatistics derives the Statistics record from a simulation's daily
// trace and trade list.
//
// Annualization compounds over actual elapsed calendar days, not trading
// days. TradeCount counts buys (round trips initiated); dividend
// reinvestments are excluded. The win rate pairs the i-th sell with the i-th
// buy by chronological index, which holds because the single-position state
// machine strictly alternates buys and sells.
func ComputeStatistics(values []DailyValue, trades []Trade) Statistics {
	if len(values) == 0 {
		return Statistics{}
	}

	totalReturn := values[len(values)-1].ReturnPct

	peak := values[0].TotalValue
	maxDrawdown := 0.0
	for _, v := range values {
		if v.TotalValue > peak {
			peak = v.TotalValue
		}
		if peak > 0 {
			drawdown := (peak - v.TotalValue) / peak * 100
			if drawdown > maxDrawdown {
				maxDrawdown = drawdown
			}
		}
	}

	var buys, sells []Trade
	for _, t := range trades {
		switch t.Kind {
		case TradeBuy:
			buys = append(buys, t)
		case TradeSell:
			sells = append(sells, t)
		}
	}

	wins := 0
	for i, sell := range sells {
		if i < len(buys) && sell.Price > buys[i].Price {
			wins++
		}
	}
	winRate := 0.0
	if len(sells) > 0 {
		winRate = float64(wins) / float64(len(sells)) * 100
	}

	startDate := values[0].Date
	endDate := values[len(values)-1].Date
	calendarDays := calendarDaysBetween(startDate, endDate)

	annualReturn := 0.0
	if calendarDays > 0 {
		annualReturn = (math.Pow(1+totalReturn/100, 365/float64(calendarDays)) - 1) * 100
	}

	return Statistics{
		TotalReturn:  totalReturn,
		AnnualReturn: annualReturn,
		MaxDrawdown:  maxDrawdown,
		TradeCount:   len(buys),
		WinRate:      winRate,
		StartDate:    startDate,
		EndDate:      endDate,
		TradingDays:  len(values),
		CalendarDays: calendarDays,
	}
}

// calendarDaysBetween returns the actual day span between two calendar-day
// keys, or 0 when either fails to parse.
func calendarDaysBetween(start, end string) int {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return 0
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return 0
	}
	return int(e.Sub(s).Hours() / 24)
}
