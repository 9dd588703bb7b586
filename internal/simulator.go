// simulator.go
package internal

import (
	"fmt"
	"math"
)

type TradeKind string

const (
	TradeBuy              TradeKind = "buy"
	TradeSell             TradeKind = "sell"
	TradeDividendReinvest TradeKind = "dividend_reinvest"
)

// Trade is the immutable record of one executed transition. Indicator is
// null for dividend reinvestments, which are not signal-driven.
type Trade struct {
	Date        string         `json:"date"`
	Kind        TradeKind      `json:"kind"`
	Price       float64        `json:"price"`
	SharesDelta float64        `json:"shares_delta"`
	CashDelta   float64        `json:"cash_delta"`
	Indicator   IndicatorValue `json:"rsi"`
	Shares      float64        `json:"shares"`
	Cash        float64        `json:"cash"`
}

// DailyValue is the end-of-day snapshot taken after dividend handling and
// signal evaluation.
type DailyValue struct {
	Date       string         `json:"date"`
	Close      float64        `json:"close"`
	Indicator  IndicatorValue `json:"rsi"`
	Cash       float64        `json:"cash"`
	Shares     float64        `json:"shares"`
	TotalValue float64        `json:"total_value"`
	ReturnPct  float64        `json:"return_pct"`
}

// SimulationResult bundles the outputs of one run. SideCash is the
// no-reinvest dividend ledger; it stays out of the DailyValue trace and is
// added back only in FinalValue.
type SimulationResult struct {
	Trades      []Trade      `json:"trades"`
	DailyValues []DailyValue `json:"daily_values"`
	SideCash    float64      `json:"side_cash"`
	FinalValue  float64      `json:"final_value"`
	EndsLong    bool         `json:"ends_long"`
}

// Simulate runs the threshold state machine over a price series and its
// indicator series. Per day the order is: dividend first, then at most one
// signal transition, then the snapshot. The function is pure: fixed inputs
// produce identical output, and no input slice is mutated.
func Simulate(points []PricePoint, indicator []IndicatorValue, dividends []DividendEvent, cfg StrategyConfig) (SimulationResult, error) {
	if err := cfg.Validate(); err != nil {
		return SimulationResult{}, err
	}
	if len(indicator) != len(points) {
		return SimulationResult{}, fmt.Errorf("indicator length %d does not match series length %d", len(indicator), len(points))
	}

	schedule := DividendSchedule(dividends)

	cash := cfg.InitialCapital
	shares := 0.0
	long := false
	sideCash := 0.0
	var trades []Trade
	values := make([]DailyValue, 0, len(points))

	for i, p := range points {
		price := p.Close.ToFloat64()
		day := p.DateKey()

		// Dividend before any signal for the day.
		if amount, ok := schedule[day]; ok && shares > 0 {
			divCash := shares * amount
			switch cfg.Dividends {
			case DividendReinvestImmediate:
				newShares := divCash / price
				shares += newShares
				trades = append(trades, Trade{
					Date: day, Kind: TradeDividendReinvest, Price: price,
					SharesDelta: newShares, Shares: shares, Cash: cash,
				})
			case DividendReinvestOnSignal:
				cash += divCash
			case DividendNoReinvest:
				sideCash += divCash
			}
		}

		// Signal evaluation needs a defined indicator and a finite price.
		ind := indicator[i]
		if ind.Valid && !math.IsNaN(price) && !math.IsInf(price, 0) && price > 0 {
			switch {
			case !long && ind.Value < cfg.BuyThreshold:
				var buyShares, cost float64
				if cfg.Mode == ShareModeLot {
					buyShares = math.Floor(cash/price/cfg.LotSize) * cfg.LotSize
					cost = buyShares * price
				} else if cash > 0 {
					buyShares = cash / price
					cost = cash
				}
				// A zero-sized buy is no transition; the signal retries on a
				// later bar while the state stays flat.
				if buyShares > 0 {
					cash -= cost
					shares += buyShares
					long = true
					trades = append(trades, Trade{
						Date: day, Kind: TradeBuy, Price: price,
						SharesDelta: buyShares, CashDelta: -cost, Indicator: ind,
						Shares: shares, Cash: cash,
					})
				}

			case long && ind.Value > cfg.SellThreshold && shares > 0:
				sellable := shares
				if cfg.Mode == ShareModeLot {
					// The remainder after flooring is always below one lot,
					// so a lot-mode sell clears the whole position, dust
					// included, at the current close.
					if math.Floor(shares/cfg.LotSize)*cfg.LotSize <= 0 {
						sellable = 0
					}
				}
				if sellable > 0 {
					proceeds := sellable * price
					cash += proceeds
					shares = 0
					long = false
					trades = append(trades, Trade{
						Date: day, Kind: TradeSell, Price: price,
						SharesDelta: -sellable, CashDelta: proceeds, Indicator: ind,
						Shares: shares, Cash: cash,
					})
				}
			}
		}

		total := cash + shares*price
		values = append(values, DailyValue{
			Date: day, Close: price, Indicator: ind,
			Cash: cash, Shares: shares,
			TotalValue: total,
			ReturnPct:  (total/cfg.InitialCapital - 1) * 100,
		})
	}

	final := cfg.InitialCapital
	if len(values) > 0 {
		final = values[len(values)-1].TotalValue
	}

	return SimulationResult{
		Trades:      trades,
		DailyValues: values,
		SideCash:    sideCash,
		FinalValue:  final + sideCash,
		EndsLong:    long,
	}, nil
}

// SimulateBuyAndHold buys on the first bar under the configured share mode
// and holds to the end. Pass a nil dividend schedule for the
// without-distributions variant. Thresholds in cfg are ignored.
func SimulateBuyAndHold(points []PricePoint, dividends []DividendEvent, cfg StrategyConfig) (SimulationResult, error) {
	if err := cfg.Validate(); err != nil {
		return SimulationResult{}, err
	}
	if len(points) == 0 {
		return SimulationResult{FinalValue: cfg.InitialCapital}, nil
	}

	schedule := DividendSchedule(dividends)

	cash := cfg.InitialCapital
	shares := 0.0
	sideCash := 0.0
	var trades []Trade
	values := make([]DailyValue, 0, len(points))

	startPrice := points[0].Close.ToFloat64()
	if cfg.Mode == ShareModeLot {
		shares = math.Floor(cash/startPrice/cfg.LotSize) * cfg.LotSize
	} else {
		shares = cash / startPrice
	}
	if shares > 0 {
		cost := shares * startPrice
		if cfg.Mode == ShareModeFractional {
			cost = cash
		}
		cash -= cost
		trades = append(trades, Trade{
			Date: points[0].DateKey(), Kind: TradeBuy, Price: startPrice,
			SharesDelta: shares, CashDelta: -cost, Shares: shares, Cash: cash,
		})
	}

	for _, p := range points {
		price := p.Close.ToFloat64()
		day := p.DateKey()

		if amount, ok := schedule[day]; ok && shares > 0 {
			divCash := shares * amount
			switch cfg.Dividends {
			case DividendReinvestImmediate:
				newShares := divCash / price
				shares += newShares
				trades = append(trades, Trade{
					Date: day, Kind: TradeDividendReinvest, Price: price,
					SharesDelta: newShares, Shares: shares, Cash: cash,
				})
			case DividendReinvestOnSignal:
				// No later buy exists to fold the cash into; it simply sits
				// in the position's cash from here on.
				cash += divCash
			case DividendNoReinvest:
				sideCash += divCash
			}
		}

		total := cash + shares*price
		values = append(values, DailyValue{
			Date: day, Close: price,
			Cash: cash, Shares: shares,
			TotalValue: total,
			ReturnPct:  (total/cfg.InitialCapital - 1) * 100,
		})
	}

	return SimulationResult{
		Trades:      trades,
		DailyValues: values,
		SideCash:    sideCash,
		FinalValue:  values[len(values)-1].TotalValue + sideCash,
		EndsLong:    shares > 0,
	}, nil
}
