// config.go
package internal

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ShareMode selects how order quantities are sized.
type ShareMode string

const (
	// ShareModeLot restricts orders to whole multiples of the lot size.
	ShareModeLot ShareMode = "lot"
	// ShareModeFractional allows arbitrary real share quantities and always
	// deploys or liquidates the full amount.
	ShareModeFractional ShareMode = "fractional"
)

// DividendPolicy selects what happens to cash distributions while holding.
type DividendPolicy string

const (
	// DividendReinvestImmediate converts the distribution into extra shares
	// at the ex-date close.
	DividendReinvestImmediate DividendPolicy = "reinvest_immediate"
	// DividendReinvestOnSignal adds the distribution to cash, to be deployed
	// by the next buy.
	DividendReinvestOnSignal DividendPolicy = "reinvest_on_signal"
	// DividendNoReinvest accrues the distribution in a side ledger that never
	// re-enters the position.
	DividendNoReinvest DividendPolicy = "no_reinvest"
)

// StrategyConfig holds every knob of one simulation run. A fresh value is
// passed into each run; the engine keeps no process-wide configuration.
type StrategyConfig struct {
	Period         int            `json:"period"`
	BuyThreshold   float64        `json:"buy_threshold"`
	SellThreshold  float64        `json:"sell_threshold"`
	LotSize        float64        `json:"lot_size"`
	Mode           ShareMode      `json:"share_mode"`
	Dividends      DividendPolicy `json:"dividend_policy"`
	InitialCapital float64        `json:"initial_capital"`
}

var ErrInvalidConfig = errors.New("invalid strategy config")

func (c *StrategyConfig) Validate() error {
	if c.Period <= 0 {
		return fmt.Errorf("%w: period must be positive", ErrInvalidConfig)
	}
	if c.BuyThreshold < 0 || c.BuyThreshold > 100 {
		return fmt.Errorf("%w: buy threshold must be within [0, 100]", ErrInvalidConfig)
	}
	if c.SellThreshold < 0 || c.SellThreshold > 100 {
		return fmt.Errorf("%w: sell threshold must be within [0, 100]", ErrInvalidConfig)
	}
	if c.BuyThreshold >= c.SellThreshold {
		return fmt.Errorf("%w: buy threshold %.1f must be below sell threshold %.1f",
			ErrInvalidConfig, c.BuyThreshold, c.SellThreshold)
	}
	if c.InitialCapital <= 0 {
		return fmt.Errorf("%w: initial capital must be positive", ErrInvalidConfig)
	}
	switch c.Mode {
	case ShareModeLot:
		if c.LotSize <= 0 {
			return fmt.Errorf("%w: lot size must be positive in lot mode", ErrInvalidConfig)
		}
	case ShareModeFractional:
	default:
		return fmt.Errorf("%w: unknown share mode %q", ErrInvalidConfig, c.Mode)
	}
	switch c.Dividends {
	case DividendReinvestImmediate, DividendReinvestOnSignal, DividendNoReinvest:
	default:
		return fmt.Errorf("%w: unknown dividend policy %q", ErrInvalidConfig, c.Dividends)
	}
	return nil
}

func (c *StrategyConfig) String() string {
	return fmt.Sprintf("RSI(period=%d, buy=%.0f, sell=%.0f, %s)",
		c.Period, c.BuyThreshold, c.SellThreshold, c.Mode)
}

// LoadConfigJSON decodes a StrategyConfig and validates it.
func LoadConfigJSON(raw json.RawMessage) (StrategyConfig, error) {
	var cfg StrategyConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return StrategyConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return StrategyConfig{}, err
	}
	return cfg, nil
}
