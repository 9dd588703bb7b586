// strategy.go
package internal

import (
	"encoding/json"
	"sort"
)

// TradingStrategy is one selectable backtest variant: it owns a default
// config, can load an override from JSON, and runs the simulator with its
// own indicator wiring.
type TradingStrategy interface {
	Name() string
	DefaultConfig() StrategyConfig
	LoadConfig(raw json.RawMessage) (StrategyConfig, error)
	Run(points []PricePoint, dividends []DividendEvent, cfg StrategyConfig) (SimulationResult, error)
}

// StrategyBase implements the config half of TradingStrategy; concrete
// strategies embed it and supply Run.
type StrategyBase struct {
	name          string
	defaultConfig StrategyConfig
}

func NewStrategyBase(name string, defaultConfig StrategyConfig) StrategyBase {
	return StrategyBase{name: name, defaultConfig: defaultConfig}
}

func (b StrategyBase) Name() string {
	return b.name
}

func (b StrategyBase) DefaultConfig() StrategyConfig {
	return b.defaultConfig
}

// LoadConfig overlays the JSON document on the strategy's default config, so
// a partial override keeps the remaining defaults.
func (b StrategyBase) LoadConfig(raw json.RawMessage) (StrategyConfig, error) {
	cfg := b.defaultConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return StrategyConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return StrategyConfig{}, err
	}
	return cfg, nil
}

var strategyRegistry = make(map[string]TradingStrategy)

// RegisterStrategy adds a strategy to the registry, called from init() in
// the strategy packages.
func RegisterStrategy(strategy TradingStrategy) {
	strategyRegistry[strategy.Name()] = strategy
}

func GetStrategy(name string) (TradingStrategy, bool) {
	strategy, ok := strategyRegistry[name]
	return strategy, ok
}

// StrategyNames returns the registered names in sorted order, so listings
// and parallel runs are deterministic.
func StrategyNames() []string {
	names := make([]string, 0, len(strategyRegistry))
	for name := range strategyRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
