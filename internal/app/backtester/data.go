package backtester

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"rsibt/internal"
)

// LoadPriceSeries reads a series file produced by the fetcher: a JSON
// document with a "points" array of {date, close} records. The series is
// sorted by date and validated before the engine sees it.
func LoadPriceSeries(path string) ([]internal.PricePoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading series %s: %w", path, err)
	}

	var wrapper struct {
		Points []internal.PricePoint `json:"points"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("parsing series %s: %w", path, err)
	}

	points := wrapper.Points
	sort.Slice(points, func(i, j int) bool {
		return points[i].ParsedDate.Before(points[j].ParsedDate)
	})

	if err := internal.ValidateSeries(points); err != nil {
		return nil, fmt.Errorf("series %s: %w", path, err)
	}
	return points, nil
}

// LoadDividends reads a dividend schedule file: a JSON document with a
// "dividends" array of {date, dividend} records. A missing file is not an
// error; it just means no distributions.
func LoadDividends(path string) ([]internal.DividendEvent, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading dividends %s: %w", path, err)
	}

	var wrapper struct {
		Dividends []internal.DividendEvent `json:"dividends"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("parsing dividends %s: %w", path, err)
	}
	return wrapper.Dividends, nil
}

// LoadStrategyConfigs reads the per-strategy config override document: a
// JSON object keyed by strategy name.
func LoadStrategyConfigs(path string) (map[string]json.RawMessage, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading strategy configs %s: %w", path, err)
	}

	configs := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &configs); err != nil {
		return nil, fmt.Errorf("parsing strategy configs %s: %w", path, err)
	}
	return configs, nil
}
