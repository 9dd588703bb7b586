package backtester

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "backtest.yaml", `
meta:
  code: "512890"
  name: "Red Dividend Low Volatility ETF"
  initial_capital: 50000

data:
  prices_file: prices.json
  dividends_file: dividends.json
  benchmarks:
    - name: csi300
      file: csi300.json

output:
  result_file: result.json
  parquet_dir: parquet
  sqlite_path: runs.db

strategies:
  run: [rsi_threshold, rsi_ideal]
  config_file: strategies.json
`)

	cfg, err := LoadAppConfig(path)
	require.NoError(t, err)

	require.Equal(t, "512890", cfg.Meta.Code)
	require.Equal(t, 50000.0, cfg.Meta.InitialCapital)
	require.Equal(t, "prices.json", cfg.Data.PricesFile)
	require.Len(t, cfg.Data.Benchmarks, 1)
	require.Equal(t, "csi300", cfg.Data.Benchmarks[0].Name)
	require.Equal(t, "runs.db", cfg.Output.SQLitePath)
	require.Equal(t, []string{"rsi_threshold", "rsi_ideal"}, cfg.Strategies.Run)
}

func TestLoadAppConfig_DefaultsAndValidation(t *testing.T) {
	dir := t.TempDir()

	minimal := writeFile(t, dir, "minimal.yaml", `
data:
  prices_file: prices.json
`)
	cfg, err := LoadAppConfig(minimal)
	require.NoError(t, err)
	require.Equal(t, 100000.0, cfg.Meta.InitialCapital, "capital should default when unset")

	noPrices := writeFile(t, dir, "noprices.yaml", `
meta:
  code: "512890"
`)
	_, err = LoadAppConfig(noPrices)
	require.ErrorContains(t, err, "prices_file")

	_, err = LoadAppConfig(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestLoadAppConfig_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "backtest.yaml", `
data:
  prices_file: prices.json
output:
  result_file: result.json
`)

	t.Setenv("RSIBT_PRICES_FILE", "/elsewhere/prices.json")
	t.Setenv("RSIBT_RESULT_FILE", "/elsewhere/result.json")

	cfg, err := LoadAppConfig(path)
	require.NoError(t, err)
	require.Equal(t, "/elsewhere/prices.json", cfg.Data.PricesFile)
	require.Equal(t, "/elsewhere/result.json", cfg.Output.ResultFile)
}

func TestLoadPriceSeries(t *testing.T) {
	dir := t.TempDir()

	// Out of order on disk; string and numeric closes mixed.
	path := writeFile(t, dir, "prices.json", `{
		"points": [
			{"date": "2024-01-03", "close": "2.91"},
			{"date": "2024-01-01", "close": 2.87},
			{"date": "2024-01-02", "close": "2.89"}
		]
	}`)

	points, err := LoadPriceSeries(path)
	require.NoError(t, err)
	require.Len(t, points, 3)
	require.Equal(t, "2024-01-01", points[0].DateKey())
	require.Equal(t, 2.91, points[2].Close.ToFloat64())
}

func TestLoadPriceSeries_RejectsBadSeries(t *testing.T) {
	dir := t.TempDir()

	dup := writeFile(t, dir, "dup.json", `{
		"points": [
			{"date": "2024-01-01", "close": 2.87},
			{"date": "2024-01-01", "close": 2.89}
		]
	}`)
	_, err := LoadPriceSeries(dup)
	require.Error(t, err)

	zero := writeFile(t, dir, "zero.json", `{"points": [{"date": "2024-01-01", "close": 0}]}`)
	_, err = LoadPriceSeries(zero)
	require.Error(t, err)
}

func TestLoadDividends(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "dividends.json", `{
		"dividends": [
			{"date": "2024-06-17", "dividend": 0.024},
			{"date": "2024-12-16", "dividend": 0.026}
		]
	}`)

	events, err := LoadDividends(path)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, 0.024, events[0].Amount)

	// Missing schedules are a normal condition, not an error.
	events, err = LoadDividends(filepath.Join(dir, "absent.json"))
	require.NoError(t, err)
	require.Empty(t, events)

	events, err = LoadDividends("")
	require.NoError(t, err)
	require.Empty(t, events)
}

func TestLoadStrategyConfigs(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "strategies.json", `{
		"rsi_threshold": {"period": 10, "buy_threshold": 35},
		"rsi_ideal": {"period": 15}
	}`)

	configs, err := LoadStrategyConfigs(path)
	require.NoError(t, err)
	require.Len(t, configs, 2)
	require.Contains(t, configs, "rsi_threshold")

	configs, err = LoadStrategyConfigs("")
	require.NoError(t, err)
	require.Nil(t, configs)
}
