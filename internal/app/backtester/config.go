package backtester

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AppConfig is the top-level YAML configuration of the backtester.
type AppConfig struct {
	Meta       MetaConfig       `yaml:"meta"`
	Data       DataConfig       `yaml:"data"`
	Output     OutputConfig     `yaml:"output"`
	Strategies StrategiesConfig `yaml:"strategies"`
}

// MetaConfig describes the instrument under test; it is copied verbatim
// into the result document.
type MetaConfig struct {
	Code           string  `yaml:"code"`
	Name           string  `yaml:"name"`
	InitialCapital float64 `yaml:"initial_capital"`
}

// DataConfig holds the input series files.
type DataConfig struct {
	PricesFile    string            `yaml:"prices_file"`
	DividendsFile string            `yaml:"dividends_file"`
	Benchmarks    []BenchmarkConfig `yaml:"benchmarks"`
}

// BenchmarkConfig is one external series aligned to the strategy calendar.
type BenchmarkConfig struct {
	Name string `yaml:"name"`
	File string `yaml:"file"`
}

// OutputConfig holds result destinations. Empty fields disable the
// corresponding output.
type OutputConfig struct {
	ResultFile string `yaml:"result_file"`
	ParquetDir string `yaml:"parquet_dir"`
	SQLitePath string `yaml:"sqlite_path"`
}

// StrategiesConfig selects what to run. Run empty means every registered
// strategy; ConfigFile points at a JSON document of per-strategy config
// overrides keyed by strategy name.
type StrategiesConfig struct {
	Run        []string `yaml:"run"`
	ConfigFile string   `yaml:"config_file"`
}

// LoadAppConfig reads the YAML configuration at path and applies environment
// variable overrides.
func LoadAppConfig(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := &AppConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if cfg.Meta.InitialCapital <= 0 {
		cfg.Meta.InitialCapital = 100000
	}
	if cfg.Data.PricesFile == "" {
		return nil, fmt.Errorf("config %s: data.prices_file is required", path)
	}
	return cfg, nil
}

// applyEnvOverrides checks well-known environment variables and overrides
// the corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *AppConfig) {
	if v := os.Getenv("RSIBT_PRICES_FILE"); v != "" {
		cfg.Data.PricesFile = v
	}
	if v := os.Getenv("RSIBT_DIVIDENDS_FILE"); v != "" {
		cfg.Data.DividendsFile = v
	}
	if v := os.Getenv("RSIBT_RESULT_FILE"); v != "" {
		cfg.Output.ResultFile = v
	}
	if v := os.Getenv("RSIBT_PARQUET_DIR"); v != "" {
		cfg.Output.ParquetDir = v
	}
	if v := os.Getenv("RSIBT_SQLITE_PATH"); v != "" {
		cfg.Output.SQLitePath = v
	}
}
