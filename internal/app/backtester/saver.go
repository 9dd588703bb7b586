package backtester

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"

	"rsibt/internal"
)

// DocumentMeta identifies the instrument and run parameters of a result
// document.
type DocumentMeta struct {
	Code           string  `json:"code"`
	Name           string  `json:"name"`
	Strategy       string  `json:"strategy"`
	InitialCapital float64 `json:"initial_capital"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	GeneratedAt    string  `json:"generated_at"`
}

// ResultDocument is the full backtest export: per-strategy statistics, the
// primary strategy's trades, and every daily-value series (strategies and
// aligned benchmarks) keyed by name.
type ResultDocument struct {
	Meta        DocumentMeta                   `json:"meta"`
	Statistics  map[string]internal.Statistics `json:"statistics"`
	Trades      []internal.Trade               `json:"trades"`
	DailyValues map[string]json.RawMessage     `json:"daily_values"`
}

// FileSaver persists result documents and columnar exports.
type FileSaver struct{}

func NewFileSaver() *FileSaver {
	return &FileSaver{}
}

// BuildResultDocument assembles the export from run results and aligned
// benchmark series. The primary strategy contributes the trade list; every
// run contributes a statistics entry and a daily-value series.
func BuildResultDocument(meta MetaConfig, primary string, results []RunResult, benchmarks map[string][]internal.BenchmarkValue) (*ResultDocument, error) {
	doc := &ResultDocument{
		Statistics:  make(map[string]internal.Statistics, len(results)),
		DailyValues: make(map[string]json.RawMessage, len(results)+len(benchmarks)),
	}

	for _, r := range results {
		doc.Statistics[r.Name] = r.Stats

		raw, err := json.Marshal(r.Result.DailyValues)
		if err != nil {
			return nil, fmt.Errorf("encoding daily values for %s: %w", r.Name, err)
		}
		doc.DailyValues[r.Name] = raw

		if r.Name == primary {
			doc.Trades = r.Result.Trades
			doc.Meta = DocumentMeta{
				Code:           meta.Code,
				Name:           meta.Name,
				Strategy:       r.Config.String(),
				InitialCapital: r.Config.InitialCapital,
				StartDate:      r.Stats.StartDate,
				EndDate:        r.Stats.EndDate,
				GeneratedAt:    time.Now().Format("2006-01-02 15:04:05"),
			}
		}
	}

	for name, values := range benchmarks {
		raw, err := json.Marshal(values)
		if err != nil {
			return nil, fmt.Errorf("encoding benchmark %s: %w", name, err)
		}
		doc.DailyValues[name] = raw
	}

	if doc.Meta.GeneratedAt == "" {
		return nil, fmt.Errorf("primary strategy %q not among the results", primary)
	}
	return doc, nil
}

// SaveResultDocument writes the document as indented JSON.
func (s *FileSaver) SaveResultDocument(doc *ResultDocument, path string) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result document: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Printf("💾 Result document saved: %s\n", path)
	return nil
}

// SaveOptimizationReport writes a parameter-sweep report as indented JSON,
// trimming the full ranked list to the top entries the way the console
// report does.
func (s *FileSaver) SaveOptimizationReport(report internal.OptimizationReport, topN int, path string) error {
	trimmed := report
	if topN > 0 && len(trimmed.Results) > topN {
		trimmed.Results = trimmed.Results[:topN]
	}

	data, err := json.MarshalIndent(trimmed, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding optimization report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Printf("💾 Optimization report saved: %s\n", path)
	return nil
}

// DailyValueRecord is the Parquet schema for a daily-value row. The
// indicator column is optional: it stays null while the indicator is
// undefined.
type DailyValueRecord struct {
	Date       string   `parquet:"date"`
	Close      float64  `parquet:"close"`
	RSI        *float64 `parquet:"rsi,optional"`
	Cash       float64  `parquet:"cash"`
	Shares     float64  `parquet:"shares"`
	TotalValue float64  `parquet:"total_value"`
	ReturnPct  float64  `parquet:"return_pct"`
}

// ExportDailyValuesParquet writes one strategy's daily-value trace to
// <dir>/<name>.parquet for columnar analysis.
func (s *FileSaver) ExportDailyValuesParquet(dir, name string, values []internal.DailyValue) error {
	records := make([]DailyValueRecord, len(values))
	for i, v := range values {
		records[i] = DailyValueRecord{
			Date:       v.Date,
			Close:      v.Close,
			Cash:       v.Cash,
			Shares:     v.Shares,
			TotalValue: v.TotalValue,
			ReturnPct:  v.ReturnPct,
		}
		if v.Indicator.Valid {
			rsi := v.Indicator.Value
			records[i].RSI = &rsi
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(dir, name+".parquet")
	if err := parquet.WriteFile(path, records); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Printf("💾 Daily values exported: %s (%d rows)\n", path, len(records))
	return nil
}

// ReadDailyValuesParquet reads back a daily-value export.
func ReadDailyValuesParquet(path string) ([]DailyValueRecord, error) {
	return parquet.ReadFile[DailyValueRecord](path)
}
