package backtester

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"rsibt/internal"
)

func sampleResult(name string) RunResult {
	r := sampleRun(name, 42.5)
	r.Result = internal.SimulationResult{
		Trades: []internal.Trade{
			{Date: "2024-01-02", Kind: internal.TradeBuy, Price: 2.87, SharesDelta: 34800},
		},
		DailyValues: []internal.DailyValue{
			{Date: "2024-01-02", Close: 2.87, TotalValue: 100000},
			{Date: "2024-01-03", Close: 2.91, TotalValue: 101393.9},
		},
	}
	r.Stats.StartDate = "2024-01-02"
	r.Stats.EndDate = "2024-01-03"
	return r
}

func TestBuildResultDocument(t *testing.T) {
	results := []RunResult{sampleResult("rsi_threshold"), sampleResult("buy_and_hold")}
	benchmarks := map[string][]internal.BenchmarkValue{
		"csi300": {{Date: "2024-01-02", TotalValue: 100000, ReturnPct: 0}},
	}

	doc, err := BuildResultDocument(MetaConfig{Code: "512890", Name: "Red Dividend ETF"}, "rsi_threshold", results, benchmarks)
	require.NoError(t, err)

	require.Equal(t, "512890", doc.Meta.Code)
	require.Equal(t, "2024-01-02", doc.Meta.StartDate)
	require.NotEmpty(t, doc.Meta.GeneratedAt)

	require.Len(t, doc.Statistics, 2)
	require.Len(t, doc.Trades, 1, "trades come from the primary strategy only")
	require.Len(t, doc.DailyValues, 3, "two strategies plus one benchmark")
	require.Contains(t, doc.DailyValues, "csi300")
}

func TestBuildResultDocument_UnknownPrimary(t *testing.T) {
	_, err := BuildResultDocument(MetaConfig{}, "nope", []RunResult{sampleResult("rsi_threshold")}, nil)
	require.ErrorContains(t, err, "nope")
}

func TestSaveResultDocument(t *testing.T) {
	doc, err := BuildResultDocument(MetaConfig{Code: "512890"}, "rsi_threshold", []RunResult{sampleResult("rsi_threshold")}, nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "result.json")
	require.NoError(t, NewFileSaver().SaveResultDocument(doc, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var loaded ResultDocument
	require.NoError(t, json.Unmarshal(data, &loaded))
	require.Equal(t, doc.Meta.Code, loaded.Meta.Code)
	require.Equal(t, 42.5, loaded.Statistics["rsi_threshold"].TotalReturn)
}

func TestSaveOptimizationReport_TrimsRankedList(t *testing.T) {
	report := internal.OptimizationReport{
		Results: []internal.ParamResult{
			{Period: 10, TotalReturn: 30},
			{Period: 11, TotalReturn: 20},
			{Period: 12, TotalReturn: 10},
		},
	}

	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, NewFileSaver().SaveOptimizationReport(report, 2, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var loaded internal.OptimizationReport
	require.NoError(t, json.Unmarshal(data, &loaded))
	require.Len(t, loaded.Results, 2)
	require.Equal(t, 10, loaded.Results[0].Period)
}

func TestParquetRoundTrip(t *testing.T) {
	values := []internal.DailyValue{
		{Date: "2024-01-02", Close: 2.87, Cash: 140, Shares: 34800, TotalValue: 100000, ReturnPct: 0},
		{Date: "2024-01-03", Close: 2.91, Indicator: internal.IndicatorValue{Value: 65.4, Valid: true},
			Cash: 140, Shares: 34800, TotalValue: 101408, ReturnPct: 1.408},
	}

	dir := t.TempDir()
	require.NoError(t, NewFileSaver().ExportDailyValuesParquet(dir, "rsi_threshold", values))

	records, err := ReadDailyValuesParquet(filepath.Join(dir, "rsi_threshold.parquet"))
	require.NoError(t, err)
	require.Len(t, records, 2)

	require.Equal(t, "2024-01-02", records[0].Date)
	require.Nil(t, records[0].RSI, "undefined indicator stays null")
	require.NotNil(t, records[1].RSI)
	require.Equal(t, 65.4, *records[1].RSI)
	require.Equal(t, 101408.0, records[1].TotalValue)
}
