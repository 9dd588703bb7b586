package backtester

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// RunRecord is one persisted backtest run.
type RunRecord struct {
	ID           int64
	CreatedAt    string
	Strategy     string
	ConfigJSON   string
	TotalReturn  float64
	AnnualReturn float64
	MaxDrawdown  float64
	TradeCount   int
	WinRate      float64
}

// RunHistory appends completed runs to a local SQLite database so past
// results survive across invocations.
type RunHistory struct {
	db *sql.DB
}

// OpenRunHistory opens (or creates) the history database at dbPath.
func OpenRunHistory(dbPath string) (*RunHistory, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at    TEXT NOT NULL,
	strategy      TEXT NOT NULL,
	config_json   TEXT NOT NULL,
	total_return  REAL NOT NULL,
	annual_return REAL NOT NULL,
	max_drawdown  REAL NOT NULL,
	trade_count   INTEGER NOT NULL,
	win_rate      REAL NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing history schema: %w", err)
	}
	return &RunHistory{db: db}, nil
}

func (h *RunHistory) Close() error {
	return h.db.Close()
}

// Append records one completed run.
func (h *RunHistory) Append(ctx context.Context, result RunResult) error {
	configJSON, err := json.Marshal(result.Config)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	_, err = h.db.ExecContext(ctx, `
INSERT INTO runs (created_at, strategy, config_json, total_return, annual_return, max_drawdown, trade_count, win_rate)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339),
		result.Name,
		string(configJSON),
		result.Stats.TotalReturn,
		result.Stats.AnnualReturn,
		result.Stats.MaxDrawdown,
		result.Stats.TradeCount,
		result.Stats.WinRate,
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	return nil
}

// AppendAll records every run of a comparison.
func (h *RunHistory) AppendAll(ctx context.Context, results []RunResult) error {
	for _, r := range results {
		if err := h.Append(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

// List returns the most recent runs, newest first.
func (h *RunHistory) List(ctx context.Context, limit int) ([]RunRecord, error) {
	rows, err := h.db.QueryContext(ctx, `
SELECT id, created_at, strategy, config_json, total_return, annual_return, max_drawdown, trade_count, win_rate
FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.Strategy, &r.ConfigJSON,
			&r.TotalReturn, &r.AnnualReturn, &r.MaxDrawdown, &r.TradeCount, &r.WinRate); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// PrintHistory lists past runs on the console.
func PrintHistory(records []RunRecord) {
	if len(records) == 0 {
		fmt.Println("ℹ️  No recorded runs yet")
		return
	}
	fmt.Printf("%-4s %-20s %-16s %10s %10s %10s %7s %8s\n",
		"ID", "When", "Strategy", "Return", "Annual", "MaxDD", "Trades", "WinRate")
	for _, r := range records {
		fmt.Printf("%-4d %-20s %-16s %+9.2f%% %+9.2f%% %9.2f%% %7d %7.2f%%\n",
			r.ID, r.CreatedAt, r.Strategy, r.TotalReturn, r.AnnualReturn, r.MaxDrawdown, r.TradeCount, r.WinRate)
	}
}
