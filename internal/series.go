// series.go
package internal

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// DateLayout is the calendar-day format used across the engine and its
// serialized outputs.
const DateLayout = "2006-01-02"

type Price float64

// UnmarshalJSON accepts both a JSON number and a quoted numeric string.
// Kline endpoints deliver closes as strings inside comma-joined rows, so
// the conversion happens once at load time.
func (p *Price) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*p = Price(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = Price(v)
	return nil
}

// ToFloat64 returns the Price as a plain float64.
func (p Price) ToFloat64() float64 {
	return float64(p)
}

// PricePoint is one trading day of a close-only series.
type PricePoint struct {
	Date       string    `json:"date"`
	Close      Price     `json:"close"`
	ParsedDate time.Time `json:"-"` // parsed once at load time
}

// UnmarshalJSON parses the calendar date once and stores it in the
// precomputed field.
func (p *PricePoint) UnmarshalJSON(data []byte) error {
	type Alias PricePoint // alias to avoid infinite recursion
	aux := (*Alias)(p)
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	p.ParsedDate = time.Time{}
	if aux.Date != "" {
		t, err := time.Parse(DateLayout, aux.Date)
		if err != nil {
			// Fall back to RFC3339 for sources that ship full timestamps.
			t, err = time.Parse(time.RFC3339, aux.Date)
			if err != nil {
				return fmt.Errorf("unparseable date %q: %w", aux.Date, err)
			}
		}
		p.ParsedDate = t
	}
	return nil
}

// DateKey returns the normalized calendar-day key used for dividend and
// benchmark lookups.
func (p PricePoint) DateKey() string {
	if !p.ParsedDate.IsZero() {
		return p.ParsedDate.Format(DateLayout)
	}
	return p.Date
}

// NewPricePoint builds a point with the precomputed date filled in, for
// fixtures and loaders that bypass JSON.
func NewPricePoint(date string, close float64) PricePoint {
	t, _ := time.Parse(DateLayout, date)
	return PricePoint{Date: date, Close: Price(close), ParsedDate: t}
}

// DividendEvent is a per-unit cash distribution on a calendar day.
type DividendEvent struct {
	Date   string  `json:"date"`
	Amount float64 `json:"dividend"`
}

// DividendSchedule indexes events by calendar-day key. Later entries for the
// same day overwrite earlier ones.
func DividendSchedule(events []DividendEvent) map[string]float64 {
	if len(events) == 0 {
		return nil
	}
	schedule := make(map[string]float64, len(events))
	for _, e := range events {
		schedule[e.Date] = e.Amount
	}
	return schedule
}

// Closes extracts the close column.
func Closes(points []PricePoint) []float64 {
	closes := make([]float64, len(points))
	for i, p := range points {
		closes[i] = p.Close.ToFloat64()
	}
	return closes
}

// ValidateSeries checks the input invariants the engine relies on: dates
// strictly ascending with no duplicates, closes positive and finite.
func ValidateSeries(points []PricePoint) error {
	for i, p := range points {
		c := p.Close.ToFloat64()
		if math.IsNaN(c) || math.IsInf(c, 0) || c <= 0 {
			return fmt.Errorf("series point %d (%s): close %v is not a positive finite price", i, p.Date, c)
		}
		if p.ParsedDate.IsZero() {
			return fmt.Errorf("series point %d: missing or unparsed date %q", i, p.Date)
		}
		if i > 0 && !points[i-1].ParsedDate.Before(p.ParsedDate) {
			return fmt.Errorf("series point %d (%s): dates must be strictly ascending", i, p.Date)
		}
	}
	return nil
}
