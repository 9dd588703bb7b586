package internal

import (
	"encoding/json"
	"testing"
)

func TestPrice_UnmarshalNumberAndString(t *testing.T) {
	var fromNumber, fromString Price
	if err := json.Unmarshal([]byte(`3.14`), &fromNumber); err != nil {
		t.Fatalf("number form: %v", err)
	}
	if err := json.Unmarshal([]byte(`"3.14"`), &fromString); err != nil {
		t.Fatalf("string form: %v", err)
	}
	if fromNumber != fromString || fromNumber != 3.14 {
		t.Errorf("expected both forms to decode to 3.14, got %v and %v", fromNumber, fromString)
	}

	if err := json.Unmarshal([]byte(`"abc"`), &fromString); err == nil {
		t.Error("expected an error for a non-numeric string")
	}
}

func TestPricePoint_UnmarshalParsesDate(t *testing.T) {
	var p PricePoint
	if err := json.Unmarshal([]byte(`{"date": "2024-03-15", "close": "2.875"}`), &p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ParsedDate.IsZero() {
		t.Error("expected the date parsed at load time")
	}
	if p.DateKey() != "2024-03-15" {
		t.Errorf("expected key 2024-03-15, got %s", p.DateKey())
	}
	if p.Close.ToFloat64() != 2.875 {
		t.Errorf("expected close 2.875, got %v", p.Close)
	}

	if err := json.Unmarshal([]byte(`{"date": "15/03/2024", "close": 1}`), &p); err == nil {
		t.Error("expected an error for an unparseable date")
	}
}

func TestValidateSeries(t *testing.T) {
	good := makeSeries(t, "2024-01-01", 10, 11, 12)
	if err := ValidateSeries(good); err != nil {
		t.Errorf("expected a valid series, got %v", err)
	}

	duplicate := []PricePoint{
		NewPricePoint("2024-01-01", 10),
		NewPricePoint("2024-01-01", 11),
	}
	if err := ValidateSeries(duplicate); err == nil {
		t.Error("expected an error for a duplicate date")
	}

	backwards := []PricePoint{
		NewPricePoint("2024-01-02", 10),
		NewPricePoint("2024-01-01", 11),
	}
	if err := ValidateSeries(backwards); err == nil {
		t.Error("expected an error for a descending date")
	}

	nonPositive := []PricePoint{NewPricePoint("2024-01-01", 0)}
	if err := ValidateSeries(nonPositive); err == nil {
		t.Error("expected an error for a non-positive close")
	}

	unparsed := []PricePoint{{Date: "2024-01-01", Close: 10}}
	if err := ValidateSeries(unparsed); err == nil {
		t.Error("expected an error for a point without a parsed date")
	}
}

func TestDividendSchedule_LastEntryWins(t *testing.T) {
	schedule := DividendSchedule([]DividendEvent{
		{Date: "2024-01-05", Amount: 0.1},
		{Date: "2024-01-05", Amount: 0.2},
		{Date: "2024-06-05", Amount: 0.3},
	})
	if len(schedule) != 2 {
		t.Fatalf("expected 2 scheduled days, got %d", len(schedule))
	}
	if schedule["2024-01-05"] != 0.2 {
		t.Errorf("expected the later entry to win, got %v", schedule["2024-01-05"])
	}

	if DividendSchedule(nil) != nil {
		t.Error("expected a nil schedule for no events")
	}
}
