// main.go — Daily kline collector: fetches fund close history and writes the
// engine's series file, saving after every successful request.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"rsibt/internal"
)

const (
	SECID        = "1.512890" // exchange prefix + fund code
	API_ENDPOINT = "https://push2his.eastmoney.com/api/qt/stock/kline/get"
	OUTPUT_FILE  = "prices.json"
	BEGIN_DATE   = "20140101"
	MAX_RETRIES  = 5
)

var client = &http.Client{Timeout: 15 * time.Second}

// klineResponse is the provider envelope: each kline row is a comma-joined
// string whose leading fields are date and close (fields2=f51,f53).
type klineResponse struct {
	Data struct {
		Code   string   `json:"code"`
		Name   string   `json:"name"`
		Klines []string `json:"klines"`
	} `json:"data"`
}

func main() {
	log.Println("🚀 Fetching daily klines for", SECID)

	var resp *klineResponse
	var err error
	for attempt := 1; attempt <= MAX_RETRIES; attempt++ {
		resp, err = fetchKlines()
		if err == nil {
			break
		}
		log.Printf("⚠️  attempt %d/%d failed: %v", attempt, MAX_RETRIES, err)
		time.Sleep(3 * time.Second)
	}
	if err != nil {
		log.Fatal("🛑 giving up:", err)
	}

	points, err := parseKlines(resp.Data.Klines)
	if err != nil {
		log.Fatal("❌ parsing klines:", err)
	}
	if err := internal.ValidateSeries(points); err != nil {
		log.Fatal("❌ provider returned an invalid series:", err)
	}

	if err := savePoints(points); err != nil {
		log.Fatal("❌ saving series:", err)
	}
	log.Printf("🎉 Saved %d trading days (%s … %s) to %s",
		len(points), points[0].Date, points[len(points)-1].Date, OUTPUT_FILE)
}

func fetchKlines() (*klineResponse, error) {
	params := url.Values{}
	params.Set("secid", SECID)
	params.Set("fields1", "f1,f2,f3")
	params.Set("fields2", "f51,f53") // date, close
	params.Set("klt", "101")        // daily bars
	params.Set("fqt", "1")          // forward-adjusted
	params.Set("beg", BEGIN_DATE)
	params.Set("end", "20500101")

	reqURL := API_ENDPOINT + "?" + params.Encode()
	log.Printf("📥 GET %s", reqURL)

	httpResp, err := client.Get(reqURL)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", httpResp.StatusCode, string(body))
	}

	var resp klineResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	if len(resp.Data.Klines) == 0 {
		return nil, fmt.Errorf("provider returned no klines")
	}
	return &resp, nil
}

// parseKlines converts "date,close,…" rows into the engine's series points.
func parseKlines(klines []string) ([]internal.PricePoint, error) {
	points := make([]internal.PricePoint, 0, len(klines))
	for _, row := range klines {
		fields := strings.Split(row, ",")
		if len(fields) < 2 {
			return nil, fmt.Errorf("malformed kline row %q", row)
		}
		close, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("bad close in row %q: %w", row, err)
		}
		points = append(points, internal.NewPricePoint(fields[0], close))
	}
	return points, nil
}

func savePoints(points []internal.PricePoint) error {
	wrapper := struct {
		Points []internal.PricePoint `json:"points"`
	}{Points: points}

	data, err := json.MarshalIndent(wrapper, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding series: %w", err)
	}
	if err := os.WriteFile(OUTPUT_FILE, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", OUTPUT_FILE, err)
	}
	log.Printf("💾 Saved %d points to %s", len(points), OUTPUT_FILE)
	return nil
}
