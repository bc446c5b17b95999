package collector

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"TrendSentinel/internal/model"
)

// StooqFetcher implements Fetcher using the Stooq CSV download endpoint. It
// serves as the fallback source; Stooq publishes no adjusted close, so
// AdjClose mirrors Close.
type StooqFetcher struct {
	http *httpClient
}

// NewStooqFetcher creates a new Stooq fetcher.
func NewStooqFetcher(proxyURL string) *StooqFetcher {
	return &StooqFetcher{http: newHTTPClient(30*time.Second, proxyURL)}
}

func (f *StooqFetcher) Name() string { return "stooq" }

// symbolCandidates lists Stooq symbol spellings to try. US equities and ETFs
// are usually suffixed ".us".
func symbolCandidates(symbol string) []string {
	base := strings.ToLower(strings.ReplaceAll(symbol, "^", ""))
	var out []string
	if !strings.Contains(base, ".") {
		out = append(out, base+".us")
	}
	return append(out, base)
}

func (f *StooqFetcher) FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]model.Bar, error) {
	// The d2 bound is inclusive at Stooq; the exclusive end maps to end-1day.
	lastDay := end.AddDate(0, 0, -1)

	var lastErr error
	for _, sym := range symbolCandidates(symbol) {
		u := fmt.Sprintf("https://stooq.com/q/d/l/?s=%s&d1=%s&d2=%s&i=d",
			url.QueryEscape(sym), start.Format("20060102"), lastDay.Format("20060102"))
		body, err := f.http.getBody(ctx, u)
		if err != nil {
			lastErr = err
			continue
		}
		bars, err := parseStooqCSV(body)
		if err != nil {
			lastErr = fmt.Errorf("stooq %s: %w", sym, err)
			continue
		}
		if len(bars) > 0 {
			return clipBars(bars, start, end), nil
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("stooq fetch: %w", lastErr)
	}
	return nil, fmt.Errorf("stooq: no data for %s", symbol)
}

func parseStooqCSV(body []byte) ([]model.Bar, error) {
	records, err := csv.NewReader(strings.NewReader(string(body))).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) < 2 || len(records[0]) < 6 || records[0][0] != "Date" {
		return nil, nil // "No data" page or an empty export
	}

	bars := make([]model.Bar, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) < 6 {
			continue
		}
		date, err := time.ParseInLocation("2006-01-02", rec[0], time.UTC)
		if err != nil {
			return nil, fmt.Errorf("parse date %q: %w", rec[0], err)
		}
		vals := make([]float64, 5)
		for i := 0; i < 5; i++ {
			v, err := strconv.ParseFloat(rec[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("parse %q on %s: %w", rec[i+1], rec[0], err)
			}
			vals[i] = v
		}
		bars = append(bars, model.Bar{
			Date:     date,
			Open:     vals[0],
			High:     vals[1],
			Low:      vals[2],
			Close:    vals[3],
			AdjClose: vals[3],
			Volume:   vals[4],
		})
	}
	return bars, nil
}
