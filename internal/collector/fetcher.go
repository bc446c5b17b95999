package collector

import (
	"context"
	"time"

	"TrendSentinel/internal/model"
)

// Fetcher defines the interface for acquiring a daily OHLCV history.
// start is inclusive, end exclusive; returned bars are ascending by date.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]model.Bar, error)
	Name() string
}

// WarmupStart walks the download start back by the given number of business
// days, so moving-average and volatility windows are already warm when the
// reporting window opens.
func WarmupStart(start time.Time, businessDays int) time.Time {
	d := start
	for n := 0; n < businessDays; {
		d = d.AddDate(0, 0, -1)
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			n++
		}
	}
	return d
}

// clipBars restricts bars to the half-open interval [start, end).
func clipBars(bars []model.Bar, start, end time.Time) []model.Bar {
	out := bars[:0:0]
	for _, b := range bars {
		if b.Date.Before(start) || !b.Date.Before(end) {
			continue
		}
		out = append(out, b)
	}
	return out
}
