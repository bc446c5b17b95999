package model

import (
	"fmt"
	"time"
)

// DayRow is one day of backtest output. Ret is the benchmark daily return
// (adjusted close percent change); WLag is the executed weight actually
// applied to that return, decided on or before the previous day.
type DayRow struct {
	Date           time.Time
	Ret            float64
	Signal         Float
	VolAnn         Float
	WTarget        Float
	WExec          float64
	WLag           float64
	Turnover       float64
	Costs          float64
	StrategyRet    float64
	EquityStrategy float64
	EquityBuyhold  float64
}

// Result is the day-indexed output table of a completed backtest.
type Result struct {
	Symbol string
	Rows   []DayRow
}

// Slice restricts the result to the closed date interval [start, end].
// Returns an error when no rows fall inside the interval, since nothing
// meaningful can be reported from an empty table.
func (r *Result) Slice(start, end time.Time) (*Result, error) {
	out := &Result{Symbol: r.Symbol}
	for _, row := range r.Rows {
		if row.Date.Before(start) || row.Date.After(end) {
			continue
		}
		out.Rows = append(out.Rows, row)
	}
	if len(out.Rows) == 0 {
		return nil, fmt.Errorf("backtest for %s has no rows in window %s -> %s",
			r.Symbol, start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	return out, nil
}

// StrategyReturns extracts the net daily strategy return column.
func (r *Result) StrategyReturns() []float64 {
	out := make([]float64, len(r.Rows))
	for i, row := range r.Rows {
		out[i] = row.StrategyRet
	}
	return out
}

// BenchmarkReturns extracts the buy-and-hold daily return column.
func (r *Result) BenchmarkReturns() []float64 {
	out := make([]float64, len(r.Rows))
	for i, row := range r.Rows {
		out[i] = row.Ret
	}
	return out
}
