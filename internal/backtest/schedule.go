package backtest

import (
	"fmt"
	"strings"
	"time"
)

// Frequency identifies the periodic rebalance cadence.
type Frequency string

const (
	// Daily makes every trading day eligible, leaving only the threshold gate.
	Daily Frequency = "D"
	// Weekly rebalances on the last trading day of each ISO week.
	Weekly Frequency = "W"
	// Monthly rebalances on the last trading day of each calendar month.
	Monthly Frequency = "M"
)

// ParseFrequency parses a cadence string. "W-FRI" is accepted as an alias for
// Weekly: with Monday-Friday trading days the last bar of an ISO week is the
// Friday bar (or the last session before a holiday weekend).
func ParseFrequency(s string) (Frequency, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "D", "DAILY":
		return Daily, nil
	case "W", "W-FRI", "WEEKLY":
		return Weekly, nil
	case "M", "MONTHLY":
		return Monthly, nil
	}
	return "", fmt.Errorf("unknown rebalance frequency %q (want D, W, W-FRI or M)", s)
}

// RebalanceMask marks the designated rebalance days in an ascending date
// sequence: the last trading day of each cadence group, or every day for the
// daily cadence. The final date always closes its group.
func RebalanceMask(dates []time.Time, freq Frequency) []bool {
	mask := make([]bool, len(dates))
	if freq == Daily {
		for i := range mask {
			mask[i] = true
		}
		return mask
	}
	for i := range dates {
		if i == len(dates)-1 || groupKey(dates[i+1], freq) != groupKey(dates[i], freq) {
			mask[i] = true
		}
	}
	return mask
}

func groupKey(t time.Time, freq Frequency) int {
	switch freq {
	case Monthly:
		return t.Year()*100 + int(t.Month())
	default:
		year, week := t.ISOWeek()
		return year*100 + week
	}
}
