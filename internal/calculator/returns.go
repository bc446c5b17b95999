package calculator

import "TrendSentinel/internal/model"

// DailyReturns computes the day-over-day percent change of a price column.
// The first position is undefined, as is any position following a zero price.
func DailyReturns(prices []float64) []model.Float {
	out := make([]model.Float, len(prices))
	for i := 1; i < len(prices); i++ {
		if prices[i-1] == 0 {
			continue
		}
		out[i] = model.Some(prices[i]/prices[i-1] - 1.0)
	}
	return out
}
