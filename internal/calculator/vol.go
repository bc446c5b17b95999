package calculator

import (
	"errors"
	"math"

	"TrendSentinel/internal/model"
)

// RollingVol computes the trailing realized volatility of a daily return
// series: the sample standard deviation (unbiased, ddof=1) over the window,
// annualized by sqrt(tradingDays). A position is defined only when the whole
// trailing window holds defined returns.
func RollingVol(returns []model.Float, window, tradingDays int) ([]model.Float, error) {
	if window < 2 {
		return nil, errors.New("volatility window must be at least 2")
	}
	if tradingDays <= 0 {
		return nil, errors.New("trading days per year must be positive")
	}
	ann := math.Sqrt(float64(tradingDays))
	out := make([]model.Float, len(returns))
	buf := make([]float64, 0, window)
	for i := window - 1; i < len(returns); i++ {
		buf = buf[:0]
		complete := true
		for j := i - window + 1; j <= i; j++ {
			if !returns[j].Valid {
				complete = false
				break
			}
			buf = append(buf, returns[j].V)
		}
		if !complete {
			continue
		}
		out[i] = model.Some(SampleStd(buf) * ann)
	}
	return out, nil
}
