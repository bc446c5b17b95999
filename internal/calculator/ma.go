package calculator

import (
	"errors"

	"TrendSentinel/internal/model"
)

// MovingAverage computes the trailing simple moving average of values over the
// given window. Each position needs a full window of observations; earlier
// positions are undefined.
func MovingAverage(values []float64, window int) ([]model.Float, error) {
	if window <= 0 {
		return nil, errors.New("window must be positive")
	}
	out := make([]model.Float, len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out[i] = model.Some(sum / float64(window))
		}
	}
	return out, nil
}
