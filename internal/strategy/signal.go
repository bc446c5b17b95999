package strategy

import (
	"fmt"

	"TrendSentinel/internal/calculator"
	"TrendSentinel/internal/model"
)

// Signal levels for the 3-level long-only trend signal.
const (
	SignalFlat    = 0.0
	SignalPartial = 0.5
	SignalFull    = 1.0
)

// TrendSignal3Level derives a discrete exposure level from two moving averages
// of the close price:
//
//	1.0 when price > fast MA > slow MA (full bullish alignment)
//	0.5 when price > slow MA (partial trend, avoids a full cash position)
//	0.0 otherwise
//
// Comparisons are strict, so a price exactly on the slow MA yields 0.0. Days
// inside the slow moving-average warm-up are undefined, not zero.
func TrendSignal3Level(closes []float64, maFast, maSlow int) ([]model.Float, error) {
	if maFast <= 0 || maSlow <= 0 {
		return nil, fmt.Errorf("moving average windows must be positive, got fast=%d slow=%d", maFast, maSlow)
	}
	if maFast >= maSlow {
		return nil, fmt.Errorf("fast window must be shorter than slow window, got fast=%d slow=%d", maFast, maSlow)
	}

	fast, err := calculator.MovingAverage(closes, maFast)
	if err != nil {
		return nil, err
	}
	slow, err := calculator.MovingAverage(closes, maSlow)
	if err != nil {
		return nil, err
	}

	out := make([]model.Float, len(closes))
	for i, price := range closes {
		if !fast[i].Valid || !slow[i].Valid {
			continue
		}
		switch {
		case price > fast[i].V && fast[i].V > slow[i].V:
			out[i] = model.Some(SignalFull)
		case price > slow[i].V:
			out[i] = model.Some(SignalPartial)
		default:
			out[i] = model.Some(SignalFlat)
		}
	}
	return out, nil
}
