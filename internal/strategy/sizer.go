package strategy

import (
	"fmt"

	"TrendSentinel/internal/model"
)

// TargetWeights converts the signal and volatility series into the desired
// fractional exposure: signal × min(maxLeverage, targetVol/volAnn), with the
// scale floored at zero. A day with an undefined signal, or undefined or zero
// volatility, carries no renewed opinion and stays undefined so the rebalance
// pass holds the previously executed weight instead of snapping to zero.
func TargetWeights(signal, volAnn []model.Float, targetVol, maxLeverage float64) ([]model.Float, error) {
	if len(signal) != len(volAnn) {
		return nil, fmt.Errorf("signal and volatility length mismatch: %d vs %d", len(signal), len(volAnn))
	}
	if targetVol < 0 {
		return nil, fmt.Errorf("target volatility must be non-negative, got %g", targetVol)
	}
	if maxLeverage <= 0 {
		return nil, fmt.Errorf("leverage cap must be positive, got %g", maxLeverage)
	}

	out := make([]model.Float, len(signal))
	for i := range signal {
		if !signal[i].Valid || !volAnn[i].Valid || volAnn[i].V <= 0 {
			continue
		}
		scale := targetVol / volAnn[i].V
		if scale < 0 {
			scale = 0
		}
		if scale > maxLeverage {
			scale = maxLeverage
		}
		out[i] = model.Some(signal[i].V * scale)
	}
	return out, nil
}
