package backtest

import (
	"math"

	"TrendSentinel/internal/model"
)

// Floor for the relative-change denominator when the held weight is flat.
// Any sufficiently small constant works; this matches a 1e-6 convention.
const rebalanceDenomFloor = 1e-6

// ApplyRebalance folds the daily target-weight series into executed weights.
// The fold carries a single accumulator, the held weight, starting flat at
// zero and processed strictly in date order:
//
//  1. an undefined target emits the held weight unchanged (no renewed opinion)
//  2. a day outside the rebalance mask emits the held weight unchanged
//  3. otherwise the held weight snaps to the target only when the relative
//     change |target-held|/max(|held|, floor) reaches the threshold
//
// target and mask must be the same length.
func ApplyRebalance(target []model.Float, mask []bool, threshold float64) []float64 {
	executed := make([]float64, len(target))
	held := 0.0
	for i, w := range target {
		if w.Valid && mask[i] {
			denom := math.Max(math.Abs(held), rebalanceDenomFloor)
			if math.Abs(w.V-held)/denom >= threshold {
				held = w.V
			}
		}
		executed[i] = held
	}
	return executed
}
