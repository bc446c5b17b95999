package backtest

import (
	"testing"

	"TrendSentinel/internal/model"
)

func allTrue(n int) []bool {
	mask := make([]bool, n)
	for i := range mask {
		mask[i] = true
	}
	return mask
}

func TestApplyRebalance_SingleJumpStability(t *testing.T) {
	// Constant target, one large jump, then constant again. The executed
	// weight must change exactly once, on the first masked day at or after
	// the jump, and stay constant on both sides.
	target := make([]model.Float, 20)
	for i := range target {
		if i < 10 {
			target[i] = model.Some(0.0)
		} else {
			target[i] = model.Some(1.0)
		}
	}
	// Masked every 5th day only.
	mask := make([]bool, 20)
	for i := 4; i < 20; i += 5 {
		mask[i] = true
	}

	exec := ApplyRebalance(target, mask, 0.15)
	for i := 0; i < 14; i++ {
		if exec[i] != 0 {
			t.Errorf("exec[%d]: expected flat before first masked day after jump, got %g", i, exec[i])
		}
	}
	for i := 14; i < 20; i++ {
		if exec[i] != 1.0 {
			t.Errorf("exec[%d]: expected 1.0 after rebalance, got %g", i, exec[i])
		}
	}
}

func TestApplyRebalance_UndefinedTargetHolds(t *testing.T) {
	target := []model.Float{model.Some(1.0), {}, {}, model.Some(1.0)}
	exec := ApplyRebalance(target, allTrue(4), 0.15)
	want := []float64{1.0, 1.0, 1.0, 1.0}
	for i := range want {
		if exec[i] != want[i] {
			t.Errorf("exec[%d] = %g, want %g", i, exec[i], want[i])
		}
	}
}

func TestApplyRebalance_ThresholdGate(t *testing.T) {
	// From 1.0, a move to 1.10 is a 10% relative change: below a 15%
	// threshold it must be ignored, at a 20% move it must execute.
	target := []model.Float{model.Some(1.0), model.Some(1.10), model.Some(1.20)}
	exec := ApplyRebalance(target, allTrue(3), 0.15)
	if exec[0] != 1.0 {
		t.Fatalf("exec[0] = %g, want 1.0 (flat-to-long always passes the floor denom)", exec[0])
	}
	if exec[1] != 1.0 {
		t.Errorf("exec[1] = %g, want held 1.0 for a sub-threshold move", exec[1])
	}
	if exec[2] != 1.20 {
		t.Errorf("exec[2] = %g, want 1.20 for a 20%% move", exec[2])
	}
}

func TestApplyRebalance_FlatToAnyPositionPassesFloor(t *testing.T) {
	// With the held weight at zero the denominator floors, so even a tiny
	// nonzero target is a huge relative change and executes.
	target := []model.Float{model.Some(0.01)}
	exec := ApplyRebalance(target, allTrue(1), 0.15)
	if exec[0] != 0.01 {
		t.Errorf("exec[0] = %g, want 0.01", exec[0])
	}
}

func TestApplyRebalance_UnmaskedDayFrozen(t *testing.T) {
	target := []model.Float{model.Some(1.0), model.Some(0.0), model.Some(0.0)}
	mask := []bool{true, false, true}
	exec := ApplyRebalance(target, mask, 0.15)
	want := []float64{1.0, 1.0, 0.0}
	for i := range want {
		if exec[i] != want[i] {
			t.Errorf("exec[%d] = %g, want %g", i, exec[i], want[i])
		}
	}
}
