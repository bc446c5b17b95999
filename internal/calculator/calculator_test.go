package calculator

import (
	"math"
	"testing"

	"TrendSentinel/internal/model"
)

func TestMovingAverage_WarmupAndValues(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	ma, err := MovingAverage(values, 3)
	if err != nil {
		t.Fatal(err)
	}
	if ma[0].Valid || ma[1].Valid {
		t.Error("expected undefined values inside the warm-up window")
	}
	want := []float64{2, 3, 4}
	for i, w := range want {
		got := ma[i+2]
		if !got.Valid || math.Abs(got.V-w) > 1e-12 {
			t.Errorf("ma[%d]: expected %.1f, got %+v", i+2, w, got)
		}
	}
}

func TestMovingAverage_InvalidWindow(t *testing.T) {
	if _, err := MovingAverage([]float64{1, 2}, 0); err == nil {
		t.Error("expected error for non-positive window")
	}
}

func TestDailyReturns(t *testing.T) {
	rets := DailyReturns([]float64{100, 110, 99})
	if rets[0].Valid {
		t.Error("first return must be undefined")
	}
	if !rets[1].Valid || math.Abs(rets[1].V-0.10) > 1e-12 {
		t.Errorf("expected 10%% return, got %+v", rets[1])
	}
	if !rets[2].Valid || math.Abs(rets[2].V+0.10) > 1e-12 {
		t.Errorf("expected -10%% return, got %+v", rets[2])
	}
}

func TestRollingVol_ConstantReturnsIsZero(t *testing.T) {
	rets := make([]model.Float, 10)
	for i := range rets {
		rets[i] = model.Some(0.01)
	}
	vol, err := RollingVol(rets, 5, 252)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 4; i++ {
		if vol[i].Valid {
			t.Errorf("vol[%d]: expected undefined during warm-up", i)
		}
	}
	for i := 4; i < len(vol); i++ {
		if !vol[i].Valid || vol[i].V != 0 {
			t.Errorf("vol[%d]: expected zero vol for constant returns, got %+v", i, vol[i])
		}
	}
}

func TestRollingVol_AnnualizationMatchesSampleStd(t *testing.T) {
	raw := []float64{0.01, -0.02, 0.005, 0.015, -0.01}
	rets := make([]model.Float, len(raw))
	for i, v := range raw {
		rets[i] = model.Some(v)
	}
	vol, err := RollingVol(rets, 5, 252)
	if err != nil {
		t.Fatal(err)
	}
	want := SampleStd(raw) * math.Sqrt(252)
	if !vol[4].Valid || math.Abs(vol[4].V-want) > 1e-12 {
		t.Errorf("expected %.6f, got %+v", want, vol[4])
	}
}

func TestRollingVol_UndefinedInputPropagates(t *testing.T) {
	rets := []model.Float{{}, model.Some(0.01), model.Some(0.02), model.Some(0.01)}
	vol, err := RollingVol(rets, 3, 252)
	if err != nil {
		t.Fatal(err)
	}
	if vol[2].Valid {
		t.Error("window containing an undefined return must be undefined")
	}
	if !vol[3].Valid {
		t.Error("first fully-defined window must be defined")
	}
}

func TestSampleStd(t *testing.T) {
	if !math.IsNaN(SampleStd([]float64{1})) {
		t.Error("expected NaN for a single observation")
	}
	// ddof=1: std of {1,2,3,4} is sqrt(5/3)
	got := SampleStd([]float64{1, 2, 3, 4})
	want := math.Sqrt(5.0 / 3.0)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("expected %.6f, got %.6f", want, got)
	}
}
