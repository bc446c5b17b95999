package model

import (
	"math"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func bar(t time.Time, close float64) Bar {
	return Bar{Date: t, Open: close, High: close, Low: close, Close: close, AdjClose: close, Volume: 100}
}

func TestPriceSeriesValidate(t *testing.T) {
	d1, d2 := day(2024, time.March, 4), day(2024, time.March, 5)

	ok := &PriceSeries{Symbol: "SPY", Bars: []Bar{bar(d1, 100), bar(d2, 101)}}
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid series rejected: %v", err)
	}

	empty := &PriceSeries{Symbol: "SPY"}
	if err := empty.Validate(); err == nil {
		t.Error("empty series must fail")
	}

	dup := &PriceSeries{Symbol: "SPY", Bars: []Bar{bar(d1, 100), bar(d1, 101)}}
	if err := dup.Validate(); err == nil {
		t.Error("duplicate dates must fail")
	}

	nan := &PriceSeries{Symbol: "SPY", Bars: []Bar{bar(d1, math.NaN())}}
	if err := nan.Validate(); err == nil {
		t.Error("NaN close must fail")
	}
}

func TestFloatSomeAndOr(t *testing.T) {
	if f := Some(math.NaN()); f.Valid {
		t.Error("NaN must wrap as undefined")
	}
	if f := Some(math.Inf(1)); f.Valid {
		t.Error("Inf must wrap as undefined")
	}
	if got := Some(0.5).Or(0); got != 0.5 {
		t.Errorf("Or on defined = %g, want 0.5", got)
	}
	if got := (Float{}).Or(-1); got != -1 {
		t.Errorf("Or on undefined = %g, want -1", got)
	}
}

func TestResultSlice(t *testing.T) {
	rows := []DayRow{
		{Date: day(2024, time.January, 2)},
		{Date: day(2024, time.January, 3)},
		{Date: day(2024, time.January, 4)},
	}
	r := &Result{Symbol: "SPY", Rows: rows}

	// Closed interval keeps both endpoints.
	got, err := r.Slice(day(2024, time.January, 3), day(2024, time.January, 4))
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Rows) != 2 || !got.Rows[0].Date.Equal(day(2024, time.January, 3)) {
		t.Errorf("unexpected slice: %+v", got.Rows)
	}

	if _, err := r.Slice(day(2025, time.January, 1), day(2025, time.December, 31)); err == nil {
		t.Error("window with no rows must error")
	}
}

func TestKPISetFlatten(t *testing.T) {
	var nilSet *KPISet
	if flat := nilSet.Flatten(); flat["error"] != "no returns" {
		t.Errorf("nil set should flatten to the no-returns marker, got %v", flat)
	}

	k := &KPISet{CAGR: 0.07, Sortino: math.NaN(), NumDays: 10}
	flat := k.Flatten()
	if flat["CAGR"] != 0.07 || flat["NumDays"] != 10 {
		t.Errorf("values lost: %v", flat)
	}
	if v, ok := flat["Sortino"]; !ok || v != nil {
		t.Errorf("NaN must flatten to nil, got %v (present %v)", v, ok)
	}
}
