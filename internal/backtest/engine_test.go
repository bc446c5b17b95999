package backtest

import (
	"reflect"
	"testing"
	"time"

	"TrendSentinel/internal/model"
)

func makeSeries(closes []float64, start time.Time) *model.PriceSeries {
	dates := tradingDays(start, len(closes))
	bars := make([]model.Bar, len(closes))
	for i, c := range closes {
		bars[i] = model.Bar{
			Date:     dates[i],
			Open:     c,
			High:     c * 1.001,
			Low:      c * 0.999,
			Close:    c,
			AdjClose: c,
			Volume:   1_000_000,
		}
	}
	return &model.PriceSeries{Symbol: "TEST", Bars: bars}
}

// flatThenTrend builds 20 flat days followed by 30 rising days. The rise
// alternates +2% and +0.5% so realized volatility is nonzero once the trend
// enters the window.
func flatThenTrend() *model.PriceSeries {
	closes := make([]float64, 0, 50)
	p := 100.0
	for i := 0; i < 20; i++ {
		closes = append(closes, p)
	}
	for i := 0; i < 30; i++ {
		if i%2 == 0 {
			p *= 1.02
		} else {
			p *= 1.005
		}
		closes = append(closes, p)
	}
	return makeSeries(closes, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC))
}

func scenarioConfig() Config {
	cfg := DefaultConfig()
	cfg.Ticker = "TEST"
	cfg.MAFast = 4
	cfg.MASlow = 8
	cfg.VolWindow = 5
	cfg.Rebalance = Daily
	cfg.RebalanceThreshold = 0.0
	return cfg
}

func TestRun_FlatThenTrendScenario(t *testing.T) {
	res, err := Run(flatThenTrend(), scenarioConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Rows) != 49 {
		t.Fatalf("expected 49 rows (first bar has no return), got %d", len(res.Rows))
	}

	// First defined signal lands after the slow MA warm-up and reads flat.
	var firstDefined *model.DayRow
	for i := range res.Rows {
		if res.Rows[i].Signal.Valid {
			firstDefined = &res.Rows[i]
			break
		}
	}
	if firstDefined == nil {
		t.Fatal("no defined signal in the whole run")
	}
	if firstDefined.Signal.V != 0.0 {
		t.Errorf("expected flat signal on flat prices, got %g", firstDefined.Signal.V)
	}

	last := res.Rows[len(res.Rows)-1]
	if !last.Signal.Valid || last.Signal.V != 1.0 {
		t.Errorf("expected full signal at the end of the trend, got %+v", last.Signal)
	}
	if last.WExec <= 0 {
		t.Errorf("expected a long executed weight at the end of the trend, got %g", last.WExec)
	}
	if last.EquityStrategy <= 1.0 {
		t.Errorf("expected strategy equity above 1.0 after the trend, got %g", last.EquityStrategy)
	}
	// Flat stretch: zero vol means no renewed opinion, weight stays flat and
	// no costs accrue.
	for _, row := range res.Rows[:15] {
		if row.WExec != 0 || row.Costs != 0 {
			t.Errorf("%s: expected flat weight and zero costs during warm-up, got w=%g costs=%g",
				row.Date.Format("2006-01-02"), row.WExec, row.Costs)
		}
	}
}

func TestRun_NoLookAhead(t *testing.T) {
	prices := flatThenTrend()
	base, err := Run(prices, scenarioConfig())
	if err != nil {
		t.Fatal(err)
	}

	// Distort the final bar's price. Only the final day may react, and its
	// applied weight was decided the day before, so it must not move.
	bumped := flatThenTrend()
	lastBar := &bumped.Bars[len(bumped.Bars)-1]
	lastBar.Close *= 1.5
	lastBar.AdjClose *= 1.5
	lastBar.High = lastBar.Close * 1.001
	lastBar.Low = lastBar.Close * 0.999

	got, err := Run(bumped, scenarioConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Rows) != len(base.Rows) {
		t.Fatalf("row count changed: %d vs %d", len(got.Rows), len(base.Rows))
	}
	for i := 0; i < len(base.Rows)-1; i++ {
		if !reflect.DeepEqual(base.Rows[i], got.Rows[i]) {
			t.Fatalf("row %d changed by a future price edit:\n%+v\n%+v", i, base.Rows[i], got.Rows[i])
		}
	}
	lastBase := base.Rows[len(base.Rows)-1]
	lastGot := got.Rows[len(got.Rows)-1]
	if lastGot.WLag != lastBase.WLag {
		t.Errorf("lagged weight moved with same-day price: %g vs %g", lastGot.WLag, lastBase.WLag)
	}
}

func TestRun_Deterministic(t *testing.T) {
	a, err := Run(flatThenTrend(), scenarioConfig())
	if err != nil {
		t.Fatal(err)
	}
	b, err := Run(flatThenTrend(), scenarioConfig())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("identical inputs produced different results")
	}
}

func TestRun_DoublingFeesReducesEquity(t *testing.T) {
	cfg := scenarioConfig()
	base, err := Run(flatThenTrend(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	cfg.FeeBps *= 2
	expensive, err := Run(flatThenTrend(), cfg)
	if err != nil {
		t.Fatal(err)
	}

	turnover := 0.0
	for _, row := range base.Rows {
		turnover += row.Turnover
	}
	if turnover == 0 {
		t.Fatal("scenario produced no turnover, cost sensitivity is vacuous")
	}
	lastBase := base.Rows[len(base.Rows)-1].EquityStrategy
	lastExp := expensive.Rows[len(expensive.Rows)-1].EquityStrategy
	if lastExp >= lastBase {
		t.Errorf("doubling fees did not reduce final equity: %.8f vs %.8f", lastExp, lastBase)
	}
}

func TestRun_InputValidation(t *testing.T) {
	cfg := scenarioConfig()

	if _, err := Run(&model.PriceSeries{Symbol: "EMPTY"}, cfg); err == nil {
		t.Error("expected error for empty series")
	}

	one := makeSeries([]float64{100}, time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC))
	if _, err := Run(one, cfg); err == nil {
		t.Error("expected error for a single-bar series")
	}

	bad := cfg
	bad.MAFast = bad.MASlow
	if _, err := Run(flatThenTrend(), bad); err == nil {
		t.Error("expected error for equal MA windows")
	}

	unordered := flatThenTrend()
	unordered.Bars[3].Date = unordered.Bars[2].Date
	if _, err := Run(unordered, cfg); err == nil {
		t.Error("expected error for non-ascending dates")
	}
}

func TestConfig_WarmupBars(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.WarmupBars(); got != 160 {
		t.Errorf("expected slow MA to dominate warm-up, got %d", got)
	}
	cfg.MASlow = 10
	cfg.MAFast = 5
	cfg.VolWindow = 20
	if got := cfg.WarmupBars(); got != 21 {
		t.Errorf("expected vol window (+1 for the first return) to dominate, got %d", got)
	}
}
