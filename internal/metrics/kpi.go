package metrics

import (
	"math"

	"TrendSentinel/internal/calculator"
	"TrendSentinel/internal/model"
)

// Keeps Sharpe/Sortino finite on a constant return series.
const ratioEpsilon = 1e-12

// Compute summarizes a daily return series into the standard KPI set.
// Non-finite inputs are dropped first; an empty series after cleaning yields
// the zero KPISet (NumDays 0), the "no returns" marker. Degenerate statistics
// inside a non-empty series come back as NaN, never as an error.
func Compute(returns []float64, rfAnnual float64, tradingDays int) *model.KPISet {
	r := make([]float64, 0, len(returns))
	for _, v := range returns {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		r = append(r, v)
	}
	if len(r) == 0 {
		return &model.KPISet{}
	}

	equity := make([]float64, len(r))
	eq := 1.0
	for i, v := range r {
		eq *= 1.0 + v
		equity[i] = eq
	}

	annFactor := math.Sqrt(float64(tradingDays))
	k := &model.KPISet{NumDays: len(r)}

	k.CAGR = annualizedReturn(equity, tradingDays)
	k.AnnVol = calculator.SampleStd(r) * annFactor

	rfDaily := math.Pow(1.0+rfAnnual, 1.0/float64(tradingDays)) - 1.0
	excess := make([]float64, len(r))
	var downside []float64
	for i, v := range r {
		excess[i] = v - rfDaily
		if excess[i] < 0 {
			downside = append(downside, excess[i])
		}
	}
	k.Sharpe = calculator.Mean(excess) / (calculator.SampleStd(excess) + ratioEpsilon) * annFactor
	if len(downside) >= 2 {
		k.Sortino = calculator.Mean(excess) / (calculator.SampleStd(downside) + ratioEpsilon) * annFactor
	} else {
		k.Sortino = math.NaN()
	}

	k.MaxDrawdown = maxDrawdown(equity)
	if k.MaxDrawdown < 0 {
		k.Calmar = k.CAGR / math.Abs(k.MaxDrawdown)
	} else {
		k.Calmar = math.NaN()
	}

	var wins, losses []float64
	for _, v := range r {
		switch {
		case v > 0:
			wins = append(wins, v)
		case v < 0:
			losses = append(losses, v)
		}
	}
	k.HitRate = float64(len(wins)) / float64(len(r))
	k.AvgDailyWin = calculator.Mean(wins)
	k.AvgDailyLoss = calculator.Mean(losses)

	k.Skew = skewness(r)
	k.Kurtosis = excessKurtosis(r)
	k.TotalReturn = equity[len(equity)-1] - 1.0
	return k
}

// annualizedReturn compounds equity growth to a yearly rate:
// (last/first)^(tradingDays/n) - 1.
func annualizedReturn(equity []float64, tradingDays int) float64 {
	if len(equity) == 0 {
		return math.NaN()
	}
	total := equity[len(equity)-1] / equity[0]
	years := float64(len(equity)) / float64(tradingDays)
	if years <= 0 {
		return math.NaN()
	}
	return math.Pow(total, 1.0/years) - 1.0
}

// maxDrawdown is the deepest decline from a running equity peak, <= 0.
func maxDrawdown(equity []float64) float64 {
	if len(equity) == 0 {
		return math.NaN()
	}
	peak := equity[0]
	worst := 0.0
	for _, e := range equity {
		if e > peak {
			peak = e
		}
		if dd := e/peak - 1.0; dd < worst {
			worst = dd
		}
	}
	return worst
}

// skewness is the bias-adjusted sample skewness (the pandas/Fisher-Pearson
// estimator). NaN for fewer than 3 observations or a constant series.
func skewness(values []float64) float64 {
	n := float64(len(values))
	if n < 3 {
		return math.NaN()
	}
	mu := calculator.Mean(values)
	s := calculator.SampleStd(values)
	if s == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range values {
		z := (v - mu) / s
		sum += z * z * z
	}
	return n / ((n - 1) * (n - 2)) * sum
}

// excessKurtosis is the bias-adjusted sample excess kurtosis (the pandas
// estimator). NaN for fewer than 4 observations or a constant series.
func excessKurtosis(values []float64) float64 {
	n := float64(len(values))
	if n < 4 {
		return math.NaN()
	}
	mu := calculator.Mean(values)
	s := calculator.SampleStd(values)
	if s == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range values {
		z := (v - mu) / s
		sum += z * z * z * z
	}
	return n*(n+1)/((n-1)*(n-2)*(n-3))*sum - 3*(n-1)*(n-1)/((n-2)*(n-3))
}
