package model

import "math"

// KPISet summarizes a completed daily return series. Degenerate statistics
// (Sortino with too few losers, Calmar without a drawdown, empty win/loss
// subsets) are NaN rather than errors, so a partial report is still produced.
// NumDays == 0 marks the "no returns" case.
type KPISet struct {
	CAGR         float64
	AnnVol       float64
	Sharpe       float64
	Sortino      float64
	MaxDrawdown  float64
	Calmar       float64
	HitRate      float64
	AvgDailyWin  float64
	AvgDailyLoss float64
	Skew         float64
	Kurtosis     float64
	TotalReturn  float64
	NumDays      int
}

// Flatten renders the KPI set as a flat key-value document. NaN values become
// nil so the document stays JSON-serializable; an empty set collapses to the
// no-returns marker.
func (k *KPISet) Flatten() map[string]any {
	if k == nil || k.NumDays == 0 {
		return map[string]any{"error": "no returns"}
	}
	out := map[string]any{"NumDays": k.NumDays}
	put := func(name string, v float64) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			out[name] = nil
			return
		}
		out[name] = v
	}
	put("CAGR", k.CAGR)
	put("AnnVol", k.AnnVol)
	put("Sharpe", k.Sharpe)
	put("Sortino", k.Sortino)
	put("MaxDrawdown", k.MaxDrawdown)
	put("Calmar", k.Calmar)
	put("HitRate", k.HitRate)
	put("AvgDailyWin", k.AvgDailyWin)
	put("AvgDailyLoss", k.AvgDailyLoss)
	put("Skew", k.Skew)
	put("Kurtosis", k.Kurtosis)
	put("TotalReturn", k.TotalReturn)
	return out
}
