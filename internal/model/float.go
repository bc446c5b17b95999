package model

import "math"

// Float is a scalar that may be undefined (warm-up positions, zero-volatility
// days). The zero value is undefined.
type Float struct {
	V     float64
	Valid bool
}

// Some wraps a defined value. Non-finite inputs produce an undefined Float so
// NaN never leaks into downstream series.
func Some(v float64) Float {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Float{}
	}
	return Float{V: v, Valid: true}
}

// Or returns the value when defined, otherwise the fallback.
func (f Float) Or(fallback float64) float64 {
	if f.Valid {
		return f.V
	}
	return fallback
}
