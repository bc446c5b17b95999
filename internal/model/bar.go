package model

import (
	"fmt"
	"math"
	"time"
)

// Bar represents a single daily OHLCV bar. AdjClose carries the
// dividend/split adjusted close when the data source provides one, otherwise
// it equals Close.
type Bar struct {
	Date     time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	AdjClose float64
	Volume   float64
}

// PriceSeries is an ordered daily price history for one symbol.
type PriceSeries struct {
	Symbol string
	Bars   []Bar
}

// Validate checks the series invariants: strictly ascending unique dates and
// finite non-negative values in every bar (volume may be zero).
func (p *PriceSeries) Validate() error {
	if len(p.Bars) == 0 {
		return fmt.Errorf("price series for %s is empty", p.Symbol)
	}
	for i, b := range p.Bars {
		if i > 0 && !p.Bars[i-1].Date.Before(b.Date) {
			return fmt.Errorf("price series for %s: dates not strictly ascending at %s",
				p.Symbol, b.Date.Format("2006-01-02"))
		}
		for _, v := range []float64{b.Open, b.High, b.Low, b.Close, b.AdjClose, b.Volume} {
			if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
				return fmt.Errorf("price series for %s: invalid value in bar %s",
					p.Symbol, b.Date.Format("2006-01-02"))
			}
		}
	}
	return nil
}

// Closes extracts the raw close column.
func (p *PriceSeries) Closes() []float64 {
	out := make([]float64, len(p.Bars))
	for i, b := range p.Bars {
		out[i] = b.Close
	}
	return out
}

// AdjCloses extracts the adjusted close column.
func (p *PriceSeries) AdjCloses() []float64 {
	out := make([]float64, len(p.Bars))
	for i, b := range p.Bars {
		out[i] = b.AdjClose
	}
	return out
}

// Dates extracts the date column.
func (p *PriceSeries) Dates() []time.Time {
	out := make([]time.Time, len(p.Bars))
	for i, b := range p.Bars {
		out[i] = b.Date
	}
	return out
}
