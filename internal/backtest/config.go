package backtest

import "fmt"

// Config holds every parameter of a backtest run.
type Config struct {
	Ticker             string
	MAFast             int
	MASlow             int
	VolWindow          int
	TargetVol          float64
	MaxLeverage        float64
	Rebalance          Frequency
	RebalanceThreshold float64
	FeeBps             float64
	SlippageBps        float64
	RFAnnual           float64
	TradingDaysPerYear int
}

// DefaultConfig mirrors the reference parameterization: a 40/160 trend filter
// with 12% vol targeting, weekly rebalancing and 10bps of fees.
func DefaultConfig() Config {
	return Config{
		Ticker:             "SPY",
		MAFast:             40,
		MASlow:             160,
		VolWindow:          20,
		TargetVol:          0.12,
		MaxLeverage:        1.5,
		Rebalance:          Weekly,
		RebalanceThreshold: 0.15,
		FeeBps:             10.0,
		SlippageBps:        0.0,
		RFAnnual:           0.0,
		TradingDaysPerYear: 252,
	}
}

// Validate checks parameter sanity before a run.
func (c Config) Validate() error {
	if c.Ticker == "" {
		return fmt.Errorf("ticker is required")
	}
	if c.MAFast <= 0 || c.MASlow <= 0 || c.MAFast >= c.MASlow {
		return fmt.Errorf("moving average windows must satisfy 0 < ma_fast < ma_slow, got %d/%d", c.MAFast, c.MASlow)
	}
	if c.VolWindow < 2 {
		return fmt.Errorf("vol_window must be at least 2, got %d", c.VolWindow)
	}
	if c.TargetVol < 0 {
		return fmt.Errorf("target_vol must be non-negative, got %g", c.TargetVol)
	}
	if c.MaxLeverage <= 0 {
		return fmt.Errorf("max_leverage must be positive, got %g", c.MaxLeverage)
	}
	switch c.Rebalance {
	case Daily, Weekly, Monthly:
	default:
		return fmt.Errorf("unknown rebalance frequency %q", c.Rebalance)
	}
	if c.RebalanceThreshold < 0 {
		return fmt.Errorf("rebalance_threshold must be non-negative, got %g", c.RebalanceThreshold)
	}
	if c.FeeBps < 0 || c.SlippageBps < 0 {
		return fmt.Errorf("fee_bps and slippage_bps must be non-negative")
	}
	if c.TradingDaysPerYear <= 0 {
		return fmt.Errorf("trading_days_per_year must be positive, got %d", c.TradingDaysPerYear)
	}
	return nil
}

// WarmupBars is the number of leading bars consumed before both the signal
// and the volatility estimate are defined.
func (c Config) WarmupBars() int {
	warmup := c.MASlow
	if c.VolWindow+1 > warmup {
		warmup = c.VolWindow + 1
	}
	return warmup
}
