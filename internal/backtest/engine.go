package backtest

import (
	"fmt"

	"TrendSentinel/internal/calculator"
	"TrendSentinel/internal/model"
	"TrendSentinel/internal/strategy"

	"github.com/rs/zerolog/log"
)

// Run executes the daily simulation over the full price history and returns
// the day-indexed result table. The first bar, which has no return, is
// dropped from the output.
//
// The pipeline per the strategy contract:
//
//	returns on adjusted close (dividends included when the source has them)
//	3-level trend signal on raw close
//	realized vol of daily returns, annualized
//	vol-targeted weights, executed through the rebalance gates
//	one-day weight lag before P&L so no decision sees its own day's close
//	costs proportional to turnover of the executed weight series
func Run(prices *model.PriceSeries, cfg Config) (*model.Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("backtest config: %w", err)
	}
	if err := prices.Validate(); err != nil {
		return nil, fmt.Errorf("backtest input: %w", err)
	}
	if len(prices.Bars) < 2 {
		return nil, fmt.Errorf("backtest input: need at least 2 bars for %s, got %d", prices.Symbol, len(prices.Bars))
	}
	if len(prices.Bars) <= cfg.WarmupBars() {
		log.Warn().
			Str("ticker", prices.Symbol).
			Int("bars", len(prices.Bars)).
			Int("warmup", cfg.WarmupBars()).
			Msg("price history shorter than warm-up, strategy will stay flat")
	}

	rets := calculator.DailyReturns(prices.AdjCloses())

	signal, err := strategy.TrendSignal3Level(prices.Closes(), cfg.MAFast, cfg.MASlow)
	if err != nil {
		return nil, fmt.Errorf("signal: %w", err)
	}

	volAnn, err := calculator.RollingVol(rets, cfg.VolWindow, cfg.TradingDaysPerYear)
	if err != nil {
		return nil, fmt.Errorf("volatility: %w", err)
	}

	target, err := strategy.TargetWeights(signal, volAnn, cfg.TargetVol, cfg.MaxLeverage)
	if err != nil {
		return nil, fmt.Errorf("target weights: %w", err)
	}

	mask := RebalanceMask(prices.Dates(), cfg.Rebalance)
	executed := ApplyRebalance(target, mask, cfg.RebalanceThreshold)

	costRate := (cfg.FeeBps + cfg.SlippageBps) / 10000.0

	n := len(prices.Bars)
	rows := make([]model.DayRow, 0, n-1)
	equityStrategy, equityBuyhold := 1.0, 1.0
	prevExec := 0.0

	for i := 0; i < n; i++ {
		// Weight applied today was decided on or before yesterday's close.
		lagged := 0.0
		if i > 0 {
			lagged = executed[i-1]
		}
		turnover := executed[i] - prevExec
		if turnover < 0 {
			turnover = -turnover
		}
		prevExec = executed[i]

		cost := costRate * turnover
		// An undefined return compounds as zero (held flat) but is excluded
		// from the emitted rows, so statistics never see it.
		stratRet := lagged*rets[i].Or(0) - cost
		equityStrategy *= 1.0 + stratRet
		equityBuyhold *= 1.0 + rets[i].Or(0)

		if !rets[i].Valid {
			continue
		}
		rows = append(rows, model.DayRow{
			Date:           prices.Bars[i].Date,
			Ret:            rets[i].V,
			Signal:         signal[i],
			VolAnn:         volAnn[i],
			WTarget:        target[i],
			WExec:          executed[i],
			WLag:           lagged,
			Turnover:       turnover,
			Costs:          cost,
			StrategyRet:    stratRet,
			EquityStrategy: equityStrategy,
			EquityBuyhold:  equityBuyhold,
		})
	}

	return &model.Result{Symbol: prices.Symbol, Rows: rows}, nil
}
