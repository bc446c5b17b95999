package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"TrendSentinel/internal/backtest"
	"TrendSentinel/internal/model"

	"github.com/dustin/go-humanize"
)

// WriteTimeseriesCSV writes the day-indexed result table. Both equity curves
// are also emitted rebased to 1.0 at the first reported day, which is what a
// plotting collaborator wants to overlay.
func WriteTimeseriesCSV(path string, res *model.Result) error {
	if len(res.Rows) == 0 {
		return fmt.Errorf("result for %s is empty, nothing to write", res.Symbol)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create timeseries csv: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	header := []string{
		"date", "ret", "signal", "vol_ann", "w_target", "w_exec", "w_lag",
		"turnover", "costs", "strategy_returns", "equity_strategy", "equity_buyhold",
		"equity_strategy_rebased", "equity_buyhold_rebased",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	baseS := res.Rows[0].EquityStrategy
	baseB := res.Rows[0].EquityBuyhold
	for _, row := range res.Rows {
		rec := []string{
			row.Date.Format("2006-01-02"),
			formatFloat(row.Ret),
			formatOpt(row.Signal),
			formatOpt(row.VolAnn),
			formatOpt(row.WTarget),
			formatFloat(row.WExec),
			formatFloat(row.WLag),
			formatFloat(row.Turnover),
			formatFloat(row.Costs),
			formatFloat(row.StrategyRet),
			formatFloat(row.EquityStrategy),
			formatFloat(row.EquityBuyhold),
			formatFloat(row.EquityStrategy / baseS),
			formatFloat(row.EquityBuyhold / baseB),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatOpt(f model.Float) string {
	if !f.Valid {
		return ""
	}
	return formatFloat(f.V)
}

// BuildSummary flattens the run configuration, window bounds, and both KPI
// sets into a single flat key-value document.
func BuildSummary(cfg backtest.Config, source string, downloadStart, reportStart, reportEnd time.Time,
	kpiStrategy, kpiBuyhold *model.KPISet) map[string]any {

	out := map[string]any{
		"ticker":              cfg.Ticker,
		"ma_fast":             cfg.MAFast,
		"ma_slow":             cfg.MASlow,
		"vol_window":          cfg.VolWindow,
		"target_vol":          cfg.TargetVol,
		"max_leverage":        cfg.MaxLeverage,
		"rebalance":           string(cfg.Rebalance),
		"rebalance_threshold": cfg.RebalanceThreshold,
		"fee_bps":             cfg.FeeBps,
		"slippage_bps":        cfg.SlippageBps,
		"rf_annual":           cfg.RFAnnual,
		"trading_days":        cfg.TradingDaysPerYear,
		"data_source":         source,
		"download_start":      downloadStart.Format("2006-01-02"),
		"report_start":        reportStart.Format("2006-01-02"),
		"report_end":          reportEnd.Format("2006-01-02"),
	}
	for k, v := range kpiStrategy.Flatten() {
		out["kpi_strategy_"+k] = v
	}
	for k, v := range kpiBuyhold.Flatten() {
		out["kpi_buyhold_"+k] = v
	}
	return out
}

// WriteSummaryJSON persists the flat summary document.
func WriteSummaryJSON(path string, summary map[string]any) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

// RenderKPIs renders one KPI set as aligned console lines in a stable order.
func RenderKPIs(title string, k *model.KPISet) string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== %s ===\n", title)
	flat := k.Flatten()
	if msg, ok := flat["error"]; ok {
		fmt.Fprintf(&b, "%v\n", msg)
		return b.String()
	}
	keys := make([]string, 0, len(flat))
	for key := range flat {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		switch v := flat[key].(type) {
		case nil:
			fmt.Fprintf(&b, "%-14s NaN\n", key)
		case int:
			fmt.Fprintf(&b, "%-14s %s\n", key, humanize.Comma(int64(v)))
		case float64:
			fmt.Fprintf(&b, "%-14s %s\n", key, humanize.CommafWithDigits(v, 4))
		default:
			fmt.Fprintf(&b, "%-14s %v\n", key, v)
		}
	}
	return b.String()
}

// RenderConfig renders the run parameters for the console.
func RenderConfig(cfg backtest.Config, source string, rows int) string {
	var b strings.Builder
	b.WriteString("=== CONFIG ===\n")
	fmt.Fprintf(&b, "%-20s %s\n", "ticker", cfg.Ticker)
	fmt.Fprintf(&b, "%-20s %d / %d\n", "ma_fast/ma_slow", cfg.MAFast, cfg.MASlow)
	fmt.Fprintf(&b, "%-20s %d\n", "vol_window", cfg.VolWindow)
	fmt.Fprintf(&b, "%-20s %.4f\n", "target_vol", cfg.TargetVol)
	fmt.Fprintf(&b, "%-20s %.2f\n", "max_leverage", cfg.MaxLeverage)
	fmt.Fprintf(&b, "%-20s %s (threshold %.2f)\n", "rebalance", string(cfg.Rebalance), cfg.RebalanceThreshold)
	fmt.Fprintf(&b, "%-20s %.1f + %.1f bps\n", "fee/slippage", cfg.FeeBps, cfg.SlippageBps)
	fmt.Fprintf(&b, "%-20s %.4f\n", "rf_annual", cfg.RFAnnual)
	fmt.Fprintf(&b, "%-20s %s\n", "data_source", source)
	fmt.Fprintf(&b, "%-20s %s\n", "days_reported", humanize.Comma(int64(rows)))
	return b.String()
}
