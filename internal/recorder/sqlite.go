package recorder

import (
	"database/sql"
	"fmt"
	"math"
	"sync"

	"TrendSentinel/internal/model"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists run summaries and daily series to a SQLite
// database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs
// migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance (dashboards read while
	// watch mode writes).
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id                  INTEGER PRIMARY KEY AUTOINCREMENT,
			ran_at              INTEGER NOT NULL,
			ticker              TEXT,
			source              TEXT,
			report_start        TEXT,
			report_end          TEXT,
			ma_fast             INTEGER,
			ma_slow             INTEGER,
			vol_window          INTEGER,
			target_vol          REAL,
			max_leverage        REAL,
			rebalance           TEXT,
			rebalance_threshold REAL,
			fee_bps             REAL,
			slippage_bps        REAL,
			rf_annual           REAL,
			trading_days        INTEGER,
			strat_cagr          REAL,
			strat_ann_vol       REAL,
			strat_sharpe        REAL,
			strat_sortino       REAL,
			strat_max_drawdown  REAL,
			strat_calmar        REAL,
			strat_hit_rate      REAL,
			strat_total_return  REAL,
			strat_num_days      INTEGER,
			bh_cagr             REAL,
			bh_sharpe           REAL,
			bh_max_drawdown     REAL,
			bh_total_return     REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ran_at ON runs(ran_at)`,

		`CREATE TABLE IF NOT EXISTS daily_rows (
			run_id          INTEGER NOT NULL,
			date            TEXT NOT NULL,
			ret             REAL,
			signal          REAL,
			vol_ann         REAL,
			w_target        REAL,
			w_exec          REAL,
			w_lag           REAL,
			turnover        REAL,
			costs           REAL,
			strategy_ret    REAL,
			equity_strategy REAL,
			equity_buyhold  REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_daily_run ON daily_rows(run_id, date)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// nf maps NaN/Inf to NULL so degenerate KPIs survive the round trip.
func nf(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

// nfOpt maps an undefined Float to NULL.
func nfOpt(f model.Float) any {
	if !f.Valid {
		return nil
	}
	return f.V
}

func (r *SQLiteRecorder) RecordRun(rec *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	cfg := rec.Config
	ks, kb := rec.KPIStrategy, rec.KPIBuyhold
	res, err := tx.Exec(`INSERT INTO runs
		(ran_at, ticker, source, report_start, report_end,
		 ma_fast, ma_slow, vol_window, target_vol, max_leverage,
		 rebalance, rebalance_threshold, fee_bps, slippage_bps, rf_annual, trading_days,
		 strat_cagr, strat_ann_vol, strat_sharpe, strat_sortino, strat_max_drawdown,
		 strat_calmar, strat_hit_rate, strat_total_return, strat_num_days,
		 bh_cagr, bh_sharpe, bh_max_drawdown, bh_total_return)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		rec.RanAt.Unix(), cfg.Ticker, rec.Source,
		rec.ReportStart.Format("2006-01-02"), rec.ReportEnd.Format("2006-01-02"),
		cfg.MAFast, cfg.MASlow, cfg.VolWindow, cfg.TargetVol, cfg.MaxLeverage,
		string(cfg.Rebalance), cfg.RebalanceThreshold, cfg.FeeBps, cfg.SlippageBps,
		cfg.RFAnnual, cfg.TradingDaysPerYear,
		nf(ks.CAGR), nf(ks.AnnVol), nf(ks.Sharpe), nf(ks.Sortino), nf(ks.MaxDrawdown),
		nf(ks.Calmar), nf(ks.HitRate), nf(ks.TotalReturn), ks.NumDays,
		nf(kb.CAGR), nf(kb.Sharpe), nf(kb.MaxDrawdown), nf(kb.TotalReturn),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("run id: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO daily_rows
		(run_id, date, ret, signal, vol_ann, w_target, w_exec, w_lag,
		 turnover, costs, strategy_ret, equity_strategy, equity_buyhold)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare rows: %w", err)
	}
	defer stmt.Close()

	for _, row := range rec.Result.Rows {
		if _, err := stmt.Exec(
			runID, row.Date.Format("2006-01-02"), row.Ret,
			nfOpt(row.Signal), nfOpt(row.VolAnn), nfOpt(row.WTarget),
			row.WExec, row.WLag, row.Turnover, row.Costs,
			row.StrategyRet, row.EquityStrategy, row.EquityBuyhold,
		); err != nil {
			return fmt.Errorf("insert row %s: %w", row.Date.Format("2006-01-02"), err)
		}
	}

	return tx.Commit()
}

func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}
