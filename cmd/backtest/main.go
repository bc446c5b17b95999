package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"TrendSentinel/internal/backtest"
	"TrendSentinel/internal/collector"
	"TrendSentinel/internal/config"
	"TrendSentinel/internal/metrics"
	"TrendSentinel/internal/recorder"
	"TrendSentinel/internal/report"
	"TrendSentinel/internal/scheduler"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()

	var (
		cfgPath = flag.String("config", envOr("CONFIG_PATH", "configs/config.yaml"), "path to YAML config")

		ticker       = flag.String("ticker", "", "instrument symbol")
		start        = flag.String("start", "", "reporting window start (YYYY-MM-DD)")
		end          = flag.String("end", "", "reporting window end (YYYY-MM-DD)")
		maFast       = flag.Int("ma-fast", 0, "fast moving average window")
		maSlow       = flag.Int("ma-slow", 0, "slow moving average window")
		volWindow    = flag.Int("vol-window", 0, "realized volatility window")
		targetVol    = flag.Float64("target-vol", 0, "annualized volatility target")
		maxLeverage  = flag.Float64("max-leverage", 0, "weight cap")
		rebalance    = flag.String("rebalance", "", "rebalance cadence: D, W-FRI or M")
		rebThreshold = flag.Float64("rebalance-threshold", 0, "relative weight change needed to trade")
		feeBps       = flag.Float64("fee-bps", 0, "round-trip fee in basis points of turnover")
		slippageBps  = flag.Float64("slippage-bps", 0, "slippage in basis points of turnover")
		rf           = flag.Float64("rf", 0, "annual risk-free rate")
		warmupBDays  = flag.Int("warmup-bdays", 0, "business days of history before the window")
		source       = flag.String("source", "", "data source: yahoo, stooq or csv")
		csvPath      = flag.String("csv", "", "bar CSV path when source is csv")
		outdir       = flag.String("outdir", "", "output directory")
		sqlitePath   = flag.String("sqlite", "", "SQLite database path (empty disables recording)")
		watch        = flag.Bool("watch", false, "keep running and refresh on the configured cron")
	)
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	// Flags override file and environment.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "ticker":
			cfg.Strategy.Ticker = *ticker
		case "start":
			cfg.Window.Start = *start
		case "end":
			cfg.Window.End = *end
		case "ma-fast":
			cfg.Strategy.MAFast = *maFast
		case "ma-slow":
			cfg.Strategy.MASlow = *maSlow
		case "vol-window":
			cfg.Strategy.VolWindow = *volWindow
		case "target-vol":
			cfg.Strategy.TargetVol = *targetVol
		case "max-leverage":
			cfg.Strategy.MaxLeverage = *maxLeverage
		case "rebalance":
			cfg.Strategy.Rebalance = *rebalance
		case "rebalance-threshold":
			cfg.Strategy.RebalanceThreshold = *rebThreshold
		case "fee-bps":
			cfg.Strategy.FeeBps = *feeBps
		case "slippage-bps":
			cfg.Strategy.SlippageBps = *slippageBps
		case "rf":
			cfg.Strategy.RFAnnual = *rf
		case "warmup-bdays":
			cfg.Window.WarmupBDays = *warmupBDays
		case "source":
			cfg.Data.Source = *source
		case "csv":
			cfg.Data.CSVPath = *csvPath
		case "outdir":
			cfg.Output.Dir = *outdir
		case "sqlite":
			cfg.Database.SQLitePath = *sqlitePath
		}
	})
	if cfg.Data.CSVPath != "" && !isFlagSet("source") {
		cfg.Data.Source = "csv"
	}

	setupLogging(cfg.Log.Level)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}
	bcfg, err := cfg.Backtest()
	if err != nil {
		log.Fatal().Err(err).Msg("strategy config")
	}
	reportStart, reportEnd, err := cfg.ReportWindow()
	if err != nil {
		log.Fatal().Err(err).Msg("reporting window")
	}

	col := buildCollector(cfg)
	rec := buildRecorder(cfg.Database.SQLitePath)
	defer rec.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	runOnce := func() error {
		return run(ctx, cfg, bcfg, col, rec, reportStart, reportEnd)
	}

	if !*watch {
		if err := runOnce(); err != nil {
			log.Fatal().Err(err).Msg("backtest failed")
		}
		return
	}

	if cfg.Watch.Cron == "" {
		// Weekdays after the US close by default.
		cfg.Watch.Cron = "0 30 22 * * 1-5"
	}
	sched := scheduler.New(func() {
		if err := runOnce(); err != nil {
			log.Error().Err(err).Msg("scheduled backtest failed")
		}
	})
	if err := sched.Register(cfg.Watch.Cron); err != nil {
		log.Fatal().Err(err).Msg("register watch cron")
	}
	sched.RunNow()
	sched.Start()
	defer sched.Stop()

	log.Info().Str("cron", cfg.Watch.Cron).Msg("watch mode running, Ctrl+C to stop")
	<-ctx.Done()
	log.Info().Msg("shutdown signal received, stopping")
}

func run(ctx context.Context, cfg *config.Config, bcfg backtest.Config,
	col *collector.Collector, rec recorder.Recorder, reportStart, reportEnd time.Time) error {

	downloadStart := collector.WarmupStart(reportStart, cfg.Window.WarmupBDays)
	downloadEnd := reportEnd.AddDate(0, 0, 1) // fetchers take a half-open range

	series, source, err := col.Collect(ctx, bcfg.Ticker, downloadStart, downloadEnd)
	if err != nil {
		return err
	}
	last := series.Bars[len(series.Bars)-1].Date
	if last.Before(reportStart) {
		return fmt.Errorf("downloaded history for %s ends %s, before the reporting window start %s",
			bcfg.Ticker, last.Format("2006-01-02"), reportStart.Format("2006-01-02"))
	}
	log.Info().Str("symbol", bcfg.Ticker).Str("source", source).
		Int("bars", len(series.Bars)).Msg("data acquired")

	full, err := backtest.Run(series, bcfg)
	if err != nil {
		return err
	}
	res, err := full.Slice(reportStart, reportEnd)
	if err != nil {
		return err
	}

	kpiStrategy := metrics.Compute(res.StrategyReturns(), bcfg.RFAnnual, bcfg.TradingDaysPerYear)
	kpiBuyhold := metrics.Compute(res.BenchmarkReturns(), bcfg.RFAnnual, bcfg.TradingDaysPerYear)

	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	csvPath := filepath.Join(cfg.Output.Dir, "daily_timeseries.csv")
	if err := report.WriteTimeseriesCSV(csvPath, res); err != nil {
		return err
	}
	summary := report.BuildSummary(bcfg, source, downloadStart, reportStart, reportEnd, kpiStrategy, kpiBuyhold)
	jsonPath := filepath.Join(cfg.Output.Dir, "results_summary.json")
	if err := report.WriteSummaryJSON(jsonPath, summary); err != nil {
		return err
	}
	log.Info().Str("csv", csvPath).Str("json", jsonPath).Msg("outputs written")

	if err := rec.RecordRun(&recorder.RunRecord{
		RanAt:       time.Now(),
		Source:      source,
		ReportStart: reportStart,
		ReportEnd:   reportEnd,
		Config:      bcfg,
		KPIStrategy: kpiStrategy,
		KPIBuyhold:  kpiBuyhold,
		Result:      res,
	}); err != nil {
		log.Error().Err(err).Msg("record run")
	}

	fmt.Print(report.RenderConfig(bcfg, source, len(res.Rows)))
	fmt.Print(report.RenderKPIs("STRATEGY", kpiStrategy))
	fmt.Print(report.RenderKPIs("BUY & HOLD", kpiBuyhold))
	return nil
}

func buildCollector(cfg *config.Config) *collector.Collector {
	switch cfg.Data.Source {
	case "csv":
		// No network and no cache when replaying a local file.
		return collector.NewCollector(&collector.FileFetcher{Path: cfg.Data.CSVPath}, nil, "")
	case "stooq":
		return collector.NewCollector(collector.NewStooqFetcher(cfg.Proxy), nil, cfg.Data.CacheDir)
	default:
		primary := collector.NewYahooFetcher(cfg.Proxy)
		fallback := collector.NewStooqFetcher(cfg.Proxy)
		return collector.NewCollector(primary, fallback, cfg.Data.CacheDir)
	}
}

func buildRecorder(sqlitePath string) recorder.Recorder {
	if sqlitePath == "" {
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(sqlitePath)
	if err != nil {
		log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
		return recorder.NewNoopRecorder()
	}
	return sr
}

func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).Level(lvl)
}

func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
