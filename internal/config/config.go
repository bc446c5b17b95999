package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"TrendSentinel/internal/backtest"
)

// Config holds all application configuration.
type Config struct {
	Strategy struct {
		Ticker             string  `yaml:"ticker"`
		MAFast             int     `yaml:"ma_fast"`
		MASlow             int     `yaml:"ma_slow"`
		VolWindow          int     `yaml:"vol_window"`
		TargetVol          float64 `yaml:"target_vol"`
		MaxLeverage        float64 `yaml:"max_leverage"`
		Rebalance          string  `yaml:"rebalance"`
		RebalanceThreshold float64 `yaml:"rebalance_threshold"`
		FeeBps             float64 `yaml:"fee_bps"`
		SlippageBps        float64 `yaml:"slippage_bps"`
		RFAnnual           float64 `yaml:"rf_annual"`
		TradingDays        int     `yaml:"trading_days"`
	} `yaml:"strategy"`
	Window struct {
		Start       string `yaml:"start"`
		End         string `yaml:"end"`
		WarmupBDays int    `yaml:"warmup_bdays"`
	} `yaml:"window"`
	Data struct {
		Source   string `yaml:"source"`
		CacheDir string `yaml:"cache_dir"`
		CSVPath  string `yaml:"csv_path"`
	} `yaml:"data"`
	Output struct {
		Dir string `yaml:"dir"`
	} `yaml:"output"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Watch struct {
		Cron string `yaml:"cron"`
	} `yaml:"watch"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TICKER"); v != "" {
		cfg.Strategy.Ticker = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CACHE_DIR"); v != "" {
		cfg.Data.CacheDir = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("WATCH_CRON"); v != "" {
		cfg.Watch.Cron = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	// Defaults
	def := backtest.DefaultConfig()
	if cfg.Strategy.Ticker == "" {
		cfg.Strategy.Ticker = def.Ticker
	}
	if cfg.Strategy.MAFast == 0 {
		cfg.Strategy.MAFast = def.MAFast
	}
	if cfg.Strategy.MASlow == 0 {
		cfg.Strategy.MASlow = def.MASlow
	}
	if cfg.Strategy.VolWindow == 0 {
		cfg.Strategy.VolWindow = def.VolWindow
	}
	if cfg.Strategy.TargetVol == 0 {
		cfg.Strategy.TargetVol = def.TargetVol
	}
	if cfg.Strategy.MaxLeverage == 0 {
		cfg.Strategy.MaxLeverage = def.MaxLeverage
	}
	if cfg.Strategy.Rebalance == "" {
		cfg.Strategy.Rebalance = string(def.Rebalance)
	}
	if cfg.Strategy.RebalanceThreshold == 0 {
		cfg.Strategy.RebalanceThreshold = def.RebalanceThreshold
	}
	if cfg.Strategy.FeeBps == 0 {
		cfg.Strategy.FeeBps = def.FeeBps
	}
	if cfg.Strategy.TradingDays == 0 {
		cfg.Strategy.TradingDays = def.TradingDaysPerYear
	}
	if cfg.Window.Start == "" {
		cfg.Window.Start = "2015-01-01"
	}
	if cfg.Window.End == "" {
		cfg.Window.End = "2024-12-31"
	}
	if cfg.Window.WarmupBDays == 0 {
		cfg.Window.WarmupBDays = 260
	}
	if cfg.Data.Source == "" {
		cfg.Data.Source = "yahoo"
	}
	if cfg.Data.CacheDir == "" {
		cfg.Data.CacheDir = "data_cache"
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "outputs"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

// Validate checks that all required fields are consistent.
func (c *Config) Validate() error {
	if _, err := c.Backtest(); err != nil {
		return err
	}
	if _, _, err := c.ReportWindow(); err != nil {
		return err
	}
	if c.Window.WarmupBDays < 0 {
		return fmt.Errorf("window.warmup_bdays must be non-negative")
	}
	switch c.Data.Source {
	case "yahoo", "stooq", "csv":
	default:
		return fmt.Errorf("data.source must be yahoo, stooq or csv, got %q", c.Data.Source)
	}
	if c.Data.Source == "csv" && c.Data.CSVPath == "" {
		return fmt.Errorf("data.csv_path is required when data.source is csv")
	}
	return nil
}

// Backtest converts the strategy section into an engine configuration.
func (c *Config) Backtest() (backtest.Config, error) {
	freq, err := backtest.ParseFrequency(c.Strategy.Rebalance)
	if err != nil {
		return backtest.Config{}, err
	}
	bc := backtest.Config{
		Ticker:             c.Strategy.Ticker,
		MAFast:             c.Strategy.MAFast,
		MASlow:             c.Strategy.MASlow,
		VolWindow:          c.Strategy.VolWindow,
		TargetVol:          c.Strategy.TargetVol,
		MaxLeverage:        c.Strategy.MaxLeverage,
		Rebalance:          freq,
		RebalanceThreshold: c.Strategy.RebalanceThreshold,
		FeeBps:             c.Strategy.FeeBps,
		SlippageBps:        c.Strategy.SlippageBps,
		RFAnnual:           c.Strategy.RFAnnual,
		TradingDaysPerYear: c.Strategy.TradingDays,
	}
	if err := bc.Validate(); err != nil {
		return backtest.Config{}, err
	}
	return bc, nil
}

// ReportWindow parses the reporting window bounds.
func (c *Config) ReportWindow() (start, end time.Time, err error) {
	start, err = time.Parse("2006-01-02", c.Window.Start)
	if err != nil {
		return start, end, fmt.Errorf("window.start: %w", err)
	}
	end, err = time.Parse("2006-01-02", c.Window.End)
	if err != nil {
		return start, end, fmt.Errorf("window.end: %w", err)
	}
	if end.Before(start) {
		return start, end, fmt.Errorf("window.end %s is before window.start %s", c.Window.End, c.Window.Start)
	}
	return start, end, nil
}
