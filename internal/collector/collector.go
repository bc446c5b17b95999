package collector

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"TrendSentinel/internal/model"

	"github.com/rs/zerolog/log"
)

// Collector orchestrates data acquisition: local cache first, then the
// primary source, then the fallback. Successful primary downloads are cached
// so repeated runs over the same window stay offline.
type Collector struct {
	Primary  Fetcher
	Fallback Fetcher // optional
	CacheDir string  // empty disables caching
}

// NewCollector creates a new Collector.
func NewCollector(primary, fallback Fetcher, cacheDir string) *Collector {
	return &Collector{Primary: primary, Fallback: fallback, CacheDir: cacheDir}
}

// Collect acquires the daily history for [start, end), validates it and
// reports which source served it ("cache", the primary's name, or the
// fallback's name).
func (c *Collector) Collect(ctx context.Context, symbol string, start, end time.Time) (*model.PriceSeries, string, error) {
	cachePath := c.cachePath(symbol, start, end)

	if cachePath != "" {
		if bars, err := ReadBarsCSV(cachePath); err == nil && len(bars) > 0 {
			series, err := c.validated(symbol, bars)
			if err != nil {
				return nil, "", fmt.Errorf("cached data: %w", err)
			}
			return series, "cache", nil
		}
	}

	bars, err := c.Primary.FetchDailyBars(ctx, symbol, start, end)
	if err != nil || len(bars) == 0 {
		if err == nil {
			err = fmt.Errorf("no bars returned")
		}
		log.Warn().Err(err).Str("source", c.Primary.Name()).Str("symbol", symbol).
			Msg("primary source failed")
		if c.Fallback == nil {
			return nil, "", fmt.Errorf("fetch %s from %s: %w", symbol, c.Primary.Name(), err)
		}
		fbars, ferr := c.Fallback.FetchDailyBars(ctx, symbol, start, end)
		if ferr != nil || len(fbars) == 0 {
			if ferr == nil {
				ferr = fmt.Errorf("no bars returned")
			}
			return nil, "", fmt.Errorf("fetch %s failed from %s (%v) and fallback %s: %w",
				symbol, c.Primary.Name(), err, c.Fallback.Name(), ferr)
		}
		series, verr := c.validated(symbol, fbars)
		if verr != nil {
			return nil, "", fmt.Errorf("%s data: %w", c.Fallback.Name(), verr)
		}
		return series, c.Fallback.Name(), nil
	}

	series, verr := c.validated(symbol, bars)
	if verr != nil {
		return nil, "", fmt.Errorf("%s data: %w", c.Primary.Name(), verr)
	}
	if cachePath != "" {
		if err := os.MkdirAll(c.CacheDir, 0o755); err == nil {
			if err := WriteBarsCSV(cachePath, bars); err != nil {
				log.Warn().Err(err).Str("path", cachePath).Msg("cache write failed")
			}
		}
	}
	return series, c.Primary.Name(), nil
}

func (c *Collector) validated(symbol string, bars []model.Bar) (*model.PriceSeries, error) {
	series := &model.PriceSeries{Symbol: symbol, Bars: bars}
	if err := series.Validate(); err != nil {
		return nil, err
	}
	return series, nil
}

func (c *Collector) cachePath(symbol string, start, end time.Time) string {
	if c.CacheDir == "" {
		return ""
	}
	safe := strings.NewReplacer("^", "", "/", "-", "\\", "-", ".", "_").Replace(symbol)
	name := fmt.Sprintf("%s_%s_%s.csv", safe, start.Format("20060102"), end.Format("20060102"))
	return filepath.Join(c.CacheDir, name)
}
