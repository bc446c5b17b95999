package recorder

import (
	"time"

	"TrendSentinel/internal/backtest"
	"TrendSentinel/internal/model"
)

// RunRecord holds everything persisted for one completed backtest run: the
// full configuration, both KPI sets, and the day-indexed series restricted to
// the reporting window.
type RunRecord struct {
	RanAt       time.Time
	Source      string
	ReportStart time.Time
	ReportEnd   time.Time
	Config      backtest.Config
	KPIStrategy *model.KPISet
	KPIBuyhold  *model.KPISet
	Result      *model.Result
}

// Recorder persists completed runs for later analysis.
type Recorder interface {
	RecordRun(rec *RunRecord) error
	Close() error
}
