package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Scheduler runs a backtest task on a cron cadence, used by watch mode to
// refresh results as new daily bars become available.
type Scheduler struct {
	Cron *cron.Cron
	task func()
}

// New creates a Scheduler around the given task.
func New(task func()) *Scheduler {
	return &Scheduler{
		Cron: cron.New(cron.WithSeconds()),
		task: task,
	}
}

// Register registers the task under the given cron spec (with seconds field).
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.run); err != nil {
		return fmt.Errorf("register watch task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Info().Msg("scheduler stopped")
}

// RunNow executes the task immediately (for the initial run at startup).
func (s *Scheduler) RunNow() {
	s.run()
}

func (s *Scheduler) run() {
	log.Info().Msg("running scheduled backtest")
	s.task()
}
