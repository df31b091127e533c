package usecase

import (
	"context"
	"log/slog"
	"time"

	"SeoForge/internal/ports"
)

// Scheduler wires the interval driver with the news sweep.
type Scheduler struct {
	driver   ports.Scheduler
	ingestor *Ingestor
	logger   *slog.Logger
}

// NewScheduler returns a helper to start/stop the recurring sweep.
func NewScheduler(driver ports.Scheduler, ingestor *Ingestor, logger *slog.Logger) *Scheduler {
	return &Scheduler{driver: driver, ingestor: ingestor, logger: logger}
}

// Start registers the sweep with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.ingestor == nil {
		return nil
	}

	job := func(trigger time.Time) {
		results, err := s.ingestor.SweepNews(ctx)
		if s.logger == nil {
			return
		}
		if err != nil {
			s.logger.Error("scheduled news sweep failed", "trigger", trigger, "err", err)
			return
		}
		generated := 0
		for _, r := range results {
			generated += len(r.Report.Succeeded)
		}
		s.logger.Info("scheduled news sweep done", "trigger", trigger, "blogs", len(results), "generated", generated)
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
