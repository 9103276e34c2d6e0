package usecase

import (
	"context"
	"log/slog"
	"time"

	"DocketWatch/internal/domain"
	"DocketWatch/internal/ports"
	"DocketWatch/internal/scanner"
)

// Scheduler wires the polling driver with the pipeline use case. Each tick
// runs the pipeline once per configured category, most recent release only.
type Scheduler struct {
	driver     ports.Scheduler
	pipeline   *Pipeline
	categories []domain.Category
	onResult   func(Result)
	logger     *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring runs. onResult, when
// set, receives every successful run.
func NewScheduler(driver ports.Scheduler, pipeline *Pipeline, categories []domain.Category, onResult func(Result), logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		driver:     driver,
		pipeline:   pipeline,
		categories: categories,
		onResult:   onResult,
		logger:     logger.With("component", "watch"),
	}
}

// Start registers the pipeline with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.pipeline == nil {
		return nil
	}

	job := func(trigger time.Time) {
		s.Tick(ctx, trigger)
	}

	return s.driver.Start(ctx, job)
}

// Tick runs every category once. A failing category is logged and does not
// prevent the others from running.
func (s *Scheduler) Tick(ctx context.Context, trigger time.Time) {
	for _, category := range s.categories {
		if ctx.Err() != nil {
			return
		}
		result, err := s.pipeline.Run(ctx, scanner.Request{Category: category})
		if err != nil {
			s.logger.Error("scheduled run failed", "category", category, "trigger", trigger, "error", err)
			continue
		}
		if s.onResult != nil {
			s.onResult(result)
		}
	}
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
