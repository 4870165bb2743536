package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/aipulse/aipulse/internal/consensus"
	"github.com/aipulse/aipulse/internal/database"
)

// snapshotRetention bounds how long precomputed snapshots are kept.
const snapshotRetention = 7 * 24 * time.Hour

// ForecastScheduler periodically regenerates forecast snapshots for the
// configured topics and timeframes, so dashboard reads never pay the
// aggregation cost.
type ForecastScheduler struct {
	engine       *consensus.Engine
	forecastRepo *database.ForecastRepository
	topics       []string
	timeframes   []string
	interval     time.Duration
	logger       *slog.Logger
	stopChan     chan struct{}
}

// NewForecastScheduler creates a new forecast scheduler
func NewForecastScheduler(
	engine *consensus.Engine,
	forecastRepo *database.ForecastRepository,
	topics []string,
	timeframes []string,
	interval time.Duration,
	logger *slog.Logger,
) *ForecastScheduler {
	return &ForecastScheduler{
		engine:       engine,
		forecastRepo: forecastRepo,
		topics:       topics,
		timeframes:   timeframes,
		interval:     interval,
		logger:       logger,
		stopChan:     make(chan struct{}),
	}
}

// Start begins the scheduler loop
func (s *ForecastScheduler) Start(ctx context.Context) {
	if len(s.topics) == 0 {
		s.logger.Info("no topics configured, forecast scheduler idle")
		return
	}

	s.logger.Info("Starting forecast scheduler",
		"interval", s.interval,
		"topics", len(s.topics),
		"timeframes", len(s.timeframes))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Run once immediately on start
	s.runAll(ctx)

	for {
		select {
		case <-ticker.C:
			s.runAll(ctx)
		case <-s.stopChan:
			s.logger.Info("Forecast scheduler stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Forecast scheduler stopping due to context cancellation")
			return
		}
	}
}

// Stop stops the scheduler
func (s *ForecastScheduler) Stop() {
	close(s.stopChan)
}

// runAll regenerates one snapshot per (topic, timeframe) pair and then
// prunes snapshots past retention. A failed pair never blocks the rest.
func (s *ForecastScheduler) runAll(ctx context.Context) {
	for _, topic := range s.topics {
		for _, timeframe := range s.timeframes {
			if ctx.Err() != nil {
				return
			}

			result, err := s.engine.GenerateForecast(ctx, topic, timeframe, nil)
			if err != nil {
				s.logger.Error("Failed to generate scheduled forecast",
					"topic", topic,
					"timeframe", timeframe,
					"error", err)
				continue
			}

			id, err := s.forecastRepo.CreateSnapshot(ctx, *result)
			if err != nil {
				s.logger.Error("Failed to store forecast snapshot",
					"topic", topic,
					"timeframe", timeframe,
					"error", err)
				continue
			}

			s.logger.Info("Stored forecast snapshot",
				"snapshot_id", id,
				"topic", topic,
				"timeframe", timeframe,
				"categories", len(result.Themes),
				"category_failures", len(result.CategoryErrors))
		}
	}

	deleted, err := s.forecastRepo.DeleteOlderThan(ctx, time.Now().Add(-snapshotRetention))
	if err != nil {
		s.logger.Error("Failed to prune old snapshots", "error", err)
		return
	}
	if deleted > 0 {
		s.logger.Info("Pruned old forecast snapshots", "deleted", deleted)
	}
}
