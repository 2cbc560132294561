package service

import (
	"context"
	"time"

	"pool_monitor/internal/alerts"
	"pool_monitor/internal/metrics"
	"pool_monitor/internal/models"
)

const (
	defaultFeedLimit = 100
	maxFeedLimit     = 9000
)

// recentReader is the slice of AlertLog the feed needs.
type recentReader interface {
	Recent(ctx context.Context, limit int) ([]models.AlertRecord, error)
}

type AlertFeedService struct {
	log       recentReader
	processor *alerts.Processor
	limits    FeedLimits
}

// NewAlertFeedService builds the grouped view service. Zero limits select
// 100 records by default and 9000 at most.
func NewAlertFeedService(log recentReader, processor *alerts.Processor, limits FeedLimits) *AlertFeedService {
	if limits.Default <= 0 {
		limits.Default = defaultFeedLimit
	}
	if limits.Max <= 0 {
		limits.Max = maxFeedLimit
	}
	if limits.Default > limits.Max {
		limits.Default = limits.Max
	}
	return &AlertFeedService{log: log, processor: processor, limits: limits}
}

// View reads the most recent records and returns them classified and grouped,
// newest activity first.
func (s *AlertFeedService) View(ctx context.Context, opts FeedOptions) ([]models.GroupedAlert, error) {
	records, err := s.log.Recent(ctx, s.clampLimit(opts.Limit))
	if err != nil {
		return nil, err
	}

	start := time.Now()
	groups := s.processor.Process(records, opts.ShowSuspicious)
	metrics.FeedProcessDuration.Observe(time.Since(start).Seconds())
	return groups, nil
}

func (s *AlertFeedService) clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return s.limits.Default
	case limit > s.limits.Max:
		return s.limits.Max
	default:
		return limit
	}
}
