package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"pool_monitor/internal/alerts"
	"pool_monitor/internal/feed"
	"pool_monitor/internal/logger"
	"pool_monitor/internal/metrics"
	"pool_monitor/internal/models"
	"pool_monitor/internal/repository"
)

var (
	ErrEmptyReading   = errors.New("reading has no values")
	ErrInvalidReading = errors.New("reading has a non-finite value")
)

// LatestCache is an optional shared store for the latest snapshot.
type LatestCache interface {
	SetLatest(ctx context.Context, snap models.ReadingSnapshot) error
	GetLatest(ctx context.Context) (models.ReadingSnapshot, bool, error)
}

type TelemetryService struct {
	readingRepo repository.ReadingRepo
	cache       LatestCache
	readings    *feed.Topic[models.ReadingSnapshot]
	log         *logger.Logger
	now         func() time.Time
}

// NewTelemetryService builds the service; cache may be nil.
func NewTelemetryService(
	readingRepo repository.ReadingRepo,
	cache LatestCache,
	readings *feed.Topic[models.ReadingSnapshot],
	log *logger.Logger,
	now func() time.Time,
) *TelemetryService {
	if now == nil {
		now = time.Now
	}
	return &TelemetryService{
		readingRepo: readingRepo,
		cache:       cache,
		readings:    readings,
		log:         log,
		now:         now,
	}
}

// Ingest stamps and stores reading as the latest snapshot, then publishes it
// on the readings topic. Nothing is published when the store fails.
func (s *TelemetryService) Ingest(ctx context.Context, reading models.SensorReading) (models.ReadingSnapshot, error) {
	if reading.IsEmpty() {
		return models.ReadingSnapshot{}, ErrEmptyReading
	}
	for metric, v := range reading {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return models.ReadingSnapshot{}, fmt.Errorf("%s: %w", metric, ErrInvalidReading)
		}
	}

	snap := snapshotOf(reading, s.now().UTC())
	if err := s.readingRepo.Save(ctx, snap); err != nil {
		return models.ReadingSnapshot{}, err
	}
	if s.cache != nil {
		if err := s.cache.SetLatest(ctx, snap); err != nil {
			s.log.Warnw("reading_cache_write_failed", "err", err)
		}
	}

	metrics.ReadingsReceived.Inc()
	s.readings.Publish(snap)
	return snap, nil
}

// Latest returns the most recent snapshot, preferring the cache. A zero
// snapshot means no reading has arrived yet.
func (s *TelemetryService) Latest(ctx context.Context) (models.ReadingSnapshot, error) {
	if s.cache != nil {
		snap, ok, err := s.cache.GetLatest(ctx)
		switch {
		case err != nil:
			s.log.Warnw("reading_cache_read_failed", "err", err)
		case ok:
			return snap, nil
		}
	}

	stored, err := s.readingRepo.Load(ctx)
	if err != nil {
		return models.ReadingSnapshot{}, err
	}
	if stored.Reading.IsEmpty() {
		return models.ReadingSnapshot{}, nil
	}
	return snapshotOf(stored.Reading, stored.ReceivedAt), nil
}

// snapshotOf copies reading and attaches the derived pH when the probe voltage is present.
func snapshotOf(reading models.SensorReading, at time.Time) models.ReadingSnapshot {
	copied := make(models.SensorReading, len(reading))
	for k, v := range reading {
		copied[k] = v
	}
	snap := models.ReadingSnapshot{Reading: copied, ReceivedAt: at}
	if v, ok := copied.Get(models.MetricPHVoltage); ok {
		ph := alerts.PHFromVoltage(v)
		snap.PH = &ph
	}
	return snap
}
