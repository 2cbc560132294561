package service

import (
	"context"
	"time"

	"pool_monitor/internal/alerts"
	"pool_monitor/internal/feed"
	"pool_monitor/internal/logger"
	"pool_monitor/internal/metrics"
	"pool_monitor/internal/models"
)

const monitorBuffer = 32

// alertAppender is the slice of AlertLog the monitor writes through.
type alertAppender interface {
	Append(ctx context.Context, rec models.AlertRecord) (models.AlertRecord, error)
}

type MonitorOptions struct {
	Cooldown time.Duration // <= 0 selects alerts.DefaultCooldown
	Clock    func() time.Time
	Log      *logger.Logger
}

// MonitorService checks every feed update against the active thresholds and
// writes at most one alert per metric per cooldown window. It owns its
// cooldown state and must be driven by a single goroutine.
type MonitorService struct {
	readings   *feed.Topic[models.ReadingSnapshot]
	alertLog   alertAppender
	toasts     *feed.Topic[models.Toast]
	thresholds ThresholdSource
	cooldown   *alerts.CooldownTracker
	now        func() time.Time
	log        *logger.Logger
}

func NewMonitorService(
	readings *feed.Topic[models.ReadingSnapshot],
	alertLog alertAppender,
	toasts *feed.Topic[models.Toast],
	thresholds ThresholdSource,
	opts MonitorOptions,
) *MonitorService {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}
	if thresholds == nil {
		thresholds = StaticThresholds(alerts.DefaultThresholds())
	}
	return &MonitorService{
		readings:   readings,
		alertLog:   alertLog,
		toasts:     toasts,
		thresholds: thresholds,
		cooldown:   alerts.NewCooldownTracker(opts.Cooldown),
		now:        opts.Clock,
		log:        opts.Log,
	}
}

// Run processes readings in publish order until ctx is canceled or the
// topic closes, then releases its subscription.
func (m *MonitorService) Run(ctx context.Context) {
	<-m.Start(ctx)
}

// Start subscribes before returning, so no reading published afterwards is
// missed, and processes readings in the background. The returned channel
// closes when processing stops.
func (m *MonitorService) Start(ctx context.Context) <-chan struct{} {
	sub := m.readings.Subscribe(monitorBuffer)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer sub.Close()
		m.consume(ctx, sub)
	}()
	return done
}

func (m *MonitorService) consume(ctx context.Context, sub *feed.Subscription[models.ReadingSnapshot]) {
	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-sub.C():
			if !ok {
				return
			}
			m.HandleReading(ctx, snap.Reading)
		}
	}
}

// HandleReading checks one update. Empty readings are ignored and metrics
// the reading does not carry are skipped.
func (m *MonitorService) HandleReading(ctx context.Context, reading models.SensorReading) {
	if reading.IsEmpty() {
		return
	}
	now := m.now()
	values := withDerivedPH(reading)
	active := m.activeThresholds(ctx)

	for _, metric := range alerts.MonitoredMetrics {
		value, ok := values[metric]
		if !ok {
			continue
		}
		r, ok := active[metric]
		if !ok || !alerts.OutOfRange(r, value) {
			continue
		}
		if !m.cooldown.ShouldEmit(metric, now) {
			metrics.AlertsSuppressed.WithLabelValues(metric).Inc()
			continue
		}
		m.emit(ctx, r, metric, value, now)
	}
}

func (m *MonitorService) emit(ctx context.Context, r models.ThresholdRange, metric string, value float64, now time.Time) {
	rec, err := m.alertLog.Append(ctx, models.AlertRecord{
		Type:      metric,
		Message:   alerts.FormatAlertMessage(r, value),
		Value:     value,
		Timestamp: now.UnixMilli(),
	})
	if err != nil {
		// cooldown stays untouched so the next update retries
		metrics.AlertWriteFailures.Inc()
		m.log.Warnw("alert_write_failed", "metric", metric, "value", value, "err", err)
		return
	}
	m.cooldown.RecordEmission(metric, now)
	metrics.AlertsEmitted.WithLabelValues(metric).Inc()

	m.toasts.Publish(models.Toast{
		AlertID:   rec.ID,
		Type:      rec.Type,
		Message:   rec.Message,
		Value:     rec.Value,
		Timestamp: rec.Timestamp,
	})
}

func (m *MonitorService) activeThresholds(ctx context.Context) alerts.Thresholds {
	th, err := m.thresholds.Active(ctx)
	if err != nil || len(th) == 0 {
		if err != nil {
			m.log.Warnw("threshold_lookup_failed", "err", err)
		}
		return alerts.DefaultThresholds()
	}
	return th
}

// withDerivedPH returns reading plus the "ph" metric when the probe voltage is present.
func withDerivedPH(reading models.SensorReading) models.SensorReading {
	v, ok := reading.Get(models.MetricPHVoltage)
	if !ok {
		return reading
	}
	out := make(models.SensorReading, len(reading)+1)
	for k, val := range reading {
		out[k] = val
	}
	out[models.MetricPH] = alerts.PHFromVoltage(v)
	return out
}
