package service

import (
	"context"
	"errors"
	"time"

	"pool_monitor/internal/alerts"
	"pool_monitor/internal/feed"
	"pool_monitor/internal/logger"
	"pool_monitor/internal/models"
	"pool_monitor/internal/repository"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (Identity, error)
	SetRole(username, role string) error
}

// Telemetry accepts sensor readings and serves the latest one.
type Telemetry interface {
	Ingest(ctx context.Context, reading models.SensorReading) (models.ReadingSnapshot, error)
	Latest(ctx context.Context) (models.ReadingSnapshot, error)
}

// AlertLog exposes the append-only alert log.
type AlertLog interface {
	Append(ctx context.Context, rec models.AlertRecord) (models.AlertRecord, error)
	List(ctx context.Context, f LogFilter) ([]models.AlertRecord, error)
	Recent(ctx context.Context, limit int) ([]models.AlertRecord, error)
	Clear(ctx context.Context) (int64, error)
}

// AlertFeed builds the grouped, classified alert view.
type AlertFeed interface {
	View(ctx context.Context, opts FeedOptions) ([]models.GroupedAlert, error)
}

// Thresholds reads and stores per-user threshold overrides.
type Thresholds interface {
	Get(ctx context.Context, userID int) ([]models.ThresholdRange, error)
	Settings(ctx context.Context, userID int) (models.ThresholdSettings, error)
	Save(ctx context.Context, userID int, s models.ThresholdSettings) error
	Active(ctx context.Context, userID int) (alerts.Thresholds, error)
}

// Simulator publishes synthetic readings until ctx is canceled.
type Simulator interface {
	Run(ctx context.Context, tick time.Duration)
}

// Monitor turns feed updates into alert log entries.
type Monitor interface {
	Run(ctx context.Context)
	Start(ctx context.Context) <-chan struct{}
	HandleReading(ctx context.Context, reading models.SensorReading)
}

// Feeds are the in-process topics shared by services and handlers.
type Feeds struct {
	Readings *feed.Topic[models.ReadingSnapshot]
	AlertLog *feed.Topic[LogChange]
	Toasts   *feed.Topic[models.Toast]
}

// NewFeeds creates empty topics.
func NewFeeds() *Feeds {
	return &Feeds{
		Readings: feed.NewTopic[models.ReadingSnapshot](),
		AlertLog: feed.NewTopic[LogChange](),
		Toasts:   feed.NewTopic[models.Toast](),
	}
}

// Close ends every subscription on every topic.
func (f *Feeds) Close() {
	f.Readings.Close()
	f.AlertLog.Close()
	f.Toasts.Close()
}

// Options carries the settings NewService needs beyond the repositories.
type Options struct {
	Log   *logger.Logger
	Auth  AuthOptions
	Cache LatestCache // optional

	Classifier  *alerts.Classifier // nil selects the built-in rules
	Cooldown    time.Duration
	GroupWindow time.Duration
	GroupPolicy alerts.GroupPolicy
	FeedLimits  FeedLimits

	// ThresholdUserID selects whose overrides the monitor applies; 0 keeps defaults.
	ThresholdUserID int

	Clock func() time.Time // nil selects time.Now
}

type Service struct {
	Authorization
	Telemetry
	AlertLog
	AlertFeed
	Thresholds
	Simulator
	Monitor

	Feeds *Feeds
}

// NewService wires repositories and topics into concrete services.
func NewService(repos *repository.Repository, opts Options) (*Service, error) {
	if opts.Log == nil {
		return nil, errors.New("service: logger is required")
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Classifier == nil {
		opts.Classifier = alerts.DefaultClassifier()
	}

	feeds := NewFeeds()
	alertLog := NewAlertLogService(repos.AlertRepo, feeds.AlertLog)
	thresholds := NewThresholdService(repos.ThresholdRepo)
	telemetry := NewTelemetryService(repos.ReadingRepo, opts.Cache, feeds.Readings, opts.Log, opts.Clock)

	var source ThresholdSource = StaticThresholds(alerts.DefaultThresholds())
	if opts.ThresholdUserID > 0 {
		source = UserThresholds(thresholds, opts.ThresholdUserID)
	}

	monitor := NewMonitorService(feeds.Readings, alertLog, feeds.Toasts, source, MonitorOptions{
		Cooldown: opts.Cooldown,
		Clock:    opts.Clock,
		Log:      opts.Log,
	})

	return &Service{
		Authorization: NewAuthService(repos.Auth, opts.Auth),
		Telemetry:     telemetry,
		AlertLog:      alertLog,
		AlertFeed: NewAlertFeedService(alertLog,
			alerts.NewProcessor(opts.Classifier, opts.GroupWindow, opts.GroupPolicy), opts.FeedLimits),
		Thresholds: thresholds,
		Simulator:  NewSimulatorService(telemetry, opts.Log, nil),
		Monitor:    monitor,
		Feeds:      feeds,
	}, nil
}
