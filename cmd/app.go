package main

import (
	"context"
	"database/sql"
	"fmt"

	"pool_monitor/internal/alerts"
	"pool_monitor/internal/cache"
	"pool_monitor/internal/config"
	"pool_monitor/internal/logger"
	"pool_monitor/internal/repository"
	"pool_monitor/internal/repository/db"
	"pool_monitor/internal/service"
)

// app is everything a command needs, built from one config.
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	db       *sql.DB
	cache    *cache.RedisCache
	services *service.Service
}

// newApp loads config, opens storage and wires services. Nothing runs until
// the caller starts it.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.Init(cfg.Log.Level, logger.FileOptions{
		Path:       cfg.Log.File.Path,
		MaxSizeMB:  cfg.Log.File.MaxSizeMB,
		MaxBackups: cfg.Log.File.MaxBackups,
		MaxAgeDays: cfg.Log.File.MaxAgeDays,
		Compress:   cfg.Log.File.Compress,
	})

	conn, err := openDB(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("init sqlite: %w", err)
	}

	a := &app{cfg: cfg, log: log, db: conn}

	var latest service.LatestCache
	if cfg.Redis.Enabled {
		rc, err := cache.NewRedisCache(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL)
		if err != nil {
			// the sqlite row still serves Latest
			log.Warnw("redis_unavailable", "addr", cfg.Redis.Addr, "err", err)
		} else {
			a.cache = rc
			latest = rc
		}
	}

	classifier, err := cfg.Classifier()
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("severity rules: %w", err)
	}
	policy, err := alerts.ParseGroupPolicy(cfg.Alerts.GroupPolicy)
	if err != nil {
		a.Close()
		return nil, err
	}
	thresholdUser := 0
	if cfg.Alerts.ThresholdSource == config.ThresholdSourceUser {
		thresholdUser = cfg.Alerts.ThresholdUserID
	}

	services, err := service.NewService(repository.NewRepository(conn), service.Options{
		Log:         log,
		Auth:        service.AuthOptions{SigningKey: cfg.Auth.SigningKey, TokenTTL: cfg.Auth.TokenTTL},
		Cache:       latest,
		Classifier:  classifier,
		Cooldown:    cfg.Alerts.Cooldown,
		GroupWindow: cfg.Alerts.GroupWindow,
		GroupPolicy: policy,
		FeedLimits: service.FeedLimits{
			Default: cfg.Alerts.DefaultLimit,
			Max:     cfg.Alerts.MaxLimit,
		},
		ThresholdUserID: thresholdUser,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.services = services
	return a, nil
}

// openDB initializes the SQLite database using configuration.
func openDB(cfg *config.Config, log *logger.Logger) (*sql.DB, error) {
	dbPath := cfg.DB.Path
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "app.db")
		dbPath = "app.db"
	}
	return db.InitDB(dbPath)
}

// Close releases storage and flushes the log. Safe to call once.
func (a *app) Close() {
	if a.services != nil {
		a.services.Feeds.Close()
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.log.Warnw("redis_close_failed", "err", err)
		}
	}
	if err := a.db.Close(); err != nil {
		a.log.Errorw("failed to close sqlite", "err", err)
	}
	_ = a.log.Close()
}
