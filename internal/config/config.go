// Package config loads application settings from configs/config.yml and
// POOLMON_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"pool_monitor/internal/alerts"
)

// EnvPrefix is prepended to every environment override, e.g. POOLMON_DB_PATH.
const EnvPrefix = "POOLMON"

// Threshold sources for the ingestion monitor.
const (
	ThresholdSourceDefaults = "defaults"
	ThresholdSourceUser     = "user"
)

// Config holds all configuration for the service.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	DB        DBConfig        `mapstructure:"db"`
	Log       LogConfig       `mapstructure:"log"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Ingest    IngestConfig    `mapstructure:"ingest"`
	Alerts    AlertsConfig    `mapstructure:"alerts"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Simulator SimulatorConfig `mapstructure:"simulator"`
	WS        WSConfig        `mapstructure:"ws"`
}

type ServerConfig struct {
	Port              string        `mapstructure:"port"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level string        `mapstructure:"level"`
	File  LogFileConfig `mapstructure:"file"`
}

// LogFileConfig enables a rotating JSON log file next to console output.
// An empty Path disables it.
type LogFileConfig struct {
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type AuthConfig struct {
	SigningKey string        `mapstructure:"signing_key"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
}

// IngestConfig guards the device-facing ingest endpoint.
type IngestConfig struct {
	DeviceKey     string  `mapstructure:"device_key"`
	RatePerSecond float64 `mapstructure:"rate_per_second"`
	Burst         int     `mapstructure:"burst"`
}

type AlertsConfig struct {
	Cooldown        time.Duration                  `mapstructure:"cooldown"`
	GroupWindow     time.Duration                  `mapstructure:"group_window"`
	GroupPolicy     string                         `mapstructure:"group_policy"`
	ThresholdSource string                         `mapstructure:"threshold_source"`
	ThresholdUserID int                            `mapstructure:"threshold_user_id"`
	DefaultLimit    int                            `mapstructure:"default_limit"`
	MaxLimit        int                            `mapstructure:"max_limit"`
	SeverityRules   map[string]alerts.SeverityRule `mapstructure:"severity_rules"`
	Signal          alerts.SignalRule              `mapstructure:"signal"`
}

type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type SimulatorConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Tick    time.Duration `mapstructure:"tick"`
}

type WSConfig struct {
	PingInterval time.Duration `mapstructure:"ping_interval"`
}

// Load reads the config file at path (or configs/config.yml when path is
// empty), applies defaults and POOLMON_* overrides, and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("configs")
		v.SetConfigName("config")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Alerts.SeverityRules = canonicalMetricKeys(cfg.Alerts.SeverityRules)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_header_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("db.path", "app.db")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file.path", "")
	v.SetDefault("log.file.max_size_mb", 10)
	v.SetDefault("log.file.max_backups", 3)
	v.SetDefault("log.file.max_age_days", 7)
	v.SetDefault("log.file.compress", true)

	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.token_ttl", time.Hour)

	v.SetDefault("ingest.device_key", "")
	v.SetDefault("ingest.rate_per_second", 5.0)
	v.SetDefault("ingest.burst", 10)

	v.SetDefault("alerts.cooldown", alerts.DefaultCooldown)
	v.SetDefault("alerts.group_window", alerts.DefaultGroupWindow)
	v.SetDefault("alerts.group_policy", string(alerts.GroupByLatest))
	v.SetDefault("alerts.threshold_source", ThresholdSourceDefaults)
	v.SetDefault("alerts.threshold_user_id", 0)
	v.SetDefault("alerts.default_limit", 100)
	v.SetDefault("alerts.max_limit", 9000)
	v.SetDefault("alerts.signal.critical", alerts.DefaultSignalRule().Critical)
	v.SetDefault("alerts.signal.warning", alerts.DefaultSignalRule().Warning)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 10*time.Minute)

	v.SetDefault("simulator.enabled", false)
	v.SetDefault("simulator.tick", 5*time.Second)

	v.SetDefault("ws.ping_interval", 30*time.Second)
}

// Validate checks cross-field constraints that viper cannot express.
func (c *Config) Validate() error {
	if c.Auth.SigningKey == "" {
		return errors.New("auth.signing_key must be set")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("auth.token_ttl must be positive")
	}
	if _, err := alerts.ParseGroupPolicy(c.Alerts.GroupPolicy); err != nil {
		return fmt.Errorf("alerts.group_policy: %w", err)
	}
	switch c.Alerts.ThresholdSource {
	case ThresholdSourceDefaults:
	case ThresholdSourceUser:
		if c.Alerts.ThresholdUserID <= 0 {
			return errors.New("alerts.threshold_user_id is required when alerts.threshold_source is \"user\"")
		}
	default:
		return fmt.Errorf("alerts.threshold_source %q: want %q or %q",
			c.Alerts.ThresholdSource, ThresholdSourceDefaults, ThresholdSourceUser)
	}
	if c.Alerts.DefaultLimit <= 0 || c.Alerts.MaxLimit < c.Alerts.DefaultLimit {
		return fmt.Errorf("alerts limits: need 0 < default_limit (%d) <= max_limit (%d)",
			c.Alerts.DefaultLimit, c.Alerts.MaxLimit)
	}
	if _, err := c.Classifier(); err != nil {
		return fmt.Errorf("alerts.severity_rules: %w", err)
	}
	if c.Ingest.RatePerSecond <= 0 || c.Ingest.Burst <= 0 {
		return errors.New("ingest.rate_per_second and ingest.burst must be positive")
	}
	if c.Simulator.Enabled && c.Simulator.Tick <= 0 {
		return errors.New("simulator.tick must be positive")
	}
	return nil
}

// Classifier builds the range classifier described by the alerts section.
// An empty severity_rules map keeps the built-in bands.
func (c *Config) Classifier() (*alerts.Classifier, error) {
	rules := alerts.DefaultSeverityRules()
	for metric, r := range c.Alerts.SeverityRules {
		rules[metric] = r
	}
	return alerts.NewClassifier(rules, c.Alerts.Signal)
}

// canonicalMetricKeys restores metric name casing; viper lowercases map keys.
func canonicalMetricKeys(in map[string]alerts.SeverityRule) map[string]alerts.SeverityRule {
	if len(in) == 0 {
		return in
	}
	out := make(map[string]alerts.SeverityRule, len(in))
	for k, r := range in {
		name := k
		for _, m := range alerts.MonitoredMetrics {
			if strings.EqualFold(k, m) {
				name = m
				break
			}
		}
		out[name] = r
	}
	return out
}
