// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/asoguard/rankguard/pkg/alerting"
	"github.com/asoguard/rankguard/pkg/report"
)

// Config is the top-level application configuration.
type Config struct {
	App           AppConfig           `yaml:"app"`
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	ITunes        ITunesConfig        `yaml:"itunes"`
	Alerts        AlertsConfig        `yaml:"alerts"`
	Schedule      ScheduleConfig      `yaml:"schedule"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Retention     RetentionConfig     `yaml:"retention"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// AppConfig identifies the App Store app whose keywords are tracked.
type AppConfig struct {
	Name           string `yaml:"name"`
	AppID          string `yaml:"app_id"`          // numeric App Store identifier
	BundleID       string `yaml:"bundle_id"`       // fallback matcher when app_id is absent
	DefaultCountry string `yaml:"default_country"` // ISO storefront code for new keywords
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DatabaseConfig defines PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	PoolSize int    `yaml:"pool_size"`
}

// DSN returns a PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode,
	)
}

// ITunesConfig defines iTunes Search API settings.
type ITunesConfig struct {
	SearchURL string          `yaml:"search_url"`
	ScanDepth int             `yaml:"scan_depth"` // results fetched per keyword
	Timeout   time.Duration   `yaml:"timeout"`
	Retries   int             `yaml:"retries"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig defines iTunes API rate limiting settings.
type RateLimitConfig struct {
	PerSecond  float64 `yaml:"per_second"`
	Burst      int     `yaml:"burst"`
	DailyLimit int64   `yaml:"daily_limit"`
}

// AlertsConfig defines the classification rule constants, enrichment
// weights, pattern triggers, and message display limits.
type AlertsConfig struct {
	Thresholds        alerting.Thresholds        `yaml:"thresholds"`
	ImpactWeights     alerting.ImpactWeights     `yaml:"impact_weights"`
	PatternThresholds alerting.PatternThresholds `yaml:"pattern_thresholds"`
	Caps              report.Caps                `yaml:"caps"`
}

// ScheduleConfig defines cron intervals and call pacing.
type ScheduleConfig struct {
	TrackingInterval time.Duration `yaml:"tracking_interval"`
	DigestTime       string        `yaml:"digest_time"` // HH:MM, local time
	LookupStagger    time.Duration `yaml:"lookup_stagger"`
	PruneInterval    time.Duration `yaml:"prune_interval"`
}

// NotificationsConfig defines notification targets.
type NotificationsConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
	Slack    SlackConfig    `yaml:"slack"`
}

// TelegramConfig defines Telegram Bot API settings.
type TelegramConfig struct {
	Enabled  bool   `yaml:"enabled"`
	BotToken string `yaml:"bot_token"`
	ChatID   string `yaml:"chat_id"`
	APIURL   string `yaml:"api_url"` // override for tests
}

// SlackConfig defines Slack incoming-webhook settings.
type SlackConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// RetentionConfig defines how long historical rows are kept.
type RetentionConfig struct {
	ObservationDays int `yaml:"observation_days"`
	AlertDays       int `yaml:"alert_days"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	applyAppDefaults(&cfg.App)
	applyServerDefaults(&cfg.Server)
	applyDatabaseDefaults(&cfg.Database)
	applyITunesDefaults(&cfg.ITunes)
	applyAlertsDefaults(&cfg.Alerts)
	applyScheduleDefaults(&cfg.Schedule)
	applyRetentionDefaults(&cfg.Retention)
	applyLoggingDefaults(&cfg.Logging)
}

func applyAppDefaults(a *AppConfig) {
	if a.DefaultCountry == "" {
		a.DefaultCountry = "US"
	}
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applyDatabaseDefaults(d *DatabaseConfig) {
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.PoolSize == 0 {
		d.PoolSize = 10
	}
}

func applyITunesDefaults(i *ITunesConfig) {
	if i.SearchURL == "" {
		i.SearchURL = "https://itunes.apple.com/search"
	}
	if i.ScanDepth == 0 {
		i.ScanDepth = 250
	}
	if i.Timeout == 0 {
		i.Timeout = 15 * time.Second
	}
	if i.Retries == 0 {
		i.Retries = 2
	}
	applyRateLimitDefaults(&i.RateLimit)
}

func applyRateLimitDefaults(r *RateLimitConfig) {
	if r.PerSecond == 0 {
		r.PerSecond = 1.0
	}
	if r.Burst == 0 {
		r.Burst = 3
	}
	if r.DailyLimit == 0 {
		r.DailyLimit = 2000
	}
}

// applyAlertsDefaults fills any zero threshold field with its default.
// Partial overrides are common, so defaults apply field by field rather
// than block by block.
func applyAlertsDefaults(a *AlertsConfig) {
	dt := alerting.DefaultThresholds()
	fillZeroInt(&a.Thresholds.TopDropRank, dt.TopDropRank)
	fillZeroInt(&a.Thresholds.TopDropDelta, dt.TopDropDelta)
	fillZeroInt(&a.Thresholds.WideDropRank, dt.WideDropRank)
	fillZeroInt(&a.Thresholds.WideDropDelta, dt.WideDropDelta)
	fillZeroInt(&a.Thresholds.BigDropRank, dt.BigDropRank)
	fillZeroInt(&a.Thresholds.BigDropDelta, dt.BigDropDelta)
	fillZeroInt(&a.Thresholds.BigWinDelta, dt.BigWinDelta)
	fillZeroInt(&a.Thresholds.BigWinRank, dt.BigWinRank)
	fillZeroInt(&a.Thresholds.TopEntryRank, dt.TopEntryRank)
	fillZeroInt(&a.Thresholds.GoodRiseDelta, dt.GoodRiseDelta)
	fillZeroInt(&a.Thresholds.GoodRiseRank, dt.GoodRiseRank)
	fillZeroInt(&a.Thresholds.MediumRank, dt.MediumRank)
	fillZeroInt(&a.Thresholds.MediumAbsDelta, dt.MediumAbsDelta)
	fillZeroInt(&a.Thresholds.NoiseRank, dt.NoiseRank)
	fillZeroInt(&a.Thresholds.NoiseAbsDelta, dt.NoiseAbsDelta)
	fillZeroInt(&a.Thresholds.NewEntryRank, dt.NewEntryRank)

	dw := alerting.DefaultImpactWeights()
	fillZeroInt(&a.ImpactWeights.Top, dw.Top)
	fillZeroInt(&a.ImpactWeights.Mid, dw.Mid)
	fillZeroInt(&a.ImpactWeights.Low, dw.Low)

	dp := alerting.DefaultPatternThresholds()
	fillZeroInt(&a.PatternThresholds.CoordinatedDrops, dp.CoordinatedDrops)
	fillZeroInt(&a.PatternThresholds.CategoryDrops, dp.CategoryDrops)
	fillZeroInt(&a.PatternThresholds.MomentumRises, dp.MomentumRises)

	dc := report.DefaultCaps()
	fillZeroInt(&a.Caps.TierLimit, dc.TierLimit)
	fillZeroInt(&a.Caps.DigestLimit, dc.DigestLimit)
	fillZeroInt(&a.Caps.OpportunityLimit, dc.OpportunityLimit)
}

func fillZeroInt(dst *int, def int) {
	if *dst == 0 {
		*dst = def
	}
}

func applyScheduleDefaults(s *ScheduleConfig) {
	if s.TrackingInterval == 0 {
		s.TrackingInterval = 6 * time.Hour
	}
	if s.DigestTime == "" {
		s.DigestTime = "21:00"
	}
	if s.LookupStagger == 0 {
		s.LookupStagger = 2 * time.Second
	}
	if s.PruneInterval == 0 {
		s.PruneInterval = 24 * time.Hour
	}
}

func applyRetentionDefaults(r *RetentionConfig) {
	if r.ObservationDays == 0 {
		r.ObservationDays = 180
	}
	if r.AlertDays == 0 {
		r.AlertDays = 90
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.App.AppID == "" && cfg.App.BundleID == "" {
		errs = append(errs, fmt.Errorf("app.app_id or app.bundle_id is required"))
	}

	if cfg.Database.Host == "" {
		errs = append(errs, fmt.Errorf("database.host is required"))
	}
	if cfg.Database.Name == "" {
		errs = append(errs, fmt.Errorf("database.name is required"))
	}
	if cfg.Database.User == "" {
		errs = append(errs, fmt.Errorf("database.user is required"))
	}

	if cfg.ITunes.ScanDepth < 1 || cfg.ITunes.ScanDepth > 250 {
		errs = append(errs, fmt.Errorf(
			"itunes.scan_depth must be between 1 and 250 (got %d)", cfg.ITunes.ScanDepth,
		))
	}

	if _, err := time.Parse("15:04", cfg.Schedule.DigestTime); err != nil {
		errs = append(errs, fmt.Errorf(
			"schedule.digest_time must be HH:MM (got %q)", cfg.Schedule.DigestTime,
		))
	}

	if cfg.Notifications.Telegram.Enabled {
		if cfg.Notifications.Telegram.BotToken == "" {
			errs = append(errs, fmt.Errorf(
				"notifications.telegram.bot_token is required when telegram is enabled",
			))
		}
		if cfg.Notifications.Telegram.ChatID == "" {
			errs = append(errs, fmt.Errorf(
				"notifications.telegram.chat_id is required when telegram is enabled",
			))
		}
	}
	if cfg.Notifications.Slack.Enabled && cfg.Notifications.Slack.WebhookURL == "" {
		errs = append(errs, fmt.Errorf(
			"notifications.slack.webhook_url is required when slack is enabled",
		))
	}

	return errors.Join(errs...)
}
