package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "UTC"
	configPathEnv   = "DOCKETWATCH_CONFIG"
	logLevelEnv     = "DOCKETWATCH_LOG_LEVEL"
	baseURLEnv      = "DOCKETWATCH_BASE_URL"
	timeoutEnv      = "DOCKETWATCH_TIMEOUT"
	seenBackendEnv  = "DOCKETWATCH_SEEN_BACKEND"
	seenPathEnv     = "DOCKETWATCH_SEEN_PATH"
	textfileEnv     = "DOCKETWATCH_METRICS_TEXTFILE"
	databaseDSNEnv  = "DATABASE_DSN"
	s3BucketEnv     = "AWS_S3_BUCKET"
	s3RegionEnv     = "AWS_REGION"
	s3EndpointEnv   = "AWS_S3_ENDPOINT"
	awsAccessKeyEnv = "AWS_ACCESS_KEY_ID"
	awsSecretEnv    = "AWS_SECRET_ACCESS_KEY"

	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
)

// Seen-set backends.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendS3       = "s3"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Source        SourceConfig       `yaml:"source"`
	SeenSet       SeenSetConfig      `yaml:"seenSet"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Notifications NotificationConfig `yaml:"notifications"`
	Metrics       MetricsConfig      `yaml:"metrics"`
}

// LoggingConfig selects the slog level and handler ("text" or "json").
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// SourceConfig points the fetcher at the court website.
type SourceConfig struct {
	BaseURL   string        `yaml:"baseUrl"`
	UserAgent string        `yaml:"userAgent"`
	Timeout   time.Duration `yaml:"timeout"`
}

// SeenSetConfig chooses where the seen set lives.
type SeenSetConfig struct {
	Backend  string         `yaml:"backend"`
	Path     string         `yaml:"path"`
	Postgres PostgresConfig `yaml:"postgres"`
	S3       S3Config       `yaml:"s3"`
}

// PostgresConfig describes Postgres connection details.
type PostgresConfig struct {
	DSN   string `yaml:"dsn"`
	Table string `yaml:"table"`
}

// S3Config describes the bucket object holding the seen set.
type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Key       string `yaml:"key"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
}

// SchedulerConfig defines how often watch mode polls.
type SchedulerConfig struct {
	Interval   time.Duration  `yaml:"interval"`
	Timezone   string         `yaml:"timezone"`
	Categories []string       `yaml:"categories"`
	location   *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// NotificationConfig encapsulates outbound channels.
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// Enabled reports whether both credentials are present.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

// MetricsConfig controls the Prometheus textfile export.
type MetricsConfig struct {
	TextfilePath string `yaml:"textfilePath"`
}

// Load reads .env and YAML configuration (if present) and applies
// environment overrides.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("config: cannot read .env: %v", err)
	}

	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(baseURLEnv); v != "" {
		c.Source.BaseURL = v
	}
	if v := os.Getenv(timeoutEnv); v != "" {
		if d, err := time.ParseDuration(v); err != nil {
			log.Printf("config: invalid %s=%q: %v", timeoutEnv, v, err)
		} else {
			c.Source.Timeout = d
		}
	}

	if v := os.Getenv(seenBackendEnv); v != "" {
		c.SeenSet.Backend = v
	}
	if v := os.Getenv(seenPathEnv); v != "" {
		c.SeenSet.Path = v
	}
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.SeenSet.Postgres.DSN = v
	}
	if v := os.Getenv(s3BucketEnv); v != "" {
		c.SeenSet.S3.Bucket = v
	}
	if v := os.Getenv(s3RegionEnv); v != "" {
		c.SeenSet.S3.Region = v
	}
	if v := os.Getenv(s3EndpointEnv); v != "" {
		c.SeenSet.S3.Endpoint = v
	}
	if v := os.Getenv(awsAccessKeyEnv); v != "" {
		c.SeenSet.S3.AccessKey = v
	}
	if v := os.Getenv(awsSecretEnv); v != "" {
		c.SeenSet.S3.SecretKey = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}
	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}

	if v := os.Getenv(textfileEnv); v != "" {
		c.Metrics.TextfilePath = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.Source.BaseURL != "" {
		base.Source.BaseURL = override.Source.BaseURL
	}
	if override.Source.UserAgent != "" {
		base.Source.UserAgent = override.Source.UserAgent
	}
	if override.Source.Timeout > 0 {
		base.Source.Timeout = override.Source.Timeout
	}

	if override.SeenSet.Backend != "" {
		base.SeenSet.Backend = override.SeenSet.Backend
	}
	if override.SeenSet.Path != "" {
		base.SeenSet.Path = override.SeenSet.Path
	}
	if override.SeenSet.Postgres.DSN != "" {
		base.SeenSet.Postgres.DSN = override.SeenSet.Postgres.DSN
	}
	if override.SeenSet.Postgres.Table != "" {
		base.SeenSet.Postgres.Table = override.SeenSet.Postgres.Table
	}
	if override.SeenSet.S3 != (S3Config{}) {
		s3 := override.SeenSet.S3
		if s3.Key == "" {
			s3.Key = base.SeenSet.S3.Key
		}
		if s3.Region == "" {
			s3.Region = base.SeenSet.S3.Region
		}
		base.SeenSet.S3 = s3
	}

	if override.Scheduler.Interval > 0 {
		base.Scheduler.Interval = override.Scheduler.Interval
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}
	if len(override.Scheduler.Categories) > 0 {
		base.Scheduler.Categories = override.Scheduler.Categories
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if override.Metrics.TextfilePath != "" {
		base.Metrics.TextfilePath = override.Metrics.TextfilePath
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Source: SourceConfig{
			BaseURL:   "https://www.supremecourt.gov",
			UserAgent: "DocketWatch/1.0",
			Timeout:   20 * time.Second,
		},
		SeenSet: SeenSetConfig{
			Backend:  BackendFile,
			Path:     "var/seen.jsonl",
			Postgres: PostgresConfig{Table: "seen_entries"},
			S3:       S3Config{Key: "docketwatch/seen.jsonl", Region: "us-east-1"},
		},
		Scheduler: SchedulerConfig{
			Interval:   30 * time.Minute,
			Timezone:   defaultTimezone,
			Categories: []string{"orders", "slip", "relating"},
			location:   tz,
		},
	}
}
