package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// TelegramConfig holds Telegram bot related settings that are common for all bots.
type TelegramConfig struct {
	Token   string `yaml:"token" envconfig:"BOT_TOKEN"`
	AdminID int64  `yaml:"admin_id" envconfig:"TELEGRAM_ADMIN_ID"`
	RunMode string `yaml:"run_mode" envconfig:"TELEGRAM_RUN_MODE"`
	// LongPollTimeoutSeconds defines long polling timeout; 0 -> default
	LongPollTimeoutSeconds int `yaml:"longpoll_timeout_seconds" envconfig:"TELEGRAM_LONGPOLL_TIMEOUT_SECONDS"`
}

// WebhookConfig specifies webhook settings.
type WebhookConfig struct {
	URL    string `yaml:"url" envconfig:"WEBHOOK_URL"`
	Listen string `yaml:"listen" envconfig:"WEBHOOK_LISTEN"`
	Port   int    `yaml:"port" envconfig:"WEBHOOK_PORT"`
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LOG_LEVEL"`
	Format      string `yaml:"format" envconfig:"LOG_FORMAT"`
	KeysOrder   string `yaml:"keys_order"`
	DebugSample string `yaml:"debug_sample"`
	Dir         string `yaml:"dir" envconfig:"LOG_DIR"`
	BotFile     string `yaml:"bot_file"`
	// MaxSizeMB, MaxBackups and MaxAgeDays control rotation of BotFile.
	MaxSizeMB  int `yaml:"max_size_mb"`
	MaxBackups int `yaml:"max_backups"`
	MaxAgeDays int `yaml:"max_age_days"`
	// Profile indicates environment profile such as "debug" or "prod".
	Profile string `yaml:"profile" envconfig:"LOG_PROFILE"`
}

const (
	// RunModeWebhook selects webhook mode for Telegram updates.
	RunModeWebhook = "webhook"
	// RunModeLongpoll selects long-polling mode for Telegram updates.
	RunModeLongpoll = "longpoll"
)

const (
	// UpdateCallback identifies callback updates for rate limit exclusions.
	UpdateCallback = "callback"
	// UpdateMessage identifies message updates for rate limit exclusions.
	UpdateMessage = "message"
	// UpdateInlineQuery identifies inline query updates for rate limit exclusions.
	UpdateInlineQuery = "inline_query"
)

// RateLimitConfig holds settings for the per-user rate limiter. ExcludeUpdates
// lists update kinds (UpdateCallback, UpdateMessage, UpdateInlineQuery) that
// bypass it.
type RateLimitConfig struct {
	IntervalMS     int      `yaml:"interval_ms" envconfig:"RATE_LIMIT_INTERVAL_MS"`
	ExcludeUpdates []string `yaml:"exclude_updates" envconfig:"RATE_LIMIT_EXCLUDE_UPDATES"`
}

// SenderConfig tunes the outbound message dispatcher.
type SenderConfig struct {
	QueueSize int `yaml:"queue_size" envconfig:"SENDER_QUEUE_SIZE"`
	// Workers above one may reorder messages of the same chat.
	Workers        int `yaml:"workers" envconfig:"SENDER_WORKERS"`
	MaxRetries     int `yaml:"max_retries" envconfig:"SENDER_MAX_RETRIES"`
	RetryBackoffMS int `yaml:"retry_backoff_ms" envconfig:"SENDER_RETRY_BACKOFF_MS"`
}

// OpsConfig configures the operational HTTP endpoint. An empty Listen disables it.
type OpsConfig struct {
	Listen string `yaml:"listen" envconfig:"OPS_LISTEN"`
}

// Config aggregates the configuration that belongs to the reusable core.
type Config struct {
	Telegram  TelegramConfig  `yaml:"telegram"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	Logging   LoggingConfig   `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Sender    SenderConfig    `yaml:"sender"`
	Ops       OpsConfig       `yaml:"ops"`
}

// Load reads configuration from a YAML file and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := Decode(path, &cfg); err != nil {
		return nil, err
	}
	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Decode fills out from the YAML file at path and then from the environment.
// A .env file next to the config is loaded first; variables already set win.
func Decode(path string, out any) error {
	envFile := filepath.Join(filepath.Dir(path), ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", out); err != nil {
		return fmt.Errorf("failed to process env: %w", err)
	}
	return nil
}

// Normalize validates cfg, fills defaults and reports every problem found.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return errors.New("nil config")
	}
	err := errors.Join(
		cfg.Telegram.normalize(cfg.Webhook),
		cfg.RateLimit.normalize(),
		cfg.Sender.normalize(),
	)
	if cfg.Logging.MaxSizeMB <= 0 {
		cfg.Logging.MaxSizeMB = 10
	}
	return err
}

func (t *TelegramConfig) normalize(wh WebhookConfig) error {
	var errs []error
	if t.Token == "" {
		errs = append(errs, errors.New("telegram token is required"))
	}
	mode := strings.ToLower(strings.TrimSpace(t.RunMode))
	switch mode {
	case "", "polling":
		mode = RunModeLongpoll
	}
	switch mode {
	case RunModeWebhook:
		if strings.TrimSpace(wh.URL) == "" {
			errs = append(errs, errors.New("webhook.url is required in webhook mode"))
		}
		if strings.TrimSpace(wh.Listen) == "" {
			errs = append(errs, errors.New("webhook.listen is required in webhook mode"))
		}
		if wh.Port <= 0 {
			errs = append(errs, errors.New("webhook.port must be > 0 in webhook mode"))
		}
	case RunModeLongpoll:
		if t.LongPollTimeoutSeconds < 0 {
			errs = append(errs, errors.New("telegram.longpoll_timeout_seconds must be >= 0"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid telegram.run_mode %q; allowed: webhook, longpoll", t.RunMode))
	}
	t.RunMode = mode
	return errors.Join(errs...)
}

func (r *RateLimitConfig) normalize() error {
	var errs []error
	for i, v := range r.ExcludeUpdates {
		key := strings.ToLower(strings.TrimSpace(v))
		switch key {
		case "", UpdateCallback, UpdateMessage, UpdateInlineQuery:
			r.ExcludeUpdates[i] = key
		default:
			errs = append(errs, fmt.Errorf("invalid rate_limit.exclude_updates value %q", v))
		}
	}
	return errors.Join(errs...)
}

func (s *SenderConfig) normalize() error {
	s.QueueSize = positiveOr(s.QueueSize, 256)
	s.Workers = positiveOr(s.Workers, 1)
	s.RetryBackoffMS = positiveOr(s.RetryBackoffMS, 500)
	if s.MaxRetries < 0 {
		return errors.New("sender.max_retries must be >= 0")
	}
	return nil
}

func positiveOr(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
