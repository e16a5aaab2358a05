package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// TelegramConfig holds bot credentials and update delivery settings.
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
	Dir         string `yaml:"dir"`
	BotFile     string `yaml:"bot_file"`
	// Profile indicates environment profile such as "debug" or "prod".
	Profile string `yaml:"profile" envconfig:"LOG_PROFILE"`
}

// SenderConfig tunes the outbound message dispatcher.
type SenderConfig struct {
	QueueSize  int `yaml:"queue_size" envconfig:"SENDER_QUEUE_SIZE"`
	Workers    int `yaml:"workers" envconfig:"SENDER_WORKERS"`
	MaxRetries int `yaml:"max_retries" envconfig:"SENDER_MAX_RETRIES"`
}

// CalcConfig holds calculator dialogue settings.
type CalcConfig struct {
	// SessionIdleTTL evicts sessions untouched for this long.
	SessionIdleTTL  time.Duration `yaml:"session_idle_ttl" envconfig:"CALC_SESSION_IDLE_TTL"`
	JanitorInterval time.Duration `yaml:"janitor_interval" envconfig:"CALC_JANITOR_INTERVAL"`
	// MaxExpressionLength caps TextInput length before evaluation.
	MaxExpressionLength int `yaml:"max_expression_length" envconfig:"CALC_MAX_EXPRESSION_LENGTH"`
	HistorySize         int `yaml:"history_size" envconfig:"CALC_HISTORY_SIZE"`
}

// DatabaseConfig holds PostgreSQL settings for calculation history.
type DatabaseConfig struct {
	Enabled        bool   `yaml:"enabled" envconfig:"DB_ENABLED"`
	Host           string `yaml:"host" envconfig:"DB_HOST"`
	Port           string `yaml:"port" envconfig:"DB_PORT"`
	User           string `yaml:"user" envconfig:"DB_USER"`
	Password       string `yaml:"password" envconfig:"DB_PASSWORD"`
	Name           string `yaml:"name" envconfig:"DB_NAME"`
	SSLMode        string `yaml:"sslmode" envconfig:"DB_SSLMODE"`
	MaxConnections int    `yaml:"max_connections" envconfig:"DB_MAX_CONNECTIONS"`
	MigrationsDir  string `yaml:"migrations_dir" envconfig:"DB_MIGRATIONS_DIR"`
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
)

// RateLimitConfig holds settings for rate limiting.
// ExcludeUpdates lists update kinds that bypass the limiter: "callback" or "message".
type RateLimitConfig struct {
	IntervalMS     int      `yaml:"interval_ms" envconfig:"RATE_LIMIT_INTERVAL_MS"`
	ExcludeUpdates []string `yaml:"exclude_updates" envconfig:"RATE_LIMIT_EXCLUDE_UPDATES"`
}

// Config is the complete calcbot configuration.
type Config struct {
	Telegram  TelegramConfig  `yaml:"telegram"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	Logging   LoggingConfig   `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Sender    SenderConfig    `yaml:"sender"`
	Calc      CalcConfig      `yaml:"calc"`
	Database  DatabaseConfig  `yaml:"database"`
}

// Defaults applied by Normalize when a value is unset.
const (
	DefaultSenderQueueSize     = 1024
	DefaultSenderWorkers       = 4
	DefaultSenderMaxRetries    = 3
	DefaultSessionIdleTTL      = 30 * time.Minute
	DefaultJanitorInterval     = time.Minute
	DefaultMaxExpressionLength = 256
	DefaultHistorySize         = 10
	DefaultMigrationsDir       = "migrations"
)

// CoreConfig lets *Config satisfy the runner's ConfigCarrier.
func (c *Config) CoreConfig() *Config { return c }

// Load reads configuration from a YAML file and environment variables.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML, applies the environment overlay and normalizes the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}
	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates required fields and fills defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required")
	}

	rm := strings.ToLower(strings.TrimSpace(cfg.Telegram.RunMode))
	switch rm {
	case "", "polling":
		rm = RunModeLongpoll
	}
	switch rm {
	case RunModeWebhook:
		if strings.TrimSpace(cfg.Webhook.URL) == "" {
			return fmt.Errorf("webhook.url is required when telegram.run_mode is 'webhook'")
		}
		if strings.TrimSpace(cfg.Webhook.Listen) == "" {
			return fmt.Errorf("webhook.listen is required when telegram.run_mode is 'webhook'")
		}
		if cfg.Webhook.Port <= 0 {
			return fmt.Errorf("webhook.port must be > 0 when telegram.run_mode is 'webhook'")
		}
	case RunModeLongpoll:
		if cfg.Telegram.LongPollTimeoutSeconds < 0 {
			return fmt.Errorf("telegram.longpoll_timeout_seconds must be >= 0")
		}
	default:
		return fmt.Errorf("invalid telegram.run_mode %q; allowed: webhook, longpoll", cfg.Telegram.RunMode)
	}
	cfg.Telegram.RunMode = rm

	excludes := cfg.RateLimit.ExcludeUpdates[:0]
	for _, v := range cfg.RateLimit.ExcludeUpdates {
		key := strings.ToLower(strings.TrimSpace(v))
		switch key {
		case "":
			continue
		case UpdateCallback, UpdateMessage:
			excludes = append(excludes, key)
		default:
			return fmt.Errorf("invalid rate_limit.exclude_updates value %q; allowed: callback, message", v)
		}
	}
	cfg.RateLimit.ExcludeUpdates = excludes
	if cfg.RateLimit.IntervalMS < 0 {
		return fmt.Errorf("rate_limit.interval_ms must be >= 0")
	}

	if err := normalizeSender(&cfg.Sender); err != nil {
		return err
	}
	if err := normalizeCalc(&cfg.Calc); err != nil {
		return err
	}
	return normalizeDatabase(&cfg.Database)
}

func normalizeSender(s *SenderConfig) error {
	if s.QueueSize < 0 || s.Workers < 0 || s.MaxRetries < 0 {
		return fmt.Errorf("sender settings must be >= 0")
	}
	if s.QueueSize == 0 {
		s.QueueSize = DefaultSenderQueueSize
	}
	if s.Workers == 0 {
		s.Workers = DefaultSenderWorkers
	}
	if s.MaxRetries == 0 {
		s.MaxRetries = DefaultSenderMaxRetries
	}
	return nil
}

func normalizeCalc(c *CalcConfig) error {
	if c.SessionIdleTTL < 0 {
		return fmt.Errorf("calc.session_idle_ttl must be >= 0")
	}
	if c.SessionIdleTTL == 0 {
		c.SessionIdleTTL = DefaultSessionIdleTTL
	}
	if c.JanitorInterval <= 0 {
		c.JanitorInterval = DefaultJanitorInterval
	}
	if c.MaxExpressionLength <= 0 {
		c.MaxExpressionLength = DefaultMaxExpressionLength
	}
	if c.HistorySize <= 0 {
		c.HistorySize = DefaultHistorySize
	}
	return nil
}

func normalizeDatabase(d *DatabaseConfig) error {
	if strings.TrimSpace(d.MigrationsDir) == "" {
		d.MigrationsDir = DefaultMigrationsDir
	}
	if !d.Enabled {
		return nil
	}
	if d.Host == "" || d.Name == "" || d.User == "" {
		return fmt.Errorf("database.host, database.name and database.user are required when database.enabled is true")
	}
	if d.Port == "" {
		d.Port = "5432"
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.MaxConnections <= 0 {
		d.MaxConnections = 5
	}
	return nil
}
