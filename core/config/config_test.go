package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte("telegram:\n  token: abc\n"))
	require.NoError(t, err)

	assert.Equal(t, RunModeLongpoll, cfg.Telegram.RunMode)
	assert.Equal(t, DefaultSenderQueueSize, cfg.Sender.QueueSize)
	assert.Equal(t, DefaultSenderWorkers, cfg.Sender.Workers)
	assert.Equal(t, DefaultSenderMaxRetries, cfg.Sender.MaxRetries)
	assert.Equal(t, DefaultSessionIdleTTL, cfg.Calc.SessionIdleTTL)
	assert.Equal(t, DefaultJanitorInterval, cfg.Calc.JanitorInterval)
	assert.Equal(t, DefaultMaxExpressionLength, cfg.Calc.MaxExpressionLength)
	assert.Equal(t, DefaultHistorySize, cfg.Calc.HistorySize)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, DefaultMigrationsDir, cfg.Database.MigrationsDir)
	assert.Same(t, cfg, cfg.CoreConfig())
}

func TestParseFullFile(t *testing.T) {
	raw := `
telegram:
  token: abc
  admin_id: 42
  run_mode: Polling
rate_limit:
  interval_ms: 500
  exclude_updates: [" Callback ", ""]
calc:
  session_idle_ttl: 10m
  janitor_interval: 30s
  max_expression_length: 64
database:
  enabled: true
  host: localhost
  name: calc
  user: calc
`
	cfg, err := Parse([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, int64(42), cfg.Telegram.AdminID)
	assert.Equal(t, RunModeLongpoll, cfg.Telegram.RunMode)
	assert.Equal(t, []string{UpdateCallback}, cfg.RateLimit.ExcludeUpdates)
	assert.Equal(t, 10*time.Minute, cfg.Calc.SessionIdleTTL)
	assert.Equal(t, 30*time.Second, cfg.Calc.JanitorInterval)
	assert.Equal(t, 64, cfg.Calc.MaxExpressionLength)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 5, cfg.Database.MaxConnections)
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("BOT_TOKEN", "from-env")
	t.Setenv("CALC_MAX_EXPRESSION_LENGTH", "99")

	cfg, err := Parse([]byte("telegram:\n  token: from-file\n"))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Telegram.Token)
	assert.Equal(t, 99, cfg.Calc.MaxExpressionLength)
}

func TestNormalizeErrors(t *testing.T) {
	cases := map[string]Config{
		"missing token": {},
		"bad run mode":  {Telegram: TelegramConfig{Token: "x", RunMode: "carrier-pigeon"}},
		"webhook without url": {
			Telegram: TelegramConfig{Token: "x", RunMode: RunModeWebhook},
		},
		"webhook without port": {
			Telegram: TelegramConfig{Token: "x", RunMode: RunModeWebhook},
			Webhook:  WebhookConfig{URL: "https://example.org/hook", Listen: "0.0.0.0"},
		},
		"negative poll timeout": {Telegram: TelegramConfig{Token: "x", LongPollTimeoutSeconds: -1}},
		"bad exclude": {
			Telegram:  TelegramConfig{Token: "x"},
			RateLimit: RateLimitConfig{ExcludeUpdates: []string{"inline_query"}},
		},
		"negative workers": {
			Telegram: TelegramConfig{Token: "x"},
			Sender:   SenderConfig{Workers: -1},
		},
		"negative ttl": {
			Telegram: TelegramConfig{Token: "x"},
			Calc:     CalcConfig{SessionIdleTTL: -time.Second},
		},
		"database without host": {
			Telegram: TelegramConfig{Token: "x"},
			Database: DatabaseConfig{Enabled: true, Name: "calc", User: "calc"},
		},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, Normalize(&cfg))
		})
	}
	assert.Error(t, Normalize(nil))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("telegram:\n  token: abc\n  run_mode: longpoll\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, RunModeLongpoll, cfg.Telegram.RunMode)
}
