package logger

import "strings"

const (
	// LevelDebug is the rendered debug level name.
	LevelDebug = "DEBUG"
	// LevelInfo is the rendered info level name.
	LevelInfo = "INFO"
	// LevelWarn is the rendered warning level name.
	LevelWarn = "WARN"
	// LevelError is the rendered error level name.
	LevelError = "ERROR"
)

var levelNames = map[string]string{
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warn":    LevelWarn,
	"warning": LevelWarn,
	"error":   LevelError,
}

// status describes how a step went; outcome describes what a calculation produced.
var (
	statusValues  = []string{"ok", "fail", "skip", "retry", "rate_limited", "cancelled"}
	outcomeValues = []string{"ok", "fail", "cancelled", "rate_limited"}
)

func normalizeLevel(level string) string {
	if level == "" {
		return LevelInfo
	}
	if mapped, ok := levelNames[strings.ToLower(level)]; ok {
		return mapped
	}
	return strings.ToUpper(level)
}

// normalizeEnum lower-cases v and reports whether it belongs to allowed.
func normalizeEnum(v string, allowed []string) (string, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return "", false
	}
	for _, a := range allowed {
		if a == v {
			return v, true
		}
	}
	return v, false
}

var defaultKeyOrder = []string{
	"ts",
	"level",
	"component",
	"event",
	"status",
	"rid",
	"rid_full",
	"ts_unix_nano",
	"update_id",
	"user_id",
	"chat_id",
	"chat_type",
	"handler",
	"kind",
	"from",
	"to",
	"op",
	"operation",
	"cb_key",
	"outcome",
	"actions",
	"duration_ms",
	"messages",
	"kb",
	"count",
	"payload",
	"username",
	"mode",
	"listen",
	"public_url",
	"http_code",
	"db",
	"host",
	"port",
	"sessions",
	"evicted",
	"err",
	"err_code",
	"cause",
	"retryable",
	"attempts",
	"backoff_ms",
	"queue",
	"workers",
}
