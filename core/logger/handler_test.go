package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T, format logFormat, component string) (*slog.Logger, func() string) {
	t.Helper()
	buf := &bytes.Buffer{}
	aw := newAsyncWriter([]io.Writer{buf}, 1024)
	h := newStructuredHandler(handlerConfig{
		level:  slog.LevelDebug,
		writer: aw,
		format: format,
	})
	read := func() string {
		require.NoError(t, aw.Close())
		return strings.TrimSpace(buf.String())
	}
	return slog.New(h).With("component", component), read
}

func TestKVLineKeyOrder(t *testing.T) {
	log, read := newTestLogger(t, formatKV, "calc.dialogue")
	ctx := WithRID(context.Background(), "rid-123")
	ctx = WithUpdateMeta(ctx, 42, 7, 9)

	LogEvent(ctx, log, slog.LevelInfo, "dialogue.transition",
		slog.String("status", "OK"),
		slog.String("to", "awaiting_input"),
		slog.String("from", "idle"),
		slog.String("kind", "menu_selection"),
	)

	tokens := strings.Split(read(), " ")
	want := []string{
		"ts=", "level=INFO", "component=calc.dialogue", "event=dialogue.transition",
		"status=ok", "rid=rid-123", "update_id=42", "user_id=7", "chat_id=9",
		"kind=menu_selection", "from=idle", "to=awaiting_input",
	}
	require.GreaterOrEqual(t, len(tokens), len(want))
	for i, prefix := range want {
		assert.True(t, strings.HasPrefix(tokens[i], prefix), "token %d = %s, want prefix %s", i, tokens[i], prefix)
	}
}

func TestJSONLine(t *testing.T) {
	log, read := newTestLogger(t, formatJSON, "calc.history")
	ctx := WithRID(context.Background(), "12:34:56")

	LogEvent(ctx, log, slog.LevelError, "history.append",
		slog.String("status", "fail"),
		slog.Any("err", errors.New("boom")),
		slog.Duration("duration", 1500*time.Microsecond),
		slog.String("outcome", "bogus"),
		slog.String("empty", ""),
	)

	line := read()
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &got))
	assert.Equal(t, "ERROR", got["level"])
	assert.Equal(t, "calc.history", got["component"])
	assert.Equal(t, "history.append", got["event"])
	assert.Equal(t, "boom", got["err"])
	assert.Equal(t, float64(2), got["duration_ms"])
	assert.Equal(t, CompactRID("12:34:56"), got["rid"])
	assert.Equal(t, "12:34:56", got["rid_full"])
	assert.Contains(t, got, "ts_unix_nano")
	assert.NotContains(t, got, "outcome")
	assert.NotContains(t, got, "empty")

	prefixes := []string{`{"ts":`, `"level":"ERROR"`, `"component":"calc.history"`, `"event":"history.append"`, `"status":"fail"`, `"rid":`}
	pos := -1
	for _, p := range prefixes {
		idx := strings.Index(line, p)
		require.Greater(t, idx, pos, "%s out of order in %s", p, line)
		pos = idx
	}
}

func TestKVOmitsFullRID(t *testing.T) {
	log, read := newTestLogger(t, formatKV, "app")
	LogEvent(WithRID(context.Background(), "123:456:789"), log, slog.LevelInfo, "rid.test")

	line := read()
	assert.Contains(t, line, "rid="+CompactRID("123:456:789"))
	assert.NotContains(t, line, "rid_full=")
}

func TestKVQuotesValues(t *testing.T) {
	log, read := newTestLogger(t, formatKV, "app")
	LogEvent(context.Background(), log, slog.LevelInfo, "quote.test", slog.String("payload", "10 5"))
	assert.Contains(t, read(), `payload="10 5"`)
}

func TestLevelFiltering(t *testing.T) {
	buf := &bytes.Buffer{}
	aw := newAsyncWriter([]io.Writer{buf}, 1024)
	log := slog.New(newStructuredHandler(handlerConfig{level: slog.LevelWarn, writer: aw, format: formatKV}))

	LogEvent(context.Background(), log, slog.LevelInfo, "dropped")
	LogEvent(context.Background(), log, slog.LevelWarn, "kept")
	require.NoError(t, aw.Close())

	out := buf.String()
	assert.NotContains(t, out, "event=dropped")
	assert.Contains(t, out, "event=kept")
	assert.Contains(t, out, "component=app")
}

func TestWriterRejectsAfterClose(t *testing.T) {
	aw := newAsyncWriter([]io.Writer{io.Discard}, 0)
	require.NoError(t, aw.Close())
	assert.ErrorIs(t, aw.Write([]byte("late\n")), errWriterClosed)
	assert.NoError(t, aw.Flush())
}

func TestCompactRID(t *testing.T) {
	assert.Equal(t, "3f.co.lx", CompactRID("123:456:789"))
	assert.Equal(t, "a:b:c", CompactRID("a:b:c"))
	assert.Equal(t, "plain", CompactRID("plain"))
	assert.Equal(t, "1:2:3", BuildRID(1, 2, 3))
}

func TestSanitizeLimit(t *testing.T) {
	assert.Equal(t, "ab\tc", Sanitize("a\x00b\tc\u200b"))
	assert.Equal(t, "привет", SanitizeLimit("привет мир", 6))
	assert.Empty(t, SanitizeLimit("x", 0))
}

func TestRatioSampler(t *testing.T) {
	s := newRatioSampler(1, 3)
	var allowed int
	for i := 0; i < 9; i++ {
		if s.Allow() {
			allowed++
		}
	}
	assert.Equal(t, 3, allowed)

	s.Set(0, 0)
	assert.True(t, s.Allow())

	for spec, want := range map[string][2]int{
		"1/10": {1, 10},
		"5":    {1, 5},
		"0":    {0, 0},
		"x/y":  {0, 0},
		"":     {0, 0},
	} {
		n, d := parseRatioSpec(spec)
		assert.Equal(t, want, [2]int{n, d}, spec)
	}
}
