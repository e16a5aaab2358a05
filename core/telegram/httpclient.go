package telegram

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/m3rciful/calcbot/core/logger"
	"github.com/m3rciful/calcbot/core/telegram/netutil"
)

const (
	defaultDialTimeout       = 5 * time.Second
	defaultTLSHandshake      = 5 * time.Second
	defaultIdleConnTimeout   = 30 * time.Second
	defaultKeepAliveInterval = 30 * time.Second
	defaultRetryAttempts     = 3
	defaultRetryBackoff      = 2 * time.Second
	// responseMargin is added on top of the long-poll wait, during which
	// getUpdates legitimately sends no headers.
	responseMargin = 10 * time.Second
)

// BuildHTTPClient returns an HTTP client tuned for Telegram API calls.
// longPoll is the getUpdates wait; response timeouts are sized to outlast it.
func BuildHTTPClient(longPoll time.Duration) *http.Client {
	longPoll = max(longPoll, 0)
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: defaultDialTimeout, KeepAlive: defaultKeepAliveInterval}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       defaultIdleConnTimeout,
		TLSHandshakeTimeout:   defaultTLSHandshake,
		ResponseHeaderTimeout: longPoll + responseMargin,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &http.Client{
		Timeout: longPoll + 2*responseMargin,
		Transport: &retryTransport{
			base:       transport,
			maxRetries: defaultRetryAttempts,
			backoff:    defaultRetryBackoff,
		},
	}
}

// retryTransport replays requests that failed before reaching Telegram.
type retryTransport struct {
	base       http.RoundTripper
	maxRetries int
	backoff    time.Duration
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	attempts := t.maxRetries + 1
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		currReq := req
		if attempt > 1 {
			currReq = req.Clone(req.Context())
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return nil, err
				}
				currReq.Body = body
			} else if req.Body != nil && req.Body != http.NoBody {
				return nil, lastErr
			}
		}

		resp, err := base.RoundTrip(currReq)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !netutil.ShouldRetry(err) || attempt == attempts {
			break
		}

		delay := t.backoff * time.Duration(attempt)
		logger.Debug(req.Context(), "tg", "http.retry",
			slog.String("status", "retry"),
			slog.String("endpoint", endpointName(req)),
			slog.Int("attempts", attempt),
			slog.Duration("backoff", delay),
		)
		if err := waitBackoff(req.Context(), delay); err != nil {
			return nil, err
		}
	}

	return nil, lastErr
}

func waitBackoff(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// endpointName keeps the bot token out of logs: /bot<token>/sendMessage -> sendMessage.
func endpointName(req *http.Request) string {
	if req == nil || req.URL == nil {
		return ""
	}
	p := req.URL.Path
	for i := len(p) - 1; i >= 0; i-- {
		if p[i] == '/' {
			return p[i+1:]
		}
	}
	return p
}
