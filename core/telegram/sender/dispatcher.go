// Package sender delivers outbound Telegram calls from a bounded worker pool.
package sender

import (
	"context"
	"crypto/tls"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"regexp"
	"sync"
	"sync/atomic"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/calcbot/core/logger"
	"github.com/m3rciful/calcbot/core/telegram/netutil"
)

const component = "tg.sender"

var (
	// ErrQueueClosed is returned when enqueue is attempted after Close.
	ErrQueueClosed = errors.New("telegram sender: queue closed")
	// ErrQueueFull indicates the queue is saturated and the job was not accepted.
	ErrQueueFull = errors.New("telegram sender: queue full")

	tokenRe = regexp.MustCompile(`bot[0-9]+:[A-Za-z0-9_-]+`)
)

// Options controls the behaviour of the outbound dispatcher.
type Options struct {
	QueueSize    int
	Workers      int
	MaxRetries   int
	RetryBackoff time.Duration
	// MaxDuration bounds the time spent retrying a single job.
	MaxDuration time.Duration
}

// Stats is a snapshot of dispatcher counters.
type Stats struct {
	Sent    uint64
	Failed  uint64
	Retried uint64
	Queued  int
}

type job struct {
	ctx    context.Context
	action string
	run    func() error
}

// Dispatcher executes outbound Telegram calls asynchronously with retries.
type Dispatcher struct {
	opts Options
	jobs chan job

	// mu guards closed against concurrent Enqueue and Close.
	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup

	sent    atomic.Uint64
	failed  atomic.Uint64
	retried atomic.Uint64

	sleep func(ctx context.Context, d time.Duration) error
}

// NewDispatcher starts the worker pool; zero options get defaults.
func NewDispatcher(opts Options) *Dispatcher {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 256
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	opts.MaxRetries = max(opts.MaxRetries, 0)
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = 2 * time.Second
	}
	if opts.MaxDuration <= 0 {
		opts.MaxDuration = 12 * time.Second
	}

	d := &Dispatcher{
		opts:  opts,
		jobs:  make(chan job, opts.QueueSize),
		sleep: sleepCtx,
	}
	d.wg.Add(opts.Workers)
	for i := 0; i < opts.Workers; i++ {
		go d.worker()
	}
	logger.Debug(context.Background(), component, "sender.start",
		slog.Int("queue", opts.QueueSize),
		slog.Int("workers", opts.Workers),
	)
	return d
}

// Enqueue schedules run; it is retried on transient failures so it must be idempotent.
func (d *Dispatcher) Enqueue(ctx context.Context, action string, run func() error) error {
	if run == nil {
		return errors.New("telegram sender: nil run function")
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrQueueClosed
	}
	select {
	case d.jobs <- job{ctx: ctx, action: action, run: run}:
		return nil
	default:
		return ErrQueueFull
	}
}

// ErrorCount returns the number of jobs that ultimately failed.
func (d *Dispatcher) ErrorCount() uint64 {
	return d.failed.Load()
}

// Stats returns the current counters.
func (d *Dispatcher) Stats() Stats {
	return Stats{
		Sent:    d.sent.Load(),
		Failed:  d.failed.Load(),
		Retried: d.retried.Load(),
		Queued:  len(d.jobs),
	}
}

// Close stops accepting jobs and waits for queued ones to finish.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.jobs)
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for j := range d.jobs {
		d.handle(j)
	}
}

func (d *Dispatcher) handle(j job) {
	ctx := j.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	// the job outlives the update handler, so only keep the values of ctx
	runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.opts.MaxDuration)
	defer cancel()

	start := time.Now()
	attempts := d.opts.MaxRetries + 1
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = j.run(); err == nil {
			d.sent.Add(1)
			logger.Debug(ctx, component, "send.success",
				slog.String("status", "ok"),
				slog.String("action", j.action),
				slog.Int("attempts", attempt),
				slog.Duration("duration", logger.Took(start)),
			)
			return
		}
		if !netutil.ShouldRetry(err) || attempt == attempts {
			break
		}
		delay := d.backoff(err, attempt)
		logger.Debug(ctx, component, "send.retry",
			slog.String("status", "retry"),
			slog.String("action", j.action),
			slog.Int("attempts", attempt),
			slog.Duration("backoff", delay),
			slog.String("cause", classifyError(err)),
		)
		d.retried.Add(1)
		if serr := d.sleep(runCtx, delay); serr != nil {
			err = errors.Join(err, serr)
			break
		}
	}

	d.failed.Add(1)
	logger.Error(ctx, component, "send.fail",
		slog.String("status", "fail"),
		slog.String("action", j.action),
		slog.String("err", sanitizeErrorMessage(err)),
		slog.String("cause", classifyError(err)),
		slog.Bool("retryable", netutil.ShouldRetry(err)),
		slog.Duration("duration", logger.Took(start)),
	)
}

// backoff grows linearly with the attempt, or follows Telegram's retry_after.
func (d *Dispatcher) backoff(err error, attempt int) time.Duration {
	var flood tele.FloodError
	if errors.As(err, &flood) && flood.RetryAfter > 0 {
		return time.Duration(flood.RetryAfter) * time.Second
	}
	return d.opts.RetryBackoff * time.Duration(attempt)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// classifyError buckets err into a short label for the cause attribute.
func classifyError(err error) string {
	var (
		dnsErr   *net.DNSError
		opErr    *net.OpError
		netErr   net.Error
		alertErr tls.AlertError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.As(err, &dnsErr):
		if dnsErr.IsTimeout {
			return "timeout"
		}
		return "dns"
	case errors.As(err, &netErr) && netErr.Timeout():
		return "timeout"
	case errors.As(err, &opErr) && opErr.Op == "dial":
		return "dial"
	case errors.As(err, &alertErr):
		return "tls"
	}
	switch status := httpStatusFromError(err); {
	case status == http.StatusTooManyRequests:
		return "flood"
	case status >= 500:
		return "http_5xx"
	case status >= 400:
		return "http_4xx"
	}
	return "unknown"
}

// sanitizeErrorMessage keeps bot tokens out of the logs.
func sanitizeErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	return logger.SanitizeLimit(tokenRe.ReplaceAllString(err.Error(), "bot<redacted>"), 512)
}

func httpStatusFromError(err error) int {
	var (
		apiErr   *tele.Error
		floodErr tele.FloodError
		groupErr tele.GroupError
	)
	switch {
	case errors.As(err, &floodErr):
		return http.StatusTooManyRequests
	case errors.As(err, &apiErr):
		return apiErr.Code
	case errors.As(err, &groupErr):
		return http.StatusBadRequest
	}
	return 0
}
