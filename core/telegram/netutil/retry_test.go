package netutil

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	tele "gopkg.in/telebot.v4"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestShouldRetry(t *testing.T) {
	dial := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	read := &net.OpError{Op: "read", Net: "tcp", Err: errors.New("connection reset")}

	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("bad request"), false},
		{"canceled", fmt.Errorf("send: %w", context.Canceled), false},
		{"timeout", timeoutErr{}, true},
		{"deadline", context.DeadlineExceeded, true},
		{"dial", dial, true},
		{"read reset", read, false},
		{"url wrapping dial", &url.Error{Op: "Post", URL: "https://api.telegram.org", Err: dial}, true},
		{"temporary dns", &net.DNSError{Err: "server misbehaving", IsTemporary: true}, true},
		{"missing host", &net.DNSError{Err: "no such host", IsNotFound: true}, false},
		{"flood", tele.FloodError{RetryAfter: 1}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ShouldRetry(tc.err))
		})
	}
}
