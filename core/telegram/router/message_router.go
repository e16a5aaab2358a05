package router

import (
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	tg "github.com/m3rciful/calcbot/core/telegram"
)

// TextOptions controls fallback behaviour for text and media updates.
type TextOptions struct {
	UnknownText  tele.HandlerFunc
	UnknownMedia tele.HandlerFunc
}

// mediaEndpoints are routed to the registry media fallback.
var mediaEndpoints = []string{tele.OnDocument, tele.OnPhoto, tele.OnSticker}

// TextRoutes builds handlers for text and media.
// Text that starts with a slash is matched against commands first; everything
// else goes to the registry text fallback.
func TextRoutes(reg *tg.Registry, opts TextOptions) []tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		text := strings.TrimSpace(c.Text())

		if reg != nil && strings.HasPrefix(text, "/") {
			name, _, _ := strings.Cut(text, " ")
			name, _, _ = strings.Cut(name, "@")
			if key, cmd, ok := reg.LookupCommand(name); ok && cmd.Handler != nil {
				return handleWithSummary(c, normalizeHandlerName(key), start, func() error {
					return cmd.Handler(c)
				})
			}
		}

		if reg != nil {
			if fb := reg.TextFallback(); fb != nil {
				return handleWithSummary(c, "text", start, func() error {
					return fb(c)
				})
			}
		}

		if opts.UnknownText != nil {
			return handleWithSummary(c, "unknown_text", start, func() error {
				return opts.UnknownText(c)
			})
		}

		logHandlerSummary(c, "unknown_text", start, "skip", nil)
		return nil
	}

	mediaHandler := func(c tele.Context) error {
		start := time.Now()
		fb := opts.UnknownMedia
		if reg != nil && reg.MediaFallback() != nil {
			fb = reg.MediaFallback()
		}
		if fb == nil {
			logHandlerSummary(c, "unexpected_media", start, "skip", nil)
			return nil
		}
		return handleWithSummary(c, "unexpected_media", start, func() error {
			return fb(c)
		})
	}

	routes := []tg.Route{{Endpoint: tele.OnText, Handler: handler}}
	for _, ep := range mediaEndpoints {
		routes = append(routes, tg.Route{Endpoint: ep, Handler: mediaHandler})
	}
	return routes
}
