// Package format holds Telegram text formatting helpers.
package format

import (
	"fmt"
	"regexp"
)

const (
	// MarkdownV1 denotes Telegram markdown version 1.
	MarkdownV1 = 1
	// MarkdownV2 denotes Telegram markdown version 2.
	MarkdownV2 = 2
)

var (
	mdV1Re = regexp.MustCompile("[_*`\\[]")
	mdV2Re = regexp.MustCompile(`[_*\[\]()~` + "`" + `>#+\-=|{}.!\\]`)
)

// EscapeMarkdown escapes the characters reserved by the given markdown version.
func EscapeMarkdown(text string, version int) (string, error) {
	switch version {
	case MarkdownV1:
		return mdV1Re.ReplaceAllString(text, `\$0`), nil
	case MarkdownV2:
		return mdV2Re.ReplaceAllString(text, `\$0`), nil
	}
	return "", fmt.Errorf("unsupported markdown version: %d", version)
}

// EscapeV2 escapes text for MarkdownV2.
func EscapeV2(text string) string {
	return mdV2Re.ReplaceAllString(text, `\$0`)
}
