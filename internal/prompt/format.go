// Package prompt renders the shell prompt segment for the current issue.
package prompt

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
)

// Format selects the segment layout.
type Format string

const (
	FormatDefault Format = "default"
	FormatMinimal Format = "minimal"
	FormatEmoji   Format = "emoji"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "", FormatDefault:
		return FormatDefault, nil
	case FormatMinimal, FormatEmoji:
		return f, nil
	default:
		return "", errors.Newf("unknown prompt format %q (use default, minimal or emoji)", s)
	}
}

type category struct {
	keywords []string
	emoji    string
	color    color.Attribute
}

var categories = []category{
	{[]string{"progress", "doing"}, "🎯", color.FgYellow},
	{[]string{"review", "testing"}, "👀", color.FgCyan},
	{[]string{"done", "closed", "resolved"}, "✅", color.FgGreen},
	{[]string{"blocked"}, "🚫", color.FgRed},
	{[]string{"todo", "backlog", "open"}, "📝", color.FgBlue},
}

var fallback = category{emoji: "🔹", color: color.FgHiBlack}

func categorize(status string) category {
	norm := strings.ReplaceAll(strings.ToLower(status), " ", "")
	for _, c := range categories {
		for _, kw := range c.keywords {
			if strings.Contains(norm, kw) {
				return c
			}
		}
	}
	return fallback
}

// StatusEmoji maps a tracker status to an emoji.
func StatusEmoji(status string) string {
	return categorize(status).emoji
}

// StatusColor maps a tracker status to a terminal colour.
func StatusColor(status string) color.Attribute {
	return categorize(status).color
}

// Render formats the segment for key and an optional status. Colour codes
// are always emitted when useColor is set, even without a terminal.
func Render(key, status string, format Format, useColor bool) string {
	var out string
	switch format {
	case FormatMinimal:
		out = key
		if status != "" {
			out = key + ": " + status
		}
	case FormatEmoji:
		out = fallback.emoji + " " + key
		if status != "" {
			out = StatusEmoji(status) + " " + key
		}
	default:
		out = "[" + key + "]"
		if status != "" {
			out = "[" + key + ": " + status + "]"
		}
	}
	if !useColor {
		return out
	}
	attr := color.FgBlue
	if status != "" {
		attr = StatusColor(status)
	}
	c := color.New(attr)
	c.EnableColor()
	return c.Sprint(out)
}
