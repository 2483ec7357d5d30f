// Package strings provides common string utilities.
package strings

import (
	"regexp"
	"strings"
)

// MaxSlugLen bounds the slug part of a branch name.
const MaxSlugLen = 50

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lower-cases s, collapses every run of non-alphanumeric characters
// into a single hyphen and trims hyphens from both ends. The result is at
// most MaxSlugLen bytes and applying Slugify to it again is a no-op.
func Slugify(s string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(s), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > MaxSlugLen {
		slug = strings.TrimRight(slug[:MaxSlugLen], "-")
	}
	return slug
}

// Plural returns "s" unless n is exactly one.
func Plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
