package strings

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"summary", "Add OAuth login (v2)!", "add-oauth-login-v2"},
		{"already slugged", "add-oauth-login", "add-oauth-login"},
		{"leading and trailing punctuation", "--Fix: crash--", "fix-crash"},
		{"issue key", "ABC-123", "abc-123"},
		{"empty", "", ""},
		{"all punctuation", "!!! ??? ...", ""},
		{"unicode collapses", "Café déjà vu", "caf-d-j-vu"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slugify(tt.input))
		})
	}
}

func TestSlugifyProperties(t *testing.T) {
	inputs := []string{
		"",
		"-",
		"a",
		"Implement the extremely long feature title that keeps going and going past fifty characters",
		strings.Repeat("ab ", 40),
		strings.Repeat("x", 49) + " y",
		"UPPER_CASE__with___underscores",
		"\t tabs \n and newlines",
		"#$%^&*()",
	}

	for _, in := range inputs {
		slug := Slugify(in)
		assert.LessOrEqual(t, len(slug), MaxSlugLen, "input %q", in)
		assert.Equal(t, strings.ToLower(slug), slug, "input %q", in)
		assert.False(t, strings.HasPrefix(slug, "-"), "input %q", in)
		assert.False(t, strings.HasSuffix(slug, "-"), "input %q", in)
		assert.NotContains(t, slug, "--", "input %q", in)
		assert.Equal(t, slug, Slugify(slug), "slugify must be idempotent for %q", in)
	}
}

func TestSlugifyTruncationDropsTrailingHyphen(t *testing.T) {
	// the 50th character of the collapsed slug is a hyphen
	in := strings.Repeat("a", 49) + " tail"
	assert.Equal(t, strings.Repeat("a", 49), Slugify(in))
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "s", Plural(0))
	assert.Equal(t, "", Plural(1))
	assert.Equal(t, "s", Plural(2))
}
