package prompt

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joss/pwm/internal/cache"
	"github.com/joss/pwm/internal/domain"
	"github.com/joss/pwm/internal/service"
)

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatDefault, f)

	f, err = ParseFormat("EMOJI")
	require.NoError(t, err)
	assert.Equal(t, FormatEmoji, f)

	_, err = ParseFormat("fancy")
	assert.Error(t, err)
}

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		status string
		emoji  string
		color  color.Attribute
	}{
		{"In Progress", "🎯", color.FgYellow},
		{"Doing", "🎯", color.FgYellow},
		{"Code Review", "👀", color.FgCyan},
		{"QA Testing", "👀", color.FgCyan},
		{"Done", "✅", color.FgGreen},
		{"Resolved", "✅", color.FgGreen},
		{"Blocked", "🚫", color.FgRed},
		{"To Do", "📝", color.FgBlue},
		{"Backlog", "📝", color.FgBlue},
		{"Reopened", "📝", color.FgBlue},
		{"Waiting", "🔹", color.FgHiBlack},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.emoji, StatusEmoji(tc.status), tc.status)
		assert.Equal(t, tc.color, StatusColor(tc.status), tc.status)
	}
}

func TestRender(t *testing.T) {
	assert.Equal(t, "[ABC-1]", Render("ABC-1", "", FormatDefault, false))
	assert.Equal(t, "[ABC-1: In Progress]", Render("ABC-1", "In Progress", FormatDefault, false))
	assert.Equal(t, "ABC-1", Render("ABC-1", "", FormatMinimal, false))
	assert.Equal(t, "ABC-1: Done", Render("ABC-1", "Done", FormatMinimal, false))
	assert.Equal(t, "🔹 ABC-1", Render("ABC-1", "", FormatEmoji, false))
	assert.Equal(t, "✅ ABC-1", Render("ABC-1", "Done", FormatEmoji, false))
}

func TestRenderColor(t *testing.T) {
	assert.Equal(t, "\x1b[33m[ABC-1: In Progress]\x1b[0m", Render("ABC-1", "In Progress", FormatDefault, true))
	assert.Equal(t, "\x1b[34m[ABC-1]\x1b[0m", Render("ABC-1", "", FormatDefault, true))
	assert.Equal(t, "\x1b[90mABC-1: Waiting\x1b[0m", Render("ABC-1", "Waiting", FormatMinimal, true))
}

type fakeTracker struct {
	service.NoTracker
	status string
	err    error
	calls  int
}

func (f *fakeTracker) Enabled() bool { return true }

func (f *fakeTracker) Issue(_ context.Context, key string) (*domain.Issue, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Issue{Key: key, Status: f.status}, nil
}

func newCache(t *testing.T) *cache.FileStore {
	s := cache.NewFileStore(filepath.Join(t.TempDir(), "prompt_cache.json"))
	now := time.Unix(1_700_000_000, 0)
	s.Now = func() time.Time { return now }
	return s
}

func TestStatusSourceCachesFetch(t *testing.T) {
	tracker := &fakeTracker{status: "In Review"}
	src := NewStatusSource(newCache(t), tracker)

	assert.Equal(t, "In Review", src.Status(context.Background(), "ABC-1"))
	assert.Equal(t, "In Review", src.Status(context.Background(), "ABC-1"))
	assert.Equal(t, 1, tracker.calls)
}

func TestStatusSourceFailure(t *testing.T) {
	tracker := &fakeTracker{err: errors.New("HTTP 404")}
	store := newCache(t)
	src := NewStatusSource(store, tracker)

	assert.Empty(t, src.Status(context.Background(), "ABC-1"))
	_, ok := store.Get("ABC-1")
	assert.False(t, ok)
}

func TestStatusSourceNoTracker(t *testing.T) {
	store := newCache(t)
	require.NoError(t, store.Set("ABC-1", "Done"))
	src := NewStatusSource(store, nil)

	assert.Equal(t, "Done", src.Status(context.Background(), "ABC-1"))
	assert.Empty(t, src.Status(context.Background(), "ABC-2"))
}

func TestSegment(t *testing.T) {
	src := NewStatusSource(newCache(t), &fakeTracker{status: "In Progress"})

	out, ok := Segment(context.Background(), "feature/ABC-12-login", Options{Format: FormatDefault}, src)
	assert.True(t, ok)
	assert.Equal(t, " [ABC-12]", out)

	out, ok = Segment(context.Background(), "ABC-12-login", Options{WithStatus: true, Format: FormatEmoji}, src)
	assert.True(t, ok)
	assert.Equal(t, " 🎯 ABC-12", out)

	_, ok = Segment(context.Background(), "main", Options{}, src)
	assert.False(t, ok)
}
