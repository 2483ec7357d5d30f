package prompt

import (
	"context"

	"github.com/joss/pwm/internal/cache"
	"github.com/joss/pwm/internal/logging"
	"github.com/joss/pwm/internal/service"
	"github.com/joss/pwm/internal/workspace"
)

// StatusSource looks a status up in the cache before asking the tracker.
type StatusSource struct {
	Cache   cache.Store
	Tracker service.Tracker
	log     *logging.Logger
}

// NewStatusSource wires a cache-first lookup.
func NewStatusSource(store cache.Store, tracker service.Tracker) *StatusSource {
	if tracker == nil {
		tracker = service.NoTracker{}
	}
	return &StatusSource{Cache: store, Tracker: tracker, log: logging.New("prompt")}
}

// Status returns the issue status, or "" when it cannot be determined.
func (s *StatusSource) Status(ctx context.Context, key string) string {
	if s.Cache != nil {
		if status, ok := s.Cache.Get(key); ok {
			return status
		}
	}
	if !s.Tracker.Enabled() {
		return ""
	}
	issue, err := s.Tracker.Issue(ctx, key)
	if err != nil || issue == nil || issue.Status == "" {
		return ""
	}
	if s.Cache != nil {
		if err := s.Cache.Set(key, issue.Status); err != nil {
			s.log.WithContext(ctx).Debug("cache_write_failed", map[string]interface{}{"error": err.Error()})
		}
	}
	return issue.Status
}

// Options are the prompt command flags.
type Options struct {
	WithStatus bool
	Format     Format
	Color      bool
}

// Segment returns " <segment>" for branch, or false when the branch
// carries no issue key.
func Segment(ctx context.Context, branch string, opts Options, src *StatusSource) (string, bool) {
	key, ok := workspace.IssueKeyFromBranch(branch)
	if !ok {
		return "", false
	}
	status := ""
	if opts.WithStatus && src != nil {
		status = src.Status(ctx, key)
	}
	return " " + Render(key, status, opts.Format, opts.Color), true
}
