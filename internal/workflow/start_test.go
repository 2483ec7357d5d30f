package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joss/pwm/internal/domain"
	"github.com/joss/pwm/internal/service"
)

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "<skipped>", Skipped.String())
	assert.Equal(t, "yes", Done.String())
	assert.Equal(t, "no", Failed.String())
}

func TestStartCreatesBranchFromDefault(t *testing.T) {
	h := newHarness(t)
	h.tracker.issue = &domain.Issue{Key: "ABC-1", Summary: "Fix login bug"}
	h.onBranch("main")
	h.runner.AddResponse(gitPrefix+"rev-parse --verify ABC-1-fix-login-bug", failed("fatal: Needed a single revision"))

	res, err := h.session.Start(context.Background(), StartOptions{IssueKey: "ABC-1", Transition: true, Comment: true})
	require.NoError(t, err)

	assert.Equal(t, "ABC-1-fix-login-bug", res.Branch)
	assert.True(t, res.Created)
	assert.True(t, res.Switched)
	assert.Equal(t, "Fix login bug", res.Summary)
	assert.Equal(t, Done, res.Transitioned)
	assert.Equal(t, Done, res.Commented)
	assert.True(t, h.ran(gitPrefix+"checkout -b ABC-1-fix-login-bug origin/main"))
	assert.Equal(t, []string{"ABC-1:In Progress"}, h.tracker.transitions)
	assert.Equal(t, []string{"Started work on branch `ABC-1-fix-login-bug`"}, h.tracker.comments)

	out := h.out.String()
	assert.Contains(t, out, "pwm work start")
	assert.Contains(t, out, "ABC-1-fix-login-bug")
}

func TestStartSwitchesToExistingBranch(t *testing.T) {
	h := newHarness(t)
	h.tracker.issue = &domain.Issue{Key: "ABC-1", Summary: "Fix login bug"}
	h.onBranch("main")
	h.runner.AddResponse(gitPrefix+"rev-parse --verify ABC-1-fix-login-bug", ok("abc123"))

	res, err := h.session.Start(context.Background(), StartOptions{IssueKey: "ABC-1"})
	require.NoError(t, err)

	assert.False(t, res.Created)
	assert.True(t, res.Switched)
	assert.True(t, h.ran(gitPrefix+"checkout ABC-1-fix-login-bug"))
	assert.Equal(t, Skipped, res.Transitioned)
	assert.Equal(t, Skipped, res.Commented)
	assert.Empty(t, h.tracker.transitions)
}

func TestStartAlreadyOnBranch(t *testing.T) {
	h := newHarness(t)
	h.tracker.issue = &domain.Issue{Key: "ABC-1", Summary: "Fix login bug"}
	h.onBranch("ABC-1-fix-login-bug")

	res, err := h.session.Start(context.Background(), StartOptions{IssueKey: "ABC-1"})
	require.NoError(t, err)

	assert.True(t, res.Switched)
	assert.False(t, res.Created)
	for _, line := range h.runner.Lines() {
		assert.NotContains(t, line, "checkout")
	}
}

func TestStartWithoutTracker(t *testing.T) {
	h := newHarness(t)
	h.session.Tracker = service.NoTracker{}
	h.onBranch("main")
	h.runner.AddResponse(gitPrefix+"rev-parse --verify ABC-1-abc-1", failed("fatal"))

	res, err := h.session.Start(context.Background(), StartOptions{IssueKey: "ABC-1", Transition: true, Comment: true})
	require.NoError(t, err)

	assert.Equal(t, "ABC-1-abc-1", res.Branch)
	assert.Equal(t, Skipped, res.Transitioned)
	assert.Equal(t, Skipped, res.Commented)
	assert.Contains(t, h.out.String(), "<unknown>")
	assert.Contains(t, h.out.String(), "<skipped>")
}

func TestStartReportsFailures(t *testing.T) {
	h := newHarness(t)
	h.tracker.issue = &domain.Issue{Key: "ABC-1", Summary: "x"}
	h.tracker.transErr = errors.New("no such transition")
	h.onBranch("main")
	h.runner.AddResponse(gitPrefix+"rev-parse --verify ABC-1-x", failed("fatal"))
	h.runner.AddResponse(gitPrefix+"checkout -b ABC-1-x origin/main", failed("fatal: invalid reference"))

	res, err := h.session.Start(context.Background(), StartOptions{IssueKey: "ABC-1", Transition: true, Comment: true})
	require.NoError(t, err)

	require.Error(t, res.BranchErr)
	assert.False(t, res.Created)
	assert.False(t, res.Switched)
	assert.Equal(t, Failed, res.Transitioned)
	assert.Equal(t, Done, res.Commented)
	assert.Contains(t, h.out.String(), "Branch step failed")
}
