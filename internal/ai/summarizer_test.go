package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joss/pwm/internal/digest"
	"github.com/joss/pwm/internal/domain"
	"github.com/joss/pwm/pkg/llm"
)

type fakeProvider struct {
	llm.Disabled
	reply string
	err   error
	reqs  []*llm.Request
}

func (f *fakeProvider) Enabled() bool { return true }

func (f *fakeProvider) Complete(_ context.Context, req *llm.Request) (string, error) {
	f.reqs = append(f.reqs, req)
	return f.reply, f.err
}

func commits(n int) []domain.Commit {
	out := make([]domain.Commit, n)
	for i := range out {
		out[i] = domain.Commit{Hash: fmt.Sprint(i), Subject: fmt.Sprintf("change %d", i+1)}
	}
	return out
}

func TestFormatCommits(t *testing.T) {
	assert.Equal(t, "(no commits)", FormatCommits(nil, 10))

	got := FormatCommits([]domain.Commit{
		{Subject: "Add login", Body: "  uses OAuth  "},
		{Subject: "Fix typo", Body: strings.Repeat("x", 200)},
	}, 10)
	assert.Equal(t, "- Add login\n  uses OAuth\n- Fix typo", got)

	got = FormatCommits(commits(12), 10)
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 11)
	assert.Equal(t, "- change 10", lines[9])
	assert.Equal(t, "... and 2 more commits", lines[10])
}

func TestPRDescription(t *testing.T) {
	p := &fakeProvider{reply: "Adds login."}
	s := New(p)

	assert.Equal(t, "Adds login.", s.PRDescription(context.Background(), commits(2)))
	require.Len(t, p.reqs, 1)
	assert.Equal(t, PRDescriptionSystem, p.reqs[0].SystemPrompt)
	assert.Contains(t, p.reqs[0].Prompt, "Commits:\n- change 1\n- change 2\n\nGenerate")
}

func TestWorkEnd(t *testing.T) {
	p := &fakeProvider{reply: "Login works."}
	s := New(p)

	assert.Equal(t, "Login works.", s.WorkEnd(context.Background(), commits(1)))
	assert.Equal(t, WorkEndSystem, p.reqs[0].SystemPrompt)
	assert.True(t, strings.HasSuffix(p.reqs[0].Prompt, "Recent commits:\n- change 1\n\nStatus update:"))
}

func TestNoCommitsSkipsProvider(t *testing.T) {
	p := &fakeProvider{reply: "x"}
	s := New(p)

	assert.Empty(t, s.PRDescription(context.Background(), nil))
	assert.Empty(t, s.WorkEnd(context.Background(), nil))
	assert.Empty(t, p.reqs)
}

func TestProviderFailureIsSwallowed(t *testing.T) {
	s := New(&fakeProvider{err: errors.New("HTTP 500")})
	assert.Empty(t, s.WorkEnd(context.Background(), commits(1)))
}

func TestDisabled(t *testing.T) {
	s := New(nil)
	assert.False(t, s.Enabled())
	assert.Empty(t, s.PRDescription(context.Background(), commits(1)))
}

func TestDaily(t *testing.T) {
	p := &fakeProvider{reply: "Busy day."}
	s := New(p)

	assert.Empty(t, s.Daily(context.Background(), &digest.WorkSummaryData{}))
	assert.Empty(t, p.reqs)

	var opened []domain.PullRequest
	for i := 1; i <= 7; i++ {
		opened = append(opened, domain.PullRequest{Number: i, Title: fmt.Sprintf("pr %d", i)})
	}
	data := &digest.WorkSummaryData{
		PRsOpened:     opened,
		IssuesUpdated: []domain.Issue{{Key: "ABC-1", Summary: "Login", Status: "Done"}},
	}
	assert.Equal(t, "Busy day.", s.Daily(context.Background(), data))
	require.Len(t, p.reqs, 1)
	prompt := p.reqs[0].Prompt
	assert.Contains(t, prompt, "Opened (7):\n- #1 pr 1")
	assert.Contains(t, prompt, "- #5 pr 5\n...and 2 more")
	assert.NotContains(t, prompt, "#6")
	assert.Contains(t, prompt, "Updated (1):\n- ABC-1: Login (Done)")
}

func TestFormatDailyEmptyCategories(t *testing.T) {
	d := &digest.WorkSummaryData{}
	assert.Equal(t, "(none)", FormatDailyPRs(d))
	assert.Equal(t, "(none)", FormatDailyIssues(d))
}
