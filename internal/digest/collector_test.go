package digest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joss/pwm/internal/domain"
	"github.com/joss/pwm/internal/service"
)

type fakeHost struct {
	service.NoCodeHost
	login     string
	loginErr  error
	opened    []domain.PullRequest
	closed    []domain.PullRequest
	closedErr error

	authors []string
	scopes  []domain.Scope
}

func (f *fakeHost) Enabled() bool { return true }

func (f *fakeHost) CurrentUser(context.Context) (string, error) {
	return f.login, f.loginErr
}

func (f *fakeHost) SearchOpened(_ context.Context, scope domain.Scope, _ time.Time, author string) ([]domain.PullRequest, error) {
	f.authors = append(f.authors, author)
	f.scopes = append(f.scopes, scope)
	return f.opened, nil
}

func (f *fakeHost) SearchClosed(_ context.Context, scope domain.Scope, _ time.Time, author string) ([]domain.PullRequest, error) {
	f.authors = append(f.authors, author)
	return f.closed, f.closedErr
}

type fakeTracker struct {
	service.NoTracker
	created    []domain.Issue
	updated    []domain.Issue
	createdErr error

	assignees []string
	projects  [][]string
}

func (f *fakeTracker) Enabled() bool { return true }

func (f *fakeTracker) SearchCreated(_ context.Context, projects []string, _ time.Time, assignee string) ([]domain.Issue, error) {
	f.assignees = append(f.assignees, assignee)
	f.projects = append(f.projects, projects)
	return f.created, f.createdErr
}

func (f *fakeTracker) SearchUpdated(_ context.Context, projects []string, _ time.Time, assignee string) ([]domain.Issue, error) {
	f.assignees = append(f.assignees, assignee)
	return f.updated, nil
}

func mergedAt() *time.Time {
	t := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	return &t
}

func fixedNow() time.Time {
	return time.Date(2025, 1, 13, 12, 0, 0, 0, time.UTC)
}

func TestCollectPartitionsClosed(t *testing.T) {
	host := &fakeHost{
		login:  "dana",
		opened: []domain.PullRequest{{Number: 1}},
		closed: []domain.PullRequest{
			{Number: 2, MergedAt: mergedAt()},
			{Number: 3},
			{Number: 4, MergedAt: &time.Time{}},
		},
	}
	tracker := &fakeTracker{
		created: []domain.Issue{{Key: "ABC-1"}},
		updated: []domain.Issue{{Key: "ABC-2"}, {Key: "ABC-3"}},
	}
	c := NewCollector(host, tracker)
	c.Now = fixedNow
	c.Scope = domain.Scope{Repo: "acme/api"}
	c.Projects = []string{"ABC"}

	since := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	data := c.Collect(context.Background(), since)

	assert.Equal(t, since, data.Start)
	assert.Equal(t, fixedNow(), data.End)
	assert.Len(t, data.PRsOpened, 1)
	require.Len(t, data.PRsMerged, 1)
	assert.Equal(t, 2, data.PRsMerged[0].Number)
	require.Len(t, data.PRsClosed, 2)
	assert.Equal(t, 3, data.PRsClosed[0].Number)
	assert.Equal(t, 4, data.PRsClosed[1].Number)
	assert.Len(t, data.IssuesCreated, 1)
	assert.Len(t, data.IssuesUpdated, 2)

	assert.Equal(t, []string{"dana", "dana"}, host.authors)
	assert.Equal(t, []string{CurrentUserJQL, CurrentUserJQL}, tracker.assignees)
	assert.Equal(t, []string{"ABC"}, tracker.projects[0])
}

func TestCollectWithoutOwnFilters(t *testing.T) {
	host := &fakeHost{login: "dana"}
	tracker := &fakeTracker{}
	c := NewCollector(host, tracker)
	c.Scope = domain.Scope{Org: "acme"}
	c.Projects = []string{"ABC", "OPS"}
	c.OwnPRs = false
	c.OwnIssues = false

	c.Collect(context.Background(), time.Now())

	assert.Equal(t, []string{"", ""}, host.authors)
	assert.Equal(t, domain.Scope{Org: "acme"}, host.scopes[0])
	assert.Equal(t, []string{"", ""}, tracker.assignees)
}

func TestCollectDegradesPerCategory(t *testing.T) {
	host := &fakeHost{
		loginErr:  errors.New("offline"),
		opened:    []domain.PullRequest{{Number: 1}},
		closedErr: errors.New("search failed"),
	}
	tracker := &fakeTracker{
		createdErr: errors.New("HTTP 500"),
		updated:    []domain.Issue{{Key: "ABC-2"}},
	}
	c := NewCollector(host, tracker)
	c.Scope = domain.Scope{Repo: "acme/api"}
	c.Projects = []string{"ABC"}

	data := c.Collect(context.Background(), time.Now())

	assert.Len(t, data.PRsOpened, 1)
	assert.Empty(t, data.PRsMerged)
	assert.Empty(t, data.PRsClosed)
	assert.Empty(t, data.IssuesCreated)
	assert.Len(t, data.IssuesUpdated, 1)
	assert.Equal(t, []string{"", ""}, host.authors)
}

func TestCollectUnconfigured(t *testing.T) {
	c := NewCollector(nil, nil)
	c.Scope = domain.Scope{Repo: "acme/api"}
	c.Projects = []string{"ABC"}

	data := c.Collect(context.Background(), time.Now())
	assert.True(t, data.Empty())
}

func TestCollectSkipsMissingScope(t *testing.T) {
	host := &fakeHost{}
	tracker := &fakeTracker{}
	c := NewCollector(host, tracker)

	data := c.Collect(context.Background(), time.Now())
	assert.True(t, data.Empty())
	assert.Empty(t, host.authors)
	assert.Empty(t, tracker.assignees)
}
