package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPullRequestMerged(t *testing.T) {
	merged := time.Date(2025, 1, 11, 10, 0, 0, 0, time.UTC)

	assert.True(t, PullRequest{MergedAt: &merged}.Merged())
	assert.False(t, PullRequest{}.Merged())
	assert.False(t, PullRequest{MergedAt: &time.Time{}}.Merged())
}

func TestLatestReviews(t *testing.T) {
	reviews := []Review{
		{User: "alice", State: ReviewCommented},
		{User: "bob", State: ReviewApproved},
		{User: "carol", State: ReviewChangesRequested},
		{User: "alice", State: ReviewApproved},
		{User: "bob", State: ReviewDismissed},
	}

	got := LatestReviews(reviews)

	assert.Equal(t, []Review{
		{User: "alice", State: ReviewApproved},
		{User: "bob", State: ReviewApproved},
	}, got)
}

func TestLatestReviewsEmpty(t *testing.T) {
	assert.Empty(t, LatestReviews(nil))
}

func TestAllowedValueLabel(t *testing.T) {
	assert.Equal(t, "Team A", AllowedValue{Value: "Team A", Name: "ignored"}.Label())
	assert.Equal(t, "High", AllowedValue{Name: "High"}.Label())
}

func TestScopeQualifier(t *testing.T) {
	assert.Equal(t, "org:acme", Scope{Org: "acme", Repo: "acme/widgets"}.Qualifier())
	assert.Equal(t, "repo:acme/widgets", Scope{Repo: "acme/widgets"}.Qualifier())
	assert.Empty(t, Scope{}.Qualifier())
}
