package github

import (
	"context"
	"strings"
	"time"

	gh "github.com/google/go-github/v66/github"

	"github.com/joss/pwm/internal/domain"
)

// searchTime renders the lower bound used in created:/merged:/closed:
// qualifiers as a UTC ISO 8601 timestamp.
func searchTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z")
}

// OpenedQuery builds the search for pull requests created since the given time.
func OpenedQuery(scope domain.Scope, since time.Time, author string) string {
	parts := []string{scope.Qualifier(), "is:pr", "created:>=" + searchTime(since)}
	if author != "" {
		parts = append(parts, "author:"+author)
	}
	return strings.Join(parts, " ")
}

// ClosedQueries builds the merged and closed-unmerged searches.
func ClosedQueries(scope domain.Scope, since time.Time, author string) (merged, closed string) {
	s := searchTime(since)
	mergedParts := []string{scope.Qualifier(), "is:pr", "is:merged", "merged:>=" + s}
	closedParts := []string{scope.Qualifier(), "is:pr", "is:closed", "is:unmerged", "closed:>=" + s}
	if author != "" {
		mergedParts = append(mergedParts, "author:"+author)
		closedParts = append(closedParts, "author:"+author)
	}
	return strings.Join(mergedParts, " "), strings.Join(closedParts, " ")
}

// SearchOpened lists pull requests created since the given time, newest first.
func (c *Client) SearchOpened(ctx context.Context, scope domain.Scope, since time.Time, author string) ([]domain.PullRequest, error) {
	if scope.Qualifier() == "" {
		return nil, nil
	}
	items, err := c.searchIssues(ctx, OpenedQuery(scope, since, author), "created")
	out := make([]domain.PullRequest, 0, len(items))
	for _, it := range items {
		out = append(out, fromIssue(it, scope))
	}
	return out, err
}

// SearchClosed lists pull requests merged or closed since the given time:
// merged ones first, then closed-unmerged ones. Org wide searches re-fetch
// each pull request for full detail; repository searches use the search
// items as returned.
func (c *Client) SearchClosed(ctx context.Context, scope domain.Scope, since time.Time, author string) ([]domain.PullRequest, error) {
	if scope.Qualifier() == "" {
		return nil, nil
	}
	mergedQ, closedQ := ClosedQueries(scope, since, author)

	var out []domain.PullRequest
	var firstErr error
	for _, q := range []string{mergedQ, closedQ} {
		items, err := c.searchIssues(ctx, q, "updated")
		if err != nil && firstErr == nil {
			firstErr = err
		}
		for _, it := range items {
			out = append(out, c.closedItem(ctx, it, scope))
		}
	}
	return out, firstErr
}

func (c *Client) closedItem(ctx context.Context, it *gh.Issue, scope domain.Scope) domain.PullRequest {
	item := fromIssue(it, scope)
	if scope.Org == "" {
		return item
	}
	repo, ok := RepoFromHTMLURL(it.GetHTMLURL())
	if !ok || it.GetNumber() == 0 {
		return item
	}
	detail, err := c.PR(ctx, repo, it.GetNumber())
	if err != nil {
		return item
	}
	return *detail
}

func (c *Client) searchIssues(ctx context.Context, query, sort string) ([]*gh.Issue, error) {
	var all []*gh.Issue
	for page := 1; page <= searchMaxPages; page++ {
		start := time.Now()
		res, _, err := c.search.Search.Issues(ctx, query, &gh.SearchOptions{
			Sort:        sort,
			Order:       "desc",
			ListOptions: gh.ListOptions{PerPage: searchPerPage, Page: page},
		})
		if err != nil {
			return all, c.fail(ctx, "search_failed", start, map[string]interface{}{"query": query, "page": page}, err)
		}
		all = append(all, res.Issues...)
		if len(res.Issues) < searchPerPage {
			break
		}
	}
	return all, nil
}

func fromIssue(it *gh.Issue, scope domain.Scope) domain.PullRequest {
	repo := scope.Repo
	if r, ok := RepoFromHTMLURL(it.GetHTMLURL()); ok {
		repo = r
	}
	out := domain.PullRequest{
		Number:    it.GetNumber(),
		Title:     it.GetTitle(),
		URL:       it.GetHTMLURL(),
		Repo:      repo,
		State:     it.GetState(),
		Author:    it.GetUser().GetLogin(),
		CreatedAt: it.GetCreatedAt().Time,
	}
	if links := it.GetPullRequestLinks(); links != nil && links.MergedAt != nil {
		merged := links.MergedAt.Time
		out.MergedAt = &merged
	}
	return out
}
