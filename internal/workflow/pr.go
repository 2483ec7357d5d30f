package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/joss/pwm/internal/domain"
	"github.com/joss/pwm/internal/render"
)

// PROptions are the pr command flags.
type PROptions struct {
	UseAI       bool
	OpenBrowser bool
}

// PRResult describes the pull request the command ended on.
type PRResult struct {
	PR      *domain.PullRequest
	Created bool
	Base    string
	Title   string
	Body    string
}

// PRTitle prefers the issue summary, then the first commit subject.
func PRTitle(key string, issue *domain.Issue, commits []domain.Commit) string {
	switch {
	case issue != nil && issue.Summary != "":
		return fmt.Sprintf("[%s] %s", key, issue.Summary)
	case len(commits) > 0:
		return fmt.Sprintf("[%s] %s", key, commits[0].Subject)
	default:
		return fmt.Sprintf("[%s] Changes", key)
	}
}

// PRDescription builds the pull request body. jiraBase and aiSummary may
// be empty.
func PRDescription(key, jiraBase string, issue *domain.Issue, commits []domain.Commit, aiSummary string) string {
	var lines []string
	if jiraBase != "" {
		link := strings.TrimRight(jiraBase, "/") + "/browse/" + key
		lines = append(lines, fmt.Sprintf("**Jira:** [%s](%s)", key, link), "")
	}
	if aiSummary != "" {
		lines = append(lines, "## Summary", "", aiSummary, "")
	}
	if issue != nil && strings.TrimSpace(issue.Description) != "" {
		lines = append(lines, "## Description", "", issue.Description, "")
	}
	if len(commits) > 0 {
		lines = append(lines, "## Changes", "")
		for _, c := range commits {
			lines = append(lines, "- "+c.Subject)
		}
		lines = append(lines, "", fmt.Sprintf("**Total commits:** %d", len(commits)))
	}
	return strings.Join(lines, "\n")
}

// OpenPR shows the open pull request for the current branch, or pushes
// the branch and creates one against the default branch.
func (s *Session) OpenPR(ctx context.Context, opts PROptions) (*PRResult, error) {
	log := s.logger(ctx)

	branch, key, err := s.workBranch(ctx)
	if err != nil {
		return nil, err
	}
	repo, err := s.codeHost()
	if err != nil {
		return nil, err
	}

	existing, err := s.Host.PRForBranch(ctx, repo, branch, domain.PROpen)
	if err != nil {
		return nil, errors.WithHint(errors.Wrapf(err, "look up pull request for %q", branch),
			"check GitHub access with: pwm self-check")
	}
	if existing != nil {
		s.showPR(ctx, repo, existing, existing.Title)
		if opts.OpenBrowser {
			s.openBrowser(ctx, existing.URL)
		}
		return &PRResult{PR: existing, Title: existing.Title}, nil
	}

	s.Out.Info("No PR exists for branch '%s'", branch)
	baseRef, base := s.defaultBase(ctx)

	commits, err := s.WS.Git.CommitsSince(ctx, baseRef, zeroTime)
	if err != nil {
		log.Debug("commit_list_failed", map[string]interface{}{"base": baseRef, "error": err.Error()})
	}
	if len(commits) == 0 {
		s.Out.Warn("Warning: No commits found on this branch.")
		ok, err := s.Prompt.Confirm("Create PR anyway?", false)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrAborted
		}
	}

	s.Out.Info("Pushing branch '%s' to remote...", branch)
	if err := s.WS.Git.Push(ctx, s.remote(), branch, true); err != nil {
		return nil, errors.WithHint(errors.Wrap(err, "push branch"),
			"check that the remote exists and you have push access")
	}

	var issue *domain.Issue
	if s.Tracker.Enabled() {
		if issue, err = s.Tracker.Issue(ctx, key); err != nil {
			log.Debug("issue_lookup_failed", map[string]interface{}{"key": key, "error": err.Error()})
			issue = nil
		}
	}

	summary := ""
	if opts.UseAI && s.AI.Enabled() {
		s.Out.Info("Generating AI summary...")
		summary = s.AI.PRDescription(ctx, commits)
	}

	res := &PRResult{
		Base:  base,
		Title: PRTitle(key, issue, commits),
		Body:  PRDescription(key, s.WS.Config.Jira.BaseURL, issue, commits, summary),
	}

	s.Out.Info("Creating PR...")
	s.Out.Println("  Title: %s", res.Title)
	s.Out.Println("  Base: %s", res.Base)
	s.Out.Println("  Head: %s", branch)

	pr, err := s.Host.CreatePR(ctx, repo, domain.NewPullRequest{
		Title: res.Title,
		Head:  branch,
		Base:  base,
		Body:  res.Body,
	})
	if err != nil {
		return nil, errors.WithHint(errors.Wrap(err, "create pull request"),
			"check that your GitHub token has the 'repo' scope")
	}
	res.PR, res.Created = pr, true

	s.showPR(ctx, repo, pr, res.Title)
	if opts.OpenBrowser {
		s.openBrowser(ctx, pr.URL)
	}
	return res, nil
}

// showPR prints the title with diff stats, the link and the latest
// review per reviewer.
func (s *Session) showPR(ctx context.Context, repo string, pr *domain.PullRequest, title string) {
	if detail, err := s.Host.PR(ctx, repo, pr.Number); err == nil && detail != nil {
		s.Out.Labeled("PR:", "%s", render.PRStats(detail, title))
	} else {
		s.Out.Labeled("PR:", "%s", title)
	}
	s.Out.Println("%s", pr.URL)

	reviews, err := s.Host.Reviews(ctx, repo, pr.Number)
	if err != nil {
		return
	}
	for _, r := range domain.LatestReviews(reviews) {
		s.Out.Println("- %s  %s", r.User, r.State)
	}
}
