package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/joss/pwm/internal/domain"
	pwmstrings "github.com/joss/pwm/internal/strings"
)

// UpdateMarker tags status comments so the next update can find them.
const UpdateMarker = "<!-- pwm:work-end -->"

var zeroTime time.Time

// EndOptions are the work-end flags.
type EndOptions struct {
	Message       string
	NoComment     bool
	NoPRComment   bool
	NoJiraComment bool
	RequestReview bool
	UseAI         bool
}

// EndResult reports what work-end posted.
type EndResult struct {
	PR                 *domain.PullRequest
	Summary            string
	Since              time.Time
	Commits            int
	PRCommented        Outcome
	JiraCommented      Outcome
	ReviewersRequested Outcome
}

// WorkSummary condenses commit subjects into one sentence.
func WorkSummary(commits []domain.Commit) string {
	switch n := len(commits); n {
	case 0:
		return "No new changes since last update."
	case 1:
		return commits[0].Subject + "."
	default:
		return fmt.Sprintf("%s and %d other change%s.", commits[0].Subject, n-1, pwmstrings.Plural(n-1))
	}
}

// StatusComment is the pull request comment body for a summary.
func StatusComment(summary string) string {
	return "**Status Update**\n\n" + summary + "\n\n" + UpdateMarker
}

// LastUpdate returns the creation time of the newest marked comment.
func LastUpdate(comments []domain.Comment) (time.Time, bool) {
	var last time.Time
	for _, c := range comments {
		if strings.Contains(c.Body, UpdateMarker) && c.CreatedAt.After(last) {
			last = c.CreatedAt
		}
	}
	return last, !last.IsZero()
}

// End posts a status update for the current branch to its pull request
// and its issue, and optionally requests reviewers.
func (s *Session) End(ctx context.Context, opts EndOptions) (*EndResult, error) {
	log := s.logger(ctx)

	branch, key, err := s.workBranch(ctx)
	if err != nil {
		return nil, err
	}
	repo, err := s.codeHost()
	if err != nil {
		return nil, err
	}

	pr, err := s.Host.PRForBranch(ctx, repo, branch, domain.PRAll)
	if err != nil {
		return nil, errors.WithHint(errors.Wrapf(err, "look up pull request for %q", branch),
			"check GitHub access with: pwm self-check")
	}
	if pr == nil {
		return nil, errors.WithHint(errors.Wrapf(ErrNoPR, "branch %q", branch), "create a PR first: pwm pr")
	}
	s.Out.Labeled(fmt.Sprintf("Found PR #%d:", pr.Number), "%s", pr.Title)
	s.Out.Dim("%s", pr.URL)

	res := &EndResult{PR: pr}
	if comments, err := s.Host.Comments(ctx, repo, pr.Number); err == nil {
		res.Since, _ = LastUpdate(comments)
	}

	baseRef, _ := s.defaultBase(ctx)
	commits, err := s.WS.Git.CommitsSince(ctx, baseRef, res.Since)
	if err != nil {
		log.Debug("commit_list_failed", map[string]interface{}{"base": baseRef, "error": err.Error()})
	}
	res.Commits = len(commits)
	if len(commits) == 0 {
		if res.Since.IsZero() {
			s.Out.Warn("Warning: No commits found on this branch.")
		} else {
			s.Out.Warn("Warning: No commits since the last status update.")
		}
	}

	switch {
	case opts.Message != "":
		res.Summary = opts.Message
	case opts.UseAI && s.AI.Enabled():
		s.Out.Info("Generating AI summary...")
		res.Summary = s.AI.WorkEnd(ctx, commits)
	}
	if res.Summary == "" {
		res.Summary = WorkSummary(commits)
	}
	s.Out.Labeled("Summary:", "%s", res.Summary)

	if !opts.NoComment && !opts.NoPRComment {
		s.Out.Info("Adding comment to PR #%d...", pr.Number)
		_, err := s.Host.AddComment(ctx, repo, pr.Number, StatusComment(res.Summary))
		res.PRCommented = outcome(err)
		if err != nil {
			s.Out.Warn("⚠ Failed to comment on PR")
		} else {
			s.Out.Success("Commented on PR")
		}
	}

	if !opts.NoComment && !opts.NoJiraComment {
		if s.Tracker.Enabled() {
			s.Out.Info("Adding comment to Jira %s...", key)
			err := s.Tracker.AddCommentWithLink(ctx, key,
				"Status update: "+res.Summary,
				fmt.Sprintf("View PR #%d", pr.Number),
				pr.URL)
			res.JiraCommented = outcome(err)
			if err != nil {
				s.Out.Warn("⚠ Failed to comment on Jira")
			} else {
				s.Out.Success("Commented on Jira")
			}
		} else {
			s.Out.Dim("Skipping Jira comment (not configured)")
		}
	}

	if opts.RequestReview {
		res.ReviewersRequested = s.requestReviewers(ctx, repo, pr.Number)
	}

	s.Out.Line()
	s.Out.Success("Work update complete!")
	if res.PRCommented == Done || res.JiraCommented == Done {
		s.Out.Dim("Status updates posted")
	}
	if res.ReviewersRequested == Done {
		s.Out.Dim("Reviewers notified")
	}
	return res, nil
}

func (s *Session) requestReviewers(ctx context.Context, repo string, number int) Outcome {
	defaults := s.WS.Config.GitHub.PRDefaults
	if len(defaults.Reviewers) == 0 && len(defaults.TeamReviewers) == 0 {
		s.Out.Warn("No reviewers configured in .pwm.toml")
		s.Out.Dim("Add [github.pr_defaults] section with reviewers/team_reviewers")
		return Skipped
	}

	s.Out.Info("Requesting reviewers...")
	if err := s.Host.RequestReviewers(ctx, repo, number, defaults.Reviewers, defaults.TeamReviewers); err != nil {
		s.Out.Warn("⚠ Failed to request reviewers")
		return Failed
	}
	if len(defaults.Reviewers) > 0 {
		s.Out.Success("Requested reviewers: %s", strings.Join(defaults.Reviewers, ", "))
	}
	if len(defaults.TeamReviewers) > 0 {
		s.Out.Success("Requested team reviewers: %s", strings.Join(defaults.TeamReviewers, ", "))
	}
	return Done
}
