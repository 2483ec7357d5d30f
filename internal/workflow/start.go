package workflow

import (
	"context"
	"fmt"

	"github.com/joss/pwm/internal/render"
)

// InProgress is the transition applied when work starts.
const InProgress = "In Progress"

// Outcome is the result of an optional side effect.
type Outcome int

const (
	Skipped Outcome = iota
	Done
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Done:
		return "yes"
	case Failed:
		return "no"
	default:
		return "<skipped>"
	}
}

func outcome(err error) Outcome {
	if err != nil {
		return Failed
	}
	return Done
}

// StartOptions are the work-start flags.
type StartOptions struct {
	IssueKey   string
	Transition bool
	Comment    bool
}

// StartResult reports every step of work-start.
type StartResult struct {
	Branch       string
	Created      bool
	Switched     bool
	Summary      string
	BranchErr    error
	Transitioned Outcome
	Commented    Outcome
}

// Rows renders the result table.
func (r *StartResult) Rows() [][]string {
	return [][]string{
		{"Branch name", r.Branch},
		{"Branch created", render.YesNo(r.Created)},
		{"Switched to branch", render.YesNo(r.Switched)},
		{"Jira summary", render.Placeholder(r.Summary, "<unknown>")},
		{"Jira transitioned -> " + InProgress, r.Transitioned.String()},
		{"Jira comment added", r.Commented.String()},
	}
}

// Start puts the working tree on the issue's branch and marks the issue
// as started. Tracker side effects are attempted even when the branch
// step fails.
func (s *Session) Start(ctx context.Context, opts StartOptions) (*StartResult, error) {
	log := s.logger(ctx)
	key := opts.IssueKey

	res := &StartResult{}
	if s.Tracker.Enabled() {
		issue, err := s.Tracker.Issue(ctx, key)
		if err != nil {
			log.Debug("issue_lookup_failed", map[string]interface{}{"key": key, "error": err.Error()})
		} else if issue != nil {
			res.Summary = issue.Summary
		}
	}
	res.Branch = s.WS.BranchFor(key, res.Summary)

	s.checkout(ctx, res)
	if res.BranchErr != nil {
		s.Out.Warn("Branch step failed: %v", res.BranchErr)
	}

	if s.Tracker.Enabled() {
		if opts.Transition {
			res.Transitioned = outcome(s.Tracker.TransitionByName(ctx, key, InProgress))
		}
		if opts.Comment {
			body := fmt.Sprintf("Started work on branch `%s`", res.Branch)
			res.Commented = outcome(s.Tracker.AddComment(ctx, key, body))
		}
	}

	s.Out.Table("pwm work start", []string{"Action", "Result"}, res.Rows())
	return res, nil
}

func (s *Session) checkout(ctx context.Context, res *StartResult) {
	repo := s.WS.Git
	current, _ := repo.CurrentBranch(ctx)
	switch {
	case current == res.Branch:
		res.Switched = true
	case repo.BranchExists(ctx, res.Branch):
		res.BranchErr = repo.SwitchBranch(ctx, res.Branch)
		res.Switched = res.BranchErr == nil
	default:
		base, _ := s.defaultBase(ctx)
		res.BranchErr = repo.CreateBranch(ctx, res.Branch, base)
		res.Created = res.BranchErr == nil
		res.Switched = res.Created
	}
}
