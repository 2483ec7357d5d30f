// Package workflow drives the ticket loop: starting work, opening pull
// requests, posting status updates and creating issues.
package workflow

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/joss/pwm/internal/ai"
	"github.com/joss/pwm/internal/git"
	"github.com/joss/pwm/internal/logging"
	"github.com/joss/pwm/internal/render"
	"github.com/joss/pwm/internal/service"
	"github.com/joss/pwm/internal/tui"
	"github.com/joss/pwm/internal/workspace"
)

var (
	ErrNoIssueKey = errors.New("branch does not contain an issue key")
	ErrNoPR       = errors.New("no pull request found for branch")
	ErrNoRepo     = errors.New("GitHub repository not configured")
	ErrAborted    = errors.New("aborted")
)

// Session bundles the collaborators of one command run.
type Session struct {
	WS      *workspace.Context
	Tracker service.Tracker
	Host    service.CodeHost
	AI      *ai.Summarizer
	Prompt  tui.Prompter
	Out     *render.Writer

	// OpenURL opens a link in the browser. Nil disables opening.
	OpenURL func(ctx context.Context, url string) error

	log *logging.Logger
}

// NewSession fills nil collaborators with their disabled forms.
func NewSession(ws *workspace.Context, tracker service.Tracker, host service.CodeHost) *Session {
	if tracker == nil {
		tracker = service.NoTracker{}
	}
	if host == nil {
		host = service.NoCodeHost{}
	}
	return &Session{
		WS:      ws,
		Tracker: tracker,
		Host:    host,
		AI:      ai.New(nil),
		Out:     render.Stdout(),
		log:     logging.New("workflow"),
	}
}

func (s *Session) logger(ctx context.Context) *logging.Logger {
	if s.log == nil {
		s.log = logging.New("workflow")
	}
	return s.log.WithContext(ctx)
}

func (s *Session) remote() string {
	return s.WS.Config.Remote()
}

// workBranch returns the current branch and the issue key it carries.
func (s *Session) workBranch(ctx context.Context) (string, string, error) {
	branch, err := s.WS.Git.CurrentBranch(ctx)
	if err != nil {
		return "", "", errors.Wrap(err, "current branch")
	}
	key, ok := workspace.IssueKeyFromBranch(branch)
	if !ok {
		return branch, "", errors.WithHint(
			errors.Wrapf(ErrNoIssueKey, "branch %q", branch),
			"start work on an issue first: pwm work-start ABC-123 (or pwm work-start --new)")
	}
	return branch, key, nil
}

// codeHost checks that pull request commands can run.
func (s *Session) codeHost() (string, error) {
	if s.WS.GitHubRepo == "" {
		return "", errors.WithHint(ErrNoRepo, "run 'pwm init' to configure your project")
	}
	if !s.Host.Enabled() {
		return "", errors.WithHint(
			errors.Wrap(service.ErrNotConfigured, "GitHub"),
			"set GITHUB_TOKEN or PWM_GITHUB_TOKEN")
	}
	return s.WS.GitHubRepo, nil
}

// defaultBase returns the remote-qualified default branch and its bare name.
func (s *Session) defaultBase(ctx context.Context) (string, string) {
	ref := s.WS.Git.DefaultBranch(ctx, s.remote())
	return ref, git.BranchName(ref, s.remote())
}

func (s *Session) openBrowser(ctx context.Context, url string) {
	if s.OpenURL == nil || url == "" {
		return
	}
	if err := s.OpenURL(ctx, url); err != nil {
		s.Out.Warn("Could not open browser: %v", err)
		return
	}
	s.Out.Info("Opened in browser")
}
