package selftest

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/joss/pwm/internal/git"
	"github.com/joss/pwm/internal/service"
	"github.com/joss/pwm/internal/workspace"
	"github.com/joss/pwm/pkg/llm"
)

// Probe names, in table order.
const (
	NameGit    = "Local git"
	NameJira   = "Jira API"
	NameGitHub = "GitHub API"
	NameOpenAI = "OpenAI API"
)

const (
	HintJira   = "set PWM_JIRA_TOKEN, PWM_JIRA_EMAIL, PWM_JIRA_BASE_URL"
	HintGitHub = "set GITHUB_TOKEN or PWM_GITHUB_TOKEN"
	HintOpenAI = "set OPENAI_API_KEY or PWM_OPENAI_API_KEY"
)

// Collaborators are the configured remote services. Nil entries are
// treated as not configured.
type Collaborators struct {
	Tracker  service.Tracker
	Host     service.CodeHost
	Provider llm.Provider
}

// Probes builds the standard checks. A nil ws means the workspace could
// not be resolved; resolveErr explains why.
func Probes(ws *workspace.Context, resolveErr error, c Collaborators) []Probe {
	probes := []Probe{GitProbe(ws, resolveErr)}

	if c.Tracker == nil {
		c.Tracker = service.NoTracker{}
	}
	if c.Host == nil {
		c.Host = service.NoCodeHost{}
	}
	if c.Provider == nil {
		c.Provider = llm.Disabled{}
	}

	return append(probes,
		Probe{Name: NameJira, Hint: HintJira, Skip: !c.Tracker.Enabled(), Run: c.Tracker.Ping},
		Probe{Name: NameGitHub, Hint: HintGitHub, Skip: !c.Host.Enabled(), Run: c.Host.Ping},
		Probe{Name: NameOpenAI, Hint: HintOpenAI, Skip: !c.Provider.Enabled(), Run: c.Provider.Ping},
	)
}

// GitProbe checks that the working tree is on a branch and reports the
// repository inferred from the remote.
func GitProbe(ws *workspace.Context, resolveErr error) Probe {
	p := Probe{Name: NameGit, Hint: "run pwm from inside a git working tree"}
	if ws == nil {
		p.Run = func(context.Context) (string, error) {
			if resolveErr == nil {
				resolveErr = workspace.ErrNotInRepo
			}
			return "", errors.Newf("not a git repo (%v)", resolveErr)
		}
		return p
	}

	p.Run = func(ctx context.Context) (string, error) {
		branch, err := ws.Git.CurrentBranch(ctx)
		if err != nil {
			if errors.Is(err, git.ErrNoBranch) {
				return "", errors.New("unable to determine current branch")
			}
			return "", err
		}
		remote := ws.Git.InferRepo(ctx, ws.Config.Remote())
		if remote == "" {
			remote = "<none>"
		}
		return fmt.Sprintf("ok (branch: %s, remote: %s)", branch, remote), nil
	}
	return p
}
