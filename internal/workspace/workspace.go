// Package workspace resolves the per-invocation context: where the
// repository lives, which configuration applies and which remote
// projects it maps to.
package workspace

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/joss/pwm/internal/config"
	"github.com/joss/pwm/internal/exec"
	"github.com/joss/pwm/internal/git"
	pwmstrings "github.com/joss/pwm/internal/strings"
)

// ErrNotInRepo is returned when no enclosing git repository exists.
var ErrNotInRepo = errors.New("not inside a git repository")

var issueKeyRe = regexp.MustCompile(`[A-Z]+-[0-9]+`)

// Context is the resolved state for one invocation. It is never mutated
// after Resolve returns.
type Context struct {
	RepoRoot    string
	Config      *config.Config
	GitHubRepo  string
	JiraProject string
	Meta        *config.Meta
	Git         *git.Repo
}

// Resolver builds a Context. Zero values use the real runner and the
// standard config sources.
type Resolver struct {
	Runner  exec.Runner
	Sources func(repoRoot string) config.Sources
}

// Resolve uses the default Resolver.
func Resolve(ctx context.Context, cwd string) (*Context, error) {
	return (&Resolver{}).Resolve(ctx, cwd)
}

// Resolve locates the repository enclosing cwd and loads its configuration.
func (r *Resolver) Resolve(ctx context.Context, cwd string) (*Context, error) {
	root, err := FindRepoRoot(cwd)
	if err != nil {
		return nil, err
	}

	var cfg *config.Config
	var meta *config.Meta
	if r.Sources != nil {
		cfg, meta, err = config.LoadSources(r.Sources(root))
	} else {
		cfg, meta, err = config.Load(root)
	}
	if err != nil {
		return nil, err
	}

	repo := git.New(root, r.Runner)
	return &Context{
		RepoRoot:    root,
		Config:      cfg,
		GitHubRepo:  InferGitHubRepo(ctx, cfg, repo),
		JiraProject: cfg.Jira.ProjectKey,
		Meta:        meta,
		Git:         repo,
	}, nil
}

// FindRepoRoot walks up from start to the first directory holding .git.
func FindRepoRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", errors.Wrap(err, "resolve working directory")
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.WithHint(
				errors.Wrapf(ErrNotInRepo, "%s", start),
				"run pwm from inside a git working tree")
		}
		dir = parent
	}
}

// InferGitHubRepo prefers github.repo from config, then parses the
// configured remote's URL.
func InferGitHubRepo(ctx context.Context, cfg *config.Config, repo *git.Repo) string {
	if cfg.GitHub.Repo != "" {
		return cfg.GitHub.Repo
	}
	return repo.InferRepo(ctx, cfg.Remote())
}

// BranchFor renders the configured branch pattern for an issue.
func (c *Context) BranchFor(issueKey, summary string) string {
	return BranchName(c.Config.Branch.Pattern, issueKey, summary)
}

// BranchName substitutes {issue_key} and {slug} into pattern. The slug is
// derived from summary, or from the key when summary is empty.
func BranchName(pattern, issueKey, summary string) string {
	if pattern == "" {
		pattern = config.DefaultBranchPattern
	}
	source := summary
	if strings.TrimSpace(source) == "" {
		source = issueKey
	}
	return strings.NewReplacer(
		"{issue_key}", issueKey,
		"{slug}", pwmstrings.Slugify(source),
	).Replace(pattern)
}

// IssueKeyFromBranch returns the first issue key embedded in a branch name.
func IssueKeyFromBranch(branch string) (string, bool) {
	key := issueKeyRe.FindString(branch)
	return key, key != ""
}
