// Package git wraps the git binary for the handful of operations pwm needs.
package git

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/joss/pwm/internal/domain"
	"github.com/joss/pwm/internal/exec"
	"github.com/joss/pwm/internal/logging"
)

// ErrNoBranch is returned when HEAD is detached or unreadable.
var ErrNoBranch = errors.New("not on a git branch")

// DefaultCandidates are probed on the remote when it publishes no HEAD.
var DefaultCandidates = []string{"main", "master", "develop"}

const (
	recordSep = "\x1e"
	fieldSep  = "\x00"
	logFormat = "--format=%H%x00%s%x00%b%x1e"
)

// Repo runs git commands against one working tree.
type Repo struct {
	root   string
	runner exec.Runner
	log    *logging.Logger
}

// New creates a Repo rooted at root. A nil runner uses exec.Default.
func New(root string, runner exec.Runner) *Repo {
	if runner == nil {
		runner = exec.Default
	}
	return &Repo{root: root, runner: runner, log: logging.New("git")}
}

// Root returns the working tree path.
func (r *Repo) Root() string {
	return r.root
}

func (r *Repo) run(ctx context.Context, args ...string) (string, error) {
	full := append([]string{"-C", r.root}, args...)
	stdout, stderr, err := r.runner.RunSeparate(ctx, "git", full...)
	if err != nil {
		msg := strings.TrimSpace(string(stderr))
		if msg == "" {
			msg = err.Error()
		}
		return "", errors.Wrapf(err, "git %s: %s", args[0], msg)
	}
	return strings.TrimSpace(string(stdout)), nil
}

// CurrentBranch returns the checked out branch name.
func (r *Repo) CurrentBranch(ctx context.Context) (string, error) {
	out, err := r.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		r.log.Debug("current_branch_failed", map[string]interface{}{"error": err.Error()})
		return "", ErrNoBranch
	}
	if out == "" || out == "HEAD" {
		return "", ErrNoBranch
	}
	return out, nil
}

// BranchExists reports whether name resolves to a local ref.
func (r *Repo) BranchExists(ctx context.Context, name string) bool {
	_, err := r.run(ctx, "rev-parse", "--verify", name)
	return err == nil
}

// CreateBranch creates name from ref and checks it out.
func (r *Repo) CreateBranch(ctx context.Context, name, from string) error {
	_, err := r.run(ctx, "checkout", "-b", name, from)
	return err
}

// SwitchBranch checks out an existing branch.
func (r *Repo) SwitchBranch(ctx context.Context, name string) error {
	_, err := r.run(ctx, "checkout", name)
	return err
}

// DefaultBranch resolves the remote's default branch as "<remote>/<name>".
// It never fails: when nothing can be determined it returns "<remote>/main".
func (r *Repo) DefaultBranch(ctx context.Context, remote string) string {
	if remote == "" {
		remote = "origin"
	}
	if ref, ok := r.symbolicHead(ctx, remote); ok {
		return ref
	}

	if _, err := r.run(ctx, "remote", "set-head", remote, "--auto"); err == nil {
		if ref, ok := r.symbolicHead(ctx, remote); ok {
			return ref
		}
	}

	for _, name := range DefaultCandidates {
		if _, err := r.run(ctx, "ls-remote", "--exit-code", "--heads", remote, name); err == nil {
			return remote + "/" + name
		}
	}

	r.log.Debug("default_branch_fallback", map[string]interface{}{"remote": remote})
	return remote + "/main"
}

func (r *Repo) symbolicHead(ctx context.Context, remote string) (string, bool) {
	out, err := r.run(ctx, "symbolic-ref", fmt.Sprintf("refs/remotes/%s/HEAD", remote))
	if err != nil || out == "" {
		return "", false
	}
	return strings.TrimPrefix(out, "refs/remotes/"), true
}

// BranchName strips the "<remote>/" prefix from a remote-qualified ref.
func BranchName(ref, remote string) string {
	if remote != "" && strings.HasPrefix(ref, remote+"/") {
		return strings.TrimPrefix(ref, remote+"/")
	}
	if i := strings.Index(ref, "/"); i >= 0 {
		return ref[i+1:]
	}
	return ref
}

// CommitsSince lists commits reachable from HEAD but not from base, newest
// first. A non-zero since limits the list to commits after that instant.
func (r *Repo) CommitsSince(ctx context.Context, base string, since time.Time) ([]domain.Commit, error) {
	args := []string{"log", base + "..HEAD", logFormat}
	if !since.IsZero() {
		args = append(args, "--since="+since.UTC().Format(time.RFC3339))
	}
	out, err := r.run(ctx, args...)
	if err != nil {
		return nil, err
	}
	return ParseLog(out), nil
}

// ParseLog decodes output produced with the %H%x00%s%x00%b%x1e format.
func ParseLog(out string) []domain.Commit {
	var commits []domain.Commit
	for _, record := range strings.Split(out, recordSep) {
		record = strings.TrimLeft(record, "\r\n")
		if strings.TrimSpace(record) == "" {
			continue
		}
		parts := strings.SplitN(record, fieldSep, 3)
		c := domain.Commit{Hash: strings.TrimSpace(parts[0])}
		if len(parts) > 1 {
			c.Subject = strings.TrimSpace(parts[1])
		}
		if len(parts) > 2 {
			c.Body = strings.TrimSpace(parts[2])
		}
		commits = append(commits, c)
	}
	return commits
}

// Push pushes branch to remote, optionally setting it as upstream.
func (r *Repo) Push(ctx context.Context, remote, branch string, setUpstream bool) error {
	args := []string{"push"}
	if setUpstream {
		args = append(args, "-u")
	}
	args = append(args, remote, branch)
	start := time.Now()
	if _, err := r.run(ctx, args...); err != nil {
		r.log.Failed("push_failed", start, map[string]interface{}{"branch": branch}, err)
		return err
	}
	return nil
}

// RemoteURL returns the configured URL of remote.
func (r *Repo) RemoteURL(ctx context.Context, remote string) (string, error) {
	return r.run(ctx, "remote", "get-url", remote)
}

// InferRepo returns "owner/repo" parsed from the remote URL, or "".
func (r *Repo) InferRepo(ctx context.Context, remote string) string {
	url, err := r.RemoteURL(ctx, remote)
	if err != nil {
		return ""
	}
	repo, _ := RepoFromURL(url)
	return repo
}

// RepoFromURL extracts "owner/repo" from an ssh (git@host:owner/repo.git)
// or http(s) remote URL.
func RepoFromURL(url string) (string, bool) {
	url = strings.TrimSpace(url)
	var path string
	switch {
	case strings.HasPrefix(url, "git@") && strings.Contains(url, ":"):
		path = url[strings.Index(url, ":")+1:]
	case strings.HasPrefix(url, "http://"), strings.HasPrefix(url, "https://"):
		rest := url[strings.Index(url, "//")+2:]
		i := strings.Index(rest, "/")
		if i < 0 {
			return "", false
		}
		path = rest[i+1:]
	default:
		return "", false
	}
	path = strings.TrimSuffix(path, ".git")
	if !strings.Contains(path, "/") {
		return "", false
	}
	return path, true
}
