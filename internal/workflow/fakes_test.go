package workflow

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fatih/color"

	"github.com/joss/pwm/internal/ai"
	"github.com/joss/pwm/internal/config"
	"github.com/joss/pwm/internal/domain"
	"github.com/joss/pwm/internal/exec"
	"github.com/joss/pwm/internal/git"
	"github.com/joss/pwm/internal/render"
	"github.com/joss/pwm/internal/service"
	"github.com/joss/pwm/internal/workspace"
	"github.com/joss/pwm/pkg/llm"
)

const gitPrefix = "git -C /repo "

var errExit = errors.New("exit status 1")

func ok(out string) exec.MockResponse {
	return exec.MockResponse{Stdout: []byte(out)}
}

func failed(stderr string) exec.MockResponse {
	return exec.MockResponse{Stderr: []byte(stderr), Err: errExit}
}

type fakeTracker struct {
	service.NoTracker

	issue       *domain.Issue
	transitions []string
	comments    []string
	linkText    []string
	transErr    error
	issueTypes  []domain.IssueType
	meta        []domain.FieldMeta
	created     []domain.NewIssue
	createKey   string
}

func (f *fakeTracker) Enabled() bool               { return true }
func (f *fakeTracker) BrowseURL(key string) string { return "https://jira.example.com/browse/" + key }

func (f *fakeTracker) Issue(_ context.Context, key string) (*domain.Issue, error) {
	if f.issue == nil {
		return nil, service.ErrNotConfigured
	}
	return f.issue, nil
}

func (f *fakeTracker) TransitionByName(_ context.Context, key, name string) error {
	f.transitions = append(f.transitions, key+":"+name)
	return f.transErr
}

func (f *fakeTracker) AddComment(_ context.Context, key, body string) error {
	f.comments = append(f.comments, body)
	return nil
}

func (f *fakeTracker) AddCommentWithLink(_ context.Context, key, text, linkText, href string) error {
	f.comments = append(f.comments, text)
	f.linkText = append(f.linkText, linkText+" "+href)
	return nil
}

func (f *fakeTracker) IssueTypes(context.Context, string) ([]domain.IssueType, error) {
	return f.issueTypes, nil
}

func (f *fakeTracker) CreateMeta(context.Context, string, string) ([]domain.FieldMeta, error) {
	return f.meta, nil
}

func (f *fakeTracker) CreateIssue(_ context.Context, in domain.NewIssue) (string, error) {
	f.created = append(f.created, in)
	return f.createKey, nil
}

type fakeHost struct {
	service.NoCodeHost

	branchPR  *domain.PullRequest
	lookupErr error
	stateSeen domain.PRState
	comments  []domain.Comment
	posted    []string
	created   []domain.NewPullRequest
	reviewers [][]string
}

func (f *fakeHost) Enabled() bool { return true }

func (f *fakeHost) PRForBranch(_ context.Context, repo, branch string, state domain.PRState) (*domain.PullRequest, error) {
	f.stateSeen = state
	return f.branchPR, f.lookupErr
}

func (f *fakeHost) PR(_ context.Context, repo string, number int) (*domain.PullRequest, error) {
	return &domain.PullRequest{Number: number, ChangedFiles: 2, Additions: 5, Deletions: 1}, nil
}

func (f *fakeHost) CreatePR(_ context.Context, repo string, in domain.NewPullRequest) (*domain.PullRequest, error) {
	f.created = append(f.created, in)
	return &domain.PullRequest{Number: 42, Title: in.Title, URL: "https://github.com/acme/app/pull/42"}, nil
}

func (f *fakeHost) Reviews(context.Context, string, int) ([]domain.Review, error) {
	return []domain.Review{{User: "bob", State: domain.ReviewApproved}}, nil
}

func (f *fakeHost) Comments(context.Context, string, int) ([]domain.Comment, error) {
	return f.comments, nil
}

func (f *fakeHost) AddComment(_ context.Context, repo string, number int, body string) (*domain.Comment, error) {
	f.posted = append(f.posted, body)
	return &domain.Comment{ID: 1, Body: body}, nil
}

func (f *fakeHost) RequestReviewers(_ context.Context, repo string, number int, users, teams []string) error {
	f.reviewers = append(f.reviewers, users, teams)
	return nil
}

// scriptedPrompter answers by label and falls back to the default.
type scriptedPrompter struct {
	answers  map[string]string
	confirms map[string]bool
	asked    []string
}

func (p *scriptedPrompter) Ask(label, def string) (string, error) {
	p.asked = append(p.asked, label)
	if v, ok := p.answers[label]; ok {
		return v, nil
	}
	return def, nil
}

func (p *scriptedPrompter) Confirm(label string, def bool) (bool, error) {
	p.asked = append(p.asked, label)
	if v, ok := p.confirms[label]; ok {
		return v, nil
	}
	return def, nil
}

type fixedProvider struct {
	llm.Disabled
	reply string
}

func (p fixedProvider) Enabled() bool { return true }
func (p fixedProvider) Complete(context.Context, *llm.Request) (string, error) {
	return p.reply, nil
}

type harness struct {
	session *Session
	runner  *exec.MockRunner
	tracker *fakeTracker
	host    *fakeHost
	prompt  *scriptedPrompter
	out     *bytes.Buffer
	opened  []string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	cfg := config.Default()
	h := &harness{
		runner:  exec.NewMockRunner(),
		tracker: &fakeTracker{createKey: "ABC-9"},
		host:    &fakeHost{},
		prompt:  &scriptedPrompter{answers: map[string]string{}, confirms: map[string]bool{}},
		out:     &bytes.Buffer{},
	}
	ws := &workspace.Context{
		RepoRoot:    t.TempDir(),
		Config:      &cfg,
		GitHubRepo:  "acme/app",
		JiraProject: "ABC",
		Meta:        &config.Meta{},
		Git:         git.New("/repo", h.runner),
	}
	s := NewSession(ws, h.tracker, h.host)
	s.Prompt = h.prompt
	s.Out = render.NewWriter(h.out)
	s.OpenURL = func(_ context.Context, url string) error {
		h.opened = append(h.opened, url)
		return nil
	}
	h.session = s
	h.runner.AddResponse(gitPrefix+"symbolic-ref refs/remotes/origin/HEAD", ok("refs/remotes/origin/main\n"))
	return h
}

func (h *harness) onBranch(branch string) {
	h.runner.AddResponse(gitPrefix+"rev-parse --abbrev-ref HEAD", ok(branch+"\n"))
}

func (h *harness) withAI(reply string) {
	h.session.AI = ai.New(fixedProvider{reply: reply})
}

func (h *harness) ran(line string) bool {
	for _, l := range h.runner.Lines() {
		if l == line {
			return true
		}
	}
	return false
}
