// Package service declares the remote collaborators pwm orchestrates and
// the null objects that stand in for them when they are not configured.
package service

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/joss/pwm/internal/domain"
)

// ErrNotConfigured is returned by every null collaborator.
var ErrNotConfigured = errors.New("not configured")

// Tracker is the issue tracker.
type Tracker interface {
	Enabled() bool
	BrowseURL(key string) string
	Ping(ctx context.Context) (string, error)
	Issue(ctx context.Context, key string) (*domain.Issue, error)
	TransitionByName(ctx context.Context, key, name string) error
	AddComment(ctx context.Context, key, body string) error
	AddCommentWithLink(ctx context.Context, key, text, linkText, href string) error
	IssueTypes(ctx context.Context, project string) ([]domain.IssueType, error)
	CreateMeta(ctx context.Context, project, issueType string) ([]domain.FieldMeta, error)
	CreateIssue(ctx context.Context, in domain.NewIssue) (string, error)
	SearchCreated(ctx context.Context, projects []string, since time.Time, assignee string) ([]domain.Issue, error)
	SearchUpdated(ctx context.Context, projects []string, since time.Time, assignee string) ([]domain.Issue, error)
}

// CodeHost is the pull request host.
type CodeHost interface {
	Enabled() bool
	Ping(ctx context.Context) (string, error)
	CurrentUser(ctx context.Context) (string, error)
	PRForBranch(ctx context.Context, repo, branch string, state domain.PRState) (*domain.PullRequest, error)
	PR(ctx context.Context, repo string, number int) (*domain.PullRequest, error)
	CreatePR(ctx context.Context, repo string, in domain.NewPullRequest) (*domain.PullRequest, error)
	Reviews(ctx context.Context, repo string, number int) ([]domain.Review, error)
	Comments(ctx context.Context, repo string, number int) ([]domain.Comment, error)
	AddComment(ctx context.Context, repo string, number int, body string) (*domain.Comment, error)
	RequestReviewers(ctx context.Context, repo string, number int, users, teams []string) error
	SearchOpened(ctx context.Context, scope domain.Scope, since time.Time, author string) ([]domain.PullRequest, error)
	SearchClosed(ctx context.Context, scope domain.Scope, since time.Time, author string) ([]domain.PullRequest, error)
}

// NoTracker is the Tracker used when Jira is not configured.
type NoTracker struct{}

var _ Tracker = NoTracker{}

func (NoTracker) Enabled() bool               { return false }
func (NoTracker) BrowseURL(key string) string { return "" }
func (NoTracker) Ping(context.Context) (string, error) {
	return "", ErrNotConfigured
}
func (NoTracker) Issue(context.Context, string) (*domain.Issue, error) {
	return nil, ErrNotConfigured
}
func (NoTracker) TransitionByName(context.Context, string, string) error {
	return ErrNotConfigured
}
func (NoTracker) AddComment(context.Context, string, string) error {
	return ErrNotConfigured
}
func (NoTracker) AddCommentWithLink(context.Context, string, string, string, string) error {
	return ErrNotConfigured
}
func (NoTracker) IssueTypes(context.Context, string) ([]domain.IssueType, error) {
	return nil, ErrNotConfigured
}
func (NoTracker) CreateMeta(context.Context, string, string) ([]domain.FieldMeta, error) {
	return nil, ErrNotConfigured
}
func (NoTracker) CreateIssue(context.Context, domain.NewIssue) (string, error) {
	return "", ErrNotConfigured
}
func (NoTracker) SearchCreated(context.Context, []string, time.Time, string) ([]domain.Issue, error) {
	return nil, ErrNotConfigured
}
func (NoTracker) SearchUpdated(context.Context, []string, time.Time, string) ([]domain.Issue, error) {
	return nil, ErrNotConfigured
}

// NoCodeHost is the CodeHost used when GitHub is not configured.
type NoCodeHost struct{}

var _ CodeHost = NoCodeHost{}

func (NoCodeHost) Enabled() bool { return false }
func (NoCodeHost) Ping(context.Context) (string, error) {
	return "", ErrNotConfigured
}
func (NoCodeHost) CurrentUser(context.Context) (string, error) {
	return "", ErrNotConfigured
}
func (NoCodeHost) PRForBranch(context.Context, string, string, domain.PRState) (*domain.PullRequest, error) {
	return nil, ErrNotConfigured
}
func (NoCodeHost) PR(context.Context, string, int) (*domain.PullRequest, error) {
	return nil, ErrNotConfigured
}
func (NoCodeHost) CreatePR(context.Context, string, domain.NewPullRequest) (*domain.PullRequest, error) {
	return nil, ErrNotConfigured
}
func (NoCodeHost) Reviews(context.Context, string, int) ([]domain.Review, error) {
	return nil, ErrNotConfigured
}
func (NoCodeHost) Comments(context.Context, string, int) ([]domain.Comment, error) {
	return nil, ErrNotConfigured
}
func (NoCodeHost) AddComment(context.Context, string, int, string) (*domain.Comment, error) {
	return nil, ErrNotConfigured
}
func (NoCodeHost) RequestReviewers(context.Context, string, int, []string, []string) error {
	return ErrNotConfigured
}
func (NoCodeHost) SearchOpened(context.Context, domain.Scope, time.Time, string) ([]domain.PullRequest, error) {
	return nil, ErrNotConfigured
}
func (NoCodeHost) SearchClosed(context.Context, domain.Scope, time.Time, string) ([]domain.PullRequest, error) {
	return nil, ErrNotConfigured
}
