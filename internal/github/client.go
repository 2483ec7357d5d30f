// Package github adapts go-github to the service.CodeHost interface.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	gh "github.com/google/go-github/v66/github"

	"github.com/joss/pwm/internal/config"
	"github.com/joss/pwm/internal/domain"
	"github.com/joss/pwm/internal/logging"
	"github.com/joss/pwm/internal/service"
)

const (
	// Timeout bounds regular API calls.
	Timeout = 10 * time.Second
	// SearchTimeout bounds search API calls.
	SearchTimeout = 30 * time.Second

	searchPerPage  = 100
	searchMaxPages = 10
)

// ErrUnauthorized is returned for 401 responses.
var ErrUnauthorized = errors.New("unauthorized (bad token)")

// Client is a token authenticated GitHub client.
type Client struct {
	api    *gh.Client
	search *gh.Client
	log    *logging.Logger
}

var _ service.CodeHost = (*Client)(nil)

// New creates a client. An empty baseURL targets api.github.com; any other
// value is used verbatim as the REST root (e.g. https://ghe.example/api/v3).
func New(token, baseURL string) (*Client, error) {
	api, err := newREST(token, baseURL, Timeout)
	if err != nil {
		return nil, err
	}
	search, err := newREST(token, baseURL, SearchTimeout)
	if err != nil {
		return nil, err
	}
	return &Client{api: api, search: search, log: logging.New("github")}, nil
}

func newREST(token, baseURL string, timeout time.Duration) (*gh.Client, error) {
	c := gh.NewClient(&http.Client{Timeout: timeout}).WithAuthToken(token)
	if baseURL == "" {
		return c, nil
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.WithHint(errors.Wrap(err, "invalid github.base_url"),
			"use the REST root, e.g. https://github.example.com/api/v3")
	}
	c.BaseURL = u
	return c, nil
}

// FromConfig returns a Client, or service.NoCodeHost when no token is set.
func FromConfig(cfg *config.Config) (service.CodeHost, error) {
	if !cfg.GitHubConfigured() {
		return service.NoCodeHost{}, nil
	}
	return New(cfg.GitHub.Token, cfg.GitHub.BaseURL)
}

// Enabled always reports true for a real client.
func (c *Client) Enabled() bool { return true }

// SplitRepo splits "owner/repo".
func SplitRepo(repo string) (string, string, error) {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" {
		return "", "", errors.Newf("invalid repository %q, expected owner/repo", repo)
	}
	return owner, name, nil
}

// RepoFromHTMLURL extracts "owner/repo" from a web URL such as
// https://github.com/owner/repo/pull/12.
func RepoFromHTMLURL(htmlURL string) (string, bool) {
	parts := strings.Split(htmlURL, "/")
	if len(parts) < 7 {
		return "", false
	}
	return parts[3] + "/" + parts[4], true
}

func (c *Client) fail(ctx context.Context, event string, start time.Time, extra map[string]interface{}, err error) error {
	var ge *gh.ErrorResponse
	if errors.As(err, &ge) && ge.Response != nil && ge.Response.StatusCode == http.StatusUnauthorized {
		err = ErrUnauthorized
	}
	c.log.WithContext(ctx).Failed(event, start, extra, err)
	return err
}

// Ping checks the token against /user and names the account.
func (c *Client) Ping(ctx context.Context) (string, error) {
	login, err := c.CurrentUser(ctx)
	if err != nil {
		return "", err
	}
	if login == "" {
		login = "<unknown>"
	}
	return fmt.Sprintf("ok (as %s)", login), nil
}

// CurrentUser returns the authenticated login.
func (c *Client) CurrentUser(ctx context.Context) (string, error) {
	start := time.Now()
	user, _, err := c.api.Users.Get(ctx, "")
	if err != nil {
		return "", c.fail(ctx, "current_user_failed", start, nil, err)
	}
	return user.GetLogin(), nil
}

// PRForBranch returns the first pull request whose head is owner:branch,
// or nil when there is none.
func (c *Client) PRForBranch(ctx context.Context, repo, branch string, state domain.PRState) (*domain.PullRequest, error) {
	owner, name, err := SplitRepo(repo)
	if err != nil {
		return nil, err
	}
	if state == "" {
		state = domain.PROpen
	}
	start := time.Now()
	prs, _, err := c.api.PullRequests.List(ctx, owner, name, &gh.PullRequestListOptions{
		State: string(state),
		Head:  owner + ":" + branch,
	})
	if err != nil {
		return nil, c.fail(ctx, "list_prs_failed", start, map[string]interface{}{"branch": branch}, err)
	}
	if len(prs) == 0 {
		return nil, nil
	}
	pr := fromPullRequest(prs[0], repo)
	return &pr, nil
}

// PR fetches a pull request with its diff statistics.
func (c *Client) PR(ctx context.Context, repo string, number int) (*domain.PullRequest, error) {
	owner, name, err := SplitRepo(repo)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	pr, _, err := c.api.PullRequests.Get(ctx, owner, name, number)
	if err != nil {
		return nil, c.fail(ctx, "get_pr_failed", start, map[string]interface{}{"number": number}, err)
	}
	out := fromPullRequest(pr, repo)
	return &out, nil
}

// CreatePR opens a pull request.
func (c *Client) CreatePR(ctx context.Context, repo string, in domain.NewPullRequest) (*domain.PullRequest, error) {
	owner, name, err := SplitRepo(repo)
	if err != nil {
		return nil, err
	}
	req := &gh.NewPullRequest{
		Title: ptr(in.Title),
		Head:  ptr(in.Head),
		Base:  ptr(in.Base),
	}
	if in.Body != "" {
		req.Body = ptr(in.Body)
	}
	start := time.Now()
	pr, _, err := c.api.PullRequests.Create(ctx, owner, name, req)
	if err != nil {
		return nil, c.fail(ctx, "create_pr_failed", start, map[string]interface{}{"head": in.Head}, err)
	}
	out := fromPullRequest(pr, repo)
	return &out, nil
}

// Reviews lists submitted reviews in submission order.
func (c *Client) Reviews(ctx context.Context, repo string, number int) ([]domain.Review, error) {
	owner, name, err := SplitRepo(repo)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	reviews, _, err := c.api.PullRequests.ListReviews(ctx, owner, name, number, &gh.ListOptions{PerPage: 100})
	if err != nil {
		return nil, c.fail(ctx, "list_reviews_failed", start, map[string]interface{}{"number": number}, err)
	}
	out := make([]domain.Review, 0, len(reviews))
	for _, r := range reviews {
		user := r.GetUser().GetLogin()
		if user == "" {
			user = "unknown"
		}
		out = append(out, domain.Review{
			User:        user,
			State:       domain.ReviewState(r.GetState()),
			SubmittedAt: r.GetSubmittedAt().Time,
		})
	}
	return out, nil
}

// Comments lists the conversation comments of a pull request.
func (c *Client) Comments(ctx context.Context, repo string, number int) ([]domain.Comment, error) {
	owner, name, err := SplitRepo(repo)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	comments, _, err := c.api.Issues.ListComments(ctx, owner, name, number, &gh.IssueListCommentsOptions{
		ListOptions: gh.ListOptions{PerPage: 100},
	})
	if err != nil {
		return nil, c.fail(ctx, "list_comments_failed", start, map[string]interface{}{"number": number}, err)
	}
	out := make([]domain.Comment, 0, len(comments))
	for _, cm := range comments {
		out = append(out, fromComment(cm))
	}
	return out, nil
}

// AddComment posts a conversation comment on a pull request.
func (c *Client) AddComment(ctx context.Context, repo string, number int, body string) (*domain.Comment, error) {
	owner, name, err := SplitRepo(repo)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	cm, _, err := c.api.Issues.CreateComment(ctx, owner, name, number, &gh.IssueComment{Body: ptr(body)})
	if err != nil {
		return nil, c.fail(ctx, "create_comment_failed", start, map[string]interface{}{"number": number}, err)
	}
	out := fromComment(cm)
	return &out, nil
}

// RequestReviewers asks users and teams to review. At least one of them
// must be non-empty.
func (c *Client) RequestReviewers(ctx context.Context, repo string, number int, users, teams []string) error {
	if len(users) == 0 && len(teams) == 0 {
		return errors.New("no reviewers given")
	}
	owner, name, err := SplitRepo(repo)
	if err != nil {
		return err
	}
	start := time.Now()
	_, _, err = c.api.PullRequests.RequestReviewers(ctx, owner, name, number, gh.ReviewersRequest{
		Reviewers:     users,
		TeamReviewers: teams,
	})
	if err != nil {
		return c.fail(ctx, "request_reviewers_failed", start, map[string]interface{}{"number": number}, err)
	}
	return nil
}

func ptr[T any](v T) *T {
	return &v
}

func fromPullRequest(pr *gh.PullRequest, repo string) domain.PullRequest {
	out := domain.PullRequest{
		Number:       pr.GetNumber(),
		Title:        pr.GetTitle(),
		URL:          pr.GetHTMLURL(),
		Repo:         repo,
		State:        pr.GetState(),
		HeadRef:      pr.GetHead().GetRef(),
		BaseRef:      pr.GetBase().GetRef(),
		Author:       pr.GetUser().GetLogin(),
		CreatedAt:    pr.GetCreatedAt().Time,
		Additions:    pr.GetAdditions(),
		Deletions:    pr.GetDeletions(),
		ChangedFiles: pr.GetChangedFiles(),
	}
	if pr.MergedAt != nil {
		merged := pr.MergedAt.Time
		out.MergedAt = &merged
	}
	return out
}

func fromComment(cm *gh.IssueComment) domain.Comment {
	return domain.Comment{
		ID:        cm.GetID(),
		Body:      cm.GetBody(),
		Author:    cm.GetUser().GetLogin(),
		CreatedAt: cm.GetCreatedAt().Time,
	}
}
