// Package jira is a small Jira Cloud REST v3 client covering what pwm needs:
// issues, transitions, comments, create metadata, creation and JQL search.
package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-resty/resty/v2"

	"github.com/joss/pwm/internal/adf"
	"github.com/joss/pwm/internal/config"
	"github.com/joss/pwm/internal/domain"
	"github.com/joss/pwm/internal/logging"
	"github.com/joss/pwm/internal/service"
)

const (
	// Timeout bounds every Jira request.
	Timeout = 20 * time.Second

	searchPageSize = 100
	searchMaxPages = 10
)

var (
	// ErrNoTransition is returned when no transition matches the wanted name.
	ErrNoTransition = errors.New("no matching transition")

	// ErrUnauthorized is returned for 401 responses.
	ErrUnauthorized = errors.New("unauthorized (bad token)")
)

// searchFields are requested for every JQL search.
var searchFields = []string{"summary", "status", "created", "updated", "assignee", "issuetype"}

// Client talks to one Jira site.
type Client struct {
	baseURL string
	http    *resty.Client
	log     *logging.Logger
}

var _ service.Tracker = (*Client)(nil)

// New creates a client authenticated with an account email and API token.
func New(baseURL, email, token string) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	http := resty.New().
		SetBaseURL(baseURL).
		SetBasicAuth(email, token).
		SetTimeout(Timeout).
		SetHeader("Accept", "application/json")
	return &Client{baseURL: baseURL, http: http, log: logging.New("jira")}
}

// FromConfig returns a Client, or service.NoTracker when the base URL,
// email or token is missing.
func FromConfig(cfg *config.Config) service.Tracker {
	if !cfg.JiraConfigured() {
		return service.NoTracker{}
	}
	return New(cfg.Jira.BaseURL, cfg.Jira.Email, cfg.Jira.Token)
}

// Enabled always reports true for a real client.
func (c *Client) Enabled() bool { return true }

// BaseURL returns the site URL without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// BrowseURL returns the web link for an issue.
func (c *Client) BrowseURL(key string) string {
	return c.baseURL + "/browse/" + key
}

func (c *Client) request(ctx context.Context) *resty.Request {
	return c.http.R().SetContext(ctx)
}

func statusError(resp *resty.Response) error {
	if resp.StatusCode() == 401 {
		return ErrUnauthorized
	}
	body := strings.TrimSpace(resp.String())
	if len(body) > 200 {
		body = body[:200]
	}
	if body == "" {
		return errors.Newf("HTTP %d", resp.StatusCode())
	}
	return errors.Newf("HTTP %d: %s", resp.StatusCode(), body)
}

// do runs a prepared request and folds transport and status failures into
// one error, logging it at debug.
func (c *Client) do(event string, req *resty.Request, method, path string, extra map[string]interface{}) error {
	start := time.Now()
	resp, err := req.Execute(method, path)
	if err != nil {
		err = errors.Wrap(err, "network error")
		c.log.WithContext(req.Context()).Failed(event, start, extra, err)
		return err
	}
	if resp.IsError() {
		err = statusError(resp)
		c.log.WithContext(req.Context()).Failed(event, start, extra, err)
		return err
	}
	return nil
}

type myself struct {
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress"`
}

// Ping checks credentials against /myself and names the account.
func (c *Client) Ping(ctx context.Context) (string, error) {
	var me myself
	if err := c.do("ping_failed", c.request(ctx).SetResult(&me), resty.MethodGet, "/rest/api/3/myself", nil); err != nil {
		return "", err
	}
	who := me.DisplayName
	if who == "" {
		who = me.EmailAddress
	}
	if who == "" {
		who = "<unknown>"
	}
	return fmt.Sprintf("ok (as %s)", who), nil
}

// Issue fetches a single issue.
func (c *Client) Issue(ctx context.Context, key string) (*domain.Issue, error) {
	var p issuePayload
	req := c.request(ctx).SetResult(&p)
	if err := c.do("issue_failed", req, resty.MethodGet, "/rest/api/3/issue/"+key, map[string]interface{}{"key": key}); err != nil {
		return nil, err
	}
	issue := p.toDomain()
	return &issue, nil
}

type transitionsPayload struct {
	Transitions []domain.Transition `json:"transitions"`
}

// Transitions lists the transitions currently available on an issue.
func (c *Client) Transitions(ctx context.Context, key string) ([]domain.Transition, error) {
	var p transitionsPayload
	req := c.request(ctx).SetResult(&p)
	if err := c.do("transitions_failed", req, resty.MethodGet, "/rest/api/3/issue/"+key+"/transitions", map[string]interface{}{"key": key}); err != nil {
		return nil, err
	}
	return p.Transitions, nil
}

// TransitionByName applies the transition whose name matches name,
// ignoring case.
func (c *Client) TransitionByName(ctx context.Context, key, name string) error {
	transitions, err := c.Transitions(ctx, key)
	if err != nil {
		return err
	}
	var id string
	for _, t := range transitions {
		if strings.EqualFold(t.Name, name) {
			id = t.ID
			break
		}
	}
	if id == "" {
		return errors.Wrapf(ErrNoTransition, "%s has no %q transition", key, name)
	}
	body := map[string]any{"transition": map[string]string{"id": id}}
	req := c.request(ctx).SetBody(body)
	return c.do("transition_failed", req, resty.MethodPost, "/rest/api/3/issue/"+key+"/transitions", map[string]interface{}{"key": key, "id": id})
}

func (c *Client) postComment(ctx context.Context, key string, doc adf.Doc) error {
	req := c.request(ctx).SetBody(map[string]any{"body": doc})
	return c.do("comment_failed", req, resty.MethodPost, "/rest/api/3/issue/"+key+"/comment", map[string]interface{}{"key": key})
}

// AddComment posts a plain text comment.
func (c *Client) AddComment(ctx context.Context, key, body string) error {
	return c.postComment(ctx, key, adf.FromText(body))
}

// AddCommentWithLink posts text followed by a clickable link paragraph.
func (c *Client) AddCommentWithLink(ctx context.Context, key, text, linkText, href string) error {
	return c.postComment(ctx, key, adf.WithLink(text, linkText, href))
}

type createMetaPayload struct {
	Projects []struct {
		IssueTypes []struct {
			ID          string                      `json:"id"`
			Name        string                      `json:"name"`
			Description string                      `json:"description"`
			Fields      map[string]domain.FieldMeta `json:"fields"`
		} `json:"issuetypes"`
	} `json:"projects"`
}

// IssueTypes lists the issue types a project accepts.
func (c *Client) IssueTypes(ctx context.Context, project string) ([]domain.IssueType, error) {
	var p createMetaPayload
	req := c.request(ctx).SetResult(&p).SetQueryParams(map[string]string{
		"projectKeys": project,
		"expand":      "projects.issuetypes",
	})
	if err := c.do("issue_types_failed", req, resty.MethodGet, "/rest/api/3/issue/createmeta", map[string]interface{}{"project": project}); err != nil {
		return nil, err
	}
	if len(p.Projects) == 0 {
		return nil, nil
	}
	types := make([]domain.IssueType, 0, len(p.Projects[0].IssueTypes))
	for _, it := range p.Projects[0].IssueTypes {
		types = append(types, domain.IssueType{ID: it.ID, Name: it.Name, Description: it.Description})
	}
	return types, nil
}

// CreateMeta returns the create screen fields of one issue type, sorted by
// field id.
func (c *Client) CreateMeta(ctx context.Context, project, issueType string) ([]domain.FieldMeta, error) {
	var p createMetaPayload
	req := c.request(ctx).SetResult(&p).SetQueryParams(map[string]string{
		"projectKeys":    project,
		"issuetypeNames": issueType,
		"expand":         "projects.issuetypes.fields",
	})
	if err := c.do("create_meta_failed", req, resty.MethodGet, "/rest/api/3/issue/createmeta", map[string]interface{}{"project": project, "type": issueType}); err != nil {
		return nil, err
	}
	if len(p.Projects) == 0 || len(p.Projects[0].IssueTypes) == 0 {
		return nil, nil
	}
	fields := p.Projects[0].IssueTypes[0].Fields
	out := make([]domain.FieldMeta, 0, len(fields))
	for id, f := range fields {
		f.ID = id
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type createdPayload struct {
	ID  string `json:"id"`
	Key string `json:"key"`
}

// CreateIssue creates an issue and returns its key.
func (c *Client) CreateIssue(ctx context.Context, in domain.NewIssue) (string, error) {
	issueType := in.IssueType
	if issueType == "" {
		issueType = "Story"
	}
	fields := map[string]any{
		"project":   map[string]string{"key": in.Project},
		"summary":   in.Summary,
		"issuetype": map[string]string{"name": issueType},
	}
	if in.Description != "" {
		fields["description"] = adf.FromText(in.Description)
	}
	if len(in.Labels) > 0 {
		fields["labels"] = in.Labels
	}
	for k, v := range in.Fields {
		fields[k] = v
	}

	var created createdPayload
	req := c.request(ctx).SetBody(map[string]any{"fields": fields}).SetResult(&created)
	if err := c.do("create_issue_failed", req, resty.MethodPost, "/rest/api/3/issue", map[string]interface{}{"project": in.Project}); err != nil {
		return "", err
	}
	if created.Key == "" {
		return "", errors.New("jira returned no issue key")
	}
	return created.Key, nil
}

// SearchCreated lists issues created since the given instant.
func (c *Client) SearchCreated(ctx context.Context, projects []string, since time.Time, assignee string) ([]domain.Issue, error) {
	return c.search(ctx, BuildJQL(projects, "created", since, assignee))
}

// SearchUpdated lists issues updated since the given instant.
func (c *Client) SearchUpdated(ctx context.Context, projects []string, since time.Time, assignee string) ([]domain.Issue, error) {
	return c.search(ctx, BuildJQL(projects, "updated", since, assignee))
}

// BuildJQL renders a date scoped query over one or more projects. An empty
// assignee omits the constraint. JQL date literals carry no zone and Jira
// reads them in the account's profile time zone, so since is rendered as
// local wall-clock time.
func BuildJQL(projects []string, field string, since time.Time, assignee string) string {
	var clauses []string
	switch len(projects) {
	case 0:
	case 1:
		clauses = append(clauses, "project = "+projects[0])
	default:
		clauses = append(clauses, "project in ("+strings.Join(projects, ", ")+")")
	}
	clauses = append(clauses, fmt.Sprintf("%s >= %q", field, since.Format("2006-01-02 15:04")))
	if assignee != "" {
		clauses = append(clauses, "assignee = "+assignee)
	}
	return strings.Join(clauses, " AND ") + " ORDER BY " + field + " DESC"
}

type searchPayload struct {
	Issues        []issuePayload `json:"issues"`
	NextPageToken string         `json:"nextPageToken"`
	IsLast        bool           `json:"isLast"`
}

func (c *Client) search(ctx context.Context, jql string) ([]domain.Issue, error) {
	var issues []domain.Issue
	token := ""
	for page := 0; page < searchMaxPages; page++ {
		body := map[string]any{
			"jql":        jql,
			"fields":     searchFields,
			"maxResults": searchPageSize,
		}
		if token != "" {
			body["nextPageToken"] = token
		}
		var p searchPayload
		req := c.request(ctx).SetBody(body).SetResult(&p)
		if err := c.do("search_failed", req, resty.MethodPost, "/rest/api/3/search/jql", map[string]interface{}{"jql": jql}); err != nil {
			return issues, err
		}
		for _, ip := range p.Issues {
			issues = append(issues, ip.toDomain())
		}
		if p.IsLast || p.NextPageToken == "" || len(p.Issues) == 0 {
			break
		}
		token = p.NextPageToken
	}
	return issues, nil
}

type named struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

type issuePayload struct {
	Key    string `json:"key"`
	Fields struct {
		Summary     string          `json:"summary"`
		Status      *named          `json:"status"`
		Description json.RawMessage `json:"description"`
		Created     Time            `json:"created"`
		Updated     Time            `json:"updated"`
		Assignee    *named          `json:"assignee"`
		IssueType   *named          `json:"issuetype"`
	} `json:"fields"`
}

func (p issuePayload) toDomain() domain.Issue {
	issue := domain.Issue{
		Key:         p.Key,
		Summary:     p.Fields.Summary,
		Description: adf.PlainTextOf(p.Fields.Description),
		Created:     p.Fields.Created.Time,
		Updated:     p.Fields.Updated.Time,
	}
	if p.Fields.Status != nil {
		issue.Status = p.Fields.Status.Name
	}
	if p.Fields.Assignee != nil {
		issue.Assignee = p.Fields.Assignee.DisplayName
	}
	if p.Fields.IssueType != nil {
		issue.IssueType = p.Fields.IssueType.Name
	}
	return issue
}
