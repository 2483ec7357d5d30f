package digest

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/joss/pwm/internal/domain"
	"github.com/joss/pwm/internal/logging"
	"github.com/joss/pwm/internal/service"
)

// CurrentUserJQL restricts Jira searches to the caller's issues.
const CurrentUserJQL = "currentUser()"

// WorkSummaryData is everything the digest reports on.
type WorkSummaryData struct {
	PRsOpened     []domain.PullRequest
	PRsMerged     []domain.PullRequest
	PRsClosed     []domain.PullRequest
	IssuesCreated []domain.Issue
	IssuesUpdated []domain.Issue
	Start         time.Time
	End           time.Time
}

// Empty reports whether no category has items.
func (d *WorkSummaryData) Empty() bool {
	return d.PRCount() == 0 && d.IssueCount() == 0
}

func (d *WorkSummaryData) PRCount() int {
	return len(d.PRsOpened) + len(d.PRsMerged) + len(d.PRsClosed)
}

func (d *WorkSummaryData) IssueCount() int {
	return len(d.IssuesCreated) + len(d.IssuesUpdated)
}

// Collector gathers activity from the code host and the tracker.
type Collector struct {
	CodeHost service.CodeHost
	Tracker  service.Tracker

	Scope     domain.Scope
	Projects  []string
	OwnPRs    bool
	OwnIssues bool

	Now func() time.Time
	log *logging.Logger
}

// NewCollector wires a collector. Nil clients become null objects.
func NewCollector(host service.CodeHost, tracker service.Tracker) *Collector {
	if host == nil {
		host = service.NoCodeHost{}
	}
	if tracker == nil {
		tracker = service.NoTracker{}
	}
	return &Collector{
		CodeHost:  host,
		Tracker:   tracker,
		OwnPRs:    true,
		OwnIssues: true,
		Now:       time.Now,
		log:       logging.New("digest"),
	}
}

// Collect fetches every category since the given time. Failures leave the
// affected category empty and never fail the whole digest.
func (c *Collector) Collect(ctx context.Context, since time.Time) *WorkSummaryData {
	data := &WorkSummaryData{Start: since, End: c.Now()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c.collectPRs(gctx, since, data)
		return nil
	})
	g.Go(func() error {
		c.collectIssues(gctx, since, data)
		return nil
	})
	_ = g.Wait()
	return data
}

func (c *Collector) collectPRs(ctx context.Context, since time.Time, data *WorkSummaryData) {
	if !c.CodeHost.Enabled() || c.Scope.Qualifier() == "" {
		return
	}
	log := c.log.WithContext(ctx)

	author := ""
	if c.OwnPRs {
		login, err := c.CodeHost.CurrentUser(ctx)
		if err != nil {
			log.Debug("current_user_unavailable", map[string]interface{}{"error": err.Error()})
		}
		author = login
	}

	opened, err := c.CodeHost.SearchOpened(ctx, c.Scope, since, author)
	if err != nil {
		log.Debug("opened_prs_partial", map[string]interface{}{"error": err.Error(), "count": len(opened)})
	}
	data.PRsOpened = opened

	closed, err := c.CodeHost.SearchClosed(ctx, c.Scope, since, author)
	if err != nil {
		log.Debug("closed_prs_partial", map[string]interface{}{"error": err.Error(), "count": len(closed)})
	}
	for _, pr := range closed {
		if pr.Merged() {
			data.PRsMerged = append(data.PRsMerged, pr)
		} else {
			data.PRsClosed = append(data.PRsClosed, pr)
		}
	}
}

func (c *Collector) collectIssues(ctx context.Context, since time.Time, data *WorkSummaryData) {
	if !c.Tracker.Enabled() || len(c.Projects) == 0 {
		return
	}
	log := c.log.WithContext(ctx)

	assignee := ""
	if c.OwnIssues {
		assignee = CurrentUserJQL
	}

	created, err := c.Tracker.SearchCreated(ctx, c.Projects, since, assignee)
	if err != nil {
		log.Debug("created_issues_partial", map[string]interface{}{"error": err.Error(), "count": len(created)})
	}
	data.IssuesCreated = created

	updated, err := c.Tracker.SearchUpdated(ctx, c.Projects, since, assignee)
	if err != nil {
		log.Debug("updated_issues_partial", map[string]interface{}{"error": err.Error(), "count": len(updated)})
	}
	data.IssuesUpdated = updated
}
