// Package domain defines the work items pwm moves between git, Jira and GitHub.
// Values are sourced live from the remote services and never persisted.
package domain

import "time"

// Issue is a tracker work item.
type Issue struct {
	Key         string    `json:"key"`
	Summary     string    `json:"summary"`
	Status      string    `json:"status,omitempty"`
	Description string    `json:"description,omitempty"`
	IssueType   string    `json:"issue_type,omitempty"`
	Assignee    string    `json:"assignee,omitempty"`
	Created     time.Time `json:"created,omitempty"`
	Updated     time.Time `json:"updated,omitempty"`
}

// Transition is a workflow step available on an issue.
type Transition struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// IssueType is an issue type offered by a project.
type IssueType struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// FieldSchema describes the value shape of a create-screen field.
type FieldSchema struct {
	Type  string `json:"type"`
	Items string `json:"items,omitempty"`
}

// AllowedValue is one choice of an option field.
type AllowedValue struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Value string `json:"value,omitempty"`
}

// Label returns the human readable form of the choice.
func (v AllowedValue) Label() string {
	if v.Value != "" {
		return v.Value
	}
	return v.Name
}

// FieldMeta is the create-metadata for a single issue field.
type FieldMeta struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Required      bool           `json:"required"`
	Schema        FieldSchema    `json:"schema"`
	AllowedValues []AllowedValue `json:"allowedValues,omitempty"`
}

// NewIssue is the input for creating a tracker issue.
type NewIssue struct {
	Project     string
	Summary     string
	IssueType   string
	Description string
	Labels      []string
	Fields      map[string]any
}

// PRState filters pull request listings.
type PRState string

const (
	PROpen   PRState = "open"
	PRClosed PRState = "closed"
	PRAll    PRState = "all"
)

// PullRequest is a code host pull request.
type PullRequest struct {
	Number       int        `json:"number"`
	Title        string     `json:"title"`
	URL          string     `json:"html_url,omitempty"`
	Repo         string     `json:"repo,omitempty"`
	State        string     `json:"state,omitempty"`
	HeadRef      string     `json:"head,omitempty"`
	BaseRef      string     `json:"base,omitempty"`
	Author       string     `json:"author,omitempty"`
	CreatedAt    time.Time  `json:"created_at,omitempty"`
	MergedAt     *time.Time `json:"merged_at,omitempty"`
	Additions    int        `json:"additions,omitempty"`
	Deletions    int        `json:"deletions,omitempty"`
	ChangedFiles int        `json:"changed_files,omitempty"`
}

// Merged reports whether the pull request carries a merge timestamp.
func (p PullRequest) Merged() bool {
	return p.MergedAt != nil && !p.MergedAt.IsZero()
}

// ReviewState is the verdict of a pull request review.
type ReviewState string

const (
	ReviewApproved         ReviewState = "APPROVED"
	ReviewCommented        ReviewState = "COMMENTED"
	ReviewChangesRequested ReviewState = "CHANGES_REQUESTED"
	ReviewDismissed        ReviewState = "DISMISSED"
)

// Review is a single submitted pull request review.
type Review struct {
	User        string      `json:"user"`
	State       ReviewState `json:"state"`
	SubmittedAt time.Time   `json:"submitted_at,omitempty"`
}

// LatestReviews keeps the most recent approval or comment per reviewer.
// Reviewers keep the position of their first qualifying review.
func LatestReviews(reviews []Review) []Review {
	index := make(map[string]int)
	var out []Review
	for _, r := range reviews {
		if r.State != ReviewApproved && r.State != ReviewCommented {
			continue
		}
		if i, ok := index[r.User]; ok {
			out[i] = r
			continue
		}
		index[r.User] = len(out)
		out = append(out, r)
	}
	return out
}

// Comment is a conversation comment on a pull request.
type Comment struct {
	ID        int64     `json:"id"`
	Body      string    `json:"body"`
	Author    string    `json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Commit is a local git commit between a base ref and HEAD.
type Commit struct {
	Hash    string `json:"hash"`
	Subject string `json:"subject"`
	Body    string `json:"body,omitempty"`
}

// NewPullRequest is the input for opening a pull request.
type NewPullRequest struct {
	Title string
	Head  string
	Base  string
	Body  string
}

// Scope selects what a code host search covers. Org wins over Repo.
type Scope struct {
	Repo string
	Org  string
}

// Qualifier renders the scope as a search qualifier, or "" when empty.
func (s Scope) Qualifier() string {
	switch {
	case s.Org != "":
		return "org:" + s.Org
	case s.Repo != "":
		return "repo:" + s.Repo
	default:
		return ""
	}
}
