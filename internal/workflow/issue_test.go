package workflow

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joss/pwm/internal/config"
	"github.com/joss/pwm/internal/domain"
	"github.com/joss/pwm/internal/service"
)

func issueHarness(t *testing.T) *harness {
	h := newHarness(t)
	h.tracker.issueTypes = []domain.IssueType{{Name: "Story"}, {Name: "Bug"}}
	h.tracker.meta = []domain.FieldMeta{
		{ID: "summary", Name: "Summary", Required: true, Schema: domain.FieldSchema{Type: "string"}},
		{ID: "customfield_10016", Name: "Story Points", Schema: domain.FieldSchema{Type: "number"}},
		{ID: "customfield_200", Name: "Team", Required: true, Schema: domain.FieldSchema{Type: "option"},
			AllowedValues: []domain.AllowedValue{{Value: "Core"}, {Value: "Web"}}},
		{ID: "customfield_300", Name: "Environment", Required: true, Schema: domain.FieldSchema{Type: "string"}},
		{ID: "customfield_400", Name: "Components", Required: true, Schema: domain.FieldSchema{Type: "array", Items: "option"},
			AllowedValues: []domain.AllowedValue{{Name: "api"}, {Name: "ui"}}},
		{ID: "customfield_500", Name: "Approver", Required: true, Schema: domain.FieldSchema{Type: "user"}},
		{ID: "customfield_600", Name: "Notes", Schema: domain.FieldSchema{Type: "string"}},
	}
	h.prompt.answers = map[string]string{
		"Summary (required)":                           "Add login",
		"Issue type":                                   "Bug",
		"Labels (comma-separated, optional)":           "web, auth",
		"Story points (optional, press Enter to skip)": "3",
		"Team (required)":                              "Web",
		"Environment (required)":                       "prod",
		"Components (comma-separated)":                 "api,ui",
	}
	return h
}

func TestCreateIssue(t *testing.T) {
	h := issueHarness(t)

	key, err := h.session.CreateIssue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ABC-9", key)

	require.Len(t, h.tracker.created, 1)
	in := h.tracker.created[0]
	assert.Equal(t, "ABC", in.Project)
	assert.Equal(t, "Add login", in.Summary)
	assert.Equal(t, "Bug", in.IssueType)
	assert.Equal(t, []string{"web", "auth"}, in.Labels)
	assert.Equal(t, map[string]any{
		"customfield_10016": 3.0,
		"customfield_200":   map[string]any{"value": "Web"},
		"customfield_300":   "prod",
		"customfield_400":   []map[string]any{{"value": "api"}, {"value": "ui"}},
	}, in.Fields)

	assert.NotContains(t, h.prompt.asked, "Notes (required)")
	assert.Contains(t, h.prompt.asked, "Save issue type and labels as defaults?")

	out := h.out.String()
	assert.Contains(t, out, "Available types: Story, Bug")
	assert.Contains(t, out, "Available options: Core, Web")
	assert.Contains(t, out, "Warning: Required field 'Approver' (type: user) cannot be set automatically.")
	assert.Contains(t, out, "Created issue: ABC-9")
	assert.Contains(t, out, "https://jira.example.com/browse/ABC-9")

	data, err := os.ReadFile(filepath.Join(h.session.WS.RepoRoot, config.ProjectFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Bug")
	assert.Contains(t, string(data), "auth")
}

func TestCreateIssueKeepsDefaults(t *testing.T) {
	h := issueHarness(t)
	h.prompt.answers["Issue type"] = "Story"
	h.prompt.answers["Labels (comma-separated, optional)"] = ""

	_, err := h.session.CreateIssue(context.Background())
	require.NoError(t, err)

	assert.NotContains(t, h.prompt.asked, "Save issue type and labels as defaults?")
	_, err = os.Stat(filepath.Join(h.session.WS.RepoRoot, config.ProjectFile))
	assert.True(t, os.IsNotExist(err))
}

func TestCreateIssueSingleTypeAndBadPoints(t *testing.T) {
	h := issueHarness(t)
	h.tracker.issueTypes = []domain.IssueType{{Name: "Task"}}
	h.tracker.meta = nil
	h.prompt.answers["Story points (optional, press Enter to skip)"] = "lots"

	_, err := h.session.CreateIssue(context.Background())
	require.NoError(t, err)

	in := h.tracker.created[0]
	assert.Equal(t, "Task", in.IssueType)
	assert.Empty(t, in.Fields)
	assert.NotContains(t, h.prompt.asked, "Issue type")
	assert.Contains(t, h.out.String(), "Using issue type: Task")
	assert.Contains(t, h.out.String(), "Invalid story points value, skipping.")
}

func TestCreateIssueCustomFieldDefaults(t *testing.T) {
	h := issueHarness(t)
	h.session.WS.Config.Jira.IssueDefaults.CustomFields = map[string]any{
		"customfield_10016": int64(5),
		"customfield_200":   map[string]any{"value": "Core"},
	}
	delete(h.prompt.answers, "Story points (optional, press Enter to skip)")
	delete(h.prompt.answers, "Team (required)")

	_, err := h.session.CreateIssue(context.Background())
	require.NoError(t, err)

	in := h.tracker.created[0]
	assert.Equal(t, 5.0, in.Fields["customfield_10016"])
	assert.Equal(t, map[string]any{"value": "Core"}, in.Fields["customfield_200"])
}

func TestCreateIssueRequiresSummary(t *testing.T) {
	h := issueHarness(t)
	h.prompt.answers["Summary (required)"] = "  "

	_, err := h.session.CreateIssue(context.Background())
	assert.ErrorIs(t, err, ErrAborted)
	assert.Empty(t, h.tracker.created)
	assert.Contains(t, h.out.String(), "Summary is required. Cancelled.")
}

func TestCreateIssueRequiresTracker(t *testing.T) {
	h := issueHarness(t)
	h.session.Tracker = service.NoTracker{}

	_, err := h.session.CreateIssue(context.Background())
	assert.ErrorIs(t, err, service.ErrNotConfigured)

	h = issueHarness(t)
	h.session.WS.JiraProject = ""
	_, err = h.session.CreateIssue(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project key")
}

func TestStartNew(t *testing.T) {
	h := issueHarness(t)
	h.tracker.issue = &domain.Issue{Key: "ABC-9", Summary: "Add login"}
	h.onBranch("main")
	h.runner.AddResponse(gitPrefix+"rev-parse --verify ABC-9-add-login", failed("fatal"))

	res, err := h.session.StartNew(context.Background(), StartOptions{Transition: true})
	require.NoError(t, err)

	assert.Equal(t, "ABC-9-add-login", res.Branch)
	assert.True(t, res.Created)
	assert.Equal(t, []string{"ABC-9:In Progress"}, h.tracker.transitions)
}
