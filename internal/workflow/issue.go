package workflow

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/joss/pwm/internal/config"
	"github.com/joss/pwm/internal/domain"
	"github.com/joss/pwm/internal/service"
	"github.com/joss/pwm/internal/tui"
)

// FallbackIssueTypes are offered when the project lists none.
var FallbackIssueTypes = []string{"Story", "Task", "Bug"}

var storyPointNames = []string{"story points", "storypoints", "story point estimate"}

// fields handled by the regular prompts
var standardFields = map[string]bool{
	"summary":     true,
	"description": true,
	"issuetype":   true,
	"project":     true,
	"labels":      true,
}

// IssueDraft is what the user entered.
type IssueDraft struct {
	Summary     string
	Description string
	IssueType   string
	Labels      []string
	Fields      map[string]any
}

// CreateIssue asks for the details of a new issue, creates it and offers
// to remember the chosen type and labels. It returns the new key.
func (s *Session) CreateIssue(ctx context.Context) (string, error) {
	project := s.WS.JiraProject
	if !s.Tracker.Enabled() {
		return "", errors.WithHint(errors.Wrap(service.ErrNotConfigured, "Jira"),
			"set PWM_JIRA_BASE_URL, PWM_JIRA_EMAIL and PWM_JIRA_TOKEN")
	}
	if project == "" {
		return "", errors.WithHint(errors.New("Jira project key not configured"),
			"run 'pwm init' or set jira.project_key in .pwm.toml")
	}

	defaults := s.WS.Config.Jira.IssueDefaults
	draft, err := s.promptIssue(ctx, project, defaults)
	if err != nil {
		return "", err
	}

	s.Out.Info("Creating issue...")
	key, err := s.Tracker.CreateIssue(ctx, domain.NewIssue{
		Project:     project,
		Summary:     draft.Summary,
		IssueType:   draft.IssueType,
		Description: draft.Description,
		Labels:      draft.Labels,
		Fields:      draft.Fields,
	})
	if err != nil {
		return "", errors.Wrap(err, "create issue")
	}
	s.Out.Success("Created issue: %s", key)
	s.Out.Dim("%s", s.Tracker.BrowseURL(key))

	defaultType := defaults.IssueType
	if defaultType == "" {
		defaultType = "Story"
	}
	if draft.IssueType != defaultType || !slices.Equal(draft.Labels, defaults.Labels) {
		save, err := s.Prompt.Confirm("Save issue type and labels as defaults?", true)
		if err == nil && save {
			path, err := config.SaveIssueDefaults(s.WS.RepoRoot, draft.IssueType, draft.Labels)
			if err != nil {
				s.Out.Warn("Could not save defaults: %v", err)
			} else {
				s.Out.Dim("Saved defaults to %s", path)
			}
		}
	}
	return key, nil
}

func (s *Session) promptIssue(ctx context.Context, project string, defaults config.JiraIssueDefaults) (*IssueDraft, error) {
	log := s.logger(ctx)
	s.Out.Info("Create new Jira issue")

	names := FallbackIssueTypes
	if types, err := s.Tracker.IssueTypes(ctx, project); err != nil {
		log.Debug("issue_types_failed", map[string]interface{}{"project": project, "error": err.Error()})
	} else if len(types) > 0 {
		names = make([]string, 0, len(types))
		for _, t := range types {
			names = append(names, t.Name)
		}
	}

	draft := &IssueDraft{Fields: map[string]any{}}

	summary, err := s.Prompt.Ask("Summary (required)", "")
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(summary) == "" {
		s.Out.Warn("Summary is required. Cancelled.")
		return nil, ErrAborted
	}
	draft.Summary = strings.TrimSpace(summary)

	if draft.Description, err = s.Prompt.Ask("Description (optional, press Enter to skip)", ""); err != nil {
		return nil, err
	}

	defaultType := names[0]
	if slices.Contains(names, defaults.IssueType) {
		defaultType = defaults.IssueType
	}
	if len(names) > 1 {
		s.Out.Dim("Available types: %s", strings.Join(names, ", "))
		if draft.IssueType, err = s.Prompt.Ask("Issue type", defaultType); err != nil {
			return nil, err
		}
	} else {
		draft.IssueType = defaultType
		s.Out.Dim("Using issue type: %s", draft.IssueType)
	}

	labels, err := s.Prompt.Ask("Labels (comma-separated, optional)", strings.Join(defaults.Labels, ","))
	if err != nil {
		return nil, err
	}
	draft.Labels = tui.SplitList(labels)

	points, pointsField, err := s.askStoryPoints(defaults.CustomFields)
	if err != nil {
		return nil, err
	}

	s.Out.Dim("Checking for required fields...")
	meta, err := s.Tracker.CreateMeta(ctx, project, draft.IssueType)
	if err != nil {
		log.Debug("create_meta_failed", map[string]interface{}{"project": project, "error": err.Error()})
	}

	if points != nil {
		for _, f := range meta {
			if f.Schema.Type == "number" && slices.Contains(storyPointNames, strings.ToLower(f.Name)) {
				draft.Fields[f.ID] = *points
				pointsField = f.ID
				break
			}
		}
	}

	for _, f := range meta {
		if standardFields[f.ID] || f.ID == pointsField || !f.Required {
			continue
		}
		if err := s.askField(f, defaults.CustomFields[f.ID], draft.Fields); err != nil {
			return nil, err
		}
	}
	return draft, nil
}

// askStoryPoints returns the entered estimate and the field id a numeric
// custom field default suggests for it.
func (s *Session) askStoryPoints(custom map[string]any) (*float64, string, error) {
	field, def := "", ""
	for _, id := range sortedKeys(custom) {
		if !strings.HasPrefix(id, "customfield_") {
			continue
		}
		if n, ok := number(custom[id]); ok {
			field = id
			if n != 0 {
				def = formatNumber(n)
			}
			break
		}
	}

	answer, err := s.Prompt.Ask("Story points (optional, press Enter to skip)", def)
	if err != nil {
		return nil, "", err
	}
	if strings.TrimSpace(answer) == "" {
		return nil, field, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(answer), 64)
	if err != nil {
		s.Out.Warn("Invalid story points value, skipping.")
		return nil, field, nil
	}
	return &v, field, nil
}

// askField prompts for one required field according to its schema.
func (s *Session) askField(f domain.FieldMeta, def any, out map[string]any) error {
	name := f.Name
	if name == "" {
		name = f.ID
	}

	switch {
	case f.Schema.Type == "string":
		d, _ := def.(string)
		v, err := s.Prompt.Ask(name+" (required)", d)
		if err != nil {
			return err
		}
		if strings.TrimSpace(v) != "" {
			out[f.ID] = v
		}

	case f.Schema.Type == "number":
		d := ""
		if n, ok := number(def); ok {
			d = formatNumber(n)
		}
		v, err := s.Prompt.Ask(name+" (required, numeric)", d)
		if err != nil {
			return err
		}
		if strings.TrimSpace(v) == "" {
			return nil
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			s.Out.Warn("Invalid numeric value for %s", name)
			return nil
		}
		out[f.ID] = n

	case f.Schema.Type == "option":
		if len(f.AllowedValues) == 0 {
			return nil
		}
		options := labels(f.AllowedValues)
		s.Out.Dim("Available options: %s", strings.Join(options, ", "))
		d := options[0]
		if m, ok := def.(map[string]any); ok {
			if v, ok := m["value"].(string); ok && v != "" {
				d = v
			}
		}
		v, err := s.Prompt.Ask(name+" (required)", d)
		if err != nil {
			return err
		}
		for _, av := range f.AllowedValues {
			if v != "" && (av.Value == v || av.Name == v) {
				out[f.ID] = map[string]any{"value": av.Label()}
				break
			}
		}

	case f.Schema.Type == "array" && f.Schema.Items == "option":
		if len(f.AllowedValues) == 0 {
			return nil
		}
		options := labels(f.AllowedValues)
		s.Out.Dim("Available options: %s", strings.Join(options, ", "))
		d := options[0]
		if list, ok := def.([]any); ok {
			var vals []string
			for _, item := range list {
				switch item := item.(type) {
				case map[string]any:
					v, _ := item["value"].(string)
					vals = append(vals, v)
				default:
					vals = append(vals, fmt.Sprint(item))
				}
			}
			d = strings.Join(vals, ",")
		}
		v, err := s.Prompt.Ask(name+" (comma-separated)", d)
		if err != nil {
			return err
		}
		if selected := tui.SplitList(v); len(selected) > 0 {
			values := make([]map[string]any, 0, len(selected))
			for _, sel := range selected {
				values = append(values, map[string]any{"value": sel})
			}
			out[f.ID] = values
		}

	default:
		s.Out.Warn("Warning: Required field '%s' (type: %s) cannot be set automatically.", name, f.Schema.Type)
		s.Out.Warn("You may need to update the issue manually in Jira.")
	}
	return nil
}

func labels(values []domain.AllowedValue) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, v.Label())
	}
	return out
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// StartNew creates an issue interactively and starts work on it.
func (s *Session) StartNew(ctx context.Context, opts StartOptions) (*StartResult, error) {
	key, err := s.CreateIssue(ctx)
	if err != nil {
		return nil, err
	}
	opts.IssueKey = key
	return s.Start(ctx, opts)
}
