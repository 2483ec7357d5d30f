package config

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
)

// ProjectSettings is what pwm init records for a repository.
type ProjectSettings struct {
	JiraProjectKey string
	GitHubRepo     string
	BranchPattern  string
}

// WriteProject writes settings as a fresh project file under root.
func WriteProject(root string, s ProjectSettings) (string, error) {
	tree := map[string]any{}
	if s.JiraProjectKey != "" {
		tree["jira"] = map[string]any{"project_key": s.JiraProjectKey}
	}
	if s.GitHubRepo != "" {
		tree["github"] = map[string]any{"repo": s.GitHubRepo}
	}
	if s.BranchPattern != "" {
		tree["branch"] = map[string]any{"pattern": s.BranchPattern}
	}
	path := filepath.Join(root, ProjectFile)
	return path, writeTOML(path, "# pwm project configuration\n", tree)
}

// SaveIssueDefaults updates [jira.issue_defaults] in the project file under
// root, keeping every other setting.
func SaveIssueDefaults(root, issueType string, labels []string) (string, error) {
	path := filepath.Join(root, ProjectFile)
	tree := map[string]any{}
	if _, err := os.Stat(path); err == nil {
		existing, err := ReadFile(path)
		if err != nil {
			return "", err
		}
		tree = existing
	}

	jira, _ := tree["jira"].(map[string]any)
	if jira == nil {
		jira = map[string]any{}
	}
	defaults, _ := jira["issue_defaults"].(map[string]any)
	if defaults == nil {
		defaults = map[string]any{}
	}
	defaults["issue_type"] = issueType
	if len(labels) > 0 {
		defaults["labels"] = labels
	} else {
		delete(defaults, "labels")
	}
	jira["issue_defaults"] = defaults
	tree["jira"] = jira

	return path, writeTOML(path, "", tree)
}

func writeTOML(path, header string, tree map[string]any) error {
	var buf bytes.Buffer
	buf.WriteString(header)
	if err := toml.NewEncoder(&buf).Encode(tree); err != nil {
		return errors.Wrap(err, "encode project config")
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}
