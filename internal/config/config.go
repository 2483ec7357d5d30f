package config

// DefaultBranchPattern names branches after the issue key and a summary slug.
const DefaultBranchPattern = "{issue_key}-{slug}"

// Config is the merged settings tree.
type Config struct {
	Jira         JiraConfig         `json:"jira"`
	GitHub       GitHubConfig       `json:"github"`
	Git          GitConfig          `json:"git"`
	Branch       BranchConfig       `json:"branch"`
	OpenAI       OpenAIConfig       `json:"openai"`
	UI           UIConfig           `json:"ui"`
	DailySummary DailySummaryConfig `json:"daily_summary"`
}

type JiraConfig struct {
	BaseURL       string            `json:"base_url,omitempty"`
	Email         string            `json:"email,omitempty"`
	Token         string            `json:"token,omitempty"`
	ProjectKey    string            `json:"project_key,omitempty"`
	IssueDefaults JiraIssueDefaults `json:"issue_defaults"`
}

// JiraIssueDefaults pre-fills interactive issue creation.
type JiraIssueDefaults struct {
	IssueType    string         `json:"issue_type"`
	Labels       []string       `json:"labels"`
	CustomFields map[string]any `json:"custom_fields"`
}

type GitHubConfig struct {
	BaseURL    string           `json:"base_url,omitempty"`
	Token      string           `json:"token,omitempty"`
	DefaultOrg string           `json:"default_org,omitempty"`
	Repo       string           `json:"repo,omitempty"`
	PRDefaults GitHubPRDefaults `json:"pr_defaults"`
}

// GitHubPRDefaults lists reviewers requested by work-end --request-review.
type GitHubPRDefaults struct {
	Reviewers     []string `json:"reviewers"`
	TeamReviewers []string `json:"team_reviewers"`
}

type GitConfig struct {
	DefaultRemote string `json:"default_remote"`
}

type BranchConfig struct {
	Pattern string `json:"pattern"`
}

type OpenAIConfig struct {
	APIKey      string  `json:"api_key,omitempty"`
	BaseURL     string  `json:"base_url"`
	Model       string  `json:"model"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

type UIConfig struct {
	Editor string `json:"editor,omitempty"`
}

// DailySummaryConfig scopes and renders the daily digest.
type DailySummaryConfig struct {
	GitHubOrg            string   `json:"github_org,omitempty"`
	JiraProjects         []string `json:"jira_projects,omitempty"`
	IncludeOwnPRsOnly    bool     `json:"include_own_prs_only"`
	IncludeOwnIssuesOnly bool     `json:"include_own_issues_only"`
	DefaultFormat        string   `json:"default_format"`
}

// Default returns the built-in defaults layer.
func Default() Config {
	return Config{
		Jira: JiraConfig{
			IssueDefaults: JiraIssueDefaults{
				IssueType:    "Story",
				Labels:       []string{},
				CustomFields: map[string]any{},
			},
		},
		GitHub: GitHubConfig{
			PRDefaults: GitHubPRDefaults{
				Reviewers:     []string{},
				TeamReviewers: []string{},
			},
		},
		Git:    GitConfig{DefaultRemote: "origin"},
		Branch: BranchConfig{Pattern: DefaultBranchPattern},
		OpenAI: OpenAIConfig{
			BaseURL:     "https://api.openai.com/v1",
			Model:       "gpt-4o-mini",
			MaxTokens:   500,
			Temperature: 0.7,
		},
		DailySummary: DailySummaryConfig{
			IncludeOwnPRsOnly:    true,
			IncludeOwnIssuesOnly: true,
			DefaultFormat:        "markdown",
		},
	}
}

// Remote returns the configured git remote, defaulting to origin.
func (c *Config) Remote() string {
	if c.Git.DefaultRemote == "" {
		return "origin"
	}
	return c.Git.DefaultRemote
}

// JiraConfigured reports whether Jira credentials are complete.
func (c *Config) JiraConfigured() bool {
	return c.Jira.BaseURL != "" && c.Jira.Email != "" && c.Jira.Token != ""
}

// GitHubConfigured reports whether a GitHub token is present.
func (c *Config) GitHubConfigured() bool {
	return c.GitHub.Token != ""
}

// OpenAIConfigured reports whether a completion API key is present.
func (c *Config) OpenAIConfigured() bool {
	return c.OpenAI.APIKey != ""
}
