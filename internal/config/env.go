// Package config provides centralized configuration management.
// Settings are layered from built-in defaults, the user file, the project
// file and the environment, in increasing precedence.
package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
)

// PWMEnv holds the environment variables pwm understands.
type PWMEnv struct {
	// JiraToken is the Jira API token (PWM_JIRA_TOKEN)
	JiraToken string

	// JiraBaseURL is the Jira site URL (PWM_JIRA_BASE_URL)
	JiraBaseURL string

	// JiraEmail is the Jira account email (PWM_JIRA_EMAIL)
	JiraEmail string

	// GitHubToken is the GitHub token (GITHUB_TOKEN, then PWM_GITHUB_TOKEN)
	GitHubToken string

	// OpenAIKey is the completion API key (PWM_OPENAI_API_KEY, then OPENAI_API_KEY)
	OpenAIKey string

	// LogLevel sets the minimum log level (PWM_LOG_LEVEL)
	LogLevel string
}

var (
	env     *PWMEnv
	envOnce sync.Once
)

// Env returns the singleton environment configuration.
// Thread-safe, loads once on first call.
func Env() *PWMEnv {
	envOnce.Do(func() {
		env = LoadEnv(GetPaths().EnvFile)
	})
	return env
}

// ResetEnv resets the cached environment (for testing).
func ResetEnv() {
	envOnce = sync.Once{}
	env = nil
}

// LoadEnv reads the process environment, falling back to values from the
// dotenv file at envFile. A missing or unreadable file is ignored.
func LoadEnv(envFile string) *PWMEnv {
	file := map[string]string{}
	if envFile != "" {
		if vals, err := godotenv.Read(envFile); err == nil {
			file = vals
		}
	}
	get := func(keys ...string) string {
		for _, k := range keys {
			if v := os.Getenv(k); v != "" {
				return v
			}
		}
		for _, k := range keys {
			if v := file[k]; v != "" {
				return v
			}
		}
		return ""
	}

	return &PWMEnv{
		JiraToken:   get("PWM_JIRA_TOKEN"),
		JiraBaseURL: get("PWM_JIRA_BASE_URL"),
		JiraEmail:   get("PWM_JIRA_EMAIL"),
		GitHubToken: get("GITHUB_TOKEN", "PWM_GITHUB_TOKEN"),
		OpenAIKey:   get("PWM_OPENAI_API_KEY", "OPENAI_API_KEY"),
		LogLevel:    get("PWM_LOG_LEVEL"),
	}
}

// Overrides returns the environment layer as a config tree. Only set
// variables appear, so the layer never clears values from files.
func (e *PWMEnv) Overrides() map[string]any {
	out := map[string]any{}
	set := func(table, key, val string) {
		if val == "" {
			return
		}
		t, ok := out[table].(map[string]any)
		if !ok {
			t = map[string]any{}
			out[table] = t
		}
		t[key] = val
	}
	set("jira", "token", e.JiraToken)
	set("jira", "base_url", e.JiraBaseURL)
	set("jira", "email", e.JiraEmail)
	set("github", "token", e.GitHubToken)
	set("openai", "api_key", e.OpenAIKey)
	return out
}

// Paths holds standard pwm file locations.
type Paths struct {
	// ConfigDir is the user config directory (~/.config/pwm)
	ConfigDir string

	// UserConfig lists user config candidates, first existing wins
	UserConfig []string

	// EnvFile is the dotenv file (~/.config/pwm/.env)
	EnvFile string

	// CacheDir is the cache directory (~/.cache/pwm)
	CacheDir string

	// PromptCache is the prompt status cache (~/.cache/pwm/prompt_cache.json)
	PromptCache string
}

var (
	paths     *Paths
	pathsOnce sync.Once
)

// GetPaths returns the singleton paths configuration.
func GetPaths() *Paths {
	pathsOnce.Do(func() {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		paths = PathsFor(home)
	})
	return paths
}

// PathsFor computes the standard locations below a home directory.
func PathsFor(home string) *Paths {
	configDir := filepath.Join(home, ".config", "pwm")
	cacheDir := filepath.Join(home, ".cache", "pwm")
	return &Paths{
		ConfigDir: configDir,
		UserConfig: []string{
			filepath.Join(configDir, "config.toml"),
			filepath.Join(configDir, "config.yaml"),
		},
		EnvFile:     filepath.Join(configDir, ".env"),
		CacheDir:    cacheDir,
		PromptCache: filepath.Join(cacheDir, "prompt_cache.json"),
	}
}
