package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/joss/pwm/internal/digest"
	"github.com/joss/pwm/internal/domain"
	"github.com/joss/pwm/internal/logging"
	"github.com/joss/pwm/pkg/llm"
)

const (
	// MaxPromptCommits caps the commits listed in a prompt.
	MaxPromptCommits = 10
	// MaxDailyItems caps the items listed per digest category.
	MaxDailyItems = 5

	maxBodyLen = 200
)

// FormatCommits renders commits as a bullet list for a prompt. Short
// bodies are kept on an indented line.
func FormatCommits(commits []domain.Commit, max int) string {
	if len(commits) == 0 {
		return "(no commits)"
	}
	var lines []string
	for i, c := range commits {
		if i >= max {
			break
		}
		lines = append(lines, "- "+c.Subject)
		if body := strings.TrimSpace(c.Body); body != "" && len(body) < maxBodyLen {
			lines = append(lines, "  "+body)
		}
	}
	if len(commits) > max {
		lines = append(lines, fmt.Sprintf("... and %d more commits", len(commits)-max))
	}
	return strings.Join(lines, "\n")
}

// Summarizer wraps a provider. Every method returns "" when no summary is
// available; provider failures are logged, never returned.
type Summarizer struct {
	provider llm.Provider
	log      *logging.Logger
}

// New creates a Summarizer. A nil provider disables it.
func New(p llm.Provider) *Summarizer {
	if p == nil {
		p = llm.Disabled{}
	}
	return &Summarizer{provider: p, log: logging.New("ai")}
}

// Enabled reports whether a provider is configured.
func (s *Summarizer) Enabled() bool {
	return s.provider.Enabled()
}

// PRDescription drafts a pull request description from commits.
func (s *Summarizer) PRDescription(ctx context.Context, commits []domain.Commit) string {
	if len(commits) == 0 {
		return ""
	}
	prompt := strings.Replace(PRDescriptionPrompt, "{commits}", FormatCommits(commits, MaxPromptCommits), 1)
	return s.complete(ctx, "pr_description", PRDescriptionSystem, prompt)
}

// WorkEnd drafts a status update from commits.
func (s *Summarizer) WorkEnd(ctx context.Context, commits []domain.Commit) string {
	if len(commits) == 0 {
		return ""
	}
	prompt := strings.Replace(WorkEndPrompt, "{commits}", FormatCommits(commits, MaxPromptCommits), 1)
	return s.complete(ctx, "work_end", WorkEndSystem, prompt)
}

// Daily drafts the digest summary paragraph.
func (s *Summarizer) Daily(ctx context.Context, data *digest.WorkSummaryData) string {
	if data == nil || data.Empty() {
		return ""
	}
	prompt := strings.NewReplacer(
		"{prs}", FormatDailyPRs(data),
		"{issues}", FormatDailyIssues(data),
	).Replace(DailyPrompt)
	return s.complete(ctx, "daily", DailySystem, prompt)
}

func (s *Summarizer) complete(ctx context.Context, use, system, prompt string) string {
	if !s.provider.Enabled() {
		return ""
	}
	text, err := s.provider.Complete(ctx, &llm.Request{SystemPrompt: system, Prompt: prompt})
	if err != nil {
		s.log.WithContext(ctx).Debug("summary_unavailable", map[string]interface{}{
			"use":   use,
			"error": err.Error(),
		})
		return ""
	}
	return text
}

// FormatDailyPRs lists pull requests per category for the daily prompt.
func FormatDailyPRs(d *digest.WorkSummaryData) string {
	var blocks []string
	for _, cat := range []struct {
		name string
		prs  []domain.PullRequest
	}{
		{"Opened", d.PRsOpened},
		{"Merged", d.PRsMerged},
		{"Closed", d.PRsClosed},
	} {
		if len(cat.prs) == 0 {
			continue
		}
		lines := []string{fmt.Sprintf("%s (%d):", cat.name, len(cat.prs))}
		for i, pr := range cat.prs {
			if i == MaxDailyItems {
				lines = append(lines, fmt.Sprintf("...and %d more", len(cat.prs)-MaxDailyItems))
				break
			}
			lines = append(lines, fmt.Sprintf("- #%d %s", pr.Number, pr.Title))
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	if len(blocks) == 0 {
		return "(none)"
	}
	return strings.Join(blocks, "\n")
}

// FormatDailyIssues lists issues per category for the daily prompt.
func FormatDailyIssues(d *digest.WorkSummaryData) string {
	var blocks []string
	for _, cat := range []struct {
		name   string
		issues []domain.Issue
	}{
		{"Created", d.IssuesCreated},
		{"Updated", d.IssuesUpdated},
	} {
		if len(cat.issues) == 0 {
			continue
		}
		lines := []string{fmt.Sprintf("%s (%d):", cat.name, len(cat.issues))}
		for i, is := range cat.issues {
			if i == MaxDailyItems {
				lines = append(lines, fmt.Sprintf("...and %d more", len(cat.issues)-MaxDailyItems))
				break
			}
			line := fmt.Sprintf("- %s: %s", is.Key, is.Summary)
			if is.Status != "" {
				line += " (" + is.Status + ")"
			}
			lines = append(lines, line)
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	if len(blocks) == 0 {
		return "(none)"
	}
	return strings.Join(blocks, "\n")
}
