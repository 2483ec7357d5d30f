package digest

import (
	"fmt"
	"strings"

	"github.com/joss/pwm/internal/domain"
)

const (
	emptyMessage = "No work activity found for this period."
	rule         = 60
)

// Options tune rendering.
type Options struct {
	// ShowLinks renders issue keys as links and, in text mode, PR URLs.
	ShowLinks bool
	// JiraBaseURL is required for issue links.
	JiraBaseURL string
}

func (o Options) issueKey(key string, markdown bool) string {
	if !o.ShowLinks || o.JiraBaseURL == "" {
		return key
	}
	url := strings.TrimRight(o.JiraBaseURL, "/") + "/browse/" + key
	if markdown {
		return fmt.Sprintf("[%s](%s)", key, url)
	}
	return fmt.Sprintf("%s (%s)", key, url)
}

type prSection struct {
	name string
	prs  []domain.PullRequest
}

type issueSection struct {
	name       string
	issues     []domain.Issue
	withStatus bool
}

func (d *WorkSummaryData) prSections() []prSection {
	return []prSection{
		{"Opened", d.PRsOpened},
		{"Merged", d.PRsMerged},
		{"Closed", d.PRsClosed},
	}
}

func (d *WorkSummaryData) issueSections() []issueSection {
	return []issueSection{
		{"Created", d.IssuesCreated, false},
		{"Updated", d.IssuesUpdated, true},
	}
}

func issueLine(is domain.Issue, key string, withStatus bool) string {
	summary := is.Summary
	if summary == "" {
		summary = "No summary"
	}
	line := key + ": " + summary
	if withStatus {
		status := is.Status
		if status == "" {
			status = "Unknown"
		}
		line += " → " + status
	}
	return line
}

func prTitle(pr domain.PullRequest) string {
	if pr.Title == "" {
		return "Untitled"
	}
	return pr.Title
}

// FormatMarkdown renders the digest as markdown.
func FormatMarkdown(d *WorkSummaryData, summary string, opts Options) string {
	lines := []string{
		"# Daily Work Summary",
		"**Period:** " + FormatDateRange(d.Start, d.End),
		"",
	}
	if summary != "" {
		lines = append(lines, "## Summary", summary, "")
	}

	if d.PRCount() > 0 {
		lines = append(lines, "## Pull Requests", "")
		for _, s := range d.prSections() {
			if len(s.prs) == 0 {
				continue
			}
			lines = append(lines, fmt.Sprintf("### %s (%d)", s.name, len(s.prs)))
			for _, pr := range s.prs {
				if pr.URL != "" {
					lines = append(lines, fmt.Sprintf("- [#%d](%s) %s", pr.Number, pr.URL, prTitle(pr)))
				} else {
					lines = append(lines, fmt.Sprintf("- #%d %s", pr.Number, prTitle(pr)))
				}
			}
			lines = append(lines, "")
		}
	}

	if d.IssueCount() > 0 {
		lines = append(lines, "## Jira Issues", "")
		for _, s := range d.issueSections() {
			if len(s.issues) == 0 {
				continue
			}
			lines = append(lines, fmt.Sprintf("### %s (%d)", s.name, len(s.issues)))
			for _, is := range s.issues {
				lines = append(lines, "- "+issueLine(is, opts.issueKey(is.Key, true), s.withStatus))
			}
			lines = append(lines, "")
		}
	}

	if d.Empty() {
		lines = append(lines, emptyMessage, "")
	}
	return strings.Join(lines, "\n")
}

// FormatText renders the digest as plain text.
func FormatText(d *WorkSummaryData, summary string, opts Options) string {
	heavy := strings.Repeat("=", rule)
	light := strings.Repeat("-", rule)

	lines := []string{
		heavy,
		"DAILY WORK SUMMARY",
		heavy,
		"Period: " + FormatDateRange(d.Start, d.End),
		"",
	}
	if summary != "" {
		lines = append(lines, "SUMMARY", light, summary, "")
	}

	if d.PRCount() > 0 {
		lines = append(lines, "PULL REQUESTS", light)
		for _, s := range d.prSections() {
			if len(s.prs) == 0 {
				continue
			}
			lines = append(lines, fmt.Sprintf("%s (%d):", s.name, len(s.prs)))
			for _, pr := range s.prs {
				lines = append(lines, fmt.Sprintf("  • #%d %s", pr.Number, prTitle(pr)))
				if opts.ShowLinks && pr.URL != "" {
					lines = append(lines, "    "+pr.URL)
				}
			}
			lines = append(lines, "")
		}
	}

	if d.IssueCount() > 0 {
		lines = append(lines, "JIRA ISSUES", light)
		for _, s := range d.issueSections() {
			if len(s.issues) == 0 {
				continue
			}
			lines = append(lines, fmt.Sprintf("%s (%d):", s.name, len(s.issues)))
			for _, is := range s.issues {
				lines = append(lines, "  • "+issueLine(is, opts.issueKey(is.Key, false), s.withStatus))
			}
			lines = append(lines, "")
		}
	}

	if d.Empty() {
		lines = append(lines, emptyMessage, "")
	}
	lines = append(lines, heavy)
	return strings.Join(lines, "\n")
}

// Stats renders the two-line count footer.
func Stats(d *WorkSummaryData) []string {
	return []string{
		fmt.Sprintf("PRs: %d (opened: %d, merged: %d, closed: %d)",
			d.PRCount(), len(d.PRsOpened), len(d.PRsMerged), len(d.PRsClosed)),
		fmt.Sprintf("Jira: %d (created: %d, updated: %d)",
			d.IssueCount(), len(d.IssuesCreated), len(d.IssuesUpdated)),
	}
}
