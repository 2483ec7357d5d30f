package main

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/joss/pwm/internal/ai"
	"github.com/joss/pwm/internal/config"
	"github.com/joss/pwm/internal/digest"
	"github.com/joss/pwm/internal/domain"
	"github.com/joss/pwm/internal/github"
	"github.com/joss/pwm/internal/jira"
	"github.com/joss/pwm/internal/provider"
	"github.com/joss/pwm/internal/render"
	"github.com/joss/pwm/internal/service"
	"github.com/joss/pwm/internal/workspace"
)

const sinceDisplay = "2006-01-02 15:04"

type summaryOptions struct {
	since     string
	format    string
	output    string
	showLinks bool
	noAI      bool
}

func dailySummaryCmd() *cobra.Command {
	var opts summaryOptions

	cmd := &cobra.Command{
		Use:   "daily-summary",
		Short: "Summarise pull requests and Jira issues since the previous business day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := resolveWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			return runDailySummary(cmd, ws, opts)
		},
	}

	cmd.Flags().StringVar(&opts.since, "since", "", "Start time (YYYY-MM-DD or \"YYYY-MM-DD HH:MM\"), default previous business day")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "Output format: markdown or text (default daily_summary.default_format)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write the summary to a file")
	cmd.Flags().BoolVar(&opts.showLinks, "show-links", false, "Show PR URLs and Jira links")
	cmd.Flags().BoolVar(&opts.noAI, "no-ai", false, "Skip the AI summary")
	return cmd
}

func runDailySummary(cmd *cobra.Command, ws *workspace.Context, opts summaryOptions) error {
	ctx := cmd.Context()
	out := render.NewWriter(cmd.OutOrStdout())
	cfg := ws.Config

	format := opts.format
	if format == "" {
		format = cfg.DailySummary.DefaultFormat
	}
	if format != "" && format != "markdown" && format != "text" {
		return errors.WithHint(errors.Newf("unknown format %q", format), "use markdown or text")
	}

	var since time.Time
	if opts.since == "" {
		since = digest.PreviousBusinessDay(time.Now())
		out.Info("Generating summary from previous business day...")
	} else {
		var err error
		if since, err = parseSince(opts.since); err != nil {
			return err
		}
		out.Info("Generating summary from %s...", since.Format(sinceDisplay))
	}
	out.Dim("Period: %s to now", since.Format(sinceDisplay))
	out.Line()

	host, err := github.FromConfig(cfg)
	if err != nil {
		return err
	}
	tracker := jira.FromConfig(cfg)
	if !host.Enabled() && !tracker.Enabled() {
		out.Warn("Warning: Neither GitHub nor Jira is configured.")
		out.Dim("Configure at least one service in .pwm.toml or ~/.config/pwm/config.toml")
		out.Line()
	}

	out.Info("Collecting data...")
	collector := newCollector(ws, cfg, host, tracker)
	data := collector.Collect(ctx, since)

	summary := ""
	if !opts.noAI {
		if s := ai.New(provider.FromConfig(cfg)); s.Enabled() {
			out.Info("Generating AI summary...")
			if summary = s.Daily(ctx, data); summary != "" {
				out.Success("AI summary generated")
			} else {
				out.Dim("No AI summary generated (insufficient data or API error)")
			}
		}
	}
	out.Line()

	fopts := digest.Options{ShowLinks: opts.showLinks}
	if opts.showLinks && tracker.Enabled() {
		fopts.JiraBaseURL = cfg.Jira.BaseURL
	}
	var text string
	if format == "text" {
		text = digest.FormatText(data, summary, fopts)
	} else {
		text = digest.FormatMarkdown(data, summary, fopts)
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, []byte(text), 0o644); err != nil {
			return errors.Wrapf(err, "write %s", opts.output)
		}
		out.Success("Summary saved to %s", opts.output)
	} else {
		out.Println("%s", text)
	}

	out.Line()
	out.Success("Summary complete!")
	for _, line := range digest.Stats(data) {
		out.Dim("%s", line)
	}
	return nil
}

// newCollector scopes the digest: the configured org wins over the
// repository, and the configured projects over the project key.
func newCollector(ws *workspace.Context, cfg *config.Config, host service.CodeHost, tracker service.Tracker) *digest.Collector {
	ds := cfg.DailySummary
	c := digest.NewCollector(host, tracker)
	c.Scope = domain.Scope{Org: ds.GitHubOrg}
	if c.Scope.Org == "" {
		c.Scope.Repo = ws.GitHubRepo
	}
	c.Projects = ds.JiraProjects
	if len(c.Projects) == 0 && ws.JiraProject != "" {
		c.Projects = []string{ws.JiraProject}
	}
	c.OwnPRs = ds.IncludeOwnPRsOnly
	c.OwnIssues = ds.IncludeOwnIssuesOnly
	return c
}
