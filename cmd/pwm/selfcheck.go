package main

import (
	"github.com/spf13/cobra"

	"github.com/joss/pwm/internal/github"
	"github.com/joss/pwm/internal/jira"
	"github.com/joss/pwm/internal/provider"
	"github.com/joss/pwm/internal/render"
	"github.com/joss/pwm/internal/selftest"
)

func selfCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "self-check",
		Short: "Check git, Jira, GitHub and OpenAI connectivity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ws, resolveErr := resolveWorkspace(ctx)

			var c selftest.Collaborators
			if ws != nil {
				host, err := github.FromConfig(ws.Config)
				if err != nil {
					return err
				}
				c = selftest.Collaborators{
					Tracker:  jira.FromConfig(ws.Config),
					Host:     host,
					Provider: provider.FromConfig(ws.Config),
				}
			}

			report := selftest.Run(ctx, selftest.Probes(ws, resolveErr, c))
			render.NewWriter(cmd.OutOrStdout()).Table("pwm self-check", []string{"Check", "Status", "Hint"}, report.Rows())
			if !report.OK() {
				return errSilent
			}
			return nil
		},
	}
}
