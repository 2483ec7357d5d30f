package main

import (
	"github.com/spf13/cobra"

	"github.com/joss/pwm/internal/workflow"
)

func prCmd() *cobra.Command {
	var noAI, noBrowser bool

	cmd := &cobra.Command{
		Use:   "pr",
		Short: "Open or create the pull request for the current branch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := resolveWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			s, err := newSession(ws)
			if err != nil {
				return err
			}
			_, err = s.OpenPR(cmd.Context(), workflow.PROptions{UseAI: !noAI, OpenBrowser: !noBrowser})
			return err
		},
	}

	cmd.Flags().BoolVar(&noAI, "no-ai", false, "Skip the AI summary in the description")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "Do not open the pull request in a browser")
	return cmd
}
