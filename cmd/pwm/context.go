package main

import (
	"github.com/spf13/cobra"

	"github.com/joss/pwm/internal/render"
)

func contextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "context",
		Short: "Show the resolved project context",
		Long:  "Show the repository root, GitHub repo, Jira project and the config files in effect.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := resolveWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			render.NewWriter(cmd.OutOrStdout()).Table("pwm context", []string{"Key", "Value"}, [][]string{
				{"repo_root", ws.RepoRoot},
				{"github_repo", render.Placeholder(ws.GitHubRepo, "<unknown>")},
				{"jira_project", render.Placeholder(ws.JiraProject, "<unknown>")},
				{"user_config", render.Placeholder(ws.Meta.UserConfigPath, "<none>")},
				{"project_config", render.Placeholder(ws.Meta.ProjectConfigPath, "<none>")},
				{"config_source", ws.Meta.Source},
			})
			return nil
		},
	}
}
