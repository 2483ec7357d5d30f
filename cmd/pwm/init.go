package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/joss/pwm/internal/config"
	"github.com/joss/pwm/internal/git"
	"github.com/joss/pwm/internal/render"
	"github.com/joss/pwm/internal/tui"
	"github.com/joss/pwm/internal/workspace"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a .pwm.toml for this repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			root, err := workspace.FindRepoRoot(cwd)
			if err != nil {
				return err
			}

			out := render.NewWriter(cmd.OutOrStdout())
			cfg, _, err := config.Load(root)
			if err != nil {
				out.Warn("Ignoring current configuration: %v", err)
				def := config.Default()
				cfg = &def
			}
			return runInit(cmd.Context(), root, cfg, git.New(root, nil), tui.NewConsole(), out)
		},
	}
}

func runInit(ctx context.Context, root string, cfg *config.Config, repo *git.Repo, prompt tui.Prompter, out *render.Writer) error {
	path := filepath.Join(root, config.ProjectFile)
	if _, err := os.Stat(path); err == nil {
		overwrite, err := prompt.Confirm(fmt.Sprintf("%s already exists. Overwrite?", path), false)
		if err != nil {
			return err
		}
		if !overwrite {
			out.Warn("Aborted.")
			return nil
		}
	}

	inferred := repo.InferRepo(ctx, cfg.Remote())

	out.Info("Let's set up your project config...")
	var s config.ProjectSettings
	var err error
	if s.JiraProjectKey, err = prompt.Ask("Jira project key (e.g., ABC)", ""); err != nil {
		return err
	}
	if s.GitHubRepo, err = prompt.Ask("GitHub repo (org/repo)", inferred); err != nil {
		return err
	}
	if s.BranchPattern, err = prompt.Ask("Branch pattern", config.DefaultBranchPattern); err != nil {
		return err
	}

	written, err := config.WriteProject(root, s)
	if err != nil {
		return err
	}
	out.Success("Created %s", written)
	out.Dim("Detected repo root: %s", root)
	if inferred != "" {
		out.Dim("Detected remote: %s", inferred)
	}
	return nil
}
