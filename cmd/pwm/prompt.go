package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joss/pwm/internal/cache"
	"github.com/joss/pwm/internal/config"
	"github.com/joss/pwm/internal/jira"
	"github.com/joss/pwm/internal/logging"
	"github.com/joss/pwm/internal/prompt"
)

func promptCmd() *cobra.Command {
	var (
		withStatus bool
		format     string
		useColor   bool
	)

	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Print the current issue for a shell prompt",
		Long: `Print " <ISSUE-KEY>" for the current branch without a trailing newline.
Exits 1 silently outside a repository or on a branch without an issue key.

  PS1='$(pwm prompt --format emoji --with-status)'"$PS1"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f, err := prompt.ParseFormat(format)
			if err != nil {
				return err
			}

			ws, err := resolveWorkspace(ctx)
			if err != nil {
				return errSilent
			}
			branch, err := ws.Git.CurrentBranch(ctx)
			if err != nil {
				return errSilent
			}

			var src *prompt.StatusSource
			if withStatus {
				store := cache.NewFileStore(config.GetPaths().PromptCache)
				src = prompt.NewStatusSource(store, jira.FromConfig(ws.Config))
				shutdown.Register("prompt_cache_stats", func(ctx context.Context) error {
					hits, misses := store.Stats()
					logging.New("prompt").Debug("cache_stats", map[string]interface{}{"hits": hits, "misses": misses})
					return nil
				})
			}

			segment, ok := prompt.Segment(ctx, branch, prompt.Options{WithStatus: withStatus, Format: f, Color: useColor}, src)
			if !ok {
				return errSilent
			}
			fmt.Fprint(cmd.OutOrStdout(), segment)
			return nil
		},
	}

	cmd.Flags().BoolVar(&withStatus, "with-status", false, "Fetch and show the Jira status")
	cmd.Flags().StringVar(&format, "format", string(prompt.FormatDefault), "Output format: default, minimal or emoji")
	cmd.Flags().BoolVar(&useColor, "color", false, "Use ANSI colors")
	return cmd
}
