// Package main provides the pwm CLI entrypoint.
package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/joss/pwm/internal/config"
	"github.com/joss/pwm/internal/logging"
	"github.com/joss/pwm/internal/render"
	"github.com/joss/pwm/internal/runtime"
)

var (
	version  = "0.1.0"
	verbose  bool
	shutdown *runtime.ShutdownManager
)

func main() {
	shutdown = runtime.NewShutdownManager(context.Background(), runtime.DefaultShutdownTimeout)
	shutdown.ListenForSignals()
	ctx := logging.WithRequestID(shutdown.Context(), "")

	rootCmd := &cobra.Command{
		Use:   "pwm",
		Short: "Personal Workflow Manager",
		Long: `pwm ties a git branch to a Jira issue and a GitHub pull request.

Typical loop:
  pwm work-start ABC-123   Create or switch to the issue branch
  pwm pr                   Push and open a pull request
  pwm work-end             Post a status update to the PR and the issue
  pwm daily-summary        Summarise yesterday's activity`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := logging.ParseLevel(config.Env().LogLevel)
			if verbose {
				level = logging.LevelDebug
			}
			logging.Setup(os.Stderr, level)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug events to stderr")

	rootCmd.AddGroup(
		&cobra.Group{ID: "work", Title: "Workflow:"},
		&cobra.Group{ID: "setup", Title: "Setup:"},
	)

	for _, cmd := range []*cobra.Command{workStartCmd(), prCmd(), workEndCmd(), dailySummaryCmd(), promptCmd()} {
		cmd.GroupID = "work"
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{initCmd(), contextCmd(), selfCheckCmd()} {
		cmd.GroupID = "setup"
		rootCmd.AddCommand(cmd)
	}
	rootCmd.AddCommand(versionCmd())

	err := logging.NewRecoveryHandler("cli").WrapError(func() error {
		return rootCmd.ExecuteContext(ctx)
	})
	shutdown.Shutdown()

	if err != nil {
		reportError(render.Stderr(), err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show pwm version",
		Run: func(cmd *cobra.Command, args []string) {
			render.NewWriter(cmd.OutOrStdout()).Println("pwm version %s", version)
		},
	}
}
