package main

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/joss/pwm/internal/workflow"
)

func workStartCmd() *cobra.Command {
	var (
		createNew    bool
		noTransition bool
		noComment    bool
	)

	cmd := &cobra.Command{
		Use:   "work-start [ISSUE-KEY]",
		Short: "Start work on a Jira issue",
		Long: `Create or switch to the branch for a Jira issue, move the issue to
In Progress and comment with the branch name.

Use --new to create the issue interactively first.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !createNew && len(args) == 0 {
				return errors.WithHint(errors.New("missing issue key"),
					"pass an issue key (pwm work-start ABC-123) or use --new")
			}

			ws, err := resolveWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			s, err := newSession(ws)
			if err != nil {
				return err
			}

			opts := workflow.StartOptions{Transition: !noTransition, Comment: !noComment}
			var res *workflow.StartResult
			if createNew {
				res, err = s.StartNew(cmd.Context(), opts)
			} else {
				opts.IssueKey = args[0]
				res, err = s.Start(cmd.Context(), opts)
			}
			if err != nil {
				return err
			}
			if res.BranchErr != nil {
				return errSilent
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&createNew, "new", false, "Create a new Jira issue interactively")
	cmd.Flags().BoolVar(&noTransition, "no-transition", false, "Do not transition the Jira issue")
	cmd.Flags().BoolVar(&noComment, "no-comment", false, "Do not add a Jira comment")
	return cmd
}

func workEndCmd() *cobra.Command {
	var opts workflow.EndOptions

	cmd := &cobra.Command{
		Use:   "work-end",
		Short: "Post a status update for the current branch",
		Long: `Summarise the commits since the last update and post it to the pull
request and the Jira issue. Optionally request the configured reviewers.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := resolveWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			s, err := newSession(ws)
			if err != nil {
				return err
			}
			_, err = s.End(cmd.Context(), opts)
			return err
		},
	}

	cmd.Flags().StringVarP(&opts.Message, "message", "m", "", "Custom status message")
	cmd.Flags().BoolVar(&opts.RequestReview, "request-review", false, "Request reviewers from github.pr_defaults")
	cmd.Flags().BoolVar(&opts.NoComment, "no-comment", false, "Do not comment anywhere")
	cmd.Flags().BoolVar(&opts.NoPRComment, "no-pr-comment", false, "Do not comment on the pull request")
	cmd.Flags().BoolVar(&opts.NoJiraComment, "no-jira-comment", false, "Do not comment on the Jira issue")
	cmd.Flags().BoolVar(&opts.UseAI, "ai", false, "Let the AI provider write the summary")
	return cmd
}
