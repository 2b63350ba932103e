package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/reviewdesk/internal/domain/model"
)

var (
	flagApprove        bool
	flagRequestChanges bool
	flagBody           string
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit the review with a verdict",
	Long:  "Submits the review, publishing any pending comments attached to the draft. Requesting changes requires --body; an approval body is optional.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagApprove == flagRequestChanges {
			return fmt.Errorf("exactly one of --approve or --request-changes is required")
		}

		verdict := model.VerdictApprove
		if flagRequestChanges {
			verdict = model.VerdictRequestChanges
		}

		app, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.ctrl.SubmitReview(cmd.Context(), verdict, flagBody); err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "Review submitted: %s\n", verdict)
		return nil
	},
}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "End the review and restore the previous branch",
	Long:  "Reverts the PR's materialized changes, switches back to the branch that was checked out before the review started, deletes the review branch, and removes the persisted session.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		session := app.ctrl.Session()
		if err := app.ctrl.Cleanup(cmd.Context()); err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "Review of PR #%d cleaned up, back on %s\n",
			session.ReviewID, session.PreviousBranch)
		return nil
	},
}

func init() {
	submitCmd.Flags().BoolVar(&flagApprove, "approve", false, "Approve the changes")
	submitCmd.Flags().BoolVar(&flagRequestChanges, "request-changes", false, "Request changes")
	submitCmd.Flags().StringVar(&flagBody, "body", "", "Review summary body")
}
