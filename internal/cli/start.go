package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start <pr-number>",
	Short: "Start reviewing a pull request",
	Long:  "Creates a review branch from the PR's base and materializes the PR's changes as unstaged modifications in the working tree. The working tree must be clean and no other review may be in progress.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		number, err := strconv.Atoi(args[0])
		if err != nil || number <= 0 {
			return fmt.Errorf("invalid PR number %q", args[0])
		}

		app, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.ctrl.StartReview(cmd.Context(), number); err != nil {
			return err
		}

		session := app.ctrl.Session()
		fmt.Fprintf(os.Stdout, "Reviewing PR #%d on branch %s (%d files changed)\n",
			session.ReviewID, session.ReviewBranch, len(session.ModifiedFiles))
		return nil
	},
}
