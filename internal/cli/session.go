package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/reviewdesk/internal/domain/model"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the active review session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		session := app.ctrl.Session()
		if session == nil {
			fmt.Fprintln(os.Stdout, "No review in progress.")
			return nil
		}

		fmt.Fprintf(os.Stdout, "Reviewing PR #%d\n", session.ReviewID)
		fmt.Fprintf(os.Stdout, "  branch:   %s (from %s)\n", session.ReviewBranch, session.PreviousBranch)
		fmt.Fprintf(os.Stdout, "  base:     %s\n", session.BaseBranch)
		fmt.Fprintf(os.Stdout, "  progress: %d/%d files viewed\n", session.ViewedCount(), len(session.ModifiedFiles))
		fmt.Fprintf(os.Stdout, "  started:  %s\n", session.StartedAt.Local().Format("2006-01-02 15:04"))
		return nil
	},
}

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "List the files changed by the PR under review",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		session := app.ctrl.Session()
		if session == nil {
			return fmt.Errorf("no review in progress")
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "\tSTATUS\tCHANGES\tPATH")
		for _, f := range session.ModifiedFiles {
			mark := " "
			if session.IsViewed(f.Path) {
				mark = "x"
			}
			fmt.Fprintf(w, "[%s]\t%s\t%s\t%s\n", mark, f.Status, formatStats(f.Stats), f.Path)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "\n%d/%d files viewed\n", session.ViewedCount(), len(session.ModifiedFiles))
		return nil
	},
}

func formatStats(s model.DiffStat) string {
	return fmt.Sprintf("+%d ~%d -%d", s.Additions, s.Modifications, s.Deletions)
}

var showCmd = &cobra.Command{
	Use:   "show <path>",
	Short: "Print a file's content on the PR's base branch",
	Long:  "Prints the base-branch version of a file. Useful for files the PR deletes, which have no working-tree content to open.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		content, err := app.ctrl.FileAtBase(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(os.Stdout, content)
		return nil
	},
}

var viewCmd = &cobra.Command{
	Use:   "view <path>",
	Short: "Mark a file as viewed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.ctrl.MarkViewed(cmd.Context(), args[0]); err != nil {
			return err
		}

		session := app.ctrl.Session()
		fmt.Fprintf(os.Stdout, "Viewed %s (%d/%d)\n", args[0], session.ViewedCount(), len(session.ModifiedFiles))
		return nil
	},
}
