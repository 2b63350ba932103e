package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List open pull requests for this repository",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		prs, err := app.lister.ListOpenPullRequests(cmd.Context())
		if err != nil {
			return err
		}
		if len(prs) == 0 {
			fmt.Fprintln(os.Stdout, "No open pull requests.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "PR\tTITLE\tAUTHOR\tCHANGES\tVIEWED")
		for _, pr := range prs {
			title := pr.Title
			if pr.IsDraft {
				title = "[draft] " + title
			}
			fmt.Fprintf(w, "#%d\t%s\t%s\t+%d -%d\t%d/%d\n",
				pr.Number, title, pr.Author, pr.Additions, pr.Deletions, pr.ViewedFiles, pr.ChangedFiles)
		}
		return w.Flush()
	},
}
