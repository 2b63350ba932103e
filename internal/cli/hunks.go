package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagFromLine int
	flagNext     bool
	flagPrev     bool
)

var hunksCmd = &cobra.Command{
	Use:   "hunks <path>",
	Short: "Show a file's changed-line groups, or jump between them",
	Long:  "Without flags, lists the file's changed-line groups. With --next or --prev and --line, prints the start line of the neighboring group relative to the cursor, wrapping at either end.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagNext && flagPrev {
			return fmt.Errorf("--next and --prev are mutually exclusive")
		}

		app, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		path := args[0]
		tracker, err := app.ctrl.FileTracker(cmd.Context(), path)
		if err != nil {
			return err
		}

		groups := tracker.Groups()
		if len(groups) == 0 {
			fmt.Fprintf(os.Stdout, "No changes in %s\n", path)
			return nil
		}

		if flagNext || flagPrev {
			target, ok := tracker.NextGroup(flagFromLine)
			if flagPrev {
				target, ok = tracker.PrevGroup(flagFromLine)
			}
			if !ok {
				fmt.Fprintf(os.Stdout, "No changes in %s\n", path)
				return nil
			}
			fmt.Fprintf(os.Stdout, "%d\n", target.StartLine)
			return nil
		}

		current, hasCurrent := tracker.CurrentGroupIndex(flagFromLine)
		for i, g := range groups {
			marker := " "
			if hasCurrent && i == current {
				marker = ">"
			}
			if g.StartLine == g.EndLine {
				fmt.Fprintf(os.Stdout, "%s line %d\n", marker, g.StartLine)
			} else {
				fmt.Fprintf(os.Stdout, "%s lines %d-%d\n", marker, g.StartLine, g.EndLine)
			}
		}
		stats := tracker.Stats()
		fmt.Fprintf(os.Stdout, "%d groups, %s\n", len(groups), formatStats(stats))
		return nil
	},
}

func init() {
	hunksCmd.Flags().IntVar(&flagFromLine, "line", 1, "Cursor line in the new file")
	hunksCmd.Flags().BoolVar(&flagNext, "next", false, "Print the next group's start line")
	hunksCmd.Flags().BoolVar(&flagPrev, "prev", false, "Print the previous group's start line")
}
