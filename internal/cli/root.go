// Package cli implements the reviewdesk command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:           "reviewdesk",
	Short:         "Local-first pull request review workflow",
	Long:          "Reviewdesk checks a pull request's changes out as unstaged modifications on a scratch branch, tracks review progress per file, and manages draft review comments through to submission.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Run executes the root command and returns a process exit code.
func Run() int {
	rootCmd.AddCommand(
		startCmd,
		listCmd,
		statusCmd,
		filesCmd,
		hunksCmd,
		showCmd,
		viewCmd,
		commentCmd,
		pendingCmd,
		submitCmd,
		cleanupCmd,
		versionCmd,
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "reviewdesk: %v\n", err)
		return 1
	}
	return 0
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print reviewdesk version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "reviewdesk version %s\n", version)
	},
}
