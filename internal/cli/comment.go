package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/reviewdesk/internal/application"
)

var flagPending bool

var commentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Work with review comments",
}

var commentAddCmd = &cobra.Command{
	Use:   "add <path> <line> <body>",
	Short: "Add a line comment",
	Long:  "Publishes a line comment immediately. With --pending the comment is attached to the draft review instead and stays invisible to others until the review is submitted.",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		line, err := strconv.Atoi(args[1])
		if err != nil || line <= 0 {
			return fmt.Errorf("invalid line number %q", args[1])
		}
		body := strings.Join(args[2:], " ")

		comments, err := sessionComments(cmd)
		if err != nil {
			return err
		}

		if flagPending {
			c, err := comments.AddPendingComment(cmd.Context(), args[0], line, body)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "Pending comment %d on %s:%d\n", c.ID, c.Path, c.Line)
			return nil
		}

		c, err := comments.AddComment(cmd.Context(), args[0], line, body)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Comment %d published on %s:%d\n", c.ID, c.Path, c.Line)
		return nil
	},
}

var commentListCmd = &cobra.Command{
	Use:   "list <path>",
	Short: "List published comments on a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		comments, err := sessionComments(cmd)
		if err != nil {
			return err
		}

		found, err := comments.CommentsForFile(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(found) == 0 {
			fmt.Fprintf(os.Stdout, "No comments on %s\n", args[0])
			return nil
		}
		for _, c := range found {
			fmt.Fprintf(os.Stdout, "[%d] %s:%d @%s: %s\n", c.ID, c.Path, c.Line, c.Author, c.Body)
		}
		return nil
	},
}

var commentEditCmd = &cobra.Command{
	Use:   "edit <comment-id> <body>",
	Short: "Edit a published comment",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid comment id %q", args[0])
		}

		comments, err := sessionComments(cmd)
		if err != nil {
			return err
		}
		if err := comments.EditComment(cmd.Context(), id, strings.Join(args[1:], " ")); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Comment %d updated\n", id)
		return nil
	},
}

var commentDeleteCmd = &cobra.Command{
	Use:   "delete <comment-id>",
	Short: "Delete a published comment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid comment id %q", args[0])
		}

		comments, err := sessionComments(cmd)
		if err != nil {
			return err
		}
		if err := comments.DeleteComment(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Comment %d deleted\n", id)
		return nil
	},
}

var commentReplyCmd = &cobra.Command{
	Use:   "reply <comment-id> <body>",
	Short: "Reply to a comment thread",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid comment id %q", args[0])
		}

		comments, err := sessionComments(cmd)
		if err != nil {
			return err
		}
		if err := comments.ReplyToComment(cmd.Context(), id, strings.Join(args[1:], " ")); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Reply posted to comment %d\n", id)
		return nil
	},
}

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List the draft review's pending comments",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		comments, err := sessionComments(cmd)
		if err != nil {
			return err
		}

		found, err := comments.PendingComments(cmd.Context())
		if err != nil {
			return err
		}
		if len(found) == 0 {
			fmt.Fprintln(os.Stdout, "No pending comments.")
			return nil
		}
		for _, c := range found {
			fmt.Fprintf(os.Stdout, "[%d] %s:%d: %s\n", c.ID, c.Path, c.Line, c.Body)
		}
		fmt.Fprintf(os.Stdout, "%d pending comments\n", len(found))
		return nil
	},
}

// sessionComments wires the app and returns the active session's comment
// workflow. The database handle is closed after command execution finishes.
func sessionComments(cmd *cobra.Command) (*application.CommentService, error) {
	app, err := newApp(cmd.Context())
	if err != nil {
		return nil, err
	}
	cobra.OnFinalize(app.Close)
	return app.ctrl.Comments()
}

func init() {
	commentAddCmd.Flags().BoolVar(&flagPending, "pending", false, "Attach to the draft review instead of publishing")
	commentCmd.AddCommand(commentAddCmd, commentListCmd, commentEditCmd, commentDeleteCmd, commentReplyCmd)
}
