package model

import "time"

// Comment represents a review comment on a specific line of a file. Pending
// comments exist only inside an unsubmitted draft review and are visible only
// to their author.
type Comment struct {
	ID          int64
	Path        string
	Line        int
	Body        string
	Author      string
	Pending     bool
	InReplyToID *int64
	CreatedAt   time.Time
}

// PendingReviewDraft is the server-side container for comments authored before
// a verdict is submitted. At most one draft exists per review at any time; all
// of a session's pending comments attach to the same draft.
type PendingReviewDraft struct {
	ID       int64
	NodeID   string // GraphQL node ID, required for attaching comments.
	CommitID string
	Comments []Comment
}
