package driven

import (
	"context"

	"github.com/ericfisherdev/reviewdesk/internal/domain/model"
)

// ReviewClient defines the driven port for the remote review service.
// Read methods fetch change-request data; write methods mutate comments,
// drafts, and the server-side viewed ledger.
type ReviewClient interface {
	// Read methods

	ListOpenPullRequests(ctx context.Context, repoFullName string) ([]model.PullRequest, error)
	// FetchPullRequest returns one PR's metadata including diff stats and
	// the viewer's server-side viewed-file count.
	FetchPullRequest(ctx context.Context, repoFullName string, number int) (*model.PullRequest, error)
	FetchComments(ctx context.Context, repoFullName string, number int) ([]model.Comment, error)

	// Write methods

	AddComment(ctx context.Context, repoFullName string, number int, path string, line int, body string) (model.Comment, error)
	EditComment(ctx context.Context, repoFullName string, commentID int64, body string) error
	DeleteComment(ctx context.Context, repoFullName string, commentID int64) error
	// ReplyToComment replies to an existing comment thread. commentID must be
	// the root comment of the thread.
	ReplyToComment(ctx context.Context, repoFullName string, number int, commentID int64, body string) error

	// Draft workflow. A PR has at most one open draft per author; when more
	// than one exists server-side (created by another client), FindPendingDraft
	// resolves to the first one returned by the service.

	// FindPendingDraft returns the viewer's open draft review for the PR, or
	// nil when none exists.
	FindPendingDraft(ctx context.Context, repoFullName string, number int) (*model.PendingReviewDraft, error)
	// CreateDraft opens a new draft review anchored to commitID.
	CreateDraft(ctx context.Context, repoFullName string, number int, commitID string) (*model.PendingReviewDraft, error)
	// AttachDraftComment adds a pending comment to an open draft.
	AttachDraftComment(ctx context.Context, draftNodeID string, path string, line int, body string) (model.Comment, error)
	// FetchDraftComments lists the pending comments attached to a draft.
	FetchDraftComments(ctx context.Context, repoFullName string, number int, draftID int64) ([]model.Comment, error)
	// SubmitDraft finalizes an open draft with a verdict, publishing all of
	// its pending comments.
	SubmitDraft(ctx context.Context, repoFullName string, number int, draftID int64, verdict model.Verdict, body string) error
	// SubmitReview submits a verdict directly when no draft exists.
	SubmitReview(ctx context.Context, repoFullName string, number int, verdict model.Verdict, body string) error

	// MarkFileViewed records the viewer's viewed state for a file server-side.
	MarkFileViewed(ctx context.Context, repoFullName string, number int, path string) error
}
