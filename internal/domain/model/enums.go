package model

// FileStatus represents how a file was changed relative to the base branch.
type FileStatus string

const (
	FileStatusAdded     FileStatus = "added"
	FileStatusModified  FileStatus = "modified"
	FileStatusDeleted   FileStatus = "deleted"
	FileStatusUntracked FileStatus = "untracked"
)

// SessionState represents where a review session is in its lifecycle.
type SessionState string

const (
	SessionStateNoReview   SessionState = "no_review"
	SessionStateReviewing  SessionState = "reviewing"
	SessionStateSubmitting SessionState = "submitting"
	SessionStateCleaningUp SessionState = "cleaning_up"
)

// Verdict is the result attached to a submitted review.
type Verdict string

const (
	VerdictApprove        Verdict = "approve"
	VerdictRequestChanges Verdict = "request_changes"
)
