package driven

import (
	"context"

	"github.com/ericfisherdev/reviewdesk/internal/domain/model"
)

// SessionStore persists one ReviewSession per working directory. Save
// overwrites the stored record wholesale; there are no partial updates.
type SessionStore interface {
	Save(ctx context.Context, session model.ReviewSession) error
	// Load returns the stored session for workingDirectory, or nil when none
	// exists. A stored record whose working directory does not match is
	// treated as no session; it is never applied to the wrong project.
	Load(ctx context.Context, workingDirectory string) (*model.ReviewSession, error)
	Delete(ctx context.Context, workingDirectory string) error
}
