package driven

import (
	"context"

	"github.com/ericfisherdev/reviewdesk/internal/domain/model"
)

// VCSClient defines the driven port for the version-control collaborator.
// Implementations run VCS operations against the session's working directory;
// the core never inspects repository internals directly.
type VCSClient interface {
	// HasUncommittedChanges reports whether the working tree or index holds
	// any uncommitted modifications.
	HasUncommittedChanges(ctx context.Context) (bool, error)
	// CurrentBranch returns the name of the currently checked-out branch.
	CurrentBranch(ctx context.Context) (string, error)
	// RemoteRepo returns the "owner/repo" slug of the configured remote.
	RemoteRepo(ctx context.Context) (string, error)
	// Fetch updates remote-tracking refs from the configured remote.
	Fetch(ctx context.Context) error
	// RemoteRef returns the remote-tracking ref for a branch name.
	RemoteRef(branch string) string

	// CreateBranch creates and switches to a new branch at startPoint.
	CreateBranch(ctx context.Context, name, startPoint string) error
	// SwitchBranch checks out an existing branch.
	SwitchBranch(ctx context.Context, name string) error
	// DeleteBranch removes a local branch. The branch must not be checked out.
	DeleteBranch(ctx context.Context, name string) error

	// ApplyChanges materializes ref's changes onto the working tree as
	// unstaged modifications, without creating a commit.
	ApplyChanges(ctx context.Context, ref string) error
	// ChangedFiles lists files that differ from baseRef, including untracked
	// files, with their change status.
	ChangedFiles(ctx context.Context, baseRef string) ([]model.ModifiedFile, error)
	// DiffFile returns the unified diff (zero context lines) for a single
	// file against the index. Empty output means the file is unchanged.
	DiffFile(ctx context.Context, path string) (string, error)
	// RevertFiles discards working-tree modifications to exactly the given
	// paths. Untracked files among them are removed.
	RevertFiles(ctx context.Context, files []model.ModifiedFile) error
	// ShowFileAt returns a file's content at a historical revision. Used for
	// previewing deleted files.
	ShowFileAt(ctx context.Context, ref, path string) (string, error)
}
