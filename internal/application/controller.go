// Package application contains use-case orchestration services: the review
// session state machine, the comment workflow, and PR listing.
package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ericfisherdev/reviewdesk/internal/diff"
	"github.com/ericfisherdev/reviewdesk/internal/domain/model"
	"github.com/ericfisherdev/reviewdesk/internal/domain/port/driven"
)

// Precondition violations are rejected synchronously with these sentinels;
// the operation is never attempted and session state is left unchanged.
var (
	ErrReviewInProgress = errors.New("a review is already in progress for this working directory")
	ErrNoActiveReview   = errors.New("no review is in progress")
	ErrDirtyWorkingTree = errors.New("working tree has uncommitted changes")
	ErrNotReviewBranch  = errors.New("current branch is not a review branch")
	ErrBodyRequired     = errors.New("requesting changes requires a non-empty body")
)

// Controller owns the one active review session for a working directory and
// drives its lifecycle: start, track progress, submit, clean up. All mutation
// goes through the controller's lock; completions of calls dispatched outside
// the lock re-check the session generation before touching any cache, so a
// result that arrives after cleanup is dropped rather than applied to the
// wrong session.
type Controller struct {
	vcs          driven.VCSClient
	remote       driven.ReviewClient
	store        driven.SessionStore
	workDir      string
	branchPrefix string

	mu         sync.Mutex
	state      model.SessionState
	session    *model.ReviewSession
	repo       string // owner/repo slug, resolved when a session starts or resumes.
	generation uint64
	trackers   map[string]*diff.Tracker
	comments   *CommentService
}

// NewController creates a Controller for the given working directory.
// branchPrefix is the naming convention for review branches; cleanup refuses
// to run on branches that do not carry it.
func NewController(vcs driven.VCSClient, remote driven.ReviewClient, store driven.SessionStore, workDir, branchPrefix string) *Controller {
	return &Controller{
		vcs:          vcs,
		remote:       remote,
		store:        store,
		workDir:      workDir,
		branchPrefix: branchPrefix,
		state:        model.SessionStateNoReview,
		trackers:     map[string]*diff.Tracker{},
	}
}

// State returns the session lifecycle state.
func (c *Controller) State() model.SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Session returns a copy of the active session, or nil when none exists.
func (c *Controller) Session() *model.ReviewSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	copied := *c.session
	return &copied
}

// Resume restores a previously persisted session for this working directory.
// No session on disk is a normal outcome; an active in-memory session is not
// replaced.
func (c *Controller) Resume(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		return ErrReviewInProgress
	}

	stored, err := c.store.Load(ctx, c.workDir)
	if err != nil {
		return fmt.Errorf("loading persisted session: %w", err)
	}
	if stored == nil {
		return nil
	}

	repo, err := c.vcs.RemoteRepo(ctx)
	if err != nil {
		return fmt.Errorf("resolving repository for resumed session: %w", err)
	}

	c.session = stored
	c.repo = repo
	c.state = model.SessionStateReviewing
	c.comments = NewCommentService(c.remote, repo, stored.ReviewID, stored.HeadSHA)

	slog.Info("review session resumed",
		"pr", stored.ReviewID,
		"branch", stored.ReviewBranch,
		"files", len(stored.ModifiedFiles),
	)
	return nil
}

// StartReview begins reviewing the given PR: it verifies the working tree is
// clean, fetches remote refs, creates a review branch from the PR's base, and
// materializes the PR's changes as unstaged modifications. On success the
// session is persisted and the controller transitions to Reviewing.
//
// Collaborator failures leave no session behind; partially created branches
// are rolled back best-effort so a retry starts clean.
func (c *Controller) StartReview(ctx context.Context, number int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		return ErrReviewInProgress
	}

	dirty, err := c.vcs.HasUncommittedChanges(ctx)
	if err != nil {
		return fmt.Errorf("checking working tree: %w", err)
	}
	if dirty {
		return ErrDirtyWorkingTree
	}

	repo, err := c.vcs.RemoteRepo(ctx)
	if err != nil {
		return fmt.Errorf("resolving repository: %w", err)
	}

	pr, err := c.remote.FetchPullRequest(ctx, repo, number)
	if err != nil {
		return fmt.Errorf("fetching PR %d: %w", number, err)
	}

	previousBranch, err := c.vcs.CurrentBranch(ctx)
	if err != nil {
		return fmt.Errorf("resolving current branch: %w", err)
	}

	if err := c.vcs.Fetch(ctx); err != nil {
		return fmt.Errorf("fetching remote refs: %w", err)
	}

	reviewBranch := fmt.Sprintf("%spr-%d", c.branchPrefix, number)
	if err := c.vcs.CreateBranch(ctx, reviewBranch, c.vcs.RemoteRef(pr.BaseBranch)); err != nil {
		return fmt.Errorf("creating review branch %s: %w", reviewBranch, err)
	}

	if err := c.vcs.ApplyChanges(ctx, c.vcs.RemoteRef(pr.Branch)); err != nil {
		c.rollbackBranch(ctx, previousBranch, reviewBranch, nil)
		return fmt.Errorf("applying changes from %s: %w", pr.Branch, err)
	}

	files, err := c.vcs.ChangedFiles(ctx, "HEAD")
	if err != nil {
		c.rollbackBranch(ctx, previousBranch, reviewBranch, nil)
		return fmt.Errorf("listing changed files: %w", err)
	}

	c.trackers = map[string]*diff.Tracker{}
	c.populateStats(ctx, files)

	session := &model.ReviewSession{
		ReviewID:         number,
		PreviousBranch:   previousBranch,
		ReviewBranch:     reviewBranch,
		BaseBranch:       pr.BaseBranch,
		HeadSHA:          pr.HeadSHA,
		WorkingDirectory: c.workDir,
		ModifiedFiles:    files,
		ViewedFiles:      map[string]bool{},
		StartedAt:        time.Now().UTC(),
	}

	if err := c.store.Save(ctx, *session); err != nil {
		c.rollbackBranch(ctx, previousBranch, reviewBranch, files)
		return fmt.Errorf("persisting session: %w", err)
	}

	c.session = session
	c.repo = repo
	c.state = model.SessionStateReviewing
	c.comments = NewCommentService(c.remote, repo, number, pr.HeadSHA)

	slog.Info("review started",
		"pr", number,
		"branch", reviewBranch,
		"base", pr.BaseBranch,
		"files", len(files),
	)
	return nil
}

// rollbackBranch undoes a partially started review so a retry begins from a
/// clean state: revert whatever got materialized, switch back, delete the
// branch. files is the change set already listed by the caller; nil means it
// was never listed, in which case the tree is queried directly. Failures are
// logged, not returned; the original error wins.
func (c *Controller) rollbackBranch(ctx context.Context, previousBranch, reviewBranch string, files []model.ModifiedFile) {
	if files == nil {
		listed, err := c.vcs.ChangedFiles(ctx, "HEAD")
		if err != nil {
			slog.Warn("rollback: listing files to revert failed", "error", err)
		} else {
			files = listed
		}
	}
	if len(files) > 0 {
		if err := c.vcs.RevertFiles(ctx, files); err != nil {
			slog.Warn("rollback: reverting files failed", "error", err)
		}
	}
	if err := c.vcs.SwitchBranch(ctx, previousBranch); err != nil {
		slog.Warn("rollback: switching branch failed", "branch", previousBranch, "error", err)
		return
	}
	if err := c.vcs.DeleteBranch(ctx, reviewBranch); err != nil {
		slog.Warn("rollback: deleting review branch failed", "branch", reviewBranch, "error", err)
	}
}

// populateStats computes per-file diff stats with one concurrent fetch per
// file, joined before returning; callers never observe partial results. A
// failed fetch leaves that file's stats at their zero value rather than
// failing the whole operation. Trackers built along the way are kept for
// later navigation queries.
func (c *Controller) populateStats(ctx context.Context, files []model.ModifiedFile) {
	// c.mu is held by StartReview; a local mutex serializes the workers'
	// writes into the tracker cache.
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	for i := range files {
		wg.Add(1)
		go func(f *model.ModifiedFile) {
			defer wg.Done()

			tracker, err := c.buildTracker(ctx, *f)
			if err != nil {
				slog.Warn("diff stats unavailable, defaulting to zero", "path", f.Path, "error", err)
				return
			}

			f.Stats = tracker.Stats()

			mu.Lock()
			c.trackers[f.Path] = tracker
			mu.Unlock()
		}(&files[i])
	}

	wg.Wait()
}

// buildTracker parses one file's diff into a Tracker. An untracked file has
// no diff; it is represented as a single anchor group at line 1 with zero
// stats.
func (c *Controller) buildTracker(ctx context.Context, f model.ModifiedFile) (*diff.Tracker, error) {
	if f.Status == model.FileStatusUntracked {
		return diff.NewTracker([]model.Hunk{{OldStart: 1, OldCount: 1, NewStart: 1, NewCount: 1}}), nil
	}

	text, err := c.vcs.DiffFile(ctx, f.Path)
	if err != nil {
		return nil, err
	}
	return diff.NewTracker(diff.ParseUnified(text)), nil
}

// FileTracker returns the navigation tracker for a modified file, building it
// from the file's diff on first use. The diff runs outside the lock; the
// result is cached only if the session that requested it is still current.
func (c *Controller) FileTracker(ctx context.Context, path string) (*diff.Tracker, error) {
	c.mu.Lock()
	if c.session == nil {
		c.mu.Unlock()
		return nil, ErrNoActiveReview
	}
	if t, ok := c.trackers[path]; ok {
		c.mu.Unlock()
		return t, nil
	}
	file := c.session.FileByPath(path)
	gen := c.generation
	c.mu.Unlock()

	var f model.ModifiedFile
	if file != nil {
		f = *file
	} else {
		f = model.ModifiedFile{Path: path, Status: model.FileStatusModified}
	}

	tracker, err := c.buildTracker(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("building tracker for %s: %w", path, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen {
		// Session ended while the diff was in flight; do not repopulate caches.
		slog.Debug("dropping stale tracker result", "path", path)
		return tracker, nil
	}
	c.trackers[path] = tracker
	return tracker, nil
}

// MarkViewed records that the reviewer has finished a file. It is idempotent
// and persists the session before returning. The server-side viewed mark is
// pushed best-effort: a push failure is logged and does not undo the local
// mark.
func (c *Controller) MarkViewed(ctx context.Context, path string) error {
	c.mu.Lock()
	if c.session == nil {
		c.mu.Unlock()
		return ErrNoActiveReview
	}

	if c.session.ViewedFiles[path] {
		c.mu.Unlock()
		return nil
	}

	c.session.ViewedFiles[path] = true
	if f := c.session.FileByPath(path); f != nil {
		f.Viewed = true
	}
	snapshot := *c.session
	repo, number := c.repo, c.session.ReviewID
	gen := c.generation
	c.mu.Unlock()

	if err := c.store.Save(ctx, snapshot); err != nil {
		c.mu.Lock()
		if c.generation == gen && c.session != nil {
			delete(c.session.ViewedFiles, path)
			if f := c.session.FileByPath(path); f != nil {
				f.Viewed = false
			}
		}
		c.mu.Unlock()
		return fmt.Errorf("persisting viewed state for %s: %w", path, err)
	}

	if err := c.remote.MarkFileViewed(ctx, repo, number, path); err != nil {
		slog.Warn("server-side viewed mark failed", "path", path, "error", err)
	}

	return nil
}

// FileAtBase returns a file's content on the PR's base branch. Deleted files
// have no working-tree content; this is how they are previewed.
func (c *Controller) FileAtBase(ctx context.Context, path string) (string, error) {
	c.mu.Lock()
	if c.session == nil {
		c.mu.Unlock()
		return "", ErrNoActiveReview
	}
	base := c.session.BaseBranch
	c.mu.Unlock()

	content, err := c.vcs.ShowFileAt(ctx, c.vcs.RemoteRef(base), path)
	if err != nil {
		return "", fmt.Errorf("reading %s at %s: %w", path, base, err)
	}
	return content, nil
}

// Comments returns the comment workflow for the active session.
func (c *Controller) Comments() (*CommentService, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.comments == nil {
		return nil, ErrNoActiveReview
	}
	return c.comments, nil
}

// SubmitReview submits the review with a verdict. Requesting changes requires
// a non-empty body; an approval body is optional. Pending comments already
// attached to the open draft are published with it. Failure leaves the
// session in Reviewing so the submit can be retried.
func (c *Controller) SubmitReview(ctx context.Context, verdict model.Verdict, body string) error {
	c.mu.Lock()
	if c.session == nil {
		c.mu.Unlock()
		return ErrNoActiveReview
	}
	if verdict == model.VerdictRequestChanges && strings.TrimSpace(body) == "" {
		c.mu.Unlock()
		return ErrBodyRequired
	}

	c.state = model.SessionStateSubmitting
	repo, number := c.repo, c.session.ReviewID
	comments := c.comments
	c.mu.Unlock()

	err := comments.submitWithVerdict(ctx, verdict, body)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = model.SessionStateReviewing
	if err != nil {
		return fmt.Errorf("submitting review for %s#%d: %w", repo, number, err)
	}

	slog.Info("review submitted", "pr", number, "verdict", string(verdict))
	return nil
}

// Cleanup tears the session down: it reverts exactly the tracked modified
// files, deletes the review branch, restores the previous branch, and removes
// the persisted session. It refuses to run unless the current branch carries
// the review-branch prefix; this is the safety rail against deleting the
// wrong branch.
func (c *Controller) Cleanup(ctx context.Context) error {
	c.mu.Lock()
	if c.session == nil {
		c.mu.Unlock()
		return ErrNoActiveReview
	}

	session := *c.session
	c.state = model.SessionStateCleaningUp
	c.mu.Unlock()

	fail := func(err error) error {
		c.mu.Lock()
		c.state = model.SessionStateReviewing
		c.mu.Unlock()
		return err
	}

	branch, err := c.vcs.CurrentBranch(ctx)
	if err != nil {
		return fail(fmt.Errorf("resolving current branch: %w", err))
	}
	if !strings.HasPrefix(branch, c.branchPrefix) {
		return fail(fmt.Errorf("%w: on %q, expected prefix %q", ErrNotReviewBranch, branch, c.branchPrefix))
	}

	if err := c.vcs.RevertFiles(ctx, session.ModifiedFiles); err != nil {
		return fail(fmt.Errorf("reverting modified files: %w", err))
	}
	if err := c.vcs.SwitchBranch(ctx, session.PreviousBranch); err != nil {
		return fail(fmt.Errorf("switching to %s: %w", session.PreviousBranch, err))
	}
	if err := c.vcs.DeleteBranch(ctx, session.ReviewBranch); err != nil {
		return fail(fmt.Errorf("deleting review branch %s: %w", session.ReviewBranch, err))
	}
	if err := c.store.Delete(ctx, c.workDir); err != nil {
		return fail(fmt.Errorf("removing persisted session: %w", err))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.session = nil
	c.comments = nil
	c.trackers = map[string]*diff.Tracker{}
	c.state = model.SessionStateNoReview

	slog.Info("review cleaned up", "pr", session.ReviewID, "restored_branch", session.PreviousBranch)
	return nil
}
