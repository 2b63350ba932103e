package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ericfisherdev/reviewdesk/internal/domain/model"
	"github.com/ericfisherdev/reviewdesk/internal/domain/port/driven"
)

// CommentService runs the comment workflow for one pull request: published
// line comments with a per-file cache, and pending comments attached to a
// draft review that is created lazily on the first pending comment and
// reused for every one after it.
type CommentService struct {
	remote  driven.ReviewClient
	repo    string
	number  int
	headSHA string

	mu     sync.Mutex
	draft  *model.PendingReviewDraft
	byPath map[string][]model.Comment
	loaded bool
}

// NewCommentService creates a CommentService for the given pull request.
func NewCommentService(remote driven.ReviewClient, repo string, number int, headSHA string) *CommentService {
	return &CommentService{
		remote:  remote,
		repo:    repo,
		number:  number,
		headSHA: headSHA,
		byPath:  map[string][]model.Comment{},
	}
}

// CommentsForFile returns the published comments on a file, fetching all of
// the PR's comments on the first call and serving from cache afterwards. Any
// mutation through this service drops the cache.
func (s *CommentService) CommentsForFile(ctx context.Context, path string) ([]model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureCommentsLocked(ctx); err != nil {
		return nil, err
	}
	return s.byPath[path], nil
}

func (s *CommentService) ensureCommentsLocked(ctx context.Context) error {
	if s.loaded {
		return nil
	}

	comments, err := s.remote.FetchComments(ctx, s.repo, s.number)
	if err != nil {
		return fmt.Errorf("fetching comments: %w", err)
	}

	s.byPath = map[string][]model.Comment{}
	for _, c := range comments {
		s.byPath[c.Path] = append(s.byPath[c.Path], c)
	}
	s.loaded = true
	return nil
}

// AddComment publishes a standalone line comment immediately, outside any
// draft review.
func (s *CommentService) AddComment(ctx context.Context, path string, line int, body string) (model.Comment, error) {
	comment, err := s.remote.AddComment(ctx, s.repo, s.number, path, line, body)
	if err != nil {
		return model.Comment{}, fmt.Errorf("adding comment on %s:%d: %w", path, line, err)
	}
	s.invalidate()
	return comment, nil
}

// EditComment replaces the body of a published comment.
func (s *CommentService) EditComment(ctx context.Context, commentID int64, body string) error {
	if err := s.remote.EditComment(ctx, s.repo, commentID, body); err != nil {
		return fmt.Errorf("editing comment %d: %w", commentID, err)
	}
	s.invalidate()
	return nil
}

// DeleteComment removes a published comment.
func (s *CommentService) DeleteComment(ctx context.Context, commentID int64) error {
	if err := s.remote.DeleteComment(ctx, s.repo, commentID); err != nil {
		return fmt.Errorf("deleting comment %d: %w", commentID, err)
	}
	s.invalidate()
	return nil
}

// ReplyToComment publishes a reply in the thread rooted at commentID.
func (s *CommentService) ReplyToComment(ctx context.Context, commentID int64, body string) error {
	if err := s.remote.ReplyToComment(ctx, s.repo, s.number, commentID, body); err != nil {
		return fmt.Errorf("replying to comment %d: %w", commentID, err)
	}
	s.invalidate()
	return nil
}

// AddPendingComment attaches a comment to the open draft review, creating the
// draft first if none exists. The whole find-or-create-attach sequence runs
// under the lock so concurrent callers never race two drafts into existence.
func (s *CommentService) AddPendingComment(ctx context.Context, path string, line int, body string) (model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft, err := s.ensureDraftLocked(ctx)
	if err != nil {
		return model.Comment{}, err
	}

	comment, err := s.remote.AttachDraftComment(ctx, draft.NodeID, path, line, body)
	if err != nil {
		return model.Comment{}, fmt.Errorf("attaching pending comment on %s:%d: %w", path, line, err)
	}

	draft.Comments = append(draft.Comments, comment)
	return comment, nil
}

// ensureDraftLocked resolves the pending draft review, preferring in that
// order: the cached draft, an existing pending draft on the server, a newly
// created one. Callers must hold s.mu.
func (s *CommentService) ensureDraftLocked(ctx context.Context) (*model.PendingReviewDraft, error) {
	if s.draft != nil {
		return s.draft, nil
	}

	draft, err := s.remote.FindPendingDraft(ctx, s.repo, s.number)
	if err != nil {
		return nil, fmt.Errorf("looking up pending draft: %w", err)
	}
	if draft == nil {
		draft, err = s.remote.CreateDraft(ctx, s.repo, s.number, s.headSHA)
		if err != nil {
			return nil, fmt.Errorf("creating draft review: %w", err)
		}
		slog.Debug("draft review created", "pr", s.number, "review_id", draft.ID)
	}

	s.draft = draft
	return draft, nil
}

// PendingComments returns the comments attached to the current draft review.
// When no draft is cached it checks the server for one left over from an
// earlier session; no draft anywhere means no pending comments.
func (s *CommentService) PendingComments(ctx context.Context) ([]model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft == nil {
		draft, err := s.remote.FindPendingDraft(ctx, s.repo, s.number)
		if err != nil {
			return nil, fmt.Errorf("looking up pending draft: %w", err)
		}
		if draft == nil {
			return nil, nil
		}
		s.draft = draft
	}

	comments, err := s.remote.FetchDraftComments(ctx, s.repo, s.number, s.draft.ID)
	if err != nil {
		return nil, fmt.Errorf("fetching pending comments: %w", err)
	}
	s.draft.Comments = comments
	return comments, nil
}

// submitWithVerdict publishes the review. An open draft is submitted with the
// verdict, carrying its pending comments live; with no draft a fresh review
// is created and submitted in one call. On success the draft and the comment
// cache are reset, since every pending comment just became published.
func (s *CommentService) submitWithVerdict(ctx context.Context, verdict model.Verdict, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft := s.draft
	if draft == nil {
		found, err := s.remote.FindPendingDraft(ctx, s.repo, s.number)
		if err != nil {
			return fmt.Errorf("looking up pending draft: %w", err)
		}
		draft = found
	}

	if draft != nil {
		if err := s.remote.SubmitDraft(ctx, s.repo, s.number, draft.ID, verdict, body); err != nil {
			return fmt.Errorf("submitting draft review %d: %w", draft.ID, err)
		}
	} else {
		if err := s.remote.SubmitReview(ctx, s.repo, s.number, verdict, body); err != nil {
			return fmt.Errorf("submitting review: %w", err)
		}
	}

	s.draft = nil
	s.byPath = map[string][]model.Comment{}
	s.loaded = false
	return nil
}

func (s *CommentService) invalidate() {
	s.mu.Lock()
	s.byPath = map[string][]model.Comment{}
	s.loaded = false
	s.mu.Unlock()
}
