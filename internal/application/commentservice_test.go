package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/reviewdesk/internal/application"
	"github.com/ericfisherdev/reviewdesk/internal/domain/model"
)

func newCommentService(remote *mockReview) *application.CommentService {
	return application.NewCommentService(remote, "octocat/widgets", 42, "abc123")
}

func TestAddPendingComment(t *testing.T) {
	t.Run("creates the draft once and reuses it", func(t *testing.T) {
		remote := &mockReview{}
		svc := newCommentService(remote)

		first, err := svc.AddPendingComment(context.Background(), "main.go", 11, "typo")
		require.NoError(t, err)
		second, err := svc.AddPendingComment(context.Background(), "main.go", 12, "missing error check")
		require.NoError(t, err)

		assert.Equal(t, 1, remote.createDraftCalls)
		assert.Equal(t, 1, remote.findDraftCalls, "draft lookup should not repeat once cached")
		assert.True(t, first.Pending)
		assert.True(t, second.Pending)
		assert.Len(t, remote.attached, 2)
	})

	t.Run("adopts a draft already open on the server", func(t *testing.T) {
		remote := &mockReview{
			serverDrv: &model.PendingReviewDraft{ID: 77, NodeID: "PRR_77", CommitID: "abc123"},
		}
		svc := newCommentService(remote)

		_, err := svc.AddPendingComment(context.Background(), "main.go", 11, "typo")
		require.NoError(t, err)

		assert.Zero(t, remote.createDraftCalls)
		assert.Equal(t, 1, remote.findDraftCalls)
	})
}

func TestPendingComments(t *testing.T) {
	t.Run("no draft means no pending comments", func(t *testing.T) {
		remote := &mockReview{}
		svc := newCommentService(remote)

		comments, err := svc.PendingComments(context.Background())
		require.NoError(t, err)
		assert.Nil(t, comments)
		assert.Zero(t, remote.createDraftCalls)
	})

	t.Run("lists comments from a leftover server draft", func(t *testing.T) {
		remote := &mockReview{
			serverDrv: &model.PendingReviewDraft{ID: 77, NodeID: "PRR_77"},
			attached: []model.Comment{
				{ID: 9, Path: "main.go", Line: 11, Body: "typo", Pending: true},
			},
		}
		svc := newCommentService(remote)

		comments, err := svc.PendingComments(context.Background())
		require.NoError(t, err)
		require.Len(t, comments, 1)
		assert.Equal(t, "typo", comments[0].Body)
	})
}

func TestCommentsForFile(t *testing.T) {
	remote := &mockReview{
		comments: []model.Comment{
			{ID: 1, Path: "main.go", Line: 5, Body: "nit"},
			{ID: 2, Path: "other.go", Line: 3, Body: "rename this"},
		},
	}
	svc := newCommentService(remote)

	comments, err := svc.CommentsForFile(context.Background(), "main.go")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "nit", comments[0].Body)

	// Second read is served from cache.
	_, err = svc.CommentsForFile(context.Background(), "other.go")
	require.NoError(t, err)
	assert.Equal(t, 1, remote.fetchCommentsCalls)

	// A mutation drops the cache; the next read refetches.
	_, err = svc.AddComment(context.Background(), "main.go", 6, "also here")
	require.NoError(t, err)
	_, err = svc.CommentsForFile(context.Background(), "main.go")
	require.NoError(t, err)
	assert.Equal(t, 2, remote.fetchCommentsCalls)
}
