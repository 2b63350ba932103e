package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/reviewdesk/internal/application"
	"github.com/ericfisherdev/reviewdesk/internal/domain/model"
)

func TestListOpenPullRequests(t *testing.T) {
	t.Run("orders unviewed PRs first, then by number descending", func(t *testing.T) {
		remote := &mockReview{
			prs: []model.PullRequest{
				{Number: 10, ChangedFiles: 3, ViewedFiles: 3},
				{Number: 12, ChangedFiles: 5, ViewedFiles: 1},
				{Number: 11, ChangedFiles: 2, ViewedFiles: 2},
				{Number: 9, ChangedFiles: 4},
			},
		}
		svc := application.NewListService(&mockVCS{repoSlug: "octocat/widgets"}, remote)

		prs, err := svc.ListOpenPullRequests(context.Background())
		require.NoError(t, err)

		numbers := make([]int, len(prs))
		for i, pr := range prs {
			numbers[i] = pr.Number
		}
		assert.Equal(t, []int{12, 9, 11, 10}, numbers)
	})

	t.Run("keeps the listing entry when a detail fetch fails", func(t *testing.T) {
		remote := &mockReview{
			prs: []model.PullRequest{
				{Number: 7, Title: "Fix flaky retry"},
				{Number: 8, Title: "Bump deps"},
			},
			detail: func(number int) (*model.PullRequest, error) {
				if number == 7 {
					return nil, errors.New("rate limited")
				}
				return &model.PullRequest{Number: number, Title: "Bump deps", Additions: 12, ChangedFiles: 2}, nil
			},
		}
		svc := application.NewListService(&mockVCS{repoSlug: "octocat/widgets"}, remote)

		prs, err := svc.ListOpenPullRequests(context.Background())
		require.NoError(t, err)
		require.Len(t, prs, 2)

		byNumber := map[int]model.PullRequest{}
		for _, pr := range prs {
			byNumber[pr.Number] = pr
		}
		assert.Equal(t, "Fix flaky retry", byNumber[7].Title)
		assert.Zero(t, byNumber[7].Additions, "failed detail fetch keeps zero stats")
		assert.Equal(t, 12, byNumber[8].Additions)
	})

	t.Run("propagates listing failure", func(t *testing.T) {
		remote := &mockReview{prsErr: errors.New("boom")}
		svc := application.NewListService(&mockVCS{repoSlug: "octocat/widgets"}, remote)

		_, err := svc.ListOpenPullRequests(context.Background())
		require.Error(t, err)
	})
}
