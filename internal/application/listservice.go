package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/ericfisherdev/reviewdesk/internal/domain/model"
	"github.com/ericfisherdev/reviewdesk/internal/domain/port/driven"
)

// ListService produces the open-PR listing with per-PR detail fetched
// concurrently.
type ListService struct {
	vcs    driven.VCSClient
	remote driven.ReviewClient
}

// NewListService creates a ListService.
func NewListService(vcs driven.VCSClient, remote driven.ReviewClient) *ListService {
	return &ListService{vcs: vcs, remote: remote}
}

// ListOpenPullRequests returns the open PRs for the repository behind the
// working directory's remote, enriched with diff stats and viewed-file
// counts. Detail fetches run one goroutine per PR and are joined before
// returning; a failed fetch keeps the listing entry with its stats at zero
// instead of failing the listing. Results are ordered with not-fully-viewed
// PRs first, then by PR number descending.
func (s *ListService) ListOpenPullRequests(ctx context.Context) ([]model.PullRequest, error) {
	repo, err := s.vcs.RemoteRepo(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving repository: %w", err)
	}

	prs, err := s.remote.ListOpenPullRequests(ctx, repo)
	if err != nil {
		return nil, fmt.Errorf("listing open PRs for %s: %w", repo, err)
	}

	var wg sync.WaitGroup
	for i := range prs {
		wg.Add(1)
		go func(pr *model.PullRequest) {
			defer wg.Done()

			detailed, err := s.remote.FetchPullRequest(ctx, repo, pr.Number)
			if err != nil {
				slog.Warn("PR detail fetch failed, listing with zero stats", "pr", pr.Number, "error", err)
				return
			}
			*pr = *detailed
		}(&prs[i])
	}
	wg.Wait()

	sort.SliceStable(prs, func(i, j int) bool {
		if prs[i].FullyViewed() != prs[j].FullyViewed() {
			return !prs[i].FullyViewed()
		}
		return prs[i].Number > prs[j].Number
	})
	return prs, nil
}
