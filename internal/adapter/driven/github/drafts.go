package github

import (
	"context"
	"fmt"
	"strings"

	gh "github.com/google/go-github/v82/github"

	"github.com/ericfisherdev/reviewdesk/internal/domain/model"
)

// FindPendingDraft returns the viewer's open draft review for the PR, or nil
// when none exists. The review service reports drafts as reviews in the
// PENDING state, visible only to their author. If multiple drafts exist
// (another client racing), the first one returned by the service wins.
func (c *Client) FindPendingDraft(ctx context.Context, repoFullName string, number int) (*model.PendingReviewDraft, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	opts := &gh.ListOptions{PerPage: 100}

	for {
		reviews, resp, err := c.gh.PullRequests.ListReviews(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("listing reviews for %s#%d (page %d): %w", repoFullName, number, opts.Page, err)
		}

		logRateLimit(resp, repoFullName+"/reviews", opts.Page, len(reviews))

		for _, r := range reviews {
			if !strings.EqualFold(r.GetState(), "PENDING") {
				continue
			}
			if c.username != "" && !strings.EqualFold(r.GetUser().GetLogin(), c.username) {
				continue
			}
			return &model.PendingReviewDraft{
				ID:       r.GetID(),
				NodeID:   r.GetNodeID(),
				CommitID: r.GetCommitID(),
			}, nil
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return nil, nil
}

// CreateDraft opens a new draft review anchored to commitID. A review created
// without an event stays in the PENDING state until submitted.
func (c *Client) CreateDraft(ctx context.Context, repoFullName string, number int, commitID string) (*model.PendingReviewDraft, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	req := &gh.PullRequestReviewRequest{}
	if commitID != "" {
		req.CommitID = gh.Ptr(commitID)
	}

	review, resp, err := c.gh.PullRequests.CreateReview(ctx, owner, repo, number, req)
	if err != nil {
		return nil, fmt.Errorf("creating draft review for %s#%d: %w", repoFullName, number, err)
	}

	logRateLimit(resp, repoFullName+"/create-draft", 0, 1)

	return &model.PendingReviewDraft{
		ID:       review.GetID(),
		NodeID:   review.GetNodeID(),
		CommitID: review.GetCommitID(),
	}, nil
}

// FetchDraftComments lists the pending comments attached to a draft review.
func (c *Client) FetchDraftComments(ctx context.Context, repoFullName string, number int, draftID int64) ([]model.Comment, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	opts := &gh.ListOptions{PerPage: 100}
	var allComments []model.Comment

	for {
		comments, resp, err := c.gh.PullRequests.ListReviewComments(ctx, owner, repo, number, draftID, opts)
		if err != nil {
			return nil, fmt.Errorf("listing draft comments for %s#%d review %d (page %d): %w",
				repoFullName, number, draftID, opts.Page, err)
		}

		logRateLimit(resp, repoFullName+"/draft-comments", opts.Page, len(comments))

		for _, comment := range comments {
			allComments = append(allComments, mapComment(comment, true))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	if allComments == nil {
		allComments = []model.Comment{}
	}

	return allComments, nil
}

// SubmitDraft finalizes an open draft with a verdict, publishing all of its
// pending comments. The service closes the draft implicitly on success.
func (c *Client) SubmitDraft(ctx context.Context, repoFullName string, number int, draftID int64, verdict model.Verdict, body string) error {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return err
	}

	req := &gh.PullRequestReviewRequest{
		Event: gh.Ptr(mapVerdict(verdict)),
	}
	if body != "" {
		req.Body = gh.Ptr(body)
	}

	_, resp, err := c.gh.PullRequests.SubmitReview(ctx, owner, repo, number, draftID, req)
	if err != nil {
		return fmt.Errorf("submitting draft review %d for %s#%d: %w", draftID, repoFullName, number, err)
	}

	logRateLimit(resp, repoFullName+"/submit-draft", 0, 1)
	return nil
}

// SubmitReview submits a verdict directly when no draft exists.
func (c *Client) SubmitReview(ctx context.Context, repoFullName string, number int, verdict model.Verdict, body string) error {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return err
	}

	req := &gh.PullRequestReviewRequest{
		Event: gh.Ptr(mapVerdict(verdict)),
	}
	if body != "" {
		req.Body = gh.Ptr(body)
	}

	_, resp, err := c.gh.PullRequests.CreateReview(ctx, owner, repo, number, req)
	if err != nil {
		return fmt.Errorf("submitting review for %s#%d: %w", repoFullName, number, err)
	}

	logRateLimit(resp, repoFullName+"/submit-review", 0, 1)
	return nil
}

// mapVerdict converts a domain verdict to the review service's event string.
func mapVerdict(v model.Verdict) string {
	if v == model.VerdictApprove {
		return "APPROVE"
	}
	return "REQUEST_CHANGES"
}
