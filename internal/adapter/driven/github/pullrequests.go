package github

import (
	"context"
	"fmt"

	gh "github.com/google/go-github/v82/github"

	"github.com/ericfisherdev/reviewdesk/internal/domain/model"
)

// ListOpenPullRequests retrieves all open pull requests for the repository.
// It handles pagination automatically and maps go-github types to domain
// model types. Viewed-file counts are not populated here; FetchPullRequest
// fills them per PR.
func (c *Client) ListOpenPullRequests(ctx context.Context, repoFullName string) ([]model.PullRequest, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	opts := &gh.PullRequestListOptions{
		State:     "open",
		Sort:      "updated",
		Direction: "desc",
		ListOptions: gh.ListOptions{
			PerPage: 100,
		},
	}

	var allPRs []model.PullRequest

	for {
		prs, resp, err := c.gh.PullRequests.List(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("listing pull requests for %s (page %d): %w", repoFullName, opts.Page, err)
		}

		logRateLimit(resp, repoFullName, opts.Page, len(prs))

		for _, pr := range prs {
			allPRs = append(allPRs, mapPullRequest(pr))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	if allPRs == nil {
		allPRs = []model.PullRequest{}
	}

	return allPRs, nil
}

// FetchPullRequest returns one PR's metadata including diff stats. The
// viewer's viewed-file count comes from a supplementary GraphQL query; its
// failure degrades to zero rather than failing the fetch.
func (c *Client) FetchPullRequest(ctx context.Context, repoFullName string, number int) (*model.PullRequest, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	pr, resp, err := c.gh.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, fmt.Errorf("fetching PR %s#%d: %w", repoFullName, number, err)
	}

	logRateLimit(resp, repoFullName+"/pr-detail", 0, 1)

	mapped := mapPullRequest(pr)
	mapped.Additions = pr.GetAdditions()
	mapped.Deletions = pr.GetDeletions()
	mapped.ChangedFiles = pr.GetChangedFiles()
	mapped.MergeState = pr.GetMergeableState()
	for _, reviewer := range pr.RequestedReviewers {
		mapped.Reviewers = append(mapped.Reviewers, reviewer.GetLogin())
	}
	mapped.ViewedFiles = c.fetchViewedFileCount(ctx, repoFullName, number)

	return &mapped, nil
}

// FetchComments retrieves all published review comments for a pull request.
// Pending draft comments are not included; FetchDraftComments returns those.
func (c *Client) FetchComments(ctx context.Context, repoFullName string, number int) ([]model.Comment, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	opts := &gh.PullRequestListCommentsOptions{
		ListOptions: gh.ListOptions{PerPage: 100},
	}
	var allComments []model.Comment

	for {
		comments, resp, err := c.gh.PullRequests.ListComments(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("listing comments for %s#%d (page %d): %w", repoFullName, number, opts.Page, err)
		}

		logRateLimit(resp, repoFullName+"/comments", opts.Page, len(comments))

		for _, comment := range comments {
			allComments = append(allComments, mapComment(comment, false))
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

// AddComment posts a standalone (non-draft) line comment on the PR's current
// head commit.
func (c *Client) AddComment(ctx context.Context, repoFullName string, number int, path string, line int, body string) (model.Comment, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return model.Comment{}, err
	}

	pr, _, err := c.gh.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return model.Comment{}, fmt.Errorf("fetching head SHA before comment on %s#%d: %w", repoFullName, number, err)
	}

	comment := &gh.PullRequestComment{
		Body:     gh.Ptr(body),
		Path:     gh.Ptr(path),
		Line:     gh.Ptr(line),
		Side:     gh.Ptr("RIGHT"),
		CommitID: gh.Ptr(pr.GetHead().GetSHA()),
	}

	created, resp, err := c.gh.PullRequests.CreateComment(ctx, owner, repo, number, comment)
	if err != nil {
		return model.Comment{}, fmt.Errorf("creating comment on %s#%d: %w", repoFullName, number, err)
	}

	logRateLimit(resp, repoFullName+"/create-comment", 0, 1)
	return mapComment(created, false), nil
}

// EditComment replaces the body of an existing review comment.
func (c *Client) EditComment(ctx context.Context, repoFullName string, commentID int64, body string) error {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return err
	}

	comment := &gh.PullRequestComment{Body: gh.Ptr(body)}
	_, resp, err := c.gh.PullRequests.EditComment(ctx, owner, repo, commentID, comment)
	if err != nil {
		return fmt.Errorf("editing comment %d on %s: %w", commentID, repoFullName, err)
	}

	logRateLimit(resp, repoFullName+"/edit-comment", 0, 1)
	return nil
}

// DeleteComment removes an existing review comment.
func (c *Client) DeleteComment(ctx context.Context, repoFullName string, commentID int64) error {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return err
	}

	resp, err := c.gh.PullRequests.DeleteComment(ctx, owner, repo, commentID)
	if err != nil {
		return fmt.Errorf("deleting comment %d on %s: %w", commentID, repoFullName, err)
	}

	logRateLimit(resp, repoFullName+"/delete-comment", 0, 1)
	return nil
}

// ReplyToComment replies to an existing review comment thread.
// commentID must be the root comment ID of the thread.
func (c *Client) ReplyToComment(ctx context.Context, repoFullName string, number int, commentID int64, body string) error {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return err
	}

	_, resp, err := c.gh.PullRequests.CreateCommentInReplyTo(ctx, owner, repo, number, body, commentID)
	if err != nil {
		return fmt.Errorf("replying to comment %d on %s#%d: %w", commentID, repoFullName, number, err)
	}

	logRateLimit(resp, repoFullName+"/reply-comment", 0, 1)
	return nil
}

// mapPullRequest converts a go-github PullRequest to a domain model PullRequest.
// It uses GetXxx() helper methods exclusively to avoid nil pointer panics.
func mapPullRequest(pr *gh.PullRequest) model.PullRequest {
	return model.PullRequest{
		Number:     pr.GetNumber(),
		Title:      pr.GetTitle(),
		Author:     pr.GetUser().GetLogin(),
		IsDraft:    pr.GetDraft(),
		URL:        pr.GetHTMLURL(),
		Branch:     pr.GetHead().GetRef(),
		BaseBranch: pr.GetBase().GetRef(),
		HeadSHA:    pr.GetHead().GetSHA(),
		UpdatedAt:  pr.GetUpdatedAt().Time,
	}
}

// mapComment converts a go-github PullRequestComment to a domain model Comment.
func mapComment(c *gh.PullRequestComment, pending bool) model.Comment {
	var inReplyTo *int64
	if c.InReplyTo != nil {
		val := c.GetInReplyTo()
		inReplyTo = &val
	}

	return model.Comment{
		ID:          c.GetID(),
		Path:        c.GetPath(),
		Line:        c.GetLine(),
		Body:        c.GetBody(),
		Author:      c.GetUser().GetLogin(),
		Pending:     pending,
		InReplyToID: inReplyTo,
		CreatedAt:   c.GetCreatedAt().Time,
	}
}
