package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ericfisherdev/reviewdesk/internal/domain/model"
)

// graphqlHTTPClient is the HTTP client used for GraphQL requests.
// It enforces a 30-second timeout as a safety net alongside context cancellation.
var graphqlHTTPClient = &http.Client{Timeout: 30 * time.Second}

const addThreadMutation = `mutation($reviewID: ID!, $path: String!, $line: Int!, $body: String!) {
	addPullRequestReviewThread(input: {pullRequestReviewId: $reviewID, path: $path, line: $line, side: RIGHT, body: $body}) {
		thread {
			comments(first: 1) {
				nodes {
					databaseId
					body
					path
					line
					createdAt
					author { login }
				}
			}
		}
	}
}`

const markViewedMutation = `mutation($prID: ID!, $path: String!) {
	markFileAsViewed(input: {pullRequestId: $prID, path: $path}) {
		pullRequest { id }
	}
}`

const viewedFilesQuery = `query($owner: String!, $repo: String!, $pr: Int!) {
	repository(owner: $owner, name: $repo) {
		pullRequest(number: $pr) {
			files(first: 100) {
				pageInfo {
					hasNextPage
				}
				nodes {
					path
					viewerViewedState
				}
			}
		}
	}
}`

// graphqlRequest is the JSON body sent to the GitHub GraphQL API.
type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// graphqlError is the error entry shape shared by all GraphQL responses.
type graphqlError struct {
	Message string `json:"message"`
}

// postGraphQL sends a GraphQL request and decodes the response into out,
// which must carry `data` and `errors` fields. A non-200 status or an errors
// entry becomes an error.
func (c *Client) postGraphQL(ctx context.Context, query string, variables map[string]any, out any) error {
	if c.token == "" {
		return fmt.Errorf("graphql requires a token")
	}

	bodyBytes, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("marshaling graphql request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphqlURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("creating graphql request: %w", err)
	}
	httpReq.Header.Set("Authorization", fmt.Sprintf("bearer %s", c.token))
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := graphqlHTTPClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("graphql request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("graphql: HTTP %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding graphql response: %w", err)
	}

	return nil
}

// addThreadResponse represents the expected shape of the addPullRequestReviewThread
// mutation response.
type addThreadResponse struct {
	Data struct {
		AddPullRequestReviewThread struct {
			Thread struct {
				Comments struct {
					Nodes []struct {
						DatabaseID int64     `json:"databaseId"`
						Body       string    `json:"body"`
						Path       string    `json:"path"`
						Line       int       `json:"line"`
						CreatedAt  time.Time `json:"createdAt"`
						Author     struct {
							Login string `json:"login"`
						} `json:"author"`
					} `json:"nodes"`
				} `json:"comments"`
			} `json:"thread"`
		} `json:"addPullRequestReviewThread"`
	} `json:"data"`
	Errors []graphqlError `json:"errors"`
}

// AttachDraftComment adds a pending comment to an open draft review via the
// addPullRequestReviewThread mutation. draftNodeID is the draft's GraphQL
// node ID (not its numeric ID).
func (c *Client) AttachDraftComment(ctx context.Context, draftNodeID string, path string, line int, body string) (model.Comment, error) {
	var resp addThreadResponse
	err := c.postGraphQL(ctx, addThreadMutation, map[string]any{
		"reviewID": draftNodeID,
		"path":     path,
		"line":     line,
		"body":     body,
	}, &resp)
	if err != nil {
		return model.Comment{}, fmt.Errorf("attaching draft comment: %w", err)
	}
	if len(resp.Errors) > 0 {
		return model.Comment{}, fmt.Errorf("attaching draft comment: %s", resp.Errors[0].Message)
	}

	nodes := resp.Data.AddPullRequestReviewThread.Thread.Comments.Nodes
	if len(nodes) == 0 {
		return model.Comment{}, fmt.Errorf("attaching draft comment: mutation returned no comment")
	}

	n := nodes[0]
	return model.Comment{
		ID:        n.DatabaseID,
		Path:      n.Path,
		Line:      n.Line,
		Body:      n.Body,
		Author:    n.Author.Login,
		Pending:   true,
		CreatedAt: n.CreatedAt,
	}, nil
}

// markViewedResponse represents the minimal response shape for the
// markFileAsViewed mutation. We only check for errors.
type markViewedResponse struct {
	Errors []graphqlError `json:"errors"`
}

// MarkFileViewed records the viewer's viewed state for a file server-side via
// the markFileAsViewed mutation. The PR's GraphQL node ID is resolved first
// through the REST API.
func (c *Client) MarkFileViewed(ctx context.Context, repoFullName string, number int, path string) error {
	nodeID, err := c.prNodeID(ctx, repoFullName, number)
	if err != nil {
		return err
	}

	var resp markViewedResponse
	err = c.postGraphQL(ctx, markViewedMutation, map[string]any{
		"prID": nodeID,
		"path": path,
	}, &resp)
	if err != nil {
		return fmt.Errorf("marking %s viewed on %s#%d: %w", path, repoFullName, number, err)
	}
	if len(resp.Errors) > 0 {
		return fmt.Errorf("marking %s viewed on %s#%d: %s", path, repoFullName, number, resp.Errors[0].Message)
	}

	return nil
}

// prNodeID resolves a PR number to its GraphQL node ID.
func (c *Client) prNodeID(ctx context.Context, repoFullName string, number int) (string, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return "", err
	}

	pr, resp, err := c.gh.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return "", fmt.Errorf("resolving node ID for %s#%d: %w", repoFullName, number, err)
	}

	logRateLimit(resp, repoFullName+"/node-id", 0, 1)
	return pr.GetNodeID(), nil
}

// viewedFilesResponse represents the expected shape of the viewed-files query.
type viewedFilesResponse struct {
	Data struct {
		Repository struct {
			PullRequest struct {
				Files struct {
					PageInfo struct {
						HasNextPage bool `json:"hasNextPage"`
					} `json:"pageInfo"`
					Nodes []struct {
						Path              string `json:"path"`
						ViewerViewedState string `json:"viewerViewedState"`
					} `json:"nodes"`
				} `json:"files"`
			} `json:"pullRequest"`
		} `json:"repository"`
	} `json:"data"`
	Errors []graphqlError `json:"errors"`
}

// fetchViewedFileCount queries how many of the PR's files the viewer has
// marked viewed. This is a supplementary data source: all error paths return
// zero and log a warning; failures never propagate to callers.
func (c *Client) fetchViewedFileCount(ctx context.Context, repoFullName string, number int) int {
	if c.token == "" {
		return 0
	}

	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return 0
	}

	var resp viewedFilesResponse
	err = c.postGraphQL(ctx, viewedFilesQuery, map[string]any{
		"owner": owner,
		"repo":  repo,
		"pr":    number,
	}, &resp)
	if err != nil {
		slog.Warn("graphql: viewed files query failed", "error", err, "repo", repoFullName, "pr", number)
		return 0
	}
	if len(resp.Errors) > 0 {
		slog.Warn("graphql: viewed files query returned errors",
			"errors", resp.Errors[0].Message,
			"repo", repoFullName,
			"pr", number,
		)
		return 0
	}

	files := resp.Data.Repository.PullRequest.Files
	if files.PageInfo.HasNextPage {
		slog.Warn("graphql: PR files exceed 100, pagination needed", "repo", repoFullName, "pr", number)
	}

	var viewed int
	for _, f := range files.Nodes {
		if f.ViewerViewedState == "VIEWED" {
			viewed++
		}
	}
	return viewed
}
