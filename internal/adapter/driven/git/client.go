// Package git implements the VCSClient port by shelling out to the git CLI.
// The working directory is fixed at construction; every command runs with
// "git -C <dir>" so the adapter never depends on the process working directory.
package git

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ericfisherdev/reviewdesk/internal/domain/model"
	"github.com/ericfisherdev/reviewdesk/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.VCSClient = (*Client)(nil)

// Client implements the driven.VCSClient port against a local git repository.
type Client struct {
	dir    string
	remote string
}

// NewClient creates a git client for the repository at dir, using the named
// remote for fetch and slug resolution.
func NewClient(dir, remote string) *Client {
	return &Client{dir: dir, remote: remote}
}

// run executes a git command and returns its trimmed stdout. Failures wrap
// stderr into the error so callers see git's own diagnostic.
func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	fullArgs := append([]string{"-C", c.dir}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("git %s: %s", args[0], msg)
	}

	slog.Debug("git command", "args", args, "bytes", stdout.Len())
	return strings.TrimRight(stdout.String(), "\n"), nil
}

// HasUncommittedChanges reports whether the working tree or index holds any
// uncommitted modifications, including untracked files.
func (c *Client) HasUncommittedChanges(ctx context.Context) (bool, error) {
	out, err := c.run(ctx, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return out != "", nil
}

// CurrentBranch returns the name of the currently checked-out branch.
func (c *Client) CurrentBranch(ctx context.Context) (string, error) {
	return c.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
}

// RemoteRepo resolves the configured remote's URL into an "owner/repo" slug.
// Both HTTPS and SSH remote URL forms are supported.
func (c *Client) RemoteRepo(ctx context.Context) (string, error) {
	url, err := c.run(ctx, "remote", "get-url", c.remote)
	if err != nil {
		return "", err
	}

	slug := parseRepoSlug(url)
	if slug == "" {
		return "", fmt.Errorf("cannot derive owner/repo from remote URL %q", url)
	}
	return slug, nil
}

// parseRepoSlug extracts "owner/repo" from a git remote URL. Returns "" when
// the URL does not carry at least two path segments.
func parseRepoSlug(url string) string {
	s := strings.TrimSuffix(strings.TrimSpace(url), ".git")

	// SSH form: git@host:owner/repo
	if i := strings.Index(s, ":"); i > 0 && !strings.Contains(s[:i], "/") {
		s = s[i+1:]
	}
	// URL form: scheme://host/owner/repo
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
		if j := strings.Index(s, "/"); j >= 0 {
			s = s[j+1:]
		}
	}

	parts := strings.Split(s, "/")
	if len(parts) < 2 {
		return ""
	}
	owner, repo := parts[len(parts)-2], parts[len(parts)-1]
	if owner == "" || repo == "" {
		return ""
	}
	return owner + "/" + repo
}

// Fetch updates remote-tracking refs from the configured remote.
func (c *Client) Fetch(ctx context.Context) error {
	_, err := c.run(ctx, "fetch", c.remote)
	return err
}

// RemoteRef returns the remote-tracking ref for a branch name.
func (c *Client) RemoteRef(branch string) string {
	return c.remote + "/" + branch
}

// CreateBranch creates and switches to a new branch at startPoint.
func (c *Client) CreateBranch(ctx context.Context, name, startPoint string) error {
	_, err := c.run(ctx, "checkout", "-b", name, startPoint)
	return err
}

// SwitchBranch checks out an existing branch.
func (c *Client) SwitchBranch(ctx context.Context, name string) error {
	_, err := c.run(ctx, "checkout", name)
	return err
}

// DeleteBranch force-deletes a local branch.
func (c *Client) DeleteBranch(ctx context.Context, name string) error {
	_, err := c.run(ctx, "branch", "-D", name)
	return err
}

// ApplyChanges materializes ref's changes onto the working tree as unstaged
// modifications: a squash merge followed by an index reset, so the tree
// reflects ref without a commit.
func (c *Client) ApplyChanges(ctx context.Context, ref string) error {
	if _, err := c.run(ctx, "merge", "--squash", ref); err != nil {
		// A conflicted squash merge leaves the index and tree half-applied.
		// reset --merge is the recovery git documents for it; a squash merge
		// writes no MERGE_HEAD, so merge --abort cannot be used.
		if _, resetErr := c.run(ctx, "reset", "--merge"); resetErr != nil {
			slog.Warn("recovering from failed squash merge", "error", resetErr)
		}
		return err
	}
	if _, err := c.run(ctx, "reset"); err != nil {
		return err
	}
	return nil
}

// ChangedFiles lists files that differ from baseRef with their change status,
// plus untracked files. Renames are reported under the new path as modified.
func (c *Client) ChangedFiles(ctx context.Context, baseRef string) ([]model.ModifiedFile, error) {
	out, err := c.run(ctx, "diff", "--name-status", baseRef)
	if err != nil {
		return nil, err
	}

	files := []model.ModifiedFile{}
	for _, line := range strings.Split(out, "\n") {
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			continue
		}

		status, path := fields[0], fields[1]
		var fs model.FileStatus
		switch {
		case strings.HasPrefix(status, "A"):
			fs = model.FileStatusAdded
		case strings.HasPrefix(status, "D"):
			fs = model.FileStatusDeleted
		case strings.HasPrefix(status, "R"), strings.HasPrefix(status, "C"):
			fs = model.FileStatusModified
			if len(fields) >= 3 {
				path = fields[2]
			}
		default:
			fs = model.FileStatusModified
		}

		files = append(files, model.ModifiedFile{Path: path, Status: fs})
	}

	untracked, err := c.run(ctx, "ls-files", "--others", "--exclude-standard")
	if err != nil {
		return nil, err
	}
	for _, path := range strings.Split(untracked, "\n") {
		if path == "" {
			continue
		}
		files = append(files, model.ModifiedFile{Path: path, Status: model.FileStatusUntracked})
	}

	return files, nil
}

// DiffFile returns the unified diff with zero context lines for a single
// file's unstaged modifications. Empty output means the file is unchanged.
func (c *Client) DiffFile(ctx context.Context, path string) (string, error) {
	return c.run(ctx, "diff", "-U0", "--", path)
}

// RevertFiles discards modifications to exactly the given files. Tracked
// files are checked out from HEAD; untracked files are removed from disk.
// Unrelated local changes are never touched.
func (c *Client) RevertFiles(ctx context.Context, files []model.ModifiedFile) error {
	var tracked []string
	for _, f := range files {
		if f.Status == model.FileStatusUntracked {
			if err := os.Remove(filepath.Join(c.dir, f.Path)); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("remove untracked file %s: %w", f.Path, err)
			}
			continue
		}
		tracked = append(tracked, f.Path)
	}

	if len(tracked) == 0 {
		return nil
	}

	args := append([]string{"checkout", "HEAD", "--"}, tracked...)
	if _, err := c.run(ctx, args...); err != nil {
		return err
	}
	return nil
}

// ShowFileAt returns a file's content at a historical revision.
func (c *Client) ShowFileAt(ctx context.Context, ref, path string) (string, error) {
	return c.run(ctx, "show", ref+":"+path)
}
