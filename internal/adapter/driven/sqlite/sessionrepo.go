// Package sqlite implements the SessionStore port on an embedded SQLite
// database with schema migrations applied at startup.
package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/ericfisherdev/reviewdesk/internal/domain/model"
	"github.com/ericfisherdev/reviewdesk/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.SessionStore = (*SessionRepo)(nil)

// SessionRepo is the SQLite implementation of the SessionStore port.
// One row exists per working directory; Save replaces the row wholesale.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo creates a new SessionRepo backed by the given DB.
func NewSessionRepo(db *DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// sessionKey derives the storage key for a working directory. The digest keeps
// the key stable across path lengths and safe as a primary key.
func sessionKey(workingDirectory string) string {
	sum := sha256.Sum256([]byte(workingDirectory))
	return hex.EncodeToString(sum[:])
}

// storedFile is the serialized form of a ModifiedFile.
type storedFile struct {
	Path          string `json:"path"`
	Status        string `json:"status"`
	Additions     int    `json:"additions"`
	Modifications int    `json:"modifications"`
	Deletions     int    `json:"deletions"`
	Viewed        bool   `json:"viewed"`
}

// Save inserts or replaces the session record for its working directory.
// The stored row is overwritten wholesale; there are no partial updates.
func (r *SessionRepo) Save(ctx context.Context, session model.ReviewSession) error {
	const query = `
		INSERT INTO review_sessions (
			session_key, review_id, previous_branch, review_branch, base_branch,
			head_sha, working_directory, modified_files, viewed_files, started_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_key) DO UPDATE SET
			review_id = excluded.review_id,
			previous_branch = excluded.previous_branch,
			review_branch = excluded.review_branch,
			base_branch = excluded.base_branch,
			head_sha = excluded.head_sha,
			working_directory = excluded.working_directory,
			modified_files = excluded.modified_files,
			viewed_files = excluded.viewed_files,
			started_at = excluded.started_at
	`

	files := make([]storedFile, 0, len(session.ModifiedFiles))
	for _, f := range session.ModifiedFiles {
		files = append(files, storedFile{
			Path:          f.Path,
			Status:        string(f.Status),
			Additions:     f.Stats.Additions,
			Modifications: f.Stats.Modifications,
			Deletions:     f.Stats.Deletions,
			Viewed:        f.Viewed,
		})
	}
	filesJSON, err := json.Marshal(files)
	if err != nil {
		return fmt.Errorf("marshal modified files: %w", err)
	}

	viewed := make([]string, 0, len(session.ViewedFiles))
	for path, ok := range session.ViewedFiles {
		if ok {
			viewed = append(viewed, path)
		}
	}
	sort.Strings(viewed)
	viewedJSON, err := json.Marshal(viewed)
	if err != nil {
		return fmt.Errorf("marshal viewed files: %w", err)
	}

	_, err = r.db.Writer.ExecContext(ctx, query,
		sessionKey(session.WorkingDirectory), session.ReviewID,
		session.PreviousBranch, session.ReviewBranch, session.BaseBranch,
		session.HeadSHA, session.WorkingDirectory,
		string(filesJSON), string(viewedJSON), session.StartedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("save session for %s: %w", session.WorkingDirectory, err)
	}

	return nil
}

// Load returns the stored session for workingDirectory, or nil when none
// exists. A row whose recorded working directory does not match the requested
// one is never applied; it is logged and treated as no session.
func (r *SessionRepo) Load(ctx context.Context, workingDirectory string) (*model.ReviewSession, error) {
	const query = `
		SELECT review_id, previous_branch, review_branch, base_branch,
		       head_sha, working_directory, modified_files, viewed_files, started_at
		FROM review_sessions
		WHERE session_key = ?
	`

	var (
		session    model.ReviewSession
		filesJSON  string
		viewedJSON string
	)

	row := r.db.Reader.QueryRowContext(ctx, query, sessionKey(workingDirectory))
	err := row.Scan(
		&session.ReviewID, &session.PreviousBranch, &session.ReviewBranch,
		&session.BaseBranch, &session.HeadSHA, &session.WorkingDirectory,
		&filesJSON, &viewedJSON, &session.StartedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session for %s: %w", workingDirectory, err)
	}

	if session.WorkingDirectory != workingDirectory {
		slog.Warn("stored session belongs to a different working directory, ignoring",
			"stored", session.WorkingDirectory,
			"requested", workingDirectory,
		)
		return nil, nil
	}

	var files []storedFile
	if err := json.Unmarshal([]byte(filesJSON), &files); err != nil {
		return nil, fmt.Errorf("unmarshal modified files for %s: %w", workingDirectory, err)
	}
	session.ModifiedFiles = make([]model.ModifiedFile, 0, len(files))
	for _, f := range files {
		session.ModifiedFiles = append(session.ModifiedFiles, model.ModifiedFile{
			Path:   f.Path,
			Status: model.FileStatus(f.Status),
			Stats: model.DiffStat{
				Additions:     f.Additions,
				Modifications: f.Modifications,
				Deletions:     f.Deletions,
			},
			Viewed: f.Viewed,
		})
	}

	var viewed []string
	if err := json.Unmarshal([]byte(viewedJSON), &viewed); err != nil {
		return nil, fmt.Errorf("unmarshal viewed files for %s: %w", workingDirectory, err)
	}
	session.ViewedFiles = make(map[string]bool, len(viewed))
	for _, path := range viewed {
		session.ViewedFiles[path] = true
	}

	return &session, nil
}

// Delete removes the session record for workingDirectory. Deleting a missing
// record is not an error.
func (r *SessionRepo) Delete(ctx context.Context, workingDirectory string) error {
	const query = `DELETE FROM review_sessions WHERE session_key = ?`

	_, err := r.db.Writer.ExecContext(ctx, query, sessionKey(workingDirectory))
	if err != nil {
		return fmt.Errorf("delete session for %s: %w", workingDirectory, err)
	}

	return nil
}
