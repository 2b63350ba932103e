package model

import "time"

// ReviewSession is the durable state of one in-progress review. Exactly one
// session may exist per working directory; the working directory is the
// session's identity for persistence.
type ReviewSession struct {
	ReviewID         int // PR number on the remote review service.
	PreviousBranch   string
	ReviewBranch     string
	BaseBranch       string
	HeadSHA          string
	WorkingDirectory string
	ModifiedFiles    []ModifiedFile
	ViewedFiles      map[string]bool
	StartedAt        time.Time
}

// IsViewed reports whether the given path has been marked as reviewed.
func (s *ReviewSession) IsViewed(path string) bool {
	return s.ViewedFiles[path]
}

// ViewedCount returns how many of the session's modified files have been
// marked viewed.
func (s *ReviewSession) ViewedCount() int {
	var n int
	for _, f := range s.ModifiedFiles {
		if s.ViewedFiles[f.Path] {
			n++
		}
	}
	return n
}

// FileByPath returns the modified-file entry for path, or nil if the path is
// not part of the change set.
func (s *ReviewSession) FileByPath(path string) *ModifiedFile {
	for i := range s.ModifiedFiles {
		if s.ModifiedFiles[i].Path == path {
			return &s.ModifiedFiles[i]
		}
	}
	return nil
}
