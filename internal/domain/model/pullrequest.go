package model

import "time"

// PullRequest is the listing-level summary of a reviewable change set on the
// remote review service.
type PullRequest struct {
	Number       int
	Title        string
	Author       string
	IsDraft      bool
	URL          string
	Branch       string
	BaseBranch   string
	HeadSHA      string
	Additions    int
	Deletions    int
	ChangedFiles int
	ViewedFiles  int // Files the viewer has marked viewed server-side.
	Reviewers    []string
	MergeState   string
	UpdatedAt    time.Time
}

// FullyViewed reports whether every changed file has been marked viewed.
func (pr PullRequest) FullyViewed() bool {
	return pr.ChangedFiles > 0 && pr.ViewedFiles >= pr.ChangedFiles
}
