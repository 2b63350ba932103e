package model

// DiffStat holds line-level counts for a single file's diff. Paired
// added/removed lines count as modifications; the excess on either side counts
// as pure additions or deletions.
type DiffStat struct {
	Additions     int
	Modifications int
	Deletions     int
}

// Total returns the total number of counted lines.
func (s DiffStat) Total() int {
	return s.Additions + s.Modifications + s.Deletions
}

// ModifiedFile represents one file touched by the change set under review.
// All fields except Viewed are derived from the VCS name-status listing and
// treated as immutable for the life of the session.
type ModifiedFile struct {
	Path   string
	Status FileStatus
	Stats  DiffStat
	Viewed bool
}
