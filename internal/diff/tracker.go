package diff

import "github.com/ericfisherdev/reviewdesk/internal/domain/model"

// Tracker answers per-file navigation queries for one parsed diff: line
// membership, aggregate stats, and cursor-relative group resolution. A Tracker
// is immutable once built.
type Tracker struct {
	hunks   []model.Hunk
	groups  []model.ChangedLineGroup
	changed map[int]bool
	stats   model.DiffStat
}

// NewTracker builds a Tracker from a file's parsed hunks.
func NewTracker(hunks []model.Hunk) *Tracker {
	lines := ChangedLines(hunks)
	changed := make(map[int]bool, len(lines))
	for _, l := range lines {
		changed[l] = true
	}

	return &Tracker{
		hunks:   hunks,
		groups:  GroupChangedLines(lines),
		changed: changed,
		stats:   computeStats(hunks),
	}
}

// computeStats derives line-level statistics from hunks. When a hunk has both
// added and removed lines, the overlapping prefix counts as modifications and
// the excess as pure additions or deletions. One-sided hunks count fully.
func computeStats(hunks []model.Hunk) model.DiffStat {
	var stats model.DiffStat
	for _, h := range hunks {
		a, r := len(h.AddedLines), len(h.RemovedLines)
		switch {
		case a > 0 && r > 0:
			stats.Modifications += min(a, r)
			stats.Additions += max(0, a-r)
			stats.Deletions += max(0, r-a)
		case a > 0:
			stats.Additions += a
		case r > 0:
			stats.Deletions += r
		}
	}
	return stats
}

// Hunks returns the parsed hunks in diff order.
func (t *Tracker) Hunks() []model.Hunk { return t.hunks }

// Groups returns the file's changed-line groups, ascending and disjoint.
func (t *Tracker) Groups() []model.ChangedLineGroup { return t.groups }

// Stats returns the file's aggregate line statistics.
func (t *Tracker) Stats() model.DiffStat { return t.stats }

// LineChanged reports whether the given new-file line number was touched.
func (t *Tracker) LineChanged(line int) bool { return t.changed[line] }

// CurrentGroupIndex returns the index of the last group starting at or before
// line. A cursor above the first group resolves to the first group: while
// groups exist there is always a current group.
func (t *Tracker) CurrentGroupIndex(line int) (int, bool) {
	if len(t.groups) == 0 {
		return 0, false
	}
	idx := 0
	for i, g := range t.groups {
		if g.StartLine > line {
			break
		}
		idx = i
	}
	return idx, true
}

// CurrentGroup returns the group containing or preceding line.
func (t *Tracker) CurrentGroup(line int) (model.ChangedLineGroup, bool) {
	idx, ok := t.CurrentGroupIndex(line)
	if !ok {
		return model.ChangedLineGroup{}, false
	}
	return t.groups[idx], true
}

// NextGroup returns the first group starting after line, wrapping to the
// first group when the cursor is at or past the last one. The wrap-around is
// a deliberate navigation contract.
func (t *Tracker) NextGroup(line int) (model.ChangedLineGroup, bool) {
	if len(t.groups) == 0 {
		return model.ChangedLineGroup{}, false
	}
	for _, g := range t.groups {
		if g.StartLine > line {
			return g, true
		}
	}
	return t.groups[0], true
}

// PrevGroup returns the last group starting before line, wrapping to the last
// group when the cursor is at or before the first one.
func (t *Tracker) PrevGroup(line int) (model.ChangedLineGroup, bool) {
	if len(t.groups) == 0 {
		return model.ChangedLineGroup{}, false
	}
	for i := len(t.groups) - 1; i >= 0; i-- {
		if t.groups[i].StartLine < line {
			return t.groups[i], true
		}
	}
	return t.groups[len(t.groups)-1], true
}
