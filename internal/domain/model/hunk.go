package model

// Hunk is one contiguous block of a unified diff, anchored to old- and
// new-file line ranges. Hunks are computed fresh per file query and never
// persisted.
type Hunk struct {
	OldStart     int
	OldCount     int
	NewStart     int
	NewCount     int
	RemovedLines []string
	AddedLines   []string
}

// NewLines returns every new-file line number covered by the hunk.
func (h Hunk) NewLines() []int {
	lines := make([]int, 0, h.NewCount)
	for i := 0; i < h.NewCount; i++ {
		lines = append(lines, h.NewStart+i)
	}
	return lines
}

// ChangedLineGroup is a contiguous run of changed new-file line numbers. It is
// the unit of hunk-to-hunk navigation and progress reporting, distinct from a
// raw diff hunk: adjacent hunks flatten into one group.
type ChangedLineGroup struct {
	StartLine int
	EndLine   int
}

// Contains reports whether line falls within the group.
func (g ChangedLineGroup) Contains(line int) bool {
	return line >= g.StartLine && line <= g.EndLine
}
