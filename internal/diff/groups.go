package diff

import (
	"sort"

	"github.com/ericfisherdev/reviewdesk/internal/domain/model"
)

// GroupChangedLines collapses a set of changed new-file line numbers into
// contiguous groups. Groups are disjoint, ascending, and every input line
// belongs to exactly one group; two lines share a group iff every integer
// between them is also in the input.
func GroupChangedLines(lines []int) []model.ChangedLineGroup {
	groups := []model.ChangedLineGroup{}
	if len(lines) == 0 {
		return groups
	}

	seen := make(map[int]bool, len(lines))
	unique := make([]int, 0, len(lines))
	for _, l := range lines {
		if !seen[l] {
			seen[l] = true
			unique = append(unique, l)
		}
	}
	sort.Ints(unique)

	current := model.ChangedLineGroup{StartLine: unique[0], EndLine: unique[0]}
	for _, l := range unique[1:] {
		if l == current.EndLine+1 {
			current.EndLine = l
			continue
		}
		groups = append(groups, current)
		current = model.ChangedLineGroup{StartLine: l, EndLine: l}
	}
	groups = append(groups, current)

	return groups
}

// ChangedLines flattens hunks into the set of new-file line numbers they
// touch, in hunk order. The result may contain duplicates when hunks overlap;
// GroupChangedLines deduplicates.
func ChangedLines(hunks []model.Hunk) []int {
	var lines []int
	for _, h := range hunks {
		lines = append(lines, h.NewLines()...)
	}
	return lines
}
