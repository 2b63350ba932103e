package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/reviewdesk/internal/domain/model"
)

// trackerAt builds a tracker with single-line groups at the given lines.
func trackerAt(lines ...int) *Tracker {
	hunks := make([]model.Hunk, 0, len(lines))
	for _, l := range lines {
		hunks = append(hunks, model.Hunk{NewStart: l, NewCount: 1, AddedLines: []string{"x"}})
	}
	return NewTracker(hunks)
}

func TestTrackerStats(t *testing.T) {
	tests := []struct {
		name  string
		hunks []model.Hunk
		want  model.DiffStat
	}{
		{
			name: "mixed hunk counts overlap as modifications",
			hunks: []model.Hunk{{
				RemovedLines: []string{"a", "b"},
				AddedLines:   []string{"a", "b2", "c"},
			}},
			want: model.DiffStat{Modifications: 2, Additions: 1, Deletions: 0},
		},
		{
			name:  "pure addition",
			hunks: []model.Hunk{{AddedLines: []string{"a", "b", "c"}}},
			want:  model.DiffStat{Additions: 3},
		},
		{
			name:  "pure deletion",
			hunks: []model.Hunk{{RemovedLines: []string{"a", "b"}}},
			want:  model.DiffStat{Deletions: 2},
		},
		{
			name: "removal excess becomes deletions",
			hunks: []model.Hunk{{
				RemovedLines: []string{"a", "b", "c"},
				AddedLines:   []string{"x"},
			}},
			want: model.DiffStat{Modifications: 1, Deletions: 2},
		},
		{
			name: "summed across hunks",
			hunks: []model.Hunk{
				{AddedLines: []string{"a"}},
				{RemovedLines: []string{"b"}, AddedLines: []string{"c"}},
			},
			want: model.DiffStat{Additions: 1, Modifications: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTracker(tt.hunks)
			assert.Equal(t, tt.want, tr.Stats())
			assert.Equal(t, tt.want.Additions+tt.want.Modifications+tt.want.Deletions, tr.Stats().Total())
		})
	}
}

func TestTrackerLineChanged(t *testing.T) {
	tr := NewTracker([]model.Hunk{{NewStart: 5, NewCount: 2, AddedLines: []string{"a", "b"}}})

	assert.True(t, tr.LineChanged(5))
	assert.True(t, tr.LineChanged(6))
	assert.False(t, tr.LineChanged(4))
	assert.False(t, tr.LineChanged(7))
}

func TestTrackerCurrentGroup(t *testing.T) {
	tr := trackerAt(5, 12, 20)

	tests := []struct {
		name   string
		cursor int
		want   int // expected StartLine
	}{
		{"inside a group", 12, 12},
		{"between groups resolves backward", 15, 12},
		{"past the last group", 99, 20},
		{"above the first group defaults to first", 1, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, ok := tr.CurrentGroup(tt.cursor)
			require.True(t, ok, "never leave no-current-group while groups exist")
			assert.Equal(t, tt.want, g.StartLine)
		})
	}
}

func TestTrackerNavigationWraps(t *testing.T) {
	tr := trackerAt(5, 12, 20)

	next, ok := tr.NextGroup(25)
	require.True(t, ok)
	assert.Equal(t, 5, next.StartLine, "next past the last group wraps to the first")

	next, ok = tr.NextGroup(5)
	require.True(t, ok)
	assert.Equal(t, 12, next.StartLine)

	prev, ok := tr.PrevGroup(3)
	require.True(t, ok)
	assert.Equal(t, 20, prev.StartLine, "previous before the first group wraps to the last")

	prev, ok = tr.PrevGroup(20)
	require.True(t, ok)
	assert.Equal(t, 12, prev.StartLine)
}

func TestTrackerEmpty(t *testing.T) {
	tr := NewTracker(nil)

	assert.Empty(t, tr.Groups())
	assert.Equal(t, model.DiffStat{}, tr.Stats())

	_, ok := tr.CurrentGroup(1)
	assert.False(t, ok)
	_, ok = tr.NextGroup(1)
	assert.False(t, ok)
	_, ok = tr.PrevGroup(1)
	assert.False(t, ok)
}

func TestTrackerAdjacentHunksMergeIntoOneGroup(t *testing.T) {
	tr := NewTracker([]model.Hunk{
		{NewStart: 4, NewCount: 2, AddedLines: []string{"a", "b"}},
		{NewStart: 6, NewCount: 1, AddedLines: []string{"c"}},
	})

	require.Len(t, tr.Groups(), 1)
	assert.Equal(t, model.ChangedLineGroup{StartLine: 4, EndLine: 6}, tr.Groups()[0])
}
