// Package diff parses unified-diff output and derives the navigation
// structure a review session works with: hunks, contiguous changed-line
// groups, and per-file line statistics.
package diff

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ericfisherdev/reviewdesk/internal/domain/model"
)

// hunkHeaderPattern matches a unified-diff hunk header.
// Example: @@ -10,2 +10,3 @@ — counts are optional and default to 1.
var hunkHeaderPattern = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

// ParseUnified parses zero-context unified-diff text for a single file into
// an ordered list of hunks. Malformed or empty input yields an empty list,
// never an error: "no hunks" and "file unchanged" are indistinguishable from
// the caller's point of view and both are harmless.
func ParseUnified(text string) []model.Hunk {
	hunks := []model.Hunk{}
	if text == "" {
		return hunks
	}

	var current *model.Hunk

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")

		if m := hunkHeaderPattern.FindStringSubmatch(line); m != nil {
			if current != nil {
				hunks = append(hunks, *current)
			}
			current = &model.Hunk{
				OldStart: atoiOr(m[1], 1),
				OldCount: countOr1(m[2]),
				NewStart: atoiOr(m[3], 1),
				NewCount: countOr1(m[4]),
			}
			continue
		}

		if current == nil {
			// Preamble (diff/index/file-marker lines) before the first header.
			continue
		}

		switch {
		case strings.HasPrefix(line, "---") || strings.HasPrefix(line, "+++"):
			// File markers, not content.
		case strings.HasPrefix(line, "-"):
			current.RemovedLines = append(current.RemovedLines, line[1:])
		case strings.HasPrefix(line, "+"):
			current.AddedLines = append(current.AddedLines, line[1:])
		}
	}

	if current != nil {
		hunks = append(hunks, *current)
	}

	return hunks
}

// countOr1 parses an optional hunk-header count. An omitted count defaults to
// 1, and a count of 0 is normalized to 1: an empty hunk still reserves one
// anchor line, mirroring the insert/delete-at-a-point edge case of unified
// diffs.
func countOr1(s string) int {
	if s == "" {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil || n == 0 {
		return 1
	}
	return n
}

func atoiOr(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
