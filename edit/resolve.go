package edit

import (
	"math"
	"sort"
)

// ResolveConflicts reconciles possibly-overlapping replacements for one file
// into a conflict-free list in original-file coordinates. The input is not
// mutated.
//
// Replacements are ordered descending by EndLine, so the engine applies them
// from the bottom of the file upward and every not-yet-applied replacement
// keeps referring to valid snapshot line numbers. When two replacements
// overlap, the one declared first keeps the contested region and the other is
// silently truncated down to the boundary. This is a lossy, deterministic
// tie-break, not a merge.
//
// The result satisfies, for adjacent entries in the returned order:
//
//	out[i+1].EndLine <= out[i].StartLine
//	out[i].StartLine <= out[i].EndLine
func ResolveConflicts(replacements []Replacement) []Replacement {
	out := make([]Replacement, len(replacements))
	copy(out, replacements)

	// Stable keeps declaration order among equal EndLines, which is what
	// makes the first-declared replacement win the overlap.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EndLine > out[j].EndLine
	})

	minStart := math.MaxInt
	for i := range out {
		r := &out[i]
		if r.EndLine > minStart {
			r.EndLine = minStart
		}
		if r.StartLine > r.EndLine {
			r.StartLine = r.EndLine
		}
		if r.StartLine < minStart {
			minStart = r.StartLine
		}
	}
	return out
}
