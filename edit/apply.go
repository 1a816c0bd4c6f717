package edit

// UpdatedLines applies a conflict-resolved replacement list to a file
// snapshot and returns the new content. It is a pure function: no I/O, and
// the same inputs always produce the same output, so previews and diff
// workflows can re-derive proposed content without touching disk.
//
// The replacements must already be sorted descending by EndLine and
// non-overlapping, exactly as ResolveConflicts leaves them. Applying from the
// bottom of the file upward keeps the snapshot coordinates of every pending
// replacement valid. A violation of those preconditions returns ErrInternal:
// it means the resolver is broken, not that the model produced a bad edit.
func UpdatedLines(original []string, replacements []Replacement) ([]string, error) {
	lines := make([]string, len(original))
	copy(lines, original)

	prevStart := len(original)
	for _, r := range replacements {
		switch {
		case r.StartLine > r.EndLine:
			return nil, internalf("replacement range [%d, %d) inverted after resolution", r.StartLine, r.EndLine)
		case r.StartLine < 0:
			return nil, internalf("replacement start %d negative", r.StartLine)
		case r.EndLine > len(original):
			return nil, internalf("replacement end %d beyond file of %d lines", r.EndLine, len(original))
		case r.EndLine > prevStart:
			return nil, internalf("replacement [%d, %d) applied out of order", r.StartLine, r.EndLine)
		}
		prevStart = r.StartLine

		updated := make([]string, 0, len(lines)-(r.EndLine-r.StartLine)+len(r.NewLines))
		updated = append(updated, lines[:r.StartLine]...)
		updated = append(updated, r.NewLines...)
		updated = append(updated, lines[r.EndLine:]...)
		lines = updated
	}
	return lines, nil
}
