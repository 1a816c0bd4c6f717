package edit

// Interval is a half-open line range [Start, End).
// Invariant: Start <= End. An interval with Start == End is empty; it
// contains no lines and intersects nothing.
type Interval struct {
	Start int
	End   int
}

// Contains reports whether line falls inside the interval.
func (iv Interval) Contains(line int) bool {
	return iv.Start <= line && line < iv.End
}

// Intersects reports whether the two intervals share at least one line.
func (iv Interval) Intersects(other Interval) bool {
	if iv.Empty() || other.Empty() {
		return false
	}
	return iv.Start < other.End && other.Start < iv.End
}

// Empty reports whether the interval covers no lines.
func (iv Interval) Empty() bool {
	return iv.Start >= iv.End
}

// Len returns the number of lines covered by the interval.
func (iv Interval) Len() int {
	if iv.Empty() {
		return 0
	}
	return iv.End - iv.Start
}
