package parse

import (
	"fmt"

	"github.com/randalmurphal/editkit/display"
)

// EditError describes why a single edit was skipped. It covers both
// structural problems (malformed metadata, impossible block nesting) and
// semantic ones (unknown file, inverted range). An EditError never aborts
// the response: the parser reports it inline and moves to the next block.
type EditError struct {
	File   string // target file, when known
	Reason string
}

// Error implements the error interface.
func (e *EditError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s: %s", e.File, e.Reason)
	}
	return e.Reason
}

// Editf creates an EditError with a formatted reason.
func Editf(file, format string, args ...any) *EditError {
	return &EditError{File: file, Reason: fmt.Sprintf(format, args...)}
}

// ReportSkip prints the inline notice for a skipped edit. The stream of
// already-printed output is never retracted; the notice is all the user
// sees of the failed edit from here on.
func (s *Session) ReportSkip(err error) {
	s.printer().Print(fmt.Sprintf("[edit skipped] %v\n", err), display.StyleError)
}
