package parse

import (
	"strings"

	"github.com/randalmurphal/editkit/display"
)

// ProseEchoer streams conversational prose to the display as it arrives,
// deferring only while a buffered prefix could still become a structural
// marker. Output is append-only: once a prefix is echoed it was provably not
// a marker, so nothing ever needs retracting.
type ProseEchoer struct {
	printer display.Printer
	hold    func(partial string) bool
	echoed  int
}

// NewProseEchoer creates an echoer that holds back prefixes of the given
// exact marker lines.
func NewProseEchoer(printer display.Printer, markers []string) *ProseEchoer {
	return &ProseEchoer{
		printer: printer,
		hold: func(partial string) bool {
			return CouldBeMarker(partial, markers)
		},
	}
}

// NewPrefixEchoer creates an echoer for formats whose structural lines all
// start with a fixed prefix. Any partial line that starts with the prefix, or
// is still a prefix of it, is held until the full line disambiguates.
func NewPrefixEchoer(printer display.Printer, prefix string) *ProseEchoer {
	return &ProseEchoer{
		printer: printer,
		hold: func(partial string) bool {
			return strings.HasPrefix(partial, prefix) || strings.HasPrefix(prefix, partial)
		},
	}
}

// Partial echoes the unechoed tail of an unfinished line once the prefix can
// no longer become a marker.
func (e *ProseEchoer) Partial(pending string) {
	if e.echoed == 0 && e.hold(pending) {
		return
	}
	if len(pending) > e.echoed {
		e.printer.Print(pending[e.echoed:], display.StyleNeutral)
		e.echoed = len(pending)
	}
}

// Line echoes the rest of a completed non-marker line.
func (e *ProseEchoer) Line(line string) {
	e.printer.Print(line[e.echoed:]+"\n", display.StyleNeutral)
	e.echoed = 0
}

// Reset drops partial-echo bookkeeping. Call when a completed line turned
// out to be a marker; marker prefixes are always held, so nothing of the
// line has been echoed.
func (e *ProseEchoer) Reset() {
	e.echoed = 0
}
