package parse

import (
	"testing"

	"github.com/randalmurphal/editkit/display"
	"github.com/stretchr/testify/assert"
)

var testMarkers = []string{"@@start", "@@code", "@@end"}

func TestProseEchoer_StreamsPlainText(t *testing.T) {
	rec := display.NewRecorder()
	e := NewProseEchoer(rec, testMarkers)

	e.Partial("hel")
	e.Partial("hello wo")
	e.Line("hello world")

	assert.Equal(t, "hello world\n", rec.Text())
}

func TestProseEchoer_HoldsMarkerPrefix(t *testing.T) {
	rec := display.NewRecorder()
	e := NewProseEchoer(rec, testMarkers)

	// "@@s" could still become "@@start": nothing may be echoed yet.
	e.Partial("@@s")
	assert.Empty(t, rec.Text())

	// "@@something" diverged from every marker: echo it now.
	e.Partial("@@something")
	assert.Equal(t, "@@something", rec.Text())

	e.Line("@@something else")
	assert.Equal(t, "@@something else\n", rec.Text())
}

func TestProseEchoer_MarkerNeverEchoed(t *testing.T) {
	rec := display.NewRecorder()
	e := NewProseEchoer(rec, testMarkers)

	e.Partial("@@st")
	e.Partial("@@start")
	// Line completed and recognized as a marker; caller resets instead of
	// echoing.
	e.Reset()

	assert.Empty(t, rec.Text())
}

func TestPrefixEchoer_HoldsPrefixedLines(t *testing.T) {
	rec := display.NewRecorder()
	e := NewPrefixEchoer(rec, "@ ")

	// "@" could still become "@ path ...": held.
	e.Partial("@")
	assert.Empty(t, rec.Text())

	// Anything under the prefix stays held until the line completes.
	e.Partial("@ a.go start")
	assert.Empty(t, rec.Text())
	e.Reset()

	// "@p" diverged from the prefix: ordinary prose.
	e.Partial("@p")
	assert.Equal(t, "@p", rec.Text())
	e.Line("@property")
	assert.Equal(t, "@property\n", rec.Text())
}

func TestPreview_RendersContextRemovedAdded(t *testing.T) {
	rec := display.NewRecorder()
	sess := &Session{
		Files:        MemFiles{},
		Printer:      rec,
		ContextLines: 1,
	}
	fileLines := []string{"a", "b", "c", "d", "e"}

	pv := NewPreview(sess, "x.txt: replace lines 3-4", fileLines, 2, 4)
	pv.Added("C")
	pv.Finish()

	events := rec.Events()
	var added, removed, neutral, info int
	for _, ev := range events {
		switch ev.Style {
		case display.StyleAdded:
			added++
		case display.StyleRemoved:
			removed++
		case display.StyleNeutral:
			neutral++
		case display.StyleInfo:
			info++
		}
	}
	assert.Equal(t, 1, info)
	assert.Equal(t, 2, removed, "lines c and d removed")
	assert.Equal(t, 1, added)
	// One context line before, one after, one trailing blank line.
	assert.Equal(t, 3, neutral)

	text := rec.Text()
	assert.Contains(t, text, "   3 - c")
	assert.Contains(t, text, "   4 - d")
	assert.Contains(t, text, "   3 + C")
	assert.Contains(t, text, "   2   b")
	assert.Contains(t, text, "   5   e")
}
