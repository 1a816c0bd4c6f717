package parse

import (
	"context"

	"github.com/randalmurphal/editkit/display"
	"github.com/randalmurphal/editkit/edit"
	"github.com/randalmurphal/editkit/stream"
)

// ParsedResponse is the outcome of parsing one model turn.
type ParsedResponse struct {
	// FullResponse is the raw, unprocessed response text, kept for
	// faithful round-tripping and translation between formats.
	FullResponse string

	// Conversation is the natural-language prose with edit blocks
	// stripped.
	Conversation string

	// FileEdits is the finalized edit plan, one entry per touched file,
	// in first-touch order.
	FileEdits []*edit.FileEdit

	// Interrupted is true when parsing stopped on a cancellation signal
	// rather than end of stream.
	Interrupted bool
}

// FileReader is the file-manager surface a parser needs: the snapshot lines
// of files in context, to render before/after previews and validate edit
// targets.
type FileReader interface {
	// ReadFile returns the snapshot lines of a known file.
	ReadFile(path string) ([]string, error)

	// Exists reports whether the path is in the known context set.
	Exists(path string) bool

	// OnDisk reports whether the path currently exists on disk.
	OnDisk(path string) bool
}

// Session carries the collaborators one parsing run needs. There is no
// ambient state: every parser receives its file access and display sink
// explicitly.
type Session struct {
	// Files resolves edit targets and supplies snapshot lines for
	// previews. Required.
	Files FileReader

	// Printer receives echoed prose, edit previews, and error notices.
	// Defaults to display.Discard when nil.
	Printer display.Printer

	// ContextLines is how many unchanged lines to show around a change in
	// previews. Zero means DefaultContextLines.
	ContextLines int
}

// DefaultContextLines is the preview context shown when the session does not
// choose its own.
const DefaultContextLines = 2

// printer returns the session's display sink, never nil.
func (s *Session) printer() display.Printer {
	if s.Printer == nil {
		return display.Discard
	}
	return s.Printer
}

// contextLines returns the effective preview context width.
func (s *Session) contextLines() int {
	if s.ContextLines <= 0 {
		return DefaultContextLines
	}
	return s.ContextLines
}

// Format is one concrete wire syntax. Implementations must be safe for
// concurrent use; a single StreamAndParse call is single-threaded.
type Format interface {
	// Name returns the registry name of the format.
	Name() string

	// StreamAndParse consumes the chunk stream to completion, echoing
	// display output through the session as content arrives, and returns
	// the accumulated response. Cancelling ctx interrupts the parse: the
	// in-progress edit (if any) is discarded, finalized edits are kept,
	// and the response comes back with Interrupted set. Malformed edits
	// are reported inline and skipped; only a broken chunk stream itself
	// returns an error.
	StreamAndParse(ctx context.Context, chunks <-chan stream.Chunk, sess *Session) (*ParsedResponse, error)

	// Serialize renders a response's edit plan back into this format's
	// wire syntax. parse(Serialize(parse(x))) must equal parse(x) for any
	// valid x, modulo insignificant whitespace.
	Serialize(resp *ParsedResponse) (string, error)
}
