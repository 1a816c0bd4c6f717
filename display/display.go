// Package display defines the ordered print-event stream the parsing and
// apply engines emit for the user. Consumers must render events in emission
// order; the stream is append-only and nothing is ever retracted.
package display

import "sync"

// Style classifies a print event for rendering.
type Style int

// Styles understood by every sink.
const (
	// StyleNeutral is conversational prose and unchanged context lines.
	StyleNeutral Style = iota

	// StyleAdded marks inserted lines.
	StyleAdded

	// StyleRemoved marks deleted lines.
	StyleRemoved

	// StyleInfo marks status notices (file headers, skip notes).
	StyleInfo

	// StyleError marks per-edit failure notices.
	StyleError
)

// String returns the style name.
func (s Style) String() string {
	switch s {
	case StyleNeutral:
		return "neutral"
	case StyleAdded:
		return "added"
	case StyleRemoved:
		return "removed"
	case StyleInfo:
		return "info"
	case StyleError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is one print event.
type Event struct {
	Text  string
	Style Style
}

// Printer receives print events. Implementations must preserve emission
// order and must not batch-reorder.
type Printer interface {
	Print(text string, style Style)
}

// Recorder is a Printer that captures events for inspection.
// Safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Print implements Printer.
func (r *Recorder) Print(text string, style Style) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Text: text, Style: style})
}

// Events returns a copy of the captured events in emission order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Text returns the concatenation of all captured event text.
func (r *Recorder) Text() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out string
	for _, e := range r.events {
		out += e.Text
	}
	return out
}

// Discard is a Printer that drops everything.
var Discard Printer = discard{}

type discard struct{}

func (discard) Print(string, Style) {}
