package parse

import (
	"context"
	"strings"

	"github.com/randalmurphal/editkit/stream"
)

// LineScanner assembles complete lines out of arbitrarily fragmented chunks.
// Structural markers can only be recognized on whole lines, and chunk
// boundaries do not align with them, so formats buffer through a LineScanner
// and decide marker-or-text once a full line is available.
type LineScanner struct {
	pending strings.Builder
}

// Feed appends a chunk and returns the complete lines it finished, without
// their trailing newlines.
func (s *LineScanner) Feed(chunk string) []string {
	var lines []string
	for {
		i := strings.IndexByte(chunk, '\n')
		if i < 0 {
			s.pending.WriteString(chunk)
			return lines
		}
		s.pending.WriteString(chunk[:i])
		lines = append(lines, s.pending.String())
		s.pending.Reset()
		chunk = chunk[i+1:]
	}
}

// Pending returns the unfinished line buffered so far.
func (s *LineScanner) Pending() string {
	return s.pending.String()
}

// Flush returns the unfinished line and clears the buffer. At end of stream
// the final unterminated line still counts as a line.
func (s *LineScanner) Flush() (string, bool) {
	if s.pending.Len() == 0 {
		return "", false
	}
	line := s.pending.String()
	s.pending.Reset()
	return line, true
}

// CouldBeMarker reports whether a partial line could still grow into one of
// the given exact marker lines. While this holds, echoing must be deferred;
// once it stops holding the prefix is ordinary text and may be printed.
func CouldBeMarker(partial string, markers []string) bool {
	for _, m := range markers {
		if strings.HasPrefix(m, partial) {
			return true
		}
	}
	return false
}

// Hooks receives the line-oriented view of a chunk stream.
type Hooks struct {
	// Line is called once per completed line, newline stripped. The final
	// unterminated line at end of stream is delivered here too.
	Line func(line string)

	// Partial is called after each chunk that leaves an unfinished line
	// buffered, with the full prefix buffered so far. Optional.
	Partial func(pending string)
}

// Consume drives a chunk stream through a LineScanner until end of stream,
// a stream error, or cancellation. It returns the raw text consumed and
// whether the parse was interrupted. Cancellation is cooperative: it is
// checked between chunks, so a chunk already consumed stays consumed.
func Consume(ctx context.Context, chunks <-chan stream.Chunk, h Hooks) (raw string, interrupted bool, err error) {
	var full strings.Builder
	var scanner LineScanner

	for {
		select {
		case <-ctx.Done():
			return full.String(), true, nil
		case chunk, ok := <-chunks:
			if !ok {
				if line, has := scanner.Flush(); has {
					h.Line(line)
				}
				return full.String(), false, nil
			}
			if chunk.Err != nil {
				return full.String(), false, chunk.Err
			}
			full.WriteString(chunk.Content)
			for _, line := range scanner.Feed(chunk.Content) {
				h.Line(line)
			}
			if h.Partial != nil && scanner.Pending() != "" {
				h.Partial(scanner.Pending())
			}
		}
	}
}
