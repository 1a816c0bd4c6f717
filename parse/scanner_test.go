package parse

import (
	"context"
	"testing"

	"github.com/randalmurphal/editkit/stream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineScanner_SplitAcrossChunks(t *testing.T) {
	var s LineScanner

	lines := s.Feed("hel")
	assert.Empty(t, lines)
	assert.Equal(t, "hel", s.Pending())

	lines = s.Feed("lo\nwor")
	assert.Equal(t, []string{"hello"}, lines)
	assert.Equal(t, "wor", s.Pending())

	lines = s.Feed("ld\n")
	assert.Equal(t, []string{"world"}, lines)
	assert.Equal(t, "", s.Pending())
}

func TestLineScanner_MultipleLinesPerChunk(t *testing.T) {
	var s LineScanner
	lines := s.Feed("a\nb\nc\npartial")
	assert.Equal(t, []string{"a", "b", "c"}, lines)
	assert.Equal(t, "partial", s.Pending())
}

func TestLineScanner_Flush(t *testing.T) {
	var s LineScanner
	s.Feed("tail without newline")

	line, ok := s.Flush()
	assert.True(t, ok)
	assert.Equal(t, "tail without newline", line)

	_, ok = s.Flush()
	assert.False(t, ok)
}

func TestCouldBeMarker(t *testing.T) {
	markers := []string{"@@start", "@@code", "@@end"}

	tests := []struct {
		partial string
		want    bool
	}{
		{"", true},
		{"@", true},
		{"@@", true},
		{"@@s", true},
		{"@@start", true},
		{"@@c", true},
		{"@@x", false},
		{"hello", false},
		{"@@startx", false}, // diverged, cannot equal any marker
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CouldBeMarker(tt.partial, markers), "partial %q", tt.partial)
	}
}

func TestConsume_DeliversLinesAndRaw(t *testing.T) {
	var lines []string
	raw, interrupted, err := Consume(context.Background(),
		stream.FromString("one\ntwo\ntail", 4),
		Hooks{Line: func(l string) { lines = append(lines, l) }},
	)

	require.NoError(t, err)
	assert.False(t, interrupted)
	assert.Equal(t, "one\ntwo\ntail", raw)
	assert.Equal(t, []string{"one", "two", "tail"}, lines, "final unterminated line still delivered")
}

func TestConsume_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	// A stream that never closes.
	chunks := make(chan stream.Chunk)
	go func() {
		chunks <- stream.Chunk{Content: "first\n"}
		cancel()
	}()

	var lines []string
	_, interrupted, err := Consume(ctx, chunks,
		Hooks{Line: func(l string) { lines = append(lines, l) }})

	require.NoError(t, err)
	assert.True(t, interrupted)
	assert.Equal(t, []string{"first"}, lines)
}

func TestConsume_StreamError(t *testing.T) {
	chunks := make(chan stream.Chunk, 2)
	chunks <- stream.Chunk{Content: "ok\n"}
	chunks <- stream.Chunk{Err: assert.AnError}
	close(chunks)

	_, _, err := Consume(context.Background(), chunks, Hooks{Line: func(string) {}})
	assert.ErrorIs(t, err, assert.AnError)
}
