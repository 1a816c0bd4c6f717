package stream

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, ch <-chan Chunk) (string, error) {
	t.Helper()
	var sb strings.Builder
	for c := range ch {
		if c.Err != nil {
			return sb.String(), c.Err
		}
		sb.WriteString(c.Content)
	}
	return sb.String(), nil
}

func TestFromString_Refragments(t *testing.T) {
	input := "line one\nline two\n"

	var sizes []int
	ch := FromString(input, 3)
	var sb strings.Builder
	for c := range ch {
		sizes = append(sizes, len(c.Content))
		sb.WriteString(c.Content)
	}

	assert.Equal(t, input, sb.String())
	for i, n := range sizes {
		assert.LessOrEqual(t, n, 3, "chunk %d too large", i)
	}
	assert.Greater(t, len(sizes), 1, "expected multiple fragments")
}

func TestFromString_WholeString(t *testing.T) {
	got, err := collect(t, FromString("abc", 0))
	require.NoError(t, err)
	assert.Equal(t, "abc", got)
}

func TestFromString_Empty(t *testing.T) {
	got, err := collect(t, FromString("", 4))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFromReader(t *testing.T) {
	got, err := collect(t, FromReader(strings.NewReader("hello world")))
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
}

type failingReader struct{ n int }

func (r *failingReader) Read(p []byte) (int, error) {
	if r.n == 0 {
		r.n++
		copy(p, "partial")
		return 7, nil
	}
	return 0, io.ErrUnexpectedEOF
}

func TestFromReader_ForwardsError(t *testing.T) {
	got, err := collect(t, FromReader(&failingReader{}))
	assert.Equal(t, "partial", got)
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
}
