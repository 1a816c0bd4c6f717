// Package stream models the token-stream producer the parsers consume: a
// lazy, finite, order-preserving sequence of text fragments with arbitrary
// fragment boundaries, terminated by channel close.
package stream

import (
	"bufio"
	"io"
)

// Chunk is one fragment of model output. A non-nil Err terminates the
// stream; Content may be empty in that case.
type Chunk struct {
	Content string
	Err     error
}

// FromString produces a stream re-fragmented into pieces of at most size
// bytes. Fragment boundaries deliberately ignore line and marker boundaries,
// which is what makes this useful for exercising chunk-boundary handling in
// tests. A size <= 0 sends the whole string as one chunk.
func FromString(s string, size int) <-chan Chunk {
	ch := make(chan Chunk)
	go func() {
		defer close(ch)
		if size <= 0 {
			if s != "" {
				ch <- Chunk{Content: s}
			}
			return
		}
		for len(s) > 0 {
			n := size
			if n > len(s) {
				n = len(s)
			}
			ch <- Chunk{Content: s[:n]}
			s = s[n:]
		}
	}()
	return ch
}

// FromReader produces a stream by reading r in buffer-sized pieces until EOF.
// Read errors other than io.EOF are forwarded as a final error chunk.
func FromReader(r io.Reader) <-chan Chunk {
	ch := make(chan Chunk)
	go func() {
		defer close(ch)
		br := bufio.NewReader(r)
		buf := make([]byte, 4096)
		for {
			n, err := br.Read(buf)
			if n > 0 {
				ch <- Chunk{Content: string(buf[:n])}
			}
			if err == io.EOF {
				return
			}
			if err != nil {
				ch <- Chunk{Err: err}
				return
			}
		}
	}()
	return ch
}
