package stream

import (
	"context"
	"errors"
	"io"

	openai "github.com/sashabaranov/go-openai"
)

// FromOpenAI adapts an OpenAI streaming chat completion into a chunk stream.
// The channel closes on stream end or context cancellation; transport errors
// arrive as a final error chunk. The caller keeps ownership of the client.
func FromOpenAI(ctx context.Context, client *openai.Client, req openai.ChatCompletionRequest) (<-chan Chunk, error) {
	req.Stream = true
	s, err := client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return nil, err
	}

	ch := make(chan Chunk)
	go func() {
		defer close(ch)
		defer s.Close()
		for {
			resp, err := s.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				ch <- Chunk{Err: err}
				return
			}
			for _, choice := range resp.Choices {
				if choice.Delta.Content == "" {
					continue
				}
				select {
				case ch <- Chunk{Content: choice.Delta.Content}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return ch, nil
}
