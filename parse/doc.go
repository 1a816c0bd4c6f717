// Package parse defines the abstract contract every wire format implements:
// consume an incremental chunk stream, echo display output as it arrives, and
// accumulate file edits into a parsed response, surviving malformed and
// truncated input. It also carries the shared scaffolding the concrete
// formats build on: chunk-boundary-safe line assembly, marker lookahead,
// prose echoing, and the line-numbered edit preview.
//
// Concrete formats live in their own packages (block, replacements, gitdiff)
// and register themselves by name, so callers select one the same way they
// would select an LLM provider:
//
//	format, err := parse.New("block")
//	resp, err := format.StreamAndParse(ctx, chunks, sess)
package parse
