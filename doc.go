// Package editkit provides the edit model, streaming response parsers, and
// change-application engine for an AI pair-programming assistant.
//
// editkit turns a streamed LLM response into a structured edit plan and
// applies that plan to files on disk. Each subpackage can be used
// independently:
//
//   - edit: line-range replacements, file edits, conflict resolution, apply
//   - parse: the format contract, format registry, and shared stream scaffolding
//   - block: the @@start/@@code/@@end block-JSON wire format
//   - replacements: the line-replacement wire format
//   - gitdiff: the git-diff wire format
//   - files: project-root-scoped file access with modification tracking
//   - session: apply orchestration, confirmation policies, and undo history
//   - stream: token-stream producers (strings, readers, OpenAI streaming)
//   - display: ordered, styled print events for terminal rendering
//
// # Quick Start
//
// Parse a response and apply it:
//
//	mgr, _ := files.NewManager(root, []string{"main.go"})
//	format, _ := parse.New("block")
//	sess := &parse.Session{Files: mgr, Printer: display.NewTerminal(os.Stdout)}
//	resp, _ := format.StreamAndParse(ctx, stream.FromString(modelOutput, 7), sess)
//
//	applier := session.NewApplier(mgr)
//	result, _ := applier.Apply(ctx, resp)
//
// # Design Philosophy
//
//   - One abstract parsing contract, N concrete wire formats
//   - Explicit collaborators, no ambient session state
//   - One malformed edit never aborts a whole response
//   - Interfaces for extensibility, concrete types for simplicity
package editkit
