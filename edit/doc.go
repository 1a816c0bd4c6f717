// Package edit defines the abstract edit model shared by every wire format:
// line intervals, replacements, file-level edits, deterministic conflict
// resolution, and pure application of resolved replacements to file contents.
//
// All line numbers in this package are 0-indexed and all ranges are half-open
// [Start, End). Wire formats that speak 1-indexed inclusive ranges convert at
// the parsing boundary.
package edit
