package edit

// Replacement replaces the lines in [StartLine, EndLine) of a file with
// NewLines. Lines are 0-indexed into the file's snapshot, not into any
// partially edited result.
//
// The three degenerate shapes are all legal:
//
//   - StartLine == EndLine with non-empty NewLines: pure insertion
//   - StartLine == EndLine with empty NewLines: no-op
//   - StartLine < EndLine with empty NewLines: pure deletion
//
// A Replacement is created once by a parser and read-only after conflict
// resolution.
type Replacement struct {
	StartLine int
	EndLine   int
	NewLines  []string
}

// Interval returns the original-file range the replacement covers.
func (r Replacement) Interval() Interval {
	return Interval{Start: r.StartLine, End: r.EndLine}
}

// IsInsertion reports whether the replacement removes no existing lines.
func (r Replacement) IsInsertion() bool {
	return r.StartLine == r.EndLine
}

// FileEdit is the accumulated set of changes one model response proposes for
// a single file. A response that touches the same file in several blocks
// still produces one FileEdit with several Replacements.
type FileEdit struct {
	// FilePath is the slash-separated path relative to the project root.
	FilePath string

	// Replacements are the line edits, in the order the model emitted them.
	Replacements []Replacement

	// IsCreation marks a brand-new file. The initial content, if any,
	// arrives as a single insertion at line 0.
	IsCreation bool

	// IsDeletion marks removal of the whole file. Mutually exclusive with
	// IsCreation; a deletion carries no replacements.
	IsDeletion bool

	// RenamePath, when non-empty, is the new relative path. The rename is
	// applied logically after the replacements: new content is written
	// under the new name.
	RenamePath string

	// PreviousLines is the snapshot of the file the replacements refer to.
	// Empty for creations.
	PreviousLines []string
}

// Validate checks the FileEdit's structural invariants.
func (fe *FileEdit) Validate() error {
	if fe.FilePath == "" {
		return invalidf("missing file path")
	}
	if fe.IsCreation && fe.IsDeletion {
		return invalidf("%s: creation and deletion are mutually exclusive", fe.FilePath)
	}
	if fe.IsDeletion && len(fe.Replacements) > 0 {
		return invalidf("%s: deletion carries replacements", fe.FilePath)
	}
	if fe.IsCreation && len(fe.PreviousLines) > 0 {
		return invalidf("%s: creation carries previous lines", fe.FilePath)
	}
	for _, r := range fe.Replacements {
		if r.StartLine > r.EndLine {
			return invalidf("%s: replacement range [%d, %d) inverted", fe.FilePath, r.StartLine, r.EndLine)
		}
		if r.StartLine < 0 {
			return invalidf("%s: negative start line %d", fe.FilePath, r.StartLine)
		}
	}
	return nil
}

// IsFileLevel reports whether the edit only creates, deletes, or renames the
// file without touching line content.
func (fe *FileEdit) IsFileLevel() bool {
	return len(fe.Replacements) == 0 && (fe.IsCreation || fe.IsDeletion || fe.RenamePath != "")
}

// AddReplacement appends a replacement to the edit.
func (fe *FileEdit) AddReplacement(r Replacement) {
	fe.Replacements = append(fe.Replacements, r)
}

// TargetPath returns the path the final content lands at: RenamePath when a
// rename is requested, FilePath otherwise.
func (fe *FileEdit) TargetPath() string {
	if fe.RenamePath != "" {
		return fe.RenamePath
	}
	return fe.FilePath
}

// UpdatedLines resolves the edit's replacements against PreviousLines and
// returns the resulting file content. Deletions return nil. The receiver is
// not mutated; this is the pure preview used before anything touches disk.
func (fe *FileEdit) UpdatedLines() ([]string, error) {
	if err := fe.Validate(); err != nil {
		return nil, err
	}
	if fe.IsDeletion {
		return nil, nil
	}
	resolved := ResolveConflicts(fe.Replacements)
	return UpdatedLines(fe.PreviousLines, resolved)
}

// Normalized returns a copy of the edit with its replacements
// conflict-resolved. Parsers emit raw replacement lists; comparing two edit
// plans for equivalence is only meaningful after normalization.
func (fe *FileEdit) Normalized() *FileEdit {
	out := *fe
	out.Replacements = ResolveConflicts(fe.Replacements)
	return &out
}
