package block

import (
	"fmt"

	"github.com/randalmurphal/editkit/edit"
	"github.com/randalmurphal/editkit/parse"
)

// op is the resolved, validated form of one metadata block: a variant over
// the six actions, each carrying only the fields it needs. Internal line
// numbers are 0-indexed with half-open ranges; resolveOp does the wire
// conversion.
type op interface {
	// wantsCode reports whether the action expects an @@code section.
	wantsCode() bool

	// title is the preview heading shown to the user.
	title() string
}

type insertOp struct {
	fe  *edit.FileEdit
	pos int
}

func (o *insertOp) wantsCode() bool { return true }
func (o *insertOp) title() string {
	return fmt.Sprintf("%s: insert before line %d", o.fe.FilePath, o.pos+1)
}

type replaceOp struct {
	fe    *edit.FileEdit
	start int
	end   int
}

func (o *replaceOp) wantsCode() bool { return true }
func (o *replaceOp) title() string {
	return fmt.Sprintf("%s: replace lines %d-%d", o.fe.FilePath, o.start+1, o.end)
}

type deleteOp struct {
	fe    *edit.FileEdit
	start int
	end   int
}

func (o *deleteOp) wantsCode() bool { return false }
func (o *deleteOp) title() string {
	return fmt.Sprintf("%s: delete lines %d-%d", o.fe.FilePath, o.start+1, o.end)
}

type createOp struct {
	path string
}

func (o *createOp) wantsCode() bool { return true }
func (o *createOp) title() string   { return fmt.Sprintf("%s: create file", o.path) }

type deleteFileOp struct {
	path string
}

func (o *deleteFileOp) wantsCode() bool { return false }
func (o *deleteFileOp) title() string   { return fmt.Sprintf("%s: delete file", o.path) }

type renameOp struct {
	path string
	to   string
}

func (o *renameOp) wantsCode() bool { return false }
func (o *renameOp) title() string {
	return fmt.Sprintf("%s: rename to %s", o.path, o.to)
}

// resolveOp validates a decoded metadata block against the session's file
// context and converts wire line numbers to internal coordinates. Edit
// targets are registered with the plan immediately so several blocks for
// the same file accumulate into one FileEdit; creations register only when
// they finalize, so a failed create block leaves no trace.
func resolveOp(m *Metadata, plan *parse.PlanBuilder, sess *parse.Session) (op, error) {
	if m.File == "" {
		return nil, parse.Editf("", "metadata missing file")
	}

	switch m.Action {
	case "insert":
		fe, err := plan.Edit(m.File)
		if err != nil {
			return nil, err
		}
		pos, err := insertPosition(m, len(fe.PreviousLines))
		if err != nil {
			return nil, parse.Editf(m.File, "%v", err)
		}
		return &insertOp{fe: fe, pos: pos}, nil

	case "replace", "delete":
		fe, err := plan.Edit(m.File)
		if err != nil {
			return nil, err
		}
		start, end, err := lineRange(m, len(fe.PreviousLines))
		if err != nil {
			return nil, parse.Editf(m.File, "%v", err)
		}
		if m.Action == "delete" {
			return &deleteOp{fe: fe, start: start, end: end}, nil
		}
		return &replaceOp{fe: fe, start: start, end: end}, nil

	case "create-file":
		if sess.Files.Exists(m.File) || sess.Files.OnDisk(m.File) {
			return nil, parse.Editf(m.File, "file already exists")
		}
		return &createOp{path: m.File}, nil

	case "delete-file":
		if !sess.Files.Exists(m.File) {
			return nil, parse.Editf(m.File, "file not in context")
		}
		return &deleteFileOp{path: m.File}, nil

	case "rename-file":
		if m.Name == "" {
			return nil, parse.Editf(m.File, "rename-file missing name")
		}
		if !sess.Files.Exists(m.File) {
			return nil, parse.Editf(m.File, "file not in context")
		}
		return &renameOp{path: m.File, to: m.Name}, nil

	case "":
		return nil, parse.Editf(m.File, "metadata missing action")

	default:
		return nil, parse.Editf(m.File, "unknown action %q", m.Action)
	}
}

// insertPosition resolves insert-before-line/insert-after-line (1-indexed)
// to the internal 0-indexed insertion position. "Insert before line N" and
// "insert after line N-1" are the same position; when both fields are given
// they must agree.
func insertPosition(m *Metadata, fileLen int) (int, error) {
	if m.InsertBefore == nil && m.InsertAfter == nil {
		return 0, fmt.Errorf("insert requires insert-before-line or insert-after-line")
	}

	pos := -1
	if m.InsertBefore != nil {
		before := int(*m.InsertBefore)
		if before < 1 {
			return 0, fmt.Errorf("insert-before-line %d out of range", before)
		}
		pos = before - 1
	}
	if m.InsertAfter != nil {
		after := int(*m.InsertAfter)
		if after < 0 {
			return 0, fmt.Errorf("insert-after-line %d out of range", after)
		}
		if pos >= 0 && pos != after {
			return 0, fmt.Errorf("insert-before-line %d and insert-after-line %d disagree", int(*m.InsertBefore), after)
		}
		pos = after
	}
	if pos > fileLen {
		return 0, fmt.Errorf("insert position %d beyond end of %d-line file", pos+1, fileLen)
	}
	return pos, nil
}

// lineRange resolves start-line/end-line (1-indexed, inclusive) to the
// internal 0-indexed half-open range.
func lineRange(m *Metadata, fileLen int) (int, int, error) {
	if m.StartLine == nil || m.EndLine == nil {
		return 0, 0, fmt.Errorf("%s requires start-line and end-line", m.Action)
	}
	start := int(*m.StartLine)
	end := int(*m.EndLine)
	if start < 1 {
		return 0, 0, fmt.Errorf("start-line %d out of range", start)
	}
	if end < start {
		return 0, 0, fmt.Errorf("start-line %d after end-line %d", start, end)
	}
	if end > fileLen {
		return 0, 0, fmt.Errorf("end-line %d beyond end of %d-line file", end, fileLen)
	}
	return start - 1, end, nil
}
