package block

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/randalmurphal/editkit/edit"
	"github.com/randalmurphal/editkit/parse"
)

// Serialize implements parse.Format. It renders the conversation followed by
// one block per change, targeting original paths so the output re-parses
// against the same file context.
func (*Format) Serialize(resp *parse.ParsedResponse) (string, error) {
	var b strings.Builder

	if conv := strings.TrimRight(resp.Conversation, "\n"); conv != "" {
		b.WriteString(conv)
		b.WriteString("\n\n")
	}

	for _, fe := range resp.FileEdits {
		if err := writeFileEdit(&b, fe); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

func writeFileEdit(b *strings.Builder, fe *edit.FileEdit) error {
	switch {
	case fe.IsCreation:
		content, err := fe.UpdatedLines()
		if err != nil {
			return err
		}
		return writeBlock(b, &Metadata{File: fe.FilePath, Action: "create-file"}, content, len(content) > 0)

	case fe.IsDeletion:
		return writeBlock(b, &Metadata{File: fe.FilePath, Action: "delete-file"}, nil, false)
	}

	for _, r := range fe.Replacements {
		m := &Metadata{File: fe.FilePath}
		withCode := true
		switch {
		case r.IsInsertion():
			m.Action = "insert"
			m.InsertBefore = flexInt(r.StartLine + 1)
			m.InsertAfter = flexInt(r.StartLine)
		case len(r.NewLines) == 0:
			m.Action = "delete"
			m.StartLine = flexInt(r.StartLine + 1)
			m.EndLine = flexInt(r.EndLine)
			withCode = false
		default:
			m.Action = "replace"
			m.StartLine = flexInt(r.StartLine + 1)
			m.EndLine = flexInt(r.EndLine)
		}
		if err := writeBlock(b, m, r.NewLines, withCode); err != nil {
			return err
		}
	}

	// The rename goes last so earlier blocks re-parse against the
	// original path.
	if fe.RenamePath != "" {
		return writeBlock(b, &Metadata{File: fe.FilePath, Action: "rename-file", Name: fe.RenamePath}, nil, false)
	}
	return nil
}

func writeBlock(b *strings.Builder, m *Metadata, code []string, withCode bool) error {
	meta, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("block: marshal metadata for %s: %w", m.File, err)
	}

	b.WriteString(markerStart)
	b.WriteString("\n")
	b.Write(meta)
	b.WriteString("\n")
	if withCode {
		b.WriteString(markerCode)
		b.WriteString("\n")
		for _, line := range code {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	b.WriteString(markerEnd)
	b.WriteString("\n")
	return nil
}

func flexInt(n int) *FlexInt {
	f := FlexInt(n)
	return &f
}
