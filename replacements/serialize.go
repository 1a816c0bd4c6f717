package replacements

import (
	"fmt"
	"strings"

	"github.com/randalmurphal/editkit/edit"
	"github.com/randalmurphal/editkit/parse"
)

// Serialize implements parse.Format.
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
		fmt.Fprintf(b, "%s %s +\n", terminator, fe.FilePath)
		writeBody(b, content)
		return nil

	case fe.IsDeletion:
		fmt.Fprintf(b, "%s %s -\n", terminator, fe.FilePath)
		return nil
	}

	for _, r := range fe.Replacements {
		fmt.Fprintf(b, "%s %s starting_line=%d ending_line=%d\n",
			terminator, fe.FilePath, r.StartLine+1, r.EndLine)
		writeBody(b, r.NewLines)
	}

	// The rename goes last so earlier headers re-parse against the
	// original path.
	if fe.RenamePath != "" {
		fmt.Fprintf(b, "%s %s -> %s\n", terminator, fe.FilePath, fe.RenamePath)
	}
	return nil
}

func writeBody(b *strings.Builder, lines []string) {
	for _, line := range lines {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(terminator)
	b.WriteString("\n")
}
