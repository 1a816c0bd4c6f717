package gitdiff

import (
	"fmt"
	"strings"

	"github.com/randalmurphal/editkit/edit"
	"github.com/randalmurphal/editkit/parse"
)

// Serialize implements parse.Format. Hunks are emitted with zero context
// lines, one hunk per replacement, against the conflict-resolved plan; new
// line numbers carry the cumulative offset of the hunks above them.
func (*Format) Serialize(resp *parse.ParsedResponse) (string, error) {
	var b strings.Builder

	if conv := strings.TrimRight(resp.Conversation, "\n"); conv != "" {
		b.WriteString(conv)
		b.WriteString("\n\n")
	}

	for _, fe := range resp.FileEdits {
		if err := writeFileDiff(&b, fe); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

func writeFileDiff(b *strings.Builder, fe *edit.FileEdit) error {
	switch {
	case fe.IsCreation:
		content, err := fe.UpdatedLines()
		if err != nil {
			return err
		}
		fmt.Fprintf(b, "diff --git a/%s b/%s\n", fe.FilePath, fe.FilePath)
		b.WriteString("new file mode 100644\n")
		fmt.Fprintf(b, "--- /dev/null\n+++ b/%s\n", fe.FilePath)
		if len(content) > 0 {
			fmt.Fprintf(b, "@@ -0,0 +1,%d @@\n", len(content))
			for _, line := range content {
				b.WriteString("+")
				b.WriteString(line)
				b.WriteString("\n")
			}
		}
		return nil

	case fe.IsDeletion:
		fmt.Fprintf(b, "diff --git a/%s b/%s\n", fe.FilePath, fe.FilePath)
		b.WriteString("deleted file mode 100644\n")
		fmt.Fprintf(b, "--- a/%s\n+++ /dev/null\n", fe.FilePath)
		return nil
	}

	target := fe.TargetPath()
	fmt.Fprintf(b, "diff --git a/%s b/%s\n", fe.FilePath, target)
	if fe.RenamePath != "" {
		fmt.Fprintf(b, "rename from %s\nrename to %s\n", fe.FilePath, fe.RenamePath)
	}
	fmt.Fprintf(b, "--- a/%s\n+++ b/%s\n", fe.FilePath, target)

	// Normalized() sorts descending by end line; a diff wants hunks top
	// to bottom.
	repls := fe.Normalized().Replacements
	for i, j := 0, len(repls)-1; i < j; i, j = i+1, j-1 {
		repls[i], repls[j] = repls[j], repls[i]
	}

	offset := 0
	for _, r := range repls {
		origCount := r.EndLine - r.StartLine
		newCount := len(r.NewLines)
		if origCount == 0 && newCount == 0 {
			continue
		}

		origStart := r.StartLine + 1
		if origCount == 0 {
			origStart = r.StartLine
		}
		newStart := r.StartLine + offset + 1
		if newCount == 0 {
			newStart = r.StartLine + offset
		}

		fmt.Fprintf(b, "@@ -%d,%d +%d,%d @@\n", origStart, origCount, newStart, newCount)
		for _, line := range fe.PreviousLines[r.StartLine:r.EndLine] {
			b.WriteString("-")
			b.WriteString(line)
			b.WriteString("\n")
		}
		for _, line := range r.NewLines {
			b.WriteString("+")
			b.WriteString(line)
			b.WriteString("\n")
		}
		offset += newCount - origCount
	}
	return nil
}
