// Package gitdiff implements the git-diff wire format on top of
// sourcegraph/go-diff. Unlike the streaming formats, a unified diff is only
// meaningful once a whole file section is available, so the parser buffers
// the stream and converts file sections at end of stream. Prose before the
// first "diff --git" line is treated as conversation; everything after it is
// diff text.
package gitdiff

import (
	"context"
	"fmt"
	"strings"

	"github.com/sourcegraph/go-diff/diff"

	"github.com/randalmurphal/editkit/display"
	"github.com/randalmurphal/editkit/edit"
	"github.com/randalmurphal/editkit/parse"
	"github.com/randalmurphal/editkit/stream"
)

// FormatName is the registry name of this format.
const FormatName = "git-diff"

const fileHeader = "diff --git "

// Format is the git-diff wire format. The zero value is ready to use.
type Format struct{}

// New creates the git-diff format.
func New() *Format {
	return &Format{}
}

// Name implements parse.Format.
func (*Format) Name() string { return FormatName }

// StreamAndParse implements parse.Format. Cancellation is still honored
// between chunks; on interruption the final, possibly truncated file section
// is dropped and every complete section before it is kept.
func (*Format) StreamAndParse(ctx context.Context, chunks <-chan stream.Chunk, sess *parse.Session) (*parse.ParsedResponse, error) {
	printer := sess.Printer
	if printer == nil {
		printer = display.Discard
	}
	echo := parse.NewPrefixEchoer(printer, fileHeader)

	var conversation strings.Builder
	var sections [][]string
	inDiff := false

	raw, interrupted, err := parse.Consume(ctx, chunks, parse.Hooks{
		Line: func(line string) {
			if strings.HasPrefix(line, fileHeader) {
				echo.Reset()
				inDiff = true
				sections = append(sections, []string{line})
				return
			}
			if !inDiff {
				conversation.WriteString(line)
				conversation.WriteString("\n")
				echo.Line(line)
				return
			}
			last := len(sections) - 1
			sections[last] = append(sections[last], line)
		},
		Partial: func(pending string) {
			if !inDiff {
				echo.Partial(pending)
			}
		},
	})
	if err != nil {
		return nil, err
	}

	if interrupted && len(sections) > 0 {
		sections = sections[:len(sections)-1]
	}

	plan := parse.NewPlanBuilder(sess)
	for _, section := range sections {
		text := strings.Join(section, "\n") + "\n"
		fd, err := diff.ParseFileDiff([]byte(text))
		if err != nil {
			sess.ReportSkip(parse.Editf("", "unparseable file diff: %v", err))
			continue
		}
		if err := convertFileDiff(fd, plan, sess); err != nil {
			sess.ReportSkip(err)
		}
	}

	var edits []*edit.FileEdit
	for _, fe := range plan.Edits() {
		if len(fe.Replacements) == 0 && !fe.IsCreation && !fe.IsDeletion && fe.RenamePath == "" {
			continue
		}
		edits = append(edits, fe)
	}

	return &parse.ParsedResponse{
		FullResponse: raw,
		Conversation: conversation.String(),
		FileEdits:    edits,
		Interrupted:  interrupted,
	}, nil
}

// convertFileDiff folds one parsed file diff into the plan.
func convertFileDiff(fd *diff.FileDiff, plan *parse.PlanBuilder, sess *parse.Session) error {
	orig := stripName(fd.OrigName)
	name := stripName(fd.NewName)

	switch {
	case orig == "" && name == "":
		return parse.Editf("", "file diff names both /dev/null")

	case orig == "":
		fe, err := plan.Creation(name)
		if err != nil {
			return err
		}
		lines := addedLines(fd)
		if len(lines) > 0 {
			fe.AddReplacement(edit.Replacement{StartLine: 0, EndLine: 0, NewLines: lines})
		}
		printInfo(sess, fmt.Sprintf("%s: create file", name))
		return nil

	case name == "":
		if err := plan.Deletion(orig); err != nil {
			return err
		}
		printInfo(sess, fmt.Sprintf("%s: delete file", orig))
		return nil
	}

	fe, err := plan.Edit(orig)
	if err != nil {
		return err
	}

	// Convert every hunk before touching the plan, so a bad hunk skips
	// this section without losing edits from earlier sections.
	var repls []edit.Replacement
	for _, h := range fd.Hunks {
		hr, err := hunkReplacements(h, fe.PreviousLines)
		if err != nil {
			return parse.Editf(orig, "%v", err)
		}
		repls = append(repls, hr...)
	}
	for _, r := range repls {
		pv := parse.NewPreview(sess, replacementTitle(orig, r), fe.PreviousLines, r.StartLine, r.EndLine)
		for _, line := range r.NewLines {
			pv.Added(line)
		}
		pv.Finish()
		fe.AddReplacement(r)
	}

	if name != orig {
		if err := plan.Rename(orig, name); err != nil {
			return err
		}
		printInfo(sess, fmt.Sprintf("%s: rename to %s", orig, name))
	}
	return nil
}

// hunkReplacements converts one hunk body into replacements, one per
// contiguous run of removed/added lines. Removed and context lines are
// verified against the snapshot; a mismatch means the diff was produced
// against different content.
func hunkReplacements(h *diff.Hunk, snapshot []string) ([]edit.Replacement, error) {
	// For a zero-length original range the header names the line the
	// insertion follows, not the first affected line.
	pos := int(h.OrigStartLine) - 1
	if h.OrigLines == 0 {
		pos = int(h.OrigStartLine)
	}
	if pos < 0 {
		return nil, fmt.Errorf("hunk original start %d out of range", h.OrigStartLine)
	}

	var out []edit.Replacement
	runStart := -1
	var added []string

	flush := func() {
		if runStart < 0 {
			return
		}
		out = append(out, edit.Replacement{StartLine: runStart, EndLine: pos, NewLines: added})
		runStart = -1
		added = nil
	}

	body := strings.Split(strings.TrimSuffix(string(h.Body), "\n"), "\n")
	for _, line := range body {
		if line == "" {
			line = " "
		}
		text := line[1:]
		switch line[0] {
		case ' ':
			flush()
			if pos >= len(snapshot) || snapshot[pos] != text {
				return nil, fmt.Errorf("hunk context does not match line %d", pos+1)
			}
			pos++
		case '-':
			if runStart < 0 {
				runStart = pos
			}
			if pos >= len(snapshot) || snapshot[pos] != text {
				return nil, fmt.Errorf("hunk removes line %d that does not match", pos+1)
			}
			pos++
		case '+':
			if runStart < 0 {
				runStart = pos
			}
			added = append(added, text)
		case '\\':
			// "\ No newline at end of file"; line content is untouched.
		default:
			return nil, fmt.Errorf("unexpected hunk line %q", line)
		}
	}
	flush()
	return out, nil
}

func replacementTitle(path string, r edit.Replacement) string {
	if r.StartLine == r.EndLine {
		return fmt.Sprintf("%s: insert before line %d", path, r.StartLine+1)
	}
	return fmt.Sprintf("%s: replace lines %d-%d", path, r.StartLine+1, r.EndLine)
}

// stripName removes the a/ or b/ prefix from a diff file name and maps
// /dev/null to the empty string.
func stripName(name string) string {
	if name == "/dev/null" {
		return ""
	}
	if len(name) > 2 && (name[:2] == "a/" || name[:2] == "b/") {
		return name[2:]
	}
	return name
}

func addedLines(fd *diff.FileDiff) []string {
	var lines []string
	for _, h := range fd.Hunks {
		for _, line := range strings.Split(strings.TrimSuffix(string(h.Body), "\n"), "\n") {
			if strings.HasPrefix(line, "+") {
				lines = append(lines, line[1:])
			}
		}
	}
	return lines
}

func printInfo(sess *parse.Session, text string) {
	printer := sess.Printer
	if printer == nil {
		printer = display.Discard
	}
	printer.Print(text+"\n", display.StyleInfo)
}

func init() {
	parse.Register(New())
}
