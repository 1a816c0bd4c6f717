// Package replacements implements the line-replacement wire format. Every
// structural line starts with "@": a header opens a replacement body that
// runs until a lone "@" terminator, and file-level actions are single
// header lines.
//
//	@ temp.py starting_line=2 ending_line=1
//	# inserted
//	@
//	@ new.py +
//	print("hi")
//	@
//	@ gone.py -
//	@ old.py -> renamed.py
//
// Line numbers are 1-indexed and inclusive; an insertion before line N is
// written as starting_line=N ending_line=N-1.
package replacements

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/randalmurphal/editkit/display"
	"github.com/randalmurphal/editkit/edit"
	"github.com/randalmurphal/editkit/parse"
	"github.com/randalmurphal/editkit/stream"
)

// FormatName is the registry name of this format.
const FormatName = "replacements"

const terminator = "@"

// Format is the line-replacement wire format. The zero value is ready to use.
type Format struct{}

// New creates the replacements format.
func New() *Format {
	return &Format{}
}

// Name implements parse.Format.
func (*Format) Name() string { return FormatName }

// structural reports whether a complete line is a header or terminator
// rather than prose. Body content is never tested with this: inside a body
// only the lone terminator is structural.
func structural(line string) bool {
	return line == terminator || strings.HasPrefix(line, terminator+" ")
}

type run struct {
	sess *parse.Session
	plan *parse.PlanBuilder
	echo *parse.ProseEchoer

	conversation strings.Builder

	inBody    bool
	bodyFE    *edit.FileEdit      // replacement target, nil for creations
	bodyRepl  edit.Replacement    // pending replacement range
	create    string              // creation path, "" for replacements
	codeLines []string
	preview   *parse.Preview
	failed    bool
}

// StreamAndParse implements parse.Format.
func (*Format) StreamAndParse(ctx context.Context, chunks <-chan stream.Chunk, sess *parse.Session) (*parse.ParsedResponse, error) {
	printer := sess.Printer
	if printer == nil {
		printer = display.Discard
	}
	r := &run{
		sess: sess,
		plan: parse.NewPlanBuilder(sess),
		echo: parse.NewPrefixEchoer(printer, terminator+" "),
	}

	raw, interrupted, err := parse.Consume(ctx, chunks, parse.Hooks{
		Line: r.line,
		Partial: func(pending string) {
			if !r.inBody {
				r.echo.Partial(pending)
			}
		},
	})
	if err != nil {
		return nil, err
	}

	if interrupted {
		r.resetBody()
	} else if r.inBody {
		// Lenient at EOF: a missing terminator does not lose the edit.
		r.finalizeBody()
	}

	return &parse.ParsedResponse{
		FullResponse: raw,
		Conversation: r.conversation.String(),
		FileEdits:    r.pruned(),
		Interrupted:  interrupted,
	}, nil
}

func (r *run) line(line string) {
	if r.inBody {
		r.bodyLine(line)
		return
	}
	if !structural(line) {
		r.conversation.WriteString(line)
		r.conversation.WriteString("\n")
		r.echo.Line(line)
		return
	}
	r.echo.Reset()
	if line == terminator {
		r.sess.ReportSkip(parse.Editf("", "stray terminator outside a replacement body"))
		return
	}
	r.header(line)
}

func (r *run) bodyLine(line string) {
	if line == terminator {
		r.finalizeBody()
		return
	}
	if r.failed {
		return
	}
	r.codeLines = append(r.codeLines, line)
	if r.preview != nil {
		r.preview.Added(line)
	}
}

// header dispatches one "@ ..." line by shape.
func (r *run) header(line string) {
	fields := strings.Fields(line)

	switch {
	case len(fields) == 4 && fields[2] == "->":
		if err := r.plan.Rename(fields[1], fields[3]); err != nil {
			r.sess.ReportSkip(err)
			return
		}
		r.info(fmt.Sprintf("%s: rename to %s", fields[1], fields[3]))

	case len(fields) == 3 && fields[2] == "-":
		if err := r.plan.Deletion(fields[1]); err != nil {
			r.sess.ReportSkip(err)
			return
		}
		r.info(fmt.Sprintf("%s: delete file", fields[1]))

	case len(fields) == 3 && fields[2] == "+":
		r.startCreation(fields[1])

	case len(fields) == 4:
		r.startReplacement(fields[1], fields[2], fields[3])

	default:
		r.sess.ReportSkip(parse.Editf("", "malformed header %q", line))
	}
}

// startCreation opens a body that becomes the new file's content. A bad
// creation still has a body behind it, so the body is consumed and dropped.
func (r *run) startCreation(path string) {
	r.inBody = true
	r.create = path

	if r.sess.Files.Exists(path) || r.sess.Files.OnDisk(path) {
		r.sess.ReportSkip(parse.Editf(path, "file already exists"))
		r.failed = true
		return
	}
	r.preview = parse.NewPreview(r.sess, fmt.Sprintf("%s: create file", path), nil, 0, 0)
}

// startReplacement opens a replacement body. The wire range is 1-indexed and
// inclusive; an insertion arrives as ending_line = starting_line - 1.
func (r *run) startReplacement(path, startField, endField string) {
	r.inBody = true

	starting, err1 := headerInt(startField, "starting_line")
	ending, err2 := headerInt(endField, "ending_line")
	if err1 != nil || err2 != nil {
		if err1 == nil {
			err1 = err2
		}
		r.sess.ReportSkip(parse.Editf(path, "%v", err1))
		r.failed = true
		return
	}

	fe, err := r.plan.Edit(path)
	if err != nil {
		r.sess.ReportSkip(err)
		r.failed = true
		return
	}

	start, end := starting-1, ending
	switch {
	case starting < 1:
		err = fmt.Errorf("starting_line %d out of range", starting)
	case end < start:
		err = fmt.Errorf("starting_line %d after ending_line %d", starting, ending)
	case end > len(fe.PreviousLines):
		err = fmt.Errorf("ending_line %d beyond end of %d-line file", ending, len(fe.PreviousLines))
	}
	if err != nil {
		r.sess.ReportSkip(parse.Editf(path, "%v", err))
		r.failed = true
		return
	}

	r.bodyFE = fe
	r.bodyRepl = edit.Replacement{StartLine: start, EndLine: end}

	title := fmt.Sprintf("%s: replace lines %d-%d", path, starting, ending)
	if start == end {
		title = fmt.Sprintf("%s: insert before line %d", path, starting)
	}
	r.preview = parse.NewPreview(r.sess, title, fe.PreviousLines, start, end)
}

func (r *run) finalizeBody() {
	if r.failed {
		r.resetBody()
		return
	}
	if r.preview != nil {
		r.preview.Finish()
	}

	switch {
	case r.create != "":
		fe, err := r.plan.Creation(r.create)
		if err != nil {
			r.sess.ReportSkip(err)
			break
		}
		if len(r.codeLines) > 0 {
			fe.AddReplacement(edit.Replacement{StartLine: 0, EndLine: 0, NewLines: r.codeLines})
		}
	case r.bodyFE != nil:
		r.bodyRepl.NewLines = r.codeLines
		r.bodyFE.AddReplacement(r.bodyRepl)
	}
	r.resetBody()
}

func (r *run) resetBody() {
	r.inBody = false
	r.bodyFE = nil
	r.bodyRepl = edit.Replacement{}
	r.create = ""
	r.codeLines = nil
	r.preview = nil
	r.failed = false
}

func (r *run) pruned() []*edit.FileEdit {
	var out []*edit.FileEdit
	for _, fe := range r.plan.Edits() {
		if len(fe.Replacements) == 0 && !fe.IsCreation && !fe.IsDeletion && fe.RenamePath == "" {
			continue
		}
		out = append(out, fe)
	}
	return out
}

func (r *run) info(text string) {
	printer := r.sess.Printer
	if printer == nil {
		printer = display.Discard
	}
	printer.Print(text+"\n", display.StyleInfo)
}

func headerInt(field, key string) (int, error) {
	val, ok := strings.CutPrefix(field, key+"=")
	if !ok {
		return 0, fmt.Errorf("expected %s=N, got %q", key, field)
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("%s is not an integer: %q", key, val)
	}
	return n, nil
}

func init() {
	parse.Register(New())
}
