// Package block implements the @@start/@@code/@@end wire format. Edit blocks
// are delimited by literal marker lines; between @@start and @@code (or
// @@end) sits a JSON metadata object naming the target file and action, and
// between @@code and @@end sits the literal replacement text.
//
//	@@start
//	{"file": "temp.py", "action": "insert", "insert-after-line": 1}
//	@@code
//	# inserted
//	@@end
package block

import (
	"context"
	"strings"

	"github.com/randalmurphal/editkit/display"
	"github.com/randalmurphal/editkit/edit"
	"github.com/randalmurphal/editkit/parse"
	"github.com/randalmurphal/editkit/stream"
)

// FormatName is the registry name of this format.
const FormatName = "block"

// Marker lines.
const (
	markerStart = "@@start"
	markerCode  = "@@code"
	markerEnd   = "@@end"
)

var markers = []string{markerStart, markerCode, markerEnd}

// Format is the block-JSON wire format. The zero value is ready to use.
type Format struct{}

// New creates the block format.
func New() *Format {
	return &Format{}
}

// Name implements parse.Format.
func (*Format) Name() string { return FormatName }

// parser states.
type state int

const (
	stateProse state = iota
	stateMetadata
	stateCode
)

// run is the single-threaded state of one StreamAndParse call.
type run struct {
	sess *parse.Session
	plan *parse.PlanBuilder
	echo *parse.ProseEchoer

	conversation strings.Builder

	state     state
	metaLines []string
	op        op
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
		echo: parse.NewProseEchoer(printer, markers),
	}

	raw, interrupted, err := parse.Consume(ctx, chunks, parse.Hooks{
		Line: r.line,
		Partial: func(pending string) {
			if r.state == stateProse {
				r.echo.Partial(pending)
			}
		},
	})
	if err != nil {
		return nil, err
	}

	if interrupted {
		// The in-progress incomplete edit is discarded; everything
		// already finalized is kept.
		r.discardInProgress()
	} else {
		// Be lenient at EOF: a model that forgot to close its last
		// block still gets the edit, as if the closer had arrived.
		r.synthesizeClose()
	}

	return &parse.ParsedResponse{
		FullResponse: raw,
		Conversation: r.conversation.String(),
		FileEdits:    r.pruned(),
		Interrupted:  interrupted,
	}, nil
}

// line dispatches one complete line according to the current state.
func (r *run) line(line string) {
	switch r.state {
	case stateProse:
		r.proseLine(line)
	case stateMetadata:
		r.metadataLine(line)
	case stateCode:
		r.codeLine(line)
	}
}

func (r *run) proseLine(line string) {
	switch line {
	case markerStart:
		r.echo.Reset()
		r.enterMetadata()
	case markerCode, markerEnd:
		r.echo.Reset()
		r.sess.ReportSkip(parse.Editf("", "unexpected %s outside an edit block", line))
	default:
		r.conversation.WriteString(line)
		r.conversation.WriteString("\n")
		r.echo.Line(line)
	}
}

func (r *run) metadataLine(line string) {
	switch line {
	case markerCode:
		r.finalizeMetadata()
		if r.op != nil && !r.op.wantsCode() {
			r.sess.ReportSkip(parse.Editf("", "%s cannot carry a code block", r.op.title()))
			r.op = nil
			r.failed = true
		}
		r.enterCode()
	case markerEnd:
		r.finalizeMetadata()
		r.finalizeWithoutCode()
		r.reset()
	case markerStart:
		// Unclosed metadata block; drop it and start over.
		r.sess.ReportSkip(parse.Editf("", "edit block missing %s or %s", markerCode, markerEnd))
		r.enterMetadata()
	default:
		r.metaLines = append(r.metaLines, line)
	}
}

func (r *run) codeLine(line string) {
	switch line {
	case markerEnd:
		r.finalizeWithCode()
		r.reset()
	case markerStart:
		// Missing @@end; close the current block as if it were there.
		r.finalizeWithCode()
		r.enterMetadata()
	case markerCode:
		r.sess.ReportSkip(parse.Editf("", "unexpected %s inside a code block", markerCode))
		r.op = nil
		r.preview = nil
		r.failed = true
	default:
		if r.failed || r.op == nil {
			return
		}
		r.codeLines = append(r.codeLines, line)
		if r.preview != nil {
			r.preview.Added(line)
		}
	}
}

func (r *run) enterMetadata() {
	r.state = stateMetadata
	r.metaLines = nil
	r.op = nil
	r.codeLines = nil
	r.preview = nil
	r.failed = false
}

// enterCode opens the code section and, when the edit is still healthy,
// starts its preview so removed context renders before the added lines
// stream in.
func (r *run) enterCode() {
	r.state = stateCode
	r.codeLines = nil
	r.preview = nil

	if r.op == nil {
		return
	}
	switch o := r.op.(type) {
	case *insertOp:
		r.preview = parse.NewPreview(r.sess, o.title(), o.fe.PreviousLines, o.pos, o.pos)
	case *replaceOp:
		r.preview = parse.NewPreview(r.sess, o.title(), o.fe.PreviousLines, o.start, o.end)
	case *createOp:
		r.preview = parse.NewPreview(r.sess, o.title(), nil, 0, 0)
	}
}

// finalizeMetadata decodes and validates the accumulated metadata lines,
// leaving r.op set on success and a skip notice printed on failure.
func (r *run) finalizeMetadata() {
	text := strings.TrimSpace(strings.Join(r.metaLines, "\n"))
	if text == "" {
		r.sess.ReportSkip(parse.Editf("", "empty edit block metadata"))
		r.failed = true
		return
	}
	meta, err := decodeMetadata(text)
	if err != nil {
		r.sess.ReportSkip(parse.Editf("", "%v", err))
		r.failed = true
		return
	}
	op, err := resolveOp(meta, r.plan, r.sess)
	if err != nil {
		r.sess.ReportSkip(err)
		r.failed = true
		return
	}
	r.op = op
}

// finalizeWithoutCode completes a block that went straight from metadata to
// @@end. Only actions without code content are legal here, plus replace and
// delete which collapse to a pure deletion.
func (r *run) finalizeWithoutCode() {
	if r.failed || r.op == nil {
		return
	}
	switch o := r.op.(type) {
	case *deleteOp:
		pv := parse.NewPreview(r.sess, o.title(), o.fe.PreviousLines, o.start, o.end)
		pv.Finish()
		o.fe.AddReplacement(edit.Replacement{StartLine: o.start, EndLine: o.end})
	case *replaceOp:
		pv := parse.NewPreview(r.sess, o.title(), o.fe.PreviousLines, o.start, o.end)
		pv.Finish()
		o.fe.AddReplacement(edit.Replacement{StartLine: o.start, EndLine: o.end})
	case *insertOp:
		r.sess.ReportSkip(parse.Editf(o.fe.FilePath, "insert action without a code block"))
	case *createOp:
		if _, err := r.plan.Creation(o.path); err != nil {
			r.sess.ReportSkip(err)
			return
		}
		r.info(o.title())
	case *deleteFileOp:
		if err := r.plan.Deletion(o.path); err != nil {
			r.sess.ReportSkip(err)
			return
		}
		r.info(o.title())
	case *renameOp:
		if err := r.plan.Rename(o.path, o.to); err != nil {
			r.sess.ReportSkip(err)
			return
		}
		r.info(o.title())
	}
}

// finalizeWithCode completes a block whose code section just closed. The
// trailing synthetic newline of the code text is already gone: codeLines
// holds exactly the content lines.
func (r *run) finalizeWithCode() {
	if r.failed || r.op == nil {
		return
	}
	if r.preview != nil {
		r.preview.Finish()
	}
	switch o := r.op.(type) {
	case *insertOp:
		o.fe.AddReplacement(edit.Replacement{StartLine: o.pos, EndLine: o.pos, NewLines: r.codeLines})
	case *replaceOp:
		o.fe.AddReplacement(edit.Replacement{StartLine: o.start, EndLine: o.end, NewLines: r.codeLines})
	case *createOp:
		fe, err := r.plan.Creation(o.path)
		if err != nil {
			r.sess.ReportSkip(err)
			return
		}
		if len(r.codeLines) > 0 {
			fe.AddReplacement(edit.Replacement{StartLine: 0, EndLine: 0, NewLines: r.codeLines})
		}
	}
}

func (r *run) reset() {
	r.state = stateProse
	r.metaLines = nil
	r.op = nil
	r.codeLines = nil
	r.preview = nil
	r.failed = false
}

// synthesizeClose closes a block left open at end of stream.
func (r *run) synthesizeClose() {
	switch r.state {
	case stateMetadata:
		r.finalizeMetadata()
		r.finalizeWithoutCode()
	case stateCode:
		r.finalizeWithCode()
	}
	r.reset()
}

// discardInProgress drops the incomplete edit after an interruption.
func (r *run) discardInProgress() {
	r.reset()
}

// pruned returns the plan without edits that ended up as no-ops, which
// happens when every block for a file failed after the file was first
// touched.
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

func init() {
	parse.Register(New())
}
