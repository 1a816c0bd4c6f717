package parse

import (
	"fmt"

	"github.com/randalmurphal/editkit/display"
)

// Preview renders the incremental, line-numbered view of one edit: a few
// unchanged context lines, the removed block, then added lines as they
// stream in, then trailing context. Everything is printed in emission order
// and never retracted; if the edit later fails, the format prints an error
// notice and simply stops describing it.
type Preview struct {
	printer   display.Printer
	fileLines []string
	start     int
	end       int
	context   int
	nextAdded int
}

// NewPreview opens a preview. It immediately prints the title, the context
// lines before the change, and the removed block; added lines follow via
// Added as the code streams in. start and end are the 0-indexed half-open
// removed range in fileLines.
func NewPreview(sess *Session, title string, fileLines []string, start, end int) *Preview {
	pv := &Preview{
		printer:   sess.printer(),
		fileLines: fileLines,
		start:     start,
		end:       end,
		context:   sess.contextLines(),
		nextAdded: start + 1,
	}

	pv.printer.Print(title+"\n", display.StyleInfo)

	from := start - pv.context
	if from < 0 {
		from = 0
	}
	for i := from; i < start && i < len(fileLines); i++ {
		pv.printer.Print(fmt.Sprintf("%4d   %s\n", i+1, fileLines[i]), display.StyleNeutral)
	}
	for i := start; i < end && i < len(fileLines); i++ {
		pv.printer.Print(fmt.Sprintf("%4d - %s\n", i+1, fileLines[i]), display.StyleRemoved)
	}
	return pv
}

// Added prints one inserted line with its position in the updated file.
func (pv *Preview) Added(line string) {
	pv.printer.Print(fmt.Sprintf("%4d + %s\n", pv.nextAdded, line), display.StyleAdded)
	pv.nextAdded++
}

// Finish prints the trailing context and closes the preview.
func (pv *Preview) Finish() {
	to := pv.end + pv.context
	for i := pv.end; i < to && i < len(pv.fileLines); i++ {
		pv.printer.Print(fmt.Sprintf("%4d   %s\n", i+1, pv.fileLines[i]), display.StyleNeutral)
	}
	pv.printer.Print("\n", display.StyleNeutral)
}
