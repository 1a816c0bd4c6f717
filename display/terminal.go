package display

import (
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Terminal color palette.
var (
	colorAdded   = lipgloss.Color("10") // green
	colorRemoved = lipgloss.Color("9")  // red
	colorInfo    = lipgloss.Color("12") // blue
	colorError   = lipgloss.Color("11") // yellow
)

// Terminal is a Printer that renders styled events to a writer using
// lipgloss. Safe for concurrent use; events are written in Print order.
type Terminal struct {
	mu     sync.Mutex
	out    io.Writer
	styles map[Style]lipgloss.Style
}

// NewTerminal creates a terminal printer writing to out.
func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{
		out: out,
		styles: map[Style]lipgloss.Style{
			StyleNeutral: lipgloss.NewStyle(),
			StyleAdded:   lipgloss.NewStyle().Foreground(colorAdded),
			StyleRemoved: lipgloss.NewStyle().Foreground(colorRemoved),
			StyleInfo:    lipgloss.NewStyle().Foreground(colorInfo).Bold(true),
			StyleError:   lipgloss.NewStyle().Foreground(colorError).Bold(true),
		},
	}
}

// Print implements Printer.
func (t *Terminal) Print(text string, style Style) {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, ok := t.styles[style]
	if !ok || style == StyleNeutral {
		io.WriteString(t.out, text)
		return
	}
	io.WriteString(t.out, st.Render(text))
}
