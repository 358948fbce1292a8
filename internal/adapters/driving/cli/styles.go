package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Colour palette.
var (
	colourPrimary = lipgloss.Color("#7C3AED") // Purple
	colourMuted   = lipgloss.Color("#6C7086") // Medium gray
	colourSuccess = lipgloss.Color("#A6E3A1") // Green
	colourWarning = lipgloss.Color("#F9E2AF") // Yellow
	colourError   = lipgloss.Color("#F38BA8") // Red
	colourCite    = lipgloss.Color("#06B6D4") // Cyan
)

// styles holds the lipgloss styles used by command output.
// Every style is plain when output is not a terminal.
type styles struct {
	Title    lipgloss.Style
	Muted    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Citation lipgloss.Style
	Excerpt  lipgloss.Style
}

func newStyles(w io.Writer) styles {
	if !isTerminal(w) {
		plain := lipgloss.NewStyle()
		return styles{
			Title:    plain,
			Muted:    plain,
			Success:  plain,
			Warning:  plain,
			Error:    plain,
			Citation: plain,
			Excerpt:  plain,
		}
	}

	return styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(colourPrimary),
		Muted:    lipgloss.NewStyle().Foreground(colourMuted),
		Success:  lipgloss.NewStyle().Foreground(colourSuccess),
		Warning:  lipgloss.NewStyle().Foreground(colourWarning),
		Error:    lipgloss.NewStyle().Foreground(colourError).Bold(true),
		Citation: lipgloss.NewStyle().Foreground(colourCite).Bold(true),
		Excerpt:  lipgloss.NewStyle().Foreground(colourMuted).Italic(true).PaddingLeft(4),
	}
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
