// Package goldmark renders cover letters with goldmark: ANSI-styled terminal
// previews styled with lipgloss, and standalone HTML documents for export.
package goldmark

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/coverletter"
)

const defaultWidth = 80

// Render parses markdown source and returns ANSI-styled terminal output.
// Paragraphs, quotes and list items are word-wrapped to width.
func Render(source string, width int, theme coverletter.Theme) string {
	if source == "" {
		return ""
	}
	if width <= 0 {
		width = defaultWidth
	}
	return newRenderer(theme).render([]byte(source), width)
}

// RenderLetter renders a stored letter for the terminal: a header with the
// identifier, creation time and export status, followed by the content.
func RenderLetter(l coverletter.Letter, width int, theme coverletter.Theme) string {
	r := newRenderer(theme)
	var b strings.Builder
	b.WriteString(r.accent.Render(l.ID))
	if !l.CreatedAt.IsZero() {
		b.WriteString(" " + r.muted.Render(l.CreatedAt.Local().Format("2006-01-02 15:04")))
	}
	if l.PDFStatus != "" {
		b.WriteString(" " + statusStyle(l.PDFStatus, theme).Render("pdf: "+string(l.PDFStatus)))
	}
	b.WriteString("\n")
	b.WriteString(r.muted.Render(l.Preview(width)))
	b.WriteString("\n\n")
	if l.Content == "" {
		b.WriteString(r.muted.Render("(empty)"))
		return b.String()
	}
	b.WriteString(Render(l.Content, width, theme))
	return b.String()
}

func statusStyle(s coverletter.JobStatus, theme coverletter.Theme) lipgloss.Style {
	switch s {
	case coverletter.JobCompleted:
		return lipgloss.NewStyle().Foreground(ansiColor(theme.Success))
	case coverletter.JobFailed:
		return lipgloss.NewStyle().Foreground(ansiColor(theme.Error))
	default:
		return lipgloss.NewStyle().Foreground(ansiColor(theme.Pending))
	}
}
