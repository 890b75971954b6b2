// Package plaintext exports cover letters as wrapped plain text, laid out
// for a fixed page width with side margins.
package plaintext

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/coverletter"
	rw "github.com/mattn/go-runewidth"
)

// Defaults for New.
const (
	DefaultWidth  = 80
	DefaultMargin = 4

	minTextWidth = 20
)

// Interface compliance check.
var _ coverletter.Renderer = (*Renderer)(nil)

// Renderer writes laid-out letter text.
type Renderer struct {
	width  int
	margin int
	layout coverletter.LayoutOptions
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithWidth sets the page width in display cells, margins included.
func WithWidth(n int) Option {
	return func(r *Renderer) { r.width = n }
}

// WithMargin sets the blank cells on each side of the text.
func WithMargin(n int) Option {
	return func(r *Renderer) { r.margin = n }
}

// WithLayout sets the date and signature options.
func WithLayout(opts coverletter.LayoutOptions) Option {
	return func(r *Renderer) { r.layout = opts }
}

// New returns a Renderer with the given options applied.
func New(opts ...Option) *Renderer {
	r := &Renderer{width: DefaultWidth, margin: DefaultMargin}
	for _, opt := range opts {
		opt(r)
	}
	if r.margin < 0 {
		r.margin = 0
	}
	return r
}

// textWidth is the usable width between the margins.
func (r *Renderer) textWidth() int {
	return max(r.width-2*r.margin, minTextWidth)
}

// Render writes content to w. Line breaks inside a block are kept; each
// line is wrapped to the text width.
func (r *Renderer) Render(w io.Writer, content string) error {
	doc := coverletter.Layout(content, r.layout)
	tw := r.textWidth()
	pad := strings.Repeat(" ", r.margin)
	bw := bufio.NewWriter(w)

	writeLine := func(s string) {
		if s == "" {
			bw.WriteString("\n")
			return
		}
		bw.WriteString(pad + s + "\n")
	}

	first := true
	section := func() {
		if !first {
			writeLine("")
		}
		first = false
	}

	if doc.Date != "" {
		section()
		writeLine(strings.Repeat(" ", max(tw-rw.StringWidth(doc.Date), 0)) + doc.Date)
	}
	for _, b := range doc.Blocks {
		section()
		if b.Kind == coverletter.BlockHeading {
			for _, l := range wrap(b.Lines[0], tw) {
				writeLine(l)
			}
			writeLine(strings.Repeat("=", min(rw.StringWidth(b.Lines[0]), tw)))
			continue
		}
		for _, line := range b.Lines {
			for _, l := range wrap(line, tw) {
				writeLine(l)
			}
		}
	}
	if doc.Signature != "" {
		section()
		writeLine(doc.Signature)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("plaintext: %w", err)
	}
	return nil
}
