package goldmark

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/fwojciec/coverletter"
	"github.com/yuin/goldmark"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Interface compliance check.
var _ coverletter.Renderer = (*HTML)(nil)

const htmlStyle = `body{font-family:Georgia,serif;line-height:1.5;max-width:42rem;margin:3rem auto;padding:0 1rem}` +
	`.date{text-align:right}.closing,.signature{margin-top:2rem}`

// HTML renders letter content as a standalone HTML document. Each layout
// block is converted from markdown separately so that model output such as
// emphasis or lists survives the export.
type HTML struct {
	title  string
	layout coverletter.LayoutOptions
	md     goldmark.Markdown
}

// NewHTML returns an HTML renderer. The layout options control the date
// line and the fallback signature.
func NewHTML(title string, layout coverletter.LayoutOptions) *HTML {
	if title == "" {
		title = "Cover Letter"
	}
	return &HTML{
		title:  title,
		layout: layout,
		md:     goldmark.New(goldmark.WithRendererOptions(gmhtml.WithHardWraps())),
	}
}

// Render writes the HTML document for content to w.
func (h *HTML) Render(w io.Writer, content string) error {
	doc := coverletter.Layout(content, h.layout)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n<style>%s</style>\n</head>\n<body>\n<article>\n",
		html.EscapeString(h.title), htmlStyle)
	if doc.Date != "" {
		fmt.Fprintf(&buf, "<p class=\"date\">%s</p>\n", html.EscapeString(doc.Date))
	}
	for _, b := range doc.Blocks {
		fmt.Fprintf(&buf, "<div class=%q>\n", blockClass(b.Kind))
		src := strings.Join(b.Lines, "\n")
		if b.Kind == coverletter.BlockHeading {
			src = "## " + src
		}
		if err := h.md.Convert([]byte(src), &buf); err != nil {
			return fmt.Errorf("goldmark: %w", err)
		}
		buf.WriteString("</div>\n")
	}
	if doc.Signature != "" {
		fmt.Fprintf(&buf, "<p class=\"signature\">%s</p>\n", html.EscapeString(doc.Signature))
	}
	buf.WriteString("</article>\n</body>\n</html>\n")

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("goldmark: %w", err)
	}
	return nil
}

func blockClass(k coverletter.BlockKind) string {
	switch k {
	case coverletter.BlockHeading:
		return "heading"
	case coverletter.BlockGreeting:
		return "greeting"
	case coverletter.BlockClosing:
		return "closing"
	default:
		return "paragraph"
	}
}
