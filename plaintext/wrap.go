package plaintext

import (
	"strings"

	rw "github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// wrap breaks s into lines no wider than width display cells. Runs of
// whitespace collapse to one space. Words wider than width are split on
// grapheme cluster boundaries.
func wrap(s string, width int) []string {
	words := strings.Fields(s)
	if width <= 0 || len(words) == 0 {
		return []string{strings.Join(words, " ")}
	}

	var (
		lines []string
		line  strings.Builder
		used  int
	)
	flush := func() {
		lines = append(lines, line.String())
		line.Reset()
		used = 0
	}

	for _, word := range words {
		ww := rw.StringWidth(word)
		if used > 0 && used+1+ww <= width {
			line.WriteByte(' ')
			line.WriteString(word)
			used += 1 + ww
			continue
		}
		if used > 0 {
			flush()
		}
		if ww <= width {
			line.WriteString(word)
			used = ww
			continue
		}
		for _, piece := range splitWide(word, width) {
			if used > 0 {
				flush()
			}
			line.WriteString(piece)
			used = rw.StringWidth(piece)
		}
	}
	if used > 0 {
		flush()
	}
	return lines
}

// splitWide cuts a single word into chunks of at most width cells without
// breaking grapheme clusters. A cluster wider than width gets its own chunk.
func splitWide(word string, width int) []string {
	var (
		out   []string
		chunk strings.Builder
		used  int
	)
	g := uniseg.NewGraphemes(word)
	for g.Next() {
		cluster := g.Str()
		cw := g.Width()
		if used > 0 && used+cw > width {
			out = append(out, chunk.String())
			chunk.Reset()
			used = 0
		}
		chunk.WriteString(cluster)
		used += cw
	}
	if chunk.Len() > 0 {
		out = append(out, chunk.String())
	}
	return out
}
