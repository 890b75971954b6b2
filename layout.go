package coverletter

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// BlockKind classifies a block of letter text for export layout.
type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockHeading
	BlockGreeting
	BlockClosing
)

// maxHeadingLen is the rune length below which an unpunctuated first line
// of a paragraph is laid out as a heading.
const maxHeadingLen = 100

// DateLayout formats the optional date line, e.g. "2 January 2006".
const DateLayout = "2 January 2006"

var (
	paragraphSep = regexp.MustCompile(`\n\s*\n`)
	greetingRe   = regexp.MustCompile(`(?i)^(dear|hello|hi|to)\s+`)
	closingRe    = regexp.MustCompile(`(?i)^(sincerely|best regards|regards|yours sincerely|thank you)`)
	signedRe     = regexp.MustCompile(`(?i)^(sincerely|best regards|regards)`)
)

// Block is a run of lines laid out together.
type Block struct {
	Kind  BlockKind
	Lines []string
}

// Document is letter content split into blocks, ready for an export renderer.
type Document struct {
	Date      string // empty when no date line is requested
	Blocks    []Block
	Signature string // empty when the content already closes itself
}

// LayoutOptions controls the optional parts of a Document.
type LayoutOptions struct {
	Date      time.Time // zero omits the date line
	Signature string    // appended when the content has no closing line
}

// Layout splits content into paragraphs on blank lines. Within a paragraph
// of several lines, a short first line without terminal punctuation becomes
// a heading. Greeting and closing lines keep their own blocks.
func Layout(content string, opts LayoutOptions) Document {
	var doc Document
	if !opts.Date.IsZero() {
		doc.Date = opts.Date.Format(DateLayout)
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	signed := false
	for _, para := range paragraphSep.Split(content, -1) {
		lines := nonEmptyLines(para)
		if len(lines) == 0 {
			continue
		}
		for _, l := range lines {
			if signedRe.MatchString(l) {
				signed = true
			}
		}
		doc.Blocks = append(doc.Blocks, classify(lines)...)
	}

	if opts.Signature != "" && !signed {
		doc.Signature = opts.Signature
	}
	return doc
}

func classify(lines []string) []Block {
	first := lines[0]
	switch {
	case greetingRe.MatchString(first):
		if len(lines) == 1 {
			return []Block{{Kind: BlockGreeting, Lines: lines}}
		}
		return []Block{
			{Kind: BlockGreeting, Lines: lines[:1]},
			{Kind: BlockParagraph, Lines: lines[1:]},
		}
	case closingRe.MatchString(first):
		return []Block{{Kind: BlockClosing, Lines: lines}}
	case len(lines) > 1 && isHeading(first):
		return []Block{
			{Kind: BlockHeading, Lines: lines[:1]},
			{Kind: BlockParagraph, Lines: lines[1:]},
		}
	}
	return []Block{{Kind: BlockParagraph, Lines: lines}}
}

func isHeading(line string) bool {
	if utf8.RuneCountInString(line) >= maxHeadingLen {
		return false
	}
	return !strings.ContainsAny(line[len(line)-1:], ".!?")
}

func nonEmptyLines(s string) []string {
	var out []string
	for _, l := range strings.Split(s, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
