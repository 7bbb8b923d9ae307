// Package assemble turns multi-line shorthand into report text, one resolved
// token at a time, and records which shorthand code produced each output line.
package assemble

import (
	"strings"
	"unicode"

	"github.com/dgallion1/reportgen/internal/phrase"
)

// SpanMarker delimits a protected literal span, e.g. "@free text@".
const SpanMarker = '@'

// Line is one assembled output line.
type Line struct {
	Text       string
	SourceCode string // set only when the line came from exactly one resolved code
}

// LineMapping anchors an output line to the shorthand that produced it.
type LineMapping struct {
	LineNumber   int    `json:"line_number"`
	SourceCode   string `json:"source_code"`
	OriginalText string `json:"original_text"`
}

// Result is the assembled report plus provenance and validation notes.
type Result struct {
	Text     string
	Lines    []Line
	Mappings []LineMapping
	Notes    []Note
}

// Assembler expands shorthand using one resolver.
type Assembler struct {
	resolver *phrase.Resolver
}

func New(r *phrase.Resolver) *Assembler {
	return &Assembler{resolver: r}
}

func (a *Assembler) Resolver() *phrase.Resolver {
	return a.resolver
}

// Assemble expands raw shorthand. It never fails: malformed lines are emitted
// literally and reported as notes.
func (a *Assembler) Assemble(raw string) Result {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")

	b := &builder{}
	var notes []Note

	for i, line := range strings.Split(raw, "\n") {
		lineNo := i + 1
		if strings.TrimSpace(line) == "" {
			b.emit(Line{})
			continue
		}

		segs, ok := tokenize(line)
		if !ok {
			notes = append(notes, unterminatedSpan(lineNo))
			b.emit(Line{Text: line})
			continue
		}

		for _, seg := range segs {
			if seg.literal {
				b.add(seg.text, "")
				continue
			}
			res := a.resolver.Resolve(seg.text)
			switch {
			case res.IsHeader():
				b.flush()
				b.openSection()
				b.emit(Line{Text: res.Text, SourceCode: res.Code})
			case res.Resolved:
				b.add(res.Text, res.Code)
			default:
				notes = append(notes, unresolvedToken(lineNo, seg.text))
				b.add(res.Text, "")
			}
		}
		b.flush()
	}

	res := Result{Lines: b.lines, Notes: notes}
	texts := make([]string, len(b.lines))
	res.Mappings = make([]LineMapping, len(b.lines))
	for i, l := range b.lines {
		texts[i] = l.Text
		res.Mappings[i] = LineMapping{LineNumber: i + 1, SourceCode: l.SourceCode, OriginalText: l.Text}
	}
	res.Text = strings.Join(texts, "\n")
	return res
}

// builder accumulates the parts of the current output line.
type builder struct {
	lines []Line
	parts []string
	codes []string
}

func (b *builder) add(text, code string) {
	b.parts = append(b.parts, text)
	b.codes = append(b.codes, code)
}

func (b *builder) flush() {
	if len(b.parts) == 0 {
		return
	}
	l := Line{Text: strings.Join(b.parts, " ")}
	if len(b.parts) == 1 {
		l.SourceCode = b.codes[0]
	}
	b.emit(l)
	b.parts = b.parts[:0]
	b.codes = b.codes[:0]
}

func (b *builder) emit(l Line) {
	b.lines = append(b.lines, l)
}

// openSection leaves exactly one blank line before a header, none at the top.
func (b *builder) openSection() {
	for len(b.lines) > 0 && strings.TrimSpace(b.lines[len(b.lines)-1].Text) == "" {
		b.lines = b.lines[:len(b.lines)-1]
	}
	if len(b.lines) > 0 {
		b.emit(Line{})
	}
}

type segment struct {
	text    string
	literal bool
}

// tokenize splits a line on whitespace, keeping protected spans whole. It
// reports false when a span opens but never closes on this line.
func tokenize(line string) ([]segment, bool) {
	var (
		segs   []segment
		cur    strings.Builder
		inSpan bool
	)
	flush := func() {
		if cur.Len() > 0 {
			segs = append(segs, segment{text: cur.String(), literal: inSpan})
			cur.Reset()
		}
	}

	for _, r := range line {
		switch {
		case r == SpanMarker:
			flush()
			inSpan = !inSpan
		case inSpan:
			cur.WriteRune(r)
		case unicode.IsSpace(r):
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	if inSpan {
		return nil, false
	}
	flush()
	return segs, true
}
