package source

import (
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownExtractor handles Markdown files using goldmark. Each source line
// of a leaf block (heading, paragraph, list item, code) becomes one line;
// markup such as "#" and list bullets is dropped.
type MarkdownExtractor struct{}

func (e *MarkdownExtractor) Extract(r io.Reader, filename string) (string, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var lines []string
	err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || n.Type() != ast.TypeBlock {
			return ast.WalkContinue, nil
		}
		// Containers (lists, quotes) are walked into.
		if fc := n.FirstChild(); fc != nil && fc.Type() == ast.TypeBlock {
			return ast.WalkContinue, nil
		}
		segs := n.Lines()
		for i := 0; i < segs.Len(); i++ {
			seg := segs.At(i)
			line := strings.TrimSpace(string(seg.Value(src)))
			if line != "" {
				lines = append(lines, line)
			}
		}
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return "", err
	}
	return joinLines(lines), nil
}
