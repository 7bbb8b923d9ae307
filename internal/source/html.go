package source

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// HTMLExtractor handles HTML files. Block elements and <br> break lines;
// whitespace inside a line is collapsed.
type HTMLExtractor struct{}

func (e *HTMLExtractor) Extract(r io.Reader, filename string) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	var lines []string
	var current []string
	breakLine := func() {
		if len(current) > 0 {
			lines = append(lines, strings.Join(current, " "))
			current = current[:0]
		}
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			parts := strings.Split(n.Data, "\n")
			for i, part := range parts {
				if i > 0 {
					breakLine()
				}
				current = append(current, strings.Fields(part)...)
			}
			return
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "head", "noscript", "template":
				return
			case "br":
				breakLine()
				return
			}
			if isBlockElement(n.Data) {
				breakLine()
				defer breakLine()
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if body := findBody(doc); body != nil {
		walk(body)
	} else {
		walk(doc)
	}
	breakLine()

	return joinLines(lines), nil
}

func isBlockElement(tag string) bool {
	switch tag {
	case "p", "div", "li", "tr", "pre", "blockquote", "section", "article",
		"h1", "h2", "h3", "h4", "h5", "h6", "ul", "ol", "table", "dt", "dd":
		return true
	}
	return false
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
