package content

import (
	"iter"
	"regexp"
	"strings"
)

// Heading is one table-of-contents entry.
type Heading struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Level int    `json:"level"`
}

// TOCNode is a heading with the headings nested under it.
type TOCNode struct {
	Heading
	Children []*TOCNode `json:"children,omitempty"`

	parent *TOCNode
}

var (
	inlineImagePattern = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	inlineLinkPattern  = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	inlineCodePattern  = regexp.MustCompile("`+([^`]*)`+")
	inlineDelimPattern = regexp.MustCompile(`\*\*|__|~~|\*`)
	htmlTagPattern     = regexp.MustCompile(`<[^>]*>`)
)

// stripInline removes inline markup from a line, keeping link and code
// text and dropping images and tags.
func stripInline(s string) string {
	s = inlineImagePattern.ReplaceAllString(s, "")
	s = inlineLinkPattern.ReplaceAllString(s, "$1")
	s = inlineCodePattern.ReplaceAllString(s, "$1")
	s = htmlTagPattern.ReplaceAllString(s, "")
	s = inlineDelimPattern.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

// TOC yields the headings of markup in document order. Lines inside fenced
// code are ignored. Each range over the sequence scans the markup again.
func TOC(markup string) iter.Seq[Heading] {
	return func(yield func(Heading) bool) {
		fence := ""
		for _, line := range splitLines(markup) {
			if fence != "" {
				if isClosingFence(line, fence) {
					fence = ""
				}
				continue
			}
			if m := fencePattern.FindStringSubmatch(line); m != nil {
				fence = m[1]
				continue
			}

			m := headingPattern.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			text := stripInline(m[2])
			if text == "" {
				continue
			}
			if !yield(Heading{ID: Slug(text), Text: text, Level: len(m[1])}) {
				return
			}
		}
	}
}

// ExtractTOC returns every heading of markup. It never returns nil.
func ExtractTOC(markup string) []Heading {
	headings := make([]Heading, 0)
	for h := range TOC(markup) {
		headings = append(headings, h)
	}
	return headings
}

// NestTOC arranges headings into an outline. A heading's parent is the
// nearest preceding heading with a lower level.
func NestTOC(headings []Heading) []*TOCNode {
	var nested []*TOCNode
	var prev *TOCNode
	for _, h := range headings {
		node := &TOCNode{Heading: h}
		parent := prev
		for parent != nil && parent.Level >= h.Level {
			parent = parent.parent
		}
		if parent == nil {
			nested = append(nested, node)
		} else {
			node.parent = parent
			parent.Children = append(parent.Children, node)
		}
		prev = node
	}
	return nested
}
