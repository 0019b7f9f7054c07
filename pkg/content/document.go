package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is a rendered, sanitized content tree.
type Document struct {
	Root   *Node
	policy *Policy
}

// NewDocument wraps a tree for serialization. The tree is sanitized with
// policy first; a nil policy means DefaultPolicy.
func NewDocument(root *Node, policy *Policy) *Document {
	if policy == nil {
		policy = DefaultPolicy()
	}
	return &Document{Root: Sanitize(policy, root), policy: policy}
}

func (d *Document) activePolicy() *Policy {
	if d.policy == nil {
		return DefaultPolicy()
	}
	return d.policy
}

// HTML serializes the document. The output is filtered by the policy's
// HTML gate, which also rejects unsafe URL schemes.
func (d *Document) HTML() (string, error) {
	root := d.Root
	if root == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if el := toHTML(root); el != nil {
		if err := html.Render(&buf, el); err != nil {
			return "", fmt.Errorf("failed to render HTML: %w", err)
		}
	}
	return d.activePolicy().HTMLPolicy().Sanitize(buf.String()), nil
}

// MarshalJSON encodes the document as its root node.
func (d *Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Root)
}

// Text returns the plain text of the document.
func (d *Document) Text() string {
	return d.Root.PlainText()
}

// htmlTags lists the elements a kind may serialize to. Kinds without
// elements return nil.
func htmlTags(k Kind) []string {
	switch k {
	case KindDocument:
		return []string{"article"}
	case KindHeading:
		return []string{"h1", "h2", "h3", "h4", "h5", "h6"}
	case KindParagraph:
		return []string{"p"}
	case KindStrong:
		return []string{"strong"}
	case KindEmphasis:
		return []string{"em"}
	case KindStrikethrough:
		return []string{"del"}
	case KindUnderline:
		return []string{"u"}
	case KindInlineCode:
		return []string{"code"}
	case KindCodeBlock:
		return []string{"pre", "code"}
	case KindLink:
		return []string{"a"}
	case KindImage:
		return []string{"img"}
	case KindOrderedList:
		return []string{"ol"}
	case KindUnorderedList:
		return []string{"ul"}
	case KindListItem:
		return []string{"li"}
	case KindBlockquote:
		return []string{"blockquote"}
	case KindTable:
		return []string{"table"}
	case KindTableRow:
		return []string{"tr"}
	case KindTableCell:
		return []string{"td", "th"}
	case KindHorizontalRule:
		return []string{"hr"}
	case KindLineBreak:
		return []string{"br"}
	case KindContainer:
		return []string{"div"}
	case KindCodeToken:
		return []string{"span"}
	case KindText, KindScript, KindStyle, KindEmbed:
		return nil
	default:
		return nil
	}
}

// htmlAttrName maps a tree attribute to its HTML attribute. Attributes
// that are expressed structurally report false.
func htmlAttrName(k Kind, key string) (string, bool) {
	switch {
	case k == KindCodeBlock && key == "language":
		return "data-language", true
	case k == KindTableCell && key == "header":
		return "", false
	case k == KindCodeToken && key == "token":
		return "class", true
	default:
		return key, true
	}
}

func elementTag(n *Node) string {
	switch n.Kind {
	case KindHeading:
		return fmt.Sprintf("h%d", clampLevel(n.Level))
	case KindTableCell:
		if n.Attr("header") == "true" {
			return "th"
		}
		return "td"
	}
	if tags := htmlTags(n.Kind); len(tags) > 0 {
		return tags[0]
	}
	return ""
}

func clampLevel(level int) int {
	if level < 1 {
		return 1
	}
	if level > 6 {
		return 6
	}
	return level
}

func newElement(tag string) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
}

// toHTML builds the HTML node for n, or nil for kinds with no HTML form.
func toHTML(n *Node) *html.Node {
	switch n.Kind {
	case KindText:
		return &html.Node{Type: html.TextNode, Data: n.Text}
	case KindScript, KindStyle, KindEmbed:
		return nil
	}

	tag := elementTag(n)
	if tag == "" {
		return nil
	}
	el := newElement(tag)
	el.Attr = htmlAttrs(n)

	switch n.Kind {
	case KindCodeToken:
		el.AppendChild(&html.Node{Type: html.TextNode, Data: n.Text})
		return el
	case KindCodeBlock:
		code := newElement("code")
		if lang := n.Attr("language"); lang != "" {
			code.Attr = []html.Attribute{{Key: "class", Val: "language-" + lang}}
		}
		appendHTMLChildren(code, n.Children)
		el.AppendChild(code)
		return el
	case KindImage, KindHorizontalRule, KindLineBreak:
		return el
	}

	appendHTMLChildren(el, n.Children)
	return el
}

func appendHTMLChildren(parent *html.Node, children []*Node) {
	for _, child := range children {
		if c := toHTML(child); c != nil {
			parent.AppendChild(c)
		}
	}
}

// htmlAttrs converts tree attributes in key order. Attributes mapping to
// the same HTML name are joined with a space.
func htmlAttrs(n *Node) []html.Attribute {
	if len(n.Attrs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(n.Attrs))
	for key := range n.Attrs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var attrs []html.Attribute
	index := make(map[string]int)
	for _, key := range keys {
		name, ok := htmlAttrName(n.Kind, key)
		if !ok {
			continue
		}
		value := n.Attrs[key]
		if i, seen := index[name]; seen {
			attrs[i].Val = strings.TrimSpace(attrs[i].Val + " " + value)
			continue
		}
		index[name] = len(attrs)
		attrs = append(attrs, html.Attribute{Key: name, Val: value})
	}
	return attrs
}
