package content

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var htmlBodyContext = &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}

// ParseHTML reads rich text into a content tree. Known elements map to
// their kinds; script, style and embedding elements map to the forbidden
// kinds so that sanitization removes them; any other element is unwrapped
// and only its content kept. The result is not sanitized.
func ParseHTML(rich string) *Node {
	root := &Node{Kind: KindDocument}
	nodes, err := html.ParseFragment(strings.NewReader(rich), htmlBodyContext)
	if err != nil {
		return root
	}

	var children []*Node
	for _, n := range nodes {
		children = append(children, convertHTML(n, false)...)
	}
	root.Children = groupInline(children)
	return root
}

// convertHTML converts one HTML node. Unwrapped elements yield their
// converted children, so the result is a slice.
func convertHTML(n *html.Node, preformatted bool) []*Node {
	switch n.Type {
	case html.TextNode:
		text := n.Data
		if !preformatted {
			text = collapseSpace(text)
		}
		if text == "" {
			return nil
		}
		return []*Node{newText(text)}
	case html.ElementNode:
		if n.Namespace != "" {
			return nil
		}
	default:
		return nil
	}

	switch n.DataAtom {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return one(htmlElement(n, KindHeading, int(n.Data[1]-'0'), convertHTMLChildren(n, false)))
	case atom.P:
		return one(htmlElement(n, KindParagraph, 0, trimInline(convertHTMLChildren(n, false))))
	case atom.Strong, atom.B:
		return one(htmlElement(n, KindStrong, 0, convertHTMLChildren(n, false)))
	case atom.Em, atom.I:
		return one(htmlElement(n, KindEmphasis, 0, convertHTMLChildren(n, false)))
	case atom.Del, atom.S, atom.Strike:
		return one(htmlElement(n, KindStrikethrough, 0, convertHTMLChildren(n, false)))
	case atom.U, atom.Ins:
		return one(htmlElement(n, KindUnderline, 0, convertHTMLChildren(n, false)))
	case atom.Code:
		return one(htmlElement(n, KindInlineCode, 0, []*Node{newText(htmlText(n))}))
	case atom.Pre:
		return one(convertPre(n))
	case atom.A:
		return one(htmlElement(n, KindLink, 0, convertHTMLChildren(n, false)))
	case atom.Img:
		return one(htmlElement(n, KindImage, 0, nil))
	case atom.Ul:
		return one(htmlElement(n, KindUnorderedList, 0, onlyKind(convertHTMLChildren(n, false), KindListItem)))
	case atom.Ol:
		return one(htmlElement(n, KindOrderedList, 0, onlyKind(convertHTMLChildren(n, false), KindListItem)))
	case atom.Li:
		return one(htmlElement(n, KindListItem, 0, trimInline(convertHTMLChildren(n, false))))
	case atom.Blockquote:
		return one(htmlElement(n, KindBlockquote, 0, groupInline(convertHTMLChildren(n, false))))
	case atom.Table:
		return one(htmlElement(n, KindTable, 0, onlyKind(convertHTMLChildren(n, false), KindTableRow)))
	case atom.Thead, atom.Tbody, atom.Tfoot:
		return onlyKind(convertHTMLChildren(n, false), KindTableRow)
	case atom.Tr:
		return one(htmlElement(n, KindTableRow, 0, onlyKind(convertHTMLChildren(n, false), KindTableCell)))
	case atom.Th:
		cell := htmlElement(n, KindTableCell, 0, trimInline(convertHTMLChildren(n, false)))
		cell.setAttr("header", "true")
		return one(cell)
	case atom.Td:
		return one(htmlElement(n, KindTableCell, 0, trimInline(convertHTMLChildren(n, false))))
	case atom.Hr:
		return one(&Node{Kind: KindHorizontalRule})
	case atom.Br:
		return one(&Node{Kind: KindLineBreak})
	case atom.Script:
		return one(&Node{Kind: KindScript, Children: textChild(htmlText(n))})
	case atom.Style:
		return one(&Node{Kind: KindStyle, Children: textChild(htmlText(n))})
	case atom.Iframe, atom.Object, atom.Embed, atom.Frame, atom.Frameset, atom.Applet:
		return one(htmlElement(n, KindEmbed, 0, nil))
	case atom.Head, atom.Title, atom.Meta, atom.Link, atom.Base, atom.Noscript, atom.Template:
		return nil
	default:
		return convertHTMLChildren(n, preformatted)
	}
}

func convertHTMLChildren(n *html.Node, preformatted bool) []*Node {
	var nodes []*Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		for _, child := range convertHTML(c, preformatted) {
			nodes = appendInline(nodes, child)
		}
	}
	return nodes
}

// htmlElement builds a node carrying every attribute of the element.
// Filtering is left to the sanitizer.
func htmlElement(n *html.Node, kind Kind, level int, children []*Node) *Node {
	node := &Node{Kind: kind, Level: level, Children: children}
	for _, a := range n.Attr {
		if a.Namespace != "" {
			continue
		}
		node.setAttr(strings.ToLower(a.Key), a.Val)
	}
	return node
}

// convertPre reads a preformatted block. The language comes from a
// data-language attribute or a language-* class on pre or its code child.
func convertPre(n *html.Node) *Node {
	block := &Node{Kind: KindCodeBlock, Children: textChild(strings.TrimSuffix(htmlText(n), "\n"))}
	if lang := preLanguage(n); lang != "" {
		block.setAttr("language", lang)
	}
	return block
}

func preLanguage(n *html.Node) string {
	if lang := htmlAttr(n, "data-language"); lang != "" {
		return lang
	}
	candidates := []*html.Node{n}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Code {
			candidates = append(candidates, c)
		}
	}
	for _, el := range candidates {
		for _, cls := range strings.Fields(htmlAttr(el, "class")) {
			if lang, ok := strings.CutPrefix(cls, "language-"); ok && lang != "" {
				return lang
			}
		}
	}
	return ""
}

func htmlAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// htmlText collects the raw text of a subtree.
func htmlText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func textChild(s string) []*Node {
	if s == "" {
		return nil
	}
	return []*Node{newText(s)}
}

func one(n *Node) []*Node {
	return []*Node{n}
}

// onlyKind keeps the nodes of kind k, dropping the whitespace and stray
// content between them.
func onlyKind(nodes []*Node, k Kind) []*Node {
	var out []*Node
	for _, n := range nodes {
		if n.Kind == k {
			out = append(out, n)
		}
	}
	return out
}

// collapseSpace replaces whitespace runs with a single space.
func collapseSpace(s string) string {
	if s == "" {
		return ""
	}
	fields := strings.Fields(s)
	out := strings.Join(fields, " ")
	if isSpace(s[0]) || s[0] == '\r' {
		out = " " + out
	}
	if last := s[len(s)-1]; isSpace(last) || last == '\r' {
		if out != " " {
			out += " "
		}
	}
	return out
}

// trimInline removes leading and trailing whitespace from the outermost
// text nodes of an inline sequence.
func trimInline(nodes []*Node) []*Node {
	if len(nodes) == 0 {
		return nodes
	}
	if first := nodes[0]; first.Kind == KindText {
		nodes[0] = newText(strings.TrimLeft(first.Text, " "))
	}
	if last := nodes[len(nodes)-1]; last.Kind == KindText {
		nodes[len(nodes)-1] = newText(strings.TrimRight(last.Text, " "))
	}
	var out []*Node
	for _, n := range nodes {
		out = appendInline(out, n)
	}
	return out
}

// groupInline wraps runs of inline nodes between blocks into paragraphs.
// Runs that are only whitespace are dropped.
func groupInline(nodes []*Node) []*Node {
	var out, run []*Node
	flush := func() {
		run = trimInline(run)
		if len(run) > 0 {
			out = append(out, &Node{Kind: KindParagraph, Children: run})
		}
		run = nil
	}
	for _, n := range nodes {
		if n.Kind.isBlock() {
			flush()
			out = append(out, n)
			continue
		}
		run = append(run, n)
	}
	flush()
	return out
}
