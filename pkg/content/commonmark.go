package content

import (
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// commonMarkReader converts goldmark's CommonMark AST into content trees.
type commonMarkReader struct {
	md goldmark.Markdown
}

func newCommonMarkReader() *commonMarkReader {
	return &commonMarkReader{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.Table,
				extension.Strikethrough,
			),
		),
	}
}

// ParseCommonMark parses CommonMark (with GFM tables and strikethrough)
// into the same tree shape Parse produces. Raw HTML is dropped.
func ParseCommonMark(markup string) *Node {
	return newCommonMarkReader().parse(markup).Root
}

func (r *commonMarkReader) parse(markup string) *ParseResult {
	result := &ParseResult{Root: &Node{Kind: KindDocument}}
	if markup == "" {
		return result
	}

	source := []byte(markup)
	doc := r.md.Parser().Parse(text.NewReader(source))

	c := &commonMarkConverter{source: source, result: result}
	result.Root.Children = c.convertChildren(doc)
	return result
}

// commonMarkConverter holds state during AST conversion.
type commonMarkConverter struct {
	source []byte
	result *ParseResult
}

// convertChildren converts all block children of an AST node.
func (c *commonMarkConverter) convertChildren(n ast.Node) []*Node {
	var nodes []*Node
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if node := c.convertBlock(child); node != nil {
			nodes = append(nodes, node)
		}
	}
	return nodes
}

// convertBlock converts a single block node.
func (c *commonMarkConverter) convertBlock(n ast.Node) *Node {
	switch node := n.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		content := c.convertInlineChildren(node)
		if len(content) == 0 {
			return nil
		}
		return &Node{Kind: KindParagraph, Children: content}
	case *ast.Heading:
		return &Node{Kind: KindHeading, Level: node.Level, Children: c.convertInlineChildren(node)}
	case *ast.List:
		return c.convertList(node)
	case *ast.FencedCodeBlock:
		block := c.codeBlock(node)
		if lang := string(node.Language(c.source)); lang != "" {
			block.setAttr("language", lang)
		}
		return block
	case *ast.CodeBlock:
		return c.codeBlock(node)
	case *ast.Blockquote:
		return &Node{Kind: KindBlockquote, Children: c.convertChildren(node)}
	case *ast.ThematicBreak:
		return &Node{Kind: KindHorizontalRule}
	case *extast.Table:
		return c.convertTable(node)
	case *ast.HTMLBlock:
		c.result.addWarning("raw HTML block dropped")
		return nil
	default:
		return nil
	}
}

func (c *commonMarkConverter) convertList(n *ast.List) *Node {
	list := &Node{Kind: KindUnorderedList}
	if n.IsOrdered() {
		list.Kind = KindOrderedList
		if n.Start != 1 {
			list.setAttr("start", strconv.Itoa(n.Start))
		}
	}
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if item, ok := child.(*ast.ListItem); ok {
			list.Children = append(list.Children, c.convertListItem(item))
		}
	}
	return list
}

// convertListItem inlines the item's text blocks so tight and loose items
// both produce the inline children the native grammar produces.
func (c *commonMarkConverter) convertListItem(n *ast.ListItem) *Node {
	item := &Node{Kind: KindListItem}
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch ch := child.(type) {
		case *ast.TextBlock, *ast.Paragraph:
			if len(item.Children) > 0 {
				item.Children = append(item.Children, &Node{Kind: KindLineBreak})
			}
			for _, inline := range c.convertInlineChildren(ch) {
				item.Children = appendInline(item.Children, inline)
			}
		default:
			if node := c.convertBlock(child); node != nil {
				item.Children = append(item.Children, node)
			}
		}
	}
	return item
}

func (c *commonMarkConverter) codeBlock(n ast.Node) *Node {
	var code strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		code.Write(line.Value(c.source))
	}

	block := &Node{Kind: KindCodeBlock}
	if s := strings.TrimSuffix(code.String(), "\n"); s != "" {
		block.Children = []*Node{newText(s)}
	}
	return block
}

func (c *commonMarkConverter) convertTable(n *extast.Table) *Node {
	table := &Node{Kind: KindTable}
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch row := child.(type) {
		case *extast.TableHeader:
			table.Children = append(table.Children, c.convertTableRow(row, true))
		case *extast.TableRow:
			table.Children = append(table.Children, c.convertTableRow(row, false))
		}
	}
	return table
}

func (c *commonMarkConverter) convertTableRow(n ast.Node, header bool) *Node {
	row := &Node{Kind: KindTableRow}
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		cell, ok := child.(*extast.TableCell)
		if !ok {
			continue
		}
		out := &Node{Kind: KindTableCell, Children: c.convertInlineChildren(cell)}
		if header {
			out.setAttr("header", "true")
		}
		switch cell.Alignment {
		case extast.AlignLeft:
			out.setAttr("align", "left")
		case extast.AlignRight:
			out.setAttr("align", "right")
		case extast.AlignCenter:
			out.setAttr("align", "center")
		}
		row.Children = append(row.Children, out)
	}
	return row
}

// convertInlineChildren converts the inline children of n, merging
// adjacent text.
func (c *commonMarkConverter) convertInlineChildren(n ast.Node) []*Node {
	var nodes []*Node
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		for _, inline := range c.convertInline(child) {
			nodes = appendInline(nodes, inline)
		}
	}
	return nodes
}

// convertInline converts an inline AST node.
func (c *commonMarkConverter) convertInline(n ast.Node) []*Node {
	switch node := n.(type) {
	case *ast.Text:
		nodes := []*Node{newText(string(node.Segment.Value(c.source)))}
		if node.SoftLineBreak() || node.HardLineBreak() {
			nodes = append(nodes, &Node{Kind: KindLineBreak})
		}
		return nodes

	case *ast.String:
		return []*Node{newText(string(node.Value))}

	case *ast.Emphasis:
		kind := KindEmphasis
		if node.Level == 2 {
			kind = KindStrong
		}
		return []*Node{{Kind: kind, Children: c.convertInlineChildren(node)}}

	case *extast.Strikethrough:
		return []*Node{{Kind: KindStrikethrough, Children: c.convertInlineChildren(node)}}

	case *ast.CodeSpan:
		var sb strings.Builder
		for child := node.FirstChild(); child != nil; child = child.NextSibling() {
			if textNode, ok := child.(*ast.Text); ok {
				sb.Write(textNode.Segment.Value(c.source))
			}
		}
		return []*Node{{Kind: KindInlineCode, Children: []*Node{newText(sb.String())}}}

	case *ast.Link:
		link := &Node{Kind: KindLink, Children: c.convertInlineChildren(node)}
		link.setAttr("href", string(node.Destination))
		if len(node.Title) > 0 {
			link.setAttr("title", string(node.Title))
		}
		return []*Node{link}

	case *ast.AutoLink:
		url := string(node.URL(c.source))
		link := &Node{Kind: KindLink, Children: []*Node{newText(string(node.Label(c.source)))}}
		link.setAttr("href", url)
		return []*Node{link}

	case *ast.Image:
		var alt strings.Builder
		for child := node.FirstChild(); child != nil; child = child.NextSibling() {
			if textNode, ok := child.(*ast.Text); ok {
				alt.Write(textNode.Segment.Value(c.source))
			}
		}
		img := &Node{Kind: KindImage}
		img.setAttr("src", string(node.Destination))
		img.setAttr("alt", alt.String())
		if len(node.Title) > 0 {
			img.setAttr("title", string(node.Title))
		}
		return []*Node{img}

	case *ast.RawHTML:
		return nil

	default:
		var nodes []*Node
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			nodes = append(nodes, c.convertInline(child)...)
		}
		return nodes
	}
}
