package content

import (
	"regexp"
	"strings"
)

// markupRule converts nodes of the listed kinds into markup. Block rules
// return text ending in a blank line; inline rules return bare text.
type markupRule struct {
	kinds []Kind
	emit  func(c *markupWriter, n *Node) string
}

// markupRules is consulted in order; the first rule listing a kind owns
// it. Every valid kind is covered.
var markupRules = []markupRule{
	{kinds: []Kind{KindScript, KindStyle, KindEmbed}, emit: emitNothing},
	{kinds: []Kind{KindDocument, KindContainer}, emit: emitBlocks},
	{kinds: []Kind{KindHeading}, emit: emitHeading},
	{kinds: []Kind{KindParagraph}, emit: emitParagraph},
	{kinds: []Kind{KindCodeBlock}, emit: emitCodeBlock},
	{kinds: []Kind{KindBlockquote}, emit: emitBlockquote},
	{kinds: []Kind{KindOrderedList, KindUnorderedList}, emit: emitList},
	{kinds: []Kind{KindListItem}, emit: emitListItem},
	{kinds: []Kind{KindTable}, emit: emitTable},
	{kinds: []Kind{KindTableRow}, emit: emitTableRow},
	{kinds: []Kind{KindTableCell}, emit: emitTableCell},
	{kinds: []Kind{KindHorizontalRule}, emit: emitRule},
	{kinds: []Kind{KindStrong}, emit: emitDelimited("**")},
	{kinds: []Kind{KindEmphasis}, emit: emitDelimited("*")},
	{kinds: []Kind{KindStrikethrough}, emit: emitDelimited("~~")},
	{kinds: []Kind{KindUnderline}, emit: emitDelimited("__")},
	{kinds: []Kind{KindInlineCode}, emit: emitInlineCode},
	{kinds: []Kind{KindLink}, emit: emitLink},
	{kinds: []Kind{KindImage}, emit: emitImage},
	{kinds: []Kind{KindLineBreak}, emit: emitLineBreak},
	{kinds: []Kind{KindText, KindCodeToken}, emit: emitText},
}

func emitNothing(_ *markupWriter, _ *Node) string {
	return ""
}

func emitBlocks(c *markupWriter, n *Node) string {
	return c.blocks(n.Children)
}

// emitHeading keeps levels 1 to 3 and maps every deeper level to 4.
func emitHeading(c *markupWriter, n *Node) string {
	level := n.Level
	if level < 1 {
		level = 1
	}
	if level > 3 {
		level = 4
	}
	return strings.Repeat("#", level) + " " + c.singleLine(n.Children) + "\n\n"
}

func emitParagraph(c *markupWriter, n *Node) string {
	text := strings.TrimSpace(c.inline(n.Children))
	if text == "" {
		return ""
	}
	return text + "\n\n"
}

func emitCodeBlock(_ *markupWriter, n *Node) string {
	code := strings.TrimSuffix(n.PlainText(), "\n")
	fence := "```"
	for strings.Contains(code, fence) {
		fence += "`"
	}
	var sb strings.Builder
	sb.WriteString(fence)
	sb.WriteString(n.Attr("language"))
	sb.WriteString("\n")
	if code != "" {
		sb.WriteString(code)
		sb.WriteString("\n")
	}
	sb.WriteString(fence)
	sb.WriteString("\n\n")
	return sb.String()
}

func emitBlockquote(c *markupWriter, n *Node) string {
	inner := strings.TrimSpace(c.blocks(n.Children))
	if inner == "" {
		return ""
	}
	return prefixLines(inner, "> ", ">") + "\n\n"
}

// emitList writes every item as a "- " line; ordered numbering is not
// kept.
func emitList(c *markupWriter, n *Node) string {
	var sb strings.Builder
	for _, child := range n.Children {
		item := child
		if item.Kind != KindListItem {
			item = &Node{Kind: KindListItem, Children: []*Node{child}}
		}
		sb.WriteString(c.emit(item))
	}
	if sb.Len() == 0 {
		return ""
	}
	return sb.String() + "\n"
}

// emitListItem writes one "- " line. Continuation lines of nested blocks
// are indented under the marker.
func emitListItem(c *markupWriter, n *Node) string {
	body := collapseBlankLines(strings.TrimSpace(c.blocks(n.Children)))
	body = strings.ReplaceAll(body, "\n\n", "\n")
	lines := strings.Split(body, "\n")
	for i := 1; i < len(lines); i++ {
		lines[i] = "  " + lines[i]
	}
	return "- " + strings.Join(lines, "\n") + "\n"
}

// emitTable writes a pipe table with a separator after the first row.
func emitTable(c *markupWriter, n *Node) string {
	var rows []*Node
	for _, child := range n.Children {
		if child.Kind == KindTableRow {
			rows = append(rows, child)
		}
	}
	if len(rows) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, row := range rows {
		sb.WriteString(emitTableRow(c, row))
		if i == 0 {
			sb.WriteString(tableSeparator(row))
		}
	}
	return sb.String() + "\n"
}

func emitTableRow(c *markupWriter, n *Node) string {
	cells := make([]string, 0, len(n.Children))
	for _, cell := range n.Children {
		cells = append(cells, strings.ReplaceAll(c.singleLine(cell.Children), "|", `\|`))
	}
	return "| " + strings.Join(cells, " | ") + " |\n"
}

func emitTableCell(c *markupWriter, n *Node) string {
	return c.singleLine(n.Children)
}

func tableSeparator(header *Node) string {
	seps := make([]string, 0, len(header.Children))
	for _, cell := range header.Children {
		switch cell.Attr("align") {
		case "left":
			seps = append(seps, ":---")
		case "right":
			seps = append(seps, "---:")
		case "center":
			seps = append(seps, ":---:")
		default:
			seps = append(seps, "---")
		}
	}
	if len(seps) == 0 {
		seps = append(seps, "---")
	}
	return "| " + strings.Join(seps, " | ") + " |\n"
}

func emitRule(_ *markupWriter, _ *Node) string {
	return "---\n\n"
}

func emitDelimited(delim string) func(c *markupWriter, n *Node) string {
	return func(c *markupWriter, n *Node) string {
		inner := c.inline(n.Children)
		if strings.TrimSpace(inner) == "" {
			return inner
		}
		return delim + inner + delim
	}
}

// emitInlineCode fences the code with more backticks than any run inside.
func emitInlineCode(_ *markupWriter, n *Node) string {
	code := n.PlainText()
	if code == "" {
		return ""
	}
	fence := "`"
	for strings.Contains(code, fence) {
		fence += "`"
	}
	return fence + code + fence
}

func emitLink(c *markupWriter, n *Node) string {
	label := c.inline(n.Children)
	href := inertText(n.Attr("href"))
	if href == "" {
		return label
	}
	return "[" + label + "](" + href + titleSuffix(n) + ")"
}

func emitImage(_ *markupWriter, n *Node) string {
	src := inertText(n.Attr("src"))
	if src == "" {
		return ""
	}
	return "![" + inertText(n.Attr("alt")) + "](" + src + titleSuffix(n) + ")"
}

func titleSuffix(n *Node) string {
	if title := inertText(n.Attr("title")); title != "" {
		return ` "` + title + `"`
	}
	return ""
}

func emitLineBreak(_ *markupWriter, _ *Node) string {
	return "\n"
}

var (
	textTagPattern  = regexp.MustCompile(`</?[A-Za-z!?][^<>]*>`)
	textOpenPattern = regexp.MustCompile(`<([A-Za-z!?/])`)
)

func emitText(_ *markupWriter, n *Node) string {
	return inertText(n.Text)
}

// inertText drops tag-shaped runs so that escaped HTML in rich input never
// comes back as live markup. A leftover "<" that could still open a tag is
// separated from the following character.
func inertText(s string) string {
	s = textTagPattern.ReplaceAllString(s, "")
	return textOpenPattern.ReplaceAllString(s, "< $1")
}

// prefixLines prefixes every line of s. Empty lines receive blank instead.
func prefixLines(s, prefix, blank string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = blank
			continue
		}
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
