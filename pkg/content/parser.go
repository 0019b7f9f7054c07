package content

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ParseResult contains a parsed tree and any non-fatal diagnostics.
type ParseResult struct {
	Root     *Node
	Warnings []string
}

func (r *ParseResult) addWarning(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

var (
	headingPattern   = regexp.MustCompile(`^ {0,3}(#{1,6})(?:[ \t]+(.*?))?(?:[ \t]+#+)?[ \t]*$`)
	quotePattern     = regexp.MustCompile(`^ {0,3}> ?(.*)$`)
	bulletPattern    = regexp.MustCompile(`^ {0,3}[-*+][ \t]+(.*)$`)
	orderedPattern   = regexp.MustCompile(`^ {0,3}(\d{1,9})\.[ \t]+(.*)$`)
	rulePattern      = regexp.MustCompile(`^ {0,3}(?:(?:-[ \t]*){3,}|(?:\*[ \t]*){3,}|(?:_[ \t]*){3,})$`)
	fencePattern     = regexp.MustCompile("^ {0,3}(`{3,}|~{3,})[ \\t]*([^\\s`]*)")
	tableSepPattern  = regexp.MustCompile(`^ {0,3}\|?[ \t]*:?-+:?[ \t]*(?:\|[ \t]*:?-+:?[ \t]*)*\|?[ \t]*$`)
	tableRowPattern  = regexp.MustCompile(`^ {0,3}\|`)
	blankLinePattern = regexp.MustCompile(`^[ \t]*$`)
)

// Parse converts markup into a content tree. It never fails: malformed
// constructs degrade to plain text.
func Parse(markup string) *Node {
	return ParseDetailed(markup).Root
}

// ParseDetailed is Parse with diagnostics.
func ParseDetailed(markup string) *ParseResult {
	result := &ParseResult{}
	p := &blockParser{lines: splitLines(markup), result: result}
	result.Root = &Node{Kind: KindDocument, Children: p.parseBlocks()}
	return result
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// blockParser consumes lines one block at a time.
type blockParser struct {
	lines  []string
	pos    int
	result *ParseResult
}

func (p *blockParser) parseBlocks() []*Node {
	var blocks []*Node
	for p.pos < len(p.lines) {
		if blankLinePattern.MatchString(p.lines[p.pos]) {
			p.pos++
			continue
		}
		blocks = append(blocks, p.parseBlock())
	}
	return blocks
}

// parseBlock parses the block starting at the current line. The order of
// the checks is the precedence of the grammar.
func (p *blockParser) parseBlock() *Node {
	line := p.lines[p.pos]

	switch {
	case headingPattern.MatchString(line):
		return p.parseHeading()
	case quotePattern.MatchString(line):
		return p.parseBlockquote()
	case bulletPattern.MatchString(line):
		return p.parseList(bulletPattern, KindUnorderedList)
	case orderedPattern.MatchString(line):
		return p.parseList(orderedPattern, KindOrderedList)
	case rulePattern.MatchString(line):
		p.pos++
		return &Node{Kind: KindHorizontalRule}
	case fencePattern.MatchString(line):
		return p.parseFence()
	case p.isTableStart():
		return p.parseTable()
	default:
		return p.parseParagraph()
	}
}

// startsBlock reports whether line begins a block other than a paragraph.
func (p *blockParser) startsBlock(i int) bool {
	line := p.lines[i]
	if headingPattern.MatchString(line) ||
		quotePattern.MatchString(line) ||
		bulletPattern.MatchString(line) ||
		orderedPattern.MatchString(line) ||
		rulePattern.MatchString(line) ||
		fencePattern.MatchString(line) {
		return true
	}
	return p.isTableStartAt(i)
}

func (p *blockParser) parseHeading() *Node {
	m := headingPattern.FindStringSubmatch(p.lines[p.pos])
	p.pos++
	return &Node{
		Kind:     KindHeading,
		Level:    len(m[1]),
		Children: parseInline(strings.TrimSpace(m[2])),
	}
}

func (p *blockParser) parseBlockquote() *Node {
	var inner []string
	for p.pos < len(p.lines) {
		m := quotePattern.FindStringSubmatch(p.lines[p.pos])
		if m == nil {
			break
		}
		inner = append(inner, m[1])
		p.pos++
	}
	nested := &blockParser{lines: inner, result: p.result}
	return &Node{Kind: KindBlockquote, Children: nested.parseBlocks()}
}

func (p *blockParser) parseList(pattern *regexp.Regexp, kind Kind) *Node {
	list := &Node{Kind: kind}
	for p.pos < len(p.lines) {
		m := pattern.FindStringSubmatch(p.lines[p.pos])
		if m == nil {
			break
		}
		if kind == KindOrderedList && len(list.Children) == 0 {
			if start, err := strconv.Atoi(m[1]); err == nil && start != 1 {
				list.setAttr("start", strconv.Itoa(start))
			}
		}
		list.Children = append(list.Children, &Node{
			Kind:     KindListItem,
			Children: parseInline(strings.TrimSpace(m[len(m)-1])),
		})
		p.pos++
	}
	return list
}

func (p *blockParser) parseFence() *Node {
	m := fencePattern.FindStringSubmatch(p.lines[p.pos])
	marker := m[1]
	language := m[2]
	openLine := p.pos + 1
	p.pos++

	var code []string
	closed := false
	for p.pos < len(p.lines) {
		line := p.lines[p.pos]
		p.pos++
		if isClosingFence(line, marker) {
			closed = true
			break
		}
		code = append(code, line)
	}
	if !closed {
		p.result.addWarning("unclosed code fence opened on line %d", openLine)
	}

	block := &Node{Kind: KindCodeBlock}
	if language != "" {
		block.setAttr("language", language)
	}
	if len(code) > 0 {
		block.Children = []*Node{newText(strings.Join(code, "\n"))}
	}
	return block
}

// isClosingFence reports whether line closes a fence opened with marker:
// the same character, at least as many times, and nothing else.
func isClosingFence(line, marker string) bool {
	trimmed := strings.TrimSpace(line)
	if len(line)-len(strings.TrimLeft(line, " ")) > 3 {
		return false
	}
	if len(trimmed) < len(marker) {
		return false
	}
	return strings.Trim(trimmed, marker[:1]) == ""
}

func (p *blockParser) isTableStart() bool {
	return p.isTableStartAt(p.pos)
}

func (p *blockParser) isTableStartAt(i int) bool {
	if i+1 >= len(p.lines) {
		return false
	}
	return tableRowPattern.MatchString(p.lines[i]) &&
		strings.Contains(p.lines[i+1], "-") &&
		tableSepPattern.MatchString(p.lines[i+1])
}

func (p *blockParser) parseTable() *Node {
	header := splitTableRow(p.lines[p.pos])
	aligns := tableAlignments(splitTableRow(p.lines[p.pos+1]))
	p.pos += 2

	table := &Node{Kind: KindTable}
	table.Children = append(table.Children, tableRow(header, aligns, true))
	for p.pos < len(p.lines) && tableRowPattern.MatchString(p.lines[p.pos]) {
		table.Children = append(table.Children, tableRow(splitTableRow(p.lines[p.pos]), aligns, false))
		p.pos++
	}
	return table
}

func tableRow(cells []string, aligns []string, header bool) *Node {
	row := &Node{Kind: KindTableRow}
	for i, text := range cells {
		cell := &Node{Kind: KindTableCell, Children: parseInline(text)}
		if header {
			cell.setAttr("header", "true")
		}
		if i < len(aligns) && aligns[i] != "" {
			cell.setAttr("align", aligns[i])
		}
		row.Children = append(row.Children, cell)
	}
	return row
}

// splitTableRow splits a pipe row into trimmed cell texts. A backslash
// escapes a literal pipe.
func splitTableRow(line string) []string {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "|")
	if strings.HasSuffix(line, "|") && !strings.HasSuffix(line, `\|`) {
		line = line[:len(line)-1]
	}

	var cells []string
	var cell strings.Builder
	for i := 0; i < len(line); i++ {
		switch {
		case line[i] == '\\' && i+1 < len(line) && line[i+1] == '|':
			cell.WriteByte('|')
			i++
		case line[i] == '|':
			cells = append(cells, strings.TrimSpace(cell.String()))
			cell.Reset()
		default:
			cell.WriteByte(line[i])
		}
	}
	return append(cells, strings.TrimSpace(cell.String()))
}

func tableAlignments(separators []string) []string {
	aligns := make([]string, len(separators))
	for i, sep := range separators {
		left := strings.HasPrefix(sep, ":")
		right := strings.HasSuffix(sep, ":")
		switch {
		case left && right:
			aligns[i] = "center"
		case right:
			aligns[i] = "right"
		case left:
			aligns[i] = "left"
		}
	}
	return aligns
}

// parseParagraph collects lines until a blank line or the start of another
// block. Lines are joined with line breaks.
func (p *blockParser) parseParagraph() *Node {
	para := &Node{Kind: KindParagraph}
	first := true
	for p.pos < len(p.lines) {
		line := p.lines[p.pos]
		if blankLinePattern.MatchString(line) {
			break
		}
		if !first && p.startsBlock(p.pos) {
			break
		}
		if !first {
			para.Children = append(para.Children, &Node{Kind: KindLineBreak})
		}
		for _, n := range parseInline(strings.TrimSpace(line)) {
			para.Children = appendInline(para.Children, n)
		}
		first = false
		p.pos++
	}
	return para
}
