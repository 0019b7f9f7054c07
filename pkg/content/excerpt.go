package content

import (
	"regexp"
	"strings"

	"github.com/rivo/uniseg"
)

// Ellipsis marks a truncated excerpt.
const Ellipsis = "…"

var (
	bulletPrefix  = regexp.MustCompile(`^ {0,3}(?:[-*+]|\d{1,9}\.)[ \t]+`)
	quotePrefix   = regexp.MustCompile(`^ {0,3}(?:> ?)+`)
	imageOnlyLine = regexp.MustCompile(`^(?:[ \t]*!\[[^\]]*\]\([^)]*\)[ \t]*)+$`)
)

// ExtractExcerpt returns a plain-text summary: the first paragraph-like
// block of markup outside fenced code, with inline markup removed and
// whitespace collapsed, truncated to maxLength grapheme clusters. A
// truncated excerpt ends with Ellipsis.
func ExtractExcerpt(markup string, maxLength int) string {
	if maxLength < 0 {
		maxLength = 0
	}
	for _, block := range proseBlocks(markup) {
		text := excerptText(block)
		if text == "" {
			continue
		}
		return truncateGraphemes(text, maxLength)
	}
	return ""
}

// proseBlocks splits markup into blank-line separated blocks, leaving out
// fenced code.
func proseBlocks(markup string) [][]string {
	var blocks [][]string
	var current []string
	flush := func() {
		if len(current) > 0 {
			blocks = append(blocks, current)
		}
		current = nil
	}

	fence := ""
	for _, line := range splitLines(markup) {
		if fence != "" {
			if isClosingFence(line, fence) {
				fence = ""
			}
			continue
		}
		if m := fencePattern.FindStringSubmatch(line); m != nil {
			flush()
			fence = m[1]
			continue
		}
		if blankLinePattern.MatchString(line) {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return blocks
}

// excerptText flattens a block to plain text. Headings, rules, table
// separators and image-only lines contribute nothing.
func excerptText(lines []string) string {
	var parts []string
	for _, line := range lines {
		switch {
		case headingPattern.MatchString(line),
			rulePattern.MatchString(line),
			imageOnlyLine.MatchString(line),
			tableRowPattern.MatchString(line) && tableSepPattern.MatchString(line):
			continue
		}
		line = quotePrefix.ReplaceAllString(line, "")
		line = bulletPrefix.ReplaceAllString(line, "")
		if tableRowPattern.MatchString(line) {
			line = strings.Join(splitTableRow(line), " ")
		}
		if text := stripInline(line); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

// truncateGraphemes shortens s to at most n grapheme clusters plus the
// ellipsis.
func truncateGraphemes(s string, n int) string {
	if uniseg.GraphemeClusterCount(s) <= n {
		return s
	}
	var sb strings.Builder
	g := uniseg.NewGraphemes(s)
	for i := 0; i < n && g.Next(); i++ {
		sb.WriteString(g.Str())
	}
	return strings.TrimRight(sb.String(), " ") + Ellipsis
}
