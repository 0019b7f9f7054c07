package content

import "strings"

// inlineDelimiters pairs a delimiter with the kind it produces. Longer
// delimiters come first so that "**" wins over "*".
var inlineDelimiters = []struct {
	delim string
	kind  Kind
}{
	{"**", KindStrong},
	{"__", KindUnderline},
	{"~~", KindStrikethrough},
	{"*", KindEmphasis},
}

// parseInline scans text left to right. At each position the longest
// construct that has a matching closer wins; a construct, once matched, is
// never reconsidered. Characters that open nothing are literal text.
func parseInline(s string) []*Node {
	var nodes []*Node
	textStart := 0
	for i := 0; i < len(s); {
		n, end := matchInline(s, i)
		if n == nil {
			i++
			continue
		}
		nodes = appendInline(nodes, newText(s[textStart:i]))
		nodes = appendInline(nodes, n)
		i = end
		textStart = end
	}
	return appendInline(nodes, newText(s[textStart:]))
}

// matchInline tries every construct that can start at s[i]. It returns the
// node and the index just past it, or nil.
func matchInline(s string, i int) (*Node, int) {
	switch s[i] {
	case '`':
		return matchCodeSpan(s, i)
	case '!':
		if i+1 < len(s) && s[i+1] == '[' {
			return matchLink(s, i+1, true)
		}
	case '[':
		return matchLink(s, i, false)
	case '*', '_', '~':
		for _, d := range inlineDelimiters {
			if !strings.HasPrefix(s[i:], d.delim) {
				continue
			}
			if n, end := matchDelimited(s, i, d.delim, d.kind); n != nil {
				return n, end
			}
		}
	}
	return nil, 0
}

// matchCodeSpan matches a backtick run and the next run of the same length.
func matchCodeSpan(s string, i int) (*Node, int) {
	run := backtickRun(s, i)
	for j := i + run; j < len(s); {
		if s[j] != '`' {
			j++
			continue
		}
		closing := backtickRun(s, j)
		if closing == run {
			code := s[i+run : j]
			if code == "" {
				return nil, 0
			}
			return &Node{Kind: KindInlineCode, Children: []*Node{newText(code)}}, j + closing
		}
		j += closing
	}
	return nil, 0
}

func backtickRun(s string, i int) int {
	n := 0
	for i+n < len(s) && s[i+n] == '`' {
		n++
	}
	return n
}

// matchDelimited matches delim ... delim around non-empty content that
// neither starts nor ends with whitespace.
func matchDelimited(s string, i int, delim string, kind Kind) (*Node, int) {
	start := i + len(delim)
	if start >= len(s) || isSpace(s[start]) {
		return nil, 0
	}
	closeAt := findCloser(s, start, delim)
	if closeAt < 0 {
		return nil, 0
	}
	return &Node{Kind: kind, Children: parseInline(s[start:closeAt])}, closeAt + len(delim)
}

// findCloser returns the index of the delimiter closing a span whose
// content starts at start, or -1. Code spans are skipped, and a single "*"
// never closes on half of a "**".
func findCloser(s string, start int, delim string) int {
	for j := start; j < len(s); {
		if s[j] == '`' {
			if _, end := matchCodeSpan(s, j); end > 0 {
				j = end
				continue
			}
		}
		if !strings.HasPrefix(s[j:], delim) {
			j++
			continue
		}
		if delim == "*" && j+1 < len(s) && s[j+1] == '*' {
			j += 2
			continue
		}
		if j == start || isSpace(s[j-1]) {
			j += len(delim)
			continue
		}
		// Prefer the end of a longer delimiter run so that "***x***"
		// nests instead of leaving a stray delimiter inside.
		for j+len(delim) < len(s) && s[j+len(delim)] == delim[0] {
			j++
		}
		return j
	}
	return -1
}

// matchLink matches [text](url) starting at the bracket at s[i]. Images are
// matched from the bracket after "!"; the returned end covers the whole
// construct.
func matchLink(s string, i int, image bool) (*Node, int) {
	closeBracket := matchBracket(s, i, '[', ']')
	if closeBracket < 0 || closeBracket+1 >= len(s) || s[closeBracket+1] != '(' {
		return nil, 0
	}
	closeParen := matchBracket(s, closeBracket+1, '(', ')')
	if closeParen < 0 {
		return nil, 0
	}

	label := s[i+1 : closeBracket]
	url, title := splitLinkTarget(s[closeBracket+2 : closeParen])

	if image {
		img := &Node{Kind: KindImage}
		img.setAttr("src", url)
		img.setAttr("alt", label)
		if title != "" {
			img.setAttr("title", title)
		}
		return img, closeParen + 1
	}

	link := &Node{Kind: KindLink, Children: parseInline(label)}
	link.setAttr("href", url)
	if title != "" {
		link.setAttr("title", title)
	}
	return link, closeParen + 1
}

// matchBracket returns the index of the bracket closing the one at s[i],
// honoring nesting, or -1.
func matchBracket(s string, i int, open, close byte) int {
	depth := 0
	for j := i; j < len(s); j++ {
		switch s[j] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}

// splitLinkTarget separates `url "title"` into its parts.
func splitLinkTarget(target string) (string, string) {
	target = strings.TrimSpace(target)
	if idx := strings.Index(target, ` "`); idx >= 0 && len(target) > idx+2 && strings.HasSuffix(target, `"`) {
		return strings.TrimSpace(target[:idx]), target[idx+2 : len(target)-1]
	}
	return target, ""
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n'
}
