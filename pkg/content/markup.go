package content

import (
	"fmt"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// Flavor selects the markup produced by the reverse conversion.
type Flavor int

const (
	// FlavorNative produces folio's own grammar.
	FlavorNative Flavor = iota
	// FlavorCommonMark produces standard Markdown for other tools.
	FlavorCommonMark
)

// ParseFlavor validates a flavor name. Empty means native.
func ParseFlavor(name string) (Flavor, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "native":
		return FlavorNative, nil
	case "commonmark", "markdown":
		return FlavorCommonMark, nil
	default:
		return FlavorNative, fmt.Errorf("invalid flavor %q: must be native or commonmark", name)
	}
}

// ToMarkupOptions configures reverse conversion.
type ToMarkupOptions struct {
	Flavor Flavor
}

var blankLineRun = regexp.MustCompile(`\n{3,}`)

// markupWriter walks a sanitized tree and applies markupRules.
type markupWriter struct {
	rules map[Kind]func(*markupWriter, *Node) string
}

func newMarkupWriter() *markupWriter {
	w := &markupWriter{rules: make(map[Kind]func(*markupWriter, *Node) string)}
	for _, rule := range markupRules {
		for _, k := range rule.kinds {
			if _, ok := w.rules[k]; !ok {
				w.rules[k] = rule.emit
			}
		}
	}
	return w
}

func (c *markupWriter) emit(n *Node) string {
	if emit, ok := c.rules[n.Kind]; ok {
		return emit(c, n)
	}
	return c.inline(n.Children)
}

// blocks converts a sequence that may mix block and inline nodes. Runs of
// inline nodes become paragraphs.
func (c *markupWriter) blocks(children []*Node) string {
	var sb, pending strings.Builder
	flush := func() {
		if text := strings.TrimSpace(pending.String()); text != "" {
			sb.WriteString(text)
			sb.WriteString("\n\n")
		}
		pending.Reset()
	}
	for _, child := range children {
		if child.Kind.isBlock() {
			flush()
			sb.WriteString(c.emit(child))
			continue
		}
		pending.WriteString(c.emit(child))
	}
	flush()
	return sb.String()
}

func (c *markupWriter) inline(children []*Node) string {
	var sb strings.Builder
	for _, child := range children {
		if child.Kind.isBlock() {
			sb.WriteString(strings.TrimSpace(c.emit(child)))
			continue
		}
		sb.WriteString(c.emit(child))
	}
	return sb.String()
}

// singleLine converts inline content that must stay on one line.
func (c *markupWriter) singleLine(children []*Node) string {
	return strings.Join(strings.Fields(c.inline(children)), " ")
}

func collapseBlankLines(s string) string {
	return blankLineRun.ReplaceAllString(s, "\n\n")
}

// toMarkup converts a tree that has already been validated and sanitized.
func toMarkup(root *Node) string {
	out := newMarkupWriter().emit(root)
	if !root.Kind.isBlock() {
		out += "\n"
	}
	return strings.TrimSpace(collapseBlankLines(out))
}

// ToMarkup converts a rendered document back into markup.
func (p *Pipeline) ToMarkup(doc *Document) (string, error) {
	return p.ToMarkupWithOptions(doc, ToMarkupOptions{})
}

// ToMarkupWithOptions converts a rendered document into the requested
// flavor. The tree is sanitized again first, so nothing the policy forbids
// can reach the output.
func (p *Pipeline) ToMarkupWithOptions(doc *Document, opts ToMarkupOptions) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("%w: nil document", ErrInvalidKind)
	}
	return p.ToMarkupTree(doc.Root, opts)
}

// ToMarkupTree converts any content tree into markup.
func (p *Pipeline) ToMarkupTree(tree *Node, opts ToMarkupOptions) (string, error) {
	if err := Validate(tree); err != nil {
		return "", err
	}
	clean := Sanitize(p.policy, tree)

	switch opts.Flavor {
	case FlavorCommonMark:
		return toCommonMark(NewDocument(clean, p.policy))
	default:
		return toMarkup(clean), nil
	}
}

// ToMarkupHTML reads rich text, sanitizes it and converts it to markup.
func (p *Pipeline) ToMarkupHTML(rich string, opts ToMarkupOptions) (string, error) {
	return p.ToMarkupTree(ParseHTML(rich), opts)
}

func toCommonMark(doc *Document) (string, error) {
	rendered, err := doc.HTML()
	if err != nil {
		return "", err
	}
	markdown, err := htmltomarkdown.ConvertString(rendered)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to markdown: %w", err)
	}
	return strings.TrimSpace(collapseBlankLines(markdown)), nil
}
