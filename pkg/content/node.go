// Package content implements the folio content pipeline: markup parsing,
// allow-list sanitization, rendering into an annotated rich document, and
// conversion back to markup.
package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidKind is returned when a tree contains a node whose kind is not
// part of the Kind enumeration, or a nil node.
var ErrInvalidKind = errors.New("invalid node kind")

// Kind identifies the type of a content node.
type Kind int

// Node kinds. The zero value is deliberately invalid.
const (
	KindInvalid Kind = iota
	KindDocument
	KindHeading
	KindParagraph
	KindStrong
	KindEmphasis
	KindStrikethrough
	KindUnderline
	KindInlineCode
	KindCodeBlock
	KindLink
	KindImage
	KindOrderedList
	KindUnorderedList
	KindListItem
	KindBlockquote
	KindTable
	KindTableRow
	KindTableCell
	KindHorizontalRule
	KindLineBreak
	KindText
	KindContainer
	KindCodeToken
	KindScript
	KindStyle
	KindEmbed

	kindCount
)

var kindNames = [kindCount]string{
	KindInvalid:        "invalid",
	KindDocument:       "document",
	KindHeading:        "heading",
	KindParagraph:      "paragraph",
	KindStrong:         "strong",
	KindEmphasis:       "emphasis",
	KindStrikethrough:  "strikethrough",
	KindUnderline:      "underline",
	KindInlineCode:     "inline-code",
	KindCodeBlock:      "code-block",
	KindLink:           "link",
	KindImage:          "image",
	KindOrderedList:    "ordered-list",
	KindUnorderedList:  "unordered-list",
	KindListItem:       "list-item",
	KindBlockquote:     "blockquote",
	KindTable:          "table",
	KindTableRow:       "table-row",
	KindTableCell:      "table-cell",
	KindHorizontalRule: "horizontal-rule",
	KindLineBreak:      "line-break",
	KindText:           "text",
	KindContainer:      "container",
	KindCodeToken:      "code-token",
	KindScript:         "script",
	KindStyle:          "style",
	KindEmbed:          "embed",
}

// Kinds returns every valid kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, kindCount-1)
	for k := KindDocument; k < kindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// Valid reports whether k is a member of the enumeration.
func (k Kind) Valid() bool {
	return k > KindInvalid && k < kindCount
}

func (k Kind) String() string {
	if k >= 0 && k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind looks up a kind by its name.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k := KindDocument; k < kindCount; k++ {
		if kindNames[k] == name {
			return k, nil
		}
	}
	return KindInvalid, fmt.Errorf("%w: %q", ErrInvalidKind, name)
}

// MarshalText encodes the kind as its name.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidKind, int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *Kind) UnmarshalText(data []byte) error {
	parsed, err := ParseKind(string(data))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// isBlock reports whether nodes of this kind stand on their own line in
// markup rather than flowing inside a paragraph.
func (k Kind) isBlock() bool {
	switch k {
	case KindDocument, KindHeading, KindParagraph, KindCodeBlock,
		KindOrderedList, KindUnorderedList, KindListItem, KindBlockquote,
		KindTable, KindTableRow, KindTableCell, KindHorizontalRule,
		KindContainer, KindScript, KindStyle, KindEmbed:
		return true
	case KindStrong, KindEmphasis, KindStrikethrough, KindUnderline,
		KindInlineCode, KindLink, KindImage, KindLineBreak, KindText,
		KindCodeToken:
		return false
	default:
		return false
	}
}

// Node is one element of a content tree.
//
// Container kinds hold Children; the text and code-token leaves hold Text.
// Level is only meaningful for headings. Attrs is nil when empty.
type Node struct {
	Kind     Kind              `json:"kind"`
	Level    int               `json:"level,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Children []*Node           `json:"children,omitempty"`
	Text     string            `json:"text,omitempty"`
}

// Attr returns the value of an attribute, or "" if it is not set.
func (n *Node) Attr(key string) string {
	if n == nil || n.Attrs == nil {
		return ""
	}
	return n.Attrs[key]
}

// HasAttr reports whether an attribute is set.
func (n *Node) HasAttr(key string) bool {
	if n == nil || n.Attrs == nil {
		return false
	}
	_, ok := n.Attrs[key]
	return ok
}

// PlainText flattens the text content of the subtree. Line breaks become
// single spaces.
func (n *Node) PlainText() string {
	var sb strings.Builder
	n.writePlainText(&sb)
	return sb.String()
}

func (n *Node) writePlainText(sb *strings.Builder) {
	if n == nil {
		return
	}
	switch n.Kind {
	case KindText, KindCodeToken:
		sb.WriteString(n.Text)
	case KindLineBreak:
		sb.WriteString(" ")
	case KindScript, KindStyle, KindEmbed:
		return
	default:
		for _, child := range n.Children {
			child.writePlainText(sb)
		}
	}
}

// shallowClone copies the node with its own Attrs map and Children slice.
// The children themselves are shared.
func (n *Node) shallowClone() *Node {
	clone := &Node{
		Kind:  n.Kind,
		Level: n.Level,
		Text:  n.Text,
	}
	if len(n.Attrs) > 0 {
		clone.Attrs = make(map[string]string, len(n.Attrs))
		for k, v := range n.Attrs {
			clone.Attrs[k] = v
		}
	}
	if len(n.Children) > 0 {
		clone.Children = append([]*Node(nil), n.Children...)
	}
	return clone
}

// setAttr sets an attribute on a node the caller owns.
func (n *Node) setAttr(key, value string) {
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[key] = value
}

// Validate checks that every node in the tree is non-nil and of a known kind.
func Validate(n *Node) error {
	if n == nil {
		return fmt.Errorf("%w: nil node", ErrInvalidKind)
	}
	if !n.Kind.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidKind, int(n.Kind))
	}
	for _, child := range n.Children {
		if err := Validate(child); err != nil {
			return err
		}
	}
	return nil
}

// Walk visits every node of the tree in document order. Returning false
// from fn skips the node's children.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, child := range n.Children {
		Walk(child, fn)
	}
}

// DecodeJSON reads a tree from its JSON form.
func DecodeJSON(data []byte) (*Node, error) {
	var n Node
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("failed to decode content tree: %w", err)
	}
	if err := Validate(&n); err != nil {
		return nil, err
	}
	return &n, nil
}

func newText(s string) *Node {
	return &Node{Kind: KindText, Text: s}
}

// appendInline appends n to nodes, merging adjacent text nodes.
func appendInline(nodes []*Node, n *Node) []*Node {
	if n == nil {
		return nodes
	}
	if n.Kind == KindText {
		if n.Text == "" {
			return nodes
		}
		if last := len(nodes) - 1; last >= 0 && nodes[last].Kind == KindText {
			nodes[last] = newText(nodes[last].Text + n.Text)
			return nodes
		}
	}
	return append(nodes, n)
}
