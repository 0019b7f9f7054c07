package content

import "strings"

// TableScrollClass marks the container that lets wide tables scroll.
const TableScrollClass = "table-scroll"

// presentationClasses is the fixed kind → class label table applied during
// rendering. Text has no element of its own and is absent.
var presentationClasses = map[Kind]string{
	KindDocument:       "prose",
	KindHeading:        "prose-heading",
	KindParagraph:      "prose-paragraph",
	KindStrong:         "prose-strong",
	KindEmphasis:       "prose-em",
	KindStrikethrough:  "prose-del",
	KindUnderline:      "prose-underline",
	KindInlineCode:     "prose-code",
	KindCodeBlock:      "prose-pre chroma",
	KindLink:           "prose-link",
	KindImage:          "prose-image",
	KindOrderedList:    "prose-ol",
	KindUnorderedList:  "prose-ul",
	KindListItem:       "prose-li",
	KindBlockquote:     "prose-quote",
	KindTable:          "prose-table",
	KindTableRow:       "prose-tr",
	KindTableCell:      "prose-td",
	KindHorizontalRule: "prose-hr",
	KindLineBreak:      "prose-br",
	KindContainer:      TableScrollClass,
	KindCodeToken:      "tok",
}

// PresentationClass returns the class label for a kind.
func PresentationClass(k Kind) string {
	return presentationClasses[k]
}

// renderPass transforms one node whose children have already been
// transformed. The node is a fresh copy the pass may modify.
type renderPass func(n *Node) *Node

// mapTree rebuilds the tree bottom-up, applying pass to every copied node.
// The input tree is never modified.
func mapTree(n *Node, pass renderPass) *Node {
	out := n.shallowClone()
	for i, child := range out.Children {
		out.Children[i] = mapTree(child, pass)
	}
	return pass(out)
}

func highlightPass(h Highlighter) renderPass {
	return func(n *Node) *Node {
		if n.Kind != KindCodeBlock {
			return n
		}
		return highlightBlock(h, n)
	}
}

func headingIDPass(n *Node) *Node {
	if n.Kind != KindHeading {
		return n
	}
	if id := Slug(n.PlainText()); id != "" {
		n.setAttr("id", id)
	}
	return n
}

// wrapTablesPass places every table that is not already inside a container
// into a table-scroll container.
func wrapTablesPass(n *Node) *Node {
	if n.Kind == KindContainer {
		return n
	}
	for i, child := range n.Children {
		if child.Kind != KindTable {
			continue
		}
		wrapper := &Node{Kind: KindContainer, Children: []*Node{child}}
		wrapper.setAttr("class", TableScrollClass)
		n.Children[i] = wrapper
	}
	return n
}

func annotatePass(n *Node) *Node {
	if cls, ok := presentationClasses[n.Kind]; ok {
		n.setAttr("class", cls)
	}
	return n
}

// hardenLinksPass opens absolute http(s) links in a new context without
// handing the opener to the target, unless the author already chose a
// target or rel.
func hardenLinksPass(n *Node) *Node {
	if n.Kind != KindLink || !isExternalURL(n.Attr("href")) {
		return n
	}
	if n.HasAttr("target") || n.HasAttr("rel") {
		return n
	}
	n.setAttr("target", "_blank")
	n.setAttr("rel", "noopener noreferrer")
	return n
}

func isExternalURL(href string) bool {
	lower := strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// render runs the forward transformations in order and sanitizes the
// result.
func render(tree *Node, policy *Policy, h Highlighter) (*Document, error) {
	if err := Validate(tree); err != nil {
		return nil, err
	}
	root := tree
	if root.Kind != KindDocument {
		root = &Node{Kind: KindDocument, Children: []*Node{tree}}
	}

	passes := []renderPass{
		highlightPass(h),
		headingIDPass,
		wrapTablesPass,
		annotatePass,
		hardenLinksPass,
	}
	for _, pass := range passes {
		root = mapTree(root, pass)
	}
	return &Document{Root: Sanitize(policy, root), policy: policy}, nil
}
