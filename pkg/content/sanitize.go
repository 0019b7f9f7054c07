package content

// Sanitize returns a copy of the tree restricted to the policy. Forbidden
// kinds and kinds the policy does not permit are removed with their
// subtrees, and attribute keys the policy does not list for a node's kind
// are dropped. Attribute values are not inspected; the HTML gate of
// Document.HTML validates URLs.
//
// The result is nil only when the root itself is removed.
//
// A nil policy sanitizes with DefaultPolicy.
func (p *Policy) Sanitize(n *Node) *Node {
	if p == nil {
		p = DefaultPolicy()
	}
	if n == nil || !p.Permits(n.Kind) {
		return nil
	}

	clean := &Node{
		Kind:  n.Kind,
		Level: n.Level,
		Text:  n.Text,
	}
	for key, value := range n.Attrs {
		if p.AllowsAttr(n.Kind, key) {
			clean.setAttr(key, value)
		}
	}
	for _, child := range n.Children {
		if c := p.Sanitize(child); c != nil {
			clean.Children = append(clean.Children, c)
		}
	}
	return clean
}

// Sanitize applies policy to a document tree. Unlike Policy.Sanitize it
// never returns nil: a removed root yields an empty document. A nil policy
// means DefaultPolicy.
func Sanitize(policy *Policy, root *Node) *Node {
	if clean := policy.Sanitize(root); clean != nil {
		return clean
	}
	return &Node{Kind: KindDocument}
}
