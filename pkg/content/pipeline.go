package content

import (
	"fmt"
	"strings"
)

// Dialect selects the markup grammar a Pipeline parses.
type Dialect string

const (
	// DialectNative is folio's own line-oriented grammar.
	DialectNative Dialect = "native"
	// DialectCommonMark parses CommonMark with tables and strikethrough.
	DialectCommonMark Dialect = "commonmark"
)

// ValidDialects lists the accepted dialect names.
var ValidDialects = []string{string(DialectNative), string(DialectCommonMark)}

// ParseDialect validates a dialect name. Empty means native.
func ParseDialect(name string) (Dialect, error) {
	switch Dialect(strings.ToLower(strings.TrimSpace(name))) {
	case "", DialectNative:
		return DialectNative, nil
	case DialectCommonMark:
		return DialectCommonMark, nil
	default:
		return "", fmt.Errorf("invalid dialect %q: must be one of %s", name, strings.Join(ValidDialects, ", "))
	}
}

// Pipeline bundles a policy, a highlighter and a dialect. It holds no
// mutable state and is safe for concurrent use.
type Pipeline struct {
	policy      *Policy
	highlighter Highlighter
	dialect     Dialect
	commonmark  *commonMarkReader
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithHighlighter replaces the chroma highlighter. nil keeps the default.
func WithHighlighter(h Highlighter) Option {
	return func(p *Pipeline) {
		if h != nil {
			p.highlighter = h
		}
	}
}

// WithDialect selects the markup grammar.
func WithDialect(d Dialect) Option {
	return func(p *Pipeline) {
		p.dialect = d
	}
}

// NewPipeline creates a pipeline enforcing policy. A nil policy means
// DefaultPolicy.
func NewPipeline(policy *Policy, opts ...Option) *Pipeline {
	if policy == nil {
		policy = DefaultPolicy()
	}
	p := &Pipeline{
		policy:      policy,
		highlighter: NewChromaHighlighter(),
		dialect:     DialectNative,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.dialect == DialectCommonMark {
		p.commonmark = newCommonMarkReader()
	}
	return p
}

// Policy returns the allow-list the pipeline enforces.
func (p *Pipeline) Policy() *Policy {
	return p.policy
}

// Dialect returns the markup grammar the pipeline parses.
func (p *Pipeline) Dialect() Dialect {
	return p.dialect
}

// Parse parses markup in the pipeline's dialect.
func (p *Pipeline) Parse(markup string) *ParseResult {
	if p.commonmark != nil {
		return p.commonmark.parse(markup)
	}
	return ParseDetailed(markup)
}

// Render highlights code, assigns heading ids, wraps tables, annotates
// presentation classes, hardens external links and finally sanitizes.
// The input tree is not modified. Rendering an already rendered tree
// returns an equal tree.
func (p *Pipeline) Render(tree *Node) (*Document, error) {
	return render(tree, p.policy, p.highlighter)
}

// ParseAndRender parses markup and renders the result.
func (p *Pipeline) ParseAndRender(markup string) (*Document, error) {
	return p.Render(p.Parse(markup).Root)
}

// Sanitize applies the pipeline's policy to a tree.
func (p *Pipeline) Sanitize(tree *Node) *Node {
	return Sanitize(p.policy, tree)
}

// Document wraps a tree as a sanitized document without rendering it.
func (p *Pipeline) Document(tree *Node) (*Document, error) {
	if err := Validate(tree); err != nil {
		return nil, err
	}
	return NewDocument(tree, p.policy), nil
}
