package content

import (
	"sort"

	"github.com/microcosm-cc/bluemonday"
)

// Policy is an allow-list over content trees: the kinds that may appear,
// the attribute keys each kind may carry, and the kinds that are always
// removed together with their subtree.
//
// A Policy is immutable once constructed and safe for concurrent use.
type Policy struct {
	attrs     map[Kind]map[string]struct{}
	forbidden map[Kind]struct{}
	html      *bluemonday.Policy
}

// defaultAttrs is the attribute table of DefaultPolicy. Every permitted kind
// appears, even those that carry no attributes.
var defaultAttrs = map[Kind][]string{
	KindDocument:       {"class"},
	KindHeading:        {"id", "class"},
	KindParagraph:      {"class"},
	KindStrong:         {"class"},
	KindEmphasis:       {"class"},
	KindStrikethrough:  {"class"},
	KindUnderline:      {"class"},
	KindInlineCode:     {"class"},
	KindCodeBlock:      {"language", "class"},
	KindLink:           {"href", "title", "target", "rel", "class"},
	KindImage:          {"src", "alt", "title", "class"},
	KindOrderedList:    {"start", "class"},
	KindUnorderedList:  {"class"},
	KindListItem:       {"class"},
	KindBlockquote:     {"class"},
	KindTable:          {"class"},
	KindTableRow:       {"class"},
	KindTableCell:      {"header", "align", "class"},
	KindHorizontalRule: {"class"},
	KindLineBreak:      {"class"},
	KindText:           nil,
	KindContainer:      {"class"},
	KindCodeToken:      {"token", "class"},
}

var defaultForbidden = []Kind{KindScript, KindStyle, KindEmbed}

// DefaultPolicy returns the allow-list used for published content.
func DefaultPolicy() *Policy {
	return NewPolicy(defaultAttrs, defaultForbidden...)
}

// NewPolicy builds a policy permitting the kinds present in attrs with the
// listed attribute keys. Forbidden kinds are never permitted, even when they
// also appear in attrs.
func NewPolicy(attrs map[Kind][]string, forbidden ...Kind) *Policy {
	p := &Policy{
		attrs:     make(map[Kind]map[string]struct{}, len(attrs)),
		forbidden: make(map[Kind]struct{}, len(forbidden)),
	}
	for _, k := range forbidden {
		p.forbidden[k] = struct{}{}
	}
	for k, keys := range attrs {
		if !k.Valid() {
			continue
		}
		if _, ok := p.forbidden[k]; ok {
			continue
		}
		set := make(map[string]struct{}, len(keys))
		for _, key := range keys {
			set[key] = struct{}{}
		}
		p.attrs[k] = set
	}
	p.html = p.buildHTMLPolicy()
	return p
}

// Forbids reports whether k is in the forbidden set.
func (p *Policy) Forbids(k Kind) bool {
	_, ok := p.forbidden[k]
	return ok
}

// Permits reports whether nodes of kind k may appear in a sanitized tree.
func (p *Policy) Permits(k Kind) bool {
	if !k.Valid() || p.Forbids(k) {
		return false
	}
	_, ok := p.attrs[k]
	return ok
}

// AllowsAttr reports whether kind k may carry the attribute key.
func (p *Policy) AllowsAttr(k Kind, key string) bool {
	set, ok := p.attrs[k]
	if !ok {
		return false
	}
	_, ok = set[key]
	return ok
}

// AllowedAttrs returns the sorted attribute keys permitted for k.
func (p *Policy) AllowedAttrs(k Kind) []string {
	set := p.attrs[k]
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// HTMLPolicy returns the bluemonday policy that gates serialized HTML. It
// admits exactly the elements and attributes the tree policy permits, and
// additionally restricts URL schemes.
func (p *Policy) HTMLPolicy() *bluemonday.Policy {
	return p.html
}

func (p *Policy) buildHTMLPolicy() *bluemonday.Policy {
	hp := bluemonday.NewPolicy()
	hp.AllowURLSchemes("http", "https", "mailto")
	hp.AllowRelativeURLs(true)
	hp.RequireParseableURLs(true)

	for _, k := range Kinds() {
		if !p.Permits(k) {
			continue
		}
		tags := htmlTags(k)
		if len(tags) == 0 {
			continue
		}
		hp.AllowElements(tags...)
		for _, key := range p.AllowedAttrs(k) {
			name, ok := htmlAttrName(k, key)
			if !ok {
				continue
			}
			if name == "class" {
				hp.AllowAttrs(name).Matching(bluemonday.SpaceSeparatedTokens).OnElements(tags...)
				continue
			}
			hp.AllowAttrs(name).OnElements(tags...)
		}
	}
	return hp
}
