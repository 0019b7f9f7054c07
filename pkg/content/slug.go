package content

import (
	"regexp"
	"strings"
)

var (
	slugInvalid = regexp.MustCompile(`[^\p{L}\p{N}_\s-]+`)
	slugSpace   = regexp.MustCompile(`\s+`)
	slugHyphens = regexp.MustCompile(`-{2,}`)
)

// Slug derives a URL-fragment identifier from heading text: lowercased,
// punctuation removed, whitespace runs replaced with a single hyphen.
// Identical input always yields identical output; collisions are not
// resolved.
func Slug(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = slugInvalid.ReplaceAllString(s, "")
	s = slugSpace.ReplaceAllString(s, "-")
	s = slugHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
