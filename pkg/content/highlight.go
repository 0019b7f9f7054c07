package content

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Token is one classified span of highlighted source. Class is empty for
// neutral text.
type Token struct {
	Class string
	Text  string
}

// Highlighter splits source code into classified tokens. The concatenated
// token texts must equal the input.
type Highlighter interface {
	Highlight(language, code string) []Token
}

// ChromaHighlighter classifies tokens with chroma lexers. Token classes are
// chroma's short CSS class names, so the stylesheet from WriteStyleCSS
// applies to the rendered spans.
type ChromaHighlighter struct{}

// NewChromaHighlighter returns the default highlighter.
func NewChromaHighlighter() *ChromaHighlighter {
	return &ChromaHighlighter{}
}

// Highlight tokenizes code for language. Unknown or empty languages yield a
// single neutral token.
func (h *ChromaHighlighter) Highlight(language, code string) []Token {
	if code == "" {
		return nil
	}
	lexer := lookupLexer(language)
	if lexer == nil {
		return plainTokens(code)
	}

	it, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return plainTokens(code)
	}

	var tokens []Token
	for _, tok := range it.Tokens() {
		if tok.Value == "" {
			continue
		}
		cls := tokenClass(tok.Type)
		if last := len(tokens) - 1; last >= 0 && tokens[last].Class == cls {
			tokens[last].Text += tok.Value
			continue
		}
		tokens = append(tokens, Token{Class: cls, Text: tok.Value})
	}

	// Some lexers terminate the final line; drop what the source did not have.
	if joined := joinTokens(tokens); joined != code {
		if strings.TrimSuffix(joined, "\n") != code || len(tokens) == 0 {
			return plainTokens(code)
		}
		last := len(tokens) - 1
		tokens[last].Text = strings.TrimSuffix(tokens[last].Text, "\n")
		if tokens[last].Text == "" {
			tokens = tokens[:last]
		}
	}
	return tokens
}

func lookupLexer(language string) chroma.Lexer {
	language = strings.TrimSpace(language)
	if language == "" {
		return nil
	}
	return lexers.Get(language)
}

// tokenClass maps a chroma token type to its short class, falling back to
// the sub-category and category.
func tokenClass(t chroma.TokenType) string {
	for _, candidate := range []chroma.TokenType{t, t.SubCategory(), t.Category()} {
		if cls, ok := chroma.StandardTypes[candidate]; ok {
			return cls
		}
	}
	return ""
}

func plainTokens(code string) []Token {
	return []Token{{Text: code}}
}

func joinTokens(tokens []Token) string {
	var sb strings.Builder
	for _, tok := range tokens {
		sb.WriteString(tok.Text)
	}
	return sb.String()
}

// highlightBlock returns a copy of a code block whose children are code
// tokens. Blocks that are already tokenized are returned unchanged.
func highlightBlock(h Highlighter, block *Node) *Node {
	for _, child := range block.Children {
		if child.Kind == KindCodeToken {
			return block
		}
	}

	code := block.PlainText()
	out := block.shallowClone()
	out.Children = nil
	for _, tok := range h.Highlight(block.Attr("language"), code) {
		n := &Node{Kind: KindCodeToken, Text: tok.Text}
		if tok.Class != "" {
			n.setAttr("token", tok.Class)
		}
		out.Children = append(out.Children, n)
	}
	return out
}

// WriteStyleCSS writes the stylesheet for highlighted code in the named
// chroma style.
func WriteStyleCSS(w io.Writer, styleName string) error {
	style, ok := styles.Registry[strings.ToLower(styleName)]
	if !ok {
		return fmt.Errorf("unknown highlight style %q", styleName)
	}
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(w, style); err != nil {
		return fmt.Errorf("failed to write highlight stylesheet: %w", err)
	}
	return nil
}

// StyleNames lists the available highlight styles.
func StyleNames() []string {
	return styles.Names()
}
