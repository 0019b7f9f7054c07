package content

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeHighlighter splits code at spaces and labels words "w".
type fakeHighlighter struct{}

func (fakeHighlighter) Highlight(_, code string) []Token {
	var tokens []Token
	for i, word := range strings.Split(code, " ") {
		if i > 0 {
			tokens = append(tokens, Token{Text: " "})
		}
		if word != "" {
			tokens = append(tokens, Token{Class: "w", Text: word})
		}
	}
	return tokens
}

func deepCopy(t *testing.T, n *Node) *Node {
	t.Helper()
	data, err := json.Marshal(n)
	require.NoError(t, err)
	out, err := DecodeJSON(data)
	require.NoError(t, err)
	return out
}

func TestRender_HeadingScenario(t *testing.T) {
	p := NewPipeline(nil)

	rendered, err := p.ParseAndRender("# Hello, World!\n\nSome **bold** text.")
	require.NoError(t, err)

	root := rendered.Root
	require.Len(t, root.Children, 2)

	h := root.Children[0]
	assert.Equal(t, KindHeading, h.Kind)
	assert.Equal(t, 1, h.Level)
	assert.Equal(t, "hello-world", h.Attr("id"))
	assert.Equal(t, "prose-heading", h.Attr("class"))

	para := root.Children[1]
	assert.Equal(t, "prose-paragraph", para.Attr("class"))
	require.Len(t, para.Children, 3)
	assert.Equal(t, KindStrong, para.Children[1].Kind)
	assert.Equal(t, "prose-strong", para.Children[1].Attr("class"))
	assert.Equal(t, "prose", root.Attr("class"))
}

func TestRender_ScriptScenario(t *testing.T) {
	p := NewPipeline(nil)

	tree := doc(
		el(KindParagraph,
			txt("Hello "),
			el(KindScript, txt("alert(1)")),
			withAttrs(el(KindLink, txt("click")), "href", "/x", "onclick", "steal()", "style", "color:red"),
		),
		el(KindStyle, txt("body{}")),
		withAttrs(&Node{Kind: KindEmbed}, "src", "https://evil.example"),
	)

	rendered, err := p.Render(tree)
	require.NoError(t, err)

	Walk(rendered.Root, func(n *Node) bool {
		assert.False(t, p.Policy().Forbids(n.Kind), "forbidden kind %s survived", n.Kind)
		for key := range n.Attrs {
			assert.True(t, p.Policy().AllowsAttr(n.Kind, key), "attribute %s on %s survived", key, n.Kind)
		}
		return true
	})

	require.Len(t, rendered.Root.Children, 1)
	para := rendered.Root.Children[0]
	require.Len(t, para.Children, 2)
	link := para.Children[1]
	assert.Equal(t, "/x", link.Attr("href"))
	assert.False(t, link.HasAttr("onclick"))
	assert.False(t, link.HasAttr("style"))

	out, err := rendered.HTML()
	require.NoError(t, err)
	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "alert(1)")
	assert.NotContains(t, out, "onclick")
}

func TestRender_MarkupScriptIsText(t *testing.T) {
	p := NewPipeline(nil)

	rendered, err := p.ParseAndRender("<script>alert(1)</script>")
	require.NoError(t, err)

	out, err := rendered.HTML()
	require.NoError(t, err)
	assert.NotContains(t, out, "<script")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestRender_CodeHighlighting(t *testing.T) {
	p := NewPipeline(nil, WithHighlighter(fakeHighlighter{}))

	rendered, err := p.ParseAndRender("```go\nx := 1\n```")
	require.NoError(t, err)

	require.Len(t, rendered.Root.Children, 1)
	block := rendered.Root.Children[0]
	assert.Equal(t, KindCodeBlock, block.Kind)
	assert.Equal(t, "go", block.Attr("language"))
	assert.Equal(t, "prose-pre chroma", block.Attr("class"))

	var texts []string
	for _, tok := range block.Children {
		assert.Equal(t, KindCodeToken, tok.Kind)
		assert.Equal(t, "tok", tok.Attr("class"))
		texts = append(texts, tok.Text)
	}
	assert.Equal(t, "x := 1", strings.Join(texts, ""))
	assert.Equal(t, "w", block.Children[0].Attr("token"))
	assert.Equal(t, "x := 1", block.PlainText())
}

func TestRender_UnknownLanguageIsPlain(t *testing.T) {
	p := NewPipeline(nil)

	rendered, err := p.ParseAndRender("```no-such-language\nsome text\n```")
	require.NoError(t, err)

	block := rendered.Root.Children[0]
	require.Len(t, block.Children, 1)
	assert.Equal(t, KindCodeToken, block.Children[0].Kind)
	assert.Equal(t, "some text", block.Children[0].Text)
	assert.False(t, block.Children[0].HasAttr("token"))
}

func TestRender_ChromaTokensCoverSource(t *testing.T) {
	p := NewPipeline(nil)
	source := "package main\n\nfunc main() {\n\tprintln(\"hi\")\n}"

	rendered, err := p.ParseAndRender("```go\n" + source + "\n```")
	require.NoError(t, err)

	block := rendered.Root.Children[0]
	assert.Equal(t, source, block.PlainText())
	assert.Greater(t, len(block.Children), 1)
}

func TestRender_TableScenario(t *testing.T) {
	p := NewPipeline(nil)

	rendered, err := p.ParseAndRender("| a | b |\n|---|---|\n| 1 | 2 |")
	require.NoError(t, err)

	require.Len(t, rendered.Root.Children, 1)
	wrapper := rendered.Root.Children[0]
	assert.Equal(t, KindContainer, wrapper.Kind)
	assert.Equal(t, TableScrollClass, wrapper.Attr("class"))
	require.Len(t, wrapper.Children, 1)
	assert.Equal(t, KindTable, wrapper.Children[0].Kind)

	again, err := p.Render(rendered.Root)
	require.NoError(t, err)
	require.Len(t, again.Root.Children, 1)
	assert.Equal(t, KindContainer, again.Root.Children[0].Kind)
	assert.Equal(t, KindTable, again.Root.Children[0].Children[0].Kind)
}

func TestRender_TableInsideBlockquoteIsWrapped(t *testing.T) {
	p := NewPipeline(nil)

	rendered, err := p.ParseAndRender("> | a |\n> |---|\n> | 1 |")
	require.NoError(t, err)

	quote := rendered.Root.Children[0]
	require.Len(t, quote.Children, 1)
	assert.Equal(t, KindContainer, quote.Children[0].Kind)
}

func TestRender_LinkHardening(t *testing.T) {
	tests := []struct {
		name       string
		link       *Node
		wantTarget string
		wantRel    string
	}{
		{
			name:       "external https",
			link:       withAttrs(el(KindLink, txt("x")), "href", "https://example.com"),
			wantTarget: "_blank",
			wantRel:    "noopener noreferrer",
		},
		{
			name:       "external http uppercase",
			link:       withAttrs(el(KindLink, txt("x")), "href", "HTTP://example.com"),
			wantTarget: "_blank",
			wantRel:    "noopener noreferrer",
		},
		{
			name: "relative",
			link: withAttrs(el(KindLink, txt("x")), "href", "/about"),
		},
		{
			name: "mailto",
			link: withAttrs(el(KindLink, txt("x")), "href", "mailto:me@example.com"),
		},
		{
			name:       "existing target kept",
			link:       withAttrs(el(KindLink, txt("x")), "href", "https://example.com", "target", "_self"),
			wantTarget: "_self",
		},
		{
			name:    "existing rel kept",
			link:    withAttrs(el(KindLink, txt("x")), "href", "https://example.com", "rel", "me"),
			wantRel: "me",
		},
	}

	p := NewPipeline(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rendered, err := p.Render(doc(el(KindParagraph, tt.link)))
			require.NoError(t, err)

			link := rendered.Root.Children[0].Children[0]
			assert.Equal(t, tt.wantTarget, link.Attr("target"))
			assert.Equal(t, tt.wantRel, link.Attr("rel"))
		})
	}
}

func TestRender_Idempotent(t *testing.T) {
	p := NewPipeline(nil)
	inputs := []string{
		"# Title\n\nSome *text* with [a link](https://example.com).",
		"```go\nfunc f() {}\n```",
		"| h |\n|---|\n| v |",
		"> quote\n\n- a\n- b\n\n1. c\n\n---\n\n![img](/x.png)",
		"",
	}

	for _, input := range inputs {
		once, err := p.ParseAndRender(input)
		require.NoError(t, err)
		twice, err := p.Render(once.Root)
		require.NoError(t, err)
		assert.Equal(t, once.Root, twice.Root, input)
	}
}

func TestRender_DoesNotMutateInput(t *testing.T) {
	p := NewPipeline(nil)
	tree := Parse("# Title\n\n| a |\n|---|\n| b |\n\n[x](https://example.com)\n\n```go\nx\n```")
	before := deepCopy(t, tree)

	_, err := p.Render(tree)
	require.NoError(t, err)
	assert.Equal(t, before, tree)
}

func TestRender_InvalidKind(t *testing.T) {
	p := NewPipeline(nil)

	_, err := p.Render(doc(el(KindParagraph, &Node{Kind: Kind(999)})))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidKind)

	_, err = p.Render(nil)
	assert.ErrorIs(t, err, ErrInvalidKind)

	_, err = p.Render(doc(nil))
	assert.ErrorIs(t, err, ErrInvalidKind)
}

func TestRender_WrapsNonDocumentRoot(t *testing.T) {
	p := NewPipeline(nil)

	rendered, err := p.Render(el(KindParagraph, txt("x")))
	require.NoError(t, err)
	assert.Equal(t, KindDocument, rendered.Root.Kind)
	require.Len(t, rendered.Root.Children, 1)
	assert.Equal(t, KindParagraph, rendered.Root.Children[0].Kind)
}

func TestRender_ClassOnEveryElement(t *testing.T) {
	p := NewPipeline(nil)

	rendered, err := p.ParseAndRender("# H\n\n> q\n\n- **a** *b* ~~c~~ __d__ `e` [f](/g) ![h](/i)\n\n1. j\n\n---\n\n| k |\n|---|\n| l |\n\nm\nn\n\n```\ncode\n```")
	require.NoError(t, err)

	Walk(rendered.Root, func(n *Node) bool {
		if n.Kind == KindText {
			return true
		}
		assert.Equal(t, PresentationClass(n.Kind), n.Attr("class"), n.Kind.String())
		return true
	})
}

func TestPresentationClasses_CoverKinds(t *testing.T) {
	policy := DefaultPolicy()
	for _, k := range Kinds() {
		if k == KindText || policy.Forbids(k) {
			assert.Empty(t, PresentationClass(k), k.String())
			continue
		}
		assert.NotEmpty(t, PresentationClass(k), k.String())
	}
}

func TestDocument_HTML(t *testing.T) {
	p := NewPipeline(nil, WithHighlighter(fakeHighlighter{}))

	rendered, err := p.ParseAndRender("# Hello\n\nSee [site](https://example.com) and [bad](javascript:alert(1)).\n\n```go\nx y\n```\n\n| a |\n|---|\n| b |")
	require.NoError(t, err)

	out, err := rendered.HTML()
	require.NoError(t, err)

	assert.Contains(t, out, `id="hello"`)
	assert.Contains(t, out, `href="https://example.com"`)
	assert.Contains(t, out, "noopener")
	assert.NotContains(t, out, "javascript:")
	assert.Contains(t, out, "<pre")
	assert.Contains(t, out, `<span class="tok w">x</span>`)
	assert.Contains(t, out, "<th")
	assert.Contains(t, out, TableScrollClass)
}

func TestDocument_JSON(t *testing.T) {
	p := NewPipeline(nil)

	rendered, err := p.ParseAndRender("## Sub")
	require.NoError(t, err)

	data, err := json.Marshal(rendered)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"kind":"heading"`)
	assert.Contains(t, string(data), `"level":2`)

	decoded, err := DecodeJSON(data)
	require.NoError(t, err)
	assert.Equal(t, rendered.Root, decoded)
}

func TestDecodeJSON_UnknownKind(t *testing.T) {
	_, err := DecodeJSON([]byte(`{"kind":"marquee"}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidKind)
}

func TestPipeline_NilHighlighterKeepsChroma(t *testing.T) {
	p := NewPipeline(nil, WithHighlighter(nil))

	rendered, err := p.ParseAndRender("```go\npackage main\n```")
	require.NoError(t, err)

	block := rendered.Root.Children[0]
	assert.Equal(t, "package main", block.PlainText())
	assert.Greater(t, len(block.Children), 1)
}

func TestPipeline_ConcurrentUse(t *testing.T) {
	p := NewPipeline(nil)
	markup := "# Title\n\nSome **bold** [link](https://example.com).\n\n```go\nx := 1\n```\n\n| a | b |\n|---|---|\n| 1 | 2 |"

	first, err := p.ParseAndRender(markup)
	require.NoError(t, err)
	wantHTML, err := first.HTML()
	require.NoError(t, err)
	wantMarkup, err := p.ToMarkup(first)
	require.NoError(t, err)

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				rendered, err := p.ParseAndRender(markup)
				if err != nil {
					errs <- err
					return
				}
				out, err := rendered.HTML()
				if err != nil {
					errs <- err
					return
				}
				back, err := p.ToMarkup(rendered)
				if err != nil {
					errs <- err
					return
				}
				assert.Equal(t, wantHTML, out)
				assert.Equal(t, wantMarkup, back)
			}
		}()
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
}
