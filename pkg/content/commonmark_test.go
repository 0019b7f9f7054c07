package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommonMark_MatchesNative(t *testing.T) {
	inputs := []string{
		"# Hello\n\nSome **bold** text.\n\n- one\n- two",
		"## Links\n\nA [link](/x) and `code`.",
		"> quoted",
		"```go\nx := 1\n```",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			assert.Equal(t, Parse(input), ParseCommonMark(input))
		})
	}
}

func TestParseCommonMark_Table(t *testing.T) {
	got := ParseCommonMark("| a | b |\n|:--|--:|\n| 1 | ~~2~~ |")

	want := doc(el(KindTable,
		el(KindTableRow,
			withAttrs(el(KindTableCell, txt("a")), "header", "true", "align", "left"),
			withAttrs(el(KindTableCell, txt("b")), "header", "true", "align", "right"),
		),
		el(KindTableRow,
			withAttrs(el(KindTableCell, txt("1")), "align", "left"),
			withAttrs(el(KindTableCell, el(KindStrikethrough, txt("2"))), "align", "right"),
		),
	))
	assert.Equal(t, want, got)
}

func TestParseCommonMark_DropsRawHTML(t *testing.T) {
	p := NewPipeline(nil, WithDialect(DialectCommonMark))

	result := p.Parse("<div>raw</div>\n\ntext <b>inline</b>")

	require.Len(t, result.Root.Children, 1)
	assert.Equal(t, el(KindParagraph, txt("text inline")), result.Root.Children[0])
	require.Len(t, result.Warnings, 1)
}

func TestParseCommonMark_OrderedStart(t *testing.T) {
	got := ParseCommonMark("5. five\n6. six")

	require.Len(t, got.Children, 1)
	list := got.Children[0]
	assert.Equal(t, KindOrderedList, list.Kind)
	assert.Equal(t, "5", list.Attr("start"))
	assert.Len(t, list.Children, 2)
}

func TestParseCommonMark_Empty(t *testing.T) {
	assert.Equal(t, doc(), ParseCommonMark(""))
}

func TestParseDialect(t *testing.T) {
	tests := []struct {
		input   string
		want    Dialect
		wantErr bool
	}{
		{"", DialectNative, false},
		{"native", DialectNative, false},
		{"CommonMark", DialectCommonMark, false},
		{"asciidoc", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDialect(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPipeline_CommonMarkDialect(t *testing.T) {
	p := NewPipeline(nil, WithDialect(DialectCommonMark))
	assert.Equal(t, DialectCommonMark, p.Dialect())

	rendered, err := p.ParseAndRender("Setext Title\n============\n\n1) one")
	require.NoError(t, err)

	require.Len(t, rendered.Root.Children, 2)
	assert.Equal(t, KindHeading, rendered.Root.Children[0].Kind)
	assert.Equal(t, "setext-title", rendered.Root.Children[0].Attr("id"))
	assert.Equal(t, KindOrderedList, rendered.Root.Children[1].Kind)
}
