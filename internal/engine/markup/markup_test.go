package markup

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"

	"github.com/dshills/docstorm/internal/engine/dom"
	"github.com/dshills/docstorm/internal/engine/schema"
)

func TestParse(t *testing.T) {
	nodes, err := Parse(`<p class="x">A<b>B</b></p><!-- dropped -->tail`)
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	p := nodes[0]
	require.Equal(t, "p", p.Tag)
	v, ok := p.GetAttr("class")
	require.True(t, ok)
	require.Equal(t, "x", v)
	require.Equal(t, 2, p.ChildCount())
	require.Equal(t, "tail", nodes[1].Text)
}

func TestParseInto(t *testing.T) {
	root := dom.NewElement("div", nil, dom.NewText("old"))
	require.NoError(t, ParseInto(root, "<p>AB</p>"))
	require.Equal(t, 1, root.ChildCount())
	require.Equal(t, "AB", root.TextContent())
}

func TestRenderRoundTrip(t *testing.T) {
	tests := []string{
		`<p>AB</p>`,
		`<div><span style="color:red">X</span><span style="color:red">Y</span></div>`,
		`<p>a<br/>b</p>`,
		`<img src="x.png"/>`,
		`<ul><li>one</li><li>two</li></ul>`,
		`text &amp; more`,
	}

	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			nodes, err := Parse(src)
			require.NoError(t, err)
			got, err := String(nodes...)
			require.NoError(t, err)
			require.Equal(t, src, got)
		})
	}
}

func TestRenderVoidWithChildren(t *testing.T) {
	br := dom.NewElement("br", nil, dom.NewText("x"))
	_, err := String(br)
	require.Error(t, err)
}

func TestInner(t *testing.T) {
	root := dom.NewElement("div", nil,
		dom.NewElement("p", nil, dom.NewText("A")),
		dom.NewText("B"),
	)
	got, err := Inner(root)
	require.NoError(t, err)
	require.Equal(t, "<p>A</p>B", got)
}

func TestStripWhitespace(t *testing.T) {
	tbl := schema.Default()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"between blocks", "<div>\n  <p>A</p>\n  <p>B</p>\n</div>", "<div><p>A</p><p>B</p></div>"},
		{"trims input", "  <p>A</p>  ", "<p>A</p>"},
		{"inline keeps space", "<p><b>A</b> <i>B</i></p>", "<p><b>A</b> <i>B</i></p>"},
		{"text kept", "<p>A B</p>", "<p>A B</p>"},
		{"space before text", "<p> A</p>", "<p> A</p>"},
		{"raw bytes kept", `<P CLASS="x">  <B>A</B></P>`, `<P CLASS="x"><B>A</B></P>`},
		{"self closing", "<p>A<br/>\n<b>B</b></p>", "<p>A<br/><b>B</b></p>"},
		{"comment", "<div>\n<!-- c -->\n</div>", "<div>\n<!-- c -->\n</div>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StripWhitespace(tt.in, tbl)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestStripWhitespaceNeedsInline(t *testing.T) {
	_, err := StripWhitespace("<p>A</p>", schema.New())
	require.True(t, errors.Is(err, schema.ErrConfiguration))
}

func TestCodec(t *testing.T) {
	root := dom.NewElement("div", nil,
		dom.NewElement("p", nil, dom.NewText("AB")),
	)
	var c Codec
	data, err := c.Encode(root)
	require.NoError(t, err)
	require.Equal(t, "<p>AB</p>", string(data))

	nodes, err := c.Decode(data)
	require.NoError(t, err)
	require.True(t, root.Equal(dom.NewElement("div", nil, nodes...)))
	require.Equal(t, "html", c.Name())
}
