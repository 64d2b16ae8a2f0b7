package schema

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfiguresEverySection(t *testing.T) {
	tbl := Default()
	for _, s := range []Section{Boundary, ContentEmpty, NoMerge, Inline, Significant, ContentAttributes, CollapseAllow} {
		require.True(t, tbl.Configured(s), "section %s", s)
	}
	require.NoError(t, tbl.Require(Boundary, NoMerge))

	require.True(t, tbl.IsBoundary("TD"))
	// Every no_merge container is a boundary, so split rows never need merging.
	for _, tag := range tbl.Names(NoMerge) {
		require.True(t, tbl.IsBoundary(tag), tag)
	}
	require.False(t, tbl.IsBoundary("p"))
	require.True(t, tbl.IsContentEmpty("img"))
	require.True(t, tbl.IsNoMerge("li"))
	require.True(t, tbl.IsInline("span"))
	require.False(t, tbl.IsInline("div"))
	require.True(t, tbl.IsSignificant("anything"), "wildcard")
	require.True(t, tbl.IsContentAttribute("src"))

	ph, ok := tbl.Placeholder()
	require.True(t, ok)
	require.Equal(t, "br", ph)
}

func TestUnconfiguredSection(t *testing.T) {
	tbl := New(WithTags(Boundary))
	require.True(t, tbl.Configured(Boundary))
	require.False(t, tbl.IsBoundary("td"))
	require.NoError(t, tbl.Require(Boundary))

	err := tbl.Require(Boundary, NoMerge)
	require.True(t, errors.Is(err, ErrConfiguration))
	require.Contains(t, err.Error(), "no_merge")

	_, ok := tbl.Placeholder()
	require.False(t, ok)
}

func TestNilTable(t *testing.T) {
	var tbl *Table
	require.False(t, tbl.Configured(Boundary))
	require.False(t, tbl.IsBoundary("td"))
	require.True(t, errors.Is(tbl.Require(), ErrConfiguration))
	require.Empty(t, tbl.Names(Inline))
	require.Equal(t, "", tbl.CollapseScript())
}

func TestLoad(t *testing.T) {
	tbl, err := Load("testdata/html.toml")
	require.NoError(t, err)

	require.Equal(t, []string{"class", "id", "style"}, tbl.Names(Significant))
	require.False(t, tbl.IsSignificant("title"))
	require.True(t, tbl.IsBoundary("figure"))
	require.Contains(t, tbl.CollapseScript(), "function qualifies")
}

func TestParsePartial(t *testing.T) {
	tbl, err := Parse([]byte(`
[tags]
boundary = []
no_merge = ["li"]
`))
	require.NoError(t, err)
	require.True(t, tbl.Configured(Boundary))
	require.True(t, tbl.Configured(NoMerge))
	require.False(t, tbl.Configured(Inline))
	require.False(t, tbl.Configured(ContentEmpty))
	require.True(t, errors.Is(tbl.Require(ContentEmpty), ErrConfiguration))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", "[tags\nboundary = 1"},
		{"wrong type", "[tags]\nboundary = \"td\""},
		{"unknown key", "[tags]\nblock = [\"p\"]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			require.Error(t, err)

			var perr *ParseError
			require.True(t, errors.As(err, &perr), "got %T", err)
			require.Equal(t, "<data>", perr.Path)
			require.NotEmpty(t, perr.Message)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("testdata/does-not-exist.toml")
	require.Error(t, err)
}
