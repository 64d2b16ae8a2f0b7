package markup

import (
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dshills/docstorm/internal/engine/dom"
)

// Render writes nodes as HTML. Void elements get no end tag; a void
// element with children is an error.
func Render(w io.Writer, nodes ...*dom.Node) error {
	for _, n := range nodes {
		if err := html.Render(w, toHTML(n)); err != nil {
			return errors.Wrapf(err, "rendering <%s>", n.Tag)
		}
	}
	return nil
}

// String renders nodes to a string.
func String(nodes ...*dom.Node) (string, error) {
	var sb strings.Builder
	if err := Render(&sb, nodes...); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Inner renders the children of el.
func Inner(el *dom.Node) (string, error) {
	return String(el.Children()...)
}

func toHTML(n *dom.Node) *html.Node {
	if n.IsText() {
		return &html.Node{Type: html.TextNode, Data: n.Text}
	}
	h := &html.Node{
		Type:     html.ElementNode,
		Data:     n.Tag,
		DataAtom: atom.Lookup([]byte(n.Tag)),
	}
	for _, a := range n.Attrs {
		h.Attr = append(h.Attr, html.Attribute{Key: a.Key, Val: a.Val})
	}
	for _, c := range n.Children() {
		h.AppendChild(toHTML(c))
	}
	return h
}
