package markup

import (
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dshills/docstorm/internal/engine/dom"
)

// bodyContext is the context element fragments are parsed in.
var bodyContext = &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}

// Parse parses an HTML fragment as if it were the content of <body>.
// Comments and doctypes are dropped.
func Parse(src string) ([]*dom.Node, error) {
	parsed, err := html.ParseFragment(strings.NewReader(src), bodyContext)
	if err != nil {
		return nil, errors.Wrap(err, "parsing markup")
	}
	out := make([]*dom.Node, 0, len(parsed))
	for _, n := range parsed {
		if d := fromHTML(n); d != nil {
			out = append(out, d)
		}
	}
	return out, nil
}

// ParseInto replaces the children of root with the parsed fragment.
func ParseInto(root *dom.Node, src string) error {
	nodes, err := Parse(src)
	if err != nil {
		return err
	}
	root.TakeChildren()
	for _, n := range nodes {
		if err := root.AppendChild(n); err != nil {
			return err
		}
	}
	return nil
}

func fromHTML(n *html.Node) *dom.Node {
	switch n.Type {
	case html.TextNode:
		return dom.NewText(n.Data)
	case html.ElementNode:
		var attrs []dom.Attr
		for _, a := range n.Attr {
			key := a.Key
			if a.Namespace != "" {
				key = a.Namespace + ":" + a.Key
			}
			attrs = append(attrs, dom.Attr{Key: key, Val: a.Val})
		}
		el := dom.NewElement(n.Data, attrs)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if d := fromHTML(c); d != nil {
				_ = el.AppendChild(d)
			}
		}
		return el
	default:
		return nil
	}
}
