package normalize

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/dshills/docstorm/internal/engine/dom"
	"github.com/dshills/docstorm/internal/engine/schema"
)

// ZeroWidthSpace is the caret placeholder editors put into otherwise empty
// text. Text consisting only of it counts as empty.
const ZeroWidthSpace = "\u200B"

// PruneEmpty removes empty text nodes and structurally empty elements
// below el, innermost first. A text node is empty when it holds nothing
// but zero width spaces. An element is structurally empty when it has no
// children, its tag is not content_empty and none of its attributes is a
// content attribute. keep and its ancestors are never removed; a nil keep
// or one outside el protects nothing. Elements that are not Editable are
// neither removed nor descended into.
//
// If el itself is left without children and the table names a
// placeholder, one placeholder element is inserted into it.
func PruneEmpty(el *dom.Node, keep *dom.Node, table *schema.Table) error {
	if err := table.Require(schema.ContentEmpty, schema.ContentAttributes); err != nil {
		return err
	}
	if el == nil || !el.IsElement() {
		return nil
	}

	protected := make(map[*dom.Node]struct{})
	if keep != nil && el.Contains(keep) {
		for n := keep; n != nil && n != el; n = n.Parent() {
			protected[n] = struct{}{}
		}
	}

	p := pruner{table: table, protected: protected}
	p.prune(el)

	if el.ChildCount() == 0 && !table.IsContentEmpty(el.Tag) {
		if tag, ok := table.Placeholder(); ok {
			if err := el.AppendChild(dom.NewElement(tag, nil)); err != nil {
				return errors.NewAssertionErrorWithWrappedErrf(err, "placeholder")
			}
		}
	}
	return nil
}

type pruner struct {
	table     *schema.Table
	protected map[*dom.Node]struct{}
}

func (p *pruner) prune(n *dom.Node) {
	for i := n.ChildCount() - 1; i >= 0; i-- {
		c := n.Child(i)
		if c.IsElement() {
			if !Editable(c) {
				continue
			}
			p.prune(c)
		}
		if _, ok := p.protected[c]; ok {
			continue
		}
		if p.empty(c) {
			c.Remove()
		}
	}
}

func (p *pruner) empty(n *dom.Node) bool {
	if n.IsText() {
		return strings.Trim(n.Text, ZeroWidthSpace) == ""
	}
	if n.ChildCount() > 0 || p.table.IsContentEmpty(n.Tag) {
		return false
	}
	for _, a := range n.Attrs {
		if p.table.IsContentAttribute(a.Key) {
			return false
		}
	}
	return true
}
