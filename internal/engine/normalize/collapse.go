package normalize

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/dshills/docstorm/internal/engine/dom"
	"github.com/dshills/docstorm/internal/engine/schema"
)

// Validator decides whether an element may be collapsed into its child.
// A nil Validator accepts every element.
type Validator func(n *dom.Node) bool

// AllowTags returns a Validator accepting only the given tags.
func AllowTags(tags ...string) Validator {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		set[strings.ToLower(t)] = struct{}{}
	}
	return func(n *dom.Node) bool {
		_, ok := set[n.Tag]
		return ok
	}
}

// AllowTable returns the Validator built from the table's collapse_allow
// section, or nil when that section is unconfigured.
func AllowTable(table *schema.Table) Validator {
	if !table.Configured(schema.CollapseAllow) {
		return nil
	}
	return AllowTags(table.Names(schema.CollapseAllow)...)
}

// CollapseNested removes redundant wrappers below el, innermost first. A
// descendant element collapses into its only child when that child is an
// element with the same tag, the wrapper has no significant attributes,
// and validate accepts it. el itself is never removed.
func CollapseNested(el *dom.Node, validate Validator, table *schema.Table) error {
	if err := table.Require(schema.Significant); err != nil {
		return err
	}
	if el == nil || !el.IsElement() {
		return nil
	}
	c := collapser{table: table, validate: validate}
	return c.collapseChildren(el)
}

type collapser struct {
	table    *schema.Table
	validate Validator
}

func (c *collapser) collapseChildren(n *dom.Node) error {
	for i := 0; i < n.ChildCount(); i++ {
		child := n.Child(i)
		if !child.IsElement() {
			continue
		}
		if err := c.collapseChildren(child); err != nil {
			return err
		}
		if c.qualifies(child) {
			// The replacement takes index i, which is already processed.
			if err := child.ReplaceWith(child.Child(0)); err != nil {
				return errors.NewAssertionErrorWithWrappedErrf(err, "collapsing <%s>", child.Tag)
			}
		}
	}
	return nil
}

func (c *collapser) qualifies(n *dom.Node) bool {
	if n.ChildCount() != 1 {
		return false
	}
	only := n.Child(0)
	if !only.IsElement() || only.Tag != n.Tag {
		return false
	}
	for _, a := range n.Attrs {
		if c.table.IsSignificant(a.Key) {
			return false
		}
	}
	return c.validate == nil || c.validate(n)
}
