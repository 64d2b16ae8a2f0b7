package normalize

import (
	"strings"

	"github.com/dshills/docstorm/internal/engine/address"
	"github.com/dshills/docstorm/internal/engine/dom"
	"github.com/dshills/docstorm/internal/engine/schema"
)

// MergeSiblings merges adjacent mergeable children of el and of every
// element below it.
//
// Two text nodes concatenate. Two elements merge when they share a tag and
// SameAttributes holds; the right one's children move to the end of the
// left one. Tags in the no_merge and content_empty sections never merge but
// are still descended into. Each child list is scanned once left to right,
// and a merged node is not compared again with its new right neighbor in
// the same call.
//
// positions are relative to el and are rewritten in place to address the
// same content after the merge. The returned slice holds, in input order,
// the change applied to each position's Offset.
func MergeSiblings(el *dom.Node, positions []address.Position, table *schema.Table) ([]int, error) {
	deltas, _, err := mergeSiblings(el, positions, table, false)
	return deltas, err
}

// MergeText joins adjacent text nodes below el until none are left, and
// leaves every element pair alone. Elements marked contenteditable="false"
// are not descended into. positions and the returned deltas behave as in
// MergeSiblings. table is not consulted.
func MergeText(el *dom.Node, positions []address.Position, table *schema.Table) ([]int, error) {
	return mergeAll(el, positions, table, true)
}

// MergeSiblingsAll repeats MergeSiblings until nothing merges, so runs of
// any length collapse into one node.
func MergeSiblingsAll(el *dom.Node, positions []address.Position, table *schema.Table) ([]int, error) {
	return mergeAll(el, positions, table, false)
}

func mergeAll(el *dom.Node, positions []address.Position, table *schema.Table, textOnly bool) ([]int, error) {
	total := make([]int, len(positions))
	for {
		deltas, merged, err := mergeSiblings(el, positions, table, textOnly)
		if err != nil {
			return nil, err
		}
		for i, d := range deltas {
			total[i] += d
		}
		if merged == 0 {
			return total, nil
		}
	}
}

func mergeSiblings(el *dom.Node, positions []address.Position, table *schema.Table, textOnly bool) ([]int, int, error) {
	if !textOnly {
		if err := table.Require(schema.NoMerge, schema.ContentEmpty); err != nil {
			return nil, 0, err
		}
	}
	before := make([]int, len(positions))
	for i := range positions {
		before[i] = positions[i].Offset
	}

	m := &merger{table: table, positions: positions, textOnly: textOnly}
	if el != nil && el.IsElement() {
		m.merge(el, address.Path{})
	}

	deltas := make([]int, len(positions))
	for i := range positions {
		deltas[i] = positions[i].Offset - before[i]
	}
	return deltas, m.merged, nil
}

type merger struct {
	table     *schema.Table
	positions []address.Position
	textOnly  bool
	merged    int
}

func (m *merger) mergeable(l, r *dom.Node) bool {
	if l.IsText() && r.IsText() {
		return true
	}
	if m.textOnly || !l.IsElement() || !r.IsElement() || l.Tag != r.Tag {
		return false
	}
	if m.table.IsNoMerge(l.Tag) || m.table.IsContentEmpty(l.Tag) {
		return false
	}
	return dom.SameAttributes(l, r)
}

// merge runs one pass over the children of parent, found at path p below
// el, then descends into every element child.
func (m *merger) merge(parent *dom.Node, p address.Path) {
	for i := 0; i+1 < parent.ChildCount(); i++ {
		l, r := parent.Child(i), parent.Child(i+1)
		if !m.mergeable(l, r) {
			continue
		}
		m.adjust(p, i, l.Len())
		if l.IsText() {
			l.Text += r.Text
		} else {
			for _, c := range r.TakeChildren() {
				// l is an element and c was just detached.
				_ = l.AppendChild(c)
			}
		}
		r.Remove()
		m.merged++
	}

	for i, c := range parent.Children() {
		if !c.IsElement() || (m.textOnly && !Editable(c)) {
			continue
		}
		m.merge(c, p.Child(i))
	}
}

// adjust rewrites the tracked positions for merging child i+1 of the node
// at p into child i, which currently has length n.
func (m *merger) adjust(p address.Path, i, n int) {
	d := len(p)
	for k := range m.positions {
		pos := &m.positions[k]
		if !pos.Path.HasPrefix(p) {
			continue
		}

		if len(pos.Path) == d {
			// Child boundary in the parent.
			switch {
			case pos.Offset >= i+2:
				pos.Offset--
			case pos.Offset == i+1:
				pos.Path = p.Child(i)
				pos.Offset = n
			}
			continue
		}

		switch idx := pos.Path[d]; {
		case idx > i+1:
			pos.Path = pos.Path.Clone()
			pos.Path[d]--
		case idx == i+1:
			pos.Path = pos.Path.Clone()
			pos.Path[d] = i
			if len(pos.Path) == d+1 {
				pos.Offset += n
			} else {
				pos.Path[d+1] += n
			}
		}
	}
}

// Editable reports whether n may be changed by normalization. An element
// with contenteditable="false" is left as is together with its subtree.
func Editable(n *dom.Node) bool {
	v, ok := n.GetAttr("contenteditable")
	return !ok || !strings.EqualFold(strings.TrimSpace(v), "false")
}
