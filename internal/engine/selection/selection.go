package selection

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/dshills/docstorm/internal/engine/address"
	"github.com/dshills/docstorm/internal/engine/dom"
)

// Position is an alias for address.Position for convenience.
type Position = address.Position

// Range is a selection expressed as paths.
// Anchor is where the selection started; Focus is where it currently ends.
// When Anchor == Focus, the range is a collapsed caret.
// Range is a value type; methods never modify the receiver.
type Range struct {
	Anchor Position
	Focus  Position
}

// NewRange creates a range from anchor to focus.
func NewRange(anchor, focus Position) Range {
	return Range{Anchor: anchor.Clone(), Focus: focus.Clone()}
}

// Caret creates a collapsed range at pos.
func Caret(pos Position) Range {
	return Range{Anchor: pos.Clone(), Focus: pos.Clone()}
}

// Collapsed returns true if the range has no extent.
func (r Range) Collapsed() bool {
	return r.Anchor.Equal(r.Focus)
}

// IsForward returns true if focus is at or after anchor.
func (r Range) IsForward() bool {
	return address.ComparePositions(r.Anchor, r.Focus) != address.After
}

// IsBackward returns true if focus is before anchor.
func (r Range) IsBackward() bool {
	return !r.IsForward()
}

// Start returns the earlier end of the range.
func (r Range) Start() Position {
	if r.IsForward() {
		return r.Anchor
	}
	return r.Focus
}

// End returns the later end of the range.
func (r Range) End() Position {
	if r.IsForward() {
		return r.Focus
	}
	return r.Anchor
}

// Collapse collapses the range to a caret at the focus.
func (r Range) Collapse() Range {
	return Caret(r.Focus)
}

// CollapseToStart collapses the range to its start position.
func (r Range) CollapseToStart() Range {
	return Caret(r.Start())
}

// Flip returns a range with anchor and focus swapped.
func (r Range) Flip() Range {
	return Range{Anchor: r.Focus, Focus: r.Anchor}
}

// Normalize returns a forward range covering the same span.
func (r Range) Normalize() Range {
	if r.IsForward() {
		return r
	}
	return r.Flip()
}

// Clone returns a deep copy of the range.
func (r Range) Clone() Range {
	return NewRange(r.Anchor, r.Focus)
}

// Equals returns true if both ranges have the same anchor and focus.
func (r Range) Equals(other Range) bool {
	return r.Anchor.Equal(other.Anchor) && r.Focus.Equal(other.Focus)
}

// String returns a string representation of the range.
func (r Range) String() string {
	if r.Collapsed() {
		return fmt.Sprintf("Caret(%s)", r.Focus)
	}
	dir := "→"
	if r.IsBackward() {
		dir = "←"
	}
	return fmt.Sprintf("Range(%s%s%s)", r.Anchor, dir, r.Focus)
}

// Live is a node based selection as held by the live editing surface.
// It is only valid inside a single synchronous operation; store a Range
// when the selection must outlive a mutation.
type Live struct {
	AnchorNode   *dom.Node
	AnchorOffset int
	FocusNode    *dom.Node
	FocusOffset  int
}

// LiveCaret creates a collapsed live selection.
func LiveCaret(n *dom.Node, offset int) Live {
	return Live{AnchorNode: n, AnchorOffset: offset, FocusNode: n, FocusOffset: offset}
}

// Collapsed returns true if the live selection has no extent.
func (l Live) Collapsed() bool {
	return l.AnchorNode == l.FocusNode && l.AnchorOffset == l.FocusOffset
}

// Capture converts a live selection into paths relative to root.
func Capture(root *dom.Node, l Live) (Range, error) {
	anchor, err := address.Of(root, l.AnchorNode, l.AnchorOffset)
	if err != nil {
		return Range{}, errors.Wrap(err, "anchor")
	}
	focus, err := address.Of(root, l.FocusNode, l.FocusOffset)
	if err != nil {
		return Range{}, errors.Wrap(err, "focus")
	}
	return Range{Anchor: anchor, Focus: focus}, nil
}

// Resolve converts r back into a live selection against root.
func (r Range) Resolve(root *dom.Node) (Live, error) {
	an, ao, err := address.Resolve(root, r.Anchor)
	if err != nil {
		return Live{}, errors.Wrap(err, "anchor")
	}
	fn, fo, err := address.Resolve(root, r.Focus)
	if err != nil {
		return Live{}, errors.Wrap(err, "focus")
	}
	return Live{AnchorNode: an, AnchorOffset: ao, FocusNode: fn, FocusOffset: fo}, nil
}

// StartOfDocument returns a caret at the first leaf of root: offset 0 of
// the first text node, or of the first childless element on the way down.
func StartOfDocument(root *dom.Node) Live {
	n := root
	for n.IsElement() && n.ChildCount() > 0 {
		n = n.FirstChild()
	}
	return LiveCaret(n, 0)
}

// StartRange is StartOfDocument expressed as paths.
func StartRange(root *dom.Node) Range {
	p := address.Path{}
	n := root
	for n.IsElement() && n.ChildCount() > 0 {
		n = n.FirstChild()
		p = append(p, 0)
	}
	return Caret(Position{Path: p})
}
