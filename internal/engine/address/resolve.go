package address

import (
	"github.com/cockroachdb/errors"

	"github.com/dshills/docstorm/internal/engine/dom"
)

// Of computes the position of (node, offset) relative to root.
// The offset must be valid for node: 0..rune length for text nodes and
// 0..child count for elements.
func Of(root, node *dom.Node, offset int) (Position, error) {
	if root == nil || node == nil {
		return Position{}, errors.Wrap(ErrAddress, "nil node")
	}
	if offset < 0 || offset > node.Len() {
		return Position{}, errors.Wrapf(ErrAddress, "offset %d outside [0, %d]", offset, node.Len())
	}

	var rev Path
	cur := node
	for cur != root {
		if cur.Parent() == nil {
			return Position{}, errors.Wrap(ErrAddress, "node is not inside the root")
		}
		rev = append(rev, cur.Index())
		cur = cur.Parent()
	}

	p := make(Path, len(rev))
	for i, v := range rev {
		p[len(rev)-1-i] = v
	}
	return Position{Path: p, Offset: offset}, nil
}

// PathOf returns the path of node relative to root.
func PathOf(root, node *dom.Node) (Path, error) {
	pos, err := Of(root, node, 0)
	if err != nil {
		return nil, err
	}
	return pos.Path, nil
}

// Resolve walks pos from root and returns the addressed node and offset.
func Resolve(root *dom.Node, pos Position) (*dom.Node, int, error) {
	n, err := ResolvePath(root, pos.Path)
	if err != nil {
		return nil, 0, err
	}
	if pos.Offset < 0 || pos.Offset > n.Len() {
		return nil, 0, errors.Wrapf(ErrAddress,
			"offset %d outside [0, %d] at %s", pos.Offset, n.Len(), pos.Path)
	}
	return n, pos.Offset, nil
}

// ResolvePath walks p from root and returns the addressed node.
func ResolvePath(root *dom.Node, p Path) (*dom.Node, error) {
	if root == nil {
		return nil, errors.Wrap(ErrAddress, "nil root")
	}
	cur := root
	for depth, idx := range p {
		if cur.IsText() {
			return nil, errors.Wrapf(ErrAddress, "depth %d: cannot descend into a text node", depth)
		}
		if idx < 0 || idx >= cur.ChildCount() {
			return nil, errors.Wrapf(ErrAddress,
				"depth %d: index %d outside [0, %d)", depth, idx, cur.ChildCount())
		}
		cur = cur.Child(idx)
	}
	return cur, nil
}
