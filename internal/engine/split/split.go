package split

import (
	"github.com/cockroachdb/errors"

	"github.com/dshills/docstorm/internal/engine/address"
	"github.com/dshills/docstorm/internal/engine/dom"
	"github.com/dshills/docstorm/internal/engine/schema"
)

// ErrSplit indicates the split position is not inside the subtree being split.
var ErrSplit = errors.New("split position not inside root")

// Result describes the outcome of a split.
type Result struct {
	// Boundary is the lowest right-side element created by the split.
	// When no element was split it is the existing element right after the
	// seam, or nil if the seam is not followed by an element.
	Boundary *dom.Node

	// Seam is the child-boundary position between the two halves in the
	// lowest unsplit ancestor, relative to root.
	Seam address.Position

	// Levels is the number of elements that were split.
	Levels int
}

// Split divides the ancestors of pos into left and right halves.
//
// A text split point first divides the text node at the rune offset; the
// split point then becomes the boundary between the two pieces. Each
// level replaces its element with two shallow copies, the left holding the
// children before the split point and the right holding the rest, and
// moves the split point up to the parent between them.
//
// Propagation stops after maxDepth levels (maxDepth <= 0 means no limit),
// at root, or at an element whose tag is a boundary in table. Content that
// follows the split ancestor in an unsplit parent stays after the right
// half. Empty halves are left in place for a later normalize pass.
func Split(root *dom.Node, pos address.Position, maxDepth int, table *schema.Table) (Result, error) {
	if err := table.Require(schema.Boundary); err != nil {
		return Result{}, err
	}
	if root == nil || !root.IsElement() {
		return Result{}, errors.Wrap(ErrSplit, "root must be an element")
	}

	node, off, err := address.Resolve(root, pos)
	if err != nil {
		return Result{}, errors.Mark(errors.Wrapf(err, "split at %s", pos), ErrSplit)
	}

	container, idx := node, off
	if node.IsText() {
		container, idx = splitText(node, off)
	}

	var res Result
	for container != root && !table.IsBoundary(container.Tag) {
		if maxDepth > 0 && res.Levels >= maxDepth {
			break
		}
		parent := container.Parent()
		at := container.Index()

		left, right := container.ShallowClone(), container.ShallowClone()
		kids := container.TakeChildren()
		for _, k := range kids[:idx] {
			if err := left.AppendChild(k); err != nil {
				return Result{}, errors.NewAssertionErrorWithWrappedErrf(err, "left half")
			}
		}
		for _, k := range kids[idx:] {
			if err := right.AppendChild(k); err != nil {
				return Result{}, errors.NewAssertionErrorWithWrappedErrf(err, "right half")
			}
		}
		if err := container.ReplaceWith(left, right); err != nil {
			return Result{}, errors.NewAssertionErrorWithWrappedErrf(err, "replace %s", container.Tag)
		}

		if res.Boundary == nil {
			res.Boundary = right
		}
		res.Levels++
		container, idx = parent, at+1
	}

	if res.Boundary == nil {
		if next := container.Child(idx); next != nil && next.IsElement() {
			res.Boundary = next
		}
	}

	seam, err := address.Of(root, container, idx)
	if err != nil {
		return Result{}, errors.NewAssertionErrorWithWrappedErrf(err, "seam")
	}
	res.Seam = seam
	return res, nil
}

// splitText divides t at rune offset off and returns the split point as a
// child boundary in t's parent.
func splitText(t *dom.Node, off int) (*dom.Node, int) {
	runes := []rune(t.Text)
	parent := t.Parent()
	at := t.Index()

	t.Text = string(runes[:off])
	// Parent is an element and the index is in range.
	_ = parent.InsertAt(at+1, dom.NewText(string(runes[off:])))
	return parent, at + 1
}
