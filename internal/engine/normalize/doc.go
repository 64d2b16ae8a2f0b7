// Package normalize removes redundant structure from a document tree.
//
// Three passes are provided, each independently callable and idempotent:
//
//   - MergeSiblings joins adjacent siblings that share a tag and attribute
//     set, and adjacent text nodes, while keeping caller positions valid.
//     MergeText joins only the text nodes.
//   - CollapseNested removes a wrapper whose only child is an element of
//     the same tag.
//   - PruneEmpty removes text and elements that carry no content.
//
// A command typically runs them in that order after a split and an
// insertion:
//
//	res, _ := split.Split(root, pos, 1, table)
//	// ... insert content at res.Seam ...
//	normalize.MergeSiblings(root, positions, table)
//	normalize.CollapseNested(root, nil, table)
//	normalize.PruneEmpty(root, res.Boundary, table)
//
// Every decision about tags is a lookup in a schema.Table; a table missing
// a needed section is rejected before the tree is touched.
package normalize
