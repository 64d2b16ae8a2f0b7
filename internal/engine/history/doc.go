// Package history provides snapshot based undo/redo for the editing core.
//
// Structural edits replace nodes wholesale (a split discards the original
// element, a merge removes the right sibling), so history never keeps node
// references. Each Entry holds an encoded copy of the root's children and
// the selection as paths.
//
// # Recording
//
// A History is either Idle or Recording:
//
//	h := history.New(history.WithMaxEntries(100))
//
//	h.Begin(doc, "Bold")   // Idle -> Recording, pre-edit snapshot
//	// ... split, merge, insert ...
//	h.Commit(doc)          // Recording -> Idle, entry pushed if changed
//
// Begin while Recording is a no-op, so nested commands coalesce into one
// entry. Cancel drops the pending entry and leaves the tree as it is;
// Rollback restores the tree first.
//
// # Undo and Redo
//
// Undo pushes the live state onto the redo stack, restores the previous
// snapshot and returns its selection resolved against the restored tree:
//
//	sel, ok, err := h.Undo(doc)
//	if ok {
//	    surface.SetSelection(sel)
//	}
//
// A committed edit clears the redo stack. A stored selection that no
// longer resolves falls back to the start of the document, so the editor
// always has a valid cursor.
//
// # Grouping
//
// Transaction and Scope wrap Begin/Commit for callers that prefer a
// closure or defer.
package history
