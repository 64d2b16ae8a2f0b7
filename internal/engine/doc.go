// Package engine provides the structural editing core for Docstorm.
//
// The engine package serves as the facade over one document tree: path
// addressing, split, the merge/collapse/prune normalization passes and
// snapshot based undo/redo, configured by a tag-classification schema.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - dom: the owned node tree (elements and text)
//   - address: root relative paths and positions
//   - selection: path based and live selections
//   - schema: tag-classification table, loaded from TOML
//   - split: ancestor splitting at a position
//   - normalize: merge, collapse and prune passes
//   - markup: HTML parsing, rendering and whitespace stripping
//   - snapshot: subtree codecs for history entries
//   - history: undo/redo stacks of snapshots
//
// # Basic Usage
//
//	e, err := engine.New(
//	    engine.WithContent("<p>AB</p>"),
//	    engine.WithSurface(surface),
//	)
//	if err != nil {
//	    return err
//	}
//	defer e.Close()
//
//	err = e.Transaction("Split paragraph", func() error {
//	    _, err := e.Split(engine.Position{Path: engine.Path{0, 0}, Offset: 1}, 1)
//	    return err
//	})
//
//	e.Undo() // back to <p>AB</p>, surface selection restored
//
// # Node References
//
// Split and merge replace nodes, and undo rebuilds the whole tree, so a
// *dom.Node is only meaningful until the next mutating call. Convert with
// AddressOf before mutating and Resolve afterwards.
//
// # Thread Safety
//
// Editor methods are serialized by a mutex. Transaction holds it while the
// edit begins and ends but not while fn runs, so fn may call back into the
// Editor. Change callbacks registered with WithOnChange also run unlocked.
// Mutating nodes obtained from Root directly is the caller's
// responsibility.
package engine
