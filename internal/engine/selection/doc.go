// Package selection provides anchor/focus selections for the editing core.
//
// Two representations exist:
//
//   - Range: anchor and focus as address.Position values. Ranges survive
//     tree mutation and are what history entries store.
//   - Live: anchor and focus as node references plus offsets, the form the
//     editing surface works with. A Live value must not be kept across a
//     mutation of the tree.
//
// Capture turns a Live selection into a Range; Range.Resolve goes back.
//
// Selection Model:
//
// The anchor is where the selection started and the focus is where it
// currently ends. Direction is significant: a backward selection (focus
// before anchor) is preserved by every method except Normalize.
//
//	r := selection.NewRange(
//	    address.Position{Path: address.Path{0, 0}, Offset: 4},
//	    address.Position{Path: address.Path{0, 0}, Offset: 1},
//	)
//	r.IsBackward() // true
//	r.Start()      // 0/0:1
//
// Thread Safety:
//
// Range is an immutable value type and safe for concurrent use.
package selection
