// Package dom provides the editable document tree used by the editing core.
//
// A tree is built from two kinds of Node:
//
//   - Element: a tag name, an ordered attribute list and ordered children
//   - Text: a run of characters, never with children
//
// Children are only reachable through methods. Every mutator detaches the
// node being attached from its previous parent first, so a node always has
// at most one parent and the tree can never turn into a general graph.
//
// Basic usage:
//
//	root := dom.NewElement("div", nil,
//	    dom.NewElement("p", nil, dom.NewText("Hello")),
//	)
//
//	p := root.Child(0)
//	p.AppendChild(dom.NewText(", World"))
//
//	fmt.Print(dom.Debug(root))
//
// Lengths and offsets inside Text nodes are measured in runes.
//
// Thread Safety:
//
// Nodes are not safe for concurrent mutation. The engine owns one tree per
// editor instance and mutates it from a single goroutine.
package dom
