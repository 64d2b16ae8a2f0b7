package lua

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/docstorm/internal/engine/dom"
)

// nodeTable converts a node into the table form scripts receive:
//
//	{tag = "b", attrs = {class = "x"}, children = {...}}
//
// Text nodes become {text = "..."} with no tag.
func nodeTable(L *lua.LState, n *dom.Node) *lua.LTable {
	t := L.NewTable()
	if n.IsText() {
		t.RawSetString("text", lua.LString(n.Text))
		return t
	}

	t.RawSetString("tag", lua.LString(n.Tag))

	attrs := L.CreateTable(0, len(n.Attrs))
	for _, a := range n.Attrs {
		attrs.RawSetString(a.Key, lua.LString(a.Val))
	}
	t.RawSetString("attrs", attrs)

	children := L.CreateTable(n.ChildCount(), 0)
	for _, c := range n.Children() {
		children.Append(nodeTable(L, c))
	}
	t.RawSetString("children", children)
	return t
}
