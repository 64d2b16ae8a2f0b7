// Package lua hosts scripted collapse predicates on gopher-lua.
//
// A predicate script defines a global qualifies(node) function. The node
// arrives as a plain table:
//
//	function qualifies(node)
//	    return node.tag == "b" and node.attrs.class == nil
//	end
//
// Text children appear as {text = "..."}. The result follows Lua
// truthiness.
//
//	p, err := lua.CompilePredicate(src)
//	if err != nil {
//	    return err
//	}
//	defer p.Close()
//
//	err = normalize.CollapseNested(el, p.Validator(), table)
//
// # Sandbox
//
// Scripts run with the base, table, string and math libraries only.
// Loaders (dofile, loadfile, load, require) and print are removed, and
// each call is bounded by WithExecutionTimeout through the LState
// context.
package lua
