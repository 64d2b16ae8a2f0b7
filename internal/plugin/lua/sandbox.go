package lua

import (
	"github.com/cockroachdb/errors"
	lua "github.com/yuin/gopher-lua"
)

// safeLibraries are the only standard libraries a predicate can see.
// io, os, debug, package and coroutine are never opened.
var safeLibraries = []struct {
	name string
	open lua.LGFunction
}{
	{lua.BaseLibName, lua.OpenBase},
	{lua.TabLibName, lua.OpenTable},
	{lua.StringLibName, lua.OpenString},
	{lua.MathLibName, lua.OpenMath},
}

// blockedGlobals are base functions that load code or touch the host.
var blockedGlobals = []string{
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	"require",
	"module",
	"collectgarbage",
	"print",
}

func openSafeLibraries(L *lua.LState) error {
	for _, lib := range safeLibraries {
		err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.open),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name))
		if err != nil {
			return errors.Wrapf(err, "opening lua library %q", lib.name)
		}
	}
	return nil
}

func installSandbox(L *lua.LState) {
	for _, name := range blockedGlobals {
		L.SetGlobal(name, lua.LNil)
	}
}
