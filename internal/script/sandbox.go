package script

import (
	lua "github.com/yuin/gopher-lua"
)

// safeModules are the standard library modules require may return.
// They are already open as globals; require hands back the same table.
var safeModules = map[string]bool{
	"string": true,
	"table":  true,
	"math":   true,
}

// Sandbox restricts a Lua state to safe operations. Scripts get the
// base library plus string, table, and math. Everything that reaches
// the filesystem or the process stays out.
type Sandbox struct {
	L *lua.LState
}

// NewSandbox creates a sandbox for the Lua state.
func NewSandbox(L *lua.LState) *Sandbox {
	return &Sandbox{L: L}
}

// Install applies the restrictions to the state.
func (s *Sandbox) Install() {
	// Chunk loaders would let a script pull arbitrary code past the
	// module whitelist.
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		s.L.SetGlobal(name, lua.LNil)
	}

	s.clearPackagePaths()
	s.installSafeRequire()
}

// clearPackagePaths empties the module search paths and drops cached
// modules outside the safe set, should the package library be present.
func (s *Sandbox) clearPackagePaths() {
	pkg, ok := s.L.GetGlobal("package").(*lua.LTable)
	if !ok {
		return
	}

	s.L.SetField(pkg, "path", lua.LString(""))
	s.L.SetField(pkg, "cpath", lua.LString(""))

	loaded, ok := s.L.GetField(pkg, "loaded").(*lua.LTable)
	if !ok {
		return
	}

	var stale []string
	loaded.ForEach(func(k, _ lua.LValue) {
		name, ok := k.(lua.LString)
		if !ok {
			return
		}
		switch {
		case safeModules[string(name)]:
		case string(name) == "_G", string(name) == "package":
		default:
			stale = append(stale, string(name))
		}
	})
	for _, name := range stale {
		loaded.RawSetString(name, lua.LNil)
	}
}

// installSafeRequire replaces require with a whitelist. Scripts can
// require the safe standard modules and the host module; everything
// else, io and os included, is rejected.
func (s *Sandbox) installSafeRequire() {
	s.L.SetGlobal("require", s.L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)

		if safeModules[name] || name == HostModuleName {
			L.Push(L.GetGlobal(name))
			return 1
		}

		L.RaiseError("module %q is not available", name)
		return 0 // unreachable, RaiseError does not return
	}))
}
