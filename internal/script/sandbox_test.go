package script

import (
	"testing"

	glua "github.com/yuin/gopher-lua"

	"github.com/dshills/dragstorm/internal/event"
)

func TestSandboxRemovesChunkLoaders(t *testing.T) {
	eng, _ := newTestEngine(t)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		if v := eng.L.GetGlobal(name); v != glua.LNil {
			t.Errorf("%s should be removed, got %T", name, v)
		}
	}
}

func TestSandboxNoUnsafeGlobals(t *testing.T) {
	eng, _ := newTestEngine(t)

	for _, name := range []string{"io", "os", "debug"} {
		if v := eng.L.GetGlobal(name); v != glua.LNil {
			t.Errorf("global %s should be absent, got %T", name, v)
		}
	}
}

func TestSandboxRequireSafeModules(t *testing.T) {
	eng, _ := newTestEngine(t)

	err := eng.DoString(`
		string_same = (require("string") == string)
		table_same = (require("table") == table)
		math_same = (require("math") == math)
		host_same = (require("dragstorm") == dragstorm)
	`)
	if err != nil {
		t.Fatalf("DoString() error = %v", err)
	}

	for _, name := range []string{"string_same", "table_same", "math_same", "host_same"} {
		if !globalBool(t, eng, name) {
			t.Errorf("%s = false, want true", name)
		}
	}
}

func TestSandboxRejectsModules(t *testing.T) {
	tests := []struct {
		name   string
		module string
	}{
		{name: "io", module: "io"},
		{name: "os", module: "os"},
		{name: "debug", module: "debug"},
		{name: "package", module: "package"},
		{name: "third party", module: "socket"},
		{name: "relative path", module: "../escape"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := event.NewBus()
			eng := New(bus)
			defer eng.Close()

			err := eng.DoString(`require("` + tt.module + `")`)
			if err == nil {
				t.Errorf("require(%q) should be rejected", tt.module)
			}
		})
	}
}

func TestSandboxBaseLibraryAvailable(t *testing.T) {
	eng, _ := newTestEngine(t)

	err := eng.DoString(`
		ok = pcall(function() error("caught") end) == false
		joined = table.concat({"a", "b"}, "-")
		rounded = math.floor(2.7)
		upper = string.upper("drag")
	`)
	if err != nil {
		t.Fatalf("DoString() error = %v", err)
	}

	if !globalBool(t, eng, "ok") {
		t.Error("pcall should be available and catch errors")
	}
	if got := globalString(t, eng, "joined"); got != "a-b" {
		t.Errorf("table.concat = %q, want %q", got, "a-b")
	}
	if got := globalNumber(t, eng, "rounded"); got != 2 {
		t.Errorf("math.floor(2.7) = %v, want 2", got)
	}
	if got := globalString(t, eng, "upper"); got != "DRAG" {
		t.Errorf("string.upper = %q, want %q", got, "DRAG")
	}
}
