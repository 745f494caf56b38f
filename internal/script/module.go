package script

import (
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/dragstorm/internal/event"
	"github.com/dshills/dragstorm/internal/event/topic"
)

// scriptTopicPrefix namespaces events published by scripts.
const scriptTopicPrefix = "script."

// registerHostModule installs the dragstorm table into the state.
func (e *Engine) registerHostModule() {
	mod := e.L.NewTable()
	e.L.SetField(mod, "on", e.L.NewFunction(e.luaOn))
	e.L.SetField(mod, "once", e.L.NewFunction(e.luaOnce))
	e.L.SetField(mod, "off", e.L.NewFunction(e.luaOff))
	e.L.SetField(mod, "emit", e.L.NewFunction(e.luaEmit))
	e.L.SetField(mod, "log", e.L.NewFunction(e.luaLog))
	e.L.SetField(mod, "json_get", e.L.NewFunction(e.luaJSONGet))
	e.L.SetField(mod, "json_set", e.L.NewFunction(e.luaJSONSet))
	e.L.SetGlobal(HostModuleName, mod)
}

// on(topic, fn) -> id
// Subscribes fn to a topic pattern. The handler receives the event
// as a table.
func (e *Engine) luaOn(L *lua.LState) int {
	return e.subscribe(L, false)
}

// once(topic, fn) -> id
// Subscribes fn for a single delivery. The hook is removed after its
// first successful call.
func (e *Engine) luaOnce(L *lua.LState) int {
	return e.subscribe(L, true)
}

// subscribe registers a hook function against a bus topic pattern.
func (e *Engine) subscribe(L *lua.LState, once bool) int {
	pattern := L.CheckString(1)
	hook := L.CheckFunction(2)

	if pattern == "" {
		L.ArgError(1, "topic cannot be empty")
		return 0
	}

	id := e.nextHookID()
	e.handlers.RawSetString(id, hook)

	deliver := func(ev any) error { return e.dispatch(id, ev) }
	fn := deliver
	if once {
		fn = func(ev any) error {
			err := deliver(ev)
			if err == nil {
				// The bus removed its side after the delivery.
				e.releaseHook(id)
			}
			return err
		}
	}

	var opts []event.SubscriptionOption
	if once {
		opts = append(opts, event.WithOnce())
	}

	sub, err := e.bus.SubscribeFunc(topic.Topic(pattern), fn, opts...)
	if err != nil {
		e.handlers.RawSetString(id, lua.LNil)
		L.RaiseError("subscribe %q: %v", pattern, err)
		return 0
	}

	e.hooks[id] = sub
	L.Push(lua.LString(id))
	return 1
}

// off(id) -> bool
// Cancels a hook subscription. Returns true if the hook existed.
func (e *Engine) luaOff(L *lua.LState) int {
	id := L.CheckString(1)

	sub, ok := e.hooks[id]
	if !ok {
		L.Push(lua.LFalse)
		return 1
	}

	e.releaseHook(id)
	_ = e.bus.Unsubscribe(sub)

	L.Push(lua.LTrue)
	return 1
}

// emit(name, data?)
// Publishes a script event on the bus. The topic is the name under
// the script prefix, so emit("sorted") publishes "script.sorted".
func (e *Engine) luaEmit(L *lua.LState) int {
	name := L.CheckString(1)

	t := topic.Topic(scriptTopicPrefix + name)
	if !t.IsValid() {
		L.ArgError(1, "invalid event name")
		return 0
	}

	data := make(map[string]any)
	if L.GetTop() >= 2 {
		if tbl := L.OptTable(2, nil); tbl != nil {
			data = tableToMap(tbl)
		}
	}

	// Failures here belong to other subscribers, not to the script.
	if err := e.bus.Publish(event.NewEvent(t, data, "script")); err != nil {
		e.logf("script emit %s: %v", t, err)
	}
	return 0
}

// log(...)
// Writes the arguments, space separated, through the engine's log
// sink.
func (e *Engine) luaLog(L *lua.LState) int {
	parts := make([]string, 0, L.GetTop())
	for i := 1; i <= L.GetTop(); i++ {
		parts = append(parts, L.Get(i).String())
	}
	e.logf("%s", strings.Join(parts, " "))
	return 0
}

// json_get(doc, path) -> value
// Reads a path from a JSON document, so hooks can pick fields out of
// transfer payloads. A missing path returns nil; objects and arrays
// come back as tables.
func (e *Engine) luaJSONGet(L *lua.LState) int {
	doc := L.CheckString(1)
	path := L.CheckString(2)

	res := gjson.Get(doc, path)
	if !res.Exists() {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(anyToLValue(L, res.Value()))
	return 1
}

// json_set(doc, path, value) -> doc
// Returns a copy of the JSON document with the path set. Tables are
// written as objects or arrays.
func (e *Engine) luaJSONSet(L *lua.LState) int {
	doc := L.CheckString(1)
	path := L.CheckString(2)
	value := lvalueToAny(L.Get(3))

	out, err := sjson.Set(doc, path, value)
	if err != nil {
		L.RaiseError("json_set: %v", err)
		return 0
	}
	L.Push(lua.LString(out))
	return 1
}
