package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/dragstorm/internal/event"
	"github.com/dshills/dragstorm/internal/event/events"
)

// eventTable converts a bus event into the table a hook receives.
// Every table carries the topic under "type"; the remaining fields
// depend on the event.
func eventTable(L *lua.LState, ev any) *lua.LTable {
	tbl := L.NewTable()

	switch v := ev.(type) {
	case event.Event[events.DragStarted]:
		tbl.RawSetString("type", lua.LString(v.Type))
		tbl.RawSetString("x", lua.LNumber(v.Payload.X))
		tbl.RawSetString("y", lua.LNumber(v.Payload.Y))
		tbl.RawSetString("button", lua.LString(v.Payload.Button))
		tbl.RawSetString("timestamp_ms", lua.LNumber(v.Payload.Timestamp.UnixMilli()))

	case event.Event[events.DragMoved]:
		tbl.RawSetString("type", lua.LString(v.Type))
		tbl.RawSetString("x", lua.LNumber(v.Payload.X))
		tbl.RawSetString("y", lua.LNumber(v.Payload.Y))
		tbl.RawSetString("dx", lua.LNumber(v.Payload.DX))
		tbl.RawSetString("dy", lua.LNumber(v.Payload.DY))

	case event.Event[events.DragEnded]:
		tbl.RawSetString("type", lua.LString(v.Type))
		tbl.RawSetString("x", lua.LNumber(v.Payload.X))
		tbl.RawSetString("y", lua.LNumber(v.Payload.Y))
		tbl.RawSetString("total_dx", lua.LNumber(v.Payload.TotalDX))
		tbl.RawSetString("total_dy", lua.LNumber(v.Payload.TotalDY))
		tbl.RawSetString("duration_ms", lua.LNumber(v.Payload.Duration.Milliseconds()))

	case event.Event[events.DragCanceled]:
		tbl.RawSetString("type", lua.LString(v.Type))
		tbl.RawSetString("x", lua.LNumber(v.Payload.X))
		tbl.RawSetString("y", lua.LNumber(v.Payload.Y))

	case event.Event[events.DNDStarted]:
		tbl.RawSetString("type", lua.LString(v.Type))
		tbl.RawSetString("tag", lua.LString(v.Payload.Tag))
		tbl.RawSetString("x", lua.LNumber(v.Payload.X))
		tbl.RawSetString("y", lua.LNumber(v.Payload.Y))

	case event.Event[events.DNDTargetEntered]:
		tbl.RawSetString("type", lua.LString(v.Type))
		tbl.RawSetString("tag", lua.LString(v.Payload.Tag))
		tbl.RawSetString("x", lua.LNumber(v.Payload.X))
		tbl.RawSetString("y", lua.LNumber(v.Payload.Y))

	case event.Event[events.DNDTargetLeft]:
		tbl.RawSetString("type", lua.LString(v.Type))
		tbl.RawSetString("tag", lua.LString(v.Payload.Tag))
		tbl.RawSetString("x", lua.LNumber(v.Payload.X))
		tbl.RawSetString("y", lua.LNumber(v.Payload.Y))

	case event.Event[events.DNDDropped]:
		tbl.RawSetString("type", lua.LString(v.Type))
		tbl.RawSetString("tag", lua.LString(v.Payload.Tag))
		tbl.RawSetString("x", lua.LNumber(v.Payload.X))
		tbl.RawSetString("y", lua.LNumber(v.Payload.Y))
		tbl.RawSetString("payload", lua.LString(v.Payload.Payload))

	case event.Event[events.DNDEnded]:
		tbl.RawSetString("type", lua.LString(v.Type))
		tbl.RawSetString("tag", lua.LString(v.Payload.Tag))
		tbl.RawSetString("dropped", lua.LBool(v.Payload.Dropped))

	case event.Event[events.MouseClicked]:
		tbl.RawSetString("type", lua.LString(v.Type))
		tbl.RawSetString("button", lua.LString(v.Payload.Button))
		tbl.RawSetString("x", lua.LNumber(v.Payload.X))
		tbl.RawSetString("y", lua.LNumber(v.Payload.Y))
		tbl.RawSetString("clicks", lua.LNumber(v.Payload.ClickCount))
		tbl.RawSetString("modifiers", modifierTable(L, v.Payload.Modifiers))
		tbl.RawSetString("timestamp_ms", lua.LNumber(v.Payload.Timestamp.UnixMilli()))

	case event.Event[events.MouseScrolled]:
		tbl.RawSetString("type", lua.LString(v.Type))
		tbl.RawSetString("direction", lua.LString(v.Payload.Direction))
		tbl.RawSetString("lines", lua.LNumber(v.Payload.Lines))
		tbl.RawSetString("x", lua.LNumber(v.Payload.X))
		tbl.RawSetString("y", lua.LNumber(v.Payload.Y))
		tbl.RawSetString("modifiers", modifierTable(L, v.Payload.Modifiers))

	case event.Event[map[string]any]:
		// Script-emitted events carry a free-form data table.
		for k, item := range v.Payload {
			tbl.RawSetString(k, anyToLValue(L, item))
		}
		tbl.RawSetString("type", lua.LString(v.Type))

	case event.Envelope:
		if data, ok := v.Payload.(map[string]any); ok {
			for k, item := range data {
				tbl.RawSetString(k, anyToLValue(L, item))
			}
		}
		tbl.RawSetString("type", lua.LString(v.Topic))

	default:
		if tp, ok := ev.(event.TopicProvider); ok {
			tbl.RawSetString("type", lua.LString(tp.EventTopic()))
		}
	}

	return tbl
}

// modifierTable converts modifier names into a Lua array.
func modifierTable(L *lua.LState, mods []events.Modifier) *lua.LTable {
	tbl := L.NewTable()
	for i, m := range mods {
		tbl.RawSetInt(i+1, lua.LString(m))
	}
	return tbl
}

// anyToLValue converts a plain Go value into its Lua equivalent.
func anyToLValue(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case []byte:
		return lua.LString(val)
	case []any:
		tbl := L.NewTable()
		for i, item := range val {
			tbl.RawSetInt(i+1, anyToLValue(L, item))
		}
		return tbl
	case map[string]any:
		tbl := L.NewTable()
		for k, item := range val {
			tbl.RawSetString(k, anyToLValue(L, item))
		}
		return tbl
	default:
		return lua.LString(fmt.Sprintf("%v", val))
	}
}

// lvalueToAny converts a Lua value into a plain Go value. Tables with
// contiguous integer keys from 1 become slices; every other table
// becomes a string-keyed map.
func lvalueToAny(v lua.LValue) any {
	if v == nil || v == lua.LNil {
		return nil
	}

	switch val := v.(type) {
	case lua.LBool:
		return bool(val)
	case lua.LNumber:
		return float64(val)
	case lua.LString:
		return string(val)
	case *lua.LTable:
		return tableToAny(val)
	default:
		return v.String()
	}
}

// tableToAny converts a Lua table to a slice or map.
func tableToAny(tbl *lua.LTable) any {
	isArray := true
	maxN := 0
	count := 0
	tbl.ForEach(func(k, _ lua.LValue) {
		count++
		kn, ok := k.(lua.LNumber)
		if !ok {
			isArray = false
			return
		}
		n := int(kn)
		if float64(n) != float64(kn) || n < 1 {
			isArray = false
			return
		}
		if n > maxN {
			maxN = n
		}
	})

	if isArray && maxN > 0 && count == maxN {
		arr := make([]any, maxN)
		for i := 1; i <= maxN; i++ {
			arr[i-1] = lvalueToAny(tbl.RawGetInt(i))
		}
		return arr
	}

	m := make(map[string]any, count)
	tbl.ForEach(func(k, v lua.LValue) {
		var key string
		switch kv := k.(type) {
		case lua.LString:
			key = string(kv)
		case lua.LNumber:
			key = fmt.Sprintf("%v", float64(kv))
		default:
			key = k.String()
		}
		m[key] = lvalueToAny(v)
	})
	return m
}

// tableToMap converts a Lua table into a string-keyed map, skipping
// non-string keys. Used for emit data tables.
func tableToMap(tbl *lua.LTable) map[string]any {
	result := make(map[string]any)
	tbl.ForEach(func(k, v lua.LValue) {
		if key, ok := k.(lua.LString); ok {
			result[string(key)] = lvalueToAny(v)
		}
	})
	return result
}
