// Package script embeds a sandboxed Lua runtime for user hooks.
//
// A single user script, named in the settings file, is loaded at
// startup. The script registers hook functions against event bus
// topics through the dragstorm host module:
//
//	dragstorm.on("drag.started", function(e)
//	    dragstorm.log("drag from", e.x, e.y)
//	end)
//
//	dragstorm.on("dnd.dropped", function(e)
//	    local kind = dragstorm.json_get(e.payload, "kind")
//	    dragstorm.emit("sorted", { kind = kind })
//	end)
//
// Topics accept the bus wildcard forms, so "dnd.**" watches every
// drag-and-drop event. A hook receives one table per event holding
// the topic under "type" plus the event's own fields.
//
// # Host Module
//
// The dragstorm module exposes:
//
//	on(topic, fn) -> id      subscribe fn to a topic pattern
//	once(topic, fn) -> id    subscribe for a single delivery
//	off(id) -> bool          cancel a subscription
//	emit(name, data?)        publish "script.<name>" with a data table
//	log(...)                 write to the application log
//	json_get(doc, path)      read a path from a JSON document
//	json_set(doc, path, v)   set a path in a JSON document
//
// # Sandbox
//
// Scripts run inside a sandbox: io, os, and debug stay closed, the
// chunk loaders (dofile, loadfile, load, loadstring) are removed,
// and require only returns the safe standard modules and the host
// module. A hook that exceeds its time budget stops the engine.
//
// The engine is not safe for concurrent use. The interaction loop
// owns it; bus delivery is synchronous, so hooks run on the loop
// goroutine that published the event.
package script
