package script

import (
	"context"
	"fmt"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/dragstorm/internal/event"
)

const (
	// HostModuleName is the global table scripts use to reach the host.
	HostModuleName = "dragstorm"

	// DefaultCallTimeout bounds a single script call. Hooks run inside
	// the interaction loop, so the budget is tight.
	DefaultCallTimeout = 100 * time.Millisecond

	// hookTableKey roots registered hook functions so the collector
	// cannot reclaim them while a subscription is live.
	hookTableKey = "_dragstorm_hooks"
)

// Option configures an Engine.
type Option func(*Engine)

// WithCallTimeout sets the wall-clock budget for one script call.
// Zero disables the limit.
func WithCallTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.callTimeout = d
	}
}

// WithLogf routes dragstorm.log output and engine diagnostics.
// The default discards them.
func WithLogf(fn func(format string, args ...any)) Option {
	return func(e *Engine) {
		if fn != nil {
			e.logf = fn
		}
	}
}

// Engine hosts one user script in a sandboxed Lua state and routes
// bus events to the hooks the script registers.
//
// Not safe for concurrent use. The interaction loop owns the engine,
// and because bus delivery is synchronous, hooks always run on the
// goroutine that published the event.
type Engine struct {
	// L is the underlying Lua state. Direct use bypasses the closed
	// check and the call budget.
	L *lua.LState

	bus     *event.Bus
	sandbox *Sandbox

	callTimeout time.Duration
	logf        func(format string, args ...any)

	handlers *lua.LTable
	hooks    map[string]event.Subscription
	nextID   uint64

	path   string
	closed bool
	failed bool
}

// New creates an engine wired to the bus. No script runs until Load
// or DoString is called.
func New(bus *event.Bus, opts ...Option) *Engine {
	e := &Engine{
		bus:         bus,
		callTimeout: DefaultCallTimeout,
		logf:        func(string, ...any) {},
		hooks:       make(map[string]event.Subscription),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(e.L)

	e.sandbox = NewSandbox(e.L)
	e.sandbox.Install()

	e.handlers = e.L.NewTable()
	e.L.SetGlobal(hookTableKey, e.handlers)

	e.registerHostModule()
	return e
}

// openSafeLibraries opens the standard libraries scripts may use.
// io, os, debug, and the package loader stay closed; the sandbox
// assumes they are absent.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// Load reads and runs the script at path. Top-level code runs
// immediately; the hooks it registers fire as events arrive.
func (e *Engine) Load(path string) error {
	if e.closed {
		return ErrEngineClosed
	}
	if e.failed {
		return ErrCallTimeout
	}

	e.path = path
	if err := e.protect(func() error { return e.L.DoFile(path) }); err != nil {
		return fmt.Errorf("script %s: %w", path, err)
	}
	return nil
}

// DoString runs a chunk of Lua source in the engine's state.
func (e *Engine) DoString(code string) error {
	if e.closed {
		return ErrEngineClosed
	}
	if e.failed {
		return ErrCallTimeout
	}
	return e.protect(func() error { return e.L.DoString(code) })
}

// Path returns the path of the loaded script, or "" before Load.
func (e *Engine) Path() string {
	return e.path
}

// HookCount returns the number of live hook subscriptions.
func (e *Engine) HookCount() int {
	return len(e.hooks)
}

// Failed reports whether a script call exceeded its time budget.
// A failed engine no longer runs script code; the state may have
// been stopped mid-call.
func (e *Engine) Failed() bool {
	return e.failed
}

// Close cancels every hook and releases the Lua state.
func (e *Engine) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true

	for id, sub := range e.hooks {
		_ = e.bus.Unsubscribe(sub)
		delete(e.hooks, id)
	}

	e.L.Close()
	return nil
}

// dispatch invokes the hook registered under id with the event.
func (e *Engine) dispatch(id string, ev any) error {
	if e.closed || e.failed {
		return nil
	}

	hook := e.handlers.RawGetString(id)
	if hook.Type() != lua.LTFunction {
		return nil
	}

	tbl := eventTable(e.L, ev)
	return e.protect(func() error {
		e.L.Push(hook)
		e.L.Push(tbl)
		return e.L.PCall(1, 0, nil)
	})
}

// releaseHook drops local bookkeeping for a hook whose bus side is
// already gone.
func (e *Engine) releaseHook(id string) {
	delete(e.hooks, id)
	e.handlers.RawSetString(id, lua.LNil)
}

// nextHookID returns a fresh hook identifier.
func (e *Engine) nextHookID() string {
	e.nextID++
	return fmt.Sprintf("hook_%d", e.nextID)
}

// protect runs fn with panic recovery and, at the outermost call,
// the engine's time budget. Nested calls share the caller's budget.
func (e *Engine) protect(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()

	if e.callTimeout <= 0 || e.L.Context() != nil {
		return fn()
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.callTimeout)
	defer cancel()

	e.L.SetContext(ctx)
	defer e.L.RemoveContext()

	err = fn()
	if err != nil && ctx.Err() != nil {
		e.failed = true
		e.logf("script stopped: call exceeded %v", e.callTimeout)
		return fmt.Errorf("%w (budget %v)", ErrCallTimeout, e.callTimeout)
	}
	return err
}
