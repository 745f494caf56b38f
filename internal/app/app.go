package app

import (
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/dragstorm/internal/config"
	"github.com/dshills/dragstorm/internal/event"
	"github.com/dshills/dragstorm/internal/input/dnd"
	"github.com/dshills/dragstorm/internal/input/mouse"
	"github.com/dshills/dragstorm/internal/renderer/backend"
	"github.com/dshills/dragstorm/internal/renderer/core"
	"github.com/dshills/dragstorm/internal/renderer/overlay"
	"github.com/dshills/dragstorm/internal/script"
)

// Options controls application startup.
type Options struct {
	// ConfigPath is an explicit settings file. Empty tries the default
	// location.
	ConfigPath string

	// LogLevel overrides the configured log level when non-empty.
	LogLevel string

	// Debug forces debug logging regardless of configuration.
	Debug bool
}

// Application owns every component and the main event loop.
type Application struct {
	mu     sync.Mutex
	config config.Config
	logger *Logger

	logFile *os.File

	bus      *event.Bus
	backend  backend.Backend
	screen   *backend.BufferedBackend
	overlays *overlay.Manager
	mouseCfg mouse.Config
	clicks   *mouse.Handler
	synth    *mouse.Synthesizer
	router   *dnd.Router
	engine   *script.Engine
	scene    *Scene

	running  atomic.Bool
	done     chan struct{}
	doneOnce sync.Once
}

// New creates an application from the given options. The terminal
// backend is installed separately with SetBackend so tests can run
// against an in-memory double.
func New(opts Options) (*Application, error) {
	cfg, err := config.Load(config.LoadOptions{Path: opts.ConfigPath})
	if err != nil {
		return nil, &InitError{Component: "config", Err: err}
	}

	app := &Application{
		config: cfg,
		done:   make(chan struct{}),
	}
	if err := app.bootstrap(opts); err != nil {
		app.closeLogFile()
		return nil, err
	}
	return app, nil
}

// bootstrap builds the component graph in dependency order.
func (app *Application) bootstrap(opts Options) error {
	level := ParseLogLevel(app.config.Logging.Level)
	if opts.LogLevel != "" {
		level = ParseLogLevel(opts.LogLevel)
	}
	if opts.Debug {
		level = LogLevelDebug
	}

	out, file, err := openLogOutput(app.config.Logging.File)
	if err != nil {
		return &InitError{Component: "logging", Err: err}
	}
	app.logFile = file
	app.logger = NewLogger(LoggerConfig{Level: level, Output: out, Prefix: "dragstorm"})
	SetLogger(app.logger)

	busLog := app.logger.WithComponent("bus")
	app.bus = event.NewBus(event.WithPanicHandler(func(ev any, subID string, recovered any) {
		busLog.Error("handler panic: subscription=%s recovered=%v", subID, recovered)
	}))

	app.overlays = overlay.NewManagerWithConfig(overlayConfigFrom(app.config))
	app.mouseCfg = mouseConfigFrom(app.config)
	app.clicks = mouse.NewHandler(app.mouseCfg)
	app.synth = mouse.NewSynthesizer()
	app.router = dnd.NewRouter(dnd.RouterConfig{
		Button:   buttonFromName(app.config.Input.DragButton),
		DeadZone: app.config.Input.DragDeadZone,
	})

	if app.config.Script.Enabled {
		scriptLog := app.logger.WithComponent("script")
		app.engine = script.New(app.bus, script.WithLogf(func(format string, args ...any) {
			scriptLog.Info(format, args...)
		}))
		if err := app.engine.Load(app.config.Script.Path); err != nil {
			// A broken hook script never takes the application down.
			scriptLog.Warn("loading %s: %v", app.config.Script.Path, err)
		}
	}

	return nil
}

// SetBackend installs the terminal backend. Must be called before Run.
func (app *Application) SetBackend(b backend.Backend) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.running.Load() {
		return ErrAlreadyRunning
	}
	app.backend = b
	return nil
}

// Run starts the main event loop and blocks until shutdown. A normal
// quit returns an error satisfying errors.Is(err, ErrQuit).
func (app *Application) Run() error {
	app.mu.Lock()
	b := app.backend
	app.mu.Unlock()

	if b == nil {
		return ErrNoBackend
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	screen := backend.NewBufferedBackend(b)
	if err := screen.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer screen.Shutdown()
	screen.EnableMouse()

	width, height := screen.Size()

	app.mu.Lock()
	app.screen = screen
	app.overlays.SetViewport(core.NewRect(0, 0, width, height))
	app.scene = NewScene(app, width, height)
	app.mu.Unlock()

	app.logger.Info("starting: %dx%d dead_zone=%d button=%s",
		width, height, app.config.Input.DragDeadZone, app.config.Input.DragButton)

	err := app.eventLoop(screen)

	app.mu.Lock()
	app.screen = nil
	app.mu.Unlock()

	if app.engine != nil {
		if cerr := app.engine.Close(); cerr != nil {
			app.logger.WithComponent("script").Warn("close: %v", cerr)
		}
	}
	app.closeLogFile()
	return err
}

// Shutdown requests the event loop to exit. Safe to call from any
// goroutine and more than once.
func (app *Application) Shutdown() {
	app.doneOnce.Do(func() {
		close(app.done)
		app.mu.Lock()
		b := app.backend
		app.mu.Unlock()
		if b != nil && app.running.Load() {
			// Wake PollEvent so the loop notices.
			b.PostEvent(backend.Event{Type: backend.EventInterrupt})
		}
	})
}

// IsRunning reports whether the event loop is live.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Config returns the loaded settings.
func (app *Application) Config() config.Config {
	return app.config
}

// EventBus returns the application event bus.
func (app *Application) EventBus() *event.Bus {
	return app.bus
}

// Overlays returns the overlay manager.
func (app *Application) Overlays() *overlay.Manager {
	return app.overlays
}

// Router returns the drag-and-drop router.
func (app *Application) Router() *dnd.Router {
	return app.router
}

// Logger returns the application logger.
func (app *Application) Logger() *Logger {
	if app.logger == nil {
		return GetLogger()
	}
	return app.logger
}

func (app *Application) closeLogFile() {
	if app.logFile != nil {
		_ = app.logFile.Close()
		app.logFile = nil
	}
}

// captureMounter raises the capture sheet and the cursor override for
// the free-drag tracker. Implements drag.Mounter.
type captureMounter struct {
	app    *Application
	cursor backend.CursorStyle
}

func (m *captureMounter) Mount() {
	m.app.overlays.BeginCapture()
	m.app.mu.Lock()
	b := m.app.backend
	m.app.mu.Unlock()
	if b != nil {
		b.SetCursorStyle(m.cursor)
	}
}

func (m *captureMounter) Unmount() {
	m.app.overlays.EndCapture()
	m.app.mu.Lock()
	b := m.app.backend
	m.app.mu.Unlock()
	if b != nil {
		b.SetCursorStyle(backend.CursorDefault)
	}
}

// buttonFromName maps a settings button name onto the mouse enum.
func buttonFromName(name string) mouse.Button {
	switch name {
	case "right":
		return mouse.ButtonRight
	case "middle":
		return mouse.ButtonMiddle
	default:
		return mouse.ButtonLeft
	}
}

// cursorFromName maps a settings cursor name onto the backend enum.
func cursorFromName(name string) backend.CursorStyle {
	switch name {
	case "block":
		return backend.CursorBlock
	case "underline":
		return backend.CursorUnderline
	case "bar":
		return backend.CursorBar
	case "hidden":
		return backend.CursorHidden
	default:
		return backend.CursorDefault
	}
}

// colorFromSetting parses a settings color: empty for the terminal
// default, a palette index, or a hex color. Invalid values fall back
// to the default color; validation already warned about them.
func colorFromSetting(s string) core.Color {
	if s == "" {
		return core.DefaultColor()
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n <= 255 {
		return core.ColorFromIndex(uint8(n))
	}
	if c, err := core.ColorFromHex(s); err == nil {
		return c
	}
	return core.DefaultColor()
}

// overlayConfigFrom translates settings into overlay appearance.
func overlayConfigFrom(cfg config.Config) overlay.Config {
	oc := overlay.DefaultConfig()
	oc.GhostStyle = core.NewStyle(
		colorFromSetting(cfg.Ghost.Foreground),
		colorFromSetting(cfg.Ghost.Background),
	).Bold()
	oc.GhostOffsetX = cfg.Ghost.OffsetX
	oc.GhostOffsetY = cfg.Ghost.OffsetY
	oc.MaxGhostWidth = cfg.Ghost.MaxWidth

	hl := core.NewStyle(
		colorFromSetting(cfg.Highlight.Foreground),
		colorFromSetting(cfg.Highlight.Background),
	)
	if cfg.Highlight.Reverse {
		hl = hl.Reverse()
	}
	oc.HighlightStyle = hl
	return oc
}

// mouseConfigFrom translates settings into click tracking thresholds.
func mouseConfigFrom(cfg config.Config) mouse.Config {
	mc := mouse.DefaultConfig()
	mc.DoubleClickTime = time.Duration(cfg.Input.DoubleClickMs) * time.Millisecond
	mc.DoubleClickDistance = cfg.Input.DoubleClickDistance
	mc.ScrollLines = cfg.Input.ScrollLines
	return mc
}
