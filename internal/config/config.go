// Package config defines the dragstorm settings document: its typed
// sections, defaults, and validation. Loading from TOML files and the
// environment lives in the loader subpackage; translating settings
// into component configuration is the application's job.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Config is the full settings document.
type Config struct {
	Input     InputConfig     `toml:"input"`
	Ghost     GhostConfig     `toml:"ghost"`
	Highlight HighlightConfig `toml:"highlight"`
	Logging   LoggingConfig   `toml:"logging"`
	Script    ScriptConfig    `toml:"script"`
}

// InputConfig holds pointer interaction settings.
type InputConfig struct {
	// DragButton is the button that starts a drag ("left", "right", "middle").
	DragButton string `toml:"drag_button"`

	// DragDeadZone is the travel in cells, measured as straight-line
	// distance, before a press becomes a drag.
	DragDeadZone int `toml:"drag_dead_zone"`

	// DragCursor is the cursor shape while a drag is active
	// ("default", "block", "underline", "bar", "hidden").
	DragCursor string `toml:"drag_cursor"`

	// DoubleClickMs is the maximum milliseconds between clicks of a
	// double-click.
	DoubleClickMs int `toml:"double_click_ms"`

	// DoubleClickDistance is the maximum distance in cells between
	// clicks of a double-click.
	DoubleClickDistance int `toml:"double_click_distance"`

	// ScrollLines is the number of lines per wheel tick.
	ScrollLines int `toml:"scroll_lines"`
}

// GhostConfig holds drag ghost label settings.
type GhostConfig struct {
	// Enabled shows a floating label following the pointer during a drag.
	Enabled bool `toml:"enabled"`

	// MaxWidth is the widest the label may grow, in cells.
	MaxWidth int `toml:"max_width"`

	// OffsetX is the horizontal distance from the pointer.
	OffsetX int `toml:"offset_x"`

	// OffsetY is the vertical distance from the pointer.
	OffsetY int `toml:"offset_y"`

	// Foreground is the label text color (palette index or "#rrggbb";
	// empty for the terminal default).
	Foreground string `toml:"foreground"`

	// Background is the label fill color.
	Background string `toml:"background"`
}

// HighlightConfig holds drop target hover tint settings.
type HighlightConfig struct {
	// Foreground tints hovered target text.
	Foreground string `toml:"foreground"`

	// Background tints hovered target fill.
	Background string `toml:"background"`

	// Reverse swaps foreground and background instead of tinting.
	Reverse bool `toml:"reverse"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	// Level is the minimum severity to log ("debug", "info", "warn",
	// "error", "off").
	Level string `toml:"level"`

	// File is the log destination path. Empty discards log output,
	// since the terminal itself is the display.
	File string `toml:"file"`
}

// ScriptConfig holds Lua hook settings.
type ScriptConfig struct {
	// Enabled runs the hook script on interaction events.
	Enabled bool `toml:"enabled"`

	// Path is the Lua script to load.
	Path string `toml:"path"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Input: InputConfig{
			DragButton:          "left",
			DragDeadZone:        3,
			DragCursor:          "default",
			DoubleClickMs:       400,
			DoubleClickDistance: 4,
			ScrollLines:         3,
		},
		Ghost: GhostConfig{
			Enabled:    true,
			MaxWidth:   24,
			OffsetX:    2,
			OffsetY:    1,
			Foreground: "15",
			Background: "12",
		},
		Highlight: HighlightConfig{
			Reverse: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Script: ScriptConfig{},
	}
}

var (
	validButtons = []string{"left", "right", "middle"}
	validCursors = []string{"default", "block", "underline", "bar", "hidden"}
	validLevels  = []string{"debug", "info", "warn", "error", "off"}
)

// Validate checks every setting and returns all failures joined.
func (c *Config) Validate() error {
	var errs []error
	invalid := func(setting string, value any, message string) {
		errs = append(errs, &ValidationError{Setting: setting, Value: value, Message: message})
	}

	if !oneOf(c.Input.DragButton, validButtons) {
		invalid("input.drag_button", c.Input.DragButton, "must be one of "+strings.Join(validButtons, ", "))
	}
	if c.Input.DragDeadZone < 0 {
		invalid("input.drag_dead_zone", c.Input.DragDeadZone, "must not be negative")
	}
	if !oneOf(c.Input.DragCursor, validCursors) {
		invalid("input.drag_cursor", c.Input.DragCursor, "must be one of "+strings.Join(validCursors, ", "))
	}
	if c.Input.DoubleClickMs <= 0 {
		invalid("input.double_click_ms", c.Input.DoubleClickMs, "must be positive")
	}
	if c.Input.DoubleClickDistance < 0 {
		invalid("input.double_click_distance", c.Input.DoubleClickDistance, "must not be negative")
	}
	if c.Input.ScrollLines <= 0 {
		invalid("input.scroll_lines", c.Input.ScrollLines, "must be positive")
	}

	if c.Ghost.MaxWidth < 5 {
		invalid("ghost.max_width", c.Ghost.MaxWidth, "must be at least 5")
	}
	if !validColorSyntax(c.Ghost.Foreground) {
		invalid("ghost.foreground", c.Ghost.Foreground, "must be a palette index or #rrggbb")
	}
	if !validColorSyntax(c.Ghost.Background) {
		invalid("ghost.background", c.Ghost.Background, "must be a palette index or #rrggbb")
	}

	if !validColorSyntax(c.Highlight.Foreground) {
		invalid("highlight.foreground", c.Highlight.Foreground, "must be a palette index or #rrggbb")
	}
	if !validColorSyntax(c.Highlight.Background) {
		invalid("highlight.background", c.Highlight.Background, "must be a palette index or #rrggbb")
	}

	if !oneOf(c.Logging.Level, validLevels) {
		invalid("logging.level", c.Logging.Level, "must be one of "+strings.Join(validLevels, ", "))
	}

	if c.Script.Enabled && c.Script.Path == "" {
		invalid("script.path", c.Script.Path, "required when script.enabled is true")
	}

	return errors.Join(errs...)
}

func oneOf(value string, allowed []string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}

// validColorSyntax accepts the empty string (terminal default), a
// decimal palette index 0-255, or a #rgb / #rrggbb hex color.
func validColorSyntax(s string) bool {
	if s == "" {
		return true
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n >= 0 && n <= 255
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 3 && len(hex) != 6 {
		return false
	}
	for _, r := range hex {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// ValidationError describes one rejected setting.
type ValidationError struct {
	// Setting is the dotted settings path.
	Setting string
	// Value is the rejected value.
	Value any
	// Message describes what the setting requires.
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (value: %v)", e.Setting, e.Message, e.Value)
}
