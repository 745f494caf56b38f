// Package core defines the shared rendering vocabulary: colors, styles,
// cells, and screen rectangles. Backends translate these types into
// whatever their terminal layer understands, and overlays produce them
// when compositing. Keeping the vocabulary here breaks import cycles
// between the render pipeline and its backends.
package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Attribute is a bitmask of text styling attributes.
type Attribute uint16

const (
	// AttrNone means no styling attributes.
	AttrNone Attribute = 0

	// AttrBold renders text bold.
	AttrBold Attribute = 1 << iota
	// AttrDim renders text at reduced intensity.
	AttrDim
	// AttrItalic renders text italicized.
	AttrItalic
	// AttrUnderline renders text underlined.
	AttrUnderline
	// AttrBlink renders text blinking.
	AttrBlink
	// AttrReverse swaps foreground and background.
	AttrReverse
	// AttrStrikethrough renders text struck through.
	AttrStrikethrough
)

// Has reports whether all bits of attr are set.
func (a Attribute) Has(attr Attribute) bool {
	return attr != AttrNone && a&attr == attr
}

// With returns a copy with the given bits set.
func (a Attribute) With(attr Attribute) Attribute {
	return a | attr
}

// Without returns a copy with the given bits cleared.
func (a Attribute) Without(attr Attribute) Attribute {
	return a &^ attr
}

// Color is a terminal color. The zero value is the terminal's default
// color, so unstyled cells render with the user's own palette.
type Color struct {
	// R, G, B are the channels of a truecolor value. Meaningful only
	// when IsRGB is set.
	R, G, B uint8

	// Index is a 256-palette slot. Meaningful only when IsIndexed is set.
	Index uint8

	// IsRGB marks the color as a 24-bit truecolor value.
	IsRGB bool

	// IsIndexed marks the color as a palette entry.
	IsIndexed bool
}

// ColorFromRGB builds a truecolor value.
func ColorFromRGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, IsRGB: true}
}

// ColorFromIndex builds a 256-palette color.
func ColorFromIndex(index uint8) Color {
	return Color{Index: index, IsIndexed: true}
}

// ColorFromHex parses "#rgb", "#rrggbb", or the same without the hash
// into a truecolor value.
func ColorFromHex(s string) (Color, error) {
	hex := strings.TrimPrefix(s, "#")

	switch len(hex) {
	case 3:
		var c [3]uint8
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseUint(string(hex[i])+string(hex[i]), 16, 8)
			if err != nil {
				return Color{}, fmt.Errorf("invalid hex color %q", s)
			}
			c[i] = uint8(v)
		}
		return ColorFromRGB(c[0], c[1], c[2]), nil
	case 6:
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return Color{}, fmt.Errorf("invalid hex color %q", s)
		}
		return ColorFromRGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
	default:
		return Color{}, fmt.Errorf("invalid hex color length %q", s)
	}
}

// DefaultColor returns the terminal default color.
func DefaultColor() Color {
	return Color{}
}

// IsDefault reports whether the color is the terminal default.
func (c Color) IsDefault() bool {
	return !c.IsRGB && !c.IsIndexed
}

// Equals reports whether two colors are the same.
func (c Color) Equals(other Color) bool {
	if c.IsRGB != other.IsRGB || c.IsIndexed != other.IsIndexed {
		return false
	}
	switch {
	case c.IsRGB:
		return c.R == other.R && c.G == other.G && c.B == other.B
	case c.IsIndexed:
		return c.Index == other.Index
	default:
		return true
	}
}

// String returns "default", "idx(n)", or "#rrggbb".
func (c Color) String() string {
	switch {
	case c.IsRGB:
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	case c.IsIndexed:
		return fmt.Sprintf("idx(%d)", c.Index)
	default:
		return "default"
	}
}

// Style pairs foreground and background colors with attributes.
type Style struct {
	Foreground Color
	Background Color
	Attributes Attribute
}

// DefaultStyle returns the unstyled terminal style.
func DefaultStyle() Style {
	return Style{}
}

// NewStyle creates a style with the given colors.
func NewStyle(fg, bg Color) Style {
	return Style{Foreground: fg, Background: bg}
}

// WithForeground returns a copy with the foreground replaced.
func (s Style) WithForeground(fg Color) Style {
	s.Foreground = fg
	return s
}

// WithBackground returns a copy with the background replaced.
func (s Style) WithBackground(bg Color) Style {
	s.Background = bg
	return s
}

// WithAttributes returns a copy with the attributes replaced.
func (s Style) WithAttributes(attrs Attribute) Style {
	s.Attributes = attrs
	return s
}

// Bold returns a copy with the bold attribute added.
func (s Style) Bold() Style {
	s.Attributes |= AttrBold
	return s
}

// Dim returns a copy with the dim attribute added.
func (s Style) Dim() Style {
	s.Attributes |= AttrDim
	return s
}

// Underline returns a copy with the underline attribute added.
func (s Style) Underline() Style {
	s.Attributes |= AttrUnderline
	return s
}

// Reverse returns a copy with the reverse video attribute added.
func (s Style) Reverse() Style {
	s.Attributes |= AttrReverse
	return s
}

// Invert returns a copy with foreground and background swapped.
func (s Style) Invert() Style {
	s.Foreground, s.Background = s.Background, s.Foreground
	return s
}

// Merge layers another style over this one. The overlay's colors win
// when they are not the terminal default, and attributes are combined.
func (s Style) Merge(over Style) Style {
	out := s
	if !over.Foreground.IsDefault() {
		out.Foreground = over.Foreground
	}
	if !over.Background.IsDefault() {
		out.Background = over.Background
	}
	out.Attributes |= over.Attributes
	return out
}

// Equals reports whether two styles are identical.
func (s Style) Equals(other Style) bool {
	return s.Foreground.Equals(other.Foreground) &&
		s.Background.Equals(other.Background) &&
		s.Attributes == other.Attributes
}

// IsDefault reports whether the style is entirely unstyled.
func (s Style) IsDefault() bool {
	return s.Foreground.IsDefault() &&
		s.Background.IsDefault() &&
		s.Attributes == AttrNone
}

// Cell is a single terminal cell: one rune plus its display width and
// style. A wide rune occupies its own cell followed by a continuation
// cell of width zero.
type Cell struct {
	// Rune is the character to display. Zero marks the continuation of
	// a wide rune in the cell to the left.
	Rune rune

	// Width is the number of columns the rune spans: 1 for normal
	// runes, 2 for wide runes, 0 for continuations.
	Width int

	// Style is how the cell is painted.
	Style Style
}

// EmptyCell returns a blank cell with the default style.
func EmptyCell() Cell {
	return Cell{Rune: ' ', Width: 1}
}

// NewCell creates a cell for the given rune with the default style.
func NewCell(r rune) Cell {
	return Cell{Rune: r, Width: RuneWidth(r)}
}

// NewStyledCell creates a cell for the given rune and style.
func NewStyledCell(r rune, style Style) Cell {
	return Cell{Rune: r, Width: RuneWidth(r), Style: style}
}

// ContinuationCell returns the placeholder occupying the second column
// of a wide rune.
func ContinuationCell(style Style) Cell {
	return Cell{Style: style}
}

// WithStyle returns a copy of the cell with the style replaced.
func (c Cell) WithStyle(style Style) Cell {
	c.Style = style
	return c
}

// IsContinuation reports whether the cell is a wide-rune continuation.
func (c Cell) IsContinuation() bool {
	return c.Width == 0 && c.Rune == 0
}

// Equals reports whether two cells are identical.
func (c Cell) Equals(other Cell) bool {
	return c.Rune == other.Rune &&
		c.Width == other.Width &&
		c.Style.Equals(other.Style)
}

// RuneWidth returns the number of columns a rune occupies: 0 for
// control and combining characters, 2 for wide East Asian runes, and
// 1 otherwise.
func RuneWidth(r rune) int {
	switch {
	case r == 0:
		return 0
	case r < 32 || (r >= 0x7f && r < 0xa0):
		return 0
	case r >= 0x0300 && r <= 0x036f:
		return 0
	case isWideRune(r):
		return 2
	default:
		return 1
	}
}

// isWideRune reports whether the rune takes two columns.
func isWideRune(r rune) bool {
	switch {
	case r >= 0x1100 && r <= 0x115f:
		return true
	case r >= 0x2e80 && r <= 0x303e:
		return true
	case r >= 0x3041 && r <= 0x33ff:
		return true
	case r >= 0x3400 && r <= 0x4dbf:
		return true
	case r >= 0x4e00 && r <= 0x9fff:
		return true
	case r >= 0xa000 && r <= 0xa4cf:
		return true
	case r >= 0xac00 && r <= 0xd7a3:
		return true
	case r >= 0xf900 && r <= 0xfaff:
		return true
	case r >= 0xfe30 && r <= 0xfe4f:
		return true
	case r >= 0xff00 && r <= 0xff60:
		return true
	case r >= 0xffe0 && r <= 0xffe6:
		return true
	case r >= 0x20000 && r <= 0x2fffd:
		return true
	case r >= 0x30000 && r <= 0x3fffd:
		return true
	}
	return false
}

// CellsFromString converts a string into styled cells. Wide runes emit
// a trailing continuation cell; zero-width runes are dropped.
func CellsFromString(s string, style Style) []Cell {
	cells := make([]Cell, 0, len(s))
	for _, r := range s {
		w := RuneWidth(r)
		if w == 0 {
			continue
		}
		cells = append(cells, Cell{Rune: r, Width: w, Style: style})
		if w == 2 {
			cells = append(cells, ContinuationCell(style))
		}
	}
	return cells
}

// StringFromCells reassembles the text content of a run of cells,
// skipping continuations.
func StringFromCells(cells []Cell) string {
	runes := make([]rune, 0, len(cells))
	for _, c := range cells {
		if c.IsContinuation() || c.Rune == 0 {
			continue
		}
		runes = append(runes, c.Rune)
	}
	return string(runes)
}

// Rect is an axis-aligned rectangle in screen cell coordinates, with
// the origin at the top left.
type Rect struct {
	// X, Y is the top-left corner.
	X, Y int

	// W, H are the width and height in cells.
	W, H int
}

// NewRect creates a rectangle from its top-left corner and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// IsEmpty reports whether the rectangle covers no cells.
func (r Rect) IsEmpty() bool {
	return r.W <= 0 || r.H <= 0
}

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// ContainsRect reports whether other lies entirely inside r.
func (r Rect) ContainsRect(other Rect) bool {
	if other.IsEmpty() {
		return false
	}
	return other.X >= r.X && other.X+other.W <= r.X+r.W &&
		other.Y >= r.Y && other.Y+other.H <= r.Y+r.H
}

// Intersects reports whether two rectangles overlap.
func (r Rect) Intersects(other Rect) bool {
	return !r.Intersection(other).IsEmpty()
}

// Intersection returns the overlapping region, or an empty rectangle
// when the two do not meet.
func (r Rect) Intersection(other Rect) Rect {
	x1 := max(r.X, other.X)
	y1 := max(r.Y, other.Y)
	x2 := min(r.X+r.W, other.X+other.W)
	y2 := min(r.Y+r.H, other.Y+other.H)
	if x2 <= x1 || y2 <= y1 {
		return Rect{}
	}
	return Rect{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
}

// Union returns the smallest rectangle covering both.
func (r Rect) Union(other Rect) Rect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	x1 := min(r.X, other.X)
	y1 := min(r.Y, other.Y)
	x2 := max(r.X+r.W, other.X+other.W)
	y2 := max(r.Y+r.H, other.Y+other.H)
	return Rect{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
}

// Clamp shifts and, if necessary, shrinks the rectangle to fit inside
// bounds.
func (r Rect) Clamp(bounds Rect) Rect {
	if r.W > bounds.W {
		r.W = bounds.W
	}
	if r.H > bounds.H {
		r.H = bounds.H
	}
	if r.X < bounds.X {
		r.X = bounds.X
	}
	if r.Y < bounds.Y {
		r.Y = bounds.Y
	}
	if r.X+r.W > bounds.X+bounds.W {
		r.X = bounds.X + bounds.W - r.W
	}
	if r.Y+r.H > bounds.Y+bounds.H {
		r.Y = bounds.Y + bounds.H - r.H
	}
	return r
}

// Equals reports whether two rectangles are identical.
func (r Rect) Equals(other Rect) bool {
	return r == other
}
