package flattree

import (
	"time"

	"github.com/mattn/go-runewidth"
)

// Rect is an axis-aligned rectangle in canvas units. W and H may be zero.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Intersects reports whether r and o overlap.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W && r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Metrics measures text in canvas units.
type Metrics interface {
	TextSize(f Font, s string) (w, h int)
}

// Image is an icon handle. The control only needs its size; the canvas knows
// how to paint it.
type Image interface {
	Size() (w, h int)
}

// Canvas is the drawing surface handed to Draw. Line endpoints are inclusive
// of the start and exclusive of the end so adjacent segments never overlap.
type Canvas interface {
	Metrics
	Size() (w, h int)
	FillRect(r Rect, c Color)
	Rect(r Rect, c Color)
	Line(x1, y1, x2, y2 int, c Color, dotted bool)
	Text(x, y int, s string, f Font, c Color)
	Image(img Image, x, y int, inactive bool)
	CheckMark(r Rect, c Color)
	FocusRect(r Rect)
}

// TextEditor is the single native child used for rename-in-place.
type TextEditor interface {
	Show(r Rect, text string, f Font)
	Hide()
	Visible() bool
}

// Axis names a scrollbar.
type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

// ScrollRange is the state pushed to a scrollbar: content size, page size,
// line step and current position.
type ScrollRange struct {
	Max, Page, Line, Pos int
}

// Scrollbars receives scroll ranges whenever the content extent, the canvas
// size or the scroll position changes.
type Scrollbars interface {
	SetScroll(a Axis, r ScrollRange)
}

// Updater asks the host for a repaint.
type Updater interface {
	RequestUpdate()
}

// Host bundles the collaborators a Control talks to. Nil members are replaced
// with inert defaults by New.
type Host struct {
	Metrics    Metrics
	Editor     TextEditor
	Scrollbars Scrollbars
	Updater    Updater
	Clock      func() time.Time
}

// CellMetrics measures text in terminal cells: one row high, as wide as the
// string's display width.
type CellMetrics struct{}

func (CellMetrics) TextSize(_ Font, s string) (int, int) {
	return runewidth.StringWidth(s), 1
}

// GlyphImage is an Image backed by a short string, used by cell canvases to
// paint icons as characters.
type GlyphImage string

func (g GlyphImage) Size() (int, int) {
	return runewidth.StringWidth(string(g)), 1
}

// Images are the shared default icons, injected through Config.
type Images struct {
	Leaf      Image
	Collapsed Image
	Expanded  Image
	Plus      Image
	Minus     Image
}

type noScrollbars struct{}

func (noScrollbars) SetScroll(Axis, ScrollRange) {}

type noUpdater struct{}

func (noUpdater) RequestUpdate() {}
