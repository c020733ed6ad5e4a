package flattree

import (
	"time"
)

// Config holds the per-control settings. Obtain defaults with DefaultConfig.
type Config struct {
	Indentation    int
	Spacing        int
	ToggleMode     ToggleMode
	ToggleSize     int // 0 means "same as Indentation"
	MarkMode       MarkMode
	AddExpanded    bool
	Padding        Padding
	IconSpacing    int
	BorderWidth    int
	GlyphSize      int
	ScrollbarSize  int
	ShowRename     bool
	ShowDragDrop   bool
	MarkWhenToggle bool
	FocusFeedback  bool
	RenameDelay    time.Duration

	Font           Font
	Foreground     Color
	Background     Color
	Highlight      Color
	HighlightAlpha uint8
	BorderColor    Color

	Images Images
}

// DefaultConfig returns the settings a new control starts with.
func DefaultConfig() Config {
	return Config{
		Indentation:    16,
		AddExpanded:    true,
		Padding:        Padding{H: 2, V: 2},
		IconSpacing:    2,
		GlyphSize:      9,
		FocusFeedback:  true,
		RenameDelay:    500 * time.Millisecond,
		Font:           Font{Typeface: "Sans", Size: 10},
		Foreground:     RGB(0, 0, 0),
		Background:     RGB(255, 255, 255),
		Highlight:      RGB(8, 36, 107),
		HighlightAlpha: 128,
		BorderColor:    RGB(160, 160, 160),
	}
}

func (cfg Config) toggleSize() int {
	if cfg.ToggleSize > 0 {
		return cfg.ToggleSize
	}
	return cfg.Indentation
}

// Control is a flat tree. Create it with New; the zero value is not usable.
type Control struct {
	cfg  Config
	cb   Callbacks
	host Host

	nodes []node
	free  []handle
	ids   []handle

	images map[string]Image

	focus       int
	markStart   int
	hasFocus    bool
	lastAddNode int

	// Canvas size and scroll position, in canvas units.
	canvasW, canvasH int
	posX, posY       int
	pageW, pageH     int

	draggedPos  int
	dragOverPos int
	lastClick   time.Time
	renaming    int

	dirty          bool
	mapped         bool
	closeRequested bool
}

// New creates an empty control.
func New(cfg Config, host Host) *Control {
	if host.Metrics == nil {
		host.Metrics = CellMetrics{}
	}
	if host.Scrollbars == nil {
		host.Scrollbars = noScrollbars{}
	}
	if host.Updater == nil {
		host.Updater = noUpdater{}
	}
	if host.Clock == nil {
		host.Clock = time.Now
	}
	if cfg.Indentation <= 0 {
		cfg.Indentation = 1
	}
	c := &Control{
		cfg:         cfg,
		host:        host,
		images:      make(map[string]Image),
		focus:       -1,
		markStart:   -1,
		lastAddNode: -1,
		draggedPos:  -1,
		dragOverPos: -1,
		renaming:    -1,
	}
	c.resetArena()
	return c
}

func (c *Control) resetArena() {
	root := newNode("", Branch)
	root.state = Expanded
	c.nodes = []node{root}
	c.free = c.free[:0]
	c.ids = c.ids[:0]
}

// SetCallbacks replaces the notification callbacks.
func (c *Control) SetCallbacks(cb Callbacks) {
	c.cb = cb
}

// Config returns a copy of the current settings.
func (c *Control) Config() Config {
	return c.cfg
}

// SetConfig applies new settings, recomputing every cached row size. Switching
// to SINGLE mark mode keeps only the focus node's selection.
func (c *Control) SetConfig(cfg Config) {
	if cfg.Indentation <= 0 {
		cfg.Indentation = 1
	}
	toSingle := c.cfg.MarkMode == MarkMultiple && cfg.MarkMode == MarkSingle
	c.cfg = cfg
	if toSingle {
		c.clearAllExcept(c.nodeByID(c.focus))
		c.markStart = -1
	}
	c.recomputeAll()
	c.invalidate()
}

// SetMarkMode changes only the mark mode.
func (c *Control) SetMarkMode(m MarkMode) {
	cfg := c.cfg
	cfg.MarkMode = m
	c.SetConfig(cfg)
}

// RegisterImage names an image so it can be assigned with SetImageNamed.
func (c *Control) RegisterImage(name string, img Image) {
	c.images[name] = img
}

// LookupImage returns a registered image.
func (c *Control) LookupImage(name string) (Image, bool) {
	img, ok := c.images[name]
	return img, ok
}

// invalidate marks the control dirty; the host is asked for a repaint only on
// the clean to dirty transition.
func (c *Control) invalidate() {
	if c.dirty {
		return
	}
	c.dirty = true
	if c.mapped {
		c.host.Updater.RequestUpdate()
	}
}

// Dirty reports whether a repaint is pending.
func (c *Control) Dirty() bool {
	return c.dirty
}

// Map is called when the host shows the control.
func (c *Control) Map() {
	c.mapped = true
	c.updateScrollbars()
	if c.dirty {
		c.host.Updater.RequestUpdate()
	}
}

// Unmap is called when the host hides the control.
func (c *Control) Unmap() {
	c.mapped = false
	c.hideEditor()
}

// Destroy releases every node. The control stays usable as an empty tree.
func (c *Control) Destroy() {
	c.hideEditor()
	c.resetArena()
	c.resetCursor()
	c.mapped = false
}

func (c *Control) resetCursor() {
	c.focus = -1
	c.markStart = -1
	c.draggedPos = -1
	c.dragOverPos = -1
	c.posX, c.posY = 0, 0
}

// CloseRequested reports whether a callback answered ActionClose.
func (c *Control) CloseRequested() bool {
	return c.closeRequested
}

// HasFocus reports whether the control owns keyboard focus.
func (c *Control) HasFocus() bool {
	return c.hasFocus
}

// Editor returns the rename editor, if any.
func (c *Control) Editor() TextEditor {
	return c.host.Editor
}

// Renaming returns the id being renamed, or -1.
func (c *Control) Renaming() int {
	return c.renaming
}

func (c *Control) hideEditor() {
	if c.host.Editor != nil && c.host.Editor.Visible() {
		c.host.Editor.Hide()
	}
	c.renaming = -1
}
