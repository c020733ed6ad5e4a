package flattree

// interaction.go - pointer, keyboard and focus handling. Handlers never fail:
// an event that resolves to no node is dropped.

// MouseButton identifies a pointer button.
type MouseButton int

const (
	Button1 MouseButton = iota + 1
	Button2
	Button3
)

// Mods is the modifier and button state accompanying an event.
type Mods struct {
	Shift   bool
	Ctrl    bool
	Alt     bool
	Double  bool // second press of a double-click
	Button1 bool // button 1 held (motion events)
}

// ButtonEvent is a press or release in canvas coordinates.
type ButtonEvent struct {
	Button  MouseButton
	Pressed bool
	X, Y    int
	Mods    Mods
}

// Key is a navigation or command key understood by the control.
type Key int

const (
	KeyEnter Key = iota
	KeyUp
	KeyDown
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeySpace
	KeyF2
	KeyEscape
)

// DraggedPos returns the row position where a drag started, or -1.
func (c *Control) DraggedPos() int {
	return c.draggedPos
}

// DragOver returns the row position under a drag, or -1.
func (c *Control) DragOver() int {
	return c.dragOverPos
}

// Button handles a pointer button press or release.
func (c *Control) Button(ev ButtonEvent) {
	if c.cb.FlatButton != nil && c.fire(c.cb.FlatButton(ev)) == ActionIgnore {
		return
	}

	if ev.Button == Button1 && !ev.Pressed && c.draggedPos >= 0 {
		c.drop(ev)
		return
	}

	hit := c.HitTest(ev.X, ev.Y)
	if hit.ID < 0 {
		return
	}

	if ev.Button == Button3 {
		if ev.Pressed && c.cb.RightClick != nil {
			c.fire(c.cb.RightClick(hit.ID))
		}
		return
	}
	if ev.Button != Button1 || !ev.Pressed {
		return
	}

	h := c.ids[hit.ID]
	switch {
	case ev.Mods.Double && hit.Part == HitTitle:
		c.activate(hit.ID)
	case hit.Part == HitGlyph:
		c.setState(h, flip(c.nodes[h].state))
	case hit.Part == HitToggle:
		c.cycleToggle(hit.ID)
	default:
		now := c.host.Clock()
		if c.cfg.ShowRename && hit.Part == HitTitle && hit.ID == c.focus &&
			!c.lastClick.IsZero() && now.Sub(c.lastClick) >= c.cfg.RenameDelay {
			c.lastClick = now
			if c.cb.ShowRename != nil && c.fire(c.cb.ShowRename(hit.ID)) == ActionIgnore {
				return
			}
			c.StartRename()
			return
		}
		c.selectNode(hit.ID, ev.Mods.Ctrl, ev.Mods.Shift)
		if c.cfg.ShowDragDrop && c.cfg.MarkMode == MarkSingle {
			c.draggedPos = c.IDToPos(hit.ID)
		}
		c.lastClick = now
	}
	c.invalidate()
}

func flip(s State) State {
	if s == Expanded {
		return Collapsed
	}
	return Expanded
}

// activate runs the default action of a node: execute a leaf, or expand or
// collapse a branch with notification.
func (c *Control) activate(id int) {
	h := c.ids[id]
	n := &c.nodes[h]
	if n.kind == Leaf {
		if c.cb.ExecuteLeaf != nil {
			c.fire(c.cb.ExecuteLeaf(id, n.title))
		}
		return
	}
	next := flip(n.state)
	if !c.notifyBranch(id, next == Expanded) {
		return
	}
	c.setState(h, next)
}

// CycleToggle advances the toggle of id as a click on its box would. It
// reports false when the node shows no toggle.
func (c *Control) CycleToggle(id int) bool {
	h, ok := c.handleOf(id)
	if !ok || !c.toggleShown(&c.nodes[h]) {
		return false
	}
	c.cycleToggle(id)
	return true
}

// cycleToggle advances the toggle box: OFF to ON, ON to NOTDEF in three-state
// mode or to OFF otherwise, NOTDEF to OFF.
func (c *Control) cycleToggle(id int) {
	h := c.ids[id]
	n := &c.nodes[h]
	prev := n.toggle
	switch prev {
	case ToggleOn:
		if c.cfg.ToggleMode == ToggleThreeState {
			n.toggle = ToggleNotDef
		} else {
			n.toggle = ToggleOff
		}
	case ToggleNotDef:
		n.toggle = ToggleOff
	default:
		n.toggle = ToggleOn
	}
	value := n.toggle

	if c.cfg.MarkWhenToggle {
		if c.cfg.MarkMode == MarkMultiple {
			n.selected = value > 0
		} else {
			c.clearAllExcept(h)
			n.selected = true
			c.focus = id
		}
	}
	if c.cb.ToggleValue != nil {
		c.fire(c.cb.ToggleValue(id, value, prev))
	}
	c.invalidate()
}

// drop finishes a drag started on a row.
func (c *Control) drop(ev ButtonEvent) {
	defer func() {
		c.draggedPos = -1
		c.dragOverPos = -1
		c.updateScrollbars()
		c.invalidate()
	}()

	_, cy := c.toContent(ev.X, ev.Y)
	pos := c.XYToPos(cy)
	if pos < 0 {
		if cy < 0 {
			pos = 0
		} else {
			pos = c.VisibleCount() - 1
		}
	}

	drag, ctrl := c.draggedPos, ev.Mods.Ctrl
	if !ctrl && (drag-1 == pos || drag == pos) {
		return
	}
	if ctrl && drag == pos {
		return
	}

	src, dst := c.PosToID(drag), c.PosToID(pos)
	if src < 0 || dst < 0 {
		return
	}
	if c.cb.DragDrop != nil && c.fire(c.cb.DragDrop(src, dst, ev.Mods.Shift, ctrl)) != ActionContinue {
		return
	}

	var id int
	var err error
	if ctrl {
		id, err = c.Copy(src, dst)
	} else {
		id, err = c.Move(src, dst)
	}
	if err != nil {
		return
	}
	c.selectNode(id, false, false)
}

// Motion handles pointer movement. During a drag it tracks the row under the
// pointer and scrolls by one line when the pointer leaves the canvas.
func (c *Control) Motion(x, y int, mods Mods) {
	if c.cb.FlatMotion != nil && c.fire(c.cb.FlatMotion(x, y, mods)) == ActionIgnore {
		return
	}
	if !mods.Button1 || c.cfg.MarkMode != MarkSingle || !c.cfg.ShowDragDrop || c.draggedPos < 0 {
		return
	}

	switch {
	case y < 0:
		c.ScrollTo(c.posX, c.posY-c.cfg.Indentation)
	case y >= c.canvasH:
		c.ScrollTo(c.posX, c.posY+c.cfg.Indentation)
	}

	_, cy := c.toContent(x, y)
	pos := c.XYToPos(cy)
	if pos < 0 {
		return
	}
	c.dragOverPos = pos
	c.invalidate()
}

// Wheel scrolls by delta lines; positive delta scrolls up.
func (c *Control) Wheel(delta int) {
	c.ScrollTo(c.posX, c.posY-delta*c.cfg.Indentation)
}

// FocusChanged reports keyboard focus gained or lost.
func (c *Control) FocusChanged(focus bool) {
	if c.cb.FlatFocus != nil && c.fire(c.cb.FlatFocus(focus)) == ActionIgnore {
		return
	}
	c.hasFocus = focus
	c.invalidate()
}

// KeyPress handles a key while the control has focus. It reports whether the
// key was consumed.
func (c *Control) KeyPress(k Key, mods Mods) bool {
	if !c.hasFocus || len(c.ids) == 0 {
		return false
	}
	if c.renaming >= 0 {
		if k == KeyEscape {
			c.RenameCancel()
			return true
		}
		return false
	}

	switch k {
	case KeyEnter:
		if _, ok := c.handleOf(c.focus); !ok {
			return false
		}
		c.activate(c.focus)
		c.ScrollFocusVisible(ScrollDown)
	case KeyUp:
		if c.focus <= 0 {
			return true
		}
		c.step(c.PreviousVisible(c.focus), mods, ScrollUp)
	case KeyDown:
		if c.focus < 0 {
			c.step(0, mods, ScrollDown)
			return true
		}
		if c.focus >= len(c.ids)-1 {
			return true
		}
		c.step(c.NextVisible(c.focus), mods, ScrollDown)
	case KeyHome:
		c.step(c.PosToID(0), Mods{}, ScrollUp)
	case KeyEnd:
		c.step(c.PosToID(c.VisibleCount()-1), Mods{}, ScrollDown)
	case KeyPageUp:
		c.step(c.PageUp(), mods, ScrollUp)
	case KeyPageDown:
		c.step(c.PageDown(), mods, ScrollDown)
	case KeySpace:
		if !mods.Ctrl {
			return false
		}
		c.toggleMark()
	case KeyF2:
		c.StartRename()
	default:
		return false
	}
	c.invalidate()
	return true
}

// step moves the focus to id: ctrl moves the focus only, shift extends the
// selection from the mark start.
func (c *Control) step(id int, mods Mods, dir ScrollDirection) {
	if _, ok := c.handleOf(id); !ok {
		return
	}
	if mods.Ctrl {
		c.focus = id
	} else {
		c.selectNode(id, false, mods.Shift)
	}
	c.ScrollFocusVisible(dir)
}

// toggleMark flips the focused node's mark.
func (c *Control) toggleMark() {
	h, ok := c.handleOf(c.focus)
	if !ok {
		return
	}
	on := !c.nodes[h].selected
	if c.cfg.MarkMode == MarkSingle {
		for i, x := range c.ids {
			if x != h && c.nodes[x].selected {
				c.nodes[x].selected = false
				c.notifySelection(i, false)
			}
		}
	}
	c.nodes[h].selected = on
	c.notifySelection(c.focus, on)
}

// StartRename shows the editor over the focused node's title. It does
// nothing unless renaming is enabled and the control has focus.
func (c *Control) StartRename() bool {
	if !c.cfg.ShowRename || !c.hasFocus || c.host.Editor == nil {
		return false
	}
	h, ok := c.handleOf(c.focus)
	if !ok {
		return false
	}
	c.ScrollFocusVisible(ScrollDown)
	r, ok := c.TitleRect(c.focus)
	if !ok {
		return false
	}
	c.renaming = c.focus
	c.host.Editor.Show(r, c.nodes[h].title, c.effectiveFont(&c.nodes[h]))
	return true
}

// RenameCommit applies the edited title and hides the editor. A Rename
// callback answering ActionIgnore keeps the old title.
func (c *Control) RenameCommit(text string) {
	id := c.renaming
	c.hideEditor()
	if _, ok := c.handleOf(id); !ok {
		return
	}
	if c.cb.Rename != nil && c.fire(c.cb.Rename(id, text)) == ActionIgnore {
		c.invalidate()
		return
	}
	c.SetTitle(id, text)
}

// RenameCancel hides the editor without changing anything.
func (c *Control) RenameCancel() {
	c.hideEditor()
	c.invalidate()
}
