package flattree

// Action is a callback's answer to the control.
type Action int

const (
	ActionDefault  Action = iota
	ActionIgnore          // suppress the default handling
	ActionContinue        // proceed (drag-drop approval)
	ActionClose           // ask the host to close the dialog owning the control
)

// Callbacks are the notifications fired to the application. Every member is
// optional.
type Callbacks struct {
	ToggleValue    func(id int, value, previous Toggle) Action
	Selection      func(id int, on bool) Action
	MultiSelection func(diff string) Action
	BranchOpen     func(id int) Action
	BranchClose    func(id int) Action
	ExecuteLeaf    func(id int, title string) Action
	ShowRename     func(id int) Action
	Rename         func(id int, title string) Action
	DragDrop       func(src, dst int, shift, ctrl bool) Action
	RightClick     func(id int) Action

	// Pre-hooks run before the built-in handling of raw events.
	FlatButton func(ev ButtonEvent) Action
	FlatMotion func(x, y int, mods Mods) Action
	FlatFocus  func(focus bool) Action
}

func (c *Control) fire(a Action) Action {
	if a == ActionClose {
		c.closeRequested = true
	}
	return a
}

func (c *Control) notifySelection(id int, on bool) {
	if c.cb.Selection != nil {
		c.fire(c.cb.Selection(id, on))
	}
}

func (c *Control) notifyMulti(diff string) {
	if c.cb.MultiSelection != nil {
		c.fire(c.cb.MultiSelection(diff))
	}
}

// notifyBranch reports whether the expand/collapse may proceed.
func (c *Control) notifyBranch(id int, opening bool) bool {
	fn := c.cb.BranchClose
	if opening {
		fn = c.cb.BranchOpen
	}
	if fn == nil {
		return true
	}
	return c.fire(fn(id)) != ActionIgnore
}
