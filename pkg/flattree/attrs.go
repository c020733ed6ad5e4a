package flattree

// Per-node accessors. Every getter reports false when id does not resolve to
// a node; every setter returns false and changes nothing in that case.

// Title returns the node's title.
func (c *Control) Title(id int) (string, bool) {
	h, ok := c.handleOf(id)
	if !ok {
		return "", false
	}
	return c.nodes[h].title, true
}

// SetTitle replaces the node's title.
func (c *Control) SetTitle(id int, title string) bool {
	h, ok := c.handleOf(id)
	if !ok {
		return false
	}
	c.nodes[h].title = title
	c.nodeResized(h)
	return true
}

// Kind returns BRANCH or LEAF.
func (c *Control) Kind(id int) (Kind, bool) {
	h, ok := c.handleOf(id)
	if !ok {
		return Leaf, false
	}
	return c.nodes[h].kind, true
}

// State returns the expand state of a branch. It reports false for leaves.
func (c *Control) State(id int) (State, bool) {
	h, ok := c.handleOf(id)
	if !ok || c.nodes[h].kind == Leaf {
		return NoState, false
	}
	return c.nodes[h].state, true
}

// SetState expands or collapses a branch. No notification is fired. When the
// focus ends up hidden under the collapsed branch, it moves to the branch.
func (c *Control) SetState(id int, s State) bool {
	h, ok := c.handleOf(id)
	if !ok || c.nodes[h].kind == Leaf || s == NoState {
		return false
	}
	c.setState(h, s)
	return true
}

func (c *Control) setState(h handle, s State) {
	if c.nodes[h].state == s {
		return
	}
	c.nodes[h].state = s
	c.recomputeSize(h)
	if s == Collapsed {
		if f, ok := c.handleOf(c.focus); ok && f != h && c.within(f, h) {
			c.focusCollapsed(c.nodes[h].id)
		}
	}
	c.updateScrollbars()
	c.invalidate()
}

// ExpandAll sets every branch to expanded or collapsed.
func (c *Control) ExpandAll(expanded bool) {
	s := Collapsed
	if expanded {
		s = Expanded
	}
	for _, h := range c.ids {
		if c.nodes[h].kind == Branch && c.nodes[h].state != s {
			c.nodes[h].state = s
			c.recomputeSize(h)
		}
	}
	if !expanded {
		// Focus may now be hidden; climb to its top-level ancestor.
		if f, ok := c.handleOf(c.focus); ok {
			top := f
			for c.nodes[top].parent != rootHandle {
				top = c.nodes[top].parent
			}
			if top != f {
				c.focusCollapsed(c.nodes[top].id)
			}
		}
	}
	c.updateScrollbars()
	c.invalidate()
}

// Parent returns the parent's id, -1 for top-level nodes.
func (c *Control) Parent(id int) (int, bool) {
	h, ok := c.handleOf(id)
	if !ok {
		return -1, false
	}
	return c.nodes[c.nodes[h].parent].id, true
}

// Next returns the next sibling's id, or -1.
func (c *Control) Next(id int) (int, bool) {
	h, ok := c.handleOf(id)
	if !ok {
		return -1, false
	}
	return c.idOrNone(c.nodes[h].nextSibling), true
}

// Previous returns the previous sibling's id, or -1.
func (c *Control) Previous(id int) (int, bool) {
	h, ok := c.handleOf(id)
	if !ok {
		return -1, false
	}
	prev := noHandle
	for s := c.nodes[c.nodes[h].parent].firstChild; s != h; s = c.nodes[s].nextSibling {
		prev = s
	}
	return c.idOrNone(prev), true
}

// First returns the id of the first sibling in the node's sibling list.
func (c *Control) First(id int) (int, bool) {
	h, ok := c.handleOf(id)
	if !ok {
		return -1, false
	}
	return c.nodes[c.nodes[c.nodes[h].parent].firstChild].id, true
}

// Last returns the id of the last sibling in the node's sibling list.
func (c *Control) Last(id int) (int, bool) {
	h, ok := c.handleOf(id)
	if !ok {
		return -1, false
	}
	for c.nodes[h].nextSibling != noHandle {
		h = c.nodes[h].nextSibling
	}
	return c.nodes[h].id, true
}

func (c *Control) idOrNone(h handle) int {
	if h == noHandle {
		return -1
	}
	return c.nodes[h].id
}

// Depth returns the number of ancestors, 0 for top-level nodes.
func (c *Control) Depth(id int) (int, bool) {
	h, ok := c.handleOf(id)
	if !ok {
		return 0, false
	}
	return c.depth(h), true
}

func (c *Control) depth(h handle) int {
	d := 0
	for p := c.nodes[h].parent; p != rootHandle && p != noHandle; p = c.nodes[p].parent {
		d++
	}
	return d
}

// ChildCount returns the number of direct children.
func (c *Control) ChildCount(id int) (int, bool) {
	h, ok := c.handleOf(id)
	if !ok {
		return 0, false
	}
	n := 0
	for ch := c.nodes[h].firstChild; ch != noHandle; ch = c.nodes[ch].nextSibling {
		n++
	}
	return n, true
}

// TotalChildCount returns the number of descendants.
func (c *Control) TotalChildCount(id int) (int, bool) {
	h, ok := c.handleOf(id)
	if !ok {
		return 0, false
	}
	return c.subtreeSize(h) - 1, true
}

// RootCount returns the number of top-level nodes.
func (c *Control) RootCount() int {
	n := 0
	for ch := c.nodes[rootHandle].firstChild; ch != noHandle; ch = c.nodes[ch].nextSibling {
		n++
	}
	return n
}

// TitleFont returns the node's effective font and whether it is an override.
func (c *Control) TitleFont(id int) (f Font, own bool, ok bool) {
	h, ok := c.handleOf(id)
	if !ok {
		return Font{}, false, false
	}
	if p := c.nodes[h].font; p != nil {
		return *p, true, true
	}
	return c.cfg.Font, false, true
}

// SetTitleFont sets the node's font override; nil reverts to the control font.
func (c *Control) SetTitleFont(id int, f *Font) bool {
	h, ok := c.handleOf(id)
	if !ok {
		return false
	}
	if f != nil {
		cp := *f
		f = &cp
	}
	c.nodes[h].font = f
	c.nodeResized(h)
	return true
}

// SetTitleFontStyle changes the style words of the node's effective font.
func (c *Control) SetTitleFontStyle(id int, style string) bool {
	f, _, ok := c.TitleFont(id)
	if !ok {
		return false
	}
	nf, err := f.WithStyle(style)
	if err != nil {
		return false
	}
	return c.SetTitleFont(id, &nf)
}

// SetTitleFontSize changes the size of the node's effective font.
func (c *Control) SetTitleFontSize(id, size int) bool {
	f, _, ok := c.TitleFont(id)
	if !ok || size <= 0 {
		return false
	}
	f.Size = size
	return c.SetTitleFont(id, &f)
}

// Color returns the node's foreground override.
func (c *Control) Color(id int) (Color, bool) {
	h, ok := c.handleOf(id)
	if !ok || c.nodes[h].color == nil {
		return Color{}, false
	}
	return *c.nodes[h].color, true
}

// SetColor sets the foreground override; nil clears it.
func (c *Control) SetColor(id int, col *Color) bool {
	h, ok := c.handleOf(id)
	if !ok {
		return false
	}
	c.nodes[h].color = copyColor(col)
	c.invalidate()
	return true
}

// BackColor returns the node's background override.
func (c *Control) BackColor(id int) (Color, bool) {
	h, ok := c.handleOf(id)
	if !ok || c.nodes[h].backColor == nil {
		return Color{}, false
	}
	return *c.nodes[h].backColor, true
}

// SetBackColor sets the background override; nil clears it.
func (c *Control) SetBackColor(id int, col *Color) bool {
	h, ok := c.handleOf(id)
	if !ok {
		return false
	}
	c.nodes[h].backColor = copyColor(col)
	c.invalidate()
	return true
}

func copyColor(col *Color) *Color {
	if col == nil {
		return nil
	}
	cp := *col
	return &cp
}

// ToggleValue returns the toggle value. It reports false when toggles are
// hidden or the node's toggle is not visible.
func (c *Control) ToggleValue(id int) (Toggle, bool) {
	h, ok := c.handleOf(id)
	if !ok || c.cfg.ToggleMode == ToggleHidden || !c.nodes[h].toggleVisible {
		return ToggleOff, false
	}
	return c.nodes[h].toggle, true
}

// SetToggleValue sets the toggle value without firing a notification.
// NOTDEF is only accepted in three-state mode; elsewhere it means OFF.
func (c *Control) SetToggleValue(id int, v Toggle) bool {
	h, ok := c.handleOf(id)
	if !ok || c.cfg.ToggleMode == ToggleHidden || !c.nodes[h].toggleVisible {
		return false
	}
	if v == ToggleNotDef && c.cfg.ToggleMode != ToggleThreeState {
		v = ToggleOff
	}
	c.nodes[h].toggle = v
	c.invalidate()
	return true
}

// ToggleVisible reports whether the node shows a toggle box.
func (c *Control) ToggleVisible(id int) (bool, bool) {
	h, ok := c.handleOf(id)
	if !ok || c.cfg.ToggleMode == ToggleHidden {
		return false, false
	}
	return c.nodes[h].toggleVisible, true
}

// SetToggleVisible shows or hides the node's toggle box.
func (c *Control) SetToggleVisible(id int, visible bool) bool {
	h, ok := c.handleOf(id)
	if !ok || c.cfg.ToggleMode == ToggleHidden {
		return false
	}
	c.nodes[h].toggleVisible = visible
	c.nodeResized(h)
	return true
}

// Image returns the node's own image and its registered name, if any.
func (c *Control) Image(id int) (Image, string, bool) {
	h, ok := c.handleOf(id)
	if !ok {
		return nil, "", false
	}
	return c.nodes[h].image, c.nodes[h].imageName, true
}

// SetImage sets the node's collapsed or leaf image; nil reverts to the default.
func (c *Control) SetImage(id int, img Image) bool {
	return c.setImage(id, img, "", false)
}

// SetImageNamed assigns a registered image. An empty name clears the image.
func (c *Control) SetImageNamed(id int, name string) bool {
	img, ok := c.images[name]
	if name != "" && !ok {
		return false
	}
	return c.setImage(id, img, name, false)
}

// ImageExpanded returns the node's expanded image and its registered name.
func (c *Control) ImageExpanded(id int) (Image, string, bool) {
	h, ok := c.handleOf(id)
	if !ok {
		return nil, "", false
	}
	return c.nodes[h].imageExpanded, c.nodes[h].imageExpandedName, true
}

// SetImageExpanded sets the image shown when the branch is expanded.
func (c *Control) SetImageExpanded(id int, img Image) bool {
	return c.setImage(id, img, "", true)
}

// SetImageExpandedNamed assigns a registered expanded image.
func (c *Control) SetImageExpandedNamed(id int, name string) bool {
	img, ok := c.images[name]
	if name != "" && !ok {
		return false
	}
	return c.setImage(id, img, name, true)
}

func (c *Control) setImage(id int, img Image, name string, expanded bool) bool {
	h, ok := c.handleOf(id)
	if !ok {
		return false
	}
	n := &c.nodes[h]
	if expanded {
		n.imageExpanded, n.imageExpandedName = img, name
	} else {
		n.image, n.imageName = img, name
	}
	c.nodeResized(h)
	return true
}

// UserData returns the node's opaque user data.
func (c *Control) UserData(id int) (any, bool) {
	h, ok := c.handleOf(id)
	if !ok {
		return nil, false
	}
	return c.nodes[h].userdata, true
}

// SetUserData stores opaque user data on the node.
func (c *Control) SetUserData(id int, v any) bool {
	h, ok := c.handleOf(id)
	if !ok {
		return false
	}
	c.nodes[h].userdata = v
	return true
}

func (c *Control) nodeResized(h handle) {
	c.recomputeSize(h)
	c.updateScrollbars()
	c.invalidate()
}
