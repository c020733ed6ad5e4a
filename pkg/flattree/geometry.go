package flattree

// geometry.go - row sizes, visibility, content extent, hit-testing and the
// scroll model. Content coordinates start at the top-left of the first row;
// canvas coordinates include the border and the scroll offset.

// effectiveImage picks the icon drawn for a node.
func (c *Control) effectiveImage(n *node) Image {
	switch {
	case n.kind == Leaf:
		if n.image != nil {
			return n.image
		}
		return c.cfg.Images.Leaf
	case n.state == Expanded:
		if n.imageExpanded != nil {
			return n.imageExpanded
		}
		return c.cfg.Images.Expanded
	default:
		if n.image != nil {
			return n.image
		}
		return c.cfg.Images.Collapsed
	}
}

func (c *Control) effectiveFont(n *node) Font {
	if n.font != nil {
		return *n.font
	}
	return c.cfg.Font
}

// iconText measures the icon and title box of a node, padding included.
func (c *Control) iconText(n *node) (w, h int) {
	img := c.effectiveImage(n)
	var iw, ih, tw, th int
	if img != nil {
		iw, ih = img.Size()
	}
	if n.title != "" {
		tw, th = c.host.Metrics.TextSize(c.effectiveFont(n), n.title)
	}
	w = iw + tw
	if img != nil && n.title != "" {
		w += c.cfg.IconSpacing
	}
	h = max(ih, th)
	return w + 2*c.cfg.Padding.H, h + 2*c.cfg.Padding.V
}

func (c *Control) toggleShown(n *node) bool {
	return c.cfg.ToggleMode != ToggleHidden && n.toggleVisible
}

func (c *Control) toggleGap(n *node) int {
	if c.toggleShown(n) {
		return c.cfg.toggleSize()
	}
	return 0
}

func (c *Control) recomputeSize(h handle) {
	c.sizeAt(h, c.depth(h))
}

func (c *Control) sizeAt(h handle, depth int) {
	n := &c.nodes[h]
	w, ht := c.iconText(n)
	n.width = w + (depth+1)*c.cfg.Indentation + c.toggleGap(n)
	n.height = ht
}

// recomputeSubtree refreshes the cached sizes of h and its descendants.
func (c *Control) recomputeSubtree(h handle) {
	var walk func(h handle, depth int)
	walk = func(h handle, depth int) {
		c.sizeAt(h, depth)
		for ch := c.nodes[h].firstChild; ch != noHandle; ch = c.nodes[ch].nextSibling {
			walk(ch, depth+1)
		}
	}
	walk(h, c.depth(h))
}

func (c *Control) recomputeAll() {
	for ch := c.nodes[rootHandle].firstChild; ch != noHandle; ch = c.nodes[ch].nextSibling {
		c.recomputeSubtree(ch)
	}
	c.updateScrollbars()
}

// isVisible reports whether no strict ancestor of h is collapsed.
func (c *Control) isVisible(h handle) bool {
	for p := c.nodes[h].parent; p != rootHandle && p != noHandle; p = c.nodes[p].parent {
		if c.nodes[p].state == Collapsed {
			return false
		}
	}
	return true
}

// IsVisible reports whether the node is reachable without expanding anything.
func (c *Control) IsVisible(id int) bool {
	h, ok := c.handleOf(id)
	return ok && c.isVisible(h)
}

// NextVisible returns the next visible id after id, or id itself at the end.
func (c *Control) NextVisible(id int) int {
	for i := id + 1; i < len(c.ids); i++ {
		if c.isVisible(c.ids[i]) {
			return i
		}
	}
	return id
}

// PreviousVisible returns the previous visible id before id, or id itself at
// the start.
func (c *Control) PreviousVisible(id int) int {
	for i := min(id, len(c.ids)) - 1; i >= 0; i-- {
		if c.isVisible(c.ids[i]) {
			return i
		}
	}
	return id
}

// nextShown walks visible nodes only: children of collapsed branches are
// skipped as a whole.
func (c *Control) nextShown(h handle) handle {
	n := &c.nodes[h]
	if n.firstChild != noHandle && n.state == Expanded {
		return n.firstChild
	}
	return c.skip(h)
}

type row struct {
	h    handle
	id   int
	y    int
	ht   int
	last bool // last sibling
}

// rows lists the visible rows with their content y.
func (c *Control) rows() []row {
	var out []row
	y := 0
	for h := c.nodes[rootHandle].firstChild; h != noHandle; h = c.nextShown(h) {
		n := &c.nodes[h]
		out = append(out, row{h: h, id: n.id, y: y, ht: n.height, last: n.nextSibling == noHandle})
		y += n.height + c.cfg.Spacing
	}
	return out
}

// VisibleCount returns the number of visible rows.
func (c *Control) VisibleCount() int {
	n := 0
	for h := c.nodes[rootHandle].firstChild; h != noHandle; h = c.nextShown(h) {
		n++
	}
	return n
}

// IDToPos returns the row position of a visible node, or -1.
func (c *Control) IDToPos(id int) int {
	h, ok := c.handleOf(id)
	if !ok || !c.isVisible(h) {
		return -1
	}
	pos := 0
	for x := c.nodes[rootHandle].firstChild; x != h; x = c.nextShown(x) {
		pos++
	}
	return pos
}

// PosToID returns the id shown at row position pos, or -1.
func (c *Control) PosToID(pos int) int {
	if pos < 0 {
		return -1
	}
	for h := c.nodes[rootHandle].firstChild; h != noHandle; h = c.nextShown(h) {
		if pos == 0 {
			return c.nodes[h].id
		}
		pos--
	}
	return -1
}

// IDToY returns the content y and height of a visible node.
func (c *Control) IDToY(id int) (y, h int, ok bool) {
	target, found := c.handleOf(id)
	if !found || !c.isVisible(target) {
		return 0, 0, false
	}
	for x := c.nodes[rootHandle].firstChild; x != noHandle; x = c.nextShown(x) {
		if x == target {
			return y, c.nodes[x].height, true
		}
		y += c.nodes[x].height + c.cfg.Spacing
	}
	return 0, 0, false
}

// XYToPos maps a content y to a row position. The spacing below a row belongs
// to that row. It returns -1 outside the rows.
func (c *Control) XYToPos(y int) int {
	if y < 0 {
		return -1
	}
	pos, top := 0, 0
	for h := c.nodes[rootHandle].firstChild; h != noHandle; h = c.nextShown(h) {
		bottom := top + c.nodes[h].height + c.cfg.Spacing
		if y < bottom {
			return pos
		}
		top = bottom
		pos++
	}
	return -1
}

// ViewExtent returns the content size: the widest visible row and the sum of
// visible row heights plus spacing. A drop zone of half an indentation is
// added when drag-drop is enabled.
func (c *Control) ViewExtent() (w, h int) {
	for x := c.nodes[rootHandle].firstChild; x != noHandle; x = c.nextShown(x) {
		n := &c.nodes[x]
		h += n.height + c.cfg.Spacing
		w = max(w, n.width)
	}
	if c.cfg.ShowDragDrop {
		h += c.cfg.Indentation / 2
	}
	return w, h
}

// HitPart names the zone of a row under the pointer.
type HitPart int

const (
	HitNone   HitPart = iota
	HitGlyph          // expand/collapse glyph of a branch
	HitToggle         // toggle box
	HitTitle          // icon and title
	HitRow            // anywhere else on the row
)

// Hit is the result of hit-testing a canvas point.
type Hit struct {
	ID   int
	Part HitPart
}

// toContent converts canvas coordinates to content coordinates.
func (c *Control) toContent(x, y int) (int, int) {
	bw := c.cfg.BorderWidth
	return x - bw + c.posX, y - bw + c.posY
}

// HitTest resolves a canvas point to a node and zone.
func (c *Control) HitTest(x, y int) Hit {
	cx, cy := c.toContent(x, y)
	id := c.PosToID(c.XYToPos(cy))
	if id < 0 {
		return Hit{ID: -1, Part: HitNone}
	}
	h := c.ids[id]
	n := &c.nodes[h]
	d := c.depth(h)
	ind := c.cfg.Indentation
	x0 := (d + 1) * ind
	gap := c.toggleGap(n)

	switch {
	case n.kind == Branch && cx >= d*ind && cx < x0:
		return Hit{ID: id, Part: HitGlyph}
	case gap > 0 && cx >= x0 && cx < x0+gap:
		return Hit{ID: id, Part: HitToggle}
	case cx >= x0+gap && cx < n.width:
		return Hit{ID: id, Part: HitTitle}
	}
	return Hit{ID: id, Part: HitRow}
}

// TitleRect returns the canvas rectangle of a node's icon and title span, the
// place where the rename editor is shown.
func (c *Control) TitleRect(id int) (Rect, bool) {
	y, ht, ok := c.IDToY(id)
	if !ok {
		return Rect{}, false
	}
	h := c.ids[id]
	n := &c.nodes[h]
	x := (c.depth(h)+1)*c.cfg.Indentation + c.toggleGap(n)
	bw := c.cfg.BorderWidth
	return Rect{X: x - c.posX + bw, Y: y - c.posY + bw, W: n.width - x, H: ht}, true
}

// Resize tells the control its canvas size.
func (c *Control) Resize(w, h int) {
	c.canvasW, c.canvasH = w, h
	c.updateScrollbars()
	c.invalidate()
}

// Size returns the canvas size last passed to Resize.
func (c *Control) Size() (w, h int) {
	return c.canvasW, c.canvasH
}

// Page returns the visible content area, scrollbars and border excluded.
func (c *Control) Page() (w, h int) {
	return c.pageW, c.pageH
}

// Scroll returns the scroll position.
func (c *Control) Scroll() (x, y int) {
	return c.posX, c.posY
}

// ScrollTo sets the scroll position, clamped to the content.
func (c *Control) ScrollTo(x, y int) {
	c.posX, c.posY = x, y
	c.updateScrollbars()
	c.invalidate()
}

// updateScrollbars recomputes the page size and pushes both scroll ranges.
// A scrollbar needed on one axis shrinks the page of the other, which may in
// turn require the second scrollbar.
func (c *Control) updateScrollbars() {
	bw := c.cfg.BorderWidth
	cw, ch := c.canvasW-2*bw, c.canvasH-2*bw
	vw, vh := c.ViewExtent()
	sb := c.cfg.ScrollbarSize
	fullW, fullH := cw, ch

	if vh > fullH {
		cw -= sb
	}
	if vw > fullW {
		ch -= sb
	}
	if vh <= fullH && vh > ch {
		cw -= sb
	}
	if vw <= fullW && vw > cw {
		ch -= sb
	}
	c.pageW, c.pageH = max(cw, 0), max(ch, 0)

	c.posX = clamp(c.posX, 0, max(vw-c.pageW, 0))
	c.posY = clamp(c.posY, 0, max(vh-c.pageH, 0))

	line := c.cfg.Indentation
	c.host.Scrollbars.SetScroll(Horizontal, ScrollRange{Max: vw, Page: c.pageW, Line: line, Pos: c.posX})
	c.host.Scrollbars.SetScroll(Vertical, ScrollRange{Max: vh, Page: c.pageH, Line: line, Pos: c.posY})
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// ScrollDirection hints how ScrollFocusVisible aligns rows taller than the
// viewport.
type ScrollDirection int

const (
	ScrollDown ScrollDirection = iota
	ScrollUp
)

// ScrollFocusVisible scrolls vertically until the focus row is inside the
// viewport. It does nothing when the row is already fully visible.
func (c *Control) ScrollFocusVisible(dir ScrollDirection) {
	y, h, ok := c.IDToY(c.focus)
	if !ok {
		return
	}
	top, bottom := c.posY, c.posY+c.pageH
	if y >= top && y+h <= bottom {
		return
	}
	switch {
	case h > c.pageH && dir == ScrollUp:
		c.posY = y + h - c.pageH
	case h > c.pageH:
		c.posY = y
	case y+h > bottom:
		c.posY = y + h - c.pageH
	default:
		c.posY = y
	}
	c.updateScrollbars()
	c.invalidate()
}

// ScrollToTop scrolls so that the node's row starts at the top of the
// viewport.
func (c *Control) ScrollToTop(id int) bool {
	y, _, ok := c.IDToY(id)
	if !ok {
		return false
	}
	c.ScrollTo(c.posX, y)
	return true
}

// PageDown returns the id the focus moves to on a page-down: the last fully
// visible row, or a page below the focus when the focus already is that row.
func (c *Control) PageDown() int {
	rows := c.rows()
	fi := rowIndex(rows, c.focus)
	if fi < 0 {
		return c.NextVisible(c.focus)
	}
	f := rows[fi]
	bottom := c.posY + c.pageH

	target := -1
	if f.y >= c.posY && f.y+f.ht <= bottom {
		for _, r := range rows {
			if r.y+r.ht <= bottom {
				target = r.id
			}
		}
	}
	if target == c.focus || target < 0 {
		target = -1
		limit := f.y + c.pageH
		for _, r := range rows[fi:] {
			if r.y+r.ht > limit {
				break
			}
			target = r.id
		}
	}
	if target < 0 || target == c.focus {
		return c.NextVisible(c.focus)
	}
	return target
}

// PageUp mirrors PageDown: the first fully visible row, or a page above the
// focus.
func (c *Control) PageUp() int {
	rows := c.rows()
	fi := rowIndex(rows, c.focus)
	if fi < 0 {
		return c.PreviousVisible(c.focus)
	}
	f := rows[fi]
	bottom := c.posY + c.pageH

	target := -1
	if f.y >= c.posY && f.y+f.ht <= bottom {
		for _, r := range rows {
			if r.y >= c.posY {
				target = r.id
				break
			}
		}
	}
	if target == c.focus || target < 0 {
		target = -1
		limit := f.y + f.ht - c.pageH
		for i := fi; i >= 0; i-- {
			if rows[i].y < limit {
				break
			}
			target = rows[i].id
		}
	}
	if target < 0 || target == c.focus {
		return c.PreviousVisible(c.focus)
	}
	return target
}

func rowIndex(rows []row, id int) int {
	for i, r := range rows {
		if r.id == id {
			return i
		}
	}
	return -1
}
