package flattree

// Draw paints the visible rows onto cv and clears the dirty flag. Rows
// outside the viewport are skipped.
func (c *Control) Draw(cv Canvas) {
	w, h := cv.Size()
	if w != c.canvasW || h != c.canvasH {
		c.canvasW, c.canvasH = w, h
		c.updateScrollbars()
	}

	cfg := &c.cfg
	bw := cfg.BorderWidth
	cv.FillRect(Rect{X: 0, Y: 0, W: w, H: h}, cfg.Background)

	ox, oy := bw-c.posX, bw-c.posY
	top, bottom := c.posY, c.posY+max(h-2*bw, 0)

	pos, y := 0, 0
	for x := c.nodes[rootHandle].firstChild; x != noHandle; x = c.nextShown(x) {
		n := &c.nodes[x]
		if y >= bottom {
			break
		}
		if y+n.height+cfg.Spacing > top {
			c.drawRow(cv, x, pos, ox, oy+y)
		}
		y += n.height + cfg.Spacing
		pos++
	}

	if bw > 0 {
		for i := 0; i < bw; i++ {
			cv.Rect(Rect{X: i, Y: i, W: w - 2*i, H: h - 2*i}, cfg.BorderColor)
		}
	}
	c.dirty = false
}

func (c *Control) drawRow(cv Canvas, h handle, pos, x, y int) {
	cfg := &c.cfg
	n := &c.nodes[h]
	d := c.depth(h)
	ind := cfg.Indentation
	ht := n.height

	fg := cfg.Foreground
	if n.color != nil {
		fg = *n.color
	}

	if d > 0 {
		vx := x + (d-1)*ind + ind/2
		mid := y + ht/2
		end := y + ht + cfg.Spacing
		if n.nextSibling == noHandle {
			end = mid
		}
		cv.Line(vx, y, vx, end, fg, true)
		cv.Line(vx, mid, x+d*ind+ind/2, mid, fg, true)

		k := d - 1
		for a := n.parent; k >= 1; a, k = c.nodes[a].parent, k-1 {
			if c.nodes[a].nextSibling != noHandle {
				ax := x + (k-1)*ind + ind/2
				cv.Line(ax, y, ax, y+ht+cfg.Spacing, fg, true)
			}
		}
	}

	if n.kind == Branch {
		glyph := cfg.Images.Plus
		if n.state == Expanded {
			glyph = cfg.Images.Minus
		}
		if glyph != nil {
			gw, gh := glyph.Size()
			cv.Image(glyph, x+d*ind+ind/2-gw/2, y+(ht-gh)/2, false)
		}
	}

	x0 := x + (d+1)*ind
	gap := c.toggleGap(n)
	if gap > 0 {
		c.drawToggle(cv, n.toggle, x0, y, gap, ht, fg)
	}

	tx := x0 + gap
	spanW := n.width - (d+1)*ind - gap

	img := c.effectiveImage(n)
	var iw, ih int
	if img != nil {
		iw, ih = img.Size()
	}
	textX := tx + cfg.Padding.H + iw
	if img != nil && n.title != "" {
		textX += cfg.IconSpacing
	}
	hl := Rect{X: textX - cfg.Padding.H, Y: y, W: tx + spanW - (textX - cfg.Padding.H), H: ht}
	if img == nil {
		hl = Rect{X: tx, Y: y, W: spanW, H: ht}
	}

	if n.backColor != nil {
		cv.FillRect(Rect{X: tx, Y: y, W: spanW, H: ht}, *n.backColor)
	}
	if n.selected || c.dragOverPos == pos {
		a := cfg.HighlightAlpha
		if c.dragOverPos == pos {
			a = uint8(int(a) * 2 / 3)
		}
		cv.FillRect(hl, cfg.Highlight.WithAlpha(a))
	}

	if img != nil {
		cv.Image(img, tx+cfg.Padding.H, y+(ht-ih)/2, false)
	}
	if n.title != "" {
		f := c.effectiveFont(n)
		_, th := cv.TextSize(f, n.title)
		cv.Text(textX, y+(ht-th)/2, n.title, f, fg)
	}

	if c.hasFocus && cfg.FocusFeedback && n.id == c.focus {
		cv.FocusRect(hl)
	}
}

// drawToggle paints a toggle box centered in a gap-wide column.
func (c *Control) drawToggle(cv Canvas, v Toggle, x, y, gap, ht int, fg Color) {
	s := min(gap, ht)
	m := s / 6
	box := Rect{X: x + (gap-s)/2 + m, Y: y + (ht-s)/2 + m, W: s - 2*m, H: s - 2*m}
	cv.Rect(box, fg)

	inner := box
	if in := max(box.W/4, 1); box.W > 2*in {
		inner = Rect{X: box.X + in, Y: box.Y + in, W: box.W - 2*in, H: box.H - 2*in}
	}
	switch v {
	case ToggleOn:
		cv.CheckMark(inner, fg)
	case ToggleNotDef:
		cv.FillRect(inner, fg)
	}
}
