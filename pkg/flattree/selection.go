package flattree

import (
	"strconv"
	"strings"
)

// Marked reports whether the node is selected.
func (c *Control) Marked(id int) (bool, bool) {
	h, ok := c.handleOf(id)
	if !ok {
		return false, false
	}
	return c.nodes[h].selected, true
}

// SetMarked sets the node's selection flag. In SINGLE mode selecting a node
// deselects every other node and moves the focus to it.
func (c *Control) SetMarked(id int, on bool) bool {
	h, ok := c.handleOf(id)
	if !ok {
		return false
	}
	c.nodes[h].selected = on
	if on && c.cfg.MarkMode == MarkSingle {
		c.clearAllExcept(h)
		c.focus = id
	}
	c.invalidate()
	return true
}

// clearAllExcept deselects every node but keep (noHandle spares none).
func (c *Control) clearAllExcept(keep handle) {
	for _, h := range c.ids {
		if h != keep {
			c.nodes[h].selected = false
		}
	}
}

func (c *Control) requireMultiple() error {
	if c.cfg.MarkMode != MarkMultiple {
		return ErrWrongMode
	}
	return nil
}

// ClearAllExcept deselects every node except id (-1 spares none).
func (c *Control) ClearAllExcept(id int) error {
	if err := c.requireMultiple(); err != nil {
		return err
	}
	keep := noHandle
	if id >= 0 {
		h, ok := c.handleOf(id)
		if !ok {
			return ErrNoNode
		}
		keep = h
	}
	c.clearAllExcept(keep)
	c.invalidate()
	return nil
}

// SelectAll selects every node.
func (c *Control) SelectAll() error {
	if err := c.requireMultiple(); err != nil {
		return err
	}
	for _, h := range c.ids {
		c.nodes[h].selected = true
	}
	c.invalidate()
	return nil
}

// InvertAll flips every node's selection.
func (c *Control) InvertAll() error {
	if err := c.requireMultiple(); err != nil {
		return err
	}
	for _, h := range c.ids {
		c.nodes[h].selected = !c.nodes[h].selected
	}
	c.invalidate()
	return nil
}

// InvertOne flips one node's selection.
func (c *Control) InvertOne(id int) error {
	if err := c.requireMultiple(); err != nil {
		return err
	}
	h, ok := c.handleOf(id)
	if !ok {
		return ErrNoNode
	}
	c.nodes[h].selected = !c.nodes[h].selected
	c.invalidate()
	return nil
}

// SelectRange selects the inclusive span between a and b in either order.
// Ids outside the tree are ignored.
func (c *Control) SelectRange(a, b int) error {
	if err := c.requireMultiple(); err != nil {
		return err
	}
	c.selectRange(a, b)
	c.invalidate()
	return nil
}

func (c *Control) selectRange(a, b int) {
	if a > b {
		a, b = b, a
	}
	for i := max(a, 0); i <= b && i < len(c.ids); i++ {
		c.nodes[c.ids[i]].selected = true
	}
}

// MarkedNodes serializes the selection: one '+' or '-' per id.
func (c *Control) MarkedNodes() string {
	var b strings.Builder
	b.Grow(len(c.ids))
	for _, h := range c.ids {
		if c.nodes[h].selected {
			b.WriteByte('+')
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}

// SetMarkedNodes applies a '+'/'-' string to the first ids. Other characters
// leave their node unchanged. It fails in SINGLE mode.
func (c *Control) SetMarkedNodes(s string) bool {
	if c.cfg.MarkMode != MarkMultiple {
		return false
	}
	n := min(len(s), len(c.ids))
	for i := 0; i < n; i++ {
		switch s[i] {
		case '+':
			c.nodes[c.ids[i]].selected = true
		case '-':
			c.nodes[c.ids[i]].selected = false
		}
	}
	c.invalidate()
	return true
}

// Mark runs a selection command: BLOCK, CLEARALL, MARKALL, INVERTALL,
// INVERT<id> or "<id1>-<id2>". It fails in SINGLE mode or on malformed input.
func (c *Control) Mark(cmd string) bool {
	if c.cfg.MarkMode != MarkMultiple {
		return false
	}
	cmd = strings.TrimSpace(cmd)
	upper := strings.ToUpper(cmd)
	switch {
	case upper == "BLOCK":
		c.selectRange(c.markStart, c.focus)
	case upper == "CLEARALL":
		c.clearAllExcept(noHandle)
	case upper == "MARKALL":
		_ = c.SelectAll()
	case upper == "INVERTALL":
		_ = c.InvertAll()
	case strings.HasPrefix(upper, "INVERT"):
		id, err := strconv.Atoi(strings.TrimSpace(cmd[len("INVERT"):]))
		if err != nil {
			return false
		}
		if c.InvertOne(id) != nil {
			return false
		}
	default:
		a, b, ok := strings.Cut(cmd, "-")
		if !ok {
			return false
		}
		id1, err1 := strconv.Atoi(strings.TrimSpace(a))
		id2, err2 := strconv.Atoi(strings.TrimSpace(b))
		if err1 != nil || err2 != nil {
			return false
		}
		c.selectRange(id1, id2)
	}
	c.invalidate()
	return true
}

// MarkStart returns the anchor of shift-range gestures, or -1.
func (c *Control) MarkStart() int {
	return c.markStart
}

// SetMarkStart sets the range anchor. Out-of-range ids are ignored.
func (c *Control) SetMarkStart(id int) bool {
	if _, ok := c.handleOf(id); !ok {
		return false
	}
	c.markStart = id
	return true
}

// Select performs the click selection gesture on id. In MULTIPLE mode ctrl
// toggles the node, shift extends from the mark start, and the change is
// reported as a diff string ('+' selected, '-' deselected, 'x' unchanged).
// In SINGLE mode the node replaces the previous selection and takes focus.
func (c *Control) Select(id int, ctrl, shift bool) {
	if _, ok := c.handleOf(id); !ok {
		return
	}
	c.selectNode(id, ctrl, shift)
}

func (c *Control) selectNode(id int, ctrl, shift bool) {
	c.focus = id
	if c.cfg.MarkMode == MarkMultiple {
		c.selectMultiple(id, ctrl, shift)
	} else {
		c.selectSingle(id)
	}
	if !shift {
		c.markStart = id
	}
	c.invalidate()
}

func (c *Control) selectMultiple(id int, ctrl, shift bool) {
	diff := []byte(strings.Repeat("x", len(c.ids)))
	set := func(i int, on bool) {
		n := &c.nodes[c.ids[i]]
		if n.selected == on {
			return
		}
		n.selected = on
		if diff[i] == 'x' {
			if on {
				diff[i] = '+'
			} else {
				diff[i] = '-'
			}
		} else {
			// Flipped back within the same gesture.
			diff[i] = 'x'
		}
	}

	if !ctrl {
		for i := range c.ids {
			set(i, false)
		}
	}
	switch {
	case shift:
		anchor := c.markStart
		if anchor < 0 || anchor >= len(c.ids) {
			anchor = id
		}
		lo, hi := min(anchor, id), max(anchor, id)
		for i := lo; i <= hi; i++ {
			set(i, true)
		}
	case ctrl:
		set(id, !c.nodes[c.ids[id]].selected)
	default:
		set(id, true)
	}

	changed := false
	for _, ch := range diff {
		if ch != 'x' {
			changed = true
			break
		}
	}
	if !changed {
		return
	}
	if c.cb.MultiSelection != nil {
		c.notifyMulti(string(diff))
		return
	}
	for i, ch := range diff {
		if ch != 'x' {
			c.notifySelection(i, ch == '+')
		}
	}
}

func (c *Control) selectSingle(id int) {
	old := -1
	for i, h := range c.ids {
		if c.nodes[h].selected {
			if old < 0 {
				old = i
			}
			c.nodes[h].selected = false
		}
	}
	c.nodes[c.ids[id]].selected = true
	switch {
	case old < 0:
		c.notifySelection(id, true)
	case old != id:
		c.notifySelection(old, false)
		c.notifySelection(id, true)
	}
}

// focusCollapsed moves the focus to a branch that just hid it.
func (c *Control) focusCollapsed(id int) {
	if c.cfg.MarkMode == MarkSingle {
		c.selectNode(id, false, false)
		return
	}
	c.focus = id
}

// Focus returns the focus id, or -1.
func (c *Control) Focus() int {
	return c.focus
}

// SetFocus moves the focus to id. In SINGLE mode the node is selected too.
func (c *Control) SetFocus(id int) bool {
	if _, ok := c.handleOf(id); !ok {
		return false
	}
	c.moveFocus(id)
	return true
}

// moveFocus is the shared tail of programmatic focus changes.
func (c *Control) moveFocus(id int) {
	old := c.focus
	if id == old {
		return
	}
	c.focus = id
	if id >= 0 && c.cfg.MarkMode == MarkSingle {
		c.selectNode(id, false, false)
	}
	dir := ScrollDown
	if id < old {
		dir = ScrollUp
	}
	c.ScrollFocusVisible(dir)
	c.invalidate()
}

// Value returns the focus id as the VALUE attribute reports it: "-1" for an
// empty tree and "0" when the focus is invalid.
func (c *Control) Value() string {
	if c.focus < 0 || c.focus >= len(c.ids) {
		if len(c.ids) == 0 {
			return "-1"
		}
		return "0"
	}
	return strconv.Itoa(c.focus)
}

// SetValue moves the focus: ROOT, FIRST, LAST, PGUP, PGDN, NEXT, PREVIOUS,
// CLEAR or a numeric id.
func (c *Control) SetValue(v string) bool {
	var target int
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "ROOT", "FIRST":
		if len(c.ids) == 0 {
			return false
		}
		target = 0
	case "LAST":
		target = c.PosToID(c.VisibleCount() - 1)
	case "PGUP":
		target = c.PageUp()
	case "PGDN":
		target = c.PageDown()
	case "NEXT":
		target = c.NextVisible(c.focus)
	case "PREVIOUS":
		target = c.PreviousVisible(c.focus)
	case "CLEAR":
		c.focus = -1
		c.invalidate()
		return true
	default:
		id, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return false
		}
		target = id
	}
	if _, ok := c.handleOf(target); !ok {
		return false
	}
	c.moveFocus(target)
	return true
}
