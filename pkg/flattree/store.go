package flattree

// store.go - the node arena: allocation, linking and structural edits.

func (c *Control) alloc(n node) handle {
	if k := len(c.free); k > 0 {
		h := c.free[k-1]
		c.free = c.free[:k-1]
		c.nodes[h] = n
		return h
	}
	c.nodes = append(c.nodes, n)
	return handle(len(c.nodes) - 1)
}

// release frees h and its whole subtree, children before parent.
func (c *Control) release(h handle) {
	for ch := c.nodes[h].firstChild; ch != noHandle; {
		next := c.nodes[ch].nextSibling
		c.release(ch)
		ch = next
	}
	c.nodes[h] = node{id: -1, parent: noHandle, firstChild: noHandle, nextSibling: noHandle}
	c.free = append(c.free, h)
}

// linkFirstChild prepends h to parent's child list.
func (c *Control) linkFirstChild(parent, h handle) {
	c.nodes[h].parent = parent
	c.nodes[h].nextSibling = c.nodes[parent].firstChild
	c.nodes[parent].firstChild = h
}

// linkAfter makes h the next sibling of ref.
func (c *Control) linkAfter(ref, h handle) {
	c.nodes[h].parent = c.nodes[ref].parent
	c.nodes[h].nextSibling = c.nodes[ref].nextSibling
	c.nodes[ref].nextSibling = h
}

// unlink detaches h from its parent. The preceding sibling is found by a
// linear scan of the sibling chain.
func (c *Control) unlink(h handle) {
	p := c.nodes[h].parent
	if c.nodes[p].firstChild == h {
		c.nodes[p].firstChild = c.nodes[h].nextSibling
	} else {
		prev := c.nodes[p].firstChild
		for c.nodes[prev].nextSibling != h {
			prev = c.nodes[prev].nextSibling
		}
		c.nodes[prev].nextSibling = c.nodes[h].nextSibling
	}
	c.nodes[h].parent = noHandle
	c.nodes[h].nextSibling = noHandle
}

// clone deep-copies h. Selection and user data are never copied.
func (c *Control) clone(h handle) handle {
	n := c.nodes[h]
	n.selected = false
	n.userdata = nil
	n.id = -1
	n.parent, n.firstChild, n.nextSibling = noHandle, noHandle, noHandle
	nh := c.alloc(n)

	last := noHandle
	for ch := c.nodes[h].firstChild; ch != noHandle; ch = c.nodes[ch].nextSibling {
		cc := c.clone(ch)
		c.nodes[cc].parent = nh
		if last == noHandle {
			c.nodes[nh].firstChild = cc
		} else {
			c.nodes[last].nextSibling = cc
		}
		last = cc
	}
	return nh
}

func (c *Control) subtreeSize(h handle) int {
	n := 1
	for ch := c.nodes[h].firstChild; ch != noHandle; ch = c.nodes[ch].nextSibling {
		n += c.subtreeSize(ch)
	}
	return n
}

// within reports whether h is anc or one of its descendants.
func (c *Control) within(h, anc handle) bool {
	for ; h != noHandle; h = c.nodes[h].parent {
		if h == anc {
			return true
		}
	}
	return false
}

func (c *Control) newBranchState() State {
	if c.cfg.AddExpanded {
		return Expanded
	}
	return Collapsed
}

// AddLeaf adds a leaf relative to ref: as ref's first child when ref is a
// branch, otherwise as its next sibling. It returns the new node's id.
func (c *Control) AddLeaf(ref int, title string) (int, bool) {
	return c.add(ref, Leaf, title, false)
}

// AddBranch is AddLeaf for a branch. The new branch is expanded or collapsed
// according to Config.AddExpanded.
func (c *Control) AddBranch(ref int, title string) (int, bool) {
	return c.add(ref, Branch, title, false)
}

// InsertLeaf adds a leaf as the next sibling of ref, whatever ref's kind.
func (c *Control) InsertLeaf(ref int, title string) (int, bool) {
	return c.add(ref, Leaf, title, true)
}

// InsertBranch adds a branch as the next sibling of ref.
func (c *Control) InsertBranch(ref int, title string) (int, bool) {
	return c.add(ref, Branch, title, true)
}

func (c *Control) add(ref int, kind Kind, title string, sibling bool) (int, bool) {
	n := newNode(title, kind)
	if kind == Branch {
		n.state = c.newBranchState()
	}

	wasEmpty := len(c.ids) == 0
	var h, anchor handle
	if ref == -1 && wasEmpty {
		h = c.alloc(n)
		c.linkFirstChild(rootHandle, h)
		anchor = rootHandle
	} else {
		if ref == -1 {
			ref = 0
		}
		r, ok := c.handleOf(ref)
		if !ok {
			return -1, false
		}
		c.hideEditor()
		h = c.alloc(n)
		if !sibling && c.nodes[r].kind == Branch {
			c.linkFirstChild(r, h)
		} else {
			c.linkAfter(r, h)
		}
		anchor = r
	}

	c.rebuildFrom(anchor, 1)
	id := c.nodes[h].id
	c.lastAddNode = id
	c.recomputeSize(h)

	if wasEmpty {
		c.focus = 0
	} else {
		c.shiftCursor(id, 1)
	}
	c.structureChanged()
	return id, true
}

// LastAddNode returns the id of the most recently added or inserted node, or
// -1 if nothing was added yet.
func (c *Control) LastAddNode() int {
	return c.lastAddNode
}

// shiftCursor keeps focus and mark start on the same nodes after n nodes were
// inserted at id.
func (c *Control) shiftCursor(id, n int) {
	if c.focus >= id {
		c.focus += n
	}
	if c.markStart >= id {
		c.markStart += n
	}
}

// Remove deletes the node at id and its subtree, or only its children when
// onlyChildren is set. Structural edits close a pending rename.
func (c *Control) Remove(id int, onlyChildren bool) bool {
	h, ok := c.handleOf(id)
	if !ok {
		return false
	}
	c.hideEditor()

	if onlyChildren {
		n := c.subtreeSize(h) - 1
		if n == 0 {
			return true
		}
		for ch := c.nodes[h].firstChild; ch != noHandle; {
			next := c.nodes[ch].nextSibling
			c.release(ch)
			ch = next
		}
		c.nodes[h].firstChild = noHandle
		c.rebuildFrom(h, -n)
		c.cursorRemoved(id+1, n)
	} else {
		n := c.subtreeSize(h)
		p := c.nodes[h].parent
		c.unlink(h)
		c.release(h)
		c.rebuildFrom(p, -n)
		c.cursorRemoved(id, n)
	}
	c.structureChanged()
	return true
}

// RemoveAll deletes every node.
func (c *Control) RemoveAll() {
	c.hideEditor()
	c.resetArena()
	c.resetCursor()
	c.structureChanged()
}

// RemoveMarked deletes every selected node together with its subtree.
func (c *Control) RemoveMarked() int {
	removed := 0
	for id := len(c.ids) - 1; id >= 0; id-- {
		if id >= len(c.ids) || !c.nodes[c.ids[id]].selected {
			continue
		}
		before := len(c.ids)
		c.Remove(id, false)
		removed += before - len(c.ids)
	}
	return removed
}

// cursorRemoved repairs focus, mark start and drag state after the ids
// [id, id+n) were removed.
func (c *Control) cursorRemoved(id, n int) {
	fix := func(v int) int {
		switch {
		case v < id:
			return v
		case v >= id+n:
			return v - n
		}
		return id
	}
	count := len(c.ids)
	c.focus = fix(c.focus)
	if c.focus >= count {
		c.focus = count - 1
	}
	c.markStart = fix(c.markStart)
	if c.markStart >= count {
		c.markStart = count - 1
	}
	c.draggedPos = -1
	c.dragOverPos = -1
}

// Move relocates the subtree at src to dst: as dst's first child when dst is
// an expanded branch, otherwise as its next sibling. It returns the moved
// node's new id.
func (c *Control) Move(src, dst int) (int, error) {
	hs, hd, err := c.relocation(src, dst)
	if err != nil {
		return -1, err
	}

	c.hideEditor()
	oldParent := c.nodes[hs].parent
	anchor := oldParent
	if c.nodes[hd].id < c.nodes[oldParent].id {
		anchor = hd
	}

	c.unlink(hs)
	c.place(hd, hs)
	c.rebuildFrom(anchor, 0)
	c.recomputeSubtree(hs)

	id := c.nodes[hs].id
	c.moveCursor(src, id, c.subtreeSize(hs))
	c.structureChanged()
	return id, nil
}

// Copy duplicates the subtree at src and places the copy at dst like Move.
// Selection and user data are not copied.
func (c *Control) Copy(src, dst int) (int, error) {
	hs, hd, err := c.relocation(src, dst)
	if err != nil {
		return -1, err
	}

	c.hideEditor()
	nh := c.clone(hs)
	c.place(hd, nh)
	n := c.subtreeSize(nh)
	c.rebuildFrom(hd, n)
	c.recomputeSubtree(nh)

	id := c.nodes[nh].id
	c.shiftCursor(id, n)
	c.structureChanged()
	return id, nil
}

func (c *Control) relocation(src, dst int) (handle, handle, error) {
	hs, ok := c.handleOf(src)
	if !ok {
		return noHandle, noHandle, ErrNoNode
	}
	hd, ok := c.handleOf(dst)
	if !ok {
		return noHandle, noHandle, ErrNoNode
	}
	if c.within(hd, hs) {
		return noHandle, noHandle, ErrCycle
	}
	return hs, hd, nil
}

func (c *Control) place(dst, h handle) {
	d := c.nodes[dst]
	if d.kind == Branch && d.state == Expanded {
		c.linkFirstChild(dst, h)
	} else {
		c.linkAfter(dst, h)
	}
}

// moveCursor follows focus and mark start when they point into a moved block
// of n ids that went from from to to.
func (c *Control) moveCursor(from, to, n int) {
	remap := func(v int) int {
		if v < 0 {
			return v
		}
		if v >= from && v < from+n {
			return to + (v - from)
		}
		if v >= from+n {
			v -= n
		}
		if v >= to {
			v += n
		}
		return v
	}
	c.focus = remap(c.focus)
	c.markStart = remap(c.markStart)
	c.draggedPos = -1
	c.dragOverPos = -1
}
