package flattree

// rebuildFrom resizes the id index by delta slots and re-stamps every node
// that follows anchor in pre-order. anchor must be a node whose id did not
// change with the edit (the root, id -1, always qualifies). Nodes before the
// anchor are never visited.
func (c *Control) rebuildFrom(anchor handle, delta int) {
	switch {
	case delta > 0:
		for i := 0; i < delta; i++ {
			c.ids = append(c.ids, noHandle)
		}
	case delta < 0:
		c.ids = c.ids[:len(c.ids)+delta]
	}

	id := c.nodes[anchor].id + 1
	for h := c.successor(anchor); h != noHandle; h = c.successor(h) {
		c.ids[id] = h
		c.nodes[h].id = id
		id++
	}
}

// successor returns the node after h in pre-order, or noHandle.
func (c *Control) successor(h handle) handle {
	if fc := c.nodes[h].firstChild; fc != noHandle {
		return fc
	}
	return c.skip(h)
}

// skip returns the pre-order successor of h's subtree.
func (c *Control) skip(h handle) handle {
	for h != rootHandle && h != noHandle {
		if next := c.nodes[h].nextSibling; next != noHandle {
			return next
		}
		h = c.nodes[h].parent
	}
	return noHandle
}

func (c *Control) handleOf(id int) (handle, bool) {
	if id < 0 || id >= len(c.ids) {
		return noHandle, false
	}
	return c.ids[id], true
}

// nodeByID resolves id; -1 resolves to the focus node.
func (c *Control) nodeByID(id int) handle {
	if id == -1 {
		id = c.focus
	}
	h, ok := c.handleOf(id)
	if !ok {
		return noHandle
	}
	return h
}

// idOf finds h by scanning the index. The stamped node id must agree.
func (c *Control) idOf(h handle) int {
	if h == noHandle || h == rootHandle {
		return -1
	}
	for i, x := range c.ids {
		if x == h {
			return i
		}
	}
	return -1
}

// Resolve maps id to a live display id; -1 resolves to the focus node.
func (c *Control) Resolve(id int) (int, bool) {
	h := c.nodeByID(id)
	if h == noHandle {
		return -1, false
	}
	return c.nodes[h].id, true
}

// Count returns the number of nodes.
func (c *Control) Count() int {
	return len(c.ids)
}

// structureChanged runs after every structural edit.
func (c *Control) structureChanged() {
	c.updateScrollbars()
	c.invalidate()
}
