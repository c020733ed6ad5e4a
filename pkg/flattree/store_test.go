package flattree

import (
	"errors"
	"testing"

	"pgregory.net/rapid"
)

// TestAddSeedsEmptyTree verifies ref -1 creates the first top-level node
func TestAddSeedsEmptyTree(t *testing.T) {
	c := newTestControl()
	id, ok := c.AddBranch(-1, "A")
	if !ok || id != 0 {
		t.Fatalf("expected id 0, got %d (ok=%v)", id, ok)
	}
	if c.Count() != 1 || c.RootCount() != 1 {
		t.Errorf("expected 1 node and 1 root, got %d and %d", c.Count(), c.RootCount())
	}
	if c.Focus() != 0 {
		t.Errorf("expected focus 0 after seeding, got %d", c.Focus())
	}
	if c.LastAddNode() != 0 {
		t.Errorf("expected LastAddNode 0, got %d", c.LastAddNode())
	}
}

// TestAddInvalidRefIsNoop verifies adding relative to a missing node changes nothing
func TestAddInvalidRefIsNoop(t *testing.T) {
	c := newTestControl()
	if _, ok := c.AddLeaf(3, "x"); ok {
		t.Error("expected add on empty tree with ref 3 to fail")
	}
	build(t, c, "A\nB")
	before := dump(c)
	if _, ok := c.AddLeaf(7, "x"); ok {
		t.Error("expected add with out-of-range ref to fail")
	}
	if dump(c) != before {
		t.Errorf("tree changed: %s -> %s", before, dump(c))
	}
}

// TestAddPlacement verifies branches get a first child and leaves a next sibling
func TestAddPlacement(t *testing.T) {
	c := newTestControl()
	build(t, c, `
A/
  a1
B
`)
	id, _ := c.AddLeaf(0, "a0")
	if id != 1 {
		t.Errorf("expected new first child at id 1, got %d", id)
	}
	id, _ = c.AddLeaf(1, "a0b")
	if id != 2 {
		t.Errorf("expected sibling of a0 at id 2, got %d", id)
	}
	if got := shape(c); got != "A(a0 a0b a1) B" {
		t.Errorf("unexpected shape %q", got)
	}
	checkIndex(t, c)
}

// TestAddMinusOneMeansFirstNode verifies ref -1 on a non-empty tree targets node 0
func TestAddMinusOneMeansFirstNode(t *testing.T) {
	c := newTestControl()
	build(t, c, "A\nB")
	id, ok := c.AddLeaf(-1, "C")
	if !ok || id != 1 {
		t.Fatalf("expected C after A at id 1, got %d", id)
	}
	if got := titles(c); got != "A C B" {
		t.Errorf("expected A C B, got %q", got)
	}
}

// TestInsertIsAlwaysSibling verifies insert never nests under a branch
func TestInsertIsAlwaysSibling(t *testing.T) {
	c := newTestControl()
	build(t, c, `
A/
  a1
B
`)
	id, _ := c.InsertBranch(0, "X")
	if got := shape(c); got != "A(a1) X B" {
		t.Errorf("unexpected shape %q", got)
	}
	if id != 2 || c.LastAddNode() != 2 {
		t.Errorf("expected X at id 2, got %d (last add %d)", id, c.LastAddNode())
	}
	if k, _ := c.Kind(id); k != Branch {
		t.Errorf("expected BRANCH, got %v", k)
	}
}

// TestAddBranchUnderCollapsedBranch covers the collapsed-branch scenario
func TestAddBranchUnderCollapsedBranch(t *testing.T) {
	c := newTestControl(func(cfg *Config) { cfg.AddExpanded = false })
	c.AddBranch(-1, "A")
	c.InsertLeaf(0, "B")
	if s, _ := c.State(0); s != Collapsed {
		t.Fatalf("expected A collapsed, got %v", s)
	}

	id, ok := c.AddBranch(0, "C")
	if !ok || id != 1 {
		t.Fatalf("expected C at id 1, got %d", id)
	}
	if c.VisibleCount() != 2 {
		t.Errorf("expected 2 visible nodes, got %d", c.VisibleCount())
	}
	if c.Count() != 3 {
		t.Errorf("expected COUNT 3, got %d", c.Count())
	}
	if n, _ := c.ChildCount(0); n != 1 {
		t.Errorf("expected CHILDCOUNT 1, got %d", n)
	}
	if s, _ := c.State(0); s != Collapsed {
		t.Errorf("expected A to stay collapsed, got %v", s)
	}

	c.SetState(0, Expanded)
	if c.VisibleCount() != 3 {
		t.Errorf("expected 3 visible nodes after expand, got %d", c.VisibleCount())
	}
	if c.NextVisible(0) != 1 {
		t.Errorf("expected C right after A, got %d", c.NextVisible(0))
	}
}

// TestRemoveOnlyChildren verifies children go and the node stays
func TestRemoveOnlyChildren(t *testing.T) {
	c := newTestControl()
	build(t, c, `
A/
  a1/
    a11
  a2
B
`)
	if !c.Remove(0, true) {
		t.Fatal("expected remove to succeed")
	}
	if got := shape(c); got != "A B" {
		t.Errorf("unexpected shape %q", got)
	}
	if n, _ := c.ChildCount(0); n != 0 {
		t.Errorf("expected CHILDCOUNT 0, got %d", n)
	}
	if len(c.free) != 3 {
		t.Errorf("expected 3 recycled slots, got %d", len(c.free))
	}
	checkIndex(t, c)
}

// TestRemovePatchesSiblingChain verifies removing a middle sibling keeps the chain
func TestRemovePatchesSiblingChain(t *testing.T) {
	c := newTestControl()
	build(t, c, `
A/
  a1
  a2/
    x
  a3
B
`)
	c.Remove(2, false)
	if got := shape(c); got != "A(a1 a3) B" {
		t.Errorf("unexpected shape %q", got)
	}
	if next, _ := c.Next(1); next != 2 {
		t.Errorf("expected a1's next sibling at 2, got %d", next)
	}
	checkIndex(t, c)

	if c.Remove(9, false) {
		t.Error("expected remove of missing id to fail")
	}
}

// TestRemoveClampsFocus verifies focus stays in range after removal
func TestRemoveClampsFocus(t *testing.T) {
	c := newTestControl()
	build(t, c, "A\nB\nC")
	c.SetFocus(2)
	c.Remove(2, false)
	if c.Focus() != 1 {
		t.Errorf("expected focus 1, got %d", c.Focus())
	}
	c.RemoveAll()
	if c.Focus() != -1 || c.Count() != 0 {
		t.Errorf("expected empty tree with focus -1, got count %d focus %d", c.Count(), c.Focus())
	}
}

// TestRemoveMarked verifies every selected node goes with its subtree
func TestRemoveMarked(t *testing.T) {
	c := newTestControl(func(cfg *Config) { cfg.MarkMode = MarkMultiple })
	build(t, c, `
A/
  a1
  a2
B/
  b1
C
`)
	c.SetMarked(1, true)
	c.SetMarked(3, true)
	c.SetMarked(4, true)
	if n := c.RemoveMarked(); n != 3 {
		t.Errorf("expected 3 nodes removed, got %d", n)
	}
	if got := shape(c); got != "A(a2) C" {
		t.Errorf("unexpected shape %q", got)
	}
	checkIndex(t, c)
}

// TestMoveRejectsCycle verifies a node never becomes its own descendant
func TestMoveRejectsCycle(t *testing.T) {
	c := newTestControl()
	build(t, c, `
A/
  a1/
    a11
B
`)
	before := dump(c)
	for _, dst := range []int{0, 1, 2} {
		if _, err := c.Move(0, dst); !errors.Is(err, ErrCycle) {
			t.Errorf("move 0 -> %d: expected ErrCycle, got %v", dst, err)
		}
		if _, err := c.Copy(0, dst); !errors.Is(err, ErrCycle) {
			t.Errorf("copy 0 -> %d: expected ErrCycle, got %v", dst, err)
		}
	}
	if after := dump(c); after != before {
		t.Errorf("tree changed by rejected move:\n%s\n%s", before, after)
	}
	if _, err := c.Move(0, 12); !errors.Is(err, ErrNoNode) {
		t.Errorf("expected ErrNoNode, got %v", err)
	}
}

// TestMovePlacement verifies expanded branches receive a first child
func TestMovePlacement(t *testing.T) {
	c := newTestControl()
	build(t, c, `
A/
  a1
B/
  b1
C
`)
	id, err := c.Move(4, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := shape(c); got != "A(a1) B(C b1)" {
		t.Errorf("unexpected shape %q", got)
	}
	if id != 3 {
		t.Errorf("expected C at id 3, got %d", id)
	}
	if d, _ := c.Depth(id); d != 1 {
		t.Errorf("expected depth 1, got %d", d)
	}
	if w, want := c.nodes[c.ids[id]].width, 1+2*2; w != want {
		t.Errorf("expected width %d after move, got %d", want, w)
	}

	c.SetState(0, Collapsed)
	if _, err := c.Move(3, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := shape(c); got != "A(a1) C B(b1)" {
		t.Errorf("unexpected shape %q", got)
	}
	checkIndex(t, c)
}

// TestMoveKeepsFocusOnNode verifies focus follows a moved block
func TestMoveKeepsFocusOnNode(t *testing.T) {
	c := newTestControl()
	build(t, c, `
A/
  a1
B
C
`)
	c.SetFocus(3)
	c.Move(0, 3)
	if title, _ := c.Title(c.Focus()); title != "C" {
		t.Errorf("expected focus to stay on C, got %q", title)
	}
}

// TestCopyResetsSelectionAndUserData verifies clones drop marks and user data
func TestCopyResetsSelectionAndUserData(t *testing.T) {
	c := newTestControl(func(cfg *Config) { cfg.MarkMode = MarkMultiple })
	build(t, c, `
A/
  a1
B
`)
	c.SetMarked(0, true)
	c.SetMarked(1, true)
	c.SetUserData(0, "payload")
	c.SetUserData(1, 42)
	red := RGB(255, 0, 0)
	c.SetColor(1, &red)

	id, err := c.Copy(0, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := shape(c); got != "A(a1) B A(a1)" {
		t.Errorf("unexpected shape %q", got)
	}
	for i := id; i < c.Count(); i++ {
		if m, _ := c.Marked(i); m {
			t.Errorf("copy at %d is selected", i)
		}
		if ud, _ := c.UserData(i); ud != nil {
			t.Errorf("copy at %d has user data %v", i, ud)
		}
	}
	if col, ok := c.Color(id + 1); !ok || col != red {
		t.Errorf("expected copied color, got %v (ok=%v)", col, ok)
	}
	if ud, _ := c.UserData(0); ud != "payload" {
		t.Errorf("source lost its user data")
	}
	checkIndex(t, c)
}

// TestNavigationAccessors verifies PARENT/NEXT/PREVIOUS/FIRST/LAST/DEPTH
func TestNavigationAccessors(t *testing.T) {
	c := newTestControl()
	build(t, c, `
A/
  a1
  a2/
    x
  a3
B
`)
	check := func(name string, got, want int) {
		t.Helper()
		if got != want {
			t.Errorf("%s: expected %d, got %d", name, want, got)
		}
	}
	p, _ := c.Parent(3)
	check("parent", p, 2)
	p, _ = c.Parent(1)
	check("parent of first child", p, 0)
	p, _ = c.Parent(0)
	check("parent of top-level", p, -1)
	n, _ := c.Next(2)
	check("next", n, 4)
	n, _ = c.Next(4)
	check("next of last", n, -1)
	pr, _ := c.Previous(4)
	check("previous", pr, 2)
	pr, _ = c.Previous(1)
	check("previous of first", pr, -1)
	f, _ := c.First(4)
	check("first", f, 1)
	l, _ := c.Last(1)
	check("last", l, 4)
	d, _ := c.Depth(3)
	check("depth", d, 2)
	tc, _ := c.TotalChildCount(0)
	check("total child count", tc, 4)
	check("root count", c.RootCount(), 2)

	if _, ok := c.Parent(99); ok {
		t.Error("expected missing node to report false")
	}
}

// TestIndexProperty drives random edits and checks the id space after each
func TestIndexProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := newTestControl(func(cfg *Config) {
			cfg.AddExpanded = rapid.Bool().Draw(rt, "expanded")
		})
		steps := rapid.IntRange(1, 60).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			count := c.Count()
			ref := rapid.IntRange(-1, count).Draw(rt, "ref")
			switch rapid.IntRange(0, 6).Draw(rt, "op") {
			case 0:
				c.AddLeaf(ref, "l")
			case 1:
				c.AddBranch(ref, "b")
			case 2:
				c.InsertLeaf(ref, "i")
			case 3:
				c.Remove(ref, rapid.Bool().Draw(rt, "onlyChildren"))
			case 4:
				dst := rapid.IntRange(0, count).Draw(rt, "dst")
				before := dump(c)
				if _, err := c.Move(ref, dst); err != nil && dump(c) != before {
					rt.Fatalf("failed move changed the tree")
				}
			case 5:
				dst := rapid.IntRange(0, count).Draw(rt, "dst")
				c.Copy(ref, dst)
			case 6:
				if count > 0 {
					c.SetState(rapid.IntRange(0, count-1).Draw(rt, "toggle"), Collapsed)
				}
			}
			checkIndex(rt, c)
			if c.Focus() >= c.Count() {
				rt.Fatalf("focus %d out of range %d", c.Focus(), c.Count())
			}
		}
	})
}

// TestCloneProperty verifies copies never carry selection or user data
func TestCloneProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := newTestControl(func(cfg *Config) { cfg.MarkMode = MarkMultiple })
		c.AddBranch(-1, "root")
		n := rapid.IntRange(1, 20).Draw(rt, "n")
		for i := 0; i < n; i++ {
			ref := rapid.IntRange(0, c.Count()-1).Draw(rt, "ref")
			if rapid.Bool().Draw(rt, "branch") {
				c.AddBranch(ref, "b")
			} else {
				c.AddLeaf(ref, "l")
			}
		}
		for i := 0; i < c.Count(); i++ {
			c.SetMarked(i, true)
			c.SetUserData(i, i)
		}
		src := rapid.IntRange(0, c.Count()-1).Draw(rt, "src")
		dst := rapid.IntRange(0, c.Count()-1).Draw(rt, "dst")
		size, _ := c.TotalChildCount(src)
		id, err := c.Copy(src, dst)
		if err != nil {
			return
		}
		for i := id; i <= id+size; i++ {
			if m, _ := c.Marked(i); m {
				rt.Fatalf("clone %d is selected", i)
			}
			if ud, _ := c.UserData(i); ud != nil {
				rt.Fatalf("clone %d carries user data", i)
			}
		}
	})
}
