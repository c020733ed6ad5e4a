package flattree

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

type recordingScrollbars struct {
	last map[Axis]ScrollRange
}

func (r *recordingScrollbars) SetScroll(a Axis, sr ScrollRange) {
	if r.last == nil {
		r.last = make(map[Axis]ScrollRange)
	}
	r.last[a] = sr
}

type countingUpdater struct {
	n int
}

func (u *countingUpdater) RequestUpdate() { u.n++ }

type fakeEditor struct {
	visible bool
	rect    Rect
	text    string
	shows   int
}

func (e *fakeEditor) Show(r Rect, text string, _ Font) {
	e.visible, e.rect, e.text = true, r, text
	e.shows++
}
func (e *fakeEditor) Hide()         { e.visible = false }
func (e *fakeEditor) Visible() bool { return e.visible }

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1_700_000_000, 0)}
}

func (f *fakeClock) Now() time.Time {
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.now = f.now.Add(d)
}

type testRig struct {
	sb  *recordingScrollbars
	up  *countingUpdater
	ed  *fakeEditor
	clk *fakeClock
}

func testHost() (Host, *testRig) {
	r := &testRig{
		sb:  &recordingScrollbars{},
		up:  &countingUpdater{},
		ed:  &fakeEditor{},
		clk: newFakeClock(),
	}
	return Host{Scrollbars: r.sb, Updater: r.up, Editor: r.ed, Clock: r.clk.Now}, r
}

// testConfig lays rows out in terminal cells: every row is one unit high and
// as wide as its title plus (depth+1)*2.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Indentation = 2
	cfg.Padding = Padding{}
	cfg.IconSpacing = 0
	cfg.GlyphSize = 1
	return cfg
}

func newTestControl(mods ...func(*Config)) *Control {
	cfg := testConfig()
	for _, m := range mods {
		m(&cfg)
	}
	h, _ := testHost()
	return New(cfg, h)
}

func newRiggedControl(mods ...func(*Config)) (*Control, *testRig) {
	cfg := testConfig()
	for _, m := range mods {
		m(&cfg)
	}
	h, r := testHost()
	return New(cfg, h), r
}

// build creates a tree from an indented outline. Two spaces per level; a
// trailing "/" marks a branch. Branches end up expanded.
//
//	A/
//	  a1
//	B
func build(t *testing.T, c *Control, outline string) {
	t.Helper()
	var stack []int
	lastTop := -1
	for _, line := range strings.Split(strings.Trim(outline, "\n"), "\n") {
		trimmed := strings.TrimLeft(line, " ")
		if trimmed == "" {
			continue
		}
		depth := (len(line) - len(trimmed)) / 2
		kind, title := Leaf, trimmed
		if strings.HasSuffix(trimmed, "/") {
			kind, title = Branch, strings.TrimSuffix(trimmed, "/")
		}

		var id int
		var ok bool
		if depth == 0 {
			if lastTop < 0 {
				id, ok = c.add(-1, kind, title, false)
			} else {
				id, ok = c.add(lastTop, kind, title, true)
			}
			lastTop = id
		} else {
			parent := stack[depth-1]
			if last := c.lastChild(parent); last < 0 {
				id, ok = c.add(parent, kind, title, false)
			} else {
				id, ok = c.add(last, kind, title, true)
			}
		}
		if !ok {
			t.Fatalf("build: failed to add %q", line)
		}
		if kind == Branch {
			c.SetState(id, Expanded)
		}
		stack = append(stack[:depth], id)
	}
	checkIndex(t, c)
}

// lastChild returns the id of the last child of parent, or -1.
func (c *Control) lastChild(parent int) int {
	h := c.ids[parent]
	last := noHandle
	for ch := c.nodes[h].firstChild; ch != noHandle; ch = c.nodes[ch].nextSibling {
		last = ch
	}
	if last == noHandle {
		return -1
	}
	return c.nodes[last].id
}

// titles lists titles in id order.
func titles(c *Control) string {
	var parts []string
	for i := 0; i < c.Count(); i++ {
		s, _ := c.Title(i)
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

// shape renders the tree as nested parentheses, e.g. "A(a1 a2) B".
func shape(c *Control) string {
	var b strings.Builder
	var walk func(h handle)
	walk = func(h handle) {
		first := true
		for ch := c.nodes[h].firstChild; ch != noHandle; ch = c.nodes[ch].nextSibling {
			if !first {
				b.WriteByte(' ')
			}
			first = false
			b.WriteString(c.nodes[ch].title)
			if c.nodes[ch].firstChild != noHandle {
				b.WriteByte('(')
				walk(ch)
				b.WriteByte(')')
			}
		}
	}
	walk(rootHandle)
	return b.String()
}

// checkIndex verifies the id index equals a fresh pre-order traversal.
func checkIndex(t interface {
	Helper()
	Fatalf(string, ...any)
}, c *Control) {
	t.Helper()
	var order []handle
	var walk func(h handle)
	walk = func(h handle) {
		for ch := c.nodes[h].firstChild; ch != noHandle; ch = c.nodes[ch].nextSibling {
			if c.nodes[ch].parent != h {
				t.Fatalf("node %q has wrong parent", c.nodes[ch].title)
			}
			if c.nodes[ch].kind == Leaf && c.nodes[ch].firstChild != noHandle {
				t.Fatalf("leaf %q has children", c.nodes[ch].title)
			}
			order = append(order, ch)
			walk(ch)
		}
	}
	walk(rootHandle)

	if len(order) != len(c.ids) {
		t.Fatalf("expected %d ids, got %d", len(order), len(c.ids))
	}
	for i, h := range order {
		if c.ids[i] != h {
			t.Fatalf("id %d: expected handle %d, got %d", i, h, c.ids[i])
		}
		if c.nodes[h].id != i {
			t.Fatalf("node at %d stamped with id %d", i, c.nodes[h].id)
		}
		if got := c.idOf(h); got != i {
			t.Fatalf("idOf: expected %d, got %d", i, got)
		}
	}
}

func dump(c *Control) string {
	var b strings.Builder
	for i, h := range c.ids {
		n := &c.nodes[h]
		fmt.Fprintf(&b, "%d:%s:%d:%v:%dx%d;", i, n.title, c.depth(h), n.state, n.width, n.height)
	}
	return b.String()
}
