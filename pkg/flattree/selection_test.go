package flattree

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func multiple(cfg *Config) { cfg.MarkMode = MarkMultiple }

func markedIDs(c *Control) []int {
	var out []int
	for i := 0; i < c.Count(); i++ {
		if m, _ := c.Marked(i); m {
			out = append(out, i)
		}
	}
	return out
}

// TestSetMarkedSingleMode verifies selecting in SINGLE mode replaces the selection
func TestSetMarkedSingleMode(t *testing.T) {
	c := newTestControl()
	build(t, c, "A\nB\nC")
	c.SetMarked(0, true)
	c.SetMarked(2, true)
	if got := fmt.Sprint(markedIDs(c)); got != "[2]" {
		t.Errorf("expected [2], got %s", got)
	}
	if c.Focus() != 2 {
		t.Errorf("expected focus 2, got %d", c.Focus())
	}
	if c.SetMarked(5, true) {
		t.Error("expected SetMarked on missing id to fail")
	}
}

// TestSelectSingleNotifications verifies the old node is deselected before the new one is selected
func TestSelectSingleNotifications(t *testing.T) {
	c := newTestControl()
	build(t, c, "A\nB\nC")
	var events []string
	c.SetCallbacks(Callbacks{Selection: func(id int, on bool) Action {
		events = append(events, fmt.Sprintf("%d:%v", id, on))
		return ActionDefault
	}})

	c.Select(0, false, false)
	c.Select(2, false, false)
	c.Select(2, false, false)
	want := "0:true 0:false 2:true"
	if got := strings.Join(events, " "); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

// TestSelectMultipleDiff verifies the diff string reports net changes only
func TestSelectMultipleDiff(t *testing.T) {
	c := newTestControl(multiple)
	build(t, c, "A\nB\nC\nD")
	var diffs []string
	c.SetCallbacks(Callbacks{MultiSelection: func(diff string) Action {
		diffs = append(diffs, diff)
		return ActionDefault
	}})

	c.Select(1, false, false)
	c.Select(3, false, true)
	c.Select(2, true, false)
	c.Select(2, true, false)

	want := []string{"x+xx", "xx++", "xx-x", "xx+x"}
	if fmt.Sprint(diffs) != fmt.Sprint(want) {
		t.Errorf("expected %v, got %v", want, diffs)
	}
	if c.MarkStart() != 2 {
		t.Errorf("expected mark start 2, got %d", c.MarkStart())
	}
}

// TestSelectMultipleNoChangeIsSilent verifies reselecting the only marked node fires nothing
func TestSelectMultipleNoChangeIsSilent(t *testing.T) {
	c := newTestControl(multiple)
	build(t, c, "A\nB")
	c.Select(0, false, false)
	fired := 0
	c.SetCallbacks(Callbacks{
		MultiSelection: func(string) Action { fired++; return ActionDefault },
		Selection:      func(int, bool) Action { fired++; return ActionDefault },
	})
	c.Select(0, false, false)
	if fired != 0 {
		t.Errorf("expected no notification, got %d", fired)
	}
}

// TestSelectMultipleFallsBackToSelection verifies per-node callbacks without a MultiSelection handler
func TestSelectMultipleFallsBackToSelection(t *testing.T) {
	c := newTestControl(multiple)
	build(t, c, "A\nB\nC")
	c.Select(0, false, false)
	var events []string
	c.SetCallbacks(Callbacks{Selection: func(id int, on bool) Action {
		events = append(events, fmt.Sprintf("%d:%v", id, on))
		return ActionDefault
	}})
	c.Select(2, false, true)
	want := "1:true 2:true"
	if got := strings.Join(events, " "); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

// TestMultipleOnlyOperations verifies SINGLE mode rejects the MULTIPLE-only operations
func TestMultipleOnlyOperations(t *testing.T) {
	c := newTestControl()
	build(t, c, "A\nB")
	checks := map[string]error{
		"SelectAll":      c.SelectAll(),
		"InvertAll":      c.InvertAll(),
		"InvertOne":      c.InvertOne(0),
		"SelectRange":    c.SelectRange(0, 1),
		"ClearAllExcept": c.ClearAllExcept(-1),
	}
	for name, err := range checks {
		if !errors.Is(err, ErrWrongMode) {
			t.Errorf("%s: expected ErrWrongMode, got %v", name, err)
		}
	}
	if c.SetMarkedNodes("++") {
		t.Error("expected SetMarkedNodes to fail in SINGLE mode")
	}
	if c.Mark("MARKALL") {
		t.Error("expected Mark to fail in SINGLE mode")
	}
}

// TestSetMarkedNodes verifies '+' and '-' apply and other characters keep the node
func TestSetMarkedNodes(t *testing.T) {
	c := newTestControl(multiple)
	build(t, c, "A\nB\nC\nD")
	c.SetMarked(1, true)
	c.SetMarked(2, true)

	if !c.SetMarkedNodes("+x-") {
		t.Fatal("expected SetMarkedNodes to succeed")
	}
	if got := c.MarkedNodes(); got != "++--" {
		t.Errorf("expected ++--, got %s", got)
	}
}

// TestMarkCommands verifies each MARK command form
func TestMarkCommands(t *testing.T) {
	tests := []struct {
		name  string
		setup func(c *Control)
		cmd   string
		want  string
		ok    bool
	}{
		{"range", nil, "1-3", "-+++-", true},
		{"reversed range", nil, "3-1", "-+++-", true},
		{"range past end", nil, "3-20", "---++", true},
		{"markall", nil, "MARKALL", "+++++", true},
		{"clearall", func(c *Control) { c.SelectAll() }, "clearall", "-----", true},
		{"invertall", func(c *Control) { c.SetMarked(0, true) }, "INVERTALL", "-++++", true},
		{"invert one", func(c *Control) { c.SetMarked(2, true) }, "INVERT2", "-----", true},
		{"invert missing", nil, "INVERT9", "-----", false},
		{"block", func(c *Control) { c.SetMarkStart(3); c.SetFocus(1) }, "BLOCK", "-+++-", true},
		{"garbage", nil, "sideways", "-----", false},
		{"bad range", nil, "a-b", "-----", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestControl(multiple)
			build(t, c, "A\nB\nC\nD\nE")
			if tt.setup != nil {
				tt.setup(c)
			}
			if ok := c.Mark(tt.cmd); ok != tt.ok {
				t.Errorf("expected ok=%v, got %v", tt.ok, ok)
			}
			if got := c.MarkedNodes(); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

// TestSwitchToSingleKeepsFocusSelection verifies mode switching drops all but the focus mark
func TestSwitchToSingleKeepsFocusSelection(t *testing.T) {
	c := newTestControl(multiple)
	build(t, c, "A\nB\nC")
	c.SetFocus(2)
	c.SetMarked(0, true)
	c.SetMarked(2, true)
	c.SetMarkMode(MarkSingle)
	if got := c.MarkedNodes(); got != "--+" {
		t.Errorf("expected --+, got %s", got)
	}
	if c.MarkStart() != -1 {
		t.Errorf("expected mark start reset, got %d", c.MarkStart())
	}
}

// TestCollapseMovesFocus verifies focus leaves a subtree that becomes hidden
func TestCollapseMovesFocus(t *testing.T) {
	c := newTestControl()
	build(t, c, `
A/
  a1/
    x
B
`)
	c.SetFocus(2)
	c.SetState(0, Collapsed)
	if c.Focus() != 0 {
		t.Errorf("expected focus on A, got %d", c.Focus())
	}
	if got := fmt.Sprint(markedIDs(c)); got != "[0]" {
		t.Errorf("expected A selected in SINGLE mode, got %s", got)
	}

	c.ExpandAll(true)
	c.SetFocus(2)
	c.ExpandAll(false)
	if c.Focus() != 0 {
		t.Errorf("expected ExpandAll(false) to move focus to A, got %d", c.Focus())
	}
}

// TestValueAttribute verifies VALUE reads and the SetValue commands
func TestValueAttribute(t *testing.T) {
	c := newTestControl()
	if c.Value() != "-1" {
		t.Errorf("expected -1 on empty tree, got %s", c.Value())
	}
	build(t, c, `
A/
  a1
B
C
`)
	steps := []struct {
		cmd  string
		ok   bool
		want string
	}{
		{"LAST", true, "3"},
		{"PREVIOUS", true, "2"},
		{"FIRST", true, "0"},
		{"NEXT", true, "1"},
		{"2", true, "2"},
		{"17", false, "2"},
		{"nonsense", false, "2"},
		{"CLEAR", true, "0"},
	}
	for _, s := range steps {
		if ok := c.SetValue(s.cmd); ok != s.ok {
			t.Errorf("%s: expected ok=%v, got %v", s.cmd, s.ok, ok)
		}
		if got := c.Value(); got != s.want {
			t.Errorf("%s: expected value %s, got %s", s.cmd, s.want, got)
		}
	}
}

// TestSingleModeInvariant verifies at most one node is ever selected in SINGLE mode
func TestSingleModeInvariant(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := newTestControl(func(cfg *Config) { cfg.MarkWhenToggle = true; cfg.ToggleMode = ToggleTwoState })
		c.FocusChanged(true)
		c.AddBranch(-1, "root")
		steps := rapid.IntRange(1, 50).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			id := rapid.IntRange(0, c.Count()).Draw(rt, "id")
			switch rapid.IntRange(0, 7).Draw(rt, "op") {
			case 0:
				c.AddLeaf(id, "l")
			case 1:
				c.AddBranch(id, "b")
			case 2:
				c.Select(id, rapid.Bool().Draw(rt, "ctrl"), rapid.Bool().Draw(rt, "shift"))
			case 3:
				c.SetMarked(id, rapid.Bool().Draw(rt, "on"))
			case 4:
				c.SetFocus(id)
			case 5:
				c.Copy(id, rapid.IntRange(0, c.Count()).Draw(rt, "dst"))
			case 6:
				c.KeyPress(KeySpace, Mods{Ctrl: true})
			case 7:
				if id < c.Count() {
					c.cycleToggle(id)
				}
			}
			if n := len(markedIDs(c)); n > 1 {
				rt.Fatalf("expected at most one selected node, got %d", n)
			}
		}
	})
}

// TestMarkedNodesRoundTrip verifies MARKEDNODES reproduces what was written
func TestMarkedNodesRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := newTestControl(multiple)
		n := rapid.IntRange(1, 30).Draw(rt, "n")
		c.AddLeaf(-1, "n")
		for i := 1; i < n; i++ {
			c.InsertLeaf(i-1, "n")
		}
		s := rapid.StringMatching(fmt.Sprintf("[+-]{%d}", n)).Draw(rt, "s")
		c.SetMarkedNodes(s)
		if got := c.MarkedNodes(); got != s {
			rt.Fatalf("expected %s, got %s", s, got)
		}
	})
}

// TestSelectRangeOrderIndependent verifies both argument orders select the same span
func TestSelectRangeOrderIndependent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 20).Draw(rt, "n")
		a := rapid.IntRange(-2, n+2).Draw(rt, "a")
		b := rapid.IntRange(-2, n+2).Draw(rt, "b")
		var got [2]string
		for k, args := range [][2]int{{a, b}, {b, a}} {
			c := newTestControl(multiple)
			c.AddLeaf(-1, "n")
			for i := 1; i < n; i++ {
				c.InsertLeaf(i-1, "n")
			}
			if err := c.SelectRange(args[0], args[1]); err != nil {
				rt.Fatalf("unexpected error: %v", err)
			}
			got[k] = c.MarkedNodes()
		}
		if got[0] != got[1] {
			rt.Fatalf("SelectRange(%d,%d)=%s but SelectRange(%d,%d)=%s", a, b, got[0], b, a, got[1])
		}
	})
}
