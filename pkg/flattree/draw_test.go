package flattree

import (
	"fmt"
	"strings"
	"testing"
)

type recordingCanvas struct {
	CellMetrics
	w, h int
	ops  []string
}

func (r *recordingCanvas) Size() (int, int) { return r.w, r.h }

func (r *recordingCanvas) FillRect(rc Rect, c Color) {
	r.ops = append(r.ops, fmt.Sprintf("fill %d,%d %dx%d %s", rc.X, rc.Y, rc.W, rc.H, c))
}

func (r *recordingCanvas) Rect(rc Rect, c Color) {
	r.ops = append(r.ops, fmt.Sprintf("rect %d,%d %dx%d %s", rc.X, rc.Y, rc.W, rc.H, c))
}

func (r *recordingCanvas) Line(x1, y1, x2, y2 int, _ Color, _ bool) {
	r.ops = append(r.ops, fmt.Sprintf("line %d,%d-%d,%d", x1, y1, x2, y2))
}

func (r *recordingCanvas) Text(x, y int, s string, _ Font, _ Color) {
	r.ops = append(r.ops, fmt.Sprintf("text %d,%d %s", x, y, s))
}

func (r *recordingCanvas) Image(img Image, x, y int, _ bool) {
	r.ops = append(r.ops, fmt.Sprintf("image %v %d,%d", img, x, y))
}

func (r *recordingCanvas) CheckMark(rc Rect, _ Color) {
	r.ops = append(r.ops, fmt.Sprintf("check %d,%d %dx%d", rc.X, rc.Y, rc.W, rc.H))
}

func (r *recordingCanvas) FocusRect(rc Rect) {
	r.ops = append(r.ops, fmt.Sprintf("focus %d,%d %dx%d", rc.X, rc.Y, rc.W, rc.H))
}

func (r *recordingCanvas) with(prefix string) []string {
	var out []string
	for _, op := range r.ops {
		if strings.HasPrefix(op, prefix) {
			out = append(out, op)
		}
	}
	return out
}

// TestDrawSkipsRowsOutsideViewport verifies only rows inside the page are painted
func TestDrawSkipsRowsOutsideViewport(t *testing.T) {
	c := newTestControl()
	flatList(t, c, "0", "1", "2", "3", "4", "5", "6", "7", "8", "9")
	c.Resize(10, 3)
	c.ScrollTo(0, 4)

	cv := &recordingCanvas{w: 10, h: 3}
	c.Draw(cv)
	want := "[text 2,0 4 text 2,1 5 text 2,2 6]"
	if got := fmt.Sprint(cv.with("text")); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

// TestDrawHighlightAndFocus verifies selection highlight and focus feedback
func TestDrawHighlightAndFocus(t *testing.T) {
	c := newTestControl()
	flatList(t, c, "A", "Bee")
	c.Resize(10, 5)
	c.SetFocus(1)

	cv := &recordingCanvas{w: 10, h: 5}
	c.Draw(cv)
	hl := fmt.Sprintf("fill 2,1 3x1 %s", c.Config().Highlight.WithAlpha(128))
	fills := cv.with("fill")
	if len(fills) != 2 || fills[1] != hl {
		t.Errorf("expected background then %q, got %v", hl, fills)
	}
	if got := cv.with("focus"); len(got) != 0 {
		t.Errorf("expected no focus rect without keyboard focus, got %v", got)
	}

	c.FocusChanged(true)
	cv = &recordingCanvas{w: 10, h: 5}
	c.Draw(cv)
	if got := fmt.Sprint(cv.with("focus")); got != "[focus 2,1 3x1]" {
		t.Errorf("unexpected focus feedback %s", got)
	}
}

// TestDrawConnectorsAndGlyphs verifies guide lines and expand glyphs
func TestDrawConnectorsAndGlyphs(t *testing.T) {
	c := newTestControl(func(cfg *Config) {
		cfg.Images.Plus = GlyphImage("+")
		cfg.Images.Minus = GlyphImage("-")
	})
	build(t, c, `
A/
  a1
  a2
B/
`)
	c.SetState(3, Collapsed)
	c.Resize(10, 5)
	cv := &recordingCanvas{w: 10, h: 5}
	c.Draw(cv)

	wantLines := "[line 1,1-1,2 line 1,1-3,1 line 1,2-1,2 line 1,2-3,2]"
	if got := fmt.Sprint(cv.with("line")); got != wantLines {
		t.Errorf("expected %s, got %s", wantLines, got)
	}
	wantImages := "[image - 1,0 image + 1,3]"
	if got := fmt.Sprint(cv.with("image")); got != wantImages {
		t.Errorf("expected %s, got %s", wantImages, got)
	}
}

// TestDrawToggleBoxes verifies ON gets a check mark and NOTDEF a filled box
func TestDrawToggleBoxes(t *testing.T) {
	c := newTestControl(func(cfg *Config) {
		cfg.ToggleMode = ToggleThreeState
		cfg.Indentation = 12
		cfg.Background = RGB(1, 1, 1)
	})
	flatList(t, c, "A", "B", "C")
	c.SetToggleValue(0, ToggleOn)
	c.SetToggleValue(1, ToggleNotDef)
	c.Resize(100, 20)

	cv := &recordingCanvas{w: 100, h: 20}
	c.Draw(cv)
	if got := cv.with("check"); len(got) != 1 {
		t.Errorf("expected one check mark, got %v", got)
	}
	if got := cv.with("rect"); len(got) != 3 {
		t.Errorf("expected three toggle boxes, got %v", got)
	}
	fg := c.Config().Foreground.String()
	filled := 0
	for _, op := range cv.with("fill") {
		if strings.HasSuffix(op, fg) {
			filled++
		}
	}
	if filled != 1 {
		t.Errorf("expected one filled NOTDEF box, got %d", filled)
	}
}

// TestDrawBorder verifies the border is painted as nested rectangles
func TestDrawBorder(t *testing.T) {
	c := newTestControl(func(cfg *Config) { cfg.BorderWidth = 2 })
	flatList(t, c, "A")
	cv := &recordingCanvas{w: 8, h: 6}
	c.Draw(cv)
	border := c.Config().BorderColor.String()
	want := fmt.Sprintf("[rect 0,0 8x6 %s rect 1,1 6x4 %s]", border, border)
	if got := fmt.Sprint(cv.with("rect")); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
	if w, h := c.Size(); w != 8 || h != 6 {
		t.Errorf("expected Draw to adopt the canvas size, got %dx%d", w, h)
	}
}

// TestRepaintCoalescing verifies one update request per dirty period
func TestRepaintCoalescing(t *testing.T) {
	c, rig := newRiggedControl()
	flatList(t, c, "A", "B")
	if rig.up.n != 0 {
		t.Errorf("expected no requests while unmapped, got %d", rig.up.n)
	}
	c.Map()
	if rig.up.n != 1 {
		t.Errorf("expected a request on map, got %d", rig.up.n)
	}
	c.SetTitle(0, "x")
	c.SetTitle(1, "y")
	c.AddLeaf(1, "z")
	if rig.up.n != 1 || !c.Dirty() {
		t.Errorf("expected coalesced request, got %d (dirty=%v)", rig.up.n, c.Dirty())
	}
	c.Draw(&recordingCanvas{w: 10, h: 10})
	if c.Dirty() {
		t.Error("expected Draw to clear the dirty flag")
	}
	c.SetTitle(0, "w")
	if rig.up.n != 2 {
		t.Errorf("expected a second request after Draw, got %d", rig.up.n)
	}
}
