package ui

import (
	"strings"
	"testing"

	"github.com/vanderheijden86/flattree/pkg/config"
	"github.com/vanderheijden86/flattree/pkg/flattree"
	"github.com/vanderheijden86/flattree/pkg/loader"
	"github.com/vanderheijden86/flattree/pkg/outline"
)

const docsYAML = `title: Plan
items:
  - title: Docs
    expanded: true
    children:
      - title: README
      - title: Guide
        expanded: false
        children:
          - title: Intro
  - title: Notes
`

// newCellControl loads src into a control configured for terminal cells.
func newCellControl(t *testing.T, src string, mods ...func(*flattree.Config)) *flattree.Control {
	t.Helper()
	o, err := loader.DecodeOutline([]byte(src), loader.FormatYAML)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	cfg := CellConfig(NewTheme(config.Theme{}))
	for _, mod := range mods {
		mod(&cfg)
	}
	ctl := flattree.New(cfg, flattree.Host{})
	registerIcons(ctl)
	if err := outline.Populate(ctl, o); err != nil {
		t.Fatalf("populate: %v", err)
	}
	ctl.FocusChanged(true)
	return ctl
}

func drawCells(ctl *flattree.Control, w, h int) *CellCanvas {
	cfg := ctl.Config()
	cv := NewCellCanvas(w, h, cfg.Foreground, cfg.Background, NewTheme(config.Theme{}))
	ctl.Draw(cv)
	return cv
}

// TestCellCanvasLayout verifies guides, glyphs and icons merge into the
// expected box-drawing rows.
func TestCellCanvasLayout(t *testing.T) {
	ctl := newCellControl(t, docsYAML)
	cv := drawCells(ctl, 20, 5)

	want := strings.Join([]string{
		" ▾ ▫ Docs",
		" ├─  • README",
		" └─▸ ▪ Guide",
		"   • Notes",
		"",
	}, "\n")
	if got := cv.Plain(); got != want {
		t.Errorf("expected\n%s\ngot\n%s", want, got)
	}
}

// TestCellCanvasNestedGuides verifies an ancestor's guide continues past an
// expanded child and ends in a corner at the last grandchild.
func TestCellCanvasNestedGuides(t *testing.T) {
	ctl := newCellControl(t, `items:
  - title: Docs
    children:
      - title: Guide
        children:
          - title: Intro
      - title: README
`)
	cv := drawCells(ctl, 20, 4)
	lines := strings.Split(cv.Plain(), "\n")
	if lines[1] != " ├─▾ ▫ Guide" {
		t.Errorf("expected guide row with tee, got %q", lines[1])
	}
	if lines[2] != " │ └─  • Intro" {
		t.Errorf("expected continued guide and corner, got %q", lines[2])
	}
	if lines[3] != " └─  • README" {
		t.Errorf("expected corner on last child, got %q", lines[3])
	}
}

// TestCellCanvasHighlightAndFocus verifies the selected title span is filled
// and carries the focus flag.
func TestCellCanvasHighlightAndFocus(t *testing.T) {
	ctl := newCellControl(t, docsYAML)
	ctl.Select(0, false, false)
	cv := drawCells(ctl, 20, 4)

	tests := []struct {
		x           int
		s           string
		highlighted bool
		focused     bool
	}{
		{1, "▾", false, false},
		{3, "▫", false, false},
		{4, " ", true, true},
		{5, "D", true, true},
		{8, "s", true, true},
		{9, " ", true, true},
		{10, " ", false, false},
	}
	for _, tt := range tests {
		s, hl, focused, _ := cv.At(tt.x, 0)
		if s != tt.s || hl != tt.highlighted || focused != tt.focused {
			t.Errorf("cell %d: expected (%q, %v, %v), got (%q, %v, %v)",
				tt.x, tt.s, tt.highlighted, tt.focused, s, hl, focused)
		}
	}
	if _, hl, _, _ := cv.At(7, 1); hl {
		t.Error("expected README to be unhighlighted")
	}
}

// TestCellCanvasNoFocusWithoutKeyboardFocus verifies the focus feedback
// disappears when the control loses focus.
func TestCellCanvasNoFocusWithoutKeyboardFocus(t *testing.T) {
	ctl := newCellControl(t, docsYAML)
	ctl.Select(0, false, false)
	ctl.FocusChanged(false)
	cv := drawCells(ctl, 20, 4)
	if _, hl, focused, _ := cv.At(5, 0); !hl || focused {
		t.Errorf("expected highlighted unfocused title, got hl=%v focused=%v", hl, focused)
	}
}

// TestCellCanvasToggleBoxes verifies the three toggle values map to box
// characters.
func TestCellCanvasToggleBoxes(t *testing.T) {
	ctl := newCellControl(t, `items:
  - title: Off
  - title: On
    toggle: "ON"
  - title: Maybe
    toggle: NOTDEF
`, func(cfg *flattree.Config) { cfg.ToggleMode = flattree.ToggleThreeState })
	cv := drawCells(ctl, 20, 3)

	for y, want := range []string{boxEmpty, boxChecked, boxPartial} {
		if s, _, _, _ := cv.At(2, y); s != want {
			t.Errorf("row %d: expected %s, got %q", y, want, s)
		}
	}
	if s, _, _, _ := cv.At(7, 1); s != "O" {
		t.Errorf("expected title after the toggle column, got %q", s)
	}
}

// TestCellCanvasMarkMatch verifies fuzzy byte offsets land on the right
// cells, including after wide characters.
func TestCellCanvasMarkMatch(t *testing.T) {
	ctl := newCellControl(t, `items:
  - title: Docs
  - title: 日本 Notes
`)
	cv := drawCells(ctl, 30, 2)

	cv.MarkMatch(0, "Docs", []int{0, 2})
	for x, want := range map[int]bool{5: true, 6: false, 7: true, 8: false} {
		if _, _, _, matched := cv.At(x, 0); matched != want {
			t.Errorf("cell %d: expected matched=%v", x, want)
		}
	}

	// "N" is byte 7 of the title and cell 5+2+2+1 = 10.
	cv.MarkMatch(1, "日本 Notes", []int{7})
	if s, _, _, matched := cv.At(10, 1); s != "N" || !matched {
		t.Errorf("expected N matched at cell 10, got %q matched=%v", s, matched)
	}

	cv.MarkMatch(1, "Docs", []int{0})
	if _, _, _, matched := cv.At(5, 1); matched {
		t.Error("expected no match for a title not drawn in the row")
	}
}

// TestCellCanvasAlphaFill verifies translucent fills blend with the cell
// underneath.
func TestCellCanvasAlphaFill(t *testing.T) {
	white := flattree.RGB(255, 255, 255)
	black := flattree.RGB(0, 0, 0)
	cv := NewCellCanvas(4, 1, black, white, NewTheme(config.Theme{}))

	cv.FillRect(flattree.Rect{X: 0, Y: 0, W: 2, H: 1}, flattree.RGB(0, 0, 255).WithAlpha(128))
	if _, hl, _, _ := cv.At(0, 0); !hl {
		t.Error("expected blended background")
	}
	if _, hl, _, _ := cv.At(2, 0); hl {
		t.Error("expected default background outside the fill")
	}

	cv.FillRect(flattree.Rect{X: 0, Y: 0, W: 4, H: 1}, white)
	if _, hl, _, _ := cv.At(0, 0); hl {
		t.Error("expected an opaque default fill to reset the cell")
	}
}

// TestCellCanvasClipping verifies drawing outside the grid is ignored.
func TestCellCanvasClipping(t *testing.T) {
	cv := NewCellCanvas(3, 1, flattree.Color{}, flattree.Color{}, NewTheme(config.Theme{}))
	cv.Text(-1, 0, "abcd", flattree.Font{}, flattree.Color{})
	cv.Line(0, 5, 3, 5, flattree.Color{}, false)
	if got := cv.Plain(); got != "bcd" {
		t.Errorf("expected %q, got %q", "bcd", got)
	}
	if s, _, _, _ := cv.At(7, 7); s != "" {
		t.Errorf("expected empty out-of-range cell, got %q", s)
	}
}

// TestCellCanvasRender verifies styled output keeps one line per row.
func TestCellCanvasRender(t *testing.T) {
	ctl := newCellControl(t, docsYAML)
	ctl.Select(0, false, false)
	cv := drawCells(ctl, 20, 4)
	out := cv.Render()
	if n := strings.Count(out, "\n") + 1; n != 4 {
		t.Errorf("expected 4 lines, got %d", n)
	}
	if !strings.Contains(out, "README") {
		t.Error("expected titles in rendered output")
	}
	if span := cv.RenderSpan(0, 0, 3); !strings.Contains(span, "▾") {
		t.Errorf("expected the glyph in the span, got %q", span)
	}
}
