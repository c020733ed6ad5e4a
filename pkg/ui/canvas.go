package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/flattree/pkg/flattree"
)

// canvas.go - a flattree.Canvas over a grid of terminal cells. One canvas
// unit is one cell. Lines are kept as arm bits per cell and merged into
// box-drawing characters when the grid is rendered.

const (
	armUp uint8 = 1 << iota
	armDown
	armLeft
	armRight
)

// armGlyphs is indexed by the arm bits of a cell.
var armGlyphs = [16]string{
	" ", "╵", "╷", "│", "╴", "┘", "┐", "┤",
	"╶", "└", "┌", "├", "─", "┴", "┬", "┼",
}

const (
	boxEmpty   = "☐"
	boxChecked = "☑"
	boxPartial = "▣"
)

type cell struct {
	s      string // "" continues a wide character on the left
	fg, bg flattree.Color
	hasFG  bool
	hasBG  bool
	font   flattree.Font
	arms   uint8
	dotted bool
	faint  bool
	focus  bool
	match  bool
}

// textRun remembers where a title was drawn so matches can be marked later.
type textRun struct {
	x, y int
	s    string
}

// CellCanvas paints a Control into terminal cells. Colors equal to the
// configured foreground and background are left to the terminal.
type CellCanvas struct {
	flattree.CellMetrics

	w, h   int
	cells  []cell
	texts  []textRun
	fg, bg flattree.Color
	theme  Theme
}

// NewCellCanvas returns a blank w×h canvas. fg and bg are the control's
// default colors.
func NewCellCanvas(w, h int, fg, bg flattree.Color, theme Theme) *CellCanvas {
	w, h = max(w, 0), max(h, 0)
	cv := &CellCanvas{w: w, h: h, cells: make([]cell, w*h), fg: fg, bg: bg, theme: theme}
	for i := range cv.cells {
		cv.cells[i].s = " "
	}
	return cv
}

func (cv *CellCanvas) Size() (int, int) { return cv.w, cv.h }

func (cv *CellCanvas) at(x, y int) *cell {
	if x < 0 || y < 0 || x >= cv.w || y >= cv.h {
		return nil
	}
	return &cv.cells[y*cv.w+x]
}

func (cv *CellCanvas) FillRect(r flattree.Rect, c flattree.Color) {
	// A toggle box filled solid is the indeterminate state.
	if r.W == 1 && r.H == 1 && c.A == 255 {
		if p := cv.at(r.X, r.Y); p != nil && p.s == boxEmpty {
			p.s = boxPartial
			p.fg, p.hasFG = c, true
			return
		}
	}
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			p := cv.at(x, y)
			if p == nil {
				continue
			}
			if c.A != 255 {
				under := cv.bg
				if p.hasBG {
					under = p.bg
				}
				p.bg, p.hasBG = c.Over(under), true
				continue
			}
			*p = cell{s: " ", bg: c, hasBG: c != cv.bg}
		}
	}
}

func (cv *CellCanvas) Rect(r flattree.Rect, c flattree.Color) {
	if r.W <= 0 || r.H <= 0 {
		return
	}
	if r.W == 1 && r.H == 1 {
		if p := cv.at(r.X, r.Y); p != nil {
			p.s, p.fg, p.hasFG, p.arms = boxEmpty, c, true, 0
		}
		return
	}
	x2, y2 := r.X+r.W-1, r.Y+r.H-1
	for x := r.X; x <= x2; x++ {
		for _, y := range []int{r.Y, y2} {
			var arms uint8
			if x > r.X {
				arms |= armLeft
			}
			if x < x2 {
				arms |= armRight
			}
			if y == r.Y && r.H > 1 && (x == r.X || x == x2) {
				arms |= armDown
			}
			if y == y2 && r.H > 1 && (x == r.X || x == x2) {
				arms |= armUp
			}
			cv.arm(x, y, arms, c, false)
		}
	}
	for y := r.Y + 1; y < y2; y++ {
		cv.arm(r.X, y, armUp|armDown, c, false)
		cv.arm(x2, y, armUp|armDown, c, false)
	}
}

func (cv *CellCanvas) arm(x, y int, arms uint8, c flattree.Color, dotted bool) {
	p := cv.at(x, y)
	if p == nil {
		return
	}
	p.arms |= arms
	p.fg, p.hasFG = c, true
	p.dotted = dotted
}

// Line draws a horizontal or vertical line. A zero-length vertical line is
// the upper half of a cell, which ends the guide of a last child.
func (cv *CellCanvas) Line(x1, y1, x2, y2 int, c flattree.Color, dotted bool) {
	switch {
	case x1 == x2:
		if y2 < y1 {
			y1, y2 = y2, y1
		}
		if y1 == y2 {
			cv.arm(x1, y1, armUp, c, dotted)
			return
		}
		for y := y1; y < y2; y++ {
			cv.arm(x1, y, armUp|armDown, c, dotted)
		}
	case y1 == y2:
		if x2 < x1 {
			x1, x2 = x2, x1
		}
		for x := x1; x < x2; x++ {
			arms := armRight
			if x > x1 {
				arms |= armLeft
			}
			cv.arm(x, y1, arms, c, dotted)
		}
	}
}

func (cv *CellCanvas) Text(x, y int, s string, f flattree.Font, c flattree.Color) {
	cv.texts = append(cv.texts, textRun{x: x, y: y, s: s})
	cv.put(x, y, s, f, c, false)
}

func (cv *CellCanvas) put(x, y int, s string, f flattree.Font, c flattree.Color, faint bool) {
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		p := cv.at(x, y)
		if p == nil || x+rw > cv.w {
			if x >= cv.w {
				return
			}
			x += rw
			continue
		}
		p.s, p.arms = string(r), 0
		p.fg, p.hasFG = c, true
		p.font, p.faint = f, faint
		for i := 1; i < rw; i++ {
			if q := cv.at(x+i, y); q != nil {
				*q = cell{bg: p.bg, hasBG: p.hasBG}
			}
		}
		x += rw
	}
}

// Image paints GlyphImage icons as text. Other images have no cell form and
// are shown as a placeholder block of their size.
func (cv *CellCanvas) Image(img flattree.Image, x, y int, inactive bool) {
	if g, ok := img.(flattree.GlyphImage); ok {
		cv.put(x, y, string(g), flattree.Font{}, cv.fg, inactive)
		return
	}
	w, _ := img.Size()
	cv.put(x, y, strings.Repeat("▪", max(w, 1)), flattree.Font{}, cv.fg, inactive)
}

func (cv *CellCanvas) CheckMark(r flattree.Rect, c flattree.Color) {
	p := cv.at(r.X+r.W/2, r.Y+r.H/2)
	if p == nil {
		return
	}
	if p.s == boxEmpty {
		p.s = boxChecked
	} else {
		p.s = "✓"
	}
	p.fg, p.hasFG = c, true
}

func (cv *CellCanvas) FocusRect(r flattree.Rect) {
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			if p := cv.at(x, y); p != nil {
				p.focus = true
			}
		}
	}
}

// MarkMatch highlights bytes of the title drawn in row y. idx holds byte
// offsets into the title, as reported by the fuzzy matcher.
func (cv *CellCanvas) MarkMatch(y int, title string, idx []int) {
	want := make(map[int]bool, len(idx))
	for _, i := range idx {
		want[i] = true
	}
	for _, t := range cv.texts {
		if t.y != y || t.s != title {
			continue
		}
		x := t.x
		for i, r := range t.s {
			if want[i] {
				if p := cv.at(x, y); p != nil {
					p.match = true
				}
			}
			x += runewidth.RuneWidth(r)
		}
		return
	}
}

// styleKey is everything that changes how a run of cells is styled.
type styleKey struct {
	fg, bg                          string
	bold, italic, underline, strike bool
	faint                           bool
}

func (cv *CellCanvas) key(p *cell) styleKey {
	k := styleKey{
		bold:      p.font.Bold,
		italic:    p.font.Italic,
		underline: p.font.Underline,
		strike:    p.font.Strikeout,
		faint:     p.faint,
	}
	switch {
	case p.match:
		k.fg, k.bold = cv.theme.Match, true
	case p.focus:
		k.fg, k.bold = cv.theme.Focus, true
	case p.arms != 0:
		k.fg = cv.theme.Guide
		k.faint = p.dotted
	case p.hasFG && p.fg != cv.fg:
		k.fg = p.fg.Hex()
	}
	if p.hasBG && p.bg != cv.bg {
		k.bg = p.bg.Hex()
	}
	return k
}

func (k styleKey) style(r *lipgloss.Renderer) lipgloss.Style {
	st := r.NewStyle().
		Bold(k.bold).
		Italic(k.italic).
		Underline(k.underline).
		Strikethrough(k.strike).
		Faint(k.faint)
	if k.fg != "" {
		st = st.Foreground(lipgloss.Color(k.fg))
	}
	if k.bg != "" {
		st = st.Background(lipgloss.Color(k.bg))
	}
	return st
}

// Render returns the grid as h lines of styled text.
func (cv *CellCanvas) Render() string {
	lines := make([]string, cv.h)
	for y := 0; y < cv.h; y++ {
		lines[y] = cv.RenderSpan(y, 0, cv.w)
	}
	return strings.Join(lines, "\n")
}

// RenderSpan returns the styled text of cells [x0, x1) in row y.
func (cv *CellCanvas) RenderSpan(y, x0, x1 int) string {
	if y < 0 || y >= cv.h {
		return ""
	}
	x0, x1 = max(x0, 0), min(x1, cv.w)
	r := cv.theme.renderer()
	var sb, run strings.Builder
	var cur styleKey
	flush := func() {
		if run.Len() > 0 {
			sb.WriteString(cur.style(r).Render(run.String()))
			run.Reset()
		}
	}
	for x := x0; x < x1; x++ {
		p := &cv.cells[y*cv.w+x]
		k := cv.key(p)
		if k != cur {
			flush()
			cur = k
		}
		if p.arms != 0 {
			run.WriteString(armGlyphs[p.arms])
		} else {
			run.WriteString(p.s)
		}
	}
	flush()
	return sb.String()
}

// Plain returns the grid without styling, for tests and logs.
func (cv *CellCanvas) Plain() string {
	lines := make([]string, cv.h)
	for y := 0; y < cv.h; y++ {
		var sb strings.Builder
		for x := 0; x < cv.w; x++ {
			p := &cv.cells[y*cv.w+x]
			if p.arms != 0 {
				sb.WriteString(armGlyphs[p.arms])
			} else {
				sb.WriteString(p.s)
			}
		}
		lines[y] = strings.TrimRight(sb.String(), " ")
	}
	return strings.Join(lines, "\n")
}

// At returns the text of the cell at (x, y) and whether it is highlighted,
// focused or matched. Out-of-range cells report "".
func (cv *CellCanvas) At(x, y int) (s string, highlighted, focused, matched bool) {
	p := cv.at(x, y)
	if p == nil {
		return "", false, false, false
	}
	s = p.s
	if p.arms != 0 {
		s = armGlyphs[p.arms]
	}
	return s, p.hasBG && p.bg != cv.bg, p.focus, p.match
}
