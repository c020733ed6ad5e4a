package export

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/vanderheijden86/flattree/pkg/flattree"
)

// SVGCanvas paints a control as an SVG document. Call Close to finish the
// document.
type SVGCanvas struct {
	PixelMetrics
	doc  *svg.SVG
	w, h int
}

// NewSVGCanvas starts an SVG document of the given pixel size on w.
func NewSVGCanvas(w io.Writer, width, height int) *SVGCanvas {
	doc := svg.New(w)
	doc.Start(width, height)
	doc.Group(`shape-rendering="crispEdges"`)
	return &SVGCanvas{doc: doc, w: width, h: height}
}

// Close ends the document.
func (c *SVGCanvas) Close() {
	c.doc.Gend()
	c.doc.End()
}

func (c *SVGCanvas) Size() (int, int) { return c.w, c.h }

func (c *SVGCanvas) FillRect(r flattree.Rect, col flattree.Color) {
	if r.W <= 0 || r.H <= 0 {
		return
	}
	c.doc.Rect(r.X, r.Y, r.W, r.H, fill(col))
}

func (c *SVGCanvas) Rect(r flattree.Rect, col flattree.Color) {
	if r.W <= 0 || r.H <= 0 {
		return
	}
	c.doc.Rect(r.X, r.Y, r.W-1, r.H-1, "fill:none;"+stroke(col))
}

func (c *SVGCanvas) Line(x1, y1, x2, y2 int, col flattree.Color, dotted bool) {
	s := stroke(col)
	if dotted {
		s += ";stroke-dasharray:1,1"
	}
	c.doc.Line(x1, y1, x2, y2, s)
}

func (c *SVGCanvas) Text(x, y int, s string, f flattree.Font, col flattree.Color) {
	st := []string{"font-family:monospace", fmt.Sprintf("font-size:%dpx", face.Height), fill(col)}
	if f.Bold {
		st = append(st, "font-weight:bold")
	}
	if f.Italic {
		st = append(st, "font-style:italic")
	}
	var deco []string
	if f.Underline {
		deco = append(deco, "underline")
	}
	if f.Strikeout {
		deco = append(deco, "line-through")
	}
	if len(deco) > 0 {
		st = append(st, "text-decoration:"+strings.Join(deco, " "))
	}
	c.doc.Text(x, y+face.Ascent, s, strings.Join(st, ";"))
}

func (c *SVGCanvas) Image(img flattree.Image, x, y int, inactive bool) {
	if inactive {
		c.doc.Group(`opacity="0.5"`)
		defer c.doc.Gend()
	}
	st := "fill:none;stroke:#404040"
	switch im := img.(type) {
	case Icon:
		boxes, lines := iconStrokes(im)
		sx, sy := float64(im.W-1), float64(im.H-1)
		for _, b := range boxes {
			c.doc.Rect(x+scale(b[0], sx), y+scale(b[1], sy), scale(b[2], sx), scale(b[3], sy), st)
		}
		for _, l := range lines {
			c.doc.Line(x+scale(l.x1, sx), y+scale(l.y1, sy), x+scale(l.x2, sx), y+scale(l.y2, sy), st)
		}
	case flattree.GlyphImage:
		c.doc.Text(x, y+face.Ascent, string(im), "font-family:monospace;fill:#404040")
	default:
		w, h := img.Size()
		c.doc.Rect(x, y, max(w-1, 0), max(h-1, 0), st)
	}
}

func (c *SVGCanvas) CheckMark(r flattree.Rect, col flattree.Color) {
	xs := make([]int, len(checkPoints))
	ys := make([]int, len(checkPoints))
	for i, p := range checkPoints {
		xs[i] = r.X + scale(p[0], float64(r.W-1))
		ys[i] = r.Y + scale(p[1], float64(r.H-1))
	}
	c.doc.Polyline(xs, ys, "fill:none;"+stroke(col))
}

func (c *SVGCanvas) FocusRect(r flattree.Rect) {
	if r.W <= 0 || r.H <= 0 {
		return
	}
	c.doc.Rect(r.X, r.Y, r.W-1, r.H-1, "fill:none;stroke:#000000;stroke-dasharray:1,1")
}

func scale(v, size float64) int {
	return int(math.Round(v * size))
}

func fill(c flattree.Color) string {
	s := "fill:" + c.Hex()
	if c.A != 255 {
		s += fmt.Sprintf(";fill-opacity:%.2f", float64(c.A)/255)
	}
	return s
}

func stroke(c flattree.Color) string {
	s := "stroke:" + c.Hex()
	if c.A != 255 {
		s += fmt.Sprintf(";stroke-opacity:%.2f", float64(c.A)/255)
	}
	return s
}

// RenderSVG draws ctl onto an SVG document written to w. A non-positive
// width or height is taken from the tree's extent so every visible row fits.
func RenderSVG(ctl *flattree.Control, w io.Writer, width, height int) error {
	width, height = extent(ctl, width, height)
	bw := bufio.NewWriter(w)
	cv := NewSVGCanvas(bw, width, height)
	ctl.Draw(cv)
	cv.Close()
	return bw.Flush()
}
