package export

import (
	"fmt"
	"image"
	"io"

	"git.sr.ht/~sbinet/gg"

	"github.com/vanderheijden86/flattree/pkg/flattree"
)

// PNGCanvas paints a control into an RGBA raster.
type PNGCanvas struct {
	PixelMetrics
	dc *gg.Context
}

// NewPNGCanvas allocates a width x height raster.
func NewPNGCanvas(width, height int) *PNGCanvas {
	dc := gg.NewContext(width, height)
	dc.SetFontFace(face)
	dc.SetLineWidth(1)
	return &PNGCanvas{dc: dc}
}

// Raster returns the image painted so far.
func (c *PNGCanvas) Raster() image.Image { return c.dc.Image() }

// EncodePNG writes the raster as PNG.
func (c *PNGCanvas) EncodePNG(w io.Writer) error { return c.dc.EncodePNG(w) }

// SavePNG writes the raster to a PNG file.
func (c *PNGCanvas) SavePNG(path string) error { return c.dc.SavePNG(path) }

func (c *PNGCanvas) Size() (int, int) { return c.dc.Width(), c.dc.Height() }

func (c *PNGCanvas) setColor(col flattree.Color) {
	c.dc.SetRGBA255(int(col.R), int(col.G), int(col.B), int(col.A))
}

func (c *PNGCanvas) FillRect(r flattree.Rect, col flattree.Color) {
	if r.W <= 0 || r.H <= 0 {
		return
	}
	c.setColor(col)
	c.dc.DrawRectangle(float64(r.X), float64(r.Y), float64(r.W), float64(r.H))
	c.dc.Fill()
}

func (c *PNGCanvas) Rect(r flattree.Rect, col flattree.Color) {
	if r.W <= 0 || r.H <= 0 {
		return
	}
	c.setColor(col)
	c.strokeRect(float64(r.X), float64(r.Y), float64(r.W-1), float64(r.H-1))
}

// strokeRect outlines a rectangle on pixel centers.
func (c *PNGCanvas) strokeRect(x, y, w, h float64) {
	c.dc.DrawRectangle(x+0.5, y+0.5, w, h)
	c.dc.Stroke()
}

func (c *PNGCanvas) line(x1, y1, x2, y2 float64) {
	c.dc.DrawLine(x1+0.5, y1+0.5, x2+0.5, y2+0.5)
	c.dc.Stroke()
}

func (c *PNGCanvas) Line(x1, y1, x2, y2 int, col flattree.Color, dotted bool) {
	c.setColor(col)
	if dotted {
		c.dc.SetDash(1, 1)
		defer c.dc.SetDash()
	}
	c.line(float64(x1), float64(y1), float64(x2), float64(y2))
}

func (c *PNGCanvas) Text(x, y int, s string, f flattree.Font, col flattree.Color) {
	c.setColor(col)
	base := float64(y + face.Ascent)
	c.dc.DrawString(s, float64(x), base)
	if f.Bold {
		c.dc.DrawString(s, float64(x+1), base)
	}
	w, _ := c.TextSize(f, s)
	if f.Underline {
		c.line(float64(x), base+1, float64(x+w), base+1)
	}
	if f.Strikeout {
		mid := float64(y + face.Ascent/2 + 1)
		c.line(float64(x), mid, float64(x+w), mid)
	}
}

func (c *PNGCanvas) Image(img flattree.Image, x, y int, inactive bool) {
	a := 255
	if inactive {
		a = 128
	}
	c.dc.SetRGBA255(0x40, 0x40, 0x40, a)
	fx, fy := float64(x), float64(y)
	switch im := img.(type) {
	case Icon:
		boxes, lines := iconStrokes(im)
		sx, sy := float64(im.W-1), float64(im.H-1)
		for _, b := range boxes {
			c.strokeRect(fx+float64(scale(b[0], sx)), fy+float64(scale(b[1], sy)), float64(scale(b[2], sx)), float64(scale(b[3], sy)))
		}
		for _, l := range lines {
			c.line(fx+float64(scale(l.x1, sx)), fy+float64(scale(l.y1, sy)), fx+float64(scale(l.x2, sx)), fy+float64(scale(l.y2, sy)))
		}
	case flattree.GlyphImage:
		c.dc.DrawString(string(im), fx, fy+float64(face.Ascent))
	default:
		w, h := img.Size()
		c.strokeRect(fx, fy, float64(max(w-1, 0)), float64(max(h-1, 0)))
	}
}

func (c *PNGCanvas) CheckMark(r flattree.Rect, col flattree.Color) {
	c.setColor(col)
	c.dc.SetLineWidth(1.5)
	defer c.dc.SetLineWidth(1)
	for i, p := range checkPoints {
		px := float64(r.X) + p[0]*float64(r.W-1) + 0.5
		py := float64(r.Y) + p[1]*float64(r.H-1) + 0.5
		if i == 0 {
			c.dc.MoveTo(px, py)
		} else {
			c.dc.LineTo(px, py)
		}
	}
	c.dc.Stroke()
}

func (c *PNGCanvas) FocusRect(r flattree.Rect) {
	if r.W <= 0 || r.H <= 0 {
		return
	}
	c.dc.SetRGB255(0, 0, 0)
	c.dc.SetDash(1, 1)
	defer c.dc.SetDash()
	c.strokeRect(float64(r.X), float64(r.Y), float64(r.W-1), float64(r.H-1))
}

// RenderPNG draws ctl into a PNG file. A non-positive width or height is
// taken from the tree's extent.
func RenderPNG(ctl *flattree.Control, path string, width, height int) error {
	width, height = extent(ctl, width, height)
	cv := NewPNGCanvas(width, height)
	ctl.Draw(cv)
	if err := cv.SavePNG(path); err != nil {
		return fmt.Errorf("save png %s: %w", path, err)
	}
	return nil
}
