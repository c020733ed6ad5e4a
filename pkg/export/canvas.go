package export

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/vanderheijden86/flattree/pkg/flattree"
)

// face is the fixed 7x13 bitmap face both pixel canvases measure and draw
// with. Title font sizes are ignored; bold and italic only affect SVG output.
var face = basicfont.Face7x13

// PixelMetrics measures text in pixels with the fixed face.
type PixelMetrics struct{}

func (PixelMetrics) TextSize(_ flattree.Font, s string) (int, int) {
	return font.MeasureString(face, s).Ceil(), face.Height
}

// Shape names a vector icon.
type Shape string

const (
	ShapePlus       Shape = "plus"
	ShapeMinus      Shape = "minus"
	ShapeFile       Shape = "file"
	ShapeFolder     Shape = "folder"
	ShapeFolderOpen Shape = "folder-open"
)

// Icon is an image the pixel canvases paint as vector strokes.
type Icon struct {
	Shape Shape
	W, H  int
}

func (i Icon) Size() (int, int) { return i.W, i.H }

// Icons returns the default row icons sized for pixel canvases: glyph-sized
// expanders and iconSize square node icons.
func Icons(glyph, iconSize int) flattree.Images {
	return flattree.Images{
		Leaf:      Icon{Shape: ShapeFile, W: iconSize, H: iconSize},
		Collapsed: Icon{Shape: ShapeFolder, W: iconSize, H: iconSize},
		Expanded:  Icon{Shape: ShapeFolderOpen, W: iconSize, H: iconSize},
		Plus:      Icon{Shape: ShapePlus, W: glyph, H: glyph},
		Minus:     Icon{Shape: ShapeMinus, W: glyph, H: glyph},
	}
}

// PixelConfig is DefaultConfig with the pixel icon set installed.
func PixelConfig() flattree.Config {
	cfg := flattree.DefaultConfig()
	cfg.Images = Icons(cfg.GlyphSize, 16)
	return cfg
}

// NewPixelControl creates a control measured in pixels, ready for RenderSVG
// and RenderPNG.
func NewPixelControl() *flattree.Control {
	ctl := flattree.New(PixelConfig(), flattree.Host{Metrics: PixelMetrics{}})
	for _, shape := range []Shape{ShapeFile, ShapeFolder, ShapeFolderOpen} {
		ctl.RegisterImage(string(shape), Icon{Shape: shape, W: 16, H: 16})
	}
	return ctl
}

// extent returns the canvas size that shows the whole tree.
func extent(ctl *flattree.Control, width, height int) (int, int) {
	if width > 0 && height > 0 {
		return width, height
	}
	w, h := ctl.ViewExtent()
	bw := 2 * ctl.Config().BorderWidth
	if width <= 0 {
		width = max(w+bw, 1)
	}
	if height <= 0 {
		height = max(h+bw, 1)
	}
	return width, height
}

type segment struct{ x1, y1, x2, y2 float64 }

// iconStrokes describes an icon as outlined boxes {x, y, w, h} and line
// segments in a unit square scaled to the icon size.
func iconStrokes(i Icon) (boxes [][4]float64, lines []segment) {
	switch i.Shape {
	case ShapePlus, ShapeMinus:
		boxes = append(boxes, [4]float64{0, 0, 1, 1})
		lines = append(lines, segment{0.2, 0.5, 0.8, 0.5})
		if i.Shape == ShapePlus {
			lines = append(lines, segment{0.5, 0.2, 0.5, 0.8})
		}
	case ShapeFile:
		lines = append(lines,
			segment{0.2, 0.05, 0.65, 0.05},
			segment{0.65, 0.05, 0.85, 0.25},
			segment{0.85, 0.25, 0.85, 0.95},
			segment{0.85, 0.95, 0.2, 0.95},
			segment{0.2, 0.95, 0.2, 0.05},
		)
	case ShapeFolder:
		boxes = append(boxes, [4]float64{0.05, 0.25, 0.9, 0.65})
		lines = append(lines, segment{0.05, 0.25, 0.15, 0.12}, segment{0.15, 0.12, 0.4, 0.12}, segment{0.4, 0.12, 0.5, 0.25})
	case ShapeFolderOpen:
		boxes = append(boxes, [4]float64{0.05, 0.25, 0.8, 0.65})
		lines = append(lines, segment{0.05, 0.9, 0.25, 0.45}, segment{0.25, 0.45, 0.95, 0.45}, segment{0.95, 0.45, 0.85, 0.9})
	default:
		boxes = append(boxes, [4]float64{0, 0, 1, 1})
	}
	return boxes, lines
}

// checkPoints is the tick drawn inside a toggle box, in unit coordinates.
var checkPoints = [][2]float64{{0.1, 0.5}, {0.4, 0.85}, {0.9, 0.15}}
