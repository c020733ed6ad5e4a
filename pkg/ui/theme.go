package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/flattree/pkg/config"
	"github.com/vanderheijden86/flattree/pkg/flattree"
	"github.com/vanderheijden86/flattree/pkg/loader"
)

// Theme holds the terminal colors as lipgloss color strings.
type Theme struct {
	Renderer *lipgloss.Renderer

	Selected string // selection highlight background
	Focus    string // focused row text
	Guide    string // connector lines
	Match    string // find matches
	Status   string // footer text
}

// NewTheme builds a theme from the config, falling back to the defaults for
// empty colors.
func NewTheme(t config.Theme) Theme {
	def := config.Default().Theme
	pick := func(v, fallback string) string {
		if v == "" {
			return fallback
		}
		return v
	}
	return Theme{
		Renderer: lipgloss.DefaultRenderer(),
		Selected: pick(t.Selected, def.Selected),
		Focus:    pick(t.Focus, def.Focus),
		Guide:    pick(t.Guide, def.Guide),
		Match:    pick(t.Match, def.Match),
		Status:   pick(t.Status, def.Status),
	}
}

func (t Theme) renderer() *lipgloss.Renderer {
	if t.Renderer == nil {
		return lipgloss.DefaultRenderer()
	}
	return t.Renderer
}

// Terminal icons.
const (
	glyphCollapsed = flattree.GlyphImage("▸")
	glyphExpanded  = flattree.GlyphImage("▾")
	glyphFile      = flattree.GlyphImage("•")
	glyphFolder    = flattree.GlyphImage("▪")
	glyphOpen      = flattree.GlyphImage("▫")
)

// CellConfig returns control settings sized for terminal cells: two-cell
// indentation, one cell of padding and character glyphs. The theme's
// selection color is painted opaque.
func CellConfig(t Theme) flattree.Config {
	cfg := flattree.DefaultConfig()
	cfg.Indentation = 2
	cfg.Padding = flattree.Padding{H: 1, V: 0}
	cfg.IconSpacing = 1
	cfg.GlyphSize = 1
	cfg.ShowRename = true
	cfg.ShowDragDrop = true
	cfg.Font = flattree.Font{}
	if hl, err := flattree.ParseColor(t.Selected); err == nil {
		cfg.Highlight = hl
	}
	cfg.HighlightAlpha = 255
	cfg.Images = flattree.Images{
		Leaf:      glyphFile,
		Collapsed: glyphFolder,
		Expanded:  glyphOpen,
		Plus:      glyphCollapsed,
		Minus:     glyphExpanded,
	}
	return cfg
}

// registerIcons makes the image names used by directory outlines available.
func registerIcons(ctl *flattree.Control) {
	ctl.RegisterImage(loader.ImageFile, glyphFile)
	ctl.RegisterImage(loader.ImageFolder, glyphFolder)
}
