package flattree

import (
	"fmt"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is an RGBA color. A is the opacity used when the color is painted over
// existing content (selection highlight); 255 is opaque.
type Color struct {
	R, G, B, A uint8
}

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// ParseColor accepts "R G B", "R G B A" or a "#RRGGBB" hex string.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return Color{}, fmt.Errorf("parse color %q: %w", s, err)
		}
		r, g, b := c.RGB255()
		return RGB(r, g, b), nil
	}

	fields := strings.Fields(s)
	if len(fields) != 3 && len(fields) != 4 {
		return Color{}, fmt.Errorf("invalid color: %q", s)
	}
	var parts [4]uint8
	parts[3] = 255
	for i, f := range fields {
		v, err := strconv.ParseUint(f, 10, 8)
		if err != nil {
			return Color{}, fmt.Errorf("parse color %q: %w", s, err)
		}
		parts[i] = uint8(v)
	}
	return Color{R: parts[0], G: parts[1], B: parts[2], A: parts[3]}, nil
}

func (c Color) String() string {
	if c.A != 255 {
		return fmt.Sprintf("%d %d %d %d", c.R, c.G, c.B, c.A)
	}
	return fmt.Sprintf("%d %d %d", c.R, c.G, c.B)
}

// Hex returns the color as "#rrggbb", ignoring alpha.
func (c Color) Hex() string {
	return c.colorful().Hex()
}

// Over composites c onto bg using c's alpha and returns an opaque color.
func (c Color) Over(bg Color) Color {
	if c.A == 255 {
		return c
	}
	t := float64(c.A) / 255
	r, g, b := bg.colorful().BlendRgb(c.colorful(), t).Clamped().RGB255()
	return RGB(r, g, b)
}

// WithAlpha returns c with its opacity replaced.
func (c Color) WithAlpha(a uint8) Color {
	c.A = a
	return c
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// Font describes a title font as "Typeface, Style Size", e.g. "Sans, Bold 10".
type Font struct {
	Typeface  string
	Bold      bool
	Italic    bool
	Underline bool
	Strikeout bool
	Size      int
}

// ParseFont parses the "Typeface, Style Size" form. The typeface part is
// optional; the size is the last field of the style part.
func ParseFont(s string) (Font, error) {
	var f Font
	s = strings.TrimSpace(s)
	if s == "" {
		return f, fmt.Errorf("empty font")
	}

	rest := s
	if i := strings.Index(s, ","); i >= 0 {
		f.Typeface = strings.TrimSpace(s[:i])
		rest = s[i+1:]
	}

	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return f, fmt.Errorf("font %q has no size", s)
	}
	size, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil {
		return f, fmt.Errorf("font %q: invalid size: %w", s, err)
	}
	f.Size = size

	if err := f.applyStyle(fields[:len(fields)-1]); err != nil {
		return f, fmt.Errorf("font %q: %w", s, err)
	}
	return f, nil
}

func (f *Font) applyStyle(words []string) error {
	f.Bold, f.Italic, f.Underline, f.Strikeout = false, false, false, false
	for _, w := range words {
		switch strings.ToUpper(w) {
		case "BOLD":
			f.Bold = true
		case "ITALIC":
			f.Italic = true
		case "UNDERLINE":
			f.Underline = true
		case "STRIKEOUT":
			f.Strikeout = true
		case "NORMAL", "PLAIN":
		default:
			return fmt.Errorf("unknown style %q", w)
		}
	}
	return nil
}

// Style returns the style words, e.g. "Bold Italic". Empty for a plain font.
func (f Font) Style() string {
	var words []string
	if f.Bold {
		words = append(words, "Bold")
	}
	if f.Italic {
		words = append(words, "Italic")
	}
	if f.Underline {
		words = append(words, "Underline")
	}
	if f.Strikeout {
		words = append(words, "Strikeout")
	}
	return strings.Join(words, " ")
}

// WithStyle returns f with its style words replaced.
func (f Font) WithStyle(style string) (Font, error) {
	err := f.applyStyle(strings.Fields(style))
	return f, err
}

func (f Font) String() string {
	style := f.Style()
	if style != "" {
		style += " "
	}
	return fmt.Sprintf("%s, %s%d", f.Typeface, style, f.Size)
}

// Padding is the horizontal and vertical space around a row's icon and text.
type Padding struct {
	H, V int
}

// ParsePadding parses the "HxV" form.
func ParsePadding(s string) (Padding, error) {
	h, v, ok := strings.Cut(strings.TrimSpace(s), "x")
	if !ok {
		return Padding{}, fmt.Errorf("invalid padding: %q", s)
	}
	ph, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil {
		return Padding{}, fmt.Errorf("invalid padding %q: %w", s, err)
	}
	pv, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return Padding{}, fmt.Errorf("invalid padding %q: %w", s, err)
	}
	return Padding{H: ph, V: pv}, nil
}

func (p Padding) String() string {
	return fmt.Sprintf("%dx%d", p.H, p.V)
}
