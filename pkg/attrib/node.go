package attrib

import (
	"strconv"
	"strings"

	"github.com/vanderheijden86/flattree/pkg/flattree"
)

// idNav registers a read-only id-valued navigation attribute.
func (f *Facade) idNav(name string, fn func(c *flattree.Control, id int) (int, bool)) {
	f.register(name, &attribute{
		getID: func(c *flattree.Control, id int) (string, bool) {
			v, ok := fn(c, id)
			if !ok {
				return "", false
			}
			return strconv.Itoa(v), true
		},
	})
}

func formatColor(col flattree.Color, ok bool) (string, bool) {
	if !ok {
		return "", false
	}
	return col.String(), true
}

// parseColorOrClear maps "" to nil so an override can be removed.
func parseColorOrClear(v string) (*flattree.Color, bool) {
	if strings.TrimSpace(v) == "" {
		return nil, true
	}
	col, err := flattree.ParseColor(v)
	if err != nil {
		return nil, false
	}
	return &col, true
}

func (f *Facade) registerNode() {
	f.register("TITLE", &attribute{
		getID: func(c *flattree.Control, id int) (string, bool) { return c.Title(id) },
		setID: func(c *flattree.Control, id int, v string) bool { return c.SetTitle(id, v) },
	})
	f.register("KIND", &attribute{
		getID: func(c *flattree.Control, id int) (string, bool) {
			k, ok := c.Kind(id)
			return k.String(), ok
		},
	})
	f.register("STATE", &attribute{
		getID: func(c *flattree.Control, id int) (string, bool) {
			s, ok := c.State(id)
			if !ok {
				return "", false
			}
			return s.String(), true
		},
		setID: func(c *flattree.Control, id int, v string) bool {
			s, err := flattree.ParseState(v)
			if err != nil {
				return false
			}
			return c.SetState(id, s)
		},
	})

	f.idNav("PARENT", (*flattree.Control).Parent)
	f.idNav("NEXT", (*flattree.Control).Next)
	f.idNav("PREVIOUS", (*flattree.Control).Previous)
	f.idNav("FIRST", (*flattree.Control).First)
	f.idNav("LAST", (*flattree.Control).Last)
	f.idNav("DEPTH", (*flattree.Control).Depth)
	f.idNav("CHILDCOUNT", (*flattree.Control).ChildCount)
	f.idNav("TOTALCHILDCOUNT", (*flattree.Control).TotalChildCount)

	f.register("TITLEFONT", &attribute{
		getID: func(c *flattree.Control, id int) (string, bool) {
			font, _, ok := c.TitleFont(id)
			return font.String(), ok
		},
		setID: func(c *flattree.Control, id int, v string) bool {
			if strings.TrimSpace(v) == "" {
				return c.SetTitleFont(id, nil)
			}
			font, err := flattree.ParseFont(v)
			if err != nil {
				return false
			}
			return c.SetTitleFont(id, &font)
		},
	})
	f.register("TITLEFONTSTYLE", &attribute{
		getID: func(c *flattree.Control, id int) (string, bool) {
			font, _, ok := c.TitleFont(id)
			return font.Style(), ok
		},
		setID: func(c *flattree.Control, id int, v string) bool { return c.SetTitleFontStyle(id, v) },
	})
	f.register("TITLEFONTSIZE", &attribute{
		getID: func(c *flattree.Control, id int) (string, bool) {
			font, _, ok := c.TitleFont(id)
			return strconv.Itoa(font.Size), ok
		},
		setID: func(c *flattree.Control, id int, v string) bool {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return false
			}
			return c.SetTitleFontSize(id, n)
		},
	})

	f.register("COLOR", &attribute{
		getID: func(c *flattree.Control, id int) (string, bool) { return formatColor(c.Color(id)) },
		setID: func(c *flattree.Control, id int, v string) bool {
			col, ok := parseColorOrClear(v)
			return ok && c.SetColor(id, col)
		},
	})
	f.register("BACKCOLOR", &attribute{
		getID: func(c *flattree.Control, id int) (string, bool) { return formatColor(c.BackColor(id)) },
		setID: func(c *flattree.Control, id int, v string) bool {
			col, ok := parseColorOrClear(v)
			return ok && c.SetBackColor(id, col)
		},
	})

	f.register("TOGGLEVALUE", &attribute{
		getID: func(c *flattree.Control, id int) (string, bool) {
			v, ok := c.ToggleValue(id)
			if !ok {
				return "", false
			}
			return v.String(), true
		},
		setID: func(c *flattree.Control, id int, v string) bool {
			t, err := flattree.ParseToggle(v)
			if err != nil {
				return false
			}
			return c.SetToggleValue(id, t)
		},
	})
	f.register("TOGGLEVISIBLE", &attribute{
		getID: func(c *flattree.Control, id int) (string, bool) {
			v, ok := c.ToggleVisible(id)
			return flattree.FormatBool(v), ok
		},
		setID: func(c *flattree.Control, id int, v string) bool {
			b, err := flattree.ParseBool(v)
			if err != nil {
				return false
			}
			return c.SetToggleVisible(id, b)
		},
	})

	f.register("IMAGE", &attribute{
		getID: func(c *flattree.Control, id int) (string, bool) {
			_, name, ok := c.Image(id)
			return name, ok
		},
		setID: func(c *flattree.Control, id int, v string) bool { return c.SetImageNamed(id, strings.TrimSpace(v)) },
	})
	f.register("IMAGEEXPANDED", &attribute{
		getID: func(c *flattree.Control, id int) (string, bool) {
			_, name, ok := c.ImageExpanded(id)
			return name, ok
		},
		setID: func(c *flattree.Control, id int, v string) bool {
			return c.SetImageExpandedNamed(id, strings.TrimSpace(v))
		},
	})

	// USERDATA holds arbitrary Go values; only the typed Control API reaches it.
	f.register("USERDATA", &attribute{
		getID: func(*flattree.Control, int) (string, bool) { return "", false },
	})

	f.register("MARKED", &attribute{
		getID: func(c *flattree.Control, id int) (string, bool) {
			m, ok := c.Marked(id)
			return flattree.FormatBool(m), ok
		},
		setID: func(c *flattree.Control, id int, v string) bool {
			b, err := flattree.ParseBool(v)
			if err != nil {
				return false
			}
			return c.SetMarked(id, b)
		},
	})
}
