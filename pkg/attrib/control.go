package attrib

import (
	"strconv"

	"github.com/vanderheijden86/flattree/pkg/flattree"
)

func itoa(n int) (string, bool) { return strconv.Itoa(n), true }

// configInt registers an integer setting stored in flattree.Config.
func (f *Facade) configInt(name string, field func(*flattree.Config) *int, lowest int) {
	f.register(name, &attribute{
		get: func(c *flattree.Control) (string, bool) {
			cfg := c.Config()
			return itoa(*field(&cfg))
		},
		set: func(c *flattree.Control, v string) bool {
			n, err := strconv.Atoi(v)
			if err != nil || n < lowest {
				return false
			}
			cfg := c.Config()
			*field(&cfg) = n
			c.SetConfig(cfg)
			return true
		},
	})
}

// configBool registers a YES/NO setting stored in flattree.Config.
func (f *Facade) configBool(name string, field func(*flattree.Config) *bool) {
	f.register(name, &attribute{
		get: func(c *flattree.Control) (string, bool) {
			cfg := c.Config()
			return flattree.FormatBool(*field(&cfg)), true
		},
		set: func(c *flattree.Control, v string) bool {
			b, err := flattree.ParseBool(v)
			if err != nil {
				return false
			}
			cfg := c.Config()
			*field(&cfg) = b
			c.SetConfig(cfg)
			return true
		},
	})
}

// configColor registers a color setting stored in flattree.Config.
func (f *Facade) configColor(name string, field func(*flattree.Config) *flattree.Color) {
	f.register(name, &attribute{
		get: func(c *flattree.Control) (string, bool) {
			cfg := c.Config()
			return field(&cfg).String(), true
		},
		set: func(c *flattree.Control, v string) bool {
			col, err := flattree.ParseColor(v)
			if err != nil {
				return false
			}
			cfg := c.Config()
			*field(&cfg) = col
			c.SetConfig(cfg)
			return true
		},
	})
}

func (f *Facade) registerControl() {
	f.configInt("INDENTATION", func(c *flattree.Config) *int { return &c.Indentation }, 1)
	f.configInt("SPACING", func(c *flattree.Config) *int { return &c.Spacing }, 0)
	f.configInt("ICONSPACING", func(c *flattree.Config) *int { return &c.IconSpacing }, 0)
	f.configInt("BORDERWIDTH", func(c *flattree.Config) *int { return &c.BorderWidth }, 0)
	f.configInt("TOGGLESIZE", func(c *flattree.Config) *int { return &c.ToggleSize }, 0)

	f.configBool("ADDEXPANDED", func(c *flattree.Config) *bool { return &c.AddExpanded })
	f.configBool("SHOWRENAME", func(c *flattree.Config) *bool { return &c.ShowRename })
	f.configBool("SHOWDRAGDROP", func(c *flattree.Config) *bool { return &c.ShowDragDrop })
	f.configBool("MARKWHENTOGGLE", func(c *flattree.Config) *bool { return &c.MarkWhenToggle })
	f.configBool("FOCUSFEEDBACK", func(c *flattree.Config) *bool { return &c.FocusFeedback })

	f.configColor("FGCOLOR", func(c *flattree.Config) *flattree.Color { return &c.Foreground })
	f.configColor("BGCOLOR", func(c *flattree.Config) *flattree.Color { return &c.Background })
	f.configColor("HLCOLOR", func(c *flattree.Config) *flattree.Color { return &c.Highlight })
	f.configColor("BORDERCOLOR", func(c *flattree.Config) *flattree.Color { return &c.BorderColor })

	f.register("SHOWTOGGLE", &attribute{
		get: func(c *flattree.Control) (string, bool) { return c.Config().ToggleMode.String(), true },
		set: func(c *flattree.Control, v string) bool {
			m, err := flattree.ParseToggleMode(v)
			if err != nil {
				return false
			}
			cfg := c.Config()
			cfg.ToggleMode = m
			c.SetConfig(cfg)
			return true
		},
	})
	f.register("MARKMODE", &attribute{
		get: func(c *flattree.Control) (string, bool) { return c.Config().MarkMode.String(), true },
		set: func(c *flattree.Control, v string) bool {
			m, err := flattree.ParseMarkMode(v)
			if err != nil {
				return false
			}
			c.SetMarkMode(m)
			return true
		},
	})
	f.register("PADDING", &attribute{
		get: func(c *flattree.Control) (string, bool) { return c.Config().Padding.String(), true },
		set: func(c *flattree.Control, v string) bool {
			p, err := flattree.ParsePadding(v)
			if err != nil || p.H < 0 || p.V < 0 {
				return false
			}
			cfg := c.Config()
			cfg.Padding = p
			c.SetConfig(cfg)
			return true
		},
	})
	f.register("FONT", &attribute{
		get: func(c *flattree.Control) (string, bool) { return c.Config().Font.String(), true },
		set: func(c *flattree.Control, v string) bool {
			font, err := flattree.ParseFont(v)
			if err != nil {
				return false
			}
			cfg := c.Config()
			cfg.Font = font
			c.SetConfig(cfg)
			return true
		},
	})

	f.register("COUNT", &attribute{
		get: func(c *flattree.Control) (string, bool) { return itoa(c.Count()) },
	})
	f.register("ROOTCOUNT", &attribute{
		get: func(c *flattree.Control) (string, bool) { return itoa(c.RootCount()) },
	})
	f.register("LASTADDNODE", &attribute{
		get: func(c *flattree.Control) (string, bool) { return itoa(c.LastAddNode()) },
	})
	f.register("HASFOCUS", &attribute{
		get: func(c *flattree.Control) (string, bool) { return flattree.FormatBool(c.HasFocus()), true },
	})
	f.register("VALUE", &attribute{
		get: func(c *flattree.Control) (string, bool) { return c.Value(), true },
		set: func(c *flattree.Control, v string) bool { return c.SetValue(v) },
	})
	f.register("MARKSTART", &attribute{
		get: func(c *flattree.Control) (string, bool) { return itoa(c.MarkStart()) },
		set: func(c *flattree.Control, v string) bool {
			if c.Config().MarkMode != flattree.MarkMultiple {
				return false
			}
			id, err := strconv.Atoi(v)
			if err != nil {
				return false
			}
			return c.SetMarkStart(id)
		},
	})
	f.register("MARKEDNODES", &attribute{
		get: func(c *flattree.Control) (string, bool) {
			if c.Config().MarkMode != flattree.MarkMultiple {
				return "", false
			}
			return c.MarkedNodes(), true
		},
		set: func(c *flattree.Control, v string) bool { return c.SetMarkedNodes(v) },
	})
}
