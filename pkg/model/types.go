package model

import (
	"fmt"
	"sort"
	"strings"
)

// CurrentVersion is the outline document format written by this release.
const CurrentVersion = 1

// Outline is a hierarchical document that can be loaded into a control
type Outline struct {
	Version  int       `yaml:"version" json:"version" toml:"version"`
	Title    string    `yaml:"title,omitempty" json:"title,omitempty" toml:"title,omitempty"`
	Settings *Settings `yaml:"settings,omitempty" json:"settings,omitempty" toml:"settings,omitempty"`
	Items    []*Item   `yaml:"items" json:"items" toml:"items"`
}

// Item is one node of an outline. A zero Kind is inferred from Children.
type Item struct {
	Title         string  `yaml:"title" json:"title" toml:"title"`
	Kind          Kind    `yaml:"kind,omitempty" json:"kind,omitempty" toml:"kind,omitempty"`
	Expanded      *bool   `yaml:"expanded,omitempty" json:"expanded,omitempty" toml:"expanded,omitempty"`
	Toggle        string  `yaml:"toggle,omitempty" json:"toggle,omitempty" toml:"toggle,omitempty"`
	ToggleHidden  bool    `yaml:"toggle_hidden,omitempty" json:"toggle_hidden,omitempty" toml:"toggle_hidden,omitempty"`
	Image         string  `yaml:"image,omitempty" json:"image,omitempty" toml:"image,omitempty"`
	ImageExpanded string  `yaml:"image_expanded,omitempty" json:"image_expanded,omitempty" toml:"image_expanded,omitempty"`
	Color         string  `yaml:"color,omitempty" json:"color,omitempty" toml:"color,omitempty"`
	BackColor     string  `yaml:"back_color,omitempty" json:"back_color,omitempty" toml:"back_color,omitempty"`
	Font          string  `yaml:"font,omitempty" json:"font,omitempty" toml:"font,omitempty"`
	Marked        bool    `yaml:"marked,omitempty" json:"marked,omitempty" toml:"marked,omitempty"`
	Children      []*Item `yaml:"children,omitempty" json:"children,omitempty" toml:"children,omitempty"`
}

// Kind distinguishes branches from leaves
type Kind string

const (
	KindBranch Kind = "branch"
	KindLeaf   Kind = "leaf"
)

// IsValid returns true for the known kinds and for the empty (inferred) kind
func (k Kind) IsValid() bool {
	switch k {
	case "", KindBranch, KindLeaf:
		return true
	}
	return false
}

// IsBranch reports whether the item becomes a branch node. Items without an
// explicit kind are branches exactly when they have children.
func (i *Item) IsBranch() bool {
	if i.Kind == "" {
		return len(i.Children) > 0
	}
	return i.Kind == KindBranch
}

// IsExpanded reports the item's expand state, falling back to def when the
// document leaves it unset.
func (i *Item) IsExpanded(def bool) bool {
	if i.Expanded == nil {
		return def
	}
	return *i.Expanded
}

// Clone creates a deep copy of the item and its subtree
func (i Item) Clone() Item {
	clone := i

	if i.Expanded != nil {
		v := *i.Expanded
		clone.Expanded = &v
	}

	if i.Children != nil {
		clone.Children = make([]*Item, len(i.Children))
		for idx, child := range i.Children {
			if child != nil {
				v := child.Clone()
				clone.Children[idx] = &v
			}
		}
	}

	return clone
}

// Validate checks the item and its subtree. path names the item in errors.
func (i *Item) Validate(path string) error {
	if strings.TrimSpace(i.Title) == "" {
		return fmt.Errorf("%s: title cannot be empty", path)
	}
	if !i.Kind.IsValid() {
		return fmt.Errorf("%s: invalid kind: %s", path, i.Kind)
	}
	if i.Kind == KindLeaf && len(i.Children) > 0 {
		return fmt.Errorf("%s: leaf %q cannot have children", path, i.Title)
	}
	switch strings.ToUpper(i.Toggle) {
	case "", "ON", "OFF", "NOTDEF":
	default:
		return fmt.Errorf("%s: invalid toggle value: %s", path, i.Toggle)
	}
	for idx, child := range i.Children {
		if child == nil {
			return fmt.Errorf("%s.%d: item cannot be null", path, idx)
		}
		if err := child.Validate(fmt.Sprintf("%s.%d", path, idx)); err != nil {
			return err
		}
	}
	return nil
}

// Clone creates a deep copy of the outline
func (o Outline) Clone() Outline {
	clone := o

	if o.Settings != nil {
		v := o.Settings.Clone()
		clone.Settings = &v
	}

	if o.Items != nil {
		clone.Items = make([]*Item, len(o.Items))
		for idx, it := range o.Items {
			if it != nil {
				v := it.Clone()
				clone.Items[idx] = &v
			}
		}
	}

	return clone
}

// Validate checks if the outline is structurally valid
func (o *Outline) Validate() error {
	if o.Version < 0 || o.Version > CurrentVersion {
		return fmt.Errorf("unsupported outline version: %d", o.Version)
	}
	for idx, it := range o.Items {
		if it == nil {
			return fmt.Errorf("items.%d: item cannot be null", idx)
		}
		if err := it.Validate(fmt.Sprintf("items.%d", idx)); err != nil {
			return err
		}
	}
	if o.Settings != nil {
		if err := o.Settings.Validate(); err != nil {
			return fmt.Errorf("settings: %w", err)
		}
	}
	return nil
}

// Walk visits every item in document order. Returning false from fn skips
// the item's children.
func (o *Outline) Walk(fn func(it *Item, depth int) bool) {
	var walk func(items []*Item, depth int)
	walk = func(items []*Item, depth int) {
		for _, it := range items {
			if it == nil {
				continue
			}
			if fn(it, depth) {
				walk(it.Children, depth+1)
			}
		}
	}
	walk(o.Items, 0)
}

// Count returns the number of items in the outline
func (o *Outline) Count() int {
	n := 0
	o.Walk(func(*Item, int) bool {
		n++
		return true
	})
	return n
}

// Settings carries control presentation in the document. Values use the
// attribute string forms (e.g. "3STATE", "2x2", "255 0 0").
type Settings struct {
	Indentation    *int   `yaml:"indentation,omitempty" json:"indentation,omitempty" toml:"indentation,omitempty"`
	Spacing        *int   `yaml:"spacing,omitempty" json:"spacing,omitempty" toml:"spacing,omitempty"`
	ShowToggle     string `yaml:"show_toggle,omitempty" json:"show_toggle,omitempty" toml:"show_toggle,omitempty"`
	MarkMode       string `yaml:"mark_mode,omitempty" json:"mark_mode,omitempty" toml:"mark_mode,omitempty"`
	AddExpanded    *bool  `yaml:"add_expanded,omitempty" json:"add_expanded,omitempty" toml:"add_expanded,omitempty"`
	ShowDragDrop   *bool  `yaml:"show_drag_drop,omitempty" json:"show_drag_drop,omitempty" toml:"show_drag_drop,omitempty"`
	ShowRename     *bool  `yaml:"show_rename,omitempty" json:"show_rename,omitempty" toml:"show_rename,omitempty"`
	MarkWhenToggle *bool  `yaml:"mark_when_toggle,omitempty" json:"mark_when_toggle,omitempty" toml:"mark_when_toggle,omitempty"`
	Padding        string `yaml:"padding,omitempty" json:"padding,omitempty" toml:"padding,omitempty"`
	Font           string `yaml:"font,omitempty" json:"font,omitempty" toml:"font,omitempty"`
	FgColor        string `yaml:"fg_color,omitempty" json:"fg_color,omitempty" toml:"fg_color,omitempty"`
	BgColor        string `yaml:"bg_color,omitempty" json:"bg_color,omitempty" toml:"bg_color,omitempty"`
	HlColor        string `yaml:"hl_color,omitempty" json:"hl_color,omitempty" toml:"hl_color,omitempty"`

	// Extra holds any other attribute by name, applied after the typed fields.
	Extra map[string]string `yaml:"extra,omitempty" json:"extra,omitempty" toml:"extra,omitempty"`
}

// Clone creates a deep copy of the settings
func (s Settings) Clone() Settings {
	clone := s
	clone.Indentation = cloneInt(s.Indentation)
	clone.Spacing = cloneInt(s.Spacing)
	clone.AddExpanded = cloneBool(s.AddExpanded)
	clone.ShowDragDrop = cloneBool(s.ShowDragDrop)
	clone.ShowRename = cloneBool(s.ShowRename)
	clone.MarkWhenToggle = cloneBool(s.MarkWhenToggle)
	if s.Extra != nil {
		clone.Extra = make(map[string]string, len(s.Extra))
		for k, v := range s.Extra {
			clone.Extra[k] = v
		}
	}
	return clone
}

// Validate checks the settings that can be verified without a control
func (s *Settings) Validate() error {
	if s.Indentation != nil && *s.Indentation < 1 {
		return fmt.Errorf("indentation (%d) must be positive", *s.Indentation)
	}
	if s.Spacing != nil && *s.Spacing < 0 {
		return fmt.Errorf("spacing (%d) cannot be negative", *s.Spacing)
	}
	for k := range s.Extra {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("extra attribute name cannot be empty")
		}
	}
	return nil
}

// Attribute is one name/value pair in attribute string form
type Attribute struct {
	Name  string
	Value string
}

// Attributes flattens the settings into attribute assignments. MARKMODE
// comes first so selection settings apply under the right mode, and Extra
// follows the typed fields in name order.
func (s *Settings) Attributes() []Attribute {
	var out []Attribute
	str := func(name, v string) {
		if v != "" {
			out = append(out, Attribute{name, v})
		}
	}
	num := func(name string, v *int) {
		if v != nil {
			out = append(out, Attribute{name, fmt.Sprint(*v)})
		}
	}
	flag := func(name string, v *bool) {
		if v == nil {
			return
		}
		if *v {
			out = append(out, Attribute{name, "YES"})
		} else {
			out = append(out, Attribute{name, "NO"})
		}
	}

	str("MARKMODE", s.MarkMode)
	str("SHOWTOGGLE", s.ShowToggle)
	num("INDENTATION", s.Indentation)
	num("SPACING", s.Spacing)
	flag("ADDEXPANDED", s.AddExpanded)
	flag("SHOWDRAGDROP", s.ShowDragDrop)
	flag("SHOWRENAME", s.ShowRename)
	flag("MARKWHENTOGGLE", s.MarkWhenToggle)
	str("PADDING", s.Padding)
	str("FONT", s.Font)
	str("FGCOLOR", s.FgColor)
	str("BGCOLOR", s.BgColor)
	str("HLCOLOR", s.HlColor)

	keys := make([]string, 0, len(s.Extra))
	for k := range s.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, Attribute{strings.ToUpper(k), s.Extra[k]})
	}
	return out
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneBool(p *bool) *bool {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Bool returns a pointer to v, for building documents in code
func Bool(v bool) *bool { return &v }

// Int returns a pointer to v
func Int(v int) *int { return &v }
