// Package attrib exposes a flattree.Control through string-keyed attributes,
// the way a host toolkit's generic property system reads and writes widget
// state. Plain attributes act on the control; indexed attributes take a
// display id. Malformed values are rejected and leave the control unchanged.
package attrib

import (
	"sort"
	"strconv"
	"strings"

	"github.com/vanderheijden86/flattree/pkg/flattree"
)

type (
	getFunc   func(c *flattree.Control) (string, bool)
	setFunc   func(c *flattree.Control, v string) bool
	getIDFunc func(c *flattree.Control, id int) (string, bool)
	setIDFunc func(c *flattree.Control, id int, v string) bool
)

// attribute is one registered name. Any of the four accessors may be nil.
type attribute struct {
	get   getFunc
	set   setFunc
	getID getIDFunc
	setID setIDFunc

	// raw ids are passed through unresolved (-1 keeps its "first node" meaning
	// for the add operations).
	raw bool
}

// Facade is the attribute view of one control.
type Facade struct {
	ctl   *flattree.Control
	attrs map[string]*attribute
}

// New builds the façade for ctl.
func New(ctl *flattree.Control) *Facade {
	f := &Facade{ctl: ctl, attrs: make(map[string]*attribute)}
	f.registerControl()
	f.registerNode()
	f.registerCommands()
	return f
}

// Control returns the wrapped control.
func (f *Facade) Control() *flattree.Control {
	return f.ctl
}

func (f *Facade) lookup(name string) *attribute {
	return f.attrs[strings.ToUpper(strings.TrimSpace(name))]
}

// Get reads a plain attribute.
func (f *Facade) Get(name string) (string, bool) {
	a := f.lookup(name)
	if a == nil || a.get == nil {
		return "", false
	}
	return a.get(f.ctl)
}

// Set writes a plain attribute. It reports false for unknown or read-only
// names and for values that do not parse.
func (f *Facade) Set(name, value string) bool {
	a := f.lookup(name)
	if a == nil || a.set == nil {
		return false
	}
	return a.set(f.ctl, value)
}

// GetID reads an indexed attribute. Id -1 means the focus node.
func (f *Facade) GetID(name string, id int) (string, bool) {
	a := f.lookup(name)
	if a == nil || a.getID == nil {
		return "", false
	}
	rid, ok := f.ctl.Resolve(id)
	if !ok {
		return "", false
	}
	return a.getID(f.ctl, rid)
}

// SetID writes an indexed attribute.
func (f *Facade) SetID(name string, id int, value string) bool {
	a := f.lookup(name)
	if a == nil || a.setID == nil {
		return false
	}
	if !a.raw {
		rid, ok := f.ctl.Resolve(id)
		if !ok {
			return false
		}
		id = rid
	}
	return a.setID(f.ctl, id, value)
}

// splitName separates a trailing display id from a combined name such as
// "TITLE3" or "ADDLEAF-1". It reports hasID=false when no digits follow the
// name.
func splitName(s string) (name string, id int, hasID bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	if i == len(s) || i == 0 {
		return s, -1, false
	}
	if i > 1 && s[i-1] == '-' {
		i--
	}
	n, err := strconv.Atoi(s[i:])
	if err != nil {
		return s, -1, false
	}
	return s[:i], n, true
}

// GetAny reads a plain or combined indexed name. An indexed attribute named
// without an id refers to the focus node.
func (f *Facade) GetAny(name string) (string, bool) {
	base, id, hasID := splitName(name)
	a := f.attrs[base]
	if a == nil {
		return "", false
	}
	if !hasID && a.get != nil {
		return a.get(f.ctl)
	}
	return f.GetID(base, id)
}

// SetAny writes a plain or combined indexed name.
func (f *Facade) SetAny(name, value string) bool {
	base, id, hasID := splitName(name)
	a := f.attrs[base]
	if a == nil {
		return false
	}
	if !hasID && a.set != nil {
		return a.set(f.ctl, value)
	}
	return f.SetID(base, id, value)
}

// Names lists every registered attribute in alphabetical order.
func (f *Facade) Names() []string {
	names := make([]string, 0, len(f.attrs))
	for n := range f.attrs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Describe reports how an attribute can be used: "rw", "r", "w" and an "id"
// suffix for indexed ones, e.g. "rw id".
func (f *Facade) Describe(name string) string {
	a := f.lookup(name)
	if a == nil {
		return ""
	}
	var mode string
	if a.get != nil || a.getID != nil {
		mode += "r"
	}
	if a.set != nil || a.setID != nil {
		mode += "w"
	}
	if a.getID != nil || a.setID != nil {
		mode += " id"
	}
	return mode
}

func (f *Facade) register(name string, a *attribute) {
	f.attrs[name] = a
}
