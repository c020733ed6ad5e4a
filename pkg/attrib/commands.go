package attrib

import (
	"strconv"
	"strings"

	"github.com/vanderheijden86/flattree/pkg/flattree"
)

type addFunc func(c *flattree.Control, ref int, title string) (int, bool)

func (f *Facade) adder(name string, fn addFunc) {
	f.register(name, &attribute{
		raw: true,
		setID: func(c *flattree.Control, id int, v string) bool {
			_, ok := fn(c, id, v)
			return ok
		},
	})
}

// relocator registers MOVENODE/COPYNODE: the id is the source, the value the
// destination id.
func (f *Facade) relocator(name string, fn func(c *flattree.Control, src, dst int) (int, error)) {
	f.register(name, &attribute{
		setID: func(c *flattree.Control, id int, v string) bool {
			dst, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return false
			}
			_, err = fn(c, id, dst)
			return err == nil
		},
	})
}

func (f *Facade) registerCommands() {
	f.adder("ADDLEAF", (*flattree.Control).AddLeaf)
	f.adder("ADDBRANCH", (*flattree.Control).AddBranch)
	f.adder("INSERTLEAF", (*flattree.Control).InsertLeaf)
	f.adder("INSERTBRANCH", (*flattree.Control).InsertBranch)

	f.relocator("MOVENODE", (*flattree.Control).Move)
	f.relocator("COPYNODE", (*flattree.Control).Copy)

	f.register("DELNODE", &attribute{
		raw: true,
		setID: func(c *flattree.Control, id int, v string) bool {
			switch strings.ToUpper(strings.TrimSpace(v)) {
			case "ALL":
				c.RemoveAll()
				return true
			case "MARKED":
				c.RemoveMarked()
				return true
			case "SELECTED":
				rid, ok := c.Resolve(id)
				return ok && c.Remove(rid, false)
			case "CHILDREN":
				rid, ok := c.Resolve(id)
				return ok && c.Remove(rid, true)
			}
			return false
		},
	})

	f.register("MARK", &attribute{
		set: func(c *flattree.Control, v string) bool { return c.Mark(v) },
	})
	f.register("EXPANDALL", &attribute{
		set: func(c *flattree.Control, v string) bool {
			b, err := flattree.ParseBool(v)
			if err != nil {
				return false
			}
			c.ExpandAll(b)
			return true
		},
	})
	f.register("TOPITEM", &attribute{
		set: func(c *flattree.Control, v string) bool {
			id, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return false
			}
			return c.ScrollToTop(id)
		},
	})
	f.register("RENAME", &attribute{
		set: func(c *flattree.Control, _ string) bool { return c.StartRename() },
	})
}
