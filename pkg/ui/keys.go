package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap is the TUI key bindings. It implements help.KeyMap.
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	ExtendUp    key.Binding
	ExtendDown  key.Binding
	FocusUp     key.Binding
	FocusDown   key.Binding
	Home        key.Binding
	End         key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Collapse    key.Binding
	Expand      key.Binding
	Activate    key.Binding
	Mark        key.Binding
	Toggle      key.Binding
	ExpandAll   key.Binding
	CollapseAll key.Binding

	Rename   key.Binding
	AddLeaf  key.Binding
	AddChild key.Binding
	Delete   key.Binding
	Save     key.Binding
	Reload   key.Binding

	Find     key.Binding
	NextHit  key.Binding
	PrevHit  key.Binding
	CopyName key.Binding
	CopyPath key.Binding

	Preview key.Binding
	Pane    key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		ExtendUp:    key.NewBinding(key.WithKeys("shift+up", "K"), key.WithHelp("shift+↑", "extend up")),
		ExtendDown:  key.NewBinding(key.WithKeys("shift+down", "J"), key.WithHelp("shift+↓", "extend down")),
		FocusUp:     key.NewBinding(key.WithKeys("ctrl+up"), key.WithHelp("ctrl+↑", "focus up")),
		FocusDown:   key.NewBinding(key.WithKeys("ctrl+down"), key.WithHelp("ctrl+↓", "focus down")),
		Home:        key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "first")),
		End:         key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "last")),
		PageUp:      key.NewBinding(key.WithKeys("pgup", "ctrl+b"), key.WithHelp("pgup", "page up")),
		PageDown:    key.NewBinding(key.WithKeys("pgdown", "ctrl+f"), key.WithHelp("pgdn", "page down")),
		Collapse:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "collapse")),
		Expand:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "expand")),
		Activate:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Mark:        key.NewBinding(key.WithKeys(" ", "ctrl+@"), key.WithHelp("space", "mark")),
		Toggle:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "check")),
		ExpandAll:   key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "expand all")),
		CollapseAll: key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "collapse all")),

		Rename:   key.NewBinding(key.WithKeys("f2", "e"), key.WithHelp("e", "rename")),
		AddLeaf:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		AddChild: key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "add child")),
		Delete:   key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		Save:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Reload:   key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload")),

		Find:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "find")),
		NextHit:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next match")),
		PrevHit:  key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "prev match")),
		CopyName: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy title")),
		CopyPath: key.NewBinding(key.WithKeys("Y"), key.WithHelp("Y", "copy path")),

		Preview: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "preview")),
		Pane:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp is shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Activate, k.Mark, k.Find, k.Rename, k.Preview, k.Help, k.Quit}
}

// FullHelp is shown when help is expanded.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.ExtendUp, k.ExtendDown, k.FocusUp, k.FocusDown, k.Home, k.End, k.PageUp, k.PageDown},
		{k.Collapse, k.Expand, k.Activate, k.Mark, k.Toggle, k.ExpandAll, k.CollapseAll},
		{k.Rename, k.AddLeaf, k.AddChild, k.Delete, k.Save, k.Reload},
		{k.Find, k.NextHit, k.PrevHit, k.CopyName, k.CopyPath, k.Preview, k.Pane, k.Help, k.Quit},
	}
}
