package ui

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	humanize "github.com/dustin/go-humanize"
	"github.com/sahilm/fuzzy"

	"github.com/vanderheijden86/flattree/pkg/attrib"
	"github.com/vanderheijden86/flattree/pkg/config"
	"github.com/vanderheijden86/flattree/pkg/export"
	"github.com/vanderheijden86/flattree/pkg/flattree"
	"github.com/vanderheijden86/flattree/pkg/loader"
	"github.com/vanderheijden86/flattree/pkg/model"
	"github.com/vanderheijden86/flattree/pkg/outline"
	"github.com/vanderheijden86/flattree/pkg/snapshot"
)

// doubleClickWindow is the longest gap between two presses on the same cell
// that still counts as a double-click.
const doubleClickWindow = 400 * time.Millisecond

// MinPreviewWidth is the narrowest terminal that can show the preview pane
// next to the tree.
const MinPreviewWidth = 60

// Options configures a Model.
type Options struct {
	Outline *model.Outline
	// Name identifies the outline in the saved view state, usually its path.
	Name string
	// SavePath is written by the save key. Empty makes the outline read-only.
	SavePath string
	// StatePath is the view state file. Empty disables persistence.
	StatePath string
	Theme     config.Theme
	// Settings are applied over the document's own settings.
	Settings *model.Settings
	Worker   *BackgroundWorker
	Clock    func() time.Time
	// Clipboard defaults to the system clipboard.
	Clipboard func(string) error
}

// scrollState keeps the last vertical range pushed by the control.
type scrollState struct {
	v flattree.ScrollRange
}

func (s *scrollState) SetScroll(a flattree.Axis, r flattree.ScrollRange) {
	if a == flattree.Vertical {
		s.v = r
	}
}

// percent returns how far the view is scrolled, or -1 when everything fits.
func (s *scrollState) percent() int {
	span := s.v.Max - s.v.Page
	if span <= 0 {
		return -1
	}
	return min(100, s.v.Pos*100/span)
}

// Model is the bubbletea model hosting a flattree.Control.
type Model struct {
	ctl    *flattree.Control
	doc    *model.Outline
	opts   Options
	theme  Theme
	keys   KeyMap
	help   help.Model
	editor *renameEditor
	scroll *scrollState
	clock  func() time.Time
	copy   func(string) error

	width, height int
	treeW, treeH  int

	// Find
	finding   bool
	findInput textinput.Model
	matches   fuzzy.Matches
	matchAt   int

	// Delete confirmation
	confirm    *huh.Form
	confirmYes bool
	deleteID   int

	// Preview pane
	renderer       *glamour.TermRenderer
	rendererWidth  int
	preview        viewport.Model
	showPreview    bool
	previewFocused bool
	previewStale   bool

	// Pointer
	leftDown  bool
	lastPress time.Time
	lastX     int
	lastY     int

	status   string
	modified bool
}

// NewModel builds the control from opts.Outline and restores the saved view
// state.
func NewModel(opts Options) (*Model, error) {
	if opts.Outline == nil {
		return nil, fmt.Errorf("no outline to show")
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	cp := opts.Clipboard
	if cp == nil {
		cp = clipboard.WriteAll
	}

	theme := NewTheme(opts.Theme)
	m := &Model{
		doc:      opts.Outline,
		opts:     opts,
		theme:    theme,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		editor:   newRenameEditor(),
		scroll:   &scrollState{},
		clock:    clock,
		copy:     cp,
		deleteID: -1,
		preview:  viewport.New(0, 0),
	}
	m.findInput = textinput.New()
	m.findInput.Prompt = "/"
	m.findInput.Placeholder = "find"

	m.ctl = flattree.New(CellConfig(theme), flattree.Host{
		Editor:     m.editor,
		Scrollbars: m.scroll,
		Clock:      clock,
	})
	registerIcons(m.ctl)
	m.ctl.SetCallbacks(m.callbacks())
	if err := m.populate(opts.Outline); err != nil {
		return nil, err
	}
	m.ctl.Map()
	m.ctl.FocusChanged(true)

	if opts.StatePath != "" {
		LoadTreeState(opts.StatePath, opts.Name).Apply(m.ctl)
	}
	m.ensureSelection()
	return m, nil
}

// ensureSelection gives a non-empty tree a focus, selected in SINGLE mode.
func (m *Model) ensureSelection() {
	if m.ctl.Count() == 0 {
		return
	}
	f := m.ctl.Focus()
	if f < 0 {
		f = 0
	}
	if m.ctl.Config().MarkMode == flattree.MarkSingle && m.markedCount() == 0 {
		m.ctl.Select(f, false, false)
		return
	}
	m.ctl.SetFocus(f)
}

// populate loads o into the control with the option settings on top.
func (m *Model) populate(o *model.Outline) error {
	if err := outline.Populate(m.ctl, o); err != nil {
		return err
	}
	if err := outline.ApplySettings(attrib.New(m.ctl), m.opts.Settings); err != nil {
		log.Printf("warning: %v", err)
	}
	return nil
}

// Control returns the hosted control.
func (m *Model) Control() *flattree.Control {
	return m.ctl
}

// Status returns the footer message.
func (m *Model) Status() string {
	return m.status
}

// Modified reports whether the outline has unsaved edits.
func (m *Model) Modified() bool {
	return m.modified
}

func (m *Model) callbacks() flattree.Callbacks {
	return flattree.Callbacks{
		ExecuteLeaf: func(id int, title string) flattree.Action {
			m.status = "opened " + outline.Path(m.ctl, id, pathSep)
			return flattree.ActionDefault
		},
		Rename: func(id int, title string) flattree.Action {
			if strings.TrimSpace(title) == "" {
				m.status = "title cannot be empty"
				return flattree.ActionIgnore
			}
			m.edited(fmt.Sprintf("renamed to %q", title))
			return flattree.ActionDefault
		},
		ToggleValue: func(id int, value, _ flattree.Toggle) flattree.Action {
			title, _ := m.ctl.Title(id)
			m.edited(fmt.Sprintf("%s: %s", title, value))
			return flattree.ActionDefault
		},
		DragDrop: func(src, dst int, _, ctrl bool) flattree.Action {
			verb := "moved"
			if ctrl {
				verb = "copied"
			}
			title, _ := m.ctl.Title(src)
			m.edited(fmt.Sprintf("%s %q", verb, title))
			return flattree.ActionContinue
		},
		RightClick: func(id int) flattree.Action {
			m.status = m.describe(id)
			return flattree.ActionDefault
		},
	}
}

// edited records an outline change.
func (m *Model) edited(status string) {
	m.modified = true
	m.previewStale = true
	m.status = status
}

// describe summarizes a node for the footer.
func (m *Model) describe(id int) string {
	path := outline.Path(m.ctl, id, pathSep)
	if kind, _ := m.ctl.Kind(id); kind == flattree.Branch {
		n, _ := m.ctl.ChildCount(id)
		total, _ := m.ctl.TotalChildCount(id)
		return fmt.Sprintf("%s: %d children, %d descendants", path, n, total)
	}
	return path
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
	case OutlineReadyMsg:
		m.reload(msg.Snapshot)
	case OutlineErrorMsg:
		m.status = "reload failed: " + msg.Err.Error()
	}

	switch {
	case m.confirm != nil:
		cmd = m.updateConfirm(msg)
	case m.editor.Visible():
		cmd = m.updateRename(msg)
	case m.finding:
		cmd = m.updateFind(msg)
	default:
		switch msg := msg.(type) {
		case tea.KeyMsg:
			cmd = m.handleKey(msg)
		case tea.MouseMsg:
			cmd = m.handleMouse(msg)
		}
	}
	m.layout()
	return m, cmd
}

// reload swaps in a new version of the outline, carrying the view state of
// the old one across.
func (m *Model) reload(snap *OutlineSnapshot) {
	if snap == nil || snap.Outline == nil {
		return
	}
	def := m.ctl.Config().AddExpanded
	state := CaptureTreeState(m.ctl, m.opts.Name, documentExpansion(m.doc, def))
	if err := m.populate(snap.Outline); err != nil {
		m.status = "reload failed: " + err.Error()
		if err := m.populate(m.doc); err != nil {
			log.Printf("warning: restoring outline: %v", err)
		}
		state.Apply(m.ctl)
		return
	}
	m.doc = snap.Outline
	state.Apply(m.ctl)
	m.ensureSelection()
	m.modified = false
	m.previewStale = true
	m.matches = nil
	m.status = fmt.Sprintf("reloaded %s (%s)", pluralize(snap.Stats.Nodes, "node"), hashPrefix(snap.Hash))
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		m.quit()
		return tea.Quit
	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil
	case key.Matches(msg, k.Preview):
		m.togglePreview()
		return nil
	case key.Matches(msg, k.Pane):
		if m.showPreview {
			m.previewFocused = !m.previewFocused
			m.ctl.FocusChanged(!m.previewFocused)
		}
		return nil
	}

	if m.previewFocused {
		var cmd tea.Cmd
		m.preview, cmd = m.preview.Update(msg)
		return cmd
	}

	switch {
	case key.Matches(msg, k.Up):
		m.ctl.KeyPress(flattree.KeyUp, flattree.Mods{})
	case key.Matches(msg, k.Down):
		m.ctl.KeyPress(flattree.KeyDown, flattree.Mods{})
	case key.Matches(msg, k.ExtendUp):
		m.ctl.KeyPress(flattree.KeyUp, flattree.Mods{Shift: true})
	case key.Matches(msg, k.ExtendDown):
		m.ctl.KeyPress(flattree.KeyDown, flattree.Mods{Shift: true})
	case key.Matches(msg, k.FocusUp):
		m.ctl.KeyPress(flattree.KeyUp, flattree.Mods{Ctrl: true})
	case key.Matches(msg, k.FocusDown):
		m.ctl.KeyPress(flattree.KeyDown, flattree.Mods{Ctrl: true})
	case key.Matches(msg, k.Home):
		m.ctl.KeyPress(flattree.KeyHome, flattree.Mods{})
	case key.Matches(msg, k.End):
		m.ctl.KeyPress(flattree.KeyEnd, flattree.Mods{})
	case key.Matches(msg, k.PageUp):
		m.ctl.KeyPress(flattree.KeyPageUp, flattree.Mods{})
	case key.Matches(msg, k.PageDown):
		m.ctl.KeyPress(flattree.KeyPageDown, flattree.Mods{})
	case key.Matches(msg, k.Activate):
		m.ctl.KeyPress(flattree.KeyEnter, flattree.Mods{})
	case key.Matches(msg, k.Mark):
		m.ctl.KeyPress(flattree.KeySpace, flattree.Mods{Ctrl: true})
	case key.Matches(msg, k.Collapse):
		m.collapse()
	case key.Matches(msg, k.Expand):
		m.expand()
	case key.Matches(msg, k.Toggle):
		if !m.ctl.CycleToggle(m.ctl.Focus()) {
			m.status = "no check box here"
		}
	case key.Matches(msg, k.ExpandAll):
		m.ctl.ExpandAll(true)
		m.ctl.ScrollFocusVisible(flattree.ScrollDown)
	case key.Matches(msg, k.CollapseAll):
		m.ctl.ExpandAll(false)
		m.ctl.ScrollFocusVisible(flattree.ScrollUp)
	case key.Matches(msg, k.Rename):
		if !m.ctl.StartRename() {
			m.status = "rename is disabled"
			return nil
		}
		return textinput.Blink
	case key.Matches(msg, k.AddLeaf):
		return m.add(false)
	case key.Matches(msg, k.AddChild):
		return m.add(true)
	case key.Matches(msg, k.Delete):
		return m.askDelete()
	case key.Matches(msg, k.Save):
		m.save()
	case key.Matches(msg, k.Reload):
		if m.opts.Worker == nil {
			m.status = "nothing to reload from"
			return nil
		}
		m.opts.Worker.TriggerRefresh()
		m.status = "reloading…"
	case key.Matches(msg, k.Find):
		m.finding = true
		m.findInput.SetValue("")
		m.matches = nil
		m.findInput.Focus()
		return textinput.Blink
	case key.Matches(msg, k.NextHit):
		m.nextMatch(1)
	case key.Matches(msg, k.PrevHit):
		m.nextMatch(-1)
	case key.Matches(msg, k.CopyName):
		if title, ok := m.ctl.Title(m.ctl.Focus()); ok {
			m.copyText(title)
		}
	case key.Matches(msg, k.CopyPath):
		if f := m.ctl.Focus(); f >= 0 {
			m.copyText(outline.Path(m.ctl, f, pathSep))
		}
	}
	return nil
}

// collapse closes the focused branch, or moves to the parent when there is
// nothing to close.
func (m *Model) collapse() {
	f := m.ctl.Focus()
	kind, ok := m.ctl.Kind(f)
	if !ok {
		return
	}
	if state, _ := m.ctl.State(f); kind == flattree.Branch && state == flattree.Expanded {
		m.ctl.SetState(f, flattree.Collapsed)
		return
	}
	if p, ok := m.ctl.Parent(f); ok && p >= 0 {
		m.ctl.SetFocus(p)
		m.ctl.ScrollFocusVisible(flattree.ScrollUp)
	}
}

// expand opens the focused branch, or moves to its first child when it is
// already open.
func (m *Model) expand() {
	f := m.ctl.Focus()
	if kind, ok := m.ctl.Kind(f); !ok || kind != flattree.Branch {
		return
	}
	if state, _ := m.ctl.State(f); state == flattree.Collapsed {
		m.ctl.SetState(f, flattree.Expanded)
		m.ctl.ScrollFocusVisible(flattree.ScrollDown)
		return
	}
	// Ids run in display order, so the first child follows its branch.
	if n, _ := m.ctl.ChildCount(f); n > 0 {
		m.ctl.SetFocus(f + 1)
		m.ctl.ScrollFocusVisible(flattree.ScrollDown)
	}
}

// add creates a node next to the focus, or inside it when child is set, and
// opens the rename editor on it.
func (m *Model) add(child bool) tea.Cmd {
	const title = "New item"
	f := m.ctl.Focus()
	var (
		id int
		ok bool
	)
	switch {
	case m.ctl.Count() == 0:
		id, ok = m.ctl.AddLeaf(-1, title)
	case child:
		if kind, _ := m.ctl.Kind(f); kind != flattree.Branch {
			m.status = "only branches take children"
			return nil
		}
		m.ctl.SetState(f, flattree.Expanded)
		id, ok = m.ctl.AddLeaf(f, title)
	default:
		id, ok = m.ctl.InsertLeaf(f, title)
	}
	if !ok {
		return nil
	}
	m.ctl.SetFocus(id)
	m.ctl.ScrollFocusVisible(flattree.ScrollDown)
	m.edited("added " + outline.Path(m.ctl, id, pathSep))
	if m.ctl.StartRename() {
		return textinput.Blink
	}
	return nil
}

func (m *Model) askDelete() tea.Cmd {
	f := m.ctl.Focus()
	title, ok := m.ctl.Title(f)
	if !ok {
		return nil
	}
	prompt := fmt.Sprintf("Delete %q?", title)
	if n, _ := m.ctl.TotalChildCount(f); n > 0 {
		prompt = fmt.Sprintf("Delete %q and %s?", title, pluralize(n, "descendant"))
	}
	m.deleteID = f
	m.confirmYes = false
	m.confirm = huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(prompt).
			Affirmative("Delete").
			Negative("Keep").
			Value(&m.confirmYes),
	)).WithShowHelp(false).WithWidth(m.width)
	return m.confirm.Init()
}

func (m *Model) updateConfirm(msg tea.Msg) tea.Cmd {
	form, cmd := m.confirm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.confirm = f
	}
	switch m.confirm.State {
	case huh.StateCompleted:
		if m.confirmYes {
			title, _ := m.ctl.Title(m.deleteID)
			if m.ctl.Remove(m.deleteID, false) {
				m.edited(fmt.Sprintf("deleted %q", title))
			}
		} else {
			m.status = "kept"
		}
	case huh.StateAborted:
		m.status = "kept"
	default:
		return cmd
	}
	m.confirm = nil
	m.deleteID = -1
	return nil
}

func (m *Model) updateRename(msg tea.Msg) tea.Cmd {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.Type {
		case tea.KeyEnter:
			m.ctl.RenameCommit(m.editor.Value())
			return nil
		case tea.KeyEsc:
			m.ctl.KeyPress(flattree.KeyEscape, flattree.Mods{})
			return nil
		}
	}
	if mm, ok := msg.(tea.MouseMsg); ok {
		if mm.Action == tea.MouseActionRelease {
			m.leftDown = false
		}
		// A click outside the editor commits, like losing focus would.
		if mm.Action == tea.MouseActionPress && !m.editor.rect.Contains(mm.X, mm.Y) {
			m.ctl.RenameCommit(m.editor.Value())
			return m.handleMouse(mm)
		}
		return nil
	}
	return m.editor.update(msg)
}

func (m *Model) updateFind(msg tea.Msg) tea.Cmd {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.findInput, cmd = m.findInput.Update(msg)
		return cmd
	}
	switch km.Type {
	case tea.KeyEnter:
		m.finding = false
		m.findInput.Blur()
		if len(m.matches) == 0 {
			m.status = "no match"
		}
		return nil
	case tea.KeyEsc:
		m.finding = false
		m.findInput.Blur()
		m.matches = nil
		return nil
	}
	var cmd tea.Cmd
	m.findInput, cmd = m.findInput.Update(msg)
	m.search(m.findInput.Value())
	return cmd
}

// titleSource adapts the control's titles to fuzzy.Source.
type titleSource struct {
	ctl *flattree.Control
}

func (s titleSource) String(i int) string {
	title, _ := s.ctl.Title(i)
	return title
}

func (s titleSource) Len() int {
	return s.ctl.Count()
}

// search matches every title against pattern and jumps to the first match
// in display order.
func (m *Model) search(pattern string) {
	m.matches = nil
	m.matchAt = 0
	if pattern == "" {
		return
	}
	m.matches = fuzzy.FindFrom(pattern, titleSource{m.ctl})
	sort.SliceStable(m.matches, func(i, j int) bool {
		return m.matches[i].Index < m.matches[j].Index
	})
	if len(m.matches) == 0 {
		return
	}
	// Start from the first match at or below the focus.
	f := m.ctl.Focus()
	for i, match := range m.matches {
		if match.Index >= f {
			m.matchAt = i
			break
		}
	}
	m.reveal(m.matches[m.matchAt].Index)
}

func (m *Model) nextMatch(step int) {
	if len(m.matches) == 0 {
		m.status = "no match"
		return
	}
	n := len(m.matches)
	m.matchAt = ((m.matchAt+step)%n + n) % n
	m.reveal(m.matches[m.matchAt].Index)
	m.status = fmt.Sprintf("match %d of %d", m.matchAt+1, n)
}

// reveal expands the ancestors of id and focuses it.
func (m *Model) reveal(id int) {
	for p, ok := m.ctl.Parent(id); ok && p >= 0; p, ok = m.ctl.Parent(p) {
		m.ctl.SetState(p, flattree.Expanded)
	}
	m.ctl.SetFocus(id)
	m.ctl.ScrollFocusVisible(flattree.ScrollDown)
}

func (m *Model) copyText(s string) {
	if err := m.copy(s); err != nil {
		m.status = "copy failed: " + err.Error()
		return
	}
	m.status = fmt.Sprintf("copied %q", s)
}

// save writes the control back to SavePath with the document's title and
// settings.
func (m *Model) save() {
	if m.opts.SavePath == "" {
		m.status = "read-only outline"
		return
	}
	o := outline.Capture(m.ctl)
	o.Title = m.doc.Title
	o.Settings = m.doc.Settings
	if err := loader.SaveOutline(m.opts.SavePath, o); err != nil {
		m.status = "save failed: " + err.Error()
		return
	}
	if m.opts.Worker != nil {
		if hash, err := snapshot.Hash(o); err == nil {
			m.opts.Worker.SetLastHash(hash)
		}
	}
	m.doc = o
	m.modified = false
	m.status = "saved " + m.opts.SavePath
}

// quit persists the view state.
func (m *Model) quit() {
	if m.opts.StatePath == "" {
		return
	}
	def := m.ctl.Config().AddExpanded
	SaveTreeState(m.opts.StatePath, CaptureTreeState(m.ctl, m.opts.Name, documentExpansion(m.doc, def)))
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.showPreview && msg.X >= m.treeW {
		if tea.MouseEvent(msg).IsWheel() {
			var cmd tea.Cmd
			m.preview, cmd = m.preview.Update(msg)
			return cmd
		}
		if msg.Action == tea.MouseActionPress {
			m.previewFocused = true
			m.ctl.FocusChanged(false)
		}
		return nil
	}
	if msg.Y >= m.treeH && msg.Action != tea.MouseActionRelease {
		return nil
	}

	mods := flattree.Mods{Shift: msg.Shift, Ctrl: msg.Ctrl, Alt: msg.Alt}
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.ctl.Wheel(1)
		case tea.MouseButtonWheelDown:
			m.ctl.Wheel(-1)
		case tea.MouseButtonLeft:
			if m.previewFocused {
				m.previewFocused = false
				m.ctl.FocusChanged(true)
			}
			now := m.clock()
			mods.Double = !m.lastPress.IsZero() && now.Sub(m.lastPress) <= doubleClickWindow &&
				msg.X == m.lastX && msg.Y == m.lastY
			if mods.Double {
				m.lastPress = time.Time{}
			} else {
				m.lastPress, m.lastX, m.lastY = now, msg.X, msg.Y
			}
			m.leftDown = true
			m.ctl.Button(flattree.ButtonEvent{Button: flattree.Button1, Pressed: true, X: msg.X, Y: msg.Y, Mods: mods})
		case tea.MouseButtonMiddle:
			m.ctl.Button(flattree.ButtonEvent{Button: flattree.Button2, Pressed: true, X: msg.X, Y: msg.Y, Mods: mods})
		case tea.MouseButtonRight:
			m.ctl.Button(flattree.ButtonEvent{Button: flattree.Button3, Pressed: true, X: msg.X, Y: msg.Y, Mods: mods})
		}
	case tea.MouseActionRelease:
		if !m.leftDown {
			return nil
		}
		m.leftDown = false
		m.ctl.Button(flattree.ButtonEvent{Button: flattree.Button1, X: msg.X, Y: msg.Y, Mods: mods})
	case tea.MouseActionMotion:
		mods.Button1 = m.leftDown
		m.ctl.Motion(msg.X, msg.Y, mods)
	}
	if m.editor.Visible() {
		return textinput.Blink
	}
	return nil
}

func (m *Model) togglePreview() {
	m.showPreview = !m.showPreview
	if !m.showPreview && m.previewFocused {
		m.previewFocused = false
		m.ctl.FocusChanged(true)
	}
	m.previewStale = true
}

// bottomView is everything below the tree: the find line, the delete
// confirmation or the help, and the status bar.
func (m *Model) bottomView() string {
	var parts []string
	switch {
	case m.confirm != nil:
		parts = append(parts, m.confirm.View())
	case m.finding:
		parts = append(parts, m.findInput.View())
	default:
		parts = append(parts, m.help.View(m.keys))
	}
	parts = append(parts, m.renderFooter())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// layout splits the window between the tree, the preview and the bottom
// area.
func (m *Model) layout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	treeW := m.width
	if m.showPreview && m.width >= MinPreviewWidth {
		treeW = m.width / 2
	}
	treeH := max(m.height-lipgloss.Height(m.bottomView()), 1)
	if treeW != m.treeW || treeH != m.treeH {
		m.treeW, m.treeH = treeW, treeH
		m.ctl.Resize(treeW, treeH)
	}

	if !m.showPreview {
		return
	}
	m.preview.Width = max(m.width-treeW-1, 0)
	m.preview.Height = treeH
	if m.previewStale || m.rendererWidth != m.preview.Width {
		m.renderPreview()
	}
}

func (m *Model) renderPreview() {
	m.previewStale = false
	if m.renderer == nil || m.rendererWidth != m.preview.Width {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(max(m.preview.Width-2, 20)),
		)
		if err != nil {
			m.preview.SetContent("preview unavailable: " + err.Error())
			return
		}
		m.renderer, m.rendererWidth = r, m.preview.Width
	}
	o := outline.Capture(m.ctl)
	o.Title = m.doc.Title
	md, err := export.GenerateMarkdown(o, m.opts.Name)
	if err != nil {
		m.preview.SetContent(err.Error())
		return
	}
	out, err := m.renderer.Render(md)
	if err != nil {
		m.preview.SetContent(md)
		return
	}
	m.preview.SetContent(out)
}

func (m *Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return "loading…"
	}
	tree := m.renderTree()
	if m.showPreview && m.treeW < m.width {
		sep := m.theme.renderer().NewStyle().
			Foreground(lipgloss.Color(m.theme.Guide)).
			Render(strings.TrimSuffix(strings.Repeat("│\n", m.treeH), "\n"))
		tree = lipgloss.JoinHorizontal(lipgloss.Top, tree, sep, m.preview.View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, tree, m.bottomView())
}

// renderTree paints the control, marks find matches and lays the rename
// editor over its row.
func (m *Model) renderTree() string {
	cfg := m.ctl.Config()
	cv := NewCellCanvas(m.treeW, m.treeH, cfg.Foreground, cfg.Background, m.theme)
	m.ctl.Draw(cv)
	for _, match := range m.matches {
		if !m.ctl.IsVisible(match.Index) {
			continue
		}
		if r, ok := m.ctl.TitleRect(match.Index); ok {
			cv.MarkMatch(r.Y, match.Str, match.MatchedIndexes)
		}
	}
	if !m.editor.Visible() {
		return cv.Render()
	}

	lines := strings.Split(cv.Render(), "\n")
	r := m.editor.rect
	if r.Y >= 0 && r.Y < len(lines) {
		x := min(max(r.X, 0), m.treeW)
		field := m.editor.view()
		rest := m.treeW - x - lipgloss.Width(field)
		lines[r.Y] = cv.RenderSpan(r.Y, 0, x) + field
		if rest > 0 {
			lines[r.Y] += strings.Repeat(" ", rest)
		}
	}
	return strings.Join(lines, "\n")
}

// renderFooter draws the status bar: the outline name, the status message
// and the counters.
func (m *Model) renderFooter() string {
	r := m.theme.renderer()
	nameStyle := r.NewStyle().
		Background(lipgloss.Color(m.theme.Selected)).
		Foreground(lipgloss.Color("#ffffff")).
		Bold(true).
		Padding(0, 1)
	textStyle := r.NewStyle().Foreground(lipgloss.Color(m.theme.Status)).Padding(0, 1)

	name := m.doc.Title
	if name == "" {
		name = m.opts.Name
	}
	if m.modified {
		name += " *"
	}

	msg := m.status
	if msg == "" {
		if f := m.ctl.Focus(); f >= 0 {
			msg = outline.Path(m.ctl, f, pathSep)
		}
	}

	counts := pluralize(m.ctl.Count(), "node")
	if marked := m.markedCount(); marked > 0 {
		counts = fmt.Sprintf("%d marked • %s", marked, counts)
	}
	if pct := m.scroll.percent(); pct >= 0 {
		counts += fmt.Sprintf(" • %d%%", pct)
	}

	nameSection := nameStyle.Render(name)
	countSection := textStyle.Render(counts)
	room := m.width - lipgloss.Width(nameSection) - lipgloss.Width(countSection)
	msgSection := textStyle.Width(max(room, 0)).MaxWidth(max(room, 0)).MaxHeight(1).Render(msg)
	return lipgloss.JoinHorizontal(lipgloss.Top, nameSection, msgSection, countSection)
}

func (m *Model) markedCount() int {
	n := 0
	for id := 0; id < m.ctl.Count(); id++ {
		if on, _ := m.ctl.Marked(id); on {
			n++
		}
	}
	return n
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return humanize.Comma(int64(n)) + " " + noun + "s"
}
