package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/flattree/pkg/flattree"
)

// renameEditor is the control's TextEditor: a single-line text input laid
// over the title being renamed.
type renameEditor struct {
	input   textinput.Model
	rect    flattree.Rect
	visible bool
}

func newRenameEditor() *renameEditor {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 256
	return &renameEditor{input: ti}
}

func (e *renameEditor) Show(r flattree.Rect, text string, _ flattree.Font) {
	e.rect = r
	e.visible = true
	e.input.SetValue(text)
	e.input.CursorEnd()
	e.input.Width = max(r.W, 8)
	e.input.Focus()
}

func (e *renameEditor) Hide() {
	e.visible = false
	e.input.Blur()
}

func (e *renameEditor) Visible() bool {
	return e.visible
}

func (e *renameEditor) Value() string {
	return e.input.Value()
}

func (e *renameEditor) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	e.input, cmd = e.input.Update(msg)
	return cmd
}

func (e *renameEditor) view() string {
	return e.input.View()
}
