// Package outline moves outline documents in and out of a flattree.Control.
package outline

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/vanderheijden86/flattree/pkg/attrib"
	"github.com/vanderheijden86/flattree/pkg/flattree"
	"github.com/vanderheijden86/flattree/pkg/model"
)

// ApplySettings assigns the document settings through the attribute façade.
// Every setting is attempted; the rejected ones are reported together.
func ApplySettings(f *attrib.Facade, s *model.Settings) error {
	if s == nil {
		return nil
	}
	var errs []error
	for _, a := range s.Attributes() {
		if !f.Set(a.Name, a.Value) {
			errs = append(errs, fmt.Errorf("attribute %s: rejected value %q", a.Name, a.Value))
		}
	}
	return errors.Join(errs...)
}

// Populate replaces the control's nodes with the outline, applying its
// settings first. Each node's user data is the *model.Item it came from.
// On error the control is left empty.
func Populate(ctl *flattree.Control, o *model.Outline) error {
	if err := o.Validate(); err != nil {
		return fmt.Errorf("invalid outline: %w", err)
	}
	if err := ApplySettings(attrib.New(ctl), o.Settings); err != nil {
		return fmt.Errorf("applying settings: %w", err)
	}

	ctl.RemoveAll()
	b := builder{ctl: ctl, expandDefault: ctl.Config().AddExpanded}
	if err := b.add(o.Items, -1); err != nil {
		ctl.RemoveAll()
		return err
	}
	return nil
}

type builder struct {
	ctl           *flattree.Control
	expandDefault bool
}

// add appends items as the children of parent (-1 for top level). The first
// child goes in with Add*, which places it first under the branch; every
// later one follows its previous sibling via Insert*.
func (b *builder) add(items []*model.Item, parent int) error {
	prev := -1
	for _, it := range items {
		var (
			id int
			ok bool
		)
		branch := it.IsBranch()
		switch {
		case prev >= 0 && branch:
			id, ok = b.ctl.InsertBranch(prev, it.Title)
		case prev >= 0:
			id, ok = b.ctl.InsertLeaf(prev, it.Title)
		case branch:
			id, ok = b.ctl.AddBranch(parent, it.Title)
		default:
			id, ok = b.ctl.AddLeaf(parent, it.Title)
		}
		if !ok {
			return fmt.Errorf("adding %q: no placement under node %d", it.Title, parent)
		}
		if err := b.decorate(id, it); err != nil {
			return fmt.Errorf("item %q: %w", it.Title, err)
		}
		if branch {
			if err := b.add(it.Children, id); err != nil {
				return err
			}
			state := flattree.Collapsed
			if it.IsExpanded(b.expandDefault) {
				state = flattree.Expanded
			}
			b.ctl.SetState(id, state)
		}
		prev = id
	}
	return nil
}

func (b *builder) decorate(id int, it *model.Item) error {
	c := b.ctl
	c.SetUserData(id, it)

	if it.ToggleHidden {
		c.SetToggleVisible(id, false)
	} else if it.Toggle != "" {
		v, err := flattree.ParseToggle(it.Toggle)
		if err != nil {
			return err
		}
		c.SetToggleValue(id, v)
	}

	if it.Image != "" && !c.SetImageNamed(id, it.Image) {
		log.Printf("warning: image %q is not registered, using the default", it.Image)
	}
	if it.ImageExpanded != "" && !c.SetImageExpandedNamed(id, it.ImageExpanded) {
		log.Printf("warning: image %q is not registered, using the default", it.ImageExpanded)
	}

	if it.Color != "" {
		col, err := flattree.ParseColor(it.Color)
		if err != nil {
			return fmt.Errorf("color: %w", err)
		}
		c.SetColor(id, &col)
	}
	if it.BackColor != "" {
		col, err := flattree.ParseColor(it.BackColor)
		if err != nil {
			return fmt.Errorf("back color: %w", err)
		}
		c.SetBackColor(id, &col)
	}
	if it.Font != "" {
		font, err := flattree.ParseFont(it.Font)
		if err != nil {
			return fmt.Errorf("font: %w", err)
		}
		c.SetTitleFont(id, &font)
	}
	if it.Marked {
		c.SetMarked(id, true)
	}
	return nil
}

// Capture walks the control back into an outline in display order.
func Capture(ctl *flattree.Control) *model.Outline {
	o := &model.Outline{Version: model.CurrentVersion}

	// stack[d] is the children slice receiving nodes at depth d.
	var stack []*[]*model.Item
	stack = append(stack, &o.Items)

	for id := 0; id < ctl.Count(); id++ {
		depth, _ := ctl.Depth(id)
		it := captureItem(ctl, id)
		stack = stack[:depth+1]
		*stack[depth] = append(*stack[depth], it)
		stack = append(stack, &it.Children)
	}
	return o
}

func captureItem(ctl *flattree.Control, id int) *model.Item {
	title, _ := ctl.Title(id)
	it := &model.Item{Title: title, Kind: model.KindLeaf}

	if kind, _ := ctl.Kind(id); kind == flattree.Branch {
		it.Kind = model.KindBranch
		state, _ := ctl.State(id)
		it.Expanded = model.Bool(state == flattree.Expanded)
	}

	if visible, ok := ctl.ToggleVisible(id); ok && !visible {
		it.ToggleHidden = true
	}
	if v, ok := ctl.ToggleValue(id); ok && v != flattree.ToggleOff {
		it.Toggle = v.String()
	}

	_, it.Image, _ = ctl.Image(id)
	_, it.ImageExpanded, _ = ctl.ImageExpanded(id)
	if col, ok := ctl.Color(id); ok {
		it.Color = col.String()
	}
	if col, ok := ctl.BackColor(id); ok {
		it.BackColor = col.String()
	}
	if font, own, _ := ctl.TitleFont(id); own {
		it.Font = font.String()
	}
	it.Marked, _ = ctl.Marked(id)
	return it
}

// Path returns the titles from the top level down to id, joined by sep.
func Path(ctl *flattree.Control, id int, sep string) string {
	var parts []string
	for id >= 0 {
		title, ok := ctl.Title(id)
		if !ok {
			break
		}
		parts = append(parts, title)
		id, _ = ctl.Parent(id)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, sep)
}
