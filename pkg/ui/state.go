package ui

import (
	"log"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/flattree/pkg/flattree"
	"github.com/vanderheijden86/flattree/pkg/model"
	"github.com/vanderheijden86/flattree/pkg/outline"
)

// TreeState is the persistent view state of one outline. It is saved to
// .flattree/tree-state.json so expand/collapse and focus survive restarts
// and reloads.
//
// File format (JSON):
//
//	{
//	  "version": 1,
//	  "outline": "/abs/path/plan.outline.yaml",
//	  "expanded": {
//	    "Docs/Guide": true,
//	    "Notes": false
//	  },
//	  "focus": "Docs/Guide/Intro"
//	}
//
// Nodes are keyed by their title path. Only branches whose state differs from
// what the document asks for are stored; every other node keeps the document
// behavior. A state written for another outline is ignored.
type TreeState struct {
	Version  int             `json:"version"`
	Outline  string          `json:"outline"`
	Expanded map[string]bool `json:"expanded"`
	Focus    string          `json:"focus,omitempty"`
	Marked   []string        `json:"marked,omitempty"`
}

// TreeStateVersion is the current schema version for tree persistence
const TreeStateVersion = 1

// pathSep joins titles into node keys.
const pathSep = "/"

// DefaultTreeState returns an empty state for the named outline.
func DefaultTreeState(name string) *TreeState {
	return &TreeState{
		Version:  TreeStateVersion,
		Outline:  name,
		Expanded: make(map[string]bool),
	}
}

// CaptureTreeState records the control's view state. docExpanded reports the
// state the document gives a branch path; branches matching it are skipped.
func CaptureTreeState(ctl *flattree.Control, name string, docExpanded func(path string) bool) *TreeState {
	state := DefaultTreeState(name)
	for id := 0; id < ctl.Count(); id++ {
		path := outline.Path(ctl, id, pathSep)
		if kind, _ := ctl.Kind(id); kind == flattree.Branch {
			s, _ := ctl.State(id)
			expanded := s == flattree.Expanded
			if docExpanded == nil || docExpanded(path) != expanded {
				state.Expanded[path] = expanded
			}
		}
		if on, _ := ctl.Marked(id); on {
			state.Marked = append(state.Marked, path)
		}
	}
	if f := ctl.Focus(); f >= 0 {
		state.Focus = outline.Path(ctl, f, pathSep)
	}
	return state
}

// Apply restores the recorded state onto ctl. Paths that no longer exist are
// skipped.
func (s *TreeState) Apply(ctl *flattree.Control) {
	if s == nil {
		return
	}
	ids := make(map[string]int, ctl.Count())
	for id := 0; id < ctl.Count(); id++ {
		path := outline.Path(ctl, id, pathSep)
		if _, dup := ids[path]; !dup {
			ids[path] = id
		}
	}

	for path, expanded := range s.Expanded {
		id, ok := ids[path]
		if !ok {
			continue
		}
		state := flattree.Collapsed
		if expanded {
			state = flattree.Expanded
		}
		ctl.SetState(id, state)
	}

	if len(s.Marked) > 0 {
		// Replace the document marks only when the state carries some. In
		// SINGLE mode CLEARALL is rejected but SetMarked clears the others.
		ctl.Mark("CLEARALL")
		for _, path := range s.Marked {
			if id, ok := ids[path]; ok {
				ctl.SetMarked(id, true)
			}
		}
	}
	if id, ok := ids[s.Focus]; ok && s.Focus != "" {
		ctl.SetFocus(id)
		ctl.ScrollFocusVisible(flattree.ScrollDown)
	}
}

// documentExpansion maps every branch path of o to the state the document
// gives it; def is the state of branches without an explicit flag.
func documentExpansion(o *model.Outline, def bool) func(path string) bool {
	states := make(map[string]bool)
	var walk func(items []*model.Item, prefix string)
	walk = func(items []*model.Item, prefix string) {
		for _, it := range items {
			path := prefix + it.Title
			if it.IsBranch() {
				if _, dup := states[path]; !dup {
					states[path] = it.IsExpanded(def)
				}
			}
			walk(it.Children, path+pathSep)
		}
	}
	if o != nil {
		walk(o.Items, "")
	}
	return func(path string) bool {
		if expanded, ok := states[path]; ok {
			return expanded
		}
		return def
	}
}

// SaveTreeState writes the state to path, creating the directory if needed.
// Failures are logged; losing view state never interrupts the session.
func SaveTreeState(path string, state *TreeState) {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		log.Printf("warning: failed to marshal tree state: %v", err)
		return
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("warning: failed to create state directory %s: %v", dir, err)
		return
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Printf("warning: failed to write tree state to %s: %v", path, err)
	}
}

// LoadTreeState reads the state saved for the named outline. A missing,
// corrupt or foreign file yields nil.
func LoadTreeState(path, name string) *TreeState {
	data, err := os.ReadFile(path)
	if err != nil {
		// File doesn't exist = first run, use the document state
		return nil
	}

	var state TreeState
	if err := json.Unmarshal(data, &state); err != nil {
		log.Printf("warning: invalid tree state file, using defaults: %v", err)
		return nil
	}
	if state.Version != TreeStateVersion || state.Outline != name {
		return nil
	}
	if state.Expanded == nil {
		state.Expanded = make(map[string]bool)
	}
	return &state
}
