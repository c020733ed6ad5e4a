package ui

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/vanderheijden86/flattree/pkg/flattree"
	"github.com/vanderheijden86/flattree/pkg/loader"
)

// TestCaptureTreeStateStoresOnlyOverrides verifies branches matching the
// document are left out of the state.
func TestCaptureTreeStateStoresOnlyOverrides(t *testing.T) {
	o, err := loader.DecodeOutline([]byte(docsYAML), loader.FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	ctl := newCellControl(t, docsYAML)
	ctl.SetState(2, flattree.Expanded) // Guide
	ctl.Select(3, false, false)        // Intro

	state := CaptureTreeState(ctl, "plan", documentExpansion(o, true))

	if want := map[string]bool{"Docs/Guide": true}; !reflect.DeepEqual(state.Expanded, want) {
		t.Errorf("expected %v, got %v", want, state.Expanded)
	}
	if state.Focus != "Docs/Guide/Intro" {
		t.Errorf("expected focus Docs/Guide/Intro, got %q", state.Focus)
	}
	if want := []string{"Docs/Guide/Intro"}; !reflect.DeepEqual(state.Marked, want) {
		t.Errorf("expected marks %v, got %v", want, state.Marked)
	}

	// Without a document every branch is recorded.
	all := CaptureTreeState(ctl, "plan", nil)
	if len(all.Expanded) != 2 {
		t.Errorf("expected 2 branches, got %v", all.Expanded)
	}
}

// TestTreeStateApply verifies expand state, marks and focus are restored by
// path, and unknown paths are skipped.
func TestTreeStateApply(t *testing.T) {
	ctl := newCellControl(t, docsYAML)
	state := &TreeState{
		Version:  TreeStateVersion,
		Expanded: map[string]bool{"Docs/Guide": true, "Docs": true, "Gone": false},
		Focus:    "Docs/Guide/Intro",
		Marked:   []string{"Docs/Guide/Intro", "Missing"},
	}
	state.Apply(ctl)

	if s, _ := ctl.State(2); s != flattree.Expanded {
		t.Errorf("expected Guide expanded, got %v", s)
	}
	if f := ctl.Focus(); f != 3 {
		t.Errorf("expected focus on Intro (3), got %d", f)
	}
	if on, _ := ctl.Marked(3); !on {
		t.Error("expected Intro marked")
	}
	if ctl.MarkedNodes() != "---+-" {
		t.Errorf("expected only Intro marked, got %s", ctl.MarkedNodes())
	}
}

// TestTreeStateApplyNil verifies applying no state changes nothing.
func TestTreeStateApplyNil(t *testing.T) {
	ctl := newCellControl(t, docsYAML)
	var state *TreeState
	state.Apply(ctl)
	if s, _ := ctl.State(2); s != flattree.Collapsed {
		t.Errorf("expected Guide to keep the document state, got %v", s)
	}
}

// TestTreeStateApplyMultiple verifies stored marks replace the document
// marks in MULTIPLE mode.
func TestTreeStateApplyMultiple(t *testing.T) {
	ctl := newCellControl(t, docsYAML, func(cfg *flattree.Config) { cfg.MarkMode = flattree.MarkMultiple })
	ctl.SetMarked(0, true)
	state := DefaultTreeState("plan")
	state.Marked = []string{"README", "Docs/README", "Notes"}
	state.Apply(ctl)
	if got := ctl.MarkedNodes(); got != "-+--+" {
		t.Errorf("expected README and Notes marked, got %s", got)
	}
}

// TestSaveLoadTreeState verifies the state survives a save and is only
// returned for the outline it was written for.
func TestSaveLoadTreeState(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".flattree", "tree-state.json")
	state := DefaultTreeState("/work/plan.outline.yaml")
	state.Expanded["Docs"] = false
	state.Focus = "Docs"
	SaveTreeState(path, state)

	got := LoadTreeState(path, "/work/plan.outline.yaml")
	if got == nil {
		t.Fatal("expected state to load")
	}
	if !reflect.DeepEqual(got, state) {
		t.Errorf("expected %+v, got %+v", state, got)
	}
	if LoadTreeState(path, "/work/other.outline.yaml") != nil {
		t.Error("expected state of another outline to be ignored")
	}
}

// TestLoadTreeStateRejects verifies unusable files fall back to no state.
func TestLoadTreeStateRejects(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
	}{
		{"corrupt", "{not json"},
		{"future version", `{"version": 99, "outline": "plan", "expanded": {}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".json")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			if LoadTreeState(path, "plan") != nil {
				t.Error("expected nil state")
			}
		})
	}
	if LoadTreeState(filepath.Join(dir, "missing.json"), "plan") != nil {
		t.Error("expected nil state for a missing file")
	}
}

// TestLoadTreeStateNilExpanded verifies a file without the expanded map
// still yields a usable state.
func TestLoadTreeStateNilExpanded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte(`{"version": 1, "outline": "plan"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	state := LoadTreeState(path, "plan")
	if state == nil || state.Expanded == nil {
		t.Fatalf("expected state with an empty map, got %+v", state)
	}
}
