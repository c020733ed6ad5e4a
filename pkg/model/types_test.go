package model

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

func sample() *Outline {
	return &Outline{
		Version: CurrentVersion,
		Title:   "Plan",
		Settings: &Settings{
			Indentation: Int(4),
			MarkMode:    "MULTIPLE",
			AddExpanded: Bool(false),
			Extra:       map[string]string{"spacing": "1"},
		},
		Items: []*Item{
			{Title: "Docs", Expanded: Bool(true), Children: []*Item{
				{Title: "README", Toggle: "ON"},
				{Title: "Guide", Kind: KindBranch},
			}},
			{Title: "Tasks", Marked: true},
		},
	}
}

func TestKind_IsValid(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		want bool
	}{
		{"Branch", KindBranch, true},
		{"Leaf", KindLeaf, true},
		{"Inferred", "", true},
		{"Invalid", "folder", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.kind.IsValid(); got != tt.want {
				t.Errorf("Kind.IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestItem_IsBranch(t *testing.T) {
	tests := []struct {
		name string
		item Item
		want bool
	}{
		{"InferredLeaf", Item{Title: "a"}, false},
		{"InferredBranch", Item{Title: "a", Children: []*Item{{Title: "b"}}}, true},
		{"EmptyBranch", Item{Title: "a", Kind: KindBranch}, true},
		{"ExplicitLeaf", Item{Title: "a", Kind: KindLeaf}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.IsBranch(); got != tt.want {
				t.Errorf("Item.IsBranch() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOutline_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(o *Outline)
		wantErr string
	}{
		{"Valid", func(*Outline) {}, ""},
		{"EmptyTitle", func(o *Outline) { o.Items[0].Children[1].Title = " " }, "items.0.1: title cannot be empty"},
		{"UnknownKind", func(o *Outline) { o.Items[1].Kind = "folder" }, "invalid kind"},
		{"LeafWithChildren", func(o *Outline) { o.Items[0].Kind = KindLeaf }, "cannot have children"},
		{"BadToggle", func(o *Outline) { o.Items[0].Children[0].Toggle = "maybe" }, "invalid toggle"},
		{"NilItem", func(o *Outline) { o.Items = append(o.Items, nil) }, "items.2: item cannot be null"},
		{"FutureVersion", func(o *Outline) { o.Version = CurrentVersion + 1 }, "unsupported outline version"},
		{"BadIndentation", func(o *Outline) { o.Settings.Indentation = Int(0) }, "settings: indentation"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := sample()
			tt.mutate(o)
			err := o.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestOutline_CloneIsDeep verifies mutating a clone never reaches the original
func TestOutline_CloneIsDeep(t *testing.T) {
	o := sample()
	c := o.Clone()

	c.Items[0].Children[0].Title = "changed"
	*c.Items[0].Expanded = false
	*c.Settings.Indentation = 9
	c.Settings.Extra["spacing"] = "7"
	c.Items = append(c.Items, &Item{Title: "extra"})

	if o.Items[0].Children[0].Title != "README" {
		t.Errorf("expected original child title README, got %s", o.Items[0].Children[0].Title)
	}
	if !*o.Items[0].Expanded {
		t.Error("expected original expand flag to stay true")
	}
	if *o.Settings.Indentation != 4 || o.Settings.Extra["spacing"] != "1" {
		t.Errorf("expected original settings untouched, got %+v", o.Settings)
	}
	if len(o.Items) != 2 {
		t.Errorf("expected 2 top-level items, got %d", len(o.Items))
	}
}

func TestOutline_WalkAndCount(t *testing.T) {
	o := sample()
	if n := o.Count(); n != 4 {
		t.Errorf("expected 4 items, got %d", n)
	}

	var seen []string
	o.Walk(func(it *Item, depth int) bool {
		seen = append(seen, strings.Repeat(">", depth)+it.Title)
		return it.Title != "Docs"
	})
	if got := strings.Join(seen, " "); got != "Docs Tasks" {
		t.Errorf("expected pruned walk \"Docs Tasks\", got %q", got)
	}
}

// TestSettings_Attributes verifies ordering and string forms of the settings
func TestSettings_Attributes(t *testing.T) {
	s := sample().Settings
	var got []string
	for _, a := range s.Attributes() {
		got = append(got, a.Name+"="+a.Value)
	}
	want := "MARKMODE=MULTIPLE INDENTATION=4 ADDEXPANDED=NO SPACING=1"
	if strings.Join(got, " ") != want {
		t.Errorf("expected %q, got %q", want, strings.Join(got, " "))
	}
}

// TestOutline_Encodings verifies the three document formats agree
func TestOutline_Encodings(t *testing.T) {
	o := sample()

	var fromYAML, fromJSON, fromTOML Outline
	y, err := yaml.Marshal(o)
	if err != nil {
		t.Fatalf("yaml marshal: %v", err)
	}
	if err := yaml.Unmarshal(y, &fromYAML); err != nil {
		t.Fatalf("yaml unmarshal: %v", err)
	}
	j, err := json.Marshal(o)
	if err != nil {
		t.Fatalf("json marshal: %v", err)
	}
	if err := json.Unmarshal(j, &fromJSON); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	tm, err := toml.Marshal(o)
	if err != nil {
		t.Fatalf("toml marshal: %v", err)
	}
	if err := toml.Unmarshal(tm, &fromTOML); err != nil {
		t.Fatalf("toml unmarshal: %v", err)
	}

	for name, got := range map[string]Outline{"yaml": fromYAML, "json": fromJSON, "toml": fromTOML} {
		if got.Count() != 4 || got.Items[0].Children[0].Toggle != "ON" || !got.Items[1].Marked {
			t.Errorf("%s: unexpected decoded outline %+v", name, got)
		}
		if got.Settings == nil || *got.Settings.Indentation != 4 || *got.Settings.AddExpanded {
			t.Errorf("%s: unexpected decoded settings %+v", name, got.Settings)
		}
	}

	if !strings.Contains(string(y), "toggle: \"ON\"") && !strings.Contains(string(y), "toggle: ON") {
		t.Errorf("expected yaml to carry the toggle value, got:\n%s", y)
	}
}
