package analysis

import (
	"math"
	"reflect"
	"testing"

	"github.com/vanderheijden86/flattree/pkg/model"
)

func sample() *model.Outline {
	return &model.Outline{Items: []*model.Item{
		{Title: "A", Kind: model.KindBranch, Children: []*model.Item{
			{Title: "A1", Kind: model.KindLeaf, Toggle: "ON"},
			{Title: "A2", Kind: model.KindBranch, Expanded: model.Bool(false), Children: []*model.Item{
				{Title: "A2a", Marked: true},
				{Title: "A2b", Toggle: "on"},
			}},
		}},
		{Title: "B", Kind: model.KindLeaf},
		{Title: "C", Kind: model.KindBranch},
	}}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSummarizeCounts(t *testing.T) {
	s := Summarize(sample())

	if s.Nodes != 7 {
		t.Errorf("expected 7 nodes, got %d", s.Nodes)
	}
	if s.Branches != 3 || s.Leaves != 4 {
		t.Errorf("expected 3 branches and 4 leaves, got %d/%d", s.Branches, s.Leaves)
	}
	if s.EmptyBranches != 1 {
		t.Errorf("expected 1 empty branch, got %d", s.EmptyBranches)
	}
	if s.Marked != 1 || s.ToggledOn != 2 {
		t.Errorf("expected 1 marked and 2 toggled on, got %d/%d", s.Marked, s.ToggledOn)
	}
	if s.Collapsed != 1 {
		t.Errorf("expected 1 collapsed branch, got %d", s.Collapsed)
	}
}

// TestSummarizeLevels verifies the breadth-first level populations
func TestSummarizeLevels(t *testing.T) {
	s := Summarize(sample())
	if !reflect.DeepEqual(s.Levels, []int{3, 2, 2}) {
		t.Errorf("expected levels [3 2 2], got %v", s.Levels)
	}
	if s.MaxDepth != 2 {
		t.Errorf("expected max depth 2, got %d", s.MaxDepth)
	}
}

func TestSummarizeDistributions(t *testing.T) {
	s := Summarize(sample())
	if !almostEqual(s.MeanBranching, 4.0/3.0) {
		t.Errorf("expected mean branching 4/3, got %f", s.MeanBranching)
	}
	if s.StdDevBranching <= 0 {
		t.Errorf("expected positive branching deviation, got %f", s.StdDevBranching)
	}
	if !almostEqual(s.MeanTitleLen, 13.0/7.0) {
		t.Errorf("expected mean title length 13/7, got %f", s.MeanTitleLen)
	}
}

func TestSummarizeHubs(t *testing.T) {
	s := Summarize(sample())
	want := []Hub{
		{Path: "A", Score: 4, Descendants: 4},
		{Path: "A/A2", Score: 4, Descendants: 2},
	}
	if len(s.Hubs) != len(want) {
		t.Fatalf("expected %d hubs, got %+v", len(want), s.Hubs)
	}
	for i := range want {
		got := s.Hubs[i]
		if got.Path != want[i].Path || !almostEqual(got.Score, want[i].Score) || got.Descendants != want[i].Descendants {
			t.Errorf("hub %d: expected %+v, got %+v", i, want[i], got)
		}
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(&model.Outline{})
	if s.Nodes != 0 || s.MaxDepth != 0 || len(s.Levels) != 0 || len(s.Hubs) != 0 {
		t.Errorf("expected zero stats, got %+v", s)
	}
}

func TestSummarizeSingleItem(t *testing.T) {
	s := Summarize(&model.Outline{Items: []*model.Item{{Title: "only"}}})
	if s.Nodes != 1 || s.Leaves != 1 {
		t.Errorf("expected a single leaf, got %+v", s)
	}
	if s.MeanTitleLen != 4 || s.StdDevTitleLen != 0 {
		t.Errorf("expected mean 4 and no deviation, got %f/%f", s.MeanTitleLen, s.StdDevTitleLen)
	}
}

func TestBuildGraphPaths(t *testing.T) {
	g := BuildGraph(sample())
	tests := []struct {
		id   int64
		want string
	}{
		{1, "A"},
		{3, "A/A2"},
		{5, "A/A2/A2b"},
		{7, "C"},
		{0, ""},
		{8, ""},
	}
	for _, tt := range tests {
		if got := g.Path(tt.id); got != tt.want {
			t.Errorf("Path(%d): expected %q, got %q", tt.id, tt.want, got)
		}
	}
	if g.Edge(0, 6) == nil {
		t.Error("expected an edge from the root to B")
	}
	if g.Edge(3, 4) == nil {
		t.Error("expected an edge from A2 to A2a")
	}
}
