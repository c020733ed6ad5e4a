package analysis

import (
	"fmt"
	"testing"

	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/vanderheijden86/flattree/pkg/model"
)

// wideOutline builds `groups` branches of `per` leaves each.
func wideOutline(groups, per int) *model.Outline {
	o := &model.Outline{}
	for g := 0; g < groups; g++ {
		b := &model.Item{Title: fmt.Sprintf("g%d", g), Kind: model.KindBranch}
		for l := 0; l < per; l++ {
			b.Children = append(b.Children, &model.Item{Title: fmt.Sprintf("l%d", l)})
		}
		o.Items = append(o.Items, b)
	}
	return o
}

// TestBetweennessExactMatchesGonum verifies small graphs use the exact algorithm
func TestBetweennessExactMatchesGonum(t *testing.T) {
	g := BuildGraph(sample())
	res := Betweenness(g.DirectedGraph, 100, 1)

	if res.Mode != CentralityExact {
		t.Errorf("expected exact mode, got %s", res.Mode)
	}
	if res.TotalNodes != 8 || res.SampleSize != 8 {
		t.Errorf("expected 8 nodes sampled fully, got %d/%d", res.SampleSize, res.TotalNodes)
	}
	want := network.Betweenness(g.DirectedGraph)
	for id, score := range want {
		if !almostEqual(res.Scores[id], score) {
			t.Errorf("node %d: expected %f, got %f", id, score, res.Scores[id])
		}
	}
}

func TestBetweennessApproximate(t *testing.T) {
	g := BuildGraph(wideOutline(20, 10))
	n := g.Nodes().Len()
	res := Betweenness(g.DirectedGraph, 50, 42)

	if res.Mode != CentralityApproximate {
		t.Errorf("expected approximate mode, got %s", res.Mode)
	}
	if res.SampleSize != 50 || res.TotalNodes != n {
		t.Errorf("expected sample 50 of %d, got %d of %d", n, res.SampleSize, res.TotalNodes)
	}
	for id, score := range res.Scores {
		if score < 0 {
			t.Errorf("node %d: expected non-negative score, got %f", id, score)
		}
		if id != RootID && len(g.Items[id-1].Children) == 0 && score != 0 {
			t.Errorf("leaf %d: expected zero score, got %f", id, score)
		}
	}
}

func TestBetweennessDeterministicSeed(t *testing.T) {
	g := BuildGraph(wideOutline(30, 8))
	a := Betweenness(g.DirectedGraph, 40, 7)
	b := Betweenness(g.DirectedGraph, 40, 7)
	if len(a.Scores) != len(b.Scores) {
		t.Fatalf("expected identical score sets, got %d and %d", len(a.Scores), len(b.Scores))
	}
	for id, v := range a.Scores {
		if !almostEqual(b.Scores[id], v) {
			t.Errorf("node %d: expected %f on rerun, got %f", id, v, b.Scores[id])
		}
	}
}

func TestBetweennessEmptyGraph(t *testing.T) {
	res := Betweenness(simple.NewDirectedGraph(), 10, 1)
	if res.TotalNodes != 0 || len(res.Scores) != 0 {
		t.Errorf("expected no scores, got %+v", res)
	}
}

func TestRecommendSampleSize(t *testing.T) {
	tests := []struct {
		nodes int
		want  int
	}{
		{10, 10},
		{99, 99},
		{100, 50},
		{400, 80},
		{1000, 100},
		{5000, 200},
	}
	for _, tt := range tests {
		if got := RecommendSampleSize(tt.nodes); got != tt.want {
			t.Errorf("RecommendSampleSize(%d): expected %d, got %d", tt.nodes, tt.want, got)
		}
	}
}
