// Package analysis computes structural statistics for outline documents.
package analysis

import (
	"sort"
	"strings"
	"unicode/utf8"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"
	"gonum.org/v1/gonum/stat"

	"github.com/vanderheijden86/flattree/pkg/model"
)

// RootID is the graph id of the virtual document root. Items are numbered
// from 1 in document order.
const RootID int64 = 0

// Stats summarizes an outline.
type Stats struct {
	Nodes         int `json:"nodes"`
	Branches      int `json:"branches"`
	Leaves        int `json:"leaves"`
	EmptyBranches int `json:"empty_branches"`
	Marked        int `json:"marked"`
	ToggledOn     int `json:"toggled_on"`
	Collapsed     int `json:"collapsed"`
	MaxDepth      int `json:"max_depth"`

	// Levels[d] is the number of items at depth d (top level is 0).
	Levels []int `json:"levels"`

	// Branching is measured over branches, counting direct children.
	MeanBranching   float64 `json:"mean_branching"`
	StdDevBranching float64 `json:"stddev_branching"`
	MeanTitleLen    float64 `json:"mean_title_len"`
	StdDevTitleLen  float64 `json:"stddev_title_len"`

	Hubs []Hub `json:"hubs,omitempty"`
}

// Hub is a branch that much of the outline hangs off.
type Hub struct {
	Path        string  `json:"path"`
	Score       float64 `json:"score"`
	Descendants int     `json:"descendants"`
}

// maxHubs bounds Stats.Hubs.
const maxHubs = 5

// Graph is an outline as a gonum directed graph with parent to child edges.
type Graph struct {
	*simple.DirectedGraph
	// Items[id-1] is the item behind graph node id.
	Items []*model.Item
	paths []string
}

// BuildGraph numbers the items in document order and links each to its
// children. Top-level items hang off RootID.
func BuildGraph(o *model.Outline) *Graph {
	g := &Graph{DirectedGraph: simple.NewDirectedGraph()}
	g.AddNode(simple.Node(RootID))

	var add func(items []*model.Item, parent int64, prefix string)
	add = func(items []*model.Item, parent int64, prefix string) {
		for _, it := range items {
			if it == nil {
				continue
			}
			g.Items = append(g.Items, it)
			id := int64(len(g.Items))
			path := it.Title
			if prefix != "" {
				path = prefix + "/" + it.Title
			}
			g.paths = append(g.paths, path)

			g.AddNode(simple.Node(id))
			g.SetEdge(simple.Edge{F: simple.Node(parent), T: simple.Node(id)})
			add(it.Children, id, path)
		}
	}
	add(o.Items, RootID, "")
	return g
}

// Path returns the slash-joined titles leading to node id.
func (g *Graph) Path(id int64) string {
	if id < 1 || int(id) > len(g.paths) {
		return ""
	}
	return g.paths[id-1]
}

// Summarize computes the statistics of o.
func Summarize(o *model.Outline) Stats {
	g := BuildGraph(o)
	s := Stats{Nodes: len(g.Items)}

	var branching, titleLens []float64
	descendants := make(map[int64]int)
	for i, it := range g.Items {
		id := int64(i + 1)
		titleLens = append(titleLens, float64(utf8.RuneCountInString(it.Title)))
		if it.Marked {
			s.Marked++
		}
		if strings.EqualFold(it.Toggle, "ON") {
			s.ToggledOn++
		}
		if !it.IsBranch() {
			s.Leaves++
			continue
		}
		s.Branches++
		if len(it.Children) == 0 {
			s.EmptyBranches++
		}
		if !it.IsExpanded(true) {
			s.Collapsed++
		}
		branching = append(branching, float64(len(it.Children)))
		descendants[id] = countDescendants(g, id)
	}

	if len(branching) > 0 {
		s.MeanBranching, s.StdDevBranching = meanStdDev(branching)
	}
	if len(titleLens) > 0 {
		s.MeanTitleLen, s.StdDevTitleLen = meanStdDev(titleLens)
	}

	s.Levels = levels(g)
	if len(s.Levels) > 0 {
		s.MaxDepth = len(s.Levels) - 1
	}

	s.Hubs = hubs(g, descendants)
	return s
}

// meanStdDev is stat.MeanStdDev with a zero deviation for single samples.
func meanStdDev(x []float64) (float64, float64) {
	if len(x) == 1 {
		return x[0], 0
	}
	return stat.MeanStdDev(x, nil)
}

// levels counts the items at each depth with a breadth-first walk from the
// root.
func levels(g *Graph) []int {
	var counts []int
	bf := traverse.BreadthFirst{}
	bf.Walk(g, simple.Node(RootID), func(n graph.Node, d int) bool {
		if n.ID() == RootID {
			return false
		}
		for len(counts) < d {
			counts = append(counts, 0)
		}
		counts[d-1]++
		return false
	})
	return counts
}

func countDescendants(g *Graph, id int64) int {
	n := 0
	bf := traverse.BreadthFirst{Visit: func(graph.Node) { n++ }}
	bf.Walk(g, simple.Node(id), nil)
	return n - 1
}

func hubs(g *Graph, descendants map[int64]int) []Hub {
	res := Betweenness(g.DirectedGraph, RecommendSampleSize(len(g.Items)+1), 1)

	var out []Hub
	for id, score := range res.Scores {
		if id == RootID || score == 0 {
			continue
		}
		out = append(out, Hub{Path: g.Path(id), Score: score, Descendants: descendants[id]})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Path < out[j].Path
	})
	if len(out) > maxHubs {
		out = out[:maxHubs]
	}
	return out
}
