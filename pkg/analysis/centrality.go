package analysis

import (
	"math/rand"
	"runtime"
	"sort"
	"sync"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/simple"
)

// CentralityMode records how hub scores were computed.
type CentralityMode string

const (
	// CentralityExact runs Brandes' algorithm from every node, O(V*E).
	CentralityExact CentralityMode = "exact"
	// CentralityApproximate samples pivot nodes and extrapolates, O(k*E).
	CentralityApproximate CentralityMode = "approximate"
)

// CentralityResult holds betweenness scores keyed by graph node id.
type CentralityResult struct {
	Scores     map[int64]float64
	Mode       CentralityMode
	SampleSize int
	TotalNodes int
}

// Betweenness scores every node of the outline graph, sampling sampleSize
// pivots when the graph is larger than that. A node's score counts the
// (ancestor, descendant) pairs it sits between, so it measures how much of
// the outline hangs off it.
func Betweenness(g *simple.DirectedGraph, sampleSize int, seed int64) CentralityResult {
	nodes := graph.NodesOf(g.Nodes())
	n := len(nodes)
	// gonum's Nodes may be map-backed
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID() < nodes[j].ID() })

	if sampleSize < 1 {
		sampleSize = 1
	}
	result := CentralityResult{
		Scores:     make(map[int64]float64),
		Mode:       CentralityApproximate,
		SampleSize: sampleSize,
		TotalNodes: n,
	}
	if n == 0 {
		return result
	}

	if sampleSize >= n {
		result.Scores = network.Betweenness(g)
		result.Mode = CentralityExact
		result.SampleSize = n
		return result
	}

	pivots := sampleNodes(nodes, sampleSize, seed)

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		partial = make(map[int64]float64)
		sem     = make(chan struct{}, runtime.NumCPU())
	)
	for _, pivot := range pivots {
		wg.Add(1)
		go func(p graph.Node) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			local := make(map[int64]float64)
			singleSourceBetweenness(g, p, local)

			mu.Lock()
			for id, val := range local {
				partial[id] += val
			}
			mu.Unlock()
		}(pivot)
	}
	wg.Wait()

	scale := float64(n) / float64(sampleSize)
	for id := range partial {
		partial[id] *= scale
	}
	result.Scores = partial
	return result
}

// sampleNodes picks k nodes with a partial Fisher-Yates shuffle.
func sampleNodes(nodes []graph.Node, k int, seed int64) []graph.Node {
	if k >= len(nodes) {
		return nodes
	}
	shuffled := make([]graph.Node, len(nodes))
	copy(shuffled, nodes)

	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < k; i++ {
		j := i + rng.Intn(len(shuffled)-i)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled[:k]
}

// singleSourceBetweenness adds the dependency scores of one BFS source to bc.
func singleSourceBetweenness(g *simple.DirectedGraph, source graph.Node, bc map[int64]float64) {
	src := source.ID()
	sigma := map[int64]float64{src: 1}
	dist := map[int64]int{src: 0}
	delta := make(map[int64]float64)
	pred := make(map[int64][]int64)

	queue := []int64{src}
	var stack, neighbors []int64
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		stack = append(stack, v)

		neighbors = neighbors[:0]
		to := g.From(v)
		for to.Next() {
			neighbors = append(neighbors, to.Node().ID())
		}
		sort.Slice(neighbors, func(i, j int) bool { return neighbors[i] < neighbors[j] })

		for _, w := range neighbors {
			if _, seen := dist[w]; !seen {
				dist[w] = dist[v] + 1
				queue = append(queue, w)
			}
			if dist[w] == dist[v]+1 {
				sigma[w] += sigma[v]
				pred[w] = append(pred[w], v)
			}
		}
	}

	for i := len(stack) - 1; i >= 0; i-- {
		w := stack[i]
		if w == src {
			continue
		}
		for _, v := range pred[w] {
			if sigma[w] > 0 {
				delta[v] += (sigma[v] / sigma[w]) * (1 + delta[w])
			}
		}
		bc[w] += delta[w]
	}
}

// RecommendSampleSize balances accuracy against speed: exact below 100
// nodes, then a shrinking share of the graph.
func RecommendSampleSize(nodeCount int) int {
	switch {
	case nodeCount < 100:
		return nodeCount
	case nodeCount < 500:
		if s := nodeCount / 5; s > 50 {
			return s
		}
		return 50
	case nodeCount < 2000:
		return 100
	default:
		return 200
	}
}
