package snn

import (
	"gonum.org/v1/gonum/graph/simple"
)

// NumEdges returns the number of edges in the graph.
func (r *Result) NumEdges() int { return len(r.Weights) }

// Edge returns the endpoints and weight of edge e.
func (r *Result) Edge(e int) (i, j int, weight float64) {
	return r.Edges[2*e], r.Edges[2*e+1], r.Weights[e]
}

// WeightedGraph converts the edge list into a gonum weighted undirected
// graph with one node per point, ready for community detection. Node IDs
// equal point indices.
func (r *Result) WeightedGraph() *simple.WeightedUndirectedGraph {
	g := simple.NewWeightedUndirectedGraph(0, 0)
	for i := 0; i < r.NumCells; i++ {
		g.AddNode(simple.Node(i))
	}
	for e := range r.Weights {
		i, j, w := r.Edge(e)
		g.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(i), T: simple.Node(j), W: w})
	}
	return g
}

// Components labels the connected components of the graph. labels[i] is the
// component of point i; components are numbered 0..count-1 in order of their
// smallest member.
func (r *Result) Components() (labels []int, count int) {
	uf := NewUnionFind(r.NumCells)
	for e := range r.Weights {
		i, j, _ := r.Edge(e)
		uf.Union(i, j)
	}

	labels = make([]int, r.NumCells)
	rootLabel := make(map[int]int, uf.NumSets())
	for i := range labels {
		root := uf.Find(i)
		label, ok := rootLabel[root]
		if !ok {
			label = len(rootLabel)
			rootLabel[root] = label
		}
		labels[i] = label
	}
	return labels, len(rootLabel)
}
