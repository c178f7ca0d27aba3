package snn

import "sort"

// edgeBuffer accumulates edges in discovery order.
type edgeBuffer struct {
	edges   []int
	weights []float64
}

func (b *edgeBuffer) add(i, j int, w float64) {
	b.edges = append(b.edges, i, j)
	b.weights = append(b.weights, w)
}

// hostIndex is the reverse of a neighbor-list set: hosts[c] lists, in
// ascending order, every point p whose neighbor list contains c. It is built
// once per graph and only read afterwards.
type hostIndex [][]int

func newHostIndex(lists [][]int) hostIndex {
	counts := make([]int, len(lists))
	for _, list := range lists {
		for _, c := range list {
			counts[c]++
		}
	}
	hosts := make(hostIndex, len(lists))
	for c, cnt := range counts {
		hosts[c] = make([]int, 0, cnt)
	}
	for p, list := range lists {
		for _, c := range list {
			// A point listing c twice is recorded once.
			if h := hosts[c]; len(h) > 0 && h[len(h)-1] == p {
				continue
			}
			hosts[c] = append(hosts[c], p)
		}
	}
	return hosts
}

// assembler holds the per-worker state for evaluating outer points: its own
// ranking table, a visit stamp per point and a scratch candidate list.
type assembler struct {
	lists  [][]int
	hosts  hostIndex
	scheme Scheme

	table      *rankingTable
	stamp      []int
	candidates []int
}

func newAssembler(lists [][]int, hosts hostIndex, scheme Scheme) *assembler {
	return &assembler{
		lists:  lists,
		hosts:  hosts,
		scheme: scheme,
		table:  newRankingTable(len(lists)),
		stamp:  make([]int, len(lists)),
	}
}

// assembleRange evaluates every pair (i, j) with start <= i < end and j < i,
// appending edges to buf in ascending i then ascending j.
func (a *assembler) assembleRange(start, end int, buf *edgeBuffer) {
	for i := start; i < end; i++ {
		neighbors := a.lists[i]
		a.table.build(i, neighbors)

		for _, j := range a.collectCandidates(i) {
			raw, found := evaluatePair(a.table, j, a.lists[j], a.scheme)
			if !found {
				continue
			}
			buf.add(i, j, finalizeWeight(a.scheme, raw, len(neighbors)))
		}
	}
}

// collectCandidates returns, in ascending order, every j < i that can share
// a neighborhood member with i: members of {i} ∪ N(i) themselves, and points
// whose neighbor lists contain one of those members. Any other j has no hit
// in the evaluator and would produce no edge.
func (a *assembler) collectCandidates(i int) []int {
	mark := i + 1
	a.candidates = a.candidates[:0]

	visit := func(c int) {
		if c < i && a.stamp[c] != mark {
			a.stamp[c] = mark
			a.candidates = append(a.candidates, c)
		}
		for _, p := range a.hosts[c] {
			if p >= i {
				break
			}
			if a.stamp[p] != mark {
				a.stamp[p] = mark
				a.candidates = append(a.candidates, p)
			}
		}
	}

	visit(i)
	for _, c := range a.lists[i] {
		visit(c)
	}
	sort.Ints(a.candidates)
	return a.candidates
}
