package snn

// rankingTable maps a point index to its rank within the neighborhood of one
// outer point: the point itself has rank 0 and its r-th nearest neighbor has
// rank r. It is a dense arena sized to the whole point set so lookups are a
// single slice index; reset only clears the entries the last build set.
//
// A rankingTable belongs to exactly one worker and is never shared.
type rankingTable struct {
	rank    []int32 // rank[p] = rank of p, or -1 if p is not in the table
	touched []int   // entries set by the last build
}

func newRankingTable(n int) *rankingTable {
	rank := make([]int32, n)
	for i := range rank {
		rank[i] = -1
	}
	return &rankingTable{rank: rank}
}

// build replaces the table contents with the neighborhood of point i.
// A neighbor listed twice keeps its later rank.
func (t *rankingTable) build(i int, neighbors []int) {
	for _, p := range t.touched {
		t.rank[p] = -1
	}
	t.touched = t.touched[:0]

	t.rank[i] = 0
	t.touched = append(t.touched, i)
	for r, p := range neighbors {
		t.rank[p] = int32(r + 1)
		t.touched = append(t.touched, p)
	}
}

// lookup returns the rank of p and whether p is in the table.
func (t *rankingTable) lookup(p int) (int, bool) {
	r := t.rank[p]
	return int(r), r >= 0
}
