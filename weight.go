package snn

// evaluatePair scores the overlap between the neighborhood held in table
// (outer point i) and the neighborhood of inner point j.
//
// Candidates are scanned as j itself (r = 0) followed by j's neighbors in
// distance order (r = 1..len). For SchemeRanked the raw score is the
// smallest rank_in_i + r over all hits, the first hit winning ties. For
// SchemeNumber and SchemeJaccard it is the hit count. found is false when
// no candidate is in the table, in which case no edge exists.
func evaluatePair(table *rankingTable, j int, neighborsOfJ []int, scheme Scheme) (raw float64, found bool) {
	best := 0
	hits := 0
	for r := 0; r <= len(neighborsOfJ); r++ {
		candidate := j
		if r > 0 {
			candidate = neighborsOfJ[r-1]
		}
		rank, ok := table.lookup(candidate)
		if !ok {
			continue
		}
		if scheme == SchemeRanked {
			if combined := rank + r; !found || combined < best {
				best = combined
			}
		} else {
			hits++
		}
		found = true
	}
	if scheme == SchemeRanked {
		return float64(best), found
	}
	return float64(hits), found
}

// finalizeWeight turns a raw overlap score into an edge weight for an outer
// point with numNeighbors neighbors, then applies the MinWeight floor.
func finalizeWeight(scheme Scheme, raw float64, numNeighbors int) float64 {
	m := float64(numNeighbors)
	var w float64
	switch scheme {
	case SchemeRanked:
		w = m - 0.5*raw
	case SchemeNumber:
		w = raw
	case SchemeJaccard:
		w = raw / (2*(m+1) - raw)
	default:
		panic("snn: unhandled weighting scheme " + scheme.String())
	}
	return max(w, MinWeight)
}
