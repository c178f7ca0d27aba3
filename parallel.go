package snn

import "sync"

// assemble builds the graph from validated neighbor lists. The outer index
// range is split into contiguous blocks, one per worker; each worker owns
// its assembler and edge buffer, and buffers are concatenated in block
// order. The result is therefore identical for every worker count.
func assemble(nn *Neighbors, opts Options) *Result {
	lists := nn.Indices
	n := len(lists)
	hosts := newHostIndex(lists)

	numWorkers := min(opts.Workers, max(n, 1))
	buffers := make([]edgeBuffer, numWorkers)

	if numWorkers <= 1 {
		newAssembler(lists, hosts, opts.Scheme).assembleRange(0, n, &buffers[0])
	} else {
		var wg sync.WaitGroup
		rowsPerWorker := (n + numWorkers - 1) / numWorkers

		for w := 0; w < numWorkers; w++ {
			startRow := w * rowsPerWorker
			endRow := startRow + rowsPerWorker
			if endRow > n {
				endRow = n
			}
			if startRow >= n {
				break
			}

			wg.Add(1)
			go func(buf *edgeBuffer, start, end int) {
				defer wg.Done()
				newAssembler(lists, hosts, opts.Scheme).assembleRange(start, end, buf)
			}(&buffers[w], startRow, endRow)
		}

		wg.Wait()
	}

	result := mergeBuffers(n, buffers)
	if opts.ReportNeighbors {
		result.Neighbors = nn
	}

	opts.Logger.Debug("snn graph assembled",
		"points", n,
		"edges", len(result.Weights),
		"scheme", opts.Scheme.String(),
		"workers", numWorkers,
	)
	return result
}

// mergeBuffers concatenates per-worker buffers in worker order.
func mergeBuffers(n int, buffers []edgeBuffer) *Result {
	total := 0
	for _, b := range buffers {
		total += len(b.weights)
	}

	result := &Result{
		NumCells: n,
		Edges:    make([]int, 0, 2*total),
		Weights:  make([]float64, 0, total),
	}
	for _, b := range buffers {
		result.Edges = append(result.Edges, b.edges...)
		result.Weights = append(result.Weights, b.weights...)
	}
	return result
}
