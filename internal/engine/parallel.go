package engine

import (
	"runtime"
	"sync"
)

const minPaintChunk = 8

// parallelFor runs fn over [0, n) split into contiguous chunks, one goroutine
// per chunk. Small ranges run on the calling goroutine.
func parallelFor(n, minChunk int, fn func(start, end int)) {
	workers := runtime.GOMAXPROCS(0)
	if n <= minChunk || workers <= 1 {
		fn(0, n)
		return
	}
	workers = max(min(workers, n/minChunk), 1)
	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}
