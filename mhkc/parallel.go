package mhkc

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ParallelThreshold is the message length at which symbols are processed concurrently.
const ParallelThreshold = 64

// forEachSymbol calls fn for every index in [0, count).
// Short messages run sequentially. Longer ones are split into contiguous
// chunks, one per worker; fn must only write to its own index.
// The error of the lowest failing chunk wins, so failures are reported in
// message order regardless of scheduling.
func forEachSymbol(count int, fn func(i int) error) error {
	numWorkers := runtime.GOMAXPROCS(0)

	if count < ParallelThreshold || numWorkers <= 1 {
		for i := 0; i < count; i++ {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}

	perWorker := (count + numWorkers - 1) / numWorkers
	errs := make([]error, numWorkers)

	var g errgroup.Group
	for w := 0; w < numWorkers; w++ {
		start := w * perWorker
		end := start + perWorker
		if end > count {
			end = count
		}
		if start >= count {
			break
		}

		w := w
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := fn(i); err != nil {
					errs[w] = err
					return err
				}
			}
			return nil
		})
	}
	if g.Wait() == nil {
		return nil
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
