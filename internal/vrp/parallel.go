package vrp

import (
	"context"
	"runtime"
	"sync"
)

// Pool fans work across a bounded set of goroutines, honouring context
// cancellation mid-batch (spec §4.12). It is grounded on the
// goroutine-per-worker + sync.WaitGroup + context.WithCancel shape of
// internal/common/jobs/worker.go, stripped of its Redis queue: a solve's
// work items are already in memory, so there is nothing to dequeue.
type Pool struct {
	workers int
}

// NewPool builds a Pool with the given worker count. A count <= 0 falls
// back to runtime.GOMAXPROCS(0).
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Pool{workers: workers}
}

// Map applies fn to every index in [0,n), fanning out across the pool's
// workers. Each item i is given its own child random Source, derived from
// root via Source.Child(i) *before* any worker goroutine starts, so which
// worker happens to pick up item i off the shared work queue cannot affect
// the stream it draws from: results are reproducible regardless of
// scheduling order (spec §5, §4.12). Map returns as soon as ctx is
// cancelled or n items have been processed, whichever comes first; a
// cancelled context stops new items from starting but does not interrupt
// one already in flight.
func (p *Pool) Map(ctx context.Context, root *Source, n int, fn func(ctx context.Context, i int, itemRNG *Source)) {
	if n == 0 {
		return
	}

	workers := p.workers
	if workers > n {
		workers = n
	}

	itemRNGs := make([]*Source, n)
	for i := 0; i < n; i++ {
		itemRNGs[i] = root.Child(i)
	}

	indices := make(chan int, n)
	for i := 0; i < n; i++ {
		indices <- i
	}
	close(indices)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case i, ok := <-indices:
					if !ok {
						return
					}
					fn(ctx, i, itemRNGs[i])
				}
			}
		}()
	}
	wg.Wait()
}

// MapCollect is Map plus per-item result collection, for the common case
// of evaluating a batch of candidates (GA offspring, ACO ants) and
// gathering their results in index order. Items that never started because
// ctx was cancelled are left at R's zero value.
func MapCollect[R any](p *Pool, ctx context.Context, root *Source, n int, fn func(ctx context.Context, i int, itemRNG *Source) R) []R {
	results := make([]R, n)
	p.Map(ctx, root, n, func(ctx context.Context, i int, rng *Source) {
		results[i] = fn(ctx, i, rng)
	})
	return results
}
