package fivewords

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// parallel runs one walk per top-level combined mask, at most workers at a time, and
// hands the results to yield from the calling goroutine.
//
// The set of combinations matches a sequential walk; only their order differs.
func (s *search) parallel(ctx context.Context, workers int, observer Observer, yield func(Combination, error) bool) {
	walkCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(walkCtx)
	g.SetLimit(workers)

	results := make(chan Combination, workers)
	var walkErr error
	go func() {
		defer close(results)
		for mask := range s.levels.Top().Keys() {
			if gctx.Err() != nil {
				break
			}
			g.Go(func() error {
				var err error
				s.walk(mask, nil, func(c Combination, e error) bool {
					if e != nil {
						err = e
						return false
					}
					select {
					case results <- c:
						return true
					case <-gctx.Done():
						return false
					}
				})
				return err
			})
		}
		walkErr = g.Wait()
	}()

	for c := range results {
		if !yield(c, nil) {
			cancel()
			for range results {
			}
			return
		}
		observer.CombinationFound(ctx)
	}

	// results is closed only after g.Wait, so walkErr is safe to read.
	if walkErr != nil {
		yield(Combination{}, walkErr)
		return
	}
	if err := ctx.Err(); err != nil {
		yield(Combination{}, err)
	}
}
