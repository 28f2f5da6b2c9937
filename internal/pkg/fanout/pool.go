// Package fanout runs a function over a queue of items with a bounded number of workers.
package fanout

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Result pairs an item with the error its worker returned.
type Result[T any] struct {
	Item T
	Err  error
}

// Run feeds items through a queue to at most workers goroutines. A failing item
// does not stop the others; its error is reported in the matching Result.
// Items that were never dispatched because ctx was cancelled carry ctx's error.
// Results are returned in input order.
func Run[T any](ctx context.Context, workers int, items []T, fn func(ctx context.Context, item T) error) []Result[T] {
	results := make([]Result[T], len(items))
	if len(items) == 0 {
		return results
	}
	if workers <= 0 {
		workers = 1
	}

	processed := make([]bool, len(items))
	queue := make(chan int)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(queue)
		for i := range items {
			select {
			case queue <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	for range min(workers, len(items)) {
		g.Go(func() error {
			for i := range queue {
				results[i] = Result[T]{Item: items[i], Err: fn(gctx, items[i])}
				processed[i] = true
			}
			return nil
		})
	}

	err := g.Wait()
	for i := range items {
		if !processed[i] {
			results[i] = Result[T]{Item: items[i], Err: err}
		}
	}

	return results
}
