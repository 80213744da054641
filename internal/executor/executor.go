// Package executor runs independent work items on a bounded pool of
// goroutines and collects one result per item.
//
// A failing or panicking item never stops the others. Items are dispatched in
// input order but may finish in any order; results are returned in input
// order regardless.
package executor

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"

	"golang.org/x/sync/errgroup"
)

// ErrPanic wraps a panic recovered from a work function.
var ErrPanic = errors.New("executor: work function panicked")

// Func processes one item.
type Func[T, R any] func(ctx context.Context, item T) (R, error)

// Result is the outcome of one item.
type Result[T, R any] struct {
	// Index is the item's position in the input slice.
	Index int
	Item  T
	Value R
	// Err is non-nil when the item failed, panicked, or was never started
	// because ctx was cancelled.
	Err error
	// Started is false for items skipped due to cancellation.
	Started bool
}

// Cancelled reports whether the item was dropped before it ran.
func (r Result[T, R]) Cancelled() bool {
	return !r.Started && r.Err != nil
}

// DefaultWorkers is the pool size used when none is configured.
func DefaultWorkers() int {
	return runtime.NumCPU()
}

// Run calls fn for every item with at most workers calls in flight. A
// workers value <= 0 selects DefaultWorkers.
//
// Run blocks until every started item has finished. ctx is checked before
// each item starts; once it is done, the remaining items are not started and
// their results carry ctx.Err(). ctx is also passed to fn so long-running
// work can stop early.
func Run[T, R any](ctx context.Context, workers int, items []T, fn Func[T, R]) []Result[T, R] {
	if workers <= 0 {
		workers = DefaultWorkers()
	}

	results := make([]Result[T, R], len(items))
	for i, item := range items {
		results[i] = Result[T, R]{Index: i, Item: item}
	}

	var g errgroup.Group
	g.SetLimit(workers)

	for i := range items {
		if err := ctx.Err(); err != nil {
			results[i].Err = err
			continue
		}
		res := &results[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				res.Err = err
				return nil
			}
			res.Started = true
			res.Value, res.Err = call(ctx, fn, res.Item)
			return nil
		})
	}

	// Work functions report through results, so Wait never returns an error.
	_ = g.Wait()
	return results
}

func call[T, R any](ctx context.Context, fn Func[T, R], item T) (value R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v\n%s", ErrPanic, r, debug.Stack())
		}
	}()
	return fn(ctx, item)
}

// Summary tallies a result set.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	Cancelled int
}

// Summarize counts successes, failures and cancellations in results.
func Summarize[T, R any](results []Result[T, R]) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch {
		case r.Cancelled():
			s.Cancelled++
		case r.Err != nil:
			s.Failed++
		default:
			s.Succeeded++
		}
	}
	return s
}
