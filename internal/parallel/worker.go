// Package parallel provides fork-join execution over disjoint index ranges.
//
// Bulk cell operations split their input into contiguous chunks that a
// WorkerPool processes concurrently. Each chunk reads and writes only its own
// slots, so no locking is needed; results are always assembled in input
// order.
package parallel

import (
	"context"
	"runtime"
	"sync"
)

// WorkerPool manages a pool of goroutines for parallel processing
type WorkerPool struct {
	numWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewWorkerPool creates a new worker pool; a non-positive size uses
// runtime.NumCPU().
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		numWorkers: numWorkers,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Workers returns the pool size.
func (wp *WorkerPool) Workers() int {
	return wp.numWorkers
}

// Close shuts down the worker pool. Work submitted afterwards is not started.
func (wp *WorkerPool) Close() {
	wp.cancel()
}

// Range is a half-open index range [Lo, Hi).
type Range struct {
	Lo, Hi int
}

// Len returns the number of indices in the range.
func (r Range) Len() int {
	return r.Hi - r.Lo
}

// Chunks splits [0, n) into consecutive ranges of at most size elements.
func Chunks(n, size int) []Range {
	if n <= 0 {
		return nil
	}
	if size <= 0 || size > n {
		size = n
	}
	out := make([]Range, 0, (n+size-1)/size)
	for lo := 0; lo < n; lo += size {
		out = append(out, Range{Lo: lo, Hi: min(lo+size, n)})
	}
	return out
}

// ProcessIndexed executes work items in parallel while preserving order
func ProcessIndexed[T, R any](
	wp *WorkerPool,
	items []T,
	worker func(int, T) R,
) []R {
	if len(items) == 0 {
		return nil
	}

	itemCh := make(chan indexedItem[T], len(items))
	resultCh := make(chan indexedResult[R], len(items))

	var wg sync.WaitGroup
	for i := 0; i < min(wp.numWorkers, len(items)); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range itemCh {
				select {
				case <-wp.ctx.Done():
					return
				default:
					resultCh <- indexedResult[R]{
						index:  item.index,
						result: worker(item.index, item.value),
					}
				}
			}
		}()
	}

	for i, item := range items {
		itemCh <- indexedItem[T]{index: i, value: item}
	}
	close(itemCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	results := make([]R, len(items))
	for result := range resultCh {
		results[result.index] = result.result
	}

	return results
}

// ForRange runs fn over [0, n) split into chunks of chunkSize and waits for
// all chunks. The error of the lowest failing chunk is returned, so the
// outcome does not depend on scheduling. A closed pool reports
// context.Canceled.
func ForRange(wp *WorkerPool, n, chunkSize int, fn func(r Range) error) error {
	chunks := Chunks(n, chunkSize)
	if len(chunks) == 1 {
		return fn(chunks[0])
	}
	errs := ProcessIndexed(wp, chunks, func(_ int, r Range) error {
		return fn(r)
	})
	if err := wp.ctx.Err(); err != nil {
		return err
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// indexedItem holds an item with its index
type indexedItem[T any] struct {
	index int
	value T
}

// indexedResult holds a result with its index
type indexedResult[R any] struct {
	index  int
	result R
}
