/*package incantation splits a read-only sequence into contiguous slices,
scans each slice on its own goroutine, and joins the per-slice results.

A typical call looks like:

	inc := incantation.New[int, int](xs)
	err := inc.Invoke(ctx, sumWorker, 0).Join()
	total := inc.Reduce(func(parts []int) int { ... })

Results are returned in slice order regardless of which goroutine finishes
first.
*/
package incantation

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"
)

const (
	// FallbackThreads is used when the number of CPUs cannot be determined.
	FallbackThreads = 4
)

var (
	// ErrWorkerFailure is wrapped by every error returned from Join.
	ErrWorkerFailure = errors.New("incantation: worker failure")
)

// Worker scans one slice of the sequence. begin is the offset of part[0]
// within the full sequence.
type Worker[T, R any] func(ctx context.Context, begin int, part []T) (R, error)

// Span is the half-open range [Begin, End) of the sequence given to one
// worker.
type Span struct {
	Begin, End int
}

// Len returns the number of elements in the span.
func (s Span) Len() int { return s.End - s.Begin }

// WorkerError reports the failure of the worker which scanned the range
// [Begin, End).
type WorkerError struct {
	Begin, End int
	Err        error
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("%s on [%d, %d): %s",
		ErrWorkerFailure.Error(), e.Begin, e.End, e.Err)
}

// Unwrap allows errors.Is to match both ErrWorkerFailure and whatever the
// worker returned.
func (e *WorkerError) Unwrap() []error {
	return []error{ErrWorkerFailure, e.Err}
}

type partial[R any] struct {
	slice int
	span  Span
	res   R
	err   error
}

// Incantation is a fork-join executor over a sequence of T whose workers
// each produce an R.
type Incantation[T, R any] struct {
	xs      []T
	threads int

	wg       sync.WaitGroup
	mu       sync.Mutex
	partials []partial[R]
	joined   bool
}

// New creates an executor over xs. xs must not be modified while a scan is
// running.
func New[T, R any](xs []T) *Incantation[T, R] {
	return &Incantation[T, R]{xs: xs, threads: DefaultThreads()}
}

// DefaultThreads returns the number of workers used when no other count is
// given.
func DefaultThreads() int {
	if n := runtime.NumCPU(); n > 0 {
		return n
	}
	return FallbackThreads
}

// WithThreads sets the number of workers used by Invoke calls which do not
// override it. Non-positive values restore the default.
func (inc *Incantation[T, R]) WithThreads(threads int) *Incantation[T, R] {
	if threads <= 0 {
		threads = DefaultThreads()
	}
	inc.threads = threads
	return inc
}

// Threads returns the configured number of workers.
func (inc *Incantation[T, R]) Threads() int { return inc.threads }

// Len returns the length of the underlying sequence.
func (inc *Incantation[T, R]) Len() int { return len(inc.xs) }

// Split divides n elements into exactly threads contiguous spans. Every span
// holds n/threads elements and the first n%threads spans hold one extra.
// When n < threads the trailing spans are empty.
func Split(n, threads int) []Span {
	if threads <= 0 {
		panic(fmt.Sprintf("Split called with %d threads", threads))
	}

	bucket, dust := n/threads, n%threads
	spans := make([]Span, threads)
	begin := 0
	for i := range spans {
		size := bucket
		if i < dust {
			size++
		}
		spans[i] = Span{begin, begin + size}
		begin += size
	}
	return spans
}

// Invoke starts one goroutine per span and returns immediately. If threads
// is positive it overrides the configured worker count for this call. Any
// scan still running from an earlier Invoke is waited on first and its
// results are discarded.
func (inc *Incantation[T, R]) Invoke(
	ctx context.Context, fn Worker[T, R], threads int,
) *Incantation[T, R] {
	inc.wg.Wait()

	if threads <= 0 {
		threads = inc.threads
	}
	spans := Split(len(inc.xs), threads)

	inc.mu.Lock()
	inc.partials = make([]partial[R], 0, len(spans))
	inc.joined = false
	inc.mu.Unlock()

	inc.wg.Add(len(spans))
	for i, span := range spans {
		go inc.run(ctx, fn, i, span)
	}
	return inc
}

func (inc *Incantation[T, R]) run(
	ctx context.Context, fn Worker[T, R], slice int, span Span,
) {
	defer inc.wg.Done()

	p := partial[R]{slice: slice, span: span}
	func() {
		defer func() {
			if r := recover(); r != nil {
				p.err = fmt.Errorf("panic: %v", r)
			}
		}()
		p.res, p.err = fn(ctx, span.Begin, inc.xs[span.Begin:span.End])
	}()

	inc.mu.Lock()
	inc.partials = append(inc.partials, p)
	inc.mu.Unlock()
}

// Join blocks until every worker started by the last Invoke has returned.
// Once all workers are done it returns the error of the failed worker with
// the lowest span, as a *WorkerError, or nil if none failed.
func (inc *Incantation[T, R]) Join() error {
	inc.wg.Wait()

	inc.mu.Lock()
	defer inc.mu.Unlock()

	if !inc.joined {
		sort.Slice(inc.partials, func(i, j int) bool {
			return inc.partials[i].slice < inc.partials[j].slice
		})
		inc.joined = true
	}

	for _, p := range inc.partials {
		if p.err != nil {
			return &WorkerError{Begin: p.span.Begin, End: p.span.End, Err: p.err}
		}
	}
	return nil
}

// Results returns the value produced by each worker in span order. It must
// only be called after Join.
func (inc *Incantation[T, R]) Results() []R {
	inc.mu.Lock()
	defer inc.mu.Unlock()

	if !inc.joined {
		panic("incantation: Results called before Join")
	}
	out := make([]R, len(inc.partials))
	for i := range inc.partials {
		out[i] = inc.partials[i].res
	}
	return out
}

// Spans returns the span scanned by each worker in the last Invoke, in the
// same order as Results.
func (inc *Incantation[T, R]) Spans() []Span {
	inc.mu.Lock()
	defer inc.mu.Unlock()

	out := make([]Span, len(inc.partials))
	for i := range inc.partials {
		out[i] = inc.partials[i].span
	}
	return out
}

// Reduce combines the joined results with fn.
func (inc *Incantation[T, R]) Reduce(fn func([]R) R) R {
	return fn(inc.Results())
}

// Cast runs fn over xs with the given number of threads (zero for the
// default), joins, and reduces the results.
func Cast[T, R any](
	ctx context.Context, xs []T, threads int,
	fn Worker[T, R], reduce func([]R) R,
) (R, error) {
	inc := New[T, R](xs)
	if err := inc.Invoke(ctx, fn, threads).Join(); err != nil {
		var zero R
		return zero, err
	}
	return inc.Reduce(reduce), nil
}

// Concat is a reducer which concatenates per-worker slices in span order.
func Concat[E any](parts [][]E) []E {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]E, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// Range returns the sequence lo, lo+1, ..., hi-1. It is convenient for
// scanning an axis of a grid.
func Range(lo, hi int) []int {
	if hi < lo {
		return nil
	}
	out := make([]int, hi-lo)
	for i := range out {
		out[i] = lo + i
	}
	return out
}
