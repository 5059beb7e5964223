// package tasks implements the dispatch pool that runs blocking upstream
// calls off the request-handling path.
package tasks

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

const (
	// DefaultSize caps concurrent upstream calls per process.
	DefaultSize = 4

	// DefaultQueueDepth bounds how many submitted calls may wait for a
	// worker. Submissions beyond the bound block the submitter, so a
	// saturated pool is visible as latency rather than unbounded memory.
	DefaultQueueDepth = 64
)

type job struct {
	fn  func() (any, error)
	out chan result
}

type result struct {
	value any
	err   error
}

// Pool is a fixed-size worker pool with a bounded queue.
//
// Pool size is static for the process lifetime. There is no cancellation of
// in-flight work: a hung function occupies its worker until it returns, so at
// most Size calls can hang before submissions queue.
type Pool struct {
	jobs   chan job
	size   int
	queued atomic.Int64
	wg     sync.WaitGroup
	once   sync.Once
}

// NewPool creates and starts a Pool with the given worker count and queue
// depth, substituting defaults for non-positive values.
func NewPool(size, queueDepth int) *Pool {
	if size <= 0 {
		size = DefaultSize
	}
	if queueDepth <= 0 {
		queueDepth = DefaultQueueDepth
	}

	p := &Pool{
		jobs: make(chan job, queueDepth),
		size: size,
	}

	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for j := range p.jobs {
		p.queued.Add(-1)
		value, err := j.fn()
		j.out <- result{value: value, err: err}
	}
}

// Size returns the fixed worker count.
func (p *Pool) Size() int {
	return p.size
}

// Queued returns the number of submitted jobs not yet picked up by a worker.
func (p *Pool) Queued() int64 {
	return p.queued.Load()
}

// Close stops accepting submissions and waits for in-flight work to drain.
func (p *Pool) Close() {
	p.once.Do(func() {
		close(p.jobs)
	})
	p.wg.Wait()
}

// submit enqueues fn and returns its result channel.
func (p *Pool) submit(ctx context.Context, fn func() (any, error)) (<-chan result, error) {
	out := make(chan result, 1)
	p.queued.Add(1)

	select {
	case p.jobs <- job{fn: fn, out: out}:
		return out, nil
	case <-ctx.Done():
		p.queued.Add(-1)
		return nil, ctx.Err()
	}
}

// Run submits fn to the pool and awaits its result.
//
// Cancellation releases the caller, not the work: if ctx ends while fn is
// queued or running, Run returns ctx.Err() and any eventual result is
// discarded.
func Run[T any](ctx context.Context, p *Pool, fn func() (T, error)) (T, error) {
	var zero T

	out, err := p.submit(ctx, func() (any, error) { return fn() })
	if err != nil {
		return zero, fmt.Errorf("dispatch rejected: %w", err)
	}

	select {
	case res := <-out:
		if res.err != nil {
			return zero, res.err
		}
		value, ok := res.value.(T)
		if !ok {
			return zero, fmt.Errorf("dispatch returned unexpected type %T", res.value)
		}
		return value, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
