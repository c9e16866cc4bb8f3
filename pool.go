package cthread

import "fmt"

// Pool owns a fixed number of Workers that all pull from the same input
// FIFO and, if one is configured, push their forwarded results to the
// same output FIFO. It is the generic equivalent of the source's
// pool<W, A...> template, minus the variadic construction arguments —
// Go's generics do not support variadic type parameters, so per-worker
// construction state is instead captured by the WorkFunc closure passed
// to NewPool.
//
// The zero value is not usable; use NewPool.
type Pool[T any] struct {
	name    string
	in      *FIFO[T]
	out     *FIFO[T]
	workers []*poolWorker[T]
}

type poolWorker[T any] struct {
	worker *Worker[T]
	thread *Thread
}

// NewPool constructs size Workers named "<name> (worker #i)", all reading
// from in and writing forwarded results to out (out may be nil), running
// do on each workload, and starts every one of them. size must be between
// 1 and 1000 inclusive, matching the source's own bound ("pool size too
// large (we accept up to 1000 at this time...)").
func NewPool[T any](name string, size int, in, out *FIFO[T], do WorkFunc[T], opts ...Option) (*Pool[T], error) {
	if size <= 0 {
		return nil, newError(KindInvalid, "pool: the pool size must be a positive number (1 or more)")
	}
	if size > 1000 {
		return nil, newError(KindInvalid, "pool: pool size too large (we accept up to 1000 at this time, which is already very very large!)")
	}
	if in == nil {
		return nil, newError(KindInvalid, "pool: a pool must be given a valid input FIFO")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	p := &Pool[T]{name: name, in: in, out: out}
	for i := 0; i < size; i++ {
		workerName := fmt.Sprintf("%s (worker #%d)", name, i)
		w, err := NewWorker(workerName, i, in, out, do)
		if err != nil {
			p.Stop(true)
			p.Wait()
			return nil, err
		}
		w.onStart = cfg.OnWorkerStart
		w.onStop = cfg.OnWorkerStop
		w.panicHandler = cfg.PanicHandler

		t, err := NewThread(workerName, w)
		if err != nil {
			p.Stop(true)
			p.Wait()
			return nil, err
		}
		t.SetLogAllExceptions(cfg.LogAllExceptions)
		if _, err := t.Start(); err != nil {
			p.Stop(true)
			p.Wait()
			return nil, err
		}
		p.workers = append(p.workers, &poolWorker[T]{worker: w, thread: t})
	}
	return p, nil
}

// Size returns the number of workers in the pool.
func (p *Pool[T]) Size() int {
	return len(p.workers)
}

// Worker returns the i'th worker's Worker object, for inspecting
// IsWorking/Runs. It panics if i is out of range, matching the source's
// range_error on an out-of-bounds get_worker().
func (p *Pool[T]) Worker(i int) *Worker[T] {
	if i < 0 || i >= len(p.workers) {
		panic(newError(KindInvalid, "pool: get_worker() called with an index out of bounds"))
	}
	return p.workers[i].worker
}

// PushBack pushes v onto the pool's input FIFO. It returns false if the
// pool has already been Stopped.
func (p *Pool[T]) PushBack(v T) bool {
	return p.in.PushBack(v)
}

// PopFront pops a completed workload off the pool's output FIFO, if one
// was configured. It blocks until one is ready or the output FIFO is
// done and empty.
func (p *Pool[T]) PopFront() (T, bool) {
	return p.out.PopFront()
}

// Stop marks the input FIFO done, so every worker exits its loop once it
// has drained whatever is left (or immediately, if immediate is true and
// the FIFO also discards its remaining items).
func (p *Pool[T]) Stop(immediate bool) {
	if !p.in.IsDone() {
		p.in.Done(immediate)
	}
}

// Wait stops every worker's Thread, blocking until each one has actually
// exited, and returns the first non-nil error any of them reported.
func (p *Pool[T]) Wait() error {
	var firstErr error
	for _, pw := range p.workers {
		if err := pw.thread.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
