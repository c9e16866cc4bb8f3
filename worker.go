package cthread

import "sync"

// WorkFunc performs one unit of work for a Worker. It receives the
// popped workload and returns true if the workload should be forwarded
// to the worker's output FIFO (when one is configured), false to drop it.
// A non-nil error stops the worker the same way Run returning an error
// would.
type WorkFunc[T any] func(workload T) (forward bool, err error)

// Worker is a Runner specialization that loops popping workloads off an
// input FIFO, invoking a user function on each, and optionally forwarding
// the workload to an output FIFO. It is the generic equivalent of the
// source's worker<T> template.
type Worker[T any] struct {
	BaseRunner

	position      int
	in            *FIFO[T]
	out           *FIFO[T]
	doWork        WorkFunc[T]
	onStart       func(position int)
	onStop        func(position int)
	panicHandler  func(recovered interface{})

	stateMu sync.Mutex
	working bool
	runs    uint64
}

// NewWorker builds a Worker at the given position within a Pool, reading
// from in and, if do returns forward == true and out is non-nil, writing
// to out. in must not be nil.
func NewWorker[T any](name string, position int, in, out *FIFO[T], do WorkFunc[T]) (*Worker[T], error) {
	if in == nil {
		return nil, newError(KindInvalid, "worker: a worker must be given a valid input FIFO")
	}
	return &Worker[T]{
		BaseRunner: NewBaseRunner(name),
		position:   position,
		in:         in,
		out:        out,
		doWork:     do,
	}, nil
}

// Enter calls the pool's OnWorkerStart hook, if one was configured.
func (w *Worker[T]) Enter() error {
	if w.onStart != nil {
		w.onStart(w.position)
	}
	return nil
}

// Leave calls the pool's OnWorkerStop hook, if one was configured.
func (w *Worker[T]) Leave(runErr error) error {
	if w.onStop != nil {
		w.onStop(w.position)
	}
	return nil
}

// Position returns the worker's index within its Pool.
func (w *Worker[T]) Position() int {
	return w.position
}

// IsWorking reports whether the worker is currently inside a call to its
// work function.
func (w *Worker[T]) IsWorking() bool {
	w.stateMu.Lock()
	defer w.stateMu.Unlock()
	return w.working
}

// Runs returns how many workloads this worker has processed so far.
func (w *Worker[T]) Runs() uint64 {
	w.stateMu.Lock()
	defer w.stateMu.Unlock()
	return w.runs
}

// Run implements Runner. It loops until ContinueRunning returns false or
// the input FIFO is both empty and done.
func (w *Worker[T]) Run() error {
	w.stateMu.Lock()
	w.working = false
	w.stateMu.Unlock()

	for w.ContinueRunning() {
		workload, ok := w.in.PopFront()
		if !ok {
			if w.in.IsDone() {
				break
			}
			continue
		}
		if !w.ContinueRunning() {
			break
		}

		w.stateMu.Lock()
		w.working = true
		w.runs++
		w.stateMu.Unlock()

		forward, err := w.runDoWork(workload)

		w.stateMu.Lock()
		w.working = false
		w.stateMu.Unlock()

		if err != nil {
			return err
		}
		if forward && w.out != nil {
			// A false return means the output FIFO was already Done; the
			// workload is dropped rather than forwarded.
			w.out.PushBack(workload)
		}
	}
	return nil
}

// runDoWork invokes the configured panic handler (if any) before letting
// a panic from doWork propagate up to the owning Thread, which is what
// ultimately turns it into the Thread's captured exception.
func (w *Worker[T]) runDoWork(workload T) (forward bool, err error) {
	if w.panicHandler != nil {
		defer func() {
			if r := recover(); r != nil {
				w.panicHandler(r)
				panic(r)
			}
		}()
	}
	return w.doWork(workload)
}
