package cthread

import (
	"slices"
	"time"
)

// Predicated is implemented by FIFO items that participate in
// dependency-aware dispatch. FIFO.PopFront skips an item for which
// ValidWorkload returns false, even when it is the only item left, until
// it becomes true.
type Predicated interface {
	ValidWorkload() bool
}

// FIFO is a thread-safe, optionally unbounded first-in-first-out queue.
// When T implements Predicated, PopFront dispatches items out of strict
// arrival order: it scans for the first item whose ValidWorkload() is
// true, skipping over items that are not yet ready.
//
// The zero value is not usable; use NewFIFO.
type FIFO[T any] struct {
	mu    *Mutex
	items []T
	bytes []int // parallel to items, only populated via PushBackSized
	done  bool
}

// NewFIFO returns an empty, ready-to-use FIFO.
func NewFIFO[T any]() *FIFO[T] {
	return &FIFO[T]{mu: NewMutex()}
}

// PushBack appends value to the back of the queue and wakes one waiter
// blocked in PopFront. It returns false, rejecting the push, if Done has
// already been called.
func (f *FIFO[T]) PushBack(value T) bool {
	return f.PushBackSized(value, 0)
}

// PushBackSized is PushBack plus an explicit byte-size accounting hint,
// used by ByteSize. A size of 0 means "not tracked." It returns false,
// rejecting the push, if Done has already been called.
func (f *FIFO[T]) PushBackSized(value T, size int) bool {
	g := NewGuard(f.mu)
	defer g.Release()

	if f.done {
		return false
	}

	f.items = append(f.items, value)
	f.bytes = append(f.bytes, size)
	f.mu.Signal()
	return true
}

func (f *FIFO[T]) findReadyLocked() int {
	if len(f.items) == 0 {
		return -1
	}
	for i := range f.items {
		if p, ok := any(f.items[i]).(Predicated); ok {
			if !p.ValidWorkload() {
				continue
			}
		}
		return i
	}
	return -1
}

func (f *FIFO[T]) takeLocked(i int) T {
	value := f.items[i]
	// slices.Delete zeroes the vacated tail slot, so the backing array
	// does not keep a popped item reachable; a dependent
	// ItemWithPredicate only becomes ready once nothing holds it.
	f.items = slices.Delete(f.items, i, i+1)
	f.bytes = append(f.bytes[:i], f.bytes[i+1:]...)
	return value
}

// PopFront removes and returns the first ready item, blocking until one
// becomes available or Done is called. The ok result is false only when
// Done has been called and no ready item remains (items whose predicate
// is still false may be left in the queue).
func (f *FIFO[T]) PopFront() (value T, ok bool) {
	g := NewGuard(f.mu)
	defer g.Release()

	for {
		if i := f.findReadyLocked(); i >= 0 {
			return f.takeLocked(i), true
		}
		if f.done {
			var zero T
			return zero, false
		}
		f.mu.Wait()
	}
}

// TryPopFront removes and returns the first ready item without blocking.
// ok is false if no ready item is currently available.
func (f *FIFO[T]) TryPopFront() (value T, ok bool) {
	g := NewGuard(f.mu)
	defer g.Release()

	if i := f.findReadyLocked(); i >= 0 {
		return f.takeLocked(i), true
	}
	var zero T
	return zero, false
}

// TimedPopFront behaves like PopFront but gives up after d if nothing
// becomes ready. ok is false on timeout or on done-and-empty.
func (f *FIFO[T]) TimedPopFront(d time.Duration) (value T, ok bool) {
	return f.DatedPopFront(time.Now().Add(d))
}

// DatedPopFront behaves like PopFront but gives up at the absolute
// deadline if nothing becomes ready.
func (f *FIFO[T]) DatedPopFront(deadline time.Time) (value T, ok bool) {
	g := NewGuard(f.mu)
	defer g.Release()

	for {
		if i := f.findReadyLocked(); i >= 0 {
			return f.takeLocked(i), true
		}
		if f.done {
			var zero T
			return zero, false
		}
		if !f.mu.DatedWait(deadline) {
			var zero T
			return zero, false
		}
	}
}

// Clear removes every item from the queue without waking PopFront's done
// semantics (IsDone is unaffected).
func (f *FIFO[T]) Clear() {
	g := NewGuard(f.mu)
	defer g.Release()
	f.items = nil
	f.bytes = nil
}

// Empty reports whether the queue currently holds no items, ready or not.
func (f *FIFO[T]) Empty() bool {
	g := NewGuard(f.mu)
	defer g.Release()
	return len(f.items) == 0
}

// Size returns the number of items currently queued, ready or not.
func (f *FIFO[T]) Size() int {
	g := NewGuard(f.mu)
	defer g.Release()
	return len(f.items)
}

// ByteSize returns the sum of the size hints passed to PushBackSized.
// Items pushed via plain PushBack contribute 0.
func (f *FIFO[T]) ByteSize() int {
	g := NewGuard(f.mu)
	defer g.Release()
	total := 0
	for _, b := range f.bytes {
		total += b
	}
	return total
}

// Done marks the queue as finished: no further PushBack is expected.
// Every goroutine currently blocked in PopFront is woken at most once; if
// alsoClear is true the queue's remaining items are discarded first, so
// PopFront returns immediately with ok == false rather than draining
// them.
func (f *FIFO[T]) Done(alsoClear bool) {
	g := NewGuard(f.mu)
	defer g.Release()

	if f.done {
		return
	}
	f.done = true
	if alsoClear {
		f.items = nil
		f.bytes = nil
	}
	f.mu.Broadcast()
}

// IsDone reports whether Done has been called.
func (f *FIFO[T]) IsDone() bool {
	g := NewGuard(f.mu)
	defer g.Release()
	return f.done
}
