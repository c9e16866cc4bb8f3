package cthread

import "weak"

// ItemWithPredicate wraps a value of type T together with a set of
// dependencies that must all be resolved before the item is considered
// ready for FIFO.PopFront. Dependencies are held as weak references: a
// dependency is resolved once nothing else holds a strong reference to
// it any longer (the consumer is expected to drop its reference to a
// popped item once do_work() has finished with it) — there is no
// separate "finished" flag to set, the same way the source relies purely
// on std::weak_ptr expiry rather than bookkeeping a completion flag.
//
// The zero value is not usable; use NewItemWithPredicate.
type ItemWithPredicate[T any] struct {
	value T

	mu         *Mutex
	deps       []weak.Pointer[ItemWithPredicate[T]]
	processing bool
}

// NewItemWithPredicate returns a ready-to-use item wrapping value.
func NewItemWithPredicate[T any](value T) *ItemWithPredicate[T] {
	return &ItemWithPredicate[T]{value: value, mu: NewMutex()}
}

// Value returns the wrapped value.
func (it *ItemWithPredicate[T]) Value() T {
	return it.value
}

// AddDependency registers other as something that must resolve before it
// is ready. AddDependency returns ErrInUse once ValidWorkload has
// returned true for it even once, matching the source's rule that
// dependencies may only be declared before processing starts.
func (it *ItemWithPredicate[T]) AddDependency(other *ItemWithPredicate[T]) error {
	g := NewGuard(it.mu)
	defer g.Release()

	if it.processing {
		return ErrInUse
	}
	it.deps = append(it.deps, weak.Make(other))
	return nil
}

// AddDependencies is a convenience wrapper that calls AddDependency for
// each item in others, stopping at the first error.
func (it *ItemWithPredicate[T]) AddDependencies(others ...*ItemWithPredicate[T]) error {
	for _, other := range others {
		if err := it.AddDependency(other); err != nil {
			return err
		}
	}
	return nil
}

// ValidWorkload is the predicate FIFO.PopFront evaluates while scanning
// for the next ready item. It prunes dependencies whose weak reference
// has expired, then reports whether none remain. Once it returns true,
// it keeps returning true for the lifetime of it and AddDependency
// starts failing — this transition happens exactly once and is
// irreversible, matching the source's "processing" flag.
func (it *ItemWithPredicate[T]) ValidWorkload() bool {
	g := NewGuard(it.mu)
	defer g.Release()

	if it.processing {
		return true
	}

	kept := it.deps[:0]
	for _, dep := range it.deps {
		if dep.Value() != nil {
			kept = append(kept, dep)
		}
	}
	it.deps = kept

	if len(it.deps) == 0 {
		it.processing = true
		return true
	}
	return false
}
