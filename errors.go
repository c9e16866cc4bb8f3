package cthread

import "fmt"

// Kind classifies the errors this package can return, matching the error
// taxonomy of the underlying thread primitives rather than the name of any
// particular Go type.
type Kind int

const (
	// KindLogic marks a programmer contract violated at the API boundary,
	// e.g. a nil Runner or a Guard built around a nil Mutex.
	KindLogic Kind = iota
	// KindAlreadyExists marks an attempt to register a name twice.
	KindAlreadyExists
	// KindInUse marks an attempt to attach a Runner that is already
	// attached to a Thread, or to add a dependency to an item that has
	// already started processing.
	KindInUse
	// KindInvalid marks a bad parameter or an OS primitive that failed
	// unexpectedly.
	KindInvalid
	// KindNotLocked marks Unlock called more times than Lock.
	KindNotLocked
	// KindNotLockedOnce marks Wait called at the wrong lock depth. This is
	// advisory only and is never returned as a hard failure; it exists so
	// callers can log.Printf it if they want to catch the condition.
	KindNotLockedOnce
	// KindMutexFailed marks a condition-variable wait that reported an
	// error other than a timeout.
	KindMutexFailed
	// KindNameMismatch marks a plugin whose reported name does not match
	// the name it was registered or looked up under.
	KindNameMismatch
	// KindNotFound marks a plugin lookup that found nothing.
	KindNotFound
	// KindNotStarted marks a Thread that failed to start inside a
	// ThreadLife.
	KindNotStarted
	// KindSystemError marks an underlying syscall failure, e.g. a clock
	// read.
	KindSystemError
)

func (k Kind) String() string {
	switch k {
	case KindLogic:
		return "logic"
	case KindAlreadyExists:
		return "already-exists"
	case KindInUse:
		return "in-use"
	case KindInvalid:
		return "invalid"
	case KindNotLocked:
		return "not-locked"
	case KindNotLockedOnce:
		return "not-locked-once"
	case KindMutexFailed:
		return "mutex-failed"
	case KindNameMismatch:
		return "name-mismatch"
	case KindNotFound:
		return "not-found"
	case KindNotStarted:
		return "not-started"
	case KindSystemError:
		return "system-error"
	default:
		return "unknown"
	}
}

// Error is the error type returned throughout cthread. It wraps an
// underlying error (if any) and carries a Kind so callers can branch on
// the failure category with errors.As instead of string matching.
//
// Error supports errors.Unwrap for compatibility with errors.Is/errors.As.
type Error struct {
	Kind Kind
	msg  string
	err  error
}

// Error returns a formatted error message. If an underlying error exists,
// it is included in the output.
func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("cthread: %s: %s: %v", e.Kind, e.msg, e.err)
	}
	return fmt.Sprintf("cthread: %s: %s", e.Kind, e.msg)
}

// Unwrap returns the underlying error, allowing use with errors.Is and
// errors.As.
func (e *Error) Unwrap() error {
	return e.err
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, msg: msg}
}

func wrapError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, msg: msg, err: err}
}

// NewError builds an *Error of the given Kind. Exported so other packages
// in this module (plugins, in particular) can report failures through the
// same taxonomy instead of inventing their own error types.
func NewError(kind Kind, msg string) *Error {
	return newError(kind, msg)
}

// WrapError builds an *Error of the given Kind wrapping err.
func WrapError(kind Kind, msg string, err error) *Error {
	return wrapError(kind, msg, err)
}

// Sentinel errors for the few conditions callers are expected to compare
// against directly rather than inspect via errors.As. These mirror the
// fixed set of "well known" error values the teacher's PoolError
// constants modeled (ErrPoolShutdown, ErrQueueFull, ...), generalized to
// the full taxonomy this package needs.
var (
	// ErrNotLocked is returned by Mutex.Unlock when called at depth 0.
	ErrNotLocked = newError(KindNotLocked, "unlock called without a matching lock")

	// ErrInUse is returned when a Runner already bound to a Thread is
	// bound to a second one, or when a dependency is added to an
	// ItemWithPredicate that has already started processing.
	ErrInUse = newError(KindInUse, "already in use")

	// ErrNotStarted is returned by NewThreadLife when Thread.Start fails.
	ErrNotStarted = newError(KindNotStarted, "thread failed to start")
)
