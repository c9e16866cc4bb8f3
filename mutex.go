package cthread

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/cthread-go/cthread/log"
)

// goroutineID returns an identifier for the calling goroutine. Go has no
// public API for this; the recursive-lock semantics below need one to
// decide whether the current goroutine already owns the mutex, so this
// parses it out of a runtime.Stack dump the same way the handful of
// existing "goroutine id" shims in the wild do it. It is used nowhere
// else, and it is never used to make scheduling decisions, only to
// detect reentrancy.
func goroutineID() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := buf[:n]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	if i := bytes.IndexByte(b, ' '); i >= 0 {
		b = b[:i]
	}
	id, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		// Should not happen; the runtime's own format is stable. Fall
		// back to a value that can never match a real goroutine id so
		// the mutex degrades to non-reentrant rather than panicking.
		return -1
	}
	return id
}

// Mutex is a recursive mutual-exclusion lock with an attached condition
// variable. Unlike sync.Mutex, the same goroutine may call Lock multiple
// times without deadlocking; it must call Unlock the same number of
// times before another goroutine can acquire it.
//
// Internally, real is the actual exclusion primitive: it is held
// continuously from the first Lock (at any depth) until the matching
// Unlock brings depth back to 0. meta is a second, always briefly-held
// lock that only protects the owner/depth bookkeeping; it is never held
// while blocking on real, which is what keeps Wait safe to call while
// holding the logical lock instead of self-deadlocking.
//
// The zero value is not usable; use NewMutex.
type Mutex struct {
	real  sync.Mutex
	meta  sync.Mutex
	cond  *sync.Cond
	owner int64 // goroutine id of the current holder, valid iff depth > 0
	depth int
}

// NewMutex returns a ready-to-use Mutex.
func NewMutex() *Mutex {
	m := &Mutex{owner: -1}
	m.cond = sync.NewCond(&m.real)
	return m
}

// Lock blocks until the mutex is held by the calling goroutine, then
// increments the recursion depth. A goroutine that already holds the
// mutex may call Lock again without blocking.
func (m *Mutex) Lock() {
	gid := goroutineID()

	m.meta.Lock()
	if m.depth > 0 && m.owner == gid {
		m.depth++
		m.meta.Unlock()
		return
	}
	m.meta.Unlock()

	m.real.Lock()

	m.meta.Lock()
	m.owner = gid
	m.depth = 1
	m.meta.Unlock()
}

// TryLock attempts to acquire the mutex without blocking. It returns true
// and increments the depth on success. If another goroutine holds the
// lock it returns false without blocking.
func (m *Mutex) TryLock() bool {
	gid := goroutineID()

	m.meta.Lock()
	if m.depth > 0 && m.owner == gid {
		m.depth++
		m.meta.Unlock()
		return true
	}
	m.meta.Unlock()

	if !m.real.TryLock() {
		return false
	}

	m.meta.Lock()
	m.owner = gid
	m.depth = 1
	m.meta.Unlock()
	return true
}

// Unlock releases one level of recursion. It returns ErrNotLocked if the
// mutex is not currently held at all (depth is already 0).
func (m *Mutex) Unlock() error {
	m.meta.Lock()
	defer m.meta.Unlock()

	if m.depth == 0 {
		return ErrNotLocked
	}
	m.depth--
	if m.depth == 0 {
		m.owner = -1
		m.real.Unlock()
	}
	return nil
}

// Wait atomically releases the mutex and suspends the calling goroutine
// until Signal or Broadcast is called, then re-acquires the mutex at the
// same recursion depth before returning. The release is complete whatever
// the depth: outer recursion levels are not kept held while waiting (the
// caller is expected to be at depth 1; see checkWaitDepth).
//
// Spurious wakeups are possible and are the caller's responsibility to
// filter; FIFO.PopFront does this by rechecking its predicate in a loop.
func (m *Mutex) Wait() {
	m.checkWaitDepth()

	m.meta.Lock()
	savedOwner, savedDepth := m.owner, m.depth
	m.owner, m.depth = -1, 0
	m.meta.Unlock()

	m.cond.Wait() // atomically releases m.real, waits, re-acquires m.real

	m.meta.Lock()
	m.owner, m.depth = savedOwner, savedDepth
	m.meta.Unlock()
}

// checkWaitDepth logs (but never fails) when Wait is called at a
// recursion depth other than 1. The original C++ implementation used to
// enforce depth == 1 and the check was later commented out "because it
// caused problems" — this package keeps the check as an advisory log
// only, per that history.
func (m *Mutex) checkWaitDepth() {
	m.meta.Lock()
	depth := m.depth
	m.meta.Unlock()

	if depth != 1 {
		log.Default().Warn().
			Int("depth", depth).
			Msg("mutex: wait() called at an unexpected lock depth")
	}
}

// TimedWait behaves like Wait but returns false if no notification
// arrives within the given duration, true if one did.
func (m *Mutex) TimedWait(d time.Duration) bool {
	return m.DatedWait(time.Now().Add(d))
}

// DatedWait behaves like Wait but returns false if no notification
// arrives before the absolute deadline, true if one did.
//
// Internally this uses a timer that broadcasts on expiry to force the
// waiter out of sync.Cond.Wait, since sync.Cond has no native timeout.
// The timer takes the underlying lock before broadcasting, so its
// broadcast cannot land before the waiter has entered sync.Cond.Wait.
func (m *Mutex) DatedWait(deadline time.Time) bool {
	timer := time.AfterFunc(time.Until(deadline), func() {
		m.real.Lock()
		m.cond.Broadcast()
		m.real.Unlock()
	})
	defer timer.Stop()

	m.checkWaitDepth()

	m.meta.Lock()
	savedOwner, savedDepth := m.owner, m.depth
	m.owner, m.depth = -1, 0
	m.meta.Unlock()

	m.cond.Wait()

	m.meta.Lock()
	m.owner, m.depth = savedOwner, savedDepth
	m.meta.Unlock()

	return time.Now().Before(deadline)
}

// Signal wakes at most one goroutine blocked in Wait/TimedWait/DatedWait.
// It may be called whether or not the calling goroutine holds the mutex.
func (m *Mutex) Signal() {
	m.cond.Signal()
}

// Broadcast wakes every goroutine blocked in Wait/TimedWait/DatedWait. It
// may be called whether or not the calling goroutine holds the mutex.
func (m *Mutex) Broadcast() {
	m.cond.Broadcast()
}

// SafeSignal wraps Signal in a Guard so the caller need not already hold
// the mutex.
func (m *Mutex) SafeSignal() {
	g := NewGuard(m)
	defer g.Release()
	m.Signal()
}

// SafeBroadcast wraps Broadcast in a Guard so the caller need not already
// hold the mutex.
func (m *Mutex) SafeBroadcast() {
	g := NewGuard(m)
	defer g.Release()
	m.Broadcast()
}

// Depth returns the current recursion depth. Intended for tests and
// invariant assertions, not for control flow.
func (m *Mutex) Depth() int {
	m.meta.Lock()
	defer m.meta.Unlock()
	return m.depth
}
