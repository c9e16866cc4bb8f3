package cthread

import (
	"os"

	"github.com/cthread-go/cthread/log"
)

// Guard is a scoped acquisition of a Mutex, releasing it on every exit
// path. It is the idiomatic-Go substitute for the C++ guard's RAII
// destructor: instead of relying on scope-exit, callers write
//
//	g := NewGuard(m)
//	defer g.Release()
//
// Guard is not safe for concurrent use by multiple goroutines; it is
// meant to live on exactly one goroutine's stack.
type Guard struct {
	mutex  *Mutex
	locked bool
	freed  bool
}

// NewGuard locks mutex and returns a Guard that will unlock it exactly
// once. mutex must not be nil.
func NewGuard(mutex *Mutex) *Guard {
	if mutex == nil {
		panic(newError(KindLogic, "guard: mutex must not be nil"))
	}
	mutex.Lock()
	return &Guard{mutex: mutex, locked: true}
}

// Unlock releases the held lock exactly once. If done is true (the
// default semantics when called with no arguments via UnlockDone), the
// Guard's reference to the mutex is also cleared, so a later call to
// Lock is a no-op instead of re-acquiring. Call Unlock(false) to allow a
// later Lock to re-acquire the mutex.
func (g *Guard) Unlock(done bool) {
	if g.locked {
		if err := g.mutex.Unlock(); err != nil {
			// Unlock() only fails on a logic error (depth already 0),
			// which here would mean this Guard's bookkeeping disagrees
			// with the mutex's; that can't happen without a bug in this
			// package, so treat it the way a C++ destructor that must
			// not propagate would: log fatally and abort.
			log.Default().Fatal().Err(err).Msg("guard: unlock failed on release")
			os.Exit(1)
		}
		g.locked = false
	}
	if done {
		g.freed = true
	}
}

// UnlockDone is equivalent to Unlock(true): releases the lock and
// prevents this Guard from being relocked.
func (g *Guard) UnlockDone() {
	g.Unlock(true)
}

// Lock re-acquires the mutex if this Guard is not currently holding it.
// It is a no-op if UnlockDone (or Unlock(true)) was previously called.
func (g *Guard) Lock() {
	if g.freed || g.locked {
		return
	}
	g.mutex.Lock()
	g.locked = true
}

// Relock is an alias for Lock, matching the source API's naming.
func (g *Guard) Relock() {
	g.Lock()
}

// IsLocked reports whether this Guard currently holds the mutex. The
// result is racy except when called from the Guard's own owning
// goroutine; it exists for assertions on that goroutine's stack only.
func (g *Guard) IsLocked() bool {
	return g.locked
}

// Release unlocks the mutex if still held. It is idempotent and is the
// function callers should defer immediately after NewGuard.
func (g *Guard) Release() {
	g.Unlock(true)
}
