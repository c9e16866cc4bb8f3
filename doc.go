// Package cthread provides a small set of thread-management primitives
// built around a recursive mutex: a guard for scope-bound locking, a
// dependency-aware thread-safe FIFO, a Runner/Thread pair that manages an
// OS-backed goroutine's lifecycle (including exception capture), and a
// Worker/Pool built on top of those for running a fixed number of workers
// against a shared input queue.
//
// # Mutex and Guard
//
// Mutex is reentrant: the same goroutine may call Lock more than once
// without deadlocking, as long as it calls Unlock the same number of
// times. Guard is the scope-bound helper:
//
//	m := cthread.NewMutex()
//	g := cthread.NewGuard(m)
//	defer g.Release()
//
// # FIFO
//
// FIFO[T] is a blocking queue. When T implements Predicated, PopFront
// skips items whose ValidWorkload() is false, which lets producers push
// items with declared dependencies (see ItemWithPredicate) in any order
// and have consumers still see them in dependency order.
//
//	q := cthread.NewFIFO[int]()
//	q.PushBack(1)
//	v, ok := q.PopFront()
//
// # Thread and ThreadLife
//
// Thread drives one Runner on its own goroutine:
//
//	r := myRunner{}
//	t, err := cthread.NewThread("worker", &r)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if _, err := t.Start(); err != nil {
//	    log.Fatal(err)
//	}
//	defer t.Stop()
//
// ThreadLife starts the thread for you and ties Stop to a defer:
//
//	life, err := cthread.NewThreadLife("worker", &r)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer life.Stop()
//
// # Worker and Pool
//
// Pool[T] starts a fixed number of Workers pulling from one input FIFO
// and, optionally, pushing forwarded results to one output FIFO:
//
//	in := cthread.NewFIFO[int]()
//	out := cthread.NewFIFO[int]()
//	pool, err := cthread.NewPool("squarer", 4, in, out, func(v int) (bool, error) {
//	    return true, nil
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pool.Wait()
//	pool.Stop(false)
package cthread
