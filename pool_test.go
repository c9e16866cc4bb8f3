package cthread

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestNewPool_InvalidSize(t *testing.T) {
	in := NewFIFO[int]()
	if _, err := NewPool("p", 0, in, nil, func(int) (bool, error) { return false, nil }); err == nil {
		t.Fatal("NewPool() with size 0 did not error")
	}
	if _, err := NewPool("p", 1001, in, nil, func(int) (bool, error) { return false, nil }); err == nil {
		t.Fatal("NewPool() with size 1001 did not error")
	}
}

func TestPool_ProcessesAllWorkloads(t *testing.T) {
	const jobs = 1000
	in := NewFIFO[int]()
	out := NewFIFO[int]()

	var processed atomic.Int64
	pool, err := NewPool("squarer", 4, in, out, func(v int) (bool, error) {
		processed.Add(1)
		return true, nil
	})
	if err != nil {
		t.Fatalf("NewPool() error = %v", err)
	}

	for i := 0; i < jobs; i++ {
		pool.PushBack(i)
	}
	pool.Stop(false)

	received := 0
	for received < jobs {
		if _, ok := pool.PopFront(); !ok {
			break
		}
		received++
	}
	out.Done(false)

	if err := pool.Wait(); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	if int(processed.Load()) != jobs {
		t.Fatalf("processed %d workloads, want %d", processed.Load(), jobs)
	}
	if received != jobs {
		t.Fatalf("received %d workloads, want %d", received, jobs)
	}
}

func TestPool_WorkerHooksFire(t *testing.T) {
	in := NewFIFO[int]()

	var started, stopped atomic.Int64
	pool, err := NewPool("hooked", 3, in, nil,
		func(int) (bool, error) { return false, nil },
		WithOnWorkerStart(func(position int) { started.Add(1) }),
		WithOnWorkerStop(func(position int) { stopped.Add(1) }),
	)
	if err != nil {
		t.Fatalf("NewPool() error = %v", err)
	}

	pool.Stop(false)
	if err := pool.Wait(); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	if started.Load() != 3 {
		t.Fatalf("OnWorkerStart fired %d times, want 3", started.Load())
	}
	if stopped.Load() != 3 {
		t.Fatalf("OnWorkerStop fired %d times, want 3", stopped.Load())
	}
}

func TestPool_PanicHandlerFires(t *testing.T) {
	in := NewFIFO[int]()

	caught := make(chan interface{}, 1)
	pool, err := NewPool("panicker", 1, in, nil,
		func(v int) (bool, error) {
			panic("boom")
		},
		WithPanicHandler(func(r interface{}) { caught <- r }),
		WithLogAllExceptions(false),
	)
	if err != nil {
		t.Fatalf("NewPool() error = %v", err)
	}

	in.PushBack(1)

	select {
	case r := <-caught:
		if r != "boom" {
			t.Fatalf("panic handler received %v, want %q", r, "boom")
		}
	case <-time.After(time.Second):
		t.Fatal("panic handler never fired")
	}

	pool.Stop(true)
	pool.Wait()
}

func TestPool_Stats(t *testing.T) {
	in := NewFIFO[int]()
	pool, err := NewPool("stats", 2, in, nil, func(int) (bool, error) { return false, nil })
	if err != nil {
		t.Fatalf("NewPool() error = %v", err)
	}
	defer func() {
		pool.Stop(true)
		pool.Wait()
	}()

	stats := pool.Stats()
	if stats.NumWorkers != 2 {
		t.Fatalf("Stats().NumWorkers = %d, want 2", stats.NumWorkers)
	}
	if len(stats.WorkerStats) != 2 {
		t.Fatalf("len(Stats().WorkerStats) = %d, want 2", len(stats.WorkerStats))
	}
}

func TestPool_WorkerOutOfRangePanics(t *testing.T) {
	in := NewFIFO[int]()
	pool, err := NewPool("oob", 1, in, nil, func(int) (bool, error) { return false, nil })
	if err != nil {
		t.Fatalf("NewPool() error = %v", err)
	}
	defer func() {
		pool.Stop(true)
		pool.Wait()
	}()

	defer func() {
		if recover() == nil {
			t.Fatal("Worker() with an out-of-range index did not panic")
		}
	}()
	pool.Worker(5)
}
