package cthread

import (
	"errors"
	"testing"
	"time"
)

type funcRunner struct {
	BaseRunner
	run   func() error
	enter func() error
	leave func(error) error
}

func newFuncRunner(name string, run func() error) *funcRunner {
	return &funcRunner{BaseRunner: NewBaseRunner(name), run: run}
}

func (r *funcRunner) Run() error {
	return r.run()
}

func (r *funcRunner) Enter() error {
	if r.enter != nil {
		return r.enter()
	}
	return nil
}

func (r *funcRunner) Leave(runErr error) error {
	if r.leave != nil {
		return r.leave(runErr)
	}
	return nil
}

func TestThread_StartStop(t *testing.T) {
	stop := make(chan struct{})
	r := newFuncRunner("t1", func() error {
		<-stop
		return nil
	})
	th, err := NewThread("t1", r)
	if err != nil {
		t.Fatalf("NewThread() error = %v", err)
	}

	ok, err := th.Start()
	if err != nil || !ok {
		t.Fatalf("Start() = (%v, %v), want (true, nil)", ok, err)
	}
	if !th.IsRunning() {
		t.Fatal("IsRunning() = false right after Start")
	}

	close(stop)
	if err := th.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if th.IsRunning() {
		t.Fatal("IsRunning() = true after Stop returned")
	}
}

func TestThread_RunErrorIsCapturedByStop(t *testing.T) {
	wantErr := errors.New("boom")
	r := newFuncRunner("t2", func() error {
		return wantErr
	})
	th, err := NewThread("t2", r)
	if err != nil {
		t.Fatalf("NewThread() error = %v", err)
	}
	th.SetLogAllExceptions(false)

	if _, err := th.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	err = th.Stop()
	if err == nil || !errors.Is(err, wantErr) {
		t.Fatalf("Stop() error = %v, want wrapping %v", err, wantErr)
	}
}

func TestThread_PanicIsCapturedByStop(t *testing.T) {
	r := newFuncRunner("t3", func() error {
		panic("something went wrong")
	})
	th, err := NewThread("t3", r)
	if err != nil {
		t.Fatalf("NewThread() error = %v", err)
	}
	th.SetLogAllExceptions(false)

	if _, err := th.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if err := th.Stop(); err == nil {
		t.Fatal("Stop() error = nil after Run panicked")
	}
}

func TestThread_EnterFailureSkipsRun(t *testing.T) {
	ranRun := false
	var leaveCalledWith error
	leaveCalled := false

	r := newFuncRunner("t4", func() error {
		ranRun = true
		return nil
	})
	setupErr := errors.New("setup failed")
	r.enter = func() error { return setupErr }
	r.leave = func(err error) error {
		leaveCalled = true
		leaveCalledWith = err
		return nil
	}
	th, err := NewThread("t4", r)
	if err != nil {
		t.Fatalf("NewThread() error = %v", err)
	}
	th.SetLogAllExceptions(false)

	if _, err := th.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := th.Stop(); err == nil {
		t.Fatal("Stop() error = nil after Enter failed")
	}
	if ranRun {
		t.Fatal("Run was invoked despite Enter failing")
	}
	if !leaveCalled {
		t.Fatal("Leave was not called after Enter failed")
	}
	if leaveCalledWith != setupErr {
		t.Fatalf("Leave called with %v, want %v", leaveCalledWith, setupErr)
	}
}

func TestThread_NotReadyRunnerDoesNotStart(t *testing.T) {
	r := newFuncRunner("t5", func() error { return nil })
	notReady := &notReadyRunner{funcRunner: r}
	th, err := NewThread("t5", notReady)
	if err != nil {
		t.Fatalf("NewThread() error = %v", err)
	}

	ok, err := th.Start()
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if ok {
		t.Fatal("Start() = true for a runner that is not ready")
	}
}

type notReadyRunner struct {
	*funcRunner
}

func (r *notReadyRunner) IsReady() bool { return false }

func TestThread_DoubleStartFails(t *testing.T) {
	stop := make(chan struct{})
	r := newFuncRunner("t6", func() error {
		<-stop
		return nil
	})
	th, err := NewThread("t6", r)
	if err != nil {
		t.Fatalf("NewThread() error = %v", err)
	}
	if _, err := th.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if _, err := th.Start(); err != ErrInUse {
		t.Fatalf("second Start() error = %v, want ErrInUse", err)
	}
	close(stop)
	th.Stop()
}

func TestNewThread_RunnerAlreadyBoundFails(t *testing.T) {
	r := newFuncRunner("t7", func() error { return nil })
	_, err := NewThread("t7", r)
	if err != nil {
		t.Fatalf("NewThread() error = %v", err)
	}
	if _, err := NewThread("t7-again", r); err != ErrInUse {
		t.Fatalf("second NewThread() with the same runner, error = %v, want ErrInUse", err)
	}
}

func TestThreadLife_StopsOnDefer(t *testing.T) {
	stop := make(chan struct{})
	stopped := make(chan struct{})
	r := newFuncRunner("life", func() error {
		<-stop
		close(stopped)
		return nil
	})

	func() {
		life, err := NewThreadLife("life", r)
		if err != nil {
			t.Fatalf("NewThreadLife() error = %v", err)
		}
		defer life.Stop()
		close(stop)
	}()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("ThreadLife.Stop() did not wait for the runner to exit")
	}
}
