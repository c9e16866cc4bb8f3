package cthread

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/cthread-go/cthread/log"
)

// PIDUndefined mirrors the source's PID_UNDEFINED sentinel: the tid a
// Thread reports before it has started or after it has stopped.
const PIDUndefined = -1

// Thread drives exactly one Runner on its own goroutine. Unlike a raw
// goroutine, Thread tracks whether it is running or stopping, captures
// any error or panic Run/Enter/Leave produces so it can be retrieved by
// the caller that calls Stop, and gives the goroutine an OS-visible name.
//
// The zero value is not usable; use NewThread.
type Thread struct {
	mu        *Mutex
	name      string
	runner    Runner
	running   bool
	started   bool
	stopping  bool
	tid       int
	exception error
	logAll    bool
	done      chan struct{}
}

// NewThread binds runner to a new, not-yet-started Thread named name.
// runner must not already be bound to another Thread.
func NewThread(name string, runner Runner) (*Thread, error) {
	if runner == nil {
		return nil, newError(KindLogic, "thread: runner must not be nil")
	}
	if runner.getThread() != nil {
		return nil, ErrInUse
	}
	t := &Thread{
		mu:     NewMutex(),
		name:   name,
		runner: runner,
		tid:    PIDUndefined,
		logAll: true,
	}
	runner.setThread(t)
	return t, nil
}

// Name returns the thread's name.
func (t *Thread) Name() string { return t.name }

// Runner returns the bound Runner.
func (t *Thread) Runner() Runner { return t.runner }

// SetLogAllExceptions controls whether a captured exception is also
// logged at fatal level when it occurs, matching the source's
// set_log_all_exceptions(). Defaults to true.
func (t *Thread) SetLogAllExceptions(enable bool) {
	g := NewGuard(t.mu)
	defer g.Release()
	t.logAll = enable
}

// IsRunning reports whether the worker goroutine is currently active.
func (t *Thread) IsRunning() bool {
	g := NewGuard(t.mu)
	defer g.Release()
	return t.running
}

// IsStopping reports whether Stop is in progress: it is true from the
// moment Stop is called, even if the worker goroutine has not noticed
// yet, until Stop has joined the worker goroutine.
func (t *Thread) IsStopping() bool {
	g := NewGuard(t.mu)
	defer g.Release()
	return t.stopping
}

// GetThreadTid returns the OS thread id the worker goroutine last
// reported, or PIDUndefined if it has not started or has stopped.
func (t *Thread) GetThreadTid() int {
	g := NewGuard(t.mu)
	defer g.Release()
	return t.tid
}

// Start launches the worker goroutine. It returns false, without error,
// if the runner reports IsReady() == false; it returns an error if the
// thread was already started and has not been stopped since.
func (t *Thread) Start() (bool, error) {
	g := NewGuard(t.mu)

	if t.started {
		g.Release()
		return false, ErrInUse
	}
	if !t.runner.IsReady() {
		g.Release()
		return false, nil
	}

	t.started = true
	t.running = true
	t.stopping = false
	t.exception = nil
	t.done = make(chan struct{})
	g.Release()

	go t.internalRun()

	return true, nil
}

// Stop asks the worker goroutine to wind down (via ContinueRunning
// becoming false) and blocks until it exits. It returns whatever error
// Enter, Run or Leave produced, including a recovered panic wrapped as an
// error. Calling Stop on a Thread that was never started, or was already
// stopped, is a no-op that returns nil.
func (t *Thread) Stop() error {
	g := NewGuard(t.mu)
	if !t.started {
		g.Release()
		return nil
	}
	t.stopping = true
	done := t.done
	g.Release()

	if done != nil {
		<-done
	}

	g2 := NewGuard(t.mu)
	defer g2.Release()
	err := t.exception
	t.exception = nil
	t.started = false
	t.stopping = false
	return err
}

// Kill sends sig to the OS thread backing this Thread, if it is running.
// It returns an error if the thread is not running or the signal could
// not be delivered.
func (t *Thread) Kill(sig os.Signal) error {
	g := NewGuard(t.mu)
	tid := t.tid
	running := t.running
	g.Release()

	if !running || tid == PIDUndefined {
		return ErrNotStarted
	}
	return unix.Tgkill(os.Getpid(), tid, signalNumber(sig))
}

func signalNumber(sig os.Signal) unix.Signal {
	if s, ok := sig.(unix.Signal); ok {
		return s
	}
	return unix.SIGTERM
}

// internalRun is the worker goroutine's entry point. It mirrors the
// enter/run/leave sequencing of the original thread::internal_run: Run is
// only called if Enter succeeded, and Leave runs afterward (in every case
// except a panic in Enter itself), with
// Enter's error if Enter failed, otherwise with Run's error (nil if Run
// panicked; that panic is captured separately and takes priority when
// both occur).
func (t *Thread) internalRun() {
	defer close(t.done)

	// Locked for the goroutine's lifetime so gettid() stays valid and
	// Kill can target the exact OS thread the Go runtime picked for it.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	t.setTid()
	t.nameOSThread()

	var finalErr error
	defer func() {
		if r := recover(); r != nil {
			finalErr = fmt.Errorf("thread %q: panic: %v", t.name, r)
			t.logException(finalErr)
		}
		g := NewGuard(t.mu)
		t.running = false
		t.tid = PIDUndefined
		if finalErr != nil {
			t.exception = finalErr
		}
		g.Release()
	}()

	enterErr := t.runner.Enter()
	if enterErr != nil {
		finalErr = fmt.Errorf("thread %q: enter: %w", t.name, enterErr)
		t.logException(finalErr)

		if leaveErr := t.runner.Leave(enterErr); leaveErr != nil {
			t.logException(fmt.Errorf("thread %q: leave after enter failure: %w", t.name, leaveErr))
		}
		return
	}

	var runPanic interface{}
	runErr := func() error {
		defer func() { runPanic = recover() }()
		return t.runner.Run()
	}()
	if runPanic != nil {
		finalErr = fmt.Errorf("thread %q: panic: %v", t.name, runPanic)
		t.logException(finalErr)
	} else if runErr != nil {
		finalErr = fmt.Errorf("thread %q: run: %w", t.name, runErr)
		t.logException(finalErr)
	}

	if leaveErr := t.runner.Leave(runErr); leaveErr != nil && finalErr == nil {
		finalErr = fmt.Errorf("thread %q: leave: %w", t.name, leaveErr)
		t.logException(finalErr)
	}
}

func (t *Thread) logException(err error) {
	g := NewGuard(t.mu)
	logAll := t.logAll
	g.Release()

	if logAll {
		log.Default().Fatal().Err(err).Str("thread", t.name).Msg("thread exited with an exception")
	}
}

func (t *Thread) setTid() {
	tid := gettid()
	g := NewGuard(t.mu)
	t.tid = tid
	g.Release()
}

// gettid returns the calling OS thread's id. The goroutine running
// internalRun is locked to its OS thread for the lifetime of the Thread
// (see internalRun's runtime.LockOSThread call) so this value stays
// valid for the worker's entire run.
func gettid() int {
	return unix.Gettid()
}

// nameOSThread publishes the runner's name to the OS, best-effort. On
// Linux this sets both the pthread-visible name (via PR_SET_NAME) and
// /proc/self/task/<tid>/comm; the source does the same via
// pthread_setname_np. Anywhere the syscalls are unavailable this is a
// silent no-op, logged at debug level.
func (t *Thread) nameOSThread() {
	name := t.name
	if len(name) > 15 {
		name = name[:15] // PR_SET_NAME truncates at 15 bytes plus NUL
	}
	var buf [16]byte
	copy(buf[:], name)
	if err := unix.Prctl(unix.PR_SET_NAME, uintptr(unsafe.Pointer(&buf[0])), 0, 0, 0); err != nil {
		log.Default().Debug().Err(err).Msg("thread: PR_SET_NAME failed")
	}

	tid := gettid()
	path := "/proc/self/task/" + strconv.Itoa(tid) + "/comm"
	if err := os.WriteFile(path, []byte(name), 0644); err != nil {
		log.Default().Debug().Err(err).Msg("thread: writing /proc comm failed")
	}
}
