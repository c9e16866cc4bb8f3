package cthread

// Runner is the user work body a Thread drives. Implementations embed
// BaseRunner to get Name, IsReady, ContinueRunning and GetThread for
// free, and must supply Run themselves; Enter and Leave have no-op
// defaults and may be overridden for setup/teardown that must happen on
// the worker goroutine itself rather than the caller's.
type Runner interface {
	// Name returns this runner's name, used for logging and OS thread
	// naming.
	Name() string

	// IsReady reports whether the runner has everything it needs to
	// start running. The default implementation always returns true;
	// override it to gate Start on external setup.
	IsReady() bool

	// ContinueRunning is polled by long-running loops inside Run to
	// decide whether to keep going. It becomes false once Thread.Stop
	// has been called.
	ContinueRunning() bool

	// Run is the runner's actual work. It returns when there is no more
	// work to do, or ContinueRunning becomes false. Returning a non-nil
	// error, or panicking, marks the Thread as failed; the error (or
	// recovered panic, wrapped) is retrievable from Thread.Stop.
	Run() error

	// Enter is called once on the worker goroutine immediately before
	// Run. The default implementation does nothing.
	Enter() error

	// Leave is called once on the worker goroutine immediately after Run
	// returns or panics, exactly once, even on failure. The default
	// implementation does nothing. runErr is Run's own result (nil if
	// Run panicked instead of returning an error; the panic is captured
	// separately).
	Leave(runErr error) error

	setThread(t *Thread)
	getThread() *Thread
}

// BaseRunner provides the bookkeeping every Runner implementation needs:
// a name, a mutex, and the back-reference to the owning Thread (whose
// stopping flag ContinueRunning reads).
// Embed it by value in a concrete runner type and implement Run.
type BaseRunner struct {
	mu     *Mutex
	name   string
	thread *Thread
}

// NewBaseRunner returns a BaseRunner with the given name, ready to embed.
func NewBaseRunner(name string) BaseRunner {
	return BaseRunner{mu: NewMutex(), name: name}
}

// Name returns the runner's name.
func (r *BaseRunner) Name() string {
	return r.name
}

// IsReady always returns true; override by shadowing this method on the
// embedding type if readiness depends on external state.
func (r *BaseRunner) IsReady() bool {
	return true
}

// ContinueRunning reports whether the owning Thread has not yet been
// asked to stop. A runner not yet bound to a Thread is always considered
// free to run.
func (r *BaseRunner) ContinueRunning() bool {
	t := r.getThread()
	if t == nil {
		return true
	}
	return !t.IsStopping()
}

// Enter is a no-op default; override by shadowing it on the embedding
// type.
func (r *BaseRunner) Enter() error { return nil }

// Leave is a no-op default; override by shadowing it on the embedding
// type.
func (r *BaseRunner) Leave(runErr error) error { return nil }

func (r *BaseRunner) setThread(t *Thread) {
	g := NewGuard(r.mu)
	defer g.Release()
	r.thread = t
}

func (r *BaseRunner) getThread() *Thread {
	g := NewGuard(r.mu)
	defer g.Release()
	return r.thread
}

// GetThread returns the Thread this runner is currently bound to, or nil
// if no Thread has been created around it yet (NewThread binds it).
func (r *BaseRunner) GetThread() *Thread {
	return r.getThread()
}
