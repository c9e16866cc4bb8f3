package cthread

// ThreadLife starts a Thread on construction and guarantees it is
// stopped by the time the scope ends, the RAII pattern the C++ source
// relies on for its thread_life class. Go has no destructors, so the
// caller must defer Stop immediately after NewThreadLife succeeds:
//
//	life, err := NewThreadLife(name, runner)
//	if err != nil {
//	    return err
//	}
//	defer life.Stop()
type ThreadLife struct {
	thread *Thread
}

// NewThreadLife creates a Thread around runner and starts it
// immediately. It returns ErrNotStarted if the runner was not ready or
// the thread could not be started.
func NewThreadLife(name string, runner Runner) (*ThreadLife, error) {
	t, err := NewThread(name, runner)
	if err != nil {
		return nil, err
	}
	ok, err := t.Start()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotStarted
	}
	return &ThreadLife{thread: t}, nil
}

// Thread returns the underlying Thread.
func (l *ThreadLife) Thread() *Thread {
	return l.thread
}

// Stop stops the underlying thread and returns whatever error it
// produced. It is safe to call more than once.
func (l *ThreadLife) Stop() error {
	return l.thread.Stop()
}
