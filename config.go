package cthread

// Config carries the options a Pool (and the Threads it starts) is built
// with. The functional-options pattern here mirrors the teacher's own
// Config/Option pair; the fields themselves are replaced with the ones a
// mutex-guarded, predicate-aware FIFO pool actually needs instead of the
// lock-free queue sizing and overflow strategy a different pool topology
// would want.
type Config struct {
	// PanicHandler, if set, is invoked with the recovered value whenever
	// a worker's do-work function panics, in addition to the panic being
	// captured as the Thread's error.
	PanicHandler func(recovered interface{})

	// OnWorkerStart is called once on each worker's own goroutine before
	// it starts popping workloads.
	OnWorkerStart func(position int)

	// OnWorkerStop is called once on each worker's own goroutine after it
	// has stopped popping workloads, successfully or not.
	OnWorkerStop func(position int)

	// LogAllExceptions controls Thread.SetLogAllExceptions for every
	// Thread the pool starts. Defaults to true.
	LogAllExceptions bool
}

// Option configures a Config; pass zero or more to NewPool.
type Option func(*Config)

// WithPanicHandler sets the pool-wide panic handler.
func WithPanicHandler(h func(recovered interface{})) Option {
	return func(c *Config) { c.PanicHandler = h }
}

// WithOnWorkerStart sets the per-worker start hook.
func WithOnWorkerStart(f func(position int)) Option {
	return func(c *Config) { c.OnWorkerStart = f }
}

// WithOnWorkerStop sets the per-worker stop hook.
func WithOnWorkerStop(f func(position int)) Option {
	return func(c *Config) { c.OnWorkerStop = f }
}

// WithLogAllExceptions toggles whether each worker's Thread logs a
// captured exception at fatal level when it occurs.
func WithLogAllExceptions(enable bool) Option {
	return func(c *Config) { c.LogAllExceptions = enable }
}

func defaultConfig() Config {
	return Config{LogAllExceptions: true}
}
