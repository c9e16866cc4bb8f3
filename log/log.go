// Package log is the logging sink external collaborator described by the
// specification: the core calls into it to report thread lifecycle
// events and destructor-invariant violations, but does not implement
// logging itself. It wraps github.com/rs/zerolog, the same way
// github.com/joeycumines/go-utilpkg/logiface-zerolog wraps zerolog behind
// a small sink interface — a thin adapter, not a logging framework.
package log

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Level mirrors the five severities the specification calls for:
// debug, info, warning, error, fatal.
type Level int

const (
	Debug Level = iota
	Info
	Warning
	Error
	Fatal

	numLevels
)

func (l Level) String() string {
	switch l {
	case Debug:
		return "debug"
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	case Debug:
		return zerolog.DebugLevel
	case Info:
		return zerolog.InfoLevel
	case Warning:
		return zerolog.WarnLevel
	case Error:
		return zerolog.ErrorLevel
	case Fatal:
		return zerolog.PanicLevel // fatal is reported, not os.Exit'd, by this package
	default:
		return zerolog.NoLevel
	}
}

// Callback receives every record the sink emits, after it has been
// written to the underlying zerolog writer. Registering a callback is
// the escape hatch the specification requires: "a registration function
// that accepts a callback (level, message)".
type Callback func(level Level, message string)

var (
	callbackMu sync.RWMutex
	callback   Callback // nil means discard, which is the documented default
	counters   [numLevels]atomic.Uint32
)

// SetCallback registers the process-wide callback invoked for every
// record logged through this package. Passing nil restores the default
// discarding behavior. Errors returned from within a callback are
// impossible by construction (the signature has no error return); any
// panic inside a callback is recovered and dropped, matching the
// specification's "errors from the logging sink are suppressed."
func SetCallback(cb Callback) {
	callbackMu.Lock()
	defer callbackMu.Unlock()
	callback = cb
}

func dispatch(level Level, message string) {
	counters[level].Add(1)

	callbackMu.RLock()
	cb := callback
	callbackMu.RUnlock()
	if cb == nil {
		return
	}
	defer func() { _ = recover() }()
	cb(level, message)
}

// Count returns how many records have been logged at the given level
// since process start.
func Count(level Level) uint32 {
	if level < 0 || level >= numLevels {
		return 0
	}
	return counters[level].Load()
}

// Logger is a chainable, level-based logger backed by zerolog. Its
// terminal .Msg()/.Msgf() call is the "end-of-record sentinel" the
// specification's streaming interface describes — zerolog's own chain
// terminator doubles as that sentinel, so no separate End() marker is
// needed the way the C++ `log << ... << end` idiom needed one.
type Logger struct {
	zl zerolog.Logger
}

var (
	defaultOnce   sync.Once
	defaultLogger *Logger
)

// Default returns the process-wide default Logger, writing to stderr in
// zerolog's console format. Components inside this module log through
// Default() unless a caller supplies its own Logger via New.
func Default() *Logger {
	defaultOnce.Do(func() {
		defaultLogger = New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05.000"})
	})
	return defaultLogger
}

// New builds a Logger writing to w.
func New(w io.Writer) *Logger {
	return &Logger{zl: zerolog.New(w).With().Timestamp().Logger()}
}

// Discard returns a Logger whose records go nowhere, matching the
// specification's "a default sink that discards is acceptable" —
// intended for tests that want silence without a nil-check at every call
// site.
func Discard() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// Event is a single in-flight log record, mirroring zerolog.Event's
// chainable field-setting API.
type Event struct {
	level Level
	ev    *zerolog.Event
}

func (l *Logger) at(level Level) *Event {
	return &Event{level: level, ev: l.zl.WithLevel(level.zerolog())}
}

func (l *Logger) Debug() *Event { return l.at(Debug) }
func (l *Logger) Info() *Event  { return l.at(Info) }
func (l *Logger) Warn() *Event  { return l.at(Warning) }
func (l *Logger) Error() *Event { return l.at(Error) }
func (l *Logger) Fatal() *Event { return l.at(Fatal) }

// Str attaches a string field.
func (e *Event) Str(key, val string) *Event { e.ev = e.ev.Str(key, val); return e }

// Int attaches an int field.
func (e *Event) Int(key string, val int) *Event { e.ev = e.ev.Int(key, val); return e }

// Err attaches an error field under the conventional "error" key.
func (e *Event) Err(err error) *Event { e.ev = e.ev.Err(err); return e }

// Msg finalizes and emits the record with the given message, and is the
// end-of-record sentinel: nothing about this Event may be touched after
// Msg returns.
func (e *Event) Msg(msg string) {
	e.ev.Msg(msg)
	dispatch(e.level, msg)
}

// Msgf finalizes and emits the record with a formatted message.
func (e *Event) Msgf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	e.ev.Msg(msg)
	dispatch(e.level, msg)
}
