package log

import (
	"sync"
	"testing"
)

func TestSetCallback_ReceivesLevelAndMessage(t *testing.T) {
	var mu sync.Mutex
	var gotLevel Level
	var gotMsg string

	SetCallback(func(level Level, message string) {
		mu.Lock()
		defer mu.Unlock()
		gotLevel = level
		gotMsg = message
	})
	defer SetCallback(nil)

	Discard().Warn().Msg("disk is getting full")

	mu.Lock()
	defer mu.Unlock()
	if gotLevel != Warning {
		t.Errorf("level = %v, want %v", gotLevel, Warning)
	}
	if gotMsg != "disk is getting full" {
		t.Errorf("message = %q, want %q", gotMsg, "disk is getting full")
	}
}

func TestSetCallback_Nil_Discards(t *testing.T) {
	SetCallback(nil)
	// Must not panic with no callback registered.
	Discard().Info().Msg("no one is listening")
}

func TestSetCallback_PanicIsSuppressed(t *testing.T) {
	SetCallback(func(level Level, message string) {
		panic("callbacks must not be able to crash the logger")
	})
	defer SetCallback(nil)

	Discard().Error().Msg("should not propagate the panic above")
}

func TestCount_IncrementsPerLevel(t *testing.T) {
	SetCallback(nil)
	before := Count(Debug)
	Discard().Debug().Msg("one")
	Discard().Debug().Msg("two")
	after := Count(Debug)
	if after-before != 2 {
		t.Errorf("Count(Debug) increased by %d, want 2", after-before)
	}
}

func TestLevel_String(t *testing.T) {
	cases := map[Level]string{
		Debug:   "debug",
		Info:    "info",
		Warning: "warning",
		Error:   "error",
		Fatal:   "fatal",
	}
	for level, want := range cases {
		if got := level.String(); got != want {
			t.Errorf("Level(%d).String() = %q, want %q", level, got, want)
		}
	}
}
