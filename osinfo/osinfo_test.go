package osinfo

import (
	"os"
	"testing"
)

func TestAvailableProcessors_Positive(t *testing.T) {
	if got := AvailableProcessors(); got <= 0 {
		t.Fatalf("AvailableProcessors() = %d, want > 0", got)
	}
}

func TestTotalProcessors_Positive(t *testing.T) {
	got, err := TotalProcessors()
	if err != nil {
		t.Fatalf("TotalProcessors() error = %v", err)
	}
	if got <= 0 {
		t.Fatalf("TotalProcessors() = %d, want > 0", got)
	}
}

func TestGettid_Positive(t *testing.T) {
	tid := Gettid()
	if tid <= 0 {
		t.Fatalf("Gettid() = %d, want > 0", tid)
	}
}

func TestIsProcessRunning_Self(t *testing.T) {
	if !IsProcessRunning(os.Getpid()) {
		t.Fatal("IsProcessRunning(self) = false")
	}
}

func TestIsProcessRunning_UnlikelyPID(t *testing.T) {
	// PID 1 always exists under Linux (init/systemd); use a PID far
	// outside any realistic range instead, which should never exist.
	if IsProcessRunning(1 << 30) {
		t.Fatal("IsProcessRunning(huge pid) = true")
	}
}

func TestThreadIDs_IncludesSelf(t *testing.T) {
	ids, err := ThreadIDs(0)
	if err != nil {
		t.Fatalf("ThreadIDs() error = %v", err)
	}
	if len(ids) == 0 {
		t.Fatal("ThreadIDs() returned no thread ids for the current process")
	}
}

func TestLiveThreadCount_Positive(t *testing.T) {
	got, err := LiveThreadCount()
	if err != nil {
		t.Fatalf("LiveThreadCount() error = %v", err)
	}
	if got <= 0 {
		t.Fatalf("LiveThreadCount() = %d, want > 0", got)
	}
}

func TestBootID_IsValidUUID(t *testing.T) {
	id, err := BootID()
	if err != nil {
		t.Skipf("BootID() unavailable on this system: %v", err)
	}
	if id.String() == "" {
		t.Fatal("BootID() returned an empty UUID")
	}
}

func TestHasVDSO_DoesNotError(t *testing.T) {
	if _, err := HasVDSO(); err != nil {
		t.Fatalf("HasVDSO() error = %v", err)
	}
}
