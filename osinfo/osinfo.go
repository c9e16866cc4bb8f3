// Package osinfo is a port of cppthread's OS-inspection free functions
// (get_total_number_of_processors, gettid, get_boot_id, and friends) and
// the small command-line tools built around them
// (tools/boot_id.cpp, tools/has_vdso.cpp, tools/process_is_running.cpp).
// It is a leaf package: nothing in the cthread package depends on it,
// the way the thread-management core and the OS-inspection helpers are
// independent concerns in the source despite living in the same file.
package osinfo

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"
)

// TotalProcessors returns the number of processors configured on this
// system, equivalent to get_nprocs_conf(). This count includes
// processors that may currently be offline.
func TotalProcessors() (int, error) {
	// Like get_nprocs_conf(), count the cpuN entries under
	// /sys/devices/system/cpu, which lists offline processors too.
	matches, err := filepath.Glob("/sys/devices/system/cpu/cpu[0-9]*")
	if err != nil {
		return 0, fmt.Errorf("osinfo: globbing cpu directory: %w", err)
	}
	if len(matches) == 0 {
		return 0, fmt.Errorf("osinfo: no cpu entries under /sys/devices/system/cpu")
	}
	return len(matches), nil
}

// AvailableProcessors returns the number of processors currently usable
// by this process, equivalent to get_nprocs(). It reports
// runtime.GOMAXPROCS(0), which defaults to the CPUs in the process's
// affinity mask at startup and follows any later GOMAXPROCS setting.
func AvailableProcessors() int {
	return runtime.GOMAXPROCS(0)
}

// Gettid returns the current OS thread id, equivalent to gettid().
// Because Go goroutines migrate between OS threads, this is only
// meaningful immediately after a runtime.LockOSThread call.
func Gettid() int {
	return unix.Gettid()
}

// MaxPID reads /proc/sys/kernel/pid_max, equivalent to the source's
// cached get_pid_max() helper.
func MaxPID() (int, error) {
	data, err := os.ReadFile("/proc/sys/kernel/pid_max")
	if err != nil {
		return 0, fmt.Errorf("osinfo: reading pid_max: %w", err)
	}
	max, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("osinfo: parsing pid_max: %w", err)
	}
	return max, nil
}

// ThreadIDs lists the OS thread ids belonging to pid, equivalent to
// get_thread_ids(). Passing pid <= 0 uses the calling process.
func ThreadIDs(pid int) ([]int, error) {
	if pid <= 0 {
		pid = os.Getpid()
	}
	matches, err := filepath.Glob(fmt.Sprintf("/proc/%d/task/*", pid))
	if err != nil {
		return nil, fmt.Errorf("osinfo: globbing task directory: %w", err)
	}
	ids := make([]int, 0, len(matches))
	for _, m := range matches {
		id, err := strconv.Atoi(filepath.Base(m))
		if err != nil {
			continue // a non-numeric entry is not a valid thread id
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ThreadName reads /proc/<tid>/comm, equivalent to get_thread_name().
func ThreadName(tid int) (string, error) {
	data, err := os.ReadFile(fmt.Sprintf("/proc/%d/comm", tid))
	if err != nil {
		return "", fmt.Errorf("osinfo: reading comm: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// IsProcessRunning reports whether /proc/<pid> exists, equivalent to
// is_process_running(). As the source notes, this is inherently racy: the
// process may exit (or a new one with the same pid may start) between
// this check returning and the caller acting on it.
func IsProcessRunning(pid int) bool {
	if pid == os.Getpid() {
		return true
	}
	_, err := os.Stat(fmt.Sprintf("/proc/%d", pid))
	return err == nil
}

// LiveThreadCount returns how many OS threads the calling process
// currently has, by counting entries under /proc/self/task.
func LiveThreadCount() (int, error) {
	entries, err := os.ReadDir("/proc/self/task")
	if err != nil {
		return 0, fmt.Errorf("osinfo: reading /proc/self/task: %w", err)
	}
	return len(entries), nil
}

// BootID reads /proc/sys/kernel/random/boot_id, equivalent to
// get_boot_id(), and parses it as a UUID. It returns an error if the
// file is absent or does not hold a valid UUID — the source tolerated an
// empty string on systems without the file; this package surfaces that
// as an explicit error instead, since a silently-zero UUID would be
// indistinguishable from a real (if unlikely) all-zero boot id.
func BootID() (uuid.UUID, error) {
	data, err := os.ReadFile("/proc/sys/kernel/random/boot_id")
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("osinfo: reading boot_id: %w", err)
	}
	id, err := uuid.Parse(strings.TrimSpace(string(data)))
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("osinfo: parsing boot_id: %w", err)
	}
	return id, nil
}
