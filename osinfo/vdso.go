package osinfo

import (
	"encoding/binary"
	"fmt"
	"os"
)

// atSysinfoEHDR is AT_SYSINFO_EHDR from <elf.h>: the auxiliary vector
// entry type whose value is the load address of the vDSO image, or 0 if
// none is mapped.
const atSysinfoEHDR = 33

// HasVDSO reports whether the kernel mapped a vDSO into this process,
// equivalent to the source's is_using_vdso() (see tools/has_vdso.cpp).
// It works by scanning /proc/self/auxv for an AT_SYSINFO_EHDR entry with
// a non-zero value, the same information libc's getauxval(3) exposes,
// read directly since the auxiliary vector is only available to a
// process about its own, already-running self — there is nothing to
// look up for another pid.
func HasVDSO() (bool, error) {
	data, err := os.ReadFile("/proc/self/auxv")
	if err != nil {
		return false, fmt.Errorf("osinfo: reading auxv: %w", err)
	}

	wordSize := 8 // auxv entries are pairs of native-word-sized longs
	if len(data)%16 != 0 {
		wordSize = 4
	}

	for i := 0; i+2*wordSize <= len(data); i += 2 * wordSize {
		var tag, value uint64
		if wordSize == 8 {
			tag = binary.LittleEndian.Uint64(data[i : i+8])
			value = binary.LittleEndian.Uint64(data[i+8 : i+16])
		} else {
			tag = uint64(binary.LittleEndian.Uint32(data[i : i+4]))
			value = uint64(binary.LittleEndian.Uint32(data[i+4 : i+8]))
		}
		if tag == 0 {
			break // AT_NULL terminates the vector
		}
		if tag == atSysinfoEHDR {
			return value != 0, nil
		}
	}
	return false, nil
}
