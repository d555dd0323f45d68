//go:build unix

package jit

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

// execMem is a page-aligned, mmap-backed region holding installed
// native code. It is allocated read/write, populated, then flipped to
// read/execute — never both at once, so the region is never
// simultaneously writable and executable on systems that enforce W^X
// (spec §9).
type execMem struct {
	region []byte
}

// newExecMem allocates a region at least len(code) bytes long,
// copies code into it, and transitions it to read+execute. The
// region is released unconditionally if any step after allocation
// fails, so no leaked mapping survives a failed compile (spec §5).
func newExecMem(code []byte) (m *execMem, err error) {
	if len(code) == 0 {
		return nil, compileError("empty code buffer")
	}
	region, mmapErr := unix.Mmap(-1, 0, len(code), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if mmapErr != nil {
		return nil, compileError("mmap failed: %v", mmapErr)
	}
	defer func() {
		if err != nil {
			_ = unix.Munmap(region)
		}
	}()

	copy(region, code)

	if protErr := unix.Mprotect(region, unix.PROT_READ|unix.PROT_EXEC); protErr != nil {
		return nil, compileError("mprotect(RX) failed: %v", protErr)
	}

	m = &execMem{region: region}
	runtime.SetFinalizer(m, func(m *execMem) { _ = m.close() })
	return m, nil
}

func (m *execMem) close() error {
	if m == nil || m.region == nil {
		return nil
	}
	region := m.region
	m.region = nil
	runtime.SetFinalizer(m, nil)
	if err := unix.Munmap(region); err != nil {
		return fmt.Errorf("jit: munmap failed: %w", err)
	}
	return nil
}
