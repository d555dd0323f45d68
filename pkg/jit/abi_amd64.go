//go:build amd64 && unix

package jit

import (
	"runtime"
	"unsafe"
)

// callNative is implemented in call_amd64.s. It loads vmHandle,
// regsPtr, and localsPtr into the platform's first three integer
// argument registers (RDI, RSI, RDX) and calls through codePtr, per
// the entry ABI in spec §4.4/§6.
func callNative(codePtr, vmHandle, regsPtr, localsPtr uintptr) int64

// call invokes the installed code with vmHandle reserved for future
// use (spec §6: "opaque VM handle, unused by the blob but reserved")
// and regs/locals backing the VM's register and locals arrays.
func (m *execMem) call(vmHandle uintptr, regs, locals []uint64) int64 {
	var regsPtr, localsPtr uintptr
	if len(regs) > 0 {
		regsPtr = uintptr(unsafe.Pointer(&regs[0]))
	}
	if len(locals) > 0 {
		localsPtr = uintptr(unsafe.Pointer(&locals[0]))
	}
	codePtr := uintptr(unsafe.Pointer(&m.region[0]))
	result := callNative(codePtr, vmHandle, regsPtr, localsPtr)
	// regsPtr, localsPtr, and codePtr are bare uintptrs with no
	// unsafe.Pointer keeping their backing arrays reachable across the
	// call into assembly. Without these, the compiler's liveness
	// analysis could treat regs, locals, and m as dead right after the
	// last Go-visible use of each, letting a GC cycle during the native
	// call collect or move the array storage or the executable page
	// call_amd64.s is still running against.
	runtime.KeepAlive(regs)
	runtime.KeepAlive(locals)
	runtime.KeepAlive(m)
	return result
}
