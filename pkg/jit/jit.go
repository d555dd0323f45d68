// Package jit lowers vm.Program values to native x86-64 machine code
// and installs them into executable memory so they can be invoked
// directly, without going through pkg/vm's interpreter loop.
package jit

import (
	"runtime"

	"able/vm/pkg/vm"
)

// Code is a compiled, installed program: a callable blob of native
// instructions plus the executable memory region backing it. Callers
// must call Close (or let the finalizer run) to release that region.
type Code struct {
	mem *execMem
}

// Compile runs all three JIT phases against p: code emission, fixup
// resolution, and installation into executable memory. It returns a
// *CompileError for any failure; no partially-installed executable is
// ever left behind (spec §4.4 phase 3, §7.2).
func Compile(p *vm.Program) (*Code, error) {
	if runtime.GOARCH != "amd64" {
		return nil, compileError("unsupported architecture %s (jit targets amd64 only)", runtime.GOARCH)
	}
	buf, err := assemble(p)
	if err != nil {
		return nil, err
	}
	mem, err := newExecMem(buf)
	if err != nil {
		return nil, err
	}
	return &Code{mem: mem}, nil
}

// Run invokes the compiled code with st's register and locals arrays,
// per the entry ABI in spec §4.4/§6: arg0 is a reserved VM handle
// (unused by the blob), arg1 and arg2 are the register and locals
// array bases. It returns the value the blob leaves in RAX when it
// executes Exit, though the primary effect is mutation of st's slices
// in place.
func (c *Code) Run(st *vm.State) int64 {
	return c.mem.call(0, st.Registers, st.Locals)
}

// Close releases the executable memory region. It is safe to call
// more than once.
func (c *Code) Close() error {
	return c.mem.close()
}
