package jit_test

import (
	"errors"
	"strings"
	"testing"

	"able/vm/pkg/jit"
	"able/vm/pkg/vm"
)

// TestJITMatchesInterpreterOnCountingLoop is spec §8 property 3: for
// any program, running it through the JIT must produce the same final
// register and locals state as running it through vm.Run.
func TestJITMatchesInterpreterOnCountingLoop(t *testing.T) {
	bound := uint64(1_000_000)

	interpState := vm.NewState(8, 1)
	vm.Run(vm.BuildCountingLoopProgram(bound), interpState)

	code, err := jit.Compile(vm.BuildCountingLoopProgram(bound))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	defer code.Close()

	jitState := vm.NewState(8, 1)
	code.Run(jitState)

	if jitState.Locals[0] != interpState.Locals[0] {
		t.Fatalf("locals[0] = %d, interpreter gave %d", jitState.Locals[0], interpState.Locals[0])
	}
	if jitState.Registers[6] != interpState.Registers[6] {
		t.Fatalf("registers[6] = %d, interpreter gave %d", jitState.Registers[6], interpState.Registers[6])
	}
	if interpState.Locals[0] != bound {
		t.Fatalf("sanity check failed: interpreter locals[0] = %d, want %d", interpState.Locals[0], bound)
	}
	if interpState.Registers[6] != 0 {
		t.Fatalf("sanity check failed: interpreter registers[6] = %d, want 0", interpState.Registers[6])
	}
}

// TestJITSmallBound exercises a much smaller iteration count so the
// forward/backward branch displacements stay small, as a contrast
// against the large-bound test's displacements.
func TestJITSmallBound(t *testing.T) {
	for _, bound := range []uint64{0, 1, 2, 7} {
		interpState := vm.NewState(8, 1)
		vm.Run(vm.BuildCountingLoopProgram(bound), interpState)

		code, err := jit.Compile(vm.BuildCountingLoopProgram(bound))
		if err != nil {
			t.Fatalf("bound=%d: Compile: %v", bound, err)
		}
		jitState := vm.NewState(8, 1)
		code.Run(jitState)
		code.Close()

		if jitState.Locals[0] != interpState.Locals[0] {
			t.Fatalf("bound=%d: locals[0] = %d, want %d", bound, jitState.Locals[0], interpState.Locals[0])
		}
	}
}

// TestCompileRejectsMissingTerminatorGracefully checks that a program
// whose exit block is empty (the S5 shape) compiles cleanly via the
// implicit-ret path rather than erroring, matching vm.Run's tolerance
// for the same shape.
func TestCompileRejectsMissingTerminatorGracefully(t *testing.T) {
	p := vm.NewProgram()
	entry := p.MakeBlock()
	exit := p.MakeBlock()
	entry.Append(vm.LoadImmediate(42)).Append(vm.Jump(exit))
	// exit is left empty on purpose.

	code, err := jit.Compile(p)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	defer code.Close()

	st := vm.NewState(1, 0)
	code.Run(st)
	if st.Registers[0] != 42 {
		t.Fatalf("registers[0] = %d, want 42", st.Registers[0])
	}
}

// TestCompileHappyPathSmokeTest checks that a well-formed, single-block
// program compiles and runs without error, returning a *Code the
// caller can Close.
func TestCompileHappyPathSmokeTest(t *testing.T) {
	p := vm.NewProgram()
	b := p.MakeBlock()
	b.Append(vm.Exit())

	code, err := jit.Compile(p)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	code.Close()
}

// TestCompileRejectsUnrecognizedInstruction drives codegen.go's
// emitInstruction default arm directly: a program containing an
// instruction type outside the nine pkg/vm defines must fail to
// compile with a *jit.CompileError, not panic.
func TestCompileRejectsUnrecognizedInstruction(t *testing.T) {
	p := vm.NewProgram()
	b := p.MakeBlock()
	b.Append(vm.NewUnrecognizedInstructionForTesting())
	b.Append(vm.Exit())

	_, err := jit.Compile(p)
	if err == nil {
		t.Fatalf("expected Compile to fail on an unrecognized instruction type")
	}
	var compileErr *jit.CompileError
	if !errors.As(err, &compileErr) {
		t.Fatalf("expected *jit.CompileError, got %T: %v", err, err)
	}
	if !strings.Contains(compileErr.Error(), "unsupported instruction type") {
		t.Fatalf("error = %q, want it to mention an unsupported instruction type", compileErr.Error())
	}
}
