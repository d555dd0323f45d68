package jit

import (
	"fmt"

	"able/vm/pkg/vm"
)

// CompileError is returned for any JIT compile-time failure: an
// unsupported instruction, a displacement that doesn't fit in 32
// bits, or (from exec_mem.go) a failure to allocate or protect
// executable memory. The JIT never panics on these — compile failures
// are always reported back to the caller (spec §7.2); only runtime
// precondition violations elsewhere in this module panic.
type CompileError struct {
	Reason string
}

func (e *CompileError) Error() string { return "jit: " + e.Reason }

func compileError(format string, args ...any) *CompileError {
	return &CompileError{Reason: fmt.Sprintf(format, args...)}
}

// assemble runs phase 1 (per-block emission) and phase 2 (fixup
// resolution) and returns the finished, fully-patched machine code
// buffer. Phase 3 (installation into executable memory) lives in
// exec_mem.go, kept separate so this function — and its tests — never
// need to touch the OS.
func assemble(p *vm.Program) ([]byte, error) {
	a := &asm{}

	// Phase 1: walk blocks in program order, recording each block's
	// starting offset as we reach it and emitting its instructions.
	for _, block := range p.Blocks {
		block.Offset = a.len()
		for _, inst := range block.Instructions {
			if err := emitInstruction(a, block, inst); err != nil {
				return nil, err
			}
		}
		if term := block.Terminator(); term == nil || !vm.IsTerminator(term) {
			// Spec §4.3 tolerates a block that falls off its end
			// without a terminator and simply halts. The JIT must
			// halt at the same point for interpreter/JIT parity
			// (spec §8 property 3), so it emits an implicit ret.
			a.ret()
		}
	}

	// Phase 2: every fixup site now has a known target offset.
	for _, block := range p.Blocks {
		for _, site := range block.Fixups {
			if err := patchRel32(a.buf, site, block.Offset); err != nil {
				return nil, compileError("%v", err)
			}
		}
	}

	return a.buf, nil
}

func emitInstruction(a *asm, block *vm.BasicBlock, inst vm.Instruction) error {
	switch v := inst.(type) {
	case *vm.LoadImmediateInst:
		a.movImm64(rax, v.Value)
		if err := a.storeMem(rsi, 0, rax); err != nil {
			return compileError("%v", err)
		}
	case *vm.LoadInst:
		if err := a.loadMem(rax, rsi, 8*int64(v.Reg)); err != nil {
			return compileError("%v", err)
		}
		if err := a.storeMem(rsi, 0, rax); err != nil {
			return compileError("%v", err)
		}
	case *vm.StoreInst:
		if err := a.loadMem(rax, rsi, 0); err != nil {
			return compileError("%v", err)
		}
		if err := a.storeMem(rsi, 8*int64(v.Reg), rax); err != nil {
			return compileError("%v", err)
		}
	case *vm.GetLocalInst:
		if err := a.loadMem(rax, rdx, 8*int64(v.Local)); err != nil {
			return compileError("%v", err)
		}
		if err := a.storeMem(rsi, 0, rax); err != nil {
			return compileError("%v", err)
		}
	case *vm.SetLocalInst:
		if err := a.loadMem(rax, rsi, 0); err != nil {
			return compileError("%v", err)
		}
		if err := a.storeMem(rdx, 8*int64(v.Local), rax); err != nil {
			return compileError("%v", err)
		}
	case *vm.IncrementInst:
		if err := a.loadMem(rax, rsi, 0); err != nil {
			return compileError("%v", err)
		}
		a.inc(rax)
		if err := a.storeMem(rsi, 0, rax); err != nil {
			return compileError("%v", err)
		}
	case *vm.LessThanInst:
		// rax <- registers[reg] (the "other" operand); rcx <-
		// accumulator. cmp rax, rcx computes rax-rcx and setb reads
		// CF, the unsigned "below" flag, so it fires exactly when
		// registers[reg] < accumulator as unsigned 64-bit values —
		// matching the VM interpreter's unsigned LessThan semantics
		// (spec §3 table). setl would compare the operands as signed
		// and disagree with the interpreter whenever either operand's
		// top bit is set.
		if err := a.loadMem(rax, rsi, 8*int64(v.Reg)); err != nil {
			return compileError("%v", err)
		}
		if err := a.loadMem(rcx, rsi, 0); err != nil {
			return compileError("%v", err)
		}
		a.cmpRegReg(rax, rcx)
		a.setbAL()
		a.movzxRaxAL()
		if err := a.storeMem(rsi, 0, rax); err != nil {
			return compileError("%v", err)
		}
	case *vm.JumpInst:
		site := a.jmpRel32Placeholder()
		v.Target.Fixups = append(v.Target.Fixups, site)
	case *vm.JumpConditionalInst:
		if err := a.loadMem(rax, rsi, 0); err != nil {
			return compileError("%v", err)
		}
		a.cmpAccumulatorZero()
		// Jump-if-zero goes to the false arm.
		jzSite := a.jeRel32Placeholder()
		v.False.Fixups = append(v.False.Fixups, jzSite)
		jmpSite := a.jmpRel32Placeholder()
		v.True.Fixups = append(v.True.Fixups, jmpSite)
	case *vm.ExitInst:
		a.ret()
	default:
		return compileError("unsupported instruction type %T", inst)
	}
	return nil
}
