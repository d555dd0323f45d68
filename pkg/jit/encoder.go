package jit

import (
	"encoding/binary"
	"fmt"
	"math"
)

// x86Reg numbers the eight legacy general-purpose registers this
// backend touches. All four are encodable without a REX.R/X/B
// extension bit, so every instruction below only ever needs REX.W.
type x86Reg byte

const (
	rax x86Reg = 0
	rcx x86Reg = 1
	rdx x86Reg = 2
	rsi x86Reg = 6
)

const rexW = 0x48

// asm is a growable byte buffer with little-endian helpers, the same
// role xyproto-vibe67's emitter plays for its codegen: a flat
// []byte that instructions are appended to, with fixup sites recorded
// by byte offset for a later patch pass.
type asm struct {
	buf []byte
}

func (a *asm) emit(bs ...byte) {
	a.buf = append(a.buf, bs...)
}

func (a *asm) len() int { return len(a.buf) }

// movImm64 encodes "mov dst, imm64".
func (a *asm) movImm64(dst x86Reg, imm uint64) {
	a.emit(rexW, 0xB8+byte(dst))
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], imm)
	a.emit(b[:]...)
}

// modrmMem builds the ModRM byte for a [base+disp32] memory operand
// paired with register reg, always using the 32-bit-displacement
// form (mod=10) regardless of whether disp would fit in 8 bits. This
// keeps every load/store the same shape, at the cost of a few
// redundant zero bytes when disp is 0 — the same tradeoff spec.md's
// own examples accept by writing "[rsi + 0]" rather than "[rsi]".
func modrmMem(reg, base x86Reg) byte {
	return 0x80 | (byte(reg)&7)<<3 | (byte(base) & 7)
}

func disp32(disp int64) ([4]byte, error) {
	if disp < math.MinInt32 || disp > math.MaxInt32 {
		return [4]byte{}, fmt.Errorf("jit: displacement %d overflows 32 bits", disp)
	}
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(int32(disp)))
	return b, nil
}

// loadMem encodes "mov dst, [base+disp]" (opcode 0x8B: MOV r64, r/m64).
func (a *asm) loadMem(dst, base x86Reg, disp int64) error {
	d, err := disp32(disp)
	if err != nil {
		return err
	}
	a.emit(rexW, 0x8B, modrmMem(dst, base))
	a.emit(d[:]...)
	return nil
}

// storeMem encodes "mov [base+disp], src" (opcode 0x89: MOV r/m64, r64).
func (a *asm) storeMem(base x86Reg, disp int64, src x86Reg) error {
	d, err := disp32(disp)
	if err != nil {
		return err
	}
	a.emit(rexW, 0x89, modrmMem(src, base))
	a.emit(d[:]...)
	return nil
}

// inc encodes "inc reg" (opcode FF /0: INC r/m64).
func (a *asm) inc(reg x86Reg) {
	a.emit(rexW, 0xFF, 0xC0|byte(reg))
}

// cmpRegReg encodes "cmp a, b", i.e. flags = a - b (opcode 0x39:
// CMP r/m64, r64, with a as the r/m operand and b as the reg operand).
func (a *asm) cmpRegReg(left, right x86Reg) {
	a.emit(rexW, 0x39, 0xC0|(byte(right)&7)<<3|(byte(left)&7))
}

// setbAL encodes "setb al" (opcode 0F 92: SETcc for CF=1, the
// unsigned "below" condition). The VM's registers are unsigned 64-bit
// values (spec §3), so LessThan must test CF, not SF<>OF — setl would
// compare the two operands as signed and disagree with the
// interpreter's unsigned `<` whenever either operand's top bit is set.
func (a *asm) setbAL() {
	a.emit(0x0F, 0x92, 0xC0)
}

// movzxRaxAl encodes "movzx rax, al".
func (a *asm) movzxRaxAL() {
	a.emit(rexW, 0x0F, 0xB6, 0xC0)
}

// ret encodes a bare "ret".
func (a *asm) ret() {
	a.emit(0xC3)
}

// jmpRel32Placeholder emits "jmp rel32" with a zero placeholder
// displacement and returns the byte offset of that 4-byte field, to
// be patched once the target block's offset is known.
func (a *asm) jmpRel32Placeholder() int {
	a.emit(0xE9, 0, 0, 0, 0)
	return a.len() - 4
}

// jeRel32Placeholder emits "je rel32" (opcode 0F 84) with a zero
// placeholder displacement and returns the offset of the 4-byte field.
func (a *asm) jeRel32Placeholder() int {
	a.emit(0x0F, 0x84, 0, 0, 0, 0)
	return a.len() - 4
}

// cmpAccumulatorZero encodes "cmp rax, 0" assuming rax already holds
// the value to compare (opcode 0x83 /7 ib, sign-extended 8-bit
// immediate; 0 always fits).
func (a *asm) cmpAccumulatorZero() {
	a.emit(rexW, 0x83, 0xF8, 0x00)
}

// patchRel32 writes the little-endian signed displacement target-site-4
// into buf[site:site+4], per spec §4.4 phase 2.
func patchRel32(buf []byte, site, target int) error {
	disp := int64(target) - int64(site) - 4
	d, err := disp32(disp)
	if err != nil {
		return fmt.Errorf("jit: %w (site=%d target=%d)", err, site, target)
	}
	copy(buf[site:site+4], d[:])
	return nil
}
