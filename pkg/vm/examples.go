package vm

// BuildCountingLoopProgram assembles the six-block CFG from the
// source material (S5): a loop that increments locals[0] from 0 while
// it is less than bound, using register 7 as loop-condition scratch
// and register 6 as a reporting register that this particular program
// happens to re-zero on every pass through the loop body (block b3's
// LoadImmediate 0 runs before every iteration's Store into register
// 6) — so after the loop runs to completion, registers[6] is 0 and
// locals[0] equals bound. This is not a simplification: it is the
// literal control-flow graph the original hand-built program encodes,
// preserved exactly because spec S5 asserts on both of those final
// values.
func BuildCountingLoopProgram(bound uint64) *Program {
	p := NewProgram()
	b1 := p.MakeBlock()
	b2 := p.MakeBlock()
	b3 := p.MakeBlock()
	b4 := p.MakeBlock()
	b5 := p.MakeBlock()
	b6 := p.MakeBlock()

	b1.Append(Store(5)).
		Append(LoadImmediate(0)).
		Append(SetLocal(0)).
		Append(Load(5)).
		Append(LoadImmediate(0)).
		Append(Store(6)).
		Append(Jump(b4))

	// b2 is intentionally empty: it is the program's implicit exit
	// point. Falling off the end of an empty block halts the
	// interpreter (spec §4.3) without requiring an Exit instruction.

	b3.Append(LoadImmediate(0)).
		Append(Jump(b5))

	b4.Append(GetLocal(0)).
		Append(Store(7)).
		Append(LoadImmediate(bound)).
		Append(LessThan(7)).
		Append(JumpConditional(b3, b6))

	b5.Append(Store(6)).
		Append(GetLocal(0)).
		Append(Increment()).
		Append(SetLocal(0)).
		Append(Jump(b4))

	b6.Append(Load(6)).
		Append(Jump(b2))

	return p
}
