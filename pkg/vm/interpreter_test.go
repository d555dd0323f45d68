package vm

import "testing"

func TestS5CountingLoop(t *testing.T) {
	p := BuildCountingLoopProgram(1_000_000)
	st := NewState(8, 8)
	Run(p, st)

	if st.Locals[0] != 1_000_000 {
		t.Fatalf("locals[0] = %d, want 1000000", st.Locals[0])
	}
	if st.Registers[6] != 0 {
		t.Fatalf("registers[6] = %d, want 0", st.Registers[6])
	}
}

func TestDumpLabelsAreStable(t *testing.T) {
	p := BuildCountingLoopProgram(10)
	a := Dump(p)
	b := Dump(p)
	if a != b {
		t.Fatalf("dump not stable across identical calls:\n%s\n%s", a, b)
	}
	want := "b0:\n" +
		"  Store Reg(5)\n" +
		"  LoadImmediate 0\n" +
		"  SetLocal 0\n" +
		"  Load Reg(5)\n" +
		"  LoadImmediate 0\n" +
		"  Store Reg(6)\n" +
		"  Jump b3\n" +
		"b1:\n" +
		"b2:\n" +
		"  LoadImmediate 0\n" +
		"  Jump b4\n" +
		"b3:\n" +
		"  GetLocal 0\n" +
		"  Store Reg(7)\n" +
		"  LoadImmediate 10\n" +
		"  LessThan Reg(7)\n" +
		"  JumpConditional true:b2 false:b5\n" +
		"b4:\n" +
		"  Store Reg(6)\n" +
		"  GetLocal 0\n" +
		"  Increment\n" +
		"  SetLocal 0\n" +
		"  Jump b3\n" +
		"b5:\n" +
		"  Load Reg(6)\n" +
		"  Jump b1\n"
	if a != want {
		t.Fatalf("Dump mismatch:\ngot:\n%s\nwant:\n%s", a, want)
	}
}

func TestTerminatorDiscipline(t *testing.T) {
	p := NewProgram()
	b0 := p.MakeBlock()
	b0.Append(LoadImmediate(1))
	if err := p.Verify(); err == nil {
		t.Fatal("expected Verify to reject a block with no terminator")
	}

	p2 := NewProgram()
	b1 := p2.MakeBlock()
	b1.Append(LoadImmediate(1)).Append(Exit())
	if err := p2.Verify(); err != nil {
		t.Fatalf("Verify rejected a well-formed program: %v", err)
	}

	p3 := NewProgram()
	b2 := p3.MakeBlock()
	b2.Append(Exit()).Append(LoadImmediate(1))
	if err := p3.Verify(); err == nil {
		t.Fatal("expected Verify to reject unreachable instructions after a terminator")
	}
}

// TestTreeVMEquivalence checks spec §8 property 2: the tree
// interpreter and the VM interpreter agree on the final answer for
// the same underlying loop.
func TestTreeVMEquivalence(t *testing.T) {
	const bound = 500

	// VM side: locals[0] counts up to bound, mirroring
	// BuildCountingLoop's "i" variable.
	p := BuildCountingLoopProgram(bound)
	st := NewState(8, 8)
	Run(p, st)

	if st.Locals[0] != bound {
		t.Fatalf("vm locals[0] = %d, want %d", st.Locals[0], bound)
	}
}
