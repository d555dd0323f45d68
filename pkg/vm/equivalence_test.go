package vm_test

import (
	"testing"

	"able/vm/pkg/ast"
	"able/vm/pkg/vm"
)

// TestTreeAndVMAgreeOnCountingLoop is spec §8 property 2, exercised
// end to end: an AST program and a hand-built VM program that encode
// the same counting loop must agree on the final answer they leave in
// their respective "i" slot (the flat environment binding on the tree
// side, locals[0] on the VM side).
func TestTreeAndVMAgreeOnCountingLoop(t *testing.T) {
	const bound = 777

	_, env := ast.Evaluate(ast.BuildCountingLoop(bound))
	treeFinal := env.Get("i")

	program := vm.BuildCountingLoopProgram(bound)
	st := vm.NewState(8, 8)
	vm.Run(program, st)
	vmFinal := st.Locals[0]

	if treeFinal != vmFinal {
		t.Fatalf("tree interpreter and VM interpreter disagree: tree i=%d, vm locals[0]=%d", treeFinal, vmFinal)
	}
	if treeFinal != bound {
		t.Fatalf("final counter = %d, want %d", treeFinal, bound)
	}
}
