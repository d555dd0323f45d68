package vm

import "fmt"

// Program is an ordered collection of basic blocks. The first block
// is always the entry point (spec §3).
type Program struct {
	Blocks []*BasicBlock
}

// NewProgram returns an empty program.
func NewProgram() *Program {
	return &Program{}
}

// MakeBlock allocates a new basic block, appends it to the program,
// and returns a stable pointer usable as a Jump/JumpConditional
// target. Blocks are stored as a slice of pointers specifically so
// that growing p.Blocks never invalidates a *BasicBlock a caller is
// already holding (spec §9).
func (p *Program) MakeBlock() *BasicBlock {
	b := &BasicBlock{}
	p.Blocks = append(p.Blocks, b)
	return b
}

// Entry returns the program's entry block, or nil if the program has
// no blocks.
func (p *Program) Entry() *BasicBlock {
	if len(p.Blocks) == 0 {
		return nil
	}
	return p.Blocks[0]
}

// TerminatorError reports a block that does not end in a terminator,
// violating the terminator discipline invariant (spec §8 property 4).
type TerminatorError struct {
	BlockIndex int
}

func (e *TerminatorError) Error() string {
	return fmt.Sprintf("vm: block %d does not end in a terminator (Jump, JumpConditional, or Exit)", e.BlockIndex)
}

// Verify checks that every block ends in a terminator and that no
// instruction follows one. Clients are expected to call this before
// running a program through the interpreter or the JIT, matching
// spec §3's "an implementation may assert this before execution."
func (p *Program) Verify() error {
	for i, b := range p.Blocks {
		for j, inst := range b.Instructions {
			isLast := j == len(b.Instructions)-1
			if IsTerminator(inst) && !isLast {
				return fmt.Errorf("vm: block %d has unreachable instructions after its terminator at index %d", i, j)
			}
		}
		if len(b.Instructions) == 0 || !IsTerminator(b.Terminator()) {
			return &TerminatorError{BlockIndex: i}
		}
	}
	return nil
}
