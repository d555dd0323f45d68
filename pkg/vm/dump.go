package vm

import (
	"fmt"
	"strings"
)

// blockIndex maps block identity to its position in program order, so
// Dump can print a stable identifier instead of a raw, non-reproducible
// pointer address (spec §6 leaves the exact identifier spelling to the
// implementation; see DESIGN.md).
func blockIndex(p *Program) map[*BasicBlock]int {
	idx := make(map[*BasicBlock]int, len(p.Blocks))
	for i, b := range p.Blocks {
		idx[b] = i
	}
	return idx
}

func blockLabel(idx map[*BasicBlock]int, b *BasicBlock) string {
	if i, ok := idx[b]; ok {
		return fmt.Sprintf("b%d", i)
	}
	return "b?"
}

// Dump renders p as each block's label followed by its instructions,
// indented on subsequent lines, per spec §6.
func Dump(p *Program) string {
	idx := blockIndex(p)
	var b strings.Builder
	for i, block := range p.Blocks {
		fmt.Fprintf(&b, "b%d:\n", i)
		for _, inst := range block.Instructions {
			b.WriteString("  ")
			b.WriteString(dumpInstruction(idx, inst))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func dumpInstruction(idx map[*BasicBlock]int, inst Instruction) string {
	switch v := inst.(type) {
	case *LoadImmediateInst:
		return fmt.Sprintf("LoadImmediate %d", v.Value)
	case *LoadInst:
		return fmt.Sprintf("Load Reg(%d)", v.Reg)
	case *StoreInst:
		return fmt.Sprintf("Store Reg(%d)", v.Reg)
	case *GetLocalInst:
		return fmt.Sprintf("GetLocal %d", v.Local)
	case *SetLocalInst:
		return fmt.Sprintf("SetLocal %d", v.Local)
	case *IncrementInst:
		return "Increment"
	case *LessThanInst:
		return fmt.Sprintf("LessThan Reg(%d)", v.Reg)
	case *JumpInst:
		return fmt.Sprintf("Jump %s", blockLabel(idx, v.Target))
	case *JumpConditionalInst:
		return fmt.Sprintf("JumpConditional true:%s false:%s", blockLabel(idx, v.True), blockLabel(idx, v.False))
	case *ExitInst:
		return "Exit"
	default:
		panic(fmt.Sprintf("vm: Dump: unhandled instruction type %T", inst))
	}
}
