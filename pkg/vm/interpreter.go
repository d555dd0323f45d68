package vm

// State is the VM's mutable register and locals storage. Sizes are
// fixed at construction and must be large enough for any index the
// program references; there is no bounds checking once the JIT path
// is entered, so the interpreter intentionally applies the same
// contract (spec §3).
type State struct {
	Registers []uint64
	Locals    []uint64
}

// NewState allocates a State with the given register-file and
// locals-file sizes.
func NewState(numRegisters, numLocals int) *State {
	return &State{
		Registers: make([]uint64, numRegisters),
		Locals:    make([]uint64, numLocals),
	}
}

// Run walks p's blocks starting at the entry block, mutating st in
// place, per spec §4.3. It is not re-entrant: concurrent calls against
// the same State race on the same slices.
func Run(p *Program, st *State) {
	current := p.Entry()
	if current == nil {
		return
	}
	index := 0
	for {
		if index >= len(current.Instructions) {
			// Tolerated but not relied upon: a block with no
			// terminator simply halts (spec §4.3).
			return
		}
		inst := current.Instructions[index]
		switch v := inst.(type) {
		case *LoadImmediateInst:
			st.Registers[Accumulator] = v.Value
		case *LoadInst:
			st.Registers[Accumulator] = st.Registers[v.Reg]
		case *StoreInst:
			st.Registers[v.Reg] = st.Registers[Accumulator]
		case *GetLocalInst:
			st.Registers[Accumulator] = st.Locals[v.Local]
		case *SetLocalInst:
			st.Locals[v.Local] = st.Registers[Accumulator]
		case *IncrementInst:
			st.Registers[Accumulator]++
		case *LessThanInst:
			if st.Registers[v.Reg] < st.Registers[Accumulator] {
				st.Registers[Accumulator] = 1
			} else {
				st.Registers[Accumulator] = 0
			}
		case *JumpInst:
			current = v.Target
			index = 0
			continue
		case *JumpConditionalInst:
			if st.Registers[Accumulator] != 0 {
				current = v.True
			} else {
				current = v.False
			}
			index = 0
			continue
		case *ExitInst:
			return
		default:
			panic("vm: Run: unhandled instruction type")
		}
		index++
	}
}
