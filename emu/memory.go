// Package emu provides the architectural core: memory, register file,
// disassembler, and instrumented executor for the restricted MIPS-I ISA.
package emu

import "fmt"

// Segment base addresses and sizes, per spec §3.
const (
	InstrBase = 0x00400000
	DataBase  = 0x10000000
	MemSize   = 1048576 // bytes
)

// MemoryFault is a memory-protection error: an out-of-range fetch, an
// out-of-range data access, or a misaligned data access. These are fatal
// and unrecoverable — per spec §7 the process aborts without printing the
// run-end report, so callers should let it propagate as a panic rather
// than fold it into StepResult.
type MemoryFault struct {
	Msg string
}

func (f *MemoryFault) Error() string { return f.Msg }

func faultf(format string, args ...any) {
	panic(&MemoryFault{Msg: fmt.Sprintf(format, args...)})
}

// Memory models the instruction store (read-only, base InstrBase) and the
// fixed MemSize-byte data RAM (base DataBase), addressed in 32-bit words —
// matching the original C's `int mem[MEMSIZE / 4]` array, which makes byte
// order within a word an internal, unobservable detail.
type Memory struct {
	instructions []uint32
	data         []uint32
}

// NewMemory creates a Memory with the given instruction stream already
// loaded and a freshly zeroed data segment.
func NewMemory(instructions []uint32) *Memory {
	return &Memory{
		instructions: instructions,
		data:         make([]uint32, MemSize/4),
	}
}

// InstructionCount returns the number of words in the instruction store.
func (m *Memory) InstructionCount() int {
	return len(m.instructions)
}

// Fetch reads the instruction word at pc. It faults fatally if pc falls
// outside the loaded instruction store.
func (m *Memory) Fetch(pc uint32) uint32 {
	idx := (pc - InstrBase) / 4
	if idx >= uint32(len(m.instructions)) {
		faultf("instruction fetch out of range")
	}
	return m.instructions[idx]
}

// LoadWord reads one word from the data segment. It faults fatally on
// misalignment or an out-of-range address.
func (m *Memory) LoadWord(addr uint32) uint32 {
	m.checkData(addr)
	return m.data[(addr-DataBase)/4]
}

// StoreWord writes one word to the data segment. It faults fatally on
// misalignment or an out-of-range address.
func (m *Memory) StoreWord(addr, value uint32) {
	m.checkData(addr)
	m.data[(addr-DataBase)/4] = value
}

func (m *Memory) checkData(addr uint32) {
	if addr&3 != 0 {
		faultf("unaligned data access")
	}
	if addr-DataBase >= MemSize {
		faultf("data access out of range")
	}
}
