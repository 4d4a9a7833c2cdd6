package emu

// RegHILO is the pseudo-register index used in observer tables to track
// dependencies on the paired HI/LO multiply/divide result registers,
// distinct from any of the 32 real architectural registers (0..31) and
// from the unused index 32, per the Design Notes.
const RegHILO = 33

// RegFile holds the 32 general-purpose registers, the PC, and the HI/LO
// multiply/divide result registers.
type RegFile struct {
	Regs [32]uint32
	PC   uint32
	Hi   uint32
	Lo   uint32
}

// NewRegFile creates a register file with $gp and $sp initialized per
// spec §3, and HI/LO set to the deterministic uninitialized sentinel
// 0xDEADBEEF (the value Project6/predict.c starts them at).
func NewRegFile(entry uint32) *RegFile {
	r := &RegFile{
		PC: entry,
		Hi: 0xDEADBEEF,
		Lo: 0xDEADBEEF,
	}
	r.Regs[28] = 0x10008000
	r.Regs[29] = DataBase + MemSize
	return r
}

// Read returns the value of register reg. It does not special-case
// register 0 — the zero-read invariant is maintained by ZeroReg0, called
// once per fetch, matching the original `reg[0] = 0;` at the top of the
// interpreter loop.
func (r *RegFile) Read(reg uint8) uint32 {
	return r.Regs[reg]
}

// Write stores value into register reg. Like the original C, this does
// not block writes to register 0 — ADDIU $zero, $zero, 5 really does
// write 5 into the slot; ZeroReg0 is what makes subsequent reads see 0
// again.
func (r *RegFile) Write(reg uint8, value uint32) {
	r.Regs[reg] = value
}

// ZeroReg0 re-establishes the invariant that register 0 reads as zero.
// Called once at the start of every fetch.
func (r *RegFile) ZeroReg0() {
	r.Regs[0] = 0
}
