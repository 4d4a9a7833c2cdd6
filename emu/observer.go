package emu

import "github.com/sjolsen/mipssim/insts"

// Stage names one of the nine pipeline stages from spec §4.7. Only ID
// through WB carry meaningful control data; IF1/IF2 exist for numbering
// symmetry with the original source.
type Stage uint8

const (
	StageIF1 Stage = iota
	StageIF2
	StageID
	StageEXE1
	StageEXE2
	StageMEM1
	StageMEM2
	StageMEM3
	StageWB
	NumStages = int(StageWB) + 1
)

// Observer is the capability set an instrumented executor drives at
// well-defined points during each retiring instruction. Each observer
// implements only the hooks it needs by embedding BaseObserver, per the
// "instrumented executor" shape described in the Design Notes: the core
// declares, per opcode, which registers are read/written and in which
// stage, and calls out through these hooks rather than baking any
// observer's bookkeeping into the executor itself.
type Observer interface {
	// OnFetch fires exactly once per retiring instruction, after decode
	// and before any OnRead/OnWrite for it. It gives an observer its
	// per-instruction boundary: the static profiler's ring shift and
	// type/cycle accounting, and the pipeline accountant's stage advance,
	// both happen here.
	OnFetch(inst insts.Instruction)

	// OnRead fires once per declared read operand, in program order,
	// before OnWrite for the same instruction. reg may be RegHILO.
	OnRead(reg uint8, stage Stage)

	// OnWrite fires once per declared write operand. reg may be RegHILO.
	OnWrite(reg uint8, stage Stage)

	// OnBranchTaken fires when a BEQ/BNE's condition holds.
	OnBranchTaken()

	// OnControlFlush fires once per flush slot: twice for J/JAL/JR and
	// for a taken BEQ/BNE, zero times for an untaken branch.
	OnControlFlush()

	// OnLoad/OnStore fire once per LW/SW, after address computation,
	// carrying the retired-instruction count at the time of access (used
	// to drive the cache's deterministic pseudo-random replacement).
	OnLoad(addr uint32, count uint64)
	OnStore(addr uint32, count uint64)

	// OnIndirectJump fires only for JR, before PC is updated.
	OnIndirectJump(instrPC, target uint32)

	// OnLoadAddress fires only for LW, keyed by the load instruction's
	// own PC, for the stride address predictor.
	OnLoadAddress(instrPC, addr uint32)

	// OnLoadedValue fires only for LW, with the word that was loaded.
	OnLoadedValue(value uint32)
}

// BaseObserver supplies no-op implementations of every Observer method.
// Concrete observers embed it and override only the hooks they care
// about.
type BaseObserver struct{}

func (BaseObserver) OnFetch(inst insts.Instruction)        {}
func (BaseObserver) OnRead(reg uint8, stage Stage)         {}
func (BaseObserver) OnWrite(reg uint8, stage Stage)        {}
func (BaseObserver) OnBranchTaken()                        {}
func (BaseObserver) OnControlFlush()                       {}
func (BaseObserver) OnLoad(addr uint32, count uint64)      {}
func (BaseObserver) OnStore(addr uint32, count uint64)     {}
func (BaseObserver) OnIndirectJump(instrPC, target uint32) {}
func (BaseObserver) OnLoadAddress(instrPC, addr uint32)    {}
func (BaseObserver) OnLoadedValue(value uint32)            {}
