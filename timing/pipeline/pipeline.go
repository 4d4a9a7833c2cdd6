// Package pipeline implements the pipelined-cycle accountant observer: a
// nine-stage shadow pipeline that tracks register producer/consumer
// dependencies and stalls (bubbles) and discards (flushes) without ever
// touching architectural state.
package pipeline

import (
	"github.com/sjolsen/mipssim/emu"
	"github.com/sjolsen/mipssim/insts"
)

const stages = emu.NumStages

// Stats is a snapshot of the accountant's accumulated counters. Cycles
// includes the pipeline-fill advances taken at construction and every
// bubble/flush advance, matching the original's running total.
type Stats struct {
	Cycles  uint64
	Bubbles uint64
	Flushes uint64
}

// Accountant is the pipeline accountant observer. destReg/resultStage
// shadow the nine pipeline stages: destReg[s] names the architectural
// register the instruction currently in stage s will write, and
// resultStage[s] names the stage at which that value first becomes
// forwardable. Both arrays are shifted one position toward WB on every
// advance; only OnWrite ever sets an entry, always at StageID, so an
// untouched slot keeps reporting register 0 (never a hazard) as it ages
// out.
type Accountant struct {
	emu.BaseObserver

	destReg     [stages]uint8
	resultStage [stages]emu.Stage
	stats       Stats
}

// New creates an Accountant and fills the empty pipeline with
// stages-1 advances, so Stats().Cycles accounts for drain time from the
// very first retired instruction.
func New() *Accountant {
	a := &Accountant{}
	for i := 0; i < stages-1; i++ {
		a.advance()
	}
	return a
}

func (a *Accountant) advance() {
	copy(a.destReg[1:], a.destReg[:stages-1])
	copy(a.resultStage[1:], a.resultStage[:stages-1])
	a.stats.Cycles++
}

func (a *Accountant) bubble() {
	a.advance()
	a.stats.Bubbles++
}

func (a *Accountant) flush() {
	a.advance()
	a.stats.Flushes++
}

// OnFetch advances the pipeline once per retiring instruction.
func (a *Accountant) OnFetch(inst insts.Instruction) {
	a.advance()
}

// OnRead resolves a data hazard against the nearest prior writer of reg,
// scanning StageID+1..WB, and inserts bubbles until the value is
// forwardable to the declared consume stage. A read of register 0 is
// always free.
func (a *Accountant) OnRead(reg uint8, stage emu.Stage) {
	if reg == 0 {
		return
	}
	for writer := emu.StageID + 1; int(writer) < stages; writer++ {
		if a.destReg[writer] == reg {
			available := int(a.resultStage[writer]) - int(writer)
			needed := int(stage) - int(emu.StageID)
			for available > needed {
				a.bubble()
				available--
			}
			break
		}
	}
}

// OnWrite declares that the instruction now occupying StageID will make
// reg forwardable starting at stage.
func (a *Accountant) OnWrite(reg uint8, stage emu.Stage) {
	a.destReg[emu.StageID] = reg
	a.resultStage[emu.StageID] = stage
}

// OnControlFlush discards one speculative pipeline slot.
func (a *Accountant) OnControlFlush() {
	a.flush()
}

// Stats returns a snapshot of the accumulated counters.
func (a *Accountant) Stats() Stats {
	return a.stats
}
