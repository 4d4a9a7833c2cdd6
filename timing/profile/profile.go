// Package profile implements the static instruction-mix and cycle
// profiler observer: a per-opcode cycle-cost table, an instruction-type
// census, a $zero-read counter, and a producer-consumer distance
// histogram.
package profile

import (
	"github.com/sjolsen/mipssim/emu"
	"github.com/sjolsen/mipssim/insts"
)

// staticCycles gives the base cycle cost §4.6 assigns to each opcode,
// independent of any taken-branch penalty (applied separately via
// OnBranchTaken).
var staticCycles = map[insts.Op]uint64{
	insts.OpSLL:   2,
	insts.OpSRA:   2,
	insts.OpJR:    2,
	insts.OpMFHI:  3,
	insts.OpMFLO:  3,
	insts.OpMULT:  32,
	insts.OpDIV:   32,
	insts.OpADDU:  1,
	insts.OpSUBU:  1,
	insts.OpSLT:   1,
	insts.OpJ:     2,
	insts.OpJAL:   2,
	insts.OpBEQ:   1,
	insts.OpBNE:   1,
	insts.OpADDIU: 1,
	insts.OpANDI:  1,
	insts.OpLUI:   1,
	insts.OpTRAP:  3,
	insts.OpLW:    8,
	insts.OpSW:    8,
}

const takenBranchPenalty = 2

// ringNone marks an empty ring slot: no register index (0..31) or HILO
// (33) can ever collide with it.
const ringNone = 255

// Stats is a snapshot of the profiler's accumulated counters.
type Stats struct {
	Cycles uint64

	ClassR uint64
	ClassI uint64
	ClassJ uint64

	ZeroReads uint64

	// OneAgo/TwoAgo/ThreeAgo count reads satisfied by the write one, two,
	// or three instructions prior, per the producer-consumer distance
	// histogram.
	OneAgo   uint64
	TwoAgo   uint64
	ThreeAgo uint64
}

// Profiler is the static profiler observer. It embeds emu.BaseObserver
// and overrides OnFetch, OnRead, OnWrite, and OnBranchTaken — the only
// hooks the static model needs.
type Profiler struct {
	emu.BaseObserver

	stats Stats
	ring  [4]uint8 // W[0..3], most recent write first
}

// New creates a Profiler with an empty producer-consumer ring.
func New() *Profiler {
	p := &Profiler{}
	for i := range p.ring {
		p.ring[i] = ringNone
	}
	return p
}

// OnFetch shifts the producer-consumer ring and accounts for the
// instruction's static cycle cost and type classification.
func (p *Profiler) OnFetch(inst insts.Instruction) {
	p.ring[3] = p.ring[2]
	p.ring[2] = p.ring[1]
	p.ring[1] = p.ring[0]
	p.ring[0] = ringNone

	p.stats.Cycles += staticCycles[inst.Op]

	switch inst.Class() {
	case insts.ClassR:
		p.stats.ClassR++
	case insts.ClassI:
		p.stats.ClassI++
	case insts.ClassJ:
		p.stats.ClassJ++
	}
}

// OnRead bumps the $zero-read counter or the first matching ring slot, in
// W[1], W[2], W[3] order — ties go to the most recent writer.
func (p *Profiler) OnRead(reg uint8, stage emu.Stage) {
	if reg == 0 {
		p.stats.ZeroReads++
		return
	}

	switch reg {
	case p.ring[1]:
		p.stats.OneAgo++
	case p.ring[2]:
		p.stats.TwoAgo++
	case p.ring[3]:
		p.stats.ThreeAgo++
	}
}

// OnWrite records reg as the most recent writer.
func (p *Profiler) OnWrite(reg uint8, stage emu.Stage) {
	p.ring[0] = reg
}

// OnBranchTaken applies the +2 static-cycle penalty for a taken BEQ/BNE.
func (p *Profiler) OnBranchTaken() {
	p.stats.Cycles += takenBranchPenalty
}

// Stats returns a snapshot of the accumulated counters.
func (p *Profiler) Stats() Stats {
	return p.stats
}
