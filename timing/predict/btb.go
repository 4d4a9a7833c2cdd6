// Package predict implements the three independent branch/load predictor
// observers: a direct-mapped branch target buffer, a stride load-address
// predictor, and a load-value frequency histogram.
package predict

import "github.com/sjolsen/mipssim/emu"

const btbSize = 16

// BTBStats is a snapshot of the branch target buffer's accumulated
// counters.
type BTBStats struct {
	Accesses uint64
	Hits     uint64
}

// HitRatio returns the hit percentage, or 0 if the table was never
// consulted.
func (s BTBStats) HitRatio() float64 {
	if s.Accesses == 0 {
		return 0
	}
	return 100.0 * float64(s.Hits) / float64(s.Accesses)
}

// BTB is a direct-mapped branch target buffer, consulted only on JR: it
// predicts the indirect jump's target will match whatever target the same
// table slot last recorded, then always overwrites the slot.
type BTB struct {
	emu.BaseObserver

	table [btbSize]uint32
	stats BTBStats
}

// NewBTB creates an empty BTB.
func NewBTB() *BTB {
	return &BTB{}
}

func btbIndex(instrPC uint32) uint32 {
	return (instrPC >> 2) % btbSize
}

// OnIndirectJump consults and updates the table for a JR at instrPC
// targeting target.
func (b *BTB) OnIndirectJump(instrPC, target uint32) {
	idx := btbIndex(instrPC)
	b.stats.Accesses++
	if b.table[idx] == target {
		b.stats.Hits++
	}
	b.table[idx] = target
}

// Stats returns a snapshot of the accumulated counters.
func (b *BTB) Stats() BTBStats {
	return b.stats
}
