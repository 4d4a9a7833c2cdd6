package predict

import "github.com/sjolsen/mipssim/emu"

const lapSize = 16

// LAPStats is a snapshot of the stride load-address predictor's
// accumulated counters.
type LAPStats struct {
	Accesses uint64
	Hits     uint64
}

// HitRatio returns the hit percentage, or 0 if the table was never
// consulted.
func (s LAPStats) HitRatio() float64 {
	if s.Accesses == 0 {
		return 0
	}
	return 100.0 * float64(s.Hits) / float64(s.Accesses)
}

type lapEntry struct {
	last       uint32
	secondLast uint32
}

// LoadAddressPredictor is a 16-entry stride predictor, consulted only on
// LW: each table slot extrapolates its next address from the stride
// between its last two observed addresses.
type LoadAddressPredictor struct {
	emu.BaseObserver

	table [lapSize]lapEntry
	stats LAPStats
}

// NewLoadAddressPredictor creates an empty predictor.
func NewLoadAddressPredictor() *LoadAddressPredictor {
	return &LoadAddressPredictor{}
}

func lapIndex(instrPC uint32) uint32 {
	return (instrPC >> 2) % lapSize
}

// OnLoadAddress consults and updates the table for an LW at instrPC
// whose computed address is addr.
func (l *LoadAddressPredictor) OnLoadAddress(instrPC, addr uint32) {
	e := &l.table[lapIndex(instrPC)]
	predicted := e.last + (e.last - e.secondLast)
	l.stats.Accesses++
	if predicted == addr {
		l.stats.Hits++
	}
	e.secondLast = e.last
	e.last = addr
}

// Stats returns a snapshot of the accumulated counters.
func (l *LoadAddressPredictor) Stats() LAPStats {
	return l.stats
}
