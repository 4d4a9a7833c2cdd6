// Package cache models the data cache observer: a single-level,
// fixed-geometry, set-associative write-back cache with deterministic
// pseudo-random replacement keyed by the retired-instruction count.
//
// The cache tracks only line metadata (valid/dirty flags and tags), not
// data — the architectural load/store path always goes straight to
// memory regardless of what the cache reports, so there is nothing for
// the cache to actually hold. It exists purely to account for what a
// real cache's hit/miss/write-back behavior would have been.
package cache

import "github.com/sjolsen/mipssim/bits"

// Geometry constants, fixed rather than configurable: the replacement
// policy's determinism depends on exactly this shape.
const (
	Associativity = 4
	BlockSize     = 16 // bytes
	Sets          = 8
	Blocks        = Sets * Associativity
	CacheSize     = Blocks * BlockSize
)

const (
	flagValid = 0b01
	flagDirty = 0b10
)

type line struct {
	flags uint32
	tag   uint32
}

// Stats accumulates the counters the run-end report prints.
type Stats struct {
	Loads       uint64
	LoadMisses  uint64
	Stores      uint64
	StoreMisses uint64
	WriteBacks  uint64
}

// LoadHitRatio, StoreHitRatio, OverallHitRatio, and WriteBacksPerStore
// return the percentages §4.8's report prints, as 0..100 values. They
// return 0 when their denominator is 0 rather than NaN, since a
// load/store-free run still produces a (degenerate) report.
func (s Stats) LoadHitRatio() float64 {
	return ratio(s.Loads-s.LoadMisses, s.Loads)
}

func (s Stats) StoreHitRatio() float64 {
	return ratio(s.Stores-s.StoreMisses, s.Stores)
}

func (s Stats) OverallHitRatio() float64 {
	hits := (s.Loads - s.LoadMisses) + (s.Stores - s.StoreMisses)
	return ratio(hits, s.Loads+s.Stores)
}

func (s Stats) WriteBacksPerStore() float64 {
	return ratio(s.WriteBacks, s.Stores)
}

func ratio(n, d uint64) float64 {
	if d == 0 {
		return 0
	}
	return 100.0 * float64(n) / float64(d)
}

// lineTableSize pads the backing line table so that the source's
// "index_of(A) is a base, scan ASSOCIATIVITY consecutive lines from it"
// addressing (§4.8) never runs off the end of the array: index_of ranges
// over the full [0, Blocks) rather than [0, Sets), so the top few indices
// would otherwise overscan past Blocks-1.
const lineTableSize = Blocks + Associativity - 1

// Cache is the fixed-geometry set-associative write-back cache observer.
// It embeds BaseObserver-free wiring: callers drive it directly from
// emu.Observer's OnLoad/OnStore hooks rather than implementing the
// interface itself, since those hooks alone carry everything it needs.
type Cache struct {
	lines [lineTableSize]line
	stats Stats

	offsetBits uint8
	indexBits  uint8
	randMask   uint32
}

// New creates an empty Cache.
func New() *Cache {
	c := &Cache{}
	c.offsetBits = bits.Log2Ceil(BlockSize)
	c.indexBits = bits.Log2Ceil(Blocks)
	randBits := bits.Log2Ceil(Associativity)
	c.randMask = uint32(1)<<randBits - 1
	return c
}

func (c *Cache) indexOf(addr uint32) uint32 {
	return bits.Range(addr, c.offsetBits, c.offsetBits+c.indexBits)
}

func (c *Cache) tagOf(addr uint32) uint32 {
	return bits.Range(addr, c.offsetBits+c.indexBits, 32)
}

// getBlock reports whether addr is resident, and the absolute line index
// that either already holds it (hit) or should be evicted/allocated into
// (miss). count is the retired-instruction counter at the time of the
// access, consulted only for the pseudo-random fallback.
func (c *Cache) getBlock(addr uint32, count uint64) (hit bool, idx int) {
	base := int(c.indexOf(addr))

	for i := 0; i < Associativity; i++ {
		l := &c.lines[base+i]
		if l.flags&flagValid != 0 && l.tag == c.tagOf(addr) {
			return true, base + i
		}
	}
	for i := 0; i < Associativity; i++ {
		if c.lines[base+i].flags&flagValid == 0 {
			return false, base + i
		}
	}
	return false, base + int(uint32(count)&c.randMask)
}

// prepareBlock handles write-back-on-eviction and write-allocate, and
// reports whether the access was a hit along with the line it now
// occupies.
func (c *Cache) prepareBlock(addr uint32, count uint64) (hit bool, idx int) {
	hit, idx = c.getBlock(addr, count)
	l := &c.lines[idx]

	if !hit {
		if l.flags&flagValid != 0 && l.flags&flagDirty != 0 {
			c.stats.WriteBacks++
		}
		l.flags = flagValid
		l.tag = c.tagOf(addr)
	}

	return hit, idx
}

// Load performs a CLOAD: prepares the block for addr, counting a miss if
// the block was not resident.
func (c *Cache) Load(addr uint32, count uint64) {
	if hit, _ := c.prepareBlock(addr, count); !hit {
		c.stats.LoadMisses++
	}
	c.stats.Loads++
}

// Store performs a CSTORE: prepares the block for addr, counting a miss
// if it was not resident, and marks the line dirty.
func (c *Cache) Store(addr uint32, count uint64) {
	hit, idx := c.prepareBlock(addr, count)
	if !hit {
		c.stats.StoreMisses++
	}
	c.lines[idx].flags |= flagDirty
	c.stats.Stores++
}

// Stats returns a snapshot of the accumulated counters.
func (c *Cache) Stats() Stats {
	return c.stats
}
