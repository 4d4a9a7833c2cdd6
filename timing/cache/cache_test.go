package cache_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sjolsen/mipssim/timing/cache"
)

const dataBase = 0x10000000

var _ = Describe("Cache", func() {
	var c *cache.Cache

	BeforeEach(func() {
		c = cache.New()
	})

	It("misses on a cold load and hits on the second access to the same line", func() {
		c.Load(dataBase, 0)
		c.Load(dataBase, 1)

		stats := c.Stats()
		Expect(stats.Loads).To(Equal(uint64(2)))
		Expect(stats.LoadMisses).To(Equal(uint64(1)))
	})

	It("treats addresses in the same block as hits after the first load", func() {
		c.Load(dataBase, 0)
		c.Load(dataBase+4, 1) // same 16-byte block, different word

		stats := c.Stats()
		Expect(stats.LoadMisses).To(Equal(uint64(1)))
	})

	It("misses on a different tag mapping to the same index", func() {
		c.Load(dataBase, 0)
		c.Load(dataBase+512, 1) // index 0, distinct tag

		stats := c.Stats()
		Expect(stats.Loads).To(Equal(uint64(2)))
		Expect(stats.LoadMisses).To(Equal(uint64(2)))
	})

	// S6: a 4-way set of addresses all mapping to index 0, five distinct
	// tags, accessed cyclically, with the pseudo-random replacement
	// policy seeded by the retired-instruction count.
	It("evicts via the count-seeded pseudo-random policy past associativity", func() {
		addrs := []uint32{
			dataBase + 0*512,
			dataBase + 1*512,
			dataBase + 2*512,
			dataBase + 3*512,
			dataBase + 4*512,
		}

		for i, addr := range addrs {
			c.Store(addr, uint64(i))
		}

		stats := c.Stats()
		Expect(stats.Stores).To(Equal(uint64(5)))
		Expect(stats.StoreMisses).To(Equal(uint64(5)))
		// count=4 masked to 2 bits (associativity 4) is 0: evicts the
		// first stored (and dirty) line, producing exactly one write-back.
		Expect(stats.WriteBacks).To(Equal(uint64(1)))
	})

	It("only writes back a victim that was valid and dirty", func() {
		// Fill all four ways with loads (never dirtied).
		for i := 0; i < cache.Associativity; i++ {
			c.Load(dataBase+uint32(i)*512, uint64(i))
		}
		// A fifth access, same index, evicts a clean line: no write-back.
		c.Load(dataBase+4*512, 4)

		Expect(c.Stats().WriteBacks).To(Equal(uint64(0)))
	})

	It("reports zero-valued ratios on an access-free cache rather than NaN", func() {
		stats := c.Stats()
		Expect(stats.LoadHitRatio()).To(Equal(0.0))
		Expect(stats.OverallHitRatio()).To(Equal(0.0))
	})

	It("reports hit ratios as percentages", func() {
		c.Load(dataBase, 0)
		c.Load(dataBase, 1)
		c.Load(dataBase, 2)

		Expect(c.Stats().LoadHitRatio()).To(BeNumerically("~", 200.0/3.0, 0.001))
	})
})
