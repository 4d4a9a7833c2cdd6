package predict_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sjolsen/mipssim/timing/predict"
)

var _ = Describe("BTB", func() {
	It("misses on a cold entry and hits on a repeated target", func() {
		b := predict.NewBTB()
		const instrPC = 0x00400000
		const target = 0x00401000

		b.OnIndirectJump(instrPC, target)
		Expect(b.Stats().Hits).To(Equal(uint64(0)))

		b.OnIndirectJump(instrPC, target)
		stats := b.Stats()
		Expect(stats.Accesses).To(Equal(uint64(2)))
		Expect(stats.Hits).To(Equal(uint64(1)))
	})

	It("misses when a stable target changes", func() {
		b := predict.NewBTB()
		const instrPC = 0x00400000

		b.OnIndirectJump(instrPC, 0x00401000)
		b.OnIndirectJump(instrPC, 0x00402000)

		Expect(b.Stats().Hits).To(Equal(uint64(0)))
	})
})

var _ = Describe("LoadAddressPredictor", func() {
	It("locks onto a constant stride quickly", func() {
		l := predict.NewLoadAddressPredictor()
		const instrPC = 0x00400000
		const stride = 4

		for i := uint32(0); i < 3; i++ {
			l.OnLoadAddress(instrPC, i*stride)
		}

		stats := l.Stats()
		Expect(stats.Accesses).To(Equal(uint64(3)))
		Expect(float64(stats.Hits) / float64(stats.Accesses)).To(BeNumerically(">=", 0.5))
	})

	It("reaches a high hit ratio over a long constant stride", func() {
		l := predict.NewLoadAddressPredictor()
		const instrPC = 0x00400000
		const stride = 4

		for i := uint32(0); i < 1000; i++ {
			l.OnLoadAddress(instrPC, i*stride)
		}

		Expect(l.Stats().HitRatio()).To(BeNumerically(">=", 99.0))
	})

	It("tracks each table slot independently by instruction address", func() {
		l := predict.NewLoadAddressPredictor()

		for i := uint32(0); i < 4; i++ {
			l.OnLoadAddress(0x00400000, i*4)
			l.OnLoadAddress(0x00400004, 0x20000000) // constant address, different slot
		}

		// The second slot's address never moves, so its own stride
		// prediction (delta 0) hits from the third access on: 2 hits. The
		// first slot (addresses 0, 4, 8, 12) hits on accesses 1, 3 and 4: 3 hits.
		Expect(l.Stats().Accesses).To(Equal(uint64(8)))
		Expect(l.Stats().Hits).To(Equal(uint64(5)))
	})
})

var _ = Describe("LoadValueHistogram", func() {
	It("bumps an existing value instead of duplicating it", func() {
		h := predict.NewLoadValueHistogram()
		h.OnLoadedValue(42)
		h.OnLoadedValue(7)
		h.OnLoadedValue(42)

		Expect(h.UniqueCount()).To(Equal(2))
		top := h.Top(10)
		Expect(top[0]).To(Equal(predict.TopValue{Value: 42, Count: 2}))
	})

	It("ranks by descending frequency", func() {
		h := predict.NewLoadValueHistogram()
		for i := 0; i < 5; i++ {
			h.OnLoadedValue(1)
		}
		for i := 0; i < 2; i++ {
			h.OnLoadedValue(2)
		}
		h.OnLoadedValue(3)

		top := h.Top(2)
		Expect(top).To(Equal([]predict.TopValue{
			{Value: 1, Count: 5},
			{Value: 2, Count: 2},
		}))
	})

	It("panics with OverflowFault once capacity is exhausted", func() {
		h := predict.NewLoadValueHistogram()
		for i := uint32(0); i < 5200; i++ {
			h.OnLoadedValue(i)
		}
		Expect(h.UniqueCount()).To(Equal(5200))

		Expect(func() { h.OnLoadedValue(5200) }).
			To(PanicWith(BeAssignableToTypeOf(predict.OverflowFault{})))
	})
})
