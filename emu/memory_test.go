package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sjolsen/mipssim/emu"
)

var _ = Describe("Memory", func() {
	var mem *emu.Memory

	BeforeEach(func() {
		mem = emu.NewMemory([]uint32{0x11111111, 0x22222222, 0x33333333})
	})

	It("fetches instructions by word index from InstrBase", func() {
		Expect(mem.Fetch(emu.InstrBase)).To(Equal(uint32(0x11111111)))
		Expect(mem.Fetch(emu.InstrBase + 4)).To(Equal(uint32(0x22222222)))
	})

	It("faults fatally on an out-of-range fetch", func() {
		Expect(func() { mem.Fetch(emu.InstrBase + 4096) }).To(PanicWith(BeAssignableToTypeOf(&emu.MemoryFault{})))
	})

	It("round-trips a stored word", func() {
		mem.StoreWord(emu.DataBase+8, 0xCAFEF00D)
		Expect(mem.LoadWord(emu.DataBase + 8)).To(Equal(uint32(0xCAFEF00D)))
	})

	It("faults fatally on an unaligned data access", func() {
		Expect(func() { mem.LoadWord(emu.DataBase + 1) }).To(PanicWith(BeAssignableToTypeOf(&emu.MemoryFault{})))
	})

	It("faults fatally on an out-of-range data access", func() {
		Expect(func() { mem.StoreWord(emu.DataBase+emu.MemSize, 0) }).To(PanicWith(BeAssignableToTypeOf(&emu.MemoryFault{})))
	})
})
