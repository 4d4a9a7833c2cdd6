package profile_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sjolsen/mipssim/emu"
	"github.com/sjolsen/mipssim/insts"
	"github.com/sjolsen/mipssim/timing/profile"
)

var _ = Describe("Profiler", func() {
	var p *profile.Profiler

	BeforeEach(func() {
		p = profile.New()
	})

	It("accumulates static cycles and a taken-branch penalty", func() {
		p.OnFetch(insts.Instruction{Op: insts.OpADDU})
		p.OnFetch(insts.Instruction{Op: insts.OpBNE})
		p.OnBranchTaken()

		Expect(p.Stats().Cycles).To(Equal(uint64(1 + 1 + 2)))
	})

	It("tallies instruction-type classes", func() {
		p.OnFetch(insts.Instruction{Op: insts.OpADDU, Opcode: 0x00})
		p.OnFetch(insts.Instruction{Op: insts.OpADDIU, Opcode: 0x09})
		p.OnFetch(insts.Instruction{Op: insts.OpJ, Opcode: 0x02})

		stats := p.Stats()
		Expect(stats.ClassR).To(Equal(uint64(1)))
		Expect(stats.ClassI).To(Equal(uint64(1)))
		Expect(stats.ClassJ).To(Equal(uint64(1)))
	})

	It("counts reads of $zero separately from the distance histogram", func() {
		p.OnFetch(insts.Instruction{})
		p.OnRead(0, emu.StageEXE1)
		p.OnRead(0, emu.StageEXE1)

		stats := p.Stats()
		Expect(stats.ZeroReads).To(Equal(uint64(2)))
		Expect(stats.OneAgo + stats.TwoAgo + stats.ThreeAgo).To(Equal(uint64(0)))
	})

	It("classifies a read's distance from its producing write", func() {
		p.OnFetch(insts.Instruction{})
		p.OnWrite(5, emu.StageMEM1)

		p.OnFetch(insts.Instruction{})
		p.OnRead(5, emu.StageEXE1) // one instruction ago

		p.OnFetch(insts.Instruction{})
		p.OnRead(5, emu.StageEXE1) // two instructions ago

		p.OnFetch(insts.Instruction{})
		p.OnRead(5, emu.StageEXE1) // three instructions ago

		p.OnFetch(insts.Instruction{})
		p.OnRead(5, emu.StageEXE1) // aged out of the 4-slot ring: uncounted

		stats := p.Stats()
		Expect(stats.OneAgo).To(Equal(uint64(1)))
		Expect(stats.TwoAgo).To(Equal(uint64(1)))
		Expect(stats.ThreeAgo).To(Equal(uint64(1)))
	})

	It("breaks ties toward the most recent writer", func() {
		p.OnFetch(insts.Instruction{})
		p.OnWrite(7, emu.StageMEM1) // ring: [7, _, _, _]

		p.OnFetch(insts.Instruction{}) // ring: [_, 7, _, _]
		p.OnWrite(7, emu.StageMEM1)    // ring: [7, 7, _, _]

		p.OnFetch(insts.Instruction{}) // ring: [_, 7, 7, _]
		p.OnRead(7, emu.StageEXE1)     // matches W[1] first

		Expect(p.Stats().OneAgo).To(Equal(uint64(1)))
		Expect(p.Stats().TwoAgo).To(Equal(uint64(0)))
	})
})
