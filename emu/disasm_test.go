package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sjolsen/mipssim/emu"
)

var _ = Describe("Disassemble", func() {
	It("renders an R-type instruction with register names", func() {
		// addu $t2, $t0, $t1
		word := uint32(8)<<21 | uint32(9)<<16 | uint32(10)<<11 | 0x21
		Expect(emu.Disassemble(0x00400000, word)).To(Equal("  400000: addu $t2, $t0, $t1"))
	})

	It("renders ADDIU's immediate signed", func() {
		// addiu $t1, $t0, -1
		word := uint32(0x09)<<26 | uint32(8)<<21 | uint32(9)<<16 | 0xFFFF
		Expect(emu.Disassemble(0x00400004, word)).To(Equal("  400004: addiu $t1, $t0, -1"))
	})

	It("renders a branch target as absolute hex", func() {
		// beq $t0, $t1, +2
		word := uint32(0x04)<<26 | uint32(8)<<21 | uint32(9)<<16 | 0x0002
		Expect(emu.Disassemble(0x00400000, word)).To(Equal("  400000: beq $t0, $t1, 40000c"))
	})

	It("renders unimplemented encodings as \"unimplemented\"", func() {
		word := uint32(0x3F) << 26
		Expect(emu.Disassemble(0x00400000, word)).To(Equal("  400000: unimplemented"))
	})
})
