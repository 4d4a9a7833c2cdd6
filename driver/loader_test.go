package driver_test

import (
	"bytes"
	"encoding/binary"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sjolsen/mipssim/driver"
	"github.com/sjolsen/mipssim/emu"
)

func bigEndianBinary(start uint32, instructions []uint32) []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(instructions)))
	_ = binary.Write(&buf, binary.BigEndian, start)
	for _, w := range instructions {
		_ = binary.Write(&buf, binary.BigEndian, w)
	}
	return buf.Bytes()
}

var _ = Describe("Load", func() {
	It("parses the header and instruction stream", func() {
		raw := bigEndianBinary(emu.InstrBase, []uint32{0xDEADBEEF, 0x00000001, 0x00000002})

		mem, entry, err := driver.Load(bytes.NewReader(raw))
		Expect(err).NotTo(HaveOccurred())
		Expect(entry).To(Equal(uint32(emu.InstrBase)))
		Expect(mem.InstructionCount()).To(Equal(3))
		Expect(mem.Fetch(emu.InstrBase)).To(Equal(uint32(0xDEADBEEF)))
		Expect(mem.Fetch(emu.InstrBase + 8)).To(Equal(uint32(0x00000002)))
	})

	It("reports a short header as an error", func() {
		_, _, err := driver.Load(bytes.NewReader([]byte{0x00, 0x00}))
		Expect(err).To(HaveOccurred())
	})

	It("reports a truncated instruction stream as an error", func() {
		raw := bigEndianBinary(emu.InstrBase, []uint32{0x01020304})
		truncated := raw[:len(raw)-2]

		_, _, err := driver.Load(bytes.NewReader(truncated))
		Expect(err).To(HaveOccurred())
	})
})
