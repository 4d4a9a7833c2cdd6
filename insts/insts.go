// Package insts decodes the restricted MIPS-I instruction word into a
// structured Instruction, and classifies opcodes the way the static
// profiler and disassembler need.
package insts

import "github.com/sjolsen/mipssim/bits"

// Op identifies one of the 20 supported opcode/funct pairs (or TRAP's four
// subcodes, folded into the surrounding opcode dispatch).
type Op uint8

// Supported operations. OpUnknown covers every opcode/funct combination
// this machine does not implement.
const (
	OpUnknown Op = iota

	// R-type (opcode FUNCTION)
	OpSLL
	OpSRA
	OpJR
	OpMFHI
	OpMFLO
	OpMULT
	OpDIV
	OpADDU
	OpSUBU
	OpSLT

	// J-type
	OpJ
	OpJAL
	OpTRAP

	// I-type
	OpBEQ
	OpBNE
	OpADDIU
	OpANDI
	OpLUI
	OpLW
	OpSW
)

// Raw opcode and funct field values, named the way the original coursework
// source enumerates them.
const (
	opFUNCTION uint8 = 0x00
	opJ        uint8 = 0x02
	opJAL      uint8 = 0x03
	opBEQ      uint8 = 0x04
	opBNE      uint8 = 0x05
	opADDIU    uint8 = 0x09
	opANDI     uint8 = 0x0C
	opLUI      uint8 = 0x0F
	opTRAP     uint8 = 0x1A
	opLW       uint8 = 0x23
	opSW       uint8 = 0x2B
)

const (
	fnSLL  uint8 = 0x00
	fnSRA  uint8 = 0x03
	fnJR   uint8 = 0x08
	fnMFHI uint8 = 0x10
	fnMFLO uint8 = 0x12
	fnMULT uint8 = 0x18
	fnDIV  uint8 = 0x1A
	fnADDU uint8 = 0x21
	fnSUBU uint8 = 0x23
	fnSLT  uint8 = 0x2a
)

// TRAP subcodes, selected by the low 4 bits of the J-type address field.
const (
	TrapNewline uint8 = 0x00
	TrapPrint   uint8 = 0x01
	TrapPrompt  uint8 = 0x05
	TrapStop    uint8 = 0x0a
)

// Class is the coarse instruction-type bucket the static profiler reports
// a mix over.
type Class uint8

const (
	ClassUnknown Class = iota
	ClassR
	ClassI
	ClassJ
)

// classOf mirrors Project3/stats.c's `itype` lookup table: opcode 0
// (FUNCTION) is R-type, {J, JAL, TRAP} are J-type, everything else
// supported is I-type.
var classOf = map[uint8]Class{
	opFUNCTION: ClassR,
	opJ:        ClassJ,
	opJAL:      ClassJ,
	opBEQ:      ClassI,
	opBNE:      ClassI,
	opADDIU:    ClassI,
	opANDI:     ClassI,
	opLUI:      ClassI,
	opTRAP:     ClassJ,
	opLW:       ClassI,
	opSW:       ClassI,
}

var rTypeOps = map[uint8]Op{
	fnSLL:  OpSLL,
	fnSRA:  OpSRA,
	fnJR:   OpJR,
	fnMFHI: OpMFHI,
	fnMFLO: OpMFLO,
	fnMULT: OpMULT,
	fnDIV:  OpDIV,
	fnADDU: OpADDU,
	fnSUBU: OpSUBU,
	fnSLT:  OpSLT,
}

var otherOps = map[uint8]Op{
	opJ:     OpJ,
	opJAL:   OpJAL,
	opBEQ:   OpBEQ,
	opBNE:   OpBNE,
	opADDIU: OpADDIU,
	opANDI:  OpANDI,
	opLUI:   OpLUI,
	opTRAP:  OpTRAP,
	opLW:    OpLW,
	opSW:    OpSW,
}

// Instruction is the fully decoded form of a 32-bit MIPS-I instruction
// word, per spec §4.3.
type Instruction struct {
	Raw    uint32
	Op     Op
	Opcode uint8
	Rs     uint8
	Rt     uint8
	Rd     uint8
	Shamt  uint8
	Funct  uint8
	UImm   uint16
	SImm   int16
	Addr   uint32 // 26-bit field, bits [0, 26)
	JAddr  uint32 // (pc_after_increment & 0xf0000000) | (Addr << 2)
	BAddr  uint32 // pc_after_increment + (SImm << 2)
	Trap   uint8  // low 4 bits of Addr, valid only when Op == OpTRAP
}

// Class reports the coarse instruction-type bucket for profiling, or
// ClassUnknown for an unsupported opcode.
func (i *Instruction) Class() Class {
	return classOf[i.Opcode]
}

// Decode splits a 32-bit instruction word into its constituent fields and
// classifies the opcode/funct pair. pcAfterIncrement is the PC value after
// the normal +4 advance, which feeds JAddr/BAddr computation (spec §4.3).
func Decode(pcAfterIncrement uint32, word uint32) Instruction {
	opcode := uint8(bits.Range(word, 26, 32))
	rs := uint8(bits.Range(word, 21, 26))
	rt := uint8(bits.Range(word, 16, 21))
	rd := uint8(bits.Range(word, 11, 16))
	shamt := uint8(bits.Range(word, 6, 11))
	funct := uint8(bits.Range(word, 0, 6))
	uimm := uint16(bits.Range(word, 0, 16))
	simm := int16(bits.SignExtend(uint32(uimm), 16))
	addr := bits.Range(word, 0, 26)

	inst := Instruction{
		Raw:    word,
		Opcode: opcode,
		Rs:     rs,
		Rt:     rt,
		Rd:     rd,
		Shamt:  shamt,
		Funct:  funct,
		UImm:   uimm,
		SImm:   simm,
		Addr:   addr,
		JAddr:  (pcAfterIncrement & 0xf0000000) | (addr << 2),
		BAddr:  uint32(int32(pcAfterIncrement) + int32(simm)*4),
	}

	if opcode == opFUNCTION {
		if op, ok := rTypeOps[funct]; ok {
			inst.Op = op
		}
		return inst
	}

	if op, ok := otherOps[opcode]; ok {
		inst.Op = op
		if op == OpTRAP {
			inst.Trap = uint8(addr & 0xf)
		}
		return inst
	}

	return inst
}
