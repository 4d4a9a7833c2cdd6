package emu

import (
	"fmt"

	"github.com/sjolsen/mipssim/insts"
)

// regNames are the conventional MIPS ABI register names, indexed by
// register number, matching Project1/disassembler.c's `reg` table.
var regNames = [32]string{
	"$zero", "$at", "$v0", "$v1", "$a0", "$a1", "$a2", "$a3",
	"$t0", "$t1", "$t2", "$t3", "$t4", "$t5", "$t6", "$t7",
	"$s0", "$s1", "$s2", "$s3", "$s4", "$s5", "$s6", "$s7",
	"$t8", "$t9", "$k0", "$k1", "$gp", "$sp", "$fp", "$ra",
}

// Disassemble renders one instruction word as a single mnemonic line, in
// the "%8x: mnemonic args" format of the original disassembler. pc is the
// address the word was fetched from. Unimplemented opcode/funct
// combinations render as "unimplemented" rather than erroring — this is a
// display-only tool and has no reason to reject a word the executor will
// separately refuse to run.
func Disassemble(pc uint32, word uint32) string {
	inst := insts.Decode(pc+4, word)
	rd := regNames[inst.Rd]
	rs := regNames[inst.Rs]
	rt := regNames[inst.Rt]

	var body string
	switch inst.Op {
	case insts.OpSLL:
		body = fmt.Sprintf("sll %s, %s, %d", rd, rs, inst.Shamt)
	case insts.OpSRA:
		body = fmt.Sprintf("sra %s, %s, %d", rd, rs, inst.Shamt)
	case insts.OpJR:
		body = fmt.Sprintf("jr %s", rs)
	case insts.OpMFHI:
		body = fmt.Sprintf("mfhi %s", rd)
	case insts.OpMFLO:
		body = fmt.Sprintf("mflo %s", rd)
	case insts.OpMULT:
		body = fmt.Sprintf("mult %s, %s", rs, rt)
	case insts.OpDIV:
		body = fmt.Sprintf("div %s, %s", rs, rt)
	case insts.OpADDU:
		body = fmt.Sprintf("addu %s, %s, %s", rd, rs, rt)
	case insts.OpSUBU:
		body = fmt.Sprintf("subu %s, %s, %s", rd, rs, rt)
	case insts.OpSLT:
		body = fmt.Sprintf("slt %s, %s, %s", rd, rs, rt)
	case insts.OpJ:
		body = fmt.Sprintf("j %x", inst.JAddr)
	case insts.OpJAL:
		body = fmt.Sprintf("jal %x", inst.JAddr)
	case insts.OpBEQ:
		body = fmt.Sprintf("beq %s, %s, %x", rs, rt, inst.BAddr)
	case insts.OpBNE:
		body = fmt.Sprintf("bne %s, %s, %x", rs, rt, inst.BAddr)
	case insts.OpADDIU:
		body = fmt.Sprintf("addiu %s, %s, %d", rt, rs, inst.SImm)
	case insts.OpANDI:
		body = fmt.Sprintf("andi %s, %s, %d", rt, rs, inst.UImm)
	case insts.OpLUI:
		// Displayed signed, per the original disassembler, even though
		// the executor zero-extends the immediate when it loads it.
		body = fmt.Sprintf("lui %s, %d", rt, inst.SImm)
	case insts.OpTRAP:
		body = fmt.Sprintf("trap %x", inst.Addr)
	case insts.OpLW:
		body = fmt.Sprintf("lw %s, %d(%s)", rt, inst.SImm, rs)
	case insts.OpSW:
		body = fmt.Sprintf("sw %s, %d(%s)", rt, inst.SImm, rs)
	default:
		body = "unimplemented"
	}

	return fmt.Sprintf("%8x: %s", pc, body)
}
