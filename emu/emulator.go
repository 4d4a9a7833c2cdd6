package emu

import (
	"fmt"
	"io"
	"os"

	"github.com/sjolsen/mipssim/bits"
	"github.com/sjolsen/mipssim/insts"
)

// Console is the TRAP-driven I/O boundary between the architectural
// executor and the host: NEWLINE/PRINT write, PROMPT reads. STOP is
// handled entirely inside the executor and never reaches a Console.
// Prompt's ok return is false when the host input stream is exhausted,
// which per §5 is itself a termination condition, handled the same way
// as STOP.
type Console interface {
	Newline()
	Print(value int32)
	Prompt() (value int32, ok bool)
}

// StepResult reports the outcome of one Step. Err distinguishes an
// architectural trap (unimplemented instruction/trap, division by zero)
// from ordinary continuation; callers still get a chance to print a
// best-effort termination report after an Err, per the error taxonomy.
// A MemoryFault instead propagates as a panic and is never folded into
// StepResult, since a memory-protection abort skips the report entirely.
type StepResult struct {
	Halted bool
	Err    error
}

// Emulator is the instrumented MIPS-I executor. It holds architectural
// state (registers, memory) and drives a set of Observers at precisely
// the points the executor itself declares for each opcode, per the
// read/write-stage instrumentation described for the pipeline accountant.
type Emulator struct {
	regs      *RegFile
	mem       *Memory
	console   Console
	observers []Observer
	count     uint64
	stderr    io.Writer
	trace     io.Writer
}

// EmulatorOption configures an Emulator at construction time.
type EmulatorOption func(*Emulator)

// WithConsole sets the TRAP I/O binding. Without one, NEWLINE/PRINT/PROMPT
// panic, so the driver package must always supply one for a real run.
func WithConsole(c Console) EmulatorOption {
	return func(e *Emulator) { e.console = c }
}

// WithObserver registers a passive observer. Order is insertion order;
// observers never see each other's state.
func WithObserver(o Observer) EmulatorOption {
	return func(e *Emulator) { e.observers = append(e.observers, o) }
}

// WithStderr overrides the executor's own diagnostic stream. This is
// independent of the Console, which owns TRAP-driven stdout/stdin only.
func WithStderr(w io.Writer) EmulatorOption {
	return func(e *Emulator) { e.stderr = w }
}

// WithTrace enables a per-instruction disassembly line written to w
// before each instruction executes, matching the original's practice of
// running the disassembler alongside a timing build for debugging.
func WithTrace(w io.Writer) EmulatorOption {
	return func(e *Emulator) { e.trace = w }
}

// NewEmulator creates an Emulator over mem, with the register file
// initialized per §3 and the PC set to entry.
func NewEmulator(mem *Memory, entry uint32, opts ...EmulatorOption) *Emulator {
	e := &Emulator{
		regs:   NewRegFile(entry),
		mem:    mem,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RegFile exposes the register file, chiefly for tests and reporting.
func (e *Emulator) RegFile() *RegFile { return e.regs }

// Memory exposes the memory, chiefly for tests and reporting.
func (e *Emulator) Memory() *Memory { return e.mem }

// InstructionCount returns the number of instructions retired so far.
func (e *Emulator) InstructionCount() uint64 { return e.count }

func (e *Emulator) onRead(reg uint8, stage Stage) {
	for _, o := range e.observers {
		o.OnRead(reg, stage)
	}
}

func (e *Emulator) onFetch(inst insts.Instruction) {
	for _, o := range e.observers {
		o.OnFetch(inst)
	}
}

func (e *Emulator) onWrite(reg uint8, stage Stage) {
	for _, o := range e.observers {
		o.OnWrite(reg, stage)
	}
}

func (e *Emulator) onBranchTaken() {
	for _, o := range e.observers {
		o.OnBranchTaken()
	}
}

func (e *Emulator) onControlFlush() {
	for _, o := range e.observers {
		o.OnControlFlush()
	}
}

func (e *Emulator) onLoad(addr uint32) {
	for _, o := range e.observers {
		o.OnLoad(addr, e.count)
	}
}

func (e *Emulator) onStore(addr uint32) {
	for _, o := range e.observers {
		o.OnStore(addr, e.count)
	}
}

func (e *Emulator) onIndirectJump(instrPC, target uint32) {
	for _, o := range e.observers {
		o.OnIndirectJump(instrPC, target)
	}
}

func (e *Emulator) onLoadAddress(instrPC, addr uint32) {
	for _, o := range e.observers {
		o.OnLoadAddress(instrPC, addr)
	}
}

func (e *Emulator) onLoadedValue(value uint32) {
	for _, o := range e.observers {
		o.OnLoadedValue(value)
	}
}

// Step fetches, decodes, and executes one instruction. A MemoryFault
// panics out of Step (and Run) unrecovered. Every other fatal condition
// is reported through StepResult.Err.
func (e *Emulator) Step() StepResult {
	instrPC := e.regs.PC
	word := e.mem.Fetch(instrPC)
	if e.trace != nil {
		fmt.Fprintln(e.trace, Disassemble(instrPC, word))
	}
	e.regs.ZeroReg0()
	e.regs.PC = instrPC + 4
	e.count++

	inst := insts.Decode(e.regs.PC, word)
	e.onFetch(inst)

	switch inst.Op {
	case insts.OpSLL:
		e.onRead(inst.Rs, StageEXE1)
		e.regs.Write(inst.Rd, e.regs.Read(inst.Rs)<<inst.Shamt)
		e.onWrite(inst.Rd, StageMEM1)

	case insts.OpSRA:
		e.onRead(inst.Rs, StageEXE1)
		shifted := e.regs.Read(inst.Rs) >> inst.Shamt
		e.regs.Write(inst.Rd, bits.SignExtend(shifted, 32-inst.Shamt))
		e.onWrite(inst.Rd, StageMEM1)

	case insts.OpJR:
		e.onRead(inst.Rs, StageID)
		target := e.regs.Read(inst.Rs)
		e.onIndirectJump(instrPC, target)
		e.regs.PC = target
		e.onControlFlush()
		e.onControlFlush()

	case insts.OpMFHI:
		e.onRead(RegHILO, StageEXE1)
		e.regs.Write(inst.Rd, e.regs.Hi)
		e.onWrite(inst.Rd, StageEXE2)

	case insts.OpMFLO:
		e.onRead(RegHILO, StageEXE1)
		e.regs.Write(inst.Rd, e.regs.Lo)
		e.onWrite(inst.Rd, StageEXE2)

	case insts.OpMULT:
		e.onRead(inst.Rs, StageEXE1)
		e.onRead(inst.Rt, StageEXE1)
		wide := uint64(int64(int32(e.regs.Read(inst.Rs))) * int64(int32(e.regs.Read(inst.Rt))))
		e.regs.Lo = uint32(wide)
		e.regs.Hi = uint32(wide >> 32)
		e.onWrite(RegHILO, StageWB)

	case insts.OpDIV:
		e.onRead(inst.Rs, StageEXE1)
		e.onRead(inst.Rt, StageEXE1)
		divisor := e.regs.Read(inst.Rt)
		if divisor == 0 {
			return StepResult{Err: fmt.Errorf("division by zero: pc = 0x%08x", instrPC)}
		}
		dividend := e.regs.Read(inst.Rs)
		e.regs.Lo = uint32(int32(dividend) / int32(divisor))
		e.regs.Hi = uint32(int32(dividend) % int32(divisor))
		e.onWrite(RegHILO, StageWB)

	case insts.OpADDU:
		e.onRead(inst.Rs, StageEXE1)
		e.onRead(inst.Rt, StageEXE1)
		e.regs.Write(inst.Rd, e.regs.Read(inst.Rs)+e.regs.Read(inst.Rt))
		e.onWrite(inst.Rd, StageMEM1)

	case insts.OpSUBU:
		e.onRead(inst.Rs, StageEXE1)
		e.onRead(inst.Rt, StageEXE1)
		e.regs.Write(inst.Rd, e.regs.Read(inst.Rs)-e.regs.Read(inst.Rt))
		e.onWrite(inst.Rd, StageMEM1)

	case insts.OpSLT:
		e.onRead(inst.Rs, StageEXE1)
		e.onRead(inst.Rt, StageEXE1)
		var v uint32
		if int32(e.regs.Read(inst.Rs)) < int32(e.regs.Read(inst.Rt)) {
			v = 1
		}
		e.regs.Write(inst.Rd, v)
		e.onWrite(inst.Rd, StageMEM1)

	case insts.OpJ:
		e.regs.PC = inst.JAddr
		e.onControlFlush()
		e.onControlFlush()

	case insts.OpJAL:
		e.regs.Write(31, e.regs.PC)
		e.onWrite(31, StageEXE1)
		e.regs.PC = inst.JAddr
		e.onControlFlush()
		e.onControlFlush()

	case insts.OpBEQ:
		e.onRead(inst.Rs, StageID)
		e.onRead(inst.Rt, StageID)
		if e.regs.Read(inst.Rs) == e.regs.Read(inst.Rt) {
			e.regs.PC = inst.BAddr
			e.onBranchTaken()
			e.onControlFlush()
			e.onControlFlush()
		}

	case insts.OpBNE:
		e.onRead(inst.Rs, StageID)
		e.onRead(inst.Rt, StageID)
		if e.regs.Read(inst.Rs) != e.regs.Read(inst.Rt) {
			e.regs.PC = inst.BAddr
			e.onBranchTaken()
			e.onControlFlush()
			e.onControlFlush()
		}

	case insts.OpADDIU:
		e.onRead(inst.Rs, StageEXE1)
		e.regs.Write(inst.Rt, e.regs.Read(inst.Rs)+uint32(int32(inst.SImm)))
		e.onWrite(inst.Rt, StageMEM1)

	case insts.OpANDI:
		e.onRead(inst.Rs, StageEXE1)
		e.regs.Write(inst.Rt, e.regs.Read(inst.Rs)&uint32(inst.UImm))
		e.onWrite(inst.Rt, StageEXE2)

	case insts.OpLUI:
		e.regs.Write(inst.Rt, uint32(inst.UImm)<<16)
		e.onWrite(inst.Rt, StageEXE2)

	case insts.OpTRAP:
		return e.executeTrap(inst, instrPC)

	case insts.OpLW:
		e.onRead(inst.Rs, StageEXE1)
		addr := e.regs.Read(inst.Rs) + uint32(int32(inst.SImm))
		e.onLoad(addr)
		e.onLoadAddress(instrPC, addr)
		value := e.mem.LoadWord(addr)
		e.onLoadedValue(value)
		e.regs.Write(inst.Rt, value)
		e.onWrite(inst.Rt, StageWB)

	case insts.OpSW:
		e.onRead(inst.Rs, StageEXE1)
		e.onRead(inst.Rt, StageMEM1)
		addr := e.regs.Read(inst.Rs) + uint32(int32(inst.SImm))
		e.onStore(addr)
		e.mem.StoreWord(addr, e.regs.Read(inst.Rt))

	default:
		return StepResult{Err: fmt.Errorf("unimplemented instruction: pc = 0x%08x", instrPC)}
	}

	return StepResult{}
}

func (e *Emulator) executeTrap(inst insts.Instruction, instrPC uint32) StepResult {
	switch inst.Trap {
	case insts.TrapNewline:
		e.console.Newline()

	case insts.TrapPrint:
		e.onRead(inst.Rs, StageEXE1)
		e.console.Print(int32(e.regs.Read(inst.Rs)))

	case insts.TrapPrompt:
		value, ok := e.console.Prompt()
		if !ok {
			return StepResult{Halted: true}
		}
		e.regs.Write(inst.Rt, uint32(value))
		e.onWrite(inst.Rt, StageMEM1)

	case insts.TrapStop:
		return StepResult{Halted: true}

	default:
		return StepResult{Err: fmt.Errorf("unimplemented trap: pc = 0x%08x", instrPC)}
	}

	return StepResult{}
}

// Run steps the emulator until STOP or a fatal architectural trap. It
// reports the trap to stderr itself (matching the original's inline
// fprintf-then-halt) and returns the error so the caller can still print
// a best-effort termination report. A MemoryFault is not caught here and
// propagates to the caller as a panic.
func (e *Emulator) Run() error {
	for {
		result := e.Step()
		if result.Err != nil {
			fmt.Fprintf(e.stderr, "%s\n", result.Err)
			return result.Err
		}
		if result.Halted {
			return nil
		}
	}
}
