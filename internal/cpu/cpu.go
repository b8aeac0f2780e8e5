package cpu

import (
	"fmt"

	"github.com/nevisdale/mos6502/internal/clock"
)

// ReadWriter is the bus the CPU runs against.
type ReadWriter interface {
	Read8(addr uint16) uint8
	Write8(addr uint16, data uint8)
}

const (
	// The stack is located in the fixed memory page $0100 to $01FF.
	stackStartAddr = uint16(0x100)

	vectorNMI   = uint16(0xfffa)
	vectorReset = uint16(0xfffc)
	vectorIRQ   = uint16(0xfffe)
)

type state uint8

const (
	stateUninitialized state = iota
	stateReady
	stateRunning
	stateHalted
)

type CPU struct {
	a   uint8  // used to perform arithmetic and logical operations
	x   uint8  // used primarily for indexing and temporary storage
	y   uint8  // used mainly for indexing and temporary storage
	sp  uint8  // stack pointer
	pc  uint16 // program counter
	p   Status // contains flags from flagX
	mem ReadWriter
	clk *clock.Clock
	set *InstructionSet

	observers []Observer
	state     state
	executing bool

	// per instruction scratch
	operands    [2]uint8
	nOperands   uint8
	pageCrossed bool
}

// New creates a CPU bound to mem and clk. The CPU must be Reset before it
// executes anything.
func New(mem ReadWriter, clk *clock.Clock, set *InstructionSet) *CPU {
	if clk == nil {
		clk = clock.New(0)
	}
	if set == nil {
		set = Base6502()
	}
	return &CPU{
		mem: mem,
		clk: clk,
		set: set,
	}
}

// Subscribe registers an observer. Observers are notified in
// subscription order.
func (c *CPU) Subscribe(o Observer) {
	c.observers = append(c.observers, o)
}

func (c *CPU) PC() uint16                      { return c.pc }
func (c *CPU) SP() uint8                       { return c.sp }
func (c *CPU) A() uint8                        { return c.a }
func (c *CPU) X() uint8                        { return c.x }
func (c *CPU) Y() uint8                        { return c.y }
func (c *CPU) Status() Status                  { return c.p }
func (c *CPU) Clock() *clock.Clock             { return c.clk }
func (c *CPU) InstructionSet() *InstructionSet { return c.set }
func (c *CPU) Cycles() uint64                  { return c.clk.Cycles() }
func (c *CPU) ProgramCycles() uint64           { return c.clk.ProgramCycles() }

// Halted reports whether an unknown opcode stopped the CPU.
func (c *CPU) Halted() bool {
	return c.state == stateHalted
}

func (c *CPU) Registers() Registers {
	return Registers{PC: c.pc, SP: c.sp, A: c.a, X: c.x, Y: c.y, P: c.p}
}

// Reset puts the CPU in its initial state. The start address is read from
// the reset vector and the clock is charged with the startup cycles.
func (c *CPU) Reset() error {
	if c.executing {
		return ErrReentrant
	}
	c.pc = uint16(c.mem.Read8(vectorReset)) | uint16(c.mem.Read8(vectorReset+1))<<8
	c.sp = 0xff
	c.p.ClearAll()
	c.a = 0
	c.x = 0
	c.y = 0
	c.clk.Reset()
	c.state = stateReady
	return nil
}

// Step executes exactly one instruction and returns the cycles it consumed.
//
// An unknown opcode is fatal: the CPU halts with only the PC advanced past
// the opcode and every following Step fails with ErrHalted until Reset.
func (c *CPU) Step() (uint8, error) {
	if err := c.enter(); err != nil {
		return 0, err
	}
	defer c.leave()

	c.state = stateRunning
	start := c.clk.Cycles()
	addr := c.pc

	opcode := c.read8(c.pc)
	c.pc++
	instr, err := c.set.Lookup(opcode)
	if err != nil {
		c.state = stateHalted
		return uint8(c.clk.Cycles() - start), &UnknownOpcodeError{Opcode: opcode, Address: addr}
	}
	fn := handlers[instr.Mnemonic]
	if fn == nil {
		c.state = stateHalted
		return uint8(c.clk.Cycles() - start), fmt.Errorf("%w: %s at $%04X", ErrNotImplemented, instr.Mnemonic, addr)
	}

	c.nOperands = 0
	c.pageCrossed = false
	for _, o := range c.observers {
		o.BeforeInstruction(BeforeEvent{Address: addr, Instruction: instr})
	}

	// single byte instructions spend a cycle reading the next byte
	if instr.Mode == AddrModeIMP || instr.Mode == AddrModeACC {
		c.idle(1)
	}
	fn(c, instr.Mode)

	cycles := uint8(c.clk.Cycles() - start)
	if len(c.observers) > 0 {
		ev := AfterEvent{
			Address:     addr,
			Instruction: instr,
			Operands:    append([]uint8(nil), c.operands[:c.nOperands]...),
			Cycles:      cycles,
			Registers:   c.Registers(),
		}
		for _, o := range c.observers {
			o.AfterInstruction(ev)
		}
	}
	return cycles, nil
}

// IRQ signals a maskable interrupt. It is ignored while the
// interrupt disable flag is set.
func (c *CPU) IRQ() error {
	if err := c.enter(); err != nil {
		return err
	}
	defer c.leave()

	if c.p.InterruptDisable() {
		return nil
	}
	c.interrupt(vectorIRQ)
	return nil
}

// NMI signals a non-maskable interrupt.
func (c *CPU) NMI() error {
	if err := c.enter(); err != nil {
		return err
	}
	defer c.leave()

	c.interrupt(vectorNMI)
	return nil
}

func (c *CPU) enter() error {
	switch {
	case c.executing:
		return ErrReentrant
	case c.state == stateUninitialized:
		return ErrNotReset
	case c.state == stateHalted:
		return ErrHalted
	}
	c.executing = true
	return nil
}

func (c *CPU) leave() {
	c.executing = false
}

// interrupt runs the hardware interrupt sequence: two dead cycles,
// PC and status pushed, then the vector is loaded.
func (c *CPU) interrupt(vector uint16) {
	c.idle(2)
	c.stackPush16(c.pc)
	c.stackPush8(c.p.pushed(false))
	c.p.SetInterruptDisable(true)
	if c.set.cmos {
		c.p.SetDecimal(false)
	}
	c.pc = c.read16(vector)
}

func (c *CPU) idle(n uint32) {
	c.clk.Tick(n)
}

func (c *CPU) read8(addr uint16) uint8 {
	c.clk.Tick(1)
	return c.mem.Read8(addr)
}

func (c *CPU) read16(addr uint16) uint16 {
	lo := uint16(c.read8(addr))
	hi := uint16(c.read8(addr + 1))
	return lo | hi<<8
}

// read16ZP reads a pointer from page zero, wrapping from $FF to $00.
func (c *CPU) read16ZP(zp uint8) uint16 {
	lo := uint16(c.read8(uint16(zp)))
	hi := uint16(c.read8(uint16(zp + 1)))
	return lo | hi<<8
}

func (c *CPU) write8(addr uint16, data uint8) {
	c.clk.Tick(1)
	c.mem.Write8(addr, data)
}

// fetch8 reads the next operand byte at PC.
func (c *CPU) fetch8() uint8 {
	v := c.read8(c.pc)
	c.pc++
	if int(c.nOperands) < len(c.operands) {
		c.operands[c.nOperands] = v
		c.nOperands++
	}
	return v
}

func (c *CPU) fetch16() uint16 {
	lo := uint16(c.fetch8())
	hi := uint16(c.fetch8())
	return lo | hi<<8
}

func (c *CPU) setFlagsZN(value uint8) {
	c.p.SetZero(value == 0)
	c.p.SetNegative(value&0x80 > 0)
}

func (c *CPU) stackPop8() uint8 {
	c.sp++
	return c.read8(stackStartAddr | uint16(c.sp))
}

func (c *CPU) stackPop16() uint16 {
	lo := uint16(c.stackPop8())
	hi := uint16(c.stackPop8())
	return lo | hi<<8
}

func (c *CPU) stackPush8(data uint8) {
	c.write8(stackStartAddr|uint16(c.sp), data)
	c.sp--
}

func (c *CPU) stackPush16(data uint16) {
	lo := uint8(data & 0xff)
	hi := uint8(data >> 8)
	c.stackPush8(hi)
	c.stackPush8(lo)
}
