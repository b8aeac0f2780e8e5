package cpu

import (
	"errors"
	"testing"

	"github.com/nevisdale/mos6502/internal/bus"
	"github.com/nevisdale/mos6502/internal/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type memMock struct {
	mock.Mock
	data [0x10000]uint8
}

func (m *memMock) Read8(addr uint16) uint8 {
	return m.data[addr]
}

func (m *memMock) Write8(addr uint16, data uint8) {
	m.Called(addr, data)
	m.data[addr] = data
}

// newTestCPU loads program at org, points the reset vector at it and
// resets the CPU.
func newTestCPU(t *testing.T, set *InstructionSet, org uint16, program ...uint8) (*CPU, *bus.Memory) {
	t.Helper()

	mem := bus.NewMemory()
	mem.Load(org, program)
	mem.Write16(vectorReset, org)

	c := New(mem, clock.New(0), set)
	require.NoError(t, c.Reset())
	return c, mem
}

func step(t *testing.T, c *CPU) uint8 {
	t.Helper()
	cycles, err := c.Step()
	require.NoError(t, err)
	return cycles
}

func TestCPU_Reset(t *testing.T) {
	mem := bus.NewMemory()
	mem.Write16(vectorReset, 0x8000)

	c := New(mem, nil, nil)
	c.a, c.x, c.y, c.sp, c.p = 1, 2, 3, 4, 0xff

	require.NoError(t, c.Reset())

	assert.Equal(t, uint16(0x8000), c.PC())
	assert.Equal(t, uint8(0xff), c.SP())
	assert.Equal(t, Status(0), c.Status())
	assert.Equal(t, uint8(0), c.A())
	assert.Equal(t, uint8(0), c.X())
	assert.Equal(t, uint8(0), c.Y())
	assert.Equal(t, uint64(clock.StartupCycles), c.Cycles())
	assert.Equal(t, uint64(0), c.ProgramCycles())
	assert.Equal(t, "6502", c.InstructionSet().Name())
}

func TestCPU_NotReset(t *testing.T) {
	c := New(bus.NewMemory(), nil, nil)

	_, err := c.Step()
	assert.ErrorIs(t, err, ErrNotReset)
	assert.ErrorIs(t, c.IRQ(), ErrNotReset)
	assert.ErrorIs(t, c.NMI(), ErrNotReset)
}

func TestCPU_LDANegative(t *testing.T) {
	c, _ := newTestCPU(t, nil, 0x0800, 0xa9, 0xd6, 0x00)

	step(t, c)

	assert.Equal(t, uint8(0xd6), c.A())
	assert.Equal(t, int8(-42), int8(c.A()))
	assert.True(t, c.Status().Negative())
	assert.False(t, c.Status().Zero())
	assert.Equal(t, uint64(2), c.ProgramCycles())
	assert.Equal(t, uint16(0x0802), c.PC())
}

func TestCPU_LDXThenLDA(t *testing.T) {
	c, _ := newTestCPU(t, nil, 0x0800, 0xa2, 0x2a, 0xa9, 0x00)

	step(t, c)
	step(t, c)

	assert.Equal(t, uint8(42), c.X())
	assert.Equal(t, uint8(0), c.A())
	assert.True(t, c.Status().Zero())
	assert.False(t, c.Status().Negative())
	assert.Equal(t, uint64(4), c.ProgramCycles())
}

func TestCPU_LoadFlags(t *testing.T) {
	kept := flagC | flagV | flagD | flagI | flagB

	for _, opcode := range []uint8{0xa9, 0xa2, 0xa0} {
		for v := 0; v < 0x100; v++ {
			c, _ := newTestCPU(t, nil, 0x0200, opcode, uint8(v))
			c.p = kept
			step(t, c)

			assert.Equal(t, v == 0, c.Status().Zero(), "Z for %02X %02X", opcode, v)
			assert.Equal(t, v&0x80 != 0, c.Status().Negative(), "N for %02X %02X", opcode, v)
			assert.Equal(t, kept, c.Status()&kept, "C V D I B for %02X %02X", opcode, v)
		}
	}
}

func TestCPU_PageCrossPenalty(t *testing.T) {
	run := func(x uint8) uint8 {
		// LDX #x; LDA $20FF,X
		c, _ := newTestCPU(t, nil, 0x0200, 0xa2, x, 0xbd, 0xff, 0x20)
		step(t, c)
		return step(t, c)
	}

	assert.Equal(t, uint8(4), run(0))
	assert.Equal(t, uint8(5), run(1))

	zpx := func(x uint8) uint8 {
		// LDX #x; LDA $20,X
		c, _ := newTestCPU(t, nil, 0x0200, 0xa2, x, 0xb5, 0x20)
		step(t, c)
		return step(t, c)
	}

	assert.Equal(t, uint8(4), zpx(0))
	assert.Equal(t, uint8(4), zpx(0xff))
}

func TestCPU_StoreNeverPaysConditionally(t *testing.T) {
	// LDX #1; STA $20FF,X; LDX #0; STA $2000,X
	c, mem := newTestCPU(t, nil, 0x0200, 0xa2, 0x01, 0x9d, 0xff, 0x20, 0xa2, 0x00, 0x9d, 0x00, 0x20)
	c.a = 0x55

	step(t, c)
	assert.Equal(t, uint8(5), step(t, c))
	step(t, c)
	assert.Equal(t, uint8(5), step(t, c))
	assert.Equal(t, uint8(0x55), mem.Read8(0x2100))
	assert.Equal(t, uint8(0x55), mem.Read8(0x2000))
}

func TestCPU_ZeroPageIndexWraps(t *testing.T) {
	// LDX #$10; LDA $F8,X
	c, mem := newTestCPU(t, nil, 0x0200, 0xa2, 0x10, 0xb5, 0xf8)
	mem.Write8(0x0008, 0x77)
	mem.Write8(0x0108, 0x11)

	step(t, c)
	step(t, c)

	assert.Equal(t, uint8(0x77), c.A())
}

func TestCPU_IndirectPointerWraps(t *testing.T) {
	// LDA ($FF),Y with the pointer split over $FF and $00
	c, mem := newTestCPU(t, nil, 0x0200, 0xb1, 0xff)
	mem.Write8(0x00ff, 0x34)
	mem.Write8(0x0000, 0x12)
	mem.Write8(0x1234, 0x99)

	step(t, c)

	assert.Equal(t, uint8(0x99), c.A())
}

func TestCPU_UnknownOpcode(t *testing.T) {
	c, _ := newTestCPU(t, nil, 0x0200, 0x02)
	before := c.Registers()

	_, err := c.Step()

	var unknown *UnknownOpcodeError
	require.ErrorAs(t, err, &unknown)
	assert.ErrorIs(t, err, ErrUnknownOpcode)
	assert.Equal(t, uint8(0x02), unknown.Opcode)
	assert.Equal(t, uint16(0x0200), unknown.Address)

	after := c.Registers()
	assert.Equal(t, before.A, after.A)
	assert.Equal(t, before.X, after.X)
	assert.Equal(t, before.Y, after.Y)
	assert.Equal(t, before.P, after.P)
	assert.True(t, c.Halted())

	_, err = c.Step()
	assert.ErrorIs(t, err, ErrHalted)

	require.NoError(t, c.Reset())
	assert.False(t, c.Halted())
}

func TestCPU_UnknownOpcodeOnlyOnBase(t *testing.T) {
	// STZ $10 exists on the 65C02 only
	c, _ := newTestCPU(t, nil, 0x0200, 0x64, 0x10)
	_, err := c.Step()
	assert.ErrorIs(t, err, ErrUnknownOpcode)

	c, _ = newTestCPU(t, Variant65C02(), 0x0200, 0x64, 0x10)
	assert.Equal(t, uint8(3), step(t, c))
}

func TestCPU_JSRRTS(t *testing.T) {
	// $0200 JSR $0300; $0203 NOP ... $0300 RTS
	c, mem := newTestCPU(t, nil, 0x0200, 0x20, 0x00, 0x03, 0xea)
	mem.Write8(0x0300, 0x60)

	assert.Equal(t, uint8(6), step(t, c))
	assert.Equal(t, uint16(0x0300), c.PC())
	assert.Equal(t, uint8(0xfd), c.SP())
	assert.Equal(t, uint16(0x0202), mem.Read16(0x01fe))

	assert.Equal(t, uint8(6), step(t, c))
	assert.Equal(t, uint16(0x0203), c.PC())
	assert.Equal(t, uint8(0xff), c.SP())
}

func TestCPU_BRKRTI(t *testing.T) {
	// SEC; BRK; padding; NOP
	c, mem := newTestCPU(t, nil, 0x0200, 0x38, 0x00, 0xff, 0xea)
	mem.Write16(vectorIRQ, 0x0400)
	mem.Write8(0x0400, 0x40)

	step(t, c)
	assert.Equal(t, uint8(7), step(t, c))
	assert.Equal(t, uint16(0x0400), c.PC())
	assert.True(t, c.Status().InterruptDisable())
	assert.Equal(t, uint16(0x0203), mem.Read16(0x01fe))
	assert.Equal(t, uint8(0x31), mem.Read8(0x01fd), "pushed status has B and bit 5")

	assert.Equal(t, uint8(6), step(t, c))
	assert.Equal(t, uint16(0x0203), c.PC())
	assert.Equal(t, flagC, c.Status())
	assert.Equal(t, uint8(0xff), c.SP())
}

func TestCPU_BRKClearsDecimalOnCMOS(t *testing.T) {
	for _, tt := range []struct {
		set     *InstructionSet
		decimal bool
	}{
		{Base6502(), true},
		{Variant65C02(), false},
	} {
		// SED; BRK
		c, _ := newTestCPU(t, tt.set, 0x0200, 0xf8, 0x00)
		step(t, c)
		step(t, c)
		assert.Equal(t, tt.decimal, c.Status().Decimal(), tt.set.Name())
	}
}

func TestCPU_IRQ(t *testing.T) {
	c, mem := newTestCPU(t, nil, 0x0200, 0x78, 0x58)
	mem.Write16(vectorIRQ, 0x0400)

	// SEI
	step(t, c)
	start := c.Cycles()
	require.NoError(t, c.IRQ())
	assert.Equal(t, uint16(0x0201), c.PC(), "masked")
	assert.Equal(t, start, c.Cycles())

	// CLI
	step(t, c)
	start = c.Cycles()
	require.NoError(t, c.IRQ())
	assert.Equal(t, uint64(7), c.Cycles()-start)
	assert.Equal(t, uint16(0x0400), c.PC())
	assert.True(t, c.Status().InterruptDisable())
	assert.Equal(t, uint16(0x0202), mem.Read16(0x01fe))
	assert.Equal(t, uint8(0x20), mem.Read8(0x01fd), "pushed status has B clear")
}

func TestCPU_NMI(t *testing.T) {
	c, mem := newTestCPU(t, nil, 0x0200, 0x78)
	mem.Write16(vectorNMI, 0x0500)

	step(t, c)
	start := c.Cycles()
	require.NoError(t, c.NMI())

	assert.Equal(t, uint64(7), c.Cycles()-start)
	assert.Equal(t, uint16(0x0500), c.PC())
}

func TestCPU_JMPIndirectPageBug(t *testing.T) {
	prepare := func(set *InstructionSet) *CPU {
		c, mem := newTestCPU(t, set, 0x0200, 0x6c, 0xff, 0x10)
		mem.Write8(0x10ff, 0x34)
		mem.Write8(0x1000, 0x12)
		mem.Write8(0x1100, 0x56)
		return c
	}

	c := prepare(Base6502())
	assert.Equal(t, uint8(5), step(t, c))
	assert.Equal(t, uint16(0x1234), c.PC())

	c = prepare(Variant65C02())
	assert.Equal(t, uint8(6), step(t, c))
	assert.Equal(t, uint16(0x5634), c.PC())
}

func TestCPU_JMPAbsoluteIndexedIndirect(t *testing.T) {
	// LDX #2; JMP ($1000,X)
	c, mem := newTestCPU(t, Variant65C02(), 0x0200, 0xa2, 0x02, 0x7c, 0x00, 0x10)
	mem.Write16(0x1002, 0x4321)

	step(t, c)
	assert.Equal(t, uint8(6), step(t, c))
	assert.Equal(t, uint16(0x4321), c.PC())
}

func TestCPU_StackWraps(t *testing.T) {
	c, mem := newTestCPU(t, nil, 0x0200, 0x48, 0x68)
	c.sp = 0x00
	c.a = 0x42

	step(t, c)
	assert.Equal(t, uint8(0xff), c.SP())
	assert.Equal(t, uint8(0x42), mem.Read8(0x0100))

	c.a = 0
	step(t, c)
	assert.Equal(t, uint8(0x00), c.SP())
	assert.Equal(t, uint8(0x42), c.A())
}

func TestCPU_PHPPLP(t *testing.T) {
	// PHP; PLP
	c, mem := newTestCPU(t, nil, 0x0200, 0x08, 0x28)
	c.p = flagN | flagV

	assert.Equal(t, uint8(3), step(t, c))
	assert.Equal(t, uint8(0xf0), mem.Read8(0x01ff))

	c.p = 0
	assert.Equal(t, uint8(4), step(t, c))
	assert.Equal(t, flagN|flagV, c.Status())
}

func TestCPU_TXSKeepsFlags(t *testing.T) {
	// LDX #0; TXS
	c, _ := newTestCPU(t, nil, 0x0200, 0xa2, 0x00, 0x9a)
	step(t, c)
	c.p = 0
	step(t, c)

	assert.Equal(t, uint8(0), c.SP())
	assert.Equal(t, Status(0), c.Status())
}

func TestCPU_BusWrites(t *testing.T) {
	mem := &memMock{}
	// STA $10; INC $10
	copy(mem.data[0x0200:], []uint8{0x85, 0x10, 0xe6, 0x10})
	mem.data[0xfffc] = 0x00
	mem.data[0xfffd] = 0x02

	mem.On("Write8", uint16(0x0010), uint8(0x7f)).Once()
	mem.On("Write8", uint16(0x0010), uint8(0x80)).Once()

	c := New(mem, nil, nil)
	require.NoError(t, c.Reset())
	c.a = 0x7f

	step(t, c)
	assert.Equal(t, uint8(5), step(t, c))
	assert.True(t, c.Status().Negative())

	mem.AssertExpectations(t)
}

func TestCPU_Observers(t *testing.T) {
	c, _ := newTestCPU(t, nil, 0x0200, 0xad, 0x34, 0x12)

	var calls []string
	var after AfterEvent
	c.Subscribe(ObserverFuncs{
		Before: func(e BeforeEvent) {
			calls = append(calls, "before")
			assert.Equal(t, uint16(0x0200), e.Address)
			assert.Equal(t, LDA, e.Instruction.Mnemonic)
		},
		After: func(e AfterEvent) {
			calls = append(calls, "after")
			after = e
		},
	})
	c.Subscribe(ObserverFuncs{
		After: func(AfterEvent) { calls = append(calls, "second") },
	})

	step(t, c)

	assert.Equal(t, []string{"before", "after", "second"}, calls)
	assert.Equal(t, AddrModeABS, after.Instruction.Mode)
	assert.Equal(t, []uint8{0x34, 0x12}, after.Operands)
	assert.Equal(t, uint8(4), after.Cycles)
	assert.Equal(t, uint16(0x0203), after.Registers.PC)
}

func TestCPU_ObserverCannotDrive(t *testing.T) {
	c, _ := newTestCPU(t, nil, 0x0200, 0xea, 0xea)

	var errs []error
	c.Subscribe(ObserverFuncs{
		Before: func(BeforeEvent) {
			_, err := c.Step()
			errs = append(errs, err, c.Reset(), c.IRQ(), c.NMI())
		},
	})

	step(t, c)

	require.Len(t, errs, 4)
	for _, err := range errs {
		assert.True(t, errors.Is(err, ErrReentrant))
	}
	assert.Equal(t, uint16(0x0201), c.PC())
}

func TestCPU_SharedClock(t *testing.T) {
	mem := bus.NewMemory()
	mem.Write16(vectorReset, 0x0200)
	mem.Write8(0x0200, 0xea)

	clk := clock.New(0)
	c := New(mem, clk, nil)
	require.NoError(t, c.Reset())
	step(t, c)

	assert.Equal(t, uint64(clock.StartupCycles+2), clk.Cycles())
}

func TestCPU_InvalidAddressingModePanics(t *testing.T) {
	c, _ := newTestCPU(t, nil, 0x0200)

	for _, mode := range []AddrMode{AddrModeIMP, AddrModeACC, AddrModeIMM} {
		assert.PanicsWithError(t, (&InvalidAddressingModeError{Mode: mode}).Error(), func() {
			c.address(mode, accessRead)
		}, mode.String())
	}
}
