package cpu

// AddrMode is the rule by which an instruction finds its operand.
type AddrMode uint8

const (
	// Immediate: IMM
	//
	// The operand is the byte following the opcode.
	// For example, LDA #$10 loads the accumulator with $10.
	//
	// Format: #$nn
	AddrModeIMM AddrMode = iota + 1

	// Zero Page: ZP
	//
	// The byte following the opcode is an address in page zero.
	// For example, LDA $20 loads the accumulator from $0020.
	//
	// Format: $nn
	AddrModeZP

	// Zero Page Indexed with X: ZPX
	//
	// As ZP, then X is added. The sum wraps within page zero and the
	// addition always costs a cycle.
	// For example, LDA $20,X loads the accumulator from $0020 + X.
	//
	// Format: $nn,X
	AddrModeZPX

	// Zero Page Indexed with Y: ZPY
	//
	// As ZPX with the Y register. Only LDX and STX use it.
	//
	// Format: $nn,Y
	AddrModeZPY

	// Absolute: ABS
	//
	// The two bytes following the opcode are a little-endian address.
	// For example, LDA $1234 loads the accumulator from $1234.
	//
	// Format: $nnnn
	AddrModeABS

	// Absolute Indexed with X: ABSX
	//
	// As ABS, then X is added. Reads cost an extra cycle only when the
	// sum lands on another page; stores and read-modify-write always pay it.
	//
	// Format: $nnnn,X
	AddrModeABSX

	// Absolute Indexed with Y: ABSY
	//
	// As ABSX with the Y register.
	//
	// Format: $nnnn,Y
	AddrModeABSY

	// Indirect: IND
	//
	// The two bytes following the opcode point at a little-endian target
	// address. Only JMP uses it. The NMOS part never carries into the high
	// byte of the pointer, so JMP ($10FF) reads its high byte from $1000.
	//
	// Format: ($nnnn)
	AddrModeIND

	// Indexed Indirect (X): INDX
	//
	// X is added to a zero page pointer (one extra cycle, wrapping in page
	// zero), and the target address is read from there.
	// For example, LDA ($20,X) loads the accumulator from the address stored at $20 + X.
	//
	// Format: ($nn,X)
	AddrModeINDX

	// Indirect Indexed (Y): INDY
	//
	// The target address is read from a zero page pointer and Y is added
	// to it. Page crossing rules are the same as ABSY.
	// For example, LDA ($20),Y loads the accumulator from the address stored at $20, plus Y.
	//
	// Format: ($nn),Y
	AddrModeINDY

	// Relative: REL
	//
	// Branches only. The byte following the opcode is a signed offset from
	// the address of the next instruction.
	//
	// Format: $nn
	AddrModeREL

	// Accumulator: ACC
	//
	// The operand is the accumulator itself.
	// For example, LSR A.
	AddrModeACC

	// Implied: IMP
	//
	// The opcode alone defines the instruction.
	// For example, CLC.
	AddrModeIMP

	// Zero Page Indirect: ZPIND (65C02)
	//
	// The target address is read from a zero page pointer, without indexing.
	//
	// Format: ($nn)
	AddrModeZPIND

	// Absolute Indexed Indirect: ABSINDX (65C02)
	//
	// X is added to a 16 bit pointer and the target is read from there.
	// Only JMP uses it.
	//
	// Format: ($nnnn,X)
	AddrModeABSINDX
)

func (mode AddrMode) String() string {
	switch mode {
	case AddrModeIMM:
		return "IMM"
	case AddrModeZP:
		return "ZP"
	case AddrModeZPX:
		return "ZPX"
	case AddrModeZPY:
		return "ZPY"
	case AddrModeABS:
		return "ABS"
	case AddrModeABSX:
		return "ABSX"
	case AddrModeABSY:
		return "ABSY"
	case AddrModeIND:
		return "IND"
	case AddrModeINDX:
		return "INDX"
	case AddrModeINDY:
		return "INDY"
	case AddrModeREL:
		return "REL"
	case AddrModeACC:
		return "ACC"
	case AddrModeIMP:
		return "IMP"
	case AddrModeZPIND:
		return "ZPIND"
	case AddrModeABSINDX:
		return "ABSINDX"
	}
	return "???"
}

// OperandSize returns the number of operand bytes following the opcode.
func (mode AddrMode) OperandSize() int {
	switch mode {
	case AddrModeIMM, AddrModeZP, AddrModeZPX, AddrModeZPY,
		AddrModeINDX, AddrModeINDY, AddrModeREL, AddrModeZPIND:
		return 1
	case AddrModeABS, AddrModeABSX, AddrModeABSY, AddrModeIND, AddrModeABSINDX:
		return 2
	}
	return 0
}

// access tells the resolver whether the indexed page penalty is
// conditional (reads) or always paid (stores and read-modify-write).
type access uint8

const (
	accessRead access = iota
	accessWrite
)

func isDiffPage(a, b uint16) bool {
	return (a^b)>>8 != 0
}

// address resolves a memory mode to an effective address, charging the
// cycles the mode costs. Non-memory modes are a programming error.
func (c *CPU) address(mode AddrMode, acc access) uint16 {
	switch mode {
	case AddrModeZP:
		return uint16(c.fetch8())

	case AddrModeZPX:
		zp := c.fetch8()
		c.idle(1)
		return uint16(zp + c.x)

	case AddrModeZPY:
		zp := c.fetch8()
		c.idle(1)
		return uint16(zp + c.y)

	case AddrModeABS:
		return c.fetch16()

	case AddrModeABSX:
		return c.indexed(c.fetch16(), c.x, acc)

	case AddrModeABSY:
		return c.indexed(c.fetch16(), c.y, acc)

	case AddrModeIND:
		ptr := c.fetch16()
		if c.set.cmos {
			c.idle(1)
			return c.read16(ptr)
		}
		// the high byte is read without carrying into the pointer's page
		hi := ptr&0xff00 | uint16(uint8(ptr)+1)
		return uint16(c.read8(ptr)) | uint16(c.read8(hi))<<8

	case AddrModeINDX:
		zp := c.fetch8()
		c.idle(1)
		return c.read16ZP(zp + c.x)

	case AddrModeINDY:
		return c.indexed(c.read16ZP(c.fetch8()), c.y, acc)

	case AddrModeZPIND:
		return c.read16ZP(c.fetch8())

	case AddrModeABSINDX:
		ptr := c.fetch16()
		c.idle(1)
		return c.read16(ptr + uint16(c.x))

	case AddrModeREL:
		offset := c.fetch8()
		return c.pc + uint16(int8(offset))
	}

	panic(&InvalidAddressingModeError{Mode: mode})
}

func (c *CPU) indexed(base uint16, index uint8, acc access) uint16 {
	addr := base + uint16(index)
	c.pageCrossed = isDiffPage(base, addr)
	if c.pageCrossed || acc == accessWrite {
		c.idle(1)
	}
	return addr
}

// operand returns the value an instruction reads.
func (c *CPU) operand(mode AddrMode) uint8 {
	switch mode {
	case AddrModeIMM:
		return c.fetch8()
	case AddrModeACC:
		return c.a
	case AddrModeIMP:
		panic(&InvalidAddressingModeError{Mode: mode})
	}
	return c.read8(c.address(mode, accessRead))
}
