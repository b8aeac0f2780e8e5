package cpu

type opFunc func(c *CPU, mode AddrMode)

// handlers maps every mnemonic to its semantics. A nil entry makes Step
// fail with ErrNotImplemented.
var handlers = [mnemonicCount]opFunc{
	ADC: (*CPU).adc,
	AND: (*CPU).and,
	ASL: (*CPU).asl,
	BCC: (*CPU).bcc,
	BCS: (*CPU).bcs,
	BEQ: (*CPU).beq,
	BIT: (*CPU).bit,
	BMI: (*CPU).bmi,
	BNE: (*CPU).bne,
	BPL: (*CPU).bpl,
	BRK: (*CPU).brk,
	BVC: (*CPU).bvc,
	BVS: (*CPU).bvs,
	CLC: (*CPU).clc,
	CLD: (*CPU).cld,
	CLI: (*CPU).cli,
	CLV: (*CPU).clv,
	CMP: (*CPU).cmp,
	CPX: (*CPU).cpx,
	CPY: (*CPU).cpy,
	DEC: (*CPU).dec,
	DEX: (*CPU).dex,
	DEY: (*CPU).dey,
	EOR: (*CPU).eor,
	INC: (*CPU).inc,
	INX: (*CPU).inx,
	INY: (*CPU).iny,
	JMP: (*CPU).jmp,
	JSR: (*CPU).jsr,
	LDA: (*CPU).lda,
	LDX: (*CPU).ldx,
	LDY: (*CPU).ldy,
	LSR: (*CPU).lsr,
	NOP: (*CPU).nop,
	ORA: (*CPU).ora,
	PHA: (*CPU).pha,
	PHP: (*CPU).php,
	PLA: (*CPU).pla,
	PLP: (*CPU).plp,
	ROL: (*CPU).rol,
	ROR: (*CPU).ror,
	RTI: (*CPU).rti,
	RTS: (*CPU).rts,
	SBC: (*CPU).sbc,
	SEC: (*CPU).sec,
	SED: (*CPU).sed,
	SEI: (*CPU).sei,
	STA: (*CPU).sta,
	STX: (*CPU).stx,
	STY: (*CPU).sty,
	TAX: (*CPU).tax,
	TAY: (*CPU).tay,
	TSX: (*CPU).tsx,
	TXA: (*CPU).txa,
	TXS: (*CPU).txs,
	TYA: (*CPU).tya,
	BRA: (*CPU).bra,
	PHX: (*CPU).phx,
	PHY: (*CPU).phy,
	PLX: (*CPU).plx,
	PLY: (*CPU).ply,
	STZ: (*CPU).stz,
	TRB: (*CPU).trb,
	TSB: (*CPU).tsb,
}

func isSameSign(a, b uint8) bool {
	return (a^b)&0x80 == 0
}

// modify runs a read-modify-write cycle on the accumulator or on memory.
// Memory targets spend one extra cycle writing back the unmodified value.
func (c *CPU) modify(mode AddrMode, fn func(uint8) uint8) {
	if mode == AddrModeACC {
		c.a = fn(c.a)
		return
	}
	addr := c.address(mode, accessWrite)
	v := c.read8(addr)
	c.idle(1)
	c.write8(addr, fn(v))
}

func (c *CPU) store(mode AddrMode, v uint8) {
	c.write8(c.address(mode, accessWrite), v)
}

// branchIf costs one cycle when taken and another when the target is on
// a different page than the next instruction.
func (c *CPU) branchIf(mode AddrMode, condition bool) {
	target := c.address(mode, accessRead)
	if !condition {
		return
	}
	c.idle(1)
	if isDiffPage(c.pc, target) {
		c.idle(1)
	}
	c.pc = target
}

func (c *CPU) compare(reg, v uint8) {
	c.p.SetCarry(reg >= v)
	c.setFlagsZN(reg - v)
}

// Add with Carry
// A = A + M + C
//
// Flags affected: C, Z, N, V
func (c *CPU) adc(mode AddrMode) {
	v := c.operand(mode)
	if c.p.Decimal() {
		c.adcDecimal(v)
		return
	}
	c.adcBinary(v)
}

func (c *CPU) adcBinary(v uint8) {
	r16 := uint16(c.a) + uint16(v)
	if c.p.Carry() {
		r16++
	}
	r8 := uint8(r16)
	c.p.SetCarry(r16 > 0xff)
	c.p.SetOverflow(isSameSign(c.a, v) && !isSameSign(c.a, r8))
	c.setFlagsZN(r8)
	c.a = r8
}

// NMOS decimal add: Z comes from the binary sum, N and V from the
// intermediate high digit before it is adjusted.
func (c *CPU) adcDecimal(v uint8) {
	carry := uint16(0)
	if c.p.Carry() {
		carry = 1
	}
	a, m := uint16(c.a), uint16(v)

	lo := a&0x0f + m&0x0f + carry
	if lo > 0x09 {
		lo += 0x06
	}
	hi := a>>4 + m>>4
	if lo > 0x0f {
		hi++
	}

	c.p.SetZero(uint8(a+m+carry) == 0)
	c.p.SetNegative(hi&0x08 != 0)
	c.p.SetOverflow((a^m)&0x80 == 0 && (a^hi<<4)&0x80 != 0)
	if hi > 0x09 {
		hi += 0x06
	}
	c.p.SetCarry(hi > 0x0f)
	c.a = uint8(hi<<4) | uint8(lo&0x0f)
}

// Subtract with Carry
// A = A - M - (1 - C)
//
// Flags affected: C, Z, N, V
func (c *CPU) sbc(mode AddrMode) {
	v := c.operand(mode)
	if c.p.Decimal() {
		c.sbcDecimal(v)
		return
	}
	c.adcBinary(^v)
}

// NMOS decimal subtract: every flag comes from the binary difference.
func (c *CPU) sbcDecimal(v uint8) {
	borrow := 1
	if c.p.Carry() {
		borrow = 0
	}
	a, m := int(c.a), int(v)

	bin := a - m - borrow
	lo := a&0x0f - m&0x0f - borrow
	hi := a>>4 - m>>4
	if lo < 0 {
		lo -= 0x06
		hi--
	}
	if hi < 0 {
		hi -= 0x06
	}

	r8 := uint8(bin)
	c.p.SetCarry(bin >= 0)
	c.p.SetOverflow((a^m)&0x80 != 0 && (a^int(r8))&0x80 != 0)
	c.setFlagsZN(r8)
	c.a = uint8(hi<<4) | uint8(lo&0x0f)
}

// Logical AND
// A = A & M
//
// Flags affected: Z, N
func (c *CPU) and(mode AddrMode) {
	c.a &= c.operand(mode)
	c.setFlagsZN(c.a)
}

// Arithmetic Shift Left
// C <- (A or M)7, (A or M) << 1
//
// Flags affected: C, Z, N
func (c *CPU) asl(mode AddrMode) {
	c.modify(mode, func(v uint8) uint8 {
		c.p.SetCarry(v&0x80 > 0)
		r := v << 1
		c.setFlagsZN(r)
		return r
	})
}

func (c *CPU) bcc(mode AddrMode) { c.branchIf(mode, !c.p.Carry()) }
func (c *CPU) bcs(mode AddrMode) { c.branchIf(mode, c.p.Carry()) }
func (c *CPU) beq(mode AddrMode) { c.branchIf(mode, c.p.Zero()) }
func (c *CPU) bmi(mode AddrMode) { c.branchIf(mode, c.p.Negative()) }
func (c *CPU) bne(mode AddrMode) { c.branchIf(mode, !c.p.Zero()) }
func (c *CPU) bpl(mode AddrMode) { c.branchIf(mode, !c.p.Negative()) }
func (c *CPU) bvc(mode AddrMode) { c.branchIf(mode, !c.p.Overflow()) }
func (c *CPU) bvs(mode AddrMode) { c.branchIf(mode, c.p.Overflow()) }
func (c *CPU) bra(mode AddrMode) { c.branchIf(mode, true) }

// Bit Test
// A & M, N <- M7, V <- M6
//
// Flags affected: Z, N, V. The immediate form only affects Z.
func (c *CPU) bit(mode AddrMode) {
	v := c.operand(mode)
	c.p.SetZero(c.a&v == 0)
	if mode == AddrModeIMM {
		return
	}
	c.p.SetNegative(v&0x80 > 0)
	c.p.SetOverflow(v&0x40 > 0)
}

// Force Interrupt
// The byte after BRK is skipped, PC and status (with B set) are pushed
// and execution continues at the IRQ vector.
//
// Flags affected: I (and D on 65C02)
func (c *CPU) brk(_ AddrMode) {
	c.pc++
	c.stackPush16(c.pc)
	c.stackPush8(c.p.pushed(true))
	c.p.SetInterruptDisable(true)
	if c.set.cmos {
		c.p.SetDecimal(false)
	}
	c.pc = c.read16(vectorIRQ)
}

func (c *CPU) clc(_ AddrMode) { c.p.SetCarry(false) }
func (c *CPU) cld(_ AddrMode) { c.p.SetDecimal(false) }
func (c *CPU) cli(_ AddrMode) { c.p.SetInterruptDisable(false) }
func (c *CPU) clv(_ AddrMode) { c.p.SetOverflow(false) }

// Compare
// A - M
//
// Flags affected: C, Z, N
func (c *CPU) cmp(mode AddrMode) { c.compare(c.a, c.operand(mode)) }
func (c *CPU) cpx(mode AddrMode) { c.compare(c.x, c.operand(mode)) }
func (c *CPU) cpy(mode AddrMode) { c.compare(c.y, c.operand(mode)) }

// Decrement Memory
// M - 1
//
// Flags affected: Z, N
func (c *CPU) dec(mode AddrMode) {
	c.modify(mode, func(v uint8) uint8 {
		v--
		c.setFlagsZN(v)
		return v
	})
}

func (c *CPU) dex(_ AddrMode) {
	c.x--
	c.setFlagsZN(c.x)
}

func (c *CPU) dey(_ AddrMode) {
	c.y--
	c.setFlagsZN(c.y)
}

// Exclusive OR
// A ^ M
//
// Flags affected: Z, N
func (c *CPU) eor(mode AddrMode) {
	c.a ^= c.operand(mode)
	c.setFlagsZN(c.a)
}

// Increment Memory
// M + 1
//
// Flags affected: Z, N
func (c *CPU) inc(mode AddrMode) {
	c.modify(mode, func(v uint8) uint8 {
		v++
		c.setFlagsZN(v)
		return v
	})
}

func (c *CPU) inx(_ AddrMode) {
	c.x++
	c.setFlagsZN(c.x)
}

func (c *CPU) iny(_ AddrMode) {
	c.y++
	c.setFlagsZN(c.y)
}

// Jump
// PC <- address
//
// Flags affected: None
func (c *CPU) jmp(mode AddrMode) {
	c.pc = c.address(mode, accessRead)
}

// Jump to Subroutine
// The address of the last byte of JSR is pushed, RTS adds one back.
//
// Flags affected: None
func (c *CPU) jsr(mode AddrMode) {
	target := c.address(mode, accessRead)
	c.idle(1)
	c.stackPush16(c.pc - 1)
	c.pc = target
}

// Load Accumulator
// A <- M
//
// Flags affected: Z, N
func (c *CPU) lda(mode AddrMode) {
	c.a = c.operand(mode)
	c.setFlagsZN(c.a)
}

func (c *CPU) ldx(mode AddrMode) {
	c.x = c.operand(mode)
	c.setFlagsZN(c.x)
}

func (c *CPU) ldy(mode AddrMode) {
	c.y = c.operand(mode)
	c.setFlagsZN(c.y)
}

// Logical Shift Right
// C <- (A or M)0, (A or M) >> 1
//
// Flags affected: C, Z, N
func (c *CPU) lsr(mode AddrMode) {
	c.modify(mode, func(v uint8) uint8 {
		c.p.SetCarry(v&0x01 > 0)
		r := v >> 1
		c.setFlagsZN(r)
		return r
	})
}

func (c *CPU) nop(_ AddrMode) {}

// Logical Inclusive OR
// A | M
//
// Flags affected: Z, N
func (c *CPU) ora(mode AddrMode) {
	c.a |= c.operand(mode)
	c.setFlagsZN(c.a)
}

func (c *CPU) pha(_ AddrMode) { c.stackPush8(c.a) }
func (c *CPU) phx(_ AddrMode) { c.stackPush8(c.x) }
func (c *CPU) phy(_ AddrMode) { c.stackPush8(c.y) }

// Push Processor Status
// The pushed copy has B and bit 5 set.
func (c *CPU) php(_ AddrMode) { c.stackPush8(c.p.pushed(true)) }

// pull spends a cycle incrementing SP before the read.
func (c *CPU) pull() uint8 {
	c.idle(1)
	return c.stackPop8()
}

func (c *CPU) pla(_ AddrMode) {
	c.a = c.pull()
	c.setFlagsZN(c.a)
}

func (c *CPU) plx(_ AddrMode) {
	c.x = c.pull()
	c.setFlagsZN(c.x)
}

func (c *CPU) ply(_ AddrMode) {
	c.y = c.pull()
	c.setFlagsZN(c.y)
}

func (c *CPU) plp(_ AddrMode) {
	c.p = pulled(c.pull())
}

// Rotate Left
// C <- (A or M)7, (A or M) << 1 | C
//
// Flags affected: C, Z, N
func (c *CPU) rol(mode AddrMode) {
	c.modify(mode, func(v uint8) uint8 {
		r := v << 1
		if c.p.Carry() {
			r |= 0x01
		}
		c.p.SetCarry(v&0x80 > 0)
		c.setFlagsZN(r)
		return r
	})
}

// Rotate Right
// C <- (A or M)0, C << 7 | (A or M) >> 1
//
// Flags affected: C, Z, N
func (c *CPU) ror(mode AddrMode) {
	c.modify(mode, func(v uint8) uint8 {
		r := v >> 1
		if c.p.Carry() {
			r |= 0x80
		}
		c.p.SetCarry(v&0x01 > 0)
		c.setFlagsZN(r)
		return r
	})
}

// Return from Interrupt
// Status is pulled first, then PC.
func (c *CPU) rti(_ AddrMode) {
	c.p = pulled(c.pull())
	c.pc = c.stackPop16()
}

// Return from Subroutine
// PC <- pulled address + 1
func (c *CPU) rts(_ AddrMode) {
	addr := c.pull()
	hi := c.stackPop8()
	c.idle(1)
	c.pc = (uint16(addr) | uint16(hi)<<8) + 1
}

func (c *CPU) sec(_ AddrMode) { c.p.SetCarry(true) }
func (c *CPU) sed(_ AddrMode) { c.p.SetDecimal(true) }
func (c *CPU) sei(_ AddrMode) { c.p.SetInterruptDisable(true) }

func (c *CPU) sta(mode AddrMode) { c.store(mode, c.a) }
func (c *CPU) stx(mode AddrMode) { c.store(mode, c.x) }
func (c *CPU) sty(mode AddrMode) { c.store(mode, c.y) }
func (c *CPU) stz(mode AddrMode) { c.store(mode, 0) }

func (c *CPU) tax(_ AddrMode) {
	c.x = c.a
	c.setFlagsZN(c.x)
}

func (c *CPU) tay(_ AddrMode) {
	c.y = c.a
	c.setFlagsZN(c.y)
}

func (c *CPU) tsx(_ AddrMode) {
	c.x = c.sp
	c.setFlagsZN(c.x)
}

func (c *CPU) txa(_ AddrMode) {
	c.a = c.x
	c.setFlagsZN(c.a)
}

// TXS is the only transfer that leaves the flags alone.
func (c *CPU) txs(_ AddrMode) {
	c.sp = c.x
}

func (c *CPU) tya(_ AddrMode) {
	c.a = c.y
	c.setFlagsZN(c.a)
}

// Test and Reset Bits
// Z <- A & M == 0, M <- M & ^A
func (c *CPU) trb(mode AddrMode) {
	c.modify(mode, func(v uint8) uint8 {
		c.p.SetZero(c.a&v == 0)
		return v &^ c.a
	})
}

// Test and Set Bits
// Z <- A & M == 0, M <- M | A
func (c *CPU) tsb(mode AddrMode) {
	c.modify(mode, func(v uint8) uint8 {
		c.p.SetZero(c.a&v == 0)
		return v | c.a
	})
}
