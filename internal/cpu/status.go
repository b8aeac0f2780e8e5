package cpu

// Status is the processor status register.
//
// The bits match the hardware layout: bit 5 is never stored,
// it only appears (as 1) in copies pushed to the stack.
type Status uint8

const (
	flagC Status = 1 << iota // Carry
	flagZ                    // Zero
	flagI                    // Interrupt Disable
	flagD                    // Decimal Mode
	flagB                    // Break Command
	flagU                    // Unused
	flagV                    // Overflow
	flagN                    // Negative
)

func (s Status) get(flag Status) bool {
	return s&flag > 0
}

func (s *Status) set(flag Status, v bool) {
	if v {
		*s |= flag
		return
	}
	*s &= ^flag
}

func (s Status) Carry() bool            { return s.get(flagC) }
func (s Status) Zero() bool             { return s.get(flagZ) }
func (s Status) InterruptDisable() bool { return s.get(flagI) }
func (s Status) Decimal() bool          { return s.get(flagD) }
func (s Status) Break() bool            { return s.get(flagB) }
func (s Status) Overflow() bool         { return s.get(flagV) }
func (s Status) Negative() bool         { return s.get(flagN) }

func (s *Status) SetCarry(v bool)            { s.set(flagC, v) }
func (s *Status) SetZero(v bool)             { s.set(flagZ, v) }
func (s *Status) SetInterruptDisable(v bool) { s.set(flagI, v) }
func (s *Status) SetDecimal(v bool)          { s.set(flagD, v) }
func (s *Status) SetBreak(v bool)            { s.set(flagB, v) }
func (s *Status) SetOverflow(v bool)         { s.set(flagV, v) }
func (s *Status) SetNegative(v bool)         { s.set(flagN, v) }

// ClearAll resets every flag to false.
func (s *Status) ClearAll() {
	*s = 0
}

// Byte returns the packed flags with bit 5 clear.
func (s Status) Byte() uint8 {
	return uint8(s &^ flagU)
}

// pushed is the value written to the stack by PHP, BRK and interrupts.
func (s Status) pushed(brk bool) uint8 {
	v := s | flagU
	v.set(flagB, brk)
	return uint8(v)
}

// pulled converts a byte read by PLP or RTI. B and bit 5 do not exist in
// the register itself, so they are dropped.
func pulled(v uint8) Status {
	return Status(v) &^ (flagB | flagU)
}
