package cpu

import "sort"

// Mnemonic identifies an operation independently of its addressing mode.
type Mnemonic uint8

const (
	ADC Mnemonic = iota // Add with Carry
	AND                 // Logical AND
	ASL                 // Arithmetic Shift Left
	BCC                 // Branch if Carry Clear
	BCS                 // Branch if Carry Set
	BEQ                 // Branch if Equal
	BIT                 // Bit Test
	BMI                 // Branch if Minus
	BNE                 // Branch if Not Equal
	BPL                 // Branch if Positive
	BRK                 // Force Interrupt
	BVC                 // Branch if Overflow Clear
	BVS                 // Branch if Overflow Set
	CLC                 // Clear Carry Flag
	CLD                 // Clear Decimal Mode
	CLI                 // Clear Interrupt Disable
	CLV                 // Clear Overflow Flag
	CMP                 // Compare
	CPX                 // Compare X Register
	CPY                 // Compare Y Register
	DEC                 // Decrement Memory
	DEX                 // Decrement X Register
	DEY                 // Decrement Y Register
	EOR                 // Exclusive OR
	INC                 // Increment Memory
	INX                 // Increment X Register
	INY                 // Increment Y Register
	JMP                 // Jump
	JSR                 // Jump to Subroutine
	LDA                 // Load Accumulator
	LDX                 // Load X Register
	LDY                 // Load Y Register
	LSR                 // Logical Shift Right
	NOP                 // No Operation
	ORA                 // Logical Inclusive OR
	PHA                 // Push Accumulator
	PHP                 // Push Processor Status
	PLA                 // Pull Accumulator
	PLP                 // Pull Processor Status
	ROL                 // Rotate Left
	ROR                 // Rotate Right
	RTI                 // Return from Interrupt
	RTS                 // Return from Subroutine
	SBC                 // Subtract with Carry
	SEC                 // Set Carry Flag
	SED                 // Set Decimal Flag
	SEI                 // Set Interrupt Disable
	STA                 // Store Accumulator
	STX                 // Store X Register
	STY                 // Store Y Register
	TAX                 // Transfer Accumulator to X
	TAY                 // Transfer Accumulator to Y
	TSX                 // Transfer Stack Pointer to X
	TXA                 // Transfer X to Accumulator
	TXS                 // Transfer X to Stack Pointer
	TYA                 // Transfer Y to Accumulator

	// 65C02
	BRA // Branch Always
	PHX // Push X Register
	PHY // Push Y Register
	PLX // Pull X Register
	PLY // Pull Y Register
	STZ // Store Zero
	TRB // Test and Reset Bits
	TSB // Test and Set Bits

	mnemonicCount
)

var mnemonicNames = [mnemonicCount]string{
	"ADC", "AND", "ASL", "BCC", "BCS", "BEQ", "BIT", "BMI",
	"BNE", "BPL", "BRK", "BVC", "BVS", "CLC", "CLD", "CLI",
	"CLV", "CMP", "CPX", "CPY", "DEC", "DEX", "DEY", "EOR",
	"INC", "INX", "INY", "JMP", "JSR", "LDA", "LDX", "LDY",
	"LSR", "NOP", "ORA", "PHA", "PHP", "PLA", "PLP", "ROL",
	"ROR", "RTI", "RTS", "SBC", "SEC", "SED", "SEI", "STA",
	"STX", "STY", "TAX", "TAY", "TSX", "TXA", "TXS", "TYA",
	"BRA", "PHX", "PHY", "PLX", "PLY", "STZ", "TRB", "TSB",
}

func (m Mnemonic) String() string {
	if m >= mnemonicCount {
		return "???"
	}
	return mnemonicNames[m]
}

// Instruction is one decoded opcode.
type Instruction struct {
	Opcode   uint8
	Mnemonic Mnemonic
	Mode     AddrMode
}

// Size returns the encoded length in bytes, opcode included.
func (in Instruction) Size() int {
	return 1 + in.Mode.OperandSize()
}

// InstructionSet maps opcodes to instructions for one CPU variant.
// It is never modified after construction.
type InstructionSet struct {
	name    string
	cmos    bool
	instrs  [0x100]Instruction
	defined [0x100]bool
	count   int
}

// add registers an instruction. A second registration of the same
// opcode replaces the first.
func (s *InstructionSet) add(in Instruction) {
	if !s.defined[in.Opcode] {
		s.count++
	}
	s.instrs[in.Opcode] = in
	s.defined[in.Opcode] = true
}

// Lookup returns the instruction for opcode, or an *UnknownOpcodeError.
func (s *InstructionSet) Lookup(opcode uint8) (Instruction, error) {
	if !s.defined[opcode] {
		return Instruction{}, &UnknownOpcodeError{Opcode: opcode}
	}
	return s.instrs[opcode], nil
}

// Find returns the opcode encoding mnemonic m in mode.
func (s *InstructionSet) Find(m Mnemonic, mode AddrMode) (uint8, bool) {
	for op := range s.instrs {
		if s.defined[op] && s.instrs[op].Mnemonic == m && s.instrs[op].Mode == mode {
			return uint8(op), true
		}
	}
	return 0, false
}

// Instructions returns every defined instruction ordered by opcode.
func (s *InstructionSet) Instructions() []Instruction {
	out := make([]Instruction, 0, s.count)
	for op := range s.instrs {
		if s.defined[op] {
			out = append(out, s.instrs[op])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Opcode < out[j].Opcode })
	return out
}

func (s *InstructionSet) Name() string { return s.name }
func (s *InstructionSet) Len() int     { return s.count }

// CMOS reports whether the set carries the 65C02 behaviour fixes.
func (s *InstructionSet) CMOS() bool { return s.cmos }

var base6502 = newInstructionSet("6502", false, nmosInstructions)

// Base6502 returns the documented NMOS 6502 instruction set.
func Base6502() *InstructionSet {
	return base6502
}

// Variant65C02 returns the 65C02 instruction set: a copy of the base
// table extended with the CMOS additions.
func Variant65C02() *InstructionSet {
	s := *base6502
	s.name = "65C02"
	s.cmos = true
	for _, in := range cmosInstructions {
		s.add(in)
	}
	return &s
}

func newInstructionSet(name string, cmos bool, instrs []Instruction) *InstructionSet {
	s := &InstructionSet{name: name, cmos: cmos}
	for _, in := range instrs {
		s.add(in)
	}
	return s
}

var nmosInstructions = []Instruction{
	{0x00, BRK, AddrModeIMP},
	{0x01, ORA, AddrModeINDX},
	{0x05, ORA, AddrModeZP},
	{0x06, ASL, AddrModeZP},
	{0x08, PHP, AddrModeIMP},
	{0x09, ORA, AddrModeIMM},
	{0x0a, ASL, AddrModeACC},
	{0x0d, ORA, AddrModeABS},
	{0x0e, ASL, AddrModeABS},
	{0x10, BPL, AddrModeREL},
	{0x11, ORA, AddrModeINDY},
	{0x15, ORA, AddrModeZPX},
	{0x16, ASL, AddrModeZPX},
	{0x18, CLC, AddrModeIMP},
	{0x19, ORA, AddrModeABSY},
	{0x1d, ORA, AddrModeABSX},
	{0x1e, ASL, AddrModeABSX},
	{0x20, JSR, AddrModeABS},
	{0x21, AND, AddrModeINDX},
	{0x24, BIT, AddrModeZP},
	{0x25, AND, AddrModeZP},
	{0x26, ROL, AddrModeZP},
	{0x28, PLP, AddrModeIMP},
	{0x29, AND, AddrModeIMM},
	{0x2a, ROL, AddrModeACC},
	{0x2c, BIT, AddrModeABS},
	{0x2d, AND, AddrModeABS},
	{0x2e, ROL, AddrModeABS},
	{0x30, BMI, AddrModeREL},
	{0x31, AND, AddrModeINDY},
	{0x35, AND, AddrModeZPX},
	{0x36, ROL, AddrModeZPX},
	{0x38, SEC, AddrModeIMP},
	{0x39, AND, AddrModeABSY},
	{0x3d, AND, AddrModeABSX},
	{0x3e, ROL, AddrModeABSX},
	{0x40, RTI, AddrModeIMP},
	{0x41, EOR, AddrModeINDX},
	{0x45, EOR, AddrModeZP},
	{0x46, LSR, AddrModeZP},
	{0x48, PHA, AddrModeIMP},
	{0x49, EOR, AddrModeIMM},
	{0x4a, LSR, AddrModeACC},
	{0x4c, JMP, AddrModeABS},
	{0x4d, EOR, AddrModeABS},
	{0x4e, LSR, AddrModeABS},
	{0x50, BVC, AddrModeREL},
	{0x51, EOR, AddrModeINDY},
	{0x55, EOR, AddrModeZPX},
	{0x56, LSR, AddrModeZPX},
	{0x58, CLI, AddrModeIMP},
	{0x59, EOR, AddrModeABSY},
	{0x5d, EOR, AddrModeABSX},
	{0x5e, LSR, AddrModeABSX},
	{0x60, RTS, AddrModeIMP},
	{0x61, ADC, AddrModeINDX},
	{0x65, ADC, AddrModeZP},
	{0x66, ROR, AddrModeZP},
	{0x68, PLA, AddrModeIMP},
	{0x69, ADC, AddrModeIMM},
	{0x6a, ROR, AddrModeACC},
	{0x6c, JMP, AddrModeIND},
	{0x6d, ADC, AddrModeABS},
	{0x6e, ROR, AddrModeABS},
	{0x70, BVS, AddrModeREL},
	{0x71, ADC, AddrModeINDY},
	{0x75, ADC, AddrModeZPX},
	{0x76, ROR, AddrModeZPX},
	{0x78, SEI, AddrModeIMP},
	{0x79, ADC, AddrModeABSY},
	{0x7d, ADC, AddrModeABSX},
	{0x7e, ROR, AddrModeABSX},
	{0x81, STA, AddrModeINDX},
	{0x84, STY, AddrModeZP},
	{0x85, STA, AddrModeZP},
	{0x86, STX, AddrModeZP},
	{0x88, DEY, AddrModeIMP},
	{0x8a, TXA, AddrModeIMP},
	{0x8c, STY, AddrModeABS},
	{0x8d, STA, AddrModeABS},
	{0x8e, STX, AddrModeABS},
	{0x90, BCC, AddrModeREL},
	{0x91, STA, AddrModeINDY},
	{0x94, STY, AddrModeZPX},
	{0x95, STA, AddrModeZPX},
	{0x96, STX, AddrModeZPY},
	{0x98, TYA, AddrModeIMP},
	{0x99, STA, AddrModeABSY},
	{0x9a, TXS, AddrModeIMP},
	{0x9d, STA, AddrModeABSX},
	{0xa0, LDY, AddrModeIMM},
	{0xa1, LDA, AddrModeINDX},
	{0xa2, LDX, AddrModeIMM},
	{0xa4, LDY, AddrModeZP},
	{0xa5, LDA, AddrModeZP},
	{0xa6, LDX, AddrModeZP},
	{0xa8, TAY, AddrModeIMP},
	{0xa9, LDA, AddrModeIMM},
	{0xaa, TAX, AddrModeIMP},
	{0xac, LDY, AddrModeABS},
	{0xad, LDA, AddrModeABS},
	{0xae, LDX, AddrModeABS},
	{0xb0, BCS, AddrModeREL},
	{0xb1, LDA, AddrModeINDY},
	{0xb4, LDY, AddrModeZPX},
	{0xb5, LDA, AddrModeZPX},
	{0xb6, LDX, AddrModeZPY},
	{0xb8, CLV, AddrModeIMP},
	{0xb9, LDA, AddrModeABSY},
	{0xba, TSX, AddrModeIMP},
	{0xbc, LDY, AddrModeABSX},
	{0xbd, LDA, AddrModeABSX},
	{0xbe, LDX, AddrModeABSY},
	{0xc0, CPY, AddrModeIMM},
	{0xc1, CMP, AddrModeINDX},
	{0xc4, CPY, AddrModeZP},
	{0xc5, CMP, AddrModeZP},
	{0xc6, DEC, AddrModeZP},
	{0xc8, INY, AddrModeIMP},
	{0xc9, CMP, AddrModeIMM},
	{0xca, DEX, AddrModeIMP},
	{0xcc, CPY, AddrModeABS},
	{0xcd, CMP, AddrModeABS},
	{0xce, DEC, AddrModeABS},
	{0xd0, BNE, AddrModeREL},
	{0xd1, CMP, AddrModeINDY},
	{0xd5, CMP, AddrModeZPX},
	{0xd6, DEC, AddrModeZPX},
	{0xd8, CLD, AddrModeIMP},
	{0xd9, CMP, AddrModeABSY},
	{0xdd, CMP, AddrModeABSX},
	{0xde, DEC, AddrModeABSX},
	{0xe0, CPX, AddrModeIMM},
	{0xe1, SBC, AddrModeINDX},
	{0xe4, CPX, AddrModeZP},
	{0xe5, SBC, AddrModeZP},
	{0xe6, INC, AddrModeZP},
	{0xe8, INX, AddrModeIMP},
	{0xe9, SBC, AddrModeIMM},
	{0xea, NOP, AddrModeIMP},
	{0xec, CPX, AddrModeABS},
	{0xed, SBC, AddrModeABS},
	{0xee, INC, AddrModeABS},
	{0xf0, BEQ, AddrModeREL},
	{0xf1, SBC, AddrModeINDY},
	{0xf5, SBC, AddrModeZPX},
	{0xf6, INC, AddrModeZPX},
	{0xf8, SED, AddrModeIMP},
	{0xf9, SBC, AddrModeABSY},
	{0xfd, SBC, AddrModeABSX},
	{0xfe, INC, AddrModeABSX},
}

var cmosInstructions = []Instruction{
	{0x04, TSB, AddrModeZP},
	{0x0c, TSB, AddrModeABS},
	{0x12, ORA, AddrModeZPIND},
	{0x14, TRB, AddrModeZP},
	{0x1a, INC, AddrModeACC},
	{0x1c, TRB, AddrModeABS},
	{0x32, AND, AddrModeZPIND},
	{0x34, BIT, AddrModeZPX},
	{0x3a, DEC, AddrModeACC},
	{0x3c, BIT, AddrModeABSX},
	{0x52, EOR, AddrModeZPIND},
	{0x5a, PHY, AddrModeIMP},
	{0x64, STZ, AddrModeZP},
	{0x72, ADC, AddrModeZPIND},
	{0x74, STZ, AddrModeZPX},
	{0x7a, PLY, AddrModeIMP},
	{0x7c, JMP, AddrModeABSINDX},
	{0x80, BRA, AddrModeREL},
	{0x89, BIT, AddrModeIMM},
	{0x92, STA, AddrModeZPIND},
	{0x9c, STZ, AddrModeABS},
	{0x9e, STZ, AddrModeABSX},
	{0xb2, LDA, AddrModeZPIND},
	{0xd2, CMP, AddrModeZPIND},
	{0xda, PHX, AddrModeIMP},
	{0xf2, SBC, AddrModeZPIND},
	{0xfa, PLX, AddrModeIMP},
}
