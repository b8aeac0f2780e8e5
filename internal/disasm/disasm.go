package disasm

import (
	"fmt"

	"github.com/nevisdale/mos6502/internal/cpu"
)

type Reader interface {
	Read8(addr uint16) uint8
}

// Line is one decoded instruction.
type Line struct {
	Address     uint16
	Instruction cpu.Instruction
	Bytes       []uint8 // opcode followed by operands
	Known       bool
}

// Size returns the number of bytes the line covers.
func (l Line) Size() int {
	return len(l.Bytes)
}

func (l Line) String() string {
	if !l.Known {
		return fmt.Sprintf("$%04X: ???", l.Address)
	}
	return fmt.Sprintf("$%04X: %s {%s}", l.Address, Format(l.Instruction, l.Bytes[1:], l.Address), l.Instruction.Mode)
}

// Format renders an instruction in assembler syntax. addr is the address
// of the opcode, needed to resolve branch targets.
func Format(in cpu.Instruction, operands []uint8, addr uint16) string {
	var lo, hi uint8
	if len(operands) > 0 {
		lo = operands[0]
	}
	if len(operands) > 1 {
		hi = operands[1]
	}
	word := uint16(lo) | uint16(hi)<<8
	name := in.Mnemonic.String()

	switch in.Mode {
	case cpu.AddrModeIMM:
		return fmt.Sprintf("%s #$%02X", name, lo)
	case cpu.AddrModeZP:
		return fmt.Sprintf("%s $%02X", name, lo)
	case cpu.AddrModeZPX:
		return fmt.Sprintf("%s $%02X,X", name, lo)
	case cpu.AddrModeZPY:
		return fmt.Sprintf("%s $%02X,Y", name, lo)
	case cpu.AddrModeABS:
		return fmt.Sprintf("%s $%04X", name, word)
	case cpu.AddrModeABSX:
		return fmt.Sprintf("%s $%04X,X", name, word)
	case cpu.AddrModeABSY:
		return fmt.Sprintf("%s $%04X,Y", name, word)
	case cpu.AddrModeIND:
		return fmt.Sprintf("%s ($%04X)", name, word)
	case cpu.AddrModeINDX:
		return fmt.Sprintf("%s ($%02X,X)", name, lo)
	case cpu.AddrModeINDY:
		return fmt.Sprintf("%s ($%02X),Y", name, lo)
	case cpu.AddrModeZPIND:
		return fmt.Sprintf("%s ($%02X)", name, lo)
	case cpu.AddrModeABSINDX:
		return fmt.Sprintf("%s ($%04X,X)", name, word)
	case cpu.AddrModeREL:
		// the offset is relative to the next instruction
		target := addr + 2 + uint16(int8(lo))
		return fmt.Sprintf("%s $%04X", name, target)
	case cpu.AddrModeACC:
		return name + " A"
	}
	return name
}

// Decode reads the instruction at addr. Bytes that do not decode yield a
// one byte line with Known set to false.
func Decode(set *cpu.InstructionSet, mem Reader, addr uint16) Line {
	opcode := mem.Read8(addr)
	in, err := set.Lookup(opcode)
	if err != nil {
		return Line{Address: addr, Bytes: []uint8{opcode}}
	}

	b := make([]uint8, in.Size())
	for i := range b {
		b[i] = mem.Read8(addr + uint16(i))
	}
	return Line{Address: addr, Instruction: in, Bytes: b, Known: true}
}

// Range decodes count consecutive instructions starting at from.
func Range(set *cpu.InstructionSet, mem Reader, from uint16, count int) []Line {
	lines := make([]Line, 0, max(count, 0))
	addr := from
	for range count {
		l := Decode(set, mem, addr)
		lines = append(lines, l)
		addr += uint16(l.Size())
	}
	return lines
}

// Map returns the address and text of every instruction from $0000 to
// $FFFF, decoding linearly from $0000.
func Map(set *cpu.InstructionSet, mem Reader) map[uint16]string {
	disasm := make(map[uint16]string, 0x10000)

	addr := uint32(0)
	for addr <= 0xffff {
		l := Decode(set, mem, uint16(addr))
		disasm[l.Address] = l.String()
		addr += uint32(l.Size())
	}
	return disasm
}
