// Package asm builds small machine-code programs one instruction at a
// time. It has no parser: each method names an addressing mode and the
// encoding is looked up in the instruction set.
package asm

import (
	"errors"
	"fmt"

	"github.com/nevisdale/mos6502/internal/cpu"
	"github.com/nevisdale/mos6502/internal/loader"
)

var ErrNoEncoding = errors.New("no encoding for instruction")

type Assembler struct {
	origin uint16
	set    *cpu.InstructionSet
	bytes  []uint8
	err    error
}

// New returns an assembler emitting code for set, starting at origin.
// A nil set means the base 6502 table.
func New(origin uint16, set *cpu.InstructionSet) *Assembler {
	if set == nil {
		set = cpu.Base6502()
	}
	return &Assembler{origin: origin, set: set}
}

// PC returns the address the next instruction is assembled at.
func (a *Assembler) PC() uint16 {
	return a.origin + uint16(len(a.bytes))
}

func (a *Assembler) emit(m cpu.Mnemonic, mode cpu.AddrMode, operand ...uint8) *Assembler {
	op, ok := a.set.Find(m, mode)
	if !ok {
		if a.err == nil {
			a.err = fmt.Errorf("%w: %s %s at $%04X", ErrNoEncoding, m, mode, a.PC())
		}
		return a
	}
	a.bytes = append(a.bytes, op)
	a.bytes = append(a.bytes, operand...)
	return a
}

func (a *Assembler) emit16(m cpu.Mnemonic, mode cpu.AddrMode, addr uint16) *Assembler {
	return a.emit(m, mode, uint8(addr), uint8(addr>>8))
}

func (a *Assembler) Imm(m cpu.Mnemonic, v uint8) *Assembler { return a.emit(m, cpu.AddrModeIMM, v) }

// ImmSigned emits an immediate operand given as a signed value.
func (a *Assembler) ImmSigned(m cpu.Mnemonic, v int8) *Assembler {
	return a.emit(m, cpu.AddrModeIMM, uint8(v))
}

func (a *Assembler) ZP(m cpu.Mnemonic, zp uint8) *Assembler  { return a.emit(m, cpu.AddrModeZP, zp) }
func (a *Assembler) ZPX(m cpu.Mnemonic, zp uint8) *Assembler { return a.emit(m, cpu.AddrModeZPX, zp) }
func (a *Assembler) ZPY(m cpu.Mnemonic, zp uint8) *Assembler { return a.emit(m, cpu.AddrModeZPY, zp) }
func (a *Assembler) IndX(m cpu.Mnemonic, zp uint8) *Assembler {
	return a.emit(m, cpu.AddrModeINDX, zp)
}
func (a *Assembler) IndY(m cpu.Mnemonic, zp uint8) *Assembler {
	return a.emit(m, cpu.AddrModeINDY, zp)
}
func (a *Assembler) ZPInd(m cpu.Mnemonic, zp uint8) *Assembler {
	return a.emit(m, cpu.AddrModeZPIND, zp)
}

func (a *Assembler) Abs(m cpu.Mnemonic, addr uint16) *Assembler {
	return a.emit16(m, cpu.AddrModeABS, addr)
}
func (a *Assembler) AbsX(m cpu.Mnemonic, addr uint16) *Assembler {
	return a.emit16(m, cpu.AddrModeABSX, addr)
}
func (a *Assembler) AbsY(m cpu.Mnemonic, addr uint16) *Assembler {
	return a.emit16(m, cpu.AddrModeABSY, addr)
}
func (a *Assembler) Ind(m cpu.Mnemonic, addr uint16) *Assembler {
	return a.emit16(m, cpu.AddrModeIND, addr)
}
func (a *Assembler) AbsIndX(m cpu.Mnemonic, addr uint16) *Assembler {
	return a.emit16(m, cpu.AddrModeABSINDX, addr)
}

// Rel emits a branch. offset is relative to the next instruction.
func (a *Assembler) Rel(m cpu.Mnemonic, offset int8) *Assembler {
	return a.emit(m, cpu.AddrModeREL, uint8(offset))
}

func (a *Assembler) Acc(m cpu.Mnemonic) *Assembler { return a.emit(m, cpu.AddrModeACC) }
func (a *Assembler) Imp(m cpu.Mnemonic) *Assembler { return a.emit(m, cpu.AddrModeIMP) }

// Byte emits raw data.
func (a *Assembler) Byte(b ...uint8) *Assembler {
	a.bytes = append(a.bytes, b...)
	return a
}

// Assemble returns the program built so far, or the first encoding error.
func (a *Assembler) Assemble() (loader.Program, error) {
	if a.err != nil {
		return loader.Program{}, a.err
	}
	return loader.Program{
		Origin: a.origin,
		Bytes:  append([]uint8(nil), a.bytes...),
	}, nil
}

// MustAssemble is Assemble for programs known to be valid. It panics on
// an encoding error.
func (a *Assembler) MustAssemble() loader.Program {
	p, err := a.Assemble()
	if err != nil {
		panic(err)
	}
	return p
}

// Demo returns the built-in demo program: LDA #-42, LDX #42, BRK.
func Demo(origin uint16) loader.Program {
	return New(origin, nil).
		ImmSigned(cpu.LDA, -42).
		Imm(cpu.LDX, 42).
		Imp(cpu.BRK).
		MustAssemble()
}
