package cpu

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownOpcode matches every *UnknownOpcodeError.
	ErrUnknownOpcode = errors.New("unknown opcode")

	// ErrReentrant is returned when the CPU is driven from inside one of its observers.
	ErrReentrant = errors.New("cpu is already executing")

	// ErrNotReset is returned by Step and the interrupt lines before the first Reset.
	ErrNotReset = errors.New("cpu has not been reset")

	// ErrHalted is returned by Step after an unknown opcode until the next Reset.
	ErrHalted = errors.New("cpu halted")

	// ErrNotImplemented marks an instruction with no registered handler.
	ErrNotImplemented = errors.New("instruction not implemented")
)

// UnknownOpcodeError reports a fetched byte with no instruction in the active set.
type UnknownOpcodeError struct {
	Opcode  uint8
	Address uint16
}

func (e *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("unknown opcode $%02X at $%04X", e.Opcode, e.Address)
}

func (e *UnknownOpcodeError) Is(target error) bool {
	return target == ErrUnknownOpcode
}

// InvalidAddressingModeError is the panic value raised when a non-memory
// mode is resolved to an address. It always indicates a bug in the
// instruction table or in a handler.
type InvalidAddressingModeError struct {
	Mode AddrMode
}

func (e *InvalidAddressingModeError) Error() string {
	return fmt.Sprintf("addressing mode %s has no memory address", e.Mode)
}
