package cpu

// Registers is a snapshot of the programmer-visible CPU state.
type Registers struct {
	PC uint16
	SP uint8
	A  uint8
	X  uint8
	Y  uint8
	P  Status
}

// BeforeEvent is delivered after an opcode is decoded and before it executes.
type BeforeEvent struct {
	Address     uint16
	Instruction Instruction
}

// AfterEvent is delivered once an instruction has finished.
type AfterEvent struct {
	Address     uint16
	Instruction Instruction
	Operands    []uint8 // operand bytes fetched after the opcode
	Cycles      uint8   // cycles consumed, opcode fetch included
	Registers   Registers
}

// Observer receives instruction notifications synchronously from Step.
// Observers may read CPU state but must not drive the CPU.
type Observer interface {
	BeforeInstruction(BeforeEvent)
	AfterInstruction(AfterEvent)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	Before func(BeforeEvent)
	After  func(AfterEvent)
}

func (o ObserverFuncs) BeforeInstruction(e BeforeEvent) {
	if o.Before != nil {
		o.Before(e)
	}
}

func (o ObserverFuncs) AfterInstruction(e AfterEvent) {
	if o.After != nil {
		o.After(e)
	}
}
