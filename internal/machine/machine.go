package machine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/nevisdale/mos6502/internal/bus"
	"github.com/nevisdale/mos6502/internal/clock"
	"github.com/nevisdale/mos6502/internal/cpu"
	"github.com/nevisdale/mos6502/internal/disasm"
	"github.com/nevisdale/mos6502/internal/loader"
)

const (
	// DefaultCyclesPerFrame is roughly 1 MHz at 60 frames per second.
	DefaultCyclesPerFrame = 1_000_000 / 60

	historySize = 16
)

// StopReason tells why Run returned.
type StopReason uint8

const (
	StopLimit StopReason = iota
	StopBreakpoint
	StopHalted
	StopCanceled
)

func (r StopReason) String() string {
	switch r {
	case StopLimit:
		return "step limit reached"
	case StopBreakpoint:
		return "breakpoint"
	case StopHalted:
		return "cpu halted"
	case StopCanceled:
		return "canceled"
	}
	return "unknown"
}

type Config struct {
	// Set defaults to the base 6502 table.
	Set *cpu.InstructionSet
	// Period is the throttle delay per cycle, zero runs unthrottled.
	Period time.Duration
	// CyclesPerFrame is the budget of one Tic, defaults to DefaultCyclesPerFrame.
	CyclesPerFrame uint64
}

// Machine wires memory, clock and CPU together and adds the controls a
// debugger front-end needs.
type Machine struct {
	mem *bus.Memory
	clk *clock.Clock
	cpu *cpu.CPU

	breakpoints    *Breakpoints
	cyclesPerFrame uint64

	paused  bool
	oneStep bool
	err     error

	history    [historySize]string
	historyLen int
	historyPos int
}

func New(cfg Config) *Machine {
	if cfg.CyclesPerFrame == 0 {
		cfg.CyclesPerFrame = DefaultCyclesPerFrame
	}

	m := &Machine{
		mem:            bus.NewMemory(),
		clk:            clock.New(cfg.Period),
		breakpoints:    newBreakpoints(),
		cyclesPerFrame: cfg.CyclesPerFrame,
	}
	m.cpu = cpu.New(m.mem, m.clk, cfg.Set)
	m.cpu.Subscribe(cpu.ObserverFuncs{After: m.record})
	return m
}

func (m *Machine) Memory() *bus.Memory       { return m.mem }
func (m *Machine) CPU() *cpu.CPU             { return m.cpu }
func (m *Machine) Clock() *clock.Clock       { return m.clk }
func (m *Machine) Breakpoints() *Breakpoints { return m.breakpoints }
func (m *Machine) Paused() bool              { return m.paused }

// Err returns the error that stopped the last Tic, if any.
func (m *Machine) Err() error {
	return m.err
}

// Load clears the memory, copies p into it and resets the CPU.
func (m *Machine) Load(p loader.Program) error {
	m.mem.Clear()
	loader.Load(p, m.mem)
	return m.Reset()
}

func (m *Machine) Reset() error {
	if err := m.cpu.Reset(); err != nil {
		return fmt.Errorf("couldn't reset the cpu: %w", err)
	}
	m.err = nil
	m.oneStep = false
	m.historyLen = 0
	m.historyPos = 0
	return nil
}

// Step executes one instruction.
func (m *Machine) Step() (uint8, error) {
	return m.cpu.Step()
}

// Run executes up to limit instructions, or without limit when limit is
// not positive. It stops before an instruction with a breakpoint, except
// for the first one so a stopped run can be resumed.
func (m *Machine) Run(ctx context.Context, limit int) (StopReason, error) {
	for n := 0; limit <= 0 || n < limit; n++ {
		if err := ctx.Err(); err != nil {
			return StopCanceled, err
		}
		if n > 0 && m.breakpoints.Has(m.cpu.PC()) {
			return StopBreakpoint, nil
		}
		if _, err := m.cpu.Step(); err != nil {
			if errors.Is(err, cpu.ErrUnknownOpcode) || errors.Is(err, cpu.ErrHalted) {
				return StopHalted, err
			}
			return StopHalted, fmt.Errorf("couldn't step: %w", err)
		}
	}
	return StopLimit, nil
}

// TogglePause stops or resumes Tic.
func (m *Machine) TogglePause() {
	m.paused = !m.paused
	m.oneStep = false
}

// OneStepAndStop pauses the machine after the next instruction.
func (m *Machine) OneStepAndStop() {
	m.paused = true
	m.oneStep = true
}

// Tic runs one frame: a single instruction after OneStepAndStop, nothing
// while paused, otherwise instructions until the frame budget is used.
// A breakpoint or an error pauses the machine.
func (m *Machine) Tic() {
	if m.paused && !m.oneStep {
		return
	}
	if m.oneStep {
		m.oneStep = false
		m.stepOrPause()
		return
	}

	start := m.clk.Cycles()
	for first := true; m.clk.Cycles()-start < m.cyclesPerFrame; first = false {
		if !first && m.breakpoints.Has(m.cpu.PC()) {
			m.paused = true
			return
		}
		if !m.stepOrPause() {
			return
		}
	}
}

func (m *Machine) stepOrPause() bool {
	if _, err := m.cpu.Step(); err != nil {
		m.paused = true
		if m.err == nil {
			log.Printf("machine stopped at $%04X: %s", m.cpu.PC(), err)
		}
		m.err = err
		return false
	}
	return true
}

// Disassemble decodes count instructions starting at from.
func (m *Machine) Disassemble(from uint16, count int) []disasm.Line {
	return disasm.Range(m.cpu.InstructionSet(), m.mem, from, count)
}

func (m *Machine) record(e cpu.AfterEvent) {
	m.history[m.historyPos] = fmt.Sprintf("$%04X: %s", e.Address, disasm.Format(e.Instruction, e.Operands, e.Address))
	m.historyPos = (m.historyPos + 1) % historySize
	if m.historyLen < historySize {
		m.historyLen++
	}
}

// History returns the most recently executed instructions, oldest first.
func (m *Machine) History() []string {
	out := make([]string, 0, m.historyLen)
	start := (m.historyPos - m.historyLen + historySize) % historySize
	for i := range m.historyLen {
		out = append(out, m.history[(start+i)%historySize])
	}
	return out
}
