package ui

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/nevisdale/mos6502/internal/format"
	"github.com/nevisdale/mos6502/internal/machine"
)

// P - pause
// R - one step and stop
// B - toggle a breakpoint at PC
// X - reset
// PageUp/PageDown - scroll the memory view

const (
	charWidth  = 6
	lineHeight = 16

	panelWidth  = 52 * charWidth
	panelHeight = 30 * lineHeight
	memoryRows  = 16

	disasmAhead = 12
)

var (
	panelColor  = color.RGBA{50, 50, 50, 255}
	headerColor = color.RGBA{80, 80, 120, 255}
)

type UI struct {
	m *machine.Machine

	memPage uint8
	status  string
}

func New(m *machine.Machine) *UI {
	return &UI{
		m:       m,
		memPage: uint8(m.CPU().PC() >> 8),
	}
}

func (ui *UI) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		ui.m.TogglePause()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		ui.m.OneStepAndStop()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		pc := ui.m.CPU().PC()
		if ui.m.Breakpoints().Toggle(pc) {
			ui.status = fmt.Sprintf("breakpoint set at $%04X", pc)
		} else {
			ui.status = fmt.Sprintf("breakpoint cleared at $%04X", pc)
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyX) {
		if err := ui.m.Reset(); err != nil {
			return err
		}
		ui.status = "reset"
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyPageUp) {
		ui.memPage--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPageDown) {
		ui.memPage++
	}

	ui.m.Tic()
	if err := ui.m.Err(); err != nil {
		ui.status = err.Error()
	}
	return nil
}

func (ui *UI) Draw(screen *ebiten.Image) {
	cpu := ui.m.CPU()

	var left strings.Builder
	fmt.Fprintf(&left, " FPS: %0.0f  %s\n", ebiten.ActualFPS(), cpu.InstructionSet().Name())
	fmt.Fprintf(&left, " STATE: %s\n", ui.state())
	fmt.Fprintf(&left, " FLAGS: %s\n", format.Flags(cpu.Status()))
	fmt.Fprintf(&left, " PC: $%04X  SP: $%02X\n", cpu.PC(), cpu.SP())
	fmt.Fprintf(&left, " A: $%02X [%03d]", cpu.A(), cpu.A())
	fmt.Fprintf(&left, " X: $%02X [%03d]", cpu.X(), cpu.X())
	fmt.Fprintf(&left, " Y: $%02X [%03d]\n", cpu.Y(), cpu.Y())
	fmt.Fprintf(&left, " CYCLES: %d\n\n", cpu.ProgramCycles())

	for _, s := range ui.m.History() {
		left.WriteString("  " + s + "\n")
	}
	for i, l := range ui.m.Disassemble(cpu.PC(), disasmAhead) {
		mark := " "
		if ui.m.Breakpoints().Has(l.Address) {
			mark = "b"
		}
		if i == 0 {
			mark = "*"
		}
		left.WriteString(" " + mark + l.String() + "\n")
	}

	var right strings.Builder
	fmt.Fprintf(&right, " MEMORY page $%02X\n", ui.memPage)
	right.WriteString(format.Memory(ui.m.Memory(), uint16(ui.memPage)<<8, memoryRows*8))
	right.WriteString("\n\n " + ui.status)
	right.WriteString("\n\n P pause  R step  B breakpoint\n X reset  PgUp/PgDn memory page")

	vector.DrawFilledRect(screen, 0, 0, panelWidth, lineHeight, headerColor, false)
	vector.DrawFilledRect(screen, 0, lineHeight, panelWidth, panelHeight-lineHeight, panelColor, false)
	ebitenutil.DebugPrintAt(screen, left.String(), 0, 0)

	vector.DrawFilledRect(screen, panelWidth, 0, panelWidth, lineHeight, headerColor, false)
	vector.DrawFilledRect(screen, panelWidth, lineHeight, panelWidth, panelHeight-lineHeight, panelColor, false)
	ebitenutil.DebugPrintAt(screen, right.String(), panelWidth, 0)
}

func (ui *UI) state() string {
	switch {
	case ui.m.CPU().Halted():
		return "HALTED"
	case ui.m.Paused():
		return "PAUSED"
	}
	return "RUNNING"
}

func (ui *UI) Layout(_, _ int) (int, int) {
	return 2 * panelWidth, panelHeight
}

func RunUI(ui *UI) error {
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(4*panelWidth, 2*panelHeight)
	ebiten.SetWindowTitle("mos6502")
	ebiten.SetTPS(60)
	return ebiten.RunGame(ui)
}
