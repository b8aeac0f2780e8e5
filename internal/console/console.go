// Package console is the interactive terminal debugger.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/nevisdale/mos6502/internal/disasm"
	"github.com/nevisdale/mos6502/internal/format"
	"github.com/nevisdale/mos6502/internal/machine"
)

const (
	prompt = "> "

	defaultDisasmCount = 8
)

const help = `commands:
  s, step [n]          execute n instructions (default 1), empty line repeats
  r, run [n]           run until a breakpoint, a halt, Ctrl-C or n instructions
  m, mem [addr [len]]  dump memory
  d, dis [addr [n]]    disassemble n instructions
  b, break [addr]      toggle a breakpoint, list them without addr
  regs                 show registers
  reset                reset the cpu
  h, help              show this help
  q, quit              exit`

var errUnknownCommand = errors.New("unknown command")

type Console struct {
	m     *machine.Machine
	out   io.Writer
	lines lineReader

	memStart uint16
	last     string
}

func New(m *machine.Machine, in io.Reader, out io.Writer) *Console {
	return &Console{
		m:        m,
		out:      out,
		lines:    newLineReader(in, out),
		memStart: m.CPU().PC() &^ 0x7,
		last:     "step",
	}
}

// Run reads and executes commands until quit, end of input or ctx is done.
func (c *Console) Run(ctx context.Context) error {
	fmt.Fprintln(c.out, "type help for the list of commands")
	c.printState()

	for ctx.Err() == nil {
		line, err := c.lines.ReadLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("couldn't read the command: %w", err)
		}

		quit, err := c.Execute(ctx, line)
		if err != nil {
			fmt.Fprintf(c.out, "error: %s\n", err)
		}
		if quit {
			return nil
		}
	}
	return nil
}

// Execute runs one command line and reports whether the session is over.
func (c *Console) Execute(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		fields = strings.Fields(c.last)
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "q", "quit", "exit":
		return true, nil
	case "h", "help", "?":
		fmt.Fprintln(c.out, help)
		return false, nil
	}

	var err error
	switch cmd {
	case "s", "step":
		c.last = strings.Join(fields, " ")
		err = c.step(args)
	case "r", "run":
		err = c.run(ctx, args)
	case "m", "mem":
		err = c.memory(args)
	case "d", "dis":
		err = c.disassemble(args)
	case "b", "break":
		err = c.breakpoint(args)
	case "regs":
		c.printState()
	case "reset":
		if err = c.m.Reset(); err == nil {
			c.printState()
		}
	default:
		err = fmt.Errorf("%w %q, type help", errUnknownCommand, cmd)
	}
	return false, err
}

func (c *Console) step(args []string) error {
	n, err := intArg(args, 0, 1)
	if err != nil {
		return err
	}
	for range n {
		if _, err := c.m.Step(); err != nil {
			c.printState()
			return err
		}
	}
	c.printState()
	return nil
}

func (c *Console) run(ctx context.Context, args []string) error {
	limit, err := intArg(args, 0, 0)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	start := c.m.CPU().ProgramCycles()
	reason, err := c.m.Run(ctx, limit)
	fmt.Fprintf(c.out, "stopped: %s after %d cycles\n", reason, c.m.CPU().ProgramCycles()-start)
	c.printState()
	if reason == machine.StopCanceled {
		return nil
	}
	return err
}

func (c *Console) memory(args []string) error {
	start, err := addrArg(args, 0, c.memStart)
	if err != nil {
		return err
	}
	length, err := intArg(args, 1, format.DefaultMemoryLength)
	if err != nil {
		return err
	}
	c.memStart = start
	fmt.Fprintln(c.out, format.Memory(c.m.Memory(), start, length))
	return nil
}

func (c *Console) disassemble(args []string) error {
	start, err := addrArg(args, 0, c.m.CPU().PC())
	if err != nil {
		return err
	}
	count, err := intArg(args, 1, defaultDisasmCount)
	if err != nil {
		return err
	}
	for _, l := range c.m.Disassemble(start, count) {
		fmt.Fprintln(c.out, c.marker(l.Address)+l.String())
	}
	return nil
}

func (c *Console) breakpoint(args []string) error {
	bp := c.m.Breakpoints()
	if len(args) == 0 {
		if bp.Len() == 0 {
			fmt.Fprintln(c.out, "no breakpoints")
			return nil
		}
		for _, addr := range bp.List() {
			fmt.Fprintf(c.out, "$%04X\n", addr)
		}
		return nil
	}

	addr, err := format.ParseAddress(args[0])
	if err != nil {
		return err
	}
	if bp.Toggle(addr) {
		fmt.Fprintf(c.out, "breakpoint set at $%04X\n", addr)
	} else {
		fmt.Fprintf(c.out, "breakpoint cleared at $%04X\n", addr)
	}
	return nil
}

func (c *Console) marker(addr uint16) string {
	switch {
	case addr == c.m.CPU().PC():
		return "*"
	case c.m.Breakpoints().Has(addr):
		return "b"
	}
	return " "
}

func (c *Console) printState() {
	proc := c.m.CPU()
	fmt.Fprintln(c.out, format.Registers(proc.Registers()))
	fmt.Fprintf(c.out, "CY: %d (program %d)\n", proc.Cycles(), proc.ProgramCycles())
	if history := c.m.History(); len(history) > 0 {
		fmt.Fprintf(c.out, "last: %s\n", history[len(history)-1])
	}
	fmt.Fprintln(c.out, "next: "+disasm.Decode(proc.InstructionSet(), c.m.Memory(), proc.PC()).String())
	fmt.Fprintln(c.out, format.Memory(c.m.Memory(), c.memStart, format.DefaultMemoryLength))
}

func intArg(args []string, i, def int) (int, error) {
	if len(args) <= i {
		return def, nil
	}
	v, err := format.ParseNumber(args[i])
	if err != nil {
		return 0, err
	}
	return v, nil
}

func addrArg(args []string, i int, def uint16) (uint16, error) {
	if len(args) <= i {
		return def, nil
	}
	return format.ParseAddress(args[i])
}
