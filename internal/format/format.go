// Package format renders CPU registers and memory for the debuggers.
package format

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nevisdale/mos6502/internal/cpu"
)

const (
	memoryRowWidth      = 8
	DefaultMemoryLength = 64
)

var ErrEmptyNumber = errors.New("empty number")

type Reader interface {
	Read8(addr uint16) uint8
}

type flag struct {
	name string
	set  bool
}

func flags(p cpu.Status) []flag {
	return []flag{
		{"N", p.Negative()},
		{"V", p.Overflow()},
		{"B", p.Break()},
		{"D", p.Decimal()},
		{"I", p.InterruptDisable()},
		{"Z", p.Zero()},
		{"C", p.Carry()},
	}
}

func bit(v bool) int {
	if v {
		return 1
	}
	return 0
}

// Flags renders the status register as NV-BDIZC letters, lower case when clear.
func Flags(p cpu.Status) string {
	var sb strings.Builder
	for i, f := range flags(p) {
		if i == 2 {
			sb.WriteByte('-')
		}
		if f.set {
			sb.WriteString(f.name)
		} else {
			sb.WriteString(strings.ToLower(f.name))
		}
	}
	return sb.String()
}

// Binary renders v in base 2, in as many 8 bit groups as it needs.
func Binary(v uint32) string {
	groups := 1
	for x := v >> 8; x > 0; x >>= 8 {
		groups++
	}

	parts := make([]string, groups)
	for i := range parts {
		shift := uint(8 * (groups - 1 - i))
		parts[i] = fmt.Sprintf("%08b", uint8(v>>shift))
	}
	return strings.Join(parts, " ")
}

func char(v uint8) string {
	if v >= 32 && v <= 126 {
		return string(rune(v))
	}
	return ""
}

// Registers renders a table of every register in hex, unsigned decimal,
// signed decimal, binary and printable ASCII, followed by the flags.
func Registers(r cpu.Registers) string {
	var sb strings.Builder

	sb.WriteString("     HEX   uDEC    sDEC                BIN  CHAR\n")
	fmt.Fprintf(&sb, "PC: %04X  %5d  %6d  %17s\n", r.PC, r.PC, int16(r.PC), Binary(uint32(r.PC)))

	regs := []struct {
		name  string
		value uint8
	}{
		{"SP", r.SP},
		{"A", r.A},
		{"X", r.X},
		{"Y", r.Y},
	}
	for _, reg := range regs {
		fmt.Fprintf(&sb, "%-2s:   %02X  %5d  %6d  %17s  %s\n",
			reg.name, reg.value, reg.value, int8(reg.value), Binary(uint32(reg.value)), char(reg.value))
	}

	fl := flags(r.P)
	names := make([]string, len(fl))
	values := make([]string, len(fl))
	for i, f := range fl {
		names[i] = f.name
		values[i] = strconv.Itoa(bit(f.set))
	}
	fmt.Fprintf(&sb, "FL: %s\n", strings.Join(names, " "))
	fmt.Fprintf(&sb, "  : %s", strings.Join(values, " "))
	return sb.String()
}

// Line renders the registers and the cycle count on a single line.
func Line(r cpu.Registers, cycles uint64) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "PC:%04X ", r.PC)
	fmt.Fprintf(&sb, "A:%02X X:%02X Y:%02X SP:%02X ", r.A, r.X, r.Y, r.SP)
	for _, f := range flags(r.P) {
		fmt.Fprintf(&sb, "%s:%d ", f.name, bit(f.set))
	}
	fmt.Fprintf(&sb, "CY:%d", cycles)
	return sb.String()
}

// Memory renders length bytes from start, 8 per row, with an ASCII
// column. length is rounded up to a whole row; addresses wrap at $FFFF.
func Memory(mem Reader, start uint16, length int) string {
	if length <= 0 {
		return ""
	}
	length = (length + memoryRowWidth - 1) / memoryRowWidth * memoryRowWidth

	var sb strings.Builder
	for i := 0; i < length; i += memoryRowWidth {
		row := start + uint16(i)
		fmt.Fprintf(&sb, "$%04X ", row)

		line := make([]uint8, memoryRowWidth)
		for j := range line {
			line[j] = mem.Read8(row + uint16(j))
			fmt.Fprintf(&sb, "%02X ", line[j])
		}
		for _, b := range line {
			if c := char(b); c != "" {
				sb.WriteString(c)
			} else {
				sb.WriteByte('.')
			}
		}

		if i+memoryRowWidth < length {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// ParseNumber accepts decimal, 0x or $ hex, 0b binary and 0 prefixed octal.
func ParseNumber(s string) (int, error) {
	in := strings.ToLower(strings.TrimSpace(s))
	if in == "" {
		return 0, ErrEmptyNumber
	}

	base := 10
	switch {
	case strings.HasPrefix(in, "0x"):
		in, base = in[2:], 16
	case strings.HasPrefix(in, "$"):
		in, base = in[1:], 16
	case strings.HasPrefix(in, "0b"):
		in, base = in[2:], 2
	case len(in) > 1 && in[0] == '0':
		in, base = in[1:], 8
	}

	v, err := strconv.ParseUint(in, base, 32)
	if err != nil {
		return 0, fmt.Errorf("couldn't parse %q: %w", s, err)
	}
	return int(v), nil
}

// ParseAddress is ParseNumber limited to the 16 bit address space.
func ParseAddress(s string) (uint16, error) {
	v, err := ParseNumber(s)
	if err != nil {
		return 0, err
	}
	if v > 0xffff {
		return 0, fmt.Errorf("address %q out of range", s)
	}
	return uint16(v), nil
}
