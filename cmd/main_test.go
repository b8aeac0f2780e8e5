package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	cfg, err := parseFlags([]string{"-rom", "image.bin", "-org", "$C000", "-cpu", "65c02", "-period", "1us", "-ui"})
	require.NoError(t, err)

	assert.Equal(t, "image.bin", cfg.rom)
	assert.Equal(t, "$C000", cfg.org)
	assert.Equal(t, "65c02", cfg.cpu)
	assert.Equal(t, time.Microsecond, cfg.period)
	assert.True(t, cfg.ui)

	_, err = parseFlags([]string{"-rom", "a", "-prg", "b"})
	assert.Error(t, err)

	_, err = parseFlags([]string{"-prg", "a", "-nes", "b"})
	assert.Error(t, err)

	_, err = parseFlags([]string{"-nope"})
	assert.Error(t, err)
}

func TestInstructionSet(t *testing.T) {
	set, err := instructionSet("6502")
	require.NoError(t, err)
	assert.Equal(t, "6502", set.Name())

	set, err = instructionSet("65C02")
	require.NoError(t, err)
	assert.Equal(t, "65C02", set.Name())

	_, err = instructionSet("z80")
	assert.Error(t, err)
}

func TestProgram(t *testing.T) {
	p, err := program(config{})
	require.NoError(t, err)
	assert.Equal(t, uint16(demoOrigin), p.Origin)
	assert.Equal(t, []byte{0xa9, 0xd6, 0xa2, 0x2a, 0x00}, p.Bytes)

	dir := t.TempDir()
	raw := filepath.Join(dir, "image.bin")
	require.NoError(t, os.WriteFile(raw, []byte{0xea}, 0o644))

	p, err = program(config{rom: raw, org: "0xc000"})
	require.NoError(t, err)
	assert.Equal(t, uint16(0xc000), p.Origin)

	_, err = program(config{rom: raw, org: "nope"})
	assert.Error(t, err)

	prg := filepath.Join(dir, "image.prg")
	require.NoError(t, os.WriteFile(prg, []byte{0x01, 0x08, 0xea}, 0o644))
	p, err = program(config{prg: prg})
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0801), p.Origin)

	_, err = program(config{nes: prg})
	assert.Error(t, err)
}

func TestProfileMode(t *testing.T) {
	for _, name := range []string{"cpu", "mem", "trace"} {
		mode, err := profileMode(name)
		require.NoError(t, err)
		assert.NotNil(t, mode)
	}

	_, err := profileMode("block")
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	var out bytes.Buffer
	err := run(config{cpu: "6502", org: "0x0800"}, strings.NewReader("s\nq\n"), &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "type help")
}

// a missing stats server is not fatal
func TestRun_Statsview(t *testing.T) {
	err := run(config{cpu: "6502", statsview: "localhost:0"}, strings.NewReader("q\n"), &bytes.Buffer{})
	require.NoError(t, err)
}

func TestRun_ErrorsBeforeProfiling(t *testing.T) {
	dir := t.TempDir()

	err := run(config{cpu: "z80", profile: "cpu"}, strings.NewReader(""), &bytes.Buffer{})
	assert.ErrorContains(t, err, "couldn't create cpu")

	err = run(config{cpu: "6502", rom: filepath.Join(dir, "missing.bin"), org: "0x0800", profile: "cpu"}, strings.NewReader(""), &bytes.Buffer{})
	assert.ErrorContains(t, err, "couldn't load the program")

	err = run(config{cpu: "6502", profile: "block"}, strings.NewReader(""), &bytes.Buffer{})
	assert.ErrorContains(t, err, "couldn't start profiling")
}
