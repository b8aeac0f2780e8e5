package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/nevisdale/mos6502/internal/asm"
	"github.com/nevisdale/mos6502/internal/console"
	"github.com/nevisdale/mos6502/internal/cpu"
	"github.com/nevisdale/mos6502/internal/format"
	"github.com/nevisdale/mos6502/internal/loader"
	"github.com/nevisdale/mos6502/internal/machine"
	"github.com/nevisdale/mos6502/internal/statsview"
	"github.com/nevisdale/mos6502/internal/ui"
	"github.com/pkg/profile"
)

const demoOrigin = 0x0800

type config struct {
	rom       string
	prg       string
	nes       string
	org       string
	cpu       string
	period    time.Duration
	ui        bool
	profile   string
	statsview string
}

func parseFlags(args []string) (config, error) {
	var cfg config

	fs := flag.NewFlagSet("mos6502", flag.ContinueOnError)
	fs.StringVar(&cfg.rom, "rom", "", "raw binary image to load at -org")
	fs.StringVar(&cfg.prg, "prg", "", "PRG image, the first two bytes hold the load address")
	fs.StringVar(&cfg.nes, "nes", "", "iNES cartridge with mapper 0, PRG ROM is mapped at $8000")
	fs.StringVar(&cfg.org, "org", "0x0800", "load address of a raw image")
	fs.StringVar(&cfg.cpu, "cpu", "6502", "cpu variant: 6502 or 65c02")
	fs.DurationVar(&cfg.period, "period", 0, "delay per cycle, 0 runs unthrottled")
	fs.BoolVar(&cfg.ui, "ui", false, "open the debugger window instead of the terminal")
	fs.StringVar(&cfg.profile, "profile", "", "write a profile: cpu, mem or trace")
	fs.StringVar(&cfg.statsview, "statsview", "", "serve runtime stats at this address (needs -tags statsview)")
	if err := fs.Parse(args); err != nil {
		return config{}, err
	}

	images := 0
	for _, path := range []string{cfg.rom, cfg.prg, cfg.nes} {
		if path != "" {
			images++
		}
	}
	if images > 1 {
		return config{}, errors.New("-rom, -prg and -nes are mutually exclusive")
	}
	return cfg, nil
}

func instructionSet(name string) (*cpu.InstructionSet, error) {
	switch strings.ToLower(name) {
	case "6502", "nmos":
		return cpu.Base6502(), nil
	case "65c02", "cmos":
		return cpu.Variant65C02(), nil
	}
	return nil, fmt.Errorf("unknown cpu %q", name)
}

func program(cfg config) (loader.Program, error) {
	switch {
	case cfg.prg != "":
		return loader.ReadPRGFile(cfg.prg)
	case cfg.nes != "":
		return loader.ReadINESFile(cfg.nes)
	case cfg.rom != "":
		org, err := format.ParseAddress(cfg.org)
		if err != nil {
			return loader.Program{}, fmt.Errorf("invalid -org: %w", err)
		}
		return loader.ReadRawFile(cfg.rom, org)
	}
	return asm.Demo(demoOrigin), nil
}

func profileMode(name string) (func(*profile.Profile), error) {
	switch name {
	case "cpu":
		return profile.CPUProfile, nil
	case "mem":
		return profile.MemProfile, nil
	case "trace":
		return profile.TraceProfile, nil
	}
	return nil, fmt.Errorf("unknown profile %q", name)
}

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatalf("couldn't parse flags: %s\n", err)
	}

	// run returns before exiting so deferred profile and server shutdowns
	// complete
	if err := run(cfg, os.Stdin, os.Stdout); err != nil {
		log.Fatalf("%s\n", err)
	}
}

func run(cfg config, in io.Reader, out io.Writer) error {
	set, err := instructionSet(cfg.cpu)
	if err != nil {
		return fmt.Errorf("couldn't create cpu: %w", err)
	}

	prog, err := program(cfg)
	if err != nil {
		return fmt.Errorf("couldn't load the program: %w", err)
	}

	m := machine.New(machine.Config{Set: set, Period: cfg.period})
	if err := m.Load(prog); err != nil {
		return fmt.Errorf("couldn't start the machine: %w", err)
	}

	if cfg.profile != "" {
		mode, err := profileMode(cfg.profile)
		if err != nil {
			return fmt.Errorf("couldn't start profiling: %w", err)
		}
		defer profile.Start(mode, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	}

	if cfg.statsview != "" {
		stats := statsview.Config{Addr: cfg.statsview}
		srv, err := statsview.Start(stats)
		if err != nil {
			log.Printf("couldn't start stats server: %s\n", err)
		} else {
			fmt.Fprintf(out, "stats server available at %s\n", stats.URL())
			defer func() {
				if err := srv.Stop(); err != nil {
					log.Printf("stats server stopped: %s\n", err)
				}
			}()
		}
	}

	if cfg.ui {
		if err := ui.RunUI(ui.New(m)); err != nil {
			return fmt.Errorf("ui stopped: %w", err)
		}
		return nil
	}

	// the console handles Ctrl-C itself while a program runs
	if err := console.New(m, in, out).Run(context.Background()); err != nil {
		return fmt.Errorf("console stopped: %w", err)
	}
	return nil
}
