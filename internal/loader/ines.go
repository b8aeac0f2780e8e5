package loader

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	inesMagic        = 0x1a53454e
	prgBankSizeBytes = 0x4000
	chrBankSizeBytes = 0x2000
	trainerSizeBytes = 512

	// cartridge PRG ROM is mapped from $8000 to $FFFF
	prgOrigin = uint16(0x8000)
)

var (
	ErrInvalidHeader     = errors.New("invalid iNES header")
	ErrUnsupportedMapper = errors.New("unsupported mapper")
)

// ReadINES reads the PRG ROM of an iNES cartridge that uses mapper 0.
// A single 16KB bank is mirrored at $8000 and $C000, so the program always
// covers $8000-$FFFF and keeps the cartridge's own vectors. CHR ROM is
// skipped.
func ReadINES(r io.Reader) (Program, error) {
	var header struct {
		Magic      uint32
		PrgRomSize uint8
		ChrRomSize uint8
		Flags6     uint8
		Flags7     uint8
		_          [8]uint8 // unused
	}
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return Program{}, fmt.Errorf("couldn't read the header: %w", err)
	}
	if header.Magic != inesMagic {
		return Program{}, ErrInvalidHeader
	}

	// flag6: lower 4 bits of mapper ID
	// flag7: upper 4 bits of mapper ID
	mapperID := (header.Flags7 & 0xf0) | (header.Flags6 >> 4)
	if mapperID != 0 {
		return Program{}, fmt.Errorf("%w: %d", ErrUnsupportedMapper, mapperID)
	}
	if header.PrgRomSize == 0 || header.PrgRomSize > 2 {
		return Program{}, fmt.Errorf("%w: %d PRG banks", ErrInvalidHeader, header.PrgRomSize)
	}

	// the third bit of flags6 is the trainer flag
	if header.Flags6&0x4 != 0 {
		if _, err := io.CopyN(io.Discard, r, trainerSizeBytes); err != nil {
			return Program{}, fmt.Errorf("couldn't skip the trainer: %w", err)
		}
	}

	prg := make([]uint8, int(header.PrgRomSize)*prgBankSizeBytes)
	if _, err := io.ReadFull(r, prg); err != nil {
		return Program{}, fmt.Errorf("couldn't read PRG ROM: %w", err)
	}
	if header.PrgRomSize == 1 {
		prg = append(prg, prg...)
	}
	return Program{Origin: prgOrigin, Bytes: prg}, nil
}

// ReadINESFile reads an iNES cartridge from a file.
func ReadINESFile(path string) (Program, error) {
	file, err := os.Open(path)
	if err != nil {
		return Program{}, fmt.Errorf("couldn't open the file: %w", err)
	}
	defer file.Close()

	return ReadINES(file)
}
