package loader

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	maxImageSize = 0x10000

	resetVector = uint16(0xfffc)
)

var (
	ErrEmptyImage = errors.New("empty image")
	ErrTooLarge   = errors.New("image does not fit in 64KB")
)

// Writer is the part of the memory the loader needs.
type Writer interface {
	Write8(addr uint16, data uint8)
}

// Program is a memory image that starts executing at its origin.
type Program struct {
	Origin uint16
	Bytes  []byte
}

// Load copies the program to its origin and points the reset vector at it.
// Addresses past $FFFF wrap to $0000, so the vector may be overwritten by
// an image that covers it.
func Load(p Program, w Writer) {
	w.Write8(resetVector, uint8(p.Origin))
	w.Write8(resetVector+1, uint8(p.Origin>>8))

	addr := p.Origin
	for _, b := range p.Bytes {
		w.Write8(addr, b)
		addr++
	}
}

// ReadRaw reads a headerless image that is loaded at origin.
func ReadRaw(r io.Reader, origin uint16) (Program, error) {
	data, err := readImage(r)
	if err != nil {
		return Program{}, err
	}
	if err := fits(origin, data); err != nil {
		return Program{}, err
	}
	return Program{Origin: origin, Bytes: data}, nil
}

// ReadRawFile reads a headerless image from a file.
func ReadRawFile(path string, origin uint16) (Program, error) {
	file, err := os.Open(path)
	if err != nil {
		return Program{}, fmt.Errorf("couldn't open the file: %w", err)
	}
	defer file.Close()

	return ReadRaw(file, origin)
}

// ReadPRG reads an image whose first two bytes hold the little-endian
// load address.
func ReadPRG(r io.Reader) (Program, error) {
	var header struct {
		LoadAddr uint16
	}
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		if errors.Is(err, io.EOF) {
			return Program{}, fmt.Errorf("couldn't read the header: %w", ErrEmptyImage)
		}
		return Program{}, fmt.Errorf("couldn't read the header: %w", err)
	}

	data, err := readImage(r)
	if err != nil {
		return Program{}, err
	}
	if err := fits(header.LoadAddr, data); err != nil {
		return Program{}, err
	}
	return Program{Origin: header.LoadAddr, Bytes: data}, nil
}

// ReadPRGFile reads a PRG image from a file.
func ReadPRGFile(path string) (Program, error) {
	file, err := os.Open(path)
	if err != nil {
		return Program{}, fmt.Errorf("couldn't open the file: %w", err)
	}
	defer file.Close()

	return ReadPRG(file)
}

// fits rejects images that would run past $FFFF.
func fits(origin uint16, data []byte) error {
	if int(origin)+len(data) > maxImageSize {
		return fmt.Errorf("%d bytes at $%04X: %w", len(data), origin, ErrTooLarge)
	}
	return nil
}

func readImage(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("couldn't read the image: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}
	if len(data) > maxImageSize {
		return nil, ErrTooLarge
	}
	return data, nil
}
