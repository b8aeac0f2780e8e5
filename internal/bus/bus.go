package bus

const (
	// Memory map of the emulated machine:
	//
	// $0000-$00FF: Zero page
	//   Addressable with a single operand byte.
	//   The indexed indirect modes read their pointers from here.
	//
	// $0100-$01FF: Stack
	//   The stack pointer is an offset into this page.
	//   Pushes write to $0100+SP and then decrement SP.
	//
	// $0200-$FFF9: General purpose RAM
	//   Program images are placed anywhere in this range by the loader.
	//
	// $FFFA-$FFFB: NMI vector
	// $FFFC-$FFFD: Reset vector
	// $FFFE-$FFFF: IRQ/BRK vector
	memSizeBytes = 0x10000
)

// Memory is a flat 64KB byte-addressable store.
// Every uint16 address is valid, there are no mapped devices.
type Memory struct {
	ram [memSizeBytes]uint8
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Read8(addr uint16) uint8 {
	return m.ram[addr]
}

func (m *Memory) Write8(addr uint16, data uint8) {
	m.ram[addr] = data
}

// Read16 reads a little-endian word. The high byte of $FFFF comes from $0000.
func (m *Memory) Read16(addr uint16) uint16 {
	lo := uint16(m.ram[addr])
	hi := uint16(m.ram[addr+1])
	return lo | hi<<8
}

// Write16 writes a little-endian word. The high byte of $FFFF goes to $0000.
func (m *Memory) Write16(addr uint16, data uint16) {
	m.ram[addr] = uint8(data & 0xff)
	m.ram[addr+1] = uint8(data >> 8)
}

// Load copies data into memory starting at addr, wrapping past $FFFF.
func (m *Memory) Load(addr uint16, data []uint8) {
	for _, b := range data {
		m.ram[addr] = b
		addr++
	}
}

// Slice returns a copy of length bytes starting at start, wrapping past $FFFF.
func (m *Memory) Slice(start uint16, length int) []uint8 {
	if length <= 0 {
		return nil
	}
	out := make([]uint8, length)
	addr := start
	for i := range out {
		out[i] = m.ram[addr]
		addr++
	}
	return out
}

// Clear zeroes the whole address space.
func (m *Memory) Clear() {
	m.ram = [memSizeBytes]uint8{}
}
