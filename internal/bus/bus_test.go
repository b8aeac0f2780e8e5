package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_ZeroInitialized(t *testing.T) {
	m := NewMemory()
	for addr := 0; addr <= 0xffff; addr++ {
		if m.Read8(uint16(addr)) != 0 {
			t.Fatalf("expected zero at %04X, got %02X", addr, m.Read8(uint16(addr)))
		}
	}
}

func TestMemory_ReadWrite8(t *testing.T) {
	m := NewMemory()
	m.Write8(0x0000, 0x01)
	m.Write8(0x8000, 0x80)
	m.Write8(0xffff, 0xff)

	assert.Equal(t, uint8(0x01), m.Read8(0x0000))
	assert.Equal(t, uint8(0x80), m.Read8(0x8000))
	assert.Equal(t, uint8(0xff), m.Read8(0xffff))
}

func TestMemory_WordLittleEndian(t *testing.T) {
	m := NewMemory()
	m.Write16(0x1000, 0xbeef)

	assert.Equal(t, uint8(0xef), m.Read8(0x1000), "low byte first")
	assert.Equal(t, uint8(0xbe), m.Read8(0x1001), "high byte second")
	assert.Equal(t, uint16(0xbeef), m.Read16(0x1000))
}

func TestMemory_WordWrapsAtTop(t *testing.T) {
	m := NewMemory()
	m.Write16(0xffff, 0x1234)

	assert.Equal(t, uint8(0x34), m.Read8(0xffff))
	assert.Equal(t, uint8(0x12), m.Read8(0x0000))
	assert.Equal(t, uint16(0x1234), m.Read16(0xffff))
}

func TestMemory_WordRoundTrip(t *testing.T) {
	m := NewMemory()
	for addr := 0; addr <= 0xfffe; addr++ {
		v := uint16(addr*31 + 7)
		m.Write16(uint16(addr), v)
		if got := m.Read16(uint16(addr)); got != v {
			t.Fatalf("round trip at %04X: wrote %04X, read %04X", addr, v, got)
		}
	}
}

func TestMemory_LoadAndSlice(t *testing.T) {
	m := NewMemory()
	m.Load(0xfffe, []uint8{1, 2, 3, 4})

	require.Equal(t, []uint8{1, 2, 3, 4}, m.Slice(0xfffe, 4))
	assert.Equal(t, uint8(3), m.Read8(0x0000))
	assert.Nil(t, m.Slice(0, 0))

	s := m.Slice(0xfffe, 2)
	s[0] = 0xaa
	assert.Equal(t, uint8(1), m.Read8(0xfffe), "slice must be a copy")

	m.Clear()
	assert.Equal(t, uint8(0), m.Read8(0x0001))
}
