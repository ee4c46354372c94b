package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSerialReadAfterStrobe(t *testing.T) {
	c := NewController()
	c.SetButton(ButtonA, true)
	c.SetButton(ButtonStart, true)

	c.Strobe(true)
	c.Strobe(false)

	// Shift order: A, B, Select, Start, Up, Down, Left, Right.
	expected := []uint8{1, 0, 0, 1, 0, 0, 0, 0}
	for i, want := range expected {
		assert.Equal(t, want, c.ReadBit(), "bit %d", i)
	}
}

func TestReadsBeyondEightBitsReturnZero(t *testing.T) {
	c := NewController()
	c.SetButtons([8]bool{true, true, true, true, true, true, true, true})
	c.Strobe(true)
	c.Strobe(false)

	for i := 0; i < 8; i++ {
		c.ReadBit()
	}
	assert.Zero(t, c.ReadBit())
	assert.Zero(t, c.ReadBit())
}

func TestStrobeHeldAlwaysReturnsButtonA(t *testing.T) {
	c := NewController()
	c.Strobe(true)

	c.SetButton(ButtonA, true)
	assert.Equal(t, uint8(1), c.ReadBit())
	assert.Equal(t, uint8(1), c.ReadBit(), "no shifting while strobed")

	c.SetButton(ButtonA, false)
	assert.Zero(t, c.ReadBit(), "live state, not a latch")
}

func TestStrobeDropLatchesCurrentButtons(t *testing.T) {
	c := NewController()
	c.Strobe(true)
	c.SetButton(ButtonB, true)
	c.Strobe(false)

	// Button changes after the latch do not affect the shifted bits.
	c.SetButton(ButtonB, false)

	assert.Equal(t, uint8(0), c.ReadBit()) // A
	assert.Equal(t, uint8(1), c.ReadBit()) // B
}

func TestPortsRouting(t *testing.T) {
	p := NewPorts()
	p.Pad1.SetButton(ButtonA, true)
	p.Pad2.SetButton(ButtonA, true)

	p.Write(0x4016, 1)
	p.Write(0x4016, 0)

	assert.Equal(t, uint8(0x01), p.Read(0x4016))
	assert.Equal(t, uint8(0x41), p.Read(0x4017), "port 2 carries bit 6 from the bus")
}

func TestPortsStrobeReachesBothPads(t *testing.T) {
	p := NewPorts()
	p.Pad1.SetButtons([8]bool{true})
	p.Pad2.SetButtons([8]bool{false, true})

	p.Write(0x4016, 1)
	p.Write(0x4016, 0)

	assert.Equal(t, uint8(1), p.Read(0x4016)&1)
	assert.Equal(t, uint8(0), p.Read(0x4017)&1)
	assert.Equal(t, uint8(1), p.Read(0x4017)&1, "pad 2 second bit is B")
}
