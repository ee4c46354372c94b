package ppu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minnowc/nes-2/internal/memory"
	"github.com/minnowc/nes-2/internal/state"
)

// chrCart is a writable 8KB pattern-table store for tests.
type chrCart struct {
	chr [0x2000]uint8
}

func (c *chrCart) ReadPRG(address uint16) uint8         { return 0 }
func (c *chrCart) WritePRG(address uint16, value uint8) {}
func (c *chrCart) ReadCHR(address uint16) uint8         { return c.chr[address&0x1FFF] }
func (c *chrCart) WriteCHR(address uint16, value uint8) { c.chr[address&0x1FFF] = value }

func newTestPPU() (*PPU, *chrCart) {
	cart := &chrCart{}
	p := New()
	p.SetMemory(memory.NewPPUMemory(cart, memory.MirrorHorizontal))
	return p, cart
}

// tickTo advances the PPU to the given scanline and dot.
func tickTo(t *testing.T, p *PPU, scanline, dot int) {
	t.Helper()
	for i := 0; i < 341*262*2; i++ {
		if p.Scanline() == scanline && p.Dot() == dot {
			return
		}
		p.Tick()
	}
	t.Fatalf("never reached scanline %d dot %d", scanline, dot)
}

func TestVBlankFlagTiming(t *testing.T) {
	p, _ := newTestPPU()

	tickTo(t, p, 241, 0)
	assert.False(t, p.VBlank())

	p.Tick()
	assert.True(t, p.VBlank(), "vblank sets at scanline 241 dot 1")

	tickTo(t, p, -1, 1)
	assert.False(t, p.VBlank(), "vblank clears on the pre-render line")
}

func TestNMIFiresAtVBlankWhenEnabled(t *testing.T) {
	p, _ := newTestPPU()
	fired := 0
	p.SetNMICallback(func() { fired++ })

	p.WriteRegister(0x2000, 0x80)
	tickTo(t, p, 241, 1)

	assert.Equal(t, 1, fired)
}

func TestNMISuppressedWhenDisabled(t *testing.T) {
	p, _ := newTestPPU()
	fired := 0
	p.SetNMICallback(func() { fired++ })

	tickTo(t, p, 241, 1)

	assert.Zero(t, fired)
}

func TestEnablingNMIDuringVBlankFiresImmediately(t *testing.T) {
	p, _ := newTestPPU()
	fired := 0
	p.SetNMICallback(func() { fired++ })

	tickTo(t, p, 241, 1)
	require.Zero(t, fired)

	p.WriteRegister(0x2000, 0x80)
	assert.Equal(t, 1, fired)
}

func TestStatusReadClearsVBlankAndLatch(t *testing.T) {
	p, _ := newTestPPU()
	tickTo(t, p, 241, 1)

	p.WriteRegister(0x2005, 0x10) // first scroll write flips the latch
	status := p.ReadRegister(0x2002)

	assert.NotZero(t, status&0x80)
	assert.False(t, p.VBlank(), "read clears the flag")
	assert.Zero(t, p.ReadRegister(0x2002)&0x80)

	// The latch was reset: the next $2005 write is a first write again.
	p.WriteRegister(0x2005, 0x20)
	assert.True(t, p.w)
	assert.Equal(t, uint16(0x20>>3), p.t&0x1F, "first write sets coarse X")
}

func TestAddressLatchAndBufferedReads(t *testing.T) {
	p, _ := newTestPPU()

	// Point VRAM address at a nametable cell and write through $2007.
	p.WriteRegister(0x2006, 0x21)
	p.WriteRegister(0x2006, 0x08)
	p.WriteRegister(0x2007, 0xAB)
	p.WriteRegister(0x2007, 0xCD)

	// Reads come back one access late.
	p.WriteRegister(0x2006, 0x21)
	p.WriteRegister(0x2006, 0x08)
	_ = p.ReadRegister(0x2007) // priming read
	assert.Equal(t, uint8(0xAB), p.ReadRegister(0x2007))
	assert.Equal(t, uint8(0xCD), p.ReadRegister(0x2007))
}

func TestVRAMIncrementMode(t *testing.T) {
	p, _ := newTestPPU()

	p.WriteRegister(0x2000, 0x04) // increment by 32
	p.WriteRegister(0x2006, 0x20)
	p.WriteRegister(0x2006, 0x00)
	p.WriteRegister(0x2007, 0x11)

	assert.Equal(t, uint16(0x2020), p.v)
}

func TestOAMAddressAndData(t *testing.T) {
	p, _ := newTestPPU()

	p.WriteRegister(0x2003, 0x10)
	p.WriteRegister(0x2004, 0x55)

	assert.Equal(t, uint8(0x55), p.oam[0x10])
	assert.Equal(t, uint8(0x11), p.oamAddr, "OAMDATA writes auto-increment")

	p.WriteRegister(0x2003, 0x10)
	assert.Equal(t, uint8(0x55), p.ReadRegister(0x2004))
}

func TestWriteOAMForDMA(t *testing.T) {
	p, _ := newTestPPU()
	for i := 0; i < 256; i++ {
		p.WriteOAM(uint8(i), uint8(i))
	}
	assert.Equal(t, uint8(0x7F), p.oam[0x7F])
}

func TestScanlineCounterWrapsToPreRender(t *testing.T) {
	p, _ := newTestPPU()

	for i := 0; i < 341; i++ {
		p.Tick()
	}
	assert.Equal(t, 0, p.Scanline())

	tickTo(t, p, 260, 340)
	p.Tick()
	assert.Equal(t, -1, p.Scanline())
	assert.Equal(t, uint64(1), p.FrameCount())
}

func TestBackgroundRendering(t *testing.T) {
	p, cart := newTestPPU()

	// Tile 1: solid color 1 (plane 0 all ones).
	for row := 0; row < 8; row++ {
		cart.chr[16+row] = 0xFF
	}
	// Nametable: top-left tile is tile 1; palette 0.
	p.WriteRegister(0x2006, 0x20)
	p.WriteRegister(0x2006, 0x00)
	p.WriteRegister(0x2007, 0x01)
	// Backdrop dark, color 1 of palette 0 white.
	p.WriteRegister(0x2006, 0x3F)
	p.WriteRegister(0x2006, 0x00)
	p.WriteRegister(0x2007, 0x0F)
	p.WriteRegister(0x2007, 0x30)

	// Reset the scroll registers the address writes clobbered.
	p.ReadRegister(0x2002)
	p.WriteRegister(0x2006, 0x00)
	p.WriteRegister(0x2006, 0x00)

	p.WriteRegister(0x2001, maskShowBG)

	// Render the first visible scanline.
	tickTo(t, p, 0, 0)
	for i := 0; i < 300; i++ {
		p.Tick()
	}

	white := colorRGBA(0x30)
	backdrop := colorRGBA(0x0F)
	assert.Equal(t, white, p.frameBuffer[0], "tile 1 pixel")
	assert.Equal(t, backdrop, p.frameBuffer[16], "past tile 0's width, backdrop")
}

func TestSprite0Hit(t *testing.T) {
	p, cart := newTestPPU()

	// Solid tile 1 for both background and sprite.
	for row := 0; row < 8; row++ {
		cart.chr[16+row] = 0xFF
	}
	p.WriteRegister(0x2006, 0x20)
	p.WriteRegister(0x2006, 0x00)
	p.WriteRegister(0x2007, 0x01)

	// Sprite 0 at the same spot.
	p.oam[0] = 0x00 // Y: appears on scanline 1
	p.oam[1] = 0x01
	p.oam[2] = 0x00
	p.oam[3] = 0x00

	p.WriteRegister(0x2001, maskShowBG|maskShowSprites)

	tickTo(t, p, 1, 0)
	for i := 0; i < 20; i++ {
		p.Tick()
	}

	assert.NotZero(t, p.status&statusSprite0Hit)
}

func TestSpriteOverflowFlag(t *testing.T) {
	p, _ := newTestPPU()

	// Nine sprites placed on scanline 1 (the untouched OAM entries also
	// have Y=0, so the line holds more than eight either way).
	for i := 0; i < 9; i++ {
		p.oam[i*4] = 0x00
		p.oam[i*4+3] = uint8(i * 16)
	}
	p.WriteRegister(0x2001, maskShowSprites)

	tickTo(t, p, 1, 1)

	assert.NotZero(t, p.status&statusOverflow)
	assert.Equal(t, 8, p.spriteCount)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	p, _ := newTestPPU()

	p.WriteRegister(0x2000, 0x90)
	p.WriteRegister(0x2005, 0x12)
	p.WriteRegister(0x2005, 0x34)
	p.WriteRegister(0x2006, 0x21)
	p.WriteRegister(0x2006, 0x00)
	p.WriteRegister(0x2007, 0x77)
	p.oam[5] = 0x99
	for i := 0; i < 1000; i++ {
		p.Tick()
	}

	var before, after state.PPU
	p.Save(&before)

	// Disturb everything, then restore.
	p.Reset()
	p.WriteRegister(0x2007, 0x11)
	p.Load(&before)

	p.Save(&after)
	assert.Equal(t, before, after, "save/restore is the identity")
}
