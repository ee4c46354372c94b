// Package ppu implements the 2C02 Picture Processing Unit: the eight
// CPU-visible registers with their side effects, scanline/dot timing with
// vblank NMI generation, and background plus sprite rendering into a
// 256x240 frame buffer.
package ppu

import (
	"github.com/minnowc/nes-2/internal/memory"
	"github.com/minnowc/nes-2/internal/state"
)

// Frame dimensions in pixels.
const (
	FrameWidth  = 256
	FrameHeight = 240
)

const (
	ctrlNametable   = 0x03
	ctrlIncrement32 = 0x04
	ctrlSpriteTable = 0x08
	ctrlBGTable     = 0x10
	ctrlSprite8x16  = 0x20
	ctrlNMIEnable   = 0x80

	maskShowBG      = 0x08
	maskShowSprites = 0x10

	statusOverflow   = 0x20
	statusSprite0Hit = 0x40
	statusVBlank     = 0x80
)

// lineSprite is one entry of the per-scanline sprite evaluation, the
// secondary-OAM equivalent.
type lineSprite struct {
	index      int // OAM slot, 0-63
	x, y       int
	tile       uint8
	attributes uint8
}

// PPU is the picture processor. It is ticked three times per CPU cycle.
type PPU struct {
	ctrl    uint8
	mask    uint8
	status  uint8
	oamAddr uint8

	// Scroll/address latches: current and temporary VRAM address, fine X
	// and the shared first/second write toggle.
	v uint16
	t uint16
	x uint8
	w bool

	readBuffer uint8

	scanline   int // -1 (pre-render) to 260
	dot        int // 0 to 340
	frameCount uint64
	oddFrame   bool

	oam         [256]uint8
	lineSprites [8]lineSprite
	spriteCount int

	memory *memory.PPUMemory

	frameBuffer [FrameWidth * FrameHeight]uint32

	nmiCallback   func()
	frameCallback func()
}

// New creates a PPU; memory is attached when a cartridge is loaded.
func New() *PPU {
	return &PPU{scanline: -1}
}

// SetMemory attaches the PPU address space (pattern tables, VRAM,
// palette).
func (p *PPU) SetMemory(mem *memory.PPUMemory) {
	p.memory = mem
}

// SetNMICallback registers the vblank NMI line.
func (p *PPU) SetNMICallback(callback func()) {
	p.nmiCallback = callback
}

// SetFrameCallback registers the end-of-frame hook.
func (p *PPU) SetFrameCallback(callback func()) {
	p.frameCallback = callback
}

// Reset returns the PPU to its power-up state. VRAM contents survive, as
// on the console.
func (p *PPU) Reset() {
	p.ctrl = 0
	p.mask = 0
	p.status = 0
	p.oamAddr = 0
	p.v = 0
	p.t = 0
	p.x = 0
	p.w = false
	p.readBuffer = 0
	p.scanline = -1
	p.dot = 0
	p.frameCount = 0
	p.oddFrame = false
	p.spriteCount = 0
}

// ReadRegister serves a CPU read of $2000-$2007. Reads of write-only
// registers return the status low bits left on the bus.
func (p *PPU) ReadRegister(address uint16) uint8 {
	switch address & 0x2007 {
	case 0x2002:
		status := p.status
		// Reading the status register clears vblank and the shared
		// write toggle.
		p.status &^= statusVBlank
		p.w = false
		return status
	case 0x2004:
		return p.oam[p.oamAddr]
	case 0x2007:
		return p.readData()
	default:
		return p.status & 0x1F
	}
}

// WriteRegister serves a CPU write of $2000-$2007.
func (p *PPU) WriteRegister(address uint16, value uint8) {
	switch address & 0x2007 {
	case 0x2000:
		wasEnabled := p.ctrl&ctrlNMIEnable != 0
		p.ctrl = value
		p.t = p.t&0xF3FF | uint16(value&ctrlNametable)<<10
		// Enabling NMI mid-vblank raises it immediately.
		if !wasEnabled && value&ctrlNMIEnable != 0 && p.status&statusVBlank != 0 && p.nmiCallback != nil {
			p.nmiCallback()
		}
	case 0x2001:
		p.mask = value
	case 0x2003:
		p.oamAddr = value
	case 0x2004:
		p.oam[p.oamAddr] = value
		p.oamAddr++
	case 0x2005:
		if !p.w {
			p.t = p.t&0xFFE0 | uint16(value)>>3
			p.x = value & 0x07
		} else {
			p.t = p.t&0x8C1F | uint16(value&0x07)<<12 | uint16(value&0xF8)<<2
		}
		p.w = !p.w
	case 0x2006:
		if !p.w {
			p.t = p.t&0x00FF | uint16(value&0x3F)<<8
		} else {
			p.t = p.t&0xFF00 | uint16(value)
			p.v = p.t
		}
		p.w = !p.w
	case 0x2007:
		p.writeData(value)
	}
}

// readData implements the buffered $2007 read: VRAM reads come back one
// access late, palette reads are immediate (with the buffer refilled from
// the underlying nametable mirror).
func (p *PPU) readData() uint8 {
	if p.memory == nil {
		return 0
	}
	address := p.v & 0x3FFF
	var value uint8
	if address < 0x3F00 {
		value = p.readBuffer
		p.readBuffer = p.memory.Read(address)
	} else {
		value = p.memory.Read(address)
		p.readBuffer = p.memory.Read(address - 0x1000)
	}
	p.v += p.increment()
	return value
}

func (p *PPU) writeData(value uint8) {
	if p.memory == nil {
		return
	}
	p.memory.Write(p.v&0x3FFF, value)
	p.v += p.increment()
}

func (p *PPU) increment() uint16 {
	if p.ctrl&ctrlIncrement32 != 0 {
		return 32
	}
	return 1
}

// WriteOAM stores one byte of sprite memory; used by the $4014 DMA copy.
func (p *PPU) WriteOAM(address, value uint8) {
	p.oam[address] = value
}

// Scanline reports the current scanline for the driver: -1 pre-render,
// 0-239 visible, 241-260 vblank.
func (p *PPU) Scanline() int {
	return p.scanline
}

// Dot reports the current dot within the scanline (0-340).
func (p *PPU) Dot() int {
	return p.dot
}

// FrameCount reports how many complete frames have been produced.
func (p *PPU) FrameCount() uint64 {
	return p.frameCount
}

// FrameBuffer exposes the rendered frame as 0xAARRGGBB pixels.
func (p *PPU) FrameBuffer() *[FrameWidth * FrameHeight]uint32 {
	return &p.frameBuffer
}

// VBlank reports whether the vblank flag is currently set.
func (p *PPU) VBlank() bool {
	return p.status&statusVBlank != 0
}

func (p *PPU) renderingEnabled() bool {
	return p.mask&(maskShowBG|maskShowSprites) != 0
}

// Tick advances the PPU one dot.
func (p *PPU) Tick() {
	p.dot++
	if p.dot > 340 {
		p.dot = 0
		p.scanline++
		if p.scanline > 260 {
			p.scanline = -1
			p.frameCount++
			p.oddFrame = !p.oddFrame
			if p.frameCallback != nil {
				p.frameCallback()
			}
		}
	}

	switch {
	case p.scanline == 241 && p.dot == 1:
		p.status |= statusVBlank
		if p.ctrl&ctrlNMIEnable != 0 && p.nmiCallback != nil {
			p.nmiCallback()
		}

	case p.scanline == -1 && p.dot == 1:
		p.status &^= statusVBlank | statusSprite0Hit | statusOverflow

	case p.scanline == -1 && p.dot == 339 && p.oddFrame && p.renderingEnabled():
		// Odd frames drop the last pre-render dot.
		p.dot = 340

	case p.scanline == 0 && p.dot == 0 && p.renderingEnabled():
		// Scroll written during vblank takes effect for the frame.
		p.v = p.t
	}

	if p.scanline >= 0 && p.scanline < FrameHeight {
		if p.dot == 1 && p.mask&maskShowSprites != 0 {
			p.evaluateSprites()
		}
		if p.dot >= 1 && p.dot <= FrameWidth {
			p.renderPixel(p.dot-1, p.scanline)
		}
	}
}

func (p *PPU) spriteHeight() int {
	if p.ctrl&ctrlSprite8x16 != 0 {
		return 16
	}
	return 8
}

// evaluateSprites fills the scanline sprite cache: the first eight OAM
// entries intersecting this line, in priority order. Finding a ninth sets
// the overflow flag.
func (p *PPU) evaluateSprites() {
	p.spriteCount = 0
	height := p.spriteHeight()

	for index := 0; index < 64; index++ {
		base := index * 4
		y := int(p.oam[base]) + 1
		if p.scanline < y || p.scanline >= y+height {
			continue
		}
		if p.spriteCount == 8 {
			p.status |= statusOverflow
			break
		}
		p.lineSprites[p.spriteCount] = lineSprite{
			index:      index,
			y:          y,
			tile:       p.oam[base+1],
			attributes: p.oam[base+2],
			x:          int(p.oam[base+3]),
		}
		p.spriteCount++
	}
}

// renderPixel composites the background and sprite layers for one dot and
// writes the result into the frame buffer.
func (p *PPU) renderPixel(x, y int) {
	if p.memory == nil {
		return
	}

	var bgColor uint8 // palette index 0-3 within the background palette
	var bgPalette uint8
	if p.mask&maskShowBG != 0 {
		bgColor, bgPalette = p.backgroundPixel(x, y)
	}

	var spColor uint8
	var spPalette uint8
	var spBehind bool
	var spIsSprite0 bool
	if p.mask&maskShowSprites != 0 {
		spColor, spPalette, spBehind, spIsSprite0 = p.spritePixel(x, y)
	}

	// Sprite 0 hit: both layers opaque at the same dot, except the last
	// column.
	if spIsSprite0 && spColor != 0 && bgColor != 0 && x < 255 {
		p.status |= statusSprite0Hit
	}

	var paletteAddr uint16
	switch {
	case bgColor == 0 && spColor == 0:
		paletteAddr = 0x3F00
	case spColor != 0 && (bgColor == 0 || !spBehind):
		paletteAddr = 0x3F10 + uint16(spPalette)*4 + uint16(spColor)
	default:
		paletteAddr = 0x3F00 + uint16(bgPalette)*4 + uint16(bgColor)
	}

	p.frameBuffer[y*FrameWidth+x] = colorRGBA(p.memory.Read(paletteAddr))
}

// backgroundPixel resolves the background layer at a screen coordinate
// from the scroll registers, nametables and pattern tables.
func (p *PPU) backgroundPixel(x, y int) (uint8, uint8) {
	scrollX := int(p.t&0x001F)*8 + int(p.x)
	scrollY := int(p.t>>5&0x001F)*8 + int(p.t>>12&0x07)

	worldX := x + scrollX
	worldY := y + scrollY

	table := int(p.t >> 10 & 3)
	if worldX >= FrameWidth {
		worldX -= FrameWidth
		table ^= 1
	}
	if worldY >= FrameHeight {
		worldY -= FrameHeight
		table ^= 2
	}

	nametable := uint16(0x2000 + table*0x400)
	tileIndex := p.memory.Read(nametable + uint16(worldY/8)*32 + uint16(worldX/8))

	patternBase := uint16(0)
	if p.ctrl&ctrlBGTable != 0 {
		patternBase = 0x1000
	}
	row := uint16(worldY % 8)
	plane0 := p.memory.Read(patternBase + uint16(tileIndex)*16 + row)
	plane1 := p.memory.Read(patternBase + uint16(tileIndex)*16 + row + 8)

	bit := uint(7 - worldX%8)
	color := plane0>>bit&1 | (plane1>>bit&1)<<1
	if color == 0 {
		return 0, 0
	}

	attr := p.memory.Read(nametable + 0x3C0 + uint16(worldY/32)*8 + uint16(worldX/32))
	shift := uint(worldY%32/16*4 + worldX%32/16*2)
	return color, attr >> shift & 3
}

// spritePixel resolves the sprite layer at a screen coordinate from the
// scanline sprite cache. The first opaque sprite wins.
func (p *PPU) spritePixel(x, y int) (color, palette uint8, behind, isSprite0 bool) {
	height := p.spriteHeight()

	for i := 0; i < p.spriteCount; i++ {
		sp := &p.lineSprites[i]
		column := x - sp.x
		if column < 0 || column > 7 {
			continue
		}
		row := y - sp.y

		if sp.attributes&0x40 != 0 { // horizontal flip
			column = 7 - column
		}
		if sp.attributes&0x80 != 0 { // vertical flip
			row = height - 1 - row
		}

		tile := sp.tile
		patternBase := uint16(0)
		if height == 16 {
			// 8x16 sprites pick their table from the tile's low
			// bit; the bottom half is the next tile.
			if tile&1 != 0 {
				patternBase = 0x1000
			}
			tile &= 0xFE
			if row >= 8 {
				tile++
				row -= 8
			}
		} else if p.ctrl&ctrlSpriteTable != 0 {
			patternBase = 0x1000
		}

		plane0 := p.memory.Read(patternBase + uint16(tile)*16 + uint16(row))
		plane1 := p.memory.Read(patternBase + uint16(tile)*16 + uint16(row) + 8)
		bit := uint(7 - column)
		pixel := plane0>>bit&1 | (plane1>>bit&1)<<1
		if pixel == 0 {
			continue
		}

		return pixel, sp.attributes & 3, sp.attributes&0x20 != 0, sp.index == 0
	}
	return 0, 0, false, false
}

// Save copies the full PPU state, including VRAM, palette and OAM, into
// the snapshot.
func (p *PPU) Save(s *state.PPU) {
	s.Ctrl = p.ctrl
	s.Mask = p.mask
	s.Status = p.status
	s.OAMAddr = p.oamAddr
	s.V = p.v
	s.T = p.t
	s.FineX = p.x
	s.WriteLatch = p.w
	s.ReadBuffer = p.readBuffer
	s.Scanline = p.scanline
	s.Dot = p.dot
	s.OddFrame = p.oddFrame
	s.FrameCount = p.frameCount
	s.OAM = p.oam
	if p.memory != nil {
		p.memory.Save(s)
	}
}

// Load restores the full PPU state from the snapshot.
func (p *PPU) Load(s *state.PPU) {
	p.ctrl = s.Ctrl
	p.mask = s.Mask
	p.status = s.Status
	p.oamAddr = s.OAMAddr
	p.v = s.V
	p.t = s.T
	p.x = s.FineX
	p.w = s.WriteLatch
	p.readBuffer = s.ReadBuffer
	p.scanline = s.Scanline
	p.dot = s.Dot
	p.oddFrame = s.OddFrame
	p.frameCount = s.FrameCount
	p.oam = s.OAM
	if p.memory != nil {
		p.memory.Load(s)
	}
}
