package memory

import "github.com/minnowc/nes-2/internal/state"

// MirrorMode selects how the four logical nametables fold into the 2KB of
// console VRAM.
type MirrorMode uint8

const (
	MirrorHorizontal MirrorMode = iota
	MirrorVertical
	MirrorSingleScreen0
	MirrorSingleScreen1
	MirrorFourScreen
)

// PPUMemory decodes the PPU's 14-bit address space: pattern tables on the
// cartridge, nametables in VRAM with mirroring, and palette RAM.
type PPUMemory struct {
	vram      [0x1000]uint8
	palette   [32]uint8
	cartridge CartridgeInterface
	mirroring MirrorMode
}

// NewPPUMemory creates PPU memory bound to a cartridge's CHR space.
func NewPPUMemory(cart CartridgeInterface, mirroring MirrorMode) *PPUMemory {
	pm := &PPUMemory{
		cartridge: cart,
		mirroring: mirroring,
	}
	// Backdrop entries start black.
	for i := 0; i < len(pm.palette); i += 4 {
		pm.palette[i] = 0x0F
	}
	return pm
}

// Read reads from PPU address space ($0000-$3FFF).
func (pm *PPUMemory) Read(address uint16) uint8 {
	address &= 0x3FFF

	switch {
	case address < 0x2000:
		if pm.cartridge != nil {
			return pm.cartridge.ReadCHR(address)
		}
		return 0
	case address < 0x3F00:
		return pm.vram[pm.nametableIndex(address)]
	default:
		return pm.readPalette(address)
	}
}

// Write writes to PPU address space ($0000-$3FFF).
func (pm *PPUMemory) Write(address uint16, value uint8) {
	address &= 0x3FFF

	switch {
	case address < 0x2000:
		if pm.cartridge != nil {
			pm.cartridge.WriteCHR(address, value)
		}
	case address < 0x3F00:
		pm.vram[pm.nametableIndex(address)] = value
	default:
		pm.writePalette(address, value)
	}
}

// nametableIndex folds a nametable address ($2000-$3EFF) into the VRAM
// array according to the cartridge's mirroring.
func (pm *PPUMemory) nametableIndex(address uint16) uint16 {
	address &= 0x0FFF
	table := address >> 10 & 3
	offset := address & 0x3FF

	switch pm.mirroring {
	case MirrorHorizontal:
		if table >= 2 {
			return 0x400 + offset
		}
		return offset
	case MirrorVertical:
		if table == 1 || table == 3 {
			return 0x400 + offset
		}
		return offset
	case MirrorSingleScreen0:
		return offset
	case MirrorSingleScreen1:
		return 0x400 + offset
	case MirrorFourScreen:
		return table*0x400 + offset
	default:
		return offset
	}
}

func paletteIndex(address uint16) uint16 {
	index := (address - 0x3F00) & 0x1F
	// $3F10/$3F14/$3F18/$3F1C mirror the background entries.
	if index >= 0x10 && index&0x03 == 0 {
		index &= 0x0F
	}
	return index
}

func (pm *PPUMemory) readPalette(address uint16) uint8 {
	return pm.palette[paletteIndex(address)]
}

func (pm *PPUMemory) writePalette(address uint16, value uint8) {
	pm.palette[paletteIndex(address)] = value
}

// Save copies VRAM and palette RAM into the PPU snapshot.
func (pm *PPUMemory) Save(s *state.PPU) {
	s.VRAM = pm.vram
	s.Palette = pm.palette
}

// Load restores VRAM and palette RAM from the PPU snapshot.
func (pm *PPUMemory) Load(s *state.PPU) {
	pm.vram = s.VRAM
	pm.palette = s.Palette
}
