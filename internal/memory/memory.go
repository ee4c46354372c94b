// Package memory implements the CPU-side memory map of the NES: the 2KB
// work RAM with its mirrors, and the routing of every other address range
// to the PPU, APU, input ports or cartridge.
package memory

// PPUInterface is the register window the PPU exposes at $2000-$2007.
type PPUInterface interface {
	ReadRegister(address uint16) uint8
	WriteRegister(address uint16, value uint8)
}

// APUInterface is the register window the APU exposes at $4000-$4017.
type APUInterface interface {
	WriteRegister(address uint16, value uint8)
	ReadStatus() uint8
}

// InputInterface is the controller port window at $4016/$4017.
type InputInterface interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// CartridgeInterface is the mapper as seen from both buses.
type CartridgeInterface interface {
	ReadPRG(address uint16) uint8
	WritePRG(address uint16, value uint8)
	ReadCHR(address uint16) uint8
	WriteCHR(address uint16, value uint8)
}

// Memory decodes CPU addresses. It owns the work RAM; everything else is a
// forward to the chip mapped at the range. Reads of unmapped addresses
// return zero (open bus approximated as zero).
type Memory struct {
	ram [0x800]uint8

	ppu       PPUInterface
	apu       APUInterface
	input     InputInterface
	cartridge CartridgeInterface

	// dmaCallback runs on a $4014 write with the source page; the bus
	// performs the 256-byte OAM copy and the CPU stall.
	dmaCallback func(page uint8)
}

// New creates the memory map. The cartridge may be nil until a ROM is
// loaded; reads from its ranges return zero meanwhile.
func New(ppu PPUInterface, apu APUInterface, cart CartridgeInterface) *Memory {
	m := &Memory{
		ppu:       ppu,
		apu:       apu,
		cartridge: cart,
	}
	m.initRAM()
	return m
}

// SetInput attaches the controller ports.
func (m *Memory) SetInput(input InputInterface) {
	m.input = input
}

// SetDMACallback registers the OAM DMA trigger.
func (m *Memory) SetDMACallback(callback func(page uint8)) {
	m.dmaCallback = callback
}

// SetCartridge swaps the cartridge; chip state is untouched.
func (m *Memory) SetCartridge(cart CartridgeInterface) {
	m.cartridge = cart
}

// initRAM fills the work RAM with the fixed power-up pattern: $FF
// everywhere except a handful of bytes games are known to probe.
func (m *Memory) initRAM() {
	for i := range m.ram {
		m.ram[i] = 0xFF
	}
	m.ram[0x008] = 0xF7
	m.ram[0x009] = 0xEF
	m.ram[0x00A] = 0xDF
	m.ram[0x00F] = 0xBF
	m.ram[0x1FC] = 0x69
}

// Read decodes one CPU read. Side effects (status clears, buffer loads,
// shift-register advances) happen in the target chip at this moment.
func (m *Memory) Read(address uint16) uint8 {
	switch {
	case address < 0x2000:
		return m.ram[address&0x07FF]

	case address < 0x4000:
		return m.ppu.ReadRegister(0x2000 + address&0x0007)

	case address < 0x4020:
		switch address {
		case 0x4015:
			return m.apu.ReadStatus()
		case 0x4016, 0x4017:
			if m.input != nil {
				return m.input.Read(address)
			}
			return 0
		default:
			// Write-only or unmapped I/O.
			return 0
		}

	default:
		// $4020-$FFFF belongs to the cartridge; the mapper decides.
		if m.cartridge != nil {
			return m.cartridge.ReadPRG(address)
		}
		return 0
	}
}

// Write decodes one CPU write.
func (m *Memory) Write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		m.ram[address&0x07FF] = value

	case address < 0x4000:
		m.ppu.WriteRegister(0x2000+address&0x0007, value)

	case address < 0x4020:
		switch {
		case address == 0x4014:
			if m.dmaCallback != nil {
				m.dmaCallback(value)
			}
		case address == 0x4016:
			if m.input != nil {
				m.input.Write(address, value)
			}
		case address <= 0x4013 || address == 0x4015 || address == 0x4017:
			m.apu.WriteRegister(address, value)
		}
		// $4018-$401F ignored.

	default:
		// Mapper sees every cartridge-range write; bank-select
		// registers live here on many boards.
		if m.cartridge != nil {
			m.cartridge.WritePRG(address, value)
		}
	}
}

// SaveRAM copies the work RAM into a snapshot buffer.
func (m *Memory) SaveRAM(dst *[0x800]uint8) {
	*dst = m.ram
}

// LoadRAM restores the work RAM from a snapshot buffer.
func (m *Memory) LoadRAM(src *[0x800]uint8) {
	m.ram = *src
}
