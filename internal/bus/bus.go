// Package bus wires the console together. System is the composition root:
// it owns the CPU, PPU, APU, memory map, controller ports and cartridge,
// drives the 1:3:1 clock interleave, carries the NMI/IRQ lines between
// chips, and holds the single save-state slot.
package bus

import (
	"fmt"

	"github.com/minnowc/nes-2/internal/apu"
	"github.com/minnowc/nes-2/internal/cartridge"
	"github.com/minnowc/nes-2/internal/cpu"
	"github.com/minnowc/nes-2/internal/input"
	"github.com/minnowc/nes-2/internal/memory"
	"github.com/minnowc/nes-2/internal/ppu"
	"github.com/minnowc/nes-2/internal/state"
)

// System owns one instance of every chip. Chips hold no references to each
// other; all peer access resolves through the System.
type System struct {
	CPU    *cpu.CPU
	PPU    *ppu.PPU
	APU    *apu.APU
	Memory *memory.Memory
	Ports  *input.Ports
	Cart   *cartridge.Cartridge

	snapshot    state.State
	hasSnapshot bool

	// stall counts CPU cycles stolen by OAM DMA and DMC fetches. The
	// devices keep ticking while the CPU is held.
	stall uint64

	cpuCycles uint64
	halted    bool

	// audioSink, when set, receives the per-channel sample levels once
	// per CPU cycle. Mixing and resampling happen on the sink side.
	audioSink func(levels [apu.NumChannels]int)
}

// New builds a console with no cartridge inserted.
func New() *System {
	s := &System{
		PPU:   ppu.New(),
		APU:   apu.New(),
		Ports: input.NewPorts(),
	}
	s.Memory = memory.New(s.PPU, s.APU, nil)
	s.Memory.SetInput(s.Ports)
	s.Memory.SetDMACallback(s.oamDMA)
	s.CPU = cpu.New(s.Memory)
	s.PPU.SetNMICallback(s.PullNMI)
	s.APU.AttachSystem(s)
	return s
}

// Load inserts the cartridge at path, replacing any previous one, and
// resets the CPU from the new reset vector. Other chip state persists
// across the swap.
func (s *System) Load(path string) error {
	cart, err := cartridge.LoadFromFile(path)
	if err != nil {
		return err
	}
	s.Insert(cart)
	return nil
}

// Insert attaches an already-parsed cartridge.
func (s *System) Insert(cart *cartridge.Cartridge) {
	s.Cart = cart
	s.Memory.SetCartridge(cart)
	s.PPU.SetMemory(memory.NewPPUMemory(cart, mirrorMode(cart.MirrorMode())))
	s.ResetCPU()
}

func mirrorMode(m cartridge.MirrorMode) memory.MirrorMode {
	switch m {
	case cartridge.MirrorVertical:
		return memory.MirrorVertical
	case cartridge.MirrorFourScreen:
		return memory.MirrorFourScreen
	default:
		return memory.MirrorHorizontal
	}
}

// ResetCPU reconstructs the CPU and vectors it through $FFFC. The PPU and
// APU stay alive, as on a console reset.
func (s *System) ResetCPU() {
	s.CPU = cpu.New(s.Memory)
	s.CPU.Reset()
}

// Step runs one CPU instruction (or burns pending stall cycles) and
// advances the PPU three dots and the APU one tick per CPU cycle, PPU
// first within each cycle.
func (s *System) Step() uint64 {
	var cycles uint64
	if s.stall > 0 {
		cycles = s.stall
		s.stall = 0
	} else {
		cycles = s.CPU.Step()
	}

	for i := uint64(0); i < cycles; i++ {
		s.PPU.Tick()
		s.PPU.Tick()
		s.PPU.Tick()
		s.APU.Tick()
		if s.audioSink != nil {
			s.audioSink(s.APU.Levels())
		}
	}

	s.cpuCycles += cycles
	return cycles
}

// Run executes instructions until Halt is called from a callback or
// another component.
func (s *System) Run() {
	s.halted = false
	for !s.halted {
		s.Step()
	}
}

// Halt stops Run at the next instruction boundary.
func (s *System) Halt() {
	s.halted = true
}

// RunFrame executes until the PPU finishes the current frame.
func (s *System) RunFrame() {
	frame := s.PPU.FrameCount()
	for s.PPU.FrameCount() == frame {
		s.Step()
	}
}

// Cycles reports total CPU cycles since power-up, including stalls.
func (s *System) Cycles() uint64 {
	return s.cpuCycles
}

// PullNMI is the PPU's vblank line: latches a single-shot NMI on the CPU.
func (s *System) PullNMI() {
	s.CPU.TriggerNMI()
}

// PullIRQ is the shared IRQ line from the APU and mapper.
func (s *System) PullIRQ() {
	s.CPU.TriggerIRQ()
}

// Read exposes the CPU memory map; the APU uses it for DMC sample
// fetches.
func (s *System) Read(address uint16) uint8 {
	return s.Memory.Read(address)
}

// Write exposes the CPU memory map.
func (s *System) Write(address uint16, value uint8) {
	s.Memory.Write(address, value)
}

// StallCPU withholds the CPU for the given number of cycles while the
// other chips keep running.
func (s *System) StallCPU(cycles uint64) {
	s.stall += cycles
}

// oamDMA services a $4014 write: 256 bytes copied from CPU page<<8 into
// PPU OAM, stalling the CPU 513 cycles (514 from an odd cycle).
func (s *System) oamDMA(page uint8) {
	base := uint16(page) << 8
	for i := uint16(0); i < 256; i++ {
		s.PPU.WriteOAM(uint8(i), s.Memory.Read(base+i))
	}
	stall := uint64(513)
	if s.cpuCycles%2 == 1 {
		stall++
	}
	s.stall += stall
}

// SaveState copies CPU and PPU state into the single snapshot slot. Call
// only between instructions.
func (s *System) SaveState() {
	s.CPU.Save(&s.snapshot.CPU)
	s.Memory.SaveRAM(&s.snapshot.CPU.RAM)
	s.PPU.Save(&s.snapshot.PPU)
	s.hasSnapshot = true
}

// RestoreState overwrites CPU and PPU state from the snapshot slot.
func (s *System) RestoreState() error {
	if !s.hasSnapshot {
		return fmt.Errorf("bus: no snapshot taken")
	}
	s.CPU.Load(&s.snapshot.CPU)
	s.Memory.LoadRAM(&s.snapshot.CPU.RAM)
	s.PPU.Load(&s.snapshot.PPU)
	return nil
}

// Snapshot exposes the current slot contents for inspection.
func (s *System) Snapshot() *state.State {
	return &s.snapshot
}

// FrameBuffer exposes the PPU's rendered frame for the video sink.
func (s *System) FrameBuffer() *[ppu.FrameWidth * ppu.FrameHeight]uint32 {
	return s.PPU.FrameBuffer()
}

// ChannelLevels exposes the APU's momentary per-channel sample levels for
// the audio sink.
func (s *System) ChannelLevels() [apu.NumChannels]int {
	return s.APU.Levels()
}

// SetAudioSink registers the per-cycle consumer of channel levels.
func (s *System) SetAudioSink(sink func(levels [apu.NumChannels]int)) {
	s.audioSink = sink
}

// SetButtons updates all eight buttons of one pad (1 or 2).
func (s *System) SetButtons(pad int, buttons [8]bool) {
	switch pad {
	case 1:
		s.Ports.Pad1.SetButtons(buttons)
	case 2:
		s.Ports.Pad2.SetButtons(buttons)
	}
}
