package bus

import (
	"bytes"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minnowc/nes-2/internal/cartridge"
	"github.com/minnowc/nes-2/internal/state"
)

// program assembles a 16KB NROM image: code at $C000, an NMI handler that
// bumps $00F0 and returns, and vectors pointing at both.
func program(code []byte) *cartridge.Cartridge {
	prg := make([]byte, 0x4000)
	copy(prg[0x0000:], code) // mapped at $C000 (and mirrored at $8000)

	// NMI handler at $C100: INC $F0; RTI
	copy(prg[0x0100:], []byte{0xE6, 0xF0, 0x40})

	// Vectors: NMI $C100, reset $C000, IRQ $C100.
	prg[0x3FFA] = 0x00
	prg[0x3FFB] = 0xC1
	prg[0x3FFC] = 0x00
	prg[0x3FFD] = 0xC0
	prg[0x3FFE] = 0x00
	prg[0x3FFF] = 0xC1

	header := make([]byte, 16)
	copy(header, "NES\x1A")
	header[4] = 1 // one PRG bank
	header[5] = 1 // one CHR bank

	image := append(header, prg...)
	image = append(image, make([]byte, 0x2000)...)

	cart, err := cartridge.LoadFromReader(bytes.NewReader(image))
	if err != nil {
		panic(err)
	}
	return cart
}

// newTestSystem boots a console running the given code from $C000.
func newTestSystem(code []byte) *System {
	s := New()
	s.Insert(program(code))
	return s
}

// An infinite loop: JMP $C000.
var spin = []byte{0x4C, 0x00, 0xC0}

func TestResetVectorsThroughCartridge(t *testing.T) {
	s := newTestSystem(spin)
	assert.Equal(t, uint16(0xC000), s.CPU.PC)
}

func TestStepAdvancesDevicesInLockstep(t *testing.T) {
	s := newTestSystem(spin)

	startDot := s.PPU.Dot()
	cycles := s.Step() // JMP: 3 cycles

	assert.Equal(t, uint64(3), cycles)
	assert.Equal(t, startDot+9, s.PPU.Dot(), "three PPU dots per CPU cycle")
}

func TestRunFrameProducesAFrame(t *testing.T) {
	s := newTestSystem(spin)

	s.RunFrame()

	assert.Equal(t, uint64(1), s.PPU.FrameCount())
	// A frame is 341*262/3 = 29780.67 CPU cycles.
	assert.InDelta(t, 29781, float64(s.Cycles()), 16)
}

func TestNMIDeliveredToHandler(t *testing.T) {
	// Enable NMI ($2000 <- $80), then spin.
	s := newTestSystem([]byte{
		0xA9, 0x80, // LDA #$80
		0x8D, 0x00, 0x20, // STA $2000
		0x4C, 0x05, 0xC0, // JMP $C005
	})

	s.RunFrame()
	s.RunFrame()

	// The handler incremented the marker at least once per frame.
	marker := s.Memory.Read(0x00F0)
	assert.GreaterOrEqual(t, int(marker-0xFF), 2, "NMI handler ran each vblank")
}

func TestOAMDMAStallsCPU(t *testing.T) {
	// LDA #$02, STA $4014, then spin.
	s := newTestSystem([]byte{
		0xA9, 0x02,
		0x8D, 0x14, 0x40,
		0x4C, 0x05, 0xC0,
	})

	s.Step() // LDA
	before := s.Cycles()
	s.Step() // STA triggers the copy
	s.Step() // burns the stall
	stalled := s.Cycles() - before

	assert.GreaterOrEqual(t, stalled, uint64(4+513))
	assert.LessOrEqual(t, stalled, uint64(4+514))
}

func TestOAMDMACopiesPage(t *testing.T) {
	s := newTestSystem(spin)

	for i := uint16(0); i < 256; i++ {
		s.Memory.Write(0x0200+i, uint8(i))
	}
	s.Memory.Write(0x4014, 0x02)

	// Spot-check the copy through OAMDATA.
	s.PPU.WriteRegister(0x2003, 0x40)
	assert.Equal(t, uint8(0x40), s.PPU.ReadRegister(0x2004))
}

func TestControllerReadThroughBus(t *testing.T) {
	s := newTestSystem(spin)
	s.SetButtons(1, [8]bool{true, false, false, true}) // A and Start

	s.Memory.Write(0x4016, 1)
	s.Memory.Write(0x4016, 0)

	bits := make([]uint8, 8)
	for i := range bits {
		bits[i] = s.Memory.Read(0x4016) & 1
	}
	assert.Equal(t, []uint8{1, 0, 0, 1, 0, 0, 0, 0}, bits)
}

func TestAPUIRQReachesCPU(t *testing.T) {
	// CLI; enable frame IRQs ($4017 <- $00); spin.
	s := newTestSystem([]byte{
		0x58,             // CLI
		0xA9, 0x00,       // LDA #$00
		0x8D, 0x17, 0x40, // STA $4017
		0x4C, 0x06, 0xC0, // JMP $C006
	})

	// Two frames comfortably cover the 29830-cycle IRQ interval; the
	// handler bumps the marker.
	s.RunFrame()
	s.RunFrame()

	assert.NotEqual(t, uint8(0xFF), s.Memory.Read(0x00F0), "IRQ handler ran")
}

func TestSaveRestoreIsIdentity(t *testing.T) {
	s := newTestSystem(spin)
	for i := 0; i < 100; i++ {
		s.Step()
	}

	s.SaveState()
	saved := *s.Snapshot()

	// Diverge: run on and scribble over RAM.
	for i := 0; i < 5000; i++ {
		s.Step()
	}
	s.Memory.Write(0x0123, 0xEE)

	require.NoError(t, s.RestoreState())

	var roundTrip state.State
	s.CPU.Save(&roundTrip.CPU)
	s.Memory.SaveRAM(&roundTrip.CPU.RAM)
	s.PPU.Save(&roundTrip.PPU)

	if saved != roundTrip {
		t.Fatalf("restore is not the identity:\nsaved: %s\ngot:   %s",
			spew.Sdump(saved), spew.Sdump(roundTrip))
	}
}

func TestRestoreWithoutSnapshotFails(t *testing.T) {
	s := newTestSystem(spin)
	assert.Error(t, s.RestoreState())
}

func TestRAMMirrorProperty(t *testing.T) {
	s := newTestSystem(spin)

	s.Memory.Write(0x0042, 0x55)
	for k := uint16(0); k < 0x800; k += 0x41 {
		base := s.Memory.Read(k)
		assert.Equal(t, base, s.Memory.Read(0x0800+k))
		assert.Equal(t, base, s.Memory.Read(0x1000+k))
		assert.Equal(t, base, s.Memory.Read(0x1800+k))
	}
}

func TestHaltStopsRun(t *testing.T) {
	s := newTestSystem(spin)

	steps := 0
	s.PPU.SetFrameCallback(func() {
		steps++
		s.Halt()
	})

	s.Run()
	assert.Equal(t, 1, steps, "run stops at the first frame boundary after Halt")
}
