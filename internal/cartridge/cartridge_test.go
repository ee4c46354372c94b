package cartridge

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildROM assembles a minimal iNES image in memory.
func buildROM(prgBanks, chrBanks int, flags6, flags7 uint8) []byte {
	header := make([]byte, 16)
	copy(header, "NES\x1A")
	header[4] = uint8(prgBanks)
	header[5] = uint8(chrBanks)
	header[6] = flags6
	header[7] = flags7

	rom := append([]byte{}, header...)
	prg := make([]byte, prgBanks*0x4000)
	for i := range prg {
		prg[i] = uint8(i / 128) // distinct value per 128-byte block, distinct banks
	}
	rom = append(rom, prg...)
	rom = append(rom, make([]byte, chrBanks*0x2000)...)
	return rom
}

func TestLoadValidROM(t *testing.T) {
	cart, err := LoadFromReader(bytes.NewReader(buildROM(1, 1, 0x01, 0)))
	require.NoError(t, err)

	assert.Equal(t, uint8(0), cart.MapperID())
	assert.Equal(t, MirrorVertical, cart.MirrorMode())
	assert.False(t, cart.HasBattery())
}

func TestLoadRejectsBadMagic(t *testing.T) {
	rom := buildROM(1, 1, 0, 0)
	rom[0] = 'X'

	_, err := LoadFromReader(bytes.NewReader(rom))
	assert.ErrorIs(t, err, ErrInvalidROM)
}

func TestLoadRejectsZeroPRG(t *testing.T) {
	_, err := LoadFromReader(bytes.NewReader(buildROM(0, 1, 0, 0)))
	assert.ErrorIs(t, err, ErrInvalidROM)
}

func TestLoadRejectsTruncatedPRG(t *testing.T) {
	rom := buildROM(2, 0, 0, 0)
	_, err := LoadFromReader(bytes.NewReader(rom[:16+0x4000]))
	assert.ErrorIs(t, err, ErrInvalidROM)
}

func TestLoadRejectsUnsupportedMapper(t *testing.T) {
	_, err := LoadFromReader(bytes.NewReader(buildROM(1, 1, 0x10, 0)))
	assert.ErrorIs(t, err, ErrUnsupportedMapper)
}

func TestMirrorFlags(t *testing.T) {
	cart, err := LoadFromReader(bytes.NewReader(buildROM(1, 1, 0x00, 0)))
	require.NoError(t, err)
	assert.Equal(t, MirrorHorizontal, cart.MirrorMode())

	cart, err = LoadFromReader(bytes.NewReader(buildROM(1, 1, 0x08, 0)))
	require.NoError(t, err)
	assert.Equal(t, MirrorFourScreen, cart.MirrorMode())
}

func TestBatteryFlag(t *testing.T) {
	cart, err := LoadFromReader(bytes.NewReader(buildROM(1, 1, 0x02, 0)))
	require.NoError(t, err)
	assert.True(t, cart.HasBattery())
}

func TestNROM16KMirrorsUpperBank(t *testing.T) {
	cart, err := LoadFromReader(bytes.NewReader(buildROM(1, 1, 0, 0)))
	require.NoError(t, err)

	assert.Equal(t, cart.ReadPRG(0x8000), cart.ReadPRG(0xC000))
	assert.Equal(t, cart.ReadPRG(0x9234), cart.ReadPRG(0xD234))
}

func TestNROM32KIsDirectMapped(t *testing.T) {
	cart, err := LoadFromReader(bytes.NewReader(buildROM(2, 1, 0, 0)))
	require.NoError(t, err)

	assert.Equal(t, uint8(0x00), cart.ReadPRG(0x8000))
	assert.Equal(t, uint8(0x80), cart.ReadPRG(0xC000), "upper bank is its own data")
	assert.NotEqual(t, cart.ReadPRG(0x8100), cart.ReadPRG(0xC100))
}

func TestNROMSRAM(t *testing.T) {
	cart, err := LoadFromReader(bytes.NewReader(buildROM(1, 1, 0, 0)))
	require.NoError(t, err)

	cart.WritePRG(0x6000, 0x42)
	assert.Equal(t, uint8(0x42), cart.ReadPRG(0x6000))

	// ROM-range writes have no effect on NROM.
	before := cart.ReadPRG(0x8000)
	cart.WritePRG(0x8000, ^before)
	assert.Equal(t, before, cart.ReadPRG(0x8000))
}

func TestCHRRAMOnlyWhenNoCHRROM(t *testing.T) {
	withROM, err := LoadFromReader(bytes.NewReader(buildROM(1, 1, 0, 0)))
	require.NoError(t, err)
	withROM.WriteCHR(0x0000, 0x55)
	assert.Zero(t, withROM.ReadCHR(0x0000), "CHR ROM is read-only")

	withRAM, err := LoadFromReader(bytes.NewReader(buildROM(1, 0, 0, 0)))
	require.NoError(t, err)
	withRAM.WriteCHR(0x0000, 0x55)
	assert.Equal(t, uint8(0x55), withRAM.ReadCHR(0x0000))
}
