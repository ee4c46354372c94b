package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// controlFlow lists the mnemonics whose PC movement is part of their
// semantics rather than their encoded length.
var controlFlow = map[string]bool{
	"JMP": true, "JSR": true, "RTS": true, "RTI": true, "BRK": true,
}

// TestEveryOpcodeAdvancesPCAndConsumesBaseCycles walks the whole table:
// each mapped opcode must advance PC by its encoded length (control flow
// aside) and consume at least its base cycle count.
func TestEveryOpcodeAdvancesPCAndConsumesBaseCycles(t *testing.T) {
	for op := 0; op < 256; op++ {
		inst := Opcode(uint8(op))
		if inst.Name == "" {
			continue
		}

		c, mem := newTestCPU(t, 0x8000)
		mem.load(0x8000, uint8(op), 0x00, 0x00)

		cycles := c.Step()

		require.GreaterOrEqual(t, cycles, uint64(inst.Cycles),
			"opcode %02X (%s) consumed fewer than base cycles", op, inst.Name)

		if !controlFlow[inst.Name] {
			assert.Equal(t, uint16(0x8000)+uint16(inst.Bytes), c.PC,
				"opcode %02X (%s) advanced PC incorrectly", op, inst.Name)
		}
	}
}

// TestTableSpotChecks pins a few entries against the reference timing
// chart.
func TestTableSpotChecks(t *testing.T) {
	tests := []struct {
		op     uint8
		name   string
		bytes  uint8
		cycles uint8
	}{
		{0x69, "ADC", 2, 2},
		{0x6C, "JMP", 3, 5},
		{0x00, "BRK", 1, 7},
		{0x9D, "STA", 3, 5},
		{0xB1, "LDA", 2, 5},
		{0xE3, "ISB", 2, 8},
		{0x1E, "ASL", 3, 7},
	}

	for _, tt := range tests {
		inst := Opcode(tt.op)
		assert.Equal(t, tt.name, inst.Name, "opcode %02X", tt.op)
		assert.Equal(t, tt.bytes, inst.Bytes, "opcode %02X bytes", tt.op)
		assert.Equal(t, tt.cycles, inst.Cycles, "opcode %02X cycles", tt.op)
	}
}

// TestPenaltyOnlyOnReadIndexedModes: Penalty must never be set for a mode
// that cannot cross a page during the operand fetch.
func TestPenaltyOnlyOnReadIndexedModes(t *testing.T) {
	for op := 0; op < 256; op++ {
		inst := Opcode(uint8(op))
		if !inst.Penalty {
			continue
		}
		switch inst.Mode {
		case AbsoluteX, AbsoluteY, IndirectIndexed:
		default:
			t.Errorf("opcode %02X (%s) has a penalty on mode %d", op, inst.Name, inst.Mode)
		}
	}
}
