package cpu

// Instruction describes one opcode: mnemonic, encoded length, base cycle
// count and addressing mode. Penalty marks the read instructions that pay
// one extra cycle when indexing crosses a page; stores and
// read-modify-write forms bake the worst case into Cycles instead.
type Instruction struct {
	Name    string
	Bytes   uint8
	Cycles  uint8
	Mode    AddressingMode
	Penalty bool
}

// optable is the 256-entry dispatch table. Entries left zero are unmapped
// opcodes (the JAM group); Step treats them as NOPs unless strict mode is
// on. Cycle counts follow the reference 6502 timing chart.
var optable = [256]Instruction{
	// Load
	0xA9: {"LDA", 2, 2, Immediate, false},
	0xA5: {"LDA", 2, 3, ZeroPage, false},
	0xB5: {"LDA", 2, 4, ZeroPageX, false},
	0xAD: {"LDA", 3, 4, Absolute, false},
	0xBD: {"LDA", 3, 4, AbsoluteX, true},
	0xB9: {"LDA", 3, 4, AbsoluteY, true},
	0xA1: {"LDA", 2, 6, IndexedIndirect, false},
	0xB1: {"LDA", 2, 5, IndirectIndexed, true},

	0xA2: {"LDX", 2, 2, Immediate, false},
	0xA6: {"LDX", 2, 3, ZeroPage, false},
	0xB6: {"LDX", 2, 4, ZeroPageY, false},
	0xAE: {"LDX", 3, 4, Absolute, false},
	0xBE: {"LDX", 3, 4, AbsoluteY, true},

	0xA0: {"LDY", 2, 2, Immediate, false},
	0xA4: {"LDY", 2, 3, ZeroPage, false},
	0xB4: {"LDY", 2, 4, ZeroPageX, false},
	0xAC: {"LDY", 3, 4, Absolute, false},
	0xBC: {"LDY", 3, 4, AbsoluteX, true},

	// Store
	0x85: {"STA", 2, 3, ZeroPage, false},
	0x95: {"STA", 2, 4, ZeroPageX, false},
	0x8D: {"STA", 3, 4, Absolute, false},
	0x9D: {"STA", 3, 5, AbsoluteX, false},
	0x99: {"STA", 3, 5, AbsoluteY, false},
	0x81: {"STA", 2, 6, IndexedIndirect, false},
	0x91: {"STA", 2, 6, IndirectIndexed, false},

	0x86: {"STX", 2, 3, ZeroPage, false},
	0x96: {"STX", 2, 4, ZeroPageY, false},
	0x8E: {"STX", 3, 4, Absolute, false},

	0x84: {"STY", 2, 3, ZeroPage, false},
	0x94: {"STY", 2, 4, ZeroPageX, false},
	0x8C: {"STY", 3, 4, Absolute, false},

	// Arithmetic
	0x69: {"ADC", 2, 2, Immediate, false},
	0x65: {"ADC", 2, 3, ZeroPage, false},
	0x75: {"ADC", 2, 4, ZeroPageX, false},
	0x6D: {"ADC", 3, 4, Absolute, false},
	0x7D: {"ADC", 3, 4, AbsoluteX, true},
	0x79: {"ADC", 3, 4, AbsoluteY, true},
	0x61: {"ADC", 2, 6, IndexedIndirect, false},
	0x71: {"ADC", 2, 5, IndirectIndexed, true},

	0xE9: {"SBC", 2, 2, Immediate, false},
	0xE5: {"SBC", 2, 3, ZeroPage, false},
	0xF5: {"SBC", 2, 4, ZeroPageX, false},
	0xED: {"SBC", 3, 4, Absolute, false},
	0xFD: {"SBC", 3, 4, AbsoluteX, true},
	0xF9: {"SBC", 3, 4, AbsoluteY, true},
	0xE1: {"SBC", 2, 6, IndexedIndirect, false},
	0xF1: {"SBC", 2, 5, IndirectIndexed, true},
	0xEB: {"SBC", 2, 2, Immediate, false}, // unofficial alias

	// Logic
	0x29: {"AND", 2, 2, Immediate, false},
	0x25: {"AND", 2, 3, ZeroPage, false},
	0x35: {"AND", 2, 4, ZeroPageX, false},
	0x2D: {"AND", 3, 4, Absolute, false},
	0x3D: {"AND", 3, 4, AbsoluteX, true},
	0x39: {"AND", 3, 4, AbsoluteY, true},
	0x21: {"AND", 2, 6, IndexedIndirect, false},
	0x31: {"AND", 2, 5, IndirectIndexed, true},

	0x09: {"ORA", 2, 2, Immediate, false},
	0x05: {"ORA", 2, 3, ZeroPage, false},
	0x15: {"ORA", 2, 4, ZeroPageX, false},
	0x0D: {"ORA", 3, 4, Absolute, false},
	0x1D: {"ORA", 3, 4, AbsoluteX, true},
	0x19: {"ORA", 3, 4, AbsoluteY, true},
	0x01: {"ORA", 2, 6, IndexedIndirect, false},
	0x11: {"ORA", 2, 5, IndirectIndexed, true},

	0x49: {"EOR", 2, 2, Immediate, false},
	0x45: {"EOR", 2, 3, ZeroPage, false},
	0x55: {"EOR", 2, 4, ZeroPageX, false},
	0x4D: {"EOR", 3, 4, Absolute, false},
	0x5D: {"EOR", 3, 4, AbsoluteX, true},
	0x59: {"EOR", 3, 4, AbsoluteY, true},
	0x41: {"EOR", 2, 6, IndexedIndirect, false},
	0x51: {"EOR", 2, 5, IndirectIndexed, true},

	// Shifts and rotates
	0x0A: {"ASL", 1, 2, Accumulator, false},
	0x06: {"ASL", 2, 5, ZeroPage, false},
	0x16: {"ASL", 2, 6, ZeroPageX, false},
	0x0E: {"ASL", 3, 6, Absolute, false},
	0x1E: {"ASL", 3, 7, AbsoluteX, false},

	0x4A: {"LSR", 1, 2, Accumulator, false},
	0x46: {"LSR", 2, 5, ZeroPage, false},
	0x56: {"LSR", 2, 6, ZeroPageX, false},
	0x4E: {"LSR", 3, 6, Absolute, false},
	0x5E: {"LSR", 3, 7, AbsoluteX, false},

	0x2A: {"ROL", 1, 2, Accumulator, false},
	0x26: {"ROL", 2, 5, ZeroPage, false},
	0x36: {"ROL", 2, 6, ZeroPageX, false},
	0x2E: {"ROL", 3, 6, Absolute, false},
	0x3E: {"ROL", 3, 7, AbsoluteX, false},

	0x6A: {"ROR", 1, 2, Accumulator, false},
	0x66: {"ROR", 2, 5, ZeroPage, false},
	0x76: {"ROR", 2, 6, ZeroPageX, false},
	0x6E: {"ROR", 3, 6, Absolute, false},
	0x7E: {"ROR", 3, 7, AbsoluteX, false},

	// Compare
	0xC9: {"CMP", 2, 2, Immediate, false},
	0xC5: {"CMP", 2, 3, ZeroPage, false},
	0xD5: {"CMP", 2, 4, ZeroPageX, false},
	0xCD: {"CMP", 3, 4, Absolute, false},
	0xDD: {"CMP", 3, 4, AbsoluteX, true},
	0xD9: {"CMP", 3, 4, AbsoluteY, true},
	0xC1: {"CMP", 2, 6, IndexedIndirect, false},
	0xD1: {"CMP", 2, 5, IndirectIndexed, true},

	0xE0: {"CPX", 2, 2, Immediate, false},
	0xE4: {"CPX", 2, 3, ZeroPage, false},
	0xEC: {"CPX", 3, 4, Absolute, false},

	0xC0: {"CPY", 2, 2, Immediate, false},
	0xC4: {"CPY", 2, 3, ZeroPage, false},
	0xCC: {"CPY", 3, 4, Absolute, false},

	// Increment and decrement
	0xE6: {"INC", 2, 5, ZeroPage, false},
	0xF6: {"INC", 2, 6, ZeroPageX, false},
	0xEE: {"INC", 3, 6, Absolute, false},
	0xFE: {"INC", 3, 7, AbsoluteX, false},

	0xC6: {"DEC", 2, 5, ZeroPage, false},
	0xD6: {"DEC", 2, 6, ZeroPageX, false},
	0xCE: {"DEC", 3, 6, Absolute, false},
	0xDE: {"DEC", 3, 7, AbsoluteX, false},

	0xE8: {"INX", 1, 2, Implied, false},
	0xCA: {"DEX", 1, 2, Implied, false},
	0xC8: {"INY", 1, 2, Implied, false},
	0x88: {"DEY", 1, 2, Implied, false},

	// Register transfers
	0xAA: {"TAX", 1, 2, Implied, false},
	0x8A: {"TXA", 1, 2, Implied, false},
	0xA8: {"TAY", 1, 2, Implied, false},
	0x98: {"TYA", 1, 2, Implied, false},
	0xBA: {"TSX", 1, 2, Implied, false},
	0x9A: {"TXS", 1, 2, Implied, false},

	// Stack
	0x48: {"PHA", 1, 3, Implied, false},
	0x68: {"PLA", 1, 4, Implied, false},
	0x08: {"PHP", 1, 3, Implied, false},
	0x28: {"PLP", 1, 4, Implied, false},

	// Flags
	0x18: {"CLC", 1, 2, Implied, false},
	0x38: {"SEC", 1, 2, Implied, false},
	0x58: {"CLI", 1, 2, Implied, false},
	0x78: {"SEI", 1, 2, Implied, false},
	0xB8: {"CLV", 1, 2, Implied, false},
	0xD8: {"CLD", 1, 2, Implied, false},
	0xF8: {"SED", 1, 2, Implied, false},

	// Control flow
	0x4C: {"JMP", 3, 3, Absolute, false},
	0x6C: {"JMP", 3, 5, Indirect, false},
	0x20: {"JSR", 3, 6, Absolute, false},
	0x60: {"RTS", 1, 6, Implied, false},
	0x40: {"RTI", 1, 6, Implied, false},

	// Branches: the taken/page-cross penalties are added by the branch
	// handler itself, not via Penalty.
	0x90: {"BCC", 2, 2, Relative, false},
	0xB0: {"BCS", 2, 2, Relative, false},
	0xD0: {"BNE", 2, 2, Relative, false},
	0xF0: {"BEQ", 2, 2, Relative, false},
	0x10: {"BPL", 2, 2, Relative, false},
	0x30: {"BMI", 2, 2, Relative, false},
	0x50: {"BVC", 2, 2, Relative, false},
	0x70: {"BVS", 2, 2, Relative, false},

	// Misc
	0x24: {"BIT", 2, 3, ZeroPage, false},
	0x2C: {"BIT", 3, 4, Absolute, false},
	0xEA: {"NOP", 1, 2, Implied, false},
	0x00: {"BRK", 1, 7, Implied, false},

	// Unofficial NOP variants referenced by commercial ROMs.
	0x1A: {"NOP", 1, 2, Implied, false},
	0x3A: {"NOP", 1, 2, Implied, false},
	0x5A: {"NOP", 1, 2, Implied, false},
	0x7A: {"NOP", 1, 2, Implied, false},
	0xDA: {"NOP", 1, 2, Implied, false},
	0xFA: {"NOP", 1, 2, Implied, false},
	0x80: {"NOP", 2, 2, Immediate, false},
	0x82: {"NOP", 2, 2, Immediate, false},
	0x89: {"NOP", 2, 2, Immediate, false},
	0xC2: {"NOP", 2, 2, Immediate, false},
	0xE2: {"NOP", 2, 2, Immediate, false},
	0x04: {"NOP", 2, 3, ZeroPage, false},
	0x44: {"NOP", 2, 3, ZeroPage, false},
	0x64: {"NOP", 2, 3, ZeroPage, false},
	0x14: {"NOP", 2, 4, ZeroPageX, false},
	0x34: {"NOP", 2, 4, ZeroPageX, false},
	0x54: {"NOP", 2, 4, ZeroPageX, false},
	0x74: {"NOP", 2, 4, ZeroPageX, false},
	0xD4: {"NOP", 2, 4, ZeroPageX, false},
	0xF4: {"NOP", 2, 4, ZeroPageX, false},
	0x0C: {"NOP", 3, 4, Absolute, false},
	0x1C: {"NOP", 3, 4, AbsoluteX, true},
	0x3C: {"NOP", 3, 4, AbsoluteX, true},
	0x5C: {"NOP", 3, 4, AbsoluteX, true},
	0x7C: {"NOP", 3, 4, AbsoluteX, true},
	0xDC: {"NOP", 3, 4, AbsoluteX, true},
	0xFC: {"NOP", 3, 4, AbsoluteX, true},

	// Unofficial combined operations.
	0xA7: {"LAX", 2, 3, ZeroPage, false},
	0xB7: {"LAX", 2, 4, ZeroPageY, false},
	0xAF: {"LAX", 3, 4, Absolute, false},
	0xBF: {"LAX", 3, 4, AbsoluteY, true},
	0xA3: {"LAX", 2, 6, IndexedIndirect, false},
	0xB3: {"LAX", 2, 5, IndirectIndexed, true},

	0x87: {"SAX", 2, 3, ZeroPage, false},
	0x97: {"SAX", 2, 4, ZeroPageY, false},
	0x8F: {"SAX", 3, 4, Absolute, false},
	0x83: {"SAX", 2, 6, IndexedIndirect, false},

	0xC7: {"DCP", 2, 5, ZeroPage, false},
	0xD7: {"DCP", 2, 6, ZeroPageX, false},
	0xCF: {"DCP", 3, 6, Absolute, false},
	0xDF: {"DCP", 3, 7, AbsoluteX, false},
	0xDB: {"DCP", 3, 7, AbsoluteY, false},
	0xC3: {"DCP", 2, 8, IndexedIndirect, false},
	0xD3: {"DCP", 2, 8, IndirectIndexed, false},

	0xE7: {"ISB", 2, 5, ZeroPage, false},
	0xF7: {"ISB", 2, 6, ZeroPageX, false},
	0xEF: {"ISB", 3, 6, Absolute, false},
	0xFF: {"ISB", 3, 7, AbsoluteX, false},
	0xFB: {"ISB", 3, 7, AbsoluteY, false},
	0xE3: {"ISB", 2, 8, IndexedIndirect, false},
	0xF3: {"ISB", 2, 8, IndirectIndexed, false},

	0x07: {"SLO", 2, 5, ZeroPage, false},
	0x17: {"SLO", 2, 6, ZeroPageX, false},
	0x0F: {"SLO", 3, 6, Absolute, false},
	0x1F: {"SLO", 3, 7, AbsoluteX, false},
	0x1B: {"SLO", 3, 7, AbsoluteY, false},
	0x03: {"SLO", 2, 8, IndexedIndirect, false},
	0x13: {"SLO", 2, 8, IndirectIndexed, false},

	0x27: {"RLA", 2, 5, ZeroPage, false},
	0x37: {"RLA", 2, 6, ZeroPageX, false},
	0x2F: {"RLA", 3, 6, Absolute, false},
	0x3F: {"RLA", 3, 7, AbsoluteX, false},
	0x3B: {"RLA", 3, 7, AbsoluteY, false},
	0x23: {"RLA", 2, 8, IndexedIndirect, false},
	0x33: {"RLA", 2, 8, IndirectIndexed, false},

	0x47: {"SRE", 2, 5, ZeroPage, false},
	0x57: {"SRE", 2, 6, ZeroPageX, false},
	0x4F: {"SRE", 3, 6, Absolute, false},
	0x5F: {"SRE", 3, 7, AbsoluteX, false},
	0x5B: {"SRE", 3, 7, AbsoluteY, false},
	0x43: {"SRE", 2, 8, IndexedIndirect, false},
	0x53: {"SRE", 2, 8, IndirectIndexed, false},

	0x67: {"RRA", 2, 5, ZeroPage, false},
	0x77: {"RRA", 2, 6, ZeroPageX, false},
	0x6F: {"RRA", 3, 6, Absolute, false},
	0x7F: {"RRA", 3, 7, AbsoluteX, false},
	0x7B: {"RRA", 3, 7, AbsoluteY, false},
	0x63: {"RRA", 2, 8, IndexedIndirect, false},
	0x73: {"RRA", 2, 8, IndirectIndexed, false},

	// Remaining one-offs, executed as NOPs of the right shape so PC and
	// timing stay consistent.
	0x0B: {"NOP", 2, 2, Immediate, false}, // ANC
	0x2B: {"NOP", 2, 2, Immediate, false}, // ANC
	0x4B: {"NOP", 2, 2, Immediate, false}, // ALR
	0x6B: {"NOP", 2, 2, Immediate, false}, // ARR
	0x8B: {"NOP", 2, 2, Immediate, false}, // XAA
	0xAB: {"NOP", 2, 2, Immediate, false}, // LAX #imm
	0xCB: {"NOP", 2, 2, Immediate, false}, // AXS
	0x93: {"NOP", 2, 6, IndirectIndexed, false}, // AHX
	0x9B: {"NOP", 3, 5, AbsoluteY, false},       // TAS
	0x9C: {"NOP", 3, 5, AbsoluteX, false},       // SHY
	0x9E: {"NOP", 3, 5, AbsoluteY, false},       // SHX
	0x9F: {"NOP", 3, 5, AbsoluteY, false},       // AHX
	0xBB: {"NOP", 3, 4, AbsoluteY, true},        // LAS
}

// Opcode exposes the table entry for a byte; the zero value means the
// opcode is unmapped.
func Opcode(op uint8) Instruction {
	return optable[op]
}
