package cpu

// execute dispatches one fetched opcode. The effective address has already
// been resolved; accumulator-mode shift forms are handled inline.
func (c *CPU) execute(opcode uint8, address uint16, pageCrossed bool) {
	switch opcode {
	// Load and store
	case 0xA9, 0xA5, 0xB5, 0xAD, 0xBD, 0xB9, 0xA1, 0xB1: // LDA
		c.A = c.memory.Read(address)
		c.setZN(c.A)
	case 0xA2, 0xA6, 0xB6, 0xAE, 0xBE: // LDX
		c.X = c.memory.Read(address)
		c.setZN(c.X)
	case 0xA0, 0xA4, 0xB4, 0xAC, 0xBC: // LDY
		c.Y = c.memory.Read(address)
		c.setZN(c.Y)
	case 0x85, 0x95, 0x8D, 0x9D, 0x99, 0x81, 0x91: // STA
		c.memory.Write(address, c.A)
	case 0x86, 0x96, 0x8E: // STX
		c.memory.Write(address, c.X)
	case 0x84, 0x94, 0x8C: // STY
		c.memory.Write(address, c.Y)

	// Arithmetic
	case 0x69, 0x65, 0x75, 0x6D, 0x7D, 0x79, 0x61, 0x71: // ADC
		c.adc(c.memory.Read(address))
	case 0xE9, 0xEB, 0xE5, 0xF5, 0xED, 0xFD, 0xF9, 0xE1, 0xF1: // SBC
		c.adc(^c.memory.Read(address))

	// Logic
	case 0x29, 0x25, 0x35, 0x2D, 0x3D, 0x39, 0x21, 0x31: // AND
		c.A &= c.memory.Read(address)
		c.setZN(c.A)
	case 0x09, 0x05, 0x15, 0x0D, 0x1D, 0x19, 0x01, 0x11: // ORA
		c.A |= c.memory.Read(address)
		c.setZN(c.A)
	case 0x49, 0x45, 0x55, 0x4D, 0x5D, 0x59, 0x41, 0x51: // EOR
		c.A ^= c.memory.Read(address)
		c.setZN(c.A)

	// Shifts and rotates
	case 0x0A: // ASL A
		c.A = c.aslValue(c.A)
	case 0x06, 0x16, 0x0E, 0x1E: // ASL
		c.memory.Write(address, c.aslValue(c.memory.Read(address)))
	case 0x4A: // LSR A
		c.A = c.lsrValue(c.A)
	case 0x46, 0x56, 0x4E, 0x5E: // LSR
		c.memory.Write(address, c.lsrValue(c.memory.Read(address)))
	case 0x2A: // ROL A
		c.A = c.rolValue(c.A)
	case 0x26, 0x36, 0x2E, 0x3E: // ROL
		c.memory.Write(address, c.rolValue(c.memory.Read(address)))
	case 0x6A: // ROR A
		c.A = c.rorValue(c.A)
	case 0x66, 0x76, 0x6E, 0x7E: // ROR
		c.memory.Write(address, c.rorValue(c.memory.Read(address)))

	// Compare
	case 0xC9, 0xC5, 0xD5, 0xCD, 0xDD, 0xD9, 0xC1, 0xD1: // CMP
		c.compare(c.A, c.memory.Read(address))
	case 0xE0, 0xE4, 0xEC: // CPX
		c.compare(c.X, c.memory.Read(address))
	case 0xC0, 0xC4, 0xCC: // CPY
		c.compare(c.Y, c.memory.Read(address))

	// Increment and decrement
	case 0xE6, 0xF6, 0xEE, 0xFE: // INC
		value := c.memory.Read(address) + 1
		c.memory.Write(address, value)
		c.setZN(value)
	case 0xC6, 0xD6, 0xCE, 0xDE: // DEC
		value := c.memory.Read(address) - 1
		c.memory.Write(address, value)
		c.setZN(value)
	case 0xE8: // INX
		c.X++
		c.setZN(c.X)
	case 0xCA: // DEX
		c.X--
		c.setZN(c.X)
	case 0xC8: // INY
		c.Y++
		c.setZN(c.Y)
	case 0x88: // DEY
		c.Y--
		c.setZN(c.Y)

	// Register transfers
	case 0xAA: // TAX
		c.X = c.A
		c.setZN(c.X)
	case 0x8A: // TXA
		c.A = c.X
		c.setZN(c.A)
	case 0xA8: // TAY
		c.Y = c.A
		c.setZN(c.Y)
	case 0x98: // TYA
		c.A = c.Y
		c.setZN(c.A)
	case 0xBA: // TSX
		c.X = c.SP
		c.setZN(c.X)
	case 0x9A: // TXS
		c.SP = c.X

	// Stack
	case 0x48: // PHA
		c.push(c.A)
	case 0x68: // PLA
		c.A = c.pop()
		c.setZN(c.A)
	case 0x08: // PHP pushes with B and bit 5 set
		c.push(c.StatusByte() | bFlagMask | unusedMask)
	case 0x28: // PLP
		c.SetStatusByte(c.pop())

	// Flags
	case 0x18:
		c.C = false
	case 0x38:
		c.C = true
	case 0x58:
		c.I = false
	case 0x78:
		c.I = true
	case 0xB8:
		c.V = false
	case 0xD8:
		c.D = false
	case 0xF8:
		c.D = true

	// Control flow
	case 0x4C, 0x6C: // JMP
		c.PC = address
	case 0x20: // JSR pushes the address of its last operand byte
		c.pushWord(c.PC - 1)
		c.PC = address
	case 0x60: // RTS
		c.PC = c.popWord() + 1
	case 0x40: // RTI restores status then PC
		c.SetStatusByte(c.pop())
		c.PC = c.popWord()

	// Branches
	case 0x90: // BCC
		c.branch(!c.C, address, pageCrossed)
	case 0xB0: // BCS
		c.branch(c.C, address, pageCrossed)
	case 0xD0: // BNE
		c.branch(!c.Z, address, pageCrossed)
	case 0xF0: // BEQ
		c.branch(c.Z, address, pageCrossed)
	case 0x10: // BPL
		c.branch(!c.N, address, pageCrossed)
	case 0x30: // BMI
		c.branch(c.N, address, pageCrossed)
	case 0x50: // BVC
		c.branch(!c.V, address, pageCrossed)
	case 0x70: // BVS
		c.branch(c.V, address, pageCrossed)

	// Misc
	case 0x24, 0x2C: // BIT
		value := c.memory.Read(address)
		c.N = value&nFlagMask != 0
		c.V = value&vFlagMask != 0
		c.Z = c.A&value == 0
	case 0x00: // BRK
		c.PC++ // padding byte
		c.pushWord(c.PC)
		c.push(c.StatusByte() | bFlagMask | unusedMask)
		c.I = true
		c.PC = c.read16(irqVector)

	// Unofficial combined operations
	case 0xA3, 0xA7, 0xAF, 0xB3, 0xB7, 0xBF: // LAX
		c.A = c.memory.Read(address)
		c.X = c.A
		c.setZN(c.A)
	case 0x83, 0x87, 0x8F, 0x97: // SAX
		c.memory.Write(address, c.A&c.X)
	case 0xC3, 0xC7, 0xCF, 0xD3, 0xD7, 0xDF, 0xDB: // DCP
		value := c.memory.Read(address) - 1
		c.memory.Write(address, value)
		c.compare(c.A, value)
	case 0xE3, 0xE7, 0xEF, 0xF3, 0xF7, 0xFF, 0xFB: // ISB
		value := c.memory.Read(address) + 1
		c.memory.Write(address, value)
		c.adc(^value)
	case 0x03, 0x07, 0x0F, 0x13, 0x17, 0x1F, 0x1B: // SLO
		value := c.aslValue(c.memory.Read(address))
		c.memory.Write(address, value)
		c.A |= value
		c.setZN(c.A)
	case 0x23, 0x27, 0x2F, 0x33, 0x37, 0x3F, 0x3B: // RLA
		value := c.rolValue(c.memory.Read(address))
		c.memory.Write(address, value)
		c.A &= value
		c.setZN(c.A)
	case 0x43, 0x47, 0x4F, 0x53, 0x57, 0x5F, 0x5B: // SRE
		value := c.lsrValue(c.memory.Read(address))
		c.memory.Write(address, value)
		c.A ^= value
		c.setZN(c.A)
	case 0x63, 0x67, 0x6F, 0x73, 0x77, 0x7F, 0x7B: // RRA
		value := c.rorValue(c.memory.Read(address))
		c.memory.Write(address, value)
		c.adc(value)

	default:
		// Official and unofficial NOPs: the operand fetch already
		// advanced PC.
	}
}

// adc implements the shared add core of ADC/SBC: A + value + C, with V
// from two's-complement overflow. SBC passes the operand complemented.
func (c *CPU) adc(value uint8) {
	var carry uint16
	if c.C {
		carry = 1
	}
	result := uint16(c.A) + uint16(value) + carry
	sum := uint8(result)

	c.C = result > 0xFF
	c.V = (c.A^sum)&(value^sum)&0x80 != 0
	c.A = sum
	c.setZN(c.A)
}

func (c *CPU) compare(register, value uint8) {
	c.C = register >= value
	c.setZN(register - value)
}

func (c *CPU) aslValue(value uint8) uint8 {
	c.C = value&0x80 != 0
	value <<= 1
	c.setZN(value)
	return value
}

func (c *CPU) lsrValue(value uint8) uint8 {
	c.C = value&0x01 != 0
	value >>= 1
	c.setZN(value)
	return value
}

func (c *CPU) rolValue(value uint8) uint8 {
	oldCarry := c.C
	c.C = value&0x80 != 0
	value <<= 1
	if oldCarry {
		value |= 0x01
	}
	c.setZN(value)
	return value
}

func (c *CPU) rorValue(value uint8) uint8 {
	oldCarry := c.C
	c.C = value&0x01 != 0
	value >>= 1
	if oldCarry {
		value |= 0x80
	}
	c.setZN(value)
	return value
}

// branch takes the jump when the condition holds: +1 cycle taken, +2 when
// the target sits on a different page.
func (c *CPU) branch(condition bool, address uint16, pageCrossed bool) {
	if !condition {
		return
	}
	c.PC = address
	c.extraCycles++
	if pageCrossed {
		c.extraCycles++
	}
}
