// Package cpu implements the 6502 CPU used in the NES.
package cpu

import (
	"fmt"

	"github.com/minnowc/nes-2/internal/state"
)

// AddressingMode selects how an instruction locates its operand.
type AddressingMode int

const (
	Implied AddressingMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Relative
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndexedIndirect // (zp,X)
	IndirectIndexed // (zp),Y
)

const (
	stackBase = 0x0100

	nFlagMask  = 0x80
	vFlagMask  = 0x40
	unusedMask = 0x20
	bFlagMask  = 0x10
	dFlagMask  = 0x08
	iFlagMask  = 0x04
	zFlagMask  = 0x02
	cFlagMask  = 0x01

	pageMask = 0xFF00

	nmiVector   = 0xFFFA
	irqVector   = 0xFFFE
	resetVector = 0xFFFC
)

// MemoryInterface is the bus as seen from the CPU. Reads and writes carry
// their side effects at the moment of the access.
type MemoryInterface interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// CPU models the 6502 core: registers, status flags and the pending
// interrupt latches. All memory traffic goes through the bus; the CPU owns
// no storage of its own.
type CPU struct {
	A  uint8
	X  uint8
	Y  uint8
	SP uint8
	PC uint16

	// Status flags. Packed into a byte only when pushed or snapshotted.
	C bool
	Z bool
	I bool
	D bool // honored as a flag, never switches arithmetic to BCD
	B bool
	V bool
	N bool

	memory MemoryInterface

	// Per-instruction scratch.
	lastPC      uint16
	lastOpcode  uint8
	extraCycles uint8

	cycles uint64

	// NMI is edge triggered and single shot; IRQ is level sampled between
	// instructions and masked by I.
	nmiPending bool
	irqPending bool

	// strict makes unmapped opcodes panic instead of degrading to NOPs.
	strict bool
}

// New creates a CPU attached to the given bus. The program counter is left
// at zero until Reset reads the reset vector.
func New(memory MemoryInterface) *CPU {
	return &CPU{
		memory: memory,
		SP:     0xFD,
	}
}

// Reset loads PC from the reset vector and forces the power-up register
// state: SP at $FD, interrupts disabled.
func (c *CPU) Reset() {
	c.A = 0
	c.X = 0
	c.Y = 0
	c.SP = 0xFD
	c.C = false
	c.Z = false
	c.I = true
	c.D = false
	c.B = true
	c.V = false
	c.N = false
	c.PC = c.read16(resetVector)
	c.nmiPending = false
	c.irqPending = false
	c.extraCycles = 0
}

// SetStrict controls illegal-opcode handling: in strict mode an opcode with
// no table entry panics, otherwise it executes as a one-byte implied NOP
// taking two cycles.
func (c *CPU) SetStrict(strict bool) {
	c.strict = strict
}

// Step executes one instruction, services any interrupt pending at the
// boundary, and returns the number of cycles the whole step consumed. The
// caller advances the PPU and APU by that count.
func (c *CPU) Step() uint64 {
	c.lastPC = c.PC
	opcode := c.memory.Read(c.PC)
	c.lastOpcode = opcode
	c.PC++

	inst := &optable[opcode]
	if inst.Name == "" {
		if c.strict {
			panic(fmt.Sprintf("cpu: unmapped opcode 0x%02X at $%04X", opcode, c.lastPC))
		}
		// Degrade to an implied NOP of the base cycle count.
		inst = &optable[0xEA]
	}

	address, pageCrossed := c.operand(inst.Mode)
	c.execute(opcode, address, pageCrossed)
	if pageCrossed && inst.Penalty {
		c.extraCycles++
	}

	total := uint64(inst.Cycles) + uint64(c.extraCycles)

	// Interrupts are taken only between instructions. A pending NMI wins
	// and is serviced even with I set; IRQ requires the I flag clear.
	if c.nmiPending {
		c.nmiPending = false
		c.interrupt(nmiVector)
		total += 7
	} else if c.irqPending && !c.I {
		c.irqPending = false
		c.interrupt(irqVector)
		total += 7
	}

	c.extraCycles = 0
	c.cycles += total
	return total
}

// operand resolves the effective address for the given mode, advancing PC
// past the operand bytes. The bool reports a page crossing for the modes
// where that costs a cycle.
func (c *CPU) operand(mode AddressingMode) (uint16, bool) {
	switch mode {
	case Implied, Accumulator:
		return 0, false

	case Immediate:
		address := c.PC
		c.PC++
		return address, false

	case ZeroPage:
		address := uint16(c.memory.Read(c.PC))
		c.PC++
		return address, false

	case ZeroPageX:
		address := uint16(c.memory.Read(c.PC) + c.X) // wraps within page zero
		c.PC++
		return address, false

	case ZeroPageY:
		address := uint16(c.memory.Read(c.PC) + c.Y)
		c.PC++
		return address, false

	case Relative:
		offset := int8(c.memory.Read(c.PC))
		c.PC++
		target := uint16(int32(c.PC) + int32(offset))
		crossed := (c.PC & pageMask) != (target & pageMask)
		return target, crossed

	case Absolute:
		return c.readOperand16(), false

	case AbsoluteX:
		base := c.readOperand16()
		address := base + uint16(c.X)
		return address, (base & pageMask) != (address & pageMask)

	case AbsoluteY:
		base := c.readOperand16()
		address := base + uint16(c.Y)
		return address, (base & pageMask) != (address & pageMask)

	case Indirect:
		ptr := c.readOperand16()
		// JMP ($xxFF) wraps within the page when fetching the high
		// byte: it comes from $xx00, not the next page.
		low := uint16(c.memory.Read(ptr))
		var high uint16
		if ptr&0x00FF == 0x00FF {
			high = uint16(c.memory.Read(ptr & pageMask))
		} else {
			high = uint16(c.memory.Read(ptr + 1))
		}
		return high<<8 | low, false

	case IndexedIndirect:
		zp := c.memory.Read(c.PC) + c.X
		c.PC++
		low := uint16(c.memory.Read(uint16(zp)))
		high := uint16(c.memory.Read(uint16(zp + 1)))
		return high<<8 | low, false

	case IndirectIndexed:
		zp := c.memory.Read(c.PC)
		c.PC++
		low := uint16(c.memory.Read(uint16(zp)))
		high := uint16(c.memory.Read(uint16(zp + 1)))
		base := high<<8 | low
		address := base + uint16(c.Y)
		return address, (base & pageMask) != (address & pageMask)

	default:
		panic("cpu: invalid addressing mode")
	}
}

func (c *CPU) readOperand16() uint16 {
	low := uint16(c.memory.Read(c.PC))
	high := uint16(c.memory.Read(c.PC + 1))
	c.PC += 2
	return high<<8 | low
}

func (c *CPU) read16(address uint16) uint16 {
	low := uint16(c.memory.Read(address))
	high := uint16(c.memory.Read(address + 1))
	return high<<8 | low
}

// Stack lives on page $01; SP wraps modulo 256.

func (c *CPU) push(value uint8) {
	c.memory.Write(stackBase+uint16(c.SP), value)
	c.SP--
}

func (c *CPU) pop() uint8 {
	c.SP++
	return c.memory.Read(stackBase + uint16(c.SP))
}

func (c *CPU) pushWord(value uint16) {
	c.push(uint8(value >> 8))
	c.push(uint8(value & 0xFF))
}

func (c *CPU) popWord() uint16 {
	low := uint16(c.pop())
	high := uint16(c.pop())
	return high<<8 | low
}

func (c *CPU) setZN(value uint8) {
	c.Z = value == 0
	c.N = value&nFlagMask != 0
}

// interrupt pushes PC and status (B clear, bit 5 set), sets I and vectors.
func (c *CPU) interrupt(vector uint16) {
	c.pushWord(c.PC)
	c.push(c.StatusByte()&^uint8(bFlagMask) | unusedMask)
	c.I = true
	c.PC = c.read16(vector)
}

// TriggerNMI latches a single-shot NMI; it is serviced at the next
// instruction boundary regardless of the I flag.
func (c *CPU) TriggerNMI() {
	c.nmiPending = true
}

// TriggerIRQ asserts the IRQ line; it is serviced at the next instruction
// boundary if the I flag is clear.
func (c *CPU) TriggerIRQ() {
	c.irqPending = true
}

// StatusByte packs the flags; bit 5 always reads as set.
func (c *CPU) StatusByte() uint8 {
	var status uint8 = unusedMask
	if c.N {
		status |= nFlagMask
	}
	if c.V {
		status |= vFlagMask
	}
	if c.B {
		status |= bFlagMask
	}
	if c.D {
		status |= dFlagMask
	}
	if c.I {
		status |= iFlagMask
	}
	if c.Z {
		status |= zFlagMask
	}
	if c.C {
		status |= cFlagMask
	}
	return status
}

// SetStatusByte unpacks a pushed status byte into the flags.
func (c *CPU) SetStatusByte(status uint8) {
	c.N = status&nFlagMask != 0
	c.V = status&vFlagMask != 0
	c.B = status&bFlagMask != 0
	c.D = status&dFlagMask != 0
	c.I = status&iFlagMask != 0
	c.Z = status&zFlagMask != 0
	c.C = status&cFlagMask != 0
}

// LastPC reports the address of the most recently fetched opcode.
func (c *CPU) LastPC() uint16 {
	return c.lastPC
}

// LastOpcode reports the most recently fetched opcode byte.
func (c *CPU) LastOpcode() uint8 {
	return c.lastOpcode
}

// Cycles reports the total cycle count since power-up.
func (c *CPU) Cycles() uint64 {
	return c.cycles
}

// Save copies the register file into the snapshot. The RAM image is filled
// in by the memory layer; no interrupt may be left pending mid-instruction
// when this is called.
func (c *CPU) Save(s *state.CPU) {
	s.A = c.A
	s.X = c.X
	s.Y = c.Y
	s.SP = c.SP
	s.PC = c.PC
	s.Status = c.StatusByte()
	s.ExtraCycles = c.extraCycles
}

// Load restores the register file from a snapshot.
func (c *CPU) Load(s *state.CPU) {
	c.A = s.A
	c.X = s.X
	c.Y = s.Y
	c.SP = s.SP
	c.PC = s.PC
	c.SetStatusByte(s.Status)
	c.extraCycles = s.ExtraCycles
	c.nmiPending = false
	c.irqPending = false
}
