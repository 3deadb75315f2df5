package hw

import (
	"io"

	"dotmatrix/emu/log"
	"dotmatrix/hw/hwio"
)

// Execution entry point after the boot ROM has run.
const entryPoint = uint16(0x0100)

// CyclesPerStep is the flat cycle cost charged for every CPU step. The
// machine clocks the PPU and timer with this constant regardless of the
// opcode actually executed, a known divergence from per-opcode costs.
const CyclesPerStep = 4

type CPU struct {
	Bus *hwio.Table

	// 8-bit register file. B/C, D/E and H/L are also addressable as
	// 16-bit pairs through the accessors below.
	A      uint8
	F      F
	B, C   uint8
	D, E   uint8
	H, L   uint8
	PC, SP uint16
	Halted bool
	IME    bool // interrupt master enable (flag only, never serviced)

	Cycles int64

	// Count of fetched opcode bytes with no implementation behind them.
	// Execution continues past them; the counter makes the fidelity gap
	// observable instead of silent.
	UnknownOpcodes int64

	tracer *tracer
}

// NewCPU creates a CPU at power-up state, with the register values the
// DMG boot ROM leaves behind.
func NewCPU() *CPU {
	cpu := &CPU{Bus: hwio.NewTable("cpu")}
	cpu.Reset()
	return cpu
}

func (c *CPU) Reset() {
	c.A, c.F = 0x01, F(0xB0)
	c.B, c.C = 0x00, 0x13
	c.D, c.E = 0x00, 0xD8
	c.H, c.L = 0x01, 0x4D
	c.PC = entryPoint
	c.SP = 0xFFFE
	c.Halted = false
	c.IME = false
	c.Cycles = 0
	c.UnknownOpcodes = 0
}

// SetTraceOutput enables per-step execution tracing to w.
func (c *CPU) SetTraceOutput(w io.Writer) {
	c.tracer = &tracer{w: w}
}

// Step fetches, decodes and executes one instruction, and returns the
// number of cycles consumed. A halted CPU burns the same number of cycles
// doing nothing; halt is never exited here since interrupts are not
// serviced.
func (c *CPU) Step() int {
	if c.Halted {
		c.Cycles += CyclesPerStep
		return CyclesPerStep
	}

	if c.tracer != nil {
		c.tracer.write(c)
	}
	c.Cycles += CyclesPerStep

	opcode := c.fetch8()
	op := ops[opcode]
	if op == nil {
		c.UnknownOpcodes++
		log.ModCPU.WarnZ("unimplemented opcode").
			Hex8("opcode", opcode).
			Hex16("PC", c.PC-1).
			End()
		return CyclesPerStep
	}
	op(c)
	return CyclesPerStep
}

/* bus access */

func (c *CPU) Read8(addr uint16) uint8 {
	return c.Bus.Read8(addr)
}

func (c *CPU) Write8(addr uint16, val uint8) {
	c.Bus.Write8(addr, val)
}

func (c *CPU) Read16(addr uint16) uint16 {
	return hwio.Read16(c.Bus, addr)
}

func (c *CPU) Write16(addr uint16, val uint16) {
	hwio.Write16(c.Bus, addr, val)
}

func (c *CPU) fetch8() uint8 {
	v := c.Read8(c.PC)
	c.PC++
	return v
}

func (c *CPU) fetch16() uint16 {
	lo := c.fetch8()
	hi := c.fetch8()
	return uint16(hi)<<8 | uint16(lo)
}

/* 16-bit register pairs */

func (c *CPU) af() uint16 { return uint16(c.A)<<8 | uint16(c.F) }
func (c *CPU) bc() uint16 { return uint16(c.B)<<8 | uint16(c.C) }
func (c *CPU) de() uint16 { return uint16(c.D)<<8 | uint16(c.E) }
func (c *CPU) hl() uint16 { return uint16(c.H)<<8 | uint16(c.L) }

// setAF masks the flag low nibble, which doesn't exist in hardware.
func (c *CPU) setAF(v uint16) { c.A = uint8(v >> 8); c.F = F(v) & 0xF0 }
func (c *CPU) setBC(v uint16) { c.B = uint8(v >> 8); c.C = uint8(v) }
func (c *CPU) setDE(v uint16) { c.D = uint8(v >> 8); c.E = uint8(v) }
func (c *CPU) setHL(v uint16) { c.H = uint8(v >> 8); c.L = uint8(v) }

/* stack operations */

// The stack grows downward. A 16-bit value is pushed high byte first so
// that the low byte ends up at the lower address.
func (c *CPU) push8(val uint8) {
	c.SP--
	c.Write8(c.SP, val)
}

func (c *CPU) push16(val uint16) {
	c.push8(uint8(val >> 8))
	c.push8(uint8(val & 0xff))
}

func (c *CPU) pull8() uint8 {
	v := c.Read8(c.SP)
	c.SP++
	return v
}

func (c *CPU) pull16() uint16 {
	lo := c.pull8()
	hi := c.pull8()
	return uint16(hi)<<8 | uint16(lo)
}

/* operand selector */

// Register selector order shared by the LD/ALU blocks and the whole
// CB-prefixed set: B, C, D, E, H, L, (HL), A.
func (c *CPU) getr(idx uint8) uint8 {
	switch idx {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		return c.H
	case 5:
		return c.L
	case 6:
		return c.Read8(c.hl())
	default:
		return c.A
	}
}

func (c *CPU) setr(idx uint8, val uint8) {
	switch idx {
	case 0:
		c.B = val
	case 1:
		c.C = val
	case 2:
		c.D = val
	case 3:
		c.E = val
	case 4:
		c.H = val
	case 5:
		c.L = val
	case 6:
		c.Write8(c.hl(), val)
	default:
		c.A = val
	}
}
