package hw

// The 0xCB-prefixed instruction set decodes uniformly: bits 7-6 select the
// family (shift/rotate, BIT, RES, SET), bits 5-3 the sub-operation or bit
// index, bits 2-0 the operand from the B,C,D,E,H,L,(HL),A selector. Every
// one of the 256 prefixed opcodes is valid.
func prefixCB(c *CPU) {
	opcode := c.fetch8()
	idx := opcode % 8

	switch {
	case opcode < 0x40: // shift/rotate family
		c.setr(idx, c.shiftRot(opcode/8, c.getr(idx)))

	case opcode < 0x80: // BIT b,r
		bit := (opcode - 0x40) / 8
		v := c.getr(idx)
		c.F = (c.F & FlagC) | FlagH
		c.F.setZ(v&(1<<bit) == 0)

	case opcode < 0xC0: // RES b,r
		bit := (opcode - 0x80) / 8
		c.setr(idx, c.getr(idx)&^(1<<bit))

	default: // SET b,r
		bit := (opcode - 0xC0) / 8
		c.setr(idx, c.getr(idx)|1<<bit)
	}
}

// shiftRot performs one of RLC, RRC, RL, RR, SLA, SRA, SWAP, SRL on v.
// All of them clear N and H, set C to the bit shifted out (none for SWAP)
// and compute Z from the result, unlike the bare A rotates.
func (c *CPU) shiftRot(op, v uint8) uint8 {
	var r uint8
	var carryOut bool

	switch op {
	case 0: // RLC: bit 7 wraps around to bit 0
		r = v<<1 | v>>7
		carryOut = v&0x80 != 0
	case 1: // RRC
		r = v>>1 | v<<7
		carryOut = v&0x01 != 0
	case 2: // RL: previous carry shifts into bit 0
		r = v<<1 | c.F.carry()
		carryOut = v&0x80 != 0
	case 3: // RR
		r = v>>1 | c.F.carry()<<7
		carryOut = v&0x01 != 0
	case 4: // SLA
		r = v << 1
		carryOut = v&0x80 != 0
	case 5: // SRA: bit 7 is duplicated (arithmetic shift)
		r = v>>1 | v&0x80
		carryOut = v&0x01 != 0
	case 6: // SWAP
		r = v<<4 | v>>4
		carryOut = false
	case 7: // SRL
		r = v >> 1
		carryOut = v&0x01 != 0
	}

	c.F = 0
	c.F.setZ(r == 0)
	c.F.setC(carryOut)
	return r
}
