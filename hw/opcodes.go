package hw

// ops maps every opcode byte to its implementation. nil entries are the
// eleven byte values with no instruction assigned; fetching one of them is
// reported as a diagnostic and execution continues at the next byte.
//
// The uniform LD r,r' (0x40-0x7F) and ALU A,r (0x80-0xBF) blocks are
// populated by init below; everything else has an explicit entry.
var ops = [256]func(*CPU){
	0x00: nop,
	0x01: ld16(setBC),
	0x02: func(c *CPU) { c.Write8(c.bc(), c.A) },
	0x03: inc16(getBC, setBC),
	0x04: incReg(regB),
	0x05: decReg(regB),
	0x06: ld8(regB),
	0x07: rlca,
	0x08: ldMemSP,
	0x09: addHL(getBC),
	0x0A: func(c *CPU) { c.A = c.Read8(c.bc()) },
	0x0B: dec16(getBC, setBC),
	0x0C: incReg(regC),
	0x0D: decReg(regC),
	0x0E: ld8(regC),
	0x0F: rrca,

	0x10: stop,
	0x11: ld16(setDE),
	0x12: func(c *CPU) { c.Write8(c.de(), c.A) },
	0x13: inc16(getDE, setDE),
	0x14: incReg(regD),
	0x15: decReg(regD),
	0x16: ld8(regD),
	0x17: rla,
	0x18: jr(always),
	0x19: addHL(getDE),
	0x1A: func(c *CPU) { c.A = c.Read8(c.de()) },
	0x1B: dec16(getDE, setDE),
	0x1C: incReg(regE),
	0x1D: decReg(regE),
	0x1E: ld8(regE),
	0x1F: rra,

	0x20: jr(ifNZ),
	0x21: ld16(setHL),
	0x22: ldHLincA,
	0x23: inc16(getHL, setHL),
	0x24: incReg(regH),
	0x25: decReg(regH),
	0x26: ld8(regH),
	0x27: daa,
	0x28: jr(ifZ),
	0x29: addHL(getHL),
	0x2A: ldAHLinc,
	0x2B: dec16(getHL, setHL),
	0x2C: incReg(regL),
	0x2D: decReg(regL),
	0x2E: ld8(regL),
	0x2F: cpl,

	0x30: jr(ifNC),
	0x31: ld16(setSP),
	0x32: ldHLdecA,
	0x33: inc16(getSP, setSP),
	0x34: incHLmem,
	0x35: decHLmem,
	0x36: func(c *CPU) { c.Write8(c.hl(), c.fetch8()) },
	0x37: scf,
	0x38: jr(ifC),
	0x39: addHL(getSP),
	0x3A: ldAHLdec,
	0x3B: dec16(getSP, setSP),
	0x3C: incReg(regA),
	0x3D: decReg(regA),
	0x3E: ld8(regA),
	0x3F: ccf,

	0x76: halt,

	0xC0: ret(ifNZ),
	0xC1: pop(setBC),
	0xC2: jp(ifNZ),
	0xC3: jp(always),
	0xC4: call(ifNZ),
	0xC5: push(getBC),
	0xC6: func(c *CPU) { c.add8(c.fetch8(), 0) },
	0xC7: rst(0x00),
	0xC8: ret(ifZ),
	0xC9: ret(always),
	0xCA: jp(ifZ),
	0xCB: prefixCB,
	0xCC: call(ifZ),
	0xCD: call(always),
	0xCE: func(c *CPU) { c.add8(c.fetch8(), c.F.carry()) },
	0xCF: rst(0x08),

	0xD0: ret(ifNC),
	0xD1: pop(setDE),
	0xD2: jp(ifNC),
	0xD4: call(ifNC),
	0xD5: push(getDE),
	0xD6: func(c *CPU) { c.sub8(c.fetch8(), 0, true) },
	0xD7: rst(0x10),
	0xD8: ret(ifC),
	0xD9: reti,
	0xDA: jp(ifC),
	0xDC: call(ifC),
	0xDE: func(c *CPU) { c.sub8(c.fetch8(), c.F.carry(), true) },
	0xDF: rst(0x18),

	0xE0: func(c *CPU) { c.Write8(0xFF00+uint16(c.fetch8()), c.A) },
	0xE1: pop(setHL),
	0xE2: func(c *CPU) { c.Write8(0xFF00+uint16(c.C), c.A) },
	0xE5: push(getHL),
	0xE6: func(c *CPU) { c.and8(c.fetch8()) },
	0xE7: rst(0x20),
	0xE8: addSPrel,
	0xE9: func(c *CPU) { c.PC = c.hl() },
	0xEA: func(c *CPU) { c.Write8(c.fetch16(), c.A) },
	0xEE: func(c *CPU) { c.xor8(c.fetch8()) },
	0xEF: rst(0x28),

	0xF0: func(c *CPU) { c.A = c.Read8(0xFF00 + uint16(c.fetch8())) },
	0xF1: pop(setAF),
	0xF2: func(c *CPU) { c.A = c.Read8(0xFF00 + uint16(c.C)) },
	0xF3: func(c *CPU) { c.IME = false },
	0xF5: push(getAF),
	0xF6: func(c *CPU) { c.or8(c.fetch8()) },
	0xF7: rst(0x30),
	0xF8: ldHLSPrel,
	0xF9: func(c *CPU) { c.SP = c.hl() },
	0xFA: func(c *CPU) { c.A = c.Read8(c.fetch16()) },
	0xFB: func(c *CPU) { c.IME = true },
	0xFE: func(c *CPU) { c.sub8(c.fetch8(), 0, false) },
	0xFF: rst(0x38),
}

func init() {
	// LD r,r' block, 0x76 excepted (HALT takes its slot).
	for op := 0x40; op <= 0x7F; op++ {
		if op == 0x76 {
			continue
		}
		dst := uint8(op-0x40) / 8
		src := uint8(op-0x40) % 8
		ops[op] = func(c *CPU) { c.setr(dst, c.getr(src)) }
	}

	// ALU A,r block: ADD, ADC, SUB, SBC, AND, XOR, OR, CP.
	for op := 0x80; op <= 0xBF; op++ {
		family := uint8(op-0x80) / 8
		src := uint8(op-0x80) % 8
		ops[op] = func(c *CPU) {
			v := c.getr(src)
			switch family {
			case 0:
				c.add8(v, 0)
			case 1:
				c.add8(v, c.F.carry())
			case 2:
				c.sub8(v, 0, true)
			case 3:
				c.sub8(v, c.F.carry(), true)
			case 4:
				c.and8(v)
			case 5:
				c.xor8(v)
			case 6:
				c.or8(v)
			case 7:
				c.sub8(v, 0, false)
			}
		}
	}
}

/* register and pair accessors used by the opcode generators */

// 8-bit register selectors, in operand order.
const (
	regB = uint8(iota)
	regC
	regD
	regE
	regH
	regL
	regHLmem
	regA
)

func getAF(c *CPU) uint16 { return c.af() }
func getBC(c *CPU) uint16 { return c.bc() }
func getDE(c *CPU) uint16 { return c.de() }
func getHL(c *CPU) uint16 { return c.hl() }
func getSP(c *CPU) uint16 { return c.SP }

func setAF(c *CPU, v uint16) { c.setAF(v) }
func setBC(c *CPU, v uint16) { c.setBC(v) }
func setDE(c *CPU, v uint16) { c.setDE(v) }
func setHL(c *CPU, v uint16) { c.setHL(v) }
func setSP(c *CPU, v uint16) { c.SP = v }

/* conditions */

func always(c *CPU) bool { return true }
func ifZ(c *CPU) bool    { return c.F.z() }
func ifNZ(c *CPU) bool   { return !c.F.z() }
func ifC(c *CPU) bool    { return c.F.c() }
func ifNC(c *CPU) bool   { return !c.F.c() }

/* ALU helpers: every one recomputes F in full, per the opcode contract */

func (c *CPU) add8(v, carry uint8) {
	r := uint16(c.A) + uint16(v) + uint16(carry)
	var f F
	f.setZ(uint8(r) == 0)
	f.setH((c.A&0x0F)+(v&0x0F)+carry > 0x0F)
	f.setC(r > 0xFF)
	c.F = f
	c.A = uint8(r)
}

// sub8 implements SUB/SBC/CP. CP is a subtract that discards the result.
func (c *CPU) sub8(v, carry uint8, store bool) {
	r := int16(c.A) - int16(v) - int16(carry)
	f := FlagN
	f.setZ(uint8(r) == 0)
	f.setH(int16(c.A&0x0F)-int16(v&0x0F)-int16(carry) < 0)
	f.setC(r < 0)
	c.F = f
	if store {
		c.A = uint8(r)
	}
}

func (c *CPU) and8(v uint8) {
	c.A &= v
	c.F = FlagH
	c.F.setZ(c.A == 0)
}

func (c *CPU) or8(v uint8) {
	c.A |= v
	c.F = 0
	c.F.setZ(c.A == 0)
}

func (c *CPU) xor8(v uint8) {
	c.A ^= v
	c.F = 0
	c.F.setZ(c.A == 0)
}

// inc8 computes v+1. Carry is preserved, never recomputed: half-carry is
// set when the low nibble wraps to zero.
func (c *CPU) inc8(v uint8) uint8 {
	r := v + 1
	c.F &= FlagC
	c.F.setZ(r == 0)
	c.F.setH(r&0x0F == 0)
	return r
}

// dec8 computes v-1. Carry is preserved; half-borrow is set when the low
// nibble was zero before decrementing.
func (c *CPU) dec8(v uint8) uint8 {
	r := v - 1
	c.F = (c.F & FlagC) | FlagN
	c.F.setZ(r == 0)
	c.F.setH(v&0x0F == 0)
	return r
}

/* opcode generators */

func nop(c *CPU) {}

func halt(c *CPU) {
	c.Halted = true
}

// STOP is a two-byte instruction; consume the padding byte and halt, same
// as HALT as far as this machine is concerned.
func stop(c *CPU) {
	c.fetch8()
	c.Halted = true
}

func ld8(idx uint8) func(*CPU) {
	return func(c *CPU) { c.setr(idx, c.fetch8()) }
}

func ld16(set func(*CPU, uint16)) func(*CPU) {
	return func(c *CPU) { set(c, c.fetch16()) }
}

func incReg(idx uint8) func(*CPU) {
	return func(c *CPU) { c.setr(idx, c.inc8(c.getr(idx))) }
}

func decReg(idx uint8) func(*CPU) {
	return func(c *CPU) { c.setr(idx, c.dec8(c.getr(idx))) }
}

func incHLmem(c *CPU) {
	addr := c.hl()
	c.Write8(addr, c.inc8(c.Read8(addr)))
}

func decHLmem(c *CPU) {
	addr := c.hl()
	c.Write8(addr, c.dec8(c.Read8(addr)))
}

// 16-bit INC/DEC don't touch flags at all.
func inc16(get func(*CPU) uint16, set func(*CPU, uint16)) func(*CPU) {
	return func(c *CPU) { set(c, get(c)+1) }
}

func dec16(get func(*CPU) uint16, set func(*CPU, uint16)) func(*CPU) {
	return func(c *CPU) { set(c, get(c)-1) }
}

// ADD HL,rr. Zero is preserved unchanged, a hardware quirk; carry is
// overflow past 16 bits, half-carry overflow of the low 12.
func addHL(get func(*CPU) uint16) func(*CPU) {
	return func(c *CPU) {
		hl, v := c.hl(), get(c)
		r := uint32(hl) + uint32(v)
		c.F &= FlagZ
		c.F.setH(hl&0x0FFF+v&0x0FFF > 0x0FFF)
		c.F.setC(r > 0xFFFF)
		c.setHL(uint16(r))
	}
}

// spRel computes SP plus a signed immediate. Zero and subtract are always
// cleared; half-carry and carry come from the unsigned low-byte addition.
func (c *CPU) spRel() uint16 {
	off := int8(c.fetch8())
	var f F
	f.setH(uint8(c.SP)&0x0F+uint8(off)&0x0F > 0x0F)
	f.setC(uint16(uint8(c.SP))+uint16(uint8(off)) > 0xFF)
	c.F = f
	return uint16(int32(c.SP) + int32(off))
}

func addSPrel(c *CPU) {
	c.SP = c.spRel()
}

func ldHLSPrel(c *CPU) {
	c.setHL(c.spRel())
}

func ldMemSP(c *CPU) {
	c.Write16(c.fetch16(), c.SP)
}

func ldHLincA(c *CPU) {
	c.Write8(c.hl(), c.A)
	c.setHL(c.hl() + 1)
}

func ldHLdecA(c *CPU) {
	c.Write8(c.hl(), c.A)
	c.setHL(c.hl() - 1)
}

func ldAHLinc(c *CPU) {
	c.A = c.Read8(c.hl())
	c.setHL(c.hl() + 1)
}

func ldAHLdec(c *CPU) {
	c.A = c.Read8(c.hl())
	c.setHL(c.hl() - 1)
}

/* rotates on A: unlike their CB counterparts, these always clear Z */

func rlca(c *CPU) {
	out := c.A >> 7
	c.A = c.A<<1 | out
	c.F = 0
	c.F.setC(out != 0)
}

func rrca(c *CPU) {
	out := c.A & 1
	c.A = c.A>>1 | out<<7
	c.F = 0
	c.F.setC(out != 0)
}

func rla(c *CPU) {
	in := c.F.carry()
	out := c.A >> 7
	c.A = c.A<<1 | in
	c.F = 0
	c.F.setC(out != 0)
}

func rra(c *CPU) {
	in := c.F.carry()
	out := c.A & 1
	c.A = c.A>>1 | in<<7
	c.F = 0
	c.F.setC(out != 0)
}

// DAA adjusts A back to packed BCD after an add or subtract, applying
// 0x06/0x60 corrections driven by the half-carry/carry flags and nibble
// overflow, in the direction recorded by the subtract flag.
func daa(c *CPU) {
	var correction uint8
	setCarry := false

	if c.F.h() || (!c.F.n() && c.A&0x0F > 9) {
		correction |= 0x06
	}
	if c.F.c() || (!c.F.n() && c.A > 0x99) {
		correction |= 0x60
		setCarry = true
	}

	if c.F.n() {
		c.A -= correction
	} else {
		c.A += correction
	}

	c.F &= FlagN
	c.F.setZ(c.A == 0)
	c.F.setC(setCarry)
}

func cpl(c *CPU) {
	c.A = ^c.A
	c.F |= FlagN | FlagH
}

func scf(c *CPU) {
	c.F = (c.F & FlagZ) | FlagC
}

func ccf(c *CPU) {
	carry := c.F.c()
	c.F &= FlagZ
	c.F.setC(!carry)
}

/* control flow */

// jr adds the signed offset to PC after the instruction and its immediate
// have been fully fetched.
func jr(cond func(*CPU) bool) func(*CPU) {
	return func(c *CPU) {
		off := int8(c.fetch8())
		if cond(c) {
			c.PC = uint16(int32(c.PC) + int32(off))
		}
	}
}

func jp(cond func(*CPU) bool) func(*CPU) {
	return func(c *CPU) {
		addr := c.fetch16()
		if cond(c) {
			c.PC = addr
		}
	}
}

func call(cond func(*CPU) bool) func(*CPU) {
	return func(c *CPU) {
		addr := c.fetch16()
		if cond(c) {
			c.push16(c.PC)
			c.PC = addr
		}
	}
}

func ret(cond func(*CPU) bool) func(*CPU) {
	return func(c *CPU) {
		if cond(c) {
			c.PC = c.pull16()
		}
	}
}

func reti(c *CPU) {
	c.PC = c.pull16()
	c.IME = true
}

func rst(vec uint16) func(*CPU) {
	return func(c *CPU) {
		c.push16(c.PC)
		c.PC = vec
	}
}

func push(get func(*CPU) uint16) func(*CPU) {
	return func(c *CPU) { c.push16(get(c)) }
}

func pop(set func(*CPU, uint16)) func(*CPU) {
	return func(c *CPU) { set(c, c.pull16()) }
}
