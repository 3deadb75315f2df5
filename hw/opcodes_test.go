package hw

import "testing"

// The eleven opcode bytes with no instruction assigned.
var unassignedOpcodes = map[uint8]bool{
	0xD3: true, 0xDB: true, 0xDD: true,
	0xE3: true, 0xE4: true, 0xEB: true, 0xEC: true, 0xED: true,
	0xF4: true, 0xFC: true, 0xFD: true,
}

func TestOpcodeTableCoverage(t *testing.T) {
	for op := range 256 {
		got := ops[op] != nil
		want := !unassignedOpcodes[uint8(op)]
		if got != want {
			t.Errorf("opcode %02X: implemented = %t, want %t", op, got, want)
		}
	}
}

func TestADD(t *testing.T) {
	tests := []struct {
		name     string
		a, v     uint8
		carry    uint8
		wantA    uint8
		wantF    F
	}{
		{"no flags", 0x01, 0x02, 0, 0x03, 0},
		{"zero", 0x00, 0x00, 0, 0x00, FlagZ},
		{"half carry", 0x0F, 0x01, 0, 0x10, FlagH},
		{"carry", 0xF0, 0x20, 0, 0x10, FlagC},
		{"carry and zero", 0xFF, 0x01, 0, 0x00, FlagZ | FlagH | FlagC},
		{"adc carry in", 0x0E, 0x01, 1, 0x10, FlagH},
		{"adc wraps", 0xFF, 0xFF, 1, 0xFF, FlagH | FlagC},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testCPU()
			c.A = tt.a
			c.add8(tt.v, tt.carry)
			if c.A != tt.wantA || c.F != tt.wantF {
				t.Errorf("got A:%02X F:%s, want A:%02X F:%s",
					c.A, c.F, tt.wantA, tt.wantF)
			}
		})
	}
}

func TestSUB(t *testing.T) {
	tests := []struct {
		name  string
		a, v  uint8
		carry uint8
		wantA uint8
		wantF F
	}{
		{"no borrow", 0x03, 0x01, 0, 0x02, FlagN},
		{"zero", 0x42, 0x42, 0, 0x00, FlagZ | FlagN},
		{"half borrow", 0x10, 0x01, 0, 0x0F, FlagN | FlagH},
		{"borrow", 0x00, 0x01, 0, 0xFF, FlagN | FlagH | FlagC},
		{"sbc carry in", 0x10, 0x0F, 1, 0x00, FlagZ | FlagN | FlagH},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testCPU()
			c.A = tt.a
			c.sub8(tt.v, tt.carry, true)
			if c.A != tt.wantA || c.F != tt.wantF {
				t.Errorf("got A:%02X F:%s, want A:%02X F:%s",
					c.A, c.F, tt.wantA, tt.wantF)
			}
		})
	}
}

func TestCPDiscardsResult(t *testing.T) {
	c := testCPU()
	c.A = 0x42
	c.sub8(0x42, 0, false)

	if c.A != 0x42 {
		t.Errorf("got A = %02X, want 42 (unmodified)", c.A)
	}
	if c.F != FlagZ|FlagN {
		t.Errorf("got F = %s, want Zn", c.F)
	}
}

func TestLogicOps(t *testing.T) {
	c := testCPU()

	c.A = 0xF0
	c.and8(0x0F)
	if c.A != 0 || c.F != FlagZ|FlagH {
		t.Errorf("AND: got A:%02X F:%s, want A:00 F:ZnHc", c.A, c.F)
	}

	c.A = 0xF0
	c.or8(0x0F)
	if c.A != 0xFF || c.F != 0 {
		t.Errorf("OR: got A:%02X F:%s, want A:FF F:znhc", c.A, c.F)
	}

	c.A = 0xFF
	c.xor8(0xFF)
	if c.A != 0 || c.F != FlagZ {
		t.Errorf("XOR: got A:%02X F:%s, want A:00 F:Znhc", c.A, c.F)
	}
}

// INC and DEC leave carry alone, whatever its state.
func TestIncDecPreserveCarry(t *testing.T) {
	for _, carry := range []F{0, FlagC} {
		c := testCPU()

		c.F = carry
		if got := c.inc8(0x0F); got != 0x10 {
			t.Errorf("inc8(0F) = %02X, want 10", got)
		}
		if c.F != FlagH|carry {
			t.Errorf("inc8(0F): got F = %s, want H with carry preserved", c.F)
		}

		c.F = carry
		if got := c.dec8(0x10); got != 0x0F {
			t.Errorf("dec8(10) = %02X, want 0F", got)
		}
		if c.F != FlagN|FlagH|carry {
			t.Errorf("dec8(10): got F = %s, want NH with carry preserved", c.F)
		}

		c.F = carry
		c.inc8(0xFF)
		if c.F != FlagZ|FlagH|carry {
			t.Errorf("inc8(FF): got F = %s, want ZH with carry preserved", c.F)
		}

		c.F = carry
		c.dec8(0x01)
		if c.F != FlagZ|FlagN|carry {
			t.Errorf("dec8(01): got F = %s, want ZN with carry preserved", c.F)
		}
	}
}

func TestADDHLPreservesZero(t *testing.T) {
	tests := []struct {
		name   string
		hl, v  uint16
		f      F
		wantHL uint16
		wantF  F
	}{
		{"plain", 0x1234, 0x0111, 0, 0x1345, 0},
		{"zero kept", 0x1234, 0x0111, FlagZ, 0x1345, FlagZ},
		{"half carry", 0x0FFF, 0x0001, 0, 0x1000, FlagH},
		{"carry", 0xF000, 0x1000, FlagZ, 0x0000, FlagZ | FlagC},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testCPU()
			c.setHL(tt.hl)
			c.setBC(tt.v)
			c.F = tt.f
			ops[0x09](c) // ADD HL,BC
			if c.hl() != tt.wantHL || c.F != tt.wantF {
				t.Errorf("got HL:%04X F:%s, want HL:%04X F:%s",
					c.hl(), c.F, tt.wantHL, tt.wantF)
			}
		})
	}
}

func TestInc16NoFlags(t *testing.T) {
	c := testCPU(0x03) // INC BC
	c.setBC(0xFFFF)
	c.F = 0

	c.Step()
	if c.bc() != 0x0000 {
		t.Errorf("got BC = %04X, want 0000", c.bc())
	}
	if c.F != 0 {
		t.Errorf("got F = %s, want no flags", c.F)
	}
}

func TestDAA(t *testing.T) {
	tests := []struct {
		name  string
		a     uint8
		f     F
		wantA uint8
		wantF F
	}{
		{"after add, no correction", 0x42, 0, 0x42, 0},
		{"low nibble overflow", 0x0A, 0, 0x10, 0},
		{"half carry", 0x13, FlagH, 0x19, 0},
		{"high correction", 0xA5, 0, 0x05, FlagC},
		{"carry in", 0x05, FlagC, 0x65, FlagC},
		{"after sub", 0x05, FlagN | FlagH, 0xFF, FlagN},
		{"zero result", 0x9A, 0, 0x00, FlagZ | FlagC},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testCPU()
			c.A, c.F = tt.a, tt.f
			daa(c)
			if c.A != tt.wantA || c.F != tt.wantF {
				t.Errorf("got A:%02X F:%s, want A:%02X F:%s",
					c.A, c.F, tt.wantA, tt.wantF)
			}
		})
	}
}

func TestDAARoundTrip(t *testing.T) {
	// 0x15 + 0x27 = 0x42 in BCD.
	c := testCPU()
	c.A = 0x15
	c.add8(0x27, 0)
	daa(c)
	if c.A != 0x42 {
		t.Errorf("got A = %02X, want 42", c.A)
	}

	// 0x42 - 0x15 = 0x27 in BCD.
	c.sub8(0x15, 0, true)
	daa(c)
	if c.A != 0x27 {
		t.Errorf("got A = %02X, want 27", c.A)
	}
}

// The bare A rotates always clear Z, unlike their CB-prefixed versions.
func TestRotateAClearsZero(t *testing.T) {
	c := testCPU()

	c.A, c.F = 0x80, FlagZ
	rlca(c)
	if c.A != 0x01 || c.F != FlagC {
		t.Errorf("RLCA: got A:%02X F:%s, want A:01 F:znhC", c.A, c.F)
	}

	c.A, c.F = 0x01, FlagZ
	rrca(c)
	if c.A != 0x80 || c.F != FlagC {
		t.Errorf("RRCA: got A:%02X F:%s, want A:80 F:znhC", c.A, c.F)
	}

	c.A, c.F = 0x80, FlagC
	rla(c)
	if c.A != 0x01 || c.F != FlagC {
		t.Errorf("RLA: got A:%02X F:%s, want A:01 F:znhC", c.A, c.F)
	}

	c.A, c.F = 0x00, FlagC
	rra(c)
	if c.A != 0x80 || c.F != 0 {
		t.Errorf("RRA: got A:%02X F:%s, want A:80 F:znhc", c.A, c.F)
	}
}

func TestCPLSCFCCF(t *testing.T) {
	c := testCPU()

	c.A, c.F = 0x35, FlagZ|FlagC
	cpl(c)
	if c.A != 0xCA || c.F != FlagZ|FlagN|FlagH|FlagC {
		t.Errorf("CPL: got A:%02X F:%s, want A:CA F:ZNHC", c.A, c.F)
	}

	c.F = FlagZ | FlagN | FlagH
	scf(c)
	if c.F != FlagZ|FlagC {
		t.Errorf("SCF: got F = %s, want ZnhC", c.F)
	}

	ccf(c)
	if c.F != FlagZ {
		t.Errorf("CCF: got F = %s, want Znhc", c.F)
	}
	ccf(c)
	if c.F != FlagZ|FlagC {
		t.Errorf("CCF: got F = %s, want ZnhC", c.F)
	}
}

func TestAddSPRelative(t *testing.T) {
	tests := []struct {
		name   string
		sp     uint16
		off    uint8
		wantSP uint16
		wantF  F
	}{
		{"positive", 0xFFF8, 0x08, 0x0000, FlagH | FlagC},
		{"negative", 0x0100, 0xFF, 0x00FF, 0}, // -1
		{"no carries", 0x0100, 0x01, 0x0101, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testCPU(0xE8, tt.off) // ADD SP,r8
			c.SP = tt.sp
			c.F = FlagZ | FlagN
			c.Step()
			if c.SP != tt.wantSP || c.F != tt.wantF {
				t.Errorf("got SP:%04X F:%s, want SP:%04X F:%s",
					c.SP, c.F, tt.wantSP, tt.wantF)
			}
		})
	}
}

func TestLDHLSPRelative(t *testing.T) {
	c := testCPU(0xF8, 0xFE) // LD HL,SP-2
	c.SP = 0xFFFE

	c.Step()
	if c.hl() != 0xFFFC {
		t.Errorf("got HL = %04X, want FFFC", c.hl())
	}
	if c.SP != 0xFFFE {
		t.Errorf("got SP = %04X, want FFFE (unmodified)", c.SP)
	}
}

func TestLDHLIncDec(t *testing.T) {
	c := testCPU(
		0x22, // LD (HL+),A
		0x32, // LD (HL-),A
		0x2A, // LD A,(HL+)
		0x3A, // LD A,(HL-)
	)
	c.A = 0x99
	c.setHL(0x8000)

	c.Step()
	if got := c.Read8(0x8000); got != 0x99 || c.hl() != 0x8001 {
		t.Errorf("LD (HL+),A: got [8000]:%02X HL:%04X, want 99 8001", got, c.hl())
	}

	c.Step()
	if got := c.Read8(0x8001); got != 0x99 || c.hl() != 0x8000 {
		t.Errorf("LD (HL-),A: got [8001]:%02X HL:%04X, want 99 8000", got, c.hl())
	}

	c.A = 0
	c.Step()
	if c.A != 0x99 || c.hl() != 0x8001 {
		t.Errorf("LD A,(HL+): got A:%02X HL:%04X, want 99 8001", c.A, c.hl())
	}

	c.A = 0
	c.Step()
	if c.A != 0x99 || c.hl() != 0x8000 {
		t.Errorf("LD A,(HL-): got A:%02X HL:%04X, want 99 8000", c.A, c.hl())
	}
}

func TestHighPageLoads(t *testing.T) {
	c := testCPU(
		0xE0, 0x80, // LDH (0x80),A
		0xF0, 0x80, // LDH A,(0x80)
		0xE2, // LD (C),A
		0xF2, // LD A,(C)
	)

	c.A = 0x5A
	c.Step()
	if got := c.Read8(0xFF80); got != 0x5A {
		t.Errorf("LDH (n),A: got [FF80] = %02X, want 5A", got)
	}

	c.A = 0
	c.Step()
	if c.A != 0x5A {
		t.Errorf("LDH A,(n): got A = %02X, want 5A", c.A)
	}

	c.A, c.C = 0x77, 0x81
	c.Step()
	if got := c.Read8(0xFF81); got != 0x77 {
		t.Errorf("LD (C),A: got [FF81] = %02X, want 77", got)
	}

	c.A = 0
	c.Step()
	if c.A != 0x77 {
		t.Errorf("LD A,(C): got A = %02X, want 77", c.A)
	}
}

func TestConditionalJumps(t *testing.T) {
	// JP NZ taken, then not taken.
	c := testCPU(0xC2, 0x00, 0x02) // JP NZ,0x0200
	c.F = 0
	c.Step()
	if c.PC != 0x0200 {
		t.Errorf("JP NZ (taken): got PC = %04X, want 0200", c.PC)
	}

	c = testCPU(0xC2, 0x00, 0x02)
	c.F = FlagZ
	c.Step()
	if c.PC != 0x0103 {
		t.Errorf("JP NZ (not taken): got PC = %04X, want 0103", c.PC)
	}

	// Conditional RET not taken leaves the stack alone.
	c = testCPU(0xD8) // RET C
	c.push16(0x0200)
	c.F = 0
	c.Step()
	if c.PC != 0x0101 || c.SP != 0xFFFC {
		t.Errorf("RET C (not taken): got PC:%04X SP:%04X, want 0101 FFFC",
			c.PC, c.SP)
	}
}

func TestJPHL(t *testing.T) {
	c := testCPU(0xE9)
	c.setHL(0x4321)

	c.Step()
	if c.PC != 0x4321 {
		t.Errorf("got PC = %04X, want 4321", c.PC)
	}
}

func TestLDMemSP(t *testing.T) {
	c := testCPU(0x08, 0x00, 0x80) // LD (0x8000),SP
	c.SP = 0xBEEF

	c.Step()
	if got := c.Read16(0x8000); got != 0xBEEF {
		t.Errorf("got [8000] = %04X, want BEEF", got)
	}
}

func TestLDBlockThroughHL(t *testing.T) {
	c := testCPU(
		0x46, // LD B,(HL)
		0x70, // LD (HL),B
	)
	c.setHL(0x8000)
	c.Write8(0x8000, 0xAB)

	c.Step()
	if c.B != 0xAB {
		t.Errorf("LD B,(HL): got B = %02X, want AB", c.B)
	}

	c.setHL(0x8001)
	c.Step()
	if got := c.Read8(0x8001); got != 0xAB {
		t.Errorf("LD (HL),B: got [8001] = %02X, want AB", got)
	}
}

func TestIncDecHLMem(t *testing.T) {
	c := testCPU(0x34, 0x35) // INC (HL), DEC (HL)
	c.setHL(0x8000)
	c.Write8(0x8000, 0x0F)

	c.Step()
	if got := c.Read8(0x8000); got != 0x10 {
		t.Errorf("INC (HL): got %02X, want 10", got)
	}
	if c.F&FlagH == 0 {
		t.Error("INC (HL): H should be set on low nibble wrap")
	}

	c.Step()
	if got := c.Read8(0x8000); got != 0x0F {
		t.Errorf("DEC (HL): got %02X, want 0F", got)
	}
}

func TestRETISetsIME(t *testing.T) {
	c := testCPU(0xD9)
	c.push16(0x0200)

	c.Step()
	if c.PC != 0x0200 {
		t.Errorf("got PC = %04X, want 0200", c.PC)
	}
	if !c.IME {
		t.Error("IME should be set after RETI")
	}
}
