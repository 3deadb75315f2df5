package hw

// F is the flags register. Only the high nibble exists, the low nibble
// always reads zero.
type F uint8

const (
	FlagC F = 1 << 4 // carry
	FlagH F = 1 << 5 // half-carry (bit 3 to 4)
	FlagN F = 1 << 6 // subtract
	FlagZ F = 1 << 7 // zero
)

func (f F) z() bool { return f&FlagZ != 0 }
func (f F) n() bool { return f&FlagN != 0 }
func (f F) h() bool { return f&FlagH != 0 }
func (f F) c() bool { return f&FlagC != 0 }

// carry returns the carry flag as 0 or 1, for use as an ALU operand.
func (f F) carry() uint8 {
	if f&FlagC != 0 {
		return 1
	}
	return 0
}

func (f *F) setZ(v bool) { f.assign(FlagZ, v) }
func (f *F) setN(v bool) { f.assign(FlagN, v) }
func (f *F) setH(v bool) { f.assign(FlagH, v) }
func (f *F) setC(v bool) { f.assign(FlagC, v) }

func (f *F) assign(flag F, v bool) {
	if v {
		*f |= flag
	} else {
		*f &^= flag
	}
}

func (f F) String() string {
	buf := []byte("znhc")
	if f.z() {
		buf[0] = 'Z'
	}
	if f.n() {
		buf[1] = 'N'
	}
	if f.h() {
		buf[2] = 'H'
	}
	if f.c() {
		buf[3] = 'C'
	}
	return string(buf)
}
