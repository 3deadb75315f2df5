package hwio

import "dotmatrix/emu/log"

type MemFlags int

const (
	MemFlagReadWrite MemFlags = 0
	MemFlag8ReadOnly MemFlags = 1 << iota // log attempts to write
	MemFlagNoROLog                        // silently discard writes
)

// Mem is a linear memory area that can be mapped into a Table. The backing
// buffer size must be a power of two; VSize may be larger, in which case
// the buffer repeats over the mapped range. That wrapping is how mirrored
// regions work: mapping WRAM with a virtual size covering echo RAM makes
// an access to either address land on the same backing byte.
type Mem struct {
	Name  string
	Data  []byte
	VSize int // virtual size of the mapped range; 0 means len(Data)
	Flags MemFlags

	mask uint16
}

func (m *Mem) init() {
	if len(m.Data)&(len(m.Data)-1) != 0 {
		panic("memory buffer size is not pow2")
	}
	if m.VSize == 0 {
		m.VSize = len(m.Data)
	}
	m.mask = uint16(len(m.Data) - 1)
}

func (m *Mem) Read8(addr uint16) uint8 {
	return m.Data[addr&m.mask]
}

func (m *Mem) Write8(addr uint16, val uint8) {
	switch m.Flags {
	case MemFlagReadWrite:
		m.Data[addr&m.mask] = val
	case MemFlag8ReadOnly:
		log.ModBus.ErrorZ("Write8 to readonly memory").
			String("area", m.Name).
			Hex16("addr", addr).
			Hex8("val", val).
			End()
	case MemFlagNoROLog:
	}
}
