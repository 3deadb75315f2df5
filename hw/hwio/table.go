package hwio

import "dotmatrix/emu/log"

// BankIO8 is an 8-bit addressable device: a hardware register, a memory
// region, or anything else that answers bus accesses.
type BankIO8 interface {
	Read8(addr uint16) uint8
	Write8(addr uint16, val uint8)
}

func Write16(b BankIO8, addr uint16, val uint16) {
	b.Write8(addr, uint8(val&0xff))
	b.Write8(addr+1, uint8(val>>8))
}

func Read16(b BankIO8, addr uint16) uint16 {
	lo := b.Read8(addr)
	hi := b.Read8(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

// openBusValue is what a read from an unmapped address returns. The DMG
// data bus floats high, so that's 0xFF rather than zero.
const openBusValue = 0xFF

const logUnmapped = false

// Table routes 8-bit accesses over the 16-bit address space to the device
// mapped at each address. The address space is small enough that routing
// is a flat per-address lookup; later mappings override earlier ones, so a
// register can be overlaid on top of a larger memory region.
type Table struct {
	Name string

	devs []BankIO8
}

func NewTable(name string) *Table {
	t := &Table{Name: name}
	t.Reset()
	return t
}

func (t *Table) Reset() {
	t.devs = make([]BankIO8, 0x10000)
}

// MapRange maps a device over [addr, end], both inclusive.
func (t *Table) MapRange(addr, end uint16, io BankIO8) {
	for a := int(addr); a <= int(end); a++ {
		t.devs[a] = io
	}
}

func (t *Table) MapReg8(addr uint16, reg *Reg8) {
	t.devs[addr] = reg
}

func (t *Table) MapMem(addr uint16, mem *Mem) {
	mem.init()
	log.ModBus.DebugZ("mapping mem").
		Hex16("addr", addr).
		Hex16("size", uint16(mem.VSize-1)).
		String("area", mem.Name).
		String("bus", t.Name).
		End()
	t.MapRange(addr, addr+uint16(mem.VSize-1), mem)
}

func (t *Table) Unmap(begin, end uint16) {
	for a := int(begin); a <= int(end); a++ {
		t.devs[a] = nil
	}
}

func (t *Table) Read8(addr uint16) uint8 {
	io := t.devs[addr]
	if io == nil {
		if logUnmapped {
			log.ModBus.ErrorZ("unmapped Read8").
				String("bus", t.Name).
				Hex16("addr", addr).
				End()
		}
		return openBusValue
	}
	return io.Read8(addr)
}

func (t *Table) Write8(addr uint16, val uint8) {
	io := t.devs[addr]
	if io == nil {
		if logUnmapped {
			log.ModBus.ErrorZ("unmapped Write8").
				String("bus", t.Name).
				Hex16("addr", addr).
				Hex8("val", val).
				End()
		}
		return
	}
	io.Write8(addr, val)
}
