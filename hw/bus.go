package hw

import "dotmatrix/hw/hwio"

// DMG memory map.
const (
	romEnd    = uint16(0x7FFF) // cartridge ROM: 0x0000-0x7FFF
	vramStart = uint16(0x8000) // video RAM: 0x8000-0x9FFF
	extStart  = uint16(0xA000) // cartridge RAM: 0xA000-0xBFFF
	wramStart = uint16(0xC000) // work RAM: 0xC000-0xDFFF
	echoEnd   = uint16(0xFDFF) // echo RAM: 0xE000-0xFDFF, mirrors WRAM
	oamStart  = uint16(0xFE00) // OAM and the unusable gap: 0xFE00-0xFEFF
	ioStart   = uint16(0xFF00) // memory-mapped I/O: 0xFF00-0xFF7F
	hramStart = uint16(0xFF80) // high RAM + IE: 0xFF80-0xFFFF
)

// Memory-mapped register addresses.
const (
	AddrJOYP = uint16(0xFF00)
	AddrDIV  = uint16(0xFF04)
	AddrTIMA = uint16(0xFF05)
	AddrTMA  = uint16(0xFF06)
	AddrTAC  = uint16(0xFF07)
	AddrLCDC = uint16(0xFF40)
	AddrSTAT = uint16(0xFF41)
	AddrSCY  = uint16(0xFF42)
	AddrSCX  = uint16(0xFF43)
	AddrLY   = uint16(0xFF44)
	AddrLYC  = uint16(0xFF45)
	AddrBGP  = uint16(0xFF47)
)

// A CartReader answers bus reads in the cartridge ROM region.
type CartReader interface {
	Read8(addr uint16) uint8
}

// cartRegion adapts a cartridge to the bus: reads delegate to the ROM
// image, writes to the ROM region are silently discarded. With no
// cartridge plugged, reads see open bus.
type cartRegion struct {
	cart CartReader
}

func (cr cartRegion) Read8(addr uint16) uint8 {
	if cr.cart == nil {
		return 0xFF
	}
	return cr.cart.Read8(addr)
}

func (cr cartRegion) Write8(addr uint16, val uint8) {}

// InitBus lays out the 64KiB address space: cartridge ROM, the PPU's VRAM
// and registers, work RAM with its echo mirror, the timer and joypad
// registers, and high RAM. A generic RAM page backs the I/O region so
// that unclaimed I/O addresses still behave like the original flat memory
// array; the hardware-owned registers are overlaid on top of it.
func (c *CPU) InitBus(cart CartReader, ppu *PPU, tmr *Timer, joy *Joypad) {
	c.Bus.MapRange(0x0000, romEnd, cartRegion{cart: cart})

	c.Bus.MapMem(vramStart, &ppu.VRAM)
	c.Bus.MapMem(extStart, &hwio.Mem{Name: "extram", Data: make([]byte, 0x2000)})

	// WRAM's virtual size extends over echo RAM so that both addresses
	// resolve to the same backing byte, in both directions.
	c.Bus.MapMem(wramStart, &hwio.Mem{
		Name:  "wram",
		Data:  make([]byte, 0x2000),
		VSize: int(echoEnd-wramStart) + 1,
	})

	c.Bus.MapMem(oamStart, &hwio.Mem{Name: "oam", Data: make([]byte, 0x100)})
	c.Bus.MapMem(ioStart, &hwio.Mem{Name: "io", Data: make([]byte, 0x80)})
	c.Bus.MapMem(hramStart, &hwio.Mem{Name: "hram", Data: make([]byte, 0x80)})

	joy.initBus(c.Bus)
	tmr.initBus(c.Bus)
	ppu.initBus(c.Bus)
}
