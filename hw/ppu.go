package hw

import (
	"dotmatrix/hw/hwio"
)

const (
	ScreenWidth  = 160
	ScreenHeight = 144

	// Scanlines per frame; lines 144-153 are the V-Blank period.
	NumScanlines = 154
)

// A Frame is the finished picture: one 2-bit shade per pixel, indexed
// [line][column]. The presentation layer maps shades to visible colors.
type Frame [ScreenHeight][ScreenWidth]uint8

// Mode is the PPU mode, exposed in the low bits of STAT.
type Mode uint8

const (
	ModeHBlank Mode = iota
	ModeVBlank
	ModeOAMScan
	ModePixelTransfer
)

func (m Mode) String() string {
	return [...]string{"hblank", "vblank", "oamscan", "pixeltransfer"}[m]
}

// Cycle cost of each mode. A scanline is oamscan+transfer+hblank = 456
// cycles, the same as one V-Blank line.
var modeCycles = [...]int{
	ModeOAMScan:       80,
	ModePixelTransfer: 172,
	ModeHBlank:        204,
	ModeVBlank:        456,
}

// LCDC bits consumed by the background renderer.
const (
	lcdcBGOn     = 1 << 0 // background enabled
	lcdcTileData = 1 << 4 // tile data at 0x8000 unsigned (else 0x9000 signed)
	lcdcBGMap    = 1 << 3 // background map at 0x9C00 (else 0x9800)
	lcdcOn       = 1 << 7 // LCD enabled
)

// PPU walks the 4-mode scanline state machine and renders the background
// layer, one scanline at a time, into its framebuffer. Sprites and the
// window layer are not emulated.
type PPU struct {
	VRAM hwio.Mem

	LCDC hwio.Reg8
	STAT hwio.Reg8
	SCY  hwio.Reg8
	SCX  hwio.Reg8
	LY   hwio.Reg8
	LYC  hwio.Reg8
	BGP  hwio.Reg8

	// FreeRunWhenDisabled selects the disabled-LCD behavior: false
	// freezes the mode/line counters while the LCD is off, true keeps
	// them running with rendering suppressed.
	FreeRunWhenDisabled bool

	cycles int // accumulated cycles within the current mode
	mode   Mode
	line   int

	frame      Frame
	frameReady bool
}

func NewPPU() *PPU {
	p := &PPU{
		VRAM: hwio.Mem{Name: "vram", Data: make([]byte, 0x2000)},
		LCDC: hwio.Reg8{Name: "LCDC", Value: 0x91},
		STAT: hwio.Reg8{Name: "STAT"},
		SCY:  hwio.Reg8{Name: "SCY"},
		SCX:  hwio.Reg8{Name: "SCX"},
		LY:   hwio.Reg8{Name: "LY", RoMask: 0xFF},
		LYC:  hwio.Reg8{Name: "LYC"},
		BGP:  hwio.Reg8{Name: "BGP", Value: 0xFC},
	}
	p.mode = ModeOAMScan
	p.syncSTAT()
	return p
}

func (p *PPU) initBus(bus *hwio.Table) {
	bus.MapReg8(AddrLCDC, &p.LCDC)
	bus.MapReg8(AddrSTAT, &p.STAT)
	bus.MapReg8(AddrSCY, &p.SCY)
	bus.MapReg8(AddrSCX, &p.SCX)
	bus.MapReg8(AddrLY, &p.LY)
	bus.MapReg8(AddrLYC, &p.LYC)
	bus.MapReg8(AddrBGP, &p.BGP)
}

func (p *PPU) Mode() Mode { return p.mode }
func (p *PPU) Line() int  { return p.line }

// FrameReady reports whether a completed frame is waiting to be consumed.
func (p *PPU) FrameReady() bool { return p.frameReady }

// ConsumeFrame returns the finished frame and clears the frame-ready
// flag. Frames are not queued: the caller must consume one before the
// next V-Blank or it is overwritten.
func (p *PPU) ConsumeFrame() *Frame {
	p.frameReady = false
	return &p.frame
}

// Tick advances the mode state machine by the given cycle count. A mode
// transition fires when the accumulator reaches the mode's cost; the cost
// is subtracted rather than reset so overshoot carries into the next
// mode. The just-finished scanline is rendered on leaving H-Blank, and
// entering V-Blank raises the frame-ready flag.
func (p *PPU) Tick(cycles int) {
	enabled := p.LCDC.Value&lcdcOn != 0
	if !enabled && !p.FreeRunWhenDisabled {
		return
	}

	p.cycles += cycles
	for p.cycles >= modeCycles[p.mode] {
		p.cycles -= modeCycles[p.mode]

		switch p.mode {
		case ModeOAMScan:
			p.mode = ModePixelTransfer

		case ModePixelTransfer:
			p.mode = ModeHBlank

		case ModeHBlank:
			if enabled {
				p.renderScanline(p.line)
			}
			p.line++
			if p.line == ScreenHeight {
				p.mode = ModeVBlank
				p.frameReady = true
			} else {
				p.mode = ModeOAMScan
			}

		case ModeVBlank:
			p.line++
			if p.line >= NumScanlines {
				p.line = 0
				p.mode = ModeOAMScan
			}
		}
	}

	p.LY.Value = uint8(p.line)
	p.syncSTAT()
}

// syncSTAT mirrors the current mode into the low bits of STAT.
func (p *PPU) syncSTAT() {
	p.STAT.Value = p.STAT.Value&^0x07 | uint8(p.mode)
}

func (p *PPU) vram(addr uint16) uint8 {
	return p.VRAM.Data[addr-vramStart]
}

// renderScanline draws one line of the background layer: resolve each
// pixel's tile through the background map, extract the 2-bit color index
// from the tile row's two bitplanes (MSB first), then map it through BGP
// (2 bits per index, LSB first) to a shade.
func (p *PPU) renderScanline(line int) {
	lcdc := p.LCDC.Value
	if lcdc&lcdcBGOn == 0 {
		shade := p.BGP.Value & 0x03
		for x := range p.frame[line] {
			p.frame[line][x] = shade
		}
		return
	}

	mapBase := uint16(0x9800)
	if lcdc&lcdcBGMap != 0 {
		mapBase = 0x9C00
	}

	py := uint8(line) + p.SCY.Value
	tileRow := uint16(py / 8)
	rowInTile := uint16(py%8) * 2

	for x := 0; x < ScreenWidth; x++ {
		px := uint8(x) + p.SCX.Value
		tileCol := uint16(px / 8)

		tileNum := p.vram(mapBase + tileRow*32 + tileCol)

		// Unsigned addressing from 0x8000, or signed from 0x9000.
		var tileAddr uint16
		if lcdc&lcdcTileData != 0 {
			tileAddr = 0x8000 + uint16(tileNum)*16
		} else {
			tileAddr = uint16(0x9000 + int(int8(tileNum))*16)
		}

		lo := p.vram(tileAddr + rowInTile)
		hi := p.vram(tileAddr + rowInTile + 1)

		bit := 7 - px%8
		colorIdx := (hi>>bit&1)<<1 | lo>>bit&1
		p.frame[line][x] = p.BGP.Value >> (2 * colorIdx) & 0x03
	}
}
