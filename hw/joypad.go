package hw

import "dotmatrix/hw/hwio"

// JOYP selector bits: writing 0 to one of them selects the group whose
// state appears in the low nibble.
const (
	selDirections = 0x10
	selButtons    = 0x20
)

// An InputDevice provides the state of the two 4-bit button groups,
// active-low (0 = pressed). Directions are right, left, up, down in bits
// 0-3; buttons are A, B, select, start.
type InputDevice interface {
	LoadState() (directions, buttons uint8)
}

// Joypad reflects an InputDevice into the memory-mapped JOYP register.
type Joypad struct {
	JOYP hwio.Reg8

	dev InputDevice

	directions uint8
	buttons    uint8
}

func NewJoypad() *Joypad {
	j := &Joypad{
		directions: 0x0F,
		buttons:    0x0F,
	}
	j.JOYP = hwio.Reg8{
		Name:   "JOYP",
		Value:  0xFF,
		RoMask: 0x0F, // only the selector bits are writable
		ReadCb: j.readJOYP,
	}
	return j
}

func (j *Joypad) initBus(bus *hwio.Table) {
	bus.MapReg8(AddrJOYP, &j.JOYP)
}

// Plug connects an input device. With no device plugged every key reads
// released.
func (j *Joypad) Plug(dev InputDevice) {
	j.dev = dev
}

// Poll captures the current device state. Called once per machine
// iteration; the captured nibbles are what JOYP reads reflect.
func (j *Joypad) Poll() {
	if j.dev == nil {
		return
	}
	j.directions, j.buttons = j.dev.LoadState()
}

func (j *Joypad) readJOYP(val uint8) uint8 {
	low := uint8(0x0F)
	switch {
	case val&selDirections == 0:
		low = j.directions & 0x0F
	case val&selButtons == 0:
		low = j.buttons & 0x0F
	}
	// Unused high bits read as 1.
	return 0xC0 | val&0x30 | low
}
