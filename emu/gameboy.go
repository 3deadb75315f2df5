package emu

import (
	"dotmatrix/cart"
	"dotmatrix/hw"
)

// CyclesPerFrame is how long one full frame takes: 154 scanlines of 456
// cycles each. It bounds RunFrame when the PPU is frozen and will never
// raise frame-ready.
const CyclesPerFrame = 456 * hw.NumScanlines

// GameBoy aggregates the hardware units around the shared bus. Each unit
// exclusively owns its state; everything is driven from a single
// goroutine, one step at a time.
type GameBoy struct {
	CPU    *hw.CPU
	PPU    *hw.PPU
	Timer  *hw.Timer
	Joypad *hw.Joypad
	Cart   *cart.Cartridge
}

func powerUp(c *cart.Cartridge, cfg EmulationConfig) *GameBoy {
	ppu := hw.NewPPU()
	ppu.FreeRunWhenDisabled = cfg.PPUFreeRun

	gb := &GameBoy{
		CPU:    hw.NewCPU(),
		PPU:    ppu,
		Timer:  hw.NewTimer(),
		Joypad: hw.NewJoypad(),
		Cart:   c,
	}
	gb.CPU.InitBus(c, gb.PPU, gb.Timer, gb.Joypad)
	return gb
}

// Reset restores power-up state on all hardware.
func (gb *GameBoy) Reset() {
	gb.CPU.Reset()
}

// RunFrame advances the machine until the PPU completes a frame: CPU
// step, then PPU, joypad and timer, all fed the same cycle count. The
// cycle budget caps the loop for when the LCD is disabled and no frame
// will ever complete.
func (gb *GameBoy) RunFrame() *hw.Frame {
	for cycles := 0; cycles < CyclesPerFrame; {
		cycles += gb.CPU.Step()
		gb.PPU.Tick(hw.CyclesPerStep)
		gb.Joypad.Poll()
		gb.Timer.Tick(hw.CyclesPerStep)

		if gb.PPU.FrameReady() {
			return gb.PPU.ConsumeFrame()
		}
	}
	return nil
}
