package emu

import (
	"testing"

	"dotmatrix/cart"
	"dotmatrix/hw"
)

// testCart builds a cartridge whose program at the entry point is an
// infinite JR -2 loop.
func testCart() *cart.Cartridge {
	rom := make([]byte, 0x8000)
	rom[0x0100] = 0x18 // JR -2
	rom[0x0101] = 0xFE
	return &cart.Cartridge{ROM: rom}
}

func TestRunFrameProducesFrame(t *testing.T) {
	gb := powerUp(testCart(), EmulationConfig{})

	frame := gb.RunFrame()
	if frame == nil {
		t.Fatal("got nil frame, want a rendered frame")
	}
	if gb.PPU.Mode() != hw.ModeVBlank {
		t.Errorf("got mode %s after frame, want vblank", gb.PPU.Mode())
	}
}

func TestRunFrameCadence(t *testing.T) {
	gb := powerUp(testCart(), EmulationConfig{})

	// The first frame starts mid-machine-state; from the second one on,
	// each frame takes exactly one frame's worth of cycles.
	gb.RunFrame()
	c1 := gb.CPU.Cycles
	gb.RunFrame()
	c2 := gb.CPU.Cycles

	if c2-c1 != CyclesPerFrame {
		t.Errorf("got %d cycles for one frame, want %d", c2-c1, CyclesPerFrame)
	}
}

func TestRunFrameLCDDisabled(t *testing.T) {
	gb := powerUp(testCart(), EmulationConfig{})
	gb.PPU.LCDC.Value = 0 // LCD off, PPU frozen by default

	if frame := gb.RunFrame(); frame != nil {
		t.Error("got a frame with the LCD disabled, want nil")
	}
	// The CPU still ran for the full frame budget.
	if gb.CPU.Cycles < CyclesPerFrame {
		t.Errorf("got %d cycles, want at least %d", gb.CPU.Cycles, CyclesPerFrame)
	}
}

func TestRunFrameLCDDisabledFreeRun(t *testing.T) {
	gb := powerUp(testCart(), EmulationConfig{PPUFreeRun: true})
	gb.PPU.LCDC.Value = 0

	if frame := gb.RunFrame(); frame == nil {
		t.Error("got nil frame in free run, want a (blank) frame")
	}
}

func TestReset(t *testing.T) {
	gb := powerUp(testCart(), EmulationConfig{})
	gb.RunFrame()

	gb.Reset()
	if gb.CPU.PC != 0x0100 || gb.CPU.Cycles != 0 {
		t.Errorf("got PC:%04X cycles:%d after reset, want 0100 0",
			gb.CPU.PC, gb.CPU.Cycles)
	}
}

func TestMachineTimerAdvances(t *testing.T) {
	gb := powerUp(testCart(), EmulationConfig{})

	gb.RunFrame()
	// One frame is 70224 cycles, DIV increments every 256.
	if gb.Timer.DIV.Value == 0 {
		t.Error("DIV should have advanced over a full frame")
	}
}
