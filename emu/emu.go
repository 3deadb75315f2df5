package emu

import (
	"sync/atomic"
	"time"

	"dotmatrix/cart"
	"dotmatrix/emu/log"
	"dotmatrix/hw"
)

// frameDuration paces the loop to the DMG refresh rate: 70224 cycles per
// frame at 4.194304 MHz, about 59.7 Hz.
const frameDuration = time.Second * CyclesPerFrame / 4194304

// Output is the presentation layer: it receives finished frames on its
// channel and pumps platform events.
type Output interface {
	// FrameCh returns the channel finished frames are delivered on.
	// A nil channel means headless operation, frames are discarded.
	FrameCh() chan hw.Frame
	// Poll processes pending platform events. It returns false when the
	// user asked to quit.
	Poll() bool
	Close()
}

// Emulator ties the machine to an output and runs the emulation loop at
// a fixed cadence.
type Emulator struct {
	GB   *GameBoy
	out  Output
	vout *hw.Output

	// These are accessed concurrently by the emulator loop and the UI.
	quit   atomic.Bool
	paused atomic.Bool
	reset  atomic.Bool

	frames int
}

// Launch assembles the machine around the given cartridge. It doesn't
// start the emulation loop, call Run for that.
func Launch(c *cart.Cartridge, out Output, cfg Config) *Emulator {
	gb := powerUp(c, cfg.Emulation)

	if cfg.TraceOut != nil {
		gb.CPU.SetTraceOutput(cfg.TraceOut)
	}

	vout := hw.NewOutput(hw.OutputConfig{
		FrameOutCh: out.FrameCh(),
	})

	log.ModEmu.InfoZ("cartridge loaded").
		String("title", c.Title()).
		Hex8("type", c.Type()).
		End()

	return &Emulator{GB: gb, out: out, vout: vout}
}

// PlugInputDevice connects the source of joypad state.
func (e *Emulator) PlugInputDevice(dev hw.InputDevice) {
	e.GB.Joypad.Plug(dev)
}

func (e *Emulator) RunOneFrame() {
	if frame := e.GB.RunFrame(); frame != nil {
		e.vout.PushFrame(frame)
	}
	e.frames++

	// Periodic progress line, visible when the emu module is traced.
	if e.frames%600 == 0 {
		log.ModEmu.DebugZ("progress").
			Int("frames", int64(e.frames)).
			Hex16("PC", e.GB.CPU.PC).
			Uint("cycles", uint64(e.GB.CPU.Cycles)).
			End()
	}
}

func (e *Emulator) loop() {
	tick := time.NewTicker(frameDuration)
	defer tick.Stop()

	for e.out.Poll() {
		if e.isPaused() {
			// Don't burn cpu while paused.
			time.Sleep(100 * time.Millisecond)
		} else {
			e.RunOneFrame()
		}
		if e.reset.CompareAndSwap(true, false) {
			e.GB.Reset()
		}
		if e.quit.Load() {
			break
		}
		<-tick.C
	}

	e.vout.Close()
	e.out.Close()
}

func (e *Emulator) Run() {
	e.loop()
	log.ModEmu.InfoZ("emulation loop exited").
		Int("frames", int64(e.frames)).
		Uint("cycles", uint64(e.GB.CPU.Cycles)).
		End()
}

// SetPause, Stop and Reset control the emulator loop in a
// concurrent-safe way.

func (e *Emulator) SetPause(pause bool) { e.paused.CompareAndSwap(!pause, pause) }
func (e *Emulator) Reset()              { e.reset.Store(true) }
func (e *Emulator) Stop()               { e.quit.Store(true) }

func (e *Emulator) isPaused() bool {
	return e.paused.Load()
}
