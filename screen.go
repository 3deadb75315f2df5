package main

import (
	"fmt"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"

	"dotmatrix/emu"
	"dotmatrix/hw"
)

// The DMG LCD shows 4 shades of green. RGBA, lightest first, indexed by
// the 2-bit color produced by the palette registers.
var shades = [4][4]byte{
	{0xE0, 0xF8, 0xD0, 0xFF},
	{0x88, 0xC0, 0x70, 0xFF},
	{0x34, 0x68, 0x56, 0xFF},
	{0x08, 0x18, 0x20, 0xFF},
}

// screen presents emulator frames in an SDL window and pumps SDL
// events. It implements the emu.Output interface.
//
// All SDL calls go through sdl.Do since the emulator loop doesn't run
// on the main thread.
type screen struct {
	win *sdl.Window
	rnd *sdl.Renderer
	tex *sdl.Texture

	emu     *emu.Emulator
	framech chan hw.Frame

	pix    [hw.ScreenWidth * hw.ScreenHeight * 4]byte
	quit   bool
	paused bool
}

func newScreen(title string, cfg emu.VideoConfig) (*screen, error) {
	if title == "" {
		title = "dotmatrix"
	}

	s := &screen{framech: make(chan hw.Frame, 1)}
	var err error
	sdl.Do(func() {
		err = s.create(title, cfg)
	})
	if err != nil {
		return nil, err
	}
	go s.present()
	return s, nil
}

func (s *screen) create(title string, cfg emu.VideoConfig) error {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return fmt.Errorf("failed to initialize SDL: %s", err)
	}

	winw := hw.ScreenWidth * cfg.Scale
	winh := hw.ScreenHeight * cfg.Scale
	win, err := sdl.CreateWindow(title,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		winw, winh,
		sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		return fmt.Errorf("failed to create window: %s", err)
	}

	rndflags := uint32(sdl.RENDERER_ACCELERATED)
	if !cfg.DisableVSync {
		rndflags |= sdl.RENDERER_PRESENTVSYNC
	}
	rnd, err := sdl.CreateRenderer(win, -1, rndflags)
	if err != nil {
		win.Destroy()
		return fmt.Errorf("failed to create renderer: %s", err)
	}
	rnd.SetLogicalSize(hw.ScreenWidth, hw.ScreenHeight)

	tex, err := rnd.CreateTexture(sdl.PIXELFORMAT_ABGR8888,
		sdl.TEXTUREACCESS_STREAMING,
		hw.ScreenWidth, hw.ScreenHeight)
	if err != nil {
		rnd.Destroy()
		win.Destroy()
		return fmt.Errorf("failed to create texture: %s", err)
	}

	s.win, s.rnd, s.tex = win, rnd, tex
	return nil
}

// FrameCh returns the channel the emulator delivers finished frames on.
func (s *screen) FrameCh() chan hw.Frame {
	return s.framech
}

// present converts incoming frames to RGBA and displays them.
func (s *screen) present() {
	for frame := range s.framech {
		i := 0
		for y := range frame {
			for x := range frame[y] {
				sh := shades[frame[y][x]&0x03]
				copy(s.pix[i:i+4], sh[:])
				i += 4
			}
		}

		sdl.Do(func() {
			s.tex.Update(nil, unsafe.Pointer(&s.pix[0]), hw.ScreenWidth*4)
			s.rnd.Clear()
			s.rnd.Copy(s.tex, nil, nil)
			s.rnd.Present()
		})
	}
}

// Poll pumps SDL events. Escape or closing the window quits, P toggles
// pause, R resets the machine.
func (s *screen) Poll() bool {
	sdl.Do(func() {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				s.quit = true
			case *sdl.KeyboardEvent:
				if e.Type != sdl.KEYDOWN || e.Repeat != 0 {
					break
				}
				switch e.Keysym.Sym {
				case sdl.K_ESCAPE:
					s.quit = true
				case sdl.K_p:
					s.paused = !s.paused
					s.emu.SetPause(s.paused)
				case sdl.K_r:
					s.emu.Reset()
				}
			}
		}
	})
	return !s.quit
}

func (s *screen) Close() {
	sdl.Do(func() {
		s.tex.Destroy()
		s.rnd.Destroy()
		s.win.Destroy()
		sdl.Quit()
	})
}
