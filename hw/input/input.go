// Package input turns SDL keyboard state into Game Boy joypad state.
package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"dotmatrix/emu/log"
)

// A Button identifies one of the eight Game Boy buttons. The first four
// form the direction group, the last four the action group; the value
// modulo four is the button's bit within its group.
type Button byte

const (
	BtnRight Button = iota
	BtnLeft
	BtnUp
	BtnDown
	BtnA
	BtnB
	BtnSelect
	BtnStart

	ButtonCount
)

func (b Button) String() string {
	var names = [ButtonCount]string{
		"Right", "Left", "Up", "Down",
		"A", "B", "Select", "Start",
	}
	return names[b]
}

// Config maps each button to an SDL key name ("Z", "Return", "Up", ...).
type Config struct {
	Keys [ButtonCount]string `toml:"keys"`
}

// DefaultConfig is the mapping used when the config file has none.
func DefaultConfig() Config {
	return Config{Keys: [ButtonCount]string{
		BtnRight:  "Right",
		BtnLeft:   "Left",
		BtnUp:     "Up",
		BtnDown:   "Down",
		BtnA:      "X",
		BtnB:      "Z",
		BtnSelect: "Backspace",
		BtnStart:  "Return",
	}}
}

// Provider samples the SDL keyboard and exposes the two active-low
// 4-bit button groups. It implements hw.InputDevice.
type Provider struct {
	keystate  []uint8
	scancodes [ButtonCount]sdl.Scancode
}

func NewProvider(cfg Config) *Provider {
	p := &Provider{}
	sdl.Do(func() {
		p.keystate = sdl.GetKeyboardState()
	})

	for btn, name := range cfg.Keys {
		code := sdl.GetScancodeFromName(name)
		if code == sdl.SCANCODE_UNKNOWN {
			log.ModInput.WarnZ("unknown key name").
				String("key", name).
				Stringer("button", Button(btn)).
				End()
		}
		p.scancodes[btn] = code
	}
	return p
}

// LoadState returns the direction and action groups, active-low
// (0 = pressed).
func (p *Provider) LoadState() (directions, buttons uint8) {
	directions, buttons = 0x0F, 0x0F
	for btn, code := range p.scancodes {
		if code == sdl.SCANCODE_UNKNOWN || p.keystate[code] == 0 {
			continue
		}
		bit := uint8(1) << (btn % 4)
		if Button(btn) < BtnA {
			directions &^= bit
		} else {
			buttons &^= bit
		}
	}
	return directions, buttons
}
