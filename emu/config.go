package emu

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/kirsle/configdir"

	"dotmatrix/emu/log"
	"dotmatrix/hw/input"
)

type Config struct {
	Input     input.Config    `toml:"input"`
	Video     VideoConfig     `toml:"video"`
	Emulation EmulationConfig `toml:"emulation"`

	TraceOut io.WriteCloser `toml:"-"`
}

type VideoConfig struct {
	DisableVSync bool  `toml:"disable_vsync"`
	Scale        int32 `toml:"scale"`
}

type EmulationConfig struct {
	// PPUFreeRun keeps the PPU mode/line counters running while the LCD
	// is disabled instead of freezing them.
	PPUFreeRun bool `toml:"ppu_free_run"`
}

func defaultConfig() Config {
	return Config{
		Input: input.DefaultConfig(),
		Video: VideoConfig{Scale: 3},
	}
}

var ConfigDir string = sync.OnceValue(func() string {
	dir := configdir.LocalConfig("dotmatrix")
	if err := configdir.MakePath(dir); err != nil {
		log.ModEmu.Fatalf("failed to create directory %s: %v", dir, err)
	}
	return dir
})()

const cfgFilename = "config.toml"

// LoadConfigOrDefault loads the configuration from the dotmatrix config
// directory, or provides a default one.
func LoadConfigOrDefault() Config {
	var cfg Config
	_, err := toml.DecodeFile(filepath.Join(ConfigDir, cfgFilename), &cfg)
	if err != nil {
		return defaultConfig()
	}
	if cfg.Video.Scale <= 0 {
		cfg.Video.Scale = 3
	}
	return cfg
}

// SaveConfig into the dotmatrix config directory.
func SaveConfig(cfg Config) error {
	buf, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(ConfigDir, cfgFilename), buf, 0644)
}
