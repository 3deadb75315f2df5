package cart

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// buildROM returns a minimal ROM image with the given header fields.
func buildROM(size int, title string, typ, sizeCode uint8) []byte {
	rom := make([]byte, size)
	copy(rom[titleOffset:], title)
	rom[typeOffset] = typ
	rom[sizeOffset] = sizeCode
	return rom
}

func TestReadFrom(t *testing.T) {
	rom := buildROM(0x8000, "TEST\x00GARBAGE", 0x01, 0x02)

	var c Cartridge
	n, err := c.ReadFrom(bytes.NewReader(rom))
	if err != nil {
		t.Fatal(err)
	}
	if n != 0x8000 {
		t.Errorf("got n = %d, want 32768", n)
	}

	// The title is NUL-truncated.
	if c.Title() != "TEST" {
		t.Errorf("got title %q, want %q", c.Title(), "TEST")
	}
	if c.Type() != 0x01 {
		t.Errorf("got type %02X, want 01", c.Type())
	}
	if c.ROMSizeCode() != 0x02 {
		t.Errorf("got size code %02X, want 02", c.ROMSizeCode())
	}
}

func TestTitleFillsHeaderField(t *testing.T) {
	// 15 title bytes, no NUL.
	rom := buildROM(0x150, "ABCDEFGHIJKLMNO", 0, 0)

	var c Cartridge
	if _, err := c.ReadFrom(bytes.NewReader(rom)); err != nil {
		t.Fatal(err)
	}
	if c.Title() != "ABCDEFGHIJKLMNO" {
		t.Errorf("got title %q, want %q", c.Title(), "ABCDEFGHIJKLMNO")
	}
}

func TestShortROMHasNoHeader(t *testing.T) {
	var c Cartridge
	if _, err := c.ReadFrom(bytes.NewReader(make([]byte, 0x100))); err != nil {
		t.Fatal(err)
	}

	if c.Title() != "" || c.Type() != 0 {
		t.Errorf("got title %q type %02X, want empty header", c.Title(), c.Type())
	}
}

func TestRead8(t *testing.T) {
	c := &Cartridge{ROM: []byte{0x11, 0x22}}

	if got := c.Read8(0); got != 0x11 {
		t.Errorf("got %02X, want 11", got)
	}
	if got := c.Read8(2); got != 0xFF {
		t.Errorf("got %02X out of range, want FF", got)
	}

	var nilCart *Cartridge
	if got := nilCart.Read8(0); got != 0xFF {
		t.Errorf("got %02X from nil cartridge, want FF", got)
	}
}

func TestOpen(t *testing.T) {
	rom := buildROM(0x150, "OPENTEST", 0x00, 0x00)
	path := filepath.Join(t.TempDir(), "test.gb")
	if err := os.WriteFile(path, rom, 0644); err != nil {
		t.Fatal(err)
	}

	c, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Title() != "OPENTEST" {
		t.Errorf("got title %q, want %q", c.Title(), "OPENTEST")
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "nope.gb")); err == nil {
		t.Error("want an error opening a missing file")
	}
}

func TestPrintInfos(t *testing.T) {
	rom := buildROM(0x150, "INFOS", 0x13, 0x05)

	var c Cartridge
	if _, err := c.ReadFrom(bytes.NewReader(rom)); err != nil {
		t.Fatal(err)
	}

	var sb strings.Builder
	c.PrintInfos(&sb)
	out := sb.String()
	for _, want := range []string{"INFOS", "0x13", "336 bytes", "0x05"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q should contain %q", out, want)
		}
	}
}
