// Package cart implements a reader for Game Boy cartridge ROM images.
//
// Only the header fields the emulator consumes are decoded: the game title
// and the cartridge type byte. ROM images shorter than a complete header
// still load, they just carry no metadata.
package cart

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// Header byte offsets, per the cartridge header layout at 0x100.
const (
	titleOffset = 0x134
	typeOffset  = 0x147
	sizeOffset  = 0x148

	headerEnd = 0x150 // minimum size for the header to be present

	titleMaxLen = 15
)

type Cartridge struct {
	ROM []byte // raw ROM image

	title   string
	typ     uint8
	romSize uint8
}

// Open loads a cartridge from a ROM file.
func Open(path string) (*Cartridge, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c := new(Cartridge)
	if _, err := c.ReadFrom(f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// ReadFrom implements the io.ReaderFrom interface.
func (c *Cartridge) ReadFrom(r io.Reader) (int64, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}

	c.ROM = buf
	if len(buf) >= headerEnd {
		c.decodeHeader()
	}
	return int64(len(buf)), nil
}

func (c *Cartridge) decodeHeader() {
	title := c.ROM[titleOffset : titleOffset+titleMaxLen]
	if i := bytes.IndexByte(title, 0); i >= 0 {
		title = title[:i]
	}
	c.title = string(title)
	c.typ = c.ROM[typeOffset]
	c.romSize = c.ROM[sizeOffset]
}

// Title returns the game title from the cartridge header, or the empty
// string if the image is too short to have one.
func (c *Cartridge) Title() string { return c.title }

// Type returns the cartridge type byte (memory controller/extra hardware).
func (c *Cartridge) Type() uint8 { return c.typ }

// ROMSizeCode returns the reported ROM size byte from the header.
func (c *Cartridge) ROMSizeCode() uint8 { return c.romSize }

// Read8 returns the ROM byte at addr, or 0xFF when addr falls outside the
// image (open bus).
func (c *Cartridge) Read8(addr uint16) uint8 {
	if c == nil || int(addr) >= len(c.ROM) {
		return 0xFF
	}
	return c.ROM[addr]
}

func (c *Cartridge) String() string {
	return fmt.Sprintf("%q (type %02x, %d bytes)", c.title, c.typ, len(c.ROM))
}

// PrintInfos writes a human readable description of the cartridge header.
func (c *Cartridge) PrintInfos(w io.Writer) {
	fmt.Fprintf(w, "title:     %s\n", c.title)
	fmt.Fprintf(w, "type:      0x%02X\n", c.typ)
	fmt.Fprintf(w, "size:      %d bytes\n", len(c.ROM))
	fmt.Fprintf(w, "size code: 0x%02X\n", c.romSize)
}
