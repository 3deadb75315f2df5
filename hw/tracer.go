package hw

import (
	"fmt"
	"io"
)

// tracer writes one line per executed instruction: program counter, the
// opcode byte about to be fetched, the register file and flags.
type tracer struct {
	w io.Writer
}

func (t *tracer) write(c *CPU) {
	opcode := c.Bus.Read8(c.PC)
	fmt.Fprintf(t.w, "%04X  %02X  A:%02X F:%s BC:%04X DE:%04X HL:%04X SP:%04X CY:%d\n",
		c.PC, opcode, c.A, c.F, c.bc(), c.de(), c.hl(), c.SP, c.Cycles)
}
