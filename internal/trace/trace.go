// Package trace provides an optional step-by-step execution log, written
// with the standard library's log package in the same terse style the rest
// of this module uses for diagnostics.
package trace

import (
	"io"
	"log"

	"lr35902/internal/cpu"
	"lr35902/internal/opcode"
)

// Tracer logs one line per CPU.Step call. A nil *Tracer is valid and logs
// nothing, so callers can wire it in unconditionally and only pay for it
// when a destination was actually configured.
type Tracer struct {
	log *log.Logger
}

// New returns a Tracer writing to w, each line prefixed with "lr35902: " and
// timestamped to the microsecond.
func New(w io.Writer) *Tracer {
	return &Tracer{log: log.New(w, "lr35902: ", log.Ltime|log.Lmicroseconds)}
}

// Step logs the instruction about to execute at pc, and the error Step
// returned afterwards, if any. Call it around CPU.Step:
//
//	pc := c.PC
//	err := c.Step()
//	t.Step(c, pc, err)
func (t *Tracer) Step(c *cpu.CPU, pc uint16, stepErr error) {
	if t == nil {
		return
	}
	b := c.Bus.ReadByte(pc)
	prefixed := b == 0xCB
	opByte := b
	if prefixed {
		opByte = c.Bus.ReadByte(pc + 1)
	}
	instr, ok := opcode.Decode(opByte, prefixed)
	if !ok {
		t.log.Printf("pc=%04x byte=%02x op=<invalid>", pc, b)
		return
	}
	if stepErr != nil {
		t.log.Printf("pc=%04x op=%v err=%v", pc, instr.Op, stepErr)
		return
	}
	t.log.Printf("pc=%04x op=%v a=%02x f=%02x sp=%04x", pc, instr.Op, c.A, c.F.Pack(), c.SP)
}
