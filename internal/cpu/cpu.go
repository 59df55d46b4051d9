// Package cpu implements the Sharp LR35902 CPU: it binds the register
// file, flag register, and memory bus together, owns PC/SP plus the
// interrupt-enable latch and halted flag, and drives one
// fetch-decode-execute step at a time.
package cpu

import (
	"lr35902/internal/mem"
	"lr35902/internal/opcode"
	"lr35902/internal/register"
)

// CPU has no memory of its own beyond its registers; every byte it reads
// or writes goes through Bus.
type CPU struct {
	register.File

	Bus *mem.Bus

	PC uint16
	SP uint16

	IME    bool // master interrupt enable latch
	Halted bool
}

// New constructs a CPU wired to bus, in its post-reset state.
func New(bus *mem.Bus) *CPU {
	c := &CPU{Bus: bus}
	c.Reset()
	return c
}

// Reset restores the documented power-on state: PC=0x0000, SP=0xFFFE, all
// byte registers and flags zeroed, IME and Halted clear. Memory is not
// touched; the bus owns its own reset state.
func (c *CPU) Reset() {
	c.File = register.File{}
	c.PC = 0x0000
	c.SP = 0xFFFE
	c.IME = false
	c.Halted = false
}

// Step performs exactly one fetch-decode-execute cycle. If the CPU is
// halted, Step is a no-op: on real hardware Halted -> Running requires a
// pending interrupt, which is delegated to HandleInterrupt.
func (c *CPU) Step() error {
	if c.Halted {
		return nil
	}

	instrPC := c.PC
	b := c.fetchD8()

	if b == 0xCB {
		b2 := c.fetchD8()
		instr, ok := opcode.Decode(b2, true)
		if !ok {
			// Unreachable: prefixed decoding is total (spec.md §4.2).
			return &UnknownOpcodeError{PC: instrPC, Byte: b2, Prefixed: true}
		}
		return c.execute(instr)
	}

	instr, ok := opcode.Decode(b, false)
	if !ok {
		return &UnknownOpcodeError{PC: instrPC, Byte: b, Prefixed: false}
	}
	return c.execute(instr)
}

// HandleInterrupt is the host-driven hook described in spec.md §5: it wakes
// a halted CPU unconditionally, and if IME is set additionally dispatches
// the interrupt (push PC, clear IME, jump to vector). It reports whether a
// dispatch occurred, as opposed to only waking from HALT.
func (c *CPU) HandleInterrupt(vector uint16) bool {
	c.Halted = false
	if !c.IME {
		return false
	}
	c.IME = false
	c.push16(c.PC)
	c.PC = vector
	return true
}

// fetchD8 reads the byte at PC and advances PC by one. Every instruction's
// length falls out of how many times its Exec path calls this (directly or
// via fetchD16/fetchR8), including the opcode byte itself.
func (c *CPU) fetchD8() byte {
	v := c.Bus.ReadByte(c.PC)
	c.PC++
	return v
}

// fetchD16 reads a little-endian word starting at PC and advances PC by two.
func (c *CPU) fetchD16() uint16 {
	lo := c.fetchD8()
	hi := c.fetchD8()
	return uint16(hi)<<8 | uint16(lo)
}

// fetchR8 reads a signed displacement byte and advances PC by one. Every
// relative jump and SP+r8/HL<-SP+r8 form routes its sign extension through
// this single helper.
func (c *CPU) fetchR8() int8 {
	return int8(c.fetchD8())
}

// push16 implements the full-descending stack: SP predecrements before
// each byte is written, high byte first.
func (c *CPU) push16(v uint16) {
	c.SP--
	c.Bus.WriteByte(c.SP, byte(v>>8))
	c.SP--
	c.Bus.WriteByte(c.SP, byte(v))
}

// pop16 reads low byte then high byte, postincrementing SP after each.
func (c *CPU) pop16() uint16 {
	lo := c.Bus.ReadByte(c.SP)
	c.SP++
	hi := c.Bus.ReadByte(c.SP)
	c.SP++
	return uint16(hi)<<8 | uint16(lo)
}
