package cpu

import (
	"lr35902/internal/flags"
	"lr35902/internal/opcode"
)

// execute runs one decoded Instruction to completion, including any
// immediate-byte reads its operands require. Per spec.md §5, operand
// fetch, ALU computation, and writeback happen in that order, atomically
// from the caller's perspective: Step never returns midway through an
// instruction.
func (c *CPU) execute(i opcode.Instruction) error {
	switch i.Op {

	case opcode.OpNOP, opcode.OpPrefixCB:
		// no-op; OpPrefixCB is never actually reached (see cpu.Step)

	case opcode.OpHALT:
		c.Halted = true

	case opcode.OpSTOP:
		c.fetchD8() // STOP's padding byte
		return &ProgramStopError{PC: c.PC - 2}

	case opcode.OpDI:
		c.IME = false
	case opcode.OpEI:
		c.IME = true

	case opcode.OpLDRR:
		v := c.readOperand8(i.Src)
		c.setOperand8(i.Dst, v)

	case opcode.OpLDRegD16:
		c.setReg16(i.Reg16, c.fetchD16())

	case opcode.OpLDAInd:
		c.A = c.Bus.ReadByte(c.indirectAddr(i.Indirect))
	case opcode.OpLDIndA:
		c.Bus.WriteByte(c.indirectAddr(i.Indirect), c.A)

	case opcode.OpLDHAtoA:
		n := c.fetchD8()
		c.A = c.Bus.ReadByte(0xFF00 + uint16(n))
	case opcode.OpLDAtoHA:
		n := c.fetchD8()
		c.Bus.WriteByte(0xFF00+uint16(n), c.A)

	case opcode.OpLDHLSP:
		result, h, carry := c.spPlusR8(c.fetchR8())
		c.SetHL(result)
		c.F.Apply(flags.Update{Z: flags.Set(false), N: flags.Set(false), H: flags.Set(h), C: flags.Set(carry)})
	case opcode.OpLDSPHL:
		c.SP = c.HL()
	case opcode.OpLDNNSP:
		addr := c.fetchD16()
		c.Bus.WriteByte(addr, byte(c.SP))
		c.Bus.WriteByte(addr+1, byte(c.SP>>8))

	case opcode.OpADD:
		c.alu8(i.Src, addOp)
	case opcode.OpADC:
		c.alu8(i.Src, adcOp)
	case opcode.OpSUB:
		c.alu8(i.Src, subOp)
	case opcode.OpSBC:
		c.alu8(i.Src, sbcOp)
	case opcode.OpAND:
		c.alu8(i.Src, andOp)
	case opcode.OpOR:
		c.alu8(i.Src, orOp)
	case opcode.OpXOR:
		c.alu8(i.Src, xorOp)
	case opcode.OpCP:
		c.alu8(i.Src, cpOp)

	case opcode.OpINC:
		c.incDec(i, true)
	case opcode.OpDEC:
		c.incDec(i, false)

	case opcode.OpADDHL:
		c.addHL(i.Reg16)

	case opcode.OpADDSP:
		result, h, carry := c.spPlusR8(c.fetchR8())
		c.SP = result
		c.F.Apply(flags.Update{Z: flags.Set(false), N: flags.Set(false), H: flags.Set(h), C: flags.Set(carry)})

	case opcode.OpDAA:
		c.daa()
	case opcode.OpCPL:
		c.A = ^c.A
		c.F.Apply(flags.Update{N: flags.Set(true), H: flags.Set(true)})
	case opcode.OpCCF:
		c.F.Apply(flags.Update{N: flags.Set(false), H: flags.Set(false), C: flags.Set(!c.F.C)})
	case opcode.OpSCF:
		c.F.Apply(flags.Update{N: flags.Set(false), H: flags.Set(false), C: flags.Set(true)})

	case opcode.OpRLC:
		c.shift(i.Dst, rlc, false)
	case opcode.OpRRC:
		c.shift(i.Dst, rrc, false)
	case opcode.OpRL:
		c.shift(i.Dst, rl, false)
	case opcode.OpRR:
		c.shift(i.Dst, rr, false)
	case opcode.OpSLA:
		c.shift(i.Dst, sla, false)
	case opcode.OpSRA:
		c.shift(i.Dst, sra, false)
	case opcode.OpSWAP:
		c.shift(i.Dst, swap, false)
	case opcode.OpSRL:
		c.shift(i.Dst, srl, false)

	case opcode.OpRLCA:
		c.shift(opcode.Reg(opcode.A), rlc, true)
	case opcode.OpRRCA:
		c.shift(opcode.Reg(opcode.A), rrc, true)
	case opcode.OpRLA:
		c.shift(opcode.Reg(opcode.A), rl, true)
	case opcode.OpRRA:
		c.shift(opcode.Reg(opcode.A), rr, true)

	case opcode.OpBIT:
		x := c.readOperand8(i.Dst)
		z := x&(1<<uint(i.Bit)) == 0
		c.F.Apply(flags.Update{Z: flags.Set(z), N: flags.Set(false), H: flags.Set(true)})
	case opcode.OpRES:
		x := c.readOperand8(i.Dst)
		c.setOperand8(i.Dst, x&^(1<<uint(i.Bit)))
	case opcode.OpSET:
		x := c.readOperand8(i.Dst)
		c.setOperand8(i.Dst, x|(1<<uint(i.Bit)))

	case opcode.OpJP:
		nn := c.fetchD16()
		if c.condTrue(i.Cond) {
			c.PC = nn
		}
	case opcode.OpJPHL:
		c.PC = c.HL()
	case opcode.OpJR:
		r8 := c.fetchR8()
		if c.condTrue(i.Cond) {
			c.PC = uint16(int32(c.PC) + int32(r8))
		}
	case opcode.OpCALL:
		nn := c.fetchD16()
		if c.condTrue(i.Cond) {
			c.push16(c.PC)
			c.PC = nn
		}
	case opcode.OpRET:
		if c.condTrue(i.Cond) {
			c.PC = c.pop16()
		}
	case opcode.OpRETI:
		c.PC = c.pop16()
		c.IME = true
	case opcode.OpRST:
		c.push16(c.PC)
		c.PC = uint16(i.Vector)

	case opcode.OpPUSH:
		c.push16(c.getReg16(i.Reg16))
	case opcode.OpPOP:
		v := c.pop16()
		if i.Reg16 == opcode.AF {
			c.SetAF(v)
		} else {
			c.setReg16(i.Reg16, v)
		}

	default:
		return &UnknownOpcodeError{PC: c.PC, Byte: 0, Prefixed: i.Prefixed}
	}

	return nil
}

func (c *CPU) readOperand8(o opcode.Operand8) byte {
	switch o.Kind {
	case opcode.OperandImm8:
		return c.fetchD8()
	case opcode.OperandIndirectHL:
		return c.Bus.ReadByte(c.HL())
	default:
		return c.regByte(o.Reg)
	}
}

func (c *CPU) setOperand8(o opcode.Operand8, v byte) {
	switch o.Kind {
	case opcode.OperandIndirectHL:
		c.Bus.WriteByte(c.HL(), v)
	case opcode.OperandImm8:
		// unreachable: nothing decodes Imm8 as a write target
	default:
		c.setRegByte(o.Reg, v)
	}
}

func (c *CPU) regByte(r opcode.Reg8) byte {
	switch r {
	case opcode.A:
		return c.A
	case opcode.B:
		return c.B
	case opcode.C:
		return c.C
	case opcode.D:
		return c.D
	case opcode.E:
		return c.E
	case opcode.H:
		return c.H
	default:
		return c.L
	}
}

func (c *CPU) setRegByte(r opcode.Reg8, v byte) {
	switch r {
	case opcode.A:
		c.A = v
	case opcode.B:
		c.B = v
	case opcode.C:
		c.C = v
	case opcode.D:
		c.D = v
	case opcode.E:
		c.E = v
	case opcode.H:
		c.H = v
	case opcode.L:
		c.L = v
	}
}

func (c *CPU) getReg16(r opcode.Reg16) uint16 {
	switch r {
	case opcode.BC:
		return c.BC()
	case opcode.DE:
		return c.DE()
	case opcode.HL:
		return c.HL()
	case opcode.SP:
		return c.SP
	default:
		return c.AF()
	}
}

func (c *CPU) setReg16(r opcode.Reg16, v uint16) {
	switch r {
	case opcode.BC:
		c.SetBC(v)
	case opcode.DE:
		c.SetDE(v)
	case opcode.HL:
		c.SetHL(v)
	case opcode.SP:
		c.SP = v
	case opcode.AF:
		c.SetAF(v)
	}
}

func (c *CPU) condTrue(cond opcode.Cond) bool {
	switch cond {
	case opcode.CondAlways:
		return true
	case opcode.CondZ:
		return c.F.Z
	case opcode.CondNZ:
		return !c.F.Z
	case opcode.CondC:
		return c.F.C
	case opcode.CondNC:
		return !c.F.C
	}
	return false
}

// indirectAddr computes the address named by m and, for the post-
// increment/decrement HL forms, updates HL afterwards -- the memory
// operation itself always uses the HL value in effect before the update.
func (c *CPU) indirectAddr(m opcode.IndirectMode) uint16 {
	switch m {
	case opcode.IndBC:
		return c.BC()
	case opcode.IndDE:
		return c.DE()
	case opcode.IndHLInc:
		addr := c.HL()
		c.SetHL(addr + 1)
		return addr
	case opcode.IndHLDec:
		addr := c.HL()
		c.SetHL(addr - 1)
		return addr
	case opcode.IndFFC:
		return 0xFF00 + uint16(c.C)
	default: // IndNN
		return c.fetchD16()
	}
}

type aluOp func(c *CPU, x byte)

func addOp(c *CPU, x byte) {
	sum := uint16(c.A) + uint16(x)
	h := (c.A&0xF)+(x&0xF) > 0xF
	c.A = byte(sum)
	c.F.Apply(flags.Update{Z: flags.Set(c.A == 0), N: flags.Set(false), H: flags.Set(h), C: flags.Set(sum > 0xFF)})
}

func adcOp(c *CPU, x byte) {
	var carryIn uint16
	if c.F.C {
		carryIn = 1
	}
	sum := uint16(c.A) + uint16(x) + carryIn
	h := uint16(c.A&0xF)+uint16(x&0xF)+carryIn > 0xF
	c.A = byte(sum)
	c.F.Apply(flags.Update{Z: flags.Set(c.A == 0), N: flags.Set(false), H: flags.Set(h), C: flags.Set(sum > 0xFF)})
}

func subOp(c *CPU, x byte) {
	diff := int16(c.A) - int16(x)
	h := (c.A & 0xF) < (x & 0xF)
	c.A = byte(diff)
	c.F.Apply(flags.Update{Z: flags.Set(c.A == 0), N: flags.Set(true), H: flags.Set(h), C: flags.Set(diff < 0)})
}

func sbcOp(c *CPU, x byte) {
	var carryIn int16
	if c.F.C {
		carryIn = 1
	}
	diff := int16(c.A) - int16(x) - carryIn
	h := int16(c.A&0xF)-int16(x&0xF)-carryIn < 0
	c.A = byte(diff)
	c.F.Apply(flags.Update{Z: flags.Set(c.A == 0), N: flags.Set(true), H: flags.Set(h), C: flags.Set(diff < 0)})
}

func cpOp(c *CPU, x byte) {
	diff := int16(c.A) - int16(x)
	h := (c.A & 0xF) < (x & 0xF)
	c.F.Apply(flags.Update{Z: flags.Set(byte(diff) == 0), N: flags.Set(true), H: flags.Set(h), C: flags.Set(diff < 0)})
}

func andOp(c *CPU, x byte) {
	c.A &= x
	c.F.Apply(flags.Update{Z: flags.Set(c.A == 0), N: flags.Set(false), H: flags.Set(true), C: flags.Set(false)})
}

func orOp(c *CPU, x byte) {
	c.A |= x
	c.F.Apply(flags.Update{Z: flags.Set(c.A == 0), N: flags.Set(false), H: flags.Set(false), C: flags.Set(false)})
}

func xorOp(c *CPU, x byte) {
	c.A ^= x
	c.F.Apply(flags.Update{Z: flags.Set(c.A == 0), N: flags.Set(false), H: flags.Set(false), C: flags.Set(false)})
}

func (c *CPU) alu8(src opcode.Operand8, op aluOp) {
	x := c.readOperand8(src)
	op(c, x)
}

func (c *CPU) incDec(i opcode.Instruction, inc bool) {
	if i.Wide {
		v := c.getReg16(i.Reg16)
		if inc {
			v++
		} else {
			v--
		}
		c.setReg16(i.Reg16, v)
		return
	}

	x := c.readOperand8(i.Dst)
	var res byte
	var h bool
	if inc {
		res = x + 1
		h = x&0xF == 0xF
	} else {
		res = x - 1
		h = x&0xF == 0x0
	}
	c.setOperand8(i.Dst, res)
	n := !inc
	c.F.Apply(flags.Update{Z: flags.Set(res == 0), N: flags.Set(n), H: flags.Set(h)})
}

func (c *CPU) addHL(r opcode.Reg16) {
	hl := c.HL()
	rr := c.getReg16(r)
	sum := uint32(hl) + uint32(rr)
	h := (hl&0xFFF)+(rr&0xFFF) > 0xFFF
	c.SetHL(uint16(sum))
	c.F.Apply(flags.Update{N: flags.Set(false), H: flags.Set(h), C: flags.Set(sum > 0xFFFF)})
}

// spPlusR8 centralizes the signed-displacement arithmetic shared by
// ADD SP,r8 and LD HL,SP+r8: the result is a genuine signed add, but H/C
// are computed unsigned from the low byte of SP and the raw byte pattern
// of r8 (per spec.md §9: the source's `sp * 0xf` is a bug for `sp & 0xf`).
func (c *CPU) spPlusR8(r8 int8) (result uint16, h bool, carry bool) {
	rb := uint16(byte(r8))
	h = (c.SP&0xF)+(rb&0xF) > 0xF
	carry = (c.SP&0xFF)+rb > 0xFF
	result = uint16(int32(c.SP) + int32(r8))
	return result, h, carry
}

func (c *CPU) daa() {
	a := c.A
	if !c.F.N {
		if c.F.C || a > 0x99 {
			a += 0x60
			c.F.C = true
		}
		if c.F.H || a&0xF > 0x9 {
			a += 0x6
		}
	} else {
		if c.F.C {
			a -= 0x60
		}
		if c.F.H {
			a -= 0x6
		}
	}
	c.A = a
	c.F.Apply(flags.Update{Z: flags.Set(a == 0), H: flags.Set(false)})
}

type shiftFn func(x byte, carryIn bool) (result byte, carryOut bool)

func rlc(x byte, _ bool) (byte, bool) {
	carry := x&0x80 != 0
	res := x << 1
	if carry {
		res |= 1
	}
	return res, carry
}

func rrc(x byte, _ bool) (byte, bool) {
	carry := x&0x1 != 0
	res := x >> 1
	if carry {
		res |= 0x80
	}
	return res, carry
}

func rl(x byte, carryIn bool) (byte, bool) {
	carry := x&0x80 != 0
	res := x << 1
	if carryIn {
		res |= 1
	}
	return res, carry
}

func rr(x byte, carryIn bool) (byte, bool) {
	carry := x&0x1 != 0
	res := x >> 1
	if carryIn {
		res |= 0x80
	}
	return res, carry
}

func sla(x byte, _ bool) (byte, bool) {
	carry := x&0x80 != 0
	return x << 1, carry
}

func sra(x byte, _ bool) (byte, bool) {
	carry := x&0x1 != 0
	return (x >> 1) | (x & 0x80), carry
}

func swap(x byte, _ bool) (byte, bool) {
	return (x << 4) | (x >> 4), false
}

func srl(x byte, _ bool) (byte, bool) {
	carry := x&0x1 != 0
	return x >> 1, carry
}

// shift applies fn to target, writing the result back. forceZeroFlag is
// true for the unprefixed A-only forms (RLCA/RRCA/RLA/RRA), whose Z flag
// must read 0 regardless of the computed result.
func (c *CPU) shift(target opcode.Operand8, fn shiftFn, forceZeroFlag bool) {
	x := c.readOperand8(target)
	res, carry := fn(x, c.F.C)
	c.setOperand8(target, res)

	z := res == 0
	if forceZeroFlag {
		z = false
	}
	c.F.Apply(flags.Update{Z: flags.Set(z), N: flags.Set(false), H: flags.Set(false), C: flags.Set(carry)})
}
