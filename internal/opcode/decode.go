package opcode

// Decode maps a single opcode byte to its Instruction. prefixed selects the
// CB-prefixed table. Unprefixed decoding returns ok=false for the eleven
// opcodes the hardware never defines; prefixed decoding is total.
func Decode(b byte, prefixed bool) (Instruction, bool) {
	if prefixed {
		return prefixedTable[b], true
	}
	i := unprefixedTable[b]
	if i.Op == OpInvalid {
		return Instruction{}, false
	}
	return i, true
}

// regOrder is the canonical register ordering used by every 8-wide block in
// both opcode tables: B,C,D,E,H,L,(HL),A.
var regOrder = [8]Operand8{Reg(B), Reg(C), Reg(D), Reg(E), Reg(H), Reg(L), IndHL, Reg(A)}

func operandByIndex(i int) Operand8 { return regOrder[i] }

var unprefixedTable = buildUnprefixedTable()
var prefixedTable = buildPrefixedTable()

func buildUnprefixedTable() [256]Instruction {
	var t [256]Instruction

	// 0x40-0x7F: LD r,r' -- 8 destination rows x 8 source columns, with
	// 0x76 (LD (HL),(HL)) replaced by HALT.
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			b := byte(0x40 + row*8 + col)
			if b == 0x76 {
				t[b] = Instruction{Op: OpHALT}
				continue
			}
			t[b] = Instruction{Op: OpLDRR, Dst: operandByIndex(row), Src: operandByIndex(col)}
		}
	}

	// 0x80-0xBF: ALU A,r across the 8 canonical columns.
	aluRows := []Op{OpADD, OpADC, OpSUB, OpSBC, OpAND, OpXOR, OpOR, OpCP}
	for i, op := range aluRows {
		for col := 0; col < 8; col++ {
			b := byte(0x80 + i*8 + col)
			t[b] = Instruction{Op: op, Src: operandByIndex(col)}
		}
	}

	// 0x04/0x0C/... INC r8, 0x05/0x0D/... DEC r8 for B,C,D,E,H,L,(HL),A
	// (SP/pair forms are handled individually below.)
	incDecOperands := []struct {
		op      Operand8
		incByte byte
		decByte byte
	}{
		{Reg(B), 0x04, 0x05},
		{Reg(C), 0x0C, 0x0D},
		{Reg(D), 0x14, 0x15},
		{Reg(E), 0x1C, 0x1D},
		{Reg(H), 0x24, 0x25},
		{Reg(L), 0x2C, 0x2D},
		{IndHL, 0x34, 0x35},
		{Reg(A), 0x3C, 0x3D},
	}
	for _, e := range incDecOperands {
		t[e.incByte] = Instruction{Op: OpINC, Dst: e.op}
		t[e.decByte] = Instruction{Op: OpDEC, Dst: e.op}
	}

	// 16-bit INC/DEC/ADD HL,rr and LD rr,d16/SP d16.
	pairs := []struct {
		reg      Reg16
		ldByte   byte
		incByte  byte
		decByte  byte
		addByte  byte
		stByte   byte // LD (BC)/(DE)/(HL+)/(HL-),A or LD A,(BC)/(DE)/(HL+)/(HL-)
		ldAByte  byte
		indirect IndirectMode
	}{
		{BC, 0x01, 0x03, 0x0B, 0x09, 0x02, 0x0A, IndBC},
		{DE, 0x11, 0x13, 0x1B, 0x19, 0x12, 0x1A, IndDE},
		{HL, 0x21, 0x23, 0x2B, 0x29, 0x22, 0x2A, IndHLInc}, // LD (HL+),A / LD A,(HL+)
		{SP, 0x31, 0x33, 0x3B, 0x39, 0x00, 0x00, 0},        // SP has no (SP) indirect form
	}
	for _, p := range pairs {
		t[p.ldByte] = Instruction{Op: OpLDRegD16, Reg16: p.reg}
		t[p.incByte] = Instruction{Op: OpINC, Reg16: p.reg, Wide: true}
		t[p.decByte] = Instruction{Op: OpDEC, Reg16: p.reg, Wide: true}
		t[p.addByte] = Instruction{Op: OpADDHL, Reg16: p.reg}
		if p.reg != SP {
			t[p.stByte] = Instruction{Op: OpLDIndA, Indirect: p.indirect}
			t[p.ldAByte] = Instruction{Op: OpLDAInd, Indirect: p.indirect}
		}
	}
	// LD (HL-),A / LD A,(HL-) share HL's increment/decrement bytes with
	// the opposite indirect mode.
	t[0x32] = Instruction{Op: OpLDIndA, Indirect: IndHLDec}
	t[0x3A] = Instruction{Op: OpLDAInd, Indirect: IndHLDec}

	// Immediate 8-bit loads LD r,d8.
	immLoads := map[byte]Operand8{
		0x06: Reg(B), 0x0E: Reg(C),
		0x16: Reg(D), 0x1E: Reg(E),
		0x26: Reg(H), 0x2E: Reg(L),
		0x36: IndHL, 0x3E: Reg(A),
	}
	for b, dst := range immLoads {
		t[b] = Instruction{Op: OpLDRR, Dst: dst, Src: Imm8}
	}

	// ALU A,d8 immediates.
	aluImm := map[byte]Op{
		0xC6: OpADD, 0xCE: OpADC,
		0xD6: OpSUB, 0xDE: OpSBC,
		0xE6: OpAND, 0xEE: OpXOR,
		0xF6: OpOR, 0xFE: OpCP,
	}
	for b, op := range aluImm {
		t[b] = Instruction{Op: op, Src: Imm8}
	}

	// Rotates/shifts on A, misc single-byte ops.
	t[0x07] = Instruction{Op: OpRLCA}
	t[0x0F] = Instruction{Op: OpRRCA}
	t[0x17] = Instruction{Op: OpRLA}
	t[0x1F] = Instruction{Op: OpRRA}
	t[0x27] = Instruction{Op: OpDAA}
	t[0x2F] = Instruction{Op: OpCPL}
	t[0x37] = Instruction{Op: OpSCF}
	t[0x3F] = Instruction{Op: OpCCF}
	t[0x00] = Instruction{Op: OpNOP}
	t[0x10] = Instruction{Op: OpSTOP}
	t[0xCB] = Instruction{Op: OpPrefixCB}
	t[0xF3] = Instruction{Op: OpDI}
	t[0xFB] = Instruction{Op: OpEI}

	t[0x08] = Instruction{Op: OpLDNNSP}
	t[0xE2] = Instruction{Op: OpLDIndA, Indirect: IndFFC}
	t[0xF2] = Instruction{Op: OpLDAInd, Indirect: IndFFC}
	t[0xEA] = Instruction{Op: OpLDIndA, Indirect: IndNN}
	t[0xFA] = Instruction{Op: OpLDAInd, Indirect: IndNN}
	t[0xE0] = Instruction{Op: OpLDAtoHA}
	t[0xF0] = Instruction{Op: OpLDHAtoA}
	t[0xE8] = Instruction{Op: OpADDSP}
	t[0xE9] = Instruction{Op: OpJPHL}
	t[0xF8] = Instruction{Op: OpLDHLSP}
	t[0xF9] = Instruction{Op: OpLDSPHL}

	// Jumps, calls, returns, resets.
	t[0xC3] = Instruction{Op: OpJP, Cond: CondAlways}
	t[0xC2] = Instruction{Op: OpJP, Cond: CondNZ}
	t[0xCA] = Instruction{Op: OpJP, Cond: CondZ}
	t[0xD2] = Instruction{Op: OpJP, Cond: CondNC}
	t[0xDA] = Instruction{Op: OpJP, Cond: CondC}

	t[0x18] = Instruction{Op: OpJR, Cond: CondAlways}
	t[0x20] = Instruction{Op: OpJR, Cond: CondNZ}
	t[0x28] = Instruction{Op: OpJR, Cond: CondZ}
	t[0x30] = Instruction{Op: OpJR, Cond: CondNC}
	t[0x38] = Instruction{Op: OpJR, Cond: CondC}

	t[0xCD] = Instruction{Op: OpCALL, Cond: CondAlways}
	t[0xC4] = Instruction{Op: OpCALL, Cond: CondNZ}
	t[0xCC] = Instruction{Op: OpCALL, Cond: CondZ}
	t[0xD4] = Instruction{Op: OpCALL, Cond: CondNC}
	t[0xDC] = Instruction{Op: OpCALL, Cond: CondC}

	t[0xC9] = Instruction{Op: OpRET, Cond: CondAlways}
	t[0xC0] = Instruction{Op: OpRET, Cond: CondNZ}
	t[0xC8] = Instruction{Op: OpRET, Cond: CondZ}
	t[0xD0] = Instruction{Op: OpRET, Cond: CondNC}
	t[0xD8] = Instruction{Op: OpRET, Cond: CondC}
	t[0xD9] = Instruction{Op: OpRETI}

	resetVectors := map[byte]byte{
		0xC7: 0x00, 0xCF: 0x08,
		0xD7: 0x10, 0xDF: 0x18,
		0xE7: 0x20, 0xEF: 0x28,
		0xF7: 0x30, 0xFF: 0x38,
	}
	for b, vec := range resetVectors {
		t[b] = Instruction{Op: OpRST, Vector: vec}
	}

	stackPairs := map[byte]struct {
		reg  Reg16
		push bool
	}{
		0xC5: {BC, true}, 0xC1: {BC, false},
		0xD5: {DE, true}, 0xD1: {DE, false},
		0xE5: {HL, true}, 0xE1: {HL, false},
		0xF5: {AF, true}, 0xF1: {AF, false},
	}
	for b, e := range stackPairs {
		if e.push {
			t[b] = Instruction{Op: OpPUSH, Reg16: e.reg}
		} else {
			t[b] = Instruction{Op: OpPOP, Reg16: e.reg}
		}
	}

	// Unused opcodes stay OpInvalid (the zero value), matching the
	// hardware's undefined-byte set exactly: 0xD3, 0xDB, 0xDD, 0xE3,
	// 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD.

	return t
}

func buildPrefixedTable() [256]Instruction {
	var t [256]Instruction

	shiftRows := []Op{OpRLC, OpRRC, OpRL, OpRR, OpSLA, OpSRA, OpSWAP, OpSRL}
	for i, op := range shiftRows {
		for col := 0; col < 8; col++ {
			b := byte(i*8 + col)
			t[b] = Instruction{Op: op, Dst: operandByIndex(col), Prefixed: true}
		}
	}

	bitRows := []Op{OpBIT, OpRES, OpSET}
	for i, op := range bitRows {
		base := byte(0x40 + i*0x40)
		for bit := 0; bit < 8; bit++ {
			for col := 0; col < 8; col++ {
				b := base + byte(bit*8+col)
				t[b] = Instruction{Op: op, Dst: operandByIndex(col), Bit: bit, Prefixed: true}
			}
		}
	}

	return t
}
