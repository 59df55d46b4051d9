// Package opcode implements the Sharp LR35902 instruction model and
// decoder: a tagged representation of every legal opcode, and a pure
// function mapping an opcode byte (plus CB-prefix flag) to an Instruction.
package opcode

// Op tags the shape of an Instruction. The executor switches on Op and
// reads whichever of Instruction's operand fields that shape uses.
type Op int

const (
	OpInvalid Op = iota

	OpNOP
	OpHALT
	OpSTOP
	OpDI
	OpEI

	// OpPrefixCB is what Decode(0xCB, false) reports. The CPU's fetch
	// loop recognizes 0xCB before ever calling Decode in unprefixed mode
	// and reads a second byte to decode as prefixed instead, so this Op
	// is never actually executed; it exists only so Decode remains
	// total over every byte not in the hardware's declared invalid set.
	OpPrefixCB

	// 8-bit loads
	OpLDRR     // LD dst,src -- general register/(HL)/immediate move
	OpLDRegD16 // LD rr,d16
	OpLDAInd   // A <- indirect (per Indirect)
	OpLDIndA   // indirect <- A (per Indirect)
	OpLDHAtoA  // A <- (0xFF00+d8)
	OpLDAtoHA  // (0xFF00+d8) <- A
	OpLDHLSP   // HL <- SP + signed d8
	OpLDSPHL   // SP <- HL
	OpLDNNSP   // (a16) <- SP

	// ALU
	OpADD
	OpADC
	OpSUB
	OpSBC
	OpAND
	OpOR
	OpXOR
	OpCP
	OpINC
	OpDEC
	OpADDHL
	OpADDSP
	OpDAA
	OpCPL
	OpCCF
	OpSCF

	// rotates/shifts (prefixed, and the bare-A unprefixed forms)
	OpRLC
	OpRRC
	OpRL
	OpRR
	OpSLA
	OpSRA
	OpSWAP
	OpSRL
	OpRLCA
	OpRRCA
	OpRLA
	OpRRA

	// bit ops (prefixed only)
	OpBIT
	OpRES
	OpSET

	// control flow
	OpJP
	OpJPHL
	OpJR
	OpCALL
	OpRET
	OpRETI
	OpRST
	OpPUSH
	OpPOP
)

// Reg8 names one of the seven byte registers addressable in an opcode
// (F is never directly addressed).
type Reg8 int

const (
	A Reg8 = iota
	B
	C
	D
	E
	H
	L
)

// Reg16 names a 16-bit register pair or SP.
type Reg16 int

const (
	BC Reg16 = iota
	DE
	HL
	SP
	AF // PUSH/POP only
)

// Operand8Kind distinguishes the three ways an 8-bit ALU/load operand can
// be supplied.
type Operand8Kind int

const (
	OperandReg        Operand8Kind = iota // one of the seven byte registers
	OperandImm8                           // D8, the byte following the opcode
	OperandIndirectHL                     // the byte at [HL]
)

// Operand8 is an 8-bit operand: a register, an immediate byte, or [HL].
type Operand8 struct {
	Kind Operand8Kind
	Reg  Reg8 // valid when Kind == OperandReg
}

// Reg returns an Operand8 naming register r.
func Reg(r Reg8) Operand8 { return Operand8{Kind: OperandReg, Reg: r} }

// Imm8 is the D8 operand (immediate byte following the opcode).
var Imm8 = Operand8{Kind: OperandImm8}

// IndHL is the [HL] operand.
var IndHL = Operand8{Kind: OperandIndirectHL}

// IndirectMode names one of the indirect load addressing forms.
type IndirectMode int

const (
	IndBC    IndirectMode = iota // (BC)
	IndDE                        // (DE)
	IndHLInc                     // (HL+), post-increment
	IndHLDec                     // (HL-), post-decrement
	IndNN                        // (nn), absolute 16-bit address (little-endian)
	IndFFC                       // (0xFF00 + C)
)

// Cond names a jump/call/ret condition.
type Cond int

const (
	CondAlways Cond = iota
	CondZ
	CondNZ
	CondC
	CondNC
)

// Instruction is the decoded, executable form of one opcode. Only the
// fields relevant to Op are meaningful; see the Op constants' comments for
// which operands each shape consumes.
type Instruction struct {
	Op Op

	Dst Operand8
	Src Operand8

	Reg16    Reg16
	Indirect IndirectMode
	Cond     Cond
	Bit      int
	Vector   byte

	// Wide distinguishes the 16-bit forms of OpINC/OpDEC (BC,DE,HL,SP)
	// from the 8-bit forms, which share the same Op values but read Dst
	// instead of Reg16 and do affect flags.
	Wide bool

	Prefixed bool
}
