// Package flags implements the Sharp LR35902 status register: four
// condition bits (Z, N, H, C) and their 8-bit packed representation.
package flags

// Flags is the CPU's four-bit condition register. The low nibble has no
// meaning on real hardware and is always zero once packed.
//
// 7654 3210
// ZNHC 0000
type Flags struct {
	Z bool // Zero: last result was zero
	N bool // Subtract: last op was a subtraction
	H bool // Half-carry: carry out of bit 3 (bit 11 for ADD HL)
	C bool // Carry: carry out of bit 7 (bit 15 for ADD HL)
}

// Pack encodes f into a byte with the low nibble forced to zero.
func (f Flags) Pack() byte {
	var b byte
	if f.Z {
		b |= 1 << 7
	}
	if f.N {
		b |= 1 << 6
	}
	if f.H {
		b |= 1 << 5
	}
	if f.C {
		b |= 1 << 4
	}
	return b
}

// Unpack decodes the four high bits of b into a Flags value; the low
// nibble is ignored.
func Unpack(b byte) Flags {
	return Flags{
		Z: b&(1<<7) != 0,
		N: b&(1<<6) != 0,
		H: b&(1<<5) != 0,
		C: b&(1<<4) != 0,
	}
}

// Update carries four independent "set or leave" selectors, mirroring the
// opcode table's 0/1/-/* flag notation. A nil field leaves the
// corresponding flag untouched.
type Update struct {
	Z *bool
	N *bool
	H *bool
	C *bool
}

// Set is a helper for building an Update inline, e.g. flags.Update{Z: flags.Set(r == 0)}.
func Set(v bool) *bool { return &v }

// Apply mutates f in place, honoring only the non-nil selectors in u.
func (f *Flags) Apply(u Update) {
	if u.Z != nil {
		f.Z = *u.Z
	}
	if u.N != nil {
		f.N = *u.N
	}
	if u.H != nil {
		f.H = *u.H
	}
	if u.C != nil {
		f.C = *u.C
	}
}
