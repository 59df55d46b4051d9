// Package register implements the Sharp LR35902's eight 8-bit registers and
// their 16-bit paired views.
package register

import "lr35902/internal/flags"

// File holds the eight byte registers. F is never addressed directly by
// instructions; it is reached only through AF()/SetAF() or the CPU's own
// Flags field.
type File struct {
	A, B, C, D, E, H, L byte
	F                   flags.Flags
}

// AF returns the 16-bit pairing of A and the packed flag byte.
func (r *File) AF() uint16 { return uint16(r.A)<<8 | uint16(r.F.Pack()) }

// SetAF writes v into A and unpacks its low byte into the flags; the low
// nibble of F is therefore always zero afterwards.
func (r *File) SetAF(v uint16) {
	r.A = byte(v >> 8)
	r.F = flags.Unpack(byte(v))
}

// BC returns the 16-bit pairing of B and C.
func (r *File) BC() uint16 { return uint16(r.B)<<8 | uint16(r.C) }

// SetBC splits v into B (high byte) and C (low byte).
func (r *File) SetBC(v uint16) {
	r.B = byte(v >> 8)
	r.C = byte(v)
}

// DE returns the 16-bit pairing of D and E.
func (r *File) DE() uint16 { return uint16(r.D)<<8 | uint16(r.E) }

// SetDE splits v into D (high byte) and E (low byte).
func (r *File) SetDE(v uint16) {
	r.D = byte(v >> 8)
	r.E = byte(v)
}

// HL returns the 16-bit pairing of H and L.
func (r *File) HL() uint16 { return uint16(r.H)<<8 | uint16(r.L) }

// SetHL splits v into H (high byte) and L (low byte).
func (r *File) SetHL(v uint16) {
	r.H = byte(v >> 8)
	r.L = byte(v)
}
