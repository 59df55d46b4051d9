package opcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var invalidUnprefixed = map[byte]bool{
	0xD3: true, 0xDB: true, 0xDD: true,
	0xE3: true, 0xE4: true, 0xEB: true, 0xEC: true, 0xED: true,
	0xF4: true, 0xFC: true, 0xFD: true,
}

func TestDecodeUnprefixedTotalOverLegalBytes(t *testing.T) {
	for b := 0; b < 256; b++ {
		_, ok := Decode(byte(b), false)
		if invalidUnprefixed[byte(b)] {
			assert.False(t, ok, "expected %#x to be invalid", b)
		} else {
			assert.True(t, ok, "expected %#x to be defined", b)
		}
	}
}

func TestDecodePrefixedTotal(t *testing.T) {
	for b := 0; b < 256; b++ {
		_, ok := Decode(byte(b), true)
		assert.True(t, ok, "expected prefixed %#x to be defined", b)
	}
}

func TestDecodeConcreteUnprefixedEntries(t *testing.T) {
	i, ok := Decode(0x80, false)
	assert.True(t, ok)
	assert.Equal(t, OpADD, i.Op)
	assert.Equal(t, Reg(B), i.Src)

	i, ok = Decode(0x86, false)
	assert.True(t, ok)
	assert.Equal(t, OpADD, i.Op)
	assert.Equal(t, IndHL, i.Src)

	i, ok = Decode(0x41, false)
	assert.True(t, ok)
	assert.Equal(t, OpLDRR, i.Op)
	assert.Equal(t, Reg(B), i.Dst)
	assert.Equal(t, Reg(C), i.Src)

	i, ok = Decode(0x76, false)
	assert.True(t, ok)
	assert.Equal(t, OpHALT, i.Op)
}

func TestDecodeConcretePrefixedEntry(t *testing.T) {
	i, ok := Decode(0x7C, true)
	assert.True(t, ok)
	assert.Equal(t, OpBIT, i.Op)
	assert.Equal(t, 7, i.Bit)
	assert.Equal(t, Reg(H), i.Dst)
}

func TestDecodeResetVectors(t *testing.T) {
	for b, vec := range map[byte]byte{
		0xC7: 0x00, 0xCF: 0x08, 0xD7: 0x10, 0xDF: 0x18,
		0xE7: 0x20, 0xEF: 0x28, 0xF7: 0x30, 0xFF: 0x38,
	} {
		i, ok := Decode(b, false)
		assert.True(t, ok)
		assert.Equal(t, OpRST, i.Op)
		assert.Equal(t, vec, i.Vector)
	}
}
