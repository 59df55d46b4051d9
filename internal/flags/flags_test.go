package flags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPackUnpackRoundTrip(t *testing.T) {
	for _, f := range []Flags{
		{false, false, false, false},
		{true, false, false, false},
		{false, true, false, false},
		{false, false, true, false},
		{false, false, false, true},
		{true, true, true, true},
		{true, false, true, false},
		{false, true, false, true},
	} {
		assert.Equal(t, f, Unpack(f.Pack()), "round trip for %+v", f)
	}
}

func TestPackLowNibbleAlwaysZero(t *testing.T) {
	assert.Equal(t, byte(0), Flags{true, true, true, true}.Pack()&0x0f)
	assert.Equal(t, byte(0), Flags{false, false, false, false}.Pack()&0x0f)
}

func TestUnpackIgnoresLowNibble(t *testing.T) {
	for b := 0; b < 256; b++ {
		packed := Unpack(byte(b)).Pack()
		assert.Equal(t, byte(b)&0xf0, packed, "byte %#x", b)
	}
}

func TestApplyPreservesUnselectedFlags(t *testing.T) {
	f := Flags{Z: true, N: true, H: true, C: true}
	f.Apply(Update{Z: Set(false)})
	assert.Equal(t, Flags{Z: false, N: true, H: true, C: true}, f)
}

func TestApplyNilUpdateIsNoop(t *testing.T) {
	f := Flags{Z: true, N: false, H: true, C: false}
	f.Apply(Update{})
	assert.Equal(t, Flags{Z: true, N: false, H: true, C: false}, f)
}
