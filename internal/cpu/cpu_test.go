package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lr35902/internal/mem"
)

func testCPU(t *testing.T, program ...byte) *CPU {
	t.Helper()
	// ROM-range bus writes go to the cartridge mapper, so the program is
	// loaded as cartridge contents instead.
	cart := make([]byte, mem.MinCartridgeLen)
	copy(cart, program)
	bus := mem.New(nil, cart)
	bus.DisableBootROM()
	return New(bus)
}

func TestAddSetsHalfCarryAndCarry(t *testing.T) {
	c := testCPU(t, 0x80) // ADD A,B
	c.A = 0xFF
	c.B = 0x01
	require.NoError(t, c.Step())
	assert.Equal(t, byte(0x00), c.A)
	assert.True(t, c.F.Z)
	assert.False(t, c.F.N)
	assert.True(t, c.F.H)
	assert.True(t, c.F.C)
}

func TestSubToZeroSetsZeroAndSubtract(t *testing.T) {
	c := testCPU(t, 0x90) // SUB B
	c.A = 0x10
	c.B = 0x10
	require.NoError(t, c.Step())
	assert.Equal(t, byte(0x00), c.A)
	assert.True(t, c.F.Z)
	assert.True(t, c.F.N)
	assert.False(t, c.F.C)
}

func TestCpPreservesA(t *testing.T) {
	c := testCPU(t, 0xB8) // CP B
	c.A = 0x05
	c.B = 0x05
	require.NoError(t, c.Step())
	assert.Equal(t, byte(0x05), c.A)
	assert.True(t, c.F.Z)
}

func TestAdcJoinsCarryIn(t *testing.T) {
	c := testCPU(t, 0x88) // ADC A,B
	c.A = 0x0F
	c.B = 0x00
	c.F.C = true
	require.NoError(t, c.Step())
	assert.Equal(t, byte(0x10), c.A)
	assert.True(t, c.F.H)
	assert.False(t, c.F.C)
}

func TestPrefixedBitOnHRegister(t *testing.T) {
	c := testCPU(t, 0xCB, 0x7C) // BIT 7,H
	c.H = 0x80
	require.NoError(t, c.Step())
	assert.False(t, c.F.Z)
	assert.True(t, c.F.H)
	assert.False(t, c.F.N)
	// H register itself is untouched by BIT.
	assert.Equal(t, byte(0x80), c.H)
}

func TestJrTakenAdvancesByOffset(t *testing.T) {
	c := testCPU(t, 0x18, 0x05) // JR +5
	require.NoError(t, c.Step())
	assert.Equal(t, uint16(2+5), c.PC)
}

func TestJrNotTakenFallsThrough(t *testing.T) {
	c := testCPU(t, 0x20, 0x05) // JR NZ,+5
	c.F.Z = true
	require.NoError(t, c.Step())
	assert.Equal(t, uint16(2), c.PC)
}

func TestCallAndRetRoundTrip(t *testing.T) {
	program := make([]byte, 0x11)
	copy(program, []byte{0xCD, 0x10, 0x00}) // CALL 0x0010
	program[0x0010] = 0xC9                  // RET
	c := testCPU(t, program...)
	require.NoError(t, c.Step())
	assert.Equal(t, uint16(0x0010), c.PC)
	assert.Equal(t, uint16(0xFFFC), c.SP)
	require.NoError(t, c.Step())
	assert.Equal(t, uint16(0x0003), c.PC)
	assert.Equal(t, uint16(0xFFFE), c.SP)
}

func TestDaaAfterBcdAdd(t *testing.T) {
	c := testCPU(t, 0x80, 0x27) // ADD A,B; DAA
	c.A = 0x09
	c.B = 0x08
	require.NoError(t, c.Step()) // 0x09 + 0x08 = 0x11, H set
	require.NoError(t, c.Step()) // DAA corrects to BCD 0x17
	assert.Equal(t, byte(0x17), c.A)
	assert.False(t, c.F.H)
}

func TestEchoRamMirrorsWorkRam(t *testing.T) {
	c := testCPU(t)
	c.Bus.WriteByte(0xC010, 0x99)
	assert.Equal(t, byte(0x99), c.Bus.ReadByte(0xE010))
	c.Bus.WriteByte(0xE020, 0x77)
	assert.Equal(t, byte(0x77), c.Bus.ReadByte(0xC020))
}

func TestIncDecEightBitPreservesCarry(t *testing.T) {
	c := testCPU(t, 0x3C) // INC A
	c.A = 0xFF
	c.F.C = true
	require.NoError(t, c.Step())
	assert.Equal(t, byte(0x00), c.A)
	assert.True(t, c.F.Z)
	assert.True(t, c.F.H)
	assert.True(t, c.F.C) // INC never touches C
}

func TestIncSixteenBitDoesNotAffectFlags(t *testing.T) {
	c := testCPU(t, 0x03) // INC BC
	c.F.Z = true
	require.NoError(t, c.Step())
	assert.Equal(t, uint16(1), c.BC())
	assert.True(t, c.F.Z) // untouched
}

func TestAddSpUsesMaskedHalfCarry(t *testing.T) {
	c := testCPU(t, 0xE8, 0x01) // ADD SP,1
	c.SP = 0x00FF
	require.NoError(t, c.Step())
	assert.Equal(t, uint16(0x0100), c.SP)
	assert.True(t, c.F.H)
	assert.True(t, c.F.C)
	assert.False(t, c.F.Z)
	assert.False(t, c.F.N)
}

func TestLdHlSpPlusNegativeOffset(t *testing.T) {
	c := testCPU(t, 0xF8, 0xFF) // LD HL,SP-1
	c.SP = 0x0001
	require.NoError(t, c.Step())
	assert.Equal(t, uint16(0x0000), c.HL())
}

func TestSrlWritesComputedResult(t *testing.T) {
	c := testCPU(t, 0xCB, 0x3F) // SRL A
	c.A = 0x03
	require.NoError(t, c.Step())
	assert.Equal(t, byte(0x01), c.A)
	assert.True(t, c.F.C)
}

func TestLdRRCanonicalTable(t *testing.T) {
	c := testCPU(t, 0x78) // LD A,B
	c.B = 0x42
	c.A = 0x00
	require.NoError(t, c.Step())
	assert.Equal(t, byte(0x42), c.A)
}

func TestLdRRFromARegister(t *testing.T) {
	// Reg(A) is the zero value of Operand8; LD B,A must still move A's
	// value, not duplicate B.
	c := testCPU(t, 0x47) // LD B,A
	c.A = 0x5A
	c.B = 0x00
	require.NoError(t, c.Step())
	assert.Equal(t, byte(0x5A), c.B)
}

func TestRlcaForcesZeroFlagFalse(t *testing.T) {
	c := testCPU(t, 0x07) // RLCA
	c.A = 0x00
	require.NoError(t, c.Step())
	assert.Equal(t, byte(0x00), c.A)
	assert.False(t, c.F.Z)
}

func TestPushPopAfRoundTripsThroughFlags(t *testing.T) {
	c := testCPU(t, 0xF5, 0xC1) // PUSH AF; POP BC
	c.A = 0x12
	c.F.Z, c.F.N, c.F.H, c.F.C = true, false, true, false
	require.NoError(t, c.Step())
	require.NoError(t, c.Step())
	assert.Equal(t, byte(0x12), c.B)
	assert.Equal(t, byte(0xA0), c.C) // packed Z and H
}

func TestUnknownOpcodeReturnsStructuredError(t *testing.T) {
	c := testCPU(t, 0xD3) // declared invalid
	err := c.Step()
	require.Error(t, err)
	var unknown *UnknownOpcodeError
	require.ErrorAs(t, err, &unknown)
	assert.True(t, errors.Is(err, ErrUnknownOpcode))
	assert.Equal(t, byte(0xD3), unknown.Byte)
}

func TestStopReturnsProgramStopError(t *testing.T) {
	c := testCPU(t, 0x10, 0x00)
	err := c.Step()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrProgramStop))
}

func TestHaltStopsStepping(t *testing.T) {
	c := testCPU(t, 0x76, 0x3C) // HALT; INC A (should never run)
	require.NoError(t, c.Step())
	assert.True(t, c.Halted)
	require.NoError(t, c.Step())
	assert.Equal(t, byte(0x00), c.A) // INC A never executed
}

func TestHandleInterruptWakesAndDispatches(t *testing.T) {
	c := testCPU(t, 0x76) // HALT
	require.NoError(t, c.Step())
	c.IME = true
	dispatched := c.HandleInterrupt(0x0040)
	assert.True(t, dispatched)
	assert.False(t, c.Halted)
	assert.Equal(t, uint16(0x0040), c.PC)
	assert.False(t, c.IME)
}

func TestHandleInterruptWithoutImeOnlyWakes(t *testing.T) {
	c := testCPU(t, 0x76)
	require.NoError(t, c.Step())
	dispatched := c.HandleInterrupt(0x0040)
	assert.False(t, dispatched)
	assert.False(t, c.Halted)
	assert.NotEqual(t, uint16(0x0040), c.PC)
}
