package cpu

import (
	"errors"
	"fmt"
)

// ErrUnknownOpcode is the sentinel wrapped by UnknownOpcodeError, for use
// with errors.Is.
var ErrUnknownOpcode = errors.New("unknown opcode")

// ErrProgramStop is the sentinel wrapped by ProgramStopError.
var ErrProgramStop = errors.New("program stop")

// UnknownOpcodeError reports a decoder failure: the byte at PC (optionally
// preceded by the 0xCB prefix) does not name a legal instruction. This is
// fatal -- there is no meaningful recovery.
type UnknownOpcodeError struct {
	PC       uint16
	Byte     byte
	Prefixed bool
}

func (e *UnknownOpcodeError) Error() string {
	if e.Prefixed {
		return fmt.Sprintf("unknown opcode 0xCB 0x%02x at PC=0x%04x", e.Byte, e.PC)
	}
	return fmt.Sprintf("unknown opcode 0x%02x at PC=0x%04x", e.Byte, e.PC)
}

func (e *UnknownOpcodeError) Unwrap() error { return ErrUnknownOpcode }

// ProgramStopError reports a STOP instruction. The source this core is
// ported from panics on STOP; we surface a structured diagnostic instead
// and let the caller decide whether to terminate or enter a low-power stub.
type ProgramStopError struct {
	PC uint16
}

func (e *ProgramStopError) Error() string {
	return fmt.Sprintf("program stop at PC=0x%04x", e.PC)
}

func (e *ProgramStopError) Unwrap() error { return ErrProgramStop }
