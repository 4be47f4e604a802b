package cpu

import (
	"errors"

	"github.com/Santi-I-Guess/final-project/translate"
)

var f = translate.From

var (
	// Assembler errors
	ErrMissingMain      = errors.New(f("missing main label"))
	ErrMissingExit      = errors.New(f("missing EXIT instruction"))
	ErrExpectedMnemonic = errors.New(f("expected mnemonic"))
	ErrUnknownMnemonic  = errors.New(f("unknown mnemonic"))
	ErrMissingArguments = errors.New(f("missing arguments"))
	ErrInvalidAtom      = errors.New(f("invalid atom"))
	ErrUnknownLabel     = errors.New(f("unknown label"))

	// Runtime errors
	ErrUnknownOpcode       = errors.New(f("unknown opcode"))
	ErrUnknownRegister     = errors.New(f("unknown register"))
	ErrImmutableMutation   = errors.New(f("immutable mutation"))
	ErrStackUnderflow      = errors.New(f("stack underflow"))
	ErrStackOverflow       = errors.New(f("stack overflow"))
	ErrCallStackUnderflow  = errors.New(f("call stack underflow"))
	ErrCallStackOverflow   = errors.New(f("call stack overflow"))
	ErrOutOfBoundsAddress  = errors.New(f("out of bounds address"))
	ErrAsciiRange          = errors.New(f("ascii range error"))
	ErrInput               = errors.New(f("input error"))
	ErrHalted              = errors.New(f("halted"))
	ErrProgramCounterRange = errors.New(f("program counter outside of code"))
)

// ErrWord is the offending word of a decode failure.
type ErrWord uint16

func (err ErrWord) Error() string {
	return f("word 0x%04x", uint16(err))
}

// ErrAddress is the offending address of a memory access.
type ErrAddress int

func (err ErrAddress) Error() string {
	return f("address %d", int(err))
}

// ErrValue is the offending operand value.
type ErrValue int

func (err ErrValue) Error() string {
	return f("value %d", int(err))
}

// ErrInstruction locates a runtime failure.
type ErrInstruction struct {
	Ip     int
	Opcode Mnemonic
}

func (err ErrInstruction) Error() string {
	return f("ip %d %v", err.Ip, err.Opcode)
}

// ErrSyntax is an assembly failure, with its source location.
type ErrSyntax struct {
	LineNo int
	Token  string
	Err    error
}

func (err ErrSyntax) Error() string {
	if len(err.Token) == 0 {
		return f("line %d %v", err.LineNo, err.Err)
	}
	return f("line %d '%v' %v", err.LineNo, err.Token, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
