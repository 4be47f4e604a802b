package debugger

import (
	"errors"

	"github.com/Santi-I-Guess/final-project/translate"
)

var f = translate.From

var (
	ErrNotInstruction   = errors.New(f("not an instruction address"))
	ErrBreakpointExists = errors.New(f("breakpoint already exists"))
	ErrNoBreakpoint     = errors.New(f("no such breakpoint"))
	ErrFinished         = errors.New(f("program has finished"))
	ErrArgument         = errors.New(f("argument required"))
	ErrUnknownCommand   = errors.New(f("unknown command"))
	ErrUnknownLocation  = errors.New(f("unrecognized value"))
)
