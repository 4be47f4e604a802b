// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"fmt"
	"iter"
	"maps"

	"github.com/Santi-I-Guess/final-project/cpu"
	"github.com/Santi-I-Guess/final-project/internal"
	"github.com/Santi-I-Guess/final-project/io"
)

const (
	TICK_LIMIT = 0 // Default tick limit; zero is unlimited.
)

var _emulator_defines = map[string]string{
	"LITERAL_TAG": fmt.Sprintf("%#x", cpu.LITERAL_TAG),
	"STACK_TAG":   fmt.Sprintf("%#x", cpu.STACK_TAG),
	"RAM_TAG":     fmt.Sprintf("%#x", cpu.RAM_TAG),
	"STRING_TAG":  fmt.Sprintf("%#x", cpu.STRING_TAG),
}

// Emulator state. CPU + program image + console.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	Limit    int          // If non-zero, maximum ticks before ErrTickLimit.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program image.

	Tape io.Tape // Console.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Program: &cpu.Program{},
		Limit:   TICK_LIMIT,
	}
	emu.Cpu = cpu.NewCpu(&emu.Tape)

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		cpu.Defines(),
	)
}

// Reset the machine, and load the program.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose

	return emu.Cpu.Reset(emu.Program)
}

// Ip returns current instruction pointer.
func (emu *Emulator) Ip() int {
	return emu.Cpu.Pc
}

// LineNo returns the source line of the next instruction, or 0 if unknown.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.Pc)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// GetWord returns the program image word at index.
func (emu *Emulator) GetWord(index int) uint16 {
	return emu.Program.GetWord(index)
}

// ProgramSize returns the program image length, in words.
func (emu *Emulator) ProgramSize() int {
	return emu.Program.Size()
}

// Inspect dereferences an operand against the current machine state.
func (emu *Emulator) Inspect(op cpu.Operand) (value int, err error) {
	return emu.Cpu.Load(op.Encode())
}

// Tick performs a single instruction of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	if emu.Cpu.Halted {
		done = true
		return
	}

	lineno := emu.LineNo()
	ip := emu.Cpu.Pc
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Ip: ip, Err: err}
		}
	}()

	if emu.Limit > 0 && emu.Cpu.Ticks >= emu.Limit {
		err = errors.Join(ErrTickLimit, cpu.ErrValue(emu.Limit))
		return
	}

	err = emu.Cpu.Step()
	if err != nil {
		return
	}

	done = emu.Cpu.Halted
	return
}

// Run ticks until EXIT, or a failure.
func (emu *Emulator) Run() (err error) {
	for done := false; !done; {
		done, err = emu.Tick()
		if err != nil {
			return
		}
	}

	return
}
