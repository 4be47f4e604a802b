package debugger

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Santi-I-Guess/final-project/cpu"
	"github.com/Santi-I-Guess/final-project/emulator"
)

var counter = []string{
	"main:",
	"  MOV RA $0",
	"loop:",
	"  INC RA",
	"  PUSH RA",
	"  CMP RA $3",
	"  JLS loop",
	`  SPRINT "done\n"`,
	"  EXIT",
}

// Image layout of counter: strings at 5, code at 10.
// 10 MOV, 13 INC, 15 PUSH, 17 CMP, 20 JLS, 22 SPRINT, 24 EXIT

func newDebugger(t *testing.T, program []string) (dbg *Debugger, emu *emulator.Emulator, output *bytes.Buffer) {
	prog, err := (&cpu.Assembler{}).Parse(strings.NewReader(strings.Join(program, "\n")))
	if err != nil {
		t.Fatal(err)
	}

	emu = emulator.NewEmulator()
	emu.Program = prog
	output = &bytes.Buffer{}
	emu.Tape.Output = output
	err = emu.Reset()
	if err != nil {
		t.Fatal(err)
	}

	dbg = NewDebugger(emu)
	return
}

func TestDebuggerBreakpoints(t *testing.T) {
	assert := assert.New(t)

	dbg, _, _ := newDebugger(t, counter)

	assert.NoError(dbg.AddBreakpoint(17))
	assert.NoError(dbg.AddBreakpoint(13))
	assert.Equal([]int{13, 17}, dbg.Breakpoints)

	assert.True(errors.Is(dbg.AddBreakpoint(13), ErrBreakpointExists))
	assert.True(errors.Is(dbg.AddBreakpoint(14), ErrNotInstruction))
	assert.True(errors.Is(dbg.AddBreakpoint(5), ErrNotInstruction))
	assert.True(errors.Is(dbg.AddBreakpoint(99), ErrNotInstruction))

	assert.True(dbg.IsBreakpoint(17))
	assert.NoError(dbg.DeleteBreakpoint(17))
	assert.False(dbg.IsBreakpoint(17))
	assert.True(errors.Is(dbg.DeleteBreakpoint(17), ErrNoBreakpoint))

	dbg.ClearBreakpoints()
	assert.Empty(dbg.Breakpoints)
}

func TestDebuggerContinue(t *testing.T) {
	assert := assert.New(t)

	dbg, emu, output := newDebugger(t, counter)

	assert.NoError(dbg.AddBreakpoint(15))

	for n := 1; n <= 3; n++ {
		assert.NoError(dbg.Continue())
		assert.Equal(15, emu.Ip())
		assert.Equal(5, emu.LineNo())
		assert.Equal(int16(n), emu.Cpu.Register[cpu.REG_RA])
		assert.False(dbg.Done())
	}

	assert.NoError(dbg.Continue())
	assert.True(dbg.Done())
	assert.Equal("done\n", output.String())

	assert.True(errors.Is(dbg.Continue(), ErrFinished))
	assert.True(errors.Is(dbg.Next(), ErrFinished))
}

func TestDebuggerFailure(t *testing.T) {
	assert := assert.New(t)

	dbg, _, _ := newDebugger(t, []string{"main: POP RA", "EXIT"})

	err := dbg.Next()
	assert.True(errors.Is(err, cpu.ErrStackUnderflow))
	assert.True(dbg.Done())
	assert.Equal(err, dbg.Failure())
}

func TestDebuggerInspect(t *testing.T) {
	assert := assert.New(t)

	dbg, _, _ := newDebugger(t, []string{
		"main:",
		"PUSH $7",
		"PUSH $8",
		"WRITE $9 $100",
		"MOV RB $-3",
		"CMP $1 $2",
		"EXIT",
	})
	for range 5 {
		assert.NoError(dbg.Next())
	}

	table := map[string]int{
		"RB":      -3,
		"rb":      -3,
		"%0":      8,
		"%1":      7,
		"[$100]":  9,
		"RSP":     2,
		"CMP0":    1,
		"CMP1":    2,
		"RZ":      0,
		"RIP":     20,
		"[$6143]": 0,
	}
	for location, expected := range table {
		value, err := dbg.Inspect(location)
		assert.NoError(err, location)
		assert.Equal(expected, value, location)
	}

	errs := map[string]error{
		"%2":      cpu.ErrStackUnderflow,
		"%-1":     cpu.ErrStackUnderflow,
		"%x":      ErrUnknownLocation,
		"[$6144]": cpu.ErrOutOfBoundsAddress,
		"[$x]":    ErrUnknownLocation,
		"RX":      ErrUnknownLocation,
	}
	for location, expected := range errs {
		_, err := dbg.Inspect(location)
		assert.True(errors.Is(err, expected), "%v: %v", location, err)
	}
}

func TestDebuggerRun(t *testing.T) {
	assert := assert.New(t)

	dbg, _, output := newDebugger(t, counter)

	script := strings.Join([]string{
		"",
		"list",
		"break 14",
		"break #15",
		"break 15",
		"break",
		"continue",
		"print RA",
		"n",
		"print %0",
		"delete 15",
		"delete 15",
		"bogus",
		"c",
		"next",
		"print",
		"quit",
		"list",
	}, "\n")

	screen := &bytes.Buffer{}
	err := dbg.Run(strings.NewReader(script), screen)
	assert.NoError(err)

	expected := []string{
		"#10: line 2: MOV RA $0",
		"break: not an instruction address",
		"added #15",
		"break: breakpoint already exists",
		"break: argument required",
		"breakpoint #15, line 5",
		"RA = 1",
		"#17: line 6: CMP RA $3",
		"%0 = 1",
		"deleted #15",
		"delete: no such breakpoint",
		"bogus: unknown command",
		"program exited",
		"next: program has finished",
		"print: argument required",
	}
	text := screen.String()
	last := 0
	for _, line := range expected {
		at := strings.Index(text[last:], line)
		if assert.True(at >= 0, "missing %q after offset %d", line, last) {
			last += at + len(line)
		}
	}

	// Nothing runs after quit.
	assert.Equal(strings.Count(text, PROMPT), 17)
	assert.Equal("done\n", output.String())
}

func TestDebuggerEndOfInput(t *testing.T) {
	assert := assert.New(t)

	dbg, _, _ := newDebugger(t, counter)

	screen := &bytes.Buffer{}
	assert.NoError(dbg.Run(strings.NewReader("next\n"), screen))
	assert.Equal(PROMPT+"#13: line 4: INC RA\n"+PROMPT, screen.String())
}

func TestDebuggerTables(t *testing.T) {
	assert := assert.New(t)

	dbg, _, _ := newDebugger(t, counter)
	assert.NoError(dbg.AddBreakpoint(20))

	screen := &bytes.Buffer{}
	for _, line := range []string{"regs", "break list", "help"} {
		quit, err := dbg.Execute(screen, line)
		assert.NoError(err)
		assert.False(quit)
	}

	text := screen.String()
	assert.Contains(text, "Registers")
	assert.Contains(text, "CMP1")
	assert.Contains(text, "Breakpoints")
	assert.Contains(text, "#20")
	assert.Contains(text, "JLS #13")
	assert.Contains(text, "disassemble (dis)")
	assert.NotContains(text, "\x1b[1m")

	dbg.Color = true
	screen.Reset()
	_, err := dbg.Execute(screen, "h")
	assert.NoError(err)
	assert.Contains(screen.String(), "\x1b[1mbreak\x1b[0m")

	quit, err := dbg.Execute(screen, "q")
	assert.NoError(err)
	assert.True(quit)
}

func TestDisassemble(t *testing.T) {
	assert := assert.New(t)

	dbg, emu, _ := newDebugger(t, counter)

	screen := &bytes.Buffer{}
	_, err := dbg.Execute(screen, "disassemble")
	assert.NoError(err)

	text := screen.String()
	assert.Contains(text, "Main @ 10")
	assert.Contains(text, `"done\n"`)
	assert.Contains(text, "#5")
	assert.Contains(text, "MOV RA $0")
	assert.Contains(text, "SPRINT @5")
	assert.Contains(text, "=>")
	assert.NotContains(text, "magic number mismatch")

	lines := strings.Split(text, "\n")
	order := []string{"#5", "#10", "#13", "#15", "#17", "#20", "#22", "#24"}
	n := 0
	for _, line := range lines {
		if n < len(order) && strings.Contains(line, order[n]) {
			n++
		}
	}
	assert.Equal(len(order), n)

	emu.Program.Words[0] = 0
	screen.Reset()
	assert.NoError(Disassemble(screen, emu, -1))
	assert.Contains(screen.String(), "magic number mismatch")
	assert.NotContains(screen.String(), "=>")

	emu.Program.Words = emu.Program.Words[:5]
	assert.True(errors.Is(Disassemble(screen, emu, -1), cpu.ErrProgramCounterRange))
}

func TestDisassembleNoStrings(t *testing.T) {
	assert := assert.New(t)

	_, emu, _ := newDebugger(t, []string{"main: EXIT"})

	screen := &bytes.Buffer{}
	assert.NoError(Disassemble(screen, emu, 7))

	prog := Program(emu)
	addrs, texts := stringsOf(prog)
	assert.Empty(addrs)
	assert.Empty(texts)
	assert.Contains(screen.String(), "Main @ 7")
	assert.Contains(screen.String(), "EXIT")
}
