package debugger

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"slices"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/Santi-I-Guess/final-project/cpu"
	"github.com/Santi-I-Guess/final-project/translate"
)

const PROMPT = "(pdb) "

// Machine is the emulator surface the debugger drives. It is satisfied by
// *emulator.Emulator.
type Machine interface {
	Image
	Ip() int
	LineNo() int
	Snapshot() cpu.Snapshot
	Inspect(op cpu.Operand) (value int, err error)
	Tick() (done bool, err error)
}

// Debugger steps a machine under operator control.
type Debugger struct {
	Verbose     bool  // If set, logs every command.
	Color       bool  // If set, help headings are bold.
	Breakpoints []int // Breakpoint addresses, ascending.

	machine Machine
	program *cpu.Program
	done    bool
	failure error
}

// NewDebugger attaches a debugger to a machine that has been reset.
func NewDebugger(machine Machine) (dbg *Debugger) {
	dbg = &Debugger{
		machine: machine,
		program: Program(machine),
	}

	return
}

// Done returns true once the program has exited or failed.
func (dbg *Debugger) Done() bool {
	return dbg.done
}

// Failure returns the run-time error that stopped the program, if any.
func (dbg *Debugger) Failure() error {
	return dbg.failure
}

// AddBreakpoint sets a breakpoint on the instruction at ip.
func (dbg *Debugger) AddBreakpoint(ip int) (err error) {
	if !dbg.program.IsInstruction(ip) {
		err = errors.Join(ErrNotInstruction, cpu.ErrAddress(ip))
		return
	}

	n, found := slices.BinarySearch(dbg.Breakpoints, ip)
	if found {
		err = errors.Join(ErrBreakpointExists, cpu.ErrAddress(ip))
		return
	}

	dbg.Breakpoints = slices.Insert(dbg.Breakpoints, n, ip)
	return
}

// DeleteBreakpoint removes the breakpoint at ip.
func (dbg *Debugger) DeleteBreakpoint(ip int) (err error) {
	n, found := slices.BinarySearch(dbg.Breakpoints, ip)
	if !found {
		err = errors.Join(ErrNoBreakpoint, cpu.ErrAddress(ip))
		return
	}

	dbg.Breakpoints = slices.Delete(dbg.Breakpoints, n, n+1)
	return
}

// ClearBreakpoints removes all breakpoints.
func (dbg *Debugger) ClearBreakpoints() {
	dbg.Breakpoints = nil
}

// IsBreakpoint returns true if ip has a breakpoint.
func (dbg *Debugger) IsBreakpoint(ip int) bool {
	_, found := slices.BinarySearch(dbg.Breakpoints, ip)
	return found
}

// Next executes a single instruction.
func (dbg *Debugger) Next() (err error) {
	if dbg.done {
		err = ErrFinished
		return
	}

	dbg.done, err = dbg.machine.Tick()
	if err != nil {
		dbg.done = true
		dbg.failure = err
	}

	return
}

// Continue executes until the program finishes, or the next instruction
// has a breakpoint. At least one instruction is executed.
func (dbg *Debugger) Continue() (err error) {
	for {
		err = dbg.Next()
		if err != nil || dbg.done {
			return
		}
		if dbg.IsBreakpoint(dbg.machine.Ip()) {
			return
		}
	}
}

// Inspect parses and reads a register, stack offset (%n) or RAM
// address ([$n]).
func (dbg *Debugger) Inspect(location string) (value int, err error) {
	var op cpu.Operand
	switch {
	case strings.HasPrefix(location, "%"):
		var offset int
		offset, err = strconv.Atoi(location[1:])
		if err != nil {
			err = errors.Join(ErrUnknownLocation, cpu.ErrParseNumber(location))
			return
		}
		op = cpu.StackOffset(offset)
	case strings.HasPrefix(location, "[$") && strings.HasSuffix(location, "]"):
		var addr int
		addr, err = strconv.Atoi(location[2 : len(location)-1])
		if err != nil {
			err = errors.Join(ErrUnknownLocation, cpu.ErrParseNumber(location))
			return
		}
		if addr < 0 || addr >= cpu.STACK_START {
			err = errors.Join(cpu.ErrOutOfBoundsAddress, cpu.ErrAddress(addr))
			return
		}
		op = cpu.RamAddress(addr)
	default:
		reg, ok := cpu.LookupRegister(strings.ToUpper(location))
		if !ok {
			err = ErrUnknownLocation
			return
		}
		op = cpu.RegisterOperand(reg)
	}

	if op.Mode == cpu.MODE_STACK && (op.Value < 0 || op.Value >= dbg.machine.Snapshot().Sp) {
		err = errors.Join(cpu.ErrStackUnderflow, cpu.ErrAddress(op.Value))
		return
	}

	return dbg.machine.Inspect(op)
}

// command is one debugger command.
type command struct {
	name    string
	alias   string
	args    string
	help    string
	execute func(dbg *Debugger, w io.Writer, args []string) (quit bool, err error)
}

var commands []command

func init() {
	commands = []command{
		{"break", "b", "<address>|list", "set a breakpoint on the instruction at address, or list breakpoints", (*Debugger).doBreak},
		{"continue", "c", "", "run until EXIT, a failure, or the next breakpoint", (*Debugger).doContinue},
		{"delete", "d", "[address]", "delete the breakpoint at address, or all breakpoints", (*Debugger).doDelete},
		{"disassemble", "dis", "", "show the disassembled program", (*Debugger).doDisassemble},
		{"help", "h", "", "show this help screen", (*Debugger).doHelp},
		{"list", "l", "", "show the next instruction to be executed", (*Debugger).doList},
		{"next", "n", "", "execute the next instruction", (*Debugger).doNext},
		{"print", "p", "<register|%offset|[$address]>", "print a value of the machine state", (*Debugger).doPrint},
		{"regs", "r", "", "show all registers", (*Debugger).doRegs},
		{"quit", "q", "", "quit the debugger and the program", (*Debugger).doQuit},
	}
}

func lookupCommand(name string) (cmd command, ok bool) {
	for _, cmd = range commands {
		if cmd.name == name || cmd.alias == name {
			ok = true
			return
		}
	}
	return
}

// Execute runs one command line. Command errors are reported to w; only
// output failures are returned.
func (dbg *Debugger) Execute(w io.Writer, line string) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}

	if dbg.Verbose {
		log.Printf("pdb: %v", fields)
	}

	cmd, ok := lookupCommand(fields[0])
	if !ok {
		_, err = fmt.Fprintf(w, "%v: %v\n", fields[0], ErrUnknownCommand)
		return
	}

	quit, cmd_err := cmd.execute(dbg, w, fields[1:])
	if cmd_err != nil {
		_, err = fmt.Fprintf(w, "%v: %v\n", cmd.name, cmd_err)
	}
	return
}

// Run is the interactive command loop. It ends on 'quit', or at the end of
// the input.
func (dbg *Debugger) Run(r io.Reader, w io.Writer) (err error) {
	scanner := bufio.NewScanner(r)
	for {
		_, err = io.WriteString(w, PROMPT)
		if err != nil {
			return
		}
		if !scanner.Scan() {
			err = scanner.Err()
			return
		}

		var quit bool
		quit, err = dbg.Execute(w, scanner.Text())
		if err != nil || quit {
			return
		}
	}
}

func parseAddress(args []string) (ip int, err error) {
	if len(args) != 1 {
		err = ErrArgument
		return
	}
	ip, err = strconv.Atoi(strings.TrimPrefix(args[0], "#"))
	if err != nil {
		err = cpu.ErrParseNumber(args[0])
	}
	return
}

func (dbg *Debugger) doBreak(w io.Writer, args []string) (quit bool, err error) {
	if len(args) == 1 && args[0] == "list" {
		tw := table.NewWriter()
		tw.SetStyle(table.StyleLight)
		tw.SetTitle(f("Breakpoints"))
		tw.AppendHeader(table.Row{f("Address"), f("Instruction")})
		for _, ip := range dbg.Breakpoints {
			tw.AppendRow(table.Row{fmt.Sprintf("#%d", ip), dbg.instruction(ip)})
		}
		_, err = fmt.Fprintln(w, tw.Render())
		return
	}

	ip, err := parseAddress(args)
	if err != nil {
		return
	}

	err = dbg.AddBreakpoint(ip)
	if err != nil {
		return
	}

	_, err = translate.Fprintf(w, "added #%d\n", ip)
	return
}

func (dbg *Debugger) doDelete(w io.Writer, args []string) (quit bool, err error) {
	if len(args) == 0 {
		dbg.ClearBreakpoints()
		_, err = fmt.Fprintln(w, f("all breakpoints deleted"))
		return
	}

	ip, err := parseAddress(args)
	if err != nil {
		return
	}

	err = dbg.DeleteBreakpoint(ip)
	if err != nil {
		return
	}

	_, err = translate.Fprintf(w, "deleted #%d\n", ip)
	return
}

// report describes where execution stopped.
func (dbg *Debugger) report(w io.Writer) (err error) {
	switch {
	case dbg.failure != nil:
		_, err = translate.Fprintf(w, "program failed: %v\n", dbg.failure)
	case dbg.done:
		_, err = fmt.Fprintln(w, f("program exited"))
	case dbg.IsBreakpoint(dbg.machine.Ip()):
		_, err = translate.Fprintf(w, "breakpoint #%d, line %d\n", dbg.machine.Ip(), dbg.machine.LineNo())
	}
	return
}

func (dbg *Debugger) doContinue(w io.Writer, args []string) (quit bool, err error) {
	err = dbg.Continue()
	if errors.Is(err, ErrFinished) {
		return
	}
	err = dbg.report(w)
	return
}

func (dbg *Debugger) doNext(w io.Writer, args []string) (quit bool, err error) {
	err = dbg.Next()
	if errors.Is(err, ErrFinished) {
		return
	}
	if dbg.done {
		err = dbg.report(w)
		return
	}
	return dbg.doList(w, nil)
}

// instruction disassembles the instruction at ip.
func (dbg *Debugger) instruction(ip int) string {
	for start, codes := range dbg.program.Instructions() {
		if start == ip {
			return cpu.Opcode{Codes: codes}.String()
		}
	}
	return ""
}

func (dbg *Debugger) doList(w io.Writer, args []string) (quit bool, err error) {
	if dbg.done {
		err = ErrFinished
		return
	}

	ip := dbg.machine.Ip()
	_, err = translate.Fprintf(w, "#%d: line %d: %v\n", ip, dbg.machine.LineNo(), dbg.instruction(ip))
	return
}

func (dbg *Debugger) doDisassemble(w io.Writer, args []string) (quit bool, err error) {
	mark := -1
	if !dbg.done {
		mark = dbg.machine.Ip()
	}
	err = Disassemble(w, dbg.machine, mark)
	return
}

func (dbg *Debugger) doPrint(w io.Writer, args []string) (quit bool, err error) {
	if len(args) != 1 {
		err = ErrArgument
		return
	}

	value, err := dbg.Inspect(args[0])
	if err != nil {
		return
	}

	_, err = fmt.Fprintf(w, "%v = %d\n", args[0], value)
	return
}

func (dbg *Debugger) doRegs(w io.Writer, args []string) (quit bool, err error) {
	snap := dbg.machine.Snapshot()

	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.SetTitle(f("Registers"))

	header := table.Row{}
	row := table.Row{}
	for reg := cpu.REG_RA; reg <= cpu.REG_RH; reg++ {
		header = append(header, reg.String())
		row = append(row, snap.Register[reg])
	}
	tw.AppendHeader(header)
	tw.AppendRow(row)
	tw.AppendSeparator()
	tw.AppendRow(table.Row{
		cpu.REG_RSP.String(), snap.Sp,
		cpu.REG_RIP.String(), snap.Pc,
		cpu.REG_CMP0.String(), snap.Cmp[0],
		cpu.REG_CMP1.String(), snap.Cmp[1],
	})

	_, err = fmt.Fprintln(w, tw.Render())
	return
}

func (dbg *Debugger) doHelp(w io.Writer, args []string) (quit bool, err error) {
	var sb strings.Builder
	for _, cmd := range commands {
		name := cmd.name
		if dbg.Color {
			name = text.Escape(name, text.Bold.EscapeSeq())
		}
		fmt.Fprintf(&sb, "%v (%v) %v\n", name, cmd.alias, cmd.args)
		fmt.Fprintf(&sb, "    %v\n", cmd.help)
	}

	_, err = io.WriteString(w, sb.String())
	return
}

func (dbg *Debugger) doQuit(w io.Writer, args []string) (quit bool, err error) {
	quit = true
	return
}
