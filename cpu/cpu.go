package cpu

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
)

// Console is the character I/O of the machine.
type Console interface {
	io.Writer
	ReadInt() (value int, err error)    // Reads one whitespace delimited integer.
	ReadLine() (line string, err error) // Reads one line, without its newline.
}

// Machine is the state an instruction handler reads and mutates.
type Machine interface {
	Operand(slot int) uint16                // Raw operand word of the current instruction.
	Load(word uint16) (value int, err error) // Dereferences an operand word.
	Store(word uint16, value int) error      // Writes a register destination.
	Push(value int) error
	Pop() (value int, err error)
	Call(target int) error
	Return() error
	Jump(target int)
	Compare(a, b int)
	Flags() (cmp0, cmp1 int)
	ReadMemory(addr int) (value int, err error)
	WriteMemory(addr int, value int) error
	StringAt(addr int) string
	Console() Console
	Random() int
	Warn(format string, args ...any)
	Halt()
}

// Cpu is the PAL register machine.
type Cpu struct {
	Verbose bool  // Set to enable verbose logging.
	Seed    int64 // Seed of the RAND instruction's source.

	Register [GENERAL_REGISTERS]int16 // RA through RH.
	Sp       int                      // Value stack depth.
	Pc       int                      // Image index of the next instruction.
	Cmp      [2]int16                 // CMP0, CMP1.
	Memory   [RAM_SIZE]int16          // RAM, then the value stack.
	Calls    Stack                    // Return addresses.
	Halted   bool                     // Set by EXIT.
	Ticks    int                      // Instructions executed.

	Program *Program // Image being executed.

	console Console
	rand    *rand.Rand
	next    int // Next Pc, unless a handler jumps.
}

var _ Machine = (*Cpu)(nil)

// NewCpu creates a CPU attached to a console. A nil console discards
// output and has no input.
func NewCpu(console Console) (cpu *Cpu) {
	cpu = &Cpu{
		console: console,
	}

	return
}

// SetConsole replaces the console.
func (cpu *Cpu) SetConsole(console Console) {
	cpu.console = console
}

// Reset loads a program image, and clears all machine state.
func (cpu *Cpu) Reset(prog *Program) (err error) {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	if !prog.CheckMagic() {
		log.Printf("warning: magic number mismatch")
	}

	if prog.CodeStart() < 0 {
		err = errors.Join(ErrProgramCounterRange, ErrAddress(prog.Size()))
		return
	}

	cpu.Program = prog
	clear(cpu.Register[:])
	clear(cpu.Cmp[:])
	clear(cpu.Memory[:])
	cpu.Calls.Reset()
	cpu.Sp = 0
	cpu.Pc = prog.Entry()
	cpu.Halted = false
	cpu.Ticks = 0
	cpu.rand = rand.New(rand.NewSource(cpu.Seed))

	if cpu.Verbose {
		log.Printf("cpu: entry %d", cpu.Pc)
	}

	return
}

// Step executes a single instruction.
func (cpu *Cpu) Step() (err error) {
	if cpu.Halted {
		err = ErrHalted
		return
	}

	if cpu.Program == nil || cpu.Pc < cpu.Program.CodeStart() || cpu.Pc >= cpu.Program.Size() {
		err = errors.Join(ErrProgramCounterRange, ErrAddress(cpu.Pc))
		return
	}

	ip := cpu.Pc
	desc, err := LookupOpcode(cpu.Program.Words[ip])
	if err != nil {
		err = errors.Join(ErrInstruction{Ip: ip}, err)
		return
	}

	defer func() {
		if err != nil {
			err = errors.Join(ErrInstruction{Ip: ip, Opcode: desc.Opcode}, err)
		}
	}()

	if ip+desc.Length > cpu.Program.Size() {
		err = errors.Join(ErrProgramCounterRange, ErrAddress(ip+desc.Length))
		return
	}

	if cpu.Verbose {
		log.Printf("%04d: %v", ip, Opcode{Codes: cpu.Program.Words[ip : ip+desc.Length]})
	}

	cpu.next = ip + desc.Length

	err = handlers[desc.Opcode](cpu)
	if err != nil {
		return
	}

	cpu.Pc = cpu.next
	cpu.Ticks++

	return
}

// Run executes until EXIT, or a failure.
func (cpu *Cpu) Run() (err error) {
	for !cpu.Halted {
		err = cpu.Step()
		if err != nil {
			return
		}
	}

	return
}

// Operand returns the raw operand word in slot of the current instruction.
func (cpu *Cpu) Operand(slot int) uint16 {
	return cpu.Program.GetWord(cpu.Pc + slot)
}

// Load dereferences an operand word.
func (cpu *Cpu) Load(word uint16) (value int, err error) {
	op := DecodeOperand(word)
	switch op.Mode {
	case MODE_LITERAL, MODE_STRING:
		value = op.Value
	case MODE_STACK:
		if op.Value >= cpu.Sp {
			err = errors.Join(ErrStackUnderflow, ErrAddress(op.Value))
			return
		}
		value = int(cpu.Memory[STACK_START+cpu.Sp-op.Value-1])
	case MODE_RAM:
		value, err = cpu.ReadMemory(op.Value)
	case MODE_REGISTER:
		switch reg := Register(op.Value); {
		case reg.Writable():
			value = int(cpu.Register[reg])
		case reg == REG_RSP:
			value = cpu.Sp
		case reg == REG_RIP:
			value = cpu.Pc
		case reg == REG_CMP0:
			value = int(cpu.Cmp[0])
		case reg == REG_CMP1:
			value = int(cpu.Cmp[1])
		case reg == REG_RZ:
			value = 0
		default:
			err = errors.Join(ErrUnknownRegister, ErrWord(word))
		}
	}

	return
}

// Store writes a clamped value to a register destination.
func (cpu *Cpu) Store(word uint16, value int) (err error) {
	reg, ok := DecodeOperand(word).Register()
	switch {
	case !ok:
		err = errors.Join(ErrImmutableMutation, ErrWord(word))
	case !reg.Valid():
		err = errors.Join(ErrUnknownRegister, ErrWord(word))
	case !reg.Writable():
		err = errors.Join(ErrImmutableMutation, ErrWord(word))
	default:
		cpu.Register[reg] = int16(clamp(value))
	}

	return
}

func (cpu *Cpu) Push(value int) (err error) {
	if cpu.Sp >= STACK_SIZE {
		err = ErrStackOverflow
		return
	}

	cpu.Memory[STACK_START+cpu.Sp] = int16(clamp(value))
	cpu.Sp++
	return
}

func (cpu *Cpu) Pop() (value int, err error) {
	if cpu.Sp == 0 {
		err = ErrStackUnderflow
		return
	}

	cpu.Sp--
	value = int(cpu.Memory[STACK_START+cpu.Sp])
	return
}

// Call saves the address of the next instruction, and jumps to target.
func (cpu *Cpu) Call(target int) (err error) {
	if cpu.Calls.Full() {
		err = ErrCallStackOverflow
		return
	}

	cpu.Calls.Push(uint16(cpu.next))
	cpu.next = target
	return
}

// Return jumps to the most recently saved return address.
func (cpu *Cpu) Return() (err error) {
	addr, ok := cpu.Calls.Pop()
	if !ok {
		err = ErrCallStackUnderflow
		return
	}

	cpu.next = int(addr)
	return
}

func (cpu *Cpu) Jump(target int) {
	cpu.next = target
}

func (cpu *Cpu) Compare(a, b int) {
	cpu.Cmp[0] = int16(clamp(a))
	cpu.Cmp[1] = int16(clamp(b))
}

func (cpu *Cpu) Flags() (cmp0, cmp1 int) {
	return int(cpu.Cmp[0]), int(cpu.Cmp[1])
}

// ReadMemory reads a RAM word. The value stack region is not addressable.
func (cpu *Cpu) ReadMemory(addr int) (value int, err error) {
	if addr < 0 || addr >= STACK_START {
		err = errors.Join(ErrOutOfBoundsAddress, ErrAddress(addr))
		return
	}

	value = int(cpu.Memory[addr])
	return
}

// WriteMemory writes a clamped RAM word.
func (cpu *Cpu) WriteMemory(addr int, value int) (err error) {
	if addr < 0 || addr >= STACK_START {
		err = errors.Join(ErrOutOfBoundsAddress, ErrAddress(addr))
		return
	}

	cpu.Memory[addr] = int16(clamp(value))
	return
}

func (cpu *Cpu) StringAt(addr int) string {
	return cpu.Program.StringAt(addr)
}

func (cpu *Cpu) Console() Console {
	if cpu.console == nil {
		return nullConsole{}
	}
	return cpu.console
}

// Random returns a value in [0, LIT_MAX].
func (cpu *Cpu) Random() int {
	if cpu.rand == nil {
		cpu.rand = rand.New(rand.NewSource(cpu.Seed))
	}
	return cpu.rand.Intn(LIT_MAX + 1)
}

func (cpu *Cpu) Warn(format string, args ...any) {
	log.Printf("warning: ip %d: %v", cpu.Pc, f(format, args...))
}

func (cpu *Cpu) Halt() {
	cpu.Halted = true
}

// Snapshot is a copy of the machine registers.
type Snapshot struct {
	Register  [GENERAL_REGISTERS]int16
	Sp        int
	Pc        int
	Cmp       [2]int16
	CallDepth int
	Halted    bool
	Ticks     int
}

// Snapshot returns the current register state.
func (cpu *Cpu) Snapshot() Snapshot {
	return Snapshot{
		Register:  cpu.Register,
		Sp:        cpu.Sp,
		Pc:        cpu.Pc,
		Cmp:       cpu.Cmp,
		CallDepth: cpu.Calls.Len(),
		Halted:    cpu.Halted,
		Ticks:     cpu.Ticks,
	}
}

// String returns the current CPU state as a string.
func (snap Snapshot) String() (text string) {
	for reg := REG_RA; reg <= REG_RH; reg++ {
		text += fmt.Sprintf("% 5s: %d\n", reg, snap.Register[reg])
	}
	text += fmt.Sprintf("% 5s: %d\n", REG_RSP, snap.Sp)
	text += fmt.Sprintf("% 5s: %d\n", REG_RIP, snap.Pc)
	text += fmt.Sprintf("% 5s: %d\n", REG_CMP0, snap.Cmp[0])
	text += fmt.Sprintf("% 5s: %d\n", REG_CMP1, snap.Cmp[1])
	return
}

// nullConsole discards output, and has no input.
type nullConsole struct{}

func (nullConsole) Write(p []byte) (int, error) { return len(p), nil }
func (nullConsole) ReadInt() (int, error)       { return 0, io.EOF }
func (nullConsole) ReadLine() (string, error)   { return "", io.EOF }
