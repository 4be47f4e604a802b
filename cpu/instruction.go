package cpu

import (
	"errors"
	"fmt"
	"io"
)

// handler executes one instruction against the machine state.
type handler func(m Machine) error

// handlers is indexed by opcode.
var handlers = [OP_EXIT + 1]handler{
	OP_NOP:    func(m Machine) error { return nil },
	OP_MOV:    doMov,
	OP_INC:    doStep(+1),
	OP_DEC:    doStep(-1),
	OP_ADD:    doAlu(func(m Machine, a, b int) int { return a + b }),
	OP_SUB:    doAlu(func(m Machine, a, b int) int { return a - b }),
	OP_MUL:    doAlu(func(m Machine, a, b int) int { return a * b }),
	OP_DIV:    doAlu(aluDiv),
	OP_MOD:    doAlu(aluMod),
	OP_AND:    doAlu(func(m Machine, a, b int) int { return a & b }),
	OP_OR:     doAlu(func(m Machine, a, b int) int { return a | b }),
	OP_NOT:    doNot,
	OP_XOR:    doAlu(func(m Machine, a, b int) int { return a ^ b }),
	OP_LSH:    doAlu(aluLsh),
	OP_RSH:    doAlu(aluRsh),
	OP_CMP:    doCmp,
	OP_JMP:    doJump(func(a, b int) bool { return true }),
	OP_JEQ:    doJump(func(a, b int) bool { return a == b }),
	OP_JNE:    doJump(func(a, b int) bool { return a != b }),
	OP_JGE:    doJump(func(a, b int) bool { return a >= b }),
	OP_JGR:    doJump(func(a, b int) bool { return a > b }),
	OP_JLE:    doJump(func(a, b int) bool { return a <= b }),
	OP_JLS:    doJump(func(a, b int) bool { return a < b }),
	OP_CALL:   doCall,
	OP_RET:    func(m Machine) error { return m.Return() },
	OP_PUSH:   doPush,
	OP_POP:    doPop,
	OP_WRITE:  doWrite,
	OP_READ:   doRead,
	OP_PRINT:  doPrint,
	OP_SPRINT: doSprint,
	OP_CPRINT: doCprint,
	OP_INPUT:  doInput,
	OP_SINPUT: doSinput,
	OP_RAND:   func(m Machine) error { return m.Push(m.Random()) },
	OP_EXIT:   func(m Machine) error { m.Halt(); return nil },
}

// load dereferences the operands in slots.
func load(m Machine, slots ...int) (values []int, err error) {
	values = make([]int, len(slots))
	for n, slot := range slots {
		values[n], err = m.Load(m.Operand(slot))
		if err != nil {
			return
		}
	}
	return
}

func doMov(m Machine) error {
	value, err := m.Load(m.Operand(2))
	if err != nil {
		return err
	}
	return m.Store(m.Operand(1), value)
}

// doStep increments or decrements a register, wrapping at the literal range.
func doStep(delta int) handler {
	return func(m Machine) error {
		value, err := m.Load(m.Operand(1))
		if err != nil {
			return err
		}
		value += delta
		switch {
		case value > LIT_MAX:
			value = LIT_MIN
		case value < LIT_MIN:
			value = LIT_MAX
		}
		return m.Store(m.Operand(1), value)
	}
}

// doAlu stores op(src1, src2) to the destination, clamped.
func doAlu(op func(m Machine, a, b int) int) handler {
	return func(m Machine) error {
		values, err := load(m, 2, 3)
		if err != nil {
			return err
		}
		return m.Store(m.Operand(1), clamp(op(m, values[0], values[1])))
	}
}

func aluDiv(m Machine, a, b int) int {
	if b == 0 {
		m.Warn("division by zero, result is 0")
		return 0
	}
	return a / b
}

func aluMod(m Machine, a, b int) int {
	if b == 0 {
		m.Warn("modulo by zero, result is 0")
		return 0
	}
	return a % b
}

func aluLsh(m Machine, a, b int) int {
	if b < 0 {
		m.Warn("negative shift %d, shifting by 0", b)
		b = 0
	}
	return a << min(b, SHIFT_MAX)
}

func aluRsh(m Machine, a, b int) int {
	if b < 0 {
		m.Warn("negative shift %d, shifting by 0", b)
		b = 0
	}
	return a >> b
}

func doNot(m Machine) error {
	value, err := m.Load(m.Operand(2))
	if err != nil {
		return err
	}
	return m.Store(m.Operand(1), clamp(^value))
}

func doCmp(m Machine) error {
	values, err := load(m, 1, 2)
	if err != nil {
		return err
	}
	m.Compare(values[0], values[1])
	return nil
}

// doJump jumps to the label operand if cond(CMP0, CMP1) holds.
func doJump(cond func(a, b int) bool) handler {
	return func(m Machine) error {
		if cond(m.Flags()) {
			m.Jump(int(m.Operand(1)))
		}
		return nil
	}
}

func doCall(m Machine) error {
	return m.Call(int(m.Operand(1)))
}

func doPush(m Machine) error {
	value, err := m.Load(m.Operand(1))
	if err != nil {
		return err
	}
	return m.Push(value)
}

func doPop(m Machine) error {
	dest := m.Operand(1)
	if reg, ok := DecodeOperand(dest).Register(); !ok || !reg.Writable() {
		return errors.Join(ErrImmutableMutation, ErrWord(dest))
	}
	value, err := m.Pop()
	if err != nil {
		return err
	}
	return m.Store(dest, value)
}

// doWrite stores the first operand at the RAM address of the second.
func doWrite(m Machine) error {
	values, err := load(m, 1, 2)
	if err != nil {
		return err
	}
	return m.WriteMemory(values[1], values[0])
}

func doRead(m Machine) error {
	addr, err := m.Load(m.Operand(2))
	if err != nil {
		return err
	}
	value, err := m.ReadMemory(addr)
	if err != nil {
		return err
	}
	return m.Store(m.Operand(1), value)
}

func doPrint(m Machine) error {
	value, err := m.Load(m.Operand(1))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(m.Console(), "%d", value)
	return err
}

func doSprint(m Machine) error {
	addr, err := m.Load(m.Operand(1))
	if err != nil {
		return err
	}
	_, err = io.WriteString(m.Console(), m.StringAt(addr))
	return err
}

func doCprint(m Machine) error {
	value, err := m.Load(m.Operand(1))
	if err != nil {
		return err
	}
	if value < 0 || value > 127 {
		return errors.Join(ErrAsciiRange, ErrValue(value))
	}
	_, err = m.Console().Write([]byte{byte(value)})
	return err
}

func doInput(m Machine) error {
	value, err := m.Console().ReadInt()
	if err != nil {
		return errors.Join(ErrInput, err)
	}
	return m.Push(value)
}

// doSinput pushes each character of a line, then the character count.
func doSinput(m Machine) error {
	line, err := m.Console().ReadLine()
	if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
		return errors.Join(ErrInput, err)
	}
	for _, c := range []byte(line) {
		if c > 127 {
			return errors.Join(ErrAsciiRange, ErrValue(c))
		}
		err = m.Push(int(c))
		if err != nil {
			return err
		}
	}
	return m.Push(len(line))
}
