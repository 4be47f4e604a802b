package cpu

import (
	"fmt"
)

// Operand word tags.
const (
	LITERAL_TAG  = uint16(0x8000) // Literal immediate, 15 bit two's complement.
	STACK_TAG    = uint16(0x2000) // Stack offset from the stack top.
	RAM_TAG      = uint16(0x4000) // Absolute RAM address.
	STRING_TAG   = uint16(0x6000) // String region pointer.
	MODE_MASK    = uint16(0x6000) // Mode bits, when LITERAL_TAG is clear.
	PAYLOAD_MASK = uint16(0x1fff) // Payload of a non-literal operand.
	LITERAL_MASK = uint16(0x7fff) // Payload of a literal operand.
)

// Register is a register index.
type Register int

//go:generate go tool stringer -linecomment -type=Register
const (
	REG_RA   = Register(0)  // RA
	REG_RB   = Register(1)  // RB
	REG_RC   = Register(2)  // RC
	REG_RD   = Register(3)  // RD
	REG_RE   = Register(4)  // RE
	REG_RF   = Register(5)  // RF
	REG_RG   = Register(6)  // RG
	REG_RH   = Register(7)  // RH
	REG_RSP  = Register(8)  // RSP
	REG_RIP  = Register(9)  // RIP
	REG_CMP0 = Register(10) // CMP0
	REG_CMP1 = Register(11) // CMP1
	REG_RZ   = Register(12) // RZ
)

// GENERAL_REGISTERS is the count of writable registers.
const GENERAL_REGISTERS = 8

// registerMap maps register names to indexes.
var registerMap = func() map[string]Register {
	regs := make(map[string]Register, REG_RZ+1)
	for reg := REG_RA; reg <= REG_RZ; reg++ {
		regs[reg.String()] = reg
	}
	return regs
}()

// LookupRegister returns the register named name.
func LookupRegister(name string) (reg Register, ok bool) {
	reg, ok = registerMap[name]
	return
}

// Valid returns true if the register exists.
func (reg Register) Valid() bool {
	return reg >= REG_RA && reg <= REG_RZ
}

// Writable returns true if the register may be an instruction destination.
func (reg Register) Writable() bool {
	return reg >= REG_RA && reg <= REG_RH
}

// OperandMode is the interpretation of an operand word.
type OperandMode int

//go:generate go tool stringer -linecomment -type=OperandMode
const (
	MODE_REGISTER = OperandMode(0) // register
	MODE_STACK    = OperandMode(1) // stack
	MODE_RAM      = OperandMode(2) // ram
	MODE_STRING   = OperandMode(3) // string
	MODE_LITERAL  = OperandMode(4) // literal
)

// Operand is a decoded operand word.
type Operand struct {
	Mode  OperandMode
	Value int // Literal value, offset, address, or register index.
}

func Literal(value int) Operand         { return Operand{Mode: MODE_LITERAL, Value: value} }
func StackOffset(offset int) Operand    { return Operand{Mode: MODE_STACK, Value: offset} }
func RamAddress(address int) Operand    { return Operand{Mode: MODE_RAM, Value: address} }
func StringPointer(address int) Operand { return Operand{Mode: MODE_STRING, Value: address} }
func RegisterOperand(reg Register) Operand {
	return Operand{Mode: MODE_REGISTER, Value: int(reg)}
}

// DecodeOperand decodes an operand word.
func DecodeOperand(word uint16) (op Operand) {
	if word&LITERAL_TAG != 0 {
		value := int(word & LITERAL_MASK)
		if value&0x4000 != 0 {
			// Sign extend from 15 bits.
			value -= 0x8000
		}
		op = Literal(value)
		return
	}

	payload := int(word & PAYLOAD_MASK)
	switch word & MODE_MASK {
	case STACK_TAG:
		op = StackOffset(payload)
	case RAM_TAG:
		op = RamAddress(payload)
	case STRING_TAG:
		op = StringPointer(payload)
	default:
		op = RegisterOperand(Register(payload))
	}

	return
}

// Encode returns the operand word.
func (op Operand) Encode() (word uint16) {
	switch op.Mode {
	case MODE_LITERAL:
		word = LITERAL_TAG | (uint16(op.Value) & LITERAL_MASK)
	case MODE_STACK:
		word = STACK_TAG | (uint16(op.Value) & PAYLOAD_MASK)
	case MODE_RAM:
		word = RAM_TAG | (uint16(op.Value) & PAYLOAD_MASK)
	case MODE_STRING:
		word = STRING_TAG | (uint16(op.Value) & PAYLOAD_MASK)
	default:
		word = uint16(op.Value) & PAYLOAD_MASK
	}

	return
}

// Register returns the register of a register operand.
func (op Operand) Register() (reg Register, ok bool) {
	if op.Mode != MODE_REGISTER {
		return
	}
	return Register(op.Value), true
}

// String returns the assembly form of the operand.
func (op Operand) String() string {
	switch op.Mode {
	case MODE_LITERAL:
		return fmt.Sprintf("$%d", op.Value)
	case MODE_STACK:
		return fmt.Sprintf("%%%d", op.Value)
	case MODE_RAM:
		return fmt.Sprintf("[$%d]", op.Value)
	case MODE_STRING:
		return fmt.Sprintf("@%d", op.Value)
	}

	return Register(op.Value).String()
}
