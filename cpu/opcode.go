package cpu

import (
	"errors"
	"fmt"
	"strings"
)

// Mnemonic is an instruction opcode.
type Mnemonic int

//go:generate go tool stringer -linecomment -type=Mnemonic
const (
	OP_NOP    = Mnemonic(0)  // NOP
	OP_MOV    = Mnemonic(1)  // MOV
	OP_INC    = Mnemonic(2)  // INC
	OP_DEC    = Mnemonic(3)  // DEC
	OP_ADD    = Mnemonic(4)  // ADD
	OP_SUB    = Mnemonic(5)  // SUB
	OP_MUL    = Mnemonic(6)  // MUL
	OP_DIV    = Mnemonic(7)  // DIV
	OP_MOD    = Mnemonic(8)  // MOD
	OP_AND    = Mnemonic(9)  // AND
	OP_OR     = Mnemonic(10) // OR
	OP_NOT    = Mnemonic(11) // NOT
	OP_XOR    = Mnemonic(12) // XOR
	OP_LSH    = Mnemonic(13) // LSH
	OP_RSH    = Mnemonic(14) // RSH
	OP_CMP    = Mnemonic(15) // CMP
	OP_JMP    = Mnemonic(16) // JMP
	OP_JEQ    = Mnemonic(17) // JEQ
	OP_JNE    = Mnemonic(18) // JNE
	OP_JGE    = Mnemonic(19) // JGE
	OP_JGR    = Mnemonic(20) // JGR
	OP_JLE    = Mnemonic(21) // JLE
	OP_JLS    = Mnemonic(22) // JLS
	OP_CALL   = Mnemonic(23) // CALL
	OP_RET    = Mnemonic(24) // RET
	OP_PUSH   = Mnemonic(25) // PUSH
	OP_POP    = Mnemonic(26) // POP
	OP_WRITE  = Mnemonic(27) // WRITE
	OP_READ   = Mnemonic(28) // READ
	OP_PRINT  = Mnemonic(29) // PRINT
	OP_SPRINT = Mnemonic(30) // SPRINT
	OP_CPRINT = Mnemonic(31) // CPRINT
	OP_INPUT  = Mnemonic(32) // INPUT
	OP_SINPUT = Mnemonic(33) // SINPUT
	OP_RAND   = Mnemonic(34) // RAND
	OP_EXIT   = Mnemonic(35) // EXIT
)

// OperandKind is the schema of one instruction slot.
type OperandKind int

//go:generate go tool stringer -linecomment -type=OperandKind
const (
	KIND_LABEL    = OperandKind(0) // label
	KIND_LITERAL  = OperandKind(1) // literal
	KIND_STRING   = OperandKind(2) // string
	KIND_MNEMONIC = OperandKind(3) // mnemonic
	KIND_RAM      = OperandKind(4) // ram
	KIND_REGISTER = OperandKind(5) // register
	KIND_SOURCE   = OperandKind(6) // source
	KIND_STACK    = OperandKind(7) // stack
)

// Descriptor describes one instruction of the catalog.
type Descriptor struct {
	Name   string        // Mnemonic name.
	Opcode Mnemonic      // Numeric opcode.
	Kinds  []OperandKind // Slot kinds; slot 0 is always KIND_MNEMONIC.
	Length int           // Total words, opcode included.
}

func describe(op Mnemonic, kinds ...OperandKind) Descriptor {
	kinds = append([]OperandKind{KIND_MNEMONIC}, kinds...)
	return Descriptor{
		Name:   op.String(),
		Opcode: op,
		Kinds:  kinds,
		Length: len(kinds),
	}
}

// catalog is indexed by opcode, and is never modified.
var catalog = func() [OP_EXIT + 1]Descriptor {
	r, s, l := KIND_REGISTER, KIND_SOURCE, KIND_LABEL

	return [OP_EXIT + 1]Descriptor{
		describe(OP_NOP),
		describe(OP_MOV, r, s),
		describe(OP_INC, r),
		describe(OP_DEC, r),
		describe(OP_ADD, r, s, s),
		describe(OP_SUB, r, s, s),
		describe(OP_MUL, r, s, s),
		describe(OP_DIV, r, s, s),
		describe(OP_MOD, r, s, s),
		describe(OP_AND, r, s, s),
		describe(OP_OR, r, s, s),
		describe(OP_NOT, r, s),
		describe(OP_XOR, r, s, s),
		describe(OP_LSH, r, s, s),
		describe(OP_RSH, r, s, s),
		describe(OP_CMP, s, s),
		describe(OP_JMP, l),
		describe(OP_JEQ, l),
		describe(OP_JNE, l),
		describe(OP_JGE, l),
		describe(OP_JGR, l),
		describe(OP_JLE, l),
		describe(OP_JLS, l),
		describe(OP_CALL, l),
		describe(OP_RET),
		describe(OP_PUSH, s),
		describe(OP_POP, r),
		describe(OP_WRITE, s, s),
		describe(OP_READ, r, s),
		describe(OP_PRINT, s),
		describe(OP_SPRINT, KIND_STRING),
		describe(OP_CPRINT, s),
		describe(OP_INPUT),
		describe(OP_SINPUT),
		describe(OP_RAND),
		describe(OP_EXIT),
	}
}()

var catalogByName = func() map[string]Mnemonic {
	names := make(map[string]Mnemonic, len(catalog))
	for n, desc := range catalog {
		if desc.Opcode != Mnemonic(n) {
			panic(fmt.Sprintf("catalog entry %d is %v", n, desc.Opcode))
		}
		names[desc.Name] = desc.Opcode
	}
	return names
}()

// LookupName returns the descriptor of a mnemonic.
func LookupName(name string) (desc Descriptor, err error) {
	op, ok := catalogByName[name]
	if !ok {
		err = ErrUnknownMnemonic
		return
	}

	desc = catalog[op]
	return
}

// LookupOpcode returns the descriptor of an opcode word.
func LookupOpcode(word uint16) (desc Descriptor, err error) {
	if int(word) >= len(catalog) {
		err = errors.Join(ErrUnknownOpcode, ErrWord(word))
		return
	}

	desc = catalog[word]
	return
}

// Catalog returns a copy of every instruction descriptor, by opcode.
func Catalog() (descs []Descriptor) {
	descs = make([]Descriptor, len(catalog))
	copy(descs, catalog[:])
	return
}

// IsJump returns true for instructions with a code address operand.
func (desc Descriptor) IsJump() bool {
	for _, kind := range desc.Kinds {
		if kind == KIND_LABEL {
			return true
		}
	}
	return false
}

// Opcode is one line of assembled code with its source location.
type Opcode struct {
	LineNo int      // Source line of the mnemonic.
	Ip     int      // Image index of the opcode word.
	Words  []string // Source tokens, mnemonic first.
	Codes  []uint16 // Encoded words, opcode first.
}

// String returns the disassembled instruction.
func (op Opcode) String() string {
	if len(op.Codes) == 0 {
		return ""
	}

	desc, err := LookupOpcode(op.Codes[0])
	if err != nil {
		return fmt.Sprintf(".word %#04x", op.Codes[0])
	}

	parts := []string{desc.Name}
	for n, code := range op.Codes[1:] {
		if n+1 >= len(desc.Kinds) {
			break
		}
		switch desc.Kinds[n+1] {
		case KIND_LABEL:
			parts = append(parts, fmt.Sprintf("#%d", code))
		default:
			parts = append(parts, DecodeOperand(code).String())
		}
	}

	return strings.Join(parts, " ")
}
