// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"fmt"
	"io"
	"log"
	"maps"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/Santi-I-Guess/final-project/internal"
)

// Assembler is a two pass assembler for PAL source.
type Assembler struct {
	Verbose bool // If set, verbosely logs the assembler actions.

	Label   map[string]int // Map of labels to code addresses, before the entry offset.
	Strings []int          // Image address of each string literal, in occurrence order.
	Offset  int            // Entry offset added to every label address.

	predefine map[string]string // Predefines, for $() expressions.
}

// Predefine defines a constant for $() expressions, or redefines it.
func (asm *Assembler) Predefine(name string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{name: value}
	} else {
		asm.predefine[name] = value
	}
}

// Parse tokenizes and assembles PAL source.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	tokens, err := Tokenize(input)
	if err != nil {
		return
	}

	return asm.Assemble(tokens)
}

// Assemble encodes a token stream into a program image.
// No image is returned if any instruction is invalid.
func (asm *Assembler) Assemble(tokens []Token) (prog *Program, err error) {
	code := asm.resolveLabels(tokens)

	data := asm.buildStrings(code)

	if _, ok := asm.Label["main"]; !ok {
		err = ErrSyntax{Token: "main", Err: ErrMissingMain}
		return
	}

	var opcodes []Opcode
	seenExit := false
	strIndex := 0
	for n := 0; n < len(code); {
		var op Opcode
		op, err = asm.encode(code[n:], &strIndex)
		if err != nil {
			return
		}
		op.Ip = n + asm.Offset
		if Mnemonic(op.Codes[0]) == OP_EXIT {
			seenExit = true
		}
		if asm.Verbose {
			log.Printf("%v: %04d %v", op.LineNo, op.Ip, op)
		}
		opcodes = append(opcodes, op)
		n += len(op.Codes)
	}

	if !seenExit {
		err = ErrSyntax{Token: OP_EXIT.String(), Err: ErrMissingExit}
		return
	}

	words := make([]uint16, 0, asm.Offset+len(code))
	words = append(words, Magic[:]...)
	words = append(words, uint16(asm.Label["main"]+asm.Offset))
	if len(data) == 0 {
		words = append(words, 0)
	} else {
		words = append(words, data...)
	}
	words = append(words, SENTINEL)
	for _, op := range opcodes {
		words = append(words, op.Codes...)
	}

	prog = &Program{
		Words:   words,
		Opcodes: opcodes,
	}

	return
}

// resolveLabels records every label definition and returns the token
// stream without them. A label addresses the next non-label token.
func (asm *Assembler) resolveLabels(tokens []Token) (code []Token) {
	asm.Label = make(map[string]int, 16)

	code = make([]Token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Kind != TOKEN_LABEL_DEF {
			code = append(code, tok)
			continue
		}

		label := strings.TrimSuffix(tok.Text, ":")
		if prior, ok := asm.Label[label]; ok {
			log.Printf("line %d: label %v redefined, was at %d", tok.LineNo, label, prior)
		}
		asm.Label[label] = len(code)
	}

	return
}

// Unescape returns the text of a string token, without quotes.
// Only \n and \" are escapes.
func Unescape(text string) string {
	text = strings.TrimPrefix(text, `"`)
	text = strings.TrimSuffix(text, `"`)

	var sb strings.Builder
	for n := 0; n < len(text); n++ {
		c := text[n]
		if c == '\\' && n+1 < len(text) {
			switch text[n+1] {
			case 'n':
				sb.WriteByte('\n')
				n++
				continue
			case '"':
				sb.WriteByte('"')
				n++
				continue
			}
		}
		sb.WriteByte(c)
	}

	return sb.String()
}

// PackString packs text two characters per word, earlier character in
// the low byte, followed by a zero terminator word.
func PackString(text string) (words []uint16) {
	data := []byte(text)
	if len(data)%2 != 0 {
		data = append(data, 0)
	}
	for n := 0; n < len(data); n += 2 {
		words = append(words, uint16(data[n])|uint16(data[n+1])<<8)
	}
	words = append(words, 0)
	return
}

// buildStrings packs every string literal of the stream, records each
// one's address, and computes the entry offset.
func (asm *Assembler) buildStrings(code []Token) (data []uint16) {
	asm.Strings = nil
	for _, tok := range code {
		if tok.Kind != TOKEN_STRING {
			continue
		}
		asm.Strings = append(asm.Strings, ENTRY_INDEX+1+len(data))
		data = append(data, PackString(Unescape(tok.Text))...)
	}

	asm.Offset = ENTRY_INDEX + 1 + len(data) + 1
	if len(data) == 0 {
		asm.Offset++
	}

	return
}

// encode validates and encodes the instruction at the head of code.
func (asm *Assembler) encode(code []Token, strIndex *int) (op Opcode, err error) {
	head := code[0]
	op.LineNo = head.LineNo

	if head.Kind != TOKEN_MNEMONIC {
		err = ErrSyntax{LineNo: head.LineNo, Token: head.Text, Err: ErrExpectedMnemonic}
		return
	}

	desc, err := LookupName(head.Text)
	if err != nil {
		err = ErrSyntax{LineNo: head.LineNo, Token: head.Text, Err: err}
		return
	}

	if len(code) < desc.Length {
		err = ErrSyntax{LineNo: head.LineNo, Token: head.Text, Err: ErrMissingArguments}
		return
	}

	op.Words = []string{head.Text}
	op.Codes = []uint16{uint16(desc.Opcode)}
	for slot := 1; slot < desc.Length; slot++ {
		tok := code[slot]
		if tok.Kind == TOKEN_MNEMONIC {
			err = ErrSyntax{LineNo: head.LineNo, Token: tok.Text, Err: ErrMissingArguments}
			return
		}

		var word uint16
		word, err = asm.operand(desc.Kinds[slot], tok, strIndex)
		if err != nil {
			err = ErrSyntax{LineNo: head.LineNo, Token: tok.Text, Err: err}
			return
		}
		op.Words = append(op.Words, tok.Text)
		op.Codes = append(op.Codes, word)
	}

	return
}

// operand encodes one operand token of the expected kind.
func (asm *Assembler) operand(kind OperandKind, tok Token, strIndex *int) (word uint16, err error) {
	switch kind {
	case KIND_LABEL:
		addr, ok := asm.Label[tok.Text]
		if tok.Kind != TOKEN_LABEL_REF || !ok {
			err = ErrUnknownLabel
			return
		}
		word = uint16(addr + asm.Offset)
		return
	case KIND_STRING:
		if tok.Kind != TOKEN_STRING || *strIndex >= len(asm.Strings) {
			err = ErrInvalidAtom
			return
		}
		// 0xff 0xff would pack to the sentinel word.
		if strings.IndexByte(tok.Text, 0xff) >= 0 || asm.Strings[*strIndex] > int(PAYLOAD_MASK) {
			err = ErrInvalidAtom
			return
		}
		word = StringPointer(asm.Strings[*strIndex]).Encode()
		*strIndex++
		return
	case KIND_REGISTER:
		reg, ok := LookupRegister(tok.Text)
		if tok.Kind != TOKEN_REGISTER || !ok ||
			!(reg.Writable() || reg == REG_RSP || reg == REG_RZ) {
			err = ErrInvalidAtom
			return
		}
		word = RegisterOperand(reg).Encode()
		return
	case KIND_SOURCE, KIND_LITERAL, KIND_STACK, KIND_RAM:
		var op Operand
		op, err = asm.source(tok)
		if err != nil {
			return
		}
		if kind != KIND_SOURCE && kindOf(op.Mode) != kind {
			err = ErrInvalidAtom
			return
		}
		word = op.Encode()
		return
	}

	err = ErrInvalidAtom
	return
}

func kindOf(mode OperandMode) OperandKind {
	switch mode {
	case MODE_LITERAL:
		return KIND_LITERAL
	case MODE_STACK:
		return KIND_STACK
	case MODE_RAM:
		return KIND_RAM
	case MODE_STRING:
		return KIND_STRING
	}
	return KIND_REGISTER
}

// source decodes a literal, register, stack offset or RAM address token.
func (asm *Assembler) source(tok Token) (op Operand, err error) {
	var value int
	switch tok.Kind {
	case TOKEN_INTEGER:
		value, err = asm.valueOf(tok.Text[1:])
		if err != nil || value < LIT_MIN || value > LIT_MAX {
			err = errors.Join(ErrInvalidAtom, err)
			return
		}
		op = Literal(value)
	case TOKEN_STACK:
		value, err = asm.valueOf(tok.Text[1:])
		if err != nil || value < 0 || value >= STACK_SIZE {
			err = errors.Join(ErrInvalidAtom, err)
			return
		}
		op = StackOffset(value)
	case TOKEN_RAM:
		text := tok.Text
		if !strings.HasPrefix(text, "[$") || !strings.HasSuffix(text, "]") {
			err = ErrInvalidAtom
			return
		}
		value, err = asm.valueOf(text[2 : len(text)-1])
		if err != nil || value < 0 || value >= STACK_START {
			err = errors.Join(ErrInvalidAtom, err)
			return
		}
		op = RamAddress(value)
	case TOKEN_REGISTER:
		reg, ok := LookupRegister(tok.Text)
		if !ok {
			err = ErrInvalidAtom
			return
		}
		op = RegisterOperand(reg)
	default:
		err = ErrInvalidAtom
	}

	return
}

// valueOf returns the value of a number, or of a $() expression body.
func (asm *Assembler) valueOf(word string) (value int, err error) {
	if strings.HasPrefix(word, "(") && strings.HasSuffix(word, ")") {
		return asm.parenEval(word[1 : len(word)-1])
	}

	v64, err := strconv.ParseInt(word, 0, 32)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	value = int(v64)
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range internal.IterSeq2Concat(Defines(), maps.All(asm.predefine)) {
		v64, perr := strconv.ParseInt(str, 0, 64)
		if perr != nil {
			// Ignore non-integer defines.
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = errors.Join(ErrParseExpression(expr), err)
		return
	}
	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = int(st_int64)
	return
}

// String returns a summary of the label and string tables.
func (asm *Assembler) String() string {
	return fmt.Sprintf("labels %d strings %d offset %d", len(asm.Label), len(asm.Strings), asm.Offset)
}
