package cpu

import (
	"errors"
	"log"
	"math/bits"
	"strings"
)

// Optimizer is a peephole optimizer over assembled program images.
//
// Each instruction of the code region is matched against the null
// sequence, constant folding, and strength reduction rules, in that order.
// As instructions shrink or vanish, the entry address and every label
// operand are moved to the new location of their target.
type Optimizer struct {
	Verbose bool // If set, logs every instruction visited.
}

var (
	literalZero = Literal(0).Encode()
	literalOne  = Literal(1).Encode()
)

// rewrite is one instruction after optimization. A nil Codes removes it.
type rewrite struct {
	Ip    int
	Codes []uint16
	Rule  string
}

// Optimize returns an optimized copy of prog.
func (opt *Optimizer) Optimize(prog *Program) (out *Program, err error) {
	start := prog.CodeStart()
	if start < 0 {
		err = errors.Join(ErrProgramCounterRange, ErrAddress(prog.Size()))
		return
	}

	var rewrites []rewrite
	relocate := map[int]int{}
	next := start
	for ip, codes := range prog.Instructions() {
		var desc Descriptor
		desc, err = LookupOpcode(codes[0])
		if err != nil {
			err = errors.Join(ErrInstruction{Ip: ip}, err)
			return
		}
		if len(codes) < desc.Length {
			err = errors.Join(ErrInstruction{Ip: ip, Opcode: desc.Opcode}, ErrProgramCounterRange)
			return
		}

		relocate[ip] = next
		rw := opt.rewrite(ip, desc, codes)
		if len(rw.Rule) != 0 {
			log.Printf("optimize: %04d %v: %v => %v", ip, rw.Rule, Opcode{Codes: codes}, Opcode{Codes: rw.Codes})
		} else if opt.Verbose {
			log.Printf("optimize: %04d %v", ip, Opcode{Codes: codes})
		}
		rewrites = append(rewrites, rw)
		next += len(rw.Codes)
	}
	relocate[prog.Size()] = next

	move := func(addr uint16) uint16 {
		moved, ok := relocate[int(addr)]
		if !ok {
			log.Printf("optimize: %d is not an instruction, left unchanged", addr)
			return addr
		}
		return uint16(moved)
	}

	words := make([]uint16, start, next)
	copy(words, prog.Words[:start])
	words[ENTRY_INDEX] = move(prog.Words[ENTRY_INDEX])
	for n, rw := range rewrites {
		if len(rw.Codes) == 0 {
			continue
		}
		desc := catalog[rw.Codes[0]]
		for slot, kind := range desc.Kinds {
			if kind == KIND_LABEL {
				rw.Codes[slot] = move(rw.Codes[slot])
			}
		}
		rewrites[n] = rw
		words = append(words, rw.Codes...)
	}

	out = &Program{Words: words}

	listing := map[int]Opcode{}
	for _, op := range prog.Opcodes {
		listing[op.Ip] = op
	}
	for _, rw := range rewrites {
		if len(rw.Codes) == 0 {
			continue
		}
		op, ok := listing[rw.Ip]
		if !ok {
			continue
		}
		op.Ip = relocate[rw.Ip]
		op.Codes = rw.Codes
		if len(rw.Rule) != 0 {
			op.Words = strings.Fields(op.String())
		}
		out.Opcodes = append(out.Opcodes, op)
	}

	return
}

// rewrite applies the first matching rule to one instruction.
func (opt *Optimizer) rewrite(ip int, desc Descriptor, codes []uint16) (rw rewrite) {
	rw = rewrite{Ip: ip, Codes: append([]uint16(nil), codes[:desc.Length]...)}

	rules := []struct {
		name  string
		apply func(desc Descriptor, codes []uint16) (out []uint16, ok bool)
	}{
		{"null sequence", nullSequence},
		{"constant fold", constantFold},
		{"strength reduction", strengthReduce},
	}
	for _, rule := range rules {
		out, ok := rule.apply(desc, rw.Codes)
		if ok {
			rw.Codes = out
			rw.Rule = rule.name
			return
		}
	}

	return
}

// writable returns true if word is a writable register operand.
func writable(word uint16) bool {
	reg, ok := DecodeOperand(word).Register()
	return ok && reg.Writable()
}

// literal returns the value of a literal operand.
func literal(word uint16) (value int, ok bool) {
	op := DecodeOperand(word)
	if op.Mode != MODE_LITERAL {
		return
	}
	return op.Value, true
}

// nullSequence removes instructions without effect.
func nullSequence(desc Descriptor, codes []uint16) (out []uint16, ok bool) {
	if desc.Opcode == OP_NOP {
		return nil, true
	}

	if desc.Length < 3 || !writable(codes[1]) {
		return
	}

	dest := codes[1]
	src := codes[2:]
	switch desc.Opcode {
	case OP_MOV:
		ok = src[0] == dest
	case OP_ADD:
		ok = (src[0] == dest && src[1] == literalZero) || (src[0] == literalZero && src[1] == dest)
	case OP_SUB:
		ok = src[0] == dest && src[1] == literalZero
	case OP_MUL:
		ok = (src[0] == dest && src[1] == literalOne) || (src[0] == literalOne && src[1] == dest)
	case OP_DIV:
		ok = src[0] == dest && src[1] == literalOne
	case OP_AND, OP_OR:
		ok = src[0] == dest && src[1] == dest
	}

	return
}

// constantFold computes operations on two literals.
func constantFold(desc Descriptor, codes []uint16) (out []uint16, ok bool) {
	if desc.Length != 4 {
		return
	}

	a, ok_a := literal(codes[2])
	b, ok_b := literal(codes[3])
	if !ok_a || !ok_b {
		return
	}

	var value int
	switch desc.Opcode {
	case OP_ADD:
		value = a + b
	case OP_SUB:
		value = a - b
	case OP_MUL:
		value = a * b
	case OP_DIV:
		if b != 0 {
			value = a / b
		}
	case OP_MOD:
		if b != 0 {
			value = a % b
		}
	case OP_AND:
		value = a & b
	case OP_OR:
		value = a | b
	case OP_XOR:
		value = a ^ b
	case OP_LSH:
		value = a << min(max(b, 0), SHIFT_MAX)
	case OP_RSH:
		value = a >> max(b, 0)
	default:
		return
	}

	value = min(max(value, FOLD_MIN), FOLD_MAX)
	return []uint16{uint16(OP_MOV), codes[1], Literal(value).Encode()}, true
}

// log2 returns n if value is 2**n, n > 0.
func log2(value int) (n int, ok bool) {
	if value < 2 || value&(value-1) != 0 {
		return
	}
	return bits.TrailingZeros(uint(value)), true
}

// strengthReduce replaces multiplication and division by shifts.
func strengthReduce(desc Descriptor, codes []uint16) (out []uint16, ok bool) {
	if desc.Length != 4 {
		return
	}

	dest, a, b := codes[1], codes[2], codes[3]
	_, a_lit := literal(a)
	shift := func(op Mnemonic, src uint16, n int) []uint16 {
		return []uint16{uint16(op), dest, src, Literal(n).Encode()}
	}

	switch desc.Opcode {
	case OP_ADD:
		if a == b && !a_lit {
			return shift(OP_LSH, a, 1), true
		}
	case OP_MUL:
		if value, lit := literal(b); lit {
			if n, pow := log2(value); pow {
				return shift(OP_LSH, a, n), true
			}
		}
		if value, lit := literal(a); lit {
			if n, pow := log2(value); pow {
				return shift(OP_LSH, b, n), true
			}
		}
	case OP_DIV:
		if value, lit := literal(b); lit {
			if n, pow := log2(value); pow {
				return shift(OP_RSH, a, n), true
			}
		}
	}

	return
}
