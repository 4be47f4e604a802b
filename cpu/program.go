package cpu

import (
	"iter"
	"slices"
	"strings"
)

// Program is an assembled image, with an optional source listing.
type Program struct {
	Words   []uint16 // Image words, header first.
	Opcodes []Opcode // Source listing of the code region, if known.
}

// Debug locates an image index in the listing.
type Debug struct {
	*Opcode
	Index int
}

// Debug returns the listing entry that encoded the word at ip.
func (prog *Program) Debug(ip int) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if ip >= op.Ip && ip < op.Ip+len(op.Codes) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  ip - op.Ip,
			}
			break
		}
	}

	return
}

// GetWord returns the image word at index, or 0 if out of range.
func (prog *Program) GetWord(index int) uint16 {
	if index < 0 || index >= len(prog.Words) {
		return 0
	}
	return prog.Words[index]
}

// Size returns the image length in words.
func (prog *Program) Size() int {
	return len(prog.Words)
}

// Entry returns the decoded entry address.
func (prog *Program) Entry() int {
	return int(prog.GetWord(ENTRY_INDEX))
}

// CheckMagic returns true if the image header is intact.
func (prog *Program) CheckMagic() bool {
	if len(prog.Words) < len(Magic) {
		return false
	}
	return [4]uint16(prog.Words[:4]) == Magic
}

// Sentinel returns the index of the string region terminator, or -1.
func (prog *Program) Sentinel() int {
	for n := ENTRY_INDEX + 1; n < len(prog.Words); n++ {
		if prog.Words[n] == SENTINEL {
			return n
		}
	}
	return -1
}

// CodeStart returns the index of the first code word, or -1.
func (prog *Program) CodeStart() int {
	sentinel := prog.Sentinel()
	if sentinel < 0 {
		return -1
	}
	return sentinel + 1
}

// StringAt decodes the packed string starting at addr.
func (prog *Program) StringAt(addr int) string {
	var sb strings.Builder
	for n := addr; n < len(prog.Words); n++ {
		word := prog.Words[n]
		if word == 0 {
			break
		}
		sb.WriteByte(byte(word & 0xff))
		if hi := byte(word >> 8); hi != 0 {
			sb.WriteByte(hi)
		}
	}
	return sb.String()
}

// Instructions iterates over the code region, yielding each instruction
// start index and its words. An undecodable word is yielded alone.
func (prog *Program) Instructions() iter.Seq2[int, []uint16] {
	return func(yield func(ip int, codes []uint16) bool) {
		ip := prog.CodeStart()
		if ip < 0 {
			return
		}
		for ip < len(prog.Words) {
			length := 1
			desc, err := LookupOpcode(prog.Words[ip])
			if err == nil {
				length = min(desc.Length, len(prog.Words)-ip)
			}
			if !yield(ip, prog.Words[ip:ip+length]) {
				return
			}
			ip += length
		}
	}
}

// IsInstruction returns true if ip is the start of an instruction.
func (prog *Program) IsInstruction(ip int) bool {
	for start := range prog.Instructions() {
		if start == ip {
			return true
		}
		if start > ip {
			break
		}
	}
	return false
}

// Clone returns a deep copy of the program.
func (prog *Program) Clone() *Program {
	clone := &Program{
		Words:   slices.Clone(prog.Words),
		Opcodes: make([]Opcode, len(prog.Opcodes)),
	}
	for n, op := range prog.Opcodes {
		op.Words = slices.Clone(op.Words)
		op.Codes = slices.Clone(op.Codes)
		clone.Opcodes[n] = op
	}
	return clone
}
