package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgram(t *testing.T) {
	assert := assert.New(t)

	prog := parse(t, &Assembler{}, []string{
		"main:",
		`SPRINT "hey"`,
		"CALL sub",
		"EXIT",
		"sub: RET",
	})

	assert.True(prog.CheckMagic())
	assert.Equal(8, prog.Sentinel())
	assert.Equal(9, prog.CodeStart())
	assert.Equal(9, prog.Entry())
	assert.Equal(15, prog.Size())
	assert.Equal("hey", prog.StringAt(5))

	assert.Equal(uint16(0), prog.GetWord(-1))
	assert.Equal(uint16(0), prog.GetWord(prog.Size()))
	assert.Equal(uint16(OP_RET), prog.GetWord(prog.Size()-1))

	var starts []int
	for ip, codes := range prog.Instructions() {
		starts = append(starts, ip)
		desc, err := LookupOpcode(codes[0])
		assert.NoError(err)
		assert.Equal(desc.Length, len(codes))
	}
	assert.Equal([]int{9, 11, 13, 14}, starts)

	for ip := range prog.Size() {
		expected := ip == 9 || ip == 11 || ip == 13 || ip == 14
		assert.Equal(expected, prog.IsInstruction(ip), "%d", ip)
	}

	dbg := prog.Debug(12)
	if assert.NotNil(dbg.Opcode) {
		assert.Equal(3, dbg.LineNo)
		assert.Equal(11, dbg.Ip)
		assert.Equal(1, dbg.Index)
	}
	assert.Nil(prog.Debug(3).Opcode)
}

func TestProgramMalformed(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{}
	assert.False(prog.CheckMagic())
	assert.Equal(-1, prog.Sentinel())
	assert.Equal(-1, prog.CodeStart())
	assert.Equal(0, prog.Entry())

	for range prog.Instructions() {
		t.Fatal("empty program has no instructions")
	}

	// Undecodable words are yielded alone, and truncated instructions
	// are clipped to the image.
	prog = &Program{Words: []uint16{
		MAGIC_0, MAGIC_1, MAGIC_2, MAGIC_3, 7, 0, SENTINEL,
		0x1234, uint16(OP_ADD), 0,
	}}
	var lengths []int
	for _, codes := range prog.Instructions() {
		lengths = append(lengths, len(codes))
	}
	assert.Equal([]int{1, 2}, lengths)
}

func TestProgramClone(t *testing.T) {
	assert := assert.New(t)

	prog := parse(t, &Assembler{}, []string{"main: MOV RA $1", "EXIT"})
	clone := prog.Clone()
	assert.Equal(prog, clone)

	clone.Words[ENTRY_INDEX] = 0
	clone.Opcodes[0].Codes[0] = uint16(OP_NOP)
	clone.Opcodes[0].Words[0] = "NOP"

	assert.Equal(uint16(7), prog.Words[ENTRY_INDEX])
	assert.Equal(uint16(OP_MOV), prog.Opcodes[0].Codes[0])
	assert.Equal("MOV", prog.Opcodes[0].Words[0])
}
