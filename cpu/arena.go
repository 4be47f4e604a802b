package cpu

import (
	"fmt"
	"iter"
	"maps"
)

// Memory layout of the PAL machine, in words.
const (
	RAM_SIZE        = 8192 // RAM and value stack.
	STACK_START     = 6144 // First word of the value stack region.
	STACK_SIZE      = 2048 // Value stack capacity.
	CALL_STACK_SIZE = 2048 // Return address stack capacity.
)

// Literal value range. Every arithmetic result is clamped into it.
const (
	LIT_MIN = -16383
	LIT_MAX = 16383
)

// Shift counts above SHIFT_MAX saturate like SHIFT_MAX: any literal
// shifted that far is already outside the literal range.
const SHIFT_MAX = 15

// Constant folding range used by the optimizer.
const (
	FOLD_MIN = -4096
	FOLD_MAX = 4096
)

// Program image header.
const (
	MAGIC_0     = uint16(0x4153)
	MAGIC_1     = uint16(0x544e)
	MAGIC_2     = uint16(0x4149)
	MAGIC_3     = uint16(0x4f47)
	ENTRY_INDEX = 4      // Image index of the entry address word.
	SENTINEL    = 0xffff // Terminates the string region.
)

// Magic is the expected image header.
var Magic = [4]uint16{MAGIC_0, MAGIC_1, MAGIC_2, MAGIC_3}

var _arena_defines = map[string]string{
	"RAM_SIZE":        fmt.Sprintf("%v", RAM_SIZE),
	"STACK_START":     fmt.Sprintf("%v", STACK_START),
	"STACK_SIZE":      fmt.Sprintf("%v", STACK_SIZE),
	"CALL_STACK_SIZE": fmt.Sprintf("%v", CALL_STACK_SIZE),
	"LIT_MIN":         fmt.Sprintf("%v", LIT_MIN),
	"LIT_MAX":         fmt.Sprintf("%v", LIT_MAX),
}

// Defines returns the memory layout constants, by name.
func Defines() iter.Seq2[string, string] {
	return maps.All(_arena_defines)
}

// clamp limits value to [LIT_MIN, LIT_MAX].
func clamp(value int) int {
	return min(max(value, LIT_MIN), LIT_MAX)
}
