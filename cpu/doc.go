// Package cpu implements the PAL instruction set: the instruction catalog,
// the assembler and peephole optimizer, and the register machine that
// executes assembled program images.
//
// A program image is a sequence of 16-bit words. It starts with four magic
// words and the entry address, followed by the packed string data, a 0xffff
// sentinel, and the code region. Every operand word carries a tag selecting
// a literal, a value stack offset, a RAM address, a string pointer, or a
// register.
//
// The machine has eight general-purpose registers (RA-RH), a value stack
// living at the top of RAM, a separate call stack of return addresses, and
// two comparison registers written by CMP and read by the conditional jumps.
// Arithmetic saturates to the 15 bit literal range.
//
// The assembler reads the PAL assembly language: one instruction per line,
// ';' comments, 'label:' definitions, and '$(expr)' compile-time expressions.
package cpu
