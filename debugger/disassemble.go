package debugger

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Santi-I-Guess/final-project/cpu"
)

// Image is the read-only view of a loaded program.
type Image interface {
	GetWord(index int) uint16
	ProgramSize() int
}

// Program copies an image into a program, without a listing.
func Program(img Image) *cpu.Program {
	words := make([]uint16, img.ProgramSize())
	for n := range words {
		words[n] = img.GetWord(n)
	}
	return &cpu.Program{Words: words}
}

// stringsOf returns the address and text of every packed string.
func stringsOf(prog *cpu.Program) (addrs []int, texts []string) {
	end := prog.Sentinel()
	for addr := cpu.ENTRY_INDEX + 1; addr < end; {
		if prog.Words[addr] == 0 {
			addr++
			continue
		}
		text := prog.StringAt(addr)
		addrs = append(addrs, addr)
		texts = append(texts, text)
		addr += (len(text)+1)/2 + 1
	}
	return
}

// Disassemble writes the image as a table: the entry address, one row per
// string, and one row per instruction. The instruction at mark, if any, is
// flagged.
func Disassemble(w io.Writer, img Image, mark int) (err error) {
	prog := Program(img)

	if !prog.CheckMagic() {
		_, err = fmt.Fprintln(w, f("warning: magic number mismatch"))
		if err != nil {
			return
		}
	}

	if prog.CodeStart() < 0 {
		err = cpu.ErrProgramCounterRange
		return
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.SetTitle(f("Main @ %d", prog.Entry()))
	tw.AppendHeader(table.Row{"", f("Address"), f("Data")})

	addrs, texts := stringsOf(prog)
	for n, addr := range addrs {
		tw.AppendRow(table.Row{"", fmt.Sprintf("#%d", addr), strconv.Quote(texts[n])})
	}
	if len(addrs) > 0 {
		tw.AppendSeparator()
	}

	for ip, codes := range prog.Instructions() {
		flag := ""
		if ip == mark {
			flag = "=>"
		}
		tw.AppendRow(table.Row{flag, fmt.Sprintf("#%d", ip), cpu.Opcode{Codes: codes}.String()})
	}

	_, err = fmt.Fprintln(w, tw.Render())
	return
}
