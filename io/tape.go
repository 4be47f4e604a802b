package io

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// Tape is the console of the PAL machine: a character input stream,
// and a character output stream.
type Tape struct {
	Input  io.Reader
	Output io.Writer

	reader *bufio.Reader
	source io.Reader
}

// buffered returns the buffered input, following changes to Input.
func (tc *Tape) buffered() *bufio.Reader {
	if tc.reader == nil || tc.source != tc.Input {
		tc.source = tc.Input
		if tc.Input == nil {
			tc.reader = bufio.NewReader(strings.NewReader(""))
		} else {
			tc.reader = bufio.NewReader(tc.Input)
		}
	}
	return tc.reader
}

// Write writes to the output stream. Without one, output is discarded.
func (tc *Tape) Write(p []byte) (n int, err error) {
	if tc.Output == nil {
		return len(p), nil
	}
	return tc.Output.Write(p)
}

// ReadInt reads one whitespace delimited decimal integer.
func (tc *Tape) ReadInt() (value int, err error) {
	in := tc.buffered()

	var word []rune
	for {
		var r rune
		r, _, err = in.ReadRune()
		if err != nil {
			if err == io.EOF && len(word) > 0 {
				err = nil
				break
			}
			return
		}
		if unicode.IsSpace(r) {
			if len(word) == 0 {
				continue
			}
			break
		}
		word = append(word, r)
	}

	value, err = strconv.Atoi(string(word))
	if err != nil {
		err = ErrNotNumber(string(word))
	}
	return
}

// ReadLine reads one line, without its line ending. A final line without
// a line ending is returned with io.EOF.
func (tc *Tape) ReadLine() (line string, err error) {
	line, err = tc.buffered().ReadString('\n')
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return
}
