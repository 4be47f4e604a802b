package io

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"
)

// Rom is a program image as stored in a file: 16 bit little-endian words.
type Rom struct {
	Data []uint16
}

// ReadFrom replaces the image with the words read from r.
func (rc *Rom) ReadFrom(r io.Reader) (n int64, err error) {
	buf, err := io.ReadAll(r)
	n = int64(len(buf))
	if err != nil {
		err = errors.Wrap(err, "ReadFrom")
		return
	}

	switch {
	case len(buf) == 0:
		err = ErrRomEmpty
		return
	case len(buf)%2 != 0:
		err = errors.Wrapf(ErrRomOddSize, "ReadFrom %d bytes", len(buf))
		return
	}

	rc.Data = make([]uint16, len(buf)/2)
	err = binary.Read(bytes.NewReader(buf), binary.LittleEndian, rc.Data)
	if err != nil {
		err = errors.Wrap(err, "ReadFrom")
	}
	return
}

// WriteTo writes the image words to w.
func (rc *Rom) WriteTo(w io.Writer) (n int64, err error) {
	buf := make([]byte, 2*len(rc.Data))
	for i, word := range rc.Data {
		binary.LittleEndian.PutUint16(buf[2*i:], word)
	}

	written, err := w.Write(buf)
	n = int64(written)
	if err != nil {
		err = errors.Wrap(err, "WriteTo")
	}
	return
}

// LoadRom reads an image file.
func LoadRom(fileName string) (rc *Rom, err error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "Load")
	}
	defer f.Close()

	rc = &Rom{}
	_, err = rc.ReadFrom(f)
	if err != nil {
		return nil, errors.Wrapf(err, "Load %v", fileName)
	}
	return
}

// Save writes the image to a file.
func (rc *Rom) Save(fileName string) (err error) {
	f, err := os.Create(fileName)
	if err != nil {
		return errors.Wrap(err, "Save")
	}

	_, err = rc.WriteTo(f)
	if err != nil {
		f.Close()
		return errors.Wrapf(err, "Save %v", fileName)
	}

	return errors.Wrap(f.Close(), "Save")
}
