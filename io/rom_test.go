package io

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRom_ReadFrom(t *testing.T) {
	assert := assert.New(t)

	rom := &Rom{}
	n, err := rom.ReadFrom(bytes.NewReader([]byte{0x53, 0x41, 0xff, 0xff, 0x01, 0x80}))
	assert.NoError(err)
	assert.Equal(int64(6), n)
	assert.Equal([]uint16{0x4153, 0xffff, 0x8001}, rom.Data)
}

func TestRom_ReadFrom_Bad(t *testing.T) {
	assert := assert.New(t)

	rom := &Rom{}
	_, err := rom.ReadFrom(bytes.NewReader(nil))
	assert.True(errors.Is(err, ErrRomEmpty))

	_, err = rom.ReadFrom(bytes.NewReader([]byte{1, 2, 3}))
	assert.True(errors.Is(err, ErrRomOddSize))
}

func TestRom_WriteTo(t *testing.T) {
	assert := assert.New(t)

	rom := &Rom{Data: []uint16{0x4153, 0x544e, 0xffff}}
	buf := &bytes.Buffer{}
	n, err := rom.WriteTo(buf)
	assert.NoError(err)
	assert.Equal(int64(6), n)
	assert.Equal([]byte{0x53, 0x41, 0x4e, 0x54, 0xff, 0xff}, buf.Bytes())
}

func TestRom_SaveLoad(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "prog.bin")

	rom := &Rom{Data: []uint16{0x4153, 0x544e, 0x4149, 0x4f47, 7, 0, 0xffff, 35}}
	assert.NoError(rom.Save(path))

	loaded, err := LoadRom(path)
	assert.NoError(err)
	assert.Equal(rom.Data, loaded.Data)

	_, err = LoadRom(filepath.Join(t.TempDir(), "missing.bin"))
	assert.Error(err)
}
