package main

import (
	"bytes"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Santi-I-Guess/final-project/config"
	"github.com/Santi-I-Guess/final-project/cpu"
	"github.com/Santi-I-Guess/final-project/debugger"
)

var increment = strings.Join([]string{
	"; reads a number, prints it plus one",
	"main:",
	"  NOP",
	"  INPUT",
	"  POP RA",
	"  ADD RA RA $1",
	"  PRINT RA",
	"  CPRINT $10",
	"  EXIT",
}, "\n")

// source writes a program into a fresh directory.
func source(t *testing.T, name string, text string) (path string) {
	path = filepath.Join(t.TempDir(), name)
	err := os.WriteFile(path, []byte(text), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	return
}

// execute runs one command line.
func execute(stdin string, args ...string) (stdout string, err error) {
	out := &bytes.Buffer{}
	p := newPal(strings.NewReader(stdin), out, out)
	cmd := p.rootCommand()
	cmd.SetArgs(args)
	err = cmd.Execute()
	stdout = out.String()
	return
}

func TestPalRun(t *testing.T) {
	assert := assert.New(t)

	src := source(t, "inc.pal", increment)

	out, err := execute("41\n", "run", src)
	assert.NoError(err)
	assert.Equal("42\n", out)

	input := filepath.Join(filepath.Dir(src), "input.txt")
	assert.NoError(os.WriteFile(input, []byte("  -8 "), 0o644))
	out, err = execute("", "run", "-i", input, src)
	assert.NoError(err)
	assert.Equal("-7\n", out)

	_, err = execute("", "run", src)
	assert.True(errors.Is(err, cpu.ErrInput), "%v", err)
	assert.Contains(err.Error(), src)
}

func TestPalAsm(t *testing.T) {
	assert := assert.New(t)

	src := source(t, "inc.pal", increment)
	dir := filepath.Dir(src)

	_, err := execute("", "asm", src)
	assert.NoError(err)
	bin := filepath.Join(dir, "inc.bin")
	assert.FileExists(bin)

	out, err := execute("9\n", "run", "-b", bin)
	assert.NoError(err)
	assert.Equal("10\n", out)

	small := filepath.Join(dir, "small.bin")
	_, err = execute("", "asm", "-O", "-o", small, src)
	assert.NoError(err)

	full, err := os.Stat(bin)
	assert.NoError(err)
	opt, err := os.Stat(small)
	assert.NoError(err)
	assert.Equal(full.Size()-2, opt.Size())

	_, err = execute("", "run", "-b", src)
	assert.Error(err)
}

func TestPalSaveTemps(t *testing.T) {
	assert := assert.New(t)

	src := source(t, "inc.pal", increment)
	dir := filepath.Dir(src)

	_, err := execute("", "asm", "--save-temps", "-o", filepath.Join(dir, "out.bin"), src)
	assert.NoError(err)

	tokens, err := os.ReadFile(filepath.Join(dir, "inc.tokens.yaml"))
	assert.NoError(err)
	assert.Contains(string(tokens), "kind: label_def")
	assert.Contains(string(tokens), "text: NOP")
	assert.Contains(string(tokens), "line: 3")

	labels, err := os.ReadFile(filepath.Join(dir, "inc.labels.yaml"))
	assert.NoError(err)
	assert.Contains(string(labels), "main: 0")
	assert.Contains(string(labels), "offset: 7")
}

func TestPalConfig(t *testing.T) {
	assert := assert.New(t)

	src := source(t, "inc.pal", increment)
	cfg := filepath.Join(filepath.Dir(src), "pal.yaml")

	assert.NoError(os.WriteFile(cfg, []byte("optimize: true\n"), 0o644))

	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	defer log.SetOutput(os.Stderr)

	out, err := execute("1\n", "run", src)
	assert.NoError(err)
	assert.Equal("2\n", out)
	assert.Contains(buf.String(), "null sequence")

	buf.Reset()
	out, err = execute("1\n", "run", "--optimize=false", src)
	assert.NoError(err)
	assert.Equal("2\n", out)
	assert.NotContains(buf.String(), "null sequence")

	assert.NoError(os.WriteFile(cfg, []byte("color: sometimes\n"), 0o644))
	_, err = execute("1\n", "run", src)
	assert.True(errors.Is(err, config.ErrColor))

	// A bad file is an error even when the flag would override it.
	_, err = execute("1\n", "run", "--color", "never", src)
	assert.True(errors.Is(err, config.ErrColor))

	assert.NoError(os.Remove(cfg))
	_, err = execute("1\n", "run", "--color", "rainbow", src)
	assert.True(errors.Is(err, config.ErrColor))
}

func TestPalCheck(t *testing.T) {
	assert := assert.New(t)

	src := source(t, "inc.pal", increment)
	out, err := execute("", "check", src)
	assert.NoError(err)
	assert.Equal(src+": ok\n", out)

	bad := source(t, "bad.pal", "main:\n  MOV RA\n  EXIT\n")
	_, err = execute("", "check", bad)
	var syntax cpu.ErrSyntax
	if assert.True(errors.As(err, &syntax), "%v", err) {
		assert.Equal(2, syntax.LineNo)
	}
	assert.Contains(err.Error(), bad)

	_, err = execute("", "check", filepath.Join(t.TempDir(), "missing.pal"))
	assert.True(errors.Is(err, os.ErrNotExist))
}

func TestPalDis(t *testing.T) {
	assert := assert.New(t)

	src := source(t, "inc.pal", increment)
	out, err := execute("", "dis", src)
	assert.NoError(err)
	assert.Contains(out, "Main @ 7")
	assert.Contains(out, "ADD RA RA $1")
	assert.Contains(out, "NOP")

	out, err = execute("", "dis", "-O", src)
	assert.NoError(err)
	assert.NotContains(out, "NOP")
}

func TestPalDebug(t *testing.T) {
	assert := assert.New(t)

	src := source(t, "inc.pal", increment)
	out, err := execute("list\nnext\nquit\n", "debug", src)
	assert.NoError(err)
	assert.Contains(out, debugger.PROMPT+"#7: line 3: NOP\n")
	assert.Contains(out, "#8: line 4: INPUT\n")
	assert.NotContains(out, "\x1b[")
}

func TestPalDefines(t *testing.T) {
	assert := assert.New(t)

	out, err := execute("", "defines")
	assert.NoError(err)
	assert.Contains(out, "STACK_START = 6144\n")
	assert.Contains(out, "LITERAL_TAG = 0x8000\n")
	assert.Less(strings.Index(out, "CALL_STACK_SIZE"), strings.Index(out, "STACK_START"))

	_, err = execute("", "defines", "extra")
	assert.Error(err)
}

func TestFailure(t *testing.T) {
	assert := assert.New(t)

	err := errors.New("boom")
	assert.Equal("pal: boom", failure(err, false))
	assert.Equal("\x1b[31;1mpal: boom\x1b[0m", failure(err, true))

	assert.True(useColor(config.COLOR_ALWAYS, os.Stderr.Fd()))
	assert.False(useColor(config.COLOR_NEVER, os.Stderr.Fd()))

	t.Setenv("NO_COLOR", "1")
	assert.False(useColor(config.COLOR_AUTO, os.Stderr.Fd()))
}
