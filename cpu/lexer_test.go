package cpu

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	assert := assert.New(t)

	source := strings.Join([]string{
		"main: MOV RA, $5 ; comment with \"quotes\"",
		`  SPRINT "a \"b\"; c"`,
		"  ADD RB %1 [$10]",
		"  PUSH $(STACK_SIZE - 1)",
		"  JMP loop",
		"EXIT",
	}, "\n")

	tokens, err := Tokenize(strings.NewReader(source))
	assert.NoError(err)

	expected := []Token{
		{1, TOKEN_LABEL_DEF, "main:"},
		{1, TOKEN_MNEMONIC, "MOV"},
		{1, TOKEN_REGISTER, "RA"},
		{1, TOKEN_INTEGER, "$5"},
		{2, TOKEN_MNEMONIC, "SPRINT"},
		{2, TOKEN_STRING, `"a \"b\"; c"`},
		{3, TOKEN_MNEMONIC, "ADD"},
		{3, TOKEN_REGISTER, "RB"},
		{3, TOKEN_STACK, "%1"},
		{3, TOKEN_RAM, "[$10]"},
		{4, TOKEN_MNEMONIC, "PUSH"},
		{4, TOKEN_INTEGER, "$(STACK_SIZE - 1)"},
		{5, TOKEN_MNEMONIC, "JMP"},
		{5, TOKEN_LABEL_REF, "loop"},
		{6, TOKEN_MNEMONIC, "EXIT"},
	}
	assert.Equal(expected, tokens)
	assert.Equal("4:integer:$(STACK_SIZE - 1)", tokens[11].String())
}

func TestTokenizeUnterminatedString(t *testing.T) {
	assert := assert.New(t)

	logged := &bytes.Buffer{}
	log.SetOutput(logged)
	defer log.SetOutput(os.Stderr)

	tokens, err := Tokenize(strings.NewReader("main: SPRINT \"abc\nEXIT"))
	assert.NoError(err)
	assert.Equal([]Token{
		{1, TOKEN_LABEL_DEF, "main:"},
		{1, TOKEN_MNEMONIC, "SPRINT"},
	}, tokens)
	assert.Contains(logged.String(), "unterminated string")
}

func TestClassify(t *testing.T) {
	assert := assert.New(t)

	table := map[string]TokenKind{
		"main:":    TOKEN_LABEL_DEF,
		"loop_1":   TOKEN_LABEL_REF,
		"Loop":     TOKEN_LABEL_REF,
		".L0":      TOKEN_LABEL_REF,
		"$-1":      TOKEN_INTEGER,
		"$0x1f":    TOKEN_INTEGER,
		"%0":       TOKEN_STACK,
		"[$100]":   TOKEN_RAM,
		"RA":       TOKEN_REGISTER,
		"RZ":       TOKEN_REGISTER,
		"CMP0":     TOKEN_REGISTER,
		"CMP":      TOKEN_MNEMONIC,
		"SPRINT":   TOKEN_MNEMONIC,
		"UNKNOWN":  TOKEN_MNEMONIC,
		"Sprint":   TOKEN_LABEL_REF,
		"[bogus]:": TOKEN_RAM,
	}

	for text, kind := range table {
		assert.Equal(kind, classify(text), text)
	}
}
