package cpu

import (
	"fmt"
	"strings"
)

// TokenKind classifies an assembler token.
type TokenKind int

//go:generate go tool stringer -linecomment -type=TokenKind
const (
	TOKEN_LABEL_DEF = TokenKind(0) // label_def
	TOKEN_LABEL_REF = TokenKind(1) // label_ref
	TOKEN_INTEGER   = TokenKind(2) // integer
	TOKEN_STRING    = TokenKind(3) // string
	TOKEN_MNEMONIC  = TokenKind(4) // mnemonic
	TOKEN_RAM       = TokenKind(5) // ram
	TOKEN_REGISTER  = TokenKind(6) // register
	TOKEN_STACK     = TokenKind(7) // stack
)

// Token is one lexeme of assembly source.
type Token struct {
	LineNo int       `yaml:"line"`
	Kind   TokenKind `yaml:"kind"`
	Text   string    `yaml:"text"`
}

// MarshalYAML encodes the kind by name.
func (kind TokenKind) MarshalYAML() (any, error) {
	return kind.String(), nil
}

func (tok Token) String() string {
	return fmt.Sprintf("%d:%v:%v", tok.LineNo, tok.Kind, tok.Text)
}

// classify returns the kind of an identifier run.
func classify(text string) (kind TokenKind) {
	switch {
	case strings.HasPrefix(text, "$"):
		return TOKEN_INTEGER
	case strings.HasPrefix(text, "%"):
		return TOKEN_STACK
	case strings.HasPrefix(text, "["):
		return TOKEN_RAM
	case strings.HasSuffix(text, ":"):
		return TOKEN_LABEL_DEF
	}

	if _, ok := LookupRegister(text); ok {
		return TOKEN_REGISTER
	}

	for _, c := range text {
		if c < 'A' || c > 'Z' {
			return TOKEN_LABEL_REF
		}
	}

	return TOKEN_MNEMONIC
}
