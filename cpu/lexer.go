package cpu

import (
	"io"
	"log"
	"strings"
)

// isIdentifier returns true for characters of a plain token.
func isIdentifier(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	return strings.IndexByte("$%.:_-[]", c) >= 0
}

// scanString returns the end of the quoted string at start.
func scanString(data []byte, start int) (end int, ok bool) {
	escaped := false
	for end = start + 1; end < len(data); {
		c := data[end]
		if c == '\n' {
			return
		}
		end++
		if c == '"' && !escaped {
			ok = true
			return
		}
		escaped = c == '\\'
	}
	return
}

// scanParen returns the end of the balanced parenthesis group at start.
func scanParen(data []byte, start int) (end int, ok bool) {
	depth := 0
	for end = start; end < len(data); {
		c := data[end]
		if c == '\n' {
			return
		}
		end++
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				ok = true
				return
			}
		}
	}
	return
}

// Tokenize splits assembly source into classified tokens.
//
// A ';' starts a comment to the end of the line. Strings are double quoted,
// and may not span lines: an unterminated string ends the token stream.
// Characters that cannot start a token, like commas, are skipped.
func Tokenize(input io.Reader) (tokens []Token, err error) {
	data, err := io.ReadAll(input)
	if err != nil {
		return
	}

	lineno := 1
	for n := 0; n < len(data); {
		c := data[n]
		switch {
		case c == '\n':
			lineno++
			n++
		case c == ';':
			for n < len(data) && data[n] != '\n' {
				n++
			}
		case c == '"':
			end, ok := scanString(data, n)
			if !ok {
				log.Printf("line %d: unterminated string, ignoring the rest of the input", lineno)
				return
			}
			tokens = append(tokens, Token{LineNo: lineno, Kind: TOKEN_STRING, Text: string(data[n:end])})
			n = end
		case c == '$' && n+1 < len(data) && data[n+1] == '(':
			end, ok := scanParen(data, n+1)
			if !ok {
				text := string(data[n:])
				text, _, _ = strings.Cut(text, "\n")
				err = ErrSyntax{LineNo: lineno, Token: text, Err: ErrParseExpression(text[1:])}
				return
			}
			tokens = append(tokens, Token{LineNo: lineno, Kind: TOKEN_INTEGER, Text: string(data[n:end])})
			n = end
		case isIdentifier(c):
			end := n
			for end < len(data) && isIdentifier(data[end]) {
				end++
			}
			text := string(data[n:end])
			tokens = append(tokens, Token{LineNo: lineno, Kind: classify(text), Text: text})
			n = end
		default:
			n++
		}
	}

	return
}
