package compiler

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseLexemeList reads a token stream in lexeme-list form: whitespace
// separated token numbers, where identsym (2) and numbersym (3) are each
// followed by their text. For example "29 2 x 18 2 x 20 3 5 19" is
// "var x; x := 5.". A trailing nulsym is appended when the list lacks one.
func ParseLexemeList(text string) ([]Token, error) {
	fields := strings.Fields(text)
	var tokens []Token
	for i := 0; i < len(fields); i++ {
		n, err := strconv.Atoi(fields[i])
		if err != nil {
			return tokens, fmt.Errorf("lexeme %d: expected token number, got %q", i+1, fields[i])
		}
		kind := TokenKind(n)
		if !kind.Valid() {
			return tokens, fmt.Errorf("lexeme %d: unknown token number %d", i+1, n)
		}
		if !kind.HasPayload() {
			tokens = append(tokens, NewToken(kind))
			if kind == NULSYM {
				return tokens, nil
			}
			continue
		}
		if i+1 >= len(fields) {
			return tokens, fmt.Errorf("lexeme %d: %s is missing its text", i+1, kind)
		}
		i++
		payload := fields[i]
		if kind == NUMBERSYM {
			if _, err := strconv.Atoi(payload); err != nil {
				return tokens, fmt.Errorf("lexeme %d: invalid number %q", i+1, payload)
			}
		}
		tokens = append(tokens, Token{Kind: kind, Text: payload})
	}
	return append(tokens, NewToken(NULSYM)), nil
}

// FormatLexemeList writes tokens in lexeme-list form. The nulsym sentinel is
// not written.
func FormatLexemeList(tokens []Token) string {
	parts := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Kind == NULSYM {
			break
		}
		parts = append(parts, strconv.Itoa(int(tok.Kind)))
		if tok.Kind.HasPayload() {
			parts = append(parts, tok.Text)
		}
	}
	return strings.Join(parts, " ")
}

// FormatSymbolicLexemeList is the human readable variant, naming each kind.
func FormatSymbolicLexemeList(tokens []Token) string {
	parts := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Kind == NULSYM {
			break
		}
		parts = append(parts, tok.Kind.String())
		if tok.Kind.HasPayload() {
			parts = append(parts, tok.Text)
		}
	}
	return strings.Join(parts, " ")
}
