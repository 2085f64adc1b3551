package compiler

import (
	"fmt"
	"unicode"
)

const (
	// MaxIdentLength is the longest identifier the lexer accepts.
	MaxIdentLength = 11
	// MaxNumberDigits is the longest number literal the lexer accepts.
	MaxNumberDigits = 5
)

// Lexer holds all mutable state for a single scanning pass over src.
type Lexer struct {
	src  []rune
	pos  int // index of the next rune to consume
	line int // current 1-based source line
}

func newLexer(src string) *Lexer {
	return &Lexer{src: []rune(src), pos: 0, line: 1}
}

// peek returns the rune at the current position without advancing.
func (l *Lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

// peek2 returns the rune one position ahead of the current position.
func (l *Lexer) peek2() rune {
	if l.pos+1 >= len(l.src) {
		return 0
	}
	return l.src[l.pos+1]
}

// advance consumes one rune and returns it.
func (l *Lexer) advance() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
	}
	return r
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.src) && unicode.IsSpace(l.peek()) {
		l.advance()
	}
}

// skipBlockComment discards everything up to and including the closing "*/".
// The opening "/*" must already have been consumed.
func (l *Lexer) skipBlockComment() error {
	startLine := l.line
	for l.pos < len(l.src) {
		if l.peek() == '*' && l.peek2() == '/' {
			l.advance() // *
			l.advance() // /
			return nil
		}
		l.advance()
	}
	return &LexError{Line: startLine, Msg: "unterminated comment"}
}

func isLetter(r rune) bool { return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' }

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// scanWord collects a full identifier or reserved word.
// The first letter must still be at l.peek().
func (l *Lexer) scanWord() (Token, error) {
	line := l.line
	start := l.pos
	for l.pos < len(l.src) {
		r := l.peek()
		if !isLetter(r) && !isDigit(r) {
			break
		}
		l.advance()
	}
	word := string(l.src[start:l.pos])
	kind := KindOf(word)
	if kind == IDENTSYM && len([]rune(word)) > MaxIdentLength {
		return Token{}, &LexError{Line: line, Msg: fmt.Sprintf("identifier %q too long", word)}
	}
	return Token{Kind: kind, Text: word, Line: line}, nil
}

// scanNumber collects a decimal literal. A letter directly after the digits
// is rejected rather than split into a second token.
func (l *Lexer) scanNumber() (Token, error) {
	line := l.line
	start := l.pos
	for l.pos < len(l.src) && isDigit(l.peek()) {
		l.advance()
	}
	digits := string(l.src[start:l.pos])
	if isLetter(l.peek()) {
		return Token{}, &LexError{Line: line, Msg: fmt.Sprintf("identifier %q does not start with a letter", digits+string(l.peek()))}
	}
	if len(digits) > MaxNumberDigits {
		return Token{}, &LexError{Line: line, Msg: fmt.Sprintf("number %s too long", digits)}
	}
	return Token{Kind: NUMBERSYM, Text: digits, Line: line}, nil
}

// nextToken skips whitespace/comments and returns the next Token.
func (l *Lexer) nextToken() (Token, error) {
	for {
		l.skipWhitespace()
		if l.pos >= len(l.src) {
			return Token{Kind: NULSYM, Line: l.line}, nil
		}
		if l.peek() == '/' && l.peek2() == '*' {
			l.advance()
			l.advance()
			if err := l.skipBlockComment(); err != nil {
				return Token{}, err
			}
			continue
		}
		break
	}

	ch := l.peek()
	line := l.line

	if isLetter(ch) {
		return l.scanWord()
	}
	if isDigit(ch) {
		return l.scanNumber()
	}

	l.advance() // consume the character before the switch
	two := func(kind TokenKind, text string) (Token, error) {
		l.advance()
		return Token{Kind: kind, Text: text, Line: line}, nil
	}
	one := func(kind TokenKind) (Token, error) {
		return Token{Kind: kind, Text: string(ch), Line: line}, nil
	}

	switch ch {
	case '+':
		return one(PLUSSYM)
	case '-':
		return one(MINUSSYM)
	case '*':
		return one(MULTSYM)
	case '/':
		return one(SLASHSYM)
	case '(':
		return one(LPARENTSYM)
	case ')':
		return one(RPARENTSYM)
	case ',':
		return one(COMMASYM)
	case ';':
		return one(SEMICOLONSYM)
	case '.':
		return one(PERIODSYM)
	case '=':
		return one(EQSYM)
	case '<':
		if l.peek() == '>' {
			return two(NEQSYM, "<>")
		}
		if l.peek() == '=' {
			return two(LEQSYM, "<=")
		}
		return one(LESSYM)
	case '>':
		if l.peek() == '=' {
			return two(GEQSYM, ">=")
		}
		return one(GTRSYM)
	case ':':
		if l.peek() == '=' {
			return two(BECOMESSYM, ":=")
		}
	}
	return Token{}, &LexError{Line: line, Msg: fmt.Sprintf("invalid symbol %q", ch)}
}

// Lex tokenises src and returns all tokens including the final nulsym token.
// It returns a non-nil error on the first invalid symbol, oversized literal,
// or unterminated comment.
func Lex(src string) ([]Token, error) {
	l := newLexer(src)
	var tokens []Token
	for {
		tok, err := l.nextToken()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == NULSYM {
			return tokens, nil
		}
	}
}
