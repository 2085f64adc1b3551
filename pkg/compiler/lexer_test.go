package compiler

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestLex(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Token
	}{
		{
			name:  "Empty",
			input: "",
			expected: []Token{
				{Kind: NULSYM, Line: 1},
			},
		},
		{
			name:  "Operators",
			input: "+ - * / = <> < <= > >= ( ) , ; . :=",
			expected: []Token{
				{Kind: PLUSSYM, Text: "+", Line: 1},
				{Kind: MINUSSYM, Text: "-", Line: 1},
				{Kind: MULTSYM, Text: "*", Line: 1},
				{Kind: SLASHSYM, Text: "/", Line: 1},
				{Kind: EQSYM, Text: "=", Line: 1},
				{Kind: NEQSYM, Text: "<>", Line: 1},
				{Kind: LESSYM, Text: "<", Line: 1},
				{Kind: LEQSYM, Text: "<=", Line: 1},
				{Kind: GTRSYM, Text: ">", Line: 1},
				{Kind: GEQSYM, Text: ">=", Line: 1},
				{Kind: LPARENTSYM, Text: "(", Line: 1},
				{Kind: RPARENTSYM, Text: ")", Line: 1},
				{Kind: COMMASYM, Text: ",", Line: 1},
				{Kind: SEMICOLONSYM, Text: ";", Line: 1},
				{Kind: PERIODSYM, Text: ".", Line: 1},
				{Kind: BECOMESSYM, Text: ":=", Line: 1},
				{Kind: NULSYM, Line: 1},
			},
		},
		{
			name:  "Reserved Words and Identifiers",
			input: "const var begin end if then while do read write odd counter x1",
			expected: []Token{
				{Kind: CONSTSYM, Text: "const", Line: 1},
				{Kind: VARSYM, Text: "var", Line: 1},
				{Kind: BEGINSYM, Text: "begin", Line: 1},
				{Kind: ENDSYM, Text: "end", Line: 1},
				{Kind: IFSYM, Text: "if", Line: 1},
				{Kind: THENSYM, Text: "then", Line: 1},
				{Kind: WHILESYM, Text: "while", Line: 1},
				{Kind: DOSYM, Text: "do", Line: 1},
				{Kind: READSYM, Text: "read", Line: 1},
				{Kind: WRITESYM, Text: "write", Line: 1},
				{Kind: ODDSYM, Text: "odd", Line: 1},
				{Kind: IDENTSYM, Text: "counter", Line: 1},
				{Kind: IDENTSYM, Text: "x1", Line: 1},
				{Kind: NULSYM, Line: 1},
			},
		},
		{
			name:  "Numbers and Lines",
			input: "x:=10;\n/* skip\nme */ y := 99999.",
			expected: []Token{
				{Kind: IDENTSYM, Text: "x", Line: 1},
				{Kind: BECOMESSYM, Text: ":=", Line: 1},
				{Kind: NUMBERSYM, Text: "10", Line: 1},
				{Kind: SEMICOLONSYM, Text: ";", Line: 1},
				{Kind: IDENTSYM, Text: "y", Line: 3},
				{Kind: BECOMESSYM, Text: ":=", Line: 3},
				{Kind: NUMBERSYM, Text: "99999", Line: 3},
				{Kind: PERIODSYM, Text: ".", Line: 3},
				{Kind: NULSYM, Line: 3},
			},
		},
		{
			name:  "Division Is Not A Comment",
			input: "a/b",
			expected: []Token{
				{Kind: IDENTSYM, Text: "a", Line: 1},
				{Kind: SLASHSYM, Text: "/", Line: 1},
				{Kind: IDENTSYM, Text: "b", Line: 1},
				{Kind: NULSYM, Line: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Lex(tt.input)
			if err != nil {
				t.Fatalf("Lex() error = %v", err)
			}
			if !reflect.DeepEqual(tokens, tt.expected) {
				t.Errorf("Lex() got\n%v\nwant\n%v", tokens, tt.expected)
			}
		})
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
		msg   string
	}{
		{"Invalid Symbol", "x := 1 # 2", 1, "invalid symbol"},
		{"Lone Colon", "x : 1", 1, "invalid symbol"},
		{"Identifier Too Long", "var abcdefghijkl;", 1, "too long"},
		{"Number Too Long", "\nx := 123456", 2, "too long"},
		{"Digit Led Identifier", "x := 12ab", 1, "does not start with a letter"},
		{"Unterminated Comment", "x /* never closed\n", 1, "unterminated comment"},
		{"Non ASCII Digit", "const a = \u0663;", 1, "invalid symbol"},
		{"Non ASCII Letter", "var caf\u00e9;", 1, "invalid symbol"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Lex(tt.input)
			var lexErr *LexError
			if !errors.As(err, &lexErr) {
				t.Fatalf("expected *LexError, got %v", err)
			}
			if lexErr.Line != tt.line {
				t.Errorf("line: expected %d, got %d", tt.line, lexErr.Line)
			}
			if !strings.Contains(lexErr.Msg, tt.msg) {
				t.Errorf("message %q does not contain %q", lexErr.Msg, tt.msg)
			}
		})
	}
}

func TestLexIdentifierLimit(t *testing.T) {
	name := strings.Repeat("a", MaxIdentLength)
	tokens, err := Lex(name)
	if err != nil {
		t.Fatalf("%d character identifier rejected: %v", MaxIdentLength, err)
	}
	if tokens[0].Text != name {
		t.Errorf("got %q", tokens[0].Text)
	}
}

func TestTokenKinds(t *testing.T) {
	want := map[TokenKind]int{
		NULSYM: 1, IDENTSYM: 2, NUMBERSYM: 3, PERIODSYM: 19, BECOMESSYM: 20,
		DOSYM: 26, CONSTSYM: 28, VARSYM: 29, WRITESYM: 31, READSYM: 32,
	}
	for kind, n := range want {
		if int(kind) != n {
			t.Errorf("%s: expected %d, got %d", kind, n, int(kind))
		}
	}
	if TokenKind(27).Valid() || TokenKind(30).Valid() || TokenKind(33).Valid() {
		t.Error("reserved token numbers must not be valid kinds")
	}
	if IDENTSYM.String() != "identsym" {
		t.Errorf("String: got %q", IDENTSYM.String())
	}
	if TokenKind(27).String() != "TokenKind(27)" {
		t.Errorf("String of reserved kind: got %q", TokenKind(27).String())
	}
	if KindOf("while") != WHILESYM || KindOf("While") != IDENTSYM {
		t.Error("reserved words are lower case only")
	}
}
