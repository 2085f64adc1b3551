package compiler

import "fmt"

// TokenKind identifies the category of a lexed token.
//
// Values follow the numbering used by lexeme-list files so that a token
// stream written by an external lexer can be read back unchanged.
type TokenKind int

const (
	NULSYM       TokenKind = iota + 1 // sentinel: end of input
	IDENTSYM                          // identifier
	NUMBERSYM                         // number literal
	PLUSSYM                           // +
	MINUSSYM                          // -
	MULTSYM                           // *
	SLASHSYM                          // /
	ODDSYM                            // "odd"
	EQSYM                             // =
	NEQSYM                            // <>
	LESSYM                            // <
	LEQSYM                            // <=
	GTRSYM                            // >
	GEQSYM                            // >=
	LPARENTSYM                        // (
	RPARENTSYM                        // )
	COMMASYM                          // ,
	SEMICOLONSYM                      // ;
	PERIODSYM                         // .
	BECOMESSYM                        // :=
	BEGINSYM                          // "begin"
	ENDSYM                            // "end"
	IFSYM                             // "if"
	THENSYM                           // "then"
	WHILESYM                          // "while"
	DOSYM                             // "do"
	_                                 // 27: reserved (call)
	CONSTSYM                          // "const"
	VARSYM                            // "var"
	_                                 // 30: reserved (procedure)
	WRITESYM                          // "write"
	READSYM                           // "read"
)

// tokenNames is indexed by TokenKind. Gaps are reserved kinds this language
// subset never produces.
var tokenNames = [...]string{
	NULSYM:       "nulsym",
	IDENTSYM:     "identsym",
	NUMBERSYM:    "numbersym",
	PLUSSYM:      "plussym",
	MINUSSYM:     "minussym",
	MULTSYM:      "multsym",
	SLASHSYM:     "slashsym",
	ODDSYM:       "oddsym",
	EQSYM:        "eqsym",
	NEQSYM:       "neqsym",
	LESSYM:       "lessym",
	LEQSYM:       "leqsym",
	GTRSYM:       "gtrsym",
	GEQSYM:       "geqsym",
	LPARENTSYM:   "lparentsym",
	RPARENTSYM:   "rparentsym",
	COMMASYM:     "commasym",
	SEMICOLONSYM: "semicolonsym",
	PERIODSYM:    "periodsym",
	BECOMESSYM:   "becomessym",
	BEGINSYM:     "beginsym",
	ENDSYM:       "endsym",
	IFSYM:        "ifsym",
	THENSYM:      "thensym",
	WHILESYM:     "whilesym",
	DOSYM:        "dosym",
	CONSTSYM:     "constsym",
	VARSYM:       "varsym",
	WRITESYM:     "writesym",
	READSYM:      "readsym",
}

func (k TokenKind) String() string {
	if int(k) > 0 && int(k) < len(tokenNames) && tokenNames[k] != "" {
		return tokenNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Valid reports whether k is one of the kinds this language produces.
func (k TokenKind) Valid() bool {
	return int(k) > 0 && int(k) < len(tokenNames) && tokenNames[k] != ""
}

// HasPayload reports whether tokens of this kind carry source text that is not
// implied by the kind itself.
func (k TokenKind) HasPayload() bool {
	return k == IDENTSYM || k == NUMBERSYM
}

// reserved maps reserved words to their kinds.
var reserved = map[string]TokenKind{
	"const": CONSTSYM,
	"var":   VARSYM,
	"begin": BEGINSYM,
	"end":   ENDSYM,
	"if":    IFSYM,
	"then":  THENSYM,
	"while": WHILESYM,
	"do":    DOSYM,
	"read":  READSYM,
	"write": WRITESYM,
	"odd":   ODDSYM,
}

// fixedText is the canonical source spelling of every kind without a payload.
var fixedText = map[TokenKind]string{
	NULSYM:       "",
	PLUSSYM:      "+",
	MINUSSYM:     "-",
	MULTSYM:      "*",
	SLASHSYM:     "/",
	ODDSYM:       "odd",
	EQSYM:        "=",
	NEQSYM:       "<>",
	LESSYM:       "<",
	LEQSYM:       "<=",
	GTRSYM:       ">",
	GEQSYM:       ">=",
	LPARENTSYM:   "(",
	RPARENTSYM:   ")",
	COMMASYM:     ",",
	SEMICOLONSYM: ";",
	PERIODSYM:    ".",
	BECOMESSYM:   ":=",
	BEGINSYM:     "begin",
	ENDSYM:       "end",
	IFSYM:        "if",
	THENSYM:      "then",
	WHILESYM:     "while",
	DOSYM:        "do",
	CONSTSYM:     "const",
	VARSYM:       "var",
	WRITESYM:     "write",
	READSYM:      "read",
}

// KindOf classifies a word: reserved words map to their kind, anything else is
// an identifier.
func KindOf(word string) TokenKind {
	if k, ok := reserved[word]; ok {
		return k
	}
	return IDENTSYM
}

// Token is a single lexical unit consumed by the Parser.
type Token struct {
	Kind TokenKind
	Text string // identifier name, number digits, or the fixed spelling
	Line int    // 1-based source line; 0 when unknown
}

// NewToken builds a token of a payload-free kind using its canonical text.
func NewToken(kind TokenKind) Token {
	return Token{Kind: kind, Text: fixedText[kind]}
}

func (t Token) String() string {
	return fmt.Sprintf("%-13s %-14q  line %d", t.Kind, t.Text, t.Line)
}
