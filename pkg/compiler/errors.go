package compiler

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind is a compile failure category. Each kind has a stable numeric
// code, used by the command line tools as the process exit status.
type ErrorKind int

const (
	ErrPeriodExpected ErrorKind = iota + 1
	ErrIdentExpectedInConst
	ErrEqualsExpected
	ErrNumberExpected
	ErrSemicolonExpectedInConst
	ErrIdentExpectedInVar
	ErrSemicolonExpectedInVar
	ErrBecomesExpected
	ErrEndExpected
	ErrThenExpected
	ErrDoExpected
	ErrIdentExpectedInRead
	ErrIdentExpectedInWrite
	ErrRelationalOpExpected
	ErrInvalidExpressionStart
	ErrRightParenExpected

	ErrUndeclaredIdentifier
	ErrAssignToNonVariable
	ErrNonVarConstInFactor
	ErrReadIntoUndeclared
	ErrReadIntoNonVariable
	ErrWriteFromUndeclared
	ErrWriteFromNonVarOrConst
	ErrAlreadyDeclared

	ErrCodeTooLong
	ErrSymbolTableFull

	ErrInvalidPatchIndex
	ErrParserReused
)

var errorMessages = [...]string{
	ErrPeriodExpected:           "Period expected.",
	ErrIdentExpectedInConst:     "Identifier expected in const declaration.",
	ErrEqualsExpected:           "Equals sign must follow identifier in const declaration.",
	ErrNumberExpected:           "Number must follow equals sign in const declaration.",
	ErrSemicolonExpectedInConst: "Semicolon expected at end of const declaration.",
	ErrIdentExpectedInVar:       "Identifier expected in var declaration.",
	ErrSemicolonExpectedInVar:   "Semicolon expected at end of var declaration.",
	ErrBecomesExpected:          "Becomes (:=) expected after identifier in statement.",
	ErrEndExpected:              "End keyword expected following begin statement.",
	ErrThenExpected:             "Then keyword expected following if statement.",
	ErrDoExpected:               "Do keyword expected following while statement.",
	ErrIdentExpectedInRead:      "Identifier expected after keyword read in read statement.",
	ErrIdentExpectedInWrite:     "Identifier expected after keyword write in write statement.",
	ErrRelationalOpExpected:     "Relational operator (=, <>, <, <=, >, >=) expected.",
	ErrInvalidExpressionStart:   "Invalid expression. Expected identifier, number, or expression in parentheses.",
	ErrRightParenExpected:       "Right parenthesis expected to close currently opened expression factor.",
	ErrUndeclaredIdentifier:     "Undeclared identifier.",
	ErrAssignToNonVariable:      "Assignment to constant or procedure is not allowed.",
	ErrNonVarConstInFactor:      "Identifier in expression must be a constant or variable.",
	ErrReadIntoUndeclared:       "Read into undeclared identifier.",
	ErrReadIntoNonVariable:      "Read target must be a variable.",
	ErrWriteFromUndeclared:      "Write of undeclared identifier.",
	ErrWriteFromNonVarOrConst:   "Write operand must be a constant or variable.",
	ErrAlreadyDeclared:          "Identifier already declared.",
	ErrCodeTooLong:              "Code too long.",
	ErrSymbolTableFull:          "Too many symbols.",
	ErrInvalidPatchIndex:        "Backpatch index out of range.",
	ErrParserReused:             "Parser already used for a compilation.",
}

// Code returns the numeric code of the kind.
func (k ErrorKind) Code() int { return int(k) }

// ExitCode is the process status for err: the code of the ErrorKind it
// wraps, or 1 for any other failure.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var kind ErrorKind
	if errors.As(err, &kind) {
		return kind.Code()
	}
	return 1
}

func (k ErrorKind) Error() string {
	if k > 0 && int(k) < len(errorMessages) {
		return errorMessages[k]
	}
	return fmt.Sprintf("compile error %d", int(k))
}

// IsSyntax reports whether k is a grammar violation.
func (k ErrorKind) IsSyntax() bool { return k >= ErrPeriodExpected && k <= ErrRightParenExpected }

// IsSemantic reports whether k is a declaration or usage violation.
func (k ErrorKind) IsSemantic() bool { return k >= ErrUndeclaredIdentifier && k <= ErrAlreadyDeclared }

// IsResource reports whether k is a capacity limit.
func (k ErrorKind) IsResource() bool { return k == ErrCodeTooLong || k == ErrSymbolTableFull }

// CompileError is the single error value that aborts a compilation. It wraps
// its Kind, so errors.Is(err, ErrPeriodExpected) holds.
type CompileError struct {
	Kind  ErrorKind
	Token Token // token under the cursor when the error was raised
	Index int   // token index; -1 when not raised by the parser
}

func (e *CompileError) Error() string {
	var sb strings.Builder
	if e.Token.Line > 0 {
		fmt.Fprintf(&sb, "line %d: ", e.Token.Line)
	}
	sb.WriteString(e.Kind.Error())
	if e.Index >= 0 {
		if e.Token.Kind == NULSYM {
			sb.WriteString(" (at end of input)")
		} else {
			fmt.Fprintf(&sb, " (at %q)", e.Token.Text)
		}
	}
	return sb.String()
}

func (e *CompileError) Unwrap() error { return e.Kind }

// LexError reports source text that cannot be tokenized.
type LexError struct {
	Line int
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// SourceError decorates an error with the source line it points at.
type SourceError struct {
	Err     error
	Snippet string
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%v\n  |> %s", e.Err, e.Snippet)
}

func (e *SourceError) Unwrap() error { return e.Err }

// withSource attaches the offending source line to lexer and parser errors.
func withSource(err error, src string) error {
	line := 0
	switch e := err.(type) {
	case *CompileError:
		line = e.Token.Line
	case *LexError:
		line = e.Line
	}
	if line <= 0 {
		return err
	}
	lines := strings.Split(src, "\n")
	snippet := "<source unavailable>"
	if line-1 < len(lines) {
		snippet = strings.TrimSpace(lines[line-1])
	}
	return &SourceError{Err: err, Snippet: snippet}
}
