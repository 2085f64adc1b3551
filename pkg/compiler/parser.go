package compiler

import (
	"log"
	"strconv"
)

// Parser compiles a token slice in a single pass. Every production checks
// syntax, consults the symbol table and emits code as it goes; there is no
// syntax tree.
//
// Grammar:
//
//	program    = block "." .
//	block      = [ "const" ident "=" number { "," ident "=" number } ";" ]
//	             [ "var" ident { "," ident } ";" ]
//	             statement .
//	statement  = [ ident ":=" expression
//	             | "begin" statement { ";" statement } "end"
//	             | "if" condition "then" statement
//	             | "while" condition "do" statement
//	             | "read" ident
//	             | "write" ident ] .
//	condition  = "odd" expression | expression relop expression .
//	relop      = "=" | "<>" | "<" | "<=" | ">" | ">=" .
//	expression = [ "+" | "-" ] term { ( "+" | "-" ) term } .
//	term       = factor { ( "*" | "/" ) factor } .
//	factor     = ident | number | "(" expression ")" .
//
// Expression values live in virtual registers. reg counts the registers
// currently holding unconsumed values: loads push one, binary operators pop
// two and push one. Every statement starts and ends with reg == 0.
type Parser struct {
	tokens []Token
	pos    int

	syms *SymbolTable
	code *CodeGenerator

	reg    int
	maxReg int

	used  bool
	trace *log.Logger
}

// Config bounds a compilation. Zero values select the defaults.
type Config struct {
	MaxCode    int         // instruction capacity; < 0 for unbounded
	MaxSymbols int         // symbol capacity; < 0 for unbounded
	Trace      *log.Logger // receives one line per emitted or patched instruction
}

func limit(n, def int) int {
	switch {
	case n == 0:
		return def
	case n < 0:
		return 0
	}
	return n
}

func NewParser(tokens []Token) *Parser {
	return NewParserWithConfig(tokens, Config{})
}

func NewParserWithConfig(tokens []Token, cfg Config) *Parser {
	return &Parser{
		tokens: tokens,
		syms:   NewSymbolTableWithCapacity(limit(cfg.MaxSymbols, MaxSymbolTableSize)),
		code:   NewCodeGenerator(limit(cfg.MaxCode, MaxCodeLength)),
		trace:  cfg.Trace,
	}
}

// Compile translates the whole program. It may be called once per Parser;
// the first error aborts the pass and is returned as a *CompileError.
func (p *Parser) Compile() error {
	if p.used {
		return &CompileError{Kind: ErrParserReused, Index: -1}
	}
	p.used = true
	return p.program()
}

// Instructions returns the code emitted so far.
func (p *Parser) Instructions() []Instruction { return p.code.Instructions() }

func (p *Parser) SymbolTable() *SymbolTable { return p.syms }

// RegisterCursor is the number of live virtual registers.
func (p *Parser) RegisterCursor() int { return p.reg }

// MaxRegisters is the highest number of registers live at once, i.e. the
// register bank size the program needs.
func (p *Parser) MaxRegisters() int { return p.maxReg }

// peek returns the current token without consuming it. Past the end of the
// slice it returns a nulsym sentinel.
func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Kind: NULSYM}
	}
	return p.tokens[p.pos]
}

// advance consumes the current token.
func (p *Parser) advance() {
	if p.pos < len(p.tokens) {
		p.pos++
	}
}

// expect consumes the current token if it has the given kind, otherwise
// fails with kind k.
func (p *Parser) expect(kind TokenKind, k ErrorKind) error {
	if p.peek().Kind != kind {
		return p.fail(k)
	}
	p.advance()
	return nil
}

func (p *Parser) fail(k ErrorKind) error {
	return p.failAt(k, p.pos)
}

func (p *Parser) failAt(k ErrorKind, index int) error {
	tok := Token{Kind: NULSYM}
	if index < len(p.tokens) {
		tok = p.tokens[index]
	}
	return &CompileError{Kind: k, Token: tok, Index: index}
}

func (p *Parser) emit(ins Instruction) (int, error) {
	idx, err := p.code.Emit(ins)
	if err != nil {
		return -1, p.fail(ErrCodeTooLong)
	}
	if p.trace != nil {
		p.trace.Printf("%4d  %-3s %d %d %d", idx, ins.Op, ins.R, ins.L, ins.M)
	}
	return idx, nil
}

// patch points the jump at index to the next instruction to be emitted.
func (p *Parser) patch(index int) error {
	target := p.code.Size()
	if err := p.code.PatchModifier(index, target); err != nil {
		return p.fail(ErrInvalidPatchIndex)
	}
	if p.trace != nil {
		p.trace.Printf("      patch %d -> %d", index, target)
	}
	return nil
}

// push claims the next register.
func (p *Parser) push() int {
	r := p.reg
	p.reg++
	p.touch(p.reg)
	return r
}

// scratch returns the next register without claiming it.
func (p *Parser) scratch() int {
	p.touch(p.reg + 1)
	return p.reg
}

func (p *Parser) touch(n int) {
	if n > p.maxReg {
		p.maxReg = n
	}
}

// pop releases the top register.
func (p *Parser) pop() { p.reg-- }

func (p *Parser) program() error {
	if _, err := p.emit(IncStack(FrameHeaderSize)); err != nil {
		return err
	}
	if err := p.block(); err != nil {
		return err
	}
	if err := p.expect(PERIODSYM, ErrPeriodExpected); err != nil {
		return err
	}
	_, err := p.emit(Halt())
	return err
}

func (p *Parser) block() error {
	if err := p.constDecl(); err != nil {
		return err
	}
	if err := p.varDecl(); err != nil {
		return err
	}
	return p.statement()
}

// declare inserts sym unless its name is already visible. nameIdx is the
// token index of the name, for diagnostics.
func (p *Parser) declare(sym Symbol, nameIdx int) error {
	if _, ok := p.syms.Lookup(sym.Name); ok {
		return p.failAt(ErrAlreadyDeclared, nameIdx)
	}
	if _, err := p.syms.Insert(sym); err != nil {
		return p.failAt(ErrSymbolTableFull, nameIdx)
	}
	return nil
}

func (p *Parser) constDecl() error {
	if p.peek().Kind != CONSTSYM {
		return nil
	}
	p.advance()
	for {
		nameIdx := p.pos
		name := p.peek()
		if name.Kind != IDENTSYM {
			return p.fail(ErrIdentExpectedInConst)
		}
		p.advance()
		if err := p.expect(EQSYM, ErrEqualsExpected); err != nil {
			return err
		}
		num := p.peek()
		if num.Kind != NUMBERSYM {
			return p.fail(ErrNumberExpected)
		}
		value, err := strconv.Atoi(num.Text)
		if err != nil {
			return p.fail(ErrNumberExpected)
		}
		p.advance()
		if err := p.declare(NewConstSymbol(name.Text, value), nameIdx); err != nil {
			return err
		}
		if p.peek().Kind != COMMASYM {
			break
		}
		p.advance()
	}
	return p.expect(SEMICOLONSYM, ErrSemicolonExpectedInConst)
}

func (p *Parser) varDecl() error {
	if p.peek().Kind != VARSYM {
		return nil
	}
	p.advance()
	count := 0
	for {
		nameIdx := p.pos
		name := p.peek()
		if name.Kind != IDENTSYM {
			return p.fail(ErrIdentExpectedInVar)
		}
		if err := p.declare(NewVarSymbol(name.Text), nameIdx); err != nil {
			return err
		}
		p.advance()
		count++
		if p.peek().Kind != COMMASYM {
			break
		}
		p.advance()
	}
	if count > 0 {
		if _, err := p.emit(IncStack(count)); err != nil {
			return err
		}
	}
	return p.expect(SEMICOLONSYM, ErrSemicolonExpectedInVar)
}

func (p *Parser) statement() error {
	switch p.peek().Kind {
	case IDENTSYM:
		return p.assignment()
	case BEGINSYM:
		return p.compound()
	case IFSYM:
		return p.ifStatement()
	case WHILESYM:
		return p.whileStatement()
	case READSYM:
		return p.readStatement()
	case WRITESYM:
		return p.writeStatement()
	}
	return nil // empty statement
}

func (p *Parser) assignment() error {
	sym, ok := p.syms.Lookup(p.peek().Text)
	if !ok {
		return p.fail(ErrUndeclaredIdentifier)
	}
	if sym.Kind != KindVar {
		return p.fail(ErrAssignToNonVariable)
	}
	p.advance()
	if err := p.expect(BECOMESSYM, ErrBecomesExpected); err != nil {
		return err
	}
	if err := p.expression(); err != nil {
		return err
	}
	if _, err := p.emit(Store(p.reg-1, sym.Level, sym.Address)); err != nil {
		return err
	}
	p.pop()
	return nil
}

func (p *Parser) compound() error {
	p.advance() // begin
	if err := p.statement(); err != nil {
		return err
	}
	for p.peek().Kind == SEMICOLONSYM {
		p.advance()
		if err := p.statement(); err != nil {
			return err
		}
	}
	return p.expect(ENDSYM, ErrEndExpected)
}

// branchIfFalse emits a placeholder exit jump on the condition register and
// releases it. The returned index is patched once the target is known.
func (p *Parser) branchIfFalse() (int, error) {
	idx, err := p.emit(JumpIfFalse(p.reg-1, 0))
	if err != nil {
		return -1, err
	}
	p.pop()
	return idx, nil
}

func (p *Parser) ifStatement() error {
	p.advance() // if
	if err := p.condition(); err != nil {
		return err
	}
	jpc, err := p.branchIfFalse()
	if err != nil {
		return err
	}
	if err := p.expect(THENSYM, ErrThenExpected); err != nil {
		return err
	}
	if err := p.statement(); err != nil {
		return err
	}
	return p.patch(jpc)
}

func (p *Parser) whileStatement() error {
	p.advance() // while
	start := p.code.Size()
	if err := p.condition(); err != nil {
		return err
	}
	exit, err := p.branchIfFalse()
	if err != nil {
		return err
	}
	if err := p.expect(DOSYM, ErrDoExpected); err != nil {
		return err
	}
	if err := p.statement(); err != nil {
		return err
	}
	if _, err := p.emit(Jump(start)); err != nil {
		return err
	}
	return p.patch(exit)
}

func (p *Parser) readStatement() error {
	p.advance() // read
	if p.peek().Kind != IDENTSYM {
		return p.fail(ErrIdentExpectedInRead)
	}
	sym, ok := p.syms.Lookup(p.peek().Text)
	if !ok {
		return p.fail(ErrReadIntoUndeclared)
	}
	if sym.Kind != KindVar {
		return p.fail(ErrReadIntoNonVariable)
	}
	p.advance()
	// The register is filled and stored without being claimed.
	r := p.scratch()
	if _, err := p.emit(Read(r)); err != nil {
		return err
	}
	_, err := p.emit(Store(r, sym.Level, sym.Address))
	return err
}

func (p *Parser) writeStatement() error {
	p.advance() // write
	if p.peek().Kind != IDENTSYM {
		return p.fail(ErrIdentExpectedInWrite)
	}
	sym, ok := p.syms.Lookup(p.peek().Text)
	if !ok {
		return p.fail(ErrWriteFromUndeclared)
	}
	var load Instruction
	r := p.scratch()
	switch sym.Kind {
	case KindVar:
		load = Load(r, sym.Level, sym.Address)
	case KindConst:
		load = Lit(r, sym.Value)
	default:
		return p.fail(ErrWriteFromNonVarOrConst)
	}
	p.advance()
	if _, err := p.emit(load); err != nil {
		return err
	}
	_, err := p.emit(Write(r))
	return err
}

func (p *Parser) condition() error {
	if p.peek().Kind == ODDSYM {
		p.advance()
		if err := p.expression(); err != nil {
			return err
		}
		_, err := p.emit(Unary(OpOdd, p.reg-1))
		return err
	}
	if err := p.expression(); err != nil {
		return err
	}
	op, err := p.relOp()
	if err != nil {
		return err
	}
	if err := p.expression(); err != nil {
		return err
	}
	return p.binary(op)
}

var relOps = map[TokenKind]Opcode{
	EQSYM:  OpEq,
	NEQSYM: OpNeq,
	LESSYM: OpLt,
	LEQSYM: OpLeq,
	GTRSYM: OpGt,
	GEQSYM: OpGeq,
}

func (p *Parser) relOp() (Opcode, error) {
	op, ok := relOps[p.peek().Kind]
	if !ok {
		return 0, p.fail(ErrRelationalOpExpected)
	}
	p.advance()
	return op, nil
}

// binary combines the top two registers into the lower one.
func (p *Parser) binary(op Opcode) error {
	if _, err := p.emit(Binary(op, p.reg-2, p.reg-2, p.reg-1)); err != nil {
		return err
	}
	p.pop()
	return nil
}

func (p *Parser) expression() error {
	sign := p.peek().Kind
	if sign == PLUSSYM || sign == MINUSSYM {
		p.advance()
	}
	if err := p.term(); err != nil {
		return err
	}
	if sign == MINUSSYM {
		if _, err := p.emit(Unary(OpNeg, p.reg-1)); err != nil {
			return err
		}
	}
	for {
		var op Opcode
		switch p.peek().Kind {
		case PLUSSYM:
			op = OpAdd
		case MINUSSYM:
			op = OpSub
		default:
			return nil
		}
		p.advance()
		if err := p.term(); err != nil {
			return err
		}
		if err := p.binary(op); err != nil {
			return err
		}
	}
}

func (p *Parser) term() error {
	if err := p.factor(); err != nil {
		return err
	}
	for {
		var op Opcode
		switch p.peek().Kind {
		case MULTSYM:
			op = OpMul
		case SLASHSYM:
			op = OpDiv
		default:
			return nil
		}
		p.advance()
		if err := p.factor(); err != nil {
			return err
		}
		if err := p.binary(op); err != nil {
			return err
		}
	}
}

func (p *Parser) factor() error {
	tok := p.peek()
	switch tok.Kind {
	case IDENTSYM:
		sym, ok := p.syms.Lookup(tok.Text)
		if !ok {
			return p.fail(ErrUndeclaredIdentifier)
		}
		var ins Instruction
		switch sym.Kind {
		case KindVar:
			ins = Load(p.push(), sym.Level, sym.Address)
		case KindConst:
			ins = Lit(p.push(), sym.Value)
		default:
			return p.fail(ErrNonVarConstInFactor)
		}
		p.advance()
		_, err := p.emit(ins)
		return err

	case NUMBERSYM:
		value, err := strconv.Atoi(tok.Text)
		if err != nil {
			return p.fail(ErrInvalidExpressionStart)
		}
		p.advance()
		_, err = p.emit(Lit(p.push(), value))
		return err

	case LPARENTSYM:
		p.advance()
		if err := p.expression(); err != nil {
			return err
		}
		return p.expect(RPARENTSYM, ErrRightParenExpected)
	}
	return p.fail(ErrInvalidExpressionStart)
}
