package compiler

// Compile lexes and compiles src with the default limits.
func Compile(src string) ([]Instruction, *SymbolTable, error) {
	return CompileWithConfig(src, Config{})
}

// CompileWithConfig lexes and compiles src. On failure the returned code and
// symbols are whatever was produced before the error, and the error carries
// the offending source line.
func CompileWithConfig(src string, cfg Config) ([]Instruction, *SymbolTable, error) {
	tokens, err := Lex(src)
	if err != nil {
		if cfg.Trace != nil {
			cfg.Trace.Println("lex error:", err)
		}
		return nil, nil, withSource(err, src)
	}

	code, syms, err := CompileTokens(tokens, cfg)
	if err != nil {
		return code, syms, withSource(err, src)
	}
	return code, syms, nil
}

// CompileTokens compiles an already tokenised program, such as one read
// with ParseLexemeList.
func CompileTokens(tokens []Token, cfg Config) ([]Instruction, *SymbolTable, error) {
	p := NewParserWithConfig(tokens, cfg)
	if err := p.Compile(); err != nil {
		if cfg.Trace != nil {
			cfg.Trace.Println("compile error:", err)
		}
		return p.Instructions(), p.SymbolTable(), err
	}
	if cfg.Trace != nil {
		cfg.Trace.Printf("compiled %d instructions, %d symbols, %d registers",
			p.code.Size(), p.syms.Len(), p.MaxRegisters())
	}
	return p.Instructions(), p.SymbolTable(), nil
}

// RegistersNeeded returns the size of the register bank code uses: one more
// than the highest register any instruction names.
func RegistersNeeded(code []Instruction) int {
	n := 0
	use := func(r int) {
		if r+1 > n {
			n = r + 1
		}
	}
	for _, ins := range code {
		switch {
		case ins.Op.IsBinary():
			use(ins.R)
			use(ins.L)
			use(ins.M)
		case ins.Op == OpLit, ins.Op == OpLoad, ins.Op == OpStore, ins.Op == OpJumpIfFalse,
			ins.Op == OpRead, ins.Op == OpWrite, ins.Op == OpNeg, ins.Op == OpOdd:
			use(ins.R)
		}
	}
	return n
}
