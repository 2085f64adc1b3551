package main

import (
	"fmt"
	"os"

	"pl0/pkg/compiler"
)

const testSource = `const a = 5;
var b;
begin
  b := a + 1;
  write b
end.
`

func main() {
	src := testSource
	if len(os.Args) > 1 {
		data, err := os.ReadFile(os.Args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, "read error:", err)
			os.Exit(1)
		}
		src = string(data)
	}

	fmt.Printf("Source:\n%s\n", src)

	// Lex
	tokens, err := compiler.Lex(src)
	if err != nil {
		fmt.Fprintln(os.Stderr, "lex error:", err)
		os.Exit(1)
	}

	fmt.Printf("Tokens (%d)\n", len(tokens))
	for _, tok := range tokens {
		fmt.Println(" ", tok)
	}
	fmt.Println()

	fmt.Println("Lexeme List")
	fmt.Println(compiler.FormatLexemeList(tokens))
	fmt.Println(compiler.FormatSymbolicLexemeList(tokens))
	fmt.Println()

	// Parse and emit in one pass
	p := compiler.NewParser(tokens)
	if err := p.Compile(); err != nil {
		fmt.Print(compiler.FormatListing(p.Instructions()))
		fmt.Fprintln(os.Stderr, "compile error:", err)
		os.Exit(compiler.ExitCode(err))
	}

	fmt.Printf("Generated Code (%d instructions, %d registers)\n", len(p.Instructions()), p.MaxRegisters())
	fmt.Print(compiler.FormatListing(p.Instructions()))
	fmt.Println()
	fmt.Print(p.SymbolTable())
}
