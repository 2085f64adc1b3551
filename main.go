//go:build !js

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"pl0/pkg/compiler"
	"pl0/pkg/utils"
	"pl0/pkg/vm"
)

func main() {
	inPath := flag.String("in", "", "input PL/0 source file (.pl0) or lexeme list (.lex)")
	lexemes := flag.Bool("lex", false, "treat the input as a lexeme list regardless of extension")
	outPath := flag.String("out", "", "write the instruction listing to this file")
	save := flag.Bool("save", false, "write the instruction listing next to the input (<name>.lst)")
	list := flag.Bool("list", false, "print the instruction listing")
	symbols := flag.Bool("symbols", false, "print the symbol table")
	runProgram := flag.Bool("run", false, "run the compiled program on the virtual machine")
	runListing := flag.String("run-listing", "", "run an existing listing file on the virtual machine")
	trace := flag.Bool("trace", false, "log emitted and executed instructions to stderr")
	maxSteps := flag.Int("max-steps", 0, "stop execution after this many steps (0 for no limit)")
	flag.Parse()

	if *runProgram && *runListing != "" {
		fmt.Fprintln(os.Stderr, "use either -run or -run-listing, not both")
		os.Exit(2)
	}
	if *inPath == "" && *runListing == "" {
		fmt.Fprintln(os.Stderr, "nothing to do: provide -in to compile, -run to run it, or -run-listing <file> to run an existing listing")
		flag.Usage()
		os.Exit(2)
	}

	var tracer *log.Logger
	if *trace {
		tracer = log.New(os.Stderr, "trace: ", 0)
	}

	var code []compiler.Instruction
	if *inPath != "" {
		var syms *compiler.SymbolTable
		var err error
		code, syms, err = compileInput(*inPath, *lexemes, compiler.Config{Trace: tracer})
		if err != nil {
			fmt.Fprintf(os.Stderr, "compilation failed: %v\n", err)
			os.Exit(compiler.ExitCode(err))
		}

		if *list {
			fmt.Print(compiler.FormatListing(code))
		}
		if *symbols {
			fmt.Print(syms)
		}
		if *save && *outPath == "" {
			*outPath = utils.ListingPath(*inPath)
		}
		if *outPath != "" {
			if err := os.WriteFile(*outPath, []byte(compiler.FormatListing(code)), 0o644); err != nil {
				fmt.Fprintf(os.Stderr, "failed to write listing %q: %v\n", *outPath, err)
				os.Exit(1)
			}
			fmt.Fprintf(os.Stderr, "compiled %d instructions -> %s\n", len(code), *outPath)
		}
	}

	switch {
	case *runListing != "":
		text, _, err := utils.ReadSource(*runListing)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		code, err = compiler.ParseListing(text)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid listing %q: %v\n", *runListing, err)
			os.Exit(1)
		}
	case !*runProgram:
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m, err := runCode(ctx, code, os.Stdin, os.Stdout, vm.Options{MaxSteps: *maxSteps, Trace: tracer})
	if err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "run failed: %v\n", err)
		os.Exit(1)
	}
	if *trace {
		fmt.Fprintf(os.Stderr, "run complete: PC=%d BP=%d SP=%d steps=%d\n", m.PC, m.BP, m.SP, m.Steps)
	}
}

// compileInput compiles a source file, or a lexeme list when lexemes is set or
// the file has the lexeme list extension.
func compileInput(path string, lexemes bool, cfg compiler.Config) ([]compiler.Instruction, *compiler.SymbolTable, error) {
	src, _, err := utils.ReadSource(path)
	if err != nil {
		return nil, nil, err
	}
	if lexemes || utils.IsLexemeList(path) {
		tokens, err := compiler.ParseLexemeList(src)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", path, err)
		}
		return compiler.CompileTokens(tokens, cfg)
	}
	return compiler.CompileWithConfig(src, cfg)
}

// runCode executes code to completion.
func runCode(ctx context.Context, code []compiler.Instruction, in io.Reader, out io.Writer, opts vm.Options) (*vm.Machine, error) {
	opts.Input = in
	opts.Output = out
	m := vm.New(code, opts)
	return m, m.Run(ctx)
}
