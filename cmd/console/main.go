package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	"pl0/pkg/compiler"
	"pl0/pkg/utils"
	"pl0/pkg/vm"
)

const (
	promptMain  = "pl0> "
	promptCont  = "...  "
	promptInput = "?    "

	banner = "PL/0 console. Enter a program ending in '.', or :help."
)

var replKeywords = []string{
	"const", "var", "begin", "end", "if", "then", "while", "do", "read", "write", "odd",
	":quit", ":list", ":symbols", ":help",
}

func main() {
	if len(os.Args) < 2 {
		os.Exit(repl())
	}

	filename := os.Args[1]
	showCode := false
	for _, arg := range os.Args[2:] {
		showCode = showCode || arg == "--show-code"
	}

	src, fullPath, err := utils.ReadSource(filename)
	if err != nil {
		log.Fatalf("Failed to read source file: %v", err)
	}
	fmt.Fprintln(os.Stderr, "Compiling source file:", fullPath)

	code, _, err := compiler.Compile(src)
	if err != nil {
		log.Printf("Compilation failed: %v", err)
		os.Exit(compiler.ExitCode(err))
	}
	if showCode {
		fmt.Fprint(os.Stderr, compiler.FormatListing(code))
	}

	if err := runFile(code, os.Stdin, os.Stdout); err != nil {
		log.Fatalf("Run failed: %v", err)
	}
}

// runFile runs code with read and write bound to in and out.
func runFile(code []compiler.Instruction, in io.Reader, out io.Writer) error {
	return vm.New(code, vm.Options{Input: in, Output: out}).RunUntilDone()
}

type session struct {
	ln          *liner.State
	out         io.Writer
	showCode    bool
	showSymbols bool
}

func repl() int {
	fmt.Println(banner)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(func(line string) []string {
		var out []string
		word := line[strings.LastIndexAny(line, " \t")+1:]
		if word == "" {
			return nil
		}
		for _, kw := range replKeywords {
			if strings.HasPrefix(kw, word) {
				out = append(out, line[:len(line)-len(word)]+kw)
			}
		}
		return out
	})

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	s := &session{ln: ln, out: os.Stdout}
	for {
		src, ok := s.readProgram()
		if !ok {
			fmt.Println()
			return 0
		}
		trimmed := strings.TrimSpace(src)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			if s.command(trimmed) {
				return 0
			}
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		s.compileAndRun(src)
	}
}

// command handles a ':' directive and reports whether the session should end.
func (s *session) command(cmd string) (exit bool) {
	switch strings.ToLower(cmd) {
	case ":quit", ":q":
		return true
	case ":list":
		s.showCode = !s.showCode
		fmt.Println("listing", onOff(s.showCode))
	case ":symbols":
		s.showSymbols = !s.showSymbols
		fmt.Println("symbol table", onOff(s.showSymbols))
	case ":help":
		fmt.Println(":list     toggle the instruction listing")
		fmt.Println(":symbols  toggle the symbol table dump")
		fmt.Println(":quit     leave")
	default:
		fmt.Println("unknown command. Type :help.")
	}
	return false
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// readProgram collects lines until they form a complete program: one that
// compiles, or fails somewhere other than at the end of input.
func (s *session) readProgram() (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := s.ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") || !incomplete(src) {
			return src, true
		}
	}
}

// incomplete reports whether src fails only because the input ran out.
func incomplete(src string) bool {
	if strings.TrimSpace(src) == "" {
		return false
	}
	_, _, err := compiler.Compile(src)
	var ce *compiler.CompileError
	if errors.As(err, &ce) {
		return ce.Token.Kind == compiler.NULSYM
	}
	var le *compiler.LexError
	if errors.As(err, &le) {
		return strings.Contains(le.Msg, "unterminated comment")
	}
	return false
}

func (s *session) compileAndRun(src string) {
	code, syms, err := compiler.Compile(src)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	if s.showCode {
		fmt.Fprint(s.out, compiler.FormatListing(code))
	}
	if s.showSymbols {
		fmt.Fprint(s.out, syms)
	}

	m := vm.New(code, vm.Options{Output: s.out})
	for {
		if err := m.RunUntilDone(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}
		if m.Halted {
			return
		}
		v, ok := s.readInt()
		if !ok {
			fmt.Fprintln(s.out, "program abandoned")
			return
		}
		m.PushInput(v)
	}
}

// readInt prompts until an integer is entered. It fails on EOF or Ctrl-C.
func (s *session) readInt() (int, bool) {
	for {
		line, err := s.ln.Prompt(promptInput)
		if err != nil {
			return 0, false
		}
		v, err := strconv.Atoi(strings.TrimSpace(line))
		if err == nil {
			return v, true
		}
		fmt.Println("enter an integer")
	}
}
