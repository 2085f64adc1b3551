package main

import (
	"strings"
	"testing"

	"pl0/pkg/compiler"
)

func newTestGame(t *testing.T, src string) *Game {
	t.Helper()
	code, _, err := compiler.Compile(src)
	if err != nil {
		t.Fatal(err)
	}
	return newGame(code)
}

func TestGameInputFlow(t *testing.T) {
	g := newTestGame(t, "var n, f; begin read n; f := 1; while n > 1 do begin f := f * n; n := n - 1 end; write f end.")

	g.advance(stepsPerFrame)
	if !g.vm.Waiting {
		t.Fatal("expected the program to wait on read")
	}
	if g.status() != "? " {
		t.Errorf("status: %q", g.status())
	}

	for _, r := range "4x2" {
		g.typeRune(r)
	}
	g.backspace()
	g.typeRune('5')
	if string(g.input) != "45" {
		t.Fatalf("typed input: %q", string(g.input))
	}
	g.backspace()
	g.enter()
	if g.vm.Waiting || len(g.input) != 0 {
		t.Fatal("enter should submit the number")
	}

	g.advance(stepsPerFrame)
	if !g.vm.Halted {
		t.Fatal("program should halt")
	}
	rows := g.screenRows()
	want := []string{"? 4", "24", "[halted]"}
	if strings.Join(rows, "|") != strings.Join(want, "|") {
		t.Errorf("screen rows %q, want %q", rows, want)
	}
}

func TestGameIgnoresKeysWhileRunning(t *testing.T) {
	g := newTestGame(t, "var x; x := 1.")
	g.typeRune('7')
	g.enter()
	if len(g.input) != 0 {
		t.Error("keys typed before a read must be dropped")
	}
}

func TestGameNegativeInput(t *testing.T) {
	g := newTestGame(t, "var x; begin read x; write x end.")
	g.advance(10)
	for _, r := range "-3-" {
		g.typeRune(r)
	}
	if string(g.input) != "-3" {
		t.Fatalf("typed input: %q", string(g.input))
	}
	g.enter()
	g.advance(10)
	if got := g.out.String(); got != "? -3\n-3\n" {
		t.Errorf("output %q", got)
	}
}

func TestGameRuntimeError(t *testing.T) {
	g := newTestGame(t, "var x; x := 1 / x.")
	g.advance(stepsPerFrame)
	if g.err == nil {
		t.Fatal("expected division fault")
	}
	if !strings.Contains(g.status(), "division by zero") {
		t.Errorf("status: %q", g.status())
	}
}

func TestGameScrolls(t *testing.T) {
	g := newTestGame(t, "var i; while i < 100 do begin i := i + 1; write i end.")
	g.advance(stepsPerFrame)
	rows := g.screenRows()
	if len(rows) != 24 {
		t.Fatalf("expected a full screen of rows, got %d", len(rows))
	}
	if rows[0] != "78" || rows[22] != "100" || rows[23] != "[halted]" {
		t.Errorf("unexpected scroll window: first %q, last %q %q", rows[0], rows[22], rows[23])
	}
}

func TestGameDeepExpression(t *testing.T) {
	expr := "1"
	for i := 0; i < 17; i++ {
		expr = "1 + (" + expr + ")"
	}
	g := newTestGame(t, "var x; begin x := "+expr+"; write x end.")
	g.advance(stepsPerFrame)
	if g.err != nil {
		t.Fatalf("run: %v", g.err)
	}
	if rows := g.screenRows(); len(rows) != 2 || rows[0] != "18" {
		t.Errorf("screen rows %q", rows)
	}
}
