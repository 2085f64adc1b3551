package compiler

import (
	"errors"
	"testing"
)

func TestCodeGeneratorEmit(t *testing.T) {
	cg := NewCodeGenerator(3)

	for i, ins := range []Instruction{IncStack(4), Lit(0, 9), Halt()} {
		idx, err := cg.Emit(ins)
		if err != nil {
			t.Fatalf("emit %d: %v", i, err)
		}
		if idx != i {
			t.Errorf("emit %d: got index %d", i, idx)
		}
	}

	if _, err := cg.Emit(Halt()); !errors.Is(err, ErrCodeTooLong) {
		t.Fatalf("expected ErrCodeTooLong on a full buffer, got %v", err)
	}
	if cg.Size() != 3 {
		t.Errorf("failed emit changed size to %d", cg.Size())
	}
	if cg.Capacity() != 3 {
		t.Errorf("capacity: expected 3, got %d", cg.Capacity())
	}

	ins, ok := cg.At(1)
	if !ok || ins != Lit(0, 9) {
		t.Errorf("At(1): got %v %v", ins, ok)
	}
	if _, ok := cg.At(3); ok {
		t.Error("At past the end should fail")
	}
	if _, ok := cg.At(-1); ok {
		t.Error("At(-1) should fail")
	}
}

func TestCodeGeneratorUnbounded(t *testing.T) {
	for _, capacity := range []int{0, -1} {
		cg := NewCodeGenerator(capacity)
		for i := 0; i < MaxCodeLength*2; i++ {
			if _, err := cg.Emit(Halt()); err != nil {
				t.Fatalf("capacity %d, emit %d: %v", capacity, i, err)
			}
		}
		if cg.Capacity() != 0 {
			t.Errorf("capacity %d: Capacity() = %d, want 0", capacity, cg.Capacity())
		}
	}
}

func TestCodeGeneratorPatch(t *testing.T) {
	cg := NewCodeGenerator(MaxCodeLength)
	jpc, _ := cg.Emit(JumpIfFalse(0, 0))
	cg.Emit(Lit(0, 1))

	if err := cg.PatchModifier(jpc, cg.Size()); err != nil {
		t.Fatal(err)
	}
	ins, _ := cg.At(jpc)
	if ins != JumpIfFalse(0, 2) {
		t.Errorf("patched jump: got %v", ins)
	}

	for _, bad := range []int{-1, 2, 100} {
		if err := cg.PatchModifier(bad, 0); !errors.Is(err, ErrInvalidPatchIndex) {
			t.Errorf("patch %d: expected ErrInvalidPatchIndex, got %v", bad, err)
		}
	}
}

func TestCodeGeneratorInstructionsIsCopy(t *testing.T) {
	cg := NewCodeGenerator(MaxCodeLength)
	cg.Emit(Lit(0, 1))
	code := cg.Instructions()
	code[0].M = 42
	if ins, _ := cg.At(0); ins.M != 1 {
		t.Errorf("mutating Instructions() result leaked into the buffer: %v", ins)
	}
}

func TestInstructionConstructors(t *testing.T) {
	tests := []struct {
		ins  Instruction
		want string
	}{
		{Lit(2, 7), "LIT 2 0 7"},
		{Load(1, 0, 5), "LOD 1 0 5"},
		{Store(0, 0, 4), "STO 0 0 4"},
		{IncStack(4), "INC 0 0 4"},
		{Jump(12), "JMP 0 0 12"},
		{JumpIfFalse(0, 9), "JPC 0 0 9"},
		{Call(1, 3), "CAL 0 1 3"},
		{Return(), "RTN 0 0 0"},
		{Write(1), "WRT 1 0 0"},
		{Read(1), "RED 1 0 0"},
		{Halt(), "HLT 0 0 0"},
		{Unary(OpNeg, 3), "NEG 3 0 0"},
		{Unary(OpOdd, 0), "ODD 0 0 0"},
		{Binary(OpAdd, 0, 0, 1), "ADD 0 0 1"},
		{Binary(OpGeq, 1, 1, 2), "GEQ 1 1 2"},
	}
	for _, tt := range tests {
		if got := tt.ins.String(); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}
}

func TestInstructionConstructorsRejectWrongFamily(t *testing.T) {
	mustPanic := func(name string, f func()) {
		t.Helper()
		defer func() {
			if recover() == nil {
				t.Errorf("%s: expected panic", name)
			}
		}()
		f()
	}
	mustPanic("Unary(ADD)", func() { Unary(OpAdd, 0) })
	mustPanic("Binary(NEG)", func() { Binary(OpNeg, 0, 0, 1) })
}

func TestOpcodes(t *testing.T) {
	if OpLit != 1 || OpLt != 21 || OpGeq != 24 {
		t.Fatalf("opcode numbering changed: LIT=%d LSS=%d GEQ=%d", OpLit, OpLt, OpGeq)
	}
	for op := OpLit; op <= OpGeq; op++ {
		got, ok := LookupOpcode(op.String())
		if !ok || got != op {
			t.Errorf("LookupOpcode(%q) = %v, %v", op.String(), got, ok)
		}
	}
	if op, ok := LookupOpcode("add"); !ok || op != OpAdd {
		t.Errorf("lowercase mnemonic: got %v %v", op, ok)
	}
	if _, ok := LookupOpcode("NOP"); ok {
		t.Error("NOP is not an opcode")
	}
	if Opcode(0).Valid() || Opcode(25).Valid() {
		t.Error("out of range opcodes must be invalid")
	}
	if !OpJumpIfFalse.IsJump() || OpAdd.IsJump() {
		t.Error("IsJump misclassifies")
	}
	if !OpLt.IsBinary() || OpOdd.IsBinary() {
		t.Error("IsBinary misclassifies")
	}
}
