package compiler

import (
	"fmt"
	"strings"
)

// Opcode is an instruction of the register stack machine. Numbering matches
// the machine's listing format.
type Opcode int

const (
	OpLit         Opcode = iota + 1 // LIT  R, 0, M   R <- M
	OpReturn                        // RTN  0, 0, 0   return from call
	OpLoad                          // LOD  R, L, M   R <- stack[base(L)+M]
	OpStore                         // STO  R, L, M   stack[base(L)+M] <- R
	OpCall                          // CAL  0, L, M   call M
	OpIncStack                      // INC  0, 0, M   SP += M
	OpJump                          // JMP  0, 0, M   PC <- M
	OpJumpIfFalse                   // JPC  R, 0, M   if R == 0 then PC <- M
	OpWrite                         // SIO  R, 0, 1   print R
	OpRead                          // SIO  R, 0, 2   read R
	OpHalt                          // SIO  0, 0, 3   halt
	OpNeg                           // NEG  R, 0, 0   R <- -R
	OpAdd                           // ADD  R, L, M   R <- L + M
	OpSub                           // SUB  R, L, M   R <- L - M
	OpMul                           // MUL  R, L, M   R <- L * M
	OpDiv                           // DIV  R, L, M   R <- L / M
	OpOdd                           // ODD  R, 0, 0   R <- R mod 2
	OpMod                           // MOD  R, L, M   R <- L mod M
	OpEq                            // EQL  R, L, M   R <- L == M
	OpNeq                           // NEQ  R, L, M   R <- L != M
	OpLt                            // LSS  R, L, M   R <- L < M
	OpLeq                           // LEQ  R, L, M   R <- L <= M
	OpGt                            // GTR  R, L, M   R <- L > M
	OpGeq                           // GEQ  R, L, M   R <- L >= M
)

var opcodeNames = [...]string{
	OpLit:         "LIT",
	OpReturn:      "RTN",
	OpLoad:        "LOD",
	OpStore:       "STO",
	OpCall:        "CAL",
	OpIncStack:    "INC",
	OpJump:        "JMP",
	OpJumpIfFalse: "JPC",
	OpWrite:       "WRT",
	OpRead:        "RED",
	OpHalt:        "HLT",
	OpNeg:         "NEG",
	OpAdd:         "ADD",
	OpSub:         "SUB",
	OpMul:         "MUL",
	OpDiv:         "DIV",
	OpOdd:         "ODD",
	OpMod:         "MOD",
	OpEq:          "EQL",
	OpNeq:         "NEQ",
	OpLt:          "LSS",
	OpLeq:         "LEQ",
	OpGt:          "GTR",
	OpGeq:         "GEQ",
}

func (op Opcode) String() string {
	if op.Valid() {
		return opcodeNames[op]
	}
	return fmt.Sprintf("Opcode(%d)", int(op))
}

func (op Opcode) Valid() bool {
	return op >= OpLit && op <= OpGeq
}

// IsBinary reports whether op combines the registers named by L and M into R.
func (op Opcode) IsBinary() bool {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv, OpMod, OpEq, OpNeq, OpLt, OpLeq, OpGt, OpGeq:
		return true
	}
	return false
}

// IsJump reports whether M holds an instruction index.
func (op Opcode) IsJump() bool {
	return op == OpJump || op == OpJumpIfFalse || op == OpCall
}

// LookupOpcode resolves a mnemonic, case-insensitively.
func LookupOpcode(name string) (Opcode, bool) {
	name = strings.ToUpper(name)
	for op := OpLit; op <= OpGeq; op++ {
		if opcodeNames[op] == name {
			return op, true
		}
	}
	return 0, false
}

// Instruction is one machine instruction. What R, L and M mean depends on Op;
// build instructions with the constructors below rather than by hand.
type Instruction struct {
	Op Opcode
	R  int // register
	L  int // lexical level, or first operand register
	M  int // immediate, address, jump target, or second operand register
}

func (i Instruction) String() string {
	return fmt.Sprintf("%s %d %d %d", i.Op, i.R, i.L, i.M)
}

// Lit loads the immediate value into register r.
func Lit(r, value int) Instruction { return Instruction{Op: OpLit, R: r, M: value} }

// Load copies the frame slot at (level, addr) into register r.
func Load(r, level, addr int) Instruction {
	return Instruction{Op: OpLoad, R: r, L: level, M: addr}
}

// Store copies register r into the frame slot at (level, addr).
func Store(r, level, addr int) Instruction {
	return Instruction{Op: OpStore, R: r, L: level, M: addr}
}

// IncStack reserves n stack slots.
func IncStack(n int) Instruction { return Instruction{Op: OpIncStack, M: n} }

// Jump transfers control to target unconditionally.
func Jump(target int) Instruction { return Instruction{Op: OpJump, M: target} }

// JumpIfFalse transfers control to target when register r holds zero.
func JumpIfFalse(r, target int) Instruction {
	return Instruction{Op: OpJumpIfFalse, R: r, M: target}
}

// Call transfers control to target in a new activation record.
func Call(level, target int) Instruction { return Instruction{Op: OpCall, L: level, M: target} }

// Return leaves the current activation record.
func Return() Instruction { return Instruction{Op: OpReturn} }

// Write prints register r.
func Write(r int) Instruction { return Instruction{Op: OpWrite, R: r} }

// Read reads an integer into register r.
func Read(r int) Instruction { return Instruction{Op: OpRead, R: r} }

// Halt stops the machine.
func Halt() Instruction { return Instruction{Op: OpHalt} }

// Unary applies Neg or Odd to register r in place.
func Unary(op Opcode, r int) Instruction {
	if op != OpNeg && op != OpOdd {
		panic(fmt.Sprintf("compiler: %s is not a unary opcode", op))
	}
	return Instruction{Op: op, R: r}
}

// Binary computes dst <- a op b over registers.
func Binary(op Opcode, dst, a, b int) Instruction {
	if !op.IsBinary() {
		panic(fmt.Sprintf("compiler: %s is not a binary opcode", op))
	}
	return Instruction{Op: op, R: dst, L: a, M: b}
}
