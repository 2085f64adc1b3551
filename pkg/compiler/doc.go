// Package compiler provides a PL/0 lexer and a single-pass compiler that
// targets the register stack machine in package vm.
//
// Pipeline: PL/0 source → Lex → Parser.Compile → []Instruction
//
// The parser checks syntax, resolves names and emits code in one left to
// right walk over the tokens; jumps whose targets are not yet known are
// emitted as placeholders and backpatched.
package compiler
