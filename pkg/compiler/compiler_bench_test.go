package compiler

import "testing"

// simpleSource is the smallest program touching every statement form.
const simpleSource = `
const a = 5;
var b;
begin
	read b;
	b := a + b;
	if b > 10 then write b
end.
`

// loopSource nests loops and conditionals with deeper expressions.
const loopSource = `
const limit = 100, step = 3;
var i, j, sum, tmp;
begin
	i := 0;
	sum := 0;
	while i < limit do
	begin
		j := 0;
		while j < i do
		begin
			tmp := (i * step - j) / (j + 1);
			if odd tmp then sum := sum + tmp;
			if tmp >= 50 then sum := sum - (tmp - 50) * 2;
			j := j + step
		end;
		i := i + 1
	end;
	write sum
end.
`

func BenchmarkLex(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := Lex(loopSource); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCompileSimple(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, _, err := Compile(simpleSource); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCompileLoops(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, _, err := Compile(loopSource); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkParseOnly excludes lexing to isolate the single pass.
func BenchmarkParseOnly(b *testing.B) {
	tokens, err := Lex(loopSource)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p := NewParser(tokens)
		if err := p.Compile(); err != nil {
			b.Fatal(err)
		}
	}
}
