package vm

import (
	"context"
	"io"
	"testing"

	"pl0/pkg/compiler"
)

// BenchmarkDispatch measures the raw Step loop on a tight counting loop.
func BenchmarkDispatch(b *testing.B) {
	code, _, err := compiler.Compile("var i; begin i := 0; while i < 10000 do i := i + 1 end.")
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m := New(code, Options{Output: io.Discard})
		if err := m.Run(context.Background()); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkWrite includes the cost of formatting output.
func BenchmarkWrite(b *testing.B) {
	code, _, err := compiler.Compile("var i; while i < 1000 do begin i := i + 1; write i end.")
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m := New(code, Options{Output: io.Discard})
		if err := m.Run(context.Background()); err != nil {
			b.Fatal(err)
		}
	}
}
