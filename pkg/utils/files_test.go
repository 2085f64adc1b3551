package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetPathInfo(t *testing.T) {
	full, dir, err := GetPathInfo("progs/../progs/loop.pl0")
	if err != nil {
		t.Fatal(err)
	}
	if !filepath.IsAbs(full) {
		t.Errorf("expected absolute path, got %q", full)
	}
	if filepath.Base(full) != "loop.pl0" || filepath.Base(dir) != "progs" {
		t.Errorf("got %q in %q", full, dir)
	}
}

func TestReadSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "one.pl0")
	if err := os.WriteFile(path, []byte("write x."), 0o644); err != nil {
		t.Fatal(err)
	}
	src, full, err := ReadSource(path)
	if err != nil {
		t.Fatal(err)
	}
	if src != "write x." || full != path {
		t.Errorf("got %q from %q", src, full)
	}

	if _, _, err := ReadSource(filepath.Join(t.TempDir(), "missing.pl0")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestListingPath(t *testing.T) {
	tests := map[string]string{
		"fact.pl0":     "fact.lst",
		"dir/fact":     "dir/fact.lst",
		"a.b/prog.lex": "a.b/prog.lst",
	}
	for in, want := range tests {
		if got := ListingPath(in); got != want {
			t.Errorf("ListingPath(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestIsLexemeList(t *testing.T) {
	if !IsLexemeList("tokens.lex") || !IsLexemeList("TOKENS.LEX") {
		t.Error("expected .lex to be a lexeme list")
	}
	if IsLexemeList("prog.pl0") || IsLexemeList("lex") {
		t.Error("unexpected lexeme list match")
	}
}
