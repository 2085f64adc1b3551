package compiler

import (
	"fmt"
	"strings"
)

// SymbolKind distinguishes constants from variables.
type SymbolKind int

const (
	KindConst SymbolKind = iota + 1
	KindVar
)

func (k SymbolKind) String() string {
	switch k {
	case KindConst:
		return "const"
	case KindVar:
		return "var"
	default:
		return fmt.Sprintf("SymbolKind(%d)", int(k))
	}
}

const (
	// FrameHeaderSize is the number of activation record slots below the
	// first variable: function value, static link, dynamic link, return address.
	FrameHeaderSize = 4
	// MaxSymbolTableSize is the default symbol capacity.
	MaxSymbolTableSize = 200
)

type Symbol struct {
	Kind    SymbolKind
	Name    string
	Value   int // constants only
	Level   int // lexical level; always 0 in this language
	Address int // frame offset; variables only, assigned by Insert
	Valid   bool
}

// NewConstSymbol builds a level 0 constant. Constants occupy no frame slot.
func NewConstSymbol(name string, value int) Symbol {
	return Symbol{Kind: KindConst, Name: name, Value: value, Valid: true}
}

// NewVarSymbol builds a level 0 variable. Its address is left for Insert.
func NewVarSymbol(name string) Symbol {
	return Symbol{Kind: KindVar, Name: name, Valid: true}
}

// SymbolTable is an append-only list of declarations. Lookup scans from the
// newest entry, so a later declaration of a name shadows an earlier one
// without removing it. Variables receive consecutive frame addresses starting
// just above the activation record header.
type SymbolTable struct {
	symbols  []Symbol
	nextAddr int
	capacity int
}

func NewSymbolTable() *SymbolTable {
	return NewSymbolTableWithCapacity(MaxSymbolTableSize)
}

// NewSymbolTableWithCapacity returns a table holding at most capacity
// symbols. A non-positive capacity means unbounded.
func NewSymbolTableWithCapacity(capacity int) *SymbolTable {
	return &SymbolTable{nextAddr: FrameHeaderSize, capacity: capacity}
}

// Insert appends sym and returns the stored copy. Variables get the next free
// address; any address set by the caller is overwritten. Insert does not
// check for duplicates.
func (s *SymbolTable) Insert(sym Symbol) (Symbol, error) {
	if s.capacity > 0 && len(s.symbols) >= s.capacity {
		return Symbol{}, ErrSymbolTableFull
	}
	if sym.Kind == KindVar {
		sym.Address = s.nextAddr
		s.nextAddr++
	}
	sym.Valid = true
	s.symbols = append(s.symbols, sym)
	return sym, nil
}

// Lookup returns the most recently inserted valid symbol called name.
func (s *SymbolTable) Lookup(name string) (Symbol, bool) {
	for i := len(s.symbols) - 1; i >= 0; i-- {
		if s.symbols[i].Valid && s.symbols[i].Name == name {
			return s.symbols[i], true
		}
	}
	return Symbol{}, false
}

// Invalidate hides the visible symbol called name, exposing whatever it
// shadowed. It reports whether a symbol was hidden.
func (s *SymbolTable) Invalidate(name string) bool {
	for i := len(s.symbols) - 1; i >= 0; i-- {
		if s.symbols[i].Valid && s.symbols[i].Name == name {
			s.symbols[i].Valid = false
			return true
		}
	}
	return false
}

// Symbols returns a copy of every entry in insertion order, including
// invalidated ones.
func (s *SymbolTable) Symbols() []Symbol {
	out := make([]Symbol, len(s.symbols))
	copy(out, s.symbols)
	return out
}

func (s *SymbolTable) Len() int { return len(s.symbols) }

// NextAddress is the address the next variable will receive.
func (s *SymbolTable) NextAddress() int { return s.nextAddr }

// String returns a dump of the table in declaration order.
func (s *SymbolTable) String() string {
	var sb strings.Builder
	if len(s.symbols) == 0 {
		sb.WriteString("Symbols: (empty)\n")
		return sb.String()
	}
	sb.WriteString("Symbols:\n")
	fmt.Fprintf(&sb, "  %-5s  %-12s  %6s  %5s  %7s  %s\n", "Kind", "Name", "Value", "Level", "Address", "Mark")
	for _, sym := range s.symbols {
		mark := 0
		if !sym.Valid {
			mark = 1
		}
		value, addr := "-", "-"
		if sym.Kind == KindConst {
			value = fmt.Sprint(sym.Value)
		} else {
			addr = fmt.Sprint(sym.Address)
		}
		fmt.Fprintf(&sb, "  %-5s  %-12s  %6s  %5d  %7s  %d\n", sym.Kind, sym.Name, value, sym.Level, addr, mark)
	}
	return sb.String()
}
