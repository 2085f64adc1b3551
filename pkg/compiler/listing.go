package compiler

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatListing renders code one instruction per line as
// "index  MNEMONIC  R L M". The header line is a comment, so the output
// parses back with ParseListing.
func FormatListing(code []Instruction) string {
	var sb strings.Builder
	sb.WriteString("; line  op   r  l  m\n")
	for i, ins := range code {
		fmt.Fprintf(&sb, "%6d  %-3s %2d %2d %2d\n", i, ins.Op, ins.R, ins.L, ins.M)
	}
	return sb.String()
}

// FormatNumeric renders code as bare "op r l m" numbers, one instruction per
// line, the form stack machine loaders traditionally read.
func FormatNumeric(code []Instruction) string {
	var sb strings.Builder
	for _, ins := range code {
		fmt.Fprintf(&sb, "%d %d %d %d\n", int(ins.Op), ins.R, ins.L, ins.M)
	}
	return sb.String()
}

// ParseListing reads code written by FormatListing or FormatNumeric. Each
// non-blank line is "[index] op r l m", where op is a mnemonic or an opcode
// number and fields may be separated by spaces or commas. Text after ";" or
// "//" is ignored. An index, when present, must match the line's position.
func ParseListing(text string) ([]Instruction, error) {
	var code []Instruction
	for i, raw := range strings.Split(text, "\n") {
		lineNo := i + 1
		line := strings.TrimSpace(stripComments(raw))
		if line == "" {
			continue
		}
		fields := strings.Fields(strings.ReplaceAll(line, ",", " "))
		switch len(fields) {
		case 4:
		case 5:
			idx, err := strconv.Atoi(fields[0])
			if err != nil {
				return nil, fmt.Errorf("invalid instruction index %q on line %d", fields[0], lineNo)
			}
			if idx != len(code) {
				return nil, fmt.Errorf("instruction index %d on line %d, expected %d", idx, lineNo, len(code))
			}
			fields = fields[1:]
		default:
			return nil, fmt.Errorf("expected op r l m on line %d, got %d fields", lineNo, len(fields))
		}

		op, err := parseOpcode(fields[0], lineNo)
		if err != nil {
			return nil, err
		}
		var operands [3]int
		for j, f := range fields[1:] {
			v, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("invalid operand %q on line %d", f, lineNo)
			}
			operands[j] = v
		}
		code = append(code, Instruction{Op: op, R: operands[0], L: operands[1], M: operands[2]})
	}
	return code, nil
}

func parseOpcode(token string, lineNo int) (Opcode, error) {
	if n, err := strconv.Atoi(token); err == nil {
		if op := Opcode(n); op.Valid() {
			return op, nil
		}
		return 0, fmt.Errorf("unknown opcode %d on line %d", n, lineNo)
	}
	if op, ok := LookupOpcode(token); ok {
		return op, nil
	}
	return 0, fmt.Errorf("unknown mnemonic '%s' on line %d", token, lineNo)
}

func stripComments(line string) string {
	semicolon := strings.Index(line, ";")
	doubleSlash := strings.Index(line, "//")

	cut := -1
	if semicolon >= 0 {
		cut = semicolon
	}
	if doubleSlash >= 0 && (cut == -1 || doubleSlash < cut) {
		cut = doubleSlash
	}
	if cut >= 0 {
		return line[:cut]
	}
	return line
}
