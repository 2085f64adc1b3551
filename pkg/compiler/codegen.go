package compiler

// MaxCodeLength is the default instruction capacity.
const MaxCodeLength = 200

// CodeGenerator is a bounded, append-only instruction buffer. Indices
// returned by Emit stay valid for the generator's lifetime and are the
// handles PatchModifier uses to resolve forward jumps.
type CodeGenerator struct {
	code     []Instruction
	capacity int
}

// NewCodeGenerator returns an empty buffer holding at most capacity
// instructions. A non-positive capacity means unbounded.
func NewCodeGenerator(capacity int) *CodeGenerator {
	if capacity <= 0 {
		return &CodeGenerator{}
	}
	return &CodeGenerator{code: make([]Instruction, 0, capacity), capacity: capacity}
}

// Emit appends ins and returns its index. A full buffer yields
// ErrCodeTooLong and leaves the buffer unchanged.
func (cg *CodeGenerator) Emit(ins Instruction) (int, error) {
	if cg.capacity > 0 && len(cg.code) >= cg.capacity {
		return -1, ErrCodeTooLong
	}
	cg.code = append(cg.code, ins)
	return len(cg.code) - 1, nil
}

// PatchModifier overwrites the M field of the instruction at index.
func (cg *CodeGenerator) PatchModifier(index, m int) error {
	if index < 0 || index >= len(cg.code) {
		return ErrInvalidPatchIndex
	}
	cg.code[index].M = m
	return nil
}

// Size is the number of instructions emitted so far, which is also the index
// the next instruction will get.
func (cg *CodeGenerator) Size() int { return len(cg.code) }

// Capacity is the configured limit, 0 when unbounded.
func (cg *CodeGenerator) Capacity() int { return cg.capacity }

// At returns the instruction stored at index.
func (cg *CodeGenerator) At(index int) (Instruction, bool) {
	if index < 0 || index >= len(cg.code) {
		return Instruction{}, false
	}
	return cg.code[index], true
}

// Instructions returns a copy of the emitted code.
func (cg *CodeGenerator) Instructions() []Instruction {
	out := make([]Instruction, len(cg.code))
	copy(out, cg.code)
	return out
}
