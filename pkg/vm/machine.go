package vm

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"pl0/pkg/compiler"
)

const (
	DefaultRegisters = 16
	DefaultStackSize = 2000
)

var (
	// ErrStepLimit is returned by Run when the step budget is exhausted.
	ErrStepLimit = errors.New("vm: step limit reached")
	// ErrNeedInput is returned by Run when a read blocks and no Input reader
	// is configured.
	ErrNeedInput = errors.New("vm: waiting for input")
)

// RuntimeError is a fault raised while executing an instruction.
type RuntimeError struct {
	PC  int
	Ins compiler.Instruction
	Msg string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error at %d (%s): %s", e.PC, e.Ins, e.Msg)
}

// Options configures a Machine. Zero values select the defaults.
type Options struct {
	// Registers is the register bank size. 0 sizes it to fit the code,
	// never below DefaultRegisters.
	Registers int
	StackSize int
	MaxSteps  int // 0 for no limit

	// Input supplies integers for Read. When nil, Read blocks (Waiting) until
	// PushInput is called.
	Input io.Reader
	// Output receives one line per Write. If nil, os.Stdout is used.
	Output io.Writer
	// Trace, when set, logs every executed instruction and the machine state.
	Trace *log.Logger
}

// Machine executes compiled code. Frames live on a single stack: BP is the
// current frame's base, SP the first free slot. Slots BP+0..BP+3 hold the
// activation record header (function value, static link, dynamic link,
// return address).
type Machine struct {
	Code  []compiler.Instruction
	Regs  []int
	Stack []int

	PC int
	BP int
	SP int

	Halted  bool
	Waiting bool
	Steps   int

	// Err is the fault that halted the machine, if any.
	Err error

	at       int // index of the instruction being executed
	pending  []int
	input    *bufio.Reader
	output   io.Writer
	maxSteps int
	trace    *log.Logger
}

func New(code []compiler.Instruction, opts Options) *Machine {
	regs := opts.Registers
	if regs <= 0 {
		regs = max(DefaultRegisters, compiler.RegistersNeeded(code))
	}
	stack := opts.StackSize
	if stack <= 0 {
		stack = DefaultStackSize
	}
	m := &Machine{
		Code:     code,
		Regs:     make([]int, regs),
		Stack:    make([]int, stack),
		output:   opts.Output,
		maxSteps: opts.MaxSteps,
		trace:    opts.Trace,
	}
	if opts.Input != nil {
		m.input = bufio.NewReader(opts.Input)
	}
	return m
}

func (m *Machine) outputSink() io.Writer {
	if m.output != nil {
		return m.output
	}
	return os.Stdout
}

// PushInput queues a value for the next Read and wakes a waiting machine.
func (m *Machine) PushInput(v int) {
	m.pending = append(m.pending, v)
	m.Waiting = false
}

func (m *Machine) fault(ins compiler.Instruction, format string, args ...any) error {
	err := &RuntimeError{PC: m.at, Ins: ins, Msg: fmt.Sprintf(format, args...)}
	m.Err = err
	m.Halted = true
	return err
}

func (m *Machine) reg(ins compiler.Instruction, idx int) (*int, error) {
	if idx < 0 || idx >= len(m.Regs) {
		return nil, m.fault(ins, "register %d out of range", idx)
	}
	return &m.Regs[idx], nil
}

// base follows level static links down from the current frame.
func (m *Machine) base(ins compiler.Instruction) (int, error) {
	b := m.BP
	for level := ins.L; level > 0; level-- {
		if b+1 < 0 || b+1 >= len(m.Stack) {
			return 0, m.fault(ins, "static link at %d out of range", b+1)
		}
		b = m.Stack[b+1]
	}
	return b, nil
}

func (m *Machine) slot(ins compiler.Instruction) (*int, error) {
	b, err := m.base(ins)
	if err != nil {
		return nil, err
	}
	addr := b + ins.M
	if addr < 0 || addr >= len(m.Stack) {
		return nil, m.fault(ins, "stack address %d out of range", addr)
	}
	return &m.Stack[addr], nil
}

// nextInput returns the next value for Read. ok is false when the machine
// must wait for PushInput.
func (m *Machine) nextInput() (v int, ok bool, err error) {
	if len(m.pending) > 0 {
		v = m.pending[0]
		m.pending = m.pending[1:]
		return v, true, nil
	}
	if m.input == nil {
		return 0, false, nil
	}
	if _, err := fmt.Fscan(m.input, &v); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, false, errors.New("end of input")
		}
		return 0, false, fmt.Errorf("bad input: %v", err)
	}
	return v, true, nil
}

// Step executes one instruction. Faults halt the machine and are returned.
func (m *Machine) Step() error {
	if m.Halted {
		return m.Err
	}
	m.at = m.PC
	if m.PC < 0 || m.PC >= len(m.Code) {
		return m.fault(compiler.Instruction{}, "program counter %d outside code", m.PC)
	}

	ins := m.Code[m.PC]
	pc := m.PC
	m.PC++

	switch ins.Op {
	case compiler.OpLit:
		r, err := m.reg(ins, ins.R)
		if err != nil {
			return err
		}
		*r = ins.M

	case compiler.OpReturn:
		if m.BP == 0 {
			m.Halted = true
			break
		}
		if m.BP < 0 || m.BP+compiler.FrameHeaderSize > len(m.Stack) {
			return m.fault(ins, "frame at %d out of range", m.BP)
		}
		m.SP = m.BP
		m.PC = m.Stack[m.BP+3]
		m.BP = m.Stack[m.BP+2]

	case compiler.OpLoad:
		r, err := m.reg(ins, ins.R)
		if err != nil {
			return err
		}
		s, err := m.slot(ins)
		if err != nil {
			return err
		}
		*r = *s

	case compiler.OpStore:
		r, err := m.reg(ins, ins.R)
		if err != nil {
			return err
		}
		s, err := m.slot(ins)
		if err != nil {
			return err
		}
		*s = *r

	case compiler.OpCall:
		if m.SP+compiler.FrameHeaderSize > len(m.Stack) {
			return m.fault(ins, "stack overflow")
		}
		link, err := m.base(ins)
		if err != nil {
			return err
		}
		m.Stack[m.SP] = 0
		m.Stack[m.SP+1] = link
		m.Stack[m.SP+2] = m.BP
		m.Stack[m.SP+3] = m.PC
		m.BP = m.SP
		m.PC = ins.M

	case compiler.OpIncStack:
		if m.SP+ins.M > len(m.Stack) || m.SP+ins.M < m.BP {
			return m.fault(ins, "stack overflow")
		}
		m.SP += ins.M

	case compiler.OpJump:
		m.PC = ins.M

	case compiler.OpJumpIfFalse:
		r, err := m.reg(ins, ins.R)
		if err != nil {
			return err
		}
		if *r == 0 {
			m.PC = ins.M
		}

	case compiler.OpWrite:
		r, err := m.reg(ins, ins.R)
		if err != nil {
			return err
		}
		fmt.Fprintln(m.outputSink(), *r)

	case compiler.OpRead:
		r, err := m.reg(ins, ins.R)
		if err != nil {
			return err
		}
		v, ok, err := m.nextInput()
		if err != nil {
			return m.fault(ins, "%v", err)
		}
		if !ok {
			// Retry this instruction once input arrives.
			m.PC = pc
			m.Waiting = true
			return nil
		}
		*r = v

	case compiler.OpHalt:
		m.Halted = true

	case compiler.OpNeg, compiler.OpOdd:
		r, err := m.reg(ins, ins.R)
		if err != nil {
			return err
		}
		if ins.Op == compiler.OpNeg {
			*r = -*r
		} else {
			*r = boolInt(*r%2 != 0)
		}

	default:
		if !ins.Op.IsBinary() {
			return m.fault(ins, "invalid opcode %d", int(ins.Op))
		}
		if err := m.binary(ins); err != nil {
			return err
		}
	}

	m.Steps++
	if m.trace != nil {
		m.trace.Printf("%4d  %-12s pc=%-4d bp=%-4d sp=%-4d regs=%v", pc, ins, m.PC, m.BP, m.SP, m.Regs)
	}
	return nil
}

func (m *Machine) binary(ins compiler.Instruction) error {
	dst, err := m.reg(ins, ins.R)
	if err != nil {
		return err
	}
	pa, err := m.reg(ins, ins.L)
	if err != nil {
		return err
	}
	pb, err := m.reg(ins, ins.M)
	if err != nil {
		return err
	}
	a, b := *pa, *pb

	switch ins.Op {
	case compiler.OpAdd:
		*dst = a + b
	case compiler.OpSub:
		*dst = a - b
	case compiler.OpMul:
		*dst = a * b
	case compiler.OpDiv:
		if b == 0 {
			return m.fault(ins, "division by zero")
		}
		*dst = a / b
	case compiler.OpMod:
		if b == 0 {
			return m.fault(ins, "division by zero")
		}
		*dst = a % b
	case compiler.OpEq:
		*dst = boolInt(a == b)
	case compiler.OpNeq:
		*dst = boolInt(a != b)
	case compiler.OpLt:
		*dst = boolInt(a < b)
	case compiler.OpLeq:
		*dst = boolInt(a <= b)
	case compiler.OpGt:
		*dst = boolInt(a > b)
	case compiler.OpGeq:
		*dst = boolInt(a >= b)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// RunUntilDone steps until the machine halts, faults, or blocks on input.
func (m *Machine) RunUntilDone() error {
	for !m.Halted && !m.Waiting {
		if err := m.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Run executes until Halt. It fails with ErrNeedInput if a read blocks, with
// ErrStepLimit once the step budget is spent, or with ctx's error when
// cancelled.
func (m *Machine) Run(ctx context.Context) error {
	for !m.Halted {
		if m.Steps&0x3FF == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if m.maxSteps > 0 && m.Steps >= m.maxSteps {
			return ErrStepLimit
		}
		if err := m.Step(); err != nil {
			return err
		}
		if m.Waiting {
			return ErrNeedInput
		}
	}
	return nil
}

// State is a copy of the machine's visible state.
type State struct {
	PC, BP, SP int
	Regs       []int
	Frame      []int // Stack[BP:SP]
	Halted     bool
	Waiting    bool
	Steps      int
}

func (m *Machine) Snapshot() State {
	regs := make([]int, len(m.Regs))
	copy(regs, m.Regs)
	lo, hi := m.BP, m.SP
	if hi < lo {
		hi = lo
	}
	frame := make([]int, hi-lo)
	copy(frame, m.Stack[lo:hi])
	return State{
		PC: m.PC, BP: m.BP, SP: m.SP,
		Regs:    regs,
		Frame:   frame,
		Halted:  m.Halted,
		Waiting: m.Waiting,
		Steps:   m.Steps,
	}
}
