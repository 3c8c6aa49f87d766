package cpu

import (
	"errors"
	"fmt"
	"iter"
	"maps"

	"go.uber.org/zap"

	"github.com/ezrec/svm/io"
)

// Channel is an output channel interface.
type Channel io.Channel

var _cpu_defines = map[string]string{
	"STACK_CAPACITY":   fmt.Sprintf("%v", STACK_CAPACITY),
	"PROGRAM_CAPACITY": fmt.Sprintf("%v", PROGRAM_CAPACITY),
}

// Cpu is the machine state: an operand stack, a loaded program and an
// instruction pointer.
type Cpu struct {
	Verbose bool        // Set to enable verbose logging.
	Logger  *zap.Logger // Destination of verbose logging.

	Ip      Word     // Index of the next instruction to fetch.
	Stack   Stack    // Operand stack.
	Program *Program // Currently loaded program.
	Halted  bool     // Set by the halt instruction.

	Ticks int // Instructions retired since the last load.

	channel Channel // print_debug output.
}

// NewCpu creates a new CPU with an empty program.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{
		Logger:  zap.NewNop(),
		Program: &Program{},
	}

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("% 6s: %d\n", "ip", cpu.Ip)
	text += fmt.Sprintf("% 6s: %v\n", "halted", cpu.Halted)
	text += fmt.Sprintf("% 6s: %d\n", "ticks", cpu.Ticks)
	text += fmt.Sprintf("% 6s: %d\n", "depth", cpu.Stack.Len())

	top, ok := cpu.Stack.Peek()
	if ok {
		text += fmt.Sprintf("% 6s: %d\n", "top", top)
	} else {
		text += fmt.Sprintf("% 6s: %v\n", "top", "-")
	}

	return
}

// Load replaces the program, rewinds the instruction pointer, and
// clears the stack.
func (cpu *Cpu) Load(prog *Program) {
	if prog == nil {
		prog = &Program{}
	}

	cpu.Program = prog
	cpu.Reset()
}

// Reset the CPU state, keeping the loaded program.
func (cpu *Cpu) Reset() {
	if cpu.Program == nil {
		cpu.Program = &Program{}
	}

	cpu.logger().Debug("cpu: reset", zap.Int("codes", len(cpu.Program.Codes)))

	cpu.Ip = 0
	cpu.Halted = false
	cpu.Ticks = 0
	cpu.Stack.Reset()

	if cpu.channel != nil {
		cpu.channel.Rewind()
	}
}

// SetChannel sets the print_debug output channel.
func (cpu *Cpu) SetChannel(channel Channel) {
	cpu.channel = channel
}

// GetChannel gets the print_debug output channel.
func (cpu *Cpu) GetChannel() (channel Channel, err error) {
	if cpu.channel == nil {
		err = ErrChannelInvalid
		return
	}

	channel = cpu.channel
	return
}

func (cpu *Cpu) logger() *zap.Logger {
	if cpu.Logger == nil {
		return zap.NewNop()
	}
	return cpu.Logger
}

// FetchCode fetches the instruction at the instruction pointer.
func (cpu *Cpu) FetchCode() (code Code, err error) {
	if cpu.Program == nil || cpu.Ip < 0 || cpu.Ip >= Word(len(cpu.Program.Codes)) {
		err = TRAP_ILLEGAL_INSTRUCTION_ACCESS
		return
	}

	code = cpu.Program.Codes[cpu.Ip]
	return
}

// Step executes a single instruction cycle.
func (cpu *Cpu) Step() (err error) {
	if cpu.Halted {
		err = ErrHalted
		return
	}

	code, err := cpu.FetchCode()
	if err != nil {
		cpu.logger().Warn("cpu: fetch", zap.Int64("ip", cpu.Ip), zap.Error(err))
		return
	}

	return cpu.Execute(code)
}

// Run steps the CPU until it halts, an instruction fails, or maxSteps
// instructions have executed. Reaching maxSteps is not an error.
func (cpu *Cpu) Run(maxSteps int) (steps int, err error) {
	for steps < maxSteps && !cpu.Halted {
		err = cpu.Step()
		if err != nil {
			return
		}
		steps++
	}

	return
}

// Execute executes a single decoded instruction at the current
// instruction pointer. On failure the CPU state is unchanged.
func (cpu *Cpu) Execute(code Code) (err error) {
	defer func() {
		if err != nil {
			cpu.logger().Warn("cpu: trap",
				zap.Int64("ip", cpu.Ip),
				zap.Stringer("code", code),
				zap.Error(err))
			err = errors.Join(ErrOpcode(code), err)
		}
	}()

	if cpu.Verbose {
		cpu.logger().Debug("cpu: execute",
			zap.Int64("ip", cpu.Ip),
			zap.Stringer("code", code),
			zap.Int("depth", cpu.Stack.Len()))
	}

	next_ip := cpu.Ip + 1

	s := &cpu.Stack

	if code.Kind.Valid() && s.Len() < code.Kind.Arity() {
		err = TRAP_STACK_UNDERFLOW
		return
	}

	switch code.Kind {
	case KIND_NOP:
		// pass
	case KIND_PUSH:
		if !s.Push(code.Operand) {
			err = TRAP_STACK_OVERFLOW
			return
		}
	case KIND_DUPLICATE:
		if code.Operand < 0 {
			err = TRAP_ILLEGAL_OPERAND
			return
		}
		value, ok := s.Pick(code.Operand)
		if !ok {
			err = TRAP_STACK_UNDERFLOW
			return
		}
		if !s.Push(value) {
			err = TRAP_STACK_OVERFLOW
			return
		}
	case KIND_PLUS, KIND_MINUS, KIND_MULTIPLY, KIND_DIVIDE, KIND_EQUAL:
		b, _ := s.Pick(0)
		a, _ := s.Pick(1)
		var value Word
		value, err = cpu.doAlu(code.Kind, a, b)
		if err != nil {
			return
		}
		s.Pop()
		s.Pop()
		s.Push(value)
	case KIND_JUMP:
		// Validated by the next fetch.
		next_ip = code.Operand
	case KIND_JUMP_IF:
		value, _ := s.Pop()
		if value == 1 {
			next_ip = code.Operand
		}
	case KIND_HALT:
		next_ip = cpu.Ip
		cpu.Halted = true
	case KIND_PRINT_DEBUG:
		var channel Channel
		channel, err = cpu.GetChannel()
		if err != nil {
			return
		}
		value, _ := s.Peek()
		err = channel.Send(value)
		if err != nil {
			return
		}
		s.Pop()
	default:
		err = TRAP_ILLEGAL_INSTRUCTION
		return
	}

	cpu.Ip = next_ip
	cpu.Ticks++

	return
}

// doAlu performs a binary stack operation. a is the deeper operand and
// b the top of the stack.
func (cpu *Cpu) doAlu(kind Kind, a, b Word) (value Word, err error) {
	switch kind {
	case KIND_PLUS:
		value = a + b
	case KIND_MINUS:
		value = a - b
	case KIND_MULTIPLY:
		value = a * b
	case KIND_DIVIDE:
		if a == 0 || b == 0 {
			err = TRAP_ILLEGAL_OPERAND_ZERO
			return
		}
		value = a / b
	case KIND_EQUAL:
		if a == b {
			value = 1
		}
	default:
		err = TRAP_ILLEGAL_INSTRUCTION
	}

	return
}
