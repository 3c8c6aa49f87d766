package cpu

import (
	"errors"

	"github.com/ezrec/svm/translate"
)

var f = translate.From

// Trap is an execution fault raised by a single instruction.
// A trapped instruction leaves the machine state untouched.
type Trap int

//go:generate go tool stringer -linecomment -type=Trap
const (
	TRAP_OK                         = Trap(0) // ok
	TRAP_STACK_OVERFLOW             = Trap(1) // stack overflow
	TRAP_STACK_UNDERFLOW            = Trap(2) // stack underflow
	TRAP_ILLEGAL_INSTRUCTION        = Trap(3) // illegal instruction
	TRAP_ILLEGAL_INSTRUCTION_ACCESS = Trap(4) // illegal instruction access
	TRAP_ILLEGAL_OPERAND_ZERO       = Trap(5) // illegal operand zero
	TRAP_ILLEGAL_OPERAND            = Trap(6) // illegal operand
)

func (trap Trap) Error() string {
	return f("trap %v", trap.String())
}

// TrapOf returns the trap carried by err, or TRAP_OK if there is none.
func TrapOf(err error) (trap Trap) {
	if !errors.As(err, &trap) {
		trap = TRAP_OK
	}
	return
}

var (
	// Cpu errors
	ErrHalted         = errors.New(f("cpu halted"))
	ErrChannelInvalid = errors.New(f("channel invalid"))

	// Assembler errors
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))

	// Program errors
	ErrProgramSize     = errors.New(f("program size is not a multiple of the record size"))
	ErrProgramCapacity = errors.New(f("program capacity exceeded"))
)

// ErrOpcode identifies the instruction that raised an error.
type ErrOpcode Code

func (eo ErrOpcode) Error() string {
	return f("at '%v'", Code(eo).String())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

type ErrMnemonic string

func (err ErrMnemonic) Error() string {
	return f("unknown instruction '%v'", string(err))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

// ErrFile identifies the program file involved in a failure.
type ErrFile struct {
	Path string
	Err  error
}

func (err *ErrFile) Error() string {
	return f("%v: %v", err.Path, err.Err)
}

func (err *ErrFile) Unwrap() error {
	return err.Err
}
