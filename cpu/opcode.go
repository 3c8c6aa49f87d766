package cpu

import (
	"fmt"
	"iter"
)

// Word is the only value type of the machine.
type Word = int64

// Kind is an instruction kind.
type Kind int

//go:generate go tool stringer -linecomment -type=Kind
const (
	KIND_NOP         = Kind(0)  // nop
	KIND_PUSH        = Kind(1)  // push
	KIND_DUPLICATE   = Kind(2)  // duplicate
	KIND_PLUS        = Kind(3)  // plus
	KIND_MINUS       = Kind(4)  // minus
	KIND_MULTIPLY    = Kind(5)  // multiply
	KIND_DIVIDE      = Kind(6)  // divide
	KIND_JUMP        = Kind(7)  // jump
	KIND_JUMP_IF     = Kind(8)  // jump_if
	KIND_EQUAL       = Kind(9)  // equal
	KIND_HALT        = Kind(10) // halt
	KIND_PRINT_DEBUG = Kind(11) // print_debug

	kindCount = 12
)

// kindInfo describes the operand shape and stack effect of a kind.
type kindInfo struct {
	operand bool // Operand is taken from the source text.
	arity   int  // Words popped at runtime.
}

var kindTable = [kindCount]kindInfo{
	KIND_NOP:         {false, 0},
	KIND_PUSH:        {true, 0},
	KIND_DUPLICATE:   {true, 0},
	KIND_PLUS:        {false, 2},
	KIND_MINUS:       {false, 2},
	KIND_MULTIPLY:    {false, 2},
	KIND_DIVIDE:      {false, 2},
	KIND_JUMP:        {true, 0},
	KIND_JUMP_IF:     {true, 1},
	KIND_EQUAL:       {false, 2},
	KIND_HALT:        {false, 0},
	KIND_PRINT_DEBUG: {false, 1},
}

// mnemonicMap maps assembler mnemonics to kinds.
var mnemonicMap = func() map[string]Kind {
	m := make(map[string]Kind, kindCount)
	for kind := range Kinds() {
		m[kind.String()] = kind
	}
	return m
}()

// Kinds iterates over every valid instruction kind, in encoding order.
func Kinds() iter.Seq[Kind] {
	return func(yield func(Kind) bool) {
		for kind := range Kind(kindCount) {
			if !yield(kind) {
				return
			}
		}
	}
}

// LookupKind returns the kind for an assembler mnemonic.
// The match is exact and case sensitive.
func LookupKind(mnemonic string) (kind Kind, ok bool) {
	kind, ok = mnemonicMap[mnemonic]
	return
}

// Valid returns true if the kind is part of the instruction set.
func (kind Kind) Valid() bool {
	return kind >= 0 && kind < kindCount
}

// HasOperand returns true if the kind takes an operand in assembler source.
func (kind Kind) HasOperand() bool {
	if !kind.Valid() {
		return false
	}
	return kindTable[kind].operand
}

// Arity returns the number of words the kind pops from the stack.
func (kind Kind) Arity() int {
	if !kind.Valid() {
		return 0
	}
	return kindTable[kind].arity
}

// Code is a single machine instruction. The operand is only
// meaningful for kinds that declare one, but is always carried.
type Code struct {
	Kind    Kind
	Operand Word
}

// MakeCode creates an instruction, with an optional operand.
func MakeCode(kind Kind, operand ...Word) (code Code) {
	code.Kind = kind
	if len(operand) > 0 {
		code.Operand = operand[0]
	}
	return
}

// String returns the assembly language representation of this instruction.
func (code Code) String() string {
	if code.Kind.HasOperand() {
		return fmt.Sprintf("%v %d", code.Kind, code.Operand)
	}

	return code.Kind.String()
}

// Opcode represents a line of assembled code with its source location.
type Opcode struct {
	LineNo int
	Ip     int
	Words  []string
	Code   Code
}
