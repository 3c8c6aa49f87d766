package cpu

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/svm/io"
)

func FuzzCpu(f *testing.F) {
	for kind := range Kinds() {
		f.Add(int(kind), int64(0), uint8(0), int64(0))
		f.Add(int(kind), int64(1), uint8(2), int64(1))
		f.Add(int(kind), int64(-1), uint8(3), int64(0))
	}
	f.Add(99, int64(0), uint8(1), int64(0))

	f.Fuzz(func(t *testing.T, rawKind int, operand int64, depth uint8, fill int64) {
		assert := assert.New(t)

		code := Code{Kind: Kind(rawKind), Operand: operand}

		cpu := NewCpu()
		out := &io.Temporary{Capacity: 1}
		cpu.SetChannel(out)
		cpu.Load(&Program{Codes: []Code{code, MakeCode(KIND_NOP)}})

		for n := range int(depth) % 8 {
			cpu.Stack.Push(fill + Word(n))
		}

		before := slices.Clone(cpu.Stack.Data)

		err := cpu.Step()
		if err != nil {
			trap := TrapOf(err)
			assert.NotEqual(TRAP_OK, trap, "%v: %v", code, err)
			assert.Equal(Word(0), cpu.Ip)
			assert.Equal(before, cpu.Stack.Data)
			assert.False(cpu.Halted)
			assert.Equal(0, cpu.Ticks)
			return
		}

		assert.Equal(1, cpu.Ticks)
		assert.LessOrEqual(cpu.Stack.Len(), STACK_CAPACITY)

		switch code.Kind {
		case KIND_HALT:
			assert.True(cpu.Halted)
			assert.ErrorIs(cpu.Step(), ErrHalted)
		case KIND_JUMP:
			assert.Equal(operand, cpu.Ip)
		case KIND_JUMP_IF:
			if before[len(before)-1] == 1 {
				assert.Equal(operand, cpu.Ip)
			} else {
				assert.Equal(Word(1), cpu.Ip)
			}
		default:
			assert.Equal(Word(1), cpu.Ip)
		}

		popped := code.Kind.Arity()
		pushed := 0
		switch code.Kind {
		case KIND_PUSH, KIND_DUPLICATE, KIND_PLUS, KIND_MINUS, KIND_MULTIPLY, KIND_DIVIDE, KIND_EQUAL:
			pushed = 1
		}
		assert.Equal(len(before)-popped+pushed, cpu.Stack.Len(), code.String())
	})
}

func FuzzProgram(f *testing.F) {
	f.Add([]byte{})
	f.Add(make([]byte, RECORD_SIZE))
	f.Add(make([]byte, RECORD_SIZE+1))

	f.Fuzz(func(t *testing.T, data []byte) {
		assert := assert.New(t)

		prog := &Program{}
		err := prog.UnmarshalBinary(data)
		if err != nil {
			assert.True(errors.Is(err, ErrProgramSize) || errors.Is(err, ErrProgramCapacity))
			assert.Nil(prog.Codes)
			return
		}

		assert.Equal(len(data)/RECORD_SIZE, len(prog.Codes))

		again, err := prog.MarshalBinary()
		assert.NoError(err)

		decoded := &Program{}
		assert.NoError(decoded.UnmarshalBinary(again))
		assert.True(prog.Equal(decoded))

		// Running garbage never panics, and traps leave the stack intact.
		cpu := NewCpu()
		cpu.SetChannel(&io.Temporary{Capacity: 64})
		cpu.Load(prog)
		_, err = cpu.Run(64)
		if err != nil {
			assert.NotEqual(TRAP_OK, TrapOf(err))
		}
		assert.LessOrEqual(cpu.Stack.Len(), STACK_CAPACITY)
	})
}
