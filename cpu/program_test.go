package cpu

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgram_Debug(t *testing.T) {
	assert := assert.New(t)

	prog, err := Translate("push 1\n\n; skip\npush 2\nplus\n")
	require.NoError(t, err)

	op := prog.Debug(0)
	assert.NotNil(op)
	assert.Equal(1, op.LineNo)

	op = prog.Debug(1)
	assert.NotNil(op)
	assert.Equal(4, op.LineNo)

	op = prog.Debug(2)
	assert.NotNil(op)
	assert.Equal(5, op.LineNo)
	assert.Equal([]string{"plus"}, op.Words)

	assert.Nil(prog.Debug(3))
	assert.Nil(prog.Debug(-1))
}

func TestProgram_Binary(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{
		Codes: []Code{
			MakeCode(KIND_PUSH, 0x10),
			MakeCode(KIND_PUSH, -2),
			MakeCode(KIND_HALT),
		},
	}

	data, err := prog.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(3*RECORD_SIZE, len(data))

	assert.Equal([]byte{
		0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x10, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	}, data[0:RECORD_SIZE])
	assert.Equal([]byte{
		0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0xfe, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	}, data[RECORD_SIZE:2*RECORD_SIZE])
	assert.Equal(byte(KIND_HALT), data[2*RECORD_SIZE])
}

func TestProgram_RoundTrip(t *testing.T) {
	assert := assert.New(t)

	table := []*Program{
		{},
		{Codes: []Code{MakeCode(KIND_NOP)}},
		{Codes: []Code{
			MakeCode(KIND_PUSH, -1 << 63),
			MakeCode(KIND_PUSH, 1<<63 - 1),
			MakeCode(KIND_DUPLICATE, 3),
			MakeCode(KIND_JUMP_IF, -7),
			{Kind: -1, Operand: 5},
			{Kind: 0x7fffffff, Operand: 9},
		}},
	}

	for n, prog := range table {
		data, err := prog.MarshalBinary()
		require.NoError(t, err)

		decoded := &Program{}
		err = decoded.UnmarshalBinary(data)
		require.NoError(t, err)

		assert.True(prog.Equal(decoded), "case %d", n)
		assert.Nil(decoded.Opcodes)
	}
}

func TestProgram_RoundTripAssembled(t *testing.T) {
	assert := assert.New(t)

	prog, err := Translate("push 0\npush 1\nduplicate 1\nduplicate 1\nplus\njump 2\n")
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	n, err := prog.WriteTo(buf)
	require.NoError(t, err)
	assert.Equal(int64(6*RECORD_SIZE), n)

	decoded, err := ReadProgram(buf)
	require.NoError(t, err)
	assert.Equal(prog.Codes, decoded.Codes)
}

func TestProgram_Capacity(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{Codes: make([]Code, PROGRAM_CAPACITY+1)}
	_, err := prog.MarshalBinary()
	assert.ErrorIs(err, ErrProgramCapacity)

	full := &Program{Codes: make([]Code, PROGRAM_CAPACITY)}
	data, err := full.MarshalBinary()
	require.NoError(t, err)

	decoded := &Program{}
	assert.NoError(decoded.UnmarshalBinary(data))
	assert.Equal(PROGRAM_CAPACITY, len(decoded.Codes))

	data = append(data, make([]byte, RECORD_SIZE)...)
	err = decoded.UnmarshalBinary(data)
	assert.ErrorIs(err, ErrProgramCapacity)
	assert.Equal(PROGRAM_CAPACITY, len(decoded.Codes))

	_, err = ReadProgram(bytes.NewReader(data))
	assert.ErrorIs(err, ErrProgramCapacity)

	huge := make([]byte, 4*PROGRAM_CAPACITY*RECORD_SIZE)
	_, err = ReadProgram(bytes.NewReader(huge))
	assert.ErrorIs(err, ErrProgramCapacity)
}

func TestProgram_Size(t *testing.T) {
	assert := assert.New(t)

	original := []Code{MakeCode(KIND_HALT)}
	prog := &Program{Codes: original}

	for _, size := range []int{1, RECORD_SIZE - 1, RECORD_SIZE + 1, 3*RECORD_SIZE - 8} {
		err := prog.UnmarshalBinary(make([]byte, size))
		assert.ErrorIs(err, ErrProgramSize, "size %d", size)
		assert.Equal(original, prog.Codes)
	}
}

func TestProgram_LegacyPadding(t *testing.T) {
	assert := assert.New(t)

	// Padding bytes in legacy images are not zeroed.
	record := make([]byte, RECORD_SIZE)
	binary.LittleEndian.PutUint32(record[0:], uint32(KIND_PUSH))
	copy(record[4:8], []byte{0xde, 0xad, 0xbe, 0xef})
	binary.LittleEndian.PutUint64(record[8:], 1234)

	prog := &Program{}
	require.NoError(t, prog.UnmarshalBinary(record))
	assert.Equal([]Code{MakeCode(KIND_PUSH, 1234)}, prog.Codes)
}

func TestProgram_Disassemble(t *testing.T) {
	assert := assert.New(t)

	source := "push 0\npush 1\nduplicate 1\nduplicate 1\nplus\njump 2\nprint_debug\nhalt\n"
	prog, err := Translate(source)
	require.NoError(t, err)

	out := &strings.Builder{}
	require.NoError(t, prog.Disassemble(out))
	assert.Equal(source, out.String())

	again, err := Translate(out.String())
	require.NoError(t, err)
	assert.True(prog.Equal(again))
}

func TestProgram_File(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "fib.vm")

	prog, err := Translate("push 100\npush 50\ndivide\nhalt\n")
	require.NoError(t, err)

	require.NoError(t, prog.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(int64(4*RECORD_SIZE), info.Size())

	loaded, err := LoadProgram(path)
	require.NoError(t, err)
	assert.True(prog.Equal(loaded))
}

func TestProgram_FileErrors(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()

	missing := filepath.Join(dir, "missing.vm")
	_, err := LoadProgram(missing)
	assert.ErrorIs(err, fs.ErrNotExist)
	var ferr *ErrFile
	if assert.True(errors.As(err, &ferr)) {
		assert.Equal(missing, ferr.Path)
	}
	assert.Contains(err.Error(), missing)

	odd := filepath.Join(dir, "odd.vm")
	require.NoError(t, os.WriteFile(odd, make([]byte, RECORD_SIZE+3), 0644))
	_, err = LoadProgram(odd)
	assert.ErrorIs(err, ErrProgramSize)

	prog := &Program{}
	err = prog.Save(filepath.Join(dir, "no", "such", "dir.vm"))
	assert.ErrorIs(err, fs.ErrNotExist)
	assert.True(errors.As(err, &ferr))
}
