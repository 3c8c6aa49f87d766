package cpu

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"iter"
	"os"
	"slices"
)

const (
	PROGRAM_CAPACITY = 1024 // Maximum instructions in a program.
	RECORD_SIZE      = 16   // Bytes per serialized instruction.
)

// Program is an ordered sequence of instructions. Opcodes is the
// assembler listing, and is empty for programs loaded from a binary image.
type Program struct {
	Codes   []Code
	Opcodes []Opcode
}

// Debug returns the listing entry for an instruction index, or nil if
// the program has no listing for it.
func (prog *Program) Debug(ip Word) (op *Opcode) {
	if prog == nil {
		return
	}

	for n := range prog.Opcodes {
		if Word(prog.Opcodes[n].Ip) == ip {
			op = &prog.Opcodes[n]
			break
		}
	}

	return
}

// All iterates over the instructions and their indexes.
func (prog *Program) All() iter.Seq2[int, Code] {
	return slices.All(prog.Codes)
}

// Equal returns true if both programs hold the same instructions.
func (prog *Program) Equal(other *Program) bool {
	return slices.Equal(prog.Codes, other.Codes)
}

// Disassemble writes the program as assembler source.
func (prog *Program) Disassemble(w io.Writer) (err error) {
	for _, code := range prog.All() {
		_, err = fmt.Fprintln(w, code.String())
		if err != nil {
			return
		}
	}

	return
}

// Record layout: uint32 kind, 4 bytes of padding, int64 operand, little
// endian. Legacy .vm images use the same layout, with
// unzeroed padding.

// MarshalBinary encodes the program as a flat array of records.
func (prog *Program) MarshalBinary() (data []byte, err error) {
	if len(prog.Codes) > PROGRAM_CAPACITY {
		err = ErrProgramCapacity
		return
	}

	data = make([]byte, 0, len(prog.Codes)*RECORD_SIZE)
	for _, code := range prog.Codes {
		data = binary.LittleEndian.AppendUint32(data, uint32(code.Kind))
		data = binary.LittleEndian.AppendUint32(data, 0)
		data = binary.LittleEndian.AppendUint64(data, uint64(code.Operand))
	}

	return
}

// UnmarshalBinary decodes a flat array of records. The receiver is
// only modified on success. Unknown kinds are kept as-is, and trap
// when executed.
func (prog *Program) UnmarshalBinary(data []byte) (err error) {
	if len(data)%RECORD_SIZE != 0 {
		err = ErrProgramSize
		return
	}

	count := len(data) / RECORD_SIZE
	if count > PROGRAM_CAPACITY {
		err = ErrProgramCapacity
		return
	}

	codes := make([]Code, count)
	for n := range codes {
		record := data[n*RECORD_SIZE : (n+1)*RECORD_SIZE]
		codes[n] = Code{
			Kind:    Kind(int32(binary.LittleEndian.Uint32(record[0:4]))),
			Operand: Word(binary.LittleEndian.Uint64(record[8:16])),
		}
	}

	prog.Codes = codes
	prog.Opcodes = nil

	return
}

// WriteTo writes the binary image of the program.
func (prog *Program) WriteTo(w io.Writer) (n int64, err error) {
	data, err := prog.MarshalBinary()
	if err != nil {
		return
	}

	written, err := w.Write(data)
	n = int64(written)
	return
}

// ReadProgram reads a binary program image until EOF.
func ReadProgram(r io.Reader) (prog *Program, err error) {
	// One record past capacity is enough to detect an oversized image.
	limit := int64((PROGRAM_CAPACITY + 1) * RECORD_SIZE)

	buf := &bytes.Buffer{}
	_, err = buf.ReadFrom(io.LimitReader(r, limit))
	if err != nil {
		return
	}

	p := &Program{}
	err = p.UnmarshalBinary(buf.Bytes())
	if err != nil {
		return
	}

	prog = p
	return
}

// Save writes the binary image of the program to a file.
func (prog *Program) Save(path string) (err error) {
	defer func() {
		if err != nil {
			err = &ErrFile{Path: path, Err: err}
		}
	}()

	data, err := prog.MarshalBinary()
	if err != nil {
		return
	}

	err = os.WriteFile(path, data, 0644)
	return
}

// LoadProgram reads a binary program image from a file.
func LoadProgram(path string) (prog *Program, err error) {
	inf, err := os.Open(path)
	if err != nil {
		err = &ErrFile{Path: path, Err: err}
		return
	}
	defer inf.Close()

	prog, err = ReadProgram(inf)
	if err != nil {
		err = &ErrFile{Path: path, Err: err}
	}

	return
}
