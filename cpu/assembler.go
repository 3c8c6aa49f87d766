// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
	"go.uber.org/zap"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":           "0",
	"STACK_CAPACITY":   fmt.Sprintf("%v", STACK_CAPACITY),
	"PROGRAM_CAPACITY": fmt.Sprintf("%v", PROGRAM_CAPACITY),
	"RECORD_SIZE":      fmt.Sprintf("%v", RECORD_SIZE),
}

var parenRe = regexp.MustCompile(`\$\([^\$]*\)`)

// Assembler is a single pass assembler for the svm instruction set.
//
// Each source line holds at most one instruction, `mnemonic[ operand]`.
// Text after ';' is a comment, and blank lines produce no instruction.
// Operands are base 10 integers, or $(...) expressions over the
// predefined constants. Jump targets are instruction indexes; there
// are no labels.
type Assembler struct {
	Verbose bool        // If set, verbosely logs the assembler actions.
	Logger  *zap.Logger // Destination of verbose logging.
	Opcode  []Opcode    // List of generated opcodes.

	predefine map[string]string // Predefines
	Equate    map[string]string // Map of equates visible to $(...).
}

// Predefine defines a new constant or redefines an existing one.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// Translate assembles source text into a program.
func Translate(source string) (prog *Program, err error) {
	asm := &Assembler{}
	return asm.Parse(strings.NewReader(source))
}

// valueOf returns the value of an operand word.
func (asm *Assembler) valueOf(word string) (value Word, err error) {
	value, err = strconv.ParseInt(word, 10, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value Word, err error) {
	thread := starlark.Thread{Name: "asm"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		v64, err := strconv.ParseInt(str, 0, 64)
		if err != nil {
			// Ignore non-integer equates.
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = ErrParseExpression(expr)
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// parseLine expands a single line into words.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	line = parenRe.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			if err == nil {
				err = _err
			}
			return str
		}
		return strconv.FormatInt(value, 10)
	})
	if err != nil {
		return
	}

	words = strings.Fields(line)

	return
}

// Parse parses an input stream into a Program. The first malformed line
// aborts the parse.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			prog = nil
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	if asm.Logger == nil {
		asm.Logger = zap.NewNop()
	}

	asm.Opcode = asm.Opcode[:0]
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			asm.Logger.Debug("asm: line", zap.Int("lineno", lineno), zap.String("text", text))
		}

		code, _, _ := strings.Cut(text, ";")
		line = strings.TrimSpace(code)

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}
	for _, op := range asm.Opcode {
		prog.Codes = append(prog.Codes, op.Code)
	}

	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	// no-op
	if len(words) == 0 {
		return
	}

	kind, ok := LookupKind(words[0])
	if !ok {
		err = ErrMnemonic(words[0])
		return
	}

	code := MakeCode(kind)
	if kind.HasOperand() {
		if len(words) < 2 {
			err = ErrOpcodeValueMissing
			return
		}
		if len(words) > 2 {
			err = ErrOpcodeExtraArgs
			return
		}
		code.Operand, err = asm.valueOf(words[1])
		if err != nil {
			return
		}
	} else if len(words) > 1 {
		err = ErrOpcodeExtraArgs
		return
	}

	if len(asm.Opcode) >= PROGRAM_CAPACITY {
		err = ErrProgramCapacity
		return
	}

	asm.Opcode = append(asm.Opcode, Opcode{
		LineNo: lineno,
		Ip:     len(asm.Opcode),
		Words:  words,
		Code:   code,
	})

	return
}
