// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	goio "io"
	"iter"
	"maps"

	"go.uber.org/zap"

	"github.com/ezrec/svm/cpu"
	"github.com/ezrec/svm/internal"
	"github.com/ezrec/svm/io"
)

const (
	EXECUTION_LIMIT = 1024 // Default step budget for a run.
)

var _emulator_defines = map[string]string{
	"EXECUTION_LIMIT": fmt.Sprintf("%v", EXECUTION_LIMIT),
}

// Emulator state. CPU + program + output tape.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	Logger   *zap.Logger  // Destination of verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program.

	Tape io.Tape // print_debug output channel.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Logger:  zap.NewNop(),
		Cpu:     cpu.NewCpu(),
		Program: &cpu.Program{},
	}

	emu.Cpu.SetChannel(&emu.Tape)

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.Concat2(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
	)
}

// Reset loads the program into the CPU, rewinding it to the first
// instruction with an empty stack.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Logger = emu.Logger

	emu.Cpu.Load(emu.Program)

	if emu.Verbose {
		emu.Logger.Info("emulator: reset", zap.Int("codes", len(emu.Cpu.Program.Codes)))
	}

	return
}

// Ip returns current instruction pointer.
func (emu *Emulator) Ip() int64 {
	return emu.Cpu.Ip
}

// Code returns the current instruction code.
func (emu *Emulator) Code() (code cpu.Code, ok bool) {
	code, err := emu.Cpu.FetchCode()
	ok = err == nil
	return
}

// LineNo returns the source line number for the executing instruction,
// or 0 if the program has no listing.
func (emu *Emulator) LineNo() int {
	op := emu.Program.Debug(emu.Cpu.Ip)
	if op == nil {
		return 0
	}

	return op.LineNo
}

// Tick performs a single instruction of the emulator.
// done is set once the program has halted.
func (emu *Emulator) Tick() (done bool, err error) {
	if emu.Cpu.Halted {
		done = true
		return
	}

	lineno := emu.LineNo()
	ip := emu.Cpu.Ip
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Ip: ip, Err: err}
		}
	}()

	err = emu.Cpu.Step()
	if err != nil {
		return
	}

	done = emu.Cpu.Halted

	return
}

// Run ticks the emulator until the program halts, fails, or maxSteps
// instructions have executed. Running out of steps is not an error;
// done reports whether the program halted.
func (emu *Emulator) Run(maxSteps int) (done bool, err error) {
	for range maxSteps {
		done, err = emu.Tick()
		if done || err != nil {
			break
		}
	}

	if emu.Verbose {
		emu.Logger.Info("emulator: stopped",
			zap.Bool("halted", done),
			zap.Int("ticks", emu.Cpu.Ticks),
			zap.Error(err))
	}

	return
}

// Dump writes the stack contents, bottom first.
func (emu *Emulator) Dump(w goio.Writer) (err error) {
	_, err = fmt.Fprintf(w, "Stack:\n")
	if err != nil {
		return
	}

	if emu.Cpu.Stack.Empty() {
		_, err = fmt.Fprintf(w, "  [Stack Empty]\n")
		return
	}

	for _, value := range emu.Cpu.Stack.Data {
		_, err = fmt.Fprintf(w, "  %d\n", value)
		if err != nil {
			return
		}
	}

	return
}
