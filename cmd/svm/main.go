// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/ezrec/svm/cpu"
	"github.com/ezrec/svm/emulator"
	"github.com/ezrec/svm/translate"
)

// defineList collects repeated -D NAME=VALUE flags.
type defineList map[string]string

func (dl defineList) String() string {
	var items []string
	for name, value := range dl {
		items = append(items, name+"="+value)
	}
	return strings.Join(items, ",")
}

func (dl defineList) Set(text string) error {
	name, value, ok := strings.Cut(text, "=")
	if !ok || len(name) == 0 {
		return fmt.Errorf("expected NAME=VALUE, got %q", text)
	}
	dl[name] = value
	return nil
}

func main() {
	var compile string
	var image string
	var output string
	var steps int
	var disassemble bool
	var save bool
	var lang string
	var verbose bool
	defines := defineList{}

	flag.StringVar(&compile, "c", "", ".vasm file to compile")
	flag.StringVar(&image, "r", "", ".vm file to run")
	flag.StringVar(&output, "o", "", ".vm file to write")
	flag.IntVar(&steps, "n", emulator.EXECUTION_LIMIT, "Step budget")
	flag.BoolVar(&disassemble, "d", false, "Disassemble the program to stdout")
	flag.BoolVar(&save, "s", false, "Save the program only, do not execute")
	flag.StringVar(&lang, "lang", "", "Message language")
	flag.Var(defines, "D", "Assembler define NAME=VALUE (repeatable)")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(lang) != 0 {
		translate.SetLanguage(lang)
	}

	if len(compile) != 0 && len(image) != 0 {
		log.Fatalf("%v: -c and -r are exclusive", os.Args[0])
	}

	if len(compile) == 0 && len(image) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	logger := zap.NewNop()
	if verbose {
		var err error
		logger, err = zap.NewDevelopment()
		if err != nil {
			log.Fatalf("%v: %v", os.Args[0], err)
		}
	}
	defer logger.Sync()

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.Logger = logger

	prog := &cpu.Program{}

	// Compile a new instruction stream.
	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		asm := &cpu.Assembler{Verbose: verbose, Logger: logger}
		for name, value := range emu.Defines() {
			asm.Predefine(name, value)
		}
		for name, value := range defines {
			asm.Predefine(name, value)
		}
		prog, err = asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	}

	// Load an existing image.
	if len(image) != 0 {
		var err error
		prog, err = cpu.LoadProgram(image)
		if err != nil {
			log.Fatal(err)
		}
	}

	if len(output) != 0 {
		err := prog.Save(output)
		if err != nil {
			log.Fatal(err)
		}
	}

	if disassemble {
		err := prog.Disassemble(os.Stdout)
		if err != nil {
			log.Fatal(err)
		}
	}

	if save || disassemble {
		return
	}

	emu.Program = prog
	emu.Tape.Output = os.Stdout

	err := emu.Reset()
	if err != nil {
		log.Fatal(err)
	}

	_, err = emu.Run(steps)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		emu.Dump(os.Stderr)
		logger.Sync()
		os.Exit(1)
	}
}
