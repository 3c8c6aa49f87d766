// Package cpu implements the stack machine and assembler for the svm system.
//
// The machine consists of an instruction pointer (IP), a bounded stack of
// 64-bit signed words, and a read-only program of at most PROGRAM_CAPACITY
// instructions. Each instruction either completes, or raises a Trap and
// leaves the machine exactly as it was before the instruction.
//
// The assembler translates one mnemonic per source line into an
// instruction, and a Program round-trips through a flat binary image of
// fixed-size records.
package cpu
