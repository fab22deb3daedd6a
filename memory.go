package ch8

import (
	"fmt"
	"strings"
)

const (
	MemorySize = 4096
	// StartOfProgram is where programs are loaded and where execution begins.
	// Everything below it is reserved for the interpreter.
	StartOfProgram = 0x200
	// EndOfMemory is the highest addressable byte.
	EndOfMemory = MemorySize - 1
	// MaxProgramSize is the largest program image that fits in memory.
	MaxProgramSize = MemorySize - StartOfProgram
)

type Memory [MemorySize]byte

// NewMemory creates an empty memory of 4096 bytes with the font installed
func NewMemory() *Memory {
	m := Memory{}
	m.loadFont()

	return &m
}

func (mem Memory) Clone() *Memory {
	m := Memory{}
	copy(m[:], mem[:])

	return &m
}

func (mem Memory) String() string {
	sb := strings.Builder{}

	sb.WriteString("[ ")
	for _, b := range mem[:StartOfProgram] {
		sb.WriteString(fmt.Sprintf("%X ", b))
	}
	sb.WriteString("]\n")
	sb.WriteString("[ ")
	for _, b := range mem[StartOfProgram:] {
		sb.WriteString(fmt.Sprintf("%X ", b))
	}
	sb.WriteString("]")

	return sb.String()
}

// Word reads the big-endian 16-bit word at addr.
func (mem *Memory) Word(addr uint16) uint16 {
	return uint16(mem[addr])<<8 | uint16(mem[addr+1])
}

// LoadProgram installs the font and copies the program at the start-of-program address.
// The rest of the program region is zeroed.
func (mem *Memory) LoadProgram(program []byte) error {
	if len(program) > MaxProgramSize {
		return ErrProgramDoesNotFitIntoMemory
	}

	mem.loadFont()
	clear(mem[StartOfProgram:])
	copy(mem[StartOfProgram:], program)

	return nil
}

// IsProgramRange reports whether every byte of [addr, addr+n) is inside the program region.
func IsProgramRange(addr uint16, n int) bool {
	return int(addr) >= StartOfProgram && int(addr)+n-1 <= EndOfMemory
}
