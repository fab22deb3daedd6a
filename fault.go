package ch8

import (
	"errors"

	"github.com/guslan/ch8/internal/translate"
)

var f = translate.From

var (
	// ErrHalted is returned by Step once the program requested an exit.
	// It is a normal termination signal, not a fault.
	ErrHalted = errors.New(f("the program requested an exit"))

	ErrProgramDoesNotFitIntoMemory = errors.New(f("the program does not fit into memory"))
	ErrInvalidKey                  = errors.New(f("key codes must be in the range [0x0, 0xF]"))
)

// FaultKind classifies a fatal machine fault.
type FaultKind uint8

const (
	// MemoryProtectionFault is raised when the program counter or a program-issued
	// memory transfer leaves the program region [0x200, 0xFFF].
	MemoryProtectionFault FaultKind = iota + 1
	// StackFault is raised on a call with a full stack or a return with an empty one.
	StackFault
	// DecodeFault is raised when an instruction word is not part of the instruction set.
	DecodeFault
)

func (k FaultKind) String() string {
	switch k {
	case MemoryProtectionFault:
		return "memory protection fault"
	case StackFault:
		return "stack fault"
	case DecodeFault:
		return "decode fault"
	}

	return "unknown fault"
}

// Fault is a fatal error raised while executing an instruction.
// Pc is the address the faulting instruction was fetched from.
type Fault struct {
	Kind   FaultKind
	OpCode uint16
	Pc     uint16
	// Addr is the offending memory address for memory protection faults.
	Addr uint16
	// Reason is a short human readable detail, like "stack overflow".
	Reason string
}

func (err Fault) Error() string {
	if err.Kind == MemoryProtectionFault {
		return f("%v: %v at address 0x%03X (opcode=0x%04X, PC=0x%03X)", err.Kind, err.Reason, err.Addr, err.OpCode, err.Pc)
	}

	return f("%v: %v (opcode=0x%04X, PC=0x%03X)", err.Kind, err.Reason, err.OpCode, err.Pc)
}

// Is reports whether target is a Fault of the same kind.
func (err Fault) Is(target error) bool {
	var other Fault
	if !errors.As(target, &other) {
		return false
	}

	return other.Kind == err.Kind
}

// Sentinels for errors.Is matching on the fault kind.
var (
	ErrMemoryProtection = Fault{Kind: MemoryProtectionFault}
	ErrStack            = Fault{Kind: StackFault}
	ErrDecode           = Fault{Kind: DecodeFault}
)

// FaultKindOf returns the kind of the fault wrapped in err, if any.
func FaultKindOf(err error) (FaultKind, bool) {
	var fault Fault
	if errors.As(err, &fault) {
		return fault.Kind, true
	}

	return 0, false
}
