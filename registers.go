package ch8

const (
	// StackSize is the maximum call depth.
	StackSize = 16
	// HaltSentinel is the program counter value of a program that requested an exit.
	HaltSentinel = 0x000
	// FlagRegister is the index of VF.
	FlagRegister = 0xF
)

// Registers is the register file of the machine.
type Registers struct {
	// V 8-bit registers
	V [16]byte
	// I 16-bit register (12-bit usable)
	I uint16
	// Program counter
	Pc uint16
	// Stack pointer, the number of return addresses in Stack
	Sp byte
	// Stack
	Stack [StackSize]uint16
	// Delay timer register
	Dt byte
	// Sound timer register
	St byte
	// Key latch
	Key KeyLatch
}

func newRegisters() Registers {
	return Registers{Pc: StartOfProgram}
}

func (r *Registers) push(addr uint16) bool {
	if r.Sp >= StackSize {
		return false
	}
	r.Stack[r.Sp] = addr
	r.Sp++

	return true
}

func (r *Registers) pop() (uint16, bool) {
	if r.Sp == 0 {
		return 0, false
	}
	r.Sp--

	return r.Stack[r.Sp], true
}

func bool2byte(b bool) byte {
	if b {
		return 1
	}

	return 0
}
