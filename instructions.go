package ch8

// Instruction is a 16-bit instruction word.
type Instruction uint16

// Instructions identified by the whole word.
const (
	OpExit   Instruction = 0x0000
	OpClear  Instruction = 0x00E0
	OpReturn Instruction = 0x00EE
)

// Family is the instruction family selected by the top nibble of the word.
type Family uint8

const (
	FamilySystem Family = iota
	FamilyJump
	FamilyCall
	FamilySkipEqImm
	FamilySkipNeImm
	FamilySkipEqReg
	FamilyLoadImm
	FamilyAddImm
	FamilyALU
	FamilySkipNeReg
	FamilySetIndex
	FamilyJumpOffset
	FamilyRandom
	FamilyDraw
	FamilyKey
	FamilyMisc
)

// ALU selectors, the low nibble of 8XYN.
const (
	AluLoad byte = 0x0
	AluOr   byte = 0x1
	AluAnd  byte = 0x2
	AluXor  byte = 0x3
	AluAdd  byte = 0x4
	AluSub  byte = 0x5
	AluShr  byte = 0x6
	AluSubn byte = 0x7
	AluShl  byte = 0xE
)

// Key selectors, the low byte of EXKK.
const (
	KeySkipPressed    byte = 0x9E
	KeySkipNotPressed byte = 0xA1
)

// Miscellaneous selectors, the low byte of FXKK.
const (
	MiscGetDelay  byte = 0x07
	MiscWaitKey   byte = 0x0A
	MiscSetDelay  byte = 0x15
	MiscSetSound  byte = 0x18
	MiscAddIndex  byte = 0x1E
	MiscGlyph     byte = 0x29
	MiscDecimal   byte = 0x33
	MiscStoreRegs byte = 0x55
	MiscLoadRegs  byte = 0x65
)

func (op Instruction) Family() Family { return Family(op >> 12) }
func (op Instruction) X() uint16      { return uint16(op&0x0F00) >> 8 }
func (op Instruction) Y() uint16      { return uint16(op&0x00F0) >> 4 }
func (op Instruction) N() byte        { return byte(op & 0x000F) }
func (op Instruction) KK() byte       { return byte(op & 0x00FF) }
func (op Instruction) NNN() uint16    { return uint16(op & 0x0FFF) }

type instructionHandler func(cpu *Cpu, op Instruction) error

var families = [16]instructionHandler{
	FamilySystem:     (*Cpu).execSystem,
	FamilyJump:       (*Cpu).execJump,
	FamilyCall:       (*Cpu).execCall,
	FamilySkipEqImm:  (*Cpu).execSkipEqImm,
	FamilySkipNeImm:  (*Cpu).execSkipNeImm,
	FamilySkipEqReg:  (*Cpu).execSkipEqReg,
	FamilyLoadImm:    (*Cpu).execLoadImm,
	FamilyAddImm:     (*Cpu).execAddImm,
	FamilyALU:        (*Cpu).execALU,
	FamilySkipNeReg:  (*Cpu).execSkipNeReg,
	FamilySetIndex:   (*Cpu).execSetIndex,
	FamilyJumpOffset: (*Cpu).execJumpOffset,
	FamilyRandom:     (*Cpu).execRandom,
	FamilyDraw:       (*Cpu).execDraw,
	FamilyKey:        (*Cpu).execKey,
	FamilyMisc:       (*Cpu).execMisc,
}

// executeInstruction runs op. The program counter already points past it.
func (cpu *Cpu) executeInstruction(op Instruction) error {
	switch op {
	case OpExit:
		cpu.Pc = HaltSentinel
		return nil

	case OpClear:
		cpu.screen.Clear()
		cpu.isScreenDirty = true
		return nil

	case OpReturn:
		pc, ok := cpu.pop()
		if !ok {
			return Fault{Kind: StackFault, Reason: "stack underflow"}
		}
		cpu.Pc = pc
		return nil
	}

	return families[op.Family()](cpu, op)
}

func decodeFault(reason string) error {
	return Fault{Kind: DecodeFault, Reason: reason}
}

func protectionFault(addr uint16, reason string) error {
	return Fault{Kind: MemoryProtectionFault, Addr: addr, Reason: reason}
}

// SYS addr :: Jump to a machine code routine at nnn.
// Only served when a MachineRoutineInterpreter is configured.
func (cpu *Cpu) execSystem(op Instruction) error {
	if cpu.MachineRoutineInterpreter == nil {
		return decodeFault("unknown instruction")
	}

	return cpu.MachineRoutineInterpreter(uint16(op), cpu)
}

// JP addr :: Jump to location nnn.
func (cpu *Cpu) execJump(op Instruction) error {
	cpu.Pc = op.NNN()
	return nil
}

// CALL addr :: Call subroutine at nnn.
func (cpu *Cpu) execCall(op Instruction) error {
	if !cpu.push(cpu.Pc) {
		return Fault{Kind: StackFault, Reason: "stack overflow"}
	}
	cpu.Pc = op.NNN()

	return nil
}

func (cpu *Cpu) skipIf(cond bool) {
	if cond {
		cpu.Pc += 2
	}
}

// SE Vx, byte :: Skip next instruction if Vx = kk.
func (cpu *Cpu) execSkipEqImm(op Instruction) error {
	cpu.skipIf(cpu.V[op.X()] == op.KK())
	return nil
}

// SNE Vx, byte :: Skip next instruction if Vx != kk.
func (cpu *Cpu) execSkipNeImm(op Instruction) error {
	cpu.skipIf(cpu.V[op.X()] != op.KK())
	return nil
}

// SE Vx, Vy :: Skip next instruction if Vx = Vy.
func (cpu *Cpu) execSkipEqReg(op Instruction) error {
	if op.N() != 0 {
		return decodeFault("unknown register comparison")
	}
	cpu.skipIf(cpu.V[op.X()] == cpu.V[op.Y()])

	return nil
}

// SNE Vx, Vy :: Skip next instruction if Vx != Vy.
func (cpu *Cpu) execSkipNeReg(op Instruction) error {
	if op.N() != 0 {
		return decodeFault("unknown register comparison")
	}
	cpu.skipIf(cpu.V[op.X()] != cpu.V[op.Y()])

	return nil
}

// LD Vx, byte :: Set Vx = kk.
func (cpu *Cpu) execLoadImm(op Instruction) error {
	cpu.V[op.X()] = op.KK()
	return nil
}

// ADD Vx, byte :: Set Vx = Vx + kk. VF is untouched.
func (cpu *Cpu) execAddImm(op Instruction) error {
	cpu.V[op.X()] += op.KK()
	return nil
}

// execALU runs the inter-register operations. VF is always written last,
// so the flag wins when Vx is VF.
func (cpu *Cpu) execALU(op Instruction) error {
	x, y := op.X(), op.Y()

	switch op.N() {
	case AluLoad:
		// LD Vx, Vy :: Set Vx = Vy.
		cpu.V[x] = cpu.V[y]

	case AluOr:
		// OR Vx, Vy :: Set Vx = Vx OR Vy.
		cpu.V[x] |= cpu.V[y]

	case AluAnd:
		// AND Vx, Vy :: Set Vx = Vx AND Vy.
		cpu.V[x] &= cpu.V[y]

	case AluXor:
		// XOR Vx, Vy :: Set Vx = Vx XOR Vy.
		cpu.V[x] ^= cpu.V[y]

	case AluAdd:
		// ADD Vx, Vy :: Set Vx = Vx + Vy, set VF = carry.
		r := uint16(cpu.V[x]) + uint16(cpu.V[y])
		cpu.V[x] = byte(r & 0x00FF)
		cpu.V[FlagRegister] = byte(r >> 8)

	case AluSub:
		// SUB Vx, Vy :: Set Vx = Vx - Vy, set VF = NOT borrow.
		carry := cpu.V[x] >= cpu.V[y]
		cpu.V[x] = cpu.V[x] - cpu.V[y]
		cpu.V[FlagRegister] = bool2byte(carry)

	case AluShr:
		// SHR Vx :: Set Vx = Vx SHR 1.
		carry := cpu.V[x] & 0b00000001
		cpu.V[x] = cpu.V[x] >> 1
		cpu.V[FlagRegister] = carry

	case AluSubn:
		// SUBN Vx, Vy :: Set Vx = Vy - Vx, set VF = NOT borrow.
		carry := cpu.V[y] >= cpu.V[x]
		cpu.V[x] = cpu.V[y] - cpu.V[x]
		cpu.V[FlagRegister] = bool2byte(carry)

	case AluShl:
		// SHL Vx :: Set Vx = Vx SHL 1.
		carry := (cpu.V[x] & 0b10000000) >> 7
		cpu.V[x] = cpu.V[x] << 1
		cpu.V[FlagRegister] = carry

	default:
		return decodeFault("unknown register operation")
	}

	return nil
}

// LD I, addr :: Set I = nnn.
func (cpu *Cpu) execSetIndex(op Instruction) error {
	cpu.I = op.NNN()
	return nil
}

// JP V0, addr :: Jump to location nnn + V0.
func (cpu *Cpu) execJumpOffset(op Instruction) error {
	cpu.Pc = op.NNN() + uint16(cpu.V[0])
	return nil
}

// RND Vx, byte :: Set Vx = random byte AND kk.
func (cpu *Cpu) execRandom(op Instruction) error {
	cpu.V[op.X()] = cpu.random.Byte() & op.KK()
	return nil
}

// DRW Vx, Vy, nibble :: Display n-byte sprite starting at memory location I at (Vx, Vy).
// Sprites are XORed onto the screen and wrap around both edges. VF is set to 1 when a
// set pixel is hit and is otherwise left as it was.
func (cpu *Cpu) execDraw(op Instruction) error {
	n := int(op.N())
	if n == 0 {
		return nil
	}
	if int(cpu.I)+n-1 > EndOfMemory {
		return protectionFault(cpu.I, "sprite read past the end of memory")
	}

	if cpu.screen.DrawSprite(cpu.V[op.X()], cpu.V[op.Y()], cpu.Memory[cpu.I:int(cpu.I)+n]) {
		cpu.V[FlagRegister] |= 1
	}
	cpu.isScreenDirty = true

	return nil
}

// execKey runs the key conditionals. A key that produces a match is consumed.
func (cpu *Cpu) execKey(op Instruction) error {
	k := cpu.V[op.X()]

	switch op.KK() {
	case KeySkipPressed:
		// SKP Vx :: Skip next instruction if key with the value of Vx is pressed.
		if cpu.Key.Holds(k) {
			cpu.Key.Clear()
			cpu.Pc += 2
		}

	case KeySkipNotPressed:
		// SKNP Vx :: Skip next instruction if key with the value of Vx is not pressed.
		if cpu.Key.Holds(k) {
			cpu.Key.Clear()
		} else {
			cpu.Pc += 2
		}

	default:
		return decodeFault("unknown key operation")
	}

	return nil
}

func (cpu *Cpu) execMisc(op Instruction) error {
	x := op.X()

	switch op.KK() {
	case MiscGetDelay:
		// LD Vx, DT :: Set Vx = delay timer value.
		cpu.V[x] = cpu.Dt

	case MiscWaitKey:
		// LD Vx, K :: Wait for a key press, store the value of the key in Vx.
		// Waiting re-runs this instruction on the next step.
		k, ok := cpu.Key.Get()
		if !ok {
			cpu.Pc -= 2
			return nil
		}
		cpu.V[x] = k
		cpu.Key.Clear()

	case MiscSetDelay:
		// LD DT, Vx :: Set delay timer = Vx.
		cpu.Dt = cpu.V[x]

	case MiscSetSound:
		// LD ST, Vx :: Set sound timer = Vx.
		cpu.St = cpu.V[x]

	case MiscAddIndex:
		// ADD I, Vx :: Set I = I + Vx.
		cpu.I += uint16(cpu.V[x])

	case MiscGlyph:
		// LD F, Vx :: Set I = location of sprite for digit Vx.
		cpu.I = GlyphAddress(cpu.V[x])

	case MiscDecimal:
		// LD B, Vx :: Store BCD representation of Vx in memory locations I, I+1, and I+2.
		if !IsProgramRange(cpu.I, 3) {
			return protectionFault(cpu.I, "decimal store outside program memory")
		}
		v := cpu.V[x]
		cpu.Memory[cpu.I+0] = v / 100
		cpu.Memory[cpu.I+1] = (v / 10) % 10
		cpu.Memory[cpu.I+2] = v % 10

	case MiscStoreRegs:
		// LD [I], Vx :: Store registers V0 through Vx in memory starting at location I.
		if !IsProgramRange(cpu.I, int(x)+1) {
			return protectionFault(cpu.I, "register store outside program memory")
		}
		copy(cpu.Memory[cpu.I:], cpu.V[:x+1])

	case MiscLoadRegs:
		// LD Vx, [I] :: Read registers V0 through Vx from memory starting at location I.
		if !IsProgramRange(cpu.I, int(x)+1) {
			return protectionFault(cpu.I, "register load outside program memory")
		}
		copy(cpu.V[:x+1], cpu.Memory[cpu.I:])

	default:
		return decodeFault("unknown miscellaneous operation")
	}

	return nil
}
