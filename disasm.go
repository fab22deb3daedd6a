package ch8

import "fmt"

// String returns the mnemonic of the instruction, or "DW 0xNNNN" for words outside the instruction set.
func (op Instruction) String() string {
	switch op {
	case OpExit:
		return "EXIT"
	case OpClear:
		return "CLS"
	case OpReturn:
		return "RET"
	}

	x, y, kk, nnn := op.X(), op.Y(), op.KK(), op.NNN()

	switch op.Family() {
	case FamilySystem:
		return fmt.Sprintf("SYS 0x%03X", nnn)
	case FamilyJump:
		return fmt.Sprintf("JP 0x%03X", nnn)
	case FamilyCall:
		return fmt.Sprintf("CALL 0x%03X", nnn)
	case FamilySkipEqImm:
		return fmt.Sprintf("SE V%X, 0x%02X", x, kk)
	case FamilySkipNeImm:
		return fmt.Sprintf("SNE V%X, 0x%02X", x, kk)
	case FamilySkipEqReg:
		if op.N() == 0 {
			return fmt.Sprintf("SE V%X, V%X", x, y)
		}
	case FamilyLoadImm:
		return fmt.Sprintf("LD V%X, 0x%02X", x, kk)
	case FamilyAddImm:
		return fmt.Sprintf("ADD V%X, 0x%02X", x, kk)
	case FamilyALU:
		if name, ok := aluMnemonics[op.N()]; ok {
			if op.N() == AluShr || op.N() == AluShl {
				return fmt.Sprintf("%s V%X", name, x)
			}
			return fmt.Sprintf("%s V%X, V%X", name, x, y)
		}
	case FamilySkipNeReg:
		if op.N() == 0 {
			return fmt.Sprintf("SNE V%X, V%X", x, y)
		}
	case FamilySetIndex:
		return fmt.Sprintf("LD I, 0x%03X", nnn)
	case FamilyJumpOffset:
		return fmt.Sprintf("JP V0, 0x%03X", nnn)
	case FamilyRandom:
		return fmt.Sprintf("RND V%X, 0x%02X", x, kk)
	case FamilyDraw:
		return fmt.Sprintf("DRW V%X, V%X, %d", x, y, op.N())
	case FamilyKey:
		switch kk {
		case KeySkipPressed:
			return fmt.Sprintf("SKP V%X", x)
		case KeySkipNotPressed:
			return fmt.Sprintf("SKNP V%X", x)
		}
	case FamilyMisc:
		if format, ok := miscFormats[kk]; ok {
			return fmt.Sprintf(format, x)
		}
	}

	return fmt.Sprintf("DW 0x%04X", uint16(op))
}

var aluMnemonics = map[byte]string{
	AluLoad: "LD",
	AluOr:   "OR",
	AluAnd:  "AND",
	AluXor:  "XOR",
	AluAdd:  "ADD",
	AluSub:  "SUB",
	AluShr:  "SHR",
	AluSubn: "SUBN",
	AluShl:  "SHL",
}

var miscFormats = map[byte]string{
	MiscGetDelay:  "LD V%X, DT",
	MiscWaitKey:   "LD V%X, K",
	MiscSetDelay:  "LD DT, V%X",
	MiscSetSound:  "LD ST, V%X",
	MiscAddIndex:  "ADD I, V%X",
	MiscGlyph:     "LD F, V%X",
	MiscDecimal:   "LD B, V%X",
	MiscStoreRegs: "LD [I], V%X",
	MiscLoadRegs:  "LD V%X, [I]",
}

// Disassemble lists the instructions of program as if it was loaded at the start-of-program address.
// A trailing odd byte is listed as data.
func Disassemble(program []byte) []string {
	lines := make([]string, 0, len(program)/2+1)
	for i := 0; i+1 < len(program); i += 2 {
		op := Instruction(uint16(program[i])<<8 | uint16(program[i+1]))
		lines = append(lines, fmt.Sprintf("%03X: %04X  %s", StartOfProgram+i, uint16(op), op))
	}
	if len(program)%2 == 1 {
		lines = append(lines, fmt.Sprintf("%03X: %02X    DB 0x%02X", StartOfProgram+len(program)-1, program[len(program)-1], program[len(program)-1]))
	}

	return lines
}
