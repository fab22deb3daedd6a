package ch8

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstructionFields(t *testing.T) {
	op := Instruction(0xD1A5)

	assert.Equal(t, FamilyDraw, op.Family())
	assert.Equal(t, uint16(0x1), op.X())
	assert.Equal(t, uint16(0xA), op.Y())
	assert.Equal(t, byte(0x5), op.N())
	assert.Equal(t, byte(0xA5), op.KK())
	assert.Equal(t, uint16(0x1A5), op.NNN())
}

func TestFamilyTableIsComplete(t *testing.T) {
	for family, handler := range families {
		assert.NotNilf(t, handler, "family 0x%X has no handler", family)
	}
}

func TestExecALU(t *testing.T) {
	cases := []struct {
		name           string
		n              byte
		vx, vy         byte
		wantVx, wantVF byte
	}{
		{"LD", AluLoad, 0x01, 0x02, 0x02, 0x77},
		{"OR", AluOr, 0x0C, 0x03, 0x0F, 0x77},
		{"AND", AluAnd, 0x0C, 0x06, 0x04, 0x77},
		{"XOR", AluXor, 0x0C, 0x06, 0x0A, 0x77},
		{"ADD", AluAdd, 0x80, 0x80, 0x00, 1},
		{"SUB", AluSub, 0x05, 0x03, 0x02, 1},
		{"SHR", AluShr, 0x04, 0x00, 0x02, 0},
		{"SUBN", AluSubn, 0x05, 0x03, 0xFE, 0},
		{"SHL", AluShl, 0x80, 0x00, 0x00, 1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cpu := NewCpu(nil)
			cpu.V[1], cpu.V[2] = c.vx, c.vy
			// logical operations leave VF alone
			cpu.V[FlagRegister] = 0x77

			require.NoError(t, cpu.execALU(Instruction(0x8120|uint16(c.n))))
			assert.Equal(t, c.wantVx, cpu.V[1])
			assert.Equal(t, c.wantVF, cpu.V[FlagRegister])
		})
	}
}

func TestExecALUUnknownSelector(t *testing.T) {
	for _, n := range []uint16{0x8, 0x9, 0xA, 0xB, 0xC, 0xD, 0xF} {
		cpu := NewCpu(nil)
		err := cpu.execALU(Instruction(0x8120 | n))
		assert.ErrorIsf(t, err, ErrDecode, "selector 0x%X", n)
	}
}

func TestExecMiscUnknownSelector(t *testing.T) {
	cpu := NewCpu(nil)

	assert.ErrorIs(t, cpu.execMisc(0xF000), ErrDecode)
	assert.ErrorIs(t, cpu.execKey(0xE000), ErrDecode)
}

func TestExecDrawWithoutRows(t *testing.T) {
	cpu := NewCpu(nil)
	cpu.I = EndOfMemory
	cpu.isScreenDirty = false

	require.NoError(t, cpu.execDraw(0xD000))
	assert.False(t, cpu.isScreenDirty)
}

func TestScreenUpdateTracksChanges(t *testing.T) {
	cpu := NewCpu(nil)

	_, changed := cpu.ScreenUpdate()
	assert.False(t, changed)

	cpu.Reset()
	_, changed = cpu.ScreenUpdate()
	assert.True(t, changed)
	_, changed = cpu.ScreenUpdate()
	assert.False(t, changed)

	cpu.I = GlyphAddress(0)
	require.NoError(t, cpu.execDraw(0xD005))
	screen, changed := cpu.ScreenUpdate()
	assert.True(t, changed)
	assert.True(t, screen[0][0])
}
