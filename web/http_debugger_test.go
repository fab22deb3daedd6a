package web

import (
	"testing"

	"github.com/guslan/ch8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAsEvent(t *testing.T) {
	var d HttpDebugger
	regs := ch8.Registers{Pc: 0x204, I: 0x3AB, Sp: 1, Dt: 7, St: 8}
	regs.V[0xF] = 1
	regs.Stack[0] = 0x202
	require.NoError(t, regs.Key.Set(0xC))

	event := d.formatAsEvent(Snapshot{
		OpCode:    0xD125,
		Registers: regs,
		Fault:     ch8.ErrStack,
	})

	assert.Equal(t, []byte{0xD1, 0x25}, event[0:2])
	assert.Equal(t, []byte{0x02, 0x04}, event[2:4])
	assert.Equal(t, byte(1), event[4+0xF])
	assert.Equal(t, []byte{0x03, 0xAB}, event[20:22])
	assert.Equal(t, byte(1), event[22])
	assert.Equal(t, []byte{0x02, 0x02}, event[23:25])
	assert.Equal(t, byte(7), event[55])
	assert.Equal(t, byte(8), event[56])
	assert.Equal(t, byte(0xC), event[57])
	assert.Equal(t, byte(ch8.StackFault), event[58])
	assert.Equal(t, "DRW V1, V2, 5", string(event[59:]))
}

func TestFormatAsEventWithoutKey(t *testing.T) {
	var d HttpDebugger

	event := d.formatAsEvent(Snapshot{OpCode: ch8.OpExit})

	assert.Equal(t, byte(0xFF), event[57])
	assert.Equal(t, byte(0), event[58])
	assert.Equal(t, "EXIT", string(event[59:]))
}

func TestDebuggerPublishesSteps(t *testing.T) {
	cpu := ch8.NewCpu(nil)
	require.NoError(t, cpu.LoadProgram([]byte{
		// set v3 to 3
		0x63, 0x03,
		// unknown
		0xFF, 0xFF,
	}))
	d := NewHttpDebugger(cpu)

	require.NoError(t, cpu.Step())
	snapshot := <-d.send
	assert.Equal(t, ch8.Instruction(0x6303), snapshot.OpCode)
	assert.Equal(t, byte(3), snapshot.Registers.V[3])
	assert.Equal(t, uint(1), snapshot.Cycles)

	require.Error(t, cpu.Step())
	snapshot = <-d.send
	assert.Equal(t, ch8.Instruction(0xFFFF), snapshot.OpCode)
	assert.ErrorIs(t, snapshot.Fault, ch8.ErrDecode)
}
