package ch8_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/guslan/ch8"
	"github.com/stretchr/testify/assert"
)

func TestFaultMatching(t *testing.T) {
	err := fmt.Errorf("running: %w", ch8.Fault{Kind: ch8.StackFault, Reason: "stack overflow", OpCode: 0x2200, Pc: 0x200})

	assert.ErrorIs(t, err, ch8.ErrStack)
	assert.NotErrorIs(t, err, ch8.ErrDecode)
	assert.NotErrorIs(t, err, ch8.ErrMemoryProtection)

	kind, ok := ch8.FaultKindOf(err)
	assert.True(t, ok)
	assert.Equal(t, ch8.StackFault, kind)

	_, ok = ch8.FaultKindOf(errors.New("boom"))
	assert.False(t, ok)
	_, ok = ch8.FaultKindOf(ch8.ErrHalted)
	assert.False(t, ok)
}

func TestFaultMessage(t *testing.T) {
	err := ch8.Fault{Kind: ch8.MemoryProtectionFault, Reason: "register store outside program memory", Addr: 0x1FF, OpCode: 0xF155, Pc: 0x202}

	assert.Contains(t, err.Error(), "memory protection fault")
	assert.Contains(t, err.Error(), "0x1FF")
	assert.Contains(t, err.Error(), "0xF155")
}

func TestFaultKindString(t *testing.T) {
	assert.Equal(t, "memory protection fault", ch8.MemoryProtectionFault.String())
	assert.Equal(t, "stack fault", ch8.StackFault.String())
	assert.Equal(t, "decode fault", ch8.DecodeFault.String())
}
