package tui

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/guslan/ch8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSimulatedTerminal(t *testing.T) (*Terminal, tcell.SimulationScreen) {
	t.Helper()

	sim := tcell.NewSimulationScreen("")
	term := NewWithScreen(sim, ch8.DefaultKeyboardLayout)
	require.NoError(t, term.Boot())
	t.Cleanup(term.Close)
	sim.SetSize(2*ch8.ScreenWidth, ch8.ScreenHeight)

	return term, sim
}

func TestRender(t *testing.T) {
	term, sim := newSimulatedTerminal(t)

	var screen ch8.Screen
	screen[2][5] = true
	require.NoError(t, term.Render(screen))

	_, _, style, _ := sim.GetContent(10, 2)
	assert.Equal(t, term.OnStyle, style)
	_, _, style, _ = sim.GetContent(11, 2)
	assert.Equal(t, term.OnStyle, style)
	_, _, style, _ = sim.GetContent(12, 2)
	assert.Equal(t, term.OffStyle, style)
}

func TestKeysAreMappedThroughTheLayout(t *testing.T) {
	term, sim := newSimulatedTerminal(t)

	sim.InjectKey(tcell.KeyRune, 'v', tcell.ModNone)
	// not in the layout
	sim.InjectKey(tcell.KeyRune, 'p', tcell.ModNone)
	sim.InjectKey(tcell.KeyRune, '1', tcell.ModNone)

	var keys []byte
	assert.Eventually(t, func() bool {
		if k, ok := term.Poll(); ok {
			keys = append(keys, k)
		}
		return len(keys) == 2
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []byte{0xF, 0x1}, keys)
}

func TestEscapeQuits(t *testing.T) {
	term, sim := newSimulatedTerminal(t)

	quit := make(chan struct{})
	term.OnQuit = func() { close(quit) }
	sim.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)

	select {
	case <-quit:
	case <-time.After(time.Second):
		t.Fatal("OnQuit was not called")
	}
}
