package ch8_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/guslan/ch8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminalDisplay(t *testing.T) {
	out := &bytes.Buffer{}
	disp := ch8.NewTerminalDisplayWithOutput(out)
	require.NoError(t, disp.Boot())
	out.Reset()

	var screen ch8.Screen
	screen[0][1] = true
	require.NoError(t, disp.Render(screen))

	lines := strings.Split(strings.TrimPrefix(out.String(), "\x1b[1H"), "\r\n")
	// every row plus the empty string after the last line break
	assert.Len(t, lines, ch8.ScreenHeight+1)
	assert.True(t, strings.HasPrefix(lines[0], "  ##  "))
	assert.Equal(t, strings.Repeat("  ", ch8.ScreenWidth)+"|", lines[1])
}

func TestDummyDisplay(t *testing.T) {
	disp := ch8.NewDummyDisplay()
	var screen ch8.Screen
	screen[3][4] = true

	require.NoError(t, disp.Render(screen))
	assert.Equal(t, screen, disp.Last)
	assert.Equal(t, 1, disp.Frames)
}
