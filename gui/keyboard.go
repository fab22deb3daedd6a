package gui

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/guslan/ch8"
)

type ScanCode = int32

var runeToKey = map[rune]ScanCode{
	'1': rl.KeyOne, '2': rl.KeyTwo, '3': rl.KeyThree, '4': rl.KeyFour,
	'q': rl.KeyQ, 'w': rl.KeyW, 'e': rl.KeyE, 'r': rl.KeyR,
	'a': rl.KeyA, 's': rl.KeyS, 'd': rl.KeyD, 'f': rl.KeyF,
	'z': rl.KeyZ, 'x': rl.KeyX, 'c': rl.KeyC, 'v': rl.KeyV,
}

// keyboardLookupMap maps raylib keys to key codes for the layout
func keyboardLookupMap(layout ch8.KeyboardLayout) map[ScanCode]byte {
	m := map[ScanCode]byte{}
	for r, k := range ch8.LookupMap(layout) {
		if scanCode, ok := runeToKey[r]; ok {
			m[scanCode] = k
		}
	}

	return m
}

func (app *App) handleKeyPress() {
	for scanCode, key := range app.keyboardLookupMap {
		if rl.IsKeyPressed(scanCode) {
			if err := app.runner.PressKey(key); err != nil {
				slog.Warn("Ignoring key", slog.Any("key", key), slog.Any("error", err))
			}
		}
	}
}
