package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/guslan/ch8"
)

var ScreenBgColor = rl.Gold
var ScreenPixelColor = rl.Yellow

// Boot implements ch8.Display.
func (app *App) Boot() error {
	return nil
}

// Render implements ch8.Display. It runs on the loop goroutine, the window reads the copy.
func (app *App) Render(screen ch8.Screen) error {
	app.screenMutex.Lock()
	app.screen = screen
	app.screenMutex.Unlock()

	return nil
}

func (app *App) drawScreen() {
	app.screenMutex.Lock()
	screen := app.screen
	app.screenMutex.Unlock()

	for y := 0; y < ch8.ScreenHeight; y++ {
		for x := 0; x < ch8.ScreenWidth; x++ {
			color := ScreenBgColor
			if screen[y][x] {
				color = ScreenPixelColor
			}

			rl.DrawRectangle(
				ScreenPositionX+ScreenPixelSize*int32(x),
				ScreenPositionY+ScreenPixelSize*int32(y),
				ScreenPixelSize,
				ScreenPixelSize,
				color)
		}
	}
}
