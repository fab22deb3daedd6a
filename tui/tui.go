// Package tui is a full screen terminal front end: a ch8.Display and a ch8.Keyboard
// sharing one tcell screen.
package tui

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/guslan/ch8"
)

// Terminal renders two cells per pixel so pixels look square.
type Terminal struct {
	screen tcell.Screen
	lookup map[rune]byte

	OnStyle, OffStyle tcell.Style
	// OnQuit is called when ESC or Ctrl-C is pressed
	OnQuit func()

	presses  chan byte
	bootOnce sync.Once
	bootErr  error
}

func New(layout ch8.KeyboardLayout) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}

	return NewWithScreen(screen, layout), nil
}

// NewWithScreen uses an already created screen, like a tcell.SimulationScreen.
func NewWithScreen(screen tcell.Screen, layout ch8.KeyboardLayout) *Terminal {
	return &Terminal{
		screen:   screen,
		lookup:   ch8.LookupMap(layout),
		OnStyle:  tcell.StyleDefault.Background(tcell.ColorYellow),
		OffStyle: tcell.StyleDefault.Background(tcell.ColorBlack),
		presses:  make(chan byte, 16),
	}
}

// Boot implements ch8.Display and ch8.Keyboard. The screen is initialized once.
func (t *Terminal) Boot() error {
	t.bootOnce.Do(func() {
		if t.bootErr = t.screen.Init(); t.bootErr != nil {
			return
		}
		t.screen.HideCursor()
		t.screen.Clear()
		go t.pollEvents()
	})

	return t.bootErr
}

// Render implements ch8.Display.
func (t *Terminal) Render(screen ch8.Screen) error {
	for y, row := range screen {
		for x, pixel := range row {
			style := t.OffStyle
			if pixel {
				style = t.OnStyle
			}
			t.screen.SetContent(2*x, y, ' ', nil, style)
			t.screen.SetContent(2*x+1, y, ' ', nil, style)
		}
	}
	t.screen.Show()

	return nil
}

// Poll implements ch8.Keyboard.
func (t *Terminal) Poll() (byte, bool) {
	select {
	case k := <-t.presses:
		return k, true
	default:
		return 0, false
	}
}

func (t *Terminal) pollEvents() {
	for {
		switch ev := t.screen.PollEvent().(type) {
		case nil:
			// the screen was finalized
			return

		case *tcell.EventResize:
			t.screen.Sync()

		case *tcell.EventKey:
			t.handleKey(ev)
		}
	}
}

func (t *Terminal) handleKey(ev *tcell.EventKey) {
	if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
		if t.OnQuit != nil {
			t.OnQuit()
		}
		return
	}
	if ev.Key() != tcell.KeyRune {
		return
	}

	if k, ok := t.lookup[ev.Rune()]; ok {
		select {
		case t.presses <- k:
		default:
		}
	}
}

// Close restores the terminal
func (t *Terminal) Close() {
	t.screen.Fini()
}
