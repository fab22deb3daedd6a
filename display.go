package ch8

import (
	"io"
	"os"
)

// Display abstraction for a display
type Display interface {
	// Boot initializes the component
	Boot() error
	// Render paints the framebuffer
	Render(Screen) error
}

// DummyDisplay is a display that only remembers the last frame
type DummyDisplay struct {
	Last   Screen
	Frames int
}

func NewDummyDisplay() *DummyDisplay {
	return &DummyDisplay{}
}

// Boot implements Display.
func (d *DummyDisplay) Boot() error {
	return nil
}

// Render implements Display.
func (d *DummyDisplay) Render(screen Screen) error {
	d.Last = screen
	d.Frames++

	return nil
}

const ESC = 0x1B

// TerminalDisplay paints the screen with ANSI escapes, two characters per pixel.
type TerminalDisplay struct {
	terminal        io.Writer
	OnChar, OffChar string
}

func NewTerminalDisplay() *TerminalDisplay {
	return NewTerminalDisplayWithOutput(os.Stdout)
}

func NewTerminalDisplayWithOutput(out io.Writer) *TerminalDisplay {
	return &TerminalDisplay{
		terminal: out,
		OnChar:   "##",
		OffChar:  "  ",
	}
}

// Boot implements Display.
func (disp *TerminalDisplay) Boot() error {
	_, err := disp.terminal.Write([]byte{
		// Move cursor do start
		ESC, '[', '1', 'H',
		// clear the terminal
		ESC, '[', '0', 'J',
	})

	return err
}

// Render implements Display.
func (disp *TerminalDisplay) Render(screen Screen) error {
	buff := make([]byte, 0, ScreenWidth*ScreenHeight*len(disp.OnChar)+ScreenHeight*2+4)
	buff = append(buff, ESC, '[', '1', 'H')
	for _, row := range screen {
		for _, pixel := range row {
			if pixel {
				buff = append(buff, disp.OnChar...)
			} else {
				buff = append(buff, disp.OffChar...)
			}
		}
		buff = append(buff, '|', '\r', '\n')
	}

	_, err := disp.terminal.Write(buff)
	return err
}
