package ch8

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/pkg/term"
)

// TerminalKeyboard reads raw key presses from a tty and maps them through a layout.
type TerminalKeyboard struct {
	Device string
	Layout KeyboardLayout
	// OnQuit is called when the quit key (ESC) is read
	OnQuit func()

	tty     *term.Term
	lookup  map[rune]byte
	presses chan byte
	done    chan struct{}
}

func NewTerminalKeyboard() *TerminalKeyboard {
	return &TerminalKeyboard{
		Device:  "/dev/tty",
		Layout:  DefaultKeyboardLayout,
		presses: make(chan byte, 16),
		done:    make(chan struct{}),
	}
}

// Boot implements Keyboard. It puts the terminal in raw mode and starts reading.
func (kb *TerminalKeyboard) Boot() error {
	tty, err := term.Open(kb.Device, term.RawMode)
	if err != nil {
		return err
	}
	if err := tty.SetReadTimeout(100 * time.Millisecond); err != nil {
		tty.Restore()
		tty.Close()
		return err
	}

	kb.tty = tty
	kb.lookup = LookupMap(kb.Layout)
	go kb.read()

	return nil
}

func (kb *TerminalKeyboard) read() {
	buf := make([]byte, 1)
	for {
		n, err := kb.tty.Read(buf)
		select {
		case <-kb.done:
			return
		default:
		}
		if err != nil && !errors.Is(err, io.EOF) {
			slog.Error("reading terminal", slog.Any("error", err))
			return
		}
		if n == 0 {
			continue
		}

		if buf[0] == ESC && kb.OnQuit != nil {
			kb.OnQuit()
			continue
		}

		if k, ok := kb.lookup[rune(buf[0])]; ok {
			select {
			case kb.presses <- k:
			default:
				// drop presses the program is not consuming
			}
		}
	}
}

// Poll implements Keyboard.
func (kb *TerminalKeyboard) Poll() (byte, bool) {
	select {
	case k := <-kb.presses:
		return k, true
	default:
		return 0, false
	}
}

// Close restores the terminal.
func (kb *TerminalKeyboard) Close() error {
	if kb.tty == nil {
		return nil
	}
	close(kb.done)
	if err := kb.tty.Restore(); err != nil {
		return err
	}

	return kb.tty.Close()
}
