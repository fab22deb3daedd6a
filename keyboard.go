package ch8

// KeyLatch holds the most recently reported key until an instruction consumes it.
// The zero value holds no key.
type KeyLatch struct {
	key  byte
	held bool
}

// Set latches k, replacing any key that was not consumed yet.
func (l *KeyLatch) Set(k byte) error {
	if k > 0xF {
		return ErrInvalidKey
	}
	l.key = k
	l.held = true

	return nil
}

func (l *KeyLatch) Clear() {
	l.key = 0
	l.held = false
}

// Get returns the latched key and whether there is one.
func (l KeyLatch) Get() (byte, bool) {
	return l.key, l.held
}

func (l KeyLatch) Held() bool {
	return l.held
}

// Holds reports whether k is the latched key.
func (l KeyLatch) Holds(k byte) bool {
	return l.held && l.key == k
}

// Keyboard is a source of key presses polled by the Runner once per step.
type Keyboard interface {
	// Boot initializes the component
	Boot() error
	// Poll returns the key pressed since the last call, if any.
	Poll() (byte, bool)
}

// DummyKeyboard is a keyboard whose presses are queued by the caller.
type DummyKeyboard struct {
	pending []byte
}

func NewDummyKeyboard() *DummyKeyboard {
	return &DummyKeyboard{}
}

// Boot implements Keyboard.
func (kb *DummyKeyboard) Boot() error {
	return nil
}

func (kb *DummyKeyboard) Press(k byte) {
	if k > 0xF {
		return
	}
	kb.pending = append(kb.pending, k)
}

// Poll implements Keyboard.
func (kb *DummyKeyboard) Poll() (byte, bool) {
	if len(kb.pending) == 0 {
		return 0, false
	}
	k := kb.pending[0]
	kb.pending = kb.pending[1:]

	return k, true
}

// KeyboardLayout lists the physical keys mapped to the codes 0x0 to 0xF, in order.
type KeyboardLayout [16]rune

// DefaultKeyboardLayout maps the left hand block of a QWERTY keyboard
//
//	1 2 3 4        1 2 3 C
//	q w e r   ->   4 5 6 D
//	a s d f        7 8 9 E
//	z x c v        A 0 B F
var DefaultKeyboardLayout = KeyboardLayout{
	'x', '1', '2', '3',
	'q', 'w', 'e', 'a',
	's', 'd', 'z', 'c',
	'4', 'r', 'f', 'v',
}

// LookupMap inverts the layout into a rune to key code map.
func LookupMap(layout KeyboardLayout) map[rune]byte {
	m := make(map[rune]byte, len(layout))
	for k, r := range layout {
		m[r] = byte(k)
	}

	return m
}
