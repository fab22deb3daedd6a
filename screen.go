package ch8

const (
	ScreenWidth  = 64
	ScreenHeight = 32
	// SpriteWidth is the number of pixels encoded in each sprite row.
	SpriteWidth = 8
)

// Screen is the monochrome framebuffer, indexed [y][x] with the origin at the top left.
// Both axes wrap around.
type Screen [ScreenHeight][ScreenWidth]bool

func (s *Screen) Clear() {
	*s = Screen{}
}

// Pixel returns the pixel at x, y after wrapping both coordinates.
func (s *Screen) Pixel(x, y int) bool {
	return s[mod(y, ScreenHeight)][mod(x, ScreenWidth)]
}

// DrawSprite XORs the sprite rows onto the screen at x, y, most significant bit first.
// Returns whether any set pixel was hit by a set sprite bit.
func (s *Screen) DrawSprite(x, y byte, rows []byte) bool {
	collision := false
	for i, row := range rows {
		ty := (int(y) + i) % ScreenHeight
		for j := 0; j < SpriteWidth; j++ {
			if row&(0x80>>j) == 0 {
				continue
			}
			tx := (int(x) + j) % ScreenWidth
			if s[ty][tx] {
				collision = true
			}
			s[ty][tx] = !s[ty][tx]
		}
	}

	return collision
}

// Packed returns the screen as rows of bytes, 8 pixels per byte, most significant bit first.
func (s *Screen) Packed() []byte {
	buf := make([]byte, 0, ScreenWidth*ScreenHeight/8)
	for y := range s {
		for x := 0; x < ScreenWidth; x += 8 {
			var b byte
			for bit := 0; bit < 8; bit++ {
				b |= bool2byte(s[y][x+bit]) << (7 - bit)
			}
			buf = append(buf, b)
		}
	}

	return buf
}

// Unpack is the inverse of Packed.
func Unpack(packed []byte) Screen {
	var s Screen
	for i, b := range packed {
		y, x := (i*8)/ScreenWidth, (i*8)%ScreenWidth
		if y >= ScreenHeight {
			break
		}
		for bit := 0; bit < 8; bit++ {
			s[y][x+bit] = (b>>(7-bit))&1 == 1
		}
	}

	return s
}

func mod(v, m int) int {
	v %= m
	if v < 0 {
		v += m
	}

	return v
}
