package ch8

const (
	// FontOffset is the address of the glyph for the digit 0.
	FontOffset = 0x000
	// GlyphHeight is the number of rows of each glyph.
	GlyphHeight = 5
)

// Each glyph is packed as five 4-bit rows, top row in the most significant nibble.
var glyphCodes = [16]uint32{
	0xF999F, // 0
	0x26227, // 1
	0xF1F8F, // 2
	0xF1F1F, // 3
	0x99F11, // 4
	0xF8F1F, // 5
	0xF8F9F, // 6
	0xF1244, // 7
	0xF9F9F, // 8
	0xF9F1F, // 9
	0xF9F99, // A
	0xE9E9E, // B
	0xF888F, // C
	0xE999E, // D
	0xF8F8F, // E
	0xF8F88, // F
}

var font = generateFont()

// generateFont expands the packed glyphs into sprite rows, each nibble in the high bits of its byte.
func generateFont() [16 * GlyphHeight]byte {
	var rows [16 * GlyphHeight]byte
	for digit, code := range glyphCodes {
		for j := 0; j < GlyphHeight; j++ {
			rows[digit*GlyphHeight+GlyphHeight-1-j] = byte((code>>(j*4))&0xF) << 4
		}
	}

	return rows
}

// GlyphAddress returns the address of the glyph for the low nibble of digit.
func GlyphAddress(digit byte) uint16 {
	return FontOffset + uint16(digit&0xF)*GlyphHeight
}

func (mem *Memory) loadFont() {
	copy(mem[FontOffset:], font[:])
}
