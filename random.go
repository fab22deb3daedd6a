package ch8

import (
	"math/rand/v2"
	"time"
)

// RandomSource feeds the random byte instruction.
type RandomSource interface {
	Byte() byte
}

type pcgSource struct {
	rnd *rand.Rand
}

// NewRandomSource returns a PCG backed source seeded with seed.
func NewRandomSource(seed uint64) RandomSource {
	return &pcgSource{rnd: rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))}
}

func newDefaultRandomSource() RandomSource {
	return NewRandomSource(uint64(time.Now().UnixNano()))
}

func (s *pcgSource) Byte() byte {
	return byte(s.rnd.UintN(256))
}

// FixedRandomSource always returns the same byte. Useful for tests and replays.
type FixedRandomSource byte

func (s FixedRandomSource) Byte() byte {
	return byte(s)
}
