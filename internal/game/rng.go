package game

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// RandomSource abstracts randomness so gacha rolls are replayable in tests.
type RandomSource interface {
	Float64() float64 // [0, 1)
	IntN(n int) int   // [0, n)
}

// cryptoRNG is the default source, seeded from the OS.
type cryptoRNG struct {
	r *rand.Rand
}

func DefaultRNG() RandomSource {
	var buf [16]byte
	if _, err := cryptoRand.Read(buf[:]); err != nil {
		return &cryptoRNG{r: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
	}
	s1 := binary.BigEndian.Uint64(buf[:8])
	s2 := binary.BigEndian.Uint64(buf[8:])
	return &cryptoRNG{r: rand.New(rand.NewPCG(s1, s2))}
}

func (c *cryptoRNG) Float64() float64 { return c.r.Float64() }
func (c *cryptoRNG) IntN(n int) int   { return c.r.IntN(n) }

// seededRNG is replicable for tests.
type seededRNG struct {
	r *rand.Rand
}

func NewSeededRNG(seed uint64) RandomSource {
	return &seededRNG{r: rand.New(rand.NewPCG(seed, 0))}
}

func (s *seededRNG) Float64() float64 { return s.r.Float64() }
func (s *seededRNG) IntN(n int) int   { return s.r.IntN(n) }

// scriptedRNG replays a fixed sequence of floats, for deterministic gacha
// tests. IntN always returns 0.
type scriptedRNG struct {
	seq []float64
	i   int
}

// NewScriptedRNG returns a source that yields the given floats in order and
// repeats the last one when exhausted.
func NewScriptedRNG(seq ...float64) RandomSource {
	if len(seq) == 0 {
		seq = []float64{0}
	}
	return &scriptedRNG{seq: seq}
}

func (s *scriptedRNG) Float64() float64 {
	v := s.seq[s.i]
	if s.i < len(s.seq)-1 {
		s.i++
	}
	return v
}

func (s *scriptedRNG) IntN(n int) int {
	_ = n
	return 0
}
