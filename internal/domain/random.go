package domain

import (
	"math/rand/v2"
	"sync"
)

// Randomizer is the only source of non-determinism in metric derivation
// (sentiment trend noise and mood summary choice).
type Randomizer interface {
	// Float64 returns a value in [0.0, 1.0).
	Float64() float64

	// IntN returns a value in [0, n).
	IntN(n int) int
}

type systemRandom struct{}

func (systemRandom) Float64() float64 { return rand.Float64() }
func (systemRandom) IntN(n int) int   { return rand.IntN(n) }

// SystemRandom returns a Randomizer backed by the runtime's shared generator.
func SystemRandom() Randomizer {
	return systemRandom{}
}

// seededRandom serializes access to a PCG generator.
type seededRandom struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSeededRandom returns a reproducible Randomizer, safe for concurrent use.
func NewSeededRandom(seed uint64) Randomizer {
	return &seededRandom{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *seededRandom) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

func (s *seededRandom) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.IntN(n)
}
