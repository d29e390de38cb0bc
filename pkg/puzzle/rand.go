package puzzle

import (
	"encoding/hex"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
)

// Rand is the randomness used for id suffixes and jumbles.
type Rand interface {
	// Suffix returns six lowercase hex digits.
	Suffix() string
	// Shuffle permutes n elements using swap.
	Shuffle(n int, swap func(i, j int))
}

type defaultRand struct{}

// NewRand returns the production random source. Suffixes come from a v4 UUID.
func NewRand() Rand { return defaultRand{} }

func (defaultRand) Suffix() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])[:6]
}

func (defaultRand) Shuffle(n int, swap func(i, j int)) {
	rand.Shuffle(n, swap)
}

type seededRand struct {
	r *rand.Rand
}

// NewSeededRand returns a reproducible source for tests and replays.
func NewSeededRand(seed uint64) Rand {
	return &seededRand{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *seededRand) Suffix() string {
	return fmt.Sprintf("%06x", s.r.IntN(1<<24))
}

func (s *seededRand) Shuffle(n int, swap func(i, j int)) {
	s.r.Shuffle(n, swap)
}
