package bot

import (
	"math/rand"
	"time"
)

// NewRand returns the random source bots and board generation draw from.
// A zero seed means time-seeded; any other value gives a reproducible
// sequence for tests and benchmarks.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
