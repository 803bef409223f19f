package blockmap

import (
	"math/rand/v2"

	"github.com/oriumgames/blockmap/format"
)

// shuffle permutes states in place. The permutation depends only on seed: it
// uses a generator of its own and leaves the process-wide generator untouched.
func shuffle(states []format.State, seed uint64) {
	r := rand.New(rand.NewPCG(seed, seed))
	r.Shuffle(len(states), func(i, j int) {
		states[i], states[j] = states[j], states[i]
	})
}
