package engine

import (
	"math/rand"
	"time"
)

// randSource is a lightweight wrapper around math/rand.Rand.
// It is not safe for concurrent use, so each goroutine must have its own instance.
type randSource struct {
	r *rand.Rand
}

// newRandSource seeds a source from seed, or from the clock when seed is 0.
func newRandSource(seed int64) *randSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &randSource{
		r: rand.New(rand.NewSource(seed)),
	}
}

func (rs *randSource) Float64() float64 {
	return rs.r.Float64()
}
