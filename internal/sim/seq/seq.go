// Package seq provides the deterministic sequence source consumed by the
// reducer. The draw order issued by each command handler is part of the
// observable contract: two sources built from the same seed and driven by
// the same draw sequence produce identical outputs, and replay depends on
// handlers never reordering their draws.
package seq

import "math/rand"

// Source is a seeded pseudorandom stream with a monotonic draw counter.
// Every primitive consumes exactly one draw.
type Source struct {
	rng   *rand.Rand
	draws uint64
}

func New(seed int64) *Source {
	return &Source{rng: rand.New(rand.NewSource(seed))}
}

// Draws returns the total number of draws issued so far.
func (s *Source) Draws() uint64 { return s.draws }

// IntN draws a uniform integer in [0, n). n must be positive.
func (s *Source) IntN(n int) int {
	s.draws++
	return s.rng.Intn(n)
}

// Range draws a uniform integer in [lo, hi] inclusive.
func (s *Source) Range(lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	s.draws++
	return lo + s.rng.Intn(hi-lo+1)
}

// Bucket draws an index into weights, where each index is selected with
// probability weight/sum. Zero-weight buckets are never selected. The sum
// of weights must be positive.
func (s *Source) Bucket(weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	s.draws++
	v := s.rng.Intn(total)
	for i, w := range weights {
		if v < w {
			return i
		}
		v -= w
	}
	return len(weights) - 1
}
