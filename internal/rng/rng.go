// Package rng provides the engine's deterministic, splittable PRNG. A single run
// seed is mixed with a stage tag and a feature id to produce an independent stream
// per feature, so no stage or feature ever shares RNG state with another — required
// for the engine's determinism and per-composition-call isolation (see
// Concurrency & resource model).
package rng

import (
	"encoding/binary"
	"hash/fnv"
	"math/rand"
)

// Stream is a deterministic, independent random source for one (stage, feature) pair.
// It wraps math/rand.Rand the same way the teacher's game manager and scoring tiles
// do (rand.New(rand.NewSource(...))), but the source is derived rather than wall-clock.
type Stream struct {
	r *rand.Rand
}

// Split derives an independent Stream from a run seed, a stage tag (e.g. "biome",
// "gapfill", "flow"), and a feature id. The derivation is a SplitMix64 walk seeded by
// an FNV-1a hash of the salt buffer "seed|stageTag|featureId", so it is a documented,
// stable function of its three inputs and never touches global RNG state.
func Split(seed int64, stageTag string, featureID string) *Stream {
	h := fnv.New64a()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(seed))
	_, _ = h.Write(buf[:])
	_, _ = h.Write([]byte{'|'})
	_, _ = h.Write([]byte(stageTag))
	_, _ = h.Write([]byte{'|'})
	_, _ = h.Write([]byte(featureID))

	state := h.Sum64()
	seeded := splitMix64(&state)
	return &Stream{r: rand.New(rand.NewSource(int64(seeded)))}
}

// splitMix64 advances state and returns the next output, per the standard SplitMix64
// constants (Steele, Lea & Flood 2014).
func splitMix64(state *uint64) uint64 {
	*state += 0x9E3779B97F4A7C15
	z := *state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// Intn returns a pseudo-random int in [0, n).
func (s *Stream) Intn(n int) int {
	return s.r.Intn(n)
}

// IntRange returns a pseudo-random int in [lo, hi] inclusive. If hi < lo, lo is
// returned.
func (s *Stream) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.r.Intn(hi-lo+1)
}

// Float64 returns a pseudo-random float64 in [0, 1).
func (s *Stream) Float64() float64 {
	return s.r.Float64()
}

// Bool returns true with the given probability (clamped to [0,1]).
func (s *Stream) Bool(probability float64) bool {
	if probability <= 0 {
		return false
	}
	if probability >= 1 {
		return true
	}
	return s.r.Float64() < probability
}

// Shuffle shuffles a slice of n elements in place using the Fisher-Yates algorithm,
// matching the teacher's use of rand.Shuffle in scoring_tiles.go.
func (s *Stream) Shuffle(n int, swap func(i, j int)) {
	s.r.Shuffle(n, swap)
}

// Sub derives a child stream scoped to a sub-tag, e.g. splitting a feature's stream
// further for its individual placement attempts without mixing state with siblings.
func (s *Stream) Sub(tag string) *Stream {
	seed := s.r.Int63()
	return Split(seed, tag, "")
}
