// Package rng abstracts the uniform random source behind every engine so
// that chest, battle, and raid outcomes are deterministically testable.
package rng

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// Source yields uniform values in [0, 1).
type Source interface {
	Float64() float64
}

// crypto random: default generation method.
type cryptoRNG struct{}

func (cryptoRNG) Float64() float64 {
	var buf [8]byte
	if _, err := cryptoRand.Read(buf[:]); err != nil {
		// back to math/rand/v2
		return rand.Float64()
	}

	// keep the top 53 bits
	u := binary.BigEndian.Uint64(buf[:]) >> 11
	return float64(u) / (1 << 53)
}

// Default returns the crypto-backed source used outside tests.
func Default() Source { return cryptoRNG{} }

// Replicable RNG for deterministic tests and simulations.
type seededRNG struct{ r *rand.Rand }

// NewSeeded returns a PCG source producing a reproducible stream.
func NewSeeded(seed uint64) Source {
	return &seededRNG{r: rand.New(rand.NewPCG(seed, 0))}
}

func (s *seededRNG) Float64() float64 { return s.r.Float64() }

// IntN returns a uniform value in [0, n). n <= 1 short-circuits to 0 without
// consuming a draw, mirroring the no-draw fast paths of probability 0 and 1.
func IntN(src Source, n int) int {
	if n <= 1 {
		return 0
	}
	return int(src.Float64() * float64(n))
}

// Between returns a uniform value in [min, max] inclusive.
func Between(src Source, min, max int) int {
	if max <= min {
		return min
	}
	return IntN(src, max-min+1) + min
}

// Chance reports a Bernoulli trial with probability p. p <= 0 never hits and
// p >= 1 always hits, neither consuming a draw.
func Chance(src Source, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return src.Float64() < p
}
