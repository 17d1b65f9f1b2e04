package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// fixed returns the same value on every draw and counts draws taken.
type fixed struct {
	v     float64
	draws int
}

func (f *fixed) Float64() float64 {
	f.draws++
	return f.v
}

func TestSeededIsReproducible(t *testing.T) {
	a := NewSeeded(42)
	b := NewSeeded(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
	}
}

func TestIntN(t *testing.T) {
	src := NewSeeded(1)
	for i := 0; i < 1000; i++ {
		v := IntN(src, 7)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 7)
	}

	f := &fixed{v: 0.5}
	assert.Equal(t, 0, IntN(f, 1))
	assert.Equal(t, 0, IntN(f, 0))
	assert.Equal(t, 0, f.draws, "n <= 1 must not consume a draw")
}

func TestBetween(t *testing.T) {
	src := NewSeeded(2)
	for i := 0; i < 1000; i++ {
		v := Between(src, 50, 199)
		assert.GreaterOrEqual(t, v, 50)
		assert.LessOrEqual(t, v, 199)
	}

	f := &fixed{v: 0.5}
	assert.Equal(t, 10, Between(f, 10, 10))
	assert.Equal(t, 0, f.draws, "degenerate range must not consume a draw")

	f.v = 0.999999
	assert.Equal(t, 199, Between(f, 50, 199))
	f.v = 0.0
	assert.Equal(t, 50, Between(f, 50, 199))
}

func TestChance(t *testing.T) {
	f := &fixed{v: 0.5}
	assert.False(t, Chance(f, 0))
	assert.False(t, Chance(f, -1))
	assert.True(t, Chance(f, 1))
	assert.True(t, Chance(f, 1.5))
	assert.Equal(t, 0, f.draws, "edge probabilities must not consume a draw")

	assert.True(t, Chance(f, 0.6))
	assert.False(t, Chance(f, 0.4))
	assert.Equal(t, 2, f.draws)
}

func TestDefaultInRange(t *testing.T) {
	src := Default()
	for i := 0; i < 100; i++ {
		v := src.Float64()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}
