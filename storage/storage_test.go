package storage

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromotionChain(t *testing.T) {
	s := New(1)

	for i := 0; i < 300; i++ {
		s.Increase(0)
	}

	assert.Equal(t, Depth16, s.Depth())
	assert.Equal(t, 300.0, s.Value(0))
	assert.Equal(t, 300.0, s.Variance(0))

	s.IncreaseWeighted(0, 0.5)
	assert.Equal(t, DepthWeighted, s.Depth())
	assert.Equal(t, 300.5, s.Value(0))
	assert.Equal(t, 300.25, s.Variance(0))
}

func TestPromotionPreservesAllCounts(t *testing.T) {
	s := New(4)
	for i := 0; i < 4; i++ {
		for n := 0; n < (i+1)*100; n++ {
			s.Increase(i)
		}
	}
	before := make([]float64, 4)
	for i := range before {
		before[i] = s.Value(i)
	}

	// Force further promotion via a weighted fill elsewhere; every prior
	// count must be preserved exactly.
	s.IncreaseWeighted(0, 1)
	for i := range before {
		assert.Equal(t, before[i], s.Value(i))
	}
}

func TestUninitializedReadsZero(t *testing.T) {
	s := New(10)
	assert.Equal(t, DepthUninitialized, s.Depth())
	for i := 0; i < 10; i++ {
		assert.Equal(t, 0.0, s.Value(i))
		assert.Equal(t, 0.0, s.Variance(i))
	}
}

func TestAddPromotesToWidestAndWeighted(t *testing.T) {
	a := New(2)
	a.Increase(0)
	a.Increase(0)

	b := New(2)
	for i := 0; i < 300; i++ {
		b.Increase(0)
	}

	require.NoError(t, a.Add(b))
	assert.Equal(t, 302.0, a.Value(0))

	c := New(2)
	c.IncreaseWeighted(1, 2.5)
	require.NoError(t, a.Add(c))
	assert.Equal(t, DepthWeighted, a.Depth())
	assert.Equal(t, 2.5, a.Value(1))
}

func TestAddShapeMismatch(t *testing.T) {
	a := New(2)
	b := New(3)
	err := a.Add(b)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestScaleForcesWeighted(t *testing.T) {
	s := New(1)
	s.Increase(0)
	s.Increase(0)
	s.Scale(3.0)
	assert.Equal(t, DepthWeighted, s.Depth())
	assert.Equal(t, 6.0, s.Value(0))
	assert.Equal(t, 18.0, s.Variance(0))
}

func TestEqualIgnoresDepth(t *testing.T) {
	a := New(2)
	a.Increase(0)
	b := New(2)
	for i := 0; i < 257; i++ {
		b.Increase(0)
	}
	// a: count 1 at bin 0 (depth8); b2 holds the same bin 0 as the weighted
	// cell (1, 1), which is a's value and Poisson variance.
	b2 := New(2)
	b2.IncreaseWeighted(0, 1)

	assert.True(t, a.Equal(b2))
	assert.NotEqual(t, a.Depth(), DepthWeighted)
	assert.False(t, a.Equal(b))
}

func TestSerializationRoundTripDense(t *testing.T) {
	s := New(1000)
	for i := 0; i < 1000; i++ {
		s.Increase(i)
	}
	suppressed, payload := s.EncodeBody()
	assert.False(t, suppressed)

	decoded, err := DecodeBody(1000, s.Depth(), suppressed, payload)
	require.NoError(t, err)
	assert.True(t, s.Equal(decoded))
}

func TestSerializationRoundTripSparse(t *testing.T) {
	s := New(1000)
	s.Increase(42)
	suppressed, payload := s.EncodeBody()
	assert.True(t, suppressed)

	decoded, err := DecodeBody(1000, s.Depth(), suppressed, payload)
	require.NoError(t, err)
	assert.True(t, s.Equal(decoded))

	dense := New(1000)
	for i := 0; i < 1000; i++ {
		dense.Increase(i)
	}
	_, densePayload := dense.EncodeBody()
	assert.True(t, len(payload) < len(densePayload))
}

func TestSerializationWeightedRoundTrip(t *testing.T) {
	s := New(5)
	s.IncreaseWeighted(2, 1.5)
	s.IncreaseWeighted(2, math.Pi)
	suppressed, payload := s.EncodeBody()

	decoded, err := DecodeBody(5, s.Depth(), suppressed, payload)
	require.NoError(t, err)
	assert.True(t, s.Equal(decoded))
}

func TestRebuildTranslatesIndices(t *testing.T) {
	s := New(3)
	s.Increase(0)
	s.Increase(1)
	s.Increase(1)
	s.Increase(2)

	// Shift everything up by one (as if one bin were prepended at the low end).
	rebuilt := s.Rebuild(4, func(i int) (int, bool) { return i + 1, true })

	assert.Equal(t, 0.0, rebuilt.Value(0))
	assert.Equal(t, 1.0, rebuilt.Value(1))
	assert.Equal(t, 2.0, rebuilt.Value(2))
	assert.Equal(t, 1.0, rebuilt.Value(3))
}
