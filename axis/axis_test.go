package axis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func biased(opts Options, raw int32) int32 {
	if opts.Has(Underflow) {
		return raw + 1
	}
	return raw
}

func TestRegularScenario(t *testing.T) {
	opts := Underflow | Overflow
	a := NewRegular(10, 0.0, 1.0, opts)
	require.EqualValues(t, 12, a.Extent())

	cases := []struct {
		val      float64
		wantBias int32
	}{
		{0.05, 1},
		{0.15, 2},
		{0.25, 3},
		{0.95, 10},
		{-1.0, 0},
		{2.0, 11},
	}
	for _, c := range cases {
		raw, shift := a.Update(c.val)
		assert.Zero(t, shift)
		assert.Equal(t, c.wantBias, biased(opts, raw), "val=%v", c.val)
	}
}

func TestRegularDropsWithoutUnderflow(t *testing.T) {
	a := NewRegular(4, 0, 1, Overflow)
	raw, _ := a.Update(-0.5)
	assert.Equal(t, int32(-1), raw)
	// extent has no underflow bin, so -1 stays invalid for the linearizer.
	assert.EqualValues(t, 5, a.Extent())
}

func TestIntegerAxis(t *testing.T) {
	a := NewInteger(0, 4, Underflow|Overflow)
	raw, _ := a.Update(0)
	assert.Equal(t, int32(0), raw)
	raw, _ = a.Update(3)
	assert.Equal(t, int32(3), raw)
	raw, _ = a.Update(4)
	assert.Equal(t, int32(4), raw) // overflow sentinel
	raw, _ = a.Update(-1)
	assert.Equal(t, int32(-1), raw) // underflow sentinel
}

func TestCategoricalAxis(t *testing.T) {
	a := NewCategorical([]string{"a", "b", "c"}, Overflow)
	raw, _ := a.Update("b")
	assert.Equal(t, int32(1), raw)
	raw, _ = a.Update("zzz")
	assert.Equal(t, int32(3), raw) // overflow bucket
	assert.EqualValues(t, 4, a.Extent())
}

func TestGrowableIntegerGrowsDownwardAndUpward(t *testing.T) {
	a := NewGrowableInteger(0, 1)

	raw, shift := a.Update(int64(0))
	assert.Equal(t, int32(0), raw)
	assert.Zero(t, shift)

	raw, shift = a.Update(int64(-2))
	assert.Equal(t, int32(-2), shift) // low edge moved down by 2 bins
	assert.Equal(t, int32(0), raw)    // -2 is now the new bin 0

	raw, shift = a.Update(int64(5))
	assert.Zero(t, shift) // growth at the high end needs no translation
	lo, hi := a.Range()
	assert.Equal(t, int64(-2), lo)
	assert.Equal(t, int64(6), hi)
	assert.Equal(t, int32(7), raw) // 5 - (-2)
}

func TestAxisEncodeDecodeRoundTrip(t *testing.T) {
	axes := []Axis{
		NewRegular(10, 0, 1, Underflow|Overflow),
		NewInteger(-5, 5, Overflow),
		NewCategorical([]string{"x", "y"}, Overflow),
		NewGrowableRegular(4, 0, 1),
		NewGrowableInteger(0, 10),
	}

	for _, a := range axes {
		buf := Encode(a, nil)
		decoded, n, err := Decode(buf)
		require.NoError(t, err)
		assert.Equal(t, len(buf), n)
		assert.True(t, a.Equal(decoded), "%#v != %#v", a, decoded)
	}
}
