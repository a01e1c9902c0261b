package hist

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fako1024/nhist/axis"
)

func TestFillAndAtRoundTrip(t *testing.T) {
	h := New1(axis.NewRegular(10, 0, 1, axis.Underflow|axis.Overflow))

	for _, v := range []float64{0.05, 0.15, 0.25, 0.95, -1.0, 2.0} {
		require.NoError(t, h.Fill1(v))
	}

	// bins, per the scenario this axis's test in package axis verifies by
	// hand: underflow=1, [0,0.1)=1, [0.1,0.2)=1, [0.2,0.3)=1, [0.9,1)=1,
	// overflow=1.
	for i, want := range []float64{1, 1, 1, 1, 0, 0, 0, 0, 0, 0, 1, 1} {
		c, err := h.At(i)
		require.NoError(t, err)
		require.Equalf(t, want, c.Value, "bin %d", i)
	}
	require.Equal(t, uint64(0), h.DroppedFills())
}

func TestFillDropsOutOfRangeWithoutUnderflow(t *testing.T) {
	h := New1(axis.NewRegular(10, 0, 1, 0))
	require.NoError(t, h.Fill1(-1.0))
	require.NoError(t, h.Fill1(2.0))
	require.Equal(t, uint64(2), h.DroppedFills())
}

func TestFillArityMismatch(t *testing.T) {
	h := New2(axis.NewRegular(10, 0, 1, 0), axis.NewRegular(10, 0, 1, 0))
	err := h.Fill([]any{1.0})
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestWeightedFillPromotesStorageAndPreservesIdentity(t *testing.T) {
	h := New1(axis.NewInteger(0, 5, 0))
	require.NoError(t, h.Fill1(int64(2)))
	require.NoError(t, h.Fill1(int64(2), Weight(3.5)))

	c, err := h.At(2)
	require.NoError(t, err)
	require.Equal(t, 4.5, c.Value)
	require.Equal(t, 1+3.5*3.5, c.Variance)
}

func TestAddIsCommutativeAndAssociative(t *testing.T) {
	build := func() *Histogram { return New1(axis.NewInteger(0, 4, 0)) }

	a, b, c := build(), build(), build()
	require.NoError(t, a.Fill1(int64(1)))
	require.NoError(t, b.Fill1(int64(2)))
	require.NoError(t, c.Fill1(int64(3)))

	ab := a.Clone()
	require.NoError(t, ab.Add(b))
	abc := ab.Clone()
	require.NoError(t, abc.Add(c))

	cb := c.Clone()
	require.NoError(t, cb.Add(b))
	cba := cb.Clone()
	require.NoError(t, cba.Add(a))

	require.True(t, abc.Equal(cba))
}

func TestAddRejectsShapeMismatch(t *testing.T) {
	a := New1(axis.NewInteger(0, 4, 0))
	b := New1(axis.NewInteger(0, 5, 0))
	require.ErrorIs(t, a.Add(b), ErrShapeMismatch)
}

func TestReduceToPreservesTotal(t *testing.T) {
	h := New2(axis.NewInteger(0, 3, 0), axis.NewInteger(0, 3, 0))
	require.NoError(t, h.Fill([]any{int64(0), int64(0)}))
	require.NoError(t, h.Fill([]any{int64(1), int64(2)}))
	require.NoError(t, h.Fill([]any{int64(1), int64(2)}))
	require.NoError(t, h.Fill([]any{int64(2), int64(1)}))

	projected, err := h.ReduceTo(0)
	require.NoError(t, err)
	require.Equal(t, 1, projected.Rank())

	var total float64
	for i := 0; i < projected.Size(); i++ {
		c, err := projected.At(i)
		require.NoError(t, err)
		total += c.Value
	}
	require.Equal(t, float64(4), total)

	c0, _ := projected.At(0)
	c1, _ := projected.At(1)
	c2, _ := projected.At(2)
	require.Equal(t, 1.0, c0.Value)
	require.Equal(t, 2.0, c1.Value)
	require.Equal(t, 1.0, c2.Value)
}

func TestReduceToRejectsNonAscending(t *testing.T) {
	h := New2(axis.NewInteger(0, 3, 0), axis.NewInteger(0, 3, 0))
	_, err := h.ReduceTo(1, 0)
	require.ErrorIs(t, err, ErrNotAscending)
}

func TestGrowthPreservesExistingCounts(t *testing.T) {
	h := New1(axis.NewGrowableInteger(0, 5))
	require.NoError(t, h.Fill1(int64(2)))
	require.NoError(t, h.Fill1(int64(2)))
	require.NoError(t, h.Fill1(int64(-3)))

	c, err := h.At(int(2 - -3))
	require.NoError(t, err)
	require.Equal(t, 2.0, c.Value)

	c0, err := h.At(0)
	require.NoError(t, err)
	require.Equal(t, 1.0, c0.Value)
}

func TestGrowthUpwardOnlyStillResizesStorage(t *testing.T) {
	h := New1(axis.NewGrowableInteger(0, 1))

	require.NoError(t, h.Fill1(int64(0)))
	require.NoError(t, h.Fill1(int64(-2))) // grows downward, shift != 0
	require.NoError(t, h.Fill1(int64(5)))  // grows upward only, shift == 0

	lo, hi := h.Axis(0).(*axis.Integer).Range()
	require.Equal(t, int64(-2), lo)
	require.Equal(t, int64(6), hi)

	c, err := h.At(int(5 - lo))
	require.NoError(t, err)
	require.Equal(t, 1.0, c.Value)

	c0, err := h.At(int(0 - lo))
	require.NoError(t, err)
	require.Equal(t, 1.0, c0.Value)
}

func TestFirstFillOnGrowableAxisAllocatesGrownSize(t *testing.T) {
	h := New1(axis.NewGrowableInteger(0, 1))
	require.NoError(t, h.Fill1(int64(9)))

	c, err := h.At(9)
	require.NoError(t, err)
	require.Equal(t, 1.0, c.Value)
}

func TestSerializationRoundTrip(t *testing.T) {
	h := New2(
		axis.NewRegular(4, 0, 1, axis.Underflow|axis.Overflow),
		axis.NewCategorical([]string{"a", "b", "c"}, axis.Overflow),
	)
	require.NoError(t, h.Fill([]any{0.1, "b"}))
	require.NoError(t, h.Fill([]any{0.1, "b"}))
	require.NoError(t, h.Fill([]any{0.9, "z"}))

	var buf bytes.Buffer
	require.NoError(t, h.Save(&buf))

	got, err := Load(&buf)
	require.NoError(t, err)
	require.True(t, h.Equal(got))
}

func TestSerializationTransparentAcrossZeroSuppression(t *testing.T) {
	dense := New1(axis.NewInteger(0, 100, 0))
	for i := int64(0); i < 100; i++ {
		require.NoError(t, dense.Fill1(i))
	}
	sparse := New1(axis.NewInteger(0, 100, 0))
	require.NoError(t, sparse.Fill1(int64(50)))

	for _, h := range []*Histogram{dense, sparse} {
		var buf bytes.Buffer
		require.NoError(t, h.Save(&buf))
		got, err := Load(&buf)
		require.NoError(t, err)
		require.True(t, h.Equal(got))
	}
}

func TestIteratorVisitsEveryBin(t *testing.T) {
	h := New1(axis.NewInteger(0, 3, 0))
	require.NoError(t, h.Fill1(int64(1)))

	count := 0
	it := h.Begin()
	for !it.Done() {
		count++
		if !it.Next() {
			break
		}
	}
	require.Equal(t, h.Size(), count)
}
