package stats

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPoissonIntervalZeroCount(t *testing.T) {
	lo, hi := PoissonInterval(0, 0.6827)
	require.Equal(t, 0.0, lo)
	require.Greater(t, hi, 0.0)
}

func TestPoissonIntervalContainsCount(t *testing.T) {
	lo, hi := PoissonInterval(10, 0.6827)
	require.LessOrEqual(t, lo, 10.0)
	require.GreaterOrEqual(t, hi, 10.0)
}

func TestNormalIntervalSymmetric(t *testing.T) {
	lo, hi := NormalInterval(10, 4, 1)
	require.Equal(t, 8.0, lo)
	require.Equal(t, 12.0, hi)
}

func TestBisectFindsRoot(t *testing.T) {
	root := bisect(func(x float64) float64 { return x*x - 2 }, 0, 2)
	require.InDelta(t, 1.4142135, root, 1e-5)
}
