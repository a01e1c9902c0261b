package promexport

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/fako1024/nhist/axis"
	"github.com/fako1024/nhist/hist"
)

func TestCollectorGatherable(t *testing.T) {
	h := hist.New1(axis.NewInteger(0, 3, 0))
	require.NoError(t, h.Fill1(int64(1)))

	c := New(h, "nhist_test_bin", "test bin values", nil)

	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(c))

	count, err := testutil.GatherAndCount(reg, "nhist_test_bin")
	require.NoError(t, err)
	require.Equal(t, 3, count)
}
