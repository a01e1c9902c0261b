package hist

import (
	"math"

	"github.com/fako1024/nhist/stats"
	"github.com/fako1024/nhist/storage"
)

// Interval returns a confidence interval for the cell at the given
// per-axis indices: Garwood/Poisson for an unweighted (integer-depth) bin,
// a normal approximation around sum_w/sum_w^2 once any weighted fill has
// promoted the storage.
func (h *Histogram) Interval(confidence float64, indices ...int) (lo, hi float64, err error) {
	c, err := h.At(indices...)
	if err != nil {
		return 0, 0, err
	}

	if h.store.Depth() == storage.DepthWeighted {
		z := normalZ(confidence)
		lo, hi = stats.NormalInterval(c.Value, c.Variance, z)
		return lo, hi, nil
	}

	lo, hi = stats.PoissonInterval(c.Value, confidence)
	return lo, hi, nil
}

// normalZ converts a two-sided confidence level to a z-score via the
// inverse error function relation z = sqrt(2) * erfinv(confidence).
func normalZ(confidence float64) float64 {
	return math.Sqrt2 * math.Erfinv(confidence)
}
