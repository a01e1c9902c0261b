package hist

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
)

// blocks and bar render a fractional bar-chart cell using the eighth-block
// Unicode glyphs, the same ASCII-art convention the teacher's original
// single-axis histogram used for its Print method.
var blocks = []string{
	"▏", "▎", "▍", "▌", "▋", "▊", "▉", "█",
}

func bar(v float64) string {
	if v < 0. || math.IsNaN(v) {
		v = 0.
	}

	charIdx := int(math.Floor((v-math.Floor(v))*10.0) / 10.0 * 8.0)
	return strings.Repeat("█", int(v)) + blocks[charIdx]
}

// Print renders a one-dimensional histogram (rank 1, built over a Regular
// or Integer axis) as a tab-aligned bar chart, in the same style as the
// teacher's H1.Print. Histograms of other ranks return an error instead of
// attempting a meaningless flat dump.
func (h *Histogram) Print(w io.Writer) error {
	if h.Rank() != 1 {
		return errors.Errorf("hist: Print is only defined for rank-1 histograms, got rank %d", h.Rank())
	}

	tabw := tabwriter.NewWriter(w, 2, 2, 2, byte(' '), 0)

	total := 0.0
	for i := 0; i < h.Size(); i++ {
		c, _ := h.At(i)
		total += c.Value
	}

	yfmt := func(y float64) string {
		if y > 0 {
			return strconv.Itoa(int(y))
		}
		return ""
	}

	for i := 0; i < h.Size(); i++ {
		c, _ := h.At(i)
		pct := 0.0
		if total != 0 {
			pct = c.Value * 100.0 / total
		}
		fmt.Fprintf(tabw, "bin %d\t%.3g%%\t%s\n", i, pct, bar(pct)+"\t"+yfmt(c.Value))
	}

	return tabw.Flush()
}
