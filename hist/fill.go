package hist

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// fillConfig accumulates the options passed to Fill.
type fillConfig struct {
	weight    float64
	hasWeight bool
	sample    float64
	hasSample bool
}

// FillOption customizes a single Fill call.
type FillOption func(*fillConfig)

// Weight marks the fill as weighted, switching the touched bin to the
// (sum_w, sum_w^2) accumulator permanently.
func Weight(w float64) FillOption {
	return func(c *fillConfig) {
		c.weight = w
		c.hasWeight = true
	}
}

// Sample attaches a real-valued observation to the fill. The touched bin is
// still incremented as usual (by one, or by the weight); onSample, if set, is
// invoked with the observation.
func Sample(s float64) FillOption {
	return func(c *fillConfig) {
		c.sample = s
		c.hasSample = true
	}
}

// Fill dispatches coords to each axis, in order, and increments the
// resulting bin. A coordinate count that doesn't match the axis count is a
// programmer error, reported as ErrShapeMismatch rather than silently
// dropped. An out-of-range fill (no underflow/overflow bin available for
// it) is silently dropped and counted in DroppedFills instead
// — that is not itself a failure of the call.
func (h *Histogram) Fill(coords []any, opts ...FillOption) error {
	if len(coords) != len(h.axes) {
		return errors.Wrapf(ErrShapeMismatch, "hist: Fill: got %d coordinates for rank %d", len(coords), len(h.axes))
	}

	var cfg fillConfig
	for _, o := range opts {
		o(&cfg)
	}

	offset, valid := h.linearize(coords)
	if !valid {
		h.dropped++
		if h.logger != nil {
			h.logger.Debug("hist: fill dropped", zap.Uint64("dropped", h.dropped))
		}
		return nil
	}

	i := int(offset)
	before := h.store.Depth()
	if cfg.hasWeight {
		h.store.IncreaseWeighted(i, cfg.weight)
	} else {
		h.store.Increase(i)
	}
	if after := h.store.Depth(); h.logger != nil && after != before {
		h.logger.Debug("hist: storage promoted", zap.Uint8("from", uint8(before)), zap.Uint8("to", uint8(after)))
	}

	if h.onSample != nil && cfg.hasSample {
		w := cfg.weight
		if !cfg.hasWeight {
			w = 1
		}
		h.onSample(i, w, cfg.sample)
	}

	return nil
}

// Fill1 is sugar for Fill on a rank-1 histogram, avoiding the []any wrapper
// at call sites built around New1.
func (h *Histogram) Fill1(v any, opts ...FillOption) error {
	return h.Fill([]any{v}, opts...)
}
