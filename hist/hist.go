// Package hist implements the histogram façade of spec.md §4.5: a container
// parametrized by an ordered collection of axis.Axis values and a
// storage.Storage, tying the two together with fill, lookup, combination,
// scaling, equality, iteration, and dimensional projection.
//
// The axis collection is represented the same way regardless of whether its
// rank is known at compile time or only at runtime ([]axis.Axis); New1/New2/
// New3 are fixed-arity convenience constructors over the same underlying
// type, standing in for what spec.md §4.2 calls the "static" collection,
// while NewN is the "dynamic" one. Both share every method below.
package hist

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/fako1024/nhist/axis"
	"github.com/fako1024/nhist/storage"
)

// Cell is a read-only snapshot of a single bin's value and variance.
type Cell struct {
	Value    float64
	Variance float64
}

// Option configures a Histogram at construction time.
type Option func(*Histogram)

// WithLogger attaches a zap logger used for promotion and dropped-fill
// diagnostics. A Histogram without one stays silent, as a library should.
func WithLogger(l *zap.Logger) Option {
	return func(h *Histogram) { h.logger = l }
}

// WithSampleHook registers the callback invoked for every fill carrying a
// Sample option — the "calls the cell as a callable with s" capability of
// spec.md §4.3/§6 for accumulator-style collaborators. offset is the flat
// storage offset the fill landed on.
func WithSampleHook(f func(offset int, weight, sample float64)) Option {
	return func(h *Histogram) { h.onSample = f }
}

// Histogram is the n-dimensional histogram façade.
type Histogram struct {
	axes  []axis.Axis
	store *storage.Storage

	logger   *zap.Logger
	onSample func(offset int, weight, sample float64)
	dropped  uint64
}

// NewN constructs a histogram over the given axis collection (the "dynamic",
// runtime-rank shape of spec.md §4.2).
func NewN(axes []axis.Axis, opts ...Option) *Histogram {
	h := &Histogram{axes: append([]axis.Axis(nil), axes...)}
	h.store = storage.New(h.sizeOf(h.extents()))
	for _, o := range opts {
		o(h)
	}
	return h
}

// New1, New2 and New3 are fixed-arity convenience constructors — the
// "static" shape of spec.md §4.2 expressed without heterogeneous-tuple
// generics, since every axis kind is already type-erased behind axis.Axis.
func New1(a0 axis.Axis, opts ...Option) *Histogram { return NewN([]axis.Axis{a0}, opts...) }
func New2(a0, a1 axis.Axis, opts ...Option) *Histogram {
	return NewN([]axis.Axis{a0, a1}, opts...)
}
func New3(a0, a1, a2 axis.Axis, opts ...Option) *Histogram {
	return NewN([]axis.Axis{a0, a1, a2}, opts...)
}

func (h *Histogram) extents() []uint32 {
	ext := make([]uint32, len(h.axes))
	for i, a := range h.axes {
		ext[i] = a.Extent()
	}
	return ext
}

func (h *Histogram) sizeOf(extents []uint32) int {
	n := 1
	for _, e := range extents {
		n *= int(e)
	}
	return n
}

// Rank returns the number of axes.
func (h *Histogram) Rank() int { return len(h.axes) }

// Size returns the total number of bins (the product of every axis extent).
func (h *Histogram) Size() int { return h.store.Len() }

// Axis returns the k-th axis.
func (h *Histogram) Axis(k int) axis.Axis { return h.axes[k] }

// ForEachAxis visits every axis in order.
func (h *Histogram) ForEachAxis(f func(k int, a axis.Axis)) {
	for i, a := range h.axes {
		f(i, a)
	}
}

// DroppedFills returns the number of fills silently dropped so far because
// they fell outside a non-underflow/overflow, non-growable axis — the
// diagnostic the Open Question in spec.md §9 asks be made available.
func (h *Histogram) DroppedFills() uint64 { return h.dropped }

// At is a pure read: it returns the cell at the given per-axis internal
// indices (in [0, extent_k) for every axis), or ErrOutOfRange.
func (h *Histogram) At(indices ...int) (Cell, error) {
	if len(indices) != len(h.axes) {
		return Cell{}, errors.Wrapf(ErrShapeMismatch, "at: got %d indices, rank is %d", len(indices), len(h.axes))
	}
	extents := h.extents()
	strides := stridesFor(extents)
	var offset uint64
	for k, idx := range indices {
		if idx < 0 || idx >= int(extents[k]) {
			return Cell{}, errors.Wrapf(ErrOutOfRange, "axis %d: index %d not in [0, %d)", k, idx, extents[k])
		}
		offset += uint64(idx) * strides[k]
	}
	return Cell{Value: h.store.Value(int(offset)), Variance: h.store.Variance(int(offset))}, nil
}

// Reset clears every cell, returning storage to its minimal (uninitialized)
// depth. Axes, and any range they've grown to, are left untouched.
func (h *Histogram) Reset() {
	h.store.Reset(h.store.Len())
	h.dropped = 0
}

// Add implements h += o: o's axes must be element-wise equal to h's (same
// kinds, parameters, and extents); the combination is cell-wise delegated to
// storage. h is left unmodified if the shapes don't match.
func (h *Histogram) Add(o *Histogram) error {
	if !h.sameShape(o) {
		return errors.Wrap(ErrShapeMismatch, "hist.Add")
	}
	return h.store.Add(o.store)
}

// Scale implements h *= k, forcing promotion to the weighted depth.
func (h *Histogram) Scale(k float64) { h.store.Scale(k) }

// Div implements h /= k.
func (h *Histogram) Div(k float64) { h.store.Scale(1 / k) }

// Equal implements h1 == h2: axes equal and storage equal.
func (h *Histogram) Equal(o *Histogram) bool {
	return h.sameShape(o) && h.store.Equal(o.store)
}

func (h *Histogram) sameShape(o *Histogram) bool {
	if len(h.axes) != len(o.axes) {
		return false
	}
	for i := range h.axes {
		if !h.axes[i].Equal(o.axes[i]) {
			return false
		}
	}
	return true
}

// Clone returns a deep, independent copy (axes and storage alike).
func (h *Histogram) Clone() *Histogram {
	axes := make([]axis.Axis, len(h.axes))
	for i, a := range h.axes {
		axes[i] = a.Clone()
	}
	return &Histogram{axes: axes, store: h.store.Clone(), logger: h.logger, onSample: h.onSample, dropped: h.dropped}
}
