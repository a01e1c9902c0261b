package hist

import (
	"github.com/pkg/errors"

	"github.com/fako1024/nhist/axis"
)

// ReduceTo projects the histogram onto the given subset of axis indices, in
// the order listed, summing over every dropped axis. keep must be strictly
// ascending and every index in range, per spec.md §4.5; violating either is
// reported as ErrOutOfRange / ErrNotAscending rather than attempted.
func (h *Histogram) ReduceTo(keep ...int) (*Histogram, error) {
	for i, k := range keep {
		if k < 0 || k >= len(h.axes) {
			return nil, errors.Wrapf(ErrOutOfRange, "reduceto: axis index %d out of range", k)
		}
		if i > 0 && keep[i-1] >= k {
			return nil, errors.Wrap(ErrNotAscending, "reduceto: keep indices must be strictly ascending")
		}
	}

	oldExtents := h.extents()
	oldStrides := stridesFor(oldExtents)

	newAxes := make([]axis.Axis, len(keep))
	for i, k := range keep {
		newAxes[i] = h.axes[k].Clone()
	}

	out := NewN(newAxes)
	newExtents := out.extents()
	newStrides := stridesFor(newExtents)

	for i := 0; i < h.store.Len(); i++ {
		oldIdx := decompose(i, oldExtents, oldStrides)
		var j uint64
		for n, k := range keep {
			j += uint64(oldIdx[k]) * newStrides[n]
		}
		h.store.AddInto(i, out.store, int(j))
	}

	return out, nil
}
