package hist

import "github.com/fako1024/nhist/axis"

// stridesFor computes row-major strides from a list of axis extents, with
// axis 0 varying fastest (stride_0 = 1, stride_{i+1} = stride_i * extent_i),
// per spec.md §3.
func stridesFor(extents []uint32) []uint64 {
	strides := make([]uint64, len(extents))
	s := uint64(1)
	for i, e := range extents {
		strides[i] = s
		s *= uint64(e)
	}
	return strides
}

// decompose recovers the per-axis indices for a flat offset, given the
// strides that produced it.
func decompose(offset int, extents []uint32, strides []uint64) []int32 {
	idx := make([]int32, len(extents))
	for k := len(extents) - 1; k >= 0; k-- {
		idx[k] = int32(uint64(offset) / strides[k] % uint64(extents[k]))
	}
	return idx
}

// linearize is the algorithm of spec.md §4.3: it dispatches each coordinate
// to its axis, biases underflow-reserving axes, rebuilds storage if any axis
// grew, and folds the resulting per-axis indices into a flat offset.
func (h *Histogram) linearize(coords []any) (offset uint64, valid bool) {
	r := len(h.axes)
	oldExtents := h.extents()

	idx := make([]int32, r)
	shifts := make([]int32, r)

	for k, a := range h.axes {
		j, shift := a.Update(coords[k])
		if a.Options().Has(axis.Underflow) {
			j++
		}
		idx[k] = j
		shifts[k] = shift
	}

	newExtents := h.extents()

	// An axis's extent can grow purely at the high end, in which case
	// Update reports shift == 0 (shift only ever carries low-edge
	// movement, per axis.Axis.Update's contract) even though storage
	// still needs to be resized. So the rebuild trigger has to compare
	// extents directly rather than trust a nonzero shift.
	resized := false
	for k := range h.axes {
		if oldExtents[k] != newExtents[k] {
			resized = true
			break
		}
	}
	if resized {
		h.rebuild(oldExtents, newExtents, shifts)
	}

	strides := stridesFor(newExtents)
	valid = true
	offset = 0
	for k := range h.axes {
		if idx[k] < 0 || idx[k] >= int32(newExtents[k]) {
			valid = false
			continue
		}
		offset += uint64(idx[k]) * strides[k]
	}
	return offset, valid
}
