package hist

// rebuild reallocates the histogram's storage after one or more axes have
// grown, translating every existing bin to its new offset. Per spec.md
// §4.4, a bin whose axis k grew downward by shift_k bins moves by
// max(-shift_k, 0) along that axis; axes that only grew upward, or didn't
// grow at all, need no translation.
func (h *Histogram) rebuild(oldExtents, newExtents []uint32, shifts []int32) {
	oldStrides := stridesFor(oldExtents)
	newStrides := stridesFor(newExtents)

	delta := make([]int32, len(shifts))
	for k, s := range shifts {
		if s < 0 {
			delta[k] = -s
		}
	}

	indexMap := func(i int) (int, bool) {
		oldIdx := decompose(i, oldExtents, oldStrides)
		j := uint64(0)
		for k, idx := range oldIdx {
			nk := idx + delta[k]
			if nk < 0 || nk >= int32(newExtents[k]) {
				return 0, false
			}
			j += uint64(nk) * newStrides[k]
		}
		return int(j), true
	}

	h.store = h.store.Rebuild(h.sizeOf(newExtents), indexMap)
}
