// Package storage implements the adaptive, dense bin-value container used by
// package hist. A Storage starts uninitialized (no backing buffer at all) and
// is promoted on first fill to the narrowest unsigned width that can hold a
// count, widening in place whenever a bin would otherwise overflow, and
// finally transitioning to a weighted (sum_w, sum_w^2) accumulator once any
// weighted fill occurs. Promotion never goes backwards.
package storage

import (
	"math"

	"github.com/pkg/errors"
)

// Depth is the per-cell width class of a Storage.
type Depth uint8

const (
	// DepthUninitialized means no backing buffer has been allocated yet;
	// every bin reads as zero. Allocation is deferred to the first write.
	DepthUninitialized Depth = iota
	Depth8
	Depth16
	Depth32
	Depth64
	// DepthWeighted stores (sum_w, sum_w^2) float64 pairs per bin and is
	// the terminal depth: once reached, a Storage never demotes.
	DepthWeighted
)

// ErrShapeMismatch is returned when two storages of differing size are
// combined.
var ErrShapeMismatch = errors.New("storage: size mismatch")

// weightedCell holds the running sum of weights and sum of squared weights
// for a single bin.
type weightedCell struct {
	sumW  float64
	sumW2 float64
}

// Storage is the adaptive dense bin-value container described in spec.md
// §4.1. At most one of the typed slices below is non-nil at any time (none
// while DepthUninitialized), selected by depth; this is the sum-type-of-typed-vectors representation
// the design favors over a raw reinterpret-cast buffer.
type Storage struct {
	size  int
	depth Depth

	u8  []uint8
	u16 []uint16
	u32 []uint32
	u64 []uint64
	w   []weightedCell
}

// New allocates a Storage for size bins. The backing buffer is not allocated
// until the first write (depth starts at DepthUninitialized).
func New(size int) *Storage {
	return &Storage{size: size}
}

// Reset re-establishes a Storage's invariants: depth returns to
// DepthUninitialized and every bin reads as zero again. size may change,
// e.g. when an axis collection is rebuilt from scratch.
func (s *Storage) Reset(size int) {
	*s = Storage{size: size}
}

// Len returns the number of bins.
func (s *Storage) Len() int { return s.size }

// Depth returns the current width class.
func (s *Storage) Depth() Depth { return s.depth }

// Increase performs an unweighted increment at bin i, promoting in place if
// the current cell is already at its type's maximum.
func (s *Storage) Increase(i int) {
	s.addCount(i, 1)
}

// addCount adds delta (an exact unsigned count) to bin i, promoting through
// as many widths as necessary. Each promotion replaces the storage arm and
// retries via a recursive call, per the design note against in-place
// fallthrough.
func (s *Storage) addCount(i int, delta uint64) {
	switch s.depth {
	case DepthUninitialized:
		s.u8 = make([]uint8, s.size)
		s.depth = Depth8
		s.addCount(i, delta)

	case Depth8:
		if uint64(s.u8[i])+delta > math.MaxUint8 {
			s.promoteInt(Depth16)
			s.addCount(i, delta)
			return
		}
		s.u8[i] += uint8(delta)

	case Depth16:
		if uint64(s.u16[i])+delta > math.MaxUint16 {
			s.promoteInt(Depth32)
			s.addCount(i, delta)
			return
		}
		s.u16[i] += uint16(delta)

	case Depth32:
		if uint64(s.u32[i])+delta > math.MaxUint32 {
			s.promoteInt(Depth64)
			s.addCount(i, delta)
			return
		}
		s.u32[i] += uint32(delta)

	case Depth64:
		if s.u64[i] > math.MaxUint64-delta {
			s.promoteWeighted()
			s.w[i].sumW += float64(delta)
			s.w[i].sumW2 += float64(delta)
			return
		}
		s.u64[i] += delta

	case DepthWeighted:
		s.w[i].sumW += float64(delta)
		s.w[i].sumW2 += float64(delta)

	default:
		panic("storage: invalid depth")
	}
}

// IncreaseWeighted performs a weighted increment at bin i. If the storage is
// not already weighted, it is promoted first: each former integer count c
// becomes (c, c), the identity that preserves the Poisson variance
// convention for previously unweighted fills.
func (s *Storage) IncreaseWeighted(i int, w float64) {
	if s.depth != DepthWeighted {
		s.promoteWeighted()
	}
	s.w[i].sumW += w
	s.w[i].sumW2 += w * w
}

// Value returns the count (integer cells) or sum_w (weighted cells) at bin i.
func (s *Storage) Value(i int) float64 {
	switch s.depth {
	case DepthUninitialized:
		return 0
	case Depth8:
		return float64(s.u8[i])
	case Depth16:
		return float64(s.u16[i])
	case Depth32:
		return float64(s.u32[i])
	case Depth64:
		return float64(s.u64[i])
	case DepthWeighted:
		return s.w[i].sumW
	default:
		panic("storage: invalid depth")
	}
}

// Variance returns the Poisson variance (== count) for integer cells, or
// sum_w^2 for weighted cells.
func (s *Storage) Variance(i int) float64 {
	if s.depth == DepthWeighted {
		return s.w[i].sumW2
	}
	return s.Value(i)
}

// promoteInt widens every cell from the current integer depth to next,
// zero-extending each value. size and existing counts are preserved exactly.
func (s *Storage) promoteInt(next Depth) {
	switch next {
	case Depth16:
		dst := make([]uint16, s.size)
		for i, v := range s.u8 {
			dst[i] = uint16(v)
		}
		s.u8, s.u16, s.depth = nil, dst, Depth16
	case Depth32:
		dst := make([]uint32, s.size)
		for i, v := range s.u16 {
			dst[i] = uint32(v)
		}
		s.u16, s.u32, s.depth = nil, dst, Depth32
	case Depth64:
		dst := make([]uint64, s.size)
		for i, v := range s.u32 {
			dst[i] = uint64(v)
		}
		s.u32, s.u64, s.depth = nil, dst, Depth64
	default:
		panic("storage: invalid promotion target")
	}
}

// promoteWeighted transitions the storage to the terminal weighted depth.
// Every former integer count c becomes (c, c); an uninitialized storage
// simply allocates zeroed weighted cells.
func (s *Storage) promoteWeighted() {
	dst := make([]weightedCell, s.size)
	switch s.depth {
	case DepthUninitialized:
	case Depth8:
		for i, v := range s.u8 {
			dst[i] = weightedCell{float64(v), float64(v)}
		}
	case Depth16:
		for i, v := range s.u16 {
			dst[i] = weightedCell{float64(v), float64(v)}
		}
	case Depth32:
		for i, v := range s.u32 {
			dst[i] = weightedCell{float64(v), float64(v)}
		}
	case Depth64:
		for i, v := range s.u64 {
			dst[i] = weightedCell{float64(v), float64(v)}
		}
	case DepthWeighted:
		copy(dst, s.w)
	default:
		panic("storage: invalid depth")
	}
	s.u8, s.u16, s.u32, s.u64, s.w, s.depth = nil, nil, nil, nil, dst, DepthWeighted
}

// Add performs bin-wise addition, promoting the receiver as needed so every
// per-bin sum is represented exactly, and to weighted if either side already
// is. The argument is never mutated.
func (s *Storage) Add(o *Storage) error {
	if s.size != o.size {
		return errors.Wrap(ErrShapeMismatch, "storage.Add")
	}

	if o.depth == DepthWeighted && s.depth != DepthWeighted {
		s.promoteWeighted()
	}

	if s.depth == DepthWeighted {
		for i := 0; i < s.size; i++ {
			s.w[i].sumW += o.Value(i)
			s.w[i].sumW2 += o.Variance(i)
		}
		return nil
	}

	for i := 0; i < s.size; i++ {
		s.addCount(i, o.countAt(i))
	}
	return nil
}

// countAt returns the exact unsigned count at bin i for an integer-depth
// storage. Only valid when the storage is not weighted.
func (s *Storage) countAt(i int) uint64 {
	switch s.depth {
	case DepthUninitialized:
		return 0
	case Depth8:
		return uint64(s.u8[i])
	case Depth16:
		return uint64(s.u16[i])
	case Depth32:
		return uint64(s.u32[i])
	case Depth64:
		return s.u64[i]
	default:
		panic("storage: countAt on weighted depth")
	}
}

// AddInto adds bin i of the receiver into bin j of dst, promoting dst to
// widen or to the weighted depth exactly as Add does per-bin. It is the
// primitive hist.ReduceTo folds many-to-one projections with.
func (s *Storage) AddInto(i int, dst *Storage, j int) {
	if s.depth == DepthWeighted {
		w := s.w[i]
		if w.sumW == 0 && w.sumW2 == 0 {
			return
		}
		if dst.depth != DepthWeighted {
			dst.promoteWeighted()
		}
		dst.w[j].sumW += w.sumW
		dst.w[j].sumW2 += w.sumW2
		return
	}
	c := s.countAtSafe(i)
	if c == 0 {
		return
	}
	dst.addCount(j, c)
}

// Scale multiplies every bin by k, forcing promotion to the weighted depth:
// sum_w scales by k, sum_w^2 by k^2.
func (s *Storage) Scale(k float64) {
	s.promoteWeighted()
	for i := range s.w {
		s.w[i].sumW *= k
		s.w[i].sumW2 *= k * k
	}
}

// Equal compares two storages bin-wise, both virtually promoted to the
// weighted view (Value/Variance already compute that view regardless of
// depth, so no mutation is required here).
func (s *Storage) Equal(o *Storage) bool {
	if s.size != o.size {
		return false
	}
	for i := 0; i < s.size; i++ {
		if s.Value(i) != o.Value(i) || s.Variance(i) != o.Variance(i) {
			return false
		}
	}
	return true
}

// Rebuild returns a new Storage of newSize that preserves the receiver's
// depth representation, copying bin i of the receiver to indexMap(i) in the
// result whenever indexMap reports ok. It is the storage-side half of axis
// growth (spec.md §4.4): the caller (the linearizer) supplies indexMap,
// translating every old multi-axis offset to its new one.
func (s *Storage) Rebuild(newSize int, indexMap func(i int) (j int, ok bool)) *Storage {
	dst := &Storage{size: newSize, depth: s.depth}
	switch s.depth {
	case DepthUninitialized:
		return dst
	case Depth8:
		dst.u8 = make([]uint8, newSize)
		for i, v := range s.u8 {
			if j, ok := indexMap(i); ok {
				dst.u8[j] = v
			}
		}
	case Depth16:
		dst.u16 = make([]uint16, newSize)
		for i, v := range s.u16 {
			if j, ok := indexMap(i); ok {
				dst.u16[j] = v
			}
		}
	case Depth32:
		dst.u32 = make([]uint32, newSize)
		for i, v := range s.u32 {
			if j, ok := indexMap(i); ok {
				dst.u32[j] = v
			}
		}
	case Depth64:
		dst.u64 = make([]uint64, newSize)
		for i, v := range s.u64 {
			if j, ok := indexMap(i); ok {
				dst.u64[j] = v
			}
		}
	case DepthWeighted:
		dst.w = make([]weightedCell, newSize)
		for i, v := range s.w {
			if j, ok := indexMap(i); ok {
				dst.w[j] = v
			}
		}
	}
	return dst
}

// Clone returns a deep, independent copy.
func (s *Storage) Clone() *Storage {
	c := &Storage{size: s.size, depth: s.depth}
	switch s.depth {
	case Depth8:
		c.u8 = append([]uint8(nil), s.u8...)
	case Depth16:
		c.u16 = append([]uint16(nil), s.u16...)
	case Depth32:
		c.u32 = append([]uint32(nil), s.u32...)
	case Depth64:
		c.u64 = append([]uint64(nil), s.u64...)
	case DepthWeighted:
		c.w = append([]weightedCell(nil), s.w...)
	}
	return c
}
