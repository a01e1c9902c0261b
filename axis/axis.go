// Package axis implements the axis kinds of spec.md §4.2: pure mappings
// from an input domain (reals, integers, or discrete labels) to the set of
// internal bin indices an axis owns, plus the metadata the linearizer and
// serializer need (extent, options, kind).
package axis

import "github.com/pkg/errors"

// Options is the per-axis bitmask of {underflow, overflow, circular, growth}.
type Options uint8

const (
	Underflow Options = 1 << iota
	Overflow
	Circular
	Growth
)

// Has reports whether every bit in want is set.
func (o Options) Has(want Options) bool { return o&want == want }

// Kind tags the concrete axis implementation, used for serialization and for
// the closed, exhaustively-switched dispatch the design notes call for in
// place of a virtual-table plugin interface.
type Kind uint8

const (
	KindRegular Kind = iota
	KindInteger
	KindCategorical
	KindGrowableRegular
	KindGrowableInteger
)

// ErrInvalidValue describes a value whose type the axis kind does not accept
// (a programmer error, not an out-of-range value). Update does not return it:
// it maps such a value to the raw index -1, the same as a value below range.
var ErrInvalidValue = errors.New("axis: value has wrong type for this axis kind")

// Axis is the common contract every axis kind satisfies. Update maps a
// coordinate to a raw bin-relative index in {-1, 0, ..., n-1, n}: -1 means
// "below the real-bin range", n means "at or above it", and 0..n-1 are real
// bins; the linearizer — not the axis — applies the underflow/overflow bias
// and bounds check described in spec.md §4.3. shift is the signed number of
// bins by which the low edge moved (negative when the axis grew downward,
// zero for non-growable axes and for growth confined to the high edge).
type Axis interface {
	Extent() uint32
	Options() Options
	Kind() Kind
	Update(v any) (index int32, shift int32)
	Equal(other Axis) bool
	// Clone returns an independent copy, so a growable axis handed to a
	// new owner (e.g. by ReduceTo) can grow without aliasing the original.
	Clone() Axis
}

// NBins returns the number of real (non-underflow/overflow) bins implied by
// extent and options.
func NBins(extent uint32, opts Options) uint32 {
	n := extent
	if opts.Has(Underflow) {
		n--
	}
	if opts.Has(Overflow) {
		n--
	}
	return n
}

func toFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	default:
		return 0, false
	}
}

func toInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case float64:
		if x == float64(int64(x)) {
			return int64(x), true
		}
		return 0, false
	default:
		return 0, false
	}
}
