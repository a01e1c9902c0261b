package axis

// Regular is a uniform, real-valued axis over the half-open range [lo, hi)
// divided into n equal-width bins.
type Regular struct {
	lo, hi float64
	n      uint32
	opts   Options
	grow   bool
}

// NewRegular constructs a fixed-range regular axis.
func NewRegular(n uint32, lo, hi float64, opts Options) *Regular {
	return &Regular{lo: lo, hi: hi, n: n, opts: opts &^ Growth}
}

// NewGrowableRegular constructs a regular axis that extends itself in
// unit (one-bin) steps toward any out-of-range value rather than clipping
// to underflow/overflow. The underflow/overflow bits are ignored since
// growth subsumes them; Growth is always set on the returned axis.
func NewGrowableRegular(n uint32, lo, hi float64) *Regular {
	return &Regular{lo: lo, hi: hi, n: n, opts: Growth, grow: true}
}

func (a *Regular) Extent() uint32 { return a.n + underOverBins(a.opts) }
func (a *Regular) Options() Options { return a.opts }

func (a *Regular) Kind() Kind {
	if a.grow {
		return KindGrowableRegular
	}
	return KindRegular
}

func (a *Regular) step() float64 { return (a.hi - a.lo) / float64(a.n) }

func (a *Regular) Update(v any) (index int32, shift int32) {
	val, ok := toFloat64(v)
	if !ok {
		return -1, 0
	}

	if a.grow {
		return a.growTo(val)
	}

	return a.rawIndex(val), 0
}

// rawIndex returns the raw bin-relative index (see Axis.Update doc) without
// any growth or mutation.
func (a *Regular) rawIndex(val float64) int32 {
	step := a.step()
	if val < a.lo {
		return -1
	}
	if val >= a.hi {
		return int32(a.n)
	}
	idx := int32((val - a.lo) / step)
	if idx >= int32(a.n) {
		idx = int32(a.n) - 1
	}
	return idx
}

// growTo extends the axis in unit steps until val falls within [lo, hi),
// returning the raw index in the new range and the signed low-edge shift in
// bin units (negative when bins were prepended at the low end).
func (a *Regular) growTo(val float64) (index int32, shift int32) {
	step := a.step()
	var lowShift int32
	for val < a.lo {
		a.lo -= step
		a.n++
		lowShift--
	}
	for val >= a.hi {
		a.hi += step
		a.n++
	}
	return a.rawIndex(val), lowShift
}

func (a *Regular) Equal(other Axis) bool {
	o, ok := other.(*Regular)
	if !ok {
		return false
	}
	return a.lo == o.lo && a.hi == o.hi && a.n == o.n && a.opts == o.opts && a.grow == o.grow
}

// Range returns the current [lo, hi) bounds and the number of real bins.
func (a *Regular) Range() (lo, hi float64, n uint32) { return a.lo, a.hi, a.n }

// Clone returns an independent copy.
func (a *Regular) Clone() Axis {
	cp := *a
	return &cp
}

func underOverBins(opts Options) uint32 {
	var n uint32
	if opts.Has(Underflow) {
		n++
	}
	if opts.Has(Overflow) {
		n++
	}
	return n
}
