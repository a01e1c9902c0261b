package axis

// Categorical is an axis over a finite, ordered set of string labels. It
// never has an underflow bin; overflow, when enabled, collects unrecognized
// labels instead of dropping them.
type Categorical struct {
	labels []string
	index  map[string]int32
	opts   Options
}

// NewCategorical constructs a categorical axis over labels, in the given
// order. Only Overflow is meaningful in opts; Underflow is cleared.
func NewCategorical(labels []string, opts Options) *Categorical {
	idx := make(map[string]int32, len(labels))
	for i, l := range labels {
		idx[l] = int32(i)
	}
	return &Categorical{labels: append([]string(nil), labels...), index: idx, opts: opts &^ (Underflow | Growth)}
}

func (a *Categorical) Extent() uint32   { return uint32(len(a.labels)) + underOverBins(a.opts) }
func (a *Categorical) Options() Options { return a.opts }
func (a *Categorical) Kind() Kind       { return KindCategorical }

func (a *Categorical) Update(v any) (index int32, shift int32) {
	label, ok := v.(string)
	if !ok {
		return -1, 0
	}
	if i, found := a.index[label]; found {
		return i, 0
	}
	// Unknown label: report the raw "at/above range" sentinel. The
	// linearizer treats it as valid only if Overflow is enabled, exactly
	// the way a continuous axis treats a value past its high edge.
	return int32(len(a.labels)), 0
}

func (a *Categorical) Equal(other Axis) bool {
	o, ok := other.(*Categorical)
	if !ok || len(a.labels) != len(o.labels) || a.opts != o.opts {
		return false
	}
	for i, l := range a.labels {
		if o.labels[i] != l {
			return false
		}
	}
	return true
}

// Labels returns the axis's label set in bin order.
func (a *Categorical) Labels() []string { return append([]string(nil), a.labels...) }

// Clone returns an independent copy.
func (a *Categorical) Clone() Axis {
	idx := make(map[string]int32, len(a.index))
	for k, v := range a.index {
		idx[k] = v
	}
	return &Categorical{labels: append([]string(nil), a.labels...), index: idx, opts: a.opts}
}
