package hist

import "github.com/pkg/errors"

// Sentinel errors for the taxonomy in spec.md §7. Wrap with
// github.com/pkg/errors.Wrap at the detection site so callers can match with
// errors.Is while still getting a stack trace attached.
var (
	// ErrShapeMismatch is returned by Add when two histograms' axes are
	// not element-wise equal, and by Fill/At when arity doesn't match rank.
	ErrShapeMismatch = errors.New("hist: shape mismatch")

	// ErrOutOfRange is returned by At when an index exceeds its axis extent.
	ErrOutOfRange = errors.New("hist: index out of range")

	// ErrNotAscending is returned by ReduceTo when the kept axis indices
	// are not strictly ascending.
	ErrNotAscending = errors.New("hist: reduce_to axis indices must be strictly ascending")

	// ErrCorruptStream is returned by Load when the histogram-level framing
	// cannot be decoded. A malformed axis record or storage body is reported
	// with axis.ErrCorruptStream or storage.ErrCorruptStream instead.
	ErrCorruptStream = errors.New("hist: corrupt stream")

	// ErrUnsupportedVersion is returned by Load when the stream's major
	// version byte doesn't match a version this build understands.
	ErrUnsupportedVersion = errors.New("hist: unsupported stream version")
)
