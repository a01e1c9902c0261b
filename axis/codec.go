package axis

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

// ErrCorruptStream is returned when an axis cannot be decoded from a stream.
var ErrCorruptStream = errors.New("axis: corrupt stream")

// Encode appends the wire representation of a (kind tag, metadata, option
// bits) triple for a, per spec.md §4.6.
func Encode(a Axis, buf []byte) []byte {
	buf = append(buf, byte(a.Kind()))

	switch v := a.(type) {
	case *Regular:
		buf = appendUvarint(buf, uint64(v.n))
		buf = appendFloat64(buf, v.lo)
		buf = appendFloat64(buf, v.hi)
	case *Integer:
		buf = appendVarint(buf, v.lo)
		buf = appendVarint(buf, v.hi)
	case *Categorical:
		buf = appendUvarint(buf, uint64(len(v.labels)))
		for _, l := range v.labels {
			buf = appendUvarint(buf, uint64(len(l)))
			buf = append(buf, l...)
		}
	default:
		panic("axis: unknown concrete type for encoding")
	}

	return append(buf, byte(a.Options()))
}

// Decode reads one axis (as written by Encode) from buf, returning the axis
// and the number of bytes consumed.
func Decode(buf []byte) (Axis, int, error) {
	if len(buf) < 1 {
		return nil, 0, errors.Wrap(ErrCorruptStream, "empty axis record")
	}
	kind := Kind(buf[0])
	pos := 1

	switch kind {
	case KindRegular, KindGrowableRegular:
		n, m, err := readUvarint(buf[pos:])
		if err != nil {
			return nil, 0, err
		}
		pos += m
		lo, m, err := readFloat64(buf[pos:])
		if err != nil {
			return nil, 0, err
		}
		pos += m
		hi, m, err := readFloat64(buf[pos:])
		if err != nil {
			return nil, 0, err
		}
		pos += m
		opts, m, err := readByte(buf[pos:])
		if err != nil {
			return nil, 0, err
		}
		pos += m
		if kind == KindGrowableRegular {
			return &Regular{lo: lo, hi: hi, n: uint32(n), opts: Options(opts), grow: true}, pos, nil
		}
		return &Regular{lo: lo, hi: hi, n: uint32(n), opts: Options(opts)}, pos, nil

	case KindInteger, KindGrowableInteger:
		lo, m, err := readVarint(buf[pos:])
		if err != nil {
			return nil, 0, err
		}
		pos += m
		hi, m, err := readVarint(buf[pos:])
		if err != nil {
			return nil, 0, err
		}
		pos += m
		opts, m, err := readByte(buf[pos:])
		if err != nil {
			return nil, 0, err
		}
		pos += m
		if kind == KindGrowableInteger {
			return &Integer{lo: lo, hi: hi, opts: Options(opts), grow: true}, pos, nil
		}
		return &Integer{lo: lo, hi: hi, opts: Options(opts)}, pos, nil

	case KindCategorical:
		nLabels, m, err := readUvarint(buf[pos:])
		if err != nil {
			return nil, 0, err
		}
		pos += m
		labels := make([]string, nLabels)
		for i := range labels {
			ln, m, err := readUvarint(buf[pos:])
			if err != nil {
				return nil, 0, err
			}
			pos += m
			if pos+int(ln) > len(buf) {
				return nil, 0, errors.Wrap(ErrCorruptStream, "truncated label")
			}
			labels[i] = string(buf[pos : pos+int(ln)])
			pos += int(ln)
		}
		opts, m, err := readByte(buf[pos:])
		if err != nil {
			return nil, 0, err
		}
		pos += m
		return NewCategorical(labels, Options(opts)), pos, nil

	default:
		return nil, 0, errors.Wrap(ErrCorruptStream, "unknown axis kind tag")
	}
}

func appendUvarint(buf []byte, v uint64) []byte {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	return append(buf, tmp[:n]...)
}

func appendVarint(buf []byte, v int64) []byte {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutVarint(tmp[:], v)
	return append(buf, tmp[:n]...)
}

func appendFloat64(buf []byte, v float64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(v))
	return append(buf, tmp[:]...)
}

func readUvarint(buf []byte) (uint64, int, error) {
	v, n := binary.Uvarint(buf)
	if n <= 0 {
		return 0, 0, errors.Wrap(ErrCorruptStream, "bad uvarint")
	}
	return v, n, nil
}

func readVarint(buf []byte) (int64, int, error) {
	v, n := binary.Varint(buf)
	if n <= 0 {
		return 0, 0, errors.Wrap(ErrCorruptStream, "bad varint")
	}
	return v, n, nil
}

func readFloat64(buf []byte) (float64, int, error) {
	if len(buf) < 8 {
		return 0, 0, errors.Wrap(ErrCorruptStream, "truncated float64")
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(buf)), 8, nil
}

func readByte(buf []byte) (byte, int, error) {
	if len(buf) < 1 {
		return 0, 0, errors.Wrap(ErrCorruptStream, "truncated options byte")
	}
	return buf[0], 1, nil
}
