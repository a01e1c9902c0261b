package storage

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

// ErrCorruptStream is returned when a serialized storage body cannot be
// decoded under the depth/size declared in its header.
var ErrCorruptStream = errors.New("storage: corrupt stream")

// Byte encodes a Depth as the on-disk width-class byte described in
// spec.md §4.6. DepthUninitialized is indistinguishable on disk from an
// all-zero Depth8 storage, which is the correct round-trip: Equal treats
// them identically.
func (d Depth) Byte() byte {
	if d == DepthUninitialized {
		return byte(Depth8)
	}
	return byte(d)
}

// DepthFromByte decodes a width-class byte written by Depth.Byte.
func DepthFromByte(b byte) (Depth, error) {
	d := Depth(b)
	if d < Depth8 || d > DepthWeighted {
		return 0, errors.Wrap(ErrCorruptStream, "invalid depth byte")
	}
	return d, nil
}

// cellWidth returns the on-disk width, in bytes, of a single raw cell at the
// given depth.
func cellWidth(d Depth) int {
	switch d {
	case Depth8:
		return 1
	case Depth16:
		return 2
	case Depth32:
		return 4
	case Depth64:
		return 8
	case DepthWeighted:
		return 16
	default:
		panic("storage: invalid depth")
	}
}

// EncodeBody serializes the storage body, choosing whichever of the raw or
// zero-suppressed encodings is smaller (spec.md §4.6 step 3: zero
// suppression is attempted first and only kept if it wins).
func (s *Storage) EncodeBody() (suppressed bool, payload []byte) {
	raw := s.encodeRaw()
	zs := s.encodeZeroSuppressed()
	if len(zs) < len(raw) {
		return true, zs
	}
	return false, raw
}

func (s *Storage) encodeRaw() []byte {
	depth := s.depth
	if depth == DepthUninitialized {
		depth = Depth8
	}
	buf := make([]byte, s.size*cellWidth(depth))
	for i := 0; i < s.size; i++ {
		off := i * cellWidth(depth)
		switch depth {
		case Depth8:
			buf[off] = byte(s.countAtSafe(i))
		case Depth16:
			binary.LittleEndian.PutUint16(buf[off:], uint16(s.countAtSafe(i)))
		case Depth32:
			binary.LittleEndian.PutUint32(buf[off:], uint32(s.countAtSafe(i)))
		case Depth64:
			binary.LittleEndian.PutUint64(buf[off:], s.countAtSafe(i))
		case DepthWeighted:
			binary.LittleEndian.PutUint64(buf[off:], math.Float64bits(s.w[i].sumW))
			binary.LittleEndian.PutUint64(buf[off+8:], math.Float64bits(s.w[i].sumW2))
		}
	}
	return buf
}

// countAtSafe is countAt but tolerant of DepthUninitialized (returns 0).
func (s *Storage) countAtSafe(i int) uint64 {
	if s.depth == DepthUninitialized {
		return 0
	}
	return s.countAt(i)
}

func (s *Storage) isZero(i int) bool {
	if s.depth == DepthWeighted {
		return s.w[i].sumW == 0 && s.w[i].sumW2 == 0
	}
	return s.countAtSafe(i) == 0
}

// encodeZeroSuppressed emits a run-length stream of (nonzero-value,
// run-of-zeros-after) records, as varint-framed counts/values for integer
// depths and fixed-width float64 pairs for the weighted depth. The first
// record always describes bin 0 (its value may be zero), so leading zeros are
// covered by that record's zero run and the decoder can start at bin 0.
func (s *Storage) encodeZeroSuppressed() []byte {
	var recs [][]byte
	var varintBuf [binary.MaxVarintLen64]byte

	i := 0
	for i < s.size {
		valBuf := s.encodeCellValue(i, varintBuf[:])
		zeros := 0
		j := i + 1
		for j < s.size && s.isZero(j) {
			zeros++
			j++
		}
		n := binary.PutUvarint(varintBuf[:], uint64(zeros))
		rec := append(append([]byte(nil), valBuf...), varintBuf[:n]...)
		recs = append(recs, rec)
		i = j
	}

	header := make([]byte, binary.MaxVarintLen64)
	n := binary.PutUvarint(header, uint64(len(recs)))
	out := append([]byte(nil), header[:n]...)
	for _, r := range recs {
		out = append(out, r...)
	}
	return out
}

// encodeCellValue returns the encoded value at bin i (not its zero run) as a
// new slice; scratch is a varint work buffer. Integer depths use a varint; the weighted
// depth uses two fixed-width float64 fields since weights aren't integral.
func (s *Storage) encodeCellValue(i int, scratch []byte) []byte {
	if s.depth == DepthWeighted {
		buf := make([]byte, 16)
		binary.LittleEndian.PutUint64(buf, math.Float64bits(s.w[i].sumW))
		binary.LittleEndian.PutUint64(buf[8:], math.Float64bits(s.w[i].sumW2))
		return buf
	}
	n := binary.PutUvarint(scratch, s.countAtSafe(i))
	return append([]byte(nil), scratch[:n]...)
}

// DecodeBody reconstructs a Storage of the given size and depth from a body
// payload written by EncodeBody.
func DecodeBody(size int, depth Depth, suppressed bool, payload []byte) (*Storage, error) {
	if suppressed {
		return decodeZeroSuppressed(size, depth, payload)
	}
	return decodeRaw(size, depth, payload)
}

func decodeRaw(size int, depth Depth, payload []byte) (*Storage, error) {
	w := cellWidth(depth)
	if len(payload) != size*w {
		return nil, errors.Wrap(ErrCorruptStream, "raw body length mismatch")
	}
	s := allocForDepth(size, depth)
	for i := 0; i < size; i++ {
		off := i * w
		switch depth {
		case Depth8:
			s.u8[i] = payload[off]
		case Depth16:
			s.u16[i] = binary.LittleEndian.Uint16(payload[off:])
		case Depth32:
			s.u32[i] = binary.LittleEndian.Uint32(payload[off:])
		case Depth64:
			s.u64[i] = binary.LittleEndian.Uint64(payload[off:])
		case DepthWeighted:
			s.w[i] = weightedCell{
				sumW:  math.Float64frombits(binary.LittleEndian.Uint64(payload[off:])),
				sumW2: math.Float64frombits(binary.LittleEndian.Uint64(payload[off+8:])),
			}
		}
	}
	return s, nil
}

func decodeZeroSuppressed(size int, depth Depth, payload []byte) (*Storage, error) {
	s := allocForDepth(size, depth)

	buf := payload
	nRecs, n := binary.Uvarint(buf)
	if n <= 0 {
		return nil, errors.Wrap(ErrCorruptStream, "bad record count")
	}
	buf = buf[n:]

	cursor := 0
	for r := uint64(0); r < nRecs; r++ {
		if cursor >= size {
			return nil, errors.Wrap(ErrCorruptStream, "record beyond storage size")
		}
		if depth == DepthWeighted {
			if len(buf) < 16 {
				return nil, errors.Wrap(ErrCorruptStream, "truncated weighted value")
			}
			s.w[cursor] = weightedCell{
				sumW:  math.Float64frombits(binary.LittleEndian.Uint64(buf)),
				sumW2: math.Float64frombits(binary.LittleEndian.Uint64(buf[8:])),
			}
			buf = buf[16:]
		} else {
			val, vn := binary.Uvarint(buf)
			if vn <= 0 {
				return nil, errors.Wrap(ErrCorruptStream, "bad cell value")
			}
			buf = buf[vn:]
			setCount(s, cursor, val)
		}

		zeros, zn := binary.Uvarint(buf)
		if zn <= 0 {
			return nil, errors.Wrap(ErrCorruptStream, "bad zero run")
		}
		buf = buf[zn:]

		cursor += 1 + int(zeros)
	}

	return s, nil
}

func allocForDepth(size int, depth Depth) *Storage {
	s := &Storage{size: size, depth: depth}
	switch depth {
	case Depth8:
		s.u8 = make([]uint8, size)
	case Depth16:
		s.u16 = make([]uint16, size)
	case Depth32:
		s.u32 = make([]uint32, size)
	case Depth64:
		s.u64 = make([]uint64, size)
	case DepthWeighted:
		s.w = make([]weightedCell, size)
	}
	return s
}

func setCount(s *Storage, i int, v uint64) {
	switch s.depth {
	case Depth8:
		s.u8[i] = uint8(v)
	case Depth16:
		s.u16[i] = uint16(v)
	case Depth32:
		s.u32[i] = uint32(v)
	case Depth64:
		s.u64[i] = v
	}
}
