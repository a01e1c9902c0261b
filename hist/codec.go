package hist

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"github.com/fako1024/nhist/axis"
	"github.com/fako1024/nhist/storage"
)

// formatVersion is the single-byte wire format version written at the head
// of every serialized histogram, per spec.md §4.6. It must be bumped, never
// reinterpreted, on any incompatible framing change.
const formatVersion = 1

// Save writes the histogram's wire representation to w: a version byte, the
// axis collection, then the storage body. Integers are little-endian
// regardless of host.
func (h *Histogram) Save(w io.Writer) error {
	buf := []byte{formatVersion}

	buf = appendUvarint(buf, uint64(len(h.axes)))
	for _, a := range h.axes {
		buf = axis.Encode(a, buf)
	}

	suppressed, body := h.store.EncodeBody()
	buf = append(buf, byte(h.store.Depth().Byte()))
	if suppressed {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	buf = appendUvarint(buf, uint64(h.store.Len()))
	buf = appendUvarint(buf, uint64(len(body)))
	buf = append(buf, body...)

	_, err := w.Write(buf)
	return errors.Wrap(err, "hist: Save")
}

// Load reconstructs a histogram from a stream written by Save.
func Load(r io.Reader) (*Histogram, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "hist: Load")
	}
	if len(raw) < 1 {
		return nil, errors.Wrap(ErrCorruptStream, "empty stream")
	}
	if raw[0] != formatVersion {
		return nil, errors.Wrapf(ErrUnsupportedVersion, "hist: got version %d, want %d", raw[0], formatVersion)
	}
	pos := 1

	nAxes, n, err := readUvarint(raw[pos:])
	if err != nil {
		return nil, err
	}
	pos += n

	axes := make([]axis.Axis, nAxes)
	for i := range axes {
		a, n, err := axis.Decode(raw[pos:])
		if err != nil {
			return nil, err
		}
		axes[i] = a
		pos += n
	}

	if pos >= len(raw) {
		return nil, errors.Wrap(ErrCorruptStream, "truncated storage header")
	}
	depth, err := storage.DepthFromByte(raw[pos])
	if err != nil {
		return nil, err
	}
	pos++

	if pos >= len(raw) {
		return nil, errors.Wrap(ErrCorruptStream, "truncated suppression flag")
	}
	suppressed := raw[pos] != 0
	pos++

	size, n, err := readUvarint(raw[pos:])
	if err != nil {
		return nil, err
	}
	pos += n

	bodyLen, n, err := readUvarint(raw[pos:])
	if err != nil {
		return nil, err
	}
	pos += n

	if pos+int(bodyLen) > len(raw) {
		return nil, errors.Wrap(ErrCorruptStream, "truncated storage body")
	}
	body := raw[pos : pos+int(bodyLen)]

	store, err := storage.DecodeBody(int(size), depth, suppressed, body)
	if err != nil {
		return nil, err
	}

	return &Histogram{axes: axes, store: store}, nil
}

func appendUvarint(buf []byte, v uint64) []byte {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	return append(buf, tmp[:n]...)
}

func readUvarint(buf []byte) (uint64, int, error) {
	v, n := binary.Uvarint(buf)
	if n <= 0 {
		return 0, 0, errors.Wrap(ErrCorruptStream, "bad uvarint")
	}
	return v, n, nil
}
