package tl

import (
	"encoding/binary"
	"math"
)

// minElementSize is the smallest encoding of any vector element.
const minElementSize = 4

// Decoder reads TL-encoded values from a byte slice.
type Decoder struct {
	buf []byte
	off int
}

// NewDecoder creates a decoder over buf. The slice is not copied.
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

// Offset returns the number of bytes consumed.
func (d *Decoder) Offset() int {
	return d.off
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int {
	return len(d.buf) - d.off
}

// Done returns TrailingDataError if unread bytes remain.
func (d *Decoder) Done() error {
	if n := d.Remaining(); n > 0 {
		return &TrailingDataError{Remaining: n}
	}
	return nil
}

func (d *Decoder) take(n int) ([]byte, error) {
	if d.Remaining() < n {
		return nil, &TruncatedDataError{Offset: d.off, Need: n, Have: d.Remaining()}
	}
	b := d.buf[d.off : d.off+n]
	d.off += n
	return b, nil
}

func (d *Decoder) ID() (uint32, error) {
	b, err := d.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (d *Decoder) Int32() (int32, error) {
	b, err := d.take(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

func (d *Decoder) Int53() (Int53, error) {
	b, err := d.take(8)
	if err != nil {
		return 0, err
	}
	return Int53(binary.LittleEndian.Uint64(b)), nil
}

func (d *Decoder) Int64() (int64, error) {
	b, err := d.take(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(b)), nil
}

func (d *Decoder) Double() (float64, error) {
	b, err := d.take(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
}

func (d *Decoder) String() (string, error) {
	b, err := d.raw()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Bytes returns a copy of the next byte string.
func (d *Decoder) Bytes() ([]byte, error) {
	b, err := d.raw()
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

func (d *Decoder) raw() ([]byte, error) {
	start := d.off
	head, err := d.take(1)
	if err != nil {
		return nil, err
	}
	n, prefix := int(head[0]), 1
	if head[0] == longLenMark {
		ext, err := d.take(3)
		if err != nil {
			d.off = start
			return nil, err
		}
		n = int(ext[0]) | int(ext[1])<<8 | int(ext[2])<<16
		prefix = 4
	}
	padded := n
	for (padded+prefix)%4 != 0 {
		padded++
	}
	b, err := d.take(padded)
	if err != nil {
		d.off = start
		return nil, err
	}
	return b[:n], nil
}

// VectorLen reads a vector element count. Counts that the remaining input
// cannot possibly satisfy fail before any allocation happens.
func (d *Decoder) VectorLen() (int, error) {
	start := d.off
	b, err := d.take(4)
	if err != nil {
		return 0, err
	}
	n := int(binary.LittleEndian.Uint32(b))
	if n > d.Remaining()/minElementSize {
		d.off = start
		return 0, &TruncatedDataError{Offset: d.off + 4, Need: n * minElementSize, Have: d.Remaining() - 4}
	}
	return n, nil
}

// Present reads the presence marker of a nullable field.
func (d *Decoder) Present() (bool, error) {
	id, err := d.ID()
	if err != nil {
		return false, err
	}
	switch id {
	case PresentID:
		return true, nil
	case NullID:
		return false, nil
	default:
		return false, &UnknownConstructorError{Type: "Nullable", ID: id}
	}
}

// Unmarshal decodes buf with decode and requires every byte to be consumed.
func Unmarshal[T any](buf []byte, decode func(d *Decoder) (T, error)) (T, error) {
	d := NewDecoder(buf)
	v, err := decode(d)
	if err != nil {
		var zero T
		return zero, err
	}
	if err := d.Done(); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}
