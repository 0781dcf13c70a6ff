package tl

import (
	"encoding/binary"
	"math"
)

const (
	maxShortLen = 253
	longLenMark = 0xfe
	maxLongLen  = 1<<24 - 1
)

// Encoder appends TL-encoded values to a byte buffer.
//
// Length violations are sticky: the first one is kept and reported by Err,
// and later writes still append so that offsets stay consistent.
type Encoder struct {
	buf []byte
	err error
}

// NewEncoder creates an encoder with an empty buffer.
func NewEncoder() *Encoder {
	return &Encoder{buf: make([]byte, 0, 64)}
}

// Bytes returns the encoded buffer.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Len returns the number of bytes written so far.
func (e *Encoder) Len() int {
	return len(e.buf)
}

// Err returns the first length violation, if any.
func (e *Encoder) Err() error {
	return e.err
}

// Reset clears the buffer and error for reuse.
func (e *Encoder) Reset() {
	e.buf = e.buf[:0]
	e.err = nil
}

func (e *Encoder) PutID(id uint32) {
	e.buf = binary.LittleEndian.AppendUint32(e.buf, id)
}

func (e *Encoder) PutInt32(v int32) {
	e.buf = binary.LittleEndian.AppendUint32(e.buf, uint32(v))
}

func (e *Encoder) PutInt53(v Int53) {
	e.buf = binary.LittleEndian.AppendUint64(e.buf, uint64(v))
}

func (e *Encoder) PutInt64(v int64) {
	e.buf = binary.LittleEndian.AppendUint64(e.buf, uint64(v))
}

func (e *Encoder) PutDouble(v float64) {
	e.buf = binary.LittleEndian.AppendUint64(e.buf, math.Float64bits(v))
}

func (e *Encoder) PutString(v string) {
	e.putLen(len(v))
	e.buf = append(e.buf, v...)
	e.pad(len(v))
}

func (e *Encoder) PutBytes(v []byte) {
	e.putLen(len(v))
	e.buf = append(e.buf, v...)
	e.pad(len(v))
}

// PutVectorLen writes the element count that precedes vector elements.
func (e *Encoder) PutVectorLen(n int) {
	e.buf = binary.LittleEndian.AppendUint32(e.buf, uint32(n))
}

// PutPresent writes the presence marker of a nullable field.
func (e *Encoder) PutPresent(present bool) {
	if present {
		e.PutID(PresentID)
	} else {
		e.PutID(NullID)
	}
}

// PutObject writes a boxed value: the constructor id followed by its fields.
func (e *Encoder) PutObject(v Encodable) error {
	if v == nil {
		return ErrNilValue
	}
	e.PutID(v.TypeID())
	return v.EncodeBare(e)
}

func (e *Encoder) putLen(n int) {
	if n <= maxShortLen {
		e.buf = append(e.buf, byte(n))
		return
	}
	if n > maxLongLen && e.err == nil {
		e.err = ErrValueTooLarge
	}
	e.buf = append(e.buf, longLenMark, byte(n), byte(n>>8), byte(n>>16))
}

// pad aligns the string just written (prefix included) to 4 bytes.
func (e *Encoder) pad(n int) {
	total := n + 1
	if n > maxShortLen {
		total = n + 4
	}
	for total%4 != 0 {
		e.buf = append(e.buf, 0)
		total++
	}
}

// Marshal encodes v as a boxed value.
func Marshal(v Encodable) ([]byte, error) {
	e := NewEncoder()
	if err := e.PutObject(v); err != nil {
		return nil, err
	}
	if err := e.Err(); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}
