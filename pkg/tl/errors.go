package tl

import (
	"errors"
	"fmt"
)

var (
	// ErrNilValue is returned when a nil sum-type value is encoded or converted.
	ErrNilValue = errors.New("tl: nil value")

	// ErrValueTooLarge is returned when a string or byte slice exceeds the
	// 24-bit length prefix.
	ErrValueTooLarge = errors.New("tl: value exceeds maximum encodable length")
)

// TruncatedDataError reports input that ended before a value was complete.
type TruncatedDataError struct {
	Offset int // Position of the value that could not be read
	Need   int // Bytes required
	Have   int // Bytes remaining
}

func (e *TruncatedDataError) Error() string {
	return fmt.Sprintf("tl: truncated data at offset %d: need %d bytes, have %d", e.Offset, e.Need, e.Have)
}

// UnknownConstructorError reports a constructor id that does not belong to the
// type being decoded.
type UnknownConstructorError struct {
	Type string
	ID   uint32
}

func (e *UnknownConstructorError) Error() string {
	return fmt.Sprintf("tl: unknown constructor %#08x for type %s", e.ID, e.Type)
}

// UnsupportedVariantError reports an external value whose variant has no local
// counterpart.
type UnsupportedVariantError struct {
	Type    string
	Variant string
}

func (e *UnsupportedVariantError) Error() string {
	return fmt.Sprintf("tl: variant %s of %s has no local counterpart", e.Variant, e.Type)
}

// TrailingDataError reports bytes left over after a complete value was decoded.
type TrailingDataError struct {
	Remaining int
}

func (e *TrailingDataError) Error() string {
	return fmt.Sprintf("tl: %d trailing bytes after value", e.Remaining)
}
