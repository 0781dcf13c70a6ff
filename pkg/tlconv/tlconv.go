// Package tlconv holds the fixed conversion rules between builtin TL scalars and
// their representation in the external API, one rule per scalar. Generated
// conversion code calls To* when converting local values outward and From* when
// converting external values back.
package tlconv

import "github.com/simonhull/tlgen/pkg/tl"

func ToInt32(v int32) int32 { return v }

func ToInt53(v tl.Int53) int64 { return int64(v) }

func ToInt64(v int64) int64 { return v }

func ToDouble(v float64) float64 { return v }

func ToString(v string) string { return v }

// ToBytes copies v so the external value does not alias local storage.
func ToBytes(v []byte) []byte {
	if v == nil {
		return nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out
}

// ToBool maps the TL Bool sum type onto a plain bool.
func ToBool(v tl.Object) bool {
	return v != nil && v.TypeID() == tl.BoolTrueID
}

func FromInt32(v int32) int32 { return v }

// FromInt53 narrows an external int64. Values outside the 53-bit range keep
// their bits; Int53.Valid reports whether they are safe.
func FromInt53(v int64) tl.Int53 { return tl.Int53(v) }

func FromInt64(v int64) int64 { return v }

func FromDouble(v float64) float64 { return v }

func FromString(v string) string { return v }

func FromBytes(v []byte) []byte { return ToBytes(v) }

// FromBool picks between the local boolTrue and boolFalse values.
func FromBool[T any](v bool, yes, no T) T {
	if v {
		return yes
	}
	return no
}

// ToVector converts each element of a local vector.
func ToVector[L, E any](v []L, conv func(L) E) []E {
	if v == nil {
		return nil
	}
	out := make([]E, len(v))
	for i, elem := range v {
		out[i] = conv(elem)
	}
	return out
}

// FromVector converts each element of an external vector, stopping at the
// first failure. A failed conversion returns nil rather than a partial slice.
func FromVector[E, L any](v []E, conv func(E) (L, error)) ([]L, error) {
	if v == nil {
		return nil, nil
	}
	out := make([]L, len(v))
	for i, elem := range v {
		l, err := conv(elem)
		if err != nil {
			return nil, err
		}
		out[i] = l
	}
	return out, nil
}
