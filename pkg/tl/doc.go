// Package tl is the runtime wire codec used by code generated with tlgen.
//
// # Wire format
//
// All values are little-endian and fixed width:
//
//   - int32: 4 bytes
//   - int53, int64: 8 bytes (two's complement)
//   - double: 8 bytes (IEEE 754)
//   - string, bytes: TL length prefix (one byte for lengths up to 253, otherwise
//     0xFE followed by a 3-byte length), the data, then zero padding to a multiple
//     of 4 bytes
//   - vector: uint32 element count followed by each element
//   - boxed value: uint32 constructor id followed by the constructor's fields
//
// Sum-type fields and vector elements of a sum type are always boxed, since the
// constructor id selects the variant. Nullable fields are prefixed with NullID
// when absent or PresentID when present.
//
// # Usage
//
//	buf, err := tl.Marshal(tdb.MakeUser(42, "alice"))
//	if err != nil {
//	    return err
//	}
//	user, err := tdb.UnmarshalTLUser(buf)
//
// Decoding never returns a partially populated value: generated readers decode
// into a temporary and assign only after every field has been read.
package tl
