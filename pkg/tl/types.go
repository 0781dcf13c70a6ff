package tl

// Reserved constructor identifiers.
const (
	// NullID marks an absent nullable field.
	NullID uint32 = 0x56730bcc
	// PresentID marks a present nullable field.
	PresentID uint32 = 0x3fedd339
	// BoolFalseID and BoolTrueID are the constructors of the TL Bool type.
	BoolFalseID uint32 = 0xbc799737
	BoolTrueID  uint32 = 0x997275b5
)

// Object is implemented by every generated constructor and function.
type Object interface {
	TypeID() uint32
}

// Encodable is an Object that can write its fields to an Encoder.
type Encodable interface {
	Object
	EncodeBare(e *Encoder) error
}

// Decodable is an Object that can read its fields from a Decoder.
type Decodable interface {
	Object
	DecodeBare(d *Decoder) error
}

// Int53 is a signed integer stored in 64 bits on the wire but only safe up to
// 53 bits of precision, matching the numeric range of the external API.
type Int53 int64

const (
	MaxInt53 Int53 = 1<<53 - 1
	MinInt53 Int53 = -(1<<53 - 1)
)

// Valid reports whether v is representable without precision loss.
func (v Int53) Valid() bool {
	return v >= MinInt53 && v <= MaxInt53
}
