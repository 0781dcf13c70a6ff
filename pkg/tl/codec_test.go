package tl_test

import (
	"strings"
	"testing"

	"github.com/simonhull/tlgen/pkg/tl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const idList uint32 = 0x1a2b3c4d

// list mirrors what the generator emits for `list items:vector<int32> = List;`.
type list struct {
	Items []int32
}

func (*list) TypeID() uint32 { return idList }

func (v *list) EncodeBare(e *tl.Encoder) error {
	if v == nil {
		return tl.ErrNilValue
	}
	e.PutVectorLen(len(v.Items))
	for _, item := range v.Items {
		e.PutInt32(item)
	}
	return nil
}

func (v *list) DecodeBare(d *tl.Decoder) error {
	var x list
	n, err := d.VectorLen()
	if err != nil {
		return err
	}
	x.Items = make([]int32, n)
	for i := range x.Items {
		if x.Items[i], err = d.Int32(); err != nil {
			return err
		}
	}
	*v = x
	return nil
}

func decodeList(d *tl.Decoder) (*list, error) {
	id, err := d.ID()
	if err != nil {
		return nil, err
	}
	if id != idList {
		return nil, &tl.UnknownConstructorError{Type: "List", ID: id}
	}
	v := new(list)
	if err := v.DecodeBare(d); err != nil {
		return nil, err
	}
	return v, nil
}

func TestScalarRoundTrip(t *testing.T) {
	long := strings.Repeat("x", 300)

	e := tl.NewEncoder()
	e.PutInt32(-7)
	e.PutInt53(tl.MaxInt53)
	e.PutInt64(-1 << 62)
	e.PutDouble(3.25)
	e.PutString("hello")
	e.PutString(long)
	e.PutBytes([]byte{})
	e.PutPresent(false)
	e.PutPresent(true)
	require.NoError(t, e.Err())
	assert.Zero(t, e.Len()%4, "every value is 4-byte aligned")

	d := tl.NewDecoder(e.Bytes())
	i32, err := d.Int32()
	require.NoError(t, err)
	assert.Equal(t, int32(-7), i32)

	i53, err := d.Int53()
	require.NoError(t, err)
	assert.Equal(t, tl.MaxInt53, i53)

	i64, err := d.Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(-1<<62), i64)

	f, err := d.Double()
	require.NoError(t, err)
	assert.Equal(t, 3.25, f)

	s, err := d.String()
	require.NoError(t, err)
	assert.Equal(t, "hello", s)

	s, err = d.String()
	require.NoError(t, err)
	assert.Equal(t, long, s)

	b, err := d.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{}, b)

	present, err := d.Present()
	require.NoError(t, err)
	assert.False(t, present)

	present, err = d.Present()
	require.NoError(t, err)
	assert.True(t, present)

	assert.NoError(t, d.Done())
}

func TestEmptyVectorIsDistinct(t *testing.T) {
	buf, err := tl.Marshal(&list{Items: []int32{}})
	require.NoError(t, err)

	got, err := tl.Unmarshal(buf, decodeList)
	require.NoError(t, err)
	assert.NotNil(t, got.Items)
	assert.Empty(t, got.Items)

	buf, err = tl.Marshal(&list{Items: []int32{1, 2, 3}})
	require.NoError(t, err)
	got, err = tl.Unmarshal(buf, decodeList)
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 2, 3}, got.Items)
}

func TestTruncatedData(t *testing.T) {
	buf, err := tl.Marshal(&list{Items: []int32{1, 2, 3}})
	require.NoError(t, err)

	got, err := tl.Unmarshal(buf[:len(buf)-2], decodeList)
	var truncated *tl.TruncatedDataError
	require.ErrorAs(t, err, &truncated)
	assert.Nil(t, got)
}

func TestVectorLenGuardsAllocation(t *testing.T) {
	e := tl.NewEncoder()
	e.PutID(idList)
	e.PutVectorLen(1 << 30)

	_, err := tl.Unmarshal(e.Bytes(), decodeList)
	var truncated *tl.TruncatedDataError
	assert.ErrorAs(t, err, &truncated)
}

func TestUnknownConstructor(t *testing.T) {
	e := tl.NewEncoder()
	e.PutID(0xdeadbeef)

	_, err := tl.Unmarshal(e.Bytes(), decodeList)
	var unknown *tl.UnknownConstructorError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, uint32(0xdeadbeef), unknown.ID)
	assert.Equal(t, "List", unknown.Type)
}

func TestTrailingData(t *testing.T) {
	buf, err := tl.Marshal(&list{Items: []int32{1}})
	require.NoError(t, err)

	_, err = tl.Unmarshal(append(buf, 0, 0, 0, 0), decodeList)
	var trailing *tl.TrailingDataError
	require.ErrorAs(t, err, &trailing)
	assert.Equal(t, 4, trailing.Remaining)
}

func TestMarshalNil(t *testing.T) {
	_, err := tl.Marshal(nil)
	assert.ErrorIs(t, err, tl.ErrNilValue)
}

func TestInvalidPresenceMarker(t *testing.T) {
	e := tl.NewEncoder()
	e.PutID(0x12345678)

	_, err := tl.NewDecoder(e.Bytes()).Present()
	var unknown *tl.UnknownConstructorError
	assert.ErrorAs(t, err, &unknown)
}

func TestInt53Range(t *testing.T) {
	assert.True(t, tl.MaxInt53.Valid())
	assert.True(t, tl.MinInt53.Valid())
	assert.False(t, (tl.MaxInt53 + 1).Valid())
}
